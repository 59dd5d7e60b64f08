// Package clientcli provides a client library for requesting signed download
// URLs from a secure URL server.
//
// The package includes profile-based configuration for managing connections
// to multiple servers.
//
// # Basic Usage
//
// Create a client and request a signed URL:
//
//	cfg := &clientcli.Config{
//		Endpoint: "http://localhost:8000",
//	}
//
//	client, err := clientcli.New(cfg)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	result, err := client.GetURL(ctx, clientcli.GetURLOptions{
//		Filename:  "reports/q3.pdf",
//		ExpiresIn: 600,
//	})
//
// # Profile Configuration
//
// Use profiles to manage multiple server configurations:
//
//	configFile, err := clientcli.LoadConfigFile(clientcli.DefaultConfigPath())
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	profile, err := configFile.GetProfile("production")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	cfg := clientcli.ConfigFromProfile(profile)
//	client, err := clientcli.New(cfg)
//
// # Output Formatting
//
// Use formatters for human-readable or JSON output:
//
//	formatter := clientcli.NewFormatter(jsonOutput, quiet)
//	formatter.FormatURL(os.Stdout, result)
package clientcli

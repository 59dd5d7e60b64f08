package main

import (
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/Choreogrifi/cgf-secure-url-service/clientcli"
)

var (
	version = "dev"

	cfgFile    string
	endpoint   string
	profile    string
	jsonOutput bool
	quiet      bool
)

var rootCmd = &cobra.Command{
	Use:     "securl-cli",
	Version: version,
	Short:   "Client for the signed URL service",
	Long: `Securl CLI - Client for the signed download URL service

Request time-limited signed download URLs for objects stored in the
service's bucket. Profiles saved with 'configure' let you switch between
servers using --profile or SECURL_PROFILE.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default: ~/.securl/config.yaml)")
	rootCmd.PersistentFlags().StringVarP(&endpoint, "endpoint", "e", "", "server URL (default: http://localhost:8000, env: SECURL_ENDPOINT)")
	rootCmd.PersistentFlags().StringVarP(&profile, "profile", "p", "", "profile name (env: SECURL_PROFILE)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output as JSON")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress non-essential output")

	rootCmd.AddCommand(getCmd)
	rootCmd.AddCommand(echoCmd)
	rootCmd.AddCommand(configureCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// getConfigPath resolves the config file path from flag, env, or default.
func getConfigPath() string {
	if cfgFile != "" {
		return cfgFile
	}
	if envPath := clientcli.ConfigPathFromEnv(); envPath != "" {
		return envPath
	}
	return clientcli.DefaultConfigPath()
}

// buildConfig merges config from profile, env vars, and flags (flags take precedence).
func buildConfig() (*clientcli.Config, error) {
	var configs []*clientcli.Config

	// 1. Resolve profile from config file
	profileName := profile
	if profileName == "" {
		profileName = clientcli.ProfileFromEnv()
	}

	configPath := getConfigPath()
	if configPath != "" {
		fileCfg, err := clientcli.LoadConfigFile(configPath)
		if err == nil {
			p, profileErr := fileCfg.GetProfile(profileName)
			if profileErr != nil && profileName != "" {
				return nil, profileErr
			}
			if profileErr == nil {
				configs = append(configs, clientcli.ConfigFromProfile(p))
			}
		} else if cfgFile != "" {
			// Only error when the user explicitly asked for this file
			return nil, err
		}
	}

	// 2. Load from environment variables
	configs = append(configs, clientcli.ConfigFromEnv())

	// 3. Load from flags
	configs = append(configs, &clientcli.Config{Endpoint: endpoint})

	return clientcli.MergeConfig(configs...), nil
}

// getFormatter returns the appropriate formatter based on flags.
func getFormatter() clientcli.Formatter {
	return clientcli.NewFormatter(jsonOutput, quiet)
}

// getClient creates and returns a configured client.
func getClient() (*clientcli.Client, error) {
	cfg, err := buildConfig()
	if err != nil {
		return nil, err
	}

	return clientcli.New(cfg)
}

// handleError formats a server error for the user and returns it so cobra
// exits non-zero. Errors are silenced on the root command to avoid double
// printing.
func handleError(w io.Writer, err error) error {
	formatter := getFormatter()
	_ = formatter.FormatError(w, err)
	return err
}

package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/Choreogrifi/cgf-secure-url-service/clientcli"
)

var getExpiresIn int

var getCmd = &cobra.Command{
	Use:   "get <filename>",
	Short: "Request a signed download URL",
	Long: `Request a time-limited signed download URL for an object.

The filename is the object's path within the server's bucket. The server
rejects requests for objects that do not exist and expiry values outside
its configured bounds.

Examples:
  securl-cli get reports/q3.pdf
  securl-cli get reports/q3.pdf --expires-in 600
  securl-cli get -q reports/q3.pdf | xargs curl -O`,
	Args: cobra.ExactArgs(1),
	RunE: runGet,
}

func init() {
	getCmd.Flags().IntVar(&getExpiresIn, "expires-in", 0, "URL lifetime in seconds (0 = server default)")
}

func runGet(cmd *cobra.Command, args []string) error {
	client, err := getClient()
	if err != nil {
		return err
	}

	result, err := client.GetURL(cmd.Context(), clientcli.GetURLOptions{
		Filename:  args[0],
		ExpiresIn: getExpiresIn,
	})
	if err != nil {
		return handleError(os.Stderr, err)
	}

	formatter := getFormatter()
	return formatter.FormatURL(os.Stdout, result)
}

var echoCmd = &cobra.Command{
	Use:   "echo",
	Short: "Show server deployment information",
	Long:  `Fetch the server's echo endpoint to verify reachability and see which bucket it serves.`,
	RunE:  runEcho,
}

func runEcho(cmd *cobra.Command, _ []string) error {
	client, err := getClient()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), clientcli.DefaultTimeout)
	defer cancel()

	result, err := client.Echo(ctx)
	if err != nil {
		return handleError(os.Stderr, err)
	}

	formatter := getFormatter()
	return formatter.FormatEcho(os.Stdout, result)
}

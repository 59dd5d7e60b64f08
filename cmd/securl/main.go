package main

import (
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

var rootCmd = &cobra.Command{
	Version: version,
	Use:     "securl",
	Short:   "Signed download URL service for cloud storage",
	Long: `Securl is a stateless HTTP service that issues time-limited signed
download URLs for objects stored in a Google Cloud Storage bucket.`,
}

func init() {
	rootCmd.PersistentFlags().StringSlice("config", nil, "config file path(s) (default: ./config.yaml)")
	rootCmd.PersistentFlags().String("environment", "", "deployment environment: local, development, test, staging, production (env: SECURL_ENVIRONMENT)")
	rootCmd.PersistentFlags().String("bucket", "", "storage bucket name (env: SECURL_STORAGE_BUCKET)")
	rootCmd.PersistentFlags().String("gcp-project", "", "GCP project id (env: SECURL_GCP_PROJECT)")
	rootCmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error (env: SECURL_LOG_LEVEL)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

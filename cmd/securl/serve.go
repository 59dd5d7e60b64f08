package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"google.golang.org/api/option"

	secureurl "github.com/Choreogrifi/cgf-secure-url-service"
	"github.com/Choreogrifi/cgf-secure-url-service/config"
	"github.com/Choreogrifi/cgf-secure-url-service/gcs"
	securlhttp "github.com/Choreogrifi/cgf-secure-url-service/http"
	"github.com/Choreogrifi/cgf-secure-url-service/signing"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long:  `Start the signed URL HTTP server.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().Int("port", 8000, "HTTP server port")

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	configFiles, _ := cmd.Flags().GetStringSlice("config")

	cfg, err := config.Load(configFiles, cmd.Flags())
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	setupLogging(cfg)

	cred, err := signing.Resolve(cfg.Signing)
	if err != nil {
		return fmt.Errorf("resolve signing credential: %w", err)
	}
	if cred != nil {
		slog.Info("using configured signing credential", "google_access_id", cred.GoogleAccessID)
	} else {
		slog.Info("no signing credential configured, deferring to ambient credentials")
	}

	storeCfg := gcs.Config{
		Bucket:      cfg.Storage.Bucket,
		CallTimeout: time.Duration(cfg.Storage.CallTimeout) * time.Second,
		Credential:  cred,
	}

	var clientOpts []option.ClientOption
	if cfg.GCPProject != "" {
		clientOpts = append(clientOpts, option.WithQuotaProject(cfg.GCPProject))
	}

	store, err := gcs.New(ctx, storeCfg, clientOpts...)
	if err != nil {
		return fmt.Errorf("create storage client: %w", err)
	}
	defer func() { _ = store.Close() }()

	slog.Info("connected to storage", "bucket", cfg.Storage.Bucket)

	issuer, err := secureurl.NewIssuer(store, secureurl.IssuerConfig{
		Bounds: cfg.Expiry.Bounds(),
	})
	if err != nil {
		return fmt.Errorf("create issuer: %w", err)
	}

	handlerConfig := securlhttp.HandlerConfig{
		Bounds: cfg.Expiry.Bounds(),
		CORS:   cfg.CORS,
		Echo: securlhttp.EchoInfo{
			ProjectName: cfg.ProjectName,
			Environment: cfg.Environment,
			Bucket:      cfg.Storage.Bucket,
			Debug:       cfg.Debug,
		},
	}

	handler := securlhttp.NewHandler(&handlerConfig, issuer)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)

	server := &http.Server{
		Addr:         addr,
		Handler:      handler.Router(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down server...")
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("server shutdown error", "err", err)
		}
		cancel()
	}()

	slog.Info("starting server", "addr", addr, "environment", cfg.Environment)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/digitalocean/contact-page/pkg/api"
	"github.com/digitalocean/contact-page/pkg/config"
	"github.com/digitalocean/contact-page/pkg/middleware"
	"github.com/digitalocean/contact-page/pkg/query"
	"github.com/digitalocean/contact-page/pkg/render"
	"github.com/digitalocean/contact-page/pkg/services"
	"github.com/digitalocean/contact-page/pkg/session"
)

const shutdownTimeout = 5 * time.Second

var servePort string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP service",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&servePort, "port", "", "listen port (overrides PORT)")
}

func runServe(cmd *cobra.Command, args []string) error {
	// Initialize configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}
	if servePort != "" {
		cfg.Port = servePort
	}
	switch cfg.GinMode {
	case gin.DebugMode, gin.ReleaseMode, gin.TestMode:
		gin.SetMode(cfg.GinMode)
	default:
		return fmt.Errorf("invalid GIN_MODE %q", cfg.GinMode)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize services
	client, err := newContentClient(cfg)
	if err != nil {
		return err
	}
	content := services.NewContentService(client, query.Config{
		TTL:          cfg.CacheTTL,
		FetchTimeout: cfg.FetchTimeout,
	}, logger)

	sessions := session.NewStore(session.Config{
		Submitter:     services.NewSubmitter(cfg, logger),
		SuccessWindow: cfg.SuccessWindow,
		IdleTTL:       cfg.SessionIdleTTL,
		Logger:        logger,
	})
	defer sessions.Close()
	go sessions.Run(ctx)

	if len(cfg.WarmSlugs) > 0 {
		if err := content.Warm(ctx, cfg.WarmSlugs, ""); err != nil {
			logger.Warn("Cache warm-up failed", zap.Error(err))
		}
	}

	tmpl, err := render.Templates()
	if err != nil {
		return err
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(logger))
	router.Use(middleware.CORS(cfg.AllowedOrigins))
	router.SetHTMLTemplate(tmpl)

	// Register routes
	api.NewHandlers(content, sessions, logger, api.Secrets{
		Webhook: cfg.WebhookSecret,
		Preview: cfg.PreviewSecret,
	}).RegisterRoutes(router)

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Server starting", zap.String("port", cfg.Port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("error starting server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("error shutting down server: %w", err)
	}
	logger.Info("Server stopped")
	return nil
}

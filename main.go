package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/digitalocean/contact-page/pkg/clients/contentful"
	"github.com/digitalocean/contact-page/pkg/config"
)

var (
	// Global flags
	verbose bool

	// Logger
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "contact-page",
	Short: "CMS driven contact page service",
	Long: `contact-page renders contact pages, contact forms and help sections
authored in Contentful and forwards valid contact requests to the
configured submission backend.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("error loading .env file: %w", err)
		}

		// Initialize logger
		cfg := zap.NewProductionConfig()
		if verbose {
			cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = cfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(serveCmd, fetchCmd, validateCmd)
}

// newContentClient picks the content source: a fixture file when
// CONTENT_FIXTURES is set, Contentful when credentials are present and a
// source without content otherwise.
func newContentClient(cfg *config.Config) (contentful.Client, error) {
	switch {
	case cfg.ContentFixtures != "":
		logger.Info("Using content fixtures", zap.String("path", cfg.ContentFixtures))
		return contentful.LoadFixtureClient(cfg.ContentFixtures)
	case cfg.UsesContentful():
		return contentful.NewClient(contentful.Config{
			SpaceID:       cfg.ContentfulSpaceID,
			Environment:   cfg.ContentfulEnvironment,
			DeliveryToken: cfg.ContentfulDeliveryToken,
			PreviewToken:  cfg.ContentfulPreviewToken,
			Endpoint:      cfg.ContentfulEndpoint,
			Logger:        logger,
		}), nil
	default:
		logger.Warn("No content source configured, pages will be empty")
		return contentful.NewStubClient(), nil
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

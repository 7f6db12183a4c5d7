package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/digitalocean/contact-page/pkg/clients/contentful"
	"github.com/digitalocean/contact-page/pkg/config"
	"github.com/digitalocean/contact-page/pkg/query"
	"github.com/digitalocean/contact-page/pkg/services"
)

var (
	fetchLocale  string
	fetchPreview bool
)

// fetchCmd prints one content entry as the service sees it
var fetchCmd = &cobra.Command{
	Use:   "fetch page|form|help <key>",
	Short: "Fetch a content entry and print it as JSON",
	Long: `Fetches a contact page by slug, or a contact form or help section by
entry id, from the configured content source.

Example:
  contact-page fetch page contact --locale en-US`,
	Args:      cobra.ExactArgs(2),
	ValidArgs: []string{"page", "form", "help"},
	RunE:      runFetch,
}

func init() {
	fetchCmd.Flags().StringVar(&fetchLocale, "locale", "", "content locale")
	fetchCmd.Flags().BoolVar(&fetchPreview, "preview", false, "read draft content with the preview token")
}

func runFetch(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}
	client, err := newContentClient(cfg)
	if err != nil {
		return err
	}
	content := services.NewContentService(client, query.Config{FetchTimeout: cfg.FetchTimeout}, logger)

	kind, key := args[0], args[1]
	vars := contentful.Vars{ID: key, Locale: fetchLocale, Preview: fetchPreview}

	var entry interface{}
	switch kind {
	case "page":
		entry, err = content.ContactPage(cmd.Context(), contentful.SlugVars{Slug: key, Locale: fetchLocale, Preview: fetchPreview})
	case "form":
		entry, err = content.ContactForm(cmd.Context(), vars)
	case "help":
		entry, err = content.HelpSection(cmd.Context(), vars)
	default:
		return fmt.Errorf("unknown content kind %q (want page, form or help)", kind)
	}
	if err != nil {
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(entry)
}

package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/digitalocean/contact-page/pkg/contactform"
	"github.com/digitalocean/contact-page/pkg/models"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a contact form read as JSON from stdin",
	Long: `Reads a contact form document from stdin and prints the field errors as
JSON. The command fails when the form is invalid.

Example:
  echo '{"firstName":"Ada"}' | contact-page validate`,
	Args: cobra.NoArgs,
	RunE: runValidate,
}

type validateResult struct {
	Valid  bool               `json:"valid"`
	Errors models.FieldErrors `json:"errors"`
}

func runValidate(cmd *cobra.Command, args []string) error {
	var state models.FormState
	if err := json.NewDecoder(cmd.InOrStdin()).Decode(&state); err != nil {
		return fmt.Errorf("error decoding contact form: %w", err)
	}

	errs := contactform.Validate(state)
	if errs == nil {
		errs = models.FieldErrors{}
	}
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	if err := enc.Encode(validateResult{Valid: len(errs) == 0, Errors: errs}); err != nil {
		return err
	}

	if len(errs) > 0 {
		return contactform.ErrInvalid
	}
	return nil
}

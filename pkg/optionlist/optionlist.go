// Package optionlist decodes the option lists authored as JSON fields in the
// CMS. Decoding never fails loudly: anything that cannot be read becomes an
// Empty result and renders nothing.
package optionlist

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/digitalocean/contact-page/pkg/models"
)

// Result is either Parsed or Empty.
type Result interface {
	isResult()
}

// Parsed holds the renderable options of a well-formed list.
type Parsed struct {
	Options []models.Option
}

// Empty means there is nothing to render. Err is nil when the field was
// simply absent and holds the decode failure otherwise.
type Empty struct {
	Err error
}

func (Parsed) isResult() {}
func (Empty) isResult()  {}

var errNoOptions = errors.New("option list has no options key")

// Parse decodes raw into an option list. raw may be the JSON object itself
// or a JSON string containing it.
func Parse(raw json.RawMessage) Result {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return Empty{}
	}

	if trimmed[0] == '"' {
		var text string
		if err := json.Unmarshal(trimmed, &text); err != nil {
			return Empty{Err: fmt.Errorf("error decoding option list text: %w", err)}
		}
		return Parse(json.RawMessage(text))
	}

	var doc struct {
		Options *[]models.Option `json:"options"`
	}
	if err := json.Unmarshal(trimmed, &doc); err != nil {
		return Empty{Err: fmt.Errorf("error decoding option list: %w", err)}
	}
	if doc.Options == nil {
		return Empty{Err: errNoOptions}
	}

	options := make([]models.Option, 0, len(*doc.Options))
	for _, opt := range *doc.Options {
		if opt.Value == "" {
			continue
		}
		options = append(options, opt)
	}
	return Parsed{Options: options}
}

// Options returns the options to render for r.
func Options(r Result) []models.Option {
	if p, ok := r.(Parsed); ok {
		return p.Options
	}
	return nil
}

// Err returns the decode failure carried by r, if any.
func Err(r Result) error {
	if e, ok := r.(Empty); ok {
		return e.Err
	}
	return nil
}

// List converts r into the OptionList document shape. Empty results
// become a list with no options.
func List(r Result) models.OptionList {
	opts := Options(r)
	if opts == nil {
		opts = []models.Option{}
	}
	return models.OptionList{Options: opts}
}

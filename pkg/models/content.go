package models

import "encoding/json"

// Sys carries the CMS system metadata of an entry
type Sys struct {
	ID string `json:"id" yaml:"id"`
}

// Asset is a CMS media reference
type Asset struct {
	URL    string `json:"url,omitempty" yaml:"url"`
	Title  string `json:"title,omitempty" yaml:"title"`
	Width  int    `json:"width,omitempty" yaml:"width"`
	Height int    `json:"height,omitempty" yaml:"height"`
}

// ContactForm is the CMS entry driving the contact form. The option fields
// hold the raw JSON authored in the CMS; see the optionlist package.
type ContactForm struct {
	Sys                Sys             `json:"sys"`
	Name               string          `json:"name,omitempty"`
	Headline           string          `json:"headline,omitempty"`
	Subheadline        string          `json:"subheadline,omitempty"`
	ContactTypeOptions json.RawMessage `json:"contactTypeOptions,omitempty"`
	OtherContactTypes  json.RawMessage `json:"otherContactTypes,omitempty"`
	SubmitButtonText   string          `json:"submitButtonText,omitempty"`
	SuccessMessage     string          `json:"successMessage,omitempty"`
	PrivacyPolicyText  string          `json:"privacyPolicyText,omitempty"`
	EnableCaptcha      bool            `json:"enableCaptcha,omitempty"`
}

// HelpOption is one selectable card of a help section
type HelpOption struct {
	Sys           Sys    `json:"sys"`
	Title         string `json:"title,omitempty"`
	Description   string `json:"description,omitempty"`
	IconImage     *Asset `json:"iconImage,omitempty"`
	CategoryValue string `json:"categoryValue,omitempty"`
}

// Key returns the value used to track selection of the option.
func (o HelpOption) Key() string {
	if o.CategoryValue != "" {
		return o.CategoryValue
	}
	return o.Sys.ID
}

// HelpSection groups help options under a headline. Items may be nil when
// the CMS references an unpublished entry.
type HelpSection struct {
	Sys         Sys           `json:"sys"`
	Name        string        `json:"name,omitempty"`
	Headline    string        `json:"headline,omitempty"`
	HelpOptions []*HelpOption `json:"helpOptions,omitempty"`
}

// FindOption returns the option with the given sys id.
func (s *HelpSection) FindOption(id string) (*HelpOption, bool) {
	if s == nil {
		return nil, false
	}
	for _, opt := range s.HelpOptions {
		if opt != nil && opt.Sys.ID == id {
			return opt, true
		}
	}
	return nil, false
}

// ContactPage composes the form and help section with page metadata
type ContactPage struct {
	Sys             Sys          `json:"sys"`
	Name            string       `json:"name,omitempty"`
	Slug            string       `json:"slug,omitempty"`
	PageTitle       string       `json:"pageTitle,omitempty"`
	MetaDescription string       `json:"metaDescription,omitempty"`
	HeroSection     *ContactForm `json:"heroSection,omitempty"`
	HelpSection     *HelpSection `json:"helpSection,omitempty"`
	ShowNavigation  bool         `json:"showNavigation,omitempty"`
	ShowFooter      bool         `json:"showFooter,omitempty"`
}

// Option is a CMS-authored value/label pair for a radio or select control
type Option struct {
	Value string `json:"value" yaml:"value"`
	Label string `json:"label" yaml:"label"`
}

// OptionList is the JSON document stored in the option fields
type OptionList struct {
	Options []Option `json:"options" yaml:"options"`
}

package contentful

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/digitalocean/contact-page/pkg/models"
)

// fixtureFile is the YAML layout of a local content file. Pages reference
// forms and help sections by id.
type fixtureFile struct {
	ContactForms []fixtureForm        `yaml:"contactForms"`
	HelpSections []fixtureHelpSection `yaml:"helpSections"`
	ContactPages []fixturePage        `yaml:"contactPages"`
}

type fixtureForm struct {
	ID                 string             `yaml:"id"`
	Name               string             `yaml:"name"`
	Headline           string             `yaml:"headline"`
	Subheadline        string             `yaml:"subheadline"`
	ContactTypeOptions *models.OptionList `yaml:"contactTypeOptions"`
	OtherContactTypes  *models.OptionList `yaml:"otherContactTypes"`
	SubmitButtonText   string             `yaml:"submitButtonText"`
	SuccessMessage     string             `yaml:"successMessage"`
	PrivacyPolicyText  string             `yaml:"privacyPolicyText"`
	EnableCaptcha      bool               `yaml:"enableCaptcha"`
}

type fixtureHelpOption struct {
	ID            string        `yaml:"id"`
	Title         string        `yaml:"title"`
	Description   string        `yaml:"description"`
	Icon          *models.Asset `yaml:"icon"`
	CategoryValue string        `yaml:"categoryValue"`
}

type fixtureHelpSection struct {
	ID       string              `yaml:"id"`
	Name     string              `yaml:"name"`
	Headline string              `yaml:"headline"`
	Options  []fixtureHelpOption `yaml:"options"`
}

type fixturePage struct {
	ID              string `yaml:"id"`
	Name            string `yaml:"name"`
	Slug            string `yaml:"slug"`
	PageTitle       string `yaml:"pageTitle"`
	MetaDescription string `yaml:"metaDescription"`
	HeroSection     string `yaml:"heroSection"`
	HelpSection     string `yaml:"helpSection"`
	ShowNavigation  bool   `yaml:"showNavigation"`
	ShowFooter      bool   `yaml:"showFooter"`
}

type fixtureClient struct {
	forms    map[string]*models.ContactForm
	sections map[string]*models.HelpSection
	pages    map[string]*models.ContactPage
}

// LoadFixtureClient reads content from a YAML file. Locale and preview
// variables are ignored.
func LoadFixtureClient(path string) (Client, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading fixtures: %w", err)
	}
	return ParseFixtures(data)
}

// ParseFixtures builds a fixture client from YAML text.
func ParseFixtures(data []byte) (Client, error) {
	var file fixtureFile
	err := yaml.Unmarshal(data, &file)
	if err != nil {
		return nil, fmt.Errorf("error parsing fixtures: %w", err)
	}

	c := &fixtureClient{
		forms:    make(map[string]*models.ContactForm, len(file.ContactForms)),
		sections: make(map[string]*models.HelpSection, len(file.HelpSections)),
		pages:    make(map[string]*models.ContactPage, len(file.ContactPages)),
	}

	for _, f := range file.ContactForms {
		form := &models.ContactForm{
			Sys:               models.Sys{ID: f.ID},
			Name:              f.Name,
			Headline:          f.Headline,
			Subheadline:       f.Subheadline,
			SubmitButtonText:  f.SubmitButtonText,
			SuccessMessage:    f.SuccessMessage,
			PrivacyPolicyText: f.PrivacyPolicyText,
			EnableCaptcha:     f.EnableCaptcha,
		}
		if form.ContactTypeOptions, err = encodeOptions(f.ContactTypeOptions); err != nil {
			return nil, err
		}
		if form.OtherContactTypes, err = encodeOptions(f.OtherContactTypes); err != nil {
			return nil, err
		}
		c.forms[f.ID] = form
	}

	for _, s := range file.HelpSections {
		section := &models.HelpSection{
			Sys:      models.Sys{ID: s.ID},
			Name:     s.Name,
			Headline: s.Headline,
		}
		for _, o := range s.Options {
			section.HelpOptions = append(section.HelpOptions, &models.HelpOption{
				Sys:           models.Sys{ID: o.ID},
				Title:         o.Title,
				Description:   o.Description,
				IconImage:     o.Icon,
				CategoryValue: o.CategoryValue,
			})
		}
		c.sections[s.ID] = section
	}

	for _, p := range file.ContactPages {
		page := &models.ContactPage{
			Sys:             models.Sys{ID: p.ID},
			Name:            p.Name,
			Slug:            p.Slug,
			PageTitle:       p.PageTitle,
			MetaDescription: p.MetaDescription,
			ShowNavigation:  p.ShowNavigation,
			ShowFooter:      p.ShowFooter,
		}
		if p.HeroSection != "" {
			form, ok := c.forms[p.HeroSection]
			if !ok {
				return nil, fmt.Errorf("page %q references unknown contact form %q", p.Slug, p.HeroSection)
			}
			page.HeroSection = form
		}
		if p.HelpSection != "" {
			section, ok := c.sections[p.HelpSection]
			if !ok {
				return nil, fmt.Errorf("page %q references unknown help section %q", p.Slug, p.HelpSection)
			}
			page.HelpSection = section
		}
		c.pages[p.Slug] = page
	}

	return c, nil
}

func encodeOptions(list *models.OptionList) (json.RawMessage, error) {
	if list == nil {
		return nil, nil
	}
	raw, err := json.Marshal(list)
	if err != nil {
		return nil, fmt.Errorf("error encoding option list: %w", err)
	}
	return raw, nil
}

func (c *fixtureClient) ContactForm(_ context.Context, vars Vars) (*models.ContactForm, error) {
	return c.forms[vars.ID], nil
}

func (c *fixtureClient) HelpSection(_ context.Context, vars Vars) (*models.HelpSection, error) {
	return c.sections[vars.ID], nil
}

func (c *fixtureClient) ContactPage(_ context.Context, vars SlugVars) (*models.ContactPage, error) {
	return c.pages[vars.Slug], nil
}

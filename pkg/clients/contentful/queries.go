package contentful

import "github.com/digitalocean/contact-page/pkg/models"

const contactFormFragment = `
fragment ContactFormFields on ComponentContactForm {
  __typename
  sys { id }
  name
  headline
  subheadline
  contactTypeOptions
  otherContactTypes
  submitButtonText
  successMessage
  privacyPolicyText
  enableCaptcha
}`

const helpSectionFragment = `
fragment HelpOptionFields on HelpOption {
  __typename
  sys { id }
  title
  description
  iconImage { url title width height }
  categoryValue
}

fragment HelpSectionFields on ComponentHelpSection {
  __typename
  sys { id }
  name
  headline
  helpOptionsCollection {
    items { ...HelpOptionFields }
  }
}`

const contactFormQuery = `
query CtfContactForm($id: String!, $locale: String, $preview: Boolean) {
  componentContactForm(id: $id, locale: $locale, preview: $preview) {
    ...ContactFormFields
  }
}` + contactFormFragment

const helpSectionQuery = `
query CtfHelpSection($id: String!, $locale: String, $preview: Boolean) {
  componentHelpSection(id: $id, locale: $locale, preview: $preview) {
    ...HelpSectionFields
  }
}` + helpSectionFragment

const contactPageQuery = `
query CtfContactPage($slug: String!, $locale: String, $preview: Boolean) {
  componentContactPageCollection(where: { slug: $slug }, locale: $locale, preview: $preview, limit: 1) {
    items {
      __typename
      sys { id }
      name
      slug
      pageTitle
      metaDescription
      heroSection { ...ContactFormFields }
      helpSection { ...HelpSectionFields }
      showNavigation
      showFooter
    }
  }
}` + contactFormFragment + helpSectionFragment

// helpSectionFields mirrors the GraphQL shape, where help options sit
// inside a collection.
type helpSectionFields struct {
	Sys                   models.Sys `json:"sys"`
	Name                  string     `json:"name"`
	Headline              string     `json:"headline"`
	HelpOptionsCollection *struct {
		Items []*models.HelpOption `json:"items"`
	} `json:"helpOptionsCollection"`
}

func (h *helpSectionFields) toModel() *models.HelpSection {
	if h == nil {
		return nil
	}
	section := &models.HelpSection{
		Sys:      h.Sys,
		Name:     h.Name,
		Headline: h.Headline,
	}
	if h.HelpOptionsCollection != nil {
		section.HelpOptions = h.HelpOptionsCollection.Items
	}
	return section
}

type contactPageFields struct {
	Sys             models.Sys          `json:"sys"`
	Name            string              `json:"name"`
	Slug            string              `json:"slug"`
	PageTitle       string              `json:"pageTitle"`
	MetaDescription string              `json:"metaDescription"`
	HeroSection     *models.ContactForm `json:"heroSection"`
	HelpSection     *helpSectionFields  `json:"helpSection"`
	ShowNavigation  bool                `json:"showNavigation"`
	ShowFooter      bool                `json:"showFooter"`
}

func (p *contactPageFields) toModel() *models.ContactPage {
	if p == nil {
		return nil
	}
	return &models.ContactPage{
		Sys:             p.Sys,
		Name:            p.Name,
		Slug:            p.Slug,
		PageTitle:       p.PageTitle,
		MetaDescription: p.MetaDescription,
		HeroSection:     p.HeroSection,
		HelpSection:     p.HelpSection.toModel(),
		ShowNavigation:  p.ShowNavigation,
		ShowFooter:      p.ShowFooter,
	}
}

package contactpage_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/digitalocean/contact-page/pkg/contactform"
	"github.com/digitalocean/contact-page/pkg/contactpage"
	"github.com/digitalocean/contact-page/pkg/helpsection"
	"github.com/digitalocean/contact-page/pkg/models"
)

type instance struct {
	forms     map[string]*contactform.Form
	selectors map[string]*helpsection.Selector
}

func newInstance() *instance {
	return &instance{
		forms:     map[string]*contactform.Form{},
		selectors: map[string]*helpsection.Selector{},
	}
}

func (i *instance) Form(id string) *contactform.Form {
	if f, ok := i.forms[id]; ok {
		return f
	}
	f := contactform.New(contactform.SubmitterFunc(nil))
	i.forms[id] = f
	return f
}

func (i *instance) Selector(id string) *helpsection.Selector {
	if s, ok := i.selectors[id]; ok {
		return s
	}
	s := helpsection.NewSelector(nil)
	i.selectors[id] = s
	return s
}

func TestComposeEmptyPage(t *testing.T) {
	v := contactpage.Compose(&models.ContactPage{}, newInstance(), contactpage.Actions{})

	assert.Equal(t, contactpage.DefaultTitle, v.Title)
	assert.Empty(t, v.Description)
	assert.Nil(t, v.Form)
	assert.Nil(t, v.Help)
	assert.False(t, v.ShowNavigation)
	assert.False(t, v.ShowFooter)
}

func TestComposeFullPage(t *testing.T) {
	page := &models.ContactPage{
		PageTitle:       "Get in touch",
		MetaDescription: "We answer within a day",
		ShowNavigation:  true,
		ShowFooter:      true,
		HeroSection:     &models.ContactForm{Sys: models.Sys{ID: "form-1"}, Headline: "Hi"},
		HelpSection:     &models.HelpSection{Sys: models.Sys{ID: "help-1"}, Headline: "Help"},
	}
	inst := newInstance()

	v := contactpage.Compose(page, inst, contactpage.Actions{Submit: "/contact/a", Select: "/contact/a/help"})

	assert.Equal(t, "Get in touch", v.Title)
	assert.Equal(t, "We answer within a day", v.Description)
	assert.True(t, v.ShowNavigation)
	assert.True(t, v.ShowFooter)
	require.NotNil(t, v.Form)
	assert.Equal(t, "/contact/a", v.Form.Action)
	require.NotNil(t, v.Help)
	assert.Equal(t, "/contact/a/help", v.Help.Action)
	assert.Contains(t, inst.forms, "form-1")
	assert.Contains(t, inst.selectors, "help-1")
}

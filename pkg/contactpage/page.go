// Package contactpage composes a contact page from its CMS entry: head
// metadata, optional navigation and footer slots, the hero form and the
// help section.
package contactpage

import (
	"github.com/digitalocean/contact-page/pkg/contactform"
	"github.com/digitalocean/contact-page/pkg/helpsection"
	"github.com/digitalocean/contact-page/pkg/models"
)

// DefaultTitle is used when the page entry has no title.
const DefaultTitle = "Contact Us"

// Instance supplies the form and selector owned by one visitor.
type Instance interface {
	Form(id string) *contactform.Form
	Selector(id string) *helpsection.Selector
}

// Actions holds the URLs the rendered page posts to.
type Actions struct {
	Submit string
	Select string
}

// View is the template data of a whole page
type View struct {
	Title          string
	Description    string
	ShowNavigation bool
	ShowFooter     bool
	Form           *contactform.View
	Help           *helpsection.View
}

// Compose builds the page view. Absent sections are omitted.
func Compose(page *models.ContactPage, inst Instance, actions Actions) *View {
	v := &View{
		Title:          page.PageTitle,
		Description:    page.MetaDescription,
		ShowNavigation: page.ShowNavigation,
		ShowFooter:     page.ShowFooter,
	}
	if v.Title == "" {
		v.Title = DefaultTitle
	}

	if hero := page.HeroSection; hero != nil {
		form := inst.Form(hero.Sys.ID)
		v.Form = contactform.NewView(hero, form.Snapshot(), actions.Submit)
	}
	if help := page.HelpSection; help != nil {
		v.Help = helpsection.NewView(help, inst.Selector(help.Sys.ID), actions.Select)
	}
	return v
}

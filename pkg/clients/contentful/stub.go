package contentful

import (
	"context"

	"github.com/digitalocean/contact-page/pkg/models"
)

type stubClient struct{}

// NewStubClient returns a client that never finds any content. It is used
// when no space or fixture file is configured.
func NewStubClient() Client {
	return stubClient{}
}

func (stubClient) ContactForm(context.Context, Vars) (*models.ContactForm, error) {
	return nil, nil
}

func (stubClient) HelpSection(context.Context, Vars) (*models.HelpSection, error) {
	return nil, nil
}

func (stubClient) ContactPage(context.Context, SlugVars) (*models.ContactPage, error) {
	return nil, nil
}

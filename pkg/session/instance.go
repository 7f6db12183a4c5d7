package session

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/digitalocean/contact-page/pkg/contactform"
	"github.com/digitalocean/contact-page/pkg/helpsection"
)

// Instance holds one visitor's forms and help section selectors, keyed by
// the CMS entry id they render.
type Instance struct {
	id string

	mu        sync.Mutex
	forms     map[string]*contactform.Form
	selectors map[string]*helpsection.Selector
	lastSeen  time.Time
	closed    bool

	newForm func(*zap.Logger) *contactform.Form
	logger  *zap.Logger
}

// ID returns the session id to store in the cookie.
func (i *Instance) ID() string {
	return i.id
}

// Form returns the form instance for the contact form entry id.
func (i *Instance) Form(id string) *contactform.Form {
	i.mu.Lock()
	defer i.mu.Unlock()

	if f, ok := i.forms[id]; ok {
		return f
	}
	f := i.newForm(i.logger.With(zap.String("session", i.id), zap.String("form", id)))
	if i.closed {
		f.Close()
	}
	i.forms[id] = f
	return f
}

// Selector returns the selector for the help section entry id.
func (i *Instance) Selector(id string) *helpsection.Selector {
	i.mu.Lock()
	defer i.mu.Unlock()

	if s, ok := i.selectors[id]; ok {
		return s
	}
	s := helpsection.NewSelector(i.logger.With(zap.String("session", i.id), zap.String("section", id)))
	i.selectors[id] = s
	return s
}

func (i *Instance) touch(now time.Time) {
	i.mu.Lock()
	i.lastSeen = now
	i.mu.Unlock()
}

func (i *Instance) seenBefore(t time.Time) bool {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.lastSeen.Before(t)
}

func (i *Instance) close() {
	i.mu.Lock()
	defer i.mu.Unlock()

	i.closed = true
	for _, f := range i.forms {
		f.Close()
	}
}

// Package helpsection renders the help option cards and tracks which card
// a visitor picked.
package helpsection

import (
	"sync"

	"go.uber.org/zap"

	"github.com/digitalocean/contact-page/pkg/models"
)

// Selector holds at most one selected option key.
type Selector struct {
	mu       sync.Mutex
	selected string
	logger   *zap.Logger
}

// NewSelector returns a selector with nothing selected.
func NewSelector(logger *zap.Logger) *Selector {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Selector{logger: logger}
}

// Select replaces the current selection with option and returns the key
// that was stored: the category value, or the sys id when the option has
// no category.
func (s *Selector) Select(option models.HelpOption) string {
	key := option.Key()

	s.mu.Lock()
	s.selected = key
	s.mu.Unlock()

	s.logger.Debug("Selected help option",
		zap.String("option", option.Sys.ID),
		zap.String("category", option.CategoryValue))
	return key
}

// Selected returns the selected key, if any.
func (s *Selector) Selected() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selected, s.selected != ""
}

// IsSelected reports whether option is the current selection.
func (s *Selector) IsSelected(option models.HelpOption) bool {
	key, ok := s.Selected()
	return ok && key == option.Key()
}

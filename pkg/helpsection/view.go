package helpsection

import "github.com/digitalocean/contact-page/pkg/models"

// SelectedMessage confirms a selection below the cards.
const SelectedMessage = "Great! You've selected an option. This selection can be used to pre-fill form fields or route your inquiry appropriately."

// View is the template data of a help section
type View struct {
	ID              string
	Action          string
	Headline        string
	Options         []OptionView
	HasSelection    bool
	SelectedMessage string
}

// OptionView is one help card
type OptionView struct {
	ID          string
	Key         string
	Title       string
	Description string
	IconURL     string
	IconTitle   string
	Selected    bool
}

// NewView binds a help section and a selector into template data. Nil
// options are skipped.
func NewView(section *models.HelpSection, selector *Selector, action string) *View {
	v := &View{
		ID:       section.Sys.ID,
		Action:   action,
		Headline: section.Headline,
		Options:  make([]OptionView, 0, len(section.HelpOptions)),
	}

	for _, opt := range section.HelpOptions {
		if opt == nil {
			continue
		}
		ov := OptionView{
			ID:          opt.Sys.ID,
			Key:         opt.Key(),
			Title:       opt.Title,
			Description: opt.Description,
			Selected:    selector.IsSelected(*opt),
		}
		if opt.IconImage != nil && opt.IconImage.URL != "" {
			ov.IconURL = opt.IconImage.URL
			ov.IconTitle = opt.IconImage.Title
			if ov.IconTitle == "" {
				ov.IconTitle = opt.Title
			}
		}
		v.Options = append(v.Options, ov)
	}

	if _, ok := selector.Selected(); ok {
		v.HasSelection = true
		v.SelectedMessage = SelectedMessage
	}
	return v
}

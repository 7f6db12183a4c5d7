package api

import (
	"context"
	"crypto/subtle"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/digitalocean/contact-page/pkg/clients/contentful"
	"github.com/digitalocean/contact-page/pkg/contactform"
	"github.com/digitalocean/contact-page/pkg/contactpage"
	"github.com/digitalocean/contact-page/pkg/helpsection"
	"github.com/digitalocean/contact-page/pkg/models"
	"github.com/digitalocean/contact-page/pkg/render"
	"github.com/digitalocean/contact-page/pkg/services"
	"github.com/digitalocean/contact-page/pkg/session"
)

// WebhookSecretHeader carries the shared secret of the CMS publish webhook.
const WebhookSecretHeader = "X-Contentful-Webhook-Secret"

// Content is the content lookup used by the handlers.
type Content interface {
	ContactForm(ctx context.Context, vars contentful.Vars) (*models.ContactForm, error)
	HelpSection(ctx context.Context, vars contentful.Vars) (*models.HelpSection, error)
	ContactPage(ctx context.Context, vars contentful.SlugVars) (*models.ContactPage, error)
	InvalidateAll()
}

var _ Content = (*services.ContentService)(nil)

// Secrets guards the privileged parts of the API. An empty secret turns
// the feature off.
type Secrets struct {
	// Webhook must be sent in WebhookSecretHeader to clear the cache.
	Webhook string
	// Preview must be sent as the "secret" query parameter for
	// preview=true to read draft content.
	Preview string
}

// Handlers contains all HTTP handlers for the API
type Handlers struct {
	content  Content
	sessions *session.Store
	logger   *zap.Logger
	secrets  Secrets
}

// NewHandlers creates a new Handlers instance
func NewHandlers(content Content, sessions *session.Store, logger *zap.Logger, secrets Secrets) *Handlers {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handlers{
		content:  content,
		sessions: sessions,
		logger:   logger,
		secrets:  secrets,
	}
}

// RegisterRoutes mounts every route. The router must have the templates
// from render.Templates installed.
func (h *Handlers) RegisterRoutes(r gin.IRouter) {
	r.GET("/health", h.HealthCheck)

	contact := r.Group("/contact/:slug")
	{
		contact.GET("", h.ShowPage)
		contact.POST("", h.SubmitPage)
		contact.POST("/fields/:field", h.SetPageField)
		contact.POST("/help", h.SelectPageHelp)
	}

	r.GET("/forms/:id", h.ShowForm)
	r.POST("/forms/:id", h.SubmitForm)
	r.GET("/help-sections/:id", h.ShowHelpSection)
	r.POST("/help-sections/:id", h.SelectHelpSection)

	if h.secrets.Webhook != "" {
		r.POST("/webhook/contentful", h.ContentWebhook)
	}
}

// HealthCheck handler for monitoring
func (h *Handlers) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}

// ShowPage renders a whole contact page.
func (h *Handlers) ShowPage(c *gin.Context) {
	page, ok := h.page(c)
	if !ok {
		return
	}
	h.renderPage(c, http.StatusOK, page, h.readInstance(c))
}

// SubmitPage folds the posted form into the visitor's form instance and
// submits it.
func (h *Handlers) SubmitPage(c *gin.Context) {
	page, ok := h.page(c)
	if !ok {
		return
	}
	if page.HeroSection == nil {
		c.String(http.StatusNotFound, "This page has no contact form")
		return
	}

	inst := h.instance(c)
	status, ok := h.submit(c, inst.Form(page.HeroSection.Sys.ID))
	if !ok {
		return
	}
	h.renderPage(c, status, page, inst)
}

// SetPageField updates one field of the page form and answers with the
// remaining errors as JSON.
func (h *Handlers) SetPageField(c *gin.Context) {
	page, ok := h.page(c)
	if !ok {
		return
	}
	if page.HeroSection == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "This page has no contact form"})
		return
	}

	field := models.Field(c.Param("field"))
	form := h.instance(c).Form(page.HeroSection.Sys.ID)
	if err := form.Set(field, c.PostForm("value")); err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, contactform.ErrClosed) {
			status = http.StatusGone
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	snap := form.Snapshot()
	errs := snap.Errors
	if errs == nil {
		errs = models.FieldErrors{}
	}
	c.JSON(http.StatusOK, gin.H{
		"field":       field,
		"errors":      errs,
		"status":      snap.Status.String(),
		"submitError": snap.SubmitError,
	})
}

// SelectPageHelp records the chosen help option and redirects back to the
// page.
func (h *Handlers) SelectPageHelp(c *gin.Context) {
	page, ok := h.page(c)
	if !ok {
		return
	}
	if !h.selectOption(c, page.HelpSection) {
		return
	}
	c.Redirect(http.StatusSeeOther, withQuery(c, "/contact/"+c.Param("slug")))
}

// ShowForm renders a standalone contact form. Missing or failing content
// renders nothing.
func (h *Handlers) ShowForm(c *gin.Context) {
	content, ok := h.form(c)
	if !ok {
		c.Status(http.StatusOK)
		return
	}
	snap := h.readInstance(c).Form(content.Sys.ID).Snapshot()
	h.renderForm(c, http.StatusOK, content, snap)
}

// SubmitForm submits a standalone contact form.
func (h *Handlers) SubmitForm(c *gin.Context) {
	content, ok := h.form(c)
	if !ok {
		c.String(http.StatusNotFound, "Contact form not found")
		return
	}
	form := h.instance(c).Form(content.Sys.ID)
	status, ok := h.submit(c, form)
	if !ok {
		return
	}
	h.renderForm(c, status, content, form.Snapshot())
}

// ShowHelpSection renders a standalone help section. Missing or failing
// content renders nothing.
func (h *Handlers) ShowHelpSection(c *gin.Context) {
	section, ok := h.helpSection(c)
	if !ok {
		c.Status(http.StatusOK)
		return
	}
	h.renderHelp(c, section, h.readInstance(c))
}

// SelectHelpSection records the chosen option of a standalone help
// section and renders it again.
func (h *Handlers) SelectHelpSection(c *gin.Context) {
	section, ok := h.helpSection(c)
	if !ok {
		c.String(http.StatusNotFound, "Help section not found")
		return
	}
	if !h.selectOption(c, section) {
		return
	}
	h.renderHelp(c, section, h.instance(c))
}

// ContentWebhook drops all cached content after a CMS publish.
func (h *Handlers) ContentWebhook(c *gin.Context) {
	secret := c.GetHeader(WebhookSecretHeader)
	if !secretMatches(secret, h.secrets.Webhook) {
		h.logger.Warn("Rejected content webhook", zap.String("client_ip", c.ClientIP()))
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid webhook secret"})
		return
	}
	h.content.InvalidateAll()
	c.JSON(http.StatusOK, gin.H{"status": "invalidated"})
}

func (h *Handlers) page(c *gin.Context) (*models.ContactPage, bool) {
	vars := contentful.SlugVars{Slug: c.Param("slug"), Locale: c.Query("locale"), Preview: h.preview(c)}
	page, err := h.content.ContactPage(c.Request.Context(), vars)
	switch {
	case errors.Is(err, services.ErrNotFound):
		c.String(http.StatusNotFound, "Page not found")
		return nil, false
	case err != nil:
		h.logger.Error("Error fetching contact page", zap.String("slug", vars.Slug), zap.Error(err))
		c.String(http.StatusBadGateway, "Content is temporarily unavailable")
		return nil, false
	}
	return page, true
}

func (h *Handlers) form(c *gin.Context) (*models.ContactForm, bool) {
	vars := contentful.Vars{ID: c.Param("id"), Locale: c.Query("locale"), Preview: h.preview(c)}
	form, err := h.content.ContactForm(c.Request.Context(), vars)
	if err != nil {
		h.logAbsent(err, "contact form", vars.ID)
		return nil, false
	}
	return form, true
}

func (h *Handlers) helpSection(c *gin.Context) (*models.HelpSection, bool) {
	vars := contentful.Vars{ID: c.Param("id"), Locale: c.Query("locale"), Preview: h.preview(c)}
	section, err := h.content.HelpSection(c.Request.Context(), vars)
	if err != nil {
		h.logAbsent(err, "help section", vars.ID)
		return nil, false
	}
	return section, true
}

func (h *Handlers) logAbsent(err error, kind, id string) {
	if errors.Is(err, services.ErrNotFound) {
		h.logger.Debug("Content not found", zap.String("kind", kind), zap.String("id", id))
		return
	}
	h.logger.Error("Error fetching content", zap.String("kind", kind), zap.String("id", id), zap.Error(err))
}

// submit binds the posted values into form and submits it. It returns the
// status to render with, or false when a response was already written.
func (h *Handlers) submit(c *gin.Context, form *contactform.Form) (int, bool) {
	var state models.FormState
	if err := c.ShouldBind(&state); err != nil {
		c.String(http.StatusBadRequest, "Invalid form data")
		return 0, false
	}
	if err := form.Apply(state); err != nil {
		c.String(http.StatusGone, "This form is no longer available")
		return 0, false
	}

	err := form.Submit(c.Request.Context())
	switch {
	case err == nil:
		return http.StatusOK, true
	case errors.Is(err, contactform.ErrInvalid):
		return http.StatusUnprocessableEntity, true
	case errors.Is(err, contactform.ErrBusy):
		return http.StatusConflict, true
	case errors.Is(err, contactform.ErrClosed):
		c.String(http.StatusGone, "This form is no longer available")
		return 0, false
	default:
		return http.StatusBadGateway, true
	}
}

func (h *Handlers) selectOption(c *gin.Context, section *models.HelpSection) bool {
	if section == nil {
		c.String(http.StatusNotFound, "Help section not found")
		return false
	}
	opt, ok := section.FindOption(c.PostForm("option"))
	if !ok {
		c.String(http.StatusBadRequest, "Unknown help option")
		return false
	}
	h.instance(c).Selector(section.Sys.ID).Select(*opt)
	return true
}

func (h *Handlers) renderPage(c *gin.Context, status int, page *models.ContactPage, inst *session.Instance) {
	base := "/contact/" + c.Param("slug")
	view := contactpage.Compose(page, inst, contactpage.Actions{
		Submit: withQuery(c, base),
		Select: withQuery(c, base+"/help"),
	})
	if view.Form != nil {
		h.logOptionErrors(view.Form)
	}
	c.HTML(status, render.PageTemplate, view)
}

func (h *Handlers) renderForm(c *gin.Context, status int, content *models.ContactForm, snap contactform.Snapshot) {
	view := contactform.NewView(content, snap, withQuery(c, "/forms/"+content.Sys.ID))
	h.logOptionErrors(view)
	c.HTML(status, render.FormTemplate, view)
}

func (h *Handlers) renderHelp(c *gin.Context, section *models.HelpSection, inst *session.Instance) {
	selector := inst.Selector(section.Sys.ID)
	view := helpsection.NewView(section, selector, withQuery(c, "/help-sections/"+section.Sys.ID))
	c.HTML(http.StatusOK, render.HelpTemplate, view)
}

func (h *Handlers) logOptionErrors(view *contactform.View) {
	for _, err := range view.OptionErrors {
		h.logger.Debug("Ignoring contact form options", zap.String("form", view.ID), zap.Error(err))
	}
}

// instance returns the visitor's session, issuing a cookie for new ones.
// The instance is cached on the context so a request sees one session.
func (h *Handlers) instance(c *gin.Context) *session.Instance {
	if v, ok := c.Get(session.CookieName); ok {
		return v.(*session.Instance)
	}
	id, _ := c.Cookie(session.CookieName)
	inst := h.sessions.Get(id)
	if inst.ID() != id {
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(session.CookieName, inst.ID(), 0, "/", "", c.Request.TLS != nil, true)
	}
	c.Set(session.CookieName, inst)
	return inst
}

// readInstance returns the visitor's stored session when the cookie names
// one. Otherwise it returns a transient instance and issues no cookie.
func (h *Handlers) readInstance(c *gin.Context) *session.Instance {
	if v, ok := c.Get(session.CookieName); ok {
		return v.(*session.Instance)
	}
	id, _ := c.Cookie(session.CookieName)
	if inst, ok := h.sessions.Lookup(id); ok {
		c.Set(session.CookieName, inst)
		return inst
	}
	return h.sessions.Transient()
}

// preview reports whether the request may read draft content. It needs
// preview=true and the configured preview secret.
func (h *Handlers) preview(c *gin.Context) bool {
	v, _ := strconv.ParseBool(c.Query("preview"))
	if !v {
		return false
	}
	if h.secrets.Preview == "" || !secretMatches(c.Query("secret"), h.secrets.Preview) {
		h.logger.Debug("Ignoring preview request without a valid secret", zap.String("path", c.Request.URL.Path))
		return false
	}
	return true
}

func secretMatches(got, want string) bool {
	return subtle.ConstantTimeCompare([]byte(got), []byte(want)) == 1
}

func withQuery(c *gin.Context, path string) string {
	if q := c.Request.URL.RawQuery; q != "" {
		return path + "?" + q
	}
	return path
}

// Package app is the view controller: it owns the lead store and the active
// discovery and chat sessions, and is the only path that mutates saved leads.
package app

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/prospector-cli/internal/chat"
	"github.com/sells-group/prospector-cli/internal/dashboard"
	"github.com/sells-group/prospector-cli/internal/discovery"
	"github.com/sells-group/prospector-cli/internal/leadstore"
	"github.com/sells-group/prospector-cli/internal/locate"
	"github.com/sells-group/prospector-cli/internal/model"
)

// Notices shown to the user.
const (
	NoticeAlreadySaved = "Lead already saved!"
	NoticeSaved        = "Lead added to CRM!"
	NoticeNoLocation   = "Could not detect your location."
	NoticeSearchFailed = "Search failed. Please try again."
	NoticeMissingQuery = "Enter both a niche and a location."
	PromptRemove       = "Remove this lead?"
)

// View is one top-level screen.
type View string

const (
	ViewDashboard View = "dashboard"
	ViewSearch    View = "search"
	ViewChat      View = "chat"
	ViewLeads     View = "leads"
)

// Views lists every view in navigation order.
var Views = []View{ViewDashboard, ViewSearch, ViewChat, ViewLeads}

var (
	// ErrUnknownView is returned by Navigate for an unrecognized view.
	ErrUnknownView = eris.New("app: unknown view")
	// ErrInvalidStatus is returned for a CRM status outside the pipeline.
	ErrInvalidStatus = eris.New("app: invalid crm status")
	// ErrNoSelection is returned by SaveSelected when no lead is selected.
	ErrNoSelection = eris.New("app: no lead selected")
)

// ParseView converts user input to a View.
func ParseView(v string) (View, error) {
	view := View(strings.ToLower(strings.TrimSpace(v)))
	for _, known := range Views {
		if view == known {
			return view, nil
		}
	}
	return "", eris.Wrapf(ErrUnknownView, "%q", v)
}

// Deps are the collaborators a Controller is built from.
type Deps struct {
	Leads   *leadstore.Store
	Backend discovery.Backend
	// NewResponder starts the backend side of a fresh conversation.
	NewResponder func() chat.Responder
	Locator      discovery.Locator
	Notifier     Notifier
	Confirmer    Confirmer
	Dashboard    dashboard.Config
}

// Controller routes user intents between views and owned state.
type Controller struct {
	leads        *leadstore.Store
	backend      discovery.Backend
	newResponder func() chat.Responder
	locator      discovery.Locator
	notifier     Notifier
	confirmer    Confirmer
	dashCfg      dashboard.Config

	mu     sync.Mutex
	view   View
	search *discovery.Session
	chat   *chat.Session
}

// New creates a Controller on the dashboard view. Removal is refused unless a
// Confirmer is supplied, and location requests fail without a Locator.
func New(d Deps) *Controller {
	c := &Controller{
		leads:        d.Leads,
		backend:      d.Backend,
		newResponder: d.NewResponder,
		locator:      d.Locator,
		notifier:     d.Notifier,
		confirmer:    d.Confirmer,
		dashCfg:      d.Dashboard,
		view:         ViewDashboard,
	}
	if c.notifier == nil {
		c.notifier = NotifierFunc(func(msg string) { zap.L().Info("notice", zap.String("msg", msg)) })
	}
	if c.confirmer == nil {
		c.confirmer = Answer(false)
	}
	if c.locator == nil {
		c.locator = locate.Denied{}
	}
	c.search = discovery.NewSession(c.backend)
	c.chat = chat.NewSession(c.responder())
	return c
}

// responder is nil for controllers built without an AI backend, such as
// pipeline-only commands.
func (c *Controller) responder() chat.Responder {
	if c.newResponder == nil {
		return nil
	}
	return c.newResponder()
}

func (c *Controller) notify(ctx context.Context, msg string) {
	if n, ok := ctx.Value(notifierKey{}).(Notifier); ok {
		n.Notify(msg)
		return
	}
	c.notifier.Notify(msg)
}

func (c *Controller) confirm(ctx context.Context, prompt string) bool {
	if cf, ok := ctx.Value(confirmerKey{}).(Confirmer); ok {
		return cf.Confirm(ctx, prompt)
	}
	return c.confirmer.Confirm(ctx, prompt)
}

// View returns the active view.
func (c *Controller) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.view
}

// Navigate switches views. Entering search or chat starts a fresh session;
// results of the abandoned one are never merged.
func (c *Controller) Navigate(v View) error {
	if _, err := ParseView(string(v)); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.view = v
	switch v {
	case ViewSearch:
		c.search = discovery.NewSession(c.backend)
	case ViewChat:
		c.chat = chat.NewSession(c.responder())
	}
	zap.L().Debug("app: navigate", zap.String("view", string(v)))
	return nil
}

// Search returns the active discovery session.
func (c *Controller) Search() *discovery.Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.search
}

// Chat returns the active conversation.
func (c *Controller) Chat() *chat.Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.chat
}

// RunSearch submits a query to the active discovery session.
func (c *Controller) RunSearch(ctx context.Context, niche, location string) ([]model.BusinessLead, error) {
	results, err := c.Search().Search(ctx, niche, location)
	switch {
	case err == nil:
		return results, nil
	case errors.Is(err, discovery.ErrMissingQuery):
		c.notify(ctx, NoticeMissingQuery)
	case errors.Is(err, discovery.ErrSuperseded):
	default:
		c.notify(ctx, NoticeSearchFailed)
	}
	return nil, err
}

// UseMyLocation attaches the device position to the active query.
func (c *Controller) UseMyLocation(ctx context.Context) (model.Coordinates, error) {
	coords, err := c.Search().UseMyLocation(ctx, c.locator)
	if err != nil {
		c.notify(ctx, NoticeNoLocation)
		return model.Coordinates{}, err
	}
	return coords, nil
}

// SelectLead selects a search result and starts its enrichment.
func (c *Controller) SelectLead(ctx context.Context, id string) (model.BusinessLead, error) {
	return c.Search().SelectID(ctx, id)
}

// SaveLead adds lead to the pipeline. A lead whose name is already saved is
// rejected with a notice and reported as false.
func (c *Controller) SaveLead(ctx context.Context, lead model.BusinessLead) (model.BusinessLead, bool) {
	saved, err := c.leads.Add(ctx, lead)
	if err != nil {
		if errors.Is(err, leadstore.ErrDuplicateName) {
			c.notify(ctx, NoticeAlreadySaved)
		} else {
			zap.L().Error("app: save lead", zap.String("lead", lead.Name), zap.Error(err))
		}
		return model.BusinessLead{}, false
	}
	c.notify(ctx, NoticeSaved)
	return saved, true
}

// SaveResult saves the search result with the given id. The selected lead
// carries its analysis and competitors once enrichment is ready.
func (c *Controller) SaveResult(ctx context.Context, id string) (model.BusinessLead, bool, error) {
	s := c.Search()
	snap := s.Snapshot()
	if snap.Selected != nil && snap.Selected.ID == id {
		saved, ok := c.SaveLead(ctx, withEnrichment(*snap.Selected, snap.Enrichment))
		return saved, ok, nil
	}

	lead, ok := s.Lookup(id)
	if !ok {
		return model.BusinessLead{}, false, eris.Wrapf(discovery.ErrUnknownLead, "id %q", id)
	}
	saved, ok := c.SaveLead(ctx, lead)
	return saved, ok, nil
}

// SaveSelected saves the selected lead, with enrichment when ready.
func (c *Controller) SaveSelected(ctx context.Context) (model.BusinessLead, bool, error) {
	snap := c.Search().Snapshot()
	if snap.Selected == nil {
		return model.BusinessLead{}, false, ErrNoSelection
	}
	saved, ok := c.SaveLead(ctx, withEnrichment(*snap.Selected, snap.Enrichment))
	return saved, ok, nil
}

func withEnrichment(lead model.BusinessLead, e discovery.Enrichment) model.BusinessLead {
	if e.State != discovery.EnrichmentReady {
		return lead
	}
	lead.AIAnalysis = e.Analysis
	lead.Competitors = e.Competitors
	return lead
}

// UpdateLeadStatus moves a saved lead along the pipeline. Unknown ids are a
// silent no-op reported as false.
func (c *Controller) UpdateLeadStatus(ctx context.Context, id string, status model.CRMStatus) (bool, error) {
	if !status.Valid() {
		return false, eris.Wrapf(ErrInvalidStatus, "%q", status)
	}
	return c.leads.UpdateStatus(ctx, id, status), nil
}

// RemoveLead deletes a saved lead once the user confirms.
func (c *Controller) RemoveLead(ctx context.Context, id string) bool {
	if _, ok := c.leads.Get(id); !ok {
		return false
	}
	if !c.confirm(ctx, PromptRemove) {
		return false
	}
	return c.leads.Remove(ctx, id)
}

// Leads returns the saved pipeline.
func (c *Controller) Leads() []model.BusinessLead {
	return c.leads.Leads()
}

// Dashboard summarizes the saved pipeline.
func (c *Controller) Dashboard() dashboard.Stats {
	return dashboard.Summarize(c.leads.Leads(), c.dashCfg)
}

// Board groups the saved pipeline into kanban columns.
func (c *Controller) Board() dashboard.Board {
	return dashboard.BuildBoard(c.leads.Leads())
}

// SendChat sends one message in the active conversation. Blank input is a
// silent no-op.
func (c *Controller) SendChat(ctx context.Context, text string) (model.ChatMessage, error) {
	return c.Chat().Send(ctx, text)
}

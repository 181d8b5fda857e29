// Package leadstore holds the saved leads of the CRM pipeline and keeps them
// mirrored to durable storage.
package leadstore

import (
	"context"
	"encoding/json"
	"slices"
	"sync"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/prospector-cli/internal/model"
	"github.com/sells-group/prospector-cli/internal/monitoring"
	"github.com/sells-group/prospector-cli/internal/store"
)

// DefaultKey is the storage key holding the serialized lead sequence.
const DefaultKey = "leadgen_leads"

// ErrDuplicateName is returned by Add when a stored lead already has the same name.
var ErrDuplicateName = eris.New("leadstore: lead already saved")

// Option configures a Store.
type Option func(*Store)

// WithKey overrides the storage key.
func WithKey(key string) Option {
	return func(s *Store) {
		if key != "" {
			s.key = key
		}
	}
}

// WithObserver registers a callback invoked with a snapshot after every
// accepted mutation.
func WithObserver(fn func([]model.BusinessLead)) Option {
	return func(s *Store) {
		s.observer = fn
	}
}

// Store is the ordered, persisted set of saved leads. Every accepted mutation
// rewrites the full sequence to the backing store before returning.
type Store struct {
	mu       sync.Mutex
	kv       store.Store
	key      string
	leads    []model.BusinessLead
	observer func([]model.BusinessLead)
}

// Open loads the saved leads from kv. Load failures are logged and yield an
// empty store; Open never fails.
func Open(ctx context.Context, kv store.Store, opts ...Option) *Store {
	s := &Store{kv: kv, key: DefaultKey}
	for _, o := range opts {
		o(s)
	}
	s.leads = s.load(ctx)
	return s
}

func (s *Store) load(ctx context.Context) []model.BusinessLead {
	data, err := s.kv.Get(ctx, s.key)
	if err != nil {
		zap.L().Error("leadstore: load failed, starting empty", zap.String("key", s.key), zap.Error(err))
		return []model.BusinessLead{}
	}
	if len(data) == 0 {
		return []model.BusinessLead{}
	}

	var leads []model.BusinessLead
	if err := json.Unmarshal(data, &leads); err != nil {
		zap.L().Error("leadstore: parse failed, starting empty", zap.String("key", s.key), zap.Error(err))
		return []model.BusinessLead{}
	}
	if leads == nil {
		leads = []model.BusinessLead{}
	}
	return leads
}

// save serializes the full sequence. Write failures are logged and swallowed:
// the in-memory sequence stays authoritative for the session.
func (s *Store) save(ctx context.Context) {
	data, err := json.Marshal(s.leads)
	if err != nil {
		zap.L().Error("leadstore: marshal failed", zap.Error(err))
		return
	}
	if err := s.kv.Put(ctx, s.key, data); err != nil {
		monitoring.LeadStoreWrites.WithLabelValues("error").Inc()
		zap.L().Error("leadstore: save failed", zap.String("key", s.key), zap.Error(err))
	} else {
		monitoring.LeadStoreWrites.WithLabelValues("ok").Inc()
	}
	if s.observer != nil {
		s.observer(model.CloneLeads(s.leads))
	}
}

// Leads returns a snapshot of the saved leads in insertion order.
func (s *Store) Leads() []model.BusinessLead {
	s.mu.Lock()
	defer s.mu.Unlock()
	return model.CloneLeads(s.leads)
}

// Get returns the saved lead with the given id.
func (s *Store) Get(id string) (model.BusinessLead, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexOf(id); i >= 0 {
		return s.leads[i].Clone(), true
	}
	return model.BusinessLead{}, false
}

// Add appends lead with CRM status NEW. A lead whose name matches a stored
// lead is rejected with ErrDuplicateName, regardless of id. A missing id, or
// one already held by another stored lead, is replaced with a fresh one; the
// returned lead carries the id it was stored under.
func (s *Store) Add(ctx context.Context, lead model.BusinessLead) (model.BusinessLead, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if slices.ContainsFunc(s.leads, func(l model.BusinessLead) bool { return l.Name == lead.Name }) {
		return model.BusinessLead{}, eris.Wrapf(ErrDuplicateName, "name %q", lead.Name)
	}

	saved := lead.Clone()
	if saved.ID == "" || s.indexOf(saved.ID) >= 0 {
		if saved.ID != "" {
			zap.L().Debug("leadstore: id already stored, reassigning", zap.String("id", saved.ID), zap.String("name", saved.Name))
		}
		saved.ID = uuid.NewString()
	}
	saved.CRMStatus = model.CRMStatusNew
	s.leads = append(s.leads, saved)
	s.save(ctx)
	return saved.Clone(), nil
}

// UpdateStatus sets the CRM status of the lead with the given id. Unknown ids
// are ignored and reported as false.
func (s *Store) UpdateStatus(ctx context.Context, id string, status model.CRMStatus) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return false
	}
	s.leads[i].CRMStatus = status
	s.save(ctx)
	return true
}

// Remove deletes the lead with the given id. Callers gate this behind a user
// confirmation.
func (s *Store) Remove(ctx context.Context, id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return false
	}
	s.leads = slices.Delete(s.leads, i, i+1)
	s.save(ctx)
	return true
}

func (s *Store) indexOf(id string) int {
	return slices.IndexFunc(s.leads, func(l model.BusinessLead) bool { return l.ID == id })
}

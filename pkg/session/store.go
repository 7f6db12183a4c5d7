// Package session keeps the form and help section instances of each
// visitor. Instances are identified by a random id carried in a cookie and
// are evicted once idle.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/digitalocean/contact-page/pkg/contactform"
	"github.com/digitalocean/contact-page/pkg/helpsection"
)

// CookieName is the cookie carrying the session id.
const CookieName = "contact_session"

// DefaultIdleTTL is used when Config.IdleTTL is zero.
const DefaultIdleTTL = 30 * time.Minute

// Config configures a Store.
type Config struct {
	Submitter     contactform.Submitter
	SuccessWindow time.Duration
	IdleTTL       time.Duration
	Logger        *zap.Logger
	Now           func() time.Time
}

// Store owns every live Instance.
type Store struct {
	mu        sync.Mutex
	instances map[string]*Instance
	closed    bool

	submitter     contactform.Submitter
	successWindow time.Duration
	idleTTL       time.Duration
	now           func() time.Time
	logger        *zap.Logger
}

// NewStore creates an empty store.
func NewStore(cfg Config) *Store {
	s := &Store{
		instances:     make(map[string]*Instance),
		submitter:     cfg.Submitter,
		successWindow: cfg.SuccessWindow,
		idleTTL:       cfg.IdleTTL,
		now:           cfg.Now,
		logger:        cfg.Logger,
	}
	if s.idleTTL <= 0 {
		s.idleTTL = DefaultIdleTTL
	}
	if s.successWindow <= 0 {
		s.successWindow = contactform.DefaultSuccessWindow
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	return s
}

// Get returns the instance with the given id, creating and storing a new
// one with a fresh id when id is unknown or empty. The returned instance
// is marked as seen.
func (s *Store) Get(id string) *Instance {
	if inst, ok := s.Lookup(id); ok {
		return inst
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	inst := s.newInstance(s.now())
	if s.closed {
		inst.close()
	} else {
		s.instances[inst.id] = inst
	}
	s.logger.Debug("Session created", zap.String("session", inst.id))
	return inst
}

// Lookup returns the stored instance with the given id and marks it as
// seen. It never creates one.
func (s *Store) Lookup(id string) (*Instance, bool) {
	if id == "" {
		return nil, false
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	inst, ok := s.instances[id]
	if ok {
		inst.touch(s.now())
	}
	return inst, ok
}

// Transient returns an empty instance that is not stored. Read-only
// renders for visitors without a session use it.
func (s *Store) Transient() *Instance {
	return s.newInstance(s.now())
}

func (s *Store) newInstance(now time.Time) *Instance {
	return &Instance{
		id:        uuid.NewString(),
		forms:     make(map[string]*contactform.Form),
		selectors: make(map[string]*helpsection.Selector),
		newForm:   s.newForm,
		logger:    s.logger,
		lastSeen:  now,
	}
}

func (s *Store) newForm(logger *zap.Logger) *contactform.Form {
	return contactform.New(s.submitter,
		contactform.WithSuccessWindow(s.successWindow),
		contactform.WithLogger(logger))
}

// Len returns the number of live instances.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.instances)
}

// Sweep evicts instances idle for longer than the idle TTL and returns how
// many were removed.
func (s *Store) Sweep() int {
	s.mu.Lock()
	cutoff := s.now().Add(-s.idleTTL)
	var expired []*Instance
	for id, inst := range s.instances {
		if inst.seenBefore(cutoff) {
			expired = append(expired, inst)
			delete(s.instances, id)
		}
	}
	s.mu.Unlock()

	for _, inst := range expired {
		inst.close()
	}
	if len(expired) > 0 {
		s.logger.Debug("Sessions evicted", zap.Int("count", len(expired)))
	}
	return len(expired)
}

// Run sweeps periodically until ctx is done.
func (s *Store) Run(ctx context.Context) {
	interval := s.idleTTL / 4
	if interval < time.Second {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Sweep()
		}
	}
}

// Close closes every instance. Instances handed out afterwards are closed
// from the start.
func (s *Store) Close() {
	s.mu.Lock()
	instances := s.instances
	s.instances = make(map[string]*Instance)
	s.closed = true
	s.mu.Unlock()

	for _, inst := range instances {
		inst.close()
	}
}

package warehouse

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/katalvlaran/warepath/internal/metrics"
)

// Store keeps one Warehouse per session plus a default Warehouse used when
// no session is named.
type Store struct {
	mu       sync.RWMutex
	cfg      Config
	max      int
	def      *Warehouse
	sessions map[uuid.UUID]*Warehouse
}

// NewStore creates the default Warehouse from cfg. max bounds the number of
// extra sessions; 0 means unbounded.
func NewStore(cfg Config, max int) (*Store, error) {
	def, err := New(cfg)
	if err != nil {
		return nil, err
	}
	return &Store{
		cfg:      cfg,
		max:      max,
		def:      def,
		sessions: make(map[uuid.UUID]*Warehouse),
	}, nil
}

// Default returns the Warehouse shared by requests without a session.
func (s *Store) Default() *Warehouse { return s.def }

// Get returns the Warehouse for id. The empty id selects the default.
func (s *Store) Get(id string) (*Warehouse, error) {
	if id == "" {
		return s.def, nil
	}
	key, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSession, id)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	w, ok := s.sessions[key]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSession, id)
	}
	return w, nil
}

// Create starts a new session with its own freshly generated grid.
func (s *Store) Create() (string, *Warehouse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.max > 0 && len(s.sessions) >= s.max {
		return "", nil, fmt.Errorf("%w: %d sessions", ErrTooManySessions, s.max)
	}
	cfg := s.cfg
	cfg.Seed = 0 // sessions draw independent grids
	w, err := New(cfg)
	if err != nil {
		return "", nil, err
	}

	id := uuid.New()
	s.sessions[id] = w
	metrics.ActiveSessions.Set(float64(len(s.sessions)))
	return id.String(), w, nil
}

// Delete ends a session. The default session cannot be deleted.
func (s *Store) Delete(id string) error {
	key, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("%w: %q", ErrUnknownSession, id)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[key]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownSession, id)
	}
	delete(s.sessions, key)
	metrics.ActiveSessions.Set(float64(len(s.sessions)))
	return nil
}

// Len returns the number of live sessions, excluding the default.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// ABOUTME: Signal Store holding the inbound lead feed
// ABOUTME: Fetches signals once at startup and exposes them read-only
package signals

import (
	"context"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/harperreed/autoreach/logging"
	"github.com/harperreed/autoreach/models"
)

// Lister fetches the signal feed. backend.Client satisfies it.
type Lister interface {
	ListSignals(ctx context.Context) ([]models.Signal, error)
}

// Store is loaded once and read-only afterwards.
type Store struct {
	lister Lister
	logger *log.Logger

	once    sync.Once
	mu      sync.RWMutex
	signals []models.Signal
	loaded  bool
	err     error
}

func NewStore(lister Lister, logger *log.Logger) *Store {
	return &Store{
		lister: lister,
		logger: logging.OrDiscard(logger).With("component", "signals"),
	}
}

// Load fetches the feed. Only the first call reaches the backend; a failure
// leaves the store empty and is recorded for Err, never returned as fatal.
func (s *Store) Load(ctx context.Context) {
	s.once.Do(func() {
		list, err := s.lister.ListSignals(ctx)

		s.mu.Lock()
		defer s.mu.Unlock()
		if err != nil {
			s.err = err
			s.logger.Error("failed to load signals", "err", err)
			return
		}
		s.signals = list
		s.loaded = true
		s.logger.Info("signals loaded", "count", len(list))
	})
}

// All returns a copy of the signals in feed order.
func (s *Store) All() []models.Signal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Signal, len(s.signals))
	copy(out, s.signals)
	return out
}

// Get looks a signal up by id.
func (s *Store) Get(id int) (models.Signal, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, sig := range s.signals {
		if sig.ID == id {
			return sig, true
		}
	}
	return models.Signal{}, false
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.signals)
}

// Loaded reports whether a load succeeded.
func (s *Store) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}

// Err is the load failure, if any.
func (s *Store) Err() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.err
}

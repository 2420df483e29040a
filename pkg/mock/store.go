package mock

import (
	"log/slog"
	"sync"

	"github.com/clientmock/clientmock/internal/id"
	"github.com/clientmock/clientmock/internal/matching"
	"github.com/clientmock/clientmock/pkg/logging"
)

// entryIDs issues entry identifiers. It is process-wide on purpose:
// ids stay strictly increasing across stores and across clears, so a
// stale handle can never be confused with a later registration.
var entryIDs id.Sequence

// Store is the ordered registry of mock entries. Insertion order is
// semantically significant: when several entries match a request
// exactly, the one registered last wins, which is what lets a test
// re-register an expectation to change its behavior.
//
// A Store is owned by the test-harness lifecycle; it is reset
// wholesale on teardown and entries are never removed individually.
type Store struct {
	mu      sync.Mutex
	entries []*Entry
	logger  *slog.Logger
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithLogger directs store diagnostics to the given logger.
func WithLogger(logger *slog.Logger) StoreOption {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewStore creates an empty registry.
func NewStore(opts ...StoreOption) *Store {
	s := &Store{logger: logging.Nop()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register appends an entry and returns it for chained assertions.
// The entry is assigned the next id in the process-wide sequence.
func (s *Store) Register(e *Entry) *Entry {
	e.id = entryIDs.Next()

	s.mu.Lock()
	s.entries = append(s.entries, e)
	s.mu.Unlock()

	s.logger.Debug("registered mock entry",
		"id", e.id,
		"method", e.method,
		"url", e.url.String(),
		"pendingReplay", e.PendingReplay())

	return e
}

// Clear empties the registry. The id sequence is not reset; ids keep
// increasing for the life of the process.
func (s *Store) Clear() {
	s.mu.Lock()
	n := len(s.entries)
	s.entries = nil
	s.mu.Unlock()

	s.logger.Debug("cleared mock registry", "removed", n)
}

// UnusedCount returns the number of entries whose call history is
// empty at the instant of the call.
func (s *Store) UnusedCount() int {
	count := 0
	for _, e := range s.snapshot() {
		if e.CallCount() == 0 {
			count++
		}
	}
	return count
}

// Len returns the number of registered entries.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Entries returns the registered entries in registration order.
func (s *Store) Entries() []*Entry {
	return s.snapshot()
}

func (s *Store) snapshot() []*Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

func methodsEqual(expected, actual string) bool {
	return matching.MatchMethod(expected, actual)
}

func headerLookup(headers map[string]string, name string) (string, bool) {
	return matching.HeaderValue(headers, name)
}

// Package memory provides the in-memory store used for development and tests.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/rfarias/partida/internal/budget"
	"github.com/rfarias/partida/internal/errs"
	"github.com/rfarias/partida/internal/ledger"
)

// Store keeps the account tree, journal entries, budgets and settings behind
// an RWMutex. Entries are indexed for ordered scans by (date, id).
type Store struct {
	mu       sync.RWMutex
	tree     []ledger.Account
	entries  map[uuid.UUID]ledger.Entry
	keys     []entryKey
	budgets  map[uuid.UUID]budget.Budget
	settings ledger.Settings
}

type entryKey struct {
	Date string
	ID   uuid.UUID
}

func New() *Store {
	return &Store{
		entries: make(map[uuid.UUID]ledger.Entry),
		budgets: make(map[uuid.UUID]budget.Budget),
	}
}

// SeedTree replaces the whole account tree, for dev bootstrapping.
func (s *Store) SeedTree(tree []ledger.Account) {
	s.mu.Lock()
	s.tree = tree
	s.mu.Unlock()
}

// SeedSettings replaces the settings blob.
func (s *Store) SeedSettings(cfg ledger.Settings) {
	s.mu.Lock()
	s.settings = cfg
	s.mu.Unlock()
}

func (s *Store) Reset() {
	s.mu.Lock()
	s.tree = nil
	s.entries = make(map[uuid.UUID]ledger.Entry)
	s.keys = nil
	s.budgets = make(map[uuid.UUID]budget.Budget)
	s.settings = ledger.Settings{}
	s.mu.Unlock()
}

func (s *Store) Tree(_ context.Context) ([]ledger.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tree, nil
}

func (s *Store) SaveTree(_ context.Context, tree []ledger.Account) error {
	s.mu.Lock()
	s.tree = tree
	s.mu.Unlock()
	return nil
}

func (s *Store) Settings(_ context.Context) (ledger.Settings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings, nil
}

func (s *Store) SaveSettings(_ context.Context, cfg ledger.Settings) error {
	s.mu.Lock()
	s.settings = cfg
	s.mu.Unlock()
	return nil
}

// Entries returns all entries ordered asc by (date, id).
func (s *Store) Entries(_ context.Context) ([]ledger.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]ledger.Entry, 0, len(s.keys))
	for _, k := range s.keys {
		if e, ok := s.entries[k.ID]; ok {
			out = append(out, e)
		}
	}
	return out, nil
}

func (s *Store) EntryByID(_ context.Context, id uuid.UUID) (ledger.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[id]
	if !ok {
		return ledger.Entry{}, errs.ErrNotFound
	}
	return e, nil
}

// SaveEntry inserts or replaces an entry, keeping the order index current.
func (s *Store) SaveEntry(_ context.Context, e ledger.Entry) (ledger.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.entries[e.ID]; exists {
		s.removeKeyLocked(e.ID)
	}
	s.entries[e.ID] = e
	s.insertKeyLocked(entryKey{Date: e.Date, ID: e.ID})
	return e, nil
}

func (s *Store) DeleteEntry(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.entries[id]; !ok {
		return errs.ErrNotFound
	}
	delete(s.entries, id)
	s.removeKeyLocked(id)
	return nil
}

func (s *Store) Budgets(_ context.Context) ([]budget.Budget, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]budget.Budget, 0, len(s.budgets))
	for _, b := range s.budgets {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Year != out[j].Year {
			return out[i].Year < out[j].Year
		}
		if out[i].Month != out[j].Month {
			return out[i].Month < out[j].Month
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

func (s *Store) BudgetByID(_ context.Context, id uuid.UUID) (budget.Budget, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.budgets[id]
	if !ok {
		return budget.Budget{}, errs.ErrNotFound
	}
	return b, nil
}

func (s *Store) SaveBudget(_ context.Context, b budget.Budget) (budget.Budget, error) {
	s.mu.Lock()
	s.budgets[b.ID] = b
	s.mu.Unlock()
	return b, nil
}

func (s *Store) DeleteBudget(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.budgets[id]; !ok {
		return errs.ErrNotFound
	}
	delete(s.budgets, id)
	return nil
}

// Ready reports storage health; the in-memory store is always ready.
func (s *Store) Ready(_ context.Context) error { return nil }

// insertKeyLocked keeps s.keys sorted asc by (Date, ID). Caller holds the
// write lock.
func (s *Store) insertKeyLocked(k entryKey) {
	i := sort.Search(len(s.keys), func(i int) bool {
		if s.keys[i].Date != k.Date {
			return s.keys[i].Date > k.Date
		}
		return s.keys[i].ID.String() > k.ID.String()
	})
	s.keys = append(s.keys, entryKey{})
	copy(s.keys[i+1:], s.keys[i:])
	s.keys[i] = k
}

func (s *Store) removeKeyLocked(id uuid.UUID) {
	for i, k := range s.keys {
		if k.ID == id {
			s.keys = append(s.keys[:i], s.keys[i+1:]...)
			return
		}
	}
}

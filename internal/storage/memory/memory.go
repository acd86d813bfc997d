// Package memory provides an in-memory ledger store used by tests and by the
// memory backend in development.
package memory

import (
	"context"
	"errors"
	"sync"
	"time"

	"spendwise/internal/core"
)

var ErrNotFound = errors.New("not found")

// Store keeps every entity in maps guarded by one mutex. Reads return copies;
// callers never share slices with the store.
type Store struct {
	mu        sync.Mutex
	accounts  map[string]core.Account
	txns      map[string]core.Transaction
	budgets   map[string]core.Budget
	rules     map[string]core.RecurringRule
	cats      map[string]core.Category
	insertSeq map[string]int // preserves insertion order for listings
	nextSeq   int
}

func New() *Store {
	return &Store{
		accounts:  make(map[string]core.Account),
		txns:      make(map[string]core.Transaction),
		budgets:   make(map[string]core.Budget),
		rules:     make(map[string]core.RecurringRule),
		cats:      make(map[string]core.Category),
		insertSeq: make(map[string]int),
	}
}

func (s *Store) track(id string) {
	if _, ok := s.insertSeq[id]; !ok {
		s.nextSeq++
		s.insertSeq[id] = s.nextSeq
	}
}

func (s *Store) Accounts(_ context.Context) ([]core.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Account, 0, len(s.accounts))
	for _, a := range s.accounts {
		out = append(out, a)
	}
	s.sortBySeq(len(out), func(i int) string { return out[i].ID }, func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out, nil
}

func (s *Store) AddAccount(_ context.Context, a core.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts[a.ID] = a
	s.track(a.ID)
	return nil
}

func (s *Store) DeleteAccount(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.accounts[id]; !ok {
		return ErrNotFound
	}
	delete(s.accounts, id)
	return nil
}

func (s *Store) Transactions(_ context.Context) ([]core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Transaction, 0, len(s.txns))
	for _, t := range s.txns {
		out = append(out, t)
	}
	s.sortBySeq(len(out), func(i int) string { return out[i].ID }, func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out, nil
}

func (s *Store) AddTransaction(_ context.Context, t core.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.txns[t.ID] = t
	s.track(t.ID)
	return nil
}

func (s *Store) UpdateTransaction(_ context.Context, t core.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.txns[t.ID]; !ok {
		return ErrNotFound
	}
	s.txns[t.ID] = t
	return nil
}

func (s *Store) DeleteTransaction(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.txns[id]; !ok {
		return ErrNotFound
	}
	delete(s.txns, id)
	return nil
}

func (s *Store) BudgetsForMonth(_ context.Context, yearMonth string) ([]core.Budget, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []core.Budget
	for _, b := range s.budgets {
		if b.YearMonth == yearMonth {
			out = append(out, b)
		}
	}
	s.sortBySeq(len(out), func(i int) string { return out[i].ID }, func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out, nil
}

func (s *Store) PutBudget(_ context.Context, b core.Budget) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.budgets[b.ID] = b
	s.track(b.ID)
	return nil
}

func (s *Store) DeleteBudget(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.budgets[id]; !ok {
		return ErrNotFound
	}
	delete(s.budgets, id)
	return nil
}

func (s *Store) RecurringRules(_ context.Context) ([]core.RecurringRule, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.RecurringRule, 0, len(s.rules))
	for _, r := range s.rules {
		out = append(out, r)
	}
	s.sortBySeq(len(out), func(i int) string { return out[i].ID }, func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out, nil
}

func (s *Store) DueRecurringRules(_ context.Context, cutoff time.Time) ([]core.RecurringRule, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []core.RecurringRule
	for _, r := range s.rules {
		if !r.NextDue.After(cutoff) {
			out = append(out, r)
		}
	}
	s.sortBySeq(len(out), func(i int) string { return out[i].ID }, func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out, nil
}

func (s *Store) PutRecurringRule(_ context.Context, r core.RecurringRule) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rules[r.ID] = r
	s.track(r.ID)
	return nil
}

func (s *Store) DeleteRecurringRule(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rules[id]; !ok {
		return ErrNotFound
	}
	delete(s.rules, id)
	return nil
}

func (s *Store) Categories(_ context.Context) ([]core.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Category, 0, len(s.cats))
	for _, c := range s.cats {
		out = append(out, c)
	}
	s.sortBySeq(len(out), func(i int) string { return out[i].ID }, func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out, nil
}

func (s *Store) PutCategory(_ context.Context, c core.Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cats[c.ID] = c
	s.track(c.ID)
	return nil
}

func (s *Store) DeleteCategory(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.cats[id]; !ok {
		return ErrNotFound
	}
	delete(s.cats, id)
	return nil
}

// sortBySeq orders a slice by original insertion, giving deterministic
// listings without storing slices alongside the maps.
func (s *Store) sortBySeq(n int, idAt func(int) string, swap func(int, int)) {
	for i := 1; i < n; i++ {
		for j := i; j > 0 && s.insertSeq[idAt(j)] < s.insertSeq[idAt(j-1)]; j-- {
			swap(j, j-1)
		}
	}
}

// Package memory is the in-process backend: a map guarded by a mutex and a
// monotonically increasing id counter. It is the correctness baseline the
// other backends are measured against, and the guaranteed fallback when no
// database is reachable. Data does not survive a restart.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/crisnabto/despesas/internal/balance"
	"github.com/crisnabto/despesas/internal/expense"
	"github.com/crisnabto/despesas/internal/user"
)

type Store struct {
	mu       sync.RWMutex
	expenses map[int]*expense.Expense
	nextID   int
	balance  *balance.AccountBalance
	users    map[string]*user.User
}

func New() *Store {
	return &Store{
		expenses: make(map[int]*expense.Expense),
		nextID:   1,
		users:    make(map[string]*user.User),
	}
}

func (s *Store) ListExpenses(_ context.Context) ([]*expense.Expense, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := s.collect(func(*expense.Expense) bool { return true })
	sortByDateDesc(out)

	return out, nil
}

func (s *Store) CreateExpense(_ context.Context, e *expense.Expense) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e.ID = s.nextID
	s.nextID++
	e.CreatedAt = time.Now().UTC()

	stored := *e
	s.expenses[e.ID] = &stored

	return nil
}

func (s *Store) UpdateExpense(_ context.Context, id int, patch expense.Patch) (*expense.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.expenses[id]
	if !ok {
		return nil, expense.ErrNotFound
	}

	patch.Apply(e)

	out := *e

	return &out, nil
}

func (s *Store) DeleteExpense(_ context.Context, id int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.expenses[id]
	delete(s.expenses, id)

	return ok, nil
}

func (s *Store) ListExpensesByCategory(_ context.Context, category string) ([]*expense.Expense, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := s.collect(func(e *expense.Expense) bool { return e.Category == category })
	sortByDateDesc(out)

	return out, nil
}

func (s *Store) ListUnpaidExpenses(_ context.Context) ([]*expense.Expense, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := s.collect(func(e *expense.Expense) bool { return !e.IsPaid })

	// Soonest due first, unlike the newest-first full listing.
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })

	return out, nil
}

func (s *Store) MarkExpensePaid(_ context.Context, id int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.expenses[id]
	if !ok {
		return false, nil
	}

	e.IsPaid = true

	return true, nil
}

func (s *Store) GetAccountBalance(_ context.Context) (*balance.AccountBalance, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.balance == nil {
		return nil, balance.ErrNotFound
	}

	out := *s.balance

	return &out, nil
}

func (s *Store) UpdateAccountBalance(_ context.Context, current decimal.Decimal) (*balance.AccountBalance, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.balance = &balance.AccountBalance{
		ID:             1,
		CurrentBalance: current,
		UpdatedAt:      time.Now().UTC(),
	}

	out := *s.balance

	return &out, nil
}

func (s *Store) GetUser(_ context.Context, id string) (*user.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, user.ErrNotFound
	}

	out := *u

	return &out, nil
}

func (s *Store) UpsertUser(_ context.Context, u *user.User) (*user.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()

	stored := *u
	if existing, ok := s.users[u.ID]; ok {
		stored.CreatedAt = existing.CreatedAt
	} else {
		stored.CreatedAt = now
	}

	stored.UpdatedAt = now
	s.users[u.ID] = &stored

	out := stored

	return &out, nil
}

// collect copies matching expenses so callers never share map entries.
func (s *Store) collect(keep func(*expense.Expense) bool) []*expense.Expense {
	var out []*expense.Expense

	for _, e := range s.expenses {
		if keep(e) {
			c := *e
			out = append(out, &c)
		}
	}

	return out
}

func sortByDateDesc(es []*expense.Expense) {
	sort.Slice(es, func(i, j int) bool {
		if es[i].Date.Equal(es[j].Date) {
			return es[i].ID > es[j].ID
		}

		return es[i].Date.After(es[j].Date)
	})
}

package fallback

import (
	"context"
	"sync/atomic"

	"github.com/shopspring/decimal"

	"github.com/crisnabto/despesas/internal/balance"
	"github.com/crisnabto/despesas/internal/expense"
	"github.com/crisnabto/despesas/internal/storage"
	"github.com/crisnabto/despesas/internal/user"
)

type ref struct {
	store   storage.Store
	backend Backend
}

// Handle is the single resolved storage reference the route layer owns. It
// starts on the in-memory backend so the server never blocks on startup,
// and is swapped atomically at most once when the selector resolves.
type Handle struct {
	current atomic.Pointer[ref]
}

func NewHandle() *Handle {
	h := &Handle{}
	h.current.Store(&ref{store: Memory(), backend: BackendMemory})

	return h
}

func (h *Handle) resolve(st storage.Store, backend Backend) {
	h.current.Store(&ref{store: st, backend: backend})
}

// Backend reports which backend the handle currently points at.
func (h *Handle) Backend() Backend {
	return h.current.Load().backend
}

func (h *Handle) store() storage.Store {
	return h.current.Load().store
}

// Handle satisfies storage.Store by delegating to the resolved backend.

func (h *Handle) ListExpenses(ctx context.Context) ([]*expense.Expense, error) {
	return h.store().ListExpenses(ctx)
}

func (h *Handle) CreateExpense(ctx context.Context, e *expense.Expense) error {
	return h.store().CreateExpense(ctx, e)
}

func (h *Handle) UpdateExpense(ctx context.Context, id int, patch expense.Patch) (*expense.Expense, error) {
	return h.store().UpdateExpense(ctx, id, patch)
}

func (h *Handle) DeleteExpense(ctx context.Context, id int) (bool, error) {
	return h.store().DeleteExpense(ctx, id)
}

func (h *Handle) ListExpensesByCategory(ctx context.Context, category string) ([]*expense.Expense, error) {
	return h.store().ListExpensesByCategory(ctx, category)
}

func (h *Handle) ListUnpaidExpenses(ctx context.Context) ([]*expense.Expense, error) {
	return h.store().ListUnpaidExpenses(ctx)
}

func (h *Handle) MarkExpensePaid(ctx context.Context, id int) (bool, error) {
	return h.store().MarkExpensePaid(ctx, id)
}

func (h *Handle) GetAccountBalance(ctx context.Context) (*balance.AccountBalance, error) {
	return h.store().GetAccountBalance(ctx)
}

func (h *Handle) UpdateAccountBalance(ctx context.Context, current decimal.Decimal) (*balance.AccountBalance, error) {
	return h.store().UpdateAccountBalance(ctx, current)
}

func (h *Handle) GetUser(ctx context.Context, id string) (*user.User, error) {
	return h.store().GetUser(ctx, id)
}

func (h *Handle) UpsertUser(ctx context.Context, u *user.User) (*user.User, error) {
	return h.store().UpsertUser(ctx, u)
}

var _ storage.Store = (*Handle)(nil)

package expense

import (
	"context"
)

// Repository is the slice of the storage contract the expense service needs.
// All three backends satisfy it.
type Repository interface {
	ListExpenses(ctx context.Context) ([]*Expense, error)
	CreateExpense(ctx context.Context, e *Expense) error
	UpdateExpense(ctx context.Context, id int, patch Patch) (*Expense, error)
	DeleteExpense(ctx context.Context, id int) (bool, error)
	ListExpensesByCategory(ctx context.Context, category string) ([]*Expense, error)
	ListUnpaidExpenses(ctx context.Context) ([]*Expense, error)
	MarkExpensePaid(ctx context.Context, id int) (bool, error)
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// List returns all expenses, most recent date first.
func (s *Service) List(ctx context.Context) ([]*Expense, error) {
	return s.repo.ListExpenses(ctx)
}

// Create validates the params and stores a new expense. The backend assigns
// ID and CreatedAt. IsPaid defaults to true when the caller leaves it unset.
func (s *Service) Create(ctx context.Context, params CreateParams) (*Expense, error) {
	if err := params.validate(); err != nil {
		return nil, err
	}

	isPaid := true
	if params.IsPaid != nil {
		isPaid = *params.IsPaid
	}

	e := &Expense{
		Category:      params.Category,
		Description:   params.Description,
		Value:         params.Value,
		Date:          params.Date,
		PaymentMethod: params.PaymentMethod,
		IsPaid:        isPaid,
	}
	if err := s.repo.CreateExpense(ctx, e); err != nil {
		return nil, err
	}

	return e, nil
}

// Update merges the patch onto the stored expense. Returns ErrNotFound when
// the id is unknown.
func (s *Service) Update(ctx context.Context, id int, patch Patch) (*Expense, error) {
	if err := patch.validate(); err != nil {
		return nil, err
	}

	return s.repo.UpdateExpense(ctx, id, patch)
}

// Delete reports whether an expense existed and was removed.
func (s *Service) Delete(ctx context.Context, id int) (bool, error) {
	return s.repo.DeleteExpense(ctx, id)
}

func (s *Service) ListByCategory(ctx context.Context, category string) ([]*Expense, error) {
	return s.repo.ListExpensesByCategory(ctx, category)
}

// ListUnpaid returns pending expenses, soonest due date first.
func (s *Service) ListUnpaid(ctx context.Context) ([]*Expense, error) {
	return s.repo.ListUnpaidExpenses(ctx)
}

// MarkPaid sets IsPaid on the expense. Idempotent; reports false only when
// the id is unknown.
func (s *Service) MarkPaid(ctx context.Context, id int) (bool, error) {
	return s.repo.MarkExpensePaid(ctx, id)
}

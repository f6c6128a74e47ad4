package balance

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/crisnabto/despesas/internal/expense"
)

// Repository is the balance slice of the storage contract.
type Repository interface {
	GetAccountBalance(ctx context.Context) (*AccountBalance, error)
	UpdateAccountBalance(ctx context.Context, current decimal.Decimal) (*AccountBalance, error)
}

// UnpaidLister provides the unpaid expenses a projection sums over.
type UnpaidLister interface {
	ListUnpaidExpenses(ctx context.Context) ([]*expense.Expense, error)
}

type Service struct {
	repo   Repository
	unpaid UnpaidLister
}

func NewService(repo Repository, unpaid UnpaidLister) *Service {
	return &Service{repo: repo, unpaid: unpaid}
}

// Get returns the singleton balance, or ErrNotFound before the first update.
func (s *Service) Get(ctx context.Context) (*AccountBalance, error) {
	return s.repo.GetAccountBalance(ctx)
}

// Update replaces the singleton balance and refreshes its timestamp.
func (s *Service) Update(ctx context.Context, current decimal.Decimal) (*AccountBalance, error) {
	return s.repo.UpdateAccountBalance(ctx, current)
}

// Project sums unpaid expenses against the current balance. A balance that
// was never set counts as zero so the projection still answers.
func (s *Service) Project(ctx context.Context) (*Projection, error) {
	b, err := s.repo.GetAccountBalance(ctx)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("getting balance: %w", err)
		}

		b = &AccountBalance{CurrentBalance: decimal.Zero}
	}

	unpaid, err := s.unpaid.ListUnpaidExpenses(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing unpaid expenses: %w", err)
	}

	total := decimal.Zero
	for _, e := range unpaid {
		total = total.Add(e.Value)
	}

	shortfall := total.Sub(b.CurrentBalance)
	if shortfall.IsNegative() {
		shortfall = decimal.Zero
	}

	return &Projection{
		CurrentBalance: b.CurrentBalance,
		UnpaidTotal:    total,
		Shortfall:      shortfall,
		UpdatedAt:      b.UpdatedAt,
	}, nil
}

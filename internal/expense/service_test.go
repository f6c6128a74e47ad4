package expense_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crisnabto/despesas/internal/expense"
	"github.com/crisnabto/despesas/internal/storage/memory"
)

func validParams() expense.CreateParams {
	return expense.CreateParams{
		Category:      expense.CategoryFuel,
		Description:   "Gas",
		Value:         decimal.RequireFromString("50.00"),
		HasValue:      true,
		Date:          time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		PaymentMethod: expense.PaymentCash,
	}
}

func TestService_Create(t *testing.T) {
	tests := []struct {
		name       string
		params     func() expense.CreateParams
		wantFields []string
		wantPaid   bool
	}{
		{
			name:     "DefaultsToPaid",
			params:   validParams,
			wantPaid: true,
		},
		{
			name: "ExplicitUnpaid",
			params: func() expense.CreateParams {
				p := validParams()
				unpaid := false
				p.IsPaid = &unpaid

				return p
			},
			wantPaid: false,
		},
		{
			name: "MissingEverything",
			params: func() expense.CreateParams {
				return expense.CreateParams{}
			},
			wantFields: []string{"category", "description", "value", "date", "paymentMethod"},
		},
		{
			name: "NegativeValue",
			params: func() expense.CreateParams {
				p := validParams()
				p.Value = decimal.RequireFromString("-1.00")

				return p
			},
			wantFields: []string{"value"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := expense.NewService(memory.New())

			got, err := svc.Create(context.Background(), tt.params())

			if len(tt.wantFields) > 0 {
				require.Error(t, err)

				var verr *expense.ValidationError
				require.True(t, errors.As(err, &verr))

				fields := make([]string, len(verr.Fields))
				for i, f := range verr.Fields {
					fields[i] = f.Field
				}

				assert.ElementsMatch(t, tt.wantFields, fields)
				assert.Nil(t, got)

				return
			}

			require.NoError(t, err)
			assert.NotZero(t, got.ID)
			assert.Equal(t, tt.wantPaid, got.IsPaid)
			assert.False(t, got.CreatedAt.IsZero())
		})
	}
}

func TestService_UpdateValidatesPatch(t *testing.T) {
	svc := expense.NewService(memory.New())

	created, err := svc.Create(context.Background(), validParams())
	require.NoError(t, err)

	empty := " "

	_, err = svc.Update(context.Background(), created.ID, expense.Patch{Description: &empty})

	var verr *expense.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "description", verr.Fields[0].Field)
}

func TestService_UpdateUnknownID(t *testing.T) {
	svc := expense.NewService(memory.New())

	desc := "nope"

	_, err := svc.Update(context.Background(), 42, expense.Patch{Description: &desc})
	assert.True(t, errors.Is(err, expense.ErrNotFound))
}

func TestService_MarkPaid(t *testing.T) {
	svc := expense.NewService(memory.New())

	unpaid := false
	p := validParams()
	p.IsPaid = &unpaid

	created, err := svc.Create(context.Background(), p)
	require.NoError(t, err)

	ok, err := svc.MarkPaid(context.Background(), created.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	remaining, err := svc.ListUnpaid(context.Background())
	require.NoError(t, err)
	assert.Empty(t, remaining)
}

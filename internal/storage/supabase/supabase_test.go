package supabase

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crisnabto/despesas/internal/balance"
	"github.com/crisnabto/despesas/internal/expense"
)

const testKey = "service-key"

func newTestStore(t *testing.T, handler http.HandlerFunc) *Store {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return New(srv.URL, testKey)
}

func TestListExpenses(t *testing.T) {
	store := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/rest/v1/expenses", r.URL.Path)
		assert.Equal(t, "date.desc,id.desc", r.URL.Query().Get("order"))
		assert.Equal(t, testKey, r.Header.Get("apikey"))
		assert.Equal(t, "Bearer "+testKey, r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"id":2,"category":"fuel","description":"Gas","value":"50.00","date":"2024-03-01","payment_method":"cash","is_paid":true,"created_at":"2024-03-01T10:00:00Z"},
			{"id":1,"category":"rent","description":"Rent","value":"900.00","date":"2024-02-01","payment_method":"bank-transfer","is_paid":false,"created_at":"2024-02-01T10:00:00Z"}
		]`))
	})

	es, err := store.ListExpenses(context.Background())
	require.NoError(t, err)
	require.Len(t, es, 2)

	assert.Equal(t, 2, es[0].ID)
	assert.Equal(t, "Gas", es[0].Description)
	assert.True(t, es[0].Value.Equal(decimal.RequireFromString("50.00")))
	assert.Equal(t, "2024-03-01", es[0].Date.Format("2006-01-02"))
	assert.False(t, es[1].IsPaid)
}

func TestCreateExpense(t *testing.T) {
	store := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/rest/v1/expenses", r.URL.Path)
		assert.Contains(t, r.Header.Values("Prefer"), "return=representation")

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`[{"id":7,"category":"fuel","description":"Gas","value":"50.00","date":"2024-03-01","payment_method":"cash","is_paid":true,"created_at":"2024-03-01T10:00:00Z"}]`))
	})

	e := &expense.Expense{
		Category:      expense.CategoryFuel,
		Description:   "Gas",
		Value:         decimal.RequireFromString("50.00"),
		Date:          mustDate(t, "2024-03-01"),
		PaymentMethod: expense.PaymentCash,
		IsPaid:        true,
	}
	require.NoError(t, store.CreateExpense(context.Background(), e))

	assert.Equal(t, 7, e.ID)
	assert.False(t, e.CreatedAt.IsZero())
}

func TestUpdateExpenseNotFound(t *testing.T) {
	store := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "eq.99", r.URL.Query().Get("id"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[]`))
	})

	desc := "nope"

	_, err := store.UpdateExpense(context.Background(), 99, expense.Patch{Description: &desc})
	assert.True(t, errors.Is(err, expense.ErrNotFound))
}

func TestDeleteExpense(t *testing.T) {
	deleted := true
	store := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)

		w.Header().Set("Content-Type", "application/json")

		if deleted {
			_, _ = w.Write([]byte(`[{"id":3,"category":"misc","description":"x","value":"1.00","date":"2024-03-01","payment_method":"cash","is_paid":true,"created_at":"2024-03-01T10:00:00Z"}]`))
		} else {
			_, _ = w.Write([]byte(`[]`))
		}
	})

	ok, err := store.DeleteExpense(context.Background(), 3)
	require.NoError(t, err)
	assert.True(t, ok)

	deleted = false

	ok, err = store.DeleteExpense(context.Background(), 3)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMarkExpensePaid(t *testing.T) {
	store := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "eq.4", r.URL.Query().Get("id"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id":4,"category":"misc","description":"x","value":"1.00","date":"2024-03-01","payment_method":"cash","is_paid":true,"created_at":"2024-03-01T10:00:00Z"}]`))
	})

	ok, err := store.MarkExpensePaid(context.Background(), 4)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestAccountBalanceUpsert(t *testing.T) {
	store := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/rest/v1/account_balance", r.URL.Path)
		assert.Contains(t, r.Header.Values("Prefer"), "resolution=merge-duplicates")

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id":1,"current_balance":"100.00","updated_at":"2024-03-01T10:00:00Z"}]`))
	})

	b, err := store.UpdateAccountBalance(context.Background(), decimal.RequireFromString("100.00"))
	require.NoError(t, err)
	assert.Equal(t, 1, b.ID)
	assert.True(t, b.CurrentBalance.Equal(decimal.RequireFromString("100.00")))
}

func TestGetAccountBalanceNotSet(t *testing.T) {
	store := newTestStore(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[]`))
	})

	_, err := store.GetAccountBalance(context.Background())
	assert.True(t, errors.Is(err, balance.ErrNotFound))
}

func TestServerErrorSurfaces(t *testing.T) {
	store := newTestStore(t, func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "permission denied", http.StatusUnauthorized)
	})

	_, err := store.ListExpenses(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 401")
}

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()

	d, err := time.Parse(time.DateOnly, s)
	require.NoError(t, err)

	return d
}

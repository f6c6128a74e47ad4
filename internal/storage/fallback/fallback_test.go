package fallback

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crisnabto/despesas/internal/expense"
	"github.com/crisnabto/despesas/internal/storage"
	"github.com/crisnabto/despesas/internal/storage/memory"
)

// failingList wraps a working store but refuses the read probe.
type failingList struct {
	storage.Store
}

func (failingList) ListExpenses(context.Context) ([]*expense.Expense, error) {
	return nil, errors.New("connection refused")
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testSelector(opts Options) *Selector {
	opts.RESTTimeout = 100 * time.Millisecond
	opts.DirectTimeout = 100 * time.Millisecond

	return NewSelector(opts, quietLogger())
}

func TestSelector_NoDatabaseURLStaysOnMemory(t *testing.T) {
	s := testSelector(Options{})
	h := NewHandle()

	backend := s.Run(context.Background(), h)

	assert.Equal(t, BackendMemory, backend)
	assert.Equal(t, BackendMemory, h.Backend())
	assert.Equal(t, StateActive, s.State())
}

func TestSelector_RESTProbeSuccess(t *testing.T) {
	s := testSelector(Options{
		DatabaseURL: "postgresql://example",
		SupabaseURL: "https://example.supabase.co",
		SupabaseKey: "key",
	})
	s.openREST = func() storage.Store { return memory.New() }

	h := NewHandle()

	backend := s.Run(context.Background(), h)

	assert.Equal(t, BackendREST, backend)
	assert.Equal(t, BackendREST, h.Backend())
}

func TestSelector_FallsBackToDirect(t *testing.T) {
	s := testSelector(Options{
		DatabaseURL: "postgresql://example",
		SupabaseURL: "https://example.supabase.co",
		SupabaseKey: "key",
	})
	s.openREST = func() storage.Store { return failingList{memory.New()} }
	s.pingDirect = func(context.Context) error { return nil }
	s.openDirect = func(context.Context) (storage.Store, error) { return memory.New(), nil }

	h := NewHandle()

	backend := s.Run(context.Background(), h)

	assert.Equal(t, BackendDirect, backend)
	assert.Equal(t, BackendDirect, h.Backend())
}

func TestSelector_SkipsRESTWhenNotConfigured(t *testing.T) {
	s := testSelector(Options{DatabaseURL: "postgresql://example"})
	s.pingDirect = func(context.Context) error { return nil }
	s.openDirect = func(context.Context) (storage.Store, error) { return memory.New(), nil }

	h := NewHandle()

	assert.Equal(t, BackendDirect, s.Run(context.Background(), h))
}

func TestSelector_AllProbesFailStaysOnMemory(t *testing.T) {
	s := testSelector(Options{
		DatabaseURL: "postgresql://example",
		SupabaseURL: "https://example.supabase.co",
		SupabaseKey: "key",
	})
	s.openREST = func() storage.Store { return failingList{memory.New()} }
	s.pingDirect = func(context.Context) error { return errors.New("no route to host") }

	h := NewHandle()

	backend := s.Run(context.Background(), h)

	assert.Equal(t, BackendMemory, backend)
	assert.Equal(t, BackendMemory, h.Backend())
	assert.Equal(t, StateActive, s.State())
}

func TestSelector_ConnectivityOKButProbeFails(t *testing.T) {
	s := testSelector(Options{DatabaseURL: "postgresql://example"})
	s.pingDirect = func(context.Context) error { return nil }
	s.openDirect = func(context.Context) (storage.Store, error) { return failingList{memory.New()}, nil }

	h := NewHandle()

	assert.Equal(t, BackendMemory, s.Run(context.Background(), h))
}

func TestHandle_ServesMemoryBeforeSelection(t *testing.T) {
	h := NewHandle()

	assert.Equal(t, BackendMemory, h.Backend())

	e := &expense.Expense{
		Category:      expense.CategoryMisc,
		Description:   "Early request",
		Date:          time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		PaymentMethod: expense.PaymentCash,
		IsPaid:        true,
	}
	require.NoError(t, h.CreateExpense(context.Background(), e))

	all, err := h.ListExpenses(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

// Package fallback selects the active storage backend at process start.
// The selection runs exactly once: try the Supabase REST surface, then a
// direct Postgres connection, and settle on the in-memory store when both
// probes fail. Requests arriving during the probing window are served from
// the in-memory default; that inconsistency window is accepted.
package fallback

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/crisnabto/despesas/internal/database"
	"github.com/crisnabto/despesas/internal/storage"
	"github.com/crisnabto/despesas/internal/storage/memory"
	"github.com/crisnabto/despesas/internal/storage/postgres"
	"github.com/crisnabto/despesas/internal/storage/supabase"
)

// State tracks the selector through its one-shot probe sequence.
type State string

const (
	StateUninitialized State = "uninitialized"
	StateProbingREST   State = "probing_rest"
	StateProbingDirect State = "probing_direct"
	StateActive        State = "active"
)

// Backend names the storage implementation a Handle resolved to.
type Backend string

const (
	BackendMemory Backend = "memory"
	BackendREST   Backend = "supabase-rest"
	BackendDirect Backend = "postgres"
)

// Options configure the probe sequence.
type Options struct {
	DatabaseURL   string
	SupabaseURL   string
	SupabaseKey   string
	RESTTimeout   time.Duration
	DirectTimeout time.Duration
}

// Selector owns the probe sequence. The open* fields exist so tests can
// substitute backends without a network.
type Selector struct {
	opts  Options
	log   *slog.Logger
	state State

	openREST   func() storage.Store
	pingDirect func(ctx context.Context) error
	openDirect func(ctx context.Context) (storage.Store, error)
}

func NewSelector(opts Options, log *slog.Logger) *Selector {
	if opts.RESTTimeout <= 0 {
		opts.RESTTimeout = 5 * time.Second
	}

	if opts.DirectTimeout <= 0 {
		opts.DirectTimeout = 8 * time.Second
	}

	s := &Selector{opts: opts, log: log, state: StateUninitialized}

	s.openREST = func() storage.Store {
		return supabase.New(opts.SupabaseURL, opts.SupabaseKey)
	}
	s.pingDirect = func(ctx context.Context) error {
		db, err := database.Open(ctx, opts.DatabaseURL)
		if err != nil {
			return err
		}

		return db.Close()
	}
	s.openDirect = func(ctx context.Context) (storage.Store, error) {
		return postgres.New(ctx, opts.DatabaseURL)
	}

	return s
}

// Run executes the probe sequence and resolves the handle exactly once.
// It returns the backend it settled on.
func (s *Selector) Run(ctx context.Context, h *Handle) Backend {
	if s.opts.DatabaseURL == "" {
		s.log.Info("no database configured, using in-memory storage")
		s.transition(StateActive)

		return BackendMemory
	}

	s.transition(StateProbingREST)

	if s.opts.SupabaseURL != "" && s.opts.SupabaseKey != "" {
		st := s.openREST()
		if err := s.probe(ctx, st, s.opts.RESTTimeout); err != nil {
			s.log.Warn("supabase rest probe failed", "error", err)
		} else {
			s.log.Info("storage selected", "backend", BackendREST)
			s.transition(StateActive)
			h.resolve(st, BackendREST)

			return BackendREST
		}
	} else {
		s.log.Info("supabase rest not configured, skipping probe")
	}

	s.transition(StateProbingDirect)

	if st, err := s.probeDirect(ctx); err != nil {
		s.log.Warn("direct connection probe failed", "error", err)
	} else {
		s.log.Info("storage selected", "backend", BackendDirect)
		s.transition(StateActive)
		h.resolve(st, BackendDirect)

		return BackendDirect
	}

	s.log.Warn("all storage probes failed, staying on in-memory storage")
	s.transition(StateActive)

	return BackendMemory
}

func (s *Selector) probeDirect(ctx context.Context) (storage.Store, error) {
	probeCtx, cancel := context.WithTimeout(ctx, s.opts.DirectTimeout)
	defer cancel()

	// Raw connectivity first; a DNS or routing failure shows up here
	// before the schema setup is attempted.
	if err := s.pingDirect(probeCtx); err != nil {
		return nil, fmt.Errorf("connectivity test: %w", err)
	}

	st, err := s.openDirect(probeCtx)
	if err != nil {
		return nil, fmt.Errorf("opening backend: %w", err)
	}

	if _, err := st.ListExpenses(probeCtx); err != nil {
		return nil, fmt.Errorf("read probe: %w", err)
	}

	return st, nil
}

func (s *Selector) probe(ctx context.Context, st storage.Store, timeout time.Duration) error {
	probeCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	_, err := st.ListExpenses(probeCtx)

	return err
}

func (s *Selector) transition(next State) {
	s.log.Debug("storage selector", "from", s.state, "to", next)
	s.state = next
}

// State reports the selector's current position in the probe sequence.
func (s *Selector) State() State {
	return s.state
}

// Memory creates the default backend a Handle starts on.
func Memory() storage.Store {
	return memory.New()
}

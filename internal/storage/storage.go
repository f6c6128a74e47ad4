// Package storage defines the backend-agnostic persistence contract. Route
// handlers and services only ever see this interface; which backend sits
// behind it is decided once at startup by the fallback selector.
package storage

import (
	"github.com/crisnabto/despesas/internal/balance"
	"github.com/crisnabto/despesas/internal/expense"
	"github.com/crisnabto/despesas/internal/user"
)

// Store is the full persistence contract, composed from the repository
// slices each domain package declares for itself. Every backend implements
// all of it; callers must not be able to tell which one is active.
type Store interface {
	expense.Repository
	balance.Repository
	user.Repository
}

package balance

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// ErrNotFound is returned before the balance has ever been set.
var ErrNotFound = errors.New("account balance not set")

// AccountBalance is a singleton record; id 1 by convention. Updating it is
// an upsert-replace that refreshes UpdatedAt.
type AccountBalance struct {
	ID             int
	CurrentBalance decimal.Decimal
	UpdatedAt      time.Time
}

// Projection compares the current balance against the total of unpaid
// expenses. Shortfall is how much is missing to cover them all, floored
// at zero.
type Projection struct {
	CurrentBalance decimal.Decimal
	UnpaidTotal    decimal.Decimal
	Shortfall      decimal.Decimal
	UpdatedAt      time.Time
}

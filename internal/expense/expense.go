package expense

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// Category labels an expense. The set is a UI convention, not enforced by storage.
const (
	CategoryGroceries = "groceries"
	CategoryPharmacy  = "pharmacy"
	CategoryFuel      = "fuel"
	CategoryRent      = "rent"
	CategoryMisc      = "misc"
)

// Payment methods recognised by the UI.
const (
	PaymentCash            = "cash"
	PaymentCreditCard      = "credit-card"
	PaymentDebitCard       = "debit-card"
	PaymentInstantTransfer = "instant-transfer"
	PaymentBankTransfer    = "bank-transfer"
)

// ErrNotFound is returned when an expense id is unknown to the backend.
var ErrNotFound = errors.New("expense not found")

// Expense is a single recorded expense. Value carries exact cents as a
// decimal, never a binary float. Date is a calendar day; the time portion
// is always midnight UTC.
type Expense struct {
	ID            int
	Category      string
	Description   string
	Value         decimal.Decimal
	Date          time.Time
	PaymentMethod string
	IsPaid        bool
	CreatedAt     time.Time
}

// CreateParams holds the fields accepted when recording a new expense.
// IsPaid is optional and defaults to true.
type CreateParams struct {
	Category      string
	Description   string
	Value         decimal.Decimal
	HasValue      bool
	Date          time.Time
	PaymentMethod string
	IsPaid        *bool
}

// Patch is a partial update. Nil fields are left untouched by the merge.
type Patch struct {
	Category      *string
	Description   *string
	Value         *decimal.Decimal
	Date          *time.Time
	PaymentMethod *string
	IsPaid        *bool
}

// Empty reports whether the patch would change nothing.
func (p Patch) Empty() bool {
	return p.Category == nil && p.Description == nil && p.Value == nil &&
		p.Date == nil && p.PaymentMethod == nil && p.IsPaid == nil
}

// Apply merges the patch onto e.
func (p Patch) Apply(e *Expense) {
	if p.Category != nil {
		e.Category = *p.Category
	}

	if p.Description != nil {
		e.Description = *p.Description
	}

	if p.Value != nil {
		e.Value = *p.Value
	}

	if p.Date != nil {
		e.Date = *p.Date
	}

	if p.PaymentMethod != nil {
		e.PaymentMethod = *p.PaymentMethod
	}

	if p.IsPaid != nil {
		e.IsPaid = *p.IsPaid
	}
}

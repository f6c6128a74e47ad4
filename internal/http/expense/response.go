package expense

import (
	"net/http"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/crisnabto/despesas/internal/expense"
	"github.com/crisnabto/despesas/internal/http/httpx"
)

const (
	defaultPageLimit   = 15
	defaultUnpaidLimit = 5
)

type expenseResponse struct {
	ID            int             `json:"id"`
	Category      string          `json:"category"`
	Description   string          `json:"description"`
	Value         decimal.Decimal `json:"value"`
	Date          string          `json:"date"`
	PaymentMethod string          `json:"paymentMethod"`
	IsPaid        bool            `json:"isPaid"`
	CreatedAt     time.Time       `json:"createdAt"`
}

func toResponse(e *expense.Expense) expenseResponse {
	return expenseResponse{
		ID:            e.ID,
		Category:      e.Category,
		Description:   e.Description,
		Value:         e.Value,
		Date:          e.Date.Format(time.DateOnly),
		PaymentMethod: e.PaymentMethod,
		IsPaid:        e.IsPaid,
		CreatedAt:     e.CreatedAt,
	}
}

func toResponseList(es []*expense.Expense) []expenseResponse {
	out := make([]expenseResponse, len(es))
	for i, e := range es {
		out[i] = toResponse(e)
	}

	return out
}

type pageResponse struct {
	Data  []expenseResponse `json:"data"`
	Page  int               `json:"page"`
	Limit int               `json:"limit"`
	Total int               `json:"total"`
}

// writePage slices the full result set by the page/limit query parameters.
// Pagination stays in the handler; the storage contract always returns the
// complete ordered list.
func writePage(w http.ResponseWriter, r *http.Request, es []*expense.Expense, defaultLimit int) {
	page := queryInt(r, "page", 1)
	limit := queryInt(r, "limit", defaultLimit)

	start := (page - 1) * limit
	if start > len(es) {
		start = len(es)
	}

	end := start + limit
	if end > len(es) {
		end = len(es)
	}

	httpx.WriteJSON(w, http.StatusOK, pageResponse{
		Data:  toResponseList(es[start:end]),
		Page:  page,
		Limit: limit,
		Total: len(es),
	})
}

func queryInt(r *http.Request, key string, def int) int {
	v := r.URL.Query().Get(key)
	if v == "" {
		return def
	}

	n, err := strconv.Atoi(v)
	if err != nil || n < 1 {
		return def
	}

	return n
}

// Package supabase performs the storage operations over Supabase's
// PostgREST surface instead of a raw SQL connection. It exists for hosting
// environments whose network topology blocks direct database connections.
package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/crisnabto/despesas/internal/balance"
	"github.com/crisnabto/despesas/internal/expense"
	"github.com/crisnabto/despesas/internal/user"
)

type Store struct {
	base   string
	apiKey string
	client *http.Client
}

// New builds a client against baseURL (the project URL, without the
// /rest/v1 suffix) authenticated with the service key.
func New(baseURL, apiKey string) *Store {
	return &Store{
		base:   baseURL,
		apiKey: apiKey,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

// expenseRow is the PostgREST wire shape of an expense.
type expenseRow struct {
	ID            int             `json:"id,omitempty"`
	Category      string          `json:"category"`
	Description   string          `json:"description"`
	Value         decimal.Decimal `json:"value"`
	Date          string          `json:"date"`
	PaymentMethod string          `json:"payment_method"`
	IsPaid        bool            `json:"is_paid"`
	CreatedAt     time.Time       `json:"created_at,omitempty"`
}

func (r expenseRow) toDomain() (*expense.Expense, error) {
	date, err := time.Parse(time.DateOnly, r.Date)
	if err != nil {
		return nil, fmt.Errorf("parsing date %q: %w", r.Date, err)
	}

	return &expense.Expense{
		ID:            r.ID,
		Category:      r.Category,
		Description:   r.Description,
		Value:         r.Value,
		Date:          date,
		PaymentMethod: r.PaymentMethod,
		IsPaid:        r.IsPaid,
		CreatedAt:     r.CreatedAt,
	}, nil
}

func (s *Store) ListExpenses(ctx context.Context) ([]*expense.Expense, error) {
	q := url.Values{"select": {"*"}, "order": {"date.desc,id.desc"}}

	return s.listExpenses(ctx, q)
}

func (s *Store) CreateExpense(ctx context.Context, e *expense.Expense) error {
	row := expenseRow{
		Category:      e.Category,
		Description:   e.Description,
		Value:         e.Value,
		Date:          e.Date.Format(time.DateOnly),
		PaymentMethod: e.PaymentMethod,
		IsPaid:        e.IsPaid,
	}

	var created []expenseRow
	if err := s.do(ctx, http.MethodPost, "expenses", nil, row, returnRepresentation, &created); err != nil {
		return fmt.Errorf("creating expense: %w", err)
	}

	if len(created) == 0 {
		return fmt.Errorf("creating expense: empty representation")
	}

	out, err := created[0].toDomain()
	if err != nil {
		return err
	}

	*e = *out

	return nil
}

func (s *Store) UpdateExpense(ctx context.Context, id int, patch expense.Patch) (*expense.Expense, error) {
	body := map[string]any{}

	if patch.Category != nil {
		body["category"] = *patch.Category
	}

	if patch.Description != nil {
		body["description"] = *patch.Description
	}

	if patch.Value != nil {
		body["value"] = patch.Value.StringFixed(2)
	}

	if patch.Date != nil {
		body["date"] = patch.Date.Format(time.DateOnly)
	}

	if patch.PaymentMethod != nil {
		body["payment_method"] = *patch.PaymentMethod
	}

	if patch.IsPaid != nil {
		body["is_paid"] = *patch.IsPaid
	}

	q := url.Values{"id": {"eq." + strconv.Itoa(id)}}

	var updated []expenseRow

	if len(body) == 0 {
		// Nothing to change; a filtered read answers whether the id exists.
		if err := s.do(ctx, http.MethodGet, "expenses", q, nil, nil, &updated); err != nil {
			return nil, fmt.Errorf("getting expense: %w", err)
		}
	} else if err := s.do(ctx, http.MethodPatch, "expenses", q, body, returnRepresentation, &updated); err != nil {
		return nil, fmt.Errorf("updating expense: %w", err)
	}

	if len(updated) == 0 {
		return nil, expense.ErrNotFound
	}

	return updated[0].toDomain()
}

func (s *Store) DeleteExpense(ctx context.Context, id int) (bool, error) {
	q := url.Values{"id": {"eq." + strconv.Itoa(id)}}

	var deleted []expenseRow
	if err := s.do(ctx, http.MethodDelete, "expenses", q, nil, returnRepresentation, &deleted); err != nil {
		return false, fmt.Errorf("deleting expense: %w", err)
	}

	return len(deleted) > 0, nil
}

func (s *Store) ListExpensesByCategory(ctx context.Context, category string) ([]*expense.Expense, error) {
	q := url.Values{
		"select":   {"*"},
		"category": {"eq." + category},
		"order":    {"date.desc,id.desc"},
	}

	return s.listExpenses(ctx, q)
}

func (s *Store) ListUnpaidExpenses(ctx context.Context) ([]*expense.Expense, error) {
	q := url.Values{
		"select":  {"*"},
		"is_paid": {"eq.false"},
		"order":   {"date.asc,id.asc"},
	}

	return s.listExpenses(ctx, q)
}

func (s *Store) MarkExpensePaid(ctx context.Context, id int) (bool, error) {
	q := url.Values{"id": {"eq." + strconv.Itoa(id)}}

	var updated []expenseRow
	if err := s.do(ctx, http.MethodPatch, "expenses", q, map[string]any{"is_paid": true}, returnRepresentation, &updated); err != nil {
		return false, fmt.Errorf("marking expense paid: %w", err)
	}

	return len(updated) > 0, nil
}

type balanceRow struct {
	ID             int             `json:"id"`
	CurrentBalance decimal.Decimal `json:"current_balance"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

func (s *Store) GetAccountBalance(ctx context.Context) (*balance.AccountBalance, error) {
	q := url.Values{"select": {"*"}, "id": {"eq.1"}}

	var rows []balanceRow
	if err := s.do(ctx, http.MethodGet, "account_balance", q, nil, nil, &rows); err != nil {
		return nil, fmt.Errorf("getting account balance: %w", err)
	}

	if len(rows) == 0 {
		return nil, balance.ErrNotFound
	}

	return &balance.AccountBalance{
		ID:             rows[0].ID,
		CurrentBalance: rows[0].CurrentBalance,
		UpdatedAt:      rows[0].UpdatedAt,
	}, nil
}

func (s *Store) UpdateAccountBalance(ctx context.Context, current decimal.Decimal) (*balance.AccountBalance, error) {
	body := map[string]any{
		"id":              1,
		"current_balance": current.StringFixed(2),
		"updated_at":      time.Now().UTC().Format(time.RFC3339),
	}

	var rows []balanceRow
	if err := s.do(ctx, http.MethodPost, "account_balance", nil, body, mergeDuplicates, &rows); err != nil {
		return nil, fmt.Errorf("updating account balance: %w", err)
	}

	if len(rows) == 0 {
		return nil, fmt.Errorf("updating account balance: empty representation")
	}

	return &balance.AccountBalance{
		ID:             rows[0].ID,
		CurrentBalance: rows[0].CurrentBalance,
		UpdatedAt:      rows[0].UpdatedAt,
	}, nil
}

type userRow struct {
	ID              string    `json:"id"`
	Email           string    `json:"email"`
	FirstName       string    `json:"first_name"`
	LastName        string    `json:"last_name"`
	ProfileImageURL string    `json:"profile_image_url"`
	CreatedAt       time.Time `json:"created_at,omitempty"`
	UpdatedAt       time.Time `json:"updated_at,omitempty"`
}

func (r userRow) toDomain() *user.User {
	return &user.User{
		ID:              r.ID,
		Email:           r.Email,
		FirstName:       r.FirstName,
		LastName:        r.LastName,
		ProfileImageURL: r.ProfileImageURL,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}
}

func (s *Store) GetUser(ctx context.Context, id string) (*user.User, error) {
	q := url.Values{"select": {"*"}, "id": {"eq." + id}}

	var rows []userRow
	if err := s.do(ctx, http.MethodGet, "users", q, nil, nil, &rows); err != nil {
		return nil, fmt.Errorf("getting user: %w", err)
	}

	if len(rows) == 0 {
		return nil, user.ErrNotFound
	}

	return rows[0].toDomain(), nil
}

func (s *Store) UpsertUser(ctx context.Context, u *user.User) (*user.User, error) {
	body := map[string]any{
		"id":                u.ID,
		"email":             u.Email,
		"first_name":        u.FirstName,
		"last_name":         u.LastName,
		"profile_image_url": u.ProfileImageURL,
		"updated_at":        time.Now().UTC().Format(time.RFC3339),
	}

	var rows []userRow
	if err := s.do(ctx, http.MethodPost, "users", nil, body, mergeDuplicates, &rows); err != nil {
		return nil, fmt.Errorf("upserting user: %w", err)
	}

	if len(rows) == 0 {
		return nil, fmt.Errorf("upserting user: empty representation")
	}

	return rows[0].toDomain(), nil
}

func (s *Store) listExpenses(ctx context.Context, q url.Values) ([]*expense.Expense, error) {
	var rows []expenseRow
	if err := s.do(ctx, http.MethodGet, "expenses", q, nil, nil, &rows); err != nil {
		return nil, fmt.Errorf("listing expenses: %w", err)
	}

	out := make([]*expense.Expense, 0, len(rows))

	for _, r := range rows {
		e, err := r.toDomain()
		if err != nil {
			return nil, err
		}

		out = append(out, e)
	}

	return out, nil
}

var (
	returnRepresentation = []string{"return=representation"}
	mergeDuplicates      = []string{"resolution=merge-duplicates", "return=representation"}
)

// do issues one PostgREST request and decodes the JSON response into out.
func (s *Store) do(ctx context.Context, method, table string, q url.Values, body any, prefer []string, out any) error {
	endpoint := s.base + "/rest/v1/" + table
	if len(q) > 0 {
		endpoint += "?" + q.Encode()
	}

	var reqBody io.Reader

	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}

		reqBody = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reqBody)
	if err != nil {
		return err
	}

	req.Header.Set("apikey", s.apiKey)
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	for _, p := range prefer {
		req.Header.Add("Prefer", p)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%s %s: status %d: %s", method, table, resp.StatusCode, detail)
	}

	if out == nil {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}

	return nil
}

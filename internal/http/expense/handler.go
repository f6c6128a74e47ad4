package expense

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/crisnabto/despesas/internal/expense"
	"github.com/crisnabto/despesas/internal/http/httpx"
)

type Handler struct {
	svc *expense.Service
}

func NewHandler(svc *expense.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Get("/unpaid", h.listUnpaid)
	r.Get("/category/{category}", h.listByCategory)
	r.Put("/{id}", h.update)
	r.Delete("/{id}", h.delete)
	r.Patch("/{id}/paid", h.markPaid)
}

type createExpenseRequest struct {
	Category      string           `json:"category"`
	Description   string           `json:"description"`
	Value         *decimal.Decimal `json:"value"`
	Date          string           `json:"date"`
	PaymentMethod string           `json:"paymentMethod"`
	IsPaid        *bool            `json:"isPaid"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createExpenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid payload", nil)
		return
	}

	params := expense.CreateParams{
		Category:      req.Category,
		Description:   req.Description,
		PaymentMethod: req.PaymentMethod,
		IsPaid:        req.IsPaid,
	}

	if req.Value != nil {
		params.Value = *req.Value
		params.HasValue = true
	}

	if req.Date != "" {
		date, err := time.Parse(time.DateOnly, req.Date)
		if err != nil {
			httpx.WriteError(w, http.StatusBadRequest, "invalid payload",
				[]expense.FieldError{{Field: "date", Msg: "must be YYYY-MM-DD"}})

			return
		}

		params.Date = date
	}

	e, err := h.svc.Create(r.Context(), params)
	if err != nil {
		writeExpenseError(w, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, toResponse(e))
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	es, err := h.svc.List(r.Context())
	if err != nil {
		writeExpenseError(w, err)
		return
	}

	writePage(w, r, es, defaultPageLimit)
}

func (h *Handler) listUnpaid(w http.ResponseWriter, r *http.Request) {
	es, err := h.svc.ListUnpaid(r.Context())
	if err != nil {
		writeExpenseError(w, err)
		return
	}

	writePage(w, r, es, defaultUnpaidLimit)
}

func (h *Handler) listByCategory(w http.ResponseWriter, r *http.Request) {
	es, err := h.svc.ListByCategory(r.Context(), chi.URLParam(r, "category"))
	if err != nil {
		writeExpenseError(w, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toResponseList(es))
}

type updateExpenseRequest struct {
	Category      *string          `json:"category,omitempty"`
	Description   *string          `json:"description,omitempty"`
	Value         *decimal.Decimal `json:"value,omitempty"`
	Date          *string          `json:"date,omitempty"`
	PaymentMethod *string          `json:"paymentMethod,omitempty"`
	IsPaid        *bool            `json:"isPaid,omitempty"`
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid id", nil)
		return
	}

	var req updateExpenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid payload", nil)
		return
	}

	patch := expense.Patch{
		Category:      req.Category,
		Description:   req.Description,
		Value:         req.Value,
		PaymentMethod: req.PaymentMethod,
		IsPaid:        req.IsPaid,
	}

	if req.Date != nil {
		date, err := time.Parse(time.DateOnly, *req.Date)
		if err != nil {
			httpx.WriteError(w, http.StatusBadRequest, "invalid payload",
				[]expense.FieldError{{Field: "date", Msg: "must be YYYY-MM-DD"}})

			return
		}

		patch.Date = &date
	}

	e, err := h.svc.Update(r.Context(), id, patch)
	if err != nil {
		writeExpenseError(w, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toResponse(e))
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid id", nil)
		return
	}

	deleted, err := h.svc.Delete(r.Context(), id)
	if err != nil {
		writeExpenseError(w, err)
		return
	}

	if !deleted {
		httpx.WriteError(w, http.StatusNotFound, "expense not found", nil)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, map[string]string{"message": "expense deleted"})
}

func (h *Handler) markPaid(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid id", nil)
		return
	}

	ok, err := h.svc.MarkPaid(r.Context(), id)
	if err != nil {
		writeExpenseError(w, err)
		return
	}

	if !ok {
		httpx.WriteError(w, http.StatusNotFound, "expense not found", nil)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, map[string]string{"message": "expense marked as paid"})
}

func writeExpenseError(w http.ResponseWriter, err error) {
	var verr *expense.ValidationError
	if errors.As(err, &verr) {
		httpx.WriteError(w, http.StatusBadRequest, "invalid payload", verr.Fields)
		return
	}

	if errors.Is(err, expense.ErrNotFound) {
		httpx.WriteError(w, http.StatusNotFound, "expense not found", nil)
		return
	}

	httpx.WriteError(w, http.StatusInternalServerError, "internal error", nil)
}

package balance

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/crisnabto/despesas/internal/balance"
	"github.com/crisnabto/despesas/internal/http/httpx"
)

type Handler struct {
	svc *balance.Service
}

func NewHandler(svc *balance.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/balance", h.get)
	r.Put("/balance", h.update)
	r.Get("/balance/projection", h.projection)
}

type balanceResponse struct {
	ID             int             `json:"id"`
	CurrentBalance decimal.Decimal `json:"currentBalance"`
	UpdatedAt      time.Time       `json:"updatedAt"`
}

func toResponse(b *balance.AccountBalance) balanceResponse {
	return balanceResponse{ID: b.ID, CurrentBalance: b.CurrentBalance, UpdatedAt: b.UpdatedAt}
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	b, err := h.svc.Get(r.Context())
	if err != nil {
		if errors.Is(err, balance.ErrNotFound) {
			// Mirrors the singleton contract: before the first update
			// there is simply no record.
			httpx.WriteJSON(w, http.StatusOK, nil)
			return
		}

		httpx.WriteError(w, http.StatusInternalServerError, "internal error", nil)

		return
	}

	httpx.WriteJSON(w, http.StatusOK, toResponse(b))
}

type updateBalanceRequest struct {
	CurrentBalance *decimal.Decimal `json:"currentBalance"`
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	var req updateBalanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid payload", nil)
		return
	}

	if req.CurrentBalance == nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid payload",
			[]map[string]string{{"field": "currentBalance", "msg": "required"}})

		return
	}

	b, err := h.svc.Update(r.Context(), *req.CurrentBalance)
	if err != nil {
		httpx.WriteError(w, http.StatusInternalServerError, "internal error", nil)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toResponse(b))
}

type projectionResponse struct {
	CurrentBalance decimal.Decimal `json:"currentBalance"`
	UnpaidTotal    decimal.Decimal `json:"unpaidTotal"`
	Shortfall      decimal.Decimal `json:"shortfall"`
	UpdatedAt      time.Time       `json:"updatedAt"`
}

func (h *Handler) projection(w http.ResponseWriter, r *http.Request) {
	p, err := h.svc.Project(r.Context())
	if err != nil {
		httpx.WriteError(w, http.StatusInternalServerError, "internal error", nil)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, projectionResponse{
		CurrentBalance: p.CurrentBalance,
		UnpaidTotal:    p.UnpaidTotal,
		Shortfall:      p.Shortfall,
		UpdatedAt:      p.UpdatedAt,
	})
}

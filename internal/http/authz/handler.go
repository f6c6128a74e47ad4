package authz

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/crisnabto/despesas/internal/authz"
	"github.com/crisnabto/despesas/internal/http/httpx"
)

type Handler struct {
	gate *authz.Gate
}

func NewHandler(gate *authz.Gate) *Handler {
	return &Handler{gate: gate}
}

// AuthRoutes serves the allow-list check and mutation endpoints.
func (h *Handler) AuthRoutes(r chi.Router) {
	r.Get("/user", h.currentUser)
	r.Post("/check-authorization", h.checkAuthorization)
	r.Get("/authorized-emails", h.listEmails)
	r.Post("/add-email", h.addEmail)
	r.Delete("/remove-email", h.removeEmail)
}

// AdminRoutes exposes the same allow-list as a user-management view.
func (h *Handler) AdminRoutes(r chi.Router) {
	r.Get("/users", h.listUsers)
	r.Post("/users", h.addUser)
	r.Delete("/users/{email}", h.removeUser)
}

// currentUser returns a fixed identity record; sessions belong to the
// external auth provider, not this service.
func (h *Handler) currentUser(w http.ResponseWriter, _ *http.Request) {
	httpx.WriteJSON(w, http.StatusOK, map[string]any{
		"id":              "local-user",
		"email":           "usuario@exemplo.com",
		"firstName":       "Usuário",
		"lastName":        "Local",
		"profileImageUrl": nil,
		"createdAt":       time.Now().UTC(),
		"updatedAt":       time.Now().UTC(),
	})
}

type emailRequest struct {
	Email string `json:"email"`
}

type authorizationResponse struct {
	Authorized bool   `json:"authorized"`
	Message    string `json:"message,omitempty"`
}

func (h *Handler) checkAuthorization(w http.ResponseWriter, r *http.Request) {
	var req emailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" {
		httpx.WriteJSON(w, http.StatusBadRequest, authorizationResponse{
			Authorized: false,
			Message:    "email is required",
		})

		return
	}

	if !h.gate.Authorized(req.Email) {
		httpx.WriteJSON(w, http.StatusForbidden, authorizationResponse{
			Authorized: false,
			Message:    "access denied: email not authorized",
		})

		return
	}

	httpx.WriteJSON(w, http.StatusOK, authorizationResponse{Authorized: true})
}

func (h *Handler) listEmails(w http.ResponseWriter, _ *http.Request) {
	httpx.WriteJSON(w, http.StatusOK, map[string][]string{"emails": h.gate.List()})
}

func (h *Handler) addEmail(w http.ResponseWriter, r *http.Request) {
	var req emailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" {
		httpx.WriteError(w, http.StatusBadRequest, "email is required", nil)
		return
	}

	h.gate.Add(req.Email)
	httpx.WriteJSON(w, http.StatusOK, map[string]any{
		"message": "email added",
		"emails":  h.gate.List(),
	})
}

func (h *Handler) removeEmail(w http.ResponseWriter, r *http.Request) {
	var req emailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" {
		httpx.WriteError(w, http.StatusBadRequest, "email is required", nil)
		return
	}

	h.gate.Remove(req.Email)
	httpx.WriteJSON(w, http.StatusOK, map[string]any{
		"message": "email removed",
		"emails":  h.gate.List(),
	})
}

type adminUser struct {
	Email      string `json:"email"`
	Authorized bool   `json:"authorized"`
}

func (h *Handler) listUsers(w http.ResponseWriter, _ *http.Request) {
	emails := h.gate.List()

	users := make([]adminUser, len(emails))
	for i, e := range emails {
		users[i] = adminUser{Email: e, Authorized: true}
	}

	httpx.WriteJSON(w, http.StatusOK, users)
}

func (h *Handler) addUser(w http.ResponseWriter, r *http.Request) {
	var req emailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" {
		httpx.WriteError(w, http.StatusBadRequest, "email is required", nil)
		return
	}

	h.gate.Add(req.Email)
	httpx.WriteJSON(w, http.StatusOK, map[string]string{
		"message": "user added",
		"email":   req.Email,
	})
}

func (h *Handler) removeUser(w http.ResponseWriter, r *http.Request) {
	h.gate.Remove(chi.URLParam(r, "email"))
	httpx.WriteJSON(w, http.StatusOK, map[string]string{"message": "user removed"})
}

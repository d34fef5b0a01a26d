package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/authvault/authvault/internal/vault/domain"
	"github.com/authvault/authvault/internal/vault/service"
	"github.com/authvault/authvault/pkg/httpx"
	"github.com/authvault/authvault/pkg/slogx"
)

// AdminClientsHandler manages machine clients. All routes sit behind the
// admin-token middleware.
type AdminClientsHandler struct {
	ClientService *service.ClientService
	OwnerID       string
}

type createClientRequest struct {
	Name  string `json:"name"`
	Scope string `json:"scope"`
}

type updateClientRequest struct {
	Name   string `json:"name"`
	Scope  string `json:"scope"`
	Active *bool  `json:"active"`
}

type clientResponse struct {
	ID           string     `json:"id"`
	ClientID     string     `json:"client_id"`
	ClientSecret string     `json:"client_secret,omitempty"`
	Name         string     `json:"name"`
	Scope        string     `json:"scope"`
	Active       bool       `json:"active"`
	CreatedAt    time.Time  `json:"created_at"`
	LastActivity *time.Time `json:"last_activity,omitempty"`
}

func toClientResponse(c domain.Client, secret string) clientResponse {
	return clientResponse{
		ID:           c.ID,
		ClientID:     c.ClientID,
		ClientSecret: secret,
		Name:         c.Name,
		Scope:        c.Scope.String(),
		Active:       c.Active,
		CreatedAt:    c.CreatedAt,
		LastActivity: c.LastActivity,
	}
}

// HandleCreate handles POST /admin/clients. The returned client_secret is
// shown exactly once; only its hash is stored.
func (h *AdminClientsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req createClientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "Invalid JSON in request body")
		return
	}

	if strings.TrimSpace(req.Name) == "" {
		httpx.WriteError(w, http.StatusBadRequest, "Client name is required")
		return
	}

	scope, err := domain.ParseScope(strings.TrimSpace(req.Scope))
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "Invalid scope")
		return
	}

	created, err := h.ClientService.CreateClient(ctx, h.OwnerID, strings.TrimSpace(req.Name), scope)
	if err != nil {
		log.Error("failed to create client", "error", err)
		httpx.WriteError(w, http.StatusInternalServerError, "Failed to create client")
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, toClientResponse(created.Client, created.ClientSecret))
}

// HandleList handles GET /admin/clients.
func (h *AdminClientsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	clients, err := h.ClientService.ListClients(ctx, h.OwnerID)
	if err != nil {
		log.Error("failed to list clients", "error", err)
		httpx.WriteError(w, http.StatusInternalServerError, "Failed to list clients")
		return
	}

	out := make([]clientResponse, 0, len(clients))
	for _, c := range clients {
		out = append(out, toClientResponse(c, ""))
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

// HandleUpdate handles PATCH /admin/clients/{id}. Omitted fields keep their
// current values.
func (h *AdminClientsHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)
	id := r.PathValue("id")

	current, err := h.ClientService.Store.Clients().GetClientByID(ctx, id)
	if err != nil {
		httpx.WriteError(w, http.StatusNotFound, "Client not found")
		return
	}

	var req updateClientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "Invalid JSON in request body")
		return
	}

	name := current.Name
	if strings.TrimSpace(req.Name) != "" {
		name = strings.TrimSpace(req.Name)
	}

	scope := current.Scope
	if req.Scope != "" {
		scope, err = domain.ParseScope(req.Scope)
		if err != nil {
			httpx.WriteError(w, http.StatusBadRequest, "Invalid scope")
			return
		}
	}

	active := current.Active
	if req.Active != nil {
		active = *req.Active
	}

	updated, err := h.ClientService.UpdateClient(ctx, id, name, scope, active)
	if err != nil {
		if errors.Is(err, service.ErrClientNotFound) {
			httpx.WriteError(w, http.StatusNotFound, "Client not found")
			return
		}
		log.Error("failed to update client", "error", err)
		httpx.WriteError(w, http.StatusInternalServerError, "Failed to update client")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toClientResponse(updated, ""))
}

// HandleDelete handles DELETE /admin/clients/{id}.
func (h *AdminClientsHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)
	id := r.PathValue("id")

	if err := h.ClientService.DeleteClient(ctx, id, h.OwnerID); err != nil {
		if errors.Is(err, service.ErrClientNotFound) {
			httpx.WriteError(w, http.StatusNotFound, "Client not found")
			return
		}
		log.Error("failed to delete client", "error", err)
		httpx.WriteError(w, http.StatusInternalServerError, "Failed to delete client")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

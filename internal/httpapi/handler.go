package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/Lucieverton/bruto-premium-revamp-sub001/internal/gateway"
	"github.com/Lucieverton/bruto-premium-revamp-sub001/internal/models"
	"github.com/Lucieverton/bruto-premium-revamp-sub001/internal/ticketstore"
	"github.com/Lucieverton/bruto-premium-revamp-sub001/internal/viewcache"
)

// QueueGateway is the mutation surface the handlers drive.
type QueueGateway interface {
	JoinQueue(ctx context.Context, input gateway.JoinInput) (gateway.TicketRef, error)
	JoinQueueGroup(ctx context.Context, leader gateway.JoinInput, companions []models.CompanionEntry) ([]gateway.TicketRef, error)
	DirectAdd(ctx context.Context, input gateway.JoinInput) (gateway.TicketRef, error)
	CallClient(ctx context.Context, ticketID, barberID string) error
	TransferClient(ctx context.Context, ticketID, toBarberID, reason string) error
}

// Views reads the remote derived views that back the cached tags.
type Views interface {
	PublicQueue(ctx context.Context) ([]models.QueueTicket, error)
	Settings(ctx context.Context) (models.QueueSettings, error)
	Stats(ctx context.Context) (models.QueueStats, error)
}

type Handler struct {
	gateway QueueGateway
	views   Views
	cache   *viewcache.Cache
	tickets *ticketstore.Store
}

func NewHandler(gw QueueGateway, views Views, cache *viewcache.Cache, tickets *ticketstore.Store) *Handler {
	return &Handler{gateway: gw, views: views, cache: cache, tickets: tickets}
}

func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", h.handleHealth)
	mux.HandleFunc("/api/queue/join", h.handleJoin)
	mux.HandleFunc("/api/queue/join-group", h.handleJoinGroup)
	mux.HandleFunc("/api/queue/direct-add", h.handleDirectAdd)
	mux.HandleFunc("/api/queue/public", h.handlePublicQueue)
	mux.HandleFunc("/api/queue/settings", h.handleSettings)
	mux.HandleFunc("/api/queue/stats", h.handleStats)
	mux.HandleFunc("/api/queue/", h.handleTicketActions)
	mux.HandleFunc("/api/ticket", h.handleOwnedTicket)
	return mux
}

type errorResponse struct {
	Error responseError `json:"error"`
}

type responseError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type joinRequest struct {
	CustomerName string   `json:"customer_name"`
	Phone        string   `json:"phone"`
	Services     []string `json:"services"`
	BarberID     string   `json:"barber_id"`
	Priority     string   `json:"priority"`
}

type companionRequest struct {
	Name     string   `json:"name"`
	Services []string `json:"services"`
	BarberID string   `json:"barber_id"`
}

type joinGroupRequest struct {
	joinRequest
	Companions []companionRequest `json:"companions"`
}

func (r *joinRequest) normalize() {
	r.CustomerName = strings.TrimSpace(r.CustomerName)
	r.Phone = strings.TrimSpace(r.Phone)
	r.BarberID = strings.TrimSpace(r.BarberID)
	r.Priority = strings.TrimSpace(r.Priority)
}

func (r *joinRequest) validate() (string, bool) {
	if r.CustomerName == "" {
		return "customer_name is required", false
	}
	if r.BarberID != "" && !isValidUUID(r.BarberID) {
		return "barber_id must be a UUID when provided", false
	}
	if r.Priority != "" && r.Priority != models.PriorityNormal && r.Priority != models.PriorityPreferred {
		return "priority must be normal or preferred", false
	}
	return "", true
}

func (r *joinRequest) toInput() gateway.JoinInput {
	return gateway.JoinInput{
		CustomerName: r.CustomerName,
		Phone:        r.Phone,
		Services:     r.Services,
		BarberID:     r.BarberID,
		Priority:     r.Priority,
	}
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *Handler) handleJoin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var req joinRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.normalize()
	if msg, ok := req.validate(); !ok {
		writeError(w, http.StatusBadRequest, "invalid_request", msg)
		return
	}

	ref, err := h.gateway.JoinQueue(r.Context(), req.toInput())
	if err != nil {
		status, code, msg := mapError(err)
		writeError(w, status, code, msg)
		return
	}
	writeJSON(w, http.StatusOK, ref)
}

func (h *Handler) handleJoinGroup(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var req joinGroupRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.normalize()
	if msg, ok := req.validate(); !ok {
		writeError(w, http.StatusBadRequest, "invalid_request", msg)
		return
	}

	companions := make([]models.CompanionEntry, 0, len(req.Companions))
	for _, companion := range req.Companions {
		name := strings.TrimSpace(companion.Name)
		if name == "" {
			writeError(w, http.StatusBadRequest, "invalid_request", "companion name is required")
			return
		}
		companions = append(companions, models.CompanionEntry{
			Name:     name,
			Services: companion.Services,
			BarberID: strings.TrimSpace(companion.BarberID),
		})
	}

	refs, err := h.gateway.JoinQueueGroup(r.Context(), req.toInput(), companions)
	if err != nil {
		status, code, msg := mapError(err)
		writeError(w, status, code, msg)
		return
	}
	writeJSON(w, http.StatusOK, refs)
}

func (h *Handler) handleDirectAdd(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var req joinRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.normalize()
	if msg, ok := req.validate(); !ok {
		writeError(w, http.StatusBadRequest, "invalid_request", msg)
		return
	}

	ref, err := h.gateway.DirectAdd(r.Context(), req.toInput())
	if err != nil {
		status, code, msg := mapError(err)
		writeError(w, status, code, msg)
		return
	}
	writeJSON(w, http.StatusOK, ref)
}

type callRequest struct {
	BarberID string `json:"barber_id"`
}

type transferRequest struct {
	ToBarberID string `json:"to_barber_id"`
	Reason     string `json:"reason"`
}

func (h *Handler) handleTicketActions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	path := strings.TrimPrefix(r.URL.Path, "/api/queue/")
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) != 2 {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	ticketID := parts[0]
	if !isValidUUID(ticketID) {
		writeError(w, http.StatusBadRequest, "invalid_request", "ticket id must be a UUID")
		return
	}

	switch parts[1] {
	case "call":
		h.handleCall(w, r, ticketID)
	case "transfer":
		h.handleTransfer(w, r, ticketID)
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (h *Handler) handleCall(w http.ResponseWriter, r *http.Request, ticketID string) {
	var req callRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.BarberID = strings.TrimSpace(req.BarberID)
	if req.BarberID == "" || !isValidUUID(req.BarberID) {
		writeError(w, http.StatusBadRequest, "invalid_request", "barber_id must be a UUID")
		return
	}

	if err := h.gateway.CallClient(r.Context(), ticketID, req.BarberID); err != nil {
		status, code, msg := mapError(err)
		writeError(w, status, code, msg)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "called"})
}

func (h *Handler) handleTransfer(w http.ResponseWriter, r *http.Request, ticketID string) {
	var req transferRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.ToBarberID = strings.TrimSpace(req.ToBarberID)
	req.Reason = strings.TrimSpace(req.Reason)
	if req.ToBarberID == "" || !isValidUUID(req.ToBarberID) {
		writeError(w, http.StatusBadRequest, "invalid_request", "to_barber_id must be a UUID")
		return
	}

	if err := h.gateway.TransferClient(r.Context(), ticketID, req.ToBarberID, req.Reason); err != nil {
		status, code, msg := mapError(err)
		writeError(w, status, code, msg)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "transferred"})
}

func (h *Handler) handlePublicQueue(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	value, err := h.cache.GetOr(viewcache.TagPublicQueue, func() (interface{}, error) {
		return h.views.PublicQueue(r.Context())
	})
	if err != nil {
		status, code, msg := mapError(err)
		writeError(w, status, code, msg)
		return
	}
	writeJSON(w, http.StatusOK, value)
}

func (h *Handler) handleSettings(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	value, err := h.cache.GetOr(viewcache.TagQueueSettings, func() (interface{}, error) {
		return h.views.Settings(r.Context())
	})
	if err != nil {
		status, code, msg := mapError(err)
		writeError(w, status, code, msg)
		return
	}
	writeJSON(w, http.StatusOK, value)
}

func (h *Handler) handleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	value, err := h.cache.GetOr(viewcache.TagQueueStats, func() (interface{}, error) {
		return h.views.Stats(r.Context())
	})
	if err != nil {
		status, code, msg := mapError(err)
		writeError(w, status, code, msg)
		return
	}
	writeJSON(w, http.StatusOK, value)
}

// handleOwnedTicket exposes the advisory local ticket slot: GET reads it,
// DELETE clears it (for example after being served).
func (h *Handler) handleOwnedTicket(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		id, ok := h.tickets.Get()
		if !ok {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"ticket_id": id})
	case http.MethodDelete:
		if err := h.tickets.Clear(); err != nil {
			writeError(w, http.StatusInternalServerError, "internal_error", "could not clear ticket")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, target interface{}) bool {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(target); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid JSON payload")
		return false
	}
	return true
}

func isValidUUID(value string) bool {
	_, err := uuid.Parse(value)
	return err == nil
}

// mapError keeps the error surfacing uniform: remote rejections carry the
// remote message verbatim for the user-facing alert, everything else hides
// behind a generic 500.
func mapError(err error) (int, string, string) {
	var remote *gateway.RemoteError
	if errors.As(err, &remote) {
		return http.StatusConflict, "remote_error", remote.Message
	}
	return http.StatusInternalServerError, "internal_error", "internal server error"
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{
		Error: responseError{Code: code, Message: message},
	})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(payload)
}

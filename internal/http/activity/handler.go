package activity

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/agenciaiam/crm/internal/activity"
	"github.com/agenciaiam/crm/internal/http/respond"
)

type Handler struct {
	svc *activity.Service
}

func NewHandler(svc *activity.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
}

type createActivityRequest struct {
	ClientID    string          `json:"client_id,omitempty"`
	Type        activity.Type   `json:"type"`
	Description string          `json:"description"`
	NextAction  string          `json:"next_action,omitempty"`
	Status      activity.Status `json:"status,omitempty"`
	OccurredAt  *time.Time      `json:"occurred_at,omitempty"`
}

type activityResponse struct {
	ID          string          `json:"id"`
	ClientID    string          `json:"client_id,omitempty"`
	Type        activity.Type   `json:"type"`
	Description string          `json:"description"`
	NextAction  string          `json:"next_action,omitempty"`
	Status      activity.Status `json:"status"`
	OccurredAt  time.Time       `json:"occurred_at"`
	CreatedAt   time.Time       `json:"created_at"`
}

func toResponse(a *activity.Activity) activityResponse {
	return activityResponse{
		ID:          a.ID,
		ClientID:    a.ClientID,
		Type:        a.Type,
		Description: a.Description,
		NextAction:  a.NextAction,
		Status:      a.Status,
		OccurredAt:  a.OccurredAt,
		CreatedAt:   a.CreatedAt,
	}
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createActivityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	params := activity.CreateParams{
		ClientID:    req.ClientID,
		Type:        req.Type,
		Description: req.Description,
		NextAction:  req.NextAction,
		Status:      req.Status,
	}
	if req.OccurredAt != nil {
		params.OccurredAt = *req.OccurredAt
	}

	a, err := h.svc.Create(r.Context(), params)
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusCreated, toResponse(a))
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	filter := activity.ListFilter{}

	if s := r.URL.Query().Get("client_id"); s != "" {
		filter.ClientID = &s
	}

	if s := r.URL.Query().Get("type"); s != "" {
		typ := activity.Type(s)
		filter.Type = &typ
	}

	activities, err := h.svc.List(r.Context(), filter)
	if err != nil {
		respond.Error(w, err)
		return
	}

	out := make([]activityResponse, 0, len(activities))
	for _, a := range activities {
		out = append(out, toResponse(a))
	}

	respond.JSON(w, http.StatusOK, out)
}

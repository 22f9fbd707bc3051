package quote

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/agenciaiam/crm/internal/http/respond"
	"github.com/agenciaiam/crm/internal/lifecycle"
	"github.com/agenciaiam/crm/internal/quote"
)

type Handler struct {
	svc    *quote.Service
	engine *lifecycle.Engine
}

func NewHandler(svc *quote.Service, engine *lifecycle.Engine) *Handler {
	return &Handler{svc: svc, engine: engine}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Get("/{id}", h.get)
	r.Patch("/{id}", h.update)
	r.Patch("/{id}/status", h.updateStatus)
	r.Post("/{id}/delete-request", h.requestDelete)
	r.Delete("/{id}", h.confirmDelete)
}

type createQuoteRequest struct {
	ClientID    string       `json:"client_id"`
	Items       []string     `json:"items"`
	Amount      int64        `json:"amount"`
	Probability int          `json:"probability"`
	Owner       string       `json:"owner"`
	Notes       string       `json:"notes"`
	ExpiresAt   *time.Time   `json:"expires_at,omitempty"`
	Status      quote.Status `json:"status,omitempty"` // draft (default) or sent
}

type quoteResponse struct {
	ID          string       `json:"id"`
	ClientID    string       `json:"client_id"`
	ClientName  string       `json:"client_name"`
	Items       []string     `json:"items"`
	Amount      int64        `json:"amount"`
	Status      quote.Status `json:"status"`
	Probability int          `json:"probability"`
	Owner       string       `json:"owner,omitempty"`
	Notes       string       `json:"notes,omitempty"`
	ProjectID   string       `json:"project_id,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
	SentAt      *time.Time   `json:"sent_at,omitempty"`
	ExpiresAt   *time.Time   `json:"expires_at,omitempty"`
	UpdatedAt   *time.Time   `json:"updated_at,omitempty"`
}

func toResponse(q *quote.Quote) quoteResponse {
	return quoteResponse{
		ID:          q.ID,
		ClientID:    q.ClientID,
		ClientName:  q.ClientName,
		Items:       q.Items,
		Amount:      q.Amount,
		Status:      q.Status,
		Probability: q.Probability,
		Owner:       q.Owner,
		Notes:       q.Notes,
		ProjectID:   q.ProjectID,
		CreatedAt:   q.CreatedAt,
		SentAt:      q.SentAt,
		ExpiresAt:   q.ExpiresAt,
		UpdatedAt:   q.UpdatedAt,
	}
}

func toResponseList(quotes []*quote.Quote) []quoteResponse {
	out := make([]quoteResponse, 0, len(quotes))
	for _, q := range quotes {
		out = append(out, toResponse(q))
	}

	return out
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createQuoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	q, err := h.svc.Create(r.Context(), quote.CreateParams{
		ClientID:      req.ClientID,
		Items:         req.Items,
		Amount:        req.Amount,
		Probability:   req.Probability,
		Owner:         req.Owner,
		Notes:         req.Notes,
		ExpiresAt:     req.ExpiresAt,
		InitialStatus: req.Status,
	})
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusCreated, toResponse(q))
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	filter := quote.ListFilter{}

	if s := r.URL.Query().Get("status"); s != "" {
		status := quote.Status(s)
		filter.Status = &status
	}

	if s := r.URL.Query().Get("client_id"); s != "" {
		filter.ClientID = &s
	}

	quotes, err := h.svc.List(r.Context(), filter)
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponseList(quotes))
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	q, err := h.svc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponse(q))
}

type updateQuoteRequest struct {
	Items       []string   `json:"items,omitempty"`
	Amount      *int64     `json:"amount,omitempty"`
	Probability *int       `json:"probability,omitempty"`
	Owner       *string    `json:"owner,omitempty"`
	Notes       *string    `json:"notes,omitempty"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	var req updateQuoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	q, err := h.svc.Update(r.Context(), chi.URLParam(r, "id"), quote.Patch{
		Items:       req.Items,
		Amount:      req.Amount,
		Probability: req.Probability,
		Owner:       req.Owner,
		Notes:       req.Notes,
		ExpiresAt:   req.ExpiresAt,
	})
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponse(q))
}

type updateStatusRequest struct {
	Status quote.Status `json:"status"`
}

func (h *Handler) updateStatus(w http.ResponseWriter, r *http.Request) {
	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	q, err := h.engine.TransitionQuote(r.Context(), chi.URLParam(r, "id"), req.Status)
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponse(q))
}

func (h *Handler) requestDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.RequestDelete(r.Context(), chi.URLParam(r, "id")); err != nil {
		respond.Error(w, err)
		return
	}

	w.WriteHeader(http.StatusAccepted)
}

func (h *Handler) confirmDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.ConfirmDelete(r.Context(), chi.URLParam(r, "id")); err != nil {
		respond.Error(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

package invoice

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/agenciaiam/crm/internal/apperr"
	"github.com/agenciaiam/crm/internal/http/respond"
	"github.com/agenciaiam/crm/internal/invoice"
	"github.com/agenciaiam/crm/internal/lifecycle"
)

type Handler struct {
	svc    *invoice.Service
	engine *lifecycle.Engine
}

func NewHandler(svc *invoice.Service, engine *lifecycle.Engine) *Handler {
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

type createInvoiceRequest struct {
	ClientID  string     `json:"client_id"`
	ProjectID string     `json:"project_id,omitempty"`
	Amount    int64      `json:"amount"`
	IssuedAt  *time.Time `json:"issued_at,omitempty"`
	DueAt     time.Time  `json:"due_at"`
}

type invoiceResponse struct {
	ID        string         `json:"id"`
	ClientID  string         `json:"client_id"`
	ProjectID string         `json:"project_id,omitempty"`
	Amount    int64          `json:"amount"`
	Status    invoice.Status `json:"status"`
	IssuedAt  time.Time      `json:"issued_at"`
	DueAt     time.Time      `json:"due_at"`
	PaidAt    *time.Time     `json:"paid_at,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt *time.Time     `json:"updated_at,omitempty"`
}

func toResponse(inv *invoice.Invoice) invoiceResponse {
	return invoiceResponse{
		ID:        inv.ID,
		ClientID:  inv.ClientID,
		ProjectID: inv.ProjectID,
		Amount:    inv.Amount,
		Status:    inv.Status,
		IssuedAt:  inv.IssuedAt,
		DueAt:     inv.DueAt,
		PaidAt:    inv.PaidAt,
		CreatedAt: inv.CreatedAt,
		UpdatedAt: inv.UpdatedAt,
	}
}

func toResponseList(invoices []*invoice.Invoice) []invoiceResponse {
	out := make([]invoiceResponse, 0, len(invoices))
	for _, inv := range invoices {
		out = append(out, toResponse(inv))
	}

	return out
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createInvoiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	params := invoice.CreateParams{
		ClientID:  req.ClientID,
		ProjectID: req.ProjectID,
		Amount:    req.Amount,
		DueAt:     req.DueAt,
	}
	if req.IssuedAt != nil {
		params.IssuedAt = *req.IssuedAt
	}

	inv, err := h.svc.Create(r.Context(), params)
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusCreated, toResponse(inv))
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	filter := invoice.ListFilter{}

	if s := r.URL.Query().Get("status"); s != "" {
		status := invoice.Status(s)
		filter.Status = &status
	}

	if s := r.URL.Query().Get("client_id"); s != "" {
		filter.ClientID = &s
	}

	invoices, err := h.svc.List(r.Context(), filter)
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponseList(invoices))
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	inv, err := h.svc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponse(inv))
}

type updateInvoiceRequest struct {
	Amount *int64     `json:"amount,omitempty"`
	DueAt  *time.Time `json:"due_at,omitempty"`
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	var req updateInvoiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	inv, err := h.svc.Update(r.Context(), chi.URLParam(r, "id"), invoice.Patch{
		Amount: req.Amount,
		DueAt:  req.DueAt,
	})
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponse(inv))
}

type updateStatusRequest struct {
	Status invoice.Status `json:"status"`
}

// updateStatus accepts only the paid status: overdue is derived from the due
// date, never requested.
func (h *Handler) updateStatus(w http.ResponseWriter, r *http.Request) {
	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if req.Status != invoice.StatusPaid {
		respond.Error(w, &apperr.ValidationError{Field: "status", Reason: "only paid can be requested"})
		return
	}

	inv, err := h.engine.MarkInvoicePaid(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponse(inv))
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

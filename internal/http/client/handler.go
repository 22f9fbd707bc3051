package client

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/agenciaiam/crm/internal/client"
	"github.com/agenciaiam/crm/internal/http/respond"
	"github.com/agenciaiam/crm/internal/importer"
)

type Handler struct {
	svc      *client.Service
	importer *importer.Service
}

func NewHandler(svc *client.Service, imp *importer.Service) *Handler {
	return &Handler{svc: svc, importer: imp}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Post("/import", h.importRoster)
	r.Get("/{id}", h.get)
	r.Patch("/{id}", h.update)
	r.Post("/{id}/delete-request", h.requestDelete)
	r.Delete("/{id}", h.confirmDelete)
}

type createClientRequest struct {
	Name            string        `json:"name"`
	Industry        string        `json:"industry"`
	City            string        `json:"city"`
	ContactName     string        `json:"contact_name"`
	ContactEmail    string        `json:"contact_email"`
	ContactPhone    string        `json:"contact_phone"`
	Status          client.Status `json:"status"`
	MonthlyRetainer int64         `json:"monthly_retainer"`
	Notes           string        `json:"notes"`
}

type clientResponse struct {
	ID              string        `json:"id"`
	Name            string        `json:"name"`
	Industry        string        `json:"industry,omitempty"`
	City            string        `json:"city,omitempty"`
	ContactName     string        `json:"contact_name,omitempty"`
	ContactEmail    string        `json:"contact_email,omitempty"`
	ContactPhone    string        `json:"contact_phone,omitempty"`
	Status          client.Status `json:"status"`
	MonthlyRetainer int64         `json:"monthly_retainer"`
	Notes           string        `json:"notes,omitempty"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       *time.Time    `json:"updated_at,omitempty"`
}

func toResponse(c *client.Client) clientResponse {
	return clientResponse{
		ID:              c.ID,
		Name:            c.Name,
		Industry:        c.Industry,
		City:            c.City,
		ContactName:     c.ContactName,
		ContactEmail:    c.ContactEmail,
		ContactPhone:    c.ContactPhone,
		Status:          c.Status,
		MonthlyRetainer: c.MonthlyRetainer,
		Notes:           c.Notes,
		CreatedAt:       c.CreatedAt,
		UpdatedAt:       c.UpdatedAt,
	}
}

func toResponseList(clients []*client.Client) []clientResponse {
	out := make([]clientResponse, 0, len(clients))
	for _, c := range clients {
		out = append(out, toResponse(c))
	}

	return out
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createClientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if req.Status == "" {
		req.Status = client.StatusProspect
	}

	c, err := h.svc.Create(r.Context(), client.CreateParams{
		Name:            req.Name,
		Industry:        req.Industry,
		City:            req.City,
		ContactName:     req.ContactName,
		ContactEmail:    req.ContactEmail,
		ContactPhone:    req.ContactPhone,
		Status:          req.Status,
		MonthlyRetainer: req.MonthlyRetainer,
		Notes:           req.Notes,
	})
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusCreated, toResponse(c))
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	filter := client.ListFilter{}

	if s := r.URL.Query().Get("status"); s != "" {
		status := client.Status(s)
		filter.Status = &status
	}

	if s := r.URL.Query().Get("industry"); s != "" {
		filter.Industry = &s
	}

	clients, err := h.svc.List(r.Context(), filter)
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponseList(clients))
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	c, err := h.svc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponse(c))
}

type updateClientRequest struct {
	Name            *string        `json:"name,omitempty"`
	Industry        *string        `json:"industry,omitempty"`
	City            *string        `json:"city,omitempty"`
	ContactName     *string        `json:"contact_name,omitempty"`
	ContactEmail    *string        `json:"contact_email,omitempty"`
	ContactPhone    *string        `json:"contact_phone,omitempty"`
	Status          *client.Status `json:"status,omitempty"`
	MonthlyRetainer *int64         `json:"monthly_retainer,omitempty"`
	Notes           *string        `json:"notes,omitempty"`
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	var req updateClientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	c, err := h.svc.Update(r.Context(), chi.URLParam(r, "id"), client.Patch{
		Name:            req.Name,
		Industry:        req.Industry,
		City:            req.City,
		ContactName:     req.ContactName,
		ContactEmail:    req.ContactEmail,
		ContactPhone:    req.ContactPhone,
		Status:          req.Status,
		MonthlyRetainer: req.MonthlyRetainer,
		Notes:           req.Notes,
	})
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponse(c))
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

type importResponse struct {
	Imported int              `json:"imported"`
	Clients  []clientResponse `json:"clients"`
}

// importRoster bulk-creates clients from an uploaded CSV roster. The file is
// parsed in full before anything is written, so a malformed roster imports
// nothing.
func (h *Handler) importRoster(w http.ResponseWriter, r *http.Request) {
	params, err := h.importer.Parse(r.Body)
	if err != nil {
		respond.Error(w, err)
		return
	}

	created := make([]clientResponse, 0, len(params))

	for _, p := range params {
		c, err := h.svc.Create(r.Context(), p)
		if err != nil {
			respond.Error(w, err)
			return
		}

		created = append(created, toResponse(c))
	}

	respond.JSON(w, http.StatusCreated, importResponse{Imported: len(created), Clients: created})
}

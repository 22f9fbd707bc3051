package project

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/agenciaiam/crm/internal/http/respond"
	"github.com/agenciaiam/crm/internal/lifecycle"
	"github.com/agenciaiam/crm/internal/project"
)

type Handler struct {
	svc    *project.Service
	engine *lifecycle.Engine
}

func NewHandler(svc *project.Service, engine *lifecycle.Engine) *Handler {
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

type createProjectRequest struct {
	ClientID       string     `json:"client_id"`
	Name           string     `json:"name"`
	Budget         int64      `json:"budget"`
	Owner          string     `json:"owner"`
	EstimatedHours int        `json:"estimated_hours"`
	StartDate      *time.Time `json:"start_date,omitempty"`
	DueDate        *time.Time `json:"due_date,omitempty"`
}

type projectResponse struct {
	ID             string         `json:"id"`
	ClientID       string         `json:"client_id"`
	Name           string         `json:"name"`
	Status         project.Status `json:"status"`
	Progress       int            `json:"progress"`
	Budget         int64          `json:"budget"`
	Owner          string         `json:"owner,omitempty"`
	EstimatedHours int            `json:"estimated_hours"`
	WorkedHours    int            `json:"worked_hours"`
	QuoteID        string         `json:"quote_id,omitempty"`
	StartDate      *time.Time     `json:"start_date,omitempty"`
	DueDate        *time.Time     `json:"due_date,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      *time.Time     `json:"updated_at,omitempty"`
}

func toResponse(p *project.Project) projectResponse {
	return projectResponse{
		ID:             p.ID,
		ClientID:       p.ClientID,
		Name:           p.Name,
		Status:         p.Status,
		Progress:       p.Progress,
		Budget:         p.Budget,
		Owner:          p.Owner,
		EstimatedHours: p.EstimatedHours,
		WorkedHours:    p.WorkedHours,
		QuoteID:        p.QuoteID,
		StartDate:      p.StartDate,
		DueDate:        p.DueDate,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}

func toResponseList(projects []*project.Project) []projectResponse {
	out := make([]projectResponse, 0, len(projects))
	for _, p := range projects {
		out = append(out, toResponse(p))
	}

	return out
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	p, err := h.svc.Create(r.Context(), project.CreateParams{
		ClientID:       req.ClientID,
		Name:           req.Name,
		Budget:         req.Budget,
		Owner:          req.Owner,
		EstimatedHours: req.EstimatedHours,
		StartDate:      req.StartDate,
		DueDate:        req.DueDate,
	})
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusCreated, toResponse(p))
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	filter := project.ListFilter{}

	if s := r.URL.Query().Get("status"); s != "" {
		status := project.Status(s)
		filter.Status = &status
	}

	if s := r.URL.Query().Get("client_id"); s != "" {
		filter.ClientID = &s
	}

	projects, err := h.svc.List(r.Context(), filter)
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponseList(projects))
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	p, err := h.svc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponse(p))
}

type updateProjectRequest struct {
	Name           *string    `json:"name,omitempty"`
	Progress       *int       `json:"progress,omitempty"`
	Budget         *int64     `json:"budget,omitempty"`
	Owner          *string    `json:"owner,omitempty"`
	EstimatedHours *int       `json:"estimated_hours,omitempty"`
	WorkedHours    *int       `json:"worked_hours,omitempty"`
	StartDate      *time.Time `json:"start_date,omitempty"`
	DueDate        *time.Time `json:"due_date,omitempty"`
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	var req updateProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	p, err := h.svc.Update(r.Context(), chi.URLParam(r, "id"), project.Patch{
		Name:           req.Name,
		Progress:       req.Progress,
		Budget:         req.Budget,
		Owner:          req.Owner,
		EstimatedHours: req.EstimatedHours,
		WorkedHours:    req.WorkedHours,
		StartDate:      req.StartDate,
		DueDate:        req.DueDate,
	})
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponse(p))
}

type updateStatusRequest struct {
	Status project.Status `json:"status"`
}

func (h *Handler) updateStatus(w http.ResponseWriter, r *http.Request) {
	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	p, err := h.engine.TransitionProject(r.Context(), chi.URLParam(r, "id"), req.Status)
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponse(p))
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

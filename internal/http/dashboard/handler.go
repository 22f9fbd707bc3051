package dashboard

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/agenciaiam/crm/internal/dashboard"
	"github.com/agenciaiam/crm/internal/http/respond"
)

type Handler struct {
	svc *dashboard.Service
}

func NewHandler(svc *dashboard.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.metrics)
}

func (h *Handler) metrics(w http.ResponseWriter, r *http.Request) {
	m, err := h.svc.Snapshot(r.Context())
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, m)
}

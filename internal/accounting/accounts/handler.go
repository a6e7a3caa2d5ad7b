package accounts

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/cafebooks/cafebooks/internal/platform/httpx"
)

// Handler exposes the account registry. The registry is seeded at startup
// and read-only over HTTP.
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// MountRoutes registers account routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/accounts", h.handleList)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.List(r.Context())
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	if list == nil {
		list = []Account{}
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"accounts": list})
}

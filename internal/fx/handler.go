package fx

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/cafebooks/cafebooks/internal/platform/httpx"
)

// Handler wires HTTP endpoints for exchange rates.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
}

// NewHandler constructs the fx handler.
func NewHandler(logger *slog.Logger, service *Service, validate *validator.Validate) *Handler {
	return &Handler{logger: logger, service: service, validate: validate}
}

// MountRoutes registers exchange rate routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/fx/rates", h.handleList)
	r.Put("/fx/rates/{code}", h.handleSet)
	r.Get("/fx/convert", h.handleConvert)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	httpx.JSON(w, http.StatusOK, map[string]any{
		"base":  h.service.Base(),
		"rates": h.service.Rates(),
	})
}

type setRateRequest struct {
	Rate float64 `json:"rate" validate:"required,gt=0"`
}

func (h *Handler) handleSet(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	var req setRateRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "malformed JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	if err := h.service.SetRate(r.Context(), code, req.Rate); err != nil {
		h.respondFxError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"code": code, "rate": req.Rate})
}

func (h *Handler) handleConvert(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	amount, err := strconv.ParseFloat(q.Get("amount"), 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "amount must be a number")
		return
	}
	code := q.Get("currency")
	converted, err := h.service.Convert(amount, code)
	if err != nil {
		h.respondFxError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"amount":    amount,
		"currency":  code,
		"base":      h.service.Base(),
		"converted": converted,
	})
}

func (h *Handler) respondFxError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrUnknownCurrency):
		httpx.Problem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, ErrInvalidRate):
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
	default:
		httpx.RespondError(w, err)
	}
}

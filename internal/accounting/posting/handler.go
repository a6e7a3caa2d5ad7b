package posting

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	accshared "github.com/cafebooks/cafebooks/internal/accounting/shared"
	"github.com/cafebooks/cafebooks/internal/fx"
	"github.com/cafebooks/cafebooks/internal/platform/httpx"
)

// Handler wires HTTP endpoints that turn external events into journal
// entries.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
}

// NewHandler constructs the posting handler.
func NewHandler(logger *slog.Logger, service *Service, validate *validator.Validate) *Handler {
	return &Handler{logger: logger, service: service, validate: validate}
}

// MountRoutes registers posting routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/postings/sales", h.handleSale)
	r.Post("/postings/invoices", h.handleInvoice)
	r.Post("/postings/expenses", h.handleExpense)
	r.Post("/postings/tax-payments", h.handleTaxPayment)
}

type saleRequest struct {
	ID       string  `json:"id" validate:"omitempty,uuid4"`
	Subtotal float64 `json:"subtotal" validate:"gte=0"`
	Discount float64 `json:"discount" validate:"gte=0"`
	Tax      float64 `json:"tax" validate:"gte=0"`
	Total    float64 `json:"total" validate:"gte=0"`
	Currency string  `json:"currency" validate:"omitempty,len=3"`
}

func (h *Handler) handleSale(w http.ResponseWriter, r *http.Request) {
	var req saleRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "malformed JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	entry, err := h.service.PostSale(r.Context(), Sale{
		ID:       parseID(req.ID),
		Subtotal: req.Subtotal,
		Discount: req.Discount,
		Tax:      req.Tax,
		Total:    req.Total,
		Currency: req.Currency,
	})
	if err != nil {
		h.logger.Error("post sale failed", slog.Any("error", err))
		h.respondPostingError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, entry)
}

type invoiceRequest struct {
	ID         string  `json:"id" validate:"omitempty,uuid4"`
	Amount     float64 `json:"amount" validate:"gte=0"`
	Currency   string  `json:"currency" validate:"omitempty,len=3"`
	RateToBase float64 `json:"rate_to_base" validate:"gte=0"`
	Paid       bool    `json:"paid"`
}

func (h *Handler) handleInvoice(w http.ResponseWriter, r *http.Request) {
	var req invoiceRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "malformed JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	entry, err := h.service.PostInvoice(r.Context(), Invoice{
		ID:         parseID(req.ID),
		Amount:     req.Amount,
		Currency:   req.Currency,
		RateToBase: req.RateToBase,
		Paid:       req.Paid,
	})
	if err != nil {
		h.logger.Error("post invoice failed", slog.Any("error", err))
		h.respondPostingError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, entry)
}

type expenseRequest struct {
	ID         string  `json:"id" validate:"omitempty,uuid4"`
	Amount     float64 `json:"amount" validate:"gte=0"`
	Currency   string  `json:"currency" validate:"omitempty,len=3"`
	RateToBase float64 `json:"rate_to_base" validate:"gte=0"`
	Category   string  `json:"category" validate:"max=200"`
}

func (h *Handler) handleExpense(w http.ResponseWriter, r *http.Request) {
	var req expenseRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "malformed JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	entry, err := h.service.PostExpense(r.Context(), Expense{
		ID:         parseID(req.ID),
		Amount:     req.Amount,
		Currency:   req.Currency,
		RateToBase: req.RateToBase,
		Category:   req.Category,
	})
	if err != nil {
		h.logger.Error("post expense failed", slog.Any("error", err))
		h.respondPostingError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, entry)
}

type taxPaymentRequest struct {
	Amount float64 `json:"amount" validate:"required,gt=0"`
}

func (h *Handler) handleTaxPayment(w http.ResponseWriter, r *http.Request) {
	var req taxPaymentRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "malformed JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	entry, err := h.service.RecordTaxPayment(r.Context(), req.Amount)
	if err != nil {
		h.logger.Error("record tax payment failed", slog.Any("error", err))
		h.respondPostingError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, entry)
}

func parseID(raw string) uuid.UUID {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil
	}
	return id
}

func (h *Handler) respondPostingError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, accshared.ErrInvalidAmount),
		errors.Is(err, accshared.ErrTooFewLines),
		errors.Is(err, accshared.ErrUnbalanced):
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
	case errors.Is(err, accshared.ErrUnknownAccount), errors.Is(err, fx.ErrUnknownCurrency):
		httpx.Problem(w, http.StatusUnprocessableEntity, "Unresolvable Reference", err.Error())
	default:
		httpx.RespondError(w, err)
	}
}

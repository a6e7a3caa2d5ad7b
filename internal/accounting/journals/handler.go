package journals

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	accshared "github.com/cafebooks/cafebooks/internal/accounting/shared"
	"github.com/cafebooks/cafebooks/internal/platform/httpx"
)

// Handler wires HTTP endpoints for the journal.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
}

// NewHandler constructs the journals handler.
func NewHandler(logger *slog.Logger, service *Service, validate *validator.Validate) *Handler {
	return &Handler{logger: logger, service: service, validate: validate}
}

// MountRoutes registers journal routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/journal", h.handleList)
	r.Get("/journal/{entryID}", h.handleGet)
	r.Post("/journal", h.handlePost)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	entries, err := h.service.List(r.Context())
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	if entries == nil {
		entries = []JournalEntry{}
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"entries": entries})
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	entryID, err := strconv.ParseInt(chi.URLParam(r, "entryID"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid entry id")
		return
	}
	entry, err := h.service.Get(r.Context(), entryID)
	if err != nil {
		if errors.Is(err, accshared.ErrJournalNotFound) {
			httpx.Problem(w, http.StatusNotFound, "Not Found", err.Error())
			return
		}
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, entry)
}

type postLineRequest struct {
	AccountID int64   `json:"account_id" validate:"required,gt=0"`
	Debit     float64 `json:"debit" validate:"gte=0"`
	Credit    float64 `json:"credit" validate:"gte=0"`
}

type postEntryRequest struct {
	Memo         string            `json:"memo" validate:"max=500"`
	Currency     string            `json:"currency" validate:"omitempty,len=3"`
	RateToBase   float64           `json:"rate_to_base" validate:"gte=0"`
	SourceModule string            `json:"source_module" validate:"required,max=50"`
	SourceID     string            `json:"source_id" validate:"omitempty,uuid4"`
	Lines        []postLineRequest `json:"lines" validate:"required,min=2,dive"`
}

func (h *Handler) handlePost(w http.ResponseWriter, r *http.Request) {
	var req postEntryRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "malformed JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	sourceID, err := uuid.Parse(req.SourceID)
	if err != nil {
		sourceID = uuid.New()
	}
	input := PostingInput{
		Memo:         req.Memo,
		Currency:     req.Currency,
		RateToBase:   req.RateToBase,
		SourceModule: req.SourceModule,
		SourceID:     sourceID,
	}
	for _, line := range req.Lines {
		input.Lines = append(input.Lines, PostingLineInput{
			AccountID: line.AccountID,
			Debit:     line.Debit,
			Credit:    line.Credit,
		})
	}
	entry, err := h.service.PostEntry(r.Context(), input)
	if err != nil {
		h.logger.Error("post journal entry failed", slog.Any("error", err))
		switch {
		case errors.Is(err, accshared.ErrUnbalanced),
			errors.Is(err, accshared.ErrTooFewLines),
			errors.Is(err, accshared.ErrInvalidAmount):
			httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		default:
			httpx.RespondError(w, err)
		}
		return
	}
	httpx.JSON(w, http.StatusCreated, entry)
}

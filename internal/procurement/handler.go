package procurement

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/cafebooks/cafebooks/internal/platform/httpx"
)

// Handler wires HTTP endpoints for purchasing.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
}

// NewHandler constructs the procurement handler.
func NewHandler(logger *slog.Logger, service *Service, validate *validator.Validate) *Handler {
	return &Handler{logger: logger, service: service, validate: validate}
}

// MountRoutes registers purchasing routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/purchase-orders", h.handleList)
	r.Post("/purchase-orders", h.handleCreate)
	r.Get("/purchase-orders/{orderID}", h.handleGet)
	r.Post("/purchase-orders/{orderID}/receive", h.handleReceive)
	r.Get("/batches/expiring", h.handleExpiring)
}

type createItemRequest struct {
	ProductID   int64   `json:"product_id" validate:"required,gt=0"`
	WarehouseID int64   `json:"warehouse_id" validate:"required,gt=0"`
	Qty         float64 `json:"qty" validate:"required,gt=0"`
	UnitCost    float64 `json:"unit_cost" validate:"gte=0"`
}

type createOrderRequest struct {
	Supplier string              `json:"supplier" validate:"required,max=200"`
	Items    []createItemRequest `json:"items" validate:"required,min=1,dive"`
	ActorID  int64               `json:"actor_id"`
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	orders, err := h.service.List(r.Context())
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	if orders == nil {
		orders = []PurchaseOrder{}
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"purchase_orders": orders})
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req createOrderRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "malformed JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	items := make([]ItemInput, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, ItemInput{
			ProductID:   item.ProductID,
			WarehouseID: item.WarehouseID,
			Qty:         item.Qty,
			UnitCost:    item.UnitCost,
		})
	}
	po, err := h.service.CreatePurchaseOrder(r.Context(), req.Supplier, items, req.ActorID)
	if err != nil {
		h.respondProcurementError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, po)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	orderID, err := strconv.ParseInt(chi.URLParam(r, "orderID"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid order id")
		return
	}
	po, err := h.service.Get(r.Context(), orderID)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, po)
}

type receiveBatchRequest struct {
	ProductID   int64      `json:"product_id" validate:"required,gt=0"`
	WarehouseID int64      `json:"warehouse_id"`
	Qty         float64    `json:"qty" validate:"required,gt=0"`
	Serial      string     `json:"serial" validate:"max=200"`
	Lot         string     `json:"lot" validate:"max=200"`
	Expiry      *time.Time `json:"expiry"`
}

type receiveRequest struct {
	Batches []receiveBatchRequest `json:"batches" validate:"dive"`
	ActorID int64                 `json:"actor_id"`
}

func (h *Handler) handleReceive(w http.ResponseWriter, r *http.Request) {
	orderID, err := strconv.ParseInt(chi.URLParam(r, "orderID"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid order id")
		return
	}
	var req receiveRequest
	if r.ContentLength > 0 {
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "malformed JSON body")
			return
		}
		if err := h.validate.Struct(req); err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
			return
		}
	}
	batches := make([]BatchInput, 0, len(req.Batches))
	for _, b := range req.Batches {
		batches = append(batches, BatchInput{
			ProductID:   b.ProductID,
			WarehouseID: b.WarehouseID,
			Qty:         b.Qty,
			Serial:      b.Serial,
			Lot:         b.Lot,
			Expiry:      b.Expiry,
		})
	}
	if err := h.service.Receive(r.Context(), orderID, batches, req.ActorID); err != nil {
		h.logger.Error("receive purchase order failed", slog.Int64("po_id", orderID), slog.Any("error", err))
		h.respondProcurementError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"order_id": orderID, "status": StatusReceived})
}

func (h *Handler) handleExpiring(w http.ResponseWriter, r *http.Request) {
	days := 30
	if raw := r.URL.Query().Get("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "days must be a non-negative integer")
			return
		}
		days = parsed
	}
	batches, err := h.service.ExpiringWithin(r.Context(), days)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	if batches == nil {
		batches = []SerialBatch{}
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"days": days, "batches": batches})
}

func (h *Handler) respondProcurementError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNoItems), errors.Is(err, ErrInvalidItem):
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
	default:
		httpx.RespondError(w, err)
	}
}

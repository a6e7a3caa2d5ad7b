package procurement

import (
	"errors"
	"time"
)

// Purchase order lifecycle. Orders open, then receive exactly once; there is
// no path back to open.
const (
	StatusOpen     = "open"
	StatusReceived = "received"
)

// PurchaseOrder is a supplier order with per-warehouse line items.
type PurchaseOrder struct {
	ID         int64      `json:"id"`
	Supplier   string     `json:"supplier"`
	Status     string     `json:"status"`
	CreatedAt  time.Time  `json:"created_at"`
	ReceivedAt *time.Time `json:"received_at,omitempty"`
	Items      []Item     `json:"items"`
}

// Item is one purchase order line.
type Item struct {
	ID          int64   `json:"id"`
	OrderID     int64   `json:"order_id"`
	ProductID   int64   `json:"product_id"`
	WarehouseID int64   `json:"warehouse_id"`
	Qty         float64 `json:"qty"`
	UnitCost    float64 `json:"unit_cost"`
}

// ItemInput describes a line on a purchase order creation request.
type ItemInput struct {
	ProductID   int64
	WarehouseID int64
	Qty         float64
	UnitCost    float64
}

// SerialBatch records lot/serial/expiry metadata for a received quantity.
// Created only as a side effect of receiving; read-only afterward.
type SerialBatch struct {
	ID          int64      `json:"id"`
	OrderID     int64      `json:"order_id,omitempty"`
	ProductID   int64      `json:"product_id"`
	WarehouseID int64      `json:"warehouse_id"`
	Qty         float64    `json:"qty"`
	Serial      string     `json:"serial,omitempty"`
	Lot         string     `json:"lot,omitempty"`
	Expiry      *time.Time `json:"expiry,omitempty"`
	ReceivedAt  time.Time  `json:"received_at"`
}

// BatchInput carries optional batch metadata on a receive request.
type BatchInput struct {
	ProductID   int64
	WarehouseID int64
	Qty         float64
	Serial      string
	Lot         string
	Expiry      *time.Time
}

// ErrNoItems indicates a purchase order with an empty item list.
var ErrNoItems = errors.New("procurement: purchase order requires at least one item")

// ErrInvalidItem indicates a line with a non-positive quantity or a
// malformed cost.
var ErrInvalidItem = errors.New("procurement: invalid purchase order item")

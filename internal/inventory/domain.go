package inventory

import (
	"errors"
	"time"
)

// StockLevel is one (product, warehouse) row of the stock ledger. Rows are
// created lazily on first mutation and never deleted; zero is a valid
// terminal state.
type StockLevel struct {
	ProductID   int64     `json:"product_id"`
	WarehouseID int64     `json:"warehouse_id"`
	Qty         float64   `json:"qty"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Adjustment is an append-only audit record of an ad-hoc stock correction.
// Delta is the requested change; AppliedDelta is what actually landed after
// the clamp policy (they differ only in clamp mode).
type Adjustment struct {
	ID           int64     `json:"id"`
	ProductID    int64     `json:"product_id"`
	WarehouseID  int64     `json:"warehouse_id"`
	Delta        float64   `json:"delta"`
	AppliedDelta float64   `json:"applied_delta"`
	Reason       string    `json:"reason,omitempty"`
	JournalID    int64     `json:"journal_id,omitempty"`
	At           time.Time `json:"at"`
}

// AdjustmentInput describes a stock adjustment request.
type AdjustmentInput struct {
	ProductID   int64
	WarehouseID int64
	Delta       float64
	Reason      string
	ActorID     int64
}

// ErrInvalidQuantity indicates a zero, NaN, or otherwise malformed quantity.
var ErrInvalidQuantity = errors.New("inventory: invalid quantity")

// ErrNegativeLevel indicates a negative target level on SetLevel.
var ErrNegativeLevel = errors.New("inventory: stock level must be >= 0")

// ErrInsufficientStock indicates a decrement below zero in strict mode.
var ErrInsufficientStock = errors.New("inventory: insufficient stock")

// ErrLevelNotFound indicates a missing stock level row.
var ErrLevelNotFound = errors.New("inventory: stock level not found")

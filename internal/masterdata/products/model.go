package products

import "time"

// Product is a catalog item sold at the POS. StockTotal is the denormalized
// sum of the item's stock levels across all warehouses; the stock ledger
// keeps it synchronized after every mutation so catalog readers never have
// to re-sum.
type Product struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	Price      float64   `json:"price"`
	UnitCost   float64   `json:"unit_cost"`
	Barcode    string    `json:"barcode,omitempty"`
	Enabled    bool      `json:"enabled"`
	Archived   bool      `json:"archived"`
	StockTotal float64   `json:"stock_total"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

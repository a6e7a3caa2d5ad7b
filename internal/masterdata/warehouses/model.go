package warehouses

import "time"

// DefaultName is the warehouse auto-created when the registry is empty, so
// stock operations never fail for lack of a location.
const DefaultName = "Default"

// Warehouse represents a stock location.
type Warehouse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

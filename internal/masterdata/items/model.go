package items

import (
	"time"
)

// Item represents a sellable item entity
type Item struct {
	ID                  int64     `json:"id"`
	OwnerID             int64     `json:"owner_id"`
	Name                string    `json:"name"`
	SellingPricePerUnit float64   `json:"selling_price_per_unit"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// VendorRef is a vendor summary attached to an item detail.
type VendorRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// StockRef is a stock row attached to an item detail.
type StockRef struct {
	ID         int64 `json:"id"`
	RackNumber int64 `json:"rack_number"`
	Units      int64 `json:"units"`
}

// Detail is an item populated with its vendor and stock sets.
type Detail struct {
	Item
	Vendors []VendorRef `json:"vendors"`
	Stocks  []StockRef  `json:"stocks"`
}

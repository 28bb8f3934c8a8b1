package ledger

import (
	"fmt"
	"time"

	"github.com/aaditya574/ledgelogger/internal/shared"
)

// Stock is a physical inventory position: units of one item held at one rack
// location for one owner. It is the unit of mutation for every transaction.
type Stock struct {
	ID         int64 `json:"id"`
	OwnerID    int64 `json:"owner_id"`
	ItemID     int64 `json:"item_id"`
	RackNumber int64 `json:"rack_number"`
	Units      int64 `json:"units"`
}

// BuyingRecord is an immutable ledger entry produced by a purchase.
type BuyingRecord struct {
	ID              int64     `json:"id"`
	OwnerID         int64     `json:"owner_id"`
	VendorID        int64     `json:"vendor_id"`
	ItemID          int64     `json:"item_id"`
	Units           int64     `json:"units"`
	BuyingPrice     float64   `json:"buying_price"`
	TransactionDate time.Time `json:"transaction_date"`
}

// SellingRecord is an immutable ledger entry produced by a sale.
type SellingRecord struct {
	ID              int64     `json:"id"`
	OwnerID         int64     `json:"owner_id"`
	BuyerID         int64     `json:"buyer_id"`
	ItemID          int64     `json:"item_id"`
	Units           int64     `json:"units"`
	SellingPrice    float64   `json:"selling_price"`
	TransactionDate time.Time `json:"transaction_date"`
}

// StockListing is a stock row joined with its item name for listings.
type StockListing struct {
	ID         int64  `json:"id"`
	RackNumber int64  `json:"rack_number"`
	ItemID     int64  `json:"item_id"`
	ItemName   string `json:"item_name"`
	Units      int64  `json:"units"`
}

// PurchaseInput describes a purchase from a vendor into a rack position.
type PurchaseInput struct {
	OwnerID        int64
	VendorID       int64
	ItemID         int64
	RackNumber     int64
	Units          int64
	BuyingPrice    float64
	IdempotencyKey string
}

// SaleInput describes a sale to a buyer out of an explicit stock row.
type SaleInput struct {
	OwnerID        int64
	BuyerID        int64
	ItemID         int64
	StockID        int64
	Units          int64
	SellingPrice   float64
	IdempotencyKey string
}

// Ledger error taxonomy. Each wraps a shared sentinel so the transport layer
// can map it to a status code.
var (
	ErrVendorNotFound = fmt.Errorf("ledger: vendor %w", shared.ErrNotFound)
	ErrItemNotFound   = fmt.Errorf("ledger: item %w", shared.ErrNotFound)
	ErrBuyerNotFound  = fmt.Errorf("ledger: buyer %w", shared.ErrNotFound)
	ErrStockNotFound  = fmt.Errorf("ledger: stock %w", shared.ErrNotFound)

	ErrInsufficientStock = fmt.Errorf("ledger: %w", shared.ErrInsufficientStock)

	ErrInvalidUnits = fmt.Errorf("%w: units must be a positive integer", shared.ErrValidation)
	ErrInvalidPrice = fmt.Errorf("%w: price must be >= 0", shared.ErrValidation)
	ErrInvalidSort  = fmt.Errorf("%w: invalid sorting parameter", shared.ErrValidation)
)

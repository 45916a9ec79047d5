package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product represents an item in the inventory
type Product struct {
	ID           uint            `gorm:"primaryKey" json:"id"`
	Name         string          `gorm:"type:varchar(255);not null" json:"name"`
	SKU          string          `gorm:"type:varchar(100);uniqueIndex;not null" json:"sku"`
	Category     string          `gorm:"type:varchar(100);index" json:"category"`
	Quantity     int             `gorm:"type:int;not null" json:"quantity"` // may go negative after an oversell
	UnitPrice    decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"unit_price"`
	ReorderLevel int             `gorm:"type:int;not null" json:"reorder_level"`
	ImageURL     string          `gorm:"type:text" json:"image_url"`
	Description  string          `gorm:"type:text" json:"description"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// MovementType Enum Simulation
const (
	MovementTypePurchase = "purchase"
	MovementTypeSale     = "sale"
)

// StockMovement is the append-only stock ledger. Rows are written only while
// recording an order and are never updated or deleted.
type StockMovement struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	ProductID     uint      `gorm:"not null;index" json:"product_id"`
	Product       *Product  `gorm:"foreignKey:ProductID" json:"-"`
	MovementType  string    `gorm:"type:varchar(20);not null" json:"movement_type"` // purchase, sale
	Quantity      int       `gorm:"type:int;not null" json:"quantity"`              // signed delta
	ReferenceType string    `gorm:"type:varchar(20)" json:"reference_type"`
	ReferenceID   uint      `gorm:"index" json:"reference_id"`
	Notes         string    `gorm:"type:text" json:"notes"`
	CreatedAt     time.Time `json:"created_at"`
}

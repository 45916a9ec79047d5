package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus default for both purchase status and sale payment status
const OrderStatusPending = "pending"

// Purchase is the header of goods bought from a supplier.
// TotalAmount = Subtotal + TaxAmount - DiscountAmount.
type Purchase struct {
	ID             uint            `gorm:"primaryKey" json:"id"`
	InvoiceNo      string          `gorm:"type:varchar(100);uniqueIndex;not null" json:"invoice_no"`
	SupplierID     uint            `gorm:"not null;index" json:"supplier_id"`
	Supplier       *Supplier       `gorm:"foreignKey:SupplierID" json:"supplier,omitempty"`
	PurchaseDate   time.Time       `gorm:"type:date;not null;index" json:"purchase_date"`
	Subtotal       decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"subtotal"`
	TaxAmount      decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"tax_amount"`
	DiscountAmount decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"discount_amount"`
	TotalAmount    decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"total_amount"`
	Status         string          `gorm:"type:varchar(50);default:'pending'" json:"status"`
	Items          []PurchaseItem  `gorm:"foreignKey:PurchaseID;constraint:OnDelete:CASCADE" json:"items"`
	CreatedAt      time.Time       `json:"created_at"`
}

// PurchaseItem represents a line item within a Purchase.
// TotalPrice is frozen at Quantity * UnitPrice when the line is written.
type PurchaseItem struct {
	ID         uint            `gorm:"primaryKey" json:"id"`
	PurchaseID uint            `gorm:"not null;index" json:"purchase_id"`
	ProductID  uint            `gorm:"not null;index" json:"product_id"`
	Product    *Product        `gorm:"foreignKey:ProductID" json:"-"`
	Quantity   int             `gorm:"type:int;not null" json:"quantity"`
	UnitPrice  decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"unit_price"`
	TotalPrice decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"total_price"`
}

// Sale is the header of goods sold to a customer. Sales carry no tax.
type Sale struct {
	ID             uint            `gorm:"primaryKey" json:"id"`
	InvoiceNo      string          `gorm:"type:varchar(100);uniqueIndex;not null" json:"invoice_no"`
	CustomerName   string          `gorm:"type:varchar(255)" json:"customer_name"`
	SaleDate       time.Time       `gorm:"type:date;not null;index" json:"sale_date"`
	Subtotal       decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"subtotal"`
	DiscountAmount decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"discount_amount"`
	TotalAmount    decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"total_amount"`
	PaymentStatus  string          `gorm:"type:varchar(50);default:'pending'" json:"payment_status"`
	Items          []SaleItem      `gorm:"foreignKey:SaleID;constraint:OnDelete:CASCADE" json:"items"`
	CreatedAt      time.Time       `json:"created_at"`
}

// SaleItem represents a line item within a Sale
type SaleItem struct {
	ID           uint            `gorm:"primaryKey" json:"id"`
	SaleID       uint            `gorm:"not null;index" json:"sale_id"`
	ProductID    uint            `gorm:"not null;index" json:"product_id"`
	Product      *Product        `gorm:"foreignKey:ProductID" json:"-"`
	Quantity     int             `gorm:"type:int;not null" json:"quantity"`
	UnitPrice    decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"unit_price"`
	SellingPrice decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"selling_price"`
	TotalPrice   decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"total_price"`
}

package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Supplier is the counterparty of a purchase
type Supplier struct {
	ID                 uint            `gorm:"primaryKey" json:"id"`
	Name               string          `gorm:"type:varchar(255);not null;index" json:"name"`
	ContactPerson      string          `gorm:"type:varchar(255)" json:"contact_person"`
	Email              string          `gorm:"type:varchar(255);uniqueIndex" json:"email"`
	Phone              string          `gorm:"type:varchar(50)" json:"phone"`
	Address            string          `gorm:"type:text" json:"address"`
	OutstandingBalance decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"outstanding_balance"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
}

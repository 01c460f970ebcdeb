package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/laundryline/laundryline-backend/pkg/enums"
)

// StockAlert flags a threshold crossing for one stock item. Item name,
// quantity, and reorder level are snapshotted at creation so the alert reads
// the same after the item recovers.
type StockAlert struct {
	ID              uuid.UUID           `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ItemID          uuid.UUID           `gorm:"type:uuid;not null;index" json:"itemId"`
	ItemName        string              `gorm:"type:text;not null" json:"itemName"`
	CurrentQuantity decimal.Decimal     `gorm:"type:numeric(12,3);not null" json:"-"`
	ReorderLevel    decimal.Decimal     `gorm:"type:numeric(12,3);not null" json:"-"`
	Severity        enums.AlertSeverity `gorm:"type:text;not null" json:"severity"`
	Message         string              `gorm:"type:text;not null" json:"message"`
	IsResolved      bool                `gorm:"not null;default:false" json:"isResolved"`
	Date            time.Time           `gorm:"type:timestamptz;not null" json:"date"`
	ResolvedAt      *time.Time          `gorm:"type:timestamptz" json:"resolvedAt,omitempty"`
}

package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RestockEntry records one replenishment of a stock item, with optional notes.
type RestockEntry struct {
	ID            uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	ItemID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	QuantityAdded decimal.Decimal `gorm:"type:numeric(12,3);not null"`
	Notes         string          `gorm:"type:text"`
	Date          time.Time       `gorm:"type:timestamptz;not null"`
}

package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ConsumptionEntry is one append-only usage event against a stock item.
type ConsumptionEntry struct {
	ID           uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	ItemID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	QuantityUsed decimal.Decimal `gorm:"type:numeric(12,3);not null"`
	Reason       string          `gorm:"type:text;not null"`
	Date         time.Time       `gorm:"type:timestamptz;not null"`
}

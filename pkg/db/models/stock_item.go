package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/laundryline/laundryline-backend/pkg/enums"
)

// StockItem is a tracked consumable (detergent, soap, ...) with its current
// quantity, reorder threshold, and derived health fields. Status and the
// derived averages are always recomputed server-side; they are never accepted
// from a client.
type StockItem struct {
	ID                      uuid.UUID         `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ItemName                string            `gorm:"type:text;not null;uniqueIndex" json:"itemName"`
	CurrentQuantity         decimal.Decimal   `gorm:"type:numeric(12,3);not null" json:"-"`
	Unit                    string            `gorm:"type:text;not null" json:"unit"`
	ReorderLevel            decimal.Decimal   `gorm:"type:numeric(12,3);not null" json:"-"`
	Status                  enums.StockStatus `gorm:"type:text;not null" json:"status"`
	AverageDailyConsumption decimal.Decimal   `gorm:"type:numeric(12,3);not null;default:0" json:"-"`
	LastRestockDate         time.Time         `gorm:"type:timestamptz;not null" json:"lastRestockDate"`
	EstimatedDepletionDate  *time.Time        `gorm:"type:timestamptz" json:"estimatedDepletionDate,omitempty"`

	// Version guards the read-modify-write cycle on consume/restock.
	Version int64 `gorm:"not null;default:0" json:"-"`

	ConsumptionHistory []ConsumptionEntry `gorm:"foreignKey:ItemID" json:"-"`
	RestockHistory     []RestockEntry     `gorm:"foreignKey:ItemID" json:"-"`

	CreatedAt time.Time `gorm:"type:timestamptz;default:now()" json:"createdAt"`
	UpdatedAt time.Time `gorm:"type:timestamptz;autoUpdateTime" json:"updatedAt"`
}

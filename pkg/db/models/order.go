package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/laundryline/laundryline-backend/pkg/enums"
)

// Order is a customer's laundry drop-off that workers move through the
// Pending -> Completed pipeline.
type Order struct {
	ID              uuid.UUID         `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	CustomerID      uuid.UUID         `gorm:"type:uuid;not null;index"`
	Customer        *Customer         `gorm:"foreignKey:CustomerID"`
	NumberOfClothes int               `gorm:"not null"`
	Status          enums.OrderStatus `gorm:"type:text;not null;default:'Pending'"`
	CreatedAt       time.Time         `gorm:"type:timestamptz;default:now();index"`
	UpdatedAt       time.Time         `gorm:"type:timestamptz;autoUpdateTime"`
}

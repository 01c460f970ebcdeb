package models

import (
	"time"

	"github.com/google/uuid"
)

// Customer is the laundry-service user who drops off bags of clothes.
type Customer struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Name      string    `gorm:"type:text;not null"`
	BagNumber string    `gorm:"type:text;not null;uniqueIndex"`
	CreatedAt time.Time `gorm:"type:timestamptz;default:now()"`
}

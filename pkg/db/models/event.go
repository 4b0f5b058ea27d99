package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Event is a paid workshop with a bounded number of seats.
type Event struct {
	ID                  uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	Title               string          `gorm:"column:title;not null"`
	Description         *string         `gorm:"column:description"`
	EventDate           time.Time       `gorm:"column:event_date;not null"`
	Price               decimal.Decimal `gorm:"column:price;type:numeric(10,2);not null"`
	Location            *string         `gorm:"column:location"`
	ImageURL            *string         `gorm:"column:image_url"`
	MaxParticipants     int             `gorm:"column:max_participants;not null"`
	CurrentParticipants int             `gorm:"column:current_participants;not null;default:0"`
	IsActive            bool            `gorm:"column:is_active;not null;default:true"`
	CreatedAt           time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt           time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

// SeatsLeft returns the remaining capacity, never below zero.
func (e Event) SeatsLeft() int {
	if left := e.MaxParticipants - e.CurrentParticipants; left > 0 {
		return left
	}
	return 0
}

func (e *Event) BeforeCreate(*gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

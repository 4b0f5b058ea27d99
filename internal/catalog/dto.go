package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/atelier-backend/pkg/db/models"
)

// ProductDTO is the storefront product payload.
type ProductDTO struct {
	ID            uuid.UUID       `json:"id"`
	Title         string          `json:"title"`
	Description   *string         `json:"description"`
	Price         decimal.Decimal `json:"price"`
	Category      string          `json:"category"`
	ImageURL      *string         `json:"image_url"`
	StockQuantity int             `json:"stock_quantity"`
	InStock       bool            `json:"in_stock"`
	CreatedAt     time.Time       `json:"created_at"`
}

// EventDTO is the storefront workshop payload.
type EventDTO struct {
	ID                  uuid.UUID       `json:"id"`
	Title               string          `json:"title"`
	Description         *string         `json:"description"`
	EventDate           time.Time       `json:"event_date"`
	Price               decimal.Decimal `json:"price"`
	Location            *string         `json:"location"`
	ImageURL            *string         `json:"image_url"`
	MaxParticipants     int             `json:"max_participants"`
	CurrentParticipants int             `json:"current_participants"`
	SeatsLeft           int             `json:"seats_left"`
}

func toProductDTO(p models.Product) ProductDTO {
	return ProductDTO{
		ID:            p.ID,
		Title:         p.Title,
		Description:   p.Description,
		Price:         p.Price,
		Category:      p.Category.String(),
		ImageURL:      p.ImageURL,
		StockQuantity: p.StockQuantity,
		InStock:       p.StockQuantity > 0,
		CreatedAt:     p.CreatedAt,
	}
}

func toEventDTO(e models.Event) EventDTO {
	return EventDTO{
		ID:                  e.ID,
		Title:               e.Title,
		Description:         e.Description,
		EventDate:           e.EventDate,
		Price:               e.Price,
		Location:            e.Location,
		ImageURL:            e.ImageURL,
		MaxParticipants:     e.MaxParticipants,
		CurrentParticipants: e.CurrentParticipants,
		SeatsLeft:           e.SeatsLeft(),
	}
}

package catalog

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/atelier-backend/internal/repo"
	"github.com/angelmondragon/atelier-backend/pkg/db/models"
	"github.com/angelmondragon/atelier-backend/pkg/enums"
)

// Repository reads products and events. It never mutates the catalog.
type Repository interface {
	ListProducts(ctx context.Context, category *enums.ProductCategory) ([]models.Product, error)
	FindActiveProduct(ctx context.Context, id uuid.UUID) (*models.Product, error)
	ListUpcomingEvents(ctx context.Context, after time.Time) ([]models.Event, error)
	FindActiveEvent(ctx context.Context, id uuid.UUID) (*models.Event, error)
}

type repository struct {
	repo.Base
}

// NewRepository builds a catalog repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{Base: repo.NewBase(db)}
}

// ListProducts returns active products, newest first.
func (r *repository) ListProducts(ctx context.Context, category *enums.ProductCategory) ([]models.Product, error) {
	query := r.DB(ctx).Scopes(repo.Active)
	if category != nil {
		query = query.Where("category = ?", *category)
	}
	var products []models.Product
	if err := query.Order("created_at DESC").Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

func (r *repository) FindActiveProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	err := r.DB(ctx).Scopes(repo.Active).
		Where("id = ?", id).
		First(&product).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// ListUpcomingEvents returns active events scheduled after the given instant,
// soonest first.
func (r *repository) ListUpcomingEvents(ctx context.Context, after time.Time) ([]models.Event, error) {
	var events []models.Event
	err := r.DB(ctx).Scopes(repo.Active).
		Where("event_date > ?", after).
		Order("event_date ASC").
		Find(&events).Error
	if err != nil {
		return nil, err
	}
	return events, nil
}

func (r *repository) FindActiveEvent(ctx context.Context, id uuid.UUID) (*models.Event, error) {
	var event models.Event
	err := r.DB(ctx).Scopes(repo.Active).
		Where("id = ?", id).
		First(&event).Error
	if err != nil {
		return nil, err
	}
	return &event, nil
}

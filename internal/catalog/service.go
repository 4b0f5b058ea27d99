package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/atelier-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/atelier-backend/pkg/errors"
)

// InvalidCategoryMessage is returned verbatim to clients.
const InvalidCategoryMessage = `Invalid category. Must be "print" or "original"`

// Service exposes read-only catalog operations.
type Service interface {
	ListProducts(ctx context.Context, category *enums.ProductCategory) ([]ProductDTO, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*ProductDTO, error)
	ListUpcomingEvents(ctx context.Context) ([]EventDTO, error)
	GetEvent(ctx context.Context, id uuid.UUID) (*EventDTO, error)
}

type service struct {
	repo Repository
	now  func() time.Time
}

// Option customizes the catalog service.
type Option func(*service)

// WithClock overrides the clock used to decide which events are upcoming.
func WithClock(now func() time.Time) Option {
	return func(s *service) {
		if now != nil {
			s.now = now
		}
	}
}

// NewService builds the catalog service.
func NewService(repo Repository, opts ...Option) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	s := &service{
		repo: repo,
		now:  func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// ParseCategory validates a raw category path segment.
func ParseCategory(raw string) (enums.ProductCategory, error) {
	category, err := enums.ParseProductCategory(strings.ToLower(strings.TrimSpace(raw)))
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeValidation, err, InvalidCategoryMessage)
	}
	return category, nil
}

func (s *service) ListProducts(ctx context.Context, category *enums.ProductCategory) ([]ProductDTO, error) {
	if category != nil && !category.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, InvalidCategoryMessage)
	}
	products, err := s.repo.ListProducts(ctx, category)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list products")
	}
	out := make([]ProductDTO, 0, len(products))
	for _, p := range products {
		out = append(out, toProductDTO(p))
	}
	return out, nil
}

func (s *service) GetProduct(ctx context.Context, id uuid.UUID) (*ProductDTO, error) {
	product, err := s.repo.FindActiveProduct(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load product")
	}
	dto := toProductDTO(*product)
	return &dto, nil
}

func (s *service) ListUpcomingEvents(ctx context.Context) ([]EventDTO, error) {
	events, err := s.repo.ListUpcomingEvents(ctx, s.now())
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list events")
	}
	out := make([]EventDTO, 0, len(events))
	for _, e := range events {
		out = append(out, toEventDTO(e))
	}
	return out, nil
}

func (s *service) GetEvent(ctx context.Context, id uuid.UUID) (*EventDTO, error) {
	event, err := s.repo.FindActiveEvent(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "event not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load event")
	}
	dto := toEventDTO(*event)
	return &dto, nil
}

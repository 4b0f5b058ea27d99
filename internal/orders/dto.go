package orders

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/atelier-backend/pkg/db/models"
	"github.com/angelmondragon/atelier-backend/pkg/enums"
)

type Customer struct {
	Email string
	Name  string
}

// LineItemInput is one cart line; UnitPrice is the price snapshot charged.
type LineItemInput struct {
	Ref       ItemRef
	Quantity  int
	UnitPrice decimal.Decimal
}

// PlaceOrderInput carries everything needed to persist an order atomically.
type PlaceOrderInput struct {
	Customer         Customer
	ShippingAddress  *string
	Items            []LineItemInput
	TotalAmount      decimal.Decimal
	PaymentReference *string
}

// OrderDTO is the public order shape.
type OrderDTO struct {
	ID               uuid.UUID         `json:"id"`
	CustomerEmail    string            `json:"customer_email"`
	CustomerName     string            `json:"customer_name"`
	TotalAmount      decimal.Decimal   `json:"total_amount"`
	PaymentReference *string           `json:"paypal_transaction_id"`
	ShippingAddress  *string           `json:"shipping_address"`
	Status           enums.OrderStatus `json:"status"`
	CreatedAt        time.Time         `json:"created_at"`
}

// OrderItemDTO is a line item with catalog titles resolved for display.
type OrderItemDTO struct {
	ID           uuid.UUID       `json:"id"`
	Kind         enums.ItemKind  `json:"kind"`
	ProductID    *uuid.UUID      `json:"product_id"`
	EventID      *uuid.UUID      `json:"event_id"`
	Quantity     int             `json:"quantity"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	ProductTitle *string         `json:"product_title,omitempty"`
	ProductImage *string         `json:"product_image,omitempty"`
	EventTitle   *string         `json:"event_title,omitempty"`
}

// OrderDetailDTO is an order with its items in placement order.
type OrderDetailDTO struct {
	OrderDTO
	Items []OrderItemDTO `json:"items"`
}

// ItemsTotal sums quantity × unit price across the detail's items.
func (d *OrderDetailDTO) ItemsTotal() decimal.Decimal {
	total := decimal.Zero
	for _, item := range d.Items {
		total = total.Add(item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return total
}

// OrderItemRow is the scan target for the order items lookup join.
type OrderItemRow struct {
	ID           uuid.UUID
	ProductID    *uuid.UUID
	EventID      *uuid.UUID
	Quantity     int
	UnitPrice    decimal.Decimal
	Position     int
	ProductTitle *string
	ProductImage *string
	EventTitle   *string
}

func toOrderDTO(order *models.Order) OrderDTO {
	return OrderDTO{
		ID:               order.ID,
		CustomerEmail:    order.CustomerEmail,
		CustomerName:     order.CustomerName,
		TotalAmount:      order.TotalAmount,
		PaymentReference: order.PaymentReference,
		ShippingAddress:  order.ShippingAddress,
		Status:           order.Status,
		CreatedAt:        order.CreatedAt,
	}
}

func toOrderItemDTO(row OrderItemRow) (OrderItemDTO, error) {
	ref, err := refFromColumns(row.ProductID, row.EventID)
	if err != nil {
		return OrderItemDTO{}, err
	}
	return OrderItemDTO{
		ID:           row.ID,
		Kind:         ref.Kind(),
		ProductID:    row.ProductID,
		EventID:      row.EventID,
		Quantity:     row.Quantity,
		UnitPrice:    row.UnitPrice,
		ProductTitle: row.ProductTitle,
		ProductImage: row.ProductImage,
		EventTitle:   row.EventTitle,
	}, nil
}

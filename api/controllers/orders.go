package controllers

import (
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/atelier-backend/api/responses"
	"github.com/angelmondragon/atelier-backend/api/validators"
	"github.com/angelmondragon/atelier-backend/internal/orders"
	"github.com/angelmondragon/atelier-backend/internal/payments"
	"github.com/angelmondragon/atelier-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/atelier-backend/pkg/errors"
	"github.com/angelmondragon/atelier-backend/pkg/logger"
)

const (
	maxNameLen      = 255
	maxAddressLen   = 1000
	maxReferenceLen = 255
)

type orderItemRequest struct {
	ProductID *string         `json:"product_id"`
	EventID   *string         `json:"event_id"`
	Quantity  int             `json:"quantity" validate:"gte=1"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

type placeOrderRequest struct {
	CustomerEmail    string             `json:"customer_email" validate:"required,email"`
	CustomerName     string             `json:"customer_name" validate:"required"`
	TotalAmount      decimal.Decimal    `json:"total_amount"`
	PaymentReference *string            `json:"paypal_transaction_id"`
	ShippingAddress  *string            `json:"shipping_address"`
	Items            []orderItemRequest `json:"items" validate:"required,min=1,dive"`
}

type placeOrderResponse struct {
	Message string            `json:"message"`
	OrderID uuid.UUID         `json:"order_id"`
	Status  enums.OrderStatus `json:"status"`
}

// PlaceOrder persists a checkout. Capture verification, when enabled, runs
// inside the checkout service before anything is written. Responds 201 with
// {"data":{"message","order_id","status"}}; clients read order_id under data.
func PlaceOrder(svc payments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		var payload placeOrderRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.PlaceOrder(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, placeOrderResponse{
			Message: "Order created successfully",
			OrderID: order.ID,
			Status:  order.Status,
		})
	}
}

// GetOrder returns an order with its line items.
func GetOrder(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}
		id, err := validators.ParseUUIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		order, err := svc.GetOrder(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

func (p placeOrderRequest) toInput() (orders.PlaceOrderInput, error) {
	items := make([]orders.LineItemInput, 0, len(p.Items))
	for i, item := range p.Items {
		ref, err := item.ref(i)
		if err != nil {
			return orders.PlaceOrderInput{}, err
		}
		items = append(items, orders.LineItemInput{
			Ref:       ref,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		})
	}
	return orders.PlaceOrderInput{
		Customer: orders.Customer{
			Email: validators.SanitizeString(p.CustomerEmail, maxNameLen),
			Name:  validators.SanitizeString(p.CustomerName, maxNameLen),
		},
		ShippingAddress:  validators.SanitizeOptional(p.ShippingAddress, maxAddressLen),
		Items:            items,
		TotalAmount:      p.TotalAmount,
		PaymentReference: validators.SanitizeOptional(p.PaymentReference, maxReferenceLen),
	}, nil
}

func (i orderItemRequest) ref(pos int) (orders.ItemRef, error) {
	field := fmt.Sprintf("items[%d]", pos)
	productID, err := validators.ParseOptionalUUID(i.ProductID, field+".product_id")
	if err != nil {
		return orders.ItemRef{}, err
	}
	eventID, err := validators.ParseOptionalUUID(i.EventID, field+".event_id")
	if err != nil {
		return orders.ItemRef{}, err
	}
	switch {
	case productID != nil && eventID == nil:
		return orders.ProductRef(*productID), nil
	case eventID != nil && productID == nil:
		return orders.EventRef(*eventID), nil
	}
	return orders.ItemRef{}, pkgerrors.New(pkgerrors.CodeValidation, "each item must reference exactly one of product_id or event_id").
		WithDetails(map[string]string{field: "exactly one of product_id or event_id is required"})
}

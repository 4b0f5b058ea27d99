package controllers

import (
	"net/http"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/atelier-backend/api/responses"
	"github.com/angelmondragon/atelier-backend/api/validators"
	"github.com/angelmondragon/atelier-backend/internal/payments"
	pkgerrors "github.com/angelmondragon/atelier-backend/pkg/errors"
	"github.com/angelmondragon/atelier-backend/pkg/logger"
)

type paymentItemRequest struct {
	Name     string          `json:"name"`
	Quantity int             `json:"quantity" validate:"gte=1"`
	Price    decimal.Decimal `json:"price"`
}

type createPaymentRequest struct {
	Items []paymentItemRequest `json:"items" validate:"required,min=1,dive"`
	Total decimal.Decimal      `json:"total"`
}

type executePaymentRequest struct {
	OrderID string `json:"orderId" validate:"required"`
}

// CreatePayment opens a PayPal intent for the cart total. The response is a
// trimmed intent under data: id, status, approve_url and links.
func CreatePayment(svc payments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		var payload createPaymentRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items := make([]payments.PaymentItem, 0, len(payload.Items))
		for _, item := range payload.Items {
			items = append(items, payments.PaymentItem{
				Name:     validators.SanitizeString(item.Name, maxNameLen),
				Quantity: item.Quantity,
				Price:    item.Price,
			})
		}

		intent, err := svc.CreatePayment(r.Context(), payments.CreatePaymentInput{
			Items:         items,
			Total:         payload.Total,
			ReturnBaseURL: returnBaseURL(r),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, intent)
	}
}

// ExecutePayment captures an approved intent and completes matching orders.
func ExecutePayment(svc payments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		var payload executePaymentRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.ExecutePayment(r.Context(), payload.OrderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// returnBaseURL prefers the browser origin so PayPal sends the payer back to
// the storefront rather than the API host.
func returnBaseURL(r *http.Request) string {
	if origin := strings.TrimSpace(r.Header.Get("Origin")); origin != "" && origin != "null" {
		return origin
	}
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if forwarded := strings.TrimSpace(r.Header.Get("X-Forwarded-Proto")); forwarded != "" {
		scheme = strings.ToLower(strings.Split(forwarded, ",")[0])
	}
	if r.Host == "" {
		return ""
	}
	return scheme + "://" + r.Host
}

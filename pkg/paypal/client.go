package paypal

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sethvargo/go-retry"
	"github.com/shopspring/decimal"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/angelmondragon/atelier-backend/pkg/config"
	pkgerrors "github.com/angelmondragon/atelier-backend/pkg/errors"
	"github.com/angelmondragon/atelier-backend/pkg/logger"
	"github.com/angelmondragon/atelier-backend/pkg/metrics"
)

const (
	sandboxEnv = "sandbox"
	liveEnv    = "live"

	tokenPath  = "/v1/oauth2/token"
	ordersPath = "/v2/checkout/orders"

	responseBodyReadLimit int64 = 64 * 1024
	defaultTimeout              = 15 * time.Second
	defaultRetryBase            = 200 * time.Millisecond

	outcomeSuccess  = "success"
	outcomeRejected = "rejected"
	outcomeError    = "error"
)

var (
	errClientIDRequired     = errors.New("paypal client id is required")
	errClientSecretRequired = errors.New("paypal client secret is required")
	errLoggerRequired       = errors.New("paypal logger is required")
	errInvalidMode          = fmt.Errorf("paypal mode must be %q or %q", sandboxEnv, liveEnv)
)

var baseURLs = map[string]string{
	sandboxEnv: "https://api-m.sandbox.paypal.com",
	liveEnv:    "https://api-m.paypal.com",
}

// Client talks to the PayPal Orders v2 API with client-credentials auth,
// bounded retries on transient failures, redacted logging and metrics.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	environment string
	currency    string
	brandName   string
	maxRetries  uint64
	retryBase   time.Duration
	oauth       clientcredentials.Config
	tokens      oauth2.TokenSource
	logger      *logger.Logger
	metrics     *metrics.GatewayMetrics
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithBaseURL overrides the mode-derived API base URL.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		trimmed := strings.TrimRight(strings.TrimSpace(baseURL), "/")
		if trimmed != "" {
			c.baseURL = trimmed
		}
	}
}

// WithMetrics records every provider call on m.
func WithMetrics(m *metrics.GatewayMetrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

// WithRetryBase sets the first backoff interval between attempts.
func WithRetryBase(base time.Duration) Option {
	return func(c *Client) {
		if base > 0 {
			c.retryBase = base
		}
	}
}

// NewClient validates credentials and builds the PayPal wrapper.
func NewClient(ctx context.Context, cfg config.PayPalConfig, logg *logger.Logger, opts ...Option) (*Client, error) {
	if logg == nil {
		return nil, errLoggerRequired
	}
	env, err := normalizeEnv(cfg.Environment())
	if err != nil {
		return nil, err
	}
	clientID := strings.TrimSpace(cfg.ClientID)
	if clientID == "" {
		return nil, errClientIDRequired
	}
	secret := strings.TrimSpace(cfg.ClientSecret)
	if secret == "" {
		return nil, errClientSecretRequired
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	maxRetries := cfg.MaxRetries
	if maxRetries < 0 {
		maxRetries = 0
	}

	c := &Client{
		httpClient:  &http.Client{Timeout: timeout},
		baseURL:     baseURLs[env],
		environment: env,
		currency:    firstNonEmpty(cfg.Currency, defaultCurrency),
		brandName:   firstNonEmpty(cfg.BrandName, defaultBrandName),
		maxRetries:  uint64(maxRetries),
		retryBase:   cfg.RetryBase,
		logger:      logg,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	if c.retryBase <= 0 {
		c.retryBase = defaultRetryBase
	}

	c.oauth = clientcredentials.Config{
		ClientID:     clientID,
		ClientSecret: secret,
		TokenURL:     c.baseURL + tokenPath,
		AuthStyle:    oauth2.AuthStyleInHeader,
	}
	tokenCtx := context.WithValue(context.Background(), oauth2.HTTPClient, c.httpClient)
	c.tokens = c.oauth.TokenSource(tokenCtx)

	logg.Info(logg.WithField(ctx, "paypal_mode", env), "paypal client initialized")
	return c, nil
}

// Environment reports the normalized PayPal mode.
func (c *Client) Environment() string {
	if c == nil {
		return ""
	}
	return c.environment
}

// CreateOrder opens a CAPTURE-intent order for the given amount.
func (c *Client) CreateOrder(ctx context.Context, params CreateOrderParams) (*Order, error) {
	if c == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "paypal client not configured")
	}
	if !params.Amount.IsPositive() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order amount must be positive")
	}

	body := createOrderRequest{
		Intent: intentCapture,
		PurchaseUnits: []purchaseUnitRequest{{
			Amount: money{
				CurrencyCode: firstNonEmpty(params.Currency, c.currency),
				Value:        params.Amount.StringFixed(2),
			},
			Description: firstNonEmpty(params.Description, defaultOrderDescription),
		}},
		ApplicationContext: applicationContext{
			BrandName:   firstNonEmpty(params.BrandName, c.brandName),
			LandingPage: landingPageBilling,
			UserAction:  userActionPayNow,
			ReturnURL:   params.ReturnURL,
			CancelURL:   params.CancelURL,
		},
	}

	c.log(ctx, "request", "create_order", map[string]any{
		"amount":     body.PurchaseUnits[0].Amount.Value,
		"currency":   body.PurchaseUnits[0].Amount.CurrencyCode,
		"return_url": params.ReturnURL,
	})

	var order Order
	requestID := "create-" + uuid.NewString()
	if err := c.call(ctx, "create_order", http.MethodPost, ordersPath, requestID, body, &order); err != nil {
		return nil, err
	}

	c.log(ctx, "response", "create_order", map[string]any{
		"order_id": order.ID,
		"status":   order.Status,
	})
	return &order, nil
}

// CaptureOrder captures funds for an approved order. Retries reuse the same
// request id so the provider deduplicates them.
func (c *Client) CaptureOrder(ctx context.Context, orderID string) (*Capture, error) {
	if c == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "paypal client not configured")
	}
	id := strings.TrimSpace(orderID)
	if id == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "payment id is required")
	}

	c.log(ctx, "request", "capture_order", map[string]any{"order_id": id})

	var resp captureResponse
	path := fmt.Sprintf("%s/%s/capture", ordersPath, url.PathEscape(id))
	if err := c.call(ctx, "capture_order", http.MethodPost, path, "capture-"+id, struct{}{}, &resp); err != nil {
		return nil, err
	}

	capture := &Capture{
		OrderID:    resp.ID,
		Status:     resp.Status,
		PayerEmail: resp.Payer.EmailAddress,
	}
	if len(resp.PurchaseUnits) > 0 && len(resp.PurchaseUnits[0].Payments.Captures) > 0 {
		first := resp.PurchaseUnits[0].Payments.Captures[0]
		capture.CaptureID = first.ID
		capture.Currency = first.Amount.CurrencyCode
		if amount, err := decimal.NewFromString(first.Amount.Value); err == nil {
			capture.Amount = amount
		}
	}

	c.log(ctx, "response", "capture_order", map[string]any{
		"order_id":    capture.OrderID,
		"capture_id":  capture.CaptureID,
		"status":      capture.Status,
		"payer_email": capture.PayerEmail,
	})
	return capture, nil
}

// GetOrder fetches the current state of a provider order.
func (c *Client) GetOrder(ctx context.Context, orderID string) (*Order, error) {
	if c == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "paypal client not configured")
	}
	id := strings.TrimSpace(orderID)
	if id == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "payment id is required")
	}

	c.log(ctx, "request", "get_order", map[string]any{"order_id": id})

	var order Order
	path := fmt.Sprintf("%s/%s", ordersPath, url.PathEscape(id))
	if err := c.call(ctx, "get_order", http.MethodGet, path, "", nil, &order); err != nil {
		return nil, err
	}

	c.log(ctx, "response", "get_order", map[string]any{
		"order_id": order.ID,
		"status":   order.Status,
	})
	return &order, nil
}

// call runs one logical API operation with bounded retries and records its outcome.
func (c *Client) call(ctx context.Context, op, method, path, requestID string, body, out any) error {
	var payload []byte
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "marshal paypal request")
		}
		payload = encoded
	}

	started := time.Now()
	backoff := retry.WithMaxRetries(c.maxRetries, retry.NewExponential(c.retryBase))
	attempt := 0
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		err := c.attempt(ctx, method, path, requestID, payload, out)
		if err != nil && isTransient(err) {
			c.log(ctx, "retry", op, map[string]any{"attempt": attempt, "error": err.Error()})
			return retry.RetryableError(err)
		}
		return err
	})
	var t *transientError
	if errors.As(err, &t) {
		err = t.err
	}
	if err != nil && pkgerrors.As(err) == nil {
		err = pkgerrors.Wrap(pkgerrors.CodeDependency, err, "paypal request aborted")
	}

	outcome := outcomeSuccess
	if err != nil {
		outcome = outcomeError
		if pkgerrors.Is(err, pkgerrors.CodePaymentRejected) || pkgerrors.Is(err, pkgerrors.CodeNotFound) {
			outcome = outcomeRejected
		}
		c.log(ctx, "error", op, map[string]any{"error": err.Error(), "attempts": attempt})
	}
	c.metrics.Observe(op, outcome, time.Since(started))
	return err
}

func (c *Client) attempt(ctx context.Context, method, path, requestID string, payload []byte, out any) error {
	token, err := c.tokens.Token()
	if err != nil {
		return mapTokenError(err)
	}

	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build paypal request")
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if requestID != "" {
		req.Header.Set("PayPal-Request-Id", requestID)
	}
	token.SetAuthHeader(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, ctx.Err(), "paypal request cancelled")
		}
		return transient(pkgerrors.Wrap(pkgerrors.CodeDependency, err, "execute paypal request"))
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, responseBodyReadLimit))
	if err != nil {
		return transient(pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read paypal response"))
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return mapStatusError(resp.StatusCode, raw)
	}
	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode paypal response")
	}
	return nil
}

type transientError struct {
	err error
}

func (t *transientError) Error() string { return t.err.Error() }
func (t *transientError) Unwrap() error { return t.err }

func transient(err error) error {
	return &transientError{err: err}
}

func isTransient(err error) bool {
	var t *transientError
	return errors.As(err, &t)
}

func mapTokenError(err error) error {
	wrapped := pkgerrors.Wrap(pkgerrors.CodeDependency, err, "obtain paypal access token")
	var rerr *oauth2.RetrieveError
	if errors.As(err, &rerr) {
		if rerr.Response != nil && rerr.Response.StatusCode >= http.StatusInternalServerError {
			return transient(wrapped)
		}
		return wrapped
	}
	return transient(wrapped)
}

func mapStatusError(status int, raw []byte) error {
	var body apiErrorBody
	_ = json.Unmarshal(raw, &body)

	details := map[string]any{"status": status}
	if body.Name != "" {
		details["name"] = body.Name
	}
	if body.DebugID != "" {
		details["debug_id"] = body.DebugID
	}
	if body.Message != "" {
		details["message"] = body.Message
	}
	if len(body.Details) > 0 {
		details["issue"] = body.Details[0].Issue
	}

	cause := fmt.Errorf("paypal status %d: %s", status, firstNonEmpty(body.Name, http.StatusText(status)))
	switch {
	case status == http.StatusTooManyRequests || status >= http.StatusInternalServerError:
		return transient(pkgerrors.Wrap(pkgerrors.CodeDependency, cause, "paypal unavailable").WithDetails(details))
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return pkgerrors.Wrap(pkgerrors.CodeDependency, cause, "paypal rejected credentials").WithDetails(details)
	case status == http.StatusNotFound:
		return pkgerrors.Wrap(pkgerrors.CodeNotFound, cause, "payment not found")
	default:
		return pkgerrors.Wrap(pkgerrors.CodePaymentRejected, cause, "payment rejected by paypal").WithDetails(details)
	}
}

func (c *Client) log(ctx context.Context, phase, op string, fields map[string]any) {
	if c == nil || c.logger == nil {
		return
	}
	logFields := map[string]any{
		"operation": op,
		"phase":     phase,
	}
	for k, v := range fields {
		logFields[k] = redact(k, v)
	}
	ctx = c.logger.WithFields(ctx, logFields)
	switch phase {
	case "error":
		c.logger.Error(ctx, fmt.Sprintf("paypal %s", op), errors.New(fmt.Sprint(fields["error"])))
	case "retry":
		c.logger.Warn(ctx, fmt.Sprintf("paypal %s retry", op))
	default:
		c.logger.Info(ctx, fmt.Sprintf("paypal %s", phase))
	}
}

func redact(key string, value any) any {
	lower := strings.ToLower(key)
	for _, sensitive := range []string{"token", "secret", "authorization", "email", "phone"} {
		if strings.Contains(lower, sensitive) {
			return "[REDACTED]"
		}
	}
	return value
}

func normalizeEnv(raw string) (string, error) {
	env := strings.TrimSpace(strings.ToLower(raw))
	if env == "" {
		env = sandboxEnv
	}
	if _, ok := baseURLs[env]; !ok {
		return "", errInvalidMode
	}
	return env, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			return trimmed
		}
	}
	return ""
}

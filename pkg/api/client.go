package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// tracerName identifies the client's OpenTelemetry tracer.
const tracerName = "trcafe/api"

// Client talks to the tr-cafe storefront services.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *slog.Logger
	tracer  trace.Tracer
	metrics *metrics
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a client for the storefront API rooted at baseURL.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 15 * time.Second},
		logger:  slog.Default(),
		tracer:  otel.Tracer(tracerName),
		metrics: getMetrics(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the API root the client was configured with.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Foods queries the catalog. Filtering, price bounding, and sorting happen
// server-side per the query parameters; the result replaces any previously
// fetched set wholesale.
func (c *Client) Foods(ctx context.Context, query FoodQuery) ([]Food, error) {
	params := url.Values{}
	if query.Category != "" {
		params.Set("category", query.Category)
	}
	if query.MinPrice != 0 {
		params.Set("minPrice", strconv.FormatFloat(query.MinPrice, 'f', -1, 64))
	}
	if query.MaxPrice != 0 {
		params.Set("maxPrice", strconv.FormatFloat(query.MaxPrice, 'f', -1, 64))
	}
	if query.SortBy != "" {
		params.Set("sortBy", query.SortBy)
	}

	path := "/foods"
	if encoded := params.Encode(); encoded != "" {
		path += "?" + encoded
	}

	var foods []Food
	if err := c.do(ctx, "foods", http.MethodGet, path, "", nil, &foods); err != nil {
		return nil, err
	}
	return foods, nil
}

// CreateOrder submits an order with the given bearer token.
func (c *Client) CreateOrder(ctx context.Context, token string, req OrderRequest) (Order, error) {
	var order Order
	if err := c.do(ctx, "create_order", http.MethodPost, "/orders", token, req, &order); err != nil {
		return Order{}, err
	}
	return order, nil
}

// Orders fetches the caller's order history, most recent first.
func (c *Client) Orders(ctx context.Context, token string) ([]Order, error) {
	var orders []Order
	if err := c.do(ctx, "orders", http.MethodGet, "/orders", token, nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// Login exchanges credentials for a session token and profile.
func (c *Client) Login(ctx context.Context, creds Credentials) (AuthResponse, error) {
	var resp AuthResponse
	if err := c.do(ctx, "login", http.MethodPost, "/login", "", creds, &resp); err != nil {
		return AuthResponse{}, err
	}
	return resp, nil
}

// Register creates an account. Registration does not authenticate; callers
// follow up with Login.
func (c *Client) Register(ctx context.Context, creds Credentials) (User, error) {
	var resp struct {
		User User `json:"user"`
	}
	if err := c.do(ctx, "register", http.MethodPost, "/register", "", creds, &resp); err != nil {
		return User{}, err
	}
	return resp.User, nil
}

// do performs one JSON request/response cycle with tracing and metrics.
func (c *Client) do(ctx context.Context, endpoint, method, path, token string, body, out any) error {
	ctx, span := c.tracer.Start(ctx, "api."+endpoint,
		trace.WithAttributes(
			attribute.String("http.method", method),
			attribute.String("http.path", path),
		),
	)
	defer span.End()

	start := time.Now()
	err := c.doJSON(ctx, method, path, token, body, out)
	duration := time.Since(start).Seconds()

	c.metrics.requestDuration.WithLabelValues(endpoint).Observe(duration)

	status := "success"
	if err != nil {
		status = "error"
		c.metrics.requestErrors.WithLabelValues(endpoint, categorizeError(err)).Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		c.logger.Error("api request failed", "endpoint", endpoint, "error", err)
	}
	c.metrics.requestsTotal.WithLabelValues(endpoint, status).Inc()

	return err
}

func (c *Client) doJSON(ctx context.Context, method, path, token string, body, out any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("trcafe: encode request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("trcafe: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("trcafe: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("trcafe: decode response: %w", err)
	}
	return nil
}

// decodeError extracts the server's message field from an error body,
// falling back to a generic message.
func decodeError(resp *http.Response) error {
	re := &RemoteError{Status: resp.StatusCode, Message: fallbackMessage}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return re
	}

	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Message != "" {
		re.Message = payload.Message
	}
	return re
}

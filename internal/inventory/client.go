package inventory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/Gunvolt24/rocketshoes_cart/internal/domain"
	"github.com/Gunvolt24/rocketshoes_cart/internal/ports"
	"github.com/Gunvolt24/rocketshoes_cart/pkg/ctxmeta"
	"github.com/Gunvolt24/rocketshoes_cart/pkg/httpx"
	"github.com/Gunvolt24/rocketshoes_cart/pkg/metrics"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

var _ ports.InventoryLookup = (*Client)(nil)

var (
	ErrNotFound         = errors.New("inventory: not found")
	ErrUnexpectedStatus = errors.New("inventory: unexpected status")
)

const (
	endpointStock    = "stock"
	endpointProducts = "products"

	maxBodyBytes = 1 << 20
	tracerName   = "rocketshoes_cart/inventory"
)

// Client — HTTP-клиент сервиса склада: GET stock/{id} и GET products/{id}.
// Ответы не кэшируются: каждый вызов — отдельный запрос.
type Client struct {
	base *url.URL
	http *http.Client
	log  ports.Logger
}

// NewClient — baseURL вида "http://host:3333"; timeout <= 0 → 5s.
func NewClient(baseURL string, timeout time.Duration, log ports.Logger) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse inventory url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("inventory url must be absolute, got %q", baseURL)
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Client{
		base: u,
		http: &http.Client{Timeout: timeout},
		log:  log,
	}, nil
}

func (c *Client) Stock(ctx context.Context, productID int64) (domain.Stock, error) {
	var stock domain.Stock
	if err := c.getJSON(ctx, endpointStock, productID, &stock); err != nil {
		return domain.Stock{}, err
	}
	return stock, nil
}

func (c *Client) Product(ctx context.Context, productID int64) (domain.Product, error) {
	var product domain.Product
	if err := c.getJSON(ctx, endpointProducts, productID, &product); err != nil {
		return domain.Product{}, err
	}
	return product, nil
}

func (c *Client) getJSON(ctx context.Context, endpoint string, id int64, out any) (err error) {
	target := c.base.JoinPath(endpoint, strconv.FormatInt(id, 10))

	ctx, span := otel.Tracer(tracerName).Start(ctx, "inventory GET "+endpoint,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.Int64("product.id", id)))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), http.NoBody)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if rid, ok := ctxmeta.RequestIDFromContext(ctx); ok {
		req.Header.Set(httpx.HeaderRequestID, rid)
	}
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	start := time.Now()
	resp, err := c.http.Do(req)
	metrics.InventoryLatency.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.InventoryRequests.WithLabelValues(endpoint, "error").Inc()
		return fmt.Errorf("GET %s: %w", target.Path, err)
	}
	defer resp.Body.Close()

	metrics.InventoryRequests.WithLabelValues(endpoint, strconv.Itoa(resp.StatusCode)).Inc()
	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))
	c.log.Debugf(ctx, "inventory GET %s status=%d took=%s", target.Path, resp.StatusCode, time.Since(start))

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("GET %s: %w", target.Path, ErrNotFound)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return fmt.Errorf("GET %s: %w: %d", target.Path, ErrUnexpectedStatus, resp.StatusCode)
	}

	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(out); err != nil {
		return fmt.Errorf("decode %s: %w", target.Path, err)
	}
	return nil
}

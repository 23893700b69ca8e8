package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/c7d5a6/goliath/internal/telemetry/metrics"
	"github.com/c7d5a6/goliath/internal/telemetry/tracing"

	"github.com/cespare/xxhash/v2"
	"github.com/coocood/freecache"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"
)

const (
	DefaultBasePath = "/api"
	RequestIDHeader = "X-Request-Id"

	// MaxCachedBodyBytes is the largest GET body the cache must hold. freecache refuses entries
	// bigger than 1/1024 of its size, so the cache is never smaller than 1024 such bodies.
	MaxCachedBodyBytes = 64 * 1024
	minCacheSizeBytes  = 1024 * MaxCachedBodyBytes
)

// TokenSource yields the bearer token for the next request, or "" when there is none.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

type NewClientParams struct {
	BaseURL  string
	BasePath string
	// HTTPClient defaults to a client with an otel instrumented transport.
	HTTPClient *http.Client
	// Timeout of 0 means no client side timeout.
	Timeout     time.Duration
	TokenSource TokenSource
	// CacheTTL of 0 disables the response cache.
	CacheTTL       time.Duration
	CacheSizeMB    int
	MetricsManager *metrics.Manager
}

// Client is a thin JSON client for the goliath backend.
type Client struct {
	baseURL        string
	httpClient     *http.Client
	tokenSource    TokenSource
	cache          *freecache.Cache
	cacheTTL       time.Duration
	metricsManager *metrics.Manager
}

func NewClient(params NewClientParams) (*Client, error) {
	if params.BaseURL == "" {
		return nil, fmt.Errorf("base url not set")
	}
	basePath := params.BasePath
	if basePath == "" {
		basePath = DefaultBasePath
	}

	httpClient := params.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}
	if params.Timeout > 0 {
		c := *httpClient
		c.Timeout = params.Timeout
		httpClient = &c
	}

	metricsManager := params.MetricsManager
	if metricsManager == nil {
		metricsManager = metrics.NewTestManager()
	}

	client := &Client{
		baseURL:        strings.TrimRight(params.BaseURL, "/") + "/" + strings.Trim(basePath, "/"),
		httpClient:     httpClient,
		tokenSource:    params.TokenSource,
		cacheTTL:       params.CacheTTL,
		metricsManager: metricsManager,
	}

	if params.CacheTTL >= time.Second {
		size := params.CacheSizeMB * 1024 * 1024
		if size < minCacheSizeBytes {
			size = minCacheSizeBytes
		}
		client.cache = freecache.NewCache(size)
	}

	return client, nil
}

type freshKey struct{}

// Fresh marks ctx so reads made with it skip the response cache.
func Fresh(ctx context.Context) context.Context {
	return context.WithValue(ctx, freshKey{}, true)
}

func isFresh(ctx context.Context) bool {
	v, _ := ctx.Value(freshKey{}).(bool)
	return v
}

func (c *Client) Get(ctx context.Context, endpoint string, out any) error {
	return c.do(ctx, http.MethodGet, endpoint, nil, out)
}

func (c *Client) Post(ctx context.Context, endpoint string, body, out any) error {
	return c.do(ctx, http.MethodPost, endpoint, body, out)
}

func (c *Client) Put(ctx context.Context, endpoint string, body, out any) error {
	return c.do(ctx, http.MethodPut, endpoint, body, out)
}

func (c *Client) Delete(ctx context.Context, endpoint string, out any) error {
	return c.do(ctx, http.MethodDelete, endpoint, nil, out)
}

// InvalidateCache drops every cached response.
func (c *Client) InvalidateCache() {
	if c.cache != nil {
		c.cache.Clear()
	}
}

func (c *Client) do(ctx context.Context, method, endpoint string, body, out any) (err error) {
	route := routeOf(endpoint)
	ctx, span := tracing.GlobalTracer.Start(ctx, "api."+strings.ToLower(method))
	defer func() {
		if err != nil {
			tracing.Fail(span, err)
		}
		span.End()
	}()
	span.SetAttributes(
		attribute.String("http.route", route),
		attribute.String("http.method", method),
	)

	token := c.token(ctx)

	var cacheKey []byte
	if method == http.MethodGet && c.cache != nil {
		cacheKey = c.cacheKey(token, endpoint)
		if !isFresh(ctx) {
			if cached, getErr := c.cache.Get(cacheKey); getErr == nil {
				c.metricsManager.CounterCacheHits.Inc()
				span.SetAttributes(attribute.Bool("cache.hit", true))
				return decodeInto(cached, out)
			}
		}
		c.metricsManager.CounterCacheMiss.Inc()
	}

	var reqBody io.Reader
	if body != nil {
		raw, marshalErr := json.Marshal(body)
		if marshalErr != nil {
			return fmt.Errorf("marshal request body: %w", marshalErr)
		}
		reqBody = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, reqBody)
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(RequestIDHeader, uuid.NewString())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	c.metricsManager.GaugeRequestsInFlight.Inc()
	start := time.Now()
	resp, err := c.httpClient.Do(req)
	c.metricsManager.GaugeRequestsInFlight.Dec()
	if err != nil {
		c.metricsManager.CounterRequests.WithLabelValues(method, "network_error").Inc()
		log.Debugf("api %s %s: %s", method, endpoint, err)
		return &NetworkError{Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	status := strconv.Itoa(resp.StatusCode)
	c.metricsManager.CounterRequests.WithLabelValues(method, status).Inc()
	c.metricsManager.HistogramRequestDuration.WithLabelValues(route, method, status).Observe(time.Since(start).Seconds())
	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))
	if err != nil {
		return &NetworkError{Err: fmt.Errorf("read response body: %w", err)}
	}

	log.Tracef("api %s %s -> %d", method, endpoint, resp.StatusCode)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newError(resp.StatusCode, respBody)
	}

	if method == http.MethodGet {
		if cacheKey != nil && len(respBody) > 0 {
			if setErr := c.cache.Set(cacheKey, respBody, int(c.cacheTTL.Seconds())); setErr != nil {
				if errors.Is(setErr, freecache.ErrLargeEntry) {
					log.Warnf("api cache: %s body of %d bytes is too large to cache", endpoint, len(respBody))
				} else {
					log.Errorf("api cache set %s: %s", endpoint, setErr)
				}
			}
		}
	} else {
		c.InvalidateCache()
	}

	return decodeInto(respBody, out)
}

func (c *Client) token(ctx context.Context) string {
	if c.tokenSource == nil {
		return ""
	}
	token, err := c.tokenSource.Token(ctx)
	if err != nil {
		log.Warnf("api: read bearer token: %s", err)
		return ""
	}
	return token
}

// cacheKey scopes cached bodies to the identity that fetched them.
func (c *Client) cacheKey(token, endpoint string) []byte {
	return []byte(strconv.FormatUint(xxhash.Sum64String(token), 16) + "|" + endpoint)
}

func decodeInto(raw []byte, out any) error {
	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func decodeErrorBody(body []byte) (string, bool) {
	var er errorResponse
	if err := json.Unmarshal(body, &er); err != nil || er.Error == "" {
		return "", false
	}
	return er.Error, true
}

var idSegment = regexp.MustCompile(`/\d+`)

// routeOf replaces numeric path segments so metric labels stay bounded.
func routeOf(endpoint string) string {
	if i := strings.IndexByte(endpoint, '?'); i >= 0 {
		endpoint = endpoint[:i]
	}
	return idSegment.ReplaceAllString(endpoint, "/:id")
}

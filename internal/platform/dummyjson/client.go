package dummyjson

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sethvargo/go-retry"
	"github.com/weiwei-tsao/product-dashboard/apps/api/internal/platform/logging"
	"github.com/weiwei-tsao/product-dashboard/apps/api/internal/platform/metrics"
	"github.com/weiwei-tsao/product-dashboard/apps/api/pkg/model"
)

// DefaultBaseURL is the public demo products API.
const DefaultBaseURL = "https://dummyjson.com/products"

// maxErrorBody caps how much of an error response is kept in HTTPStatusError.
const maxErrorBody = 512

// HTTPClient matches net/http.Client Do signature for testability.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Config defines settings for the products API client.
type Config struct {
	BaseURL    string
	Timeout    time.Duration
	MaxRetries int
	Backoff    time.Duration
}

// Client talks to the products REST API with retry on transient failures.
type Client struct {
	baseURL    string
	httpClient HTTPClient
	maxRetries int
	backoff    time.Duration
}

// ListParams selects a page of products.
type ListParams struct {
	Limit  int
	Skip   int
	Select []string
	SortBy string
	Order  string
}

// New creates a products API client.
func New(httpClient HTTPClient, cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}
	base := strings.TrimRight(cfg.BaseURL, "/")
	if base == "" {
		base = DefaultBaseURL
	}
	maxRetries := cfg.MaxRetries
	if maxRetries < 0 {
		maxRetries = 0
	}
	backoff := cfg.Backoff
	if backoff <= 0 {
		backoff = 200 * time.Millisecond
	}
	return &Client{
		baseURL:    base,
		httpClient: httpClient,
		maxRetries: maxRetries,
		backoff:    backoff,
	}
}

// ListProducts fetches one page. Sorting is only requested when both SortBy and Order
// are set.
func (c *Client) ListProducts(ctx context.Context, params ListParams) (model.ProductPage, error) {
	q := url.Values{}
	q.Set("limit", strconv.Itoa(params.Limit))
	q.Set("skip", strconv.Itoa(params.Skip))
	if len(params.Select) > 0 {
		q.Set("select", strings.Join(params.Select, ","))
	}
	if params.SortBy != "" && params.Order != "" {
		q.Set("sortBy", params.SortBy)
		q.Set("order", params.Order)
	}
	return c.getPage(ctx, "list_products", "", q)
}

// SearchProducts runs a full-text search over the catalog.
func (c *Client) SearchProducts(ctx context.Context, query string) (model.ProductPage, error) {
	return c.getPage(ctx, "search_products", "/search", url.Values{"q": {query}})
}

// ProductsByCategory lists every product of a category slug.
func (c *Client) ProductsByCategory(ctx context.Context, slug string) (model.ProductPage, error) {
	return c.getPage(ctx, "products_by_category", "/category/"+url.PathEscape(slug), nil)
}

// GetProduct fetches a single product.
func (c *Client) GetProduct(ctx context.Context, id int) (model.Product, error) {
	var p model.Product
	err := c.do(ctx, "get_product", http.MethodGet, "/"+strconv.Itoa(id), nil, nil, &p)
	return p, err
}

// Categories lists the catalog categories. Plain string entries are accepted too.
func (c *Client) Categories(ctx context.Context) ([]model.Category, error) {
	var raw []json.RawMessage
	if err := c.do(ctx, "categories", http.MethodGet, "/categories", nil, nil, &raw); err != nil {
		return nil, err
	}
	out := make([]model.Category, 0, len(raw))
	for _, r := range raw {
		var cat model.Category
		if err := json.Unmarshal(r, &cat); err == nil {
			out = append(out, cat)
			continue
		}
		var name string
		if err := json.Unmarshal(r, &name); err != nil {
			return nil, &DecodeError{Op: "categories", Err: err}
		}
		out = append(out, model.Category{Slug: name, Name: name})
	}
	return out, nil
}

// AddProduct creates a product. The demo API echoes the product back with a new id
// without persisting it.
func (c *Client) AddProduct(ctx context.Context, input model.ProductInput) (model.Product, error) {
	var p model.Product
	err := c.do(ctx, "add_product", http.MethodPost, "/add", nil, input, &p)
	return p, err
}

// UpdateProduct replaces the editable fields of a product.
func (c *Client) UpdateProduct(ctx context.Context, id int, input model.ProductInput) (model.Product, error) {
	var p model.Product
	err := c.do(ctx, "update_product", http.MethodPut, "/"+strconv.Itoa(id), nil, input, &p)
	return p, err
}

// DeleteProduct deletes a product and returns it with IsDeleted set.
func (c *Client) DeleteProduct(ctx context.Context, id int) (model.Product, error) {
	var p model.Product
	err := c.do(ctx, "delete_product", http.MethodDelete, "/"+strconv.Itoa(id), nil, nil, &p)
	return p, err
}

type pageEnvelope struct {
	Products json.RawMessage `json:"products"`
	Total    int             `json:"total"`
	Skip     int             `json:"skip"`
	Limit    int             `json:"limit"`
}

func (c *Client) getPage(ctx context.Context, op, path string, q url.Values) (model.ProductPage, error) {
	var env pageEnvelope
	if err := c.do(ctx, op, http.MethodGet, path, q, nil, &env); err != nil {
		return model.ProductPage{}, err
	}
	page := model.ProductPage{Skip: env.Skip, Limit: env.Limit, Total: env.Total}
	page.Products = []model.Product{}
	// Anything other than an array yields an empty page. A malformed record inside an
	// array fails the call.
	var records []json.RawMessage
	if err := json.Unmarshal(env.Products, &records); err == nil && len(records) > 0 {
		products := make([]model.Product, len(records))
		for i, r := range records {
			if err := json.Unmarshal(r, &products[i]); err != nil {
				return model.ProductPage{}, &DecodeError{Op: op, Err: fmt.Errorf("product %d: %w", i, err)}
			}
		}
		page.Products = products
	}
	if page.Total == 0 {
		page.Total = len(page.Products)
	}
	return page, nil
}

func (c *Client) do(ctx context.Context, op, method, path string, q url.Values, body, out any) error {
	started := time.Now()
	err := c.doWithRetry(ctx, op, method, path, q, body, out)
	metrics.ObserveUpstream(op, started, err)
	return err
}

func (c *Client) doWithRetry(ctx context.Context, op, method, path string, q url.Values, body, out any) error {
	endpoint := c.baseURL + path
	if len(q) > 0 {
		endpoint += "?" + q.Encode()
	}

	var payload []byte
	if body != nil {
		var err error
		if payload, err = json.Marshal(body); err != nil {
			return fmt.Errorf("%s: encode body: %w", op, err)
		}
	}

	// POST is not idempotent upstream; only a 429 (never processed) is retried.
	idempotent := method != http.MethodPost
	log := logging.FromContext(ctx).With().Str("op", op).Logger()

	backoff := retry.WithMaxRetries(uint64(c.maxRetries), retry.NewExponential(c.backoff))
	attempt := 0
	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		var reqBody io.Reader
		if payload != nil {
			reqBody = bytes.NewReader(payload)
		}
		req, err := http.NewRequestWithContext(ctx, method, endpoint, reqBody)
		if err != nil {
			return fmt.Errorf("%s: build request: %w", op, err)
		}
		req.Header.Set("Accept", "application/json")
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			netErr := &NetworkError{Op: op, Err: err}
			if ctx.Err() != nil || !idempotent {
				return netErr
			}
			log.Warn().Err(err).Int("attempt", attempt).Msg("products api request failed")
			return retry.RetryableError(netErr)
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			excerpt, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
			statusErr := &HTTPStatusError{Op: op, StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(excerpt))}
			if retryableStatus(resp.StatusCode, idempotent) {
				log.Warn().Int("status", resp.StatusCode).Int("attempt", attempt).Msg("products api returned retryable status")
				return retry.RetryableError(statusErr)
			}
			return statusErr
		}

		if out == nil {
			return nil
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return &DecodeError{Op: op, Err: err}
		}
		return nil
	})
}

func retryableStatus(code int, idempotent bool) bool {
	if code == http.StatusTooManyRequests {
		return true
	}
	return idempotent && code >= 500
}

package dashboard

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/weiwei-tsao/product-dashboard/apps/api/internal/business/analytics"
	"github.com/weiwei-tsao/product-dashboard/apps/api/internal/platform/dummyjson"
	"github.com/weiwei-tsao/product-dashboard/apps/api/internal/platform/logging"
	"github.com/weiwei-tsao/product-dashboard/apps/api/internal/platform/metrics"
	"github.com/weiwei-tsao/product-dashboard/apps/api/pkg/model"
)

// ErrNoFormOpen is returned by Submit when the product form is closed.
var ErrNoFormOpen = errors.New("product form is not open")

// ProductSource abstracts the products API reads for testability.
type ProductSource interface {
	ListProducts(ctx context.Context, params dummyjson.ListParams) (model.ProductPage, error)
	SearchProducts(ctx context.Context, query string) (model.ProductPage, error)
}

// ProductSaver persists the product form.
type ProductSaver interface {
	Save(ctx context.Context, editing *model.Product, input model.ProductInput) (model.Product, error)
}

// Controller owns a dashboard State. Every event goes through Reduce; when the
// transition changes what must be loaded, the controller fetches and dispatches the
// outcome. Only the most recent fetch may update the state.
type Controller struct {
	source ProductSource
	saver  ProductSaver

	mu       sync.Mutex
	state    State
	seq      uint64
	inflight context.CancelFunc
	memo     analytics.Memo
}

func NewController(source ProductSource, saver ProductSaver, pageSize int) *Controller {
	if pageSize <= 0 {
		pageSize = 10
	}
	return &Controller{
		source: source,
		saver:  saver,
		state:  NewState(pageSize),
		memo:   analytics.Memo{OnCompute: metrics.ObserveAnalytics},
	}
}

// State returns a snapshot of the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Start performs the initial load.
func (c *Controller) Start(ctx context.Context) error {
	return c.Refresh(ctx)
}

// Dispatch applies e and fetches when the transition requires it. The returned error
// is the fetch error, which is also recorded in the state.
func (c *Controller) Dispatch(ctx context.Context, e Event) error {
	c.mu.Lock()
	prev := c.state
	c.state = Reduce(prev, e)
	refetch := NeedsFetch(prev, c.state)
	c.mu.Unlock()

	if !refetch {
		return nil
	}
	return c.Refresh(ctx)
}

// Refresh reloads products for the current state.
func (c *Controller) Refresh(ctx context.Context) error {
	c.mu.Lock()
	if c.inflight != nil {
		c.inflight()
	}
	fetchCtx, cancel := context.WithCancel(ctx)
	c.inflight = cancel
	c.seq++
	seq := c.seq
	c.state = Reduce(c.state, FetchStarted{})
	req := FetchParams(c.state)
	c.mu.Unlock()
	defer cancel()

	page, err := c.load(fetchCtx, req)

	c.mu.Lock()
	defer c.mu.Unlock()
	if seq != c.seq {
		// superseded by a newer fetch
		return nil
	}
	c.inflight = nil
	if err != nil {
		logging.FromContext(ctx).Error().Err(err).Str("query", req.Query).Int("skip", req.Skip).Msg("error fetching products")
		c.state = Reduce(c.state, FetchFailed{Err: err})
		return err
	}
	c.state = Reduce(c.state, FetchSucceeded{Page: page})
	return nil
}

func (c *Controller) load(ctx context.Context, req Request) (model.ProductPage, error) {
	if req.IsSearch() {
		return c.source.SearchProducts(ctx, req.Query)
	}
	return c.source.ListProducts(ctx, dummyjson.ListParams{
		Limit:  req.Limit,
		Skip:   req.Skip,
		SortBy: req.SortBy,
		Order:  req.Order,
	})
}

// Analytics returns the report for the loaded products. It is recomputed only after
// a fetch has replaced the product list.
func (c *Controller) Analytics() model.AnalyticsReport {
	c.mu.Lock()
	products := c.state.Products
	c.mu.Unlock()
	return c.memo.Report(products)
}

// Submit saves the open form, reloads the list and closes the form. On failure the
// form stays open.
func (c *Controller) Submit(ctx context.Context, input model.ProductInput) (model.Product, error) {
	c.mu.Lock()
	form := c.state.Form
	c.mu.Unlock()
	if !form.Open {
		return model.Product{}, ErrNoFormOpen
	}

	saved, err := c.saver.Save(ctx, form.Editing, input)
	if err != nil {
		logging.FromContext(ctx).Error().Err(err).Msg("error submitting form")
		return model.Product{}, fmt.Errorf("submit product: %w", err)
	}
	if err := c.Refresh(ctx); err != nil {
		logging.FromContext(ctx).Warn().Err(err).Msg("reload after save failed")
	}
	_ = c.Dispatch(ctx, FormClosed{})
	return saved, nil
}

package dashboard

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/weiwei-tsao/product-dashboard/apps/api/internal/platform/dummyjson"
	"github.com/weiwei-tsao/product-dashboard/apps/api/internal/platform/metrics"
	"github.com/weiwei-tsao/product-dashboard/apps/api/pkg/model"
)

type fakeSource struct {
	mu       sync.Mutex
	lists    []dummyjson.ListParams
	searches []string
	page     model.ProductPage
	err      error
}

func (f *fakeSource) ListProducts(ctx context.Context, params dummyjson.ListParams) (model.ProductPage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lists = append(f.lists, params)
	if f.err != nil {
		return model.ProductPage{}, f.err
	}
	// fresh slice per call so each fetch has its own identity
	return model.ProductPage{Products: append([]model.Product(nil), f.page.Products...), Total: f.page.Total}, nil
}

func (f *fakeSource) SearchProducts(ctx context.Context, query string) (model.ProductPage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.searches = append(f.searches, query)
	if f.err != nil {
		return model.ProductPage{}, f.err
	}
	return model.ProductPage{Products: append([]model.Product(nil), f.page.Products...)}, nil
}

type fakeSaver struct {
	editing []*model.Product
	err     error
}

func (f *fakeSaver) Save(ctx context.Context, editing *model.Product, input model.ProductInput) (model.Product, error) {
	f.editing = append(f.editing, editing)
	if f.err != nil {
		return model.Product{}, f.err
	}
	return model.Product{ID: 99, Title: input.Title}, nil
}

func samplePage() model.ProductPage {
	return model.ProductPage{
		Products: []model.Product{
			{ID: 1, Category: "a", Price: 150, Stock: 5},
			{ID: 2, Category: "b", Price: 250, Stock: 3},
			{ID: 3, Category: "a", Price: 50, Stock: 2},
		},
		Total: 30,
	}
}

func TestControllerStartLoadsFirstPage(t *testing.T) {
	src := &fakeSource{page: samplePage()}
	c := NewController(src, &fakeSaver{}, 10)

	require.NoError(t, c.Start(context.Background()))

	st := c.State()
	assert.False(t, st.Loading)
	assert.Len(t, st.Products, 3)
	assert.Equal(t, 30, st.Pagination.Total)
	assert.Equal(t, []dummyjson.ListParams{{Limit: 10}}, src.lists)
}

func TestControllerFetchesOnlyWhenNeeded(t *testing.T) {
	src := &fakeSource{page: samplePage()}
	c := NewController(src, &fakeSaver{}, 10)
	ctx := context.Background()
	require.NoError(t, c.Start(ctx))

	require.NoError(t, c.Dispatch(ctx, ViewChanged{View: ViewAnalytics}))
	require.NoError(t, c.Dispatch(ctx, FormOpened{}))
	assert.Len(t, src.lists, 1)

	require.NoError(t, c.Dispatch(ctx, PageChanged{Skip: 10}))
	require.NoError(t, c.Dispatch(ctx, SortRequested{Field: "price"}))
	require.NoError(t, c.Dispatch(ctx, SortRequested{Field: "price"}))
	assert.Equal(t, []dummyjson.ListParams{
		{Limit: 10},
		{Limit: 10, Skip: 10},
		{Limit: 10, Skip: 10, SortBy: "price", Order: "asc"},
		{Limit: 10, Skip: 10, SortBy: "price", Order: "desc"},
	}, src.lists)

	require.NoError(t, c.Dispatch(ctx, SearchSubmitted{Query: "phone"}))
	assert.Equal(t, []string{"phone"}, src.searches)
	assert.Equal(t, 0, c.State().Pagination.Skip)
}

func TestControllerFetchFailureClearsProducts(t *testing.T) {
	src := &fakeSource{page: samplePage()}
	c := NewController(src, &fakeSaver{}, 10)
	ctx := context.Background()
	require.NoError(t, c.Start(ctx))

	boom := errors.New("upstream down")
	src.err = boom
	err := c.Dispatch(ctx, PageChanged{Skip: 10})
	assert.ErrorIs(t, err, boom)

	st := c.State()
	assert.Empty(t, st.Products)
	assert.False(t, st.Loading)
	assert.ErrorIs(t, st.Err, boom)
}

func TestControllerAnalyticsFollowsLoadedProducts(t *testing.T) {
	src := &fakeSource{page: samplePage()}
	c := NewController(src, &fakeSaver{}, 10)
	ctx := context.Background()
	require.NoError(t, c.Start(ctx))
	runs := testutil.ToFloat64(metrics.AnalyticsRuns)

	report := c.Analytics()
	assert.Equal(t, 3, report.Summary.TotalProducts)
	assert.Equal(t, model.Rounded(150), report.Summary.AvgPrice)

	again := c.Analytics()
	assert.Same(t, &report.CategoryCounts[0], &again.CategoryCounts[0], "unchanged list reuses the report")

	src.page = model.ProductPage{Products: []model.Product{{Category: "z", Price: 10, Stock: 1}}}
	require.NoError(t, c.Dispatch(ctx, PageChanged{Skip: 10}))
	fresh := c.Analytics()
	assert.Equal(t, []model.CategoryCount{{Name: "z", Value: 1}}, fresh.CategoryCounts)
	assert.Equal(t, runs+2, testutil.ToFloat64(metrics.AnalyticsRuns), "one run per recomputation")
}

func TestControllerSubmit(t *testing.T) {
	src := &fakeSource{page: samplePage()}
	saver := &fakeSaver{}
	c := NewController(src, saver, 10)
	ctx := context.Background()
	require.NoError(t, c.Start(ctx))

	_, err := c.Submit(ctx, model.ProductInput{Title: "x"})
	assert.ErrorIs(t, err, ErrNoFormOpen)

	editing := c.State().Products[0]
	require.NoError(t, c.Dispatch(ctx, FormOpened{Editing: &editing}))
	saved, err := c.Submit(ctx, model.InputFromProduct(editing))
	require.NoError(t, err)
	assert.Equal(t, 99, saved.ID)
	require.Len(t, saver.editing, 1)
	assert.Equal(t, 1, saver.editing[0].ID)
	assert.False(t, c.State().Form.Open)
	assert.Len(t, src.lists, 2, "list reloaded after save")
}

func TestControllerSubmitFailureKeepsForm(t *testing.T) {
	src := &fakeSource{page: samplePage()}
	saver := &fakeSaver{err: errors.New("rejected")}
	c := NewController(src, saver, 10)
	ctx := context.Background()
	require.NoError(t, c.Start(ctx))
	require.NoError(t, c.Dispatch(ctx, FormOpened{}))

	_, err := c.Submit(ctx, model.ProductInput{Title: "x"})
	require.Error(t, err)
	assert.True(t, c.State().Form.Open)
	assert.Nil(t, saver.editing[0])
}

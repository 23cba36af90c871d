package analytics

import (
	"math"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/weiwei-tsao/product-dashboard/apps/api/pkg/model"
)

func p(category string, price float64, stock int) model.Product {
	return model.Product{Category: category, Price: price, Stock: stock}
}

func TestAggregateMixedCategories(t *testing.T) {
	products := []model.Product{
		p("a", 150, 5),
		p("b", 250, 3),
		p("a", 50, 2),
	}

	got := Aggregate(products)

	assert.Equal(t, []model.CategoryCount{{Name: "a", Value: 2}, {Name: "b", Value: 1}}, got.CategoryCounts)
	assert.Equal(t, []model.PriceBucket{
		{Range: "$0-99", Count: 1},
		{Range: "$100-199", Count: 1},
		{Range: "$200-299", Count: 1},
	}, got.PriceBuckets)
	assert.Equal(t, []model.CategoryAverage{
		{Category: "b", AvgPrice: 250},
		{Category: "a", AvgPrice: 100},
	}, got.CategoryAverages)
	assert.Equal(t, model.SummaryScalars{
		TotalProducts:      3,
		DistinctCategories: 2,
		AvgPrice:           150,
		TotalStock:         10,
	}, got.Summary)
}

func TestAggregateEmpty(t *testing.T) {
	got := Aggregate(nil)

	assert.Empty(t, got.CategoryCounts)
	assert.Empty(t, got.PriceBuckets)
	assert.Empty(t, got.CategoryAverages)
	assert.Equal(t, 0, got.Summary.TotalProducts)
	assert.Equal(t, 0, got.Summary.DistinctCategories)
	assert.Equal(t, 0, got.Summary.TotalStock)
	assert.True(t, got.Summary.AvgPrice.Undefined(), "avgPrice should be NaN, got %v", got.Summary.AvgPrice)

	_, ok := got.Summary.AvgPrice.Int()
	assert.False(t, ok)
}

func TestAggregateSingleRecord(t *testing.T) {
	got := Aggregate([]model.Product{p("x", 999, 1)})

	assert.Equal(t, []model.CategoryAverage{{Category: "x", AvgPrice: 999}}, got.CategoryAverages)
	assert.Equal(t, []model.PriceBucket{{Range: "$900-999", Count: 1}}, got.PriceBuckets)
}

func TestPriceBucketsStringOrder(t *testing.T) {
	got := PriceBuckets([]model.Product{p("a", 150, 1), p("a", 1050, 1)})

	ranges := make([]string, 0, len(got))
	for _, b := range got {
		ranges = append(ranges, b.Range)
	}
	// String ordering, not numeric: the wider label sorts first.
	assert.Equal(t, []string{"$1000-1099", "$100-199"}, ranges)
}

func TestPriceBucketsBeforeSmallerNumbers(t *testing.T) {
	got := PriceBuckets([]model.Product{p("a", 250, 1), p("a", 1099, 1), p("a", 1000, 1)})

	require.Len(t, got, 2)
	assert.Equal(t, model.PriceBucket{Range: "$1000-1099", Count: 2}, got[0])
	assert.Equal(t, model.PriceBucket{Range: "$200-299", Count: 1}, got[1])
}

func TestBucketLabel(t *testing.T) {
	cases := []struct {
		price float64
		want  string
	}{
		{0, "$0-99"},
		{99.99, "$0-99"},
		{100, "$100-199"},
		{1549.5, "$1500-1599"},
		{-50, "$-100--1"},
		{math.Copysign(0, -1), "$0-99"},
		{math.NaN(), "$NaN-NaN"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, BucketLabel(tc.price), "price %v", tc.price)
	}
}

func TestCategoryAveragesStableTies(t *testing.T) {
	tests := []struct {
		name     string
		products []model.Product
		want     []string
	}{
		{
			name:     "first seen wins",
			products: []model.Product{p("c1", 100, 1), p("c2", 200, 1), p("c1", 300, 1), p("c3", 50, 1)},
			want:     []string{"c1", "c2", "c3"},
		},
		{
			name:     "reversed insertion",
			products: []model.Product{p("c2", 200, 1), p("c1", 100, 1), p("c1", 300, 1), p("c3", 50, 1)},
			want:     []string{"c2", "c1", "c3"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CategoryAverages(tt.products)
			names := make([]string, 0, len(got))
			for _, a := range got {
				names = append(names, a.Category)
			}
			assert.Equal(t, tt.want, names)
			assert.Equal(t, model.Rounded(200), got[0].AvgPrice)
			assert.Equal(t, model.Rounded(200), got[1].AvgPrice)
		})
	}
}

func TestCategoryAveragesRounding(t *testing.T) {
	got := CategoryAverages([]model.Product{p("a", 10, 1), p("a", 11, 1), p("b", -10, 1), p("b", -11, 1)})

	require.Len(t, got, 2)
	// 10.5 rounds up, -10.5 rounds toward +Inf.
	assert.Equal(t, model.CategoryAverage{Category: "a", AvgPrice: 11}, got[0])
	assert.Equal(t, model.CategoryAverage{Category: "b", AvgPrice: -10}, got[1])
}

func TestNonNumericPricePropagatesNaN(t *testing.T) {
	got := Aggregate([]model.Product{p("a", math.NaN(), 1), p("b", 20, 2)})

	assert.True(t, got.Summary.AvgPrice.Undefined())
	assert.Equal(t, 3, got.Summary.TotalStock)
	for _, a := range got.CategoryAverages {
		if a.Category == "a" {
			assert.True(t, a.AvgPrice.Undefined())
		} else {
			assert.Equal(t, model.Rounded(20), a.AvgPrice)
		}
	}
}

func TestAggregateDoesNotMutateInput(t *testing.T) {
	products := []model.Product{p("b", 300, 1), p("a", 100, 1), p("b", 1200, 1)}
	snapshot := append([]model.Product(nil), products...)

	Aggregate(products)

	assert.Equal(t, snapshot, products)
}

func TestAggregateProperties(t *testing.T) {
	products := []model.Product{
		p("phones", 549, 10), p("laptops", 1899, 4), p("phones", 799, 7),
		p("groceries", 3, 120), p("laptops", 1249, 2), p("beauty", 14, 40),
		p("groceries", 9, 60), p("fragrances", 89, 8), p("beauty", 20, 5),
		p("furniture", 2499, 1), p("furniture", 299, 3), p("phones", 1299, 0),
	}

	first := Aggregate(products)
	second := Aggregate(append([]model.Product(nil), products...))
	assert.Equal(t, first, second, "aggregation should be idempotent")

	var categoryTotal, bucketTotal int
	for _, c := range first.CategoryCounts {
		categoryTotal += c.Value
	}
	for _, b := range first.PriceBuckets {
		bucketTotal += b.Count
	}
	assert.Equal(t, first.Summary.TotalProducts, categoryTotal)
	assert.Equal(t, first.Summary.TotalProducts, bucketTotal)
	assert.Equal(t, len(first.CategoryCounts), first.Summary.DistinctCategories)

	bounds := map[string][2]float64{}
	for _, pr := range products {
		b, ok := bounds[pr.Category]
		if !ok {
			b = [2]float64{pr.Price, pr.Price}
		}
		b[0] = math.Min(b[0], pr.Price)
		b[1] = math.Max(b[1], pr.Price)
		bounds[pr.Category] = b
	}
	for _, a := range first.CategoryAverages {
		b := bounds[a.Category]
		assert.GreaterOrEqual(t, float64(a.AvgPrice), b[0], a.Category)
		assert.LessOrEqual(t, float64(a.AvgPrice), b[1], a.Category)
	}

	assert.True(t, sort.SliceIsSorted(first.CategoryAverages, func(i, j int) bool {
		return first.CategoryAverages[i].AvgPrice > first.CategoryAverages[j].AvgPrice
	}))
	for i := 1; i < len(first.PriceBuckets); i++ {
		assert.LessOrEqual(t, compareRangeLabels(first.PriceBuckets[i-1].Range, first.PriceBuckets[i].Range), 0)
	}
}

func TestSummarizeMatchesAggregate(t *testing.T) {
	products := []model.Product{p("a", 1, 1), p("b", 2, 2), p("a", 3, 3)}
	assert.Equal(t, Aggregate(products).Summary, Summarize(products))
}

// Package analytics turns a loaded product list into the dashboard summaries: category
// distribution, price histogram, average price per category and the summary cards.
//
// Every function here is pure. Inputs are never mutated and each call returns freshly
// allocated output, so reports may be computed concurrently on different inputs.
package analytics

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/samber/lo"
	"github.com/weiwei-tsao/product-dashboard/apps/api/pkg/model"
)

// BucketWidth is the width of a price histogram bucket.
const BucketWidth = 100

// Aggregate reduces products into every dashboard summary.
func Aggregate(products []model.Product) model.AnalyticsReport {
	counts := CategoryCounts(products)
	return model.AnalyticsReport{
		CategoryCounts:   counts,
		PriceBuckets:     PriceBuckets(products),
		CategoryAverages: CategoryAverages(products),
		Summary:          summarize(products, len(counts)),
	}
}

// CategoryCounts counts products per category, in order of first appearance.
func CategoryCounts(products []model.Product) []model.CategoryCount {
	tally := newOrderedTally()
	for _, p := range products {
		tally.add(p.Category)
	}
	out := make([]model.CategoryCount, 0, len(tally.keys))
	for _, k := range tally.keys {
		out = append(out, model.CategoryCount{Name: k, Value: tally.counts[k]})
	}
	return out
}

// PriceBuckets histograms products into $100 ranges labelled "$<floor>-<floor+99>".
// Labels are ordered as strings, so "$1000-1099" comes before "$200-299".
func PriceBuckets(products []model.Product) []model.PriceBucket {
	tally := newOrderedTally()
	for _, p := range products {
		tally.add(BucketLabel(p.Price))
	}
	out := make([]model.PriceBucket, 0, len(tally.keys))
	for _, k := range tally.keys {
		out = append(out, model.PriceBucket{Range: k, Count: tally.counts[k]})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return compareRangeLabels(out[i].Range, out[j].Range) < 0
	})
	return out
}

// CategoryAverages returns the rounded mean price per category, highest first.
// Categories with equal averages keep their first-appearance order.
func CategoryAverages(products []model.Product) []model.CategoryAverage {
	type acc struct {
		total float64
		count int
	}
	var order []string
	sums := make(map[string]*acc)
	for _, p := range products {
		a, ok := sums[p.Category]
		if !ok {
			a = &acc{}
			sums[p.Category] = a
			order = append(order, p.Category)
		}
		a.total += p.Price
		a.count++
	}

	out := make([]model.CategoryAverage, 0, len(order))
	for _, c := range order {
		a := sums[c]
		out = append(out, model.CategoryAverage{
			Category: c,
			AvgPrice: model.Rounded(roundHalfUp(a.total / float64(a.count))),
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].AvgPrice > out[j].AvgPrice
	})
	return out
}

// Summarize computes the four summary scalars. AvgPrice is undefined (NaN) for an
// empty list.
func Summarize(products []model.Product) model.SummaryScalars {
	distinct := len(lo.Uniq(lo.Map(products, func(p model.Product, _ int) string { return p.Category })))
	return summarize(products, distinct)
}

func summarize(products []model.Product, distinct int) model.SummaryScalars {
	priceSum := lo.SumBy(products, func(p model.Product) float64 { return p.Price })
	return model.SummaryScalars{
		TotalProducts:      len(products),
		DistinctCategories: distinct,
		// 0/0 yields NaN for an empty list.
		AvgPrice:   model.Rounded(roundHalfUp(priceSum / float64(len(products)))),
		TotalStock: lo.SumBy(products, func(p model.Product) int { return p.Stock }),
	}
}

// BucketLabel returns the histogram label of the $100 range containing price.
func BucketLabel(price float64) string {
	floor := math.Floor(price/BucketWidth) * BucketWidth
	return "$" + formatNumber(floor) + "-" + formatNumber(floor+BucketWidth-1)
}

func formatNumber(v float64) string {
	if v == 0 {
		// collapse negative zero
		v = 0
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// roundHalfUp rounds to the nearest integer with halves going toward +Inf.
// NaN and infinities pass through.
func roundHalfUp(x float64) float64 {
	r := math.Floor(x)
	if x-r >= 0.5 {
		r++
	}
	return r
}

// compareRangeLabels orders bucket labels with the '-' separators ignored, falling back
// to a plain byte comparison on ties. "$1000-1099" therefore sorts before "$100-199".
func compareRangeLabels(a, b string) int {
	if c := strings.Compare(stripSeparators(a), stripSeparators(b)); c != 0 {
		return c
	}
	return strings.Compare(a, b)
}

func stripSeparators(s string) string {
	return strings.ReplaceAll(s, "-", "")
}

// orderedTally counts string keys and remembers first-seen order.
type orderedTally struct {
	keys   []string
	counts map[string]int
}

func newOrderedTally() *orderedTally {
	return &orderedTally{counts: make(map[string]int)}
}

func (t *orderedTally) add(key string) {
	if _, ok := t.counts[key]; !ok {
		t.keys = append(t.keys, key)
	}
	t.counts[key]++
}

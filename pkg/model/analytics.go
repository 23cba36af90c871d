package model

import (
	"math"
	"strconv"
)

// Rounded is a whole-number average. NaN marks an undefined average (empty input or
// non-numeric prices) and is encoded as JSON null.
type Rounded float64

// Undefined reports whether the average could not be computed.
func (r Rounded) Undefined() bool {
	f := float64(r)
	return math.IsNaN(f) || math.IsInf(f, 0)
}

// Int returns the value and whether it is defined.
func (r Rounded) Int() (int64, bool) {
	if r.Undefined() {
		return 0, false
	}
	return int64(r), true
}

func (r Rounded) MarshalJSON() ([]byte, error) {
	if r.Undefined() {
		return []byte("null"), nil
	}
	return []byte(strconv.FormatFloat(float64(r), 'f', -1, 64)), nil
}

func (r *Rounded) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*r = Rounded(math.NaN())
		return nil
	}
	f, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		return err
	}
	*r = Rounded(f)
	return nil
}

// CategoryCount is one slice of the category distribution.
type CategoryCount struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

// PriceBucket counts records within a $100 wide price range.
type PriceBucket struct {
	Range string `json:"range"`
	Count int    `json:"count"`
}

// CategoryAverage is the rounded mean price of one category.
type CategoryAverage struct {
	Category string  `json:"category"`
	AvgPrice Rounded `json:"avgPrice"`
}

// SummaryScalars feeds the summary cards of the analytics view.
type SummaryScalars struct {
	TotalProducts      int     `json:"totalProducts"`
	DistinctCategories int     `json:"distinctCategories"`
	AvgPrice           Rounded `json:"avgPrice"`
	TotalStock         int     `json:"totalStock"`
}

// AnalyticsReport bundles every summary derived from one product list.
type AnalyticsReport struct {
	CategoryCounts   []CategoryCount   `json:"categoryCounts"`
	PriceBuckets     []PriceBucket     `json:"priceBuckets"`
	CategoryAverages []CategoryAverage `json:"categoryAverages"`
	Summary          SummaryScalars    `json:"summary"`
}

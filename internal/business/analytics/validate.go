package analytics

import (
	"fmt"
	"math"

	"github.com/weiwei-tsao/product-dashboard/apps/api/pkg/model"
)

// InvalidRecordError reports the first record that cannot take part in numeric
// aggregation. It is only produced by Validate; Aggregate itself lets NaN propagate.
type InvalidRecordError struct {
	Index  int    `json:"index"`
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

func (e *InvalidRecordError) Error() string {
	return fmt.Sprintf("record %d: %s %s", e.Index, e.Field, e.Reason)
}

// Validate checks that every record carries a finite price and a non-negative stock.
func Validate(products []model.Product) error {
	for i, p := range products {
		if math.IsNaN(p.Price) || math.IsInf(p.Price, 0) {
			return &InvalidRecordError{Index: i, Field: "price", Reason: "must be a finite number"}
		}
		if p.Stock < 0 {
			return &InvalidRecordError{Index: i, Field: "stock", Reason: "must not be negative"}
		}
	}
	return nil
}

// AggregateStrict validates products before aggregating them.
func AggregateStrict(products []model.Product) (model.AnalyticsReport, error) {
	if err := Validate(products); err != nil {
		return model.AnalyticsReport{}, err
	}
	return Aggregate(products), nil
}

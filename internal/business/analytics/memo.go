package analytics

import (
	"sync"
	"unsafe"

	"github.com/weiwei-tsao/product-dashboard/apps/api/pkg/model"
)

// Memo caches the report of the last product slice it saw. A new report is computed
// only when the slice identity (backing array and length) changes, not its contents.
// OnCompute, when set, is called with the record count after each recomputation.
type Memo struct {
	OnCompute func(records int)

	mu     sync.Mutex
	data   *model.Product
	length int
	valid  bool
	report model.AnalyticsReport
}

// Report returns the report for products, recomputing it when products is a different
// slice from the previous call.
func (m *Memo) Report(products []model.Product) model.AnalyticsReport {
	m.mu.Lock()
	defer m.mu.Unlock()

	data := unsafe.SliceData(products)
	if m.valid && m.data == data && m.length == len(products) {
		return m.report
	}
	m.report = Aggregate(products)
	m.data = data
	m.length = len(products)
	m.valid = true
	if m.OnCompute != nil {
		m.OnCompute(len(products))
	}
	return m.report
}

// Package dashboard holds the dashboard UI state as one value, a pure reducer for every
// UI event, and a controller that performs the product fetch each transition calls for.
package dashboard

import (
	"github.com/weiwei-tsao/product-dashboard/apps/api/pkg/model"
)

// View is the screen currently shown.
type View string

const (
	ViewProducts  View = "products"
	ViewAnalytics View = "analytics"
)

// SortDirection is the order requested from the products API.
type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// SortConfig is the active sort column.
type SortConfig struct {
	Field     string
	Direction SortDirection
}

// Pagination tracks the loaded page window.
type Pagination struct {
	Limit int
	Skip  int
	Total int
}

// Page returns the 1-based page number and the page count.
func (p Pagination) Page() (current, pages int) {
	if p.Limit <= 0 {
		return 1, 1
	}
	current = p.Skip/p.Limit + 1
	pages = (p.Total + p.Limit - 1) / p.Limit
	if pages < 1 {
		pages = 1
	}
	return current, pages
}

// FormState is the product form drawer. Editing is nil when adding a new product.
type FormState struct {
	Open    bool
	Editing *model.Product
}

// State is everything the dashboard renders from.
type State struct {
	View        View
	Products    []model.Product
	Pagination  Pagination
	SearchQuery string
	Sort        *SortConfig
	Form        FormState
	Loading     bool
	Err         error
}

// NewState returns the state of a freshly mounted dashboard.
func NewState(pageSize int) State {
	return State{
		View:       ViewProducts,
		Products:   []model.Product{},
		Pagination: Pagination{Limit: pageSize},
		Loading:    true,
	}
}

// Event is a UI or fetch transition.
type Event interface{ event() }

type (
	// ViewChanged switches between the product list and analytics.
	ViewChanged struct{ View View }
	// PageChanged moves the page window.
	PageChanged struct{ Skip int }
	// SortRequested is a click on a column header: a second click on the same
	// ascending column flips it to descending.
	SortRequested struct{ Field string }
	// SortChanged sets the sort explicitly.
	SortChanged struct {
		Field     string
		Direction SortDirection
	}
	// SearchSubmitted runs a search and returns to the first page.
	SearchSubmitted struct{ Query string }
	// FormOpened opens the product form, pre-filled when Editing is set.
	FormOpened     struct{ Editing *model.Product }
	FormClosed     struct{}
	FetchStarted   struct{}
	FetchSucceeded struct{ Page model.ProductPage }
	// FetchFailed clears the loaded products.
	FetchFailed struct{ Err error }
)

func (ViewChanged) event()     {}
func (PageChanged) event()     {}
func (SortRequested) event()   {}
func (SortChanged) event()     {}
func (SearchSubmitted) event() {}
func (FormOpened) event()      {}
func (FormClosed) event()      {}
func (FetchStarted) event()    {}
func (FetchSucceeded) event()  {}
func (FetchFailed) event()     {}

// Reduce returns the state after e. It never mutates s.
func Reduce(s State, e Event) State {
	switch ev := e.(type) {
	case ViewChanged:
		s.View = ev.View
	case PageChanged:
		s.Pagination.Skip = max(ev.Skip, 0)
	case SortRequested:
		dir := SortAsc
		if s.Sort != nil && s.Sort.Field == ev.Field && s.Sort.Direction == SortAsc {
			dir = SortDesc
		}
		s.Sort = &SortConfig{Field: ev.Field, Direction: dir}
	case SortChanged:
		s.Sort = &SortConfig{Field: ev.Field, Direction: ev.Direction}
	case SearchSubmitted:
		s.SearchQuery = ev.Query
		s.Pagination.Skip = 0
	case FormOpened:
		s.Form = FormState{Open: true, Editing: ev.Editing}
	case FormClosed:
		s.Form = FormState{}
	case FetchStarted:
		s.Loading = true
	case FetchSucceeded:
		products := ev.Page.Products
		if products == nil {
			products = []model.Product{}
		}
		s.Products = products
		s.Pagination.Total = ev.Page.Total
		if s.Pagination.Total == 0 {
			s.Pagination.Total = len(products)
		}
		s.Loading = false
		s.Err = nil
	case FetchFailed:
		s.Products = []model.Product{}
		s.Loading = false
		s.Err = ev.Err
	}
	return s
}

// Request is what the products API should be asked for.
type Request struct {
	Query  string
	Limit  int
	Skip   int
	SortBy string
	Order  string
}

// IsSearch reports whether the request is a search rather than a page listing.
func (r Request) IsSearch() bool { return r.Query != "" }

// FetchParams derives the products request from s. A search query takes precedence
// over paging and sorting.
func FetchParams(s State) Request {
	if s.SearchQuery != "" {
		return Request{Query: s.SearchQuery}
	}
	r := Request{Limit: s.Pagination.Limit, Skip: s.Pagination.Skip}
	if s.Sort != nil {
		r.SortBy = s.Sort.Field
		r.Order = string(s.Sort.Direction)
	}
	return r
}

// NeedsFetch reports whether moving from prev to next changes what must be loaded.
func NeedsFetch(prev, next State) bool {
	return prev.Pagination.Skip != next.Pagination.Skip ||
		prev.SearchQuery != next.SearchQuery ||
		!sameSort(prev.Sort, next.Sort)
}

func sameSort(a, b *SortConfig) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

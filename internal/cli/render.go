package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/rodaine/table"
	"github.com/weiwei-tsao/product-dashboard/apps/api/internal/business/dashboard"
	"github.com/weiwei-tsao/product-dashboard/apps/api/pkg/model"
	"github.com/weiwei-tsao/product-dashboard/apps/api/pkg/util"
)

const titleWidth = 40

func renderProducts(w io.Writer, products []model.Product) {
	if len(products) == 0 {
		fmt.Fprintln(w, "No products found.")
		return
	}
	tbl := table.New("ID", "Product", "Brand", "Category", "Price", "Stock").WithWriter(w)
	for _, p := range products {
		tbl.AddRow(p.ID, util.Truncate(p.Title, titleWidth), p.Brand, p.Category, util.FormatCurrency(p.Price), p.Stock)
	}
	tbl.Print()
}

func renderPagination(w io.Writer, p dashboard.Pagination, shown int) {
	if shown == 0 {
		return
	}
	current, pages := p.Page()
	fmt.Fprintf(w, "Showing %d-%d of %d (page %d of %d)\n", p.Skip+1, p.Skip+shown, p.Total, current, pages)
}

func renderCategories(w io.Writer, cats []model.Category) {
	tbl := table.New("Slug", "Name").WithWriter(w)
	for _, c := range cats {
		tbl.AddRow(c.Slug, c.Name)
	}
	tbl.Print()
}

func renderReport(w io.Writer, r model.AnalyticsReport) {
	fmt.Fprintln(w, "Category Distribution")
	dist := table.New("Category", "Products", "Share").WithWriter(w)
	for _, c := range r.CategoryCounts {
		dist.AddRow(c.Name, c.Value, share(c.Value, r.Summary.TotalProducts))
	}
	dist.Print()

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Price Range Distribution")
	buckets := table.New("Range", "Products").WithWriter(w)
	for _, b := range r.PriceBuckets {
		buckets.AddRow(b.Range, b.Count)
	}
	buckets.Print()

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Average Price by Category")
	avgs := table.New("Category", "Avg Price").WithWriter(w)
	for _, a := range r.CategoryAverages {
		avgs.AddRow(a.Category, dollars(a.AvgPrice))
	}
	avgs.Print()

	fmt.Fprintln(w)
	summary := table.New("Total Products", "Categories", "Avg Price", "Total Stock").WithWriter(w)
	summary.AddRow(r.Summary.TotalProducts, r.Summary.DistinctCategories, dollars(r.Summary.AvgPrice), r.Summary.TotalStock)
	summary.Print()
}

func share(n, total int) string {
	if total == 0 {
		return "0%"
	}
	return fmt.Sprintf("%.0f%%", float64(n)*100/float64(total))
}

func dollars(r model.Rounded) string {
	v, ok := r.Int()
	if !ok {
		return "n/a"
	}
	return "$" + strconv.FormatInt(v, 10)
}

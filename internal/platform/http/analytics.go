package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/weiwei-tsao/product-dashboard/apps/api/internal/business/analytics"
	"github.com/weiwei-tsao/product-dashboard/apps/api/internal/platform/metrics"
	"github.com/weiwei-tsao/product-dashboard/apps/api/pkg/model"
)

type analyticsReq struct {
	Products []model.Product `json:"products"`
}

// pageAnalytics loads the same page the product list would show and summarizes it.
func (r *Router) pageAnalytics(c *gin.Context) {
	page, err := r.fetchPage(c)
	if err != nil {
		writeError(c, err)
		return
	}
	r.respondReport(c, page.Products)
}

// pageSummary returns only the summary cards for the page.
func (r *Router) pageSummary(c *gin.Context) {
	page, err := r.fetchPage(c)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, analytics.Summarize(page.Products))
}

func (r *Router) postedAnalytics(c *gin.Context) {
	var req analyticsReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}
	r.respondReport(c, req.Products)
}

func (r *Router) respondReport(c *gin.Context, products []model.Product) {
	var report model.AnalyticsReport
	if r.opts.AnalyticsStrict {
		var err error
		report, err = analytics.AggregateStrict(products)
		var invalid *analytics.InvalidRecordError
		if errors.As(err, &invalid) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": invalid.Error(), "record": invalid})
			return
		}
	} else {
		report = analytics.Aggregate(products)
	}
	metrics.ObserveAnalytics(len(products))
	c.JSON(http.StatusOK, report)
}

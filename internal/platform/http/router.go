package http

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/weiwei-tsao/product-dashboard/apps/api/internal/business/catalog"
	"github.com/weiwei-tsao/product-dashboard/apps/api/internal/platform/dummyjson"
	"github.com/weiwei-tsao/product-dashboard/apps/api/internal/platform/logging"
	"github.com/weiwei-tsao/product-dashboard/apps/api/pkg/model"
)

// ProductReader abstracts the products API reads for testability.
type ProductReader interface {
	ListProducts(ctx context.Context, params dummyjson.ListParams) (model.ProductPage, error)
	SearchProducts(ctx context.Context, query string) (model.ProductPage, error)
	ProductsByCategory(ctx context.Context, slug string) (model.ProductPage, error)
	GetProduct(ctx context.Context, id int) (model.Product, error)
	Categories(ctx context.Context) ([]model.Category, error)
}

// Options tunes handler behavior.
type Options struct {
	AllowedOrigins  string
	PageSize        int
	AnalyticsStrict bool
}

// Router wires HTTP handlers.
type Router struct {
	products ProductReader
	catalog  *catalog.Service
	opts     Options
}

func NewRouter(products ProductReader, catalogSvc *catalog.Service, opts Options) *gin.Engine {
	if opts.PageSize <= 0 {
		opts.PageSize = 10
	}
	r := &Router{
		products: products,
		catalog:  catalogSvc,
		opts:     opts,
	}

	router := gin.New()
	router.Use(requestLogger(), gin.Recovery(), r.corsMiddleware())

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api")
	{
		api.GET("/products", r.listProducts)
		api.POST("/products", r.createProduct)
		api.GET("/products/:id", r.getProduct)
		api.PUT("/products/:id", r.updateProduct)
		api.DELETE("/products/:id", r.deleteProduct)

		api.GET("/categories", r.listCategories)
		api.GET("/categories/:slug/products", r.listCategoryProducts)

		api.GET("/analytics", r.pageAnalytics)
		api.GET("/analytics/summary", r.pageSummary)
		api.POST("/analytics", r.postedAnalytics)
	}

	return router
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		l := logging.L().With().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Logger()
		c.Request = c.Request.WithContext(logging.WithLogger(c.Request.Context(), l))

		c.Next()

		evt := l.Info()
		if c.Writer.Status() >= http.StatusInternalServerError {
			evt = l.Error()
		}
		evt.Int("status", c.Writer.Status()).
			Dur("latency", time.Since(start)).
			Msg("request")
	}
}

func (r *Router) corsMiddleware() gin.HandlerFunc {
	origins := strings.Split(r.opts.AllowedOrigins, ",")
	trimmed := make([]string, 0, len(origins))
	for _, o := range origins {
		if t := strings.TrimSpace(o); t != "" {
			trimmed = append(trimmed, t)
		}
	}
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		allowed := ""
		if len(trimmed) == 0 {
			allowed = "*"
		}
		for _, o := range trimmed {
			if o == "*" || (origin != "" && o == origin) {
				allowed = o
				break
			}
		}
		if allowed != "" {
			c.Header("Access-Control-Allow-Origin", allowed)
			c.Header("Vary", "Origin")
		}
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		if c.Request.Method == http.MethodOptions {
			c.Status(http.StatusNoContent)
			c.Abort()
			return
		}
		c.Next()
	}
}

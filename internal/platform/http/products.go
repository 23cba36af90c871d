package http

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/weiwei-tsao/product-dashboard/apps/api/internal/business/catalog"
	"github.com/weiwei-tsao/product-dashboard/apps/api/internal/platform/dummyjson"
	"github.com/weiwei-tsao/product-dashboard/apps/api/internal/platform/logging"
	"github.com/weiwei-tsao/product-dashboard/apps/api/pkg/model"
)

var errBadRequest = errors.New("bad request")

// pageQuery reads limit/skip/sortBy/order/q from the query string.
func (r *Router) pageQuery(c *gin.Context) (query string, params dummyjson.ListParams, err error) {
	params.Limit, err = intQuery(c, "limit", r.opts.PageSize)
	if err != nil {
		return "", params, err
	}
	params.Skip, err = intQuery(c, "skip", 0)
	if err != nil {
		return "", params, err
	}
	if params.Limit < 0 || params.Skip < 0 {
		return "", params, fmt.Errorf("%w: limit and skip must not be negative", errBadRequest)
	}
	params.SortBy = c.Query("sortBy")
	params.Order = c.Query("order")
	switch params.Order {
	case "", "asc", "desc":
	default:
		return "", params, fmt.Errorf("%w: order must be asc or desc", errBadRequest)
	}
	return c.Query("q"), params, nil
}

func (r *Router) fetchPage(c *gin.Context) (model.ProductPage, error) {
	query, params, err := r.pageQuery(c)
	if err != nil {
		return model.ProductPage{}, err
	}
	if query != "" {
		return r.products.SearchProducts(c.Request.Context(), query)
	}
	return r.products.ListProducts(c.Request.Context(), params)
}

func (r *Router) listProducts(c *gin.Context) {
	page, err := r.fetchPage(c)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (r *Router) getProduct(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		writeError(c, err)
		return
	}
	p, err := r.products.GetProduct(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (r *Router) createProduct(c *gin.Context) {
	var input model.ProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}
	p, err := r.catalog.Create(c.Request.Context(), input)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

func (r *Router) updateProduct(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		writeError(c, err)
		return
	}
	var input model.ProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}
	p, err := r.catalog.Update(c.Request.Context(), id, input)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (r *Router) deleteProduct(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		writeError(c, err)
		return
	}
	p, err := r.catalog.Delete(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (r *Router) listCategories(c *gin.Context) {
	cats, err := r.products.Categories(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": cats})
}

func (r *Router) listCategoryProducts(c *gin.Context) {
	page, err := r.products.ProductsByCategory(c.Request.Context(), c.Param("slug"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func intQuery(c *gin.Context, key string, def int) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer", errBadRequest, key)
	}
	return v, nil
}

func idParam(c *gin.Context) (int, error) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: invalid product id %q", errBadRequest, c.Param("id"))
	}
	return id, nil
}

// writeError maps domain and upstream errors onto HTTP statuses.
func writeError(c *gin.Context, err error) {
	var (
		validation catalog.ValidationErrors
		statusErr  *dummyjson.HTTPStatusError
		netErr     *dummyjson.NetworkError
		decodeErr  *dummyjson.DecodeError
	)
	switch {
	case errors.Is(err, errBadRequest):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.As(err, &validation):
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation failed", "fields": validation})
	case errors.Is(err, dummyjson.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.As(err, &statusErr), errors.As(err, &netErr), errors.As(err, &decodeErr):
		logging.FromContext(c.Request.Context()).Error().Err(err).Msg("products api call failed")
		c.JSON(http.StatusBadGateway, gin.H{"error": "products api unavailable"})
	default:
		logging.FromContext(c.Request.Context()).Error().Err(err).Msg("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

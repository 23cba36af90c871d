// Package catalog owns the product write path: form validation followed by the create,
// update or delete call against the products API.
package catalog

import (
	"context"
	"fmt"

	"github.com/weiwei-tsao/product-dashboard/apps/api/internal/platform/logging"
	"github.com/weiwei-tsao/product-dashboard/apps/api/pkg/model"
)

// ProductWriter abstracts the products API write calls for testability.
type ProductWriter interface {
	AddProduct(ctx context.Context, input model.ProductInput) (model.Product, error)
	UpdateProduct(ctx context.Context, id int, input model.ProductInput) (model.Product, error)
	DeleteProduct(ctx context.Context, id int) (model.Product, error)
}

// Service validates and saves products.
type Service struct {
	writer    ProductWriter
	validator *Validator
}

func NewService(writer ProductWriter) *Service {
	return &Service{writer: writer, validator: NewValidator()}
}

// Create validates input and adds a new product.
func (s *Service) Create(ctx context.Context, input model.ProductInput) (model.Product, error) {
	if err := s.validator.Validate(input); err != nil {
		return model.Product{}, err
	}
	p, err := s.writer.AddProduct(ctx, input)
	if err != nil {
		return model.Product{}, fmt.Errorf("add product: %w", err)
	}
	logging.FromContext(ctx).Info().Int("id", p.ID).Str("title", p.Title).Msg("product created")
	return p, nil
}

// Update validates input and replaces the editable fields of product id.
func (s *Service) Update(ctx context.Context, id int, input model.ProductInput) (model.Product, error) {
	if err := s.validator.Validate(input); err != nil {
		return model.Product{}, err
	}
	p, err := s.writer.UpdateProduct(ctx, id, input)
	if err != nil {
		return model.Product{}, fmt.Errorf("update product %d: %w", id, err)
	}
	logging.FromContext(ctx).Info().Int("id", id).Msg("product updated")
	return p, nil
}

// Save creates a product, or updates editing when it is set.
func (s *Service) Save(ctx context.Context, editing *model.Product, input model.ProductInput) (model.Product, error) {
	if editing != nil {
		return s.Update(ctx, editing.ID, input)
	}
	return s.Create(ctx, input)
}

// Delete removes product id.
func (s *Service) Delete(ctx context.Context, id int) (model.Product, error) {
	p, err := s.writer.DeleteProduct(ctx, id)
	if err != nil {
		return model.Product{}, fmt.Errorf("delete product %d: %w", id, err)
	}
	logging.FromContext(ctx).Info().Int("id", id).Msg("product deleted")
	return p, nil
}

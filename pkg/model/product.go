package model

import "time"

// Product mirrors a product record returned by the products API. Only Category, Price
// and Stock feed the analytics; the rest is display data passed through untouched.
type Product struct {
	ID                 int        `json:"id,omitempty"`
	Title              string     `json:"title,omitempty"`
	Description        string     `json:"description,omitempty"`
	Category           string     `json:"category"`
	Price              float64    `json:"price"`
	DiscountPercentage float64    `json:"discountPercentage,omitempty"`
	Rating             float64    `json:"rating,omitempty"`
	Stock              int        `json:"stock"`
	Tags               []string   `json:"tags,omitempty"`
	Brand              string     `json:"brand,omitempty"`
	SKU                string     `json:"sku,omitempty"`
	Thumbnail          string     `json:"thumbnail,omitempty"`
	Images             []string   `json:"images,omitempty"`
	IsDeleted          bool       `json:"isDeleted,omitempty"`
	DeletedOn          *time.Time `json:"deletedOn,omitempty"`
}

// ProductPage is one page (or a full search result) from the products API.
type ProductPage struct {
	Products []Product `json:"products"`
	Total    int       `json:"total"`
	Skip     int       `json:"skip"`
	Limit    int       `json:"limit"`
}

// Category is an entry of the categories listing.
type Category struct {
	Slug string `json:"slug"`
	Name string `json:"name"`
	URL  string `json:"url,omitempty"`
}

// ProductInput is the editable subset of a product submitted by the product form.
type ProductInput struct {
	Title       string   `json:"title" validate:"required,notblank"`
	Description string   `json:"description,omitempty"`
	Price       *float64 `json:"price" validate:"required,gt=0"`
	Category    string   `json:"category" validate:"required,notblank"`
	Stock       *int     `json:"stock" validate:"required,gte=0"`
	Brand       string   `json:"brand,omitempty"`
}

// InputFromProduct pre-fills a form input with the values of an existing product.
func InputFromProduct(p Product) ProductInput {
	price := p.Price
	stock := p.Stock
	return ProductInput{
		Title:       p.Title,
		Description: p.Description,
		Price:       &price,
		Category:    p.Category,
		Stock:       &stock,
		Brand:       p.Brand,
	}
}

package resources

import (
	"context"
	"net/http"
	"time"
)

// Product is a catalogue entry. Image paths are relative and resolved
// against the configured base URL for display.
type Product struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Slug        string    `json:"slug"`
	Description string    `json:"description,omitempty"`
	Price       int64     `json:"price,omitempty"`
	Images      []string  `json:"images,omitempty"`
	CategoryID  string    `json:"categoryId,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// ProductInput is the payload for creating or updating a product
type ProductInput struct {
	Title       string `json:"title,omitempty"`
	Slug        string `json:"slug,omitempty"`
	Description string `json:"description,omitempty"`
	Price       *int64 `json:"price,omitempty"`
	CategoryID  string `json:"categoryId,omitempty"`
}

// ProductListOptions filters a product listing
type ProductListOptions struct {
	Page     int    `json:"page,omitempty"`
	Limit    int    `json:"limit,omitempty"`
	Search   string `json:"search,omitempty"`
	Category string `json:"category,omitempty"`
}

// ProductsService provides CRUD operations for products
type ProductsService struct {
	base *base
}

// List returns a page of products
func (s *ProductsService) List(ctx context.Context, opts ProductListOptions) (ListResult[Product], error) {
	q := pageQuery(opts.Page, opts.Limit)
	if opts.Search != "" {
		q.Set("search", opts.Search)
	}
	if opts.Category != "" {
		q.Set("category", opts.Category)
	}
	return listQuery[Product](ctx, s.base, "products", "/products", opts, q)
}

// Get returns a single product by id
func (s *ProductsService) Get(ctx context.Context, id string) (*Product, error) {
	return detailQuery[*Product](ctx, s.base, "products", "/products/"+id, id)
}

// Create adds a product and invalidates every cached product listing
func (s *ProductsService) Create(ctx context.Context, input ProductInput) (*Product, error) {
	var created Product
	if err := s.base.client.JSON(ctx, http.MethodPost, "/products", input, &created); err != nil {
		return nil, err
	}
	s.base.invalidateLists("products")
	return &created, nil
}

// Update patches a product with invalidation and detail write-through
func (s *ProductsService) Update(ctx context.Context, id string, input ProductInput) (*Product, error) {
	var updated Product
	if err := s.base.client.JSON(ctx, http.MethodPatch, "/products/"+id, input, &updated); err != nil {
		return nil, err
	}
	s.base.invalidateLists("products")
	s.base.writeThroughDetail("products", id, &updated)
	return &updated, nil
}

// Delete removes a product and drops its cached state
func (s *ProductsService) Delete(ctx context.Context, id string) error {
	if err := s.base.client.JSON(ctx, http.MethodDelete, "/products/"+id, nil, nil); err != nil {
		return err
	}
	s.base.invalidateLists("products")
	s.base.dropDetail("products", id)
	return nil
}

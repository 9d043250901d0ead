package resources

import (
	"context"
	"net/http"
	"time"

	"github.com/arashgl/darabctl/internal/api"
)

// Category groups posts and products
type Category struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	ParentID  string    `json:"parentId,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// CategoryInput is the payload for creating or updating a category
type CategoryInput struct {
	Name     string `json:"name,omitempty"`
	Slug     string `json:"slug,omitempty"`
	ParentID string `json:"parentId,omitempty"`
}

// CategoryListOptions filters a category listing
type CategoryListOptions struct {
	Page  int    `json:"page,omitempty"`
	Limit int    `json:"limit,omitempty"`
	Name  string `json:"name,omitempty"`
}

// CategoriesService provides CRUD operations for categories
type CategoriesService struct {
	base *base
}

// List returns a page of categories
func (s *CategoriesService) List(ctx context.Context, opts CategoryListOptions) (ListResult[Category], error) {
	q := pageQuery(opts.Page, opts.Limit)
	if opts.Name != "" {
		q.Set("name", opts.Name)
	}
	return listQuery[Category](ctx, s.base, "categories", "/categories", opts, q)
}

// Get returns a single category by id
func (s *CategoriesService) Get(ctx context.Context, id string) (*Category, error) {
	return detailQuery[*Category](ctx, s.base, "categories", "/categories/"+id, id)
}

// Create adds a category. A 409 from the backend means the slug is taken,
// which deserves its own message instead of the generic fallback.
func (s *CategoriesService) Create(ctx context.Context, input CategoryInput) (*Category, error) {
	var created Category
	if err := s.base.client.JSON(ctx, http.MethodPost, "/categories", input, &created); err != nil {
		if api.ErrorKind(err) == api.KindConflict {
			return nil, &api.APIError{
				Status:  http.StatusConflict,
				Kind:    api.KindConflict,
				Message: "a category with this slug already exists",
			}
		}
		return nil, err
	}
	s.base.invalidateLists("categories")
	return &created, nil
}

// Update patches a category with invalidation and detail write-through
func (s *CategoriesService) Update(ctx context.Context, id string, input CategoryInput) (*Category, error) {
	var updated Category
	if err := s.base.client.JSON(ctx, http.MethodPatch, "/categories/"+id, input, &updated); err != nil {
		return nil, err
	}
	s.base.invalidateLists("categories")
	s.base.writeThroughDetail("categories", id, &updated)
	return &updated, nil
}

// Delete removes a category and drops its cached state
func (s *CategoriesService) Delete(ctx context.Context, id string) error {
	if err := s.base.client.JSON(ctx, http.MethodDelete, "/categories/"+id, nil, nil); err != nil {
		return err
	}
	s.base.invalidateLists("categories")
	s.base.dropDetail("categories", id)
	return nil
}

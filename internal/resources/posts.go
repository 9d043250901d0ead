package resources

import (
	"context"
	"net/http"
	"time"
)

// Post is a weblog post as returned by the backend. Snapshots are
// immutable; the client never derives business state from them.
type Post struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Slug        string    `json:"slug"`
	Content     string    `json:"content"`
	LeadPicture string    `json:"leadPicture,omitempty"`
	CategoryID  string    `json:"categoryId,omitempty"`
	Published   bool      `json:"published"`
	CreatedAt   time.Time `json:"createdAt"`
}

// PostInput is the payload for creating or updating a post
type PostInput struct {
	Title      string `json:"title,omitempty"`
	Slug       string `json:"slug,omitempty"`
	Content    string `json:"content,omitempty"`
	CategoryID string `json:"categoryId,omitempty"`
	Published  *bool  `json:"published,omitempty"`
}

// PostListOptions filters a post listing
type PostListOptions struct {
	Page     int    `json:"page,omitempty"`
	Limit    int    `json:"limit,omitempty"`
	Title    string `json:"title,omitempty"`
	Category string `json:"category,omitempty"`
}

// PostsService provides CRUD operations for posts
type PostsService struct {
	base *base
}

// List returns a page of posts, served from cache within the staleness window
func (s *PostsService) List(ctx context.Context, opts PostListOptions) (ListResult[Post], error) {
	q := pageQuery(opts.Page, opts.Limit)
	if opts.Title != "" {
		q.Set("title", opts.Title)
	}
	if opts.Category != "" {
		q.Set("category", opts.Category)
	}
	return listQuery[Post](ctx, s.base, "posts", "/posts", opts, q)
}

// Get returns a single post by id
func (s *PostsService) Get(ctx context.Context, id string) (*Post, error) {
	return detailQuery[*Post](ctx, s.base, "posts", "/posts/"+id, id)
}

// Create adds a post and invalidates every cached post listing
func (s *PostsService) Create(ctx context.Context, input PostInput) (*Post, error) {
	var created Post
	if err := s.base.client.JSON(ctx, http.MethodPost, "/posts", input, &created); err != nil {
		return nil, err
	}
	s.base.invalidateLists("posts")
	return &created, nil
}

// Update patches a post, invalidates listings, and writes the fresh
// entity through to its detail entry
func (s *PostsService) Update(ctx context.Context, id string, input PostInput) (*Post, error) {
	var updated Post
	if err := s.base.client.JSON(ctx, http.MethodPatch, "/posts/"+id, input, &updated); err != nil {
		return nil, err
	}
	s.base.invalidateLists("posts")
	s.base.writeThroughDetail("posts", id, &updated)
	return &updated, nil
}

// Delete removes a post and drops its cached state
func (s *PostsService) Delete(ctx context.Context, id string) error {
	if err := s.base.client.JSON(ctx, http.MethodDelete, "/posts/"+id, nil, nil); err != nil {
		return err
	}
	s.base.invalidateLists("posts")
	s.base.dropDetail("posts", id)
	return nil
}

package resources

import (
	"context"
	"net/http"
	"time"
)

// Personnel is a staff profile shown on the public site
type Personnel struct {
	ID        string    `json:"id"`
	FullName  string    `json:"fullName"`
	Position  string    `json:"position,omitempty"`
	Bio       string    `json:"bio,omitempty"`
	Image     string    `json:"image,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// PersonnelInput is the payload for creating or updating a profile
type PersonnelInput struct {
	FullName string `json:"fullName,omitempty"`
	Position string `json:"position,omitempty"`
	Bio      string `json:"bio,omitempty"`
}

// PersonnelListOptions filters a personnel listing
type PersonnelListOptions struct {
	Page  int    `json:"page,omitempty"`
	Limit int    `json:"limit,omitempty"`
	Name  string `json:"name,omitempty"`
}

// PersonnelService provides CRUD operations for personnel profiles
type PersonnelService struct {
	base *base
}

// List returns a page of personnel profiles
func (s *PersonnelService) List(ctx context.Context, opts PersonnelListOptions) (ListResult[Personnel], error) {
	q := pageQuery(opts.Page, opts.Limit)
	if opts.Name != "" {
		q.Set("name", opts.Name)
	}
	return listQuery[Personnel](ctx, s.base, "personnel", "/personnel", opts, q)
}

// Get returns a single profile by id
func (s *PersonnelService) Get(ctx context.Context, id string) (*Personnel, error) {
	return detailQuery[*Personnel](ctx, s.base, "personnel", "/personnel/"+id, id)
}

// Create adds a profile and invalidates every cached personnel listing
func (s *PersonnelService) Create(ctx context.Context, input PersonnelInput) (*Personnel, error) {
	var created Personnel
	if err := s.base.client.JSON(ctx, http.MethodPost, "/personnel", input, &created); err != nil {
		return nil, err
	}
	s.base.invalidateLists("personnel")
	return &created, nil
}

// Update patches a profile with invalidation and detail write-through
func (s *PersonnelService) Update(ctx context.Context, id string, input PersonnelInput) (*Personnel, error) {
	var updated Personnel
	if err := s.base.client.JSON(ctx, http.MethodPatch, "/personnel/"+id, input, &updated); err != nil {
		return nil, err
	}
	s.base.invalidateLists("personnel")
	s.base.writeThroughDetail("personnel", id, &updated)
	return &updated, nil
}

// Delete removes a profile and drops its cached state
func (s *PersonnelService) Delete(ctx context.Context, id string) error {
	if err := s.base.client.JSON(ctx, http.MethodDelete, "/personnel/"+id, nil, nil); err != nil {
		return err
	}
	s.base.invalidateLists("personnel")
	s.base.dropDetail("personnel", id)
	return nil
}

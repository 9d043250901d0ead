package resources

import (
	"context"
	"net/http"
	"time"
)

// LandingSetting is one configurable section of the public landing page
type LandingSetting struct {
	ID        string    `json:"id"`
	Section   string    `json:"section"`
	Title     string    `json:"title,omitempty"`
	Content   string    `json:"content,omitempty"`
	Image     string    `json:"image,omitempty"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// LandingSettingInput is the payload for updating a section
type LandingSettingInput struct {
	Title   string `json:"title,omitempty"`
	Content string `json:"content,omitempty"`
}

// LandingService manages landing page settings. Sections are fixed on
// the backend, so there is no create or delete.
type LandingService struct {
	base *base
}

// List returns every landing section
func (s *LandingService) List(ctx context.Context) (ListResult[LandingSetting], error) {
	return listQuery[LandingSetting](ctx, s.base, "landing", "/landing-settings", nil, nil)
}

// Get returns a single section by name
func (s *LandingService) Get(ctx context.Context, section string) (*LandingSetting, error) {
	return detailQuery[*LandingSetting](ctx, s.base, "landing", "/landing-settings/"+section, section)
}

// Update patches a section with invalidation and detail write-through
func (s *LandingService) Update(ctx context.Context, section string, input LandingSettingInput) (*LandingSetting, error) {
	var updated LandingSetting
	if err := s.base.client.JSON(ctx, http.MethodPatch, "/landing-settings/"+section, input, &updated); err != nil {
		return nil, err
	}
	s.base.invalidateLists("landing")
	s.base.writeThroughDetail("landing", section, &updated)
	return &updated, nil
}

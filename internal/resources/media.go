package resources

import (
	"context"
	"net/http"
	"strings"
	"time"
)

// MediaItem is an entry in the uploaded media library. Path is relative
// to the backend origin.
type MediaItem struct {
	ID        string    `json:"id"`
	Path      string    `json:"path"`
	MimeType  string    `json:"mimeType,omitempty"`
	Size      int64     `json:"size,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// MediaListOptions filters a media listing
type MediaListOptions struct {
	Page  int    `json:"page,omitempty"`
	Limit int    `json:"limit,omitempty"`
	Type  string `json:"type,omitempty"`
}

// MediaService provides read and delete operations for the media library.
// New items enter through the upload service, not through JSON creates.
type MediaService struct {
	base *base
}

// List returns a page of media items
func (s *MediaService) List(ctx context.Context, opts MediaListOptions) (ListResult[MediaItem], error) {
	q := pageQuery(opts.Page, opts.Limit)
	if opts.Type != "" {
		q.Set("type", opts.Type)
	}
	return listQuery[MediaItem](ctx, s.base, "media", "/media", opts, q)
}

// Get returns a single media item by id
func (s *MediaService) Get(ctx context.Context, id string) (*MediaItem, error) {
	return detailQuery[*MediaItem](ctx, s.base, "media", "/media/"+id, id)
}

// Delete removes a media item and drops its cached state
func (s *MediaService) Delete(ctx context.Context, id string) error {
	if err := s.base.client.JSON(ctx, http.MethodDelete, "/media/"+id, nil, nil); err != nil {
		return err
	}
	s.base.invalidateLists("media")
	s.base.dropDetail("media", id)
	return nil
}

// ResolveURL turns a relative media path into an absolute URL against the
// configured backend origin. Absolute inputs pass through untouched.
func (s *MediaService) ResolveURL(path string) string {
	if path == "" {
		return ""
	}
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	return strings.TrimRight(s.base.baseURL, "/") + "/" + strings.TrimLeft(path, "/")
}

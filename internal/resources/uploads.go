package resources

import (
	"context"
	"fmt"
	"io"
	"sort"
)

// UploadTarget describes one upload endpoint. Field names are not
// interchangeable: each endpoint rejects everything but its own.
type UploadTarget struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Path        string `json:"path"`
	Field       string `json:"field"`
	Resource    string `json:"resource"`
}

// uploadTargets maps the backend's upload endpoints to their exact
// multipart field names
var uploadTargets = map[string]UploadTarget{
	"media": {
		Name:        "media",
		Description: "General media library upload",
		Path:        "/media/upload",
		Field:       "file",
		Resource:    "media",
	},
	"image": {
		Name:        "image",
		Description: "Single image upload",
		Path:        "/media/upload-image",
		Field:       "image",
		Resource:    "media",
	},
	"gallery": {
		Name:        "gallery",
		Description: "Gallery batch upload",
		Path:        "/media/upload-gallery",
		Field:       "images",
		Resource:    "media",
	},
	"post-lead": {
		Name:        "post-lead",
		Description: "Post lead picture",
		Path:        "/posts/upload-lead",
		Field:       "leadPicture",
		Resource:    "posts",
	},
	"personnel-image": {
		Name:        "personnel-image",
		Description: "Personnel profile image",
		Path:        "/personnel/upload-image",
		Field:       "personnelImage",
		Resource:    "personnel",
	},
	"product-gallery": {
		Name:        "product-gallery",
		Description: "Product gallery images",
		Path:        "/products/upload-gallery",
		Field:       "galleryFiles",
		Resource:    "products",
	},
}

// UploadResult is the backend's response to a completed upload
type UploadResult struct {
	ID   string `json:"id,omitempty"`
	Path string `json:"path"`
}

// UploadService streams files to the backend's upload endpoints.
// Uploads may be long-running; cancelling the context aborts them.
type UploadService struct {
	base *base
}

// Targets lists the known upload endpoints sorted by name
func (s *UploadService) Targets() []UploadTarget {
	out := make([]UploadTarget, 0, len(uploadTargets))
	for _, t := range uploadTargets {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Target resolves a target by name
func (s *UploadService) Target(name string) (UploadTarget, error) {
	t, ok := uploadTargets[name]
	if !ok {
		return UploadTarget{}, fmt.Errorf("unknown upload target %q (see `darabctl upload --list`)", name)
	}
	return t, nil
}

// Upload streams content to the named target and invalidates the owning
// resource's listings so the new file shows up on the next read
func (s *UploadService) Upload(ctx context.Context, target, filename string, content io.Reader, extra map[string]string) (*UploadResult, error) {
	t, err := s.Target(target)
	if err != nil {
		return nil, err
	}

	var result UploadResult
	if err := s.base.client.Multipart(ctx, t.Path, t.Field, filename, content, extra, &result); err != nil {
		return nil, err
	}

	s.base.invalidateLists(t.Resource)
	return &result, nil
}

package resources

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/arashgl/darabctl/internal/api"
	"github.com/arashgl/darabctl/internal/config"
	"github.com/arashgl/darabctl/internal/querycache"
	"github.com/arashgl/darabctl/internal/session"
)

// Services bundles one service per resource family plus the auth flows
type Services struct {
	Auth       *AuthService
	Posts      *PostsService
	Categories *CategoriesService
	Products   *ProductsService
	Personnel  *PersonnelService
	Media      *MediaService
	Tickets    *TicketsService
	Landing    *LandingService
	Uploads    *UploadService

	Registry *Registry
}

// New wires the resource services onto the shared transport and cache
func New(client *api.Client, cache *querycache.Cache, store *session.Store, cfg *config.Config, logger *slog.Logger) *Services {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	registry := NewRegistry(cfg)
	b := &base{
		client:   client,
		cache:    cache,
		registry: registry,
		baseURL:  cfg.API.BaseURL,
		logger:   logger,
	}

	return &Services{
		Auth:       &AuthService{base: b, store: store},
		Posts:      &PostsService{base: b},
		Categories: &CategoriesService{base: b},
		Products:   &ProductsService{base: b},
		Personnel:  &PersonnelService{base: b},
		Media:      &MediaService{base: b},
		Tickets:    &TicketsService{base: b},
		Landing:    &LandingService{base: b},
		Uploads:    &UploadService{base: b},
		Registry:   registry,
	}
}

// base carries the dependencies shared by every resource service
type base struct {
	client   *api.Client
	cache    *querycache.Cache
	registry *Registry
	baseURL  string
	logger   *slog.Logger
}

// invalidateLists marks every cached list page of a resource stale.
// Called after every successful create, update, and delete.
func (b *base) invalidateLists(resource string) {
	b.cache.Invalidate(querycache.Prefix(resource, "list"))
}

// listQuery is the cache-aware read every list operation goes through:
// one semantic key per canonicalized filter, staleness per resource
// policy, both backend envelope shapes normalized on the way in.
func listQuery[T any](ctx context.Context, b *base, resource, path string, params any, q url.Values) (ListResult[T], error) {
	policy := b.registry.Get(resource)
	key := querycache.NewKey(resource, "list", params)

	return querycache.Lookup(ctx, b.cache, key, policy.StaleTime, func(ctx context.Context) (ListResult[T], error) {
		var env listEnvelope[T]
		if err := b.client.JSON(ctx, http.MethodGet, path, nil, &env, api.WithQuery(q)); err != nil {
			return ListResult[T]{}, err
		}
		return env.normalize(), nil
	})
}

// detailQuery is the cache-aware read for a single entity
func detailQuery[T any](ctx context.Context, b *base, resource, path, id string) (T, error) {
	policy := b.registry.Get(resource)
	key := querycache.NewKey(resource, "detail", id)

	return querycache.Lookup(ctx, b.cache, key, policy.StaleTime, func(ctx context.Context) (T, error) {
		var out T
		if err := b.client.JSON(ctx, http.MethodGet, path, nil, &out); err != nil {
			var zero T
			return zero, err
		}
		return out, nil
	})
}

// writeThroughDetail stores a mutation result into the detail entry so the
// next detail read needs no round trip
func (b *base) writeThroughDetail(resource, id string, entity any) {
	policy := b.registry.Get(resource)
	b.cache.Put(querycache.NewKey(resource, "detail", id), entity, policy.StaleTime)
}

// dropDetail removes a deleted entity's detail entry
func (b *base) dropDetail(resource, id string) {
	b.cache.Remove(querycache.NewKey(resource, "detail", id))
}

// pageQuery builds the page/limit query values shared by all lists
func pageQuery(page, limit int) url.Values {
	q := url.Values{}
	if page > 0 {
		q.Set("page", strconv.Itoa(page))
	}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	return q
}

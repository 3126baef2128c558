package resources

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/kirinyoku/deskgo/internal/backend"
	"github.com/kirinyoku/deskgo/internal/domain"
	redisrepo "github.com/kirinyoku/deskgo/internal/repository/redis"
	"github.com/kirinyoku/deskgo/internal/session"
)

var (
	ErrForbidden   = errors.New("administrator role required")
	ErrEmptyQuery  = errors.New("search text is required")
	ErrInvalidName = errors.New("resource name is required")
)

const (
	facetCategories = "categories"
	facetLocations  = "locations"
)

type API interface {
	Resources(ctx context.Context, ts backend.TokenSource, q backend.ResourceQuery) ([]domain.Resource, error)
	SearchResources(ctx context.Context, ts backend.TokenSource, text string) ([]domain.Resource, error)
	PopularResources(ctx context.Context, ts backend.TokenSource) ([]domain.Resource, error)
	ResourceCategories(ctx context.Context, ts backend.TokenSource) ([]string, error)
	ResourceLocations(ctx context.Context, ts backend.TokenSource) ([]string, error)
	CreateResource(ctx context.Context, ts backend.TokenSource, r domain.Resource) (domain.Resource, error)
	UpdateResource(ctx context.Context, ts backend.TokenSource, r domain.Resource) (domain.Resource, error)
	DeleteResource(ctx context.Context, ts backend.TokenSource, id string) error
	BookResource(ctx context.Context, ts backend.TokenSource, id string, in domain.ResourceBookingRequest) (domain.Booking, error)
	ResourceAvailability(ctx context.Context, ts backend.TokenSource, id, date string) (domain.Availability, error)
}

type Config struct {
	FacetTTL time.Duration
}

type Service struct {
	api    API
	cache  *redisrepo.Cache
	cfg    Config
	logger *slog.Logger
}

// New builds the service. cache may be nil, in which case facets are always
// fetched from the API.
func New(api API, cache *redisrepo.Cache, cfg Config, logger *slog.Logger) *Service {
	if cfg.FacetTTL <= 0 {
		cfg.FacetTTL = 5 * time.Minute
	}

	return &Service{
		api:    api,
		cache:  cache,
		cfg:    cfg,
		logger: logger,
	}
}

func (s *Service) List(ctx context.Context, sess *session.Session, q backend.ResourceQuery) ([]domain.Resource, error) {
	const op = "service.resources.List"

	rs, err := s.api.Resources(ctx, sess, q)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return rs, nil
}

func (s *Service) Search(ctx context.Context, sess *session.Session, text string) ([]domain.Resource, error) {
	const op = "service.resources.Search"

	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("%s: %w", op, ErrEmptyQuery)
	}

	rs, err := s.api.SearchResources(ctx, sess, text)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return rs, nil
}

func (s *Service) Popular(ctx context.Context, sess *session.Session) ([]domain.Resource, error) {
	const op = "service.resources.Popular"

	rs, err := s.api.PopularResources(ctx, sess)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return rs, nil
}

// Categories returns the distinct resource categories, cached for FacetTTL.
func (s *Service) Categories(ctx context.Context, sess *session.Session) ([]string, error) {
	const op = "service.resources.Categories"

	out, err := s.facet(ctx, facetCategories, func(ctx context.Context) ([]string, error) {
		return s.api.ResourceCategories(ctx, sess)
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return out, nil
}

// Locations returns the distinct resource locations, cached for FacetTTL.
func (s *Service) Locations(ctx context.Context, sess *session.Session) ([]string, error) {
	const op = "service.resources.Locations"

	out, err := s.facet(ctx, facetLocations, func(ctx context.Context) ([]string, error) {
		return s.api.ResourceLocations(ctx, sess)
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return out, nil
}

func (s *Service) Availability(ctx context.Context, sess *session.Session, id, date string) (domain.Availability, error) {
	const op = "service.resources.Availability"

	a, err := s.api.ResourceAvailability(ctx, sess, id, date)
	if err != nil {
		return domain.Availability{}, fmt.Errorf("%s: %w", op, err)
	}
	return a, nil
}

func (s *Service) Book(ctx context.Context, sess *session.Session, id string, in domain.ResourceBookingRequest) (domain.Booking, error) {
	const op = "service.resources.Book"

	b, err := s.api.BookResource(ctx, sess, id, in)
	if err != nil {
		return domain.Booking{}, fmt.Errorf("%s: %w", op, err)
	}
	s.logger.InfoContext(ctx, "resource booked",
		slog.String("resource_id", id),
		slog.String("booking_id", b.ID),
		slog.String("user_id", sess.User.ID),
	)
	return b, nil
}

func (s *Service) Create(ctx context.Context, sess *session.Session, r domain.Resource) (domain.Resource, error) {
	const op = "service.resources.Create"

	if err := validate(sess, r); err != nil {
		return domain.Resource{}, fmt.Errorf("%s: %w", op, err)
	}
	out, err := s.api.CreateResource(ctx, sess, r)
	if err != nil {
		return domain.Resource{}, fmt.Errorf("%s: %w", op, err)
	}
	s.dropFacets(ctx)
	return out, nil
}

func (s *Service) Update(ctx context.Context, sess *session.Session, r domain.Resource) (domain.Resource, error) {
	const op = "service.resources.Update"

	if err := validate(sess, r); err != nil {
		return domain.Resource{}, fmt.Errorf("%s: %w", op, err)
	}
	out, err := s.api.UpdateResource(ctx, sess, r)
	if err != nil {
		return domain.Resource{}, fmt.Errorf("%s: %w", op, err)
	}
	s.dropFacets(ctx)
	return out, nil
}

func (s *Service) Delete(ctx context.Context, sess *session.Session, id string) error {
	const op = "service.resources.Delete"

	if !sess.User.IsAdmin() {
		return fmt.Errorf("%s: %w", op, ErrForbidden)
	}
	if err := s.api.DeleteResource(ctx, sess, id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.dropFacets(ctx)
	return nil
}

func (s *Service) facet(ctx context.Context, name string, loader func(ctx context.Context) ([]string, error)) ([]string, error) {
	if s.cache == nil {
		return loader(ctx)
	}
	return redisrepo.GetOrSetJSON(ctx, s.cache, redisrepo.KeyResourceFacet(name), s.cfg.FacetTTL, loader)
}

func (s *Service) dropFacets(ctx context.Context) {
	if s.cache == nil {
		return
	}
	err := s.cache.Del(ctx,
		redisrepo.KeyResourceFacet(facetCategories),
		redisrepo.KeyResourceFacet(facetLocations),
	)
	if err != nil {
		s.logger.WarnContext(ctx, "drop resource facets", slog.String("error", err.Error()))
	}
}

func validate(sess *session.Session, r domain.Resource) error {
	if !sess.User.IsAdmin() {
		return ErrForbidden
	}
	if strings.TrimSpace(r.Name) == "" {
		return ErrInvalidName
	}
	return nil
}

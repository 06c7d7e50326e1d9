package services

import (
	"context"
	"strings"
	"time"

	"github.com/apresmonbac/orientation/internal/cache"
	"github.com/apresmonbac/orientation/internal/catalog"
	"github.com/apresmonbac/orientation/internal/metrics"
	"github.com/apresmonbac/orientation/internal/models"
	"github.com/apresmonbac/orientation/internal/utils"
	"github.com/sirupsen/logrus"
)

type CatalogService interface {
	Universities(ctx context.Context, f catalog.UniversityFilter) catalog.Listing[models.University]
	University(ctx context.Context, idOrSlug string) (*models.University, error)
	Filieres(ctx context.Context, f catalog.FiliereFilter) catalog.Listing[models.Filiere]
	Filiere(ctx context.Context, slug string) (*catalog.FiliereDetail, error)
	Concours(ctx context.Context, f catalog.ConcoursFilter) catalog.Listing[catalog.ConcoursItem]
	Stages(ctx context.Context, f catalog.StageFilter) catalog.Listing[models.Posting]
	Stage(ctx context.Context, id string) (*models.Posting, error)
	Formations(ctx context.Context, f catalog.FormationFilter) catalog.Listing[models.Formation]
	Conseils(ctx context.Context, f catalog.ConseilFilter) catalog.Listing[models.Conseil]
}

type catalogService struct {
	store   *catalog.Store
	cache   cache.Cache
	ttl     time.Duration
	log     *logrus.Logger
	metrics *metrics.Metrics
}

func NewCatalogService(store *catalog.Store, c cache.Cache, ttl time.Duration, log *logrus.Logger, m *metrics.Metrics) CatalogService {
	if c == nil {
		c = cache.NoopCache{}
	}
	return &catalogService{store: store, cache: c, ttl: ttl, log: log, metrics: m}
}

func (s *catalogService) Universities(_ context.Context, f catalog.UniversityFilter) catalog.Listing[models.University] {
	return s.store.Universities(f)
}

func (s *catalogService) University(_ context.Context, idOrSlug string) (*models.University, error) {
	const op = "CatalogService.University"
	u, ok := s.store.University(idOrSlug)
	if !ok {
		return nil, utils.E(utils.CodeNotFound, op, "university not found", nil)
	}
	return &u, nil
}

// Filieres is cached because every entry recomputes its universities.
func (s *catalogService) Filieres(ctx context.Context, f catalog.FiliereFilter) catalog.Listing[models.Filiere] {
	const op = "CatalogService.Filieres"
	key := filieresCacheKey(f)

	var cached catalog.Listing[models.Filiere]
	hit, err := s.cache.GetJSON(ctx, key, &cached)
	if err != nil {
		s.log.WithError(err).WithField("op", op).Warn("catalog cache read failed")
	}
	if hit {
		s.metrics.CacheLookups.WithLabelValues("hit").Inc()
		return cached
	}
	s.metrics.CacheLookups.WithLabelValues("miss").Inc()

	out := s.store.Filieres(f)
	if err := s.cache.SetJSON(ctx, key, out, s.ttl); err != nil {
		s.log.WithError(err).WithField("op", op).Warn("catalog cache write failed")
	}
	return out
}

func filieresCacheKey(f catalog.FiliereFilter) string {
	category := strings.ToLower(strings.TrimSpace(f.Category))
	switch category {
	case "", "all", "tous", "toutes":
		category = "all"
	}
	return cache.Key("catalog", "filieres", category, f.Q)
}

func (s *catalogService) Filiere(_ context.Context, slug string) (*catalog.FiliereDetail, error) {
	const op = "CatalogService.Filiere"
	d, ok := s.store.FiliereDetail(slug)
	if !ok {
		return nil, utils.E(utils.CodeNotFound, op, "filiere not found", nil)
	}
	return &d, nil
}

func (s *catalogService) Concours(_ context.Context, f catalog.ConcoursFilter) catalog.Listing[catalog.ConcoursItem] {
	return s.store.Concours(f)
}

func (s *catalogService) Stages(_ context.Context, f catalog.StageFilter) catalog.Listing[models.Posting] {
	return s.store.Stages(f)
}

func (s *catalogService) Stage(_ context.Context, id string) (*models.Posting, error) {
	const op = "CatalogService.Stage"
	p, ok := s.store.Posting(id)
	if !ok {
		return nil, utils.E(utils.CodeNotFound, op, "stage not found", nil)
	}
	return &p, nil
}

func (s *catalogService) Formations(_ context.Context, f catalog.FormationFilter) catalog.Listing[models.Formation] {
	return s.store.Formations(f)
}

func (s *catalogService) Conseils(_ context.Context, f catalog.ConseilFilter) catalog.Listing[models.Conseil] {
	return s.store.Conseils(f)
}

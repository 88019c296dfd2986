package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"

	"github.com/Lymuthien/BSUIR-IGI-STRWEB/internal/models"
	"github.com/Lymuthien/BSUIR-IGI-STRWEB/internal/repositories"
)

const (
	catalogCacheTTL     = 30 * time.Second
	catalogCacheCleanup = 5 * time.Minute
)

// EstateDetail is an estate plus its sale state and resolved service tier.
type EstateDetail struct {
	Estate  *models.Estate
	Service *models.Service
	Sold    bool
}

// CatalogService serves the public listing pages. List results are cached
// briefly; anything mutating estates goes through other services, so a short
// TTL is the only invalidation needed.
type CatalogService struct {
	estateRepo  repositories.EstateRepository
	serviceRepo repositories.ServiceRepository
	saleRepo    repositories.SaleRepository
	cache       *gocache.Cache
}

func NewCatalogService(
	estateRepo repositories.EstateRepository,
	serviceRepo repositories.ServiceRepository,
	saleRepo repositories.SaleRepository,
) *CatalogService {
	return &CatalogService{
		estateRepo:  estateRepo,
		serviceRepo: serviceRepo,
		saleRepo:    saleRepo,
		cache:       gocache.New(catalogCacheTTL, catalogCacheCleanup),
	}
}

func (s *CatalogService) ListEstates(ctx context.Context, f repositories.EstateFilter) ([]*models.Estate, error) {
	key := estateCacheKey(f)
	if cached, ok := s.cache.Get(key); ok {
		return cached.([]*models.Estate), nil
	}

	estates, err := s.estateRepo.List(ctx, f)
	if err != nil {
		return nil, err
	}
	s.cache.Set(key, estates, gocache.DefaultExpiration)
	return estates, nil
}

func (s *CatalogService) GetEstate(ctx context.Context, id uuid.UUID) (*EstateDetail, error) {
	estate, err := s.estateRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if estate == nil {
		return nil, nil
	}

	detail := &EstateDetail{Estate: estate}

	if estate.ServiceID != nil {
		svc, err := s.serviceRepo.GetByID(ctx, *estate.ServiceID)
		if err != nil {
			return nil, err
		}
		detail.Service = svc
	}

	sale, err := s.saleRepo.GetByEstateID(ctx, id)
	if err != nil {
		return nil, err
	}
	detail.Sold = sale != nil

	return detail, nil
}

// CreateEstate publishes a new listing (admin only, enforced at the route).
func (s *CatalogService) CreateEstate(ctx context.Context, estate *models.Estate) error {
	if estate.ID == uuid.Nil {
		estate.ID = uuid.New()
	}
	if err := s.estateRepo.Create(ctx, estate); err != nil {
		return err
	}
	s.cache.Flush()
	return nil
}

func (s *CatalogService) ListServices(ctx context.Context, f repositories.ServiceFilter) ([]*models.Service, error) {
	return s.serviceRepo.List(ctx, f)
}

func (s *CatalogService) ListServiceCategories(ctx context.Context) ([]*models.ServiceCategory, error) {
	return s.serviceRepo.ListCategories(ctx)
}

func estateCacheKey(f repositories.EstateFilter) string {
	svcID := ""
	if f.ServiceID != nil {
		svcID = f.ServiceID.String()
	}
	minC, maxC := int64(-1), int64(-1)
	if f.MinCostCents != nil {
		minC = *f.MinCostCents
	}
	if f.MaxCostCents != nil {
		maxC = *f.MaxCostCents
	}
	return fmt.Sprintf("estates:%s:%s:%d:%d:%s:%t", f.Search, svcID, minC, maxC, f.Sort, f.IncludeSold)
}

package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/ignatzorin/expertnet-backend/internal/models"
)

// VendorRepository описывает чтение каталога вендорских платформ.
type VendorRepository interface {
	ListActive(ctx context.Context) ([]models.VendorPlatform, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.VendorPlatform, error)
}

// VendorService отдаёт общий для всех пользователей каталог вендоров.
type VendorService struct {
	repo  VendorRepository
	cache *CacheService
	ttl   time.Duration
}

// NewVendorService создаёт сервис каталога. При cache == nil или ttl <= 0 кэш не используется.
func NewVendorService(repo VendorRepository, cache *CacheService, ttl time.Duration) *VendorService {
	if ttl <= 0 {
		cache = nil
	}
	return &VendorService{repo: repo, cache: cache, ttl: ttl}
}

// ListVendors возвращает активные платформы, отсортированные по имени.
func (s *VendorService) ListVendors(ctx context.Context) ([]models.VendorPlatform, error) {
	if s.cache == nil {
		items, err := s.repo.ListActive(ctx)
		return items, translateError(err)
	}

	value, err := s.cache.GetOrSet(ctx, VendorListCacheKey(), s.ttl, func(ctx context.Context) (interface{}, error) {
		return s.repo.ListActive(ctx)
	})
	if err != nil {
		return nil, translateError(err)
	}
	return value.([]models.VendorPlatform), nil
}

// GetVendor возвращает платформу по ID, в том числе неактивную.
func (s *VendorService) GetVendor(ctx context.Context, id uuid.UUID) (*models.VendorPlatform, error) {
	if s.cache == nil {
		vendor, err := s.repo.GetByID(ctx, id)
		return vendor, translateError(err)
	}

	value, err := s.cache.GetOrSet(ctx, VendorCacheKey(id.String()), s.ttl, func(ctx context.Context) (interface{}, error) {
		return s.repo.GetByID(ctx, id)
	})
	if err != nil {
		return nil, translateError(err)
	}
	return value.(*models.VendorPlatform), nil
}

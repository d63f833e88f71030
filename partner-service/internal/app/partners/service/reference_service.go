package service

import (
	"context"
	"fmt"
	"time"

	"partnerhub/partner-service/internal/app/partners/entity"
	"partnerhub/partner-service/internal/app/partners/repository"
	"partnerhub/partner-service/internal/app/partners/util"
	"partnerhub/pkg/logger"
	"partnerhub/pkg/metrics"
)

const metricsService = "partner-service"

// ReferenceService отдаёт справочники для выпадающих списков
// Кеширует их в Redis по схеме cache-aside
type ReferenceService struct {
	partnerTypes  repository.PartnerTypeRepository
	productTypes  repository.ProductTypeRepository
	materialTypes repository.MaterialTypeRepository
	cache         util.ReferenceCache
	ttl           time.Duration
}

func NewReferenceService(repos repository.Repositories, cache util.ReferenceCache, ttl time.Duration) *ReferenceService {
	if cache == nil {
		cache = util.NopCache{}
	}
	return &ReferenceService{
		partnerTypes:  repos.PartnerTypes,
		productTypes:  repos.ProductTypes,
		materialTypes: repos.MaterialTypes,
		cache:         cache,
		ttl:           ttl,
	}
}

func (s *ReferenceService) PartnerTypes(ctx context.Context) ([]entity.PartnerType, error) {
	return cached(ctx, s, util.PartnerTypesCacheKey, s.partnerTypes.GetAll)
}

func (s *ReferenceService) ProductTypes(ctx context.Context) ([]entity.ProductType, error) {
	return cached(ctx, s, util.ProductTypesCacheKey, s.productTypes.GetAll)
}

func (s *ReferenceService) MaterialTypes(ctx context.Context) ([]entity.MaterialType, error) {
	return cached(ctx, s, util.MaterialTypesCacheKey, s.materialTypes.GetAll)
}

// Invalidate сбрасывает все справочники, вызывается после импорта
func (s *ReferenceService) Invalidate(ctx context.Context) error {
	if err := s.cache.Delete(ctx, util.ReferenceKeys...); err != nil {
		metrics.RecordRedisError(metricsService, "delete")
		return fmt.Errorf("failed to invalidate reference cache: %w", err)
	}
	return nil
}

func cached[T any](ctx context.Context, s *ReferenceService, key string, load func(context.Context) ([]T, error)) ([]T, error) {
	var items []T
	found, err := s.cache.Get(ctx, key, &items)
	if err != nil {
		// Кеш недоступен - читаем из БД
		metrics.RecordRedisError(metricsService, "get")
		logger.Warn().Err(err).Str("key", key).Msg("Failed to read reference cache")
	}
	if found {
		metrics.RecordCacheHit(metricsService, key)
		return items, nil
	}
	metrics.RecordCacheMiss(metricsService, key)

	items, err = load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", key, err)
	}

	if err := s.cache.Set(ctx, key, items, s.ttl); err != nil {
		metrics.RecordRedisError(metricsService, "set")
		logger.Warn().Err(err).Str("key", key).Msg("Failed to cache reference list")
	}

	return items, nil
}

package util

import (
	"context"
	"time"
)

// Ключи кеша справочников
const (
	PartnerTypesCacheKey  = "refs:partner_types"
	ProductTypesCacheKey  = "refs:product_types"
	MaterialTypesCacheKey = "refs:material_types"
)

// ReferenceKeys - все ключи справочников, сбрасываются целиком после импорта
var ReferenceKeys = []string{PartnerTypesCacheKey, ProductTypesCacheKey, MaterialTypesCacheKey}

// ReferenceCache интерфейс кеша справочников
// Используется для dependency injection и упрощения тестирования
type ReferenceCache interface {
	// Get читает значение в dest, found=false при промахе
	Get(ctx context.Context, key string, dest interface{}) (found bool, err error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	Close() error
}

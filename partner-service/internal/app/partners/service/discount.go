package service

import (
	"context"
	"fmt"

	"partnerhub/partner-service/internal/app/partners/repository"
	"partnerhub/pkg/metrics"
)

const discountCalculator = "discount"

// Пороги скидок по суммарному объёму закупок, нижняя граница включительно
const (
	tierSilverQuantity   = 10_000
	tierGoldQuantity     = 50_000
	tierPlatinumQuantity = 100_000

	discountNone     = 0
	discountSilver   = 5
	discountGold     = 10
	discountPlatinum = 15
)

// DiscountFor переводит суммарное количество продукции в процент скидки
// Отрицательные значения попадают в нулевую ступень
func DiscountFor(totalQuantity int64) int {
	switch {
	case totalQuantity >= tierPlatinumQuantity:
		return discountPlatinum
	case totalQuantity >= tierGoldQuantity:
		return discountGold
	case totalQuantity >= tierSilverQuantity:
		return discountSilver
	default:
		return discountNone
	}
}

// DiscountService считает объём закупок партнёра
type DiscountService struct {
	sales repository.SaleRepository
}

func NewDiscountService(sales repository.SaleRepository) *DiscountService {
	return &DiscountService{sales: sales}
}

// TotalQuantity суммирует количество по всем продажам партнёра
// Продажи без количества считаются нулём, неизвестный партнёр даёт 0
func (s *DiscountService) TotalQuantity(ctx context.Context, partnerID uint) (int64, error) {
	total, err := s.sales.TotalQuantityByPartner(ctx, partnerID)
	if err != nil {
		return 0, fmt.Errorf("failed to get total quantity: %w", err)
	}
	return total, nil
}

// Evaluate возвращает объём закупок партнёра и его скидку
func (s *DiscountService) Evaluate(ctx context.Context, partnerID uint) (total int64, discount int, err error) {
	defer func() { metrics.RecordCalculation(discountCalculator, err) }()

	total, err = s.TotalQuantity(ctx, partnerID)
	if err != nil {
		return 0, 0, err
	}

	discount = DiscountFor(total)
	metrics.RecordDiscount(discount)
	return total, discount, nil
}

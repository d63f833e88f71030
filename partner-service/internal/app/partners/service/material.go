package service

import (
	"context"
	"errors"
	"fmt"
	"math"

	"partnerhub/partner-service/internal/app/partners/apperror"
	"partnerhub/partner-service/internal/app/partners/repository"
	"partnerhub/pkg/metrics"

	"github.com/shopspring/decimal"
)

const materialCalculator = "material"

var (
	hundred  = decimal.NewFromInt(100)
	maxInt64 = decimal.NewFromInt(math.MaxInt64)
)

// RequiredMaterial считает количество материала с учётом брака
// perUnit = param1*param2*coefficient, итог = ceil(perUnit*quantity*(1+defect/100))
func RequiredMaterial(coefficient, defectPercentage decimal.Decimal, quantity int64, param1, param2 float64) (int64, error) {
	if err := checkInputs(quantity, param1, param2); err != nil {
		return 0, err
	}
	if !coefficient.IsPositive() {
		return 0, apperror.Computation("product type coefficient must be positive, got %s", coefficient)
	}
	if defectPercentage.IsNegative() {
		return 0, apperror.Computation("defect percentage must not be negative, got %s", defectPercentage)
	}

	perUnit := decimal.NewFromFloat(param1).Mul(decimal.NewFromFloat(param2)).Mul(coefficient)
	raw := perUnit.Mul(decimal.NewFromInt(quantity))
	adjusted := raw.Mul(decimal.NewFromInt(1).Add(defectPercentage.Div(hundred)))

	result := adjusted.Ceil()
	if result.GreaterThan(maxInt64) {
		return 0, apperror.Computation("material quantity %s overflows", result)
	}
	return result.IntPart(), nil
}

func checkInputs(quantity int64, param1, param2 float64) error {
	if quantity <= 0 {
		return apperror.Computation("quantity must be positive, got %d", quantity)
	}
	if !isPositive(param1) || !isPositive(param2) {
		return apperror.Computation("product parameters must be positive, got %v and %v", param1, param2)
	}
	return nil
}

func isPositive(v float64) bool {
	return v > 0 && !math.IsInf(v, 1)
}

// MaterialCalculator разрешает типы продукции и материала и считает потребность
type MaterialCalculator struct {
	productTypes  repository.ProductTypeRepository
	materialTypes repository.MaterialTypeRepository
}

func NewMaterialCalculator(productTypes repository.ProductTypeRepository, materialTypes repository.MaterialTypeRepository) *MaterialCalculator {
	return &MaterialCalculator{
		productTypes:  productTypes,
		materialTypes: materialTypes,
	}
}

// MaterialQuantity возвращает целое количество материала > 0 либо ErrComputation
func (c *MaterialCalculator) MaterialQuantity(ctx context.Context, productTypeID, materialTypeID uint, quantity int64, param1, param2 float64) (result int64, err error) {
	defer func() { metrics.RecordCalculation(materialCalculator, err) }()

	// Входные параметры проверяем до обращения к БД
	if err := checkInputs(quantity, param1, param2); err != nil {
		return 0, err
	}

	productType, err := c.productTypes.GetByID(ctx, productTypeID)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return 0, apperror.Computation("product type %d not found", productTypeID)
		}
		return 0, fmt.Errorf("failed to get product type: %w", err)
	}

	materialType, err := c.materialTypes.GetByID(ctx, materialTypeID)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return 0, apperror.Computation("material type %d not found", materialTypeID)
		}
		return 0, fmt.Errorf("failed to get material type: %w", err)
	}

	return RequiredMaterial(productType.Coefficient, materialType.DefectPercentage, quantity, param1, param2)
}

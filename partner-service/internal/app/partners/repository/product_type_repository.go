package repository

import (
	"context"
	"strings"

	"partnerhub/partner-service/internal/app/partners/apperror"
	"partnerhub/partner-service/internal/app/partners/entity"

	"gorm.io/gorm"
)

type productTypeRepository struct {
	db *gorm.DB
}

// NewProductTypeRepository создает репозиторий типов продукции
func NewProductTypeRepository(db *gorm.DB) ProductTypeRepository {
	return &productTypeRepository{db: db}
}

// Create создает тип продукции. Коэффициент должен быть строго положительным
func (r *productTypeRepository) Create(ctx context.Context, productType *entity.ProductType) (err error) {
	defer track("create", tableProductTypes)(&err)

	if err := r.validate(ctx, productType); err != nil {
		return err
	}

	return translateError(r.db.WithContext(ctx).Create(productType).Error, "create product type")
}

// GetByID получает тип продукции по ID
func (r *productTypeRepository) GetByID(ctx context.Context, id uint) (_ *entity.ProductType, err error) {
	defer track("get", tableProductTypes)(&err)

	var productType entity.ProductType
	if err := r.db.WithContext(ctx).First(&productType, "id = ?", id).Error; err != nil {
		return nil, notFound(err, "product type %d", id)
	}
	return &productType, nil
}

// GetByName ищет тип продукции по точному совпадению имени
func (r *productTypeRepository) GetByName(ctx context.Context, name string) (_ *entity.ProductType, err error) {
	defer track("get_by_name", tableProductTypes)(&err)

	var productType entity.ProductType
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&productType).Error; err != nil {
		return nil, notFound(err, "product type %q", name)
	}
	return &productType, nil
}

// GetAll получает все типы продукции, отсортированные по имени
func (r *productTypeRepository) GetAll(ctx context.Context) (_ []entity.ProductType, err error) {
	defer track("list", tableProductTypes)(&err)

	var productTypes []entity.ProductType
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&productTypes).Error; err != nil {
		return nil, translateError(err, "list product types")
	}
	return productTypes, nil
}

// Update обновляет имя и коэффициент типа продукции
func (r *productTypeRepository) Update(ctx context.Context, productType *entity.ProductType) (err error) {
	defer track("update", tableProductTypes)(&err)

	found, err := exists(ctx, r.db, tableProductTypes, productType.ID)
	if err != nil {
		return err
	}
	if !found {
		return apperror.NotFound("product type %d", productType.ID)
	}
	if err := r.validate(ctx, productType); err != nil {
		return err
	}

	result := r.db.WithContext(ctx).Model(&entity.ProductType{}).
		Where("id = ?", productType.ID).
		Updates(map[string]interface{}{
			"name":        productType.Name,
			"coefficient": productType.Coefficient,
		})
	if result.Error != nil {
		return translateError(result.Error, "update product type")
	}
	if result.RowsAffected == 0 {
		return apperror.NotFound("product type %d", productType.ID)
	}
	return nil
}

func (r *productTypeRepository) validate(ctx context.Context, productType *entity.ProductType) error {
	if strings.TrimSpace(productType.Name) == "" {
		return apperror.Constraint("product type name must not be empty")
	}
	productType.Coefficient = productType.Coefficient.Round(entity.CoefficientScale)
	if !productType.Coefficient.IsPositive() {
		return apperror.Constraint("product type %q: coefficient must be positive, got %s", productType.Name, productType.Coefficient)
	}

	dup, err := taken(ctx, r.db, tableProductTypes, "name", productType.Name, productType.ID)
	if err != nil {
		return err
	}
	if dup {
		return apperror.Constraint("product type %q already exists", productType.Name)
	}
	return nil
}

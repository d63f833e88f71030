package repository

import (
	"context"
	"strings"

	"partnerhub/partner-service/internal/app/partners/apperror"
	"partnerhub/partner-service/internal/app/partners/entity"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var maxDefectPercentage = decimal.NewFromInt(100)

type materialTypeRepository struct {
	db *gorm.DB
}

// NewMaterialTypeRepository создает репозиторий типов материалов
func NewMaterialTypeRepository(db *gorm.DB) MaterialTypeRepository {
	return &materialTypeRepository{db: db}
}

// Create создает тип материала. Процент брака в диапазоне 0..100
func (r *materialTypeRepository) Create(ctx context.Context, materialType *entity.MaterialType) (err error) {
	defer track("create", tableMaterialTypes)(&err)

	if err := r.validate(ctx, materialType); err != nil {
		return err
	}

	return translateError(r.db.WithContext(ctx).Create(materialType).Error, "create material type")
}

// GetByID получает тип материала по ID
func (r *materialTypeRepository) GetByID(ctx context.Context, id uint) (_ *entity.MaterialType, err error) {
	defer track("get", tableMaterialTypes)(&err)

	var materialType entity.MaterialType
	if err := r.db.WithContext(ctx).First(&materialType, "id = ?", id).Error; err != nil {
		return nil, notFound(err, "material type %d", id)
	}
	return &materialType, nil
}

// GetByName ищет тип материала по точному совпадению имени
func (r *materialTypeRepository) GetByName(ctx context.Context, name string) (_ *entity.MaterialType, err error) {
	defer track("get_by_name", tableMaterialTypes)(&err)

	var materialType entity.MaterialType
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&materialType).Error; err != nil {
		return nil, notFound(err, "material type %q", name)
	}
	return &materialType, nil
}

// GetAll получает все типы материалов, отсортированные по имени
func (r *materialTypeRepository) GetAll(ctx context.Context) (_ []entity.MaterialType, err error) {
	defer track("list", tableMaterialTypes)(&err)

	var materialTypes []entity.MaterialType
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&materialTypes).Error; err != nil {
		return nil, translateError(err, "list material types")
	}
	return materialTypes, nil
}

// Update обновляет имя и процент брака
func (r *materialTypeRepository) Update(ctx context.Context, materialType *entity.MaterialType) (err error) {
	defer track("update", tableMaterialTypes)(&err)

	found, err := exists(ctx, r.db, tableMaterialTypes, materialType.ID)
	if err != nil {
		return err
	}
	if !found {
		return apperror.NotFound("material type %d", materialType.ID)
	}
	if err := r.validate(ctx, materialType); err != nil {
		return err
	}

	result := r.db.WithContext(ctx).Model(&entity.MaterialType{}).
		Where("id = ?", materialType.ID).
		Updates(map[string]interface{}{
			"name":              materialType.Name,
			"defect_percentage": materialType.DefectPercentage,
		})
	if result.Error != nil {
		return translateError(result.Error, "update material type")
	}
	if result.RowsAffected == 0 {
		return apperror.NotFound("material type %d", materialType.ID)
	}
	return nil
}

func (r *materialTypeRepository) validate(ctx context.Context, materialType *entity.MaterialType) error {
	if strings.TrimSpace(materialType.Name) == "" {
		return apperror.Constraint("material type name must not be empty")
	}
	materialType.DefectPercentage = materialType.DefectPercentage.Round(entity.DefectScale)
	if materialType.DefectPercentage.IsNegative() || materialType.DefectPercentage.GreaterThan(maxDefectPercentage) {
		return apperror.Constraint("material type %q: defect percentage %s out of range 0..100",
			materialType.Name, materialType.DefectPercentage)
	}

	dup, err := taken(ctx, r.db, tableMaterialTypes, "name", materialType.Name, materialType.ID)
	if err != nil {
		return err
	}
	if dup {
		return apperror.Constraint("material type %q already exists", materialType.Name)
	}
	return nil
}

package repository

import (
	"context"
	"strings"

	"partnerhub/partner-service/internal/app/partners/apperror"
	"partnerhub/partner-service/internal/app/partners/entity"

	"gorm.io/gorm"
)

type partnerTypeRepository struct {
	db *gorm.DB
}

// NewPartnerTypeRepository создает репозиторий типов партнёров
func NewPartnerTypeRepository(db *gorm.DB) PartnerTypeRepository {
	return &partnerTypeRepository{db: db}
}

// Create создает тип партнёра, имя должно быть непустым и уникальным
func (r *partnerTypeRepository) Create(ctx context.Context, partnerType *entity.PartnerType) (err error) {
	defer track("create", tablePartnerTypes)(&err)

	if err := r.validate(ctx, partnerType); err != nil {
		return err
	}

	return translateError(r.db.WithContext(ctx).Create(partnerType).Error, "create partner type")
}

// GetByID получает тип партнёра по ID
func (r *partnerTypeRepository) GetByID(ctx context.Context, id uint) (_ *entity.PartnerType, err error) {
	defer track("get", tablePartnerTypes)(&err)

	var partnerType entity.PartnerType
	if err := r.db.WithContext(ctx).First(&partnerType, "id = ?", id).Error; err != nil {
		return nil, notFound(err, "partner type %d", id)
	}
	return &partnerType, nil
}

// GetByName ищет тип партнёра по точному совпадению имени
func (r *partnerTypeRepository) GetByName(ctx context.Context, name string) (_ *entity.PartnerType, err error) {
	defer track("get_by_name", tablePartnerTypes)(&err)

	var partnerType entity.PartnerType
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&partnerType).Error; err != nil {
		return nil, notFound(err, "partner type %q", name)
	}
	return &partnerType, nil
}

// GetAll получает все типы партнёров, отсортированные по имени
func (r *partnerTypeRepository) GetAll(ctx context.Context) (_ []entity.PartnerType, err error) {
	defer track("list", tablePartnerTypes)(&err)

	var partnerTypes []entity.PartnerType
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&partnerTypes).Error; err != nil {
		return nil, translateError(err, "list partner types")
	}
	return partnerTypes, nil
}

// Update переименовывает тип партнёра
func (r *partnerTypeRepository) Update(ctx context.Context, partnerType *entity.PartnerType) (err error) {
	defer track("update", tablePartnerTypes)(&err)

	found, err := exists(ctx, r.db, tablePartnerTypes, partnerType.ID)
	if err != nil {
		return err
	}
	if !found {
		return apperror.NotFound("partner type %d", partnerType.ID)
	}
	if err := r.validate(ctx, partnerType); err != nil {
		return err
	}

	result := r.db.WithContext(ctx).Model(&entity.PartnerType{}).
		Where("id = ?", partnerType.ID).
		Updates(map[string]interface{}{"name": partnerType.Name})
	if result.Error != nil {
		return translateError(result.Error, "update partner type")
	}
	if result.RowsAffected == 0 {
		return apperror.NotFound("partner type %d", partnerType.ID)
	}
	return nil
}

func (r *partnerTypeRepository) validate(ctx context.Context, partnerType *entity.PartnerType) error {
	if strings.TrimSpace(partnerType.Name) == "" {
		return apperror.Constraint("partner type name must not be empty")
	}

	dup, err := taken(ctx, r.db, tablePartnerTypes, "name", partnerType.Name, partnerType.ID)
	if err != nil {
		return err
	}
	if dup {
		return apperror.Constraint("partner type %q already exists", partnerType.Name)
	}
	return nil
}

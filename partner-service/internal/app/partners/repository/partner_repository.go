package repository

import (
	"context"
	"strings"

	"partnerhub/partner-service/internal/app/partners/apperror"
	"partnerhub/partner-service/internal/app/partners/entity"

	"gorm.io/gorm"
)

type partnerRepository struct {
	db *gorm.DB
}

// NewPartnerRepository создает репозиторий партнёров
func NewPartnerRepository(db *gorm.DB) PartnerRepository {
	return &partnerRepository{db: db}
}

// Create создает партнёра. Тип партнёра должен существовать
func (r *partnerRepository) Create(ctx context.Context, partner *entity.Partner) (err error) {
	defer track("create", tablePartners)(&err)

	if err := r.validate(ctx, partner); err != nil {
		return err
	}

	return translateError(r.db.WithContext(ctx).Create(partner).Error, "create partner")
}

// GetByID получает партнёра по ID
func (r *partnerRepository) GetByID(ctx context.Context, id uint) (_ *entity.Partner, err error) {
	defer track("get", tablePartners)(&err)

	var partner entity.Partner
	if err := r.db.WithContext(ctx).First(&partner, "id = ?", id).Error; err != nil {
		return nil, notFound(err, "partner %d", id)
	}
	return &partner, nil
}

// GetByName ищет партнёра по имени, при дубликатах - первая запись
func (r *partnerRepository) GetByName(ctx context.Context, name string) (_ *entity.Partner, err error) {
	defer track("get_by_name", tablePartners)(&err)

	var partner entity.Partner
	if err := r.db.WithContext(ctx).Where("name = ?", name).Order("id ASC").First(&partner).Error; err != nil {
		return nil, notFound(err, "partner %q", name)
	}
	return &partner, nil
}

// GetWithType получает партнёра вместе с наименованием типа
func (r *partnerRepository) GetWithType(ctx context.Context, id uint) (_ *entity.PartnerWithType, err error) {
	defer track("get_with_type", tablePartners)(&err)

	var rows []entity.PartnerWithType
	if err := r.withTypes(ctx).Where("partners.id = ?", id).Limit(1).Scan(&rows).Error; err != nil {
		return nil, translateError(err, "get partner with type")
	}
	if len(rows) == 0 {
		return nil, apperror.NotFound("partner %d", id)
	}
	return &rows[0], nil
}

// GetAllWithTypes получает всех партнёров с типами, отсортированных по имени
func (r *partnerRepository) GetAllWithTypes(ctx context.Context) (_ []entity.PartnerWithType, err error) {
	defer track("list_with_types", tablePartners)(&err)

	var rows []entity.PartnerWithType
	if err := r.withTypes(ctx).Order("partners.name ASC").Order("partners.id ASC").Scan(&rows).Error; err != nil {
		return nil, translateError(err, "list partners")
	}
	return rows, nil
}

// Update обновляет все поля партнёра
func (r *partnerRepository) Update(ctx context.Context, partner *entity.Partner) (err error) {
	defer track("update", tablePartners)(&err)

	found, err := exists(ctx, r.db, tablePartners, partner.ID)
	if err != nil {
		return err
	}
	if !found {
		return apperror.NotFound("partner %d", partner.ID)
	}
	if err := r.validate(ctx, partner); err != nil {
		return err
	}

	result := r.db.WithContext(ctx).Model(&entity.Partner{}).
		Where("id = ?", partner.ID).
		Updates(map[string]interface{}{
			"partner_type_id": partner.PartnerTypeID,
			"name":            partner.Name,
			"legal_address":   partner.LegalAddress,
			"tax_id":          partner.TaxID,
			"director":        partner.Director,
			"phone":           partner.Phone,
			"email":           partner.Email,
			"rating":          partner.Rating,
		})
	if result.Error != nil {
		return translateError(result.Error, "update partner")
	}
	if result.RowsAffected == 0 {
		return apperror.NotFound("partner %d", partner.ID)
	}
	return nil
}

func (r *partnerRepository) withTypes(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table(tablePartners).
		Select("partners.*, partner_types.name AS partner_type_name").
		Joins("JOIN partner_types ON partner_types.id = partners.partner_type_id")
}

func (r *partnerRepository) validate(ctx context.Context, partner *entity.Partner) error {
	if strings.TrimSpace(partner.Name) == "" {
		return apperror.Constraint("partner name must not be empty")
	}
	if partner.TaxID != nil && !entity.TaxIDPattern.MatchString(*partner.TaxID) {
		return apperror.Constraint("partner %q: tax id %q must be exactly 10 digits", partner.Name, *partner.TaxID)
	}
	if partner.Email != nil && !entity.EmailPattern.MatchString(*partner.Email) {
		return apperror.Constraint("partner %q: malformed email %q", partner.Name, *partner.Email)
	}
	if partner.Phone != nil && !entity.PhonePattern.MatchString(*partner.Phone) {
		return apperror.Constraint("partner %q: phone %q contains invalid characters", partner.Name, *partner.Phone)
	}
	if partner.Rating != nil && (*partner.Rating < 0 || *partner.Rating > 100) {
		return apperror.Constraint("partner %q: rating %d out of range 0..100", partner.Name, *partner.Rating)
	}

	typeFound, err := exists(ctx, r.db, tablePartnerTypes, partner.PartnerTypeID)
	if err != nil {
		return err
	}
	if !typeFound {
		return apperror.Constraint("partner %q: partner type %d does not exist", partner.Name, partner.PartnerTypeID)
	}
	return nil
}

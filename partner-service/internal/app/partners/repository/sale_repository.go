package repository

import (
	"context"
	"fmt"

	"partnerhub/partner-service/internal/app/partners/apperror"
	"partnerhub/partner-service/internal/app/partners/entity"

	"gorm.io/gorm"
)

type saleRepository struct {
	db *gorm.DB
}

// NewSaleRepository создает репозиторий истории продаж (partner_products)
func NewSaleRepository(db *gorm.DB) SaleRepository {
	return &saleRepository{db: db}
}

// Create добавляет запись о продаже. Партнёр и продукция должны существовать
func (r *saleRepository) Create(ctx context.Context, sale *entity.Sale) (err error) {
	defer track("create", tableSales)(&err)

	if sale.Quantity != nil && *sale.Quantity < 0 {
		return apperror.Constraint("sale quantity must not be negative, got %d", *sale.Quantity)
	}

	partnerFound, err := exists(ctx, r.db, tablePartners, sale.PartnerID)
	if err != nil {
		return err
	}
	if !partnerFound {
		return apperror.Constraint("sale: partner %d does not exist", sale.PartnerID)
	}

	productFound, err := exists(ctx, r.db, tableProducts, sale.ProductID)
	if err != nil {
		return err
	}
	if !productFound {
		return apperror.Constraint("sale: product %d does not exist", sale.ProductID)
	}

	return translateError(r.db.WithContext(ctx).Create(sale).Error, "create sale")
}

// GetByID получает запись о продаже по ID
func (r *saleRepository) GetByID(ctx context.Context, id uint) (_ *entity.Sale, err error) {
	defer track("get", tableSales)(&err)

	var sale entity.Sale
	if err := r.db.WithContext(ctx).First(&sale, "id = ?", id).Error; err != nil {
		return nil, notFound(err, "sale %d", id)
	}
	return &sale, nil
}

// GetByPartnerID получает историю продаж партнёра с наименованиями продукции
// Сначала самые свежие продажи, записи без даты - в конце
func (r *saleRepository) GetByPartnerID(ctx context.Context, partnerID uint) (_ []entity.SaleWithProduct, err error) {
	defer track("list_by_partner", tableSales)(&err)

	var rows []entity.SaleWithProduct
	err = r.db.WithContext(ctx).
		Table(tableSales).
		Select("partner_products.*, products.name AS product_name, products.article AS product_article").
		Joins("JOIN products ON products.id = partner_products.product_id").
		Where("partner_products.partner_id = ?", partnerID).
		Order("CASE WHEN partner_products.sale_date IS NULL THEN 1 ELSE 0 END").
		Order("partner_products.sale_date DESC").
		Order("partner_products.id DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, translateError(err, "list partner sales")
	}
	return rows, nil
}

// TotalQuantityByPartner суммирует количество по всем продажам партнёра
// NULL в quantity считается нулём, для партнёра без продаж результат 0
func (r *saleRepository) TotalQuantityByPartner(ctx context.Context, partnerID uint) (_ int64, err error) {
	defer track("sum_quantity", tableSales)(&err)

	var total int64
	row := r.db.WithContext(ctx).
		Table(tableSales).
		Select("CAST(COALESCE(SUM(COALESCE(quantity, 0)), 0) AS BIGINT)").
		Where("partner_id = ?", partnerID).
		Row()
	if err := row.Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to sum partner %d quantity: %w", partnerID, err)
	}
	return total, nil
}

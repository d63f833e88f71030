package repository

import (
	"context"
	"strings"

	"partnerhub/partner-service/internal/app/partners/apperror"
	"partnerhub/partner-service/internal/app/partners/entity"

	"gorm.io/gorm"
)

type productRepository struct {
	db *gorm.DB
}

// NewProductRepository создает репозиторий продукции
func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

// Create создает продукцию. Тип продукции должен существовать, артикул уникален
func (r *productRepository) Create(ctx context.Context, product *entity.Product) (err error) {
	defer track("create", tableProducts)(&err)

	if err := r.validate(ctx, product); err != nil {
		return err
	}

	return translateError(r.db.WithContext(ctx).Create(product).Error, "create product")
}

// GetByID получает продукцию по ID
func (r *productRepository) GetByID(ctx context.Context, id uint) (_ *entity.Product, err error) {
	defer track("get", tableProducts)(&err)

	var product entity.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		return nil, notFound(err, "product %d", id)
	}
	return &product, nil
}

// GetByName ищет продукцию по имени
// Имя не уникально: при дубликатах возвращается первая запись (минимальный id)
func (r *productRepository) GetByName(ctx context.Context, name string) (_ *entity.Product, err error) {
	defer track("get_by_name", tableProducts)(&err)

	var product entity.Product
	if err := r.db.WithContext(ctx).Where("name = ?", name).Order("id ASC").First(&product).Error; err != nil {
		return nil, notFound(err, "product %q", name)
	}
	return &product, nil
}

// GetByArticle ищет продукцию по артикулу
func (r *productRepository) GetByArticle(ctx context.Context, article int64) (_ *entity.Product, err error) {
	defer track("get_by_article", tableProducts)(&err)

	var product entity.Product
	if err := r.db.WithContext(ctx).Where("article = ?", article).First(&product).Error; err != nil {
		return nil, notFound(err, "product with article %d", article)
	}
	return &product, nil
}

// GetAll получает всю продукцию, отсортированную по имени
func (r *productRepository) GetAll(ctx context.Context) (_ []entity.Product, err error) {
	defer track("list", tableProducts)(&err)

	var products []entity.Product
	if err := r.db.WithContext(ctx).Order("name ASC").Order("id ASC").Find(&products).Error; err != nil {
		return nil, translateError(err, "list products")
	}
	return products, nil
}

// Update обновляет все изменяемые поля продукции
func (r *productRepository) Update(ctx context.Context, product *entity.Product) (err error) {
	defer track("update", tableProducts)(&err)

	found, err := exists(ctx, r.db, tableProducts, product.ID)
	if err != nil {
		return err
	}
	if !found {
		return apperror.NotFound("product %d", product.ID)
	}
	if err := r.validate(ctx, product); err != nil {
		return err
	}

	result := r.db.WithContext(ctx).Model(&entity.Product{}).
		Where("id = ?", product.ID).
		Updates(map[string]interface{}{
			"product_type_id":   product.ProductTypeID,
			"article":           product.Article,
			"name":              product.Name,
			"min_partner_price": product.MinPartnerPrice,
		})
	if result.Error != nil {
		return translateError(result.Error, "update product")
	}
	if result.RowsAffected == 0 {
		return apperror.NotFound("product %d", product.ID)
	}
	return nil
}

func (r *productRepository) validate(ctx context.Context, product *entity.Product) error {
	if strings.TrimSpace(product.Name) == "" {
		return apperror.Constraint("product name must not be empty")
	}
	if product.MinPartnerPrice.Valid {
		product.MinPartnerPrice.Decimal = product.MinPartnerPrice.Decimal.Round(entity.PriceScale)
	}

	typeFound, err := exists(ctx, r.db, tableProductTypes, product.ProductTypeID)
	if err != nil {
		return err
	}
	if !typeFound {
		return apperror.Constraint("product %q: product type %d does not exist", product.Name, product.ProductTypeID)
	}

	if product.Article != nil {
		dup, err := taken(ctx, r.db, tableProducts, "article", *product.Article, product.ID)
		if err != nil {
			return err
		}
		if dup {
			return apperror.Constraint("product article %d already exists", *product.Article)
		}
	}
	return nil
}

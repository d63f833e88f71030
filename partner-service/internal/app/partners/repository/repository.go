package repository

import (
	"context"

	"partnerhub/partner-service/internal/app/partners/entity"
)

type PartnerTypeRepository interface {
	Create(ctx context.Context, partnerType *entity.PartnerType) error
	GetByID(ctx context.Context, id uint) (*entity.PartnerType, error)
	GetByName(ctx context.Context, name string) (*entity.PartnerType, error)
	GetAll(ctx context.Context) ([]entity.PartnerType, error)
	Update(ctx context.Context, partnerType *entity.PartnerType) error
}

type PartnerRepository interface {
	Create(ctx context.Context, partner *entity.Partner) error
	GetByID(ctx context.Context, id uint) (*entity.Partner, error)
	GetByName(ctx context.Context, name string) (*entity.Partner, error)
	GetWithType(ctx context.Context, id uint) (*entity.PartnerWithType, error)
	GetAllWithTypes(ctx context.Context) ([]entity.PartnerWithType, error)
	Update(ctx context.Context, partner *entity.Partner) error
}

type ProductTypeRepository interface {
	Create(ctx context.Context, productType *entity.ProductType) error
	GetByID(ctx context.Context, id uint) (*entity.ProductType, error)
	GetByName(ctx context.Context, name string) (*entity.ProductType, error)
	GetAll(ctx context.Context) ([]entity.ProductType, error)
	Update(ctx context.Context, productType *entity.ProductType) error
}

type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id uint) (*entity.Product, error)
	GetByName(ctx context.Context, name string) (*entity.Product, error)
	GetByArticle(ctx context.Context, article int64) (*entity.Product, error)
	GetAll(ctx context.Context) ([]entity.Product, error)
	Update(ctx context.Context, product *entity.Product) error
}

type MaterialTypeRepository interface {
	Create(ctx context.Context, materialType *entity.MaterialType) error
	GetByID(ctx context.Context, id uint) (*entity.MaterialType, error)
	GetByName(ctx context.Context, name string) (*entity.MaterialType, error)
	GetAll(ctx context.Context) ([]entity.MaterialType, error)
	Update(ctx context.Context, materialType *entity.MaterialType) error
}

type SaleRepository interface {
	Create(ctx context.Context, sale *entity.Sale) error
	GetByID(ctx context.Context, id uint) (*entity.Sale, error)
	GetByPartnerID(ctx context.Context, partnerID uint) ([]entity.SaleWithProduct, error)
	TotalQuantityByPartner(ctx context.Context, partnerID uint) (int64, error)
}

// Repositories - набор репозиториев поверх одного соединения или одной транзакции
type Repositories struct {
	PartnerTypes  PartnerTypeRepository
	Partners      PartnerRepository
	ProductTypes  ProductTypeRepository
	Products      ProductRepository
	MaterialTypes MaterialTypeRepository
	Sales         SaleRepository
}

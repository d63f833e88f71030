package service

import (
	"context"

	"partnerhub/partner-service/internal/app/partners/entity"
)

type PartnerServiceInterface interface {
	ListCards(ctx context.Context) ([]entity.PartnerCard, error)
	Save(ctx context.Context, req *entity.SavePartnerRequest) (*entity.Partner, error)
	History(ctx context.Context, partnerID uint) (*entity.PartnerHistory, error)
	Discount(ctx context.Context, partnerID uint) (*entity.PartnerDiscount, error)
}

type ReferenceServiceInterface interface {
	PartnerTypes(ctx context.Context) ([]entity.PartnerType, error)
	ProductTypes(ctx context.Context) ([]entity.ProductType, error)
	MaterialTypes(ctx context.Context) ([]entity.MaterialType, error)
	Invalidate(ctx context.Context) error
}

type MaterialCalculatorInterface interface {
	MaterialQuantity(ctx context.Context, productTypeID, materialTypeID uint, quantity int64, param1, param2 float64) (int64, error)
}

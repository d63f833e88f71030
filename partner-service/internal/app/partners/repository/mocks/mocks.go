package mocks

import (
	"context"

	"partnerhub/partner-service/internal/app/partners/entity"

	"github.com/stretchr/testify/mock"
)

// MockPartnerTypeRepository мок для PartnerTypeRepository
type MockPartnerTypeRepository struct {
	mock.Mock
}

func (m *MockPartnerTypeRepository) Create(ctx context.Context, partnerType *entity.PartnerType) error {
	args := m.Called(ctx, partnerType)
	return args.Error(0)
}

func (m *MockPartnerTypeRepository) GetByID(ctx context.Context, id uint) (*entity.PartnerType, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.PartnerType), args.Error(1)
}

func (m *MockPartnerTypeRepository) GetByName(ctx context.Context, name string) (*entity.PartnerType, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.PartnerType), args.Error(1)
}

func (m *MockPartnerTypeRepository) Update(ctx context.Context, partnerType *entity.PartnerType) error {
	args := m.Called(ctx, partnerType)
	return args.Error(0)
}

func (m *MockPartnerTypeRepository) GetAll(ctx context.Context) ([]entity.PartnerType, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.PartnerType), args.Error(1)
}

// MockProductTypeRepository мок для ProductTypeRepository
type MockProductTypeRepository struct {
	mock.Mock
}

func (m *MockProductTypeRepository) Create(ctx context.Context, productType *entity.ProductType) error {
	args := m.Called(ctx, productType)
	return args.Error(0)
}

func (m *MockProductTypeRepository) GetByID(ctx context.Context, id uint) (*entity.ProductType, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.ProductType), args.Error(1)
}

func (m *MockProductTypeRepository) GetByName(ctx context.Context, name string) (*entity.ProductType, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.ProductType), args.Error(1)
}

func (m *MockProductTypeRepository) Update(ctx context.Context, productType *entity.ProductType) error {
	args := m.Called(ctx, productType)
	return args.Error(0)
}

func (m *MockProductTypeRepository) GetAll(ctx context.Context) ([]entity.ProductType, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.ProductType), args.Error(1)
}

// MockMaterialTypeRepository мок для MaterialTypeRepository
type MockMaterialTypeRepository struct {
	mock.Mock
}

func (m *MockMaterialTypeRepository) Create(ctx context.Context, materialType *entity.MaterialType) error {
	args := m.Called(ctx, materialType)
	return args.Error(0)
}

func (m *MockMaterialTypeRepository) GetByID(ctx context.Context, id uint) (*entity.MaterialType, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.MaterialType), args.Error(1)
}

func (m *MockMaterialTypeRepository) GetByName(ctx context.Context, name string) (*entity.MaterialType, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.MaterialType), args.Error(1)
}

func (m *MockMaterialTypeRepository) Update(ctx context.Context, materialType *entity.MaterialType) error {
	args := m.Called(ctx, materialType)
	return args.Error(0)
}

func (m *MockMaterialTypeRepository) GetAll(ctx context.Context) ([]entity.MaterialType, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.MaterialType), args.Error(1)
}

// MockPartnerRepository мок для PartnerRepository
type MockPartnerRepository struct {
	mock.Mock
}

func (m *MockPartnerRepository) Create(ctx context.Context, partner *entity.Partner) error {
	args := m.Called(ctx, partner)
	return args.Error(0)
}

func (m *MockPartnerRepository) GetByID(ctx context.Context, id uint) (*entity.Partner, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Partner), args.Error(1)
}

func (m *MockPartnerRepository) GetByName(ctx context.Context, name string) (*entity.Partner, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Partner), args.Error(1)
}

func (m *MockPartnerRepository) Update(ctx context.Context, partner *entity.Partner) error {
	args := m.Called(ctx, partner)
	return args.Error(0)
}

func (m *MockPartnerRepository) GetWithType(ctx context.Context, id uint) (*entity.PartnerWithType, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.PartnerWithType), args.Error(1)
}

func (m *MockPartnerRepository) GetAllWithTypes(ctx context.Context) ([]entity.PartnerWithType, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.PartnerWithType), args.Error(1)
}

// MockSaleRepository мок для SaleRepository
type MockSaleRepository struct {
	mock.Mock
}

func (m *MockSaleRepository) Create(ctx context.Context, sale *entity.Sale) error {
	args := m.Called(ctx, sale)
	return args.Error(0)
}

func (m *MockSaleRepository) GetByID(ctx context.Context, id uint) (*entity.Sale, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Sale), args.Error(1)
}

func (m *MockSaleRepository) GetByPartnerID(ctx context.Context, partnerID uint) ([]entity.SaleWithProduct, error) {
	args := m.Called(ctx, partnerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.SaleWithProduct), args.Error(1)
}

func (m *MockSaleRepository) TotalQuantityByPartner(ctx context.Context, partnerID uint) (int64, error) {
	args := m.Called(ctx, partnerID)
	return args.Get(0).(int64), args.Error(1)
}

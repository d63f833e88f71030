package repository

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"partnerhub/partner-service/internal/app/partners/apperror"
	"partnerhub/partner-service/internal/app/partners/entity"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// StoreTestSuite тестирует репозитории на реальной SQLite базе во временном каталоге
type StoreTestSuite struct {
	suite.Suite
	ctx   context.Context
	db    *gorm.DB
	store *Store
}

func TestStoreSuite(t *testing.T) {
	suite.Run(t, new(StoreTestSuite))
}

func (s *StoreTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.db = openTestDB(s.T())
	s.store = NewStore(s.db)
}

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := SQLiteDSN(filepath.Join(t.TempDir(), "partners_test.db"))
	db, err := Open(DriverSQLite, dsn, gormlogger.Silent)
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, Migrate(context.Background(), db))
	return db
}

func strPtr(s string) *string { return &s }
func intPtr(i int) *int        { return &i }
func int64Ptr(i int64) *int64  { return &i }

func datePtr(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

// Хелперы для создания справочников

func (s *StoreTestSuite) mustPartnerType(name string) *entity.PartnerType {
	pt := &entity.PartnerType{Name: name}
	s.Require().NoError(s.store.PartnerTypes.Create(s.ctx, pt))
	return pt
}

func (s *StoreTestSuite) mustProductType(name, coefficient string) *entity.ProductType {
	pt := &entity.ProductType{Name: name, Coefficient: decimal.RequireFromString(coefficient)}
	s.Require().NoError(s.store.ProductTypes.Create(s.ctx, pt))
	return pt
}

func (s *StoreTestSuite) mustProduct(typeID uint, name string, article int64) *entity.Product {
	p := &entity.Product{ProductTypeID: typeID, Name: name, Article: int64Ptr(article)}
	s.Require().NoError(s.store.Products.Create(s.ctx, p))
	return p
}

func (s *StoreTestSuite) mustPartner(typeID uint, name string) *entity.Partner {
	p := &entity.Partner{PartnerTypeID: typeID, Name: name}
	s.Require().NoError(s.store.Partners.Create(s.ctx, p))
	return p
}

// ===================== Schema Tests =====================

func (s *StoreTestSuite) TestMigrate_Idempotent() {
	s.Require().NoError(Migrate(s.ctx, s.db))
	s.Require().NoError(Migrate(s.ctx, s.db))

	for _, table := range []string{tablePartnerTypes, tablePartners, tableProductTypes, tableProducts, tableMaterialTypes, tableSales} {
		s.True(s.db.Migrator().HasTable(table), table)
	}
}

func (s *StoreTestSuite) TestSchema_EnforcesForeignKeys() {
	// Обходим проверки репозитория и пишем напрямую в таблицу
	err := s.db.Exec("INSERT INTO partners (partner_type_id, name) VALUES (?, ?)", 999, "Призрак").Error
	s.Error(err)
}

// ===================== ProductType Tests =====================

func (s *StoreTestSuite) TestProductType_RoundTripPreservesCoefficient() {
	created := s.mustProductType("Ламинат", "2.3500")
	s.NotZero(created.ID)

	found, err := s.store.ProductTypes.GetByName(s.ctx, "Ламинат")
	s.Require().NoError(err)
	s.Equal(created.ID, found.ID)
	s.True(decimal.RequireFromString("2.35").Equal(found.Coefficient), found.Coefficient.String())

	precise := s.mustProductType("Паркетная доска", "1.2345")
	found, err = s.store.ProductTypes.GetByID(s.ctx, precise.ID)
	s.Require().NoError(err)
	s.Equal("1.2345", found.Coefficient.StringFixed(4))
}

func (s *StoreTestSuite) TestProductType_DuplicateName() {
	s.mustProductType("Ламинат", "2.35")

	err := s.store.ProductTypes.Create(s.ctx, &entity.ProductType{Name: "Ламинат", Coefficient: decimal.NewFromInt(1)})
	s.ErrorIs(err, apperror.ErrConstraintViolation)

	all, err := s.store.ProductTypes.GetAll(s.ctx)
	s.Require().NoError(err)
	s.Len(all, 1)
}

func (s *StoreTestSuite) TestProductType_NonPositiveCoefficient() {
	err := s.store.ProductTypes.Create(s.ctx, &entity.ProductType{Name: "Пробка", Coefficient: decimal.Zero})
	s.ErrorIs(err, apperror.ErrConstraintViolation)

	err = s.store.ProductTypes.Create(s.ctx, &entity.ProductType{Name: "Пробка", Coefficient: decimal.NewFromInt(-1)})
	s.ErrorIs(err, apperror.ErrConstraintViolation)
}

func (s *StoreTestSuite) TestProductType_GetByNameNotFound() {
	found, err := s.store.ProductTypes.GetByName(s.ctx, "Нет такого")
	s.Nil(found)
	s.ErrorIs(err, apperror.ErrNotFound)
}

func (s *StoreTestSuite) TestProductType_Update() {
	pt := s.mustProductType("Ламинат", "2.35")
	other := s.mustProductType("Массив", "5.15")

	pt.Coefficient = decimal.RequireFromString("2.5")
	s.Require().NoError(s.store.ProductTypes.Update(s.ctx, pt))

	found, err := s.store.ProductTypes.GetByID(s.ctx, pt.ID)
	s.Require().NoError(err)
	s.True(decimal.RequireFromString("2.5").Equal(found.Coefficient))

	// Переименование в занятое имя
	pt.Name = other.Name
	s.ErrorIs(s.store.ProductTypes.Update(s.ctx, pt), apperror.ErrConstraintViolation)

	// Несуществующий id
	err = s.store.ProductTypes.Update(s.ctx, &entity.ProductType{ID: 404, Name: "X", Coefficient: decimal.NewFromInt(1)})
	s.ErrorIs(err, apperror.ErrNotFound)
}

// ===================== MaterialType Tests =====================

func (s *StoreTestSuite) TestMaterialType_CreateAndRange() {
	mt := &entity.MaterialType{Name: "Тип материала 1", DefectPercentage: decimal.RequireFromString("0.10")}
	s.Require().NoError(s.store.MaterialTypes.Create(s.ctx, mt))

	found, err := s.store.MaterialTypes.GetByName(s.ctx, "Тип материала 1")
	s.Require().NoError(err)
	s.True(decimal.RequireFromString("0.1").Equal(found.DefectPercentage))

	err = s.store.MaterialTypes.Create(s.ctx, &entity.MaterialType{Name: "Плохой", DefectPercentage: decimal.NewFromInt(-1)})
	s.ErrorIs(err, apperror.ErrConstraintViolation)

	err = s.store.MaterialTypes.Create(s.ctx, &entity.MaterialType{Name: "Тип материала 1", DefectPercentage: decimal.Zero})
	s.ErrorIs(err, apperror.ErrConstraintViolation)
}

// ===================== Product Tests =====================

func (s *StoreTestSuite) TestProduct_RequiresExistingType() {
	err := s.store.Products.Create(s.ctx, &entity.Product{ProductTypeID: 42, Name: "Паркет"})
	s.ErrorIs(err, apperror.ErrConstraintViolation)
}

func (s *StoreTestSuite) TestProduct_UniqueArticle() {
	pt := s.mustProductType("Ламинат", "2.35")
	s.mustProduct(pt.ID, "Ламинат Дуб", 8758385)

	err := s.store.Products.Create(s.ctx, &entity.Product{ProductTypeID: pt.ID, Name: "Другой", Article: int64Ptr(8758385)})
	s.ErrorIs(err, apperror.ErrConstraintViolation)

	// Продукция без артикула допустима многократно
	s.Require().NoError(s.store.Products.Create(s.ctx, &entity.Product{ProductTypeID: pt.ID, Name: "Без артикула 1"}))
	s.Require().NoError(s.store.Products.Create(s.ctx, &entity.Product{ProductTypeID: pt.ID, Name: "Без артикула 2"}))

	found, err := s.store.Products.GetByArticle(s.ctx, 8758385)
	s.Require().NoError(err)
	s.Equal("Ламинат Дуб", found.Name)
}

func (s *StoreTestSuite) TestProduct_GetByNameReturnsFirstMatch() {
	pt := s.mustProductType("Ламинат", "2.35")
	first := s.mustProduct(pt.ID, "Дубль", 1)
	s.mustProduct(pt.ID, "Дубль", 2)

	found, err := s.store.Products.GetByName(s.ctx, "Дубль")
	s.Require().NoError(err)
	s.Equal(first.ID, found.ID)
}

func (s *StoreTestSuite) TestProduct_MinPartnerPrice() {
	pt := s.mustProductType("Ламинат", "2.35")
	p := &entity.Product{
		ProductTypeID:   pt.ID,
		Name:            "Ламинат Ясень",
		MinPartnerPrice: decimal.NewNullDecimal(decimal.RequireFromString("4456.90")),
	}
	s.Require().NoError(s.store.Products.Create(s.ctx, p))

	found, err := s.store.Products.GetByID(s.ctx, p.ID)
	s.Require().NoError(err)
	s.True(found.MinPartnerPrice.Valid)
	s.Equal("4456.90", found.MinPartnerPrice.Decimal.StringFixed(2))
	s.Nil(found.Article)
}

func (s *StoreTestSuite) TestDecimals_RoundedToColumnScale() {
	// Arrange
	pt := s.mustProductType("Паркетная доска", "1.234567")
	mt := &entity.MaterialType{Name: "Тип материала 3", DefectPercentage: decimal.RequireFromString("0.123456")}
	s.Require().NoError(s.store.MaterialTypes.Create(s.ctx, mt))
	p := &entity.Product{
		ProductTypeID:   pt.ID,
		Name:            "Паркетная доска Дуб",
		MinPartnerPrice: decimal.NewNullDecimal(decimal.RequireFromString("4456.905")),
	}
	s.Require().NoError(s.store.Products.Create(s.ctx, p))

	// Act
	foundType, err := s.store.ProductTypes.GetByID(s.ctx, pt.ID)
	s.Require().NoError(err)
	foundMaterial, err := s.store.MaterialTypes.GetByID(s.ctx, mt.ID)
	s.Require().NoError(err)
	foundProduct, err := s.store.Products.GetByID(s.ctx, p.ID)
	s.Require().NoError(err)

	// Assert
	s.True(decimal.RequireFromString("1.2346").Equal(foundType.Coefficient), foundType.Coefficient.String())
	s.True(decimal.RequireFromString("0.1235").Equal(foundMaterial.DefectPercentage), foundMaterial.DefectPercentage.String())
	s.True(decimal.RequireFromString("4456.91").Equal(foundProduct.MinPartnerPrice.Decimal), foundProduct.MinPartnerPrice.Decimal.String())

	// Коэффициент, округляющийся до нуля, отклоняется
	err = s.store.ProductTypes.Create(s.ctx, &entity.ProductType{Name: "Пыль", Coefficient: decimal.RequireFromString("0.00001")})
	s.ErrorIs(err, apperror.ErrConstraintViolation)
}

// ===================== Partner Tests =====================

func (s *StoreTestSuite) TestPartner_CreateAndJoinWithType() {
	retail := s.mustPartnerType("ЗАО")
	wholesale := s.mustPartnerType("ООО")

	b := &entity.Partner{
		PartnerTypeID: wholesale.ID,
		Name:          "Б-Партнёр",
		TaxID:         strPtr("0123456789"),
		Email:         strPtr("info@example.ru"),
		Phone:         strPtr("+7 (495) 123-45-67"),
		Rating:        intPtr(7),
	}
	s.Require().NoError(s.store.Partners.Create(s.ctx, b))
	a := s.mustPartner(retail.ID, "А-Партнёр")

	all, err := s.store.Partners.GetAllWithTypes(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(all, 2)
	s.Equal(a.ID, all[0].ID)
	s.Equal("ЗАО", all[0].PartnerTypeName)
	s.Equal("ООО", all[1].PartnerTypeName)
	s.Equal("0123456789", *all[1].TaxID)
	s.Equal(7, *all[1].Rating)

	one, err := s.store.Partners.GetWithType(s.ctx, b.ID)
	s.Require().NoError(err)
	s.Equal("Б-Партнёр", one.Name)
	s.Equal("ООО", one.PartnerTypeName)

	_, err = s.store.Partners.GetWithType(s.ctx, 999)
	s.ErrorIs(err, apperror.ErrNotFound)
}

func (s *StoreTestSuite) TestPartner_Invariants() {
	pt := s.mustPartnerType("ООО")

	tests := []struct {
		name    string
		partner entity.Partner
	}{
		{"missing type", entity.Partner{PartnerTypeID: 999, Name: "X"}},
		{"empty name", entity.Partner{PartnerTypeID: pt.ID, Name: "  "}},
		{"short tax id", entity.Partner{PartnerTypeID: pt.ID, Name: "X", TaxID: strPtr("12345")}},
		{"bad email", entity.Partner{PartnerTypeID: pt.ID, Name: "X", Email: strPtr("not-an-email")}},
		{"bad phone", entity.Partner{PartnerTypeID: pt.ID, Name: "X", Phone: strPtr("call me")}},
		{"rating too high", entity.Partner{PartnerTypeID: pt.ID, Name: "X", Rating: intPtr(101)}},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			p := tt.partner
			s.ErrorIs(s.store.Partners.Create(s.ctx, &p), apperror.ErrConstraintViolation)
			s.Zero(p.ID)
		})
	}
}

func (s *StoreTestSuite) TestPartner_Update() {
	pt := s.mustPartnerType("ООО")
	other := s.mustPartnerType("ПАО")
	p := s.mustPartner(pt.ID, "Паркет 29")

	p.PartnerTypeID = other.ID
	p.Director = strPtr("Петров Пётр")
	s.Require().NoError(s.store.Partners.Update(s.ctx, p))

	found, err := s.store.Partners.GetByID(s.ctx, p.ID)
	s.Require().NoError(err)
	s.Equal(other.ID, found.PartnerTypeID)
	s.Equal("Петров Пётр", *found.Director)

	p.PartnerTypeID = 999
	s.ErrorIs(s.store.Partners.Update(s.ctx, p), apperror.ErrConstraintViolation)

	s.ErrorIs(s.store.Partners.Update(s.ctx, &entity.Partner{ID: 555, PartnerTypeID: pt.ID, Name: "X"}), apperror.ErrNotFound)
}

// ===================== Sale Tests =====================

func (s *StoreTestSuite) TestSale_RequiresExistingReferences() {
	pt := s.mustPartnerType("ООО")
	partner := s.mustPartner(pt.ID, "Паркет 29")

	err := s.store.Sales.Create(s.ctx, &entity.Sale{PartnerID: partner.ID, ProductID: 999, Quantity: int64Ptr(1)})
	s.ErrorIs(err, apperror.ErrConstraintViolation)

	err = s.store.Sales.Create(s.ctx, &entity.Sale{PartnerID: 999, ProductID: 1, Quantity: int64Ptr(1)})
	s.ErrorIs(err, apperror.ErrConstraintViolation)
}

func (s *StoreTestSuite) TestSale_TotalQuantityTreatsAbsentAsZero() {
	pt := s.mustPartnerType("ООО")
	partner := s.mustPartner(pt.ID, "Паркет 29")
	other := s.mustPartner(pt.ID, "Стройсервис")
	product := s.mustProduct(s.mustProductType("Ламинат", "2.35").ID, "Ламинат Дуб", 1)

	for _, q := range []*int64{int64Ptr(15500), nil, int64Ptr(12350), int64Ptr(0)} {
		s.Require().NoError(s.store.Sales.Create(s.ctx, &entity.Sale{PartnerID: partner.ID, ProductID: product.ID, Quantity: q}))
	}
	s.Require().NoError(s.store.Sales.Create(s.ctx, &entity.Sale{PartnerID: other.ID, ProductID: product.ID, Quantity: int64Ptr(100)}))

	total, err := s.store.Sales.TotalQuantityByPartner(s.ctx, partner.ID)
	s.Require().NoError(err)
	s.Equal(int64(27850), total)

	total, err = s.store.Sales.TotalQuantityByPartner(s.ctx, 12345)
	s.Require().NoError(err)
	s.Zero(total)
}

func (s *StoreTestSuite) TestSale_NegativeQuantityRejected() {
	pt := s.mustPartnerType("ООО")
	partner := s.mustPartner(pt.ID, "Паркет 29")
	product := s.mustProduct(s.mustProductType("Ламинат", "2.35").ID, "Ламинат Дуб", 1)

	err := s.store.Sales.Create(s.ctx, &entity.Sale{PartnerID: partner.ID, ProductID: product.ID, Quantity: int64Ptr(-5)})
	s.ErrorIs(err, apperror.ErrConstraintViolation)
}

func (s *StoreTestSuite) TestSale_HistoryOrderedByDateDesc() {
	pt := s.mustPartnerType("ООО")
	partner := s.mustPartner(pt.ID, "Паркет 29")
	ptype := s.mustProductType("Ламинат", "2.35")
	oak := s.mustProduct(ptype.ID, "Ламинат Дуб", 1)
	ash := s.mustProduct(ptype.ID, "Ламинат Ясень", 2)

	sales := []entity.Sale{
		{PartnerID: partner.ID, ProductID: oak.ID, Quantity: int64Ptr(10), SaleDate: datePtr(2023, time.March, 23)},
		{PartnerID: partner.ID, ProductID: ash.ID, Quantity: int64Ptr(20), SaleDate: nil},
		{PartnerID: partner.ID, ProductID: ash.ID, Quantity: int64Ptr(30), SaleDate: datePtr(2024, time.June, 1)},
	}
	for i := range sales {
		s.Require().NoError(s.store.Sales.Create(s.ctx, &sales[i]))
	}

	history, err := s.store.Sales.GetByPartnerID(s.ctx, partner.ID)
	s.Require().NoError(err)
	s.Require().Len(history, 3)

	s.Equal("Ламинат Ясень", history[0].ProductName)
	s.Equal("2024-06-01", history[0].SaleDate.Format("2006-01-02"))
	s.Equal("Ламинат Дуб", history[1].ProductName)
	s.Equal(int64(1), *history[1].ProductArticle)
	s.Nil(history[2].SaleDate)
	s.Equal(int64(20), *history[2].Quantity)
}

// ===================== Stage Tests =====================

func (s *StoreTestSuite) TestStage_CommitMakesWritesVisible() {
	stage, err := s.store.BeginStage(s.ctx, "product_types")
	s.Require().NoError(err)
	s.Equal("product_types", stage.Name())

	s.Require().NoError(stage.ProductTypes.Create(s.ctx, &entity.ProductType{Name: "Ламинат", Coefficient: decimal.NewFromInt(2)}))
	s.Require().NoError(stage.Commit())

	_, err = s.store.ProductTypes.GetByName(s.ctx, "Ламинат")
	s.NoError(err)

	s.ErrorIs(stage.Commit(), ErrStageClosed)
	s.NoError(stage.Abort())
}

func (s *StoreTestSuite) TestStage_AbortDiscardsWrites() {
	stage, err := s.store.BeginStage(s.ctx, "product_types")
	s.Require().NoError(err)

	s.Require().NoError(stage.ProductTypes.Create(s.ctx, &entity.ProductType{Name: "Ламинат", Coefficient: decimal.NewFromInt(2)}))
	s.Require().NoError(stage.ProductTypes.Create(s.ctx, &entity.ProductType{Name: "Массив", Coefficient: decimal.NewFromInt(5)}))

	// Внутри этапа записи видны
	inside, err := stage.ProductTypes.GetAll(s.ctx)
	s.Require().NoError(err)
	s.Len(inside, 2)

	s.Require().NoError(stage.Abort())

	all, err := s.store.ProductTypes.GetAll(s.ctx)
	s.Require().NoError(err)
	s.Empty(all)
}

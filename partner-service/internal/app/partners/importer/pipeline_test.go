package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"partnerhub/partner-service/internal/app/partners/apperror"
	"partnerhub/partner-service/internal/app/partners/entity"
	"partnerhub/partner-service/internal/app/partners/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/xuri/excelize/v2"
	gormlogger "gorm.io/gorm/logger"
)

var (
	productTypesHeader  = []string{"Тип продукции", "Коэффициент типа продукции"}
	productsHeader      = []string{"Тип продукции", "Наименование продукции", "Артикул", "Минимальная стоимость для партнера"}
	materialTypesHeader = []string{"Тип материала", "Процент брака материала "}
	partnersHeader      = []string{"Тип партнера", "Наименование партнера", "Директор", "Электронная почта партнера",
		"Телефон партнера", "Юридический адрес партнера", "ИНН", "Рейтинг"}
	salesHeader = []string{"Продукция", "Наименование партнера", "Количество продукции", "Дата продажи"}
)

type countingInvalidator struct {
	calls int
}

func (c *countingInvalidator) Invalidate(context.Context) error {
	c.calls++
	return nil
}

// PipelineTestSuite гоняет импорт на SQLite во временном каталоге
type PipelineTestSuite struct {
	suite.Suite
	ctx         context.Context
	dir         string
	store       *repository.Store
	invalidator *countingInvalidator
	pipeline    *Pipeline
}

func TestPipelineSuite(t *testing.T) {
	suite.Run(t, new(PipelineTestSuite))
}

func (s *PipelineTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.dir = s.T().TempDir()

	db, err := repository.Open(repository.DriverSQLite, repository.SQLiteDSN(filepath.Join(s.dir, "import_test.db")), gormlogger.Silent)
	s.Require().NoError(err)
	sqlDB, err := db.DB()
	s.Require().NoError(err)
	s.T().Cleanup(func() { _ = sqlDB.Close() })
	s.Require().NoError(repository.Migrate(s.ctx, db))

	s.store = repository.NewStore(db)
	s.invalidator = &countingInvalidator{}
	s.pipeline = NewPipeline(s.store, WithInvalidator(s.invalidator))

	s.writeFixtures()
}

// === FIXTURES ===

func (s *PipelineTestSuite) writeCSV(base string, header []string, rows ...[]string) {
	file, err := os.Create(filepath.Join(s.dir, base+".csv"))
	s.Require().NoError(err)
	defer file.Close()

	w := csv.NewWriter(file)
	s.Require().NoError(w.Write(header))
	s.Require().NoError(w.WriteAll(rows))
}

func (s *PipelineTestSuite) writeFixtures() {
	s.writeCSV(ProductTypesFile, productTypesHeader,
		[]string{"Ламинат", "2.35"},
		[]string{"Массив дерева", "5.15"},
		[]string{"Ковровое покрытие", "3,5"},
	)
	s.writeCSV(ProductsFile, productsHeader,
		[]string{"Ламинат", "Ламинат Дуб", "8758385", "4456.90"},
		[]string{"Массив дерева", "Паркетная доска Ясень", "7750282", "7330.99"},
		[]string{"Ковровое покрытие", "Ковер", "", ""},
	)
	s.writeCSV(MaterialTypesFile, materialTypesHeader,
		[]string{"Тип материала 1", "0.10"},
		[]string{"Тип материала 2", "0.95"},
	)
	s.writeCSV(PartnersFile, partnersHeader,
		[]string{"ЗАО", "База Строитель", "Иванова Александра Ивановна", "aleksandraivanova@ml.ru", "493 123 45 67", "652050, Кемеровская область, город Юрга, ул. Лесная, 15", "2222455179", "7"},
		[]string{"ООО", "Паркет 29", "Петров Василий Петрович", "vppetrov@vl.ru", "987 123 56 78", "164500, Архангельская область, город Северодвинск, ул. Строителей, 18", "3333888520", "7"},
		[]string{"ЗАО", "Стройсервис", "Соловьев Андрей Николаевич", "ansolovev@st.ru", "812 223 32 00", "188910, Ленинградская область, город Приморск, ул. Парковая, 21", "4440391035", "7"},
		[]string{"ПАО", "Ремонт и отделка", "Воробьева Екатерина Валерьевна", "ekaterina.vorobeva@ml.ru", "444 222 33 11", "143960, Московская область, город Реутов, ул. Свободы, 51", "123456789", ""},
	)
	s.writeCSV(SalesFile, salesHeader,
		[]string{"Ламинат Дуб", "База Строитель", "15500", "2023-03-23"},
		[]string{"Паркетная доска Ясень", "База Строитель", "12350", "18.12.2023"},
		[]string{"Ламинат Дуб", "Неизвестный партнёр", "100", "2024-01-01"},
		[]string{"Ковер", "Паркет 29", "37400", ""},
		[]string{"Нет такой продукции", "Стройсервис", "5", ""},
		[]string{"Ламинат Дуб", "Стройсервис", "59050", "2024-06-10"},
	)
}

func (s *PipelineTestSuite) run() (*Report, error) {
	sources, err := LoadDir(s.dir)
	s.Require().NoError(err)
	return s.pipeline.Run(s.ctx, sources)
}

func (s *PipelineTestSuite) imported(report *Report, stage string) int {
	res, ok := report.Stage(stage)
	s.Require().True(ok, "stage %s not committed", stage)
	return res.Imported
}

func (s *PipelineTestSuite) total(partnerName string) int64 {
	partner, err := s.store.Partners.GetByName(s.ctx, partnerName)
	s.Require().NoError(err)
	total, err := s.store.Sales.TotalQuantityByPartner(s.ctx, partner.ID)
	s.Require().NoError(err)
	return total
}

// ===================== Full Run =====================

func (s *PipelineTestSuite) TestRun_FullImport() {
	// Act
	report, err := s.run()

	// Assert
	s.Require().NoError(err)
	s.NotEqual(uuid.Nil, report.RunID)
	s.Len(report.Stages, 6)
	s.Equal(3, s.imported(report, StageProductTypes))
	s.Equal(3, s.imported(report, StageProducts))
	s.Equal(2, s.imported(report, StageMaterialTypes))
	s.Equal(3, s.imported(report, StagePartnerTypes))
	s.Equal(4, s.imported(report, StagePartners))
	s.Equal(4, s.imported(report, StageSales))

	s.Equal(int64(27850), s.total("База Строитель"))
	s.Equal(int64(37400), s.total("Паркет 29"))
	s.Equal(int64(59050), s.total("Стройсервис"))
	s.Equal(int64(0), s.total("Ремонт и отделка"))

	s.Equal(1, s.invalidator.calls)
}

func (s *PipelineTestSuite) TestRun_NormalizesValues() {
	_, err := s.run()
	s.Require().NoError(err)

	partner, err := s.store.Partners.GetByName(s.ctx, "Ремонт и отделка")
	s.Require().NoError(err)
	s.Equal("0123456789", *partner.TaxID)
	s.Nil(partner.Rating)

	carpet, err := s.store.ProductTypes.GetByName(s.ctx, "Ковровое покрытие")
	s.Require().NoError(err)
	s.Equal("3.5", carpet.Coefficient.String())

	rug, err := s.store.Products.GetByName(s.ctx, "Ковер")
	s.Require().NoError(err)
	s.Nil(rug.Article)
	s.False(rug.MinPartnerPrice.Valid)

	oak, err := s.store.Products.GetByArticle(s.ctx, 8758385)
	s.Require().NoError(err)
	s.Equal("4456.90", oak.MinPartnerPrice.Decimal.StringFixed(2))

	builder, err := s.store.Partners.GetByName(s.ctx, "База Строитель")
	s.Require().NoError(err)
	history, err := s.store.Sales.GetByPartnerID(s.ctx, builder.ID)
	s.Require().NoError(err)
	s.Require().Len(history, 2)
	s.Equal("2023-12-18", history[0].SaleDate.Format("2006-01-02"))
	s.Equal("2023-03-23", history[1].SaleDate.Format("2006-01-02"))
}

func (s *PipelineTestSuite) TestRun_PartnerTypesInSourceOrder() {
	existing := &entity.PartnerType{Name: "ООО"}
	s.Require().NoError(s.store.PartnerTypes.Create(s.ctx, existing))

	report, err := s.run()
	s.Require().NoError(err)

	// ООО уже был, дубликат ЗАО в источнике пропущен
	s.Equal(2, s.imported(report, StagePartnerTypes))

	closed, err := s.store.PartnerTypes.GetByName(s.ctx, "ЗАО")
	s.Require().NoError(err)
	public, err := s.store.PartnerTypes.GetByName(s.ctx, "ПАО")
	s.Require().NoError(err)
	s.Greater(closed.ID, existing.ID)
	s.Greater(public.ID, closed.ID)
}

// ===================== Soft/Hard Failure Asymmetry =====================

func (s *PipelineTestSuite) TestRun_UnknownSaleReferencesAreSkippedNotFatal() {
	report, err := s.run()
	s.Require().NoError(err)

	skipped := report.Skipped()
	s.Require().Len(skipped, 2)

	s.Equal(StageSales, skipped[0].Stage)
	s.Equal(4, skipped[0].Row)
	s.ErrorIs(skipped[0], apperror.ErrReferenceNotFound)
	s.Contains(skipped[0].Error(), "Неизвестный партнёр")

	s.Equal(6, skipped[1].Row)
	s.ErrorIs(skipped[1], apperror.ErrReferenceNotFound)

	// Строки после пропущенных обработаны
	s.Equal(int64(59050), s.total("Стройсервис"))
}

func (s *PipelineTestSuite) TestRun_UnknownProductTypeIsFatal() {
	s.writeCSV(ProductsFile, productsHeader,
		[]string{"Ламинат", "Ламинат Дуб", "8758385", "4456.90"},
		[]string{"Плитка", "Плитка настенная", "1000001", "500"},
	)

	// Act
	report, err := s.run()

	// Assert
	s.Require().Error(err)
	s.ErrorIs(err, apperror.ErrReferenceNotFound)

	var rowErr *RowError
	s.Require().True(errors.As(err, &rowErr))
	s.Equal(StageProducts, rowErr.Stage)
	s.Equal(3, rowErr.Row)

	// Зафиксирован только первый этап
	s.Require().Len(report.Stages, 1)
	s.Equal(StageProductTypes, report.Stages[0].Name)

	types, err := s.store.ProductTypes.GetAll(s.ctx)
	s.Require().NoError(err)
	s.Len(types, 3)

	products, err := s.store.Products.GetAll(s.ctx)
	s.Require().NoError(err)
	s.Empty(products, "products stage must be rolled back entirely")

	materials, err := s.store.MaterialTypes.GetAll(s.ctx)
	s.Require().NoError(err)
	s.Empty(materials, "later stages must not run")

	s.Equal(1, s.invalidator.calls)
}

func (s *PipelineTestSuite) TestRun_UnparseableQuantityAbortsRun() {
	s.writeCSV(SalesFile, salesHeader,
		[]string{"Ламинат Дуб", "База Строитель", "15500", "2023-03-23"},
		[]string{"Ламинат Дуб", "Паркет 29", "много", ""},
	)

	report, err := s.run()

	s.ErrorIs(err, apperror.ErrInvalidValue)
	s.Len(report.Stages, 5)
	_, committed := report.Stage(StageSales)
	s.False(committed)
	s.Equal(int64(0), s.total("База Строитель"))
}

func (s *PipelineTestSuite) TestRun_DuplicateProductTypeIsConstraintViolation() {
	s.writeCSV(ProductTypesFile, productTypesHeader,
		[]string{"Ламинат", "2.35"},
		[]string{"Ламинат", "2.50"},
	)

	report, err := s.run()

	s.ErrorIs(err, apperror.ErrConstraintViolation)
	s.Empty(report.Stages)
	s.Zero(s.invalidator.calls)
}

// ===================== Edge Cases =====================

func (s *PipelineTestSuite) TestRun_EmptySourcesAreLegal() {
	s.writeCSV(ProductTypesFile, productTypesHeader)
	s.writeCSV(ProductsFile, productsHeader)
	s.writeCSV(MaterialTypesFile, materialTypesHeader)
	s.writeCSV(PartnersFile, partnersHeader)
	s.Require().NoError(os.WriteFile(filepath.Join(s.dir, SalesFile+".csv"), nil, 0o644))

	report, err := s.run()

	s.Require().NoError(err)
	s.Require().Len(report.Stages, 6)
	for _, stage := range report.Stages {
		s.Zero(stage.Imported, stage.Name)
		s.Empty(stage.Skipped, stage.Name)
	}
}

func (s *PipelineTestSuite) TestRun_MissingColumnIsInvalidSource() {
	s.writeCSV(MaterialTypesFile, []string{"Тип материала"}, []string{"Тип материала 1"})

	report, err := s.run()

	s.ErrorIs(err, apperror.ErrInvalidSource)
	s.Len(report.Stages, 2)
}

func (s *PipelineTestSuite) TestRun_CustomColumns() {
	columns := DefaultColumns()
	columns.ProductTypes = ProductTypeColumns{Name: "Product type", Coefficient: "Coefficient"}
	s.pipeline = NewPipeline(s.store, WithColumns(columns))

	s.writeCSV(ProductTypesFile, []string{"Product type", "Coefficient"},
		[]string{"Ламинат", "2.35"},
		[]string{"Массив дерева", "5.15"},
		[]string{"Ковровое покрытие", "3,5"},
	)

	report, err := s.run()

	s.Require().NoError(err)
	s.Require().Len(report.Stages, 6)
	s.Equal(3, s.imported(report, StageProductTypes))
	s.Equal(3, s.imported(report, StageProducts))
	s.Equal(4, s.imported(report, StageSales))
	s.Equal(int64(27850), s.total("База Строитель"))
}

func (s *PipelineTestSuite) TestRun_MissingPartnerTypeColumnFailsPartnerTypesStage() {
	s.writeCSV(PartnersFile, partnersHeader[1:],
		[]string{"База Строитель", "Иванова Александра Ивановна", "aleksandraivanova@ml.ru", "493 123 45 67", "652050, Кемеровская область, город Юрга, ул. Лесная, 15", "2222455179", "7"},
	)

	report, err := s.run()

	s.ErrorIs(err, apperror.ErrInvalidSource)
	s.Contains(err.Error(), StagePartnerTypes+" source")
	s.Len(report.Stages, 3)
}

func (s *PipelineTestSuite) TestRun_SalesFromXLSX() {
	s.Require().NoError(os.Remove(filepath.Join(s.dir, SalesFile+".csv")))

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	header := make([]interface{}, len(salesHeader))
	for i, h := range salesHeader {
		header[i] = h
	}
	s.Require().NoError(f.SetSheetRow(sheet, "A1", &header))
	s.Require().NoError(f.SetSheetRow(sheet, "A2", &[]interface{}{"Ламинат Дуб", "Паркет 29", 15500, 45374}))
	s.Require().NoError(f.SetSheetRow(sheet, "A3", &[]interface{}{"Ламинат Дуб", "Нет такого", 1, 45374}))
	s.Require().NoError(f.SaveAs(filepath.Join(s.dir, SalesFile+".xlsx")))
	s.Require().NoError(f.Close())

	report, err := s.run()

	s.Require().NoError(err)
	s.Equal(1, s.imported(report, StageSales))
	s.Require().Len(report.Skipped(), 1)
	s.Equal(3, report.Skipped()[0].Row)

	partner, err := s.store.Partners.GetByName(s.ctx, "Паркет 29")
	s.Require().NoError(err)
	history, err := s.store.Sales.GetByPartnerID(s.ctx, partner.ID)
	s.Require().NoError(err)
	s.Require().Len(history, 1)
	s.Equal("2024-03-23", history[0].SaleDate.Format("2006-01-02"))
}

func TestRowError(t *testing.T) {
	err := &RowError{Stage: StageProducts, Row: 7, Err: apperror.Reference("product type %q", "Плитка")}

	require.ErrorIs(t, err, apperror.ErrReferenceNotFound)
	require.Equal(t, `products: row 7: reference not found: product type "Плитка"`, err.Error())
}

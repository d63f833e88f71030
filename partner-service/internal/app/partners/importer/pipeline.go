package importer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"partnerhub/partner-service/internal/app/partners/apperror"
	"partnerhub/partner-service/internal/app/partners/entity"
	"partnerhub/partner-service/internal/app/partners/repository"
	"partnerhub/pkg/logger"
	"partnerhub/pkg/metrics"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// Invalidator сбрасывает производные данные (кеш справочников) после импорта
type Invalidator interface {
	Invalidate(ctx context.Context) error
}

// Pipeline загружает пять источников в хранилище в фиксированном порядке
// Каждый этап - отдельная транзакция, следующий этап начинается после фиксации предыдущего
type Pipeline struct {
	store       *repository.Store
	columns     Columns
	invalidator Invalidator
}

type Option func(*Pipeline)

// WithColumns задаёт заголовки колонок источников
func WithColumns(columns Columns) Option {
	return func(p *Pipeline) {
		p.columns = columns
	}
}

// WithInvalidator задаёт кеш, сбрасываемый после импорта
func WithInvalidator(invalidator Invalidator) Option {
	return func(p *Pipeline) {
		p.invalidator = invalidator
	}
}

func NewPipeline(store *repository.Store, opts ...Option) *Pipeline {
	p := &Pipeline{
		store:   store,
		columns: DefaultColumns(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

type stageFunc func(ctx context.Context, st *repository.Stage, table *Table, res *StageResult, log zerolog.Logger) error

// Run выполняет шесть этапов. При ошибке отчёт содержит этапы, зафиксированные до сбоя
func (p *Pipeline) Run(ctx context.Context, src *Sources) (*Report, error) {
	report := &Report{RunID: uuid.New()}
	log := logger.With().Str("run_id", report.RunID.String()).Logger()

	stages := []struct {
		name  string
		table *Table
		run   stageFunc
	}{
		{StageProductTypes, src.ProductTypes, p.loadProductTypes},
		{StageProducts, src.Products, p.loadProducts},
		{StageMaterialTypes, src.MaterialTypes, p.loadMaterialTypes},
		{StagePartnerTypes, src.Partners, p.loadPartnerTypes},
		{StagePartners, src.Partners, p.loadPartners},
		{StageSales, src.Sales, p.loadSales},
	}

	log.Info().Msg("Import started")

	var runErr error
	for _, stage := range stages {
		if err := p.runStage(ctx, report, stage.name, stage.table, stage.run, log); err != nil {
			runErr = err
			break
		}
	}

	if len(report.Stages) > 0 && p.invalidator != nil {
		if err := p.invalidator.Invalidate(ctx); err != nil {
			log.Warn().Err(err).Msg("Failed to invalidate reference cache")
		}
	}

	if runErr != nil {
		log.Error().Err(runErr).Int("committed_stages", len(report.Stages)).Msg("Import failed")
		return report, runErr
	}

	log.Info().Int("skipped_rows", len(report.Skipped())).Msg("Import finished")
	return report, nil
}

func (p *Pipeline) runStage(ctx context.Context, report *Report, name string, table *Table, run stageFunc, log zerolog.Logger) (err error) {
	start := time.Now()
	log = log.With().Str("stage", name).Logger()

	st, err := p.store.BeginStage(ctx, name)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			if abortErr := st.Abort(); abortErr != nil {
				log.Error().Err(abortErr).Msg("Failed to abort stage")
			}
			metrics.RecordImportStage(name, false, time.Since(start))
			log.Error().Err(err).Msg("Import stage aborted")
		}
	}()

	if table == nil {
		table = &Table{}
	}

	res := StageResult{Name: name}
	if err := run(ctx, st, table, &res, log); err != nil {
		return err
	}
	if err := st.Commit(); err != nil {
		return err
	}

	metrics.RecordImportStage(name, true, time.Since(start))
	log.Info().Int("imported", res.Imported).Int("skipped", len(res.Skipped)).Msg("Import stage committed")

	report.Stages = append(report.Stages, res)
	return nil
}

// rows обходит непустые строки таблицы
func rows(table *Table, index map[string]int, fn func(r record) error) error {
	for i, values := range table.Rows {
		r := record{values: values, index: index, line: table.line(i)}
		if r.blank() {
			continue
		}
		if err := fn(r); err != nil {
			return err
		}
	}
	return nil
}

func rowError(stage string, r record, err error) error {
	return &RowError{Stage: stage, Row: r.line, Err: err}
}

// === STAGE 1: PRODUCT TYPES ===

func (p *Pipeline) loadProductTypes(ctx context.Context, st *repository.Stage, table *Table, res *StageResult, _ zerolog.Logger) error {
	if table.Len() == 0 {
		return nil
	}
	cols := p.columns.ProductTypes
	index, err := columnIndex(table, StageProductTypes, cols.Name, cols.Coefficient)
	if err != nil {
		return err
	}

	return rows(table, index, func(r record) error {
		name, err := r.required(cols.Name)
		if err != nil {
			return rowError(StageProductTypes, r, err)
		}
		raw, err := r.required(cols.Coefficient)
		if err != nil {
			return rowError(StageProductTypes, r, err)
		}
		coefficient, err := parseDecimal(cols.Coefficient, raw)
		if err != nil {
			return rowError(StageProductTypes, r, err)
		}

		if err := st.ProductTypes.Create(ctx, &entity.ProductType{Name: name, Coefficient: coefficient}); err != nil {
			return rowError(StageProductTypes, r, err)
		}
		res.Imported++
		metrics.RecordImportRow(StageProductTypes, true)
		return nil
	})
}

// === STAGE 2: PRODUCTS ===

func (p *Pipeline) loadProducts(ctx context.Context, st *repository.Stage, table *Table, res *StageResult, _ zerolog.Logger) error {
	if table.Len() == 0 {
		return nil
	}
	cols := p.columns.Products
	index, err := columnIndex(table, StageProducts, cols.Type, cols.Article, cols.Name, cols.MinPartnerPrice)
	if err != nil {
		return err
	}

	return rows(table, index, func(r record) error {
		typeName, err := r.required(cols.Type)
		if err != nil {
			return rowError(StageProducts, r, err)
		}
		name, err := r.required(cols.Name)
		if err != nil {
			return rowError(StageProducts, r, err)
		}

		// Неизвестный тип продукции - фатальная ошибка этапа
		productType, err := st.ProductTypes.GetByName(ctx, typeName)
		if err != nil {
			return rowError(StageProducts, r, reference(err, "product type %q", typeName))
		}

		product := &entity.Product{ProductTypeID: productType.ID, Name: name}
		if raw := r.optional(cols.Article); raw != nil {
			article, err := parseInt(cols.Article, *raw)
			if err != nil {
				return rowError(StageProducts, r, err)
			}
			product.Article = &article
		}
		if raw := r.optional(cols.MinPartnerPrice); raw != nil {
			price, err := parseDecimal(cols.MinPartnerPrice, *raw)
			if err != nil {
				return rowError(StageProducts, r, err)
			}
			product.MinPartnerPrice = decimal.NewNullDecimal(price)
		}

		if err := st.Products.Create(ctx, product); err != nil {
			return rowError(StageProducts, r, err)
		}
		res.Imported++
		metrics.RecordImportRow(StageProducts, true)
		return nil
	})
}

// === STAGE 3: MATERIAL TYPES ===

func (p *Pipeline) loadMaterialTypes(ctx context.Context, st *repository.Stage, table *Table, res *StageResult, _ zerolog.Logger) error {
	if table.Len() == 0 {
		return nil
	}
	cols := p.columns.MaterialTypes
	index, err := columnIndex(table, StageMaterialTypes, cols.Name, cols.DefectPercentage)
	if err != nil {
		return err
	}

	return rows(table, index, func(r record) error {
		name, err := r.required(cols.Name)
		if err != nil {
			return rowError(StageMaterialTypes, r, err)
		}
		raw, err := r.required(cols.DefectPercentage)
		if err != nil {
			return rowError(StageMaterialTypes, r, err)
		}
		defect, err := parseDecimal(cols.DefectPercentage, raw)
		if err != nil {
			return rowError(StageMaterialTypes, r, err)
		}

		if err := st.MaterialTypes.Create(ctx, &entity.MaterialType{Name: name, DefectPercentage: defect}); err != nil {
			return rowError(StageMaterialTypes, r, err)
		}
		res.Imported++
		metrics.RecordImportRow(StageMaterialTypes, true)
		return nil
	})
}

// === STAGE 4: PARTNER TYPES ===

// loadPartnerTypes создает типы партнёров, встречающиеся в источнике партнёров,
// в порядке первого появления. Уже существующие типы пропускаются
func (p *Pipeline) loadPartnerTypes(ctx context.Context, st *repository.Stage, table *Table, res *StageResult, _ zerolog.Logger) error {
	if table.Len() == 0 {
		return nil
	}
	cols := p.columns.Partners
	index, err := columnIndex(table, StagePartnerTypes, cols.Type)
	if err != nil {
		return err
	}

	seen := make(map[string]bool)
	return rows(table, index, func(r record) error {
		name, err := r.required(cols.Type)
		if err != nil {
			return rowError(StagePartnerTypes, r, err)
		}
		if seen[name] {
			return nil
		}
		seen[name] = true

		_, err = st.PartnerTypes.GetByName(ctx, name)
		if err == nil {
			return nil
		}
		if !errors.Is(err, apperror.ErrNotFound) {
			return rowError(StagePartnerTypes, r, err)
		}

		if err := st.PartnerTypes.Create(ctx, &entity.PartnerType{Name: name}); err != nil {
			return rowError(StagePartnerTypes, r, err)
		}
		res.Imported++
		metrics.RecordImportRow(StagePartnerTypes, true)
		return nil
	})
}

// === STAGE 5: PARTNERS ===

func (p *Pipeline) loadPartners(ctx context.Context, st *repository.Stage, table *Table, res *StageResult, _ zerolog.Logger) error {
	if table.Len() == 0 {
		return nil
	}
	cols := p.columns.Partners
	index, err := columnIndex(table, StagePartners,
		cols.Type, cols.Name, cols.Director, cols.Email, cols.Phone, cols.LegalAddress, cols.TaxID, cols.Rating)
	if err != nil {
		return err
	}

	return rows(table, index, func(r record) error {
		typeName, err := r.required(cols.Type)
		if err != nil {
			return rowError(StagePartners, r, err)
		}
		name, err := r.required(cols.Name)
		if err != nil {
			return rowError(StagePartners, r, err)
		}

		// Тип создан на этапе 4, отсутствие - нарушение предусловия
		partnerType, err := st.PartnerTypes.GetByName(ctx, typeName)
		if err != nil {
			return rowError(StagePartners, r, reference(err, "partner type %q", typeName))
		}

		partner := &entity.Partner{
			PartnerTypeID: partnerType.ID,
			Name:          name,
			LegalAddress:  r.optional(cols.LegalAddress),
			Director:      r.optional(cols.Director),
			Phone:         r.optional(cols.Phone),
			Email:         r.optional(cols.Email),
		}
		if raw := r.optional(cols.TaxID); raw != nil {
			taxID, err := normalizeTaxID(cols.TaxID, *raw)
			if err != nil {
				return rowError(StagePartners, r, err)
			}
			partner.TaxID = &taxID
		}
		if raw := r.optional(cols.Rating); raw != nil {
			rating, err := parseInt(cols.Rating, *raw)
			if err != nil {
				return rowError(StagePartners, r, err)
			}
			value := int(rating)
			partner.Rating = &value
		}

		if err := st.Partners.Create(ctx, partner); err != nil {
			return rowError(StagePartners, r, err)
		}
		res.Imported++
		metrics.RecordImportRow(StagePartners, true)
		return nil
	})
}

// === STAGE 6: SALES ===

// loadSales - единственный этап с мягкой обработкой: строка с неизвестным
// партнёром или продукцией пропускается и попадает в отчёт
func (p *Pipeline) loadSales(ctx context.Context, st *repository.Stage, table *Table, res *StageResult, log zerolog.Logger) error {
	if table.Len() == 0 {
		return nil
	}
	cols := p.columns.Sales
	index, err := columnIndex(table, StageSales, cols.Product, cols.Partner, cols.Quantity, cols.SaleDate)
	if err != nil {
		return err
	}

	return rows(table, index, func(r record) error {
		partnerName := r.get(cols.Partner)
		productName := r.get(cols.Product)

		partner, err := st.Partners.GetByName(ctx, partnerName)
		if err != nil {
			return p.skipSale(res, r, reference(err, "partner %q", partnerName), log)
		}
		product, err := st.Products.GetByName(ctx, productName)
		if err != nil {
			return p.skipSale(res, r, reference(err, "product %q", productName), log)
		}

		raw, err := r.required(cols.Quantity)
		if err != nil {
			return rowError(StageSales, r, err)
		}
		quantity, err := parseInt(cols.Quantity, raw)
		if err != nil {
			return rowError(StageSales, r, err)
		}

		sale := &entity.Sale{PartnerID: partner.ID, ProductID: product.ID, Quantity: &quantity}
		if rawDate := r.optional(cols.SaleDate); rawDate != nil {
			if sale.SaleDate, err = parseDate(cols.SaleDate, *rawDate); err != nil {
				return rowError(StageSales, r, err)
			}
		}

		if err := st.Sales.Create(ctx, sale); err != nil {
			return rowError(StageSales, r, err)
		}
		res.Imported++
		metrics.RecordImportRow(StageSales, true)
		return nil
	})
}

// skipSale записывает пропуск строки; прочие ошибки поиска остаются фатальными
func (p *Pipeline) skipSale(res *StageResult, r record, err error, log zerolog.Logger) error {
	if !errors.Is(err, apperror.ErrReferenceNotFound) {
		return rowError(StageSales, r, err)
	}

	rowErr := &RowError{Stage: StageSales, Row: r.line, Err: err}
	res.Skipped = append(res.Skipped, rowErr)
	metrics.RecordImportRow(StageSales, false)
	log.Warn().Int("row", r.line).Err(err).Msg("Sale row skipped")
	return nil
}

// reference переводит ErrNotFound поиска по имени в ErrReferenceNotFound
func reference(err error, format string, args ...interface{}) error {
	if errors.Is(err, apperror.ErrNotFound) {
		return apperror.Reference(format, args...)
	}
	return fmt.Errorf("failed to resolve %s: %w", fmt.Sprintf(format, args...), err)
}

package importer

import (
	"fmt"

	"github.com/google/uuid"
)

// Этапы импорта в порядке выполнения
const (
	StageProductTypes  = "product_types"
	StageProducts      = "products"
	StageMaterialTypes = "material_types"
	StagePartnerTypes  = "partner_types"
	StagePartners      = "partners"
	StageSales         = "partner_products"
)

// RowError - ошибка конкретной строки источника
// Row - номер строки в файле, заголовок - строка 1
type RowError struct {
	Stage string
	Row   int
	Err   error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("%s: row %d: %v", e.Stage, e.Row, e.Err)
}

func (e *RowError) Unwrap() error {
	return e.Err
}

// StageResult - итог зафиксированного этапа
type StageResult struct {
	Name     string      `json:"name"`
	Imported int         `json:"imported"`
	Skipped  []*RowError `json:"-"`
}

// Report - итог запуска импорта
// Stages содержит только зафиксированные этапы
type Report struct {
	RunID  uuid.UUID     `json:"run_id"`
	Stages []StageResult `json:"stages"`
}

// Stage возвращает результат этапа по имени
func (r *Report) Stage(name string) (StageResult, bool) {
	for _, st := range r.Stages {
		if st.Name == name {
			return st, true
		}
	}
	return StageResult{}, false
}

// Skipped возвращает все пропущенные строки запуска
func (r *Report) Skipped() []*RowError {
	var skipped []*RowError
	for _, st := range r.Stages {
		skipped = append(skipped, st.Skipped...)
	}
	return skipped
}

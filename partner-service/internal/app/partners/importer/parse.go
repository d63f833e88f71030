package importer

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"partnerhub/partner-service/internal/app/partners/apperror"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// record - строка источника с доступом к значениям по заголовку
type record struct {
	values []string
	index  map[string]int
	line   int
}

// columnIndex находит позиции нужных колонок. Заголовки сравниваются без пробелов по краям
func columnIndex(t *Table, source string, names ...string) (map[string]int, error) {
	positions := make(map[string]int, len(t.Header))
	for i, h := range t.Header {
		h = strings.TrimSpace(h)
		if _, dup := positions[h]; !dup {
			positions[h] = i
		}
	}

	index := make(map[string]int, len(names))
	for _, name := range names {
		pos, ok := positions[strings.TrimSpace(name)]
		if !ok {
			return nil, fmt.Errorf("%w: %s source has no column %q", apperror.ErrInvalidSource, source, name)
		}
		index[name] = pos
	}
	return index, nil
}

// get возвращает значение колонки без пробелов по краям; недостающая ячейка - пустая строка
func (r record) get(column string) string {
	pos := r.index[column]
	if pos >= len(r.values) {
		return ""
	}
	return strings.TrimSpace(r.values[pos])
}

func (r record) blank() bool {
	for _, v := range r.values {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// required возвращает непустое значение или ErrInvalidValue
func (r record) required(column string) (string, error) {
	v := r.get(column)
	if v == "" {
		return "", apperror.InvalidValue("%q is required", column)
	}
	return v, nil
}

// optional возвращает nil для пустой ячейки
func (r record) optional(column string) *string {
	v := r.get(column)
	if v == "" || isMissing(v) {
		return nil
	}
	return &v
}

// Так пустые ячейки выглядят после выгрузки из pandas/Excel
func isMissing(v string) bool {
	switch strings.ToLower(v) {
	case "nan", "nat", "none", "null":
		return true
	}
	return false
}

// parseDecimal разбирает число, допускается десятичная запятая
func parseDecimal(column, v string) (decimal.Decimal, error) {
	normalized := strings.ReplaceAll(strings.ReplaceAll(v, " ", ""), ",", ".")
	d, err := decimal.NewFromString(normalized)
	if err != nil {
		return decimal.Zero, apperror.InvalidValue("%q: %q is not a number", column, v)
	}
	return d, nil
}

// parseInt разбирает целое; значения вида "15500.0" из Excel тоже допустимы
func parseInt(column, v string) (int64, error) {
	if n, err := strconv.ParseInt(v, 10, 64); err == nil {
		return n, nil
	}

	d, err := parseDecimal(column, v)
	if err != nil {
		return 0, err
	}
	if !d.IsInteger() || !d.BigInt().IsInt64() {
		return 0, apperror.InvalidValue("%q: %q is not an integer", column, v)
	}
	return d.IntPart(), nil
}

// normalizeTaxID дополняет ИНН ведущими нулями до 10 знаков
func normalizeTaxID(column, v string) (string, error) {
	n, err := parseInt(column, v)
	if err != nil {
		return "", err
	}
	if n < 0 {
		return "", apperror.InvalidValue("%q: %q is negative", column, v)
	}
	return fmt.Sprintf("%010d", n), nil
}

var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"02.01.2006",
	"2.1.2006",
	"02.01.2006 15:04:05",
	"2006/01/02",
	"01/02/2006",
}

// parseDate разбирает дату в одном из известных форматов или серийный номер Excel
func parseDate(column, v string) (*time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			date := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
			return &date, nil
		}
	}

	if serial, err := strconv.ParseFloat(v, 64); err == nil && serial > 0 {
		t, err := excelize.ExcelDateToTime(serial, false)
		if err == nil {
			date := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
			return &date, nil
		}
	}

	return nil, apperror.InvalidValue("%q: %q is not a date", column, v)
}

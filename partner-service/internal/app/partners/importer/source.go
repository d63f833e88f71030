package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"partnerhub/partner-service/internal/app/partners/apperror"

	"github.com/xuri/excelize/v2"
)

// Table - содержимое одного источника: строка заголовков и строки данных
// Lines хранит номер строки в файле для каждой строки данных (заголовок - строка 1)
type Table struct {
	Header []string
	Rows   [][]string
	Lines  []int
}

// Len возвращает число строк данных
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

func (t *Table) line(i int) int {
	if i < len(t.Lines) {
		return t.Lines[i]
	}
	return i + 2
}

// Sources - пять независимых источников импорта
type Sources struct {
	ProductTypes  *Table
	Products      *Table
	MaterialTypes *Table
	Partners      *Table
	Sales         *Table
}

// Имена файлов в каталоге импорта, расширение .xlsx или .csv
const (
	ProductTypesFile  = "Product_type_import"
	ProductsFile      = "Products_import"
	MaterialTypesFile = "Material_type_import"
	PartnersFile      = "Partners_import"
	SalesFile         = "Partner_products_import"
)

var sourceExtensions = []string{".xlsx", ".csv"}

// LoadDir читает пять источников из каталога
func LoadDir(dir string) (*Sources, error) {
	load := func(base string) (*Table, error) {
		for _, ext := range sourceExtensions {
			path := filepath.Join(dir, base+ext)
			if _, err := os.Stat(path); err == nil {
				return ReadFile(path)
			}
		}
		return nil, fmt.Errorf("%w: %s not found in %s (expected .xlsx or .csv)", apperror.ErrInvalidSource, base, dir)
	}

	var (
		sources Sources
		err     error
	)
	if sources.ProductTypes, err = load(ProductTypesFile); err != nil {
		return nil, err
	}
	if sources.Products, err = load(ProductsFile); err != nil {
		return nil, err
	}
	if sources.MaterialTypes, err = load(MaterialTypesFile); err != nil {
		return nil, err
	}
	if sources.Partners, err = load(PartnersFile); err != nil {
		return nil, err
	}
	if sources.Sales, err = load(SalesFile); err != nil {
		return nil, err
	}
	return &sources, nil
}

// ReadFile читает таблицу из CSV или XLSX файла по расширению
func ReadFile(path string) (*Table, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		file, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to open %s: %v", apperror.ErrInvalidSource, path, err)
		}
		defer file.Close()

		table, err := ReadCSV(file)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		return table, nil
	case ".xlsx":
		return ReadXLSX(path)
	default:
		return nil, fmt.Errorf("%w: unsupported file type %s", apperror.ErrInvalidSource, path)
	}
}

// ReadCSV читает таблицу из CSV. Пустой поток - пустая таблица
func ReadCSV(r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	table := &Table{}
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: failed to read CSV: %v", apperror.ErrInvalidSource, err)
		}

		if table.Header == nil {
			// Excel сохраняет CSV в UTF-8 с BOM
			record[0] = strings.TrimPrefix(record[0], "\ufeff")
			table.Header = record
			continue
		}

		line, _ := reader.FieldPos(0)
		table.Rows = append(table.Rows, record)
		table.Lines = append(table.Lines, line)
	}

	return table, nil
}

// ReadXLSX читает первый лист книги. Значения берутся без форматирования,
// даты приходят серийными номерами Excel
func ReadXLSX(path string) (*Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open %s: %v", apperror.ErrInvalidSource, path, err)
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0), excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read %s: %v", apperror.ErrInvalidSource, path, err)
	}

	table := &Table{}
	if len(rows) == 0 {
		return table, nil
	}

	table.Header = rows[0]
	for i, row := range rows[1:] {
		table.Rows = append(table.Rows, row)
		table.Lines = append(table.Lines, i+2)
	}
	return table, nil
}

package importer

import (
	"fmt"
	"os"

	"partnerhub/partner-service/internal/app/partners/apperror"

	"gopkg.in/yaml.v3"
)

// Columns - соответствие полей сущностей заголовкам колонок источников
type Columns struct {
	ProductTypes  ProductTypeColumns  `yaml:"product_types"`
	Products      ProductColumns      `yaml:"products"`
	MaterialTypes MaterialTypeColumns `yaml:"material_types"`
	Partners      PartnerColumns      `yaml:"partners"`
	Sales         SaleColumns         `yaml:"sales"`
}

type ProductTypeColumns struct {
	Name        string `yaml:"name"`
	Coefficient string `yaml:"coefficient"`
}

type ProductColumns struct {
	Type            string `yaml:"type"`
	Article         string `yaml:"article"`
	Name            string `yaml:"name"`
	MinPartnerPrice string `yaml:"min_partner_price"`
}

type MaterialTypeColumns struct {
	Name             string `yaml:"name"`
	DefectPercentage string `yaml:"defect_percentage"`
}

type PartnerColumns struct {
	Type         string `yaml:"type"`
	Name         string `yaml:"name"`
	Director     string `yaml:"director"`
	Email        string `yaml:"email"`
	Phone        string `yaml:"phone"`
	LegalAddress string `yaml:"legal_address"`
	TaxID        string `yaml:"tax_id"`
	Rating       string `yaml:"rating"`
}

type SaleColumns struct {
	Product  string `yaml:"product"`
	Partner  string `yaml:"partner"`
	Quantity string `yaml:"quantity"`
	SaleDate string `yaml:"sale_date"`
}

// DefaultColumns возвращает заголовки исходных таблиц Excel
func DefaultColumns() Columns {
	return Columns{
		ProductTypes: ProductTypeColumns{
			Name:        "Тип продукции",
			Coefficient: "Коэффициент типа продукции",
		},
		Products: ProductColumns{
			Type:            "Тип продукции",
			Article:         "Артикул",
			Name:            "Наименование продукции",
			MinPartnerPrice: "Минимальная стоимость для партнера",
		},
		MaterialTypes: MaterialTypeColumns{
			Name:             "Тип материала",
			DefectPercentage: "Процент брака материала",
		},
		Partners: PartnerColumns{
			Type:         "Тип партнера",
			Name:         "Наименование партнера",
			Director:     "Директор",
			Email:        "Электронная почта партнера",
			Phone:        "Телефон партнера",
			LegalAddress: "Юридический адрес партнера",
			TaxID:        "ИНН",
			Rating:       "Рейтинг",
		},
		Sales: SaleColumns{
			Product:  "Продукция",
			Partner:  "Наименование партнера",
			Quantity: "Количество продукции",
			SaleDate: "Дата продажи",
		},
	}
}

// LoadColumns читает YAML поверх значений по умолчанию
// Не указанные в файле колонки сохраняют заголовки по умолчанию
func LoadColumns(path string) (Columns, error) {
	columns := DefaultColumns()

	data, err := os.ReadFile(path)
	if err != nil {
		return columns, fmt.Errorf("%w: failed to read columns file: %v", apperror.ErrInvalidSource, err)
	}
	if err := yaml.Unmarshal(data, &columns); err != nil {
		return columns, fmt.Errorf("%w: failed to parse columns file %s: %v", apperror.ErrInvalidSource, path, err)
	}

	return columns, nil
}

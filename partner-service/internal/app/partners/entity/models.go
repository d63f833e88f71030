package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Масштаб десятичных колонок. Значения округляются до записи,
// чтобы SQLite хранил то же, что PostgreSQL
const (
	CoefficientScale = 4 // decimal(10,4)
	DefectScale      = 4 // decimal(10,4)
	PriceScale       = 2 // decimal(12,2)
)

// PartnerType - классификация партнёров (дистрибьютор, розница и т.п.)
type PartnerType struct {
	ID   uint   `json:"id" gorm:"primaryKey"`
	Name string `json:"name" gorm:"size:50;not null;uniqueIndex"`
}

// TableName указывает имя таблицы для GORM
func (PartnerType) TableName() string {
	return "partner_types"
}

// Partner представляет компанию-покупателя продукции
// Связь с типом хранится только как внешний ключ PartnerTypeID
type Partner struct {
	ID            uint    `json:"id" gorm:"primaryKey"`
	PartnerTypeID uint    `json:"partner_type_id" gorm:"not null;index"`
	Name          string  `json:"name" gorm:"size:255;not null;index"`
	LegalAddress  *string `json:"legal_address,omitempty" gorm:"type:text"`
	TaxID         *string `json:"tax_id,omitempty" gorm:"column:tax_id;size:10"` // ИНН, ровно 10 цифр
	Director      *string `json:"director,omitempty" gorm:"size:255"`
	Phone         *string `json:"phone,omitempty" gorm:"size:50"`
	Email         *string `json:"email,omitempty" gorm:"size:255"`
	Rating        *int    `json:"rating,omitempty" gorm:"check:chk_partners_rating,rating IS NULL OR (rating >= 0 AND rating <= 100)"`
}

// TableName указывает имя таблицы для GORM
func (Partner) TableName() string {
	return "partners"
}

// ProductType - тип продукции с коэффициентом для расчёта материалов
type ProductType struct {
	ID          uint            `json:"id" gorm:"primaryKey"`
	Name        string          `json:"name" gorm:"size:100;not null;uniqueIndex"`
	Coefficient decimal.Decimal `json:"coefficient" gorm:"type:decimal(10,4);not null;check:chk_product_types_coefficient,coefficient > 0"`
}

// TableName указывает имя таблицы для GORM
func (ProductType) TableName() string {
	return "product_types"
}

// Product - позиция каталога продукции
type Product struct {
	ID              uint                `json:"id" gorm:"primaryKey"`
	ProductTypeID   uint                `json:"product_type_id" gorm:"not null;index"`
	Article         *int64              `json:"article,omitempty" gorm:"uniqueIndex"`
	Name            string              `json:"name" gorm:"size:255;not null;index"`
	MinPartnerPrice decimal.NullDecimal `json:"min_partner_price" gorm:"type:decimal(12,2)"` // Минимальная стоимость для партнёра
}

// TableName указывает имя таблицы для GORM
func (Product) TableName() string {
	return "products"
}

// MaterialType - тип материала с ожидаемым процентом брака
type MaterialType struct {
	ID               uint            `json:"id" gorm:"primaryKey"`
	Name             string          `json:"name" gorm:"size:100;not null;uniqueIndex"`
	DefectPercentage decimal.Decimal `json:"defect_percentage" gorm:"type:decimal(10,4);not null;check:chk_material_types_defect,defect_percentage >= 0 AND defect_percentage <= 100"`
}

// TableName указывает имя таблицы для GORM
func (MaterialType) TableName() string {
	return "material_types"
}

// Sale - запись о продаже продукции партнёру (partner_products)
// Неизменяемая история: создаётся импортом и больше не редактируется
type Sale struct {
	ID        uint       `json:"id" gorm:"primaryKey"`
	PartnerID uint       `json:"partner_id" gorm:"not null;index"`
	ProductID uint       `json:"product_id" gorm:"not null;index"`
	Quantity  *int64     `json:"quantity,omitempty" gorm:"check:chk_partner_products_quantity,quantity IS NULL OR quantity >= 0"`
	SaleDate  *time.Time `json:"sale_date,omitempty" gorm:"type:date"`
}

// TableName указывает имя таблицы для GORM
func (Sale) TableName() string {
	return "partner_products"
}

// PartnerWithType содержит партнёра с наименованием его типа (JOIN partner_types)
type PartnerWithType struct {
	Partner
	PartnerTypeName string `json:"partner_type_name"`
}

// SaleWithProduct содержит запись продажи с данными продукции (JOIN products)
type SaleWithProduct struct {
	Sale
	ProductName    string `json:"product_name"`
	ProductArticle *int64 `json:"product_article,omitempty"`
}

package entity

// SavePartnerRequest - данные формы создания/редактирования партнёра
// ID == 0 означает создание нового партнёра
type SavePartnerRequest struct {
	ID            uint   `json:"id"`
	PartnerTypeID uint   `json:"partner_type_id" validate:"required"`
	Name          string `json:"name" validate:"required,max=255"`
	LegalAddress  string `json:"legal_address"`
	TaxID         string `json:"tax_id" validate:"omitempty,tax_id"`
	Director      string `json:"director" validate:"max=255"`
	Phone         string `json:"phone" validate:"omitempty,max=50,partner_phone"`
	Email         string `json:"email" validate:"omitempty,max=255,partner_email"`
	Rating        *int   `json:"rating" validate:"omitempty,min=0,max=100"`
}

// PartnerCard - строка списка партнёров со скидкой
type PartnerCard struct {
	PartnerWithType
	TotalQuantity int64 `json:"total_quantity"`
	Discount      int   `json:"discount"`
}

// PartnerDiscount - результат расчёта скидки партнёра
type PartnerDiscount struct {
	PartnerID     uint  `json:"partner_id"`
	TotalQuantity int64 `json:"total_quantity"`
	Discount      int   `json:"discount"`
}

// PartnerHistory - история реализации продукции партнёру
type PartnerHistory struct {
	Partner PartnerWithType   `json:"partner"`
	Sales   []SaleWithProduct `json:"sales"`
}

// MaterialRequest - входные данные расчёта материалов
type MaterialRequest struct {
	ProductTypeID  uint    `json:"product_type_id"`
	MaterialTypeID uint    `json:"material_type_id"`
	Quantity       int64   `json:"quantity"`
	Param1         float64 `json:"param1"`
	Param2         float64 `json:"param2"`
}

package service

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"partnerhub/partner-service/internal/app/partners/apperror"
	"partnerhub/partner-service/internal/app/partners/entity"

	"github.com/go-playground/validator/v10"
)

// newValidator регистрирует теги форматов полей партнёра
func newValidator() *validator.Validate {
	v := validator.New()
	for tag, re := range partnerPatterns {
		if err := v.RegisterValidation(tag, matchPattern(re)); err != nil {
			panic(fmt.Sprintf("failed to register %s validation: %v", tag, err))
		}
	}
	return v
}

var partnerPatterns = map[string]*regexp.Regexp{
	"tax_id":        entity.TaxIDPattern,
	"partner_phone": entity.PhonePattern,
	"partner_email": entity.EmailPattern,
}

func matchPattern(re *regexp.Regexp) validator.Func {
	return func(fl validator.FieldLevel) bool {
		return re.MatchString(fl.Field().String())
	}
}

// fieldErrors собирает ошибки validator в apperror.FieldErrors
func fieldErrors(err error) error {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err
	}

	fields := make(map[string]string, len(validationErrors))
	for _, fieldError := range validationErrors {
		fields[fieldError.Field()] = fieldError.Field() + " is " + fieldError.Tag()
	}
	return &apperror.FieldErrors{Fields: fields}
}

func normalizeRequest(req *entity.SavePartnerRequest) {
	req.Name = strings.TrimSpace(req.Name)
	req.LegalAddress = strings.TrimSpace(req.LegalAddress)
	req.TaxID = strings.TrimSpace(req.TaxID)
	req.Director = strings.TrimSpace(req.Director)
	req.Phone = strings.TrimSpace(req.Phone)
	req.Email = strings.TrimSpace(req.Email)
}

// optional превращает пустую строку формы в отсутствующее значение
func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

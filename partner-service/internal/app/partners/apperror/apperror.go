// Package apperror содержит таксономию ошибок ядра каталога партнёров.
// Все слои оборачивают эти sentinel-ошибки через %w, вызывающий код
// различает их с помощью errors.Is.
package apperror

import (
	"errors"
	"fmt"
)

var (
	// ErrConstraintViolation - запись нарушила бы уникальность или внешний ключ
	ErrConstraintViolation = errors.New("constraint violation")
	// ErrReferenceNotFound - строка ссылается на имя, которого нет в справочнике
	ErrReferenceNotFound = errors.New("reference not found")
	// ErrNotFound - операция адресует несуществующий идентификатор
	ErrNotFound = errors.New("not found")
	// ErrComputation - расчёт материалов невозможен для переданных входных данных
	ErrComputation = errors.New("cannot compute")
	// ErrInvalidValue - значение поля не разбирается или вне допустимого диапазона
	ErrInvalidValue = errors.New("invalid value")
	// ErrInvalidSource - источник импорта не читается или в нём нет нужной колонки
	ErrInvalidSource = errors.New("invalid import source")
	// ErrValidation - данные формы партнёра не прошли проверку
	ErrValidation = errors.New("validation error")
)

func Constraint(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrConstraintViolation, fmt.Sprintf(format, args...))
}

func NotFound(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrNotFound, fmt.Sprintf(format, args...))
}

func Reference(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrReferenceNotFound, fmt.Sprintf(format, args...))
}

func InvalidValue(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidValue, fmt.Sprintf(format, args...))
}

func Computation(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrComputation, fmt.Sprintf(format, args...))
}

// FieldErrors - ошибки валидации формы по полям
type FieldErrors struct {
	Fields map[string]string
}

func (e *FieldErrors) Error() string {
	return fmt.Sprintf("%s: %v", ErrValidation.Error(), e.Fields)
}

func (e *FieldErrors) Unwrap() error {
	return ErrValidation
}

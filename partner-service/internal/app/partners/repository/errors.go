package repository

import (
	"errors"
	"fmt"
	"strings"

	"partnerhub/partner-service/internal/app/partners/apperror"
	"partnerhub/pkg/metrics"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const metricsService = "partner-service"

const (
	tablePartnerTypes  = "partner_types"
	tablePartners      = "partners"
	tableProductTypes  = "product_types"
	tableProducts      = "products"
	tableMaterialTypes = "material_types"
	tableSales         = "partner_products"
)

// track замеряет длительность операции репозитория
// Использование: defer track("create", tablePartners)(&err)
func track(operation, table string) func(*error) {
	timer := metrics.NewDbTimer(metricsService, operation, table)
	return func(err *error) {
		timer.ObserveDuration(*err)
	}
}

// translateError приводит ошибки драйверов к таксономии apperror
// Проверки перед записью ловят нарушения заранее, здесь - страховка
// на случай ограничений, сработавших на стороне БД
func translateError(err error, action string) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			return apperror.Constraint("%s: duplicate value violates %s", action, pgErr.ConstraintName)
		case "23503": // foreign_key_violation
			return apperror.Constraint("%s: foreign key %s", action, pgErr.ConstraintName)
		case "23514": // check_violation
			return apperror.Constraint("%s: check %s", action, pgErr.ConstraintName)
		}
	}

	if errors.Is(err, gorm.ErrDuplicatedKey) ||
		errors.Is(err, gorm.ErrForeignKeyViolated) ||
		errors.Is(err, gorm.ErrCheckConstraintViolated) {
		return apperror.Constraint("%s: %v", action, err)
	}

	// modernc.org/sqlite не переводится gorm-диалектом, проверяем текст ошибки
	msg := err.Error()
	for _, marker := range []string{"UNIQUE constraint failed", "FOREIGN KEY constraint failed", "CHECK constraint failed"} {
		if strings.Contains(msg, marker) {
			return apperror.Constraint("%s: %s", action, msg)
		}
	}

	return fmt.Errorf("failed to %s: %w", action, err)
}

// notFound переводит gorm.ErrRecordNotFound в apperror.ErrNotFound
func notFound(err error, format string, args ...interface{}) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperror.NotFound(format, args...)
	}
	return fmt.Errorf("failed to get %s: %w", fmt.Sprintf(format, args...), err)
}

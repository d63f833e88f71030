package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

// exists проверяет наличие строки с заданным id в таблице
func exists(ctx context.Context, db *gorm.DB, table string, id uint) (bool, error) {
	var count int64
	if err := db.WithContext(ctx).Table(table).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check %s id %d: %w", table, id, err)
	}
	return count > 0, nil
}

// taken проверяет, занято ли значение уникальной колонки другой строкой
// excludeID == 0 означает проверку для новой строки
func taken(ctx context.Context, db *gorm.DB, table, column string, value interface{}, excludeID uint) (bool, error) {
	var count int64
	q := db.WithContext(ctx).Table(table).Where(column+" = ?", value)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check %s.%s uniqueness: %w", table, column, err)
	}
	return count > 0, nil
}

package repository

import (
	"context"
	"fmt"

	"partnerhub/partner-service/internal/app/partners/entity"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
	_ "modernc.org/sqlite"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// SQLiteDSN строит DSN для файла SQLite с включёнными внешними ключами
func SQLiteDSN(path string) string {
	return "file:" + path + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
}

// Open открывает соединение с реляционным хранилищем
// Для SQLite используется pure-Go драйвер modernc.org/sqlite
func Open(driver, dsn string, logLevel gormlogger.LogLevel) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case DriverSQLite:
		dialector = sqlite.Dialector{DriverName: "sqlite", DSN: dsn}
	case DriverPostgres:
		dialector = postgres.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", driver, err)
	}

	return db, nil
}

// Схемы для миграции: добавляют belongs-to поля только ради создания
// внешних ключей. Сами сущности ссылок друг на друга не содержат

type partnerSchema struct {
	entity.Partner
	PartnerType entity.PartnerType `gorm:"foreignKey:PartnerTypeID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
}

type productSchema struct {
	entity.Product
	ProductType entity.ProductType `gorm:"foreignKey:ProductTypeID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
}

type saleSchema struct {
	entity.Sale
	Partner entity.Partner `gorm:"foreignKey:PartnerID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
	Product entity.Product `gorm:"foreignKey:ProductID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
}

// Migrate создает шесть таблиц каталога. Повторный запуск на уже
// инициализированной базе ничего не ломает
func Migrate(ctx context.Context, db *gorm.DB) error {
	err := db.WithContext(ctx).AutoMigrate(
		&entity.PartnerType{},
		&entity.ProductType{},
		&entity.MaterialType{},
		&partnerSchema{},
		&productSchema{},
		&saleSchema{},
	)
	if err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}

	return nil
}

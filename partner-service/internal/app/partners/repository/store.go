package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

var ErrStageClosed = errors.New("stage already finished")

// Store владеет хранилищем всех сущностей каталога
type Store struct {
	Repositories
	db *gorm.DB
}

// NewStore создает хранилище с репозиториями поверх db
func NewStore(db *gorm.DB) *Store {
	return &Store{
		Repositories: newRepositories(db),
		db:           db,
	}
}

func newRepositories(db *gorm.DB) Repositories {
	return Repositories{
		PartnerTypes:  NewPartnerTypeRepository(db),
		Partners:      NewPartnerRepository(db),
		ProductTypes:  NewProductTypeRepository(db),
		Products:      NewProductRepository(db),
		MaterialTypes: NewMaterialTypeRepository(db),
		Sales:         NewSaleRepository(db),
	}
}

// Stage - явная транзакционная граница одного этапа импорта
// Все чтения и записи этапа выполняются через Repositories этапа
type Stage struct {
	Repositories
	name string
	tx   *gorm.DB
	done bool
}

// BeginStage открывает транзакцию этапа
func (s *Store) BeginStage(ctx context.Context, name string) (*Stage, error) {
	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, fmt.Errorf("failed to begin stage %s: %w", name, tx.Error)
	}

	return &Stage{
		Repositories: newRepositories(tx),
		name:         name,
		tx:           tx,
	}, nil
}

func (st *Stage) Name() string {
	return st.name
}

// Commit фиксирует все записи этапа
func (st *Stage) Commit() error {
	if st.done {
		return ErrStageClosed
	}
	st.done = true

	if err := st.tx.Commit().Error; err != nil {
		return fmt.Errorf("failed to commit stage %s: %w", st.name, err)
	}
	return nil
}

// Abort откатывает этап. Повторный вызов после Commit/Abort ничего не делает,
// поэтому Abort удобно вызывать через defer
func (st *Stage) Abort() error {
	if st.done {
		return nil
	}
	st.done = true

	if err := st.tx.Rollback().Error; err != nil {
		return fmt.Errorf("failed to abort stage %s: %w", st.name, err)
	}
	return nil
}

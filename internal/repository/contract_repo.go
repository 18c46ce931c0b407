package repository

import (
	"context"

	"github.com/EstebanRsh/UP/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ContractRepository interface {
	Create(ctx context.Context, c *model.Contract) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Contract, error)
	// FindByIDForUpdate locks the contract row inside tx so that concurrent
	// transitions serialize on the current state.
	FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*model.Contract, error)
	ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]model.Contract, error)
	ListCursor(ctx context.Context, afterID *uuid.UUID, limit int) ([]model.Contract, error)
	SaveTx(ctx context.Context, tx *gorm.DB, c *model.Contract) error
	DB() *gorm.DB
}

type contractRepo struct{ db *gorm.DB }

func NewContractRepository(db *gorm.DB) ContractRepository { return &contractRepo{db: db} }

func (r *contractRepo) DB() *gorm.DB { return r.db }

func (r *contractRepo) Create(ctx context.Context, c *model.Contract) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *contractRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Contract, error) {
	var c model.Contract
	err := r.db.WithContext(ctx).Preload("Plan").First(&c, id).Error
	return &c, err
}

func (r *contractRepo) FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*model.Contract, error) {
	if tx == nil {
		tx = r.db
	}
	var c model.Contract
	err := tx.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}).First(&c, id).Error
	return &c, err
}

func (r *contractRepo) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]model.Contract, error) {
	var contracts []model.Contract
	err := r.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("created_at ASC").
		Find(&contracts).Error
	return contracts, err
}

func (r *contractRepo) ListCursor(ctx context.Context, afterID *uuid.UUID, limit int) ([]model.Contract, error) {
	var contracts []model.Contract
	q := r.db.WithContext(ctx).Order("created_at ASC, id ASC")
	if afterID != nil {
		var after model.Contract
		if err := r.db.WithContext(ctx).First(&after, *afterID).Error; err != nil {
			return nil, err
		}
		q = q.Where("(created_at, id) > (?, ?)", after.CreatedAt, after.ID)
	}
	err := q.Limit(limit).Find(&contracts).Error
	return contracts, err
}

func (r *contractRepo) SaveTx(ctx context.Context, tx *gorm.DB, c *model.Contract) error {
	if tx == nil {
		tx = r.db
	}
	return tx.WithContext(ctx).Save(c).Error
}

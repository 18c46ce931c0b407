package repository

import (
	"context"

	"github.com/EstebanRsh/UP/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AccountRepository interface {
	Create(ctx context.Context, a *model.Account) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Account, error)
	FindByEmail(ctx context.Context, email string) (*model.Account, error)
	FindByDocument(ctx context.Context, document string) (*model.Account, error)
	List(ctx context.Context) ([]model.Account, error)
	ListCursor(ctx context.Context, afterID *uuid.UUID, limit int) ([]model.Account, error)
	Update(ctx context.Context, a *model.Account) error
	Deactivate(ctx context.Context, id uuid.UUID) error
	Reactivate(ctx context.Context, id uuid.UUID) error
}

type accountRepo struct{ db *gorm.DB }

func NewAccountRepository(db *gorm.DB) AccountRepository { return &accountRepo{db: db} }

func (r *accountRepo) Create(ctx context.Context, a *model.Account) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *accountRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Account, error) {
	var a model.Account
	err := r.db.WithContext(ctx).First(&a, id).Error
	return &a, err
}

func (r *accountRepo) FindByEmail(ctx context.Context, email string) (*model.Account, error) {
	var a model.Account
	err := r.db.WithContext(ctx).
		Where("LOWER(email) = LOWER(?)", email).
		First(&a).Error
	return &a, err
}

func (r *accountRepo) FindByDocument(ctx context.Context, document string) (*model.Account, error) {
	var a model.Account
	err := r.db.WithContext(ctx).Where("document = ?", document).First(&a).Error
	return &a, err
}

func (r *accountRepo) List(ctx context.Context) ([]model.Account, error) {
	var accounts []model.Account
	err := r.db.WithContext(ctx).Order("created_at ASC").Find(&accounts).Error
	return accounts, err
}

// ListCursor pages accounts by creation order using an id cursor.
func (r *accountRepo) ListCursor(ctx context.Context, afterID *uuid.UUID, limit int) ([]model.Account, error) {
	var accounts []model.Account
	q := r.db.WithContext(ctx).Order("created_at ASC, id ASC")
	if afterID != nil {
		var after model.Account
		if err := r.db.WithContext(ctx).First(&after, *afterID).Error; err != nil {
			return nil, err
		}
		q = q.Where("(created_at, id) > (?, ?)", after.CreatedAt, after.ID)
	}
	err := q.Limit(limit).Find(&accounts).Error
	return accounts, err
}

func (r *accountRepo) Update(ctx context.Context, a *model.Account) error {
	return r.db.WithContext(ctx).Save(a).Error
}

func (r *accountRepo) Deactivate(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Account{}).Where("id = ?", id).Update("active", false).Error
}

func (r *accountRepo) Reactivate(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Account{}).Where("id = ?", id).Update("active", true).Error
}

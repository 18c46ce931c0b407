package repository

import (
	"context"

	"github.com/EstebanRsh/UP/internal/dto"
	"github.com/EstebanRsh/UP/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PaymentRepository interface {
	Create(ctx context.Context, tx *gorm.DB, p *model.Payment) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Payment, error)
	FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*model.Payment, error)
	Search(ctx context.Context, filter dto.PaymentSearchRequest, ownerID *uuid.UUID) ([]model.Payment, int64, error)
	SaveTx(ctx context.Context, tx *gorm.DB, p *model.Payment) error
	// SetReceiptPath records the rendered PDF location without touching any
	// other column: rendering runs outside the confirmation transaction and
	// must never write lifecycle state back.
	SetReceiptPath(ctx context.Context, id uuid.UUID, path string) error
	DB() *gorm.DB
}

type paymentRepo struct{ db *gorm.DB }

func NewPaymentRepository(db *gorm.DB) PaymentRepository { return &paymentRepo{db: db} }

func (r *paymentRepo) DB() *gorm.DB { return r.db }

func (r *paymentRepo) Create(ctx context.Context, tx *gorm.DB, p *model.Payment) error {
	if tx == nil {
		tx = r.db
	}
	return tx.WithContext(ctx).Create(p).Error
}

func (r *paymentRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Payment, error) {
	var p model.Payment
	err := r.db.WithContext(ctx).Preload("Customer").First(&p, id).Error
	return &p, err
}

func (r *paymentRepo) FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*model.Payment, error) {
	if tx == nil {
		tx = r.db
	}
	var p model.Payment
	err := tx.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}).First(&p, id).Error
	return &p, err
}

// Search applies the payment filters with classic page+limit pagination.
// A non-nil ownerID restricts visibility to that customer's payments
// regardless of any customer filter in the request.
func (r *paymentRepo) Search(ctx context.Context, filter dto.PaymentSearchRequest, ownerID *uuid.UUID) ([]model.Payment, int64, error) {
	var payments []model.Payment
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Payment{})

	if ownerID != nil {
		q = q.Where("customer_id = ?", *ownerID)
	} else if filter.CustomerID != nil {
		q = q.Where("customer_id = ?", *filter.CustomerID)
	}
	if filter.Method != "" {
		q = q.Where("method = ?", filter.Method)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.DateFrom != nil {
		q = q.Where("date >= ?", *filter.DateFrom)
	}
	if filter.DateTo != nil {
		q = q.Where("date < ? + INTERVAL '1 day'", *filter.DateTo)
	}
	if filter.AmountMin != nil {
		q = q.Where("amount >= ?", *filter.AmountMin)
	}
	if filter.AmountMax != nil {
		q = q.Where("amount <= ?", *filter.AmountMax)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	dir := "DESC"
	if filter.SortOrder == "asc" {
		dir = "ASC"
	}
	switch filter.SortBy {
	case "amount":
		q = q.Order("amount " + dir).Order("id DESC")
	case "period":
		q = q.Order("period_year " + dir).Order("period_month " + dir).Order("id DESC")
	default:
		q = q.Order("date " + dir).Order("id DESC")
	}

	offset := (filter.Page - 1) * filter.Limit
	err := q.Offset(offset).Limit(filter.Limit).Find(&payments).Error
	return payments, total, err
}

func (r *paymentRepo) SaveTx(ctx context.Context, tx *gorm.DB, p *model.Payment) error {
	if tx == nil {
		tx = r.db
	}
	return tx.WithContext(ctx).Save(p).Error
}

func (r *paymentRepo) SetReceiptPath(ctx context.Context, id uuid.UUID, path string) error {
	return r.db.WithContext(ctx).Model(&model.Payment{}).
		Where("id = ?", id).
		Update("receipt_pdf_path", path).Error
}

package repository

import (
	"context"

	"github.com/EstebanRsh/UP/internal/dto"
	"github.com/EstebanRsh/UP/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CustomerRepository interface {
	Create(ctx context.Context, tx *gorm.DB, c *model.Customer) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Customer, error)
	FindByAccountID(ctx context.Context, accountID uuid.UUID) (*model.Customer, error)
	FindByDocument(ctx context.Context, document string) (*model.Customer, error)
	FindByEmail(ctx context.Context, email string) (*model.Customer, error)
	Search(ctx context.Context, filter dto.CustomerSearchRequest) ([]model.Customer, int64, error)
	ListCursor(ctx context.Context, afterID *uuid.UUID, limit int) ([]model.Customer, error)
	Update(ctx context.Context, c *model.Customer) error
	SetStatus(ctx context.Context, id uuid.UUID, status string) error
	DB() *gorm.DB // exposes the DB for transaction creation in the service layer
}

type customerRepo struct{ db *gorm.DB }

func NewCustomerRepository(db *gorm.DB) CustomerRepository { return &customerRepo{db: db} }

func (r *customerRepo) DB() *gorm.DB { return r.db }

func (r *customerRepo) Create(ctx context.Context, tx *gorm.DB, c *model.Customer) error {
	if tx == nil {
		tx = r.db
	}
	return tx.WithContext(ctx).Create(c).Error
}

func (r *customerRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Customer, error) {
	var c model.Customer
	err := r.db.WithContext(ctx).First(&c, id).Error
	return &c, err
}

func (r *customerRepo) FindByAccountID(ctx context.Context, accountID uuid.UUID) (*model.Customer, error) {
	var c model.Customer
	err := r.db.WithContext(ctx).Where("account_id = ?", accountID).First(&c).Error
	return &c, err
}

func (r *customerRepo) FindByDocument(ctx context.Context, document string) (*model.Customer, error) {
	var c model.Customer
	err := r.db.WithContext(ctx).Where("document = ?", document).First(&c).Error
	return &c, err
}

func (r *customerRepo) FindByEmail(ctx context.Context, email string) (*model.Customer, error) {
	var c model.Customer
	err := r.db.WithContext(ctx).Where("LOWER(email) = LOWER(?)", email).First(&c).Error
	return &c, err
}

// Search applies text/status/date filters with classic page+limit pagination.
func (r *customerRepo) Search(ctx context.Context, filter dto.CustomerSearchRequest) ([]model.Customer, int64, error) {
	var customers []model.Customer
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Customer{})

	if filter.Query != "" {
		if isDigits(filter.Query) {
			q = q.Where("document LIKE ?", "%"+filter.Query+"%")
		} else {
			like := "%" + filter.Query + "%"
			q = q.Where("first_name ILIKE ? OR last_name ILIKE ?", like, like)
		}
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.CreatedFrom != nil {
		q = q.Where("created_at >= ?", *filter.CreatedFrom)
	}
	if filter.CreatedTo != nil {
		q = q.Where("created_at < ? + INTERVAL '1 day'", *filter.CreatedTo)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	sortCol := map[string]string{
		"last_name":       "last_name",
		"customer_number": "customer_number",
		"created_at":      "created_at",
	}[filter.SortBy]
	if sortCol == "" {
		sortCol = "created_at"
	}
	dir := "ASC"
	if filter.SortOrder == "desc" {
		dir = "DESC"
	}
	if filter.ActiveFirst {
		q = q.Order("CASE WHEN status = 'active' THEN 0 ELSE 1 END")
	}
	q = q.Order(sortCol + " " + dir).Order("id ASC")

	offset := (filter.Page - 1) * filter.Limit
	err := q.Offset(offset).Limit(filter.Limit).Find(&customers).Error
	return customers, total, err
}

func (r *customerRepo) ListCursor(ctx context.Context, afterID *uuid.UUID, limit int) ([]model.Customer, error) {
	var customers []model.Customer
	q := r.db.WithContext(ctx).Order("customer_number ASC")
	if afterID != nil {
		var after model.Customer
		if err := r.db.WithContext(ctx).First(&after, *afterID).Error; err != nil {
			return nil, err
		}
		q = q.Where("customer_number > ?", after.CustomerNumber)
	}
	err := q.Limit(limit).Find(&customers).Error
	return customers, err
}

func (r *customerRepo) Update(ctx context.Context, c *model.Customer) error {
	return r.db.WithContext(ctx).Save(c).Error
}

func (r *customerRepo) SetStatus(ctx context.Context, id uuid.UUID, status string) error {
	return r.db.WithContext(ctx).Model(&model.Customer{}).Where("id = ?", id).Update("status", status).Error
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

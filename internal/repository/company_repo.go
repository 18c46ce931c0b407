package repository

import (
	"context"

	"github.com/EstebanRsh/UP/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const companyRowID = 1

type CompanyRepository interface {
	Get(ctx context.Context) (*model.CompanyProfile, error)
	Upsert(ctx context.Context, p *model.CompanyProfile) error
}

type companyRepo struct{ db *gorm.DB }

func NewCompanyRepository(db *gorm.DB) CompanyRepository { return &companyRepo{db: db} }

func (r *companyRepo) Get(ctx context.Context) (*model.CompanyProfile, error) {
	var p model.CompanyProfile
	err := r.db.WithContext(ctx).First(&p, companyRowID).Error
	return &p, err
}

func (r *companyRepo) Upsert(ctx context.Context, p *model.CompanyProfile) error {
	p.ID = companyRowID
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(p).Error
}

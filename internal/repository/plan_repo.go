package repository

import (
	"context"

	"github.com/EstebanRsh/UP/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PlanRepository interface {
	Create(ctx context.Context, p *model.Plan) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Plan, error)
	FindByName(ctx context.Context, name string) (*model.Plan, error)
	List(ctx context.Context, includeInactive bool) ([]model.Plan, error)
	Update(ctx context.Context, p *model.Plan) error
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
}

type planRepo struct{ db *gorm.DB }

func NewPlanRepository(db *gorm.DB) PlanRepository { return &planRepo{db: db} }

func (r *planRepo) Create(ctx context.Context, p *model.Plan) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *planRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Plan, error) {
	var p model.Plan
	err := r.db.WithContext(ctx).First(&p, id).Error
	return &p, err
}

func (r *planRepo) FindByName(ctx context.Context, name string) (*model.Plan, error) {
	var p model.Plan
	err := r.db.WithContext(ctx).Where("name = ?", name).First(&p).Error
	return &p, err
}

func (r *planRepo) List(ctx context.Context, includeInactive bool) ([]model.Plan, error) {
	var plans []model.Plan
	q := r.db.WithContext(ctx).Order("created_at ASC")
	if !includeInactive {
		q = q.Where("active = true")
	}
	err := q.Find(&plans).Error
	return plans, err
}

func (r *planRepo) Update(ctx context.Context, p *model.Plan) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *planRepo) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	return r.db.WithContext(ctx).Model(&model.Plan{}).Where("id = ?", id).Update("active", active).Error
}

package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/EstebanRsh/UP/internal/apierror"
	"github.com/EstebanRsh/UP/internal/dto"
	"github.com/EstebanRsh/UP/internal/model"
	"github.com/EstebanRsh/UP/internal/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

const (
	activePlansCacheKey = "plans:active"
	plansCacheTTL       = 5 * time.Minute
)

type PlanService interface {
	Create(ctx context.Context, req dto.CreatePlanRequest) (*dto.PlanResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.PlanResponse, error)
	List(ctx context.Context, includeInactive bool) ([]dto.PlanResponse, error)
	Update(ctx context.Context, id uuid.UUID, req dto.UpdatePlanRequest) (*dto.PlanResponse, error)
	Deactivate(ctx context.Context, id uuid.UUID) error
	Reactivate(ctx context.Context, id uuid.UUID) error
}

type planService struct {
	repo repository.PlanRepository
	rdb  *redis.Client // nil disables caching
}

func NewPlanService(repo repository.PlanRepository, rdb *redis.Client) PlanService {
	return &planService{repo: repo, rdb: rdb}
}

func (s *planService) Create(ctx context.Context, req dto.CreatePlanRequest) (*dto.PlanResponse, error) {
	if _, err := s.repo.FindByName(ctx, req.Name); err == nil {
		return nil, apierror.Conflict("a plan named %q already exists", req.Name)
	}

	plan := &model.Plan{
		Name:         req.Name,
		DownloadMbps: req.DownloadMbps,
		UploadMbps:   req.UploadMbps,
		MonthlyPrice: req.MonthlyPrice,
		Description:  req.Description,
		Active:       true,
	}
	if req.Active != nil {
		plan.Active = *req.Active
	}
	if err := s.repo.Create(ctx, plan); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apierror.Conflict("a plan named %q already exists", req.Name)
		}
		return nil, err
	}
	s.invalidateCache(ctx)
	return planToResponse(plan), nil
}

func (s *planService) Get(ctx context.Context, id uuid.UUID) (*dto.PlanResponse, error) {
	plan, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "plan %s not found", id)
	}
	return planToResponse(plan), nil
}

// List returns plans; the active-only view is cached in Redis since it backs
// every customer-facing catalog read.
func (s *planService) List(ctx context.Context, includeInactive bool) ([]dto.PlanResponse, error) {
	if !includeInactive {
		if cached := s.readCache(ctx); cached != nil {
			return cached, nil
		}
	}

	plans, err := s.repo.List(ctx, includeInactive)
	if err != nil {
		return nil, err
	}
	out := make([]dto.PlanResponse, 0, len(plans))
	for i := range plans {
		out = append(out, *planToResponse(&plans[i]))
	}

	if !includeInactive {
		s.writeCache(ctx, out)
	}
	return out, nil
}

func (s *planService) Update(ctx context.Context, id uuid.UUID, req dto.UpdatePlanRequest) (*dto.PlanResponse, error) {
	plan, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "plan %s not found", id)
	}

	if req.Name != nil && *req.Name != plan.Name {
		if existing, err := s.repo.FindByName(ctx, *req.Name); err == nil && existing.ID != plan.ID {
			return nil, apierror.Conflict("a plan named %q already exists", *req.Name)
		}
		plan.Name = *req.Name
	}
	if req.DownloadMbps != nil {
		plan.DownloadMbps = *req.DownloadMbps
	}
	if req.UploadMbps != nil {
		plan.UploadMbps = *req.UploadMbps
	}
	if req.MonthlyPrice != nil {
		if req.MonthlyPrice.IsNegative() || req.MonthlyPrice.IsZero() {
			return nil, apierror.Validation("monthly_price must be greater than zero")
		}
		plan.MonthlyPrice = *req.MonthlyPrice
	}
	if req.Description != nil {
		plan.Description = req.Description
	}
	if req.Active != nil {
		plan.Active = *req.Active
	}

	if err := s.repo.Update(ctx, plan); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apierror.Conflict("a plan named %q already exists", plan.Name)
		}
		return nil, err
	}
	s.invalidateCache(ctx)
	return planToResponse(plan), nil
}

// Deactivate retires a plan from new assignments. Existing contracts keep
// their plan; plans are never hard-deleted.
func (s *planService) Deactivate(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return notFoundOr(err, "plan %s not found", id)
	}
	if err := s.repo.SetActive(ctx, id, false); err != nil {
		return err
	}
	s.invalidateCache(ctx)
	return nil
}

func (s *planService) Reactivate(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return notFoundOr(err, "plan %s not found", id)
	}
	if err := s.repo.SetActive(ctx, id, true); err != nil {
		return err
	}
	s.invalidateCache(ctx)
	return nil
}

// ── cache helpers ─────────────────────────────────────────────────────────────
// Cache failures are logged and ignored: Redis being down degrades to plain
// DB reads, never to request failures.

func (s *planService) readCache(ctx context.Context) []dto.PlanResponse {
	if s.rdb == nil {
		return nil
	}
	data, err := s.rdb.Get(ctx, activePlansCacheKey).Bytes()
	if err != nil {
		return nil
	}
	var plans []dto.PlanResponse
	if err := json.Unmarshal(data, &plans); err != nil {
		return nil
	}
	return plans
}

func (s *planService) writeCache(ctx context.Context, plans []dto.PlanResponse) {
	if s.rdb == nil {
		return
	}
	data, err := json.Marshal(plans)
	if err != nil {
		return
	}
	if err := s.rdb.Set(ctx, activePlansCacheKey, data, plansCacheTTL).Err(); err != nil {
		log.Debug().Err(err).Msg("plan cache write failed")
	}
}

func (s *planService) invalidateCache(ctx context.Context) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, activePlansCacheKey).Err(); err != nil {
		log.Debug().Err(err).Msg("plan cache invalidation failed")
	}
}

func planToResponse(p *model.Plan) *dto.PlanResponse {
	return &dto.PlanResponse{
		ID:           p.ID.String(),
		Name:         p.Name,
		DownloadMbps: p.DownloadMbps,
		UploadMbps:   p.UploadMbps,
		MonthlyPrice: p.MonthlyPrice,
		Description:  p.Description,
		Active:       p.Active,
	}
}

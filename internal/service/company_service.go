package service

import (
	"context"
	"errors"

	"github.com/EstebanRsh/UP/internal/config"
	"github.com/EstebanRsh/UP/internal/dto"
	"github.com/EstebanRsh/UP/internal/model"
	"github.com/EstebanRsh/UP/internal/repository"

	"gorm.io/gorm"
)

// CompanyService manages the single-row company profile used on receipt
// headers. Before the profile is first saved, reads fall back to the
// configured defaults.
type CompanyService interface {
	Get(ctx context.Context) (*dto.CompanyResponse, error)
	Update(ctx context.Context, req dto.UpdateCompanyRequest) (*dto.CompanyResponse, error)
}

type companyService struct {
	repo repository.CompanyRepository
	cfg  *config.Config
}

func NewCompanyService(repo repository.CompanyRepository, cfg *config.Config) CompanyService {
	return &companyService{repo: repo, cfg: cfg}
}

func (s *companyService) Get(ctx context.Context) (*dto.CompanyResponse, error) {
	profile, err := s.repo.Get(ctx)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &dto.CompanyResponse{
			Name:    s.cfg.CompanyName,
			TaxID:   emptyToNil(s.cfg.CompanyTaxID),
			Address: emptyToNil(s.cfg.CompanyAddress),
			City:    emptyToNil(s.cfg.CompanyCity),
			Contact: emptyToNil(s.cfg.CompanyContact),
		}, nil
	}
	if err != nil {
		return nil, err
	}
	return companyToResponse(profile), nil
}

func (s *companyService) Update(ctx context.Context, req dto.UpdateCompanyRequest) (*dto.CompanyResponse, error) {
	profile := &model.CompanyProfile{
		Name:    req.Name,
		TaxID:   req.TaxID,
		Address: req.Address,
		City:    req.City,
		Contact: req.Contact,
	}
	if err := s.repo.Upsert(ctx, profile); err != nil {
		return nil, err
	}
	return companyToResponse(profile), nil
}

func companyToResponse(p *model.CompanyProfile) *dto.CompanyResponse {
	return &dto.CompanyResponse{
		Name:    p.Name,
		TaxID:   p.TaxID,
		Address: p.Address,
		City:    p.City,
		Contact: p.Contact,
	}
}

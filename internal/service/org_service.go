package service

import (
	"context"

	"github.com/spec-kit/credit-service/internal/domain"
	"github.com/spec-kit/credit-service/internal/repository"
)

// OrgService administers organizations and their canteen units.
type OrgService struct {
	orgs  repository.OrganizationRepository
	units repository.UnitRepository
}

// NewOrgService builds the service.
func NewOrgService(orgs repository.OrganizationRepository, units repository.UnitRepository) *OrgService {
	return &OrgService{orgs: orgs, units: units}
}

func (s *OrgService) ListOrganizations(ctx context.Context, tenantID string) ([]domain.Organization, error) {
	return s.orgs.ListByTenant(ctx, tenantID)
}

func (s *OrgService) GetOrganization(ctx context.Context, id string) (*domain.Organization, error) {
	return s.orgs.GetByID(ctx, id)
}

func (s *OrgService) CreateOrganization(ctx context.Context, name, tenantID string) (*domain.Organization, error) {
	org := &domain.Organization{Name: name, TenantID: tenantID}
	if err := s.orgs.Create(ctx, org); err != nil {
		return nil, err
	}
	return org, nil
}

func (s *OrgService) UpdateOrganization(ctx context.Context, id, name string) (*domain.Organization, error) {
	org, err := s.orgs.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	org.Name = name
	if err := s.orgs.Update(ctx, org); err != nil {
		return nil, err
	}
	return org, nil
}

func (s *OrgService) ListUnits(ctx context.Context, organizationID string) ([]domain.Unit, error) {
	return s.units.ListByOrganization(ctx, organizationID)
}

func (s *OrgService) GetUnit(ctx context.Context, id string) (*domain.Unit, error) {
	return s.units.GetByID(ctx, id)
}

func (s *OrgService) CreateUnit(ctx context.Context, name, organizationID string) (*domain.Unit, error) {
	unit := &domain.Unit{Name: name, OrganizationID: organizationID}
	if err := s.units.Create(ctx, unit); err != nil {
		return nil, err
	}
	return unit, nil
}

func (s *OrgService) UpdateUnit(ctx context.Context, id, name string) (*domain.Unit, error) {
	unit, err := s.units.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	unit.Name = name
	if err := s.units.Update(ctx, unit); err != nil {
		return nil, err
	}
	return unit, nil
}

package service

import (
	"context"
	"time"

	"github.com/vendaflow/ms-go-billing/app/entity"
)

// PlanService exposes the read-only plan catalog plus the seeding path used
// by the seed-plans command. The lifecycle service never mutates plan rows.
type PlanService struct {
	planRepo planRepository
}

func NewPlanService(planRepo planRepository) *PlanService {
	return &PlanService{planRepo: planRepo}
}

func (s *PlanService) ListPlans(ctx context.Context) ([]*entity.Plan, error) {
	return s.planRepo.List(ctx)
}

// GetPlan returns nil without error when the plan does not exist.
func (s *PlanService) GetPlan(ctx context.Context, id uint64) (*entity.Plan, error) {
	return s.planRepo.FindByID(ctx, id)
}

// SeedDefaultPlans inserts the default catalog. It is a no-op when any plan
// already exists, so re-running the seed command is safe.
func (s *PlanService) SeedDefaultPlans(ctx context.Context) (int, error) {
	existing, err := s.planRepo.List(ctx)
	if err != nil {
		return 0, err
	}
	if len(existing) > 0 {
		return 0, nil
	}

	now := time.Now().UTC()
	seeded := 0
	for _, plan := range defaultPlans() {
		plan.CreatedAt = now
		plan.UpdatedAt = now
		if err := s.planRepo.Create(ctx, plan); err != nil {
			return seeded, err
		}
		seeded++
	}

	return seeded, nil
}

func defaultPlans() []*entity.Plan {
	return []*entity.Plan{
		{
			Name:         "Starter",
			Description:  "Para começar",
			PriceMonthly: 4500,
			PriceAnnual:  32000,
			Features:     `["Até 100 vendas/mês","Dashboard básico","Relatórios simples","Suporte por email","5 dias grátis"]`,
		},
		{
			Name:         "Professional",
			Description:  "Para crescer",
			PriceMonthly: 9900,
			PriceAnnual:  71280,
			Features:     `["Até 1.000 vendas/mês","Dashboard avançado","Relatórios detalhados","Suporte prioritário","Integrações","5 dias grátis"]`,
		},
		{
			Name:         "Enterprise",
			Description:  "Para escalar",
			PriceMonthly: 29900,
			PriceAnnual:  215280,
			Features:     `["Vendas ilimitadas","Dashboard customizável","Relatórios em tempo real","Suporte 24/7","Integrações avançadas","API completa","5 dias grátis"]`,
		},
	}
}

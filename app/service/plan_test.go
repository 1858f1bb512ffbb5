package service

import (
	"context"
	"errors"
	"testing"

	"github.com/vendaflow/ms-go-billing/app/entity"
)

func TestListPlansPassesThrough(t *testing.T) {
	planRepo := &mockPlanRepo{
		listFn: func(_ context.Context) ([]*entity.Plan, error) {
			return []*entity.Plan{{ID: 1, Name: "Starter"}}, nil
		},
	}
	svc := NewPlanService(planRepo)

	items, err := svc.ListPlans(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(items) != 1 || items[0].Name != "Starter" {
		t.Fatalf("unexpected plans: %+v", items)
	}
}

func TestGetPlanAbsentIsNotAnError(t *testing.T) {
	svc := NewPlanService(&mockPlanRepo{})

	plan, err := svc.GetPlan(context.Background(), 99)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if plan != nil {
		t.Fatalf("expected nil plan, got %+v", plan)
	}
}

func TestSeedDefaultPlansPopulatesEmptyCatalog(t *testing.T) {
	created := make([]*entity.Plan, 0)
	planRepo := &mockPlanRepo{
		createFn: func(_ context.Context, plan *entity.Plan) error {
			created = append(created, plan)
			return nil
		},
	}
	svc := NewPlanService(planRepo)

	seeded, err := svc.SeedDefaultPlans(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if seeded != 3 || len(created) != 3 {
		t.Fatalf("expected three seeded plans, got %d", seeded)
	}
	professional := created[1]
	if professional.Name != "Professional" || professional.PriceMonthly != 9900 || professional.PriceAnnual != 71280 {
		t.Fatalf("unexpected professional plan: %+v", professional)
	}
	for _, plan := range created {
		if plan.CreatedAt.IsZero() || plan.UpdatedAt.IsZero() {
			t.Fatalf("expected timestamps on seeded plan %q", plan.Name)
		}
	}
}

func TestSeedDefaultPlansSkipsNonEmptyCatalog(t *testing.T) {
	planRepo := &mockPlanRepo{
		listFn: func(_ context.Context) ([]*entity.Plan, error) {
			return []*entity.Plan{{ID: 1}}, nil
		},
		createFn: func(_ context.Context, _ *entity.Plan) error {
			t.Fatal("create must not be called when plans exist")
			return nil
		},
	}
	svc := NewPlanService(planRepo)

	seeded, err := svc.SeedDefaultPlans(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if seeded != 0 {
		t.Fatalf("expected no seeding, got %d", seeded)
	}
}

func TestSeedDefaultPlansStopsOnCreateFailure(t *testing.T) {
	writeErr := errors.New("write failed")
	calls := 0
	planRepo := &mockPlanRepo{
		createFn: func(_ context.Context, _ *entity.Plan) error {
			calls++
			if calls == 2 {
				return writeErr
			}
			return nil
		},
	}
	svc := NewPlanService(planRepo)

	seeded, err := svc.SeedDefaultPlans(context.Background())
	if !errors.Is(err, writeErr) {
		t.Fatalf("expected write error, got %v", err)
	}
	if seeded != 1 {
		t.Fatalf("expected one plan seeded before failure, got %d", seeded)
	}
}

package service

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vendaflow/ms-go-billing/app/entity"
	"github.com/vendaflow/ms-go-billing/app/factory"
	"github.com/vendaflow/ms-go-billing/app/repository"
	"github.com/vendaflow/ms-go-billing/config"
)

type startTrialRequest interface {
	GetUserId() uint64
	GetPlanId() uint64
}

type upgradeSubscriptionRequest interface {
	GetSubscriptionId() uint64
	GetBillingCycle() string
}

// SweepResult reports how many rows each class of the expiration sweep
// transitioned.
type SweepResult struct {
	ExpiredActive int
	ExpiredTrials int
}

func (r SweepResult) Total() int {
	return r.ExpiredActive + r.ExpiredTrials
}

type subscriptionRepository interface {
	Create(ctx context.Context, subscription *entity.Subscription) error
	Update(ctx context.Context, subscription *entity.Subscription) error
	FindByID(ctx context.Context, id uint64) (*entity.Subscription, error)
	FindByUserAndStatus(ctx context.Context, userID uint64, status string) (*entity.Subscription, error)
	ListExpiredActive(ctx context.Context, now time.Time) ([]*entity.Subscription, error)
	ListExpiredTrials(ctx context.Context, now time.Time) ([]*entity.Subscription, error)
}

type planRepository interface {
	Create(ctx context.Context, plan *entity.Plan) error
	List(ctx context.Context) ([]*entity.Plan, error)
	FindByID(ctx context.Context, id uint64) (*entity.Plan, error)
}

type SubscriptionService struct {
	subscriptionRepo subscriptionRepository
	planRepo         planRepository
	cfg              config.SubscriptionConfig
	logger           logrus.FieldLogger
}

func NewSubscriptionService(
	subscriptionRepo subscriptionRepository,
	planRepo planRepository,
	cfg config.SubscriptionConfig,
) *SubscriptionService {
	return &SubscriptionService{
		subscriptionRepo: subscriptionRepo,
		planRepo:         planRepo,
		cfg:              cfg,
		logger:           factory.NewModuleLogger("subscription-service"),
	}
}

// StartTrial creates a trial subscription for the user. It fails when the
// plan does not exist or the user already holds a trial or active
// subscription. The existence check is a plain read; the repository
// additionally maps a duplicate-key insert to ErrSubscriptionAlreadyExists.
func (s *SubscriptionService) StartTrial(ctx context.Context, req startTrialRequest) (*entity.Subscription, error) {
	if req.GetUserId() == 0 || req.GetPlanId() == 0 {
		return nil, ErrInvalidRequest
	}

	plan, err := s.planRepo.FindByID(ctx, req.GetPlanId())
	if err != nil {
		return nil, err
	}
	if plan == nil {
		return nil, ErrPlanNotFound
	}

	current, err := s.GetCurrent(ctx, req.GetUserId())
	if err != nil {
		return nil, err
	}
	if current != nil {
		return nil, ErrSubscriptionAlreadyExists
	}

	now := time.Now().UTC()
	trialEnd := now.Add(s.cfg.TrialPeriod)
	subscription := &entity.Subscription{
		UserID:       req.GetUserId(),
		PlanID:       req.GetPlanId(),
		Status:       entity.SubscriptionStatusTrial,
		BillingCycle: entity.BillingCycleMonthly,
		TrialStartAt: now,
		TrialEndAt:   trialEnd,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.subscriptionRepo.Create(ctx, subscription); err != nil {
		if errors.Is(err, repository.ErrSubscriptionAlreadyExists) {
			return nil, ErrSubscriptionAlreadyExists
		}
		return nil, err
	}

	return subscription, nil
}

// GetCurrent returns the user's trial subscription when one exists, falling
// back to the active one, or nil when the user has neither. Trial takes
// precedence so an invariant-violating dataset still resolves consistently.
func (s *SubscriptionService) GetCurrent(ctx context.Context, userID uint64) (*entity.Subscription, error) {
	trial, err := s.subscriptionRepo.FindByUserAndStatus(ctx, userID, entity.SubscriptionStatusTrial)
	if err != nil {
		return nil, err
	}
	if trial != nil {
		return trial, nil
	}

	return s.subscriptionRepo.FindByUserAndStatus(ctx, userID, entity.SubscriptionStatusActive)
}

// GetCurrentWithPlan resolves the current subscription together with its
// plan for presentation. Both are nil when the user has no current
// subscription.
func (s *SubscriptionService) GetCurrentWithPlan(ctx context.Context, userID uint64) (*entity.Subscription, *entity.Plan, error) {
	subscription, err := s.GetCurrent(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	if subscription == nil {
		return nil, nil, nil
	}

	plan, err := s.planRepo.FindByID(ctx, subscription.PlanID)
	if err != nil {
		return nil, nil, err
	}

	return subscription, plan, nil
}

// UpgradeToActive converts a trial subscription into an active one. The paid
// window starts at now regardless of how much of the trial was consumed; the
// billing cycle is stored exactly as supplied.
func (s *SubscriptionService) UpgradeToActive(ctx context.Context, req upgradeSubscriptionRequest) (*entity.Subscription, error) {
	cycle, err := normalizeBillingCycle(req.GetBillingCycle())
	if err != nil {
		return nil, err
	}

	subscription, err := s.subscriptionRepo.FindByID(ctx, req.GetSubscriptionId())
	if err != nil {
		return nil, err
	}
	if subscription == nil {
		return nil, ErrSubscriptionNotFound
	}
	if subscription.Status != entity.SubscriptionStatusTrial {
		return nil, ErrSubscriptionNotTrial
	}

	now := time.Now().UTC()
	endAt := now.Add(s.cycleDuration(cycle))

	subscription.Status = entity.SubscriptionStatusActive
	subscription.BillingCycle = cycle
	subscription.StartAt = &now
	subscription.EndAt = &endAt
	subscription.UpdatedAt = now

	if err := s.subscriptionRepo.Update(ctx, subscription); err != nil {
		if errors.Is(err, repository.ErrSubscriptionNotFound) {
			return nil, ErrSubscriptionNotFound
		}
		return nil, err
	}

	return subscription, nil
}

// CancelActive cancels the user's active subscription. Trials are not
// cancellable; they end by upgrade or expiry.
func (s *SubscriptionService) CancelActive(ctx context.Context, userID uint64) (*entity.Subscription, error) {
	subscription, err := s.subscriptionRepo.FindByUserAndStatus(ctx, userID, entity.SubscriptionStatusActive)
	if err != nil {
		return nil, err
	}
	if subscription == nil {
		return nil, ErrNoActiveSubscription
	}

	now := time.Now().UTC()
	subscription.Status = entity.SubscriptionStatusCancelled
	subscription.CancelledAt = &now
	subscription.UpdatedAt = now

	if err := s.subscriptionRepo.Update(ctx, subscription); err != nil {
		if errors.Is(err, repository.ErrSubscriptionNotFound) {
			return nil, ErrSubscriptionNotFound
		}
		return nil, err
	}

	return subscription, nil
}

// SweepExpirations transitions every active subscription whose end passed
// and every trial whose trial end passed to expired. The predicate is
// re-evaluated against the store on each run, so repeated invocations with
// the same clock are no-ops. A list failure aborts the sweep; a failed
// per-row update is logged and picked up again by the next run.
func (s *SubscriptionService) SweepExpirations(ctx context.Context, now time.Time) (SweepResult, error) {
	result := SweepResult{}

	expiredActive, err := s.subscriptionRepo.ListExpiredActive(ctx, now)
	if err != nil {
		return result, err
	}
	for _, item := range expiredActive {
		if s.expire(ctx, item, now) {
			result.ExpiredActive++
		}
	}

	expiredTrials, err := s.subscriptionRepo.ListExpiredTrials(ctx, now)
	if err != nil {
		return result, err
	}
	for _, item := range expiredTrials {
		if s.expire(ctx, item, now) {
			result.ExpiredTrials++
		}
	}

	return result, nil
}

func (s *SubscriptionService) expire(ctx context.Context, item *entity.Subscription, now time.Time) bool {
	item.Status = entity.SubscriptionStatusExpired
	item.UpdatedAt = now
	if err := s.subscriptionRepo.Update(ctx, item); err != nil {
		s.logger.WithError(err).WithField("subscription_id", item.ID).Warn("Expiration update failed")
		return false
	}
	return true
}

func (s *SubscriptionService) cycleDuration(cycle string) time.Duration {
	if cycle == entity.BillingCycleAnnual {
		return s.cfg.AnnualCycle
	}
	return s.cfg.MonthlyCycle
}

func normalizeBillingCycle(cycle string) (string, error) {
	switch cycle {
	case entity.BillingCycleMonthly, entity.BillingCycleAnnual:
		return cycle, nil
	default:
		return "", ErrInvalidBillingCycle
	}
}

package entity

import "time"

const (
	SubscriptionStatusTrial     = "trial"
	SubscriptionStatusActive    = "active"
	SubscriptionStatusCancelled = "cancelled"
	SubscriptionStatusExpired   = "expired"
)

const (
	BillingCycleMonthly = "monthly"
	BillingCycleAnnual  = "annual"
)

type Subscription struct {
	ID           uint64
	UserID       uint64
	PlanID       uint64
	Status       string
	BillingCycle string
	TrialStartAt time.Time
	TrialEndAt   time.Time
	StartAt      *time.Time
	EndAt        *time.Time
	CancelledAt  *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsTerminal reports whether the subscription has reached a final state.
// Terminal rows are never transitioned again.
func (s *Subscription) IsTerminal() bool {
	return s.Status == SubscriptionStatusCancelled || s.Status == SubscriptionStatusExpired
}

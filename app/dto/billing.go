package dto

type PlanResponse struct {
	ID           uint64   `json:"id"`
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	PriceMonthly int64    `json:"price_monthly"`
	PriceAnnual  int64    `json:"price_annual"`
	Features     []string `json:"features"`
	CreatedAt    string   `json:"created_at"`
	UpdatedAt    string   `json:"updated_at"`
}

type SubscriptionResponse struct {
	ID           uint64  `json:"id"`
	UserID       uint64  `json:"user_id"`
	PlanID       uint64  `json:"plan_id"`
	Status       string  `json:"status"`
	BillingCycle string  `json:"billing_cycle"`
	TrialStartAt string  `json:"trial_start_at"`
	TrialEndAt   string  `json:"trial_end_at"`
	StartAt      *string `json:"start_at,omitempty"`
	EndAt        *string `json:"end_at,omitempty"`
	CancelledAt  *string `json:"cancelled_at,omitempty"`
	CreatedAt    string  `json:"created_at"`
	UpdatedAt    string  `json:"updated_at"`
}

type ListPlansResponse struct {
	Plans []*PlanResponse `json:"plans"`
}

type CurrentSubscriptionResponse struct {
	Subscription *SubscriptionResponse `json:"subscription"`
	Plan         *PlanResponse         `json:"plan,omitempty"`
}

type SubscriptionEnvelopeResponse struct {
	Subscription *SubscriptionResponse `json:"subscription"`
}

type MessageResponse struct {
	Message      string                `json:"message"`
	Subscription *SubscriptionResponse `json:"subscription,omitempty"`
}

package types

import (
	"errors"

	"github.com/labstack/echo/v4"
	"github.com/vendaflow/ms-go-billing/app/entity"
)

type HealthResponse struct {
	Status string `json:"status"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type StartTrialRequest struct {
	UserId uint64 `json:"-"`
	PlanId uint64 `json:"plan_id"`
}

func NewStartTrialRequestFromContext(ctx echo.Context, userID uint64) (*StartTrialRequest, error) {
	var body StartTrialRequest
	if err := ctx.Bind(&body); err != nil {
		return nil, err
	}
	body.UserId = userID
	return &body, nil
}

func (r *StartTrialRequest) GetUserId() uint64 { return r.UserId }
func (r *StartTrialRequest) GetPlanId() uint64 { return r.PlanId }

func (r *StartTrialRequest) Validate() error {
	if r.GetUserId() == 0 {
		return errors.New("user identity is required")
	}
	if r.GetPlanId() == 0 {
		return errors.New("plan_id is required")
	}
	return nil
}

type UpgradeSubscriptionRequest struct {
	SubscriptionId uint64 `json:"-"`
	BillingCycle   string `json:"billing_cycle"`
}

func NewUpgradeSubscriptionRequestFromContext(ctx echo.Context) (*UpgradeSubscriptionRequest, error) {
	var body UpgradeSubscriptionRequest
	if err := ctx.Bind(&body); err != nil {
		return nil, err
	}
	return &body, nil
}

func (r *UpgradeSubscriptionRequest) GetSubscriptionId() uint64 { return r.SubscriptionId }
func (r *UpgradeSubscriptionRequest) GetBillingCycle() string   { return r.BillingCycle }

func (r *UpgradeSubscriptionRequest) Validate() error {
	switch r.GetBillingCycle() {
	case entity.BillingCycleMonthly, entity.BillingCycleAnnual:
		return nil
	default:
		return errors.New("billing_cycle must be monthly or annual")
	}
}

package service

import "errors"

var (
	ErrSubscriptionNotFound      = errors.New("subscription not found")
	ErrPlanNotFound              = errors.New("plan not found")
	ErrSubscriptionAlreadyExists = errors.New("subscription already exists")
	ErrSubscriptionNotTrial      = errors.New("only trial subscriptions can be upgraded")
	ErrNoActiveSubscription      = errors.New("no active subscription found")
	ErrInvalidBillingCycle       = errors.New("invalid billing cycle")
	ErrInvalidRequest            = errors.New("invalid request")
)

package controller

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	"github.com/vendaflow/ms-go-billing/app/dto"
	"github.com/vendaflow/ms-go-billing/app/factory"
	"github.com/vendaflow/ms-go-billing/app/mapper"
	"github.com/vendaflow/ms-go-billing/app/middleware"
	"github.com/vendaflow/ms-go-billing/app/service"
	"github.com/vendaflow/ms-go-billing/app/types"
)

type SubscriptionController struct {
	subscriptionService *service.SubscriptionService
	logger              logrus.FieldLogger
}

func NewSubscriptionController(subscriptionService *service.SubscriptionService) *SubscriptionController {
	return &SubscriptionController{
		subscriptionService: subscriptionService,
		logger:              factory.NewModuleLogger("subscriptions-controller"),
	}
}

func (c *SubscriptionController) Health(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, &types.HealthResponse{Status: "ok"})
}

// GetCurrent returns the caller's current subscription with its plan. A user
// without a subscription gets a null envelope, not an error.
func (c *SubscriptionController) GetCurrent(ctx echo.Context) error {
	userID := middleware.UserID(ctx)

	subscription, plan, err := c.subscriptionService.GetCurrentWithPlan(ctx.Request().Context(), userID)
	if err != nil {
		c.logger.WithError(err).Error("Get current subscription failed")
		return c.writeError(ctx, http.StatusInternalServerError, "internal server error")
	}

	return ctx.JSON(http.StatusOK, &dto.CurrentSubscriptionResponse{
		Subscription: mapper.SubscriptionToResponse(subscription),
		Plan:         mapper.PlanToResponse(plan),
	})
}

func (c *SubscriptionController) StartTrial(ctx echo.Context) error {
	req, err := types.NewStartTrialRequestFromContext(ctx, middleware.UserID(ctx))
	if err != nil {
		return c.writeError(ctx, http.StatusBadRequest, "invalid request body")
	}
	if err := req.Validate(); err != nil {
		return c.writeError(ctx, http.StatusBadRequest, err.Error())
	}

	subscription, err := c.subscriptionService.StartTrial(ctx.Request().Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidRequest):
			return c.writeError(ctx, http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrPlanNotFound):
			return c.writeError(ctx, http.StatusNotFound, "plan not found")
		case errors.Is(err, service.ErrSubscriptionAlreadyExists):
			return c.writeError(ctx, http.StatusConflict, "subscription already exists")
		default:
			c.logger.WithError(err).Error("Start trial failed")
			return c.writeError(ctx, http.StatusInternalServerError, "internal server error")
		}
	}

	return ctx.JSON(http.StatusCreated, &dto.SubscriptionEnvelopeResponse{
		Subscription: mapper.SubscriptionToResponse(subscription),
	})
}

// Upgrade converts the caller's trial into a paid subscription. The target
// row is resolved from the caller identity, mirroring the trial-first
// definition of "current".
func (c *SubscriptionController) Upgrade(ctx echo.Context) error {
	req, err := types.NewUpgradeSubscriptionRequestFromContext(ctx)
	if err != nil {
		return c.writeError(ctx, http.StatusBadRequest, "invalid request body")
	}
	if err := req.Validate(); err != nil {
		return c.writeError(ctx, http.StatusBadRequest, err.Error())
	}

	current, err := c.subscriptionService.GetCurrent(ctx.Request().Context(), middleware.UserID(ctx))
	if err != nil {
		c.logger.WithError(err).Error("Resolve current subscription failed")
		return c.writeError(ctx, http.StatusInternalServerError, "internal server error")
	}
	if current == nil {
		return c.writeError(ctx, http.StatusNotFound, "subscription not found")
	}
	req.SubscriptionId = current.ID

	subscription, err := c.subscriptionService.UpgradeToActive(ctx.Request().Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidBillingCycle):
			return c.writeError(ctx, http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrSubscriptionNotFound):
			return c.writeError(ctx, http.StatusNotFound, "subscription not found")
		case errors.Is(err, service.ErrSubscriptionNotTrial):
			return c.writeError(ctx, http.StatusConflict, err.Error())
		default:
			c.logger.WithError(err).Error("Upgrade subscription failed")
			return c.writeError(ctx, http.StatusInternalServerError, "internal server error")
		}
	}

	return ctx.JSON(http.StatusOK, &dto.SubscriptionEnvelopeResponse{
		Subscription: mapper.SubscriptionToResponse(subscription),
	})
}

func (c *SubscriptionController) Cancel(ctx echo.Context) error {
	subscription, err := c.subscriptionService.CancelActive(ctx.Request().Context(), middleware.UserID(ctx))
	if err != nil {
		if errors.Is(err, service.ErrNoActiveSubscription) {
			return c.writeError(ctx, http.StatusNotFound, "no active subscription found")
		}
		c.logger.WithError(err).Error("Cancel subscription failed")
		return c.writeError(ctx, http.StatusInternalServerError, "internal server error")
	}

	return ctx.JSON(http.StatusOK, &dto.MessageResponse{
		Message:      "Subscription cancelled successfully",
		Subscription: mapper.SubscriptionToResponse(subscription),
	})
}

func (c *SubscriptionController) writeError(ctx echo.Context, statusCode int, message string) error {
	return ctx.JSON(statusCode, &types.ErrorResponse{Error: message})
}

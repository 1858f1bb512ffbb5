package controller

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	"github.com/vendaflow/ms-go-billing/app/dto"
	"github.com/vendaflow/ms-go-billing/app/factory"
	"github.com/vendaflow/ms-go-billing/app/mapper"
	"github.com/vendaflow/ms-go-billing/app/service"
	"github.com/vendaflow/ms-go-billing/app/types"
)

type PlanController struct {
	planService *service.PlanService
	logger      logrus.FieldLogger
}

func NewPlanController(planService *service.PlanService) *PlanController {
	return &PlanController{
		planService: planService,
		logger:      factory.NewModuleLogger("plans-controller"),
	}
}

func (c *PlanController) ListPlans(ctx echo.Context) error {
	items, err := c.planService.ListPlans(ctx.Request().Context())
	if err != nil {
		c.logger.WithError(err).Error("List plans failed")
		return ctx.JSON(http.StatusInternalServerError, &types.ErrorResponse{Error: "internal server error"})
	}

	return ctx.JSON(http.StatusOK, &dto.ListPlansResponse{
		Plans: mapper.PlansToResponse(items),
	})
}

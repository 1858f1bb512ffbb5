package mapper

import (
	"encoding/json"
	"time"

	"github.com/vendaflow/ms-go-billing/app/dto"
	"github.com/vendaflow/ms-go-billing/app/entity"
)

func PlanToResponse(item *entity.Plan) *dto.PlanResponse {
	if item == nil {
		return nil
	}

	return &dto.PlanResponse{
		ID:           item.ID,
		Name:         item.Name,
		Description:  item.Description,
		PriceMonthly: item.PriceMonthly,
		PriceAnnual:  item.PriceAnnual,
		Features:     decodeFeatures(item.Features),
		CreatedAt:    item.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:    item.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func PlansToResponse(items []*entity.Plan) []*dto.PlanResponse {
	result := make([]*dto.PlanResponse, 0, len(items))
	for _, item := range items {
		result = append(result, PlanToResponse(item))
	}
	return result
}

func SubscriptionToResponse(item *entity.Subscription) *dto.SubscriptionResponse {
	if item == nil {
		return nil
	}

	return &dto.SubscriptionResponse{
		ID:           item.ID,
		UserID:       item.UserID,
		PlanID:       item.PlanID,
		Status:       item.Status,
		BillingCycle: item.BillingCycle,
		TrialStartAt: item.TrialStartAt.UTC().Format(time.RFC3339),
		TrialEndAt:   item.TrialEndAt.UTC().Format(time.RFC3339),
		StartAt:      formatTime(item.StartAt),
		EndAt:        formatTime(item.EndAt),
		CancelledAt:  formatTime(item.CancelledAt),
		CreatedAt:    item.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:    item.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

// decodeFeatures deserializes the stored feature list. Plans persist features
// as a JSON-encoded array; a malformed or empty value maps to an empty list
// rather than an error since this is display data.
func decodeFeatures(raw string) []string {
	if raw == "" {
		return []string{}
	}

	features := make([]string, 0)
	if err := json.Unmarshal([]byte(raw), &features); err != nil {
		return []string{}
	}
	return features
}

func formatTime(v *time.Time) *string {
	if v == nil {
		return nil
	}
	formatted := v.UTC().Format(time.RFC3339)
	return &formatted
}

package dto

import (
	"time"

	"finmemory/internal/models"
)

// AdviceRequest is the payload for requesting generated advice
type AdviceRequest struct {
	ExtraContext string `json:"extra_context" validate:"max=4000"`
}

// AdviceResponse carries the generated reply and its parsed action items
type AdviceResponse struct {
	Reply       string              `json:"reply"`
	ActionItems []models.ActionItem `json:"action_items"`
	GeneratedAt time.Time           `json:"generated_at"`
}

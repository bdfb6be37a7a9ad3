package response_models

import (
	"time"

	"github.com/google/uuid"
)

type VerificationResponse struct {
	Status       string        `json:"status"`
	Subscription *Subscription `json:"subscription"`
}

type PlanSummary struct {
	Name                string `json:"name"`
	SyncIntervalSeconds int32  `json:"sync_interval_seconds"`
	MaxEndpoints        int32  `json:"max_endpoints"`
}

// Subscription mirrors a user_subscriptions row joined with its plan.
type Subscription struct {
	ID        uuid.UUID    `json:"id"`
	UserID    uuid.UUID    `json:"user_id"`
	PlanID    uuid.UUID    `json:"plan_id"`
	Status    string       `json:"status"`
	StartsAt  time.Time    `json:"starts_at"`
	ExpiresAt time.Time    `json:"expires_at"`
	AutoRenew bool         `json:"auto_renew"`
	Plans     *PlanSummary `json:"plans"`
}

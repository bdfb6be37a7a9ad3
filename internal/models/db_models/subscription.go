package db_models

import (
	"time"

	"github.com/google/uuid"
)

type SubscriptionStatus string

const SubStatusActive SubscriptionStatus = "active"

// SubscriptionPeriod is the validity window granted by one verified payment.
const SubscriptionPeriod = 30 * 24 * time.Hour

type UserSubscription struct {
	BaseModel
	UserID    uuid.UUID          `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
	PlanID    uuid.UUID          `gorm:"type:uuid;not null;index" json:"plan_id"`
	Status    SubscriptionStatus `gorm:"size:16;not null" json:"status"`
	StartsAt  time.Time          `gorm:"not null" json:"starts_at"`
	ExpiresAt time.Time          `gorm:"not null" json:"expires_at"`
	AutoRenew bool               `gorm:"default:false" json:"auto_renew"`

	Plan Plan `gorm:"foreignKey:PlanID" json:"-"`
}

package db_models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type PaymentTxnStatus string

const (
	PaymentStatusPending  PaymentTxnStatus = "pending"
	PaymentStatusVerified PaymentTxnStatus = "verified"
	PaymentStatusRejected PaymentTxnStatus = "rejected"
)

const (
	PaymentCurrencyXOF       = "XOF"
	PaymentMethodMobileMoney = "mobile_money"
)

// PaymentTransaction is a user's claim that a mobile-money transfer paid for a plan.
// (user_id, payment_reference) is unique so verification retries share one row.
type PaymentTransaction struct {
	BaseModel
	UserID           uuid.UUID        `gorm:"type:uuid;not null;uniqueIndex:ux_payment_txn_user_ref" json:"user_id"`
	PlanID           uuid.UUID        `gorm:"type:uuid;not null;index" json:"plan_id"`
	AmountCents      *int64           `json:"amount_cents"`
	Currency         string           `gorm:"size:3;not null" json:"currency"`
	Status           PaymentTxnStatus `gorm:"size:16;index;not null" json:"status"`
	PaymentMethod    string           `gorm:"size:32" json:"payment_method"`
	PaymentReference string           `gorm:"not null;uniqueIndex:ux_payment_txn_user_ref" json:"payment_reference"`
	VerifiedAt       *time.Time       `json:"verified_at"`

	Metadata datatypes.JSON `json:"metadata,omitempty"`
}

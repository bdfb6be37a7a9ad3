package db_models

import (
	"time"

	"github.com/google/uuid"
)

type EnrichmentSource string

const (
	SourceHeuristic  EnrichmentSource = "heuristic"
	SourceAugmented  EnrichmentSource = "augmented"
	SourceClassified EnrichmentSource = "classified"
)

// SmsTransaction is one inbound mobile-money SMS. The table keeps its historical
// name "transactions".
type SmsTransaction struct {
	BaseModel
	Sender    string    `gorm:"not null" json:"sender"`
	Message   string    `gorm:"type:text;not null" json:"message"`
	Timestamp time.Time `gorm:"index;not null" json:"timestamp"`

	// sha256(sender|message), the only dedup key
	Fingerprint string `gorm:"size:64;uniqueIndex;not null" json:"fingerprint"`

	PaymentReference   *string          `gorm:"index" json:"payment_reference"`
	AmountCents        *int64           `json:"amount_cents"` // raw digits, see sms_parser.go
	Currency           string           `gorm:"default:FCFA" json:"currency"`
	CounterpartyNumber *string          `json:"counterparty_number"`
	Provider           *string          `json:"provider,omitempty"`
	ParsedConfidence   float64          `json:"parsed_confidence"`
	ParsedAt           time.Time        `json:"parsed_at"`
	EnrichmentSource   EnrichmentSource `gorm:"size:16" json:"enrichment_source"`

	MatchedPaymentTransactionID *uuid.UUID        `gorm:"type:uuid" json:"matched_payment_transaction_id"`
	MatchedStatus               *PaymentTxnStatus `json:"matched_status"`
	MatchedAt                   *time.Time        `json:"matched_at"`
}

func (SmsTransaction) TableName() string {
	return "transactions"
}

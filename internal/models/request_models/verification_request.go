package request_models

type VerifyTransactionRequest struct {
	UserID           string  `json:"user_id"`
	PlanID           *string `json:"plan_id"`
	PlanName         *string `json:"plan_name"`
	AmountCents      *int64  `json:"amount_cents" binding:"omitempty,gte=0"`
	PaymentReference string  `json:"payment_reference"`
}

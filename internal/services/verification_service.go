package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"muanapay/internal/infra"
	"muanapay/internal/models/db_models"
	"muanapay/internal/models/request_models"
	"muanapay/internal/models/response_models"
	"muanapay/internal/repositories"
	"muanapay/pkg/metrics"
	"muanapay/pkg/utils"
)

type VerificationServiceInterface interface {
	Verify(ctx context.Context, req request_models.VerifyTransactionRequest) (*response_models.VerificationResponse, error)
}

type VerificationService struct {
	db            *gorm.DB
	profiles      repositories.ProfileRepository
	plans         repositories.IPlanRepository
	payments      repositories.PaymentTransactionRepository
	sms           repositories.SmsTransactionRepository
	subscriptions repositories.SubscriptionRepository
	log           *zap.Logger
	metrics       metrics.Recorder
}

func NewVerificationService(
	db *gorm.DB,
	profiles repositories.ProfileRepository,
	plans repositories.IPlanRepository,
	payments repositories.PaymentTransactionRepository,
	sms repositories.SmsTransactionRepository,
	subscriptions repositories.SubscriptionRepository,
	log *zap.Logger,
	recorder metrics.Recorder,
) VerificationServiceInterface {
	return &VerificationService{
		db:            db,
		profiles:      profiles,
		plans:         plans,
		payments:      payments,
		sms:           sms,
		subscriptions: subscriptions,
		log:           log,
		metrics:       recorder,
	}
}

type resolvedPlan struct {
	id    *uuid.UUID
	price *int64
	name  string
}

// Verify checks a user's payment claim against ingested SMS and grants a 30 day
// subscription when it holds. Retries with the same (user, reference) reuse one
// payment transaction.
func (v *VerificationService) Verify(ctx context.Context, req request_models.VerifyTransactionRequest) (*response_models.VerificationResponse, error) {
	reference := strings.TrimSpace(req.PaymentReference)
	if strings.TrimSpace(req.UserID) == "" || reference == "" {
		return nil, utils.ErrMissingVerificationFields
	}

	userID, err := uuid.Parse(strings.TrimSpace(req.UserID))
	if err != nil {
		return nil, utils.ErrInvalidUserID
	}

	var requestedPlanID *uuid.UUID
	if req.PlanID != nil && strings.TrimSpace(*req.PlanID) != "" {
		id, err := uuid.Parse(strings.TrimSpace(*req.PlanID))
		if err != nil {
			return nil, utils.ErrInvalidPlanID
		}
		requestedPlanID = &id
	}

	var response *response_models.VerificationResponse
	err = infra.RunInTransaction(ctx, v.db, func(ctx context.Context) error {
		if err := v.ensureProfile(ctx, userID); err != nil {
			return err
		}

		plan, err := v.resolvePlan(ctx, requestedPlanID, req.PlanName)
		if err != nil {
			return err
		}

		txn, err := v.findOrCreatePayment(ctx, userID, reference, plan, req.AmountCents)
		if err != nil {
			return err
		}

		// An existing transaction keeps the plan it was opened for.
		if plan.id == nil || *plan.id != txn.PlanID {
			stored, err := v.plans.GetPlanInfoById(ctx, txn.PlanID.String())
			if err != nil {
				return utils.WrapServiceError(utils.ErrDatabaseError, err)
			}
			plan = resolvedPlan{id: &txn.PlanID}
			if stored != nil {
				plan.price = &stored.PriceCents
				plan.name = stored.Name
			}
		}

		response, err = v.settle(ctx, userID, reference, txn, plan)
		return err
	})
	if err != nil {
		return nil, err
	}

	v.metrics.Verification(response.Status)
	return response, nil
}

func (v *VerificationService) ensureProfile(ctx context.Context, userID uuid.UUID) error {
	existing, err := v.profiles.FindById(ctx, userID)
	if err != nil {
		return utils.WrapServiceError(utils.ErrDatabaseError, err)
	}
	if existing != nil {
		return nil
	}

	profile := &db_models.Profile{
		BaseModel: db_models.BaseModel{ID: userID},
		Email:     fmt.Sprintf("user-%s@local", userID),
	}
	if err := v.profiles.InsertIfMissing(ctx, profile); err != nil {
		return utils.WrapServiceError(utils.ErrDatabaseError, err)
	}
	return nil
}

// resolvePlan prefers an explicit plan id and falls back to an active plan by name.
// Neither given is not an error here; an existing payment transaction may carry one.
func (v *VerificationService) resolvePlan(ctx context.Context, planID *uuid.UUID, planName *string) (resolvedPlan, error) {
	if planID != nil {
		plan, err := v.plans.GetPlanInfoById(ctx, planID.String())
		if err != nil {
			return resolvedPlan{}, utils.WrapServiceError(utils.ErrDatabaseError, err)
		}
		if plan == nil {
			return resolvedPlan{}, utils.ErrPlanNotFound
		}
		return resolvedPlan{id: &plan.ID, price: &plan.PriceCents, name: plan.Name}, nil
	}

	if planName == nil || strings.TrimSpace(*planName) == "" {
		return resolvedPlan{}, nil
	}

	plan, err := v.plans.GetActivePlanByName(ctx, strings.TrimSpace(*planName))
	if err != nil {
		return resolvedPlan{}, utils.WrapServiceError(utils.ErrDatabaseError, err)
	}
	if plan == nil {
		return resolvedPlan{}, utils.ErrPlanNotFound
	}
	return resolvedPlan{id: &plan.ID, price: &plan.PriceCents, name: plan.Name}, nil
}

func (v *VerificationService) findOrCreatePayment(
	ctx context.Context,
	userID uuid.UUID,
	reference string,
	plan resolvedPlan,
	claimedAmount *int64,
) (*db_models.PaymentTransaction, error) {
	existing, err := v.payments.FindLatestByUserAndReference(ctx, userID, reference)
	if err != nil {
		return nil, utils.WrapServiceError(utils.ErrDatabaseError, err)
	}
	if existing != nil {
		return existing, nil
	}

	if plan.id == nil {
		return nil, utils.ErrPlanRequired
	}
	amount := claimedAmount
	if amount == nil {
		amount = plan.price
	}
	if amount == nil {
		return nil, utils.ErrAmountRequired
	}

	meta, _ := json.Marshal(map[string]any{
		"plan_name":      plan.name,
		"claimed_amount": claimedAmount,
	})

	candidate := &db_models.PaymentTransaction{
		UserID:           userID,
		PlanID:           *plan.id,
		AmountCents:      amount,
		Currency:         db_models.PaymentCurrencyXOF,
		Status:           db_models.PaymentStatusPending,
		PaymentMethod:    db_models.PaymentMethodMobileMoney,
		PaymentReference: reference,
		Metadata:         datatypes.JSON(meta),
	}

	stored, created, err := v.payments.CreateIfAbsent(ctx, candidate)
	if err != nil {
		return nil, utils.WrapServiceError(utils.ErrDatabaseError, err)
	}
	if !created {
		v.log.Info("payment transaction created concurrently, reusing it",
			zap.String("payment_transaction_id", stored.ID.String()))
	}
	return stored, nil
}

// settle matches the reference against ingested SMS, records the decision and,
// when verified, grants the subscription.
func (v *VerificationService) settle(
	ctx context.Context,
	userID uuid.UUID,
	reference string,
	txn *db_models.PaymentTransaction,
	plan resolvedPlan,
) (*response_models.VerificationResponse, error) {
	matched, err := v.sms.FindLatestByReference(ctx, reference)
	if err != nil {
		return nil, utils.WrapServiceError(utils.ErrDatabaseError, err)
	}

	amount := txn.AmountCents
	if amount == nil && matched != nil {
		if smsAmount := utils.ParseSmsAmount(matched.Message); smsAmount != nil {
			if err := v.payments.UpdateAmount(ctx, txn.ID, *smsAmount); err != nil {
				return nil, utils.WrapServiceError(utils.ErrDatabaseError, err)
			}
			amount = smsAmount
		}
	}

	verified := matched != nil
	if plan.price != nil && (amount == nil || *amount != *plan.price) {
		verified = false
	}

	status := db_models.PaymentStatusRejected
	var verifiedAt *time.Time
	now := utils.NowUTC()
	if verified {
		status = db_models.PaymentStatusVerified
		verifiedAt = &now
	}

	if err := v.payments.UpdateStatus(ctx, txn.ID, status, verifiedAt); err != nil {
		return nil, utils.WrapServiceError(utils.ErrDatabaseError, err)
	}

	if matched != nil {
		if err := v.sms.MarkMatched(ctx, matched.ID, txn.ID, status, now); err != nil {
			return nil, utils.WrapServiceError(utils.ErrDatabaseError, err)
		}
	}

	v.log.Info("payment verification settled",
		zap.String("payment_transaction_id", txn.ID.String()),
		zap.String("status", string(status)),
		zap.Bool("sms_matched", matched != nil),
	)

	response := &response_models.VerificationResponse{Status: string(status)}
	if !verified {
		return response, nil
	}

	sub, err := v.subscriptions.Upsert(ctx, &db_models.UserSubscription{
		UserID:    userID,
		PlanID:    txn.PlanID,
		Status:    db_models.SubStatusActive,
		StartsAt:  now,
		ExpiresAt: now.Add(db_models.SubscriptionPeriod),
		AutoRenew: false,
	})
	if err != nil {
		return nil, utils.WrapServiceError(utils.ErrDatabaseError, err)
	}

	response.Subscription = toSubscriptionResponse(sub)
	return response, nil
}

func toSubscriptionResponse(sub *db_models.UserSubscription) *response_models.Subscription {
	out := &response_models.Subscription{
		ID:        sub.ID,
		UserID:    sub.UserID,
		PlanID:    sub.PlanID,
		Status:    string(sub.Status),
		StartsAt:  sub.StartsAt,
		ExpiresAt: sub.ExpiresAt,
		AutoRenew: sub.AutoRenew,
	}
	if sub.Plan.ID != uuid.Nil {
		out.Plans = &response_models.PlanSummary{
			Name:                sub.Plan.Name,
			SyncIntervalSeconds: sub.Plan.SyncIntervalSeconds,
			MaxEndpoints:        sub.Plan.MaxEndpoints,
		}
	}
	return out
}

package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"muanapay/internal/models/db_models"
	"muanapay/internal/models/request_models"
	"muanapay/internal/repositories"
	"muanapay/internal/testutil"
	"muanapay/pkg/metrics"
	"muanapay/pkg/utils"
)

type verificationFixture struct {
	db  *gorm.DB
	svc VerificationServiceInterface
	sms repositories.SmsTransactionRepository
}

func newVerificationFixture(t *testing.T) *verificationFixture {
	t.Helper()
	db := testutil.NewTestDB(t)
	sms := repositories.NewSmsTransactionRepository(db)
	svc := NewVerificationService(
		db,
		repositories.NewProfileRepository(db),
		repositories.NewPlanRepository(db),
		repositories.NewPaymentTransactionRepository(db),
		sms,
		repositories.NewSubscriptionRepository(db),
		zap.NewNop(),
		metrics.NoopRecorder{},
	)
	return &verificationFixture{db: db, svc: svc, sms: sms}
}

func (f *verificationFixture) seedSms(t *testing.T, message, reference string) *db_models.SmsTransaction {
	t.Helper()
	parsed := utils.ExtractSmsFields(message)
	rec := &db_models.SmsTransaction{
		Sender:           "OrangeMoney",
		Message:          message,
		Timestamp:        time.Now().UTC(),
		Fingerprint:      utils.Fingerprint("OrangeMoney", message),
		PaymentReference: &reference,
		AmountCents:      parsed.AmountCents,
		Currency:         parsed.Currency,
		ParsedConfidence: parsed.ParsedConfidence,
		ParsedAt:         time.Now().UTC(),
		EnrichmentSource: db_models.SourceHeuristic,
	}
	inserted, err := f.sms.InsertIgnoreDuplicate(context.Background(), rec)
	require.NoError(t, err)
	require.True(t, inserted)
	return rec
}

func (f *verificationFixture) paymentTxns(t *testing.T, userID uuid.UUID) []db_models.PaymentTransaction {
	t.Helper()
	var txns []db_models.PaymentTransaction
	require.NoError(t, f.db.Where("user_id = ?", userID).Find(&txns).Error)
	return txns
}

func (f *verificationFixture) subscriptionCount(t *testing.T, userID uuid.UUID) int64 {
	t.Helper()
	var count int64
	require.NoError(t, f.db.Model(&db_models.UserSubscription{}).Where("user_id = ?", userID).Count(&count).Error)
	return count
}

func TestVerify_SuccessGrantsThirtyDaySubscription(t *testing.T) {
	f := newVerificationFixture(t)
	plan := testutil.SeedPlan(t, f.db, "Pro", 10000, true)
	sms := f.seedSms(t, "Transfert de 10000 FCFA du +22377123456 ID: PAY-1 effectué", "PAY-1")
	userID := uuid.New()

	resp, err := f.svc.Verify(context.Background(), request_models.VerifyTransactionRequest{
		UserID:           userID.String(),
		PlanName:         strPtr("Pro"),
		AmountCents:      int64Ptr(10000),
		PaymentReference: " PAY-1 ",
	})
	require.NoError(t, err)
	assert.Equal(t, "verified", resp.Status)

	require.NotNil(t, resp.Subscription)
	sub := resp.Subscription
	assert.Equal(t, userID, sub.UserID)
	assert.Equal(t, plan.ID, sub.PlanID)
	assert.Equal(t, "active", sub.Status)
	assert.False(t, sub.AutoRenew)
	assert.WithinDuration(t, sub.StartsAt.Add(30*24*time.Hour), sub.ExpiresAt, 5*time.Second)
	require.NotNil(t, sub.Plans)
	assert.Equal(t, "Pro", sub.Plans.Name)
	assert.Equal(t, int32(300), sub.Plans.SyncIntervalSeconds)

	txns := f.paymentTxns(t, userID)
	require.Len(t, txns, 1)
	assert.Equal(t, db_models.PaymentStatusVerified, txns[0].Status)
	assert.NotNil(t, txns[0].VerifiedAt)
	assert.Equal(t, "PAY-1", txns[0].PaymentReference)
	assert.Equal(t, db_models.PaymentCurrencyXOF, txns[0].Currency)
	assert.Equal(t, db_models.PaymentMethodMobileMoney, txns[0].PaymentMethod)

	var matched db_models.SmsTransaction
	require.NoError(t, f.db.First(&matched, "id = ?", sms.ID).Error)
	require.NotNil(t, matched.MatchedPaymentTransactionID)
	assert.Equal(t, txns[0].ID, *matched.MatchedPaymentTransactionID)
	assert.Equal(t, db_models.PaymentStatusVerified, *matched.MatchedStatus)

	var profile db_models.Profile
	require.NoError(t, f.db.First(&profile, "id = ?", userID).Error)
	assert.Equal(t, "user-"+userID.String()+"@local", profile.Email)
}

func TestVerify_AmountMismatchIsRejected(t *testing.T) {
	f := newVerificationFixture(t)
	testutil.SeedPlan(t, f.db, "Pro", 10000, true)
	sms := f.seedSms(t, "Transfert de 9000 FCFA du +22377123456 ID: PAY-2 effectué", "PAY-2")
	userID := uuid.New()

	resp, err := f.svc.Verify(context.Background(), request_models.VerifyTransactionRequest{
		UserID:           userID.String(),
		PlanName:         strPtr("Pro"),
		AmountCents:      int64Ptr(9000),
		PaymentReference: "PAY-2",
	})
	require.NoError(t, err)
	assert.Equal(t, "rejected", resp.Status)
	assert.Nil(t, resp.Subscription)
	assert.Equal(t, int64(0), f.subscriptionCount(t, userID))

	txns := f.paymentTxns(t, userID)
	require.Len(t, txns, 1)
	assert.Equal(t, db_models.PaymentStatusRejected, txns[0].Status)
	assert.Nil(t, txns[0].VerifiedAt)

	// the SMS is back-linked whatever the outcome
	var matched db_models.SmsTransaction
	require.NoError(t, f.db.First(&matched, "id = ?", sms.ID).Error)
	require.NotNil(t, matched.MatchedStatus)
	assert.Equal(t, db_models.PaymentStatusRejected, *matched.MatchedStatus)
}

func TestVerify_NoSmsMatchIsRejected(t *testing.T) {
	f := newVerificationFixture(t)
	testutil.SeedPlan(t, f.db, "Pro", 10000, true)
	userID := uuid.New()

	resp, err := f.svc.Verify(context.Background(), request_models.VerifyTransactionRequest{
		UserID:           userID.String(),
		PlanName:         strPtr("Pro"),
		AmountCents:      int64Ptr(10000),
		PaymentReference: "UNKNOWN",
	})
	require.NoError(t, err)
	assert.Equal(t, "rejected", resp.Status)
	assert.Nil(t, resp.Subscription)
	assert.Equal(t, int64(0), f.subscriptionCount(t, userID))
}

func TestVerify_RetryReusesPaymentTransaction(t *testing.T) {
	f := newVerificationFixture(t)
	testutil.SeedPlan(t, f.db, "Pro", 10000, true)
	f.seedSms(t, "Transfert de 10000 FCFA du +22377123456 ID: PAY-3 effectué", "PAY-3")
	userID := uuid.New()
	req := request_models.VerifyTransactionRequest{
		UserID:           userID.String(),
		PlanName:         strPtr("Pro"),
		PaymentReference: "PAY-3",
	}

	first, err := f.svc.Verify(context.Background(), req)
	require.NoError(t, err)
	txns := f.paymentTxns(t, userID)
	require.Len(t, txns, 1)
	firstID := txns[0].ID

	second, err := f.svc.Verify(context.Background(), req)
	require.NoError(t, err)
	txns = f.paymentTxns(t, userID)
	require.Len(t, txns, 1)
	assert.Equal(t, firstID, txns[0].ID)

	assert.Equal(t, "verified", first.Status)
	assert.Equal(t, "verified", second.Status)
	assert.Equal(t, first.Subscription.ID, second.Subscription.ID)
	assert.Equal(t, int64(1), f.subscriptionCount(t, userID))
}

func TestVerify_ExistingTransactionWithoutAmountAdoptsSmsAmount(t *testing.T) {
	f := newVerificationFixture(t)
	plan := testutil.SeedPlan(t, f.db, "Pro", 10000, true)
	f.seedSms(t, "Transfert de 10000 FCFA du +22377123456 ID: PAY-4 effectué", "PAY-4")
	userID := uuid.New()

	legacy := &db_models.PaymentTransaction{
		UserID:           userID,
		PlanID:           plan.ID,
		Currency:         db_models.PaymentCurrencyXOF,
		Status:           db_models.PaymentStatusPending,
		PaymentMethod:    db_models.PaymentMethodMobileMoney,
		PaymentReference: "PAY-4",
	}
	require.NoError(t, f.db.Create(legacy).Error)

	resp, err := f.svc.Verify(context.Background(), request_models.VerifyTransactionRequest{
		UserID:           userID.String(),
		PaymentReference: "PAY-4",
	})
	require.NoError(t, err)
	assert.Equal(t, "verified", resp.Status)

	txns := f.paymentTxns(t, userID)
	require.Len(t, txns, 1)
	assert.Equal(t, legacy.ID, txns[0].ID)
	require.NotNil(t, txns[0].AmountCents)
	assert.Equal(t, int64(10000), *txns[0].AmountCents)
}

func TestVerify_OnlyTransferTemplateAmountIsAdopted(t *testing.T) {
	f := newVerificationFixture(t)
	plan := testutil.SeedPlan(t, f.db, "Pro", 10000, true)
	userID := uuid.New()

	// amount came from the model, the message itself has no "transfert de" clause
	message := "Vous avez recu 10000 FCFA du +22377123456 ID: PAY-6"
	require.NoError(t, f.db.Create(&db_models.SmsTransaction{
		Sender:           "OrangeMoney",
		Message:          message,
		Timestamp:        time.Now().UTC(),
		Fingerprint:      utils.Fingerprint("OrangeMoney", message),
		PaymentReference: strPtr("PAY-6"),
		AmountCents:      int64Ptr(10000),
		Currency:         utils.DefaultSmsCurrency,
		ParsedConfidence: AugmentedConfidence,
		ParsedAt:         time.Now().UTC(),
		EnrichmentSource: db_models.SourceAugmented,
	}).Error)

	require.NoError(t, f.db.Create(&db_models.PaymentTransaction{
		UserID:           userID,
		PlanID:           plan.ID,
		Currency:         db_models.PaymentCurrencyXOF,
		Status:           db_models.PaymentStatusPending,
		PaymentMethod:    db_models.PaymentMethodMobileMoney,
		PaymentReference: "PAY-6",
	}).Error)

	resp, err := f.svc.Verify(context.Background(), request_models.VerifyTransactionRequest{
		UserID:           userID.String(),
		PaymentReference: "PAY-6",
	})
	require.NoError(t, err)
	assert.Equal(t, "rejected", resp.Status)
	assert.Nil(t, resp.Subscription)

	txns := f.paymentTxns(t, userID)
	require.Len(t, txns, 1)
	assert.Nil(t, txns[0].AmountCents)
}

func TestVerify_UnknownPlanIDIsNotFoundEvenWithPlanName(t *testing.T) {
	f := newVerificationFixture(t)
	testutil.SeedPlan(t, f.db, "Pro", 10000, true)
	sms := f.seedSms(t, "Transfert de 10000 FCFA du +22377123456 ID: PAY-7 effectué", "PAY-7")
	userID := uuid.New()
	unknown := uuid.New().String()

	_, err := f.svc.Verify(context.Background(), request_models.VerifyTransactionRequest{
		UserID:           userID.String(),
		PlanID:           &unknown,
		PlanName:         strPtr("Pro"),
		PaymentReference: "PAY-7",
	})
	require.ErrorIs(t, err, utils.ErrPlanNotFound)

	assert.Empty(t, f.paymentTxns(t, userID))
	assert.Equal(t, int64(0), f.subscriptionCount(t, userID))

	var stored db_models.SmsTransaction
	require.NoError(t, f.db.First(&stored, "id = ?", sms.ID).Error)
	assert.Nil(t, stored.MatchedPaymentTransactionID)
}

func TestVerify_PlanIDTakesPrecedence(t *testing.T) {
	f := newVerificationFixture(t)
	basic := testutil.SeedPlan(t, f.db, "Basic", 5000, true)
	testutil.SeedPlan(t, f.db, "Pro", 10000, true)
	f.seedSms(t, "Transfert de 5000 FCFA du +22377123456 ID: PAY-5 effectué", "PAY-5")
	userID := uuid.New()
	planID := basic.ID.String()

	resp, err := f.svc.Verify(context.Background(), request_models.VerifyTransactionRequest{
		UserID:           userID.String(),
		PlanID:           &planID,
		PlanName:         strPtr("Pro"),
		PaymentReference: "PAY-5",
	})
	require.NoError(t, err)
	assert.Equal(t, "verified", resp.Status)
	assert.Equal(t, basic.ID, resp.Subscription.PlanID)
}

func TestVerify_ValidationErrors(t *testing.T) {
	f := newVerificationFixture(t)
	testutil.SeedPlan(t, f.db, "Legacy", 10000, false)
	userID := uuid.New().String()
	badPlan := "not-a-uuid"
	unknownPlan := uuid.New().String()

	cases := []struct {
		name string
		req  request_models.VerifyTransactionRequest
		want error
	}{
		{"missing user", request_models.VerifyTransactionRequest{PaymentReference: "R"}, utils.ErrMissingVerificationFields},
		{"blank reference", request_models.VerifyTransactionRequest{UserID: userID, PaymentReference: "  "}, utils.ErrMissingVerificationFields},
		{"bad user id", request_models.VerifyTransactionRequest{UserID: "42", PaymentReference: "R"}, utils.ErrInvalidUserID},
		{"bad plan id", request_models.VerifyTransactionRequest{UserID: userID, PlanID: &badPlan, PaymentReference: "R"}, utils.ErrInvalidPlanID},
		{"inactive plan", request_models.VerifyTransactionRequest{UserID: userID, PlanName: strPtr("Legacy"), PaymentReference: "R"}, utils.ErrPlanNotFound},
		{"unknown plan name", request_models.VerifyTransactionRequest{UserID: userID, PlanName: strPtr("Gold"), PaymentReference: "R"}, utils.ErrPlanNotFound},
		{"unknown plan id", request_models.VerifyTransactionRequest{UserID: userID, PlanID: &unknownPlan, PaymentReference: "R"}, utils.ErrPlanNotFound},
		{"no plan for new transaction", request_models.VerifyTransactionRequest{UserID: userID, PaymentReference: "R"}, utils.ErrPlanRequired},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.svc.Verify(context.Background(), tc.req)
			assert.ErrorIs(t, err, tc.want)
		})
	}

	var count int64
	require.NoError(t, f.db.Model(&db_models.PaymentTransaction{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

package services

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"muanapay/internal/models/db_models"
	"muanapay/pkg/utils"
	"time"
)

type fakeCompletion struct {
	mu       sync.Mutex
	response string
	err      error
	calls    int
	last     utils.CompletionRequest
}

func (f *fakeCompletion) CompleteJSON(_ context.Context, req utils.CompletionRequest) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.last = req
	return f.response, f.err
}

func (f *fakeCompletion) Model() string { return "fake-model" }

type mockSmsRepository struct {
	mock.Mock
}

func (m *mockSmsRepository) InsertIgnoreDuplicate(ctx context.Context, rec *db_models.SmsTransaction) (bool, error) {
	args := m.Called(ctx, rec)
	return args.Bool(0), args.Error(1)
}

func (m *mockSmsRepository) FindLatestByReference(ctx context.Context, reference string) (*db_models.SmsTransaction, error) {
	args := m.Called(ctx, reference)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*db_models.SmsTransaction), args.Error(1)
}

func (m *mockSmsRepository) MarkMatched(ctx context.Context, id uuid.UUID, paymentTxnID uuid.UUID, status db_models.PaymentTxnStatus, matchedAt time.Time) error {
	args := m.Called(ctx, id, paymentTxnID, status, matchedAt)
	return args.Error(0)
}

func strPtr(s string) *string { return &s }

func int64Ptr(v int64) *int64 { return &v }

package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"muanapay/internal/infra"
	"muanapay/internal/models/db_models"
)

type PaymentTransactionRepository interface {
	FindLatestByUserAndReference(ctx context.Context, userID uuid.UUID, reference string) (*db_models.PaymentTransaction, error)
	// CreateIfAbsent inserts txn unless (user_id, payment_reference) is taken, then returns
	// whichever row owns the pair. created reports whether txn was the one inserted.
	CreateIfAbsent(ctx context.Context, txn *db_models.PaymentTransaction) (stored *db_models.PaymentTransaction, created bool, err error)
	UpdateAmount(ctx context.Context, id uuid.UUID, amountCents int64) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status db_models.PaymentTxnStatus, verifiedAt *time.Time) error
}

type paymentTransactionRepository struct {
	db *gorm.DB
}

func NewPaymentTransactionRepository(db *gorm.DB) PaymentTransactionRepository {
	return &paymentTransactionRepository{db: db}
}

func (r *paymentTransactionRepository) FindLatestByUserAndReference(ctx context.Context, userID uuid.UUID, reference string) (*db_models.PaymentTransaction, error) {
	var txn db_models.PaymentTransaction
	err := infra.Conn(ctx, r.db).
		Where("user_id = ? AND payment_reference = ?", userID, reference).
		Order("created_at DESC").
		First(&txn).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &txn, nil
}

func (r *paymentTransactionRepository) CreateIfAbsent(ctx context.Context, txn *db_models.PaymentTransaction) (*db_models.PaymentTransaction, bool, error) {
	res := infra.Conn(ctx, r.db).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "payment_reference"}},
			DoNothing: true,
		}).
		Create(txn)
	if res.Error != nil {
		return nil, false, res.Error
	}
	if res.RowsAffected > 0 {
		return txn, true, nil
	}

	existing, err := r.FindLatestByUserAndReference(ctx, txn.UserID, txn.PaymentReference)
	if err != nil {
		return nil, false, err
	}
	if existing == nil {
		return nil, false, errors.New("payment transaction conflict without a visible row")
	}
	return existing, false, nil
}

func (r *paymentTransactionRepository) UpdateAmount(ctx context.Context, id uuid.UUID, amountCents int64) error {
	return infra.Conn(ctx, r.db).
		Model(&db_models.PaymentTransaction{}).
		Where("id = ?", id).
		Update("amount_cents", amountCents).Error
}

func (r *paymentTransactionRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status db_models.PaymentTxnStatus, verifiedAt *time.Time) error {
	return infra.Conn(ctx, r.db).
		Model(&db_models.PaymentTransaction{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":      status,
			"verified_at": verifiedAt,
		}).Error
}

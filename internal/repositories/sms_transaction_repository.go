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

type SmsTransactionRepository interface {
	// InsertIgnoreDuplicate stores rec unless its fingerprint already exists.
	// inserted is false for duplicates; that is not an error.
	InsertIgnoreDuplicate(ctx context.Context, rec *db_models.SmsTransaction) (inserted bool, err error)
	FindLatestByReference(ctx context.Context, reference string) (*db_models.SmsTransaction, error)
	MarkMatched(ctx context.Context, id uuid.UUID, paymentTxnID uuid.UUID, status db_models.PaymentTxnStatus, matchedAt time.Time) error
}

type smsTransactionRepository struct {
	db *gorm.DB
}

func NewSmsTransactionRepository(db *gorm.DB) SmsTransactionRepository {
	return &smsTransactionRepository{db: db}
}

func (r *smsTransactionRepository) InsertIgnoreDuplicate(ctx context.Context, rec *db_models.SmsTransaction) (bool, error) {
	res := infra.Conn(ctx, r.db).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "fingerprint"}},
			DoNothing: true,
		}).
		Create(rec)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *smsTransactionRepository) FindLatestByReference(ctx context.Context, reference string) (*db_models.SmsTransaction, error) {
	var rec db_models.SmsTransaction
	err := infra.Conn(ctx, r.db).
		Where("payment_reference = ?", reference).
		Order("timestamp DESC").
		First(&rec).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &rec, nil
}

func (r *smsTransactionRepository) MarkMatched(ctx context.Context, id uuid.UUID, paymentTxnID uuid.UUID, status db_models.PaymentTxnStatus, matchedAt time.Time) error {
	return infra.Conn(ctx, r.db).
		Model(&db_models.SmsTransaction{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"matched_payment_transaction_id": paymentTxnID,
			"matched_status":                 status,
			"matched_at":                     matchedAt,
		}).Error
}

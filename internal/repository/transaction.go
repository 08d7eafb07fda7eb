package repository

import (
	"context"
	"errors"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/parsedu/payment-service/internal/model"
	"gorm.io/gorm"
)

var (
	ErrTransactionExisted  = errors.New("TRANSACTION_EXISTED")
	ErrTransactionNotFound = errors.New("TRANSACTION_NOT_FOUND")

	// ErrAlreadyFinalized reports that a conditional status transition matched
	// zero rows, meaning another call already moved the transaction out of
	// pending.
	ErrAlreadyFinalized = errors.New("TRANSACTION_ALREADY_FINALIZED")
)

type TransactionRepository interface {
	Create(ctx context.Context, tx *model.Transaction) error
	FindByOrderID(orderID string) (*model.Transaction, error)
	FindByRefNum(refNum string) (*model.Transaction, error)
	SetRefNum(ctx context.Context, id string, refNum string) error
	MarkFailed(ctx context.Context, id string) error
	MarkSuccess(ctx context.Context, id string, verifiedAt time.Time) error
}

type transaction struct {
	db *gorm.DB
}

func NewTransactionRepository(db *gorm.DB) TransactionRepository {
	return &transaction{db: db}
}

func (t *transaction) Create(ctx context.Context, tx *model.Transaction) error {
	db := GetTx(ctx, t.db)
	err := db.Create(tx).Error
	if err == nil {
		return nil
	}

	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) && mysqlErr.Number == 1062 {
		return ErrTransactionExisted
	}

	return err
}

func (t *transaction) FindByOrderID(orderID string) (*model.Transaction, error) {
	var tx model.Transaction
	err := t.db.Where("order_id = ?", orderID).First(&tx).Error
	if err == nil {
		return &tx, nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrTransactionNotFound
	}

	return nil, err
}

func (t *transaction) FindByRefNum(refNum string) (*model.Transaction, error) {
	var tx model.Transaction
	err := t.db.Where("ref_num = ?", refNum).First(&tx).Error
	if err == nil {
		return &tx, nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrTransactionNotFound
	}

	return nil, err
}

func (t *transaction) SetRefNum(ctx context.Context, id string, refNum string) error {
	db := GetTx(ctx, t.db)
	return db.Model(&model.Transaction{}).
		Where("id = ?", id).
		Update("ref_num", refNum).Error
}

func (t *transaction) MarkFailed(ctx context.Context, id string) error {
	db := GetTx(ctx, t.db)
	return db.Model(&model.Transaction{}).
		Where("id = ? AND status = ?", id, model.TxStatusPending).
		Update("status", model.TxStatusFailed).Error
}

// MarkSuccess transitions a pending transaction to success. The WHERE clause
// on status makes the transition atomic: zero rows affected means another
// call won the race and is reported as ErrAlreadyFinalized.
func (t *transaction) MarkSuccess(ctx context.Context, id string, verifiedAt time.Time) error {
	db := GetTx(ctx, t.db)
	result := db.Model(&model.Transaction{}).
		Where("id = ? AND status = ?", id, model.TxStatusPending).
		Updates(map[string]interface{}{
			"status":      model.TxStatusSuccess,
			"verified_at": verifiedAt,
		})

	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ErrAlreadyFinalized
	}

	return nil
}

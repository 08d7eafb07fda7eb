package mocks

import (
	"context"
	"time"

	"github.com/parsedu/payment-service/internal/model"
	"github.com/stretchr/testify/mock"
)

type TransactionRepository struct {
	mock.Mock
}

func (m *TransactionRepository) Create(ctx context.Context, tx *model.Transaction) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *TransactionRepository) FindByOrderID(orderID string) (*model.Transaction, error) {
	args := m.Called(orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Transaction), args.Error(1)
}

func (m *TransactionRepository) FindByRefNum(refNum string) (*model.Transaction, error) {
	args := m.Called(refNum)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Transaction), args.Error(1)
}

func (m *TransactionRepository) SetRefNum(ctx context.Context, id string, refNum string) error {
	args := m.Called(ctx, id, refNum)
	return args.Error(0)
}

func (m *TransactionRepository) MarkFailed(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *TransactionRepository) MarkSuccess(ctx context.Context, id string, verifiedAt time.Time) error {
	args := m.Called(ctx, id, verifiedAt)
	return args.Error(0)
}

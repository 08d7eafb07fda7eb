package mocks

import (
	"context"
	"time"

	"github.com/parsedu/payment-service/internal/model"
	"github.com/stretchr/testify/mock"
)

type ProfileRepository struct {
	mock.Mock
}

func (m *ProfileRepository) FindByUserID(userID string) (model.Profile, error) {
	args := m.Called(userID)
	return args.Get(0).(model.Profile), args.Error(1)
}

func (m *ProfileRepository) ExtendSubscription(ctx context.Context, userID string, expiresAt time.Time) error {
	args := m.Called(ctx, userID, expiresAt)
	return args.Error(0)
}

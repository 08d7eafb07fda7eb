package repository

import (
	"context"
	"errors"
	"time"

	"github.com/parsedu/payment-service/internal/model"
	"gorm.io/gorm"
)

var ErrProfileNotFound = errors.New("PROFILE_NOT_FOUND")

type ProfileRepository interface {
	FindByUserID(userID string) (model.Profile, error)
	ExtendSubscription(ctx context.Context, userID string, expiresAt time.Time) error
}

type profile struct {
	db *gorm.DB
}

func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &profile{db: db}
}

func (r *profile) FindByUserID(userID string) (model.Profile, error) {
	var p model.Profile
	err := r.db.Where("user_id = ?", userID).First(&p).Error
	if err == nil {
		return p, nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Profile{}, ErrProfileNotFound
	}

	return model.Profile{}, err
}

func (r *profile) ExtendSubscription(ctx context.Context, userID string, expiresAt time.Time) error {
	db := GetTx(ctx, r.db)
	result := db.Model(&model.Profile{}).
		Where("user_id = ?", userID).
		Updates(map[string]interface{}{
			"subscription_status":     model.SubscriptionActive,
			"subscription_expires_at": expiresAt,
		})

	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ErrProfileNotFound
	}

	return nil
}

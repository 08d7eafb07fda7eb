package database

import (
	"github.com/parsedu/payment-service/internal/config"
	"github.com/parsedu/payment-service/pkg/mysql"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func NewConnection(cfg *config.Config, logger *zap.Logger) (*gorm.DB, error) {
	return mysql.NewConnection(cfg.Database, logger)
}

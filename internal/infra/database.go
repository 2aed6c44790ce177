package infra

import (
	"fmt"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"bizledger.com/internal/config"
	"bizledger.com/internal/logger"
	"bizledger.com/internal/model"
)

type PostgresClient struct {
	DB *gorm.DB
}

// GormConfig 统一的 gorm 配置：zap 日志 + 驱动错误翻译
func GormConfig(log *zap.Logger, level string) *gorm.Config {
	return &gorm.Config{
		Logger:         logger.NewGormLogger(log, level),
		TranslateError: true,
	}
}

func NewPostgresClient(cfg config.DatabaseConfig, log *zap.Logger) (*PostgresClient, error) {
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=%s TimeZone=%s",
		cfg.Host, cfg.User, cfg.Password, cfg.DBName, cfg.Port, cfg.SSLMode, cfg.TimeZone)

	db, err := gorm.Open(postgres.Open(dsn), GormConfig(log, cfg.LogLevel))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	log.Info("database connected", zap.String("host", cfg.Host), zap.String("db", cfg.DBName))

	if err := Migrate(db); err != nil {
		return nil, err
	}

	return &PostgresClient{DB: db}, nil
}

// Migrate creates or updates every table.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(model.All()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}

func (c *PostgresClient) Close() error {
	sqlDB, err := c.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

package database

import (
	"context"
	"fmt"
	"strings"
	"time"

	"recipe-catalog/internal/infrastructure/config"
	"recipe-catalog/internal/models"
	"recipe-catalog/internal/pkg/common"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open 依設定連線資料庫並自動遷移食譜資料表
func Open(cfg config.DatabaseConfig) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case "postgres":
		dialector = postgres.Open(cfg.PostgresDSN())
	case "sqlite", "":
		dialector = sqlite.Open(cfg.DSN)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("error getting sql.DB: %w", err)
	}

	// 連線池設定
	if cfg.Driver == "postgres" {
		sqlDB.SetMaxOpenConns(25)
		sqlDB.SetMaxIdleConns(25)
		sqlDB.SetConnMaxLifetime(5 * time.Minute)
	} else {
		// sqlite 只允許單一寫入者，:memory: 也需要共用同一條連線
		sqlDB.SetMaxOpenConns(1)
	}

	if err := db.AutoMigrate(&models.Recipe{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	common.LogInfo("資料庫已連線",
		zap.String("driver", db.Dialector.Name()),
		zap.String("target", describeTarget(cfg)),
	)
	return db, nil
}

// Ping 檢查資料庫連線
func Ping(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close 關閉資料庫連線
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// describeTarget 回傳不含密碼的連線目標
func describeTarget(cfg config.DatabaseConfig) string {
	if cfg.Driver != "postgres" {
		return cfg.DSN
	}
	if cfg.DSN != "" {
		if i := strings.LastIndex(cfg.DSN, "@"); i >= 0 {
			return cfg.DSN[i+1:]
		}
		return "dsn"
	}
	return fmt.Sprintf("%s:%d/%s", cfg.Host, cfg.Port, cfg.Name)
}

package db

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"roomify/internal/models"
)

// Open connects to the hosted Postgres database behind DB_DSN.
func Open(dsn string, log *zap.Logger) (*gorm.DB, error) {
	if dsn == "" {
		return nil, fmt.Errorf("DB_DSN is empty (check your .env)")
	}
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{Logger: gormLogger(log)})
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}
	return db, nil
}

// gormLogger routes gorm's slow-query and error output through zap.
func gormLogger(log *zap.Logger) logger.Interface {
	if log == nil {
		return logger.Default.LogMode(logger.Silent)
	}
	return logger.New(zap.NewStdLog(log.Named("gorm")), logger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  logger.Warn,
		IgnoreRecordNotFoundError: true,
	})
}

// Migrate creates the three tables. The production schema is managed by the
// hosting platform; this is for local databases and tests only.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&models.ContentBlock{}, &models.Product{}, &models.Testimonial{})
}

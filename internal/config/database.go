package config

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	slogGorm "github.com/orandin/slog-gorm"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

// ConnectDatabase establishes connection to MySQL database
func ConnectDatabase(cfg *Config, logger *slog.Logger) (*gorm.DB, error) {
	dsn := buildDSN(cfg.Database)

	// Dev traces every statement, prod only logs errors and slow queries
	opts := []slogGorm.Option{
		slogGorm.WithHandler(logger.Handler()),
		slogGorm.WithContextValue("gorm", "true"),
	}
	if cfg.IsDev() {
		opts = append(opts,
			slogGorm.WithTraceAll(),
			slogGorm.SetLogLevel(slogGorm.DefaultLogType, slog.LevelDebug),
		)
	}

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger:                 slogGorm.New(opts...),
		SkipDefaultTransaction: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	// Connection pool settings
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info("database connected",
		"host", cfg.Database.Host,
		"port", cfg.Database.Port,
		"database", cfg.Database.DBName,
	)

	return db, nil
}

// buildDSN returns the database connection string
func buildDSN(d DatabaseConfig) string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
		d.User,
		d.Password,
		d.Host,
		d.Port,
		d.DBName,
	)
}

// CloseDatabase closes the database connection
func CloseDatabase(db *gorm.DB) error {
	if db == nil {
		return nil
	}

	sqlDB, err := db.DB()
	if err != nil {
		return err
	}

	return sqlDB.Close()
}

// DatabaseHealth returns a check that pings the database
func DatabaseHealth(db *gorm.DB) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		if db == nil {
			return errors.New("database not initialized")
		}

		sqlDB, err := db.DB()
		if err != nil {
			return err
		}

		return sqlDB.PingContext(ctx)
	}
}

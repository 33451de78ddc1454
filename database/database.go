package database

import (
	"fmt"

	"techgo/config"
	"techgo/models"

	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DbInstance struct holds the database connection instance
type DbInstance struct {
	Db *gorm.DB
}

// Database is the global database instance
var Database DbInstance

// ConnectDb opens the configured database, migrates it and stores it globally
func ConnectDb() {
	cfg := config.AppConfig

	db, err := Open(cfg)
	if err != nil {
		zap.L().Fatal("failed to connect to database", zap.String("driver", cfg.DBDriver), zap.Error(err))
	}

	// Set up connection pooling
	sqlDB, err := db.DB()
	if err != nil {
		zap.L().Fatal("failed to get database instance", zap.Error(err))
	}

	if cfg.DBDriver == "sqlite" {
		// one writer keeps sqlite from returning SQLITE_BUSY under concurrent requests
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(cfg.DBMaxOpenConns)
		sqlDB.SetMaxIdleConns(cfg.DBMaxIdleConns)
	}
	sqlDB.SetConnMaxLifetime(0) // No timeout

	// Run database migrations
	if err := Migrate(db); err != nil {
		zap.L().Fatal("migration failed", zap.Error(err))
	}

	// Save database instance globally
	Database = DbInstance{Db: db}
}

// Open builds the dialector for cfg.DBDriver and opens a gorm connection
func Open(cfg *config.Config) (*gorm.DB, error) {
	dialector, err := dialectorFor(cfg)
	if err != nil {
		return nil, err
	}

	// TranslateError turns unique index violations into gorm.ErrDuplicatedKey
	gormConfig := &gorm.Config{Logger: logger.Default.LogMode(logger.Warn), TranslateError: true}
	if cfg.DBDebug {
		gormConfig.Logger = logger.Default.LogMode(logger.Info)
	}
	return gorm.Open(dialector, gormConfig)
}

func dialectorFor(cfg *config.Config) (gorm.Dialector, error) {
	switch cfg.DBDriver {
	case "postgres":
		dsn := fmt.Sprintf(
			"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
			cfg.DBHost, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBPort,
		)
		return postgres.Open(dsn), nil
	case "mysql":
		dsn := fmt.Sprintf(
			"%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
			cfg.DBUser, cfg.DBPassword, cfg.DBHost, cfg.DBPort, cfg.DBName,
		)
		return mysql.Open(dsn), nil
	case "sqlite":
		return sqlite.Open(cfg.DBPath), nil
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}
}

// Migrate creates or updates the catalog and comparison tables
func Migrate(db *gorm.DB) error {
	zap.L().Info("running migrations")

	err := db.AutoMigrate(
		&models.Gadget{},
		&models.GadgetSpecification{},
		&models.Review{},
		&models.ComparisonList{},
		&models.ComparisonItem{},
	)
	if err != nil {
		return err
	}

	zap.L().Info("migrations completed")
	return nil
}

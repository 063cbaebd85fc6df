package db

import (
	"database/sql"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/example/blog-web/internal/config"
)

type Database struct {
	Gorm *gorm.DB
	SQL  *sql.DB
}

func Connect(cfg *config.Config) (*Database, error) {
	gormDB, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{Logger: logger.Default.LogMode(logger.Warn)})
	if err != nil {
		return nil, err
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetMaxIdleConns(5)
	return &Database{Gorm: gormDB, SQL: sqlDB}, nil
}

func (d *Database) AutoMigrate(modelsToMigrate ...interface{}) error {
	return d.Gorm.AutoMigrate(modelsToMigrate...)
}

func (d *Database) Close() error {
	if d.SQL != nil {
		return d.SQL.Close()
	}
	return nil
}

func (d *Database) Transaction(fc func(tx *gorm.DB) error) error {
	return d.Gorm.Transaction(fc)
}

package database

import (
	"strings"
	"time"

	"fileupload/internal/models"

	"github.com/kerimovok/go-pkg-database/sql"
	"github.com/kerimovok/go-pkg-utils/config"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// Models lists every table managed by the service
func Models() []interface{} {
	return []interface{}{&models.File{}, &models.FileContent{}}
}

// LogLevel maps DB_LOG_LEVEL to a gorm log level, defaulting to Info
func LogLevel(name string) logger.LogLevel {
	switch strings.ToLower(name) {
	case "silent":
		return logger.Silent
	case "error":
		return logger.Error
	case "warn":
		return logger.Warn
	}
	return logger.Info
}

// ConnectDB opens the postgres connection and migrates both entity tables
func ConnectDB() error {
	db, err := sql.OpenGorm(sql.GormConfig{
		Host:            config.GetEnv("DB_HOST"),
		User:            config.GetEnv("DB_USER"),
		Password:        config.GetEnv("DB_PASS"),
		Name:            config.GetEnv("DB_NAME"),
		Port:            config.GetEnv("DB_PORT"),
		SSLMode:         config.GetEnv("DB_SSLMODE"),
		Timezone:        "UTC",
		MaxIdleConns:    10,
		MaxOpenConns:    50,
		ConnMaxLifetime: 30 * time.Minute,
		ConnMaxIdleTime: 10 * time.Minute,
		TranslateErrors: true,
		LogLevel:        LogLevel(config.GetEnv("DB_LOG_LEVEL")),
		SlowThreshold:   200 * time.Millisecond,
		// lookups of unknown ids are answered with 404, not logged
		IgnoreRecordNotFoundError: true,
	}, Models()...)
	if err != nil {
		return err
	}

	DB = db.DB
	return nil
}

// Migrate creates or updates the tables on an already opened connection
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(Models()...)
}

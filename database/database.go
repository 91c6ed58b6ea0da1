package database

import (
	"context"
	"fmt"
	"time"

	"github.com/paradoks/clubhub/config"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open connects to the database selected by env.DBDriver.
func Open(env *config.Env) (*gorm.DB, error) {
	switch env.DBDriver {
	case "sqlite":
		return NewSQLiteClient(env.DBPath, env.DBLogMode)
	case "postgres":
		return NewPostgresClient(env.DBHost, env.DBUser, env.DBPassword, env.DBName, env.DBPort, env.DBSSLMode, env.DBLogMode)
	default:
		return nil, fmt.Errorf("unsupported db driver %q", env.DBDriver)
	}
}

func Ping(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return sqlDB.PingContext(ctx)
}

func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func gormLogger(logMode bool) logger.Interface {
	if logMode {
		return logger.Default.LogMode(logger.Info)
	}
	return logger.Default.LogMode(logger.Silent)
}

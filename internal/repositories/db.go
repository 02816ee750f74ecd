// Package repositories provides the data access layer. It owns the
// global database handle, the Redis cache service, and the per-entity
// repositories used by the service layer.
package repositories

import (
	"context"
	"log"
	"time"

	"digipehchan/internal/config"
	"digipehchan/internal/models"
	"digipehchan/internal/repositories/cache"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// DB is the global database instance used across the application.
var DB *gorm.DB

// CacheService is the shared Redis-backed cache.
var CacheService *cache.CacheService

// CacheRepository is the cache surface the service layer depends on.
type CacheRepository interface {
	GetJSON(ctx context.Context, key string, dest interface{}) error
	SetJSON(ctx context.Context, key string, value interface{}) error
	Delete(ctx context.Context, keys ...string) error
}

// DBConfig holds database connection pool configuration.
type DBConfig struct {
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

// InitDB initializes the PostgreSQL connection and the Redis cache,
// runs migrations, and applies connection pool settings.
func InitDB() error {
	initPostgres()

	redisCfg := &cache.RedisConfig{
		Host:     config.GetEnv("REDIS_HOST", "localhost"),
		Port:     config.GetEnv("REDIS_PORT", "6379"),
		Password: config.GetEnv("REDIS_PASSWORD", ""),
		DB:       config.GetIntEnv("REDIS_DB", 0),
	}
	redisClient := cache.NewRedisClient(redisCfg)
	CacheService = cache.NewCacheService(redisClient, config.GetDurationEnv("CACHE_TTL", 15*time.Minute))

	return DB.AutoMigrate(
		&models.User{},
		&models.Bundle{},
		&models.BundleAssignment{},
		&models.QR{},
		&models.QRReview{},
		&models.QRQuestion{},
		&models.QRCallLog{},
		&models.PaymentTicket{},
		&models.PaymentTicketQR{},
	)
}

func initPostgres() {
	dsn := "host=" + config.GetEnv("DB_HOST", "localhost") +
		" user=" + config.GetEnv("DB_USER", "postgres") +
		" password=" + config.GetEnv("DB_PASSWORD", "postgres") +
		" dbname=" + config.GetEnv("DB_NAME", "digipehchan") +
		" port=" + config.GetEnv("DB_PORT", "5432") +
		" sslmode=" + config.GetEnv("DB_SSLMODE", "disable")

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	DB = db

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatal("Failed to get database instance:", err)
	}

	sqlDB.SetMaxIdleConns(config.GetIntEnv("DB_MAX_IDLE_CONNS", 10))
	sqlDB.SetMaxOpenConns(config.GetIntEnv("DB_MAX_OPEN_CONNS", 100))
	sqlDB.SetConnMaxLifetime(config.GetDurationEnv("DB_CONN_MAX_LIFETIME", time.Hour))
	sqlDB.SetConnMaxIdleTime(config.GetDurationEnv("DB_CONN_MAX_IDLE_TIME", 30*time.Minute))
}

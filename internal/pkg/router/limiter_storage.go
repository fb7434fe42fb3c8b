package router

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/storage/redis"

	"github.com/ManuelReschke/gatewaykit/internal/pkg/config"
)

// limiterDatabase keeps limiter keys apart from the cache in DB 0.
const limiterDatabase = 2

// NewLimiterStorage returns redis storage for the API rate limiter, or nil
// when the cache is unreachable so the limiter falls back to memory.
func NewLimiterStorage(cfg config.Cache) (storage fiber.Storage) {
	port, err := strconv.Atoi(cfg.Port)
	if err != nil {
		log.Warnf("[Router] invalid CACHE_PORT %q, limiter uses memory", cfg.Port)
		return nil
	}

	// redis.New panics when the first ping fails
	defer func() {
		if r := recover(); r != nil {
			log.Warnf("[Router] limiter storage unavailable, using memory: %v", r)
			storage = nil
		}
	}()

	return redis.New(redis.Config{
		Host:     cfg.Host,
		Port:     port,
		Password: cfg.Password,
		Database: limiterDatabase,
		Reset:    false,
	})
}

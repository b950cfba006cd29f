package app

import (
	"os"
	"strings"

	"github.com/courseloop/courseloop-backend/internal/clients/redis"
	"github.com/courseloop/courseloop-backend/internal/pkg/logger"
)

type Clients struct {
	CatalogCache redis.CatalogCache
}

// wireClients connects outbound infrastructure. The catalog cache is
// optional: without REDIS_ADDR the services run cache-less and every
// public listing hits the database.
func wireClients(log *logger.Logger) Clients {
	log.Info("Wiring clients...")

	var cache redis.CatalogCache
	if strings.TrimSpace(os.Getenv("REDIS_ADDR")) != "" {
		c, err := redis.NewCatalogCache(log)
		if err != nil {
			log.Warn("Catalog cache unavailable; continuing without it", "error", err)
		} else {
			cache = c
		}
	}

	return Clients{CatalogCache: cache}
}

func (c *Clients) Close() {
	if c == nil {
		return
	}
	if c.CatalogCache != nil {
		_ = c.CatalogCache.Close()
	}
}

package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	types "github.com/courseloop/courseloop-backend/internal/domain"
	"github.com/courseloop/courseloop-backend/internal/pkg/logger"
	"github.com/courseloop/courseloop-backend/internal/platform/envutil"
)

const publicCoursesKey = "catalog:public_courses"

// CatalogCache holds the public course listing between writes. It is
// best-effort: a miss or a redis failure means the caller reads the
// database; a failed invalidation only shortens to the TTL.
type CatalogCache interface {
	GetPublicCourses(ctx context.Context) ([]*types.Course, bool)
	SetPublicCourses(ctx context.Context, courses []*types.Course)
	InvalidatePublicCourses(ctx context.Context)
	Close() error
}

type catalogCache struct {
	log *logger.Logger
	rdb *goredis.Client
	ttl time.Duration
}

func NewCatalogCache(log *logger.Logger) (CatalogCache, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}

	addr := strings.TrimSpace(os.Getenv("REDIS_ADDR"))
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		Password:    os.Getenv("REDIS_PASSWORD"),
		DB:          envutil.Int("REDIS_DB", 0),
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &catalogCache{
		log: log.With("service", "CatalogCache"),
		rdb: rdb,
		ttl: envutil.Duration("CATALOG_CACHE_TTL", 5*time.Minute),
	}, nil
}

func (c *catalogCache) GetPublicCourses(ctx context.Context) ([]*types.Course, bool) {
	if c == nil || c.rdb == nil {
		return nil, false
	}
	raw, err := c.rdb.Get(ctx, publicCoursesKey).Bytes()
	if err != nil {
		if err != goredis.Nil {
			c.log.Warn("public courses cache read failed", "error", err)
		}
		return nil, false
	}
	var courses []*types.Course
	if err := json.Unmarshal(raw, &courses); err != nil {
		c.log.Warn("public courses cache payload corrupt", "error", err)
		c.InvalidatePublicCourses(ctx)
		return nil, false
	}
	return courses, true
}

func (c *catalogCache) SetPublicCourses(ctx context.Context, courses []*types.Course) {
	if c == nil || c.rdb == nil {
		return
	}
	raw, err := json.Marshal(courses)
	if err != nil {
		c.log.Warn("public courses cache encode failed", "error", err)
		return
	}
	if err := c.rdb.Set(ctx, publicCoursesKey, raw, c.ttl).Err(); err != nil {
		c.log.Warn("public courses cache write failed", "error", err)
	}
}

func (c *catalogCache) InvalidatePublicCourses(ctx context.Context) {
	if c == nil || c.rdb == nil {
		return
	}
	if err := c.rdb.Del(ctx, publicCoursesKey).Err(); err != nil {
		c.log.Warn("public courses cache invalidate failed", "error", err)
	}
}

func (c *catalogCache) Close() error {
	if c == nil || c.rdb == nil {
		return nil
	}
	return c.rdb.Close()
}

// Package repo is the GORM persistence layer. All stock and quantity
// mutations that can race go through guarded atomic updates so they stay
// correct on a concurrent database without row locks.
package repo

import (
	"errors"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// ErrStockConflict is returned when a conditional stock decrement finds less
// stock than the order needs at commit time.
var ErrStockConflict = errors.New("stock conflict")

type GormRepo struct {
	DB    *gorm.DB
	Cache *redis.Client // optional product cache, nil disables caching
}

func New(db *gorm.DB, cache *redis.Client) *GormRepo {
	return &GormRepo{DB: db, Cache: cache}
}

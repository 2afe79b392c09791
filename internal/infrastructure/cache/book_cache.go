// Package cache keeps book lookups in Redis.
package cache

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/oksasatya/go-library-rental/internal/domain/entity"
	"github.com/oksasatya/go-library-rental/pkg/helpers"
)

// BookCache stores books as JSON under book:ext:<external id>.
type BookCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewBookCache(rdb *redis.Client, ttl time.Duration) *BookCache {
	return &BookCache{rdb: rdb, ttl: ttl}
}

func bookKey(externalID int64) string {
	return "book:ext:" + strconv.FormatInt(externalID, 10)
}

type cachedBook struct {
	ID                int64           `json:"id"`
	ExternalID        int64           `json:"external_id"`
	Title             string          `json:"title"`
	AuthorName        string          `json:"author_name"`
	Price             decimal.Decimal `json:"price"`
	StockQuantity     int             `json:"stock_quantity"`
	AvailableQuantity int             `json:"available_quantity"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

func (c *BookCache) Get(ctx context.Context, externalID int64) (*entity.Book, bool, error) {
	var cb cachedBook
	ok, err := helpers.RedisGetJSON(ctx, c.rdb, bookKey(externalID), &cb)
	if err != nil || !ok {
		return nil, false, err
	}
	return &entity.Book{
		ID:                cb.ID,
		ExternalID:        cb.ExternalID,
		Title:             cb.Title,
		AuthorName:        cb.AuthorName,
		Price:             cb.Price,
		StockQuantity:     cb.StockQuantity,
		AvailableQuantity: cb.AvailableQuantity,
		CreatedAt:         cb.CreatedAt,
		UpdatedAt:         cb.UpdatedAt,
	}, true, nil
}

func (c *BookCache) Set(ctx context.Context, b *entity.Book) error {
	cb := cachedBook{
		ID:                b.ID,
		ExternalID:        b.ExternalID,
		Title:             b.Title,
		AuthorName:        b.AuthorName,
		Price:             b.Price,
		StockQuantity:     b.StockQuantity,
		AvailableQuantity: b.AvailableQuantity,
		CreatedAt:         b.CreatedAt,
		UpdatedAt:         b.UpdatedAt,
	}
	return helpers.RedisSetJSON(ctx, c.rdb, bookKey(b.ExternalID), cb, c.ttl)
}

func (c *BookCache) Invalidate(ctx context.Context, externalID int64) error {
	return helpers.RedisDel(ctx, c.rdb, bookKey(externalID))
}

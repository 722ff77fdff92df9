package oracle

import (
	"context"
	"fmt"
	"time"

	"lending/core"

	"github.com/bluele/gcache"
	"golang.org/x/sync/singleflight"
)

type gateway struct {
	prices core.PriceStore
	cache  gcache.Cache
	sf     *singleflight.Group
}

// NewGateway price gateway over the stored oracle readings. Readings taken at
// the requested block are cached for exp per feed and block.
func NewGateway(prices core.PriceStore, exp time.Duration) core.PriceGateway {
	builder := gcache.New(1024).LRU()
	if exp > 0 {
		builder = builder.Expiration(exp)
	}

	return &gateway{
		prices: prices,
		cache:  builder.Build(),
		sf:     &singleflight.Group{},
	}
}

func (g *gateway) GetPrice(ctx context.Context, asset *core.Asset, current, maxAge int64) (*core.Price, error) {
	if asset == nil || asset.OracleRef == "" {
		return nil, core.ErrInvalidAsset
	}

	price, err := g.latest(ctx, asset.OracleRef, current)
	if err != nil {
		return nil, err
	}

	if price.ID == 0 || !price.Price.IsPositive() {
		return nil, fmt.Errorf("no price of %s: %w", asset.OracleRef, core.ErrOracleDataExpired)
	}

	if age := current - price.BlockNumber; age > maxAge {
		return nil, fmt.Errorf("price of %s is %d blocks old: %w", asset.OracleRef, age, core.ErrOracleDataExpired)
	}

	return price, nil
}

func (g *gateway) latest(ctx context.Context, oracleRef string, block int64) (*core.Price, error) {
	key := fmt.Sprintf("price:%s:%d", oracleRef, block)
	if v, err := g.cache.Get(key); err == nil {
		if price, ok := v.(*core.Price); ok {
			return price, nil
		}
	}

	v, err, _ := g.sf.Do(key, func() (interface{}, error) {
		price, err := g.prices.Latest(ctx, oracleRef, block)
		if err != nil {
			return nil, err
		}

		// an older reading may still be replaced by one at this block
		if price.ID > 0 && price.BlockNumber == block {
			_ = g.cache.Set(key, price)
		}

		return price, nil
	})
	if err != nil {
		return nil, err
	}

	return v.(*core.Price), nil
}

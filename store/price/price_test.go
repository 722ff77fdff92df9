package price

import (
	"context"
	"testing"

	"lending/core"

	"github.com/fox-one/pkg/store/db"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPriceStore(t *testing.T) {
	ctx := context.Background()

	database := db.MustOpen(db.SqliteInMemory())
	database.Update().DB().SetMaxOpenConns(1)
	defer database.Close()
	require.NoError(t, db.Migrate(database))

	s := New(database)

	for _, p := range []*core.Price{
		{OracleRef: "BTC", BlockNumber: 10, Price: decimal.NewFromInt(30000)},
		{OracleRef: "BTC", BlockNumber: 20, Price: decimal.NewFromInt(31000)},
		{OracleRef: "USDC", BlockNumber: 20, Price: decimal.NewFromInt(1)},
	} {
		require.NoError(t, s.Create(ctx, p))
		assert.NotZero(t, p.ID)
	}

	// one reading per feed and block, the first one wins
	dup := &core.Price{OracleRef: "BTC", BlockNumber: 10, Price: decimal.NewFromInt(1)}
	require.NoError(t, s.Create(ctx, dup))
	assert.Equal(t, "30000", dup.Price.String())

	t.Run("latest", func(t *testing.T) {
		price, err := s.Latest(ctx, "BTC", 15)
		require.NoError(t, err)
		assert.Equal(t, int64(10), price.BlockNumber)
		assert.Equal(t, "30000", price.Price.String())

		price, err = s.Latest(ctx, "BTC", 25)
		require.NoError(t, err)
		assert.Equal(t, int64(20), price.BlockNumber)

		price, err = s.Latest(ctx, "BTC", 5)
		require.NoError(t, err)
		assert.Equal(t, int64(0), price.ID)

		price, err = s.Latest(ctx, "ETH", 25)
		require.NoError(t, err)
		assert.Equal(t, int64(0), price.ID)
	})

	t.Run("delete before", func(t *testing.T) {
		require.NoError(t, s.DeleteBefore(ctx, 20))

		price, err := s.Latest(ctx, "BTC", 15)
		require.NoError(t, err)
		assert.Equal(t, int64(0), price.ID)

		price, err = s.Latest(ctx, "BTC", 20)
		require.NoError(t, err)
		assert.Equal(t, "31000", price.Price.String())

		price, err = s.Latest(ctx, "USDC", 20)
		require.NoError(t, err)
		assert.Equal(t, "1", price.Price.String())
	})
}

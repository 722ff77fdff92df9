package ledger

import (
	"context"
	"errors"
	"testing"

	"lending/core"

	"github.com/fox-one/pkg/store/db"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	btc   = "c6d0c728-2624-429b-8e0d-d9d19b6592fa"
	usdc  = "9b180ab6-6abe-3dc0-a13f-04169eb34bfa"
	alice = "a0ad5d4e-7b44-4f46-8bd3-1ad8d6c5e0a1"
	bob   = "b0b5b3d3-f1b0-4c0b-9f5b-0f0c1fbb2c11"
)

// openTest sqlite in memory database with every table migrated. One
// connection only, a read that leaves the transaction blocks instead of
// reading stale rows.
func openTest(t *testing.T) *db.DB {
	t.Helper()

	database := db.MustOpen(db.SqliteInMemory())
	database.Update().DB().SetMaxOpenConns(1)
	t.Cleanup(func() { _ = database.Close() })

	require.NoError(t, db.Migrate(database))
	return database
}

func TestMarketOptimisticLock(t *testing.T) {
	ctx := context.Background()
	s := New(openTest(t))

	require.NoError(t, s.Update(ctx, func(l core.Ledger) error {
		return l.SaveMarket(ctx, core.NewMarket(btc, 100))
	}))

	var a, b *core.Market
	require.NoError(t, s.View(ctx, func(l core.Ledger) (err error) {
		if a, err = l.FindMarket(ctx, btc); err != nil {
			return err
		}

		b, err = l.FindMarket(ctx, btc)
		return err
	}))
	assert.Equal(t, int64(1), a.Version)

	a.TotalSupplied = decimal.NewFromInt(10)
	require.NoError(t, s.Update(ctx, func(l core.Ledger) error {
		return l.SaveMarket(ctx, a)
	}))
	assert.Equal(t, int64(2), a.Version)

	b.TotalSupplied = decimal.NewFromInt(20)
	err := s.Update(ctx, func(l core.Ledger) error {
		return l.SaveMarket(ctx, b)
	})
	assert.ErrorIs(t, err, db.ErrOptimisticLock)

	require.NoError(t, s.View(ctx, func(l core.Ledger) error {
		market, err := l.FindMarket(ctx, btc)
		if err != nil {
			return err
		}

		assert.Equal(t, "10", market.TotalSupplied.String())
		assert.Equal(t, int64(2), market.Version)
		return nil
	}))

	err = s.View(ctx, func(l core.Ledger) error {
		_, err := l.FindMarket(ctx, usdc)
		return err
	})
	assert.ErrorIs(t, err, core.ErrInvalidAsset)
}

func TestPositionOptimisticLock(t *testing.T) {
	ctx := context.Background()
	s := New(openTest(t))

	require.NoError(t, s.Update(ctx, func(l core.Ledger) error {
		return l.SaveBorrow(ctx, &core.Borrow{
			UserID:        alice,
			AssetID:       usdc,
			Principal:     decimal.NewFromInt(100),
			InterestIndex: decimal.NewFromInt(1),
		})
	}))

	var stale *core.Borrow
	require.NoError(t, s.View(ctx, func(l core.Ledger) (err error) {
		stale, err = l.FindBorrow(ctx, alice, usdc)
		return err
	}))
	require.NotZero(t, stale.ID)

	fresh := *stale
	fresh.Principal = decimal.NewFromInt(60)
	require.NoError(t, s.Update(ctx, func(l core.Ledger) error {
		return l.SaveBorrow(ctx, &fresh)
	}))

	stale.Principal = decimal.NewFromInt(0)
	err := s.Update(ctx, func(l core.Ledger) error {
		return l.SaveBorrow(ctx, stale)
	})
	assert.ErrorIs(t, err, db.ErrOptimisticLock)
}

func TestUpdateReadsOwnWrites(t *testing.T) {
	ctx := context.Background()
	s := New(openTest(t))

	require.NoError(t, s.Update(ctx, func(l core.Ledger) error {
		return l.SaveCollateral(ctx, &core.Collateral{
			UserID:      alice,
			AssetID:     btc,
			Amount:      decimal.NewFromInt(1),
			SupplyIndex: decimal.NewFromInt(1),
		})
	}))

	require.NoError(t, s.Update(ctx, func(l core.Ledger) error {
		if err := l.SaveBorrow(ctx, &core.Borrow{
			UserID:        alice,
			AssetID:       usdc,
			Principal:     decimal.NewFromInt(1000),
			InterestIndex: decimal.NewFromInt(1),
		}); err != nil {
			return err
		}

		borrows, err := l.ListBorrows(ctx, alice)
		if err != nil {
			return err
		}
		assert.Len(t, borrows, 1)

		collateral, err := l.FindCollateral(ctx, alice, btc)
		if err != nil {
			return err
		}

		if err := l.DeleteCollateral(ctx, collateral); err != nil {
			return err
		}

		collaterals, err := l.ListCollaterals(ctx, alice)
		if err != nil {
			return err
		}
		assert.Empty(t, collaterals)

		collateral, err = l.FindCollateral(ctx, alice, btc)
		if err != nil {
			return err
		}
		assert.Equal(t, int64(0), collateral.ID)
		return nil
	}))
}

func TestUpdateRollback(t *testing.T) {
	ctx := context.Background()
	s := New(openTest(t))

	rejected := errors.New("rejected")
	err := s.Update(ctx, func(l core.Ledger) error {
		if err := l.SaveCollateral(ctx, &core.Collateral{
			UserID:      alice,
			AssetID:     btc,
			Amount:      decimal.NewFromInt(1),
			SupplyIndex: decimal.NewFromInt(1),
		}); err != nil {
			return err
		}

		return rejected
	})
	assert.ErrorIs(t, err, rejected)

	require.NoError(t, s.View(ctx, func(l core.Ledger) error {
		collateral, err := l.FindCollateral(ctx, alice, btc)
		if err != nil {
			return err
		}

		assert.Equal(t, int64(0), collateral.ID)
		return nil
	}))
}

func TestBorrowers(t *testing.T) {
	ctx := context.Background()
	s := New(openTest(t))

	require.NoError(t, s.Update(ctx, func(l core.Ledger) error {
		for _, b := range []*core.Borrow{
			{UserID: bob, AssetID: usdc},
			{UserID: alice, AssetID: usdc},
			{UserID: alice, AssetID: btc},
		} {
			b.Principal = decimal.NewFromInt(1)
			b.InterestIndex = decimal.NewFromInt(1)
			if err := l.SaveBorrow(ctx, b); err != nil {
				return err
			}
		}

		return nil
	}))

	require.NoError(t, s.View(ctx, func(l core.Ledger) error {
		users, err := l.Borrowers(ctx)
		if err != nil {
			return err
		}
		assert.Equal(t, []string{alice, bob}, users)

		count, err := l.CountBorrows(ctx, usdc)
		if err != nil {
			return err
		}
		assert.Equal(t, int64(2), count)
		return nil
	}))
}

func TestBtcDeposit(t *testing.T) {
	ctx := context.Background()
	s := New(openTest(t))

	txID := "4a5e1e4baab89f3a32518a88c31bc87f618f76673e2cc77ab2127b7afdeda33b"
	require.NoError(t, s.Update(ctx, func(l core.Ledger) error {
		return l.SaveBtcDeposit(ctx, &core.BtcDeposit{
			TxID:     txID,
			UserID:   alice,
			Satoshis: 50000000,
			Amount:   decimal.New(50000000, -8),
			Status:   core.DepositStatusSubmitted,
		})
	}))

	require.NoError(t, s.Update(ctx, func(l core.Ledger) error {
		deposit, err := l.FindBtcDeposit(ctx, txID)
		if err != nil {
			return err
		}

		deposit.Status = core.DepositStatusConfirmed
		deposit.Attesters = append(deposit.Attesters, "attester1", "attester2")
		deposit.Confirmations = 6
		return l.SaveBtcDeposit(ctx, deposit)
	}))

	require.NoError(t, s.View(ctx, func(l core.Ledger) error {
		deposit, err := l.FindBtcDeposit(ctx, txID)
		if err != nil {
			return err
		}

		assert.Equal(t, core.DepositStatusConfirmed, deposit.Status)
		assert.Equal(t, []string{"attester1", "attester2"}, []string(deposit.Attesters))
		assert.Equal(t, int64(2), deposit.Version)
		assert.Equal(t, "0.5", deposit.Amount.String())

		missing, err := l.FindBtcDeposit(ctx, "00")
		if err != nil {
			return err
		}
		assert.Equal(t, int64(0), missing.ID)
		return nil
	}))
}

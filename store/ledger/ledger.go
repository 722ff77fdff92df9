package ledger

import (
	"context"
	"fmt"

	"lending/core"

	"github.com/fox-one/pkg/store"
	"github.com/fox-one/pkg/store/db"
	"github.com/jinzhu/gorm"
)

type ledgerStore struct {
	db *db.DB
}

// New new gorm ledger store, Update runs inside one database transaction
func New(db *db.DB) core.LedgerStore {
	return &ledgerStore{db: db}
}

func init() {
	db.RegisterMigrate(func(db *db.DB) error {
		for _, model := range []interface{}{
			core.Asset{},
			core.Market{},
			core.Collateral{},
			core.Borrow{},
			core.BtcDeposit{},
			core.Transaction{},
		} {
			if err := db.Update().AutoMigrate(model).Error; err != nil {
				return err
			}
		}

		return nil
	})
}

func (s *ledgerStore) View(ctx context.Context, fn func(core.Ledger) error) error {
	return fn(&ledger{read: s.db.View(), write: s.db.Update()})
}

// Update reads and writes share the transaction connection so fn sees its
// own writes, the read pool of tx is outside the transaction
func (s *ledgerStore) Update(ctx context.Context, fn func(core.Ledger) error) error {
	return s.db.Tx(func(tx *db.DB) error {
		conn := tx.Update()
		return fn(&ledger{
			read:  conn,
			write: conn,
			lock:  conn.Dialect().GetName() != "sqlite3",
		})
	})
}

type ledger struct {
	read  *gorm.DB
	write *gorm.DB
	// lock single rows until commit, sqlite locks the whole database anyway
	lock bool
}

func (l *ledger) row() *gorm.DB {
	if l.lock {
		return l.read.Set("gorm:query_option", "FOR UPDATE")
	}

	return l.read
}

func (l *ledger) FindAsset(ctx context.Context, assetID string) (*core.Asset, error) {
	var asset core.Asset
	if err := l.read.Where("asset_id = ?", assetID).First(&asset).Error; err != nil {
		if store.IsErrNotFound(err) {
			return nil, fmt.Errorf("asset %q: %w", assetID, core.ErrInvalidAsset)
		}

		return nil, err
	}

	return &asset, nil
}

func (l *ledger) ListAssets(ctx context.Context) ([]*core.Asset, error) {
	var assets []*core.Asset
	if err := l.read.Order("asset_id").Find(&assets).Error; err != nil {
		return nil, err
	}

	return assets, nil
}

func (l *ledger) SaveAsset(ctx context.Context, asset *core.Asset) error {
	if asset.ID == 0 {
		var old core.Asset
		err := l.read.Where("asset_id = ?", asset.AssetID).First(&old).Error
		if err != nil && !store.IsErrNotFound(err) {
			return err
		}

		asset.ID = old.ID
	}

	if asset.ID == 0 {
		return l.write.Create(asset).Error
	}

	return l.write.Model(asset).Updates(map[string]interface{}{
		"symbol":             asset.Symbol,
		"oracle_ref":         asset.OracleRef,
		"collateral_factor":  asset.CollateralFactor,
		"borrow_enabled":     asset.BorrowEnabled,
		"collateral_enabled": asset.CollateralEnabled,
		"borrow_cap":         asset.BorrowCap,
	}).Error
}

func (l *ledger) FindMarket(ctx context.Context, assetID string) (*core.Market, error) {
	var market core.Market
	if err := l.row().Where("asset_id = ?", assetID).First(&market).Error; err != nil {
		if store.IsErrNotFound(err) {
			return nil, fmt.Errorf("market %q: %w", assetID, core.ErrInvalidAsset)
		}

		return nil, err
	}

	return &market, nil
}

func (l *ledger) SaveMarket(ctx context.Context, market *core.Market) error {
	if market.ID == 0 {
		market.Version = 1
		return l.write.Create(market).Error
	}

	version := market.Version
	tx := l.write.Model(market).Where("version = ?", version).Updates(map[string]interface{}{
		"total_supplied":   market.TotalSupplied,
		"total_borrowed":   market.TotalBorrowed,
		"reserves":         market.Reserves,
		"supply_rate":      market.SupplyRate,
		"borrow_rate":      market.BorrowRate,
		"supply_index":     market.SupplyIndex,
		"borrow_index":     market.BorrowIndex,
		"utilization_rate": market.UtilizationRate,
		"block_number":     market.BlockNumber,
		"version":          gorm.Expr("version + 1"),
	})
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return db.ErrOptimisticLock
	}

	market.Version = version + 1
	return nil
}

func (l *ledger) FindCollateral(ctx context.Context, userID, assetID string) (*core.Collateral, error) {
	collateral := core.Collateral{UserID: userID, AssetID: assetID}
	err := l.row().Where("user_id = ? AND asset_id = ?", userID, assetID).First(&collateral).Error
	if err != nil && !store.IsErrNotFound(err) {
		return nil, err
	}

	return &collateral, nil
}

func (l *ledger) ListCollaterals(ctx context.Context, userID string) ([]*core.Collateral, error) {
	var collaterals []*core.Collateral
	if err := l.read.Where("user_id = ?", userID).Order("asset_id").Find(&collaterals).Error; err != nil {
		return nil, err
	}

	return collaterals, nil
}

func (l *ledger) SaveCollateral(ctx context.Context, collateral *core.Collateral) error {
	if collateral.ID == 0 {
		collateral.Version = 1
		return l.write.Create(collateral).Error
	}

	version := collateral.Version
	tx := l.write.Model(collateral).Where("version = ?", version).Updates(map[string]interface{}{
		"amount":       collateral.Amount,
		"supply_index": collateral.SupplyIndex,
		"block_number": collateral.BlockNumber,
		"version":      gorm.Expr("version + 1"),
	})
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return db.ErrOptimisticLock
	}

	collateral.Version = version + 1
	return nil
}

func (l *ledger) DeleteCollateral(ctx context.Context, collateral *core.Collateral) error {
	return l.write.Where("user_id = ? AND asset_id = ?", collateral.UserID, collateral.AssetID).Delete(core.Collateral{}).Error
}

func (l *ledger) CountCollaterals(ctx context.Context, assetID string) (int64, error) {
	var count int64
	if err := l.read.Model(core.Collateral{}).Where("asset_id = ?", assetID).Count(&count).Error; err != nil {
		return 0, err
	}

	return count, nil
}

func (l *ledger) FindBorrow(ctx context.Context, userID, assetID string) (*core.Borrow, error) {
	borrow := core.Borrow{UserID: userID, AssetID: assetID}
	err := l.row().Where("user_id = ? AND asset_id = ?", userID, assetID).First(&borrow).Error
	if err != nil && !store.IsErrNotFound(err) {
		return nil, err
	}

	return &borrow, nil
}

func (l *ledger) ListBorrows(ctx context.Context, userID string) ([]*core.Borrow, error) {
	var borrows []*core.Borrow
	if err := l.read.Where("user_id = ?", userID).Order("asset_id").Find(&borrows).Error; err != nil {
		return nil, err
	}

	return borrows, nil
}

func (l *ledger) SaveBorrow(ctx context.Context, borrow *core.Borrow) error {
	if borrow.ID == 0 {
		borrow.Version = 1
		return l.write.Create(borrow).Error
	}

	version := borrow.Version
	tx := l.write.Model(borrow).Where("version = ?", version).Updates(map[string]interface{}{
		"principal":      borrow.Principal,
		"interest_index": borrow.InterestIndex,
		"block_number":   borrow.BlockNumber,
		"version":        gorm.Expr("version + 1"),
	})
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return db.ErrOptimisticLock
	}

	borrow.Version = version + 1
	return nil
}

func (l *ledger) DeleteBorrow(ctx context.Context, borrow *core.Borrow) error {
	return l.write.Where("user_id = ? AND asset_id = ?", borrow.UserID, borrow.AssetID).Delete(core.Borrow{}).Error
}

func (l *ledger) CountBorrows(ctx context.Context, assetID string) (int64, error) {
	var count int64
	if err := l.read.Model(core.Borrow{}).Where("asset_id = ?", assetID).Count(&count).Error; err != nil {
		return 0, err
	}

	return count, nil
}

func (l *ledger) Borrowers(ctx context.Context) ([]string, error) {
	var users []string
	if err := l.read.Model(core.Borrow{}).Order("user_id").Pluck("DISTINCT user_id", &users).Error; err != nil {
		return nil, err
	}

	return users, nil
}

func (l *ledger) FindBtcDeposit(ctx context.Context, txID string) (*core.BtcDeposit, error) {
	var deposit core.BtcDeposit
	err := l.row().Where("tx_id = ?", txID).First(&deposit).Error
	if err != nil && !store.IsErrNotFound(err) {
		return nil, err
	}

	return &deposit, nil
}

func (l *ledger) SaveBtcDeposit(ctx context.Context, deposit *core.BtcDeposit) error {
	if deposit.ID == 0 {
		deposit.Version = 1
		return l.write.Create(deposit).Error
	}

	version := deposit.Version
	tx := l.write.Model(deposit).Where("version = ?", version).Updates(map[string]interface{}{
		"status":          deposit.Status,
		"confirmations":   deposit.Confirmations,
		"attesters":       deposit.Attesters,
		"reject_reason":   deposit.RejectReason,
		"confirmed_block": deposit.ConfirmedBlock,
		"settled_block":   deposit.SettledBlock,
		"version":         gorm.Expr("version + 1"),
	})
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return db.ErrOptimisticLock
	}

	deposit.Version = version + 1
	return nil
}

func (l *ledger) CreateTransaction(ctx context.Context, tx *core.Transaction) error {
	return l.write.Create(tx).Error
}

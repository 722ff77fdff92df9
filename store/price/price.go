package price

import (
	"context"

	"lending/core"

	"github.com/fox-one/pkg/store/db"
	"github.com/jinzhu/gorm"
)

type priceStore struct {
	db *db.DB
}

// New new price store
func New(db *db.DB) core.PriceStore {
	return &priceStore{
		db: db,
	}
}

func init() {
	db.RegisterMigrate(func(db *db.DB) error {
		tx := db.Update().Model(core.Price{})

		if err := tx.AutoMigrate(core.Price{}).Error; err != nil {
			return err
		}

		return nil
	})
}

// Create one reading per feed and block, the first one wins
func (s *priceStore) Create(ctx context.Context, price *core.Price) error {
	return s.db.Update().Where("oracle_ref = ? AND block_number = ?", price.OracleRef, price.BlockNumber).FirstOrCreate(price).Error
}

func (s *priceStore) Latest(ctx context.Context, oracleRef string, block int64) (*core.Price, error) {
	var price core.Price
	err := s.db.View().Where("oracle_ref = ? AND block_number <= ?", oracleRef, block).
		Order("block_number DESC").
		First(&price).Error
	if err != nil && !gorm.IsRecordNotFoundError(err) {
		return nil, err
	}

	return &price, nil
}

func (s *priceStore) DeleteBefore(ctx context.Context, block int64) error {
	return s.db.Update().Where("block_number < ?", block).Delete(core.Price{}).Error
}

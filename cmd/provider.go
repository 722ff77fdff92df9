package cmd

import (
	"time"

	"lending/core"
	"lending/service/block"
	"lending/service/bridge"
	"lending/service/lending"
	"lending/service/market"
	"lending/service/oracle"
	"lending/service/param"
	"lending/store/ledger"
	"lending/store/price"
	"lending/store/transaction"

	"github.com/fox-one/pkg/property"
	"github.com/fox-one/pkg/store/db"
	propertystore "github.com/fox-one/pkg/store/property"
)

func provideDatabase() *db.DB {
	return db.MustOpen(cfg.DB)
}

func provideConfig() *core.Config {
	return &cfg
}

// ---------------store-----------------------------------------

func providePropertyStore(db *db.DB) property.Store {
	return propertystore.New(db)
}

func provideLedgerStore(db *db.DB) core.LedgerStore {
	return ledger.New(db)
}

func providePriceStore(db *db.DB) core.PriceStore {
	return price.New(db)
}

func provideTransactionStore(db *db.DB) core.TransactionStore {
	return transaction.New(db)
}

func provideParameterStore(properties property.Store) core.ParameterStore {
	return param.New(param.FromProperty(properties))
}

// ------------------service------------------------------------

func provideBlockService() core.BlockService {
	return block.New(provideConfig())
}

func providePriceGateway(prices core.PriceStore) core.PriceGateway {
	return oracle.NewGateway(prices, 5*time.Second)
}

func provideTickerService() core.PriceTickerService {
	return oracle.NewTickerService(provideConfig())
}

func provideLendingService(ledgers core.LedgerStore, params core.ParameterStore, prices core.PriceGateway, blocks core.BlockService) core.LendingService {
	return lending.New(ledgers, params, prices, blocks)
}

func provideBridgeService(ledgers core.LedgerStore, params core.ParameterStore, blocks core.BlockService) core.BridgeService {
	return bridge.New(ledgers, params, blocks, provideConfig())
}

func provideMarketService(ledgers core.LedgerStore, params core.ParameterStore, blocks core.BlockService) core.MarketService {
	return market.New(ledgers, params, blocks)
}

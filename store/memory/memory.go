package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"lending/core"

	"github.com/jmoiron/sqlx/types"
	"github.com/lib/pq"
)

// Store in-process ledger. Writers are serialized and every Update works on a
// copy of the state that replaces the live state only when fn succeeds.
type Store struct {
	mu    sync.RWMutex
	state *state
}

// New empty memory store
func New() *Store {
	return &Store{state: newState()}
}

var (
	_ core.LedgerStore      = (*Store)(nil)
	_ core.TransactionStore = (*Store)(nil)
)

type state struct {
	seq          int64
	assets       map[string]*core.Asset
	markets      map[string]*core.Market
	collaterals  map[string]*core.Collateral
	borrows      map[string]*core.Borrow
	deposits     map[string]*core.BtcDeposit
	transactions []*core.Transaction
}

func newState() *state {
	return &state{
		assets:      map[string]*core.Asset{},
		markets:     map[string]*core.Market{},
		collaterals: map[string]*core.Collateral{},
		borrows:     map[string]*core.Borrow{},
		deposits:    map[string]*core.BtcDeposit{},
	}
}

func (s *state) clone() *state {
	c := newState()
	c.seq = s.seq
	for k, v := range s.assets {
		c.assets[k] = copyAsset(v)
	}
	for k, v := range s.markets {
		c.markets[k] = copyMarket(v)
	}
	for k, v := range s.collaterals {
		c.collaterals[k] = copyCollateral(v)
	}
	for k, v := range s.borrows {
		c.borrows[k] = copyBorrow(v)
	}
	for k, v := range s.deposits {
		c.deposits[k] = copyDeposit(v)
	}
	// transactions are append only
	c.transactions = append(c.transactions, s.transactions...)
	return c
}

func (s *state) nextID() int64 {
	s.seq++
	return s.seq
}

// View runs fn on a private copy, writes are discarded
func (s *Store) View(ctx context.Context, fn func(core.Ledger) error) error {
	s.mu.RLock()
	snapshot := s.state.clone()
	s.mu.RUnlock()

	return fn(&ledger{state: snapshot})
}

// Update runs fn on a copy and commits it when fn succeeds
func (s *Store) Update(ctx context.Context, fn func(core.Ledger) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	working := s.state.clone()
	if err := fn(&ledger{state: working}); err != nil {
		return err
	}

	s.state = working
	return nil
}

// FindByTraceID find transaction by trace id, ID == 0 if none
func (s *Store) FindByTraceID(ctx context.Context, traceID string) (*core.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, tx := range s.state.transactions {
		if tx.TraceID == traceID {
			return copyTransaction(tx), nil
		}
	}

	return &core.Transaction{}, nil
}

// List transactions matching query, newest first
func (s *Store) List(ctx context.Context, query core.TransactionQuery) ([]*core.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	limit := query.Limit
	if limit <= 0 {
		limit = 100
	}

	var (
		txs     []*core.Transaction
		skipped int64
	)

	for idx := len(s.state.transactions) - 1; idx >= 0 && len(txs) < limit; idx-- {
		tx := s.state.transactions[idx]
		if query.UserID != "" && tx.UserID != query.UserID {
			continue
		}

		if query.Action != "" && tx.Action.String() != query.Action {
			continue
		}

		if skipped < query.Offset {
			skipped++
			continue
		}

		txs = append(txs, copyTransaction(tx))
	}

	return txs, nil
}

type ledger struct {
	state *state
}

func positionKey(userID, assetID string) string {
	return userID + ":" + assetID
}

func (l *ledger) FindAsset(ctx context.Context, assetID string) (*core.Asset, error) {
	asset, ok := l.state.assets[assetID]
	if !ok {
		return nil, fmt.Errorf("asset %q: %w", assetID, core.ErrInvalidAsset)
	}

	return copyAsset(asset), nil
}

func (l *ledger) ListAssets(ctx context.Context) ([]*core.Asset, error) {
	assets := make([]*core.Asset, 0, len(l.state.assets))
	for _, asset := range l.state.assets {
		assets = append(assets, copyAsset(asset))
	}

	sort.Slice(assets, func(i, j int) bool {
		return assets[i].AssetID < assets[j].AssetID
	})

	return assets, nil
}

func (l *ledger) SaveAsset(ctx context.Context, asset *core.Asset) error {
	now := time.Now()
	if old, ok := l.state.assets[asset.AssetID]; ok {
		asset.ID = old.ID
		asset.CreatedAt = old.CreatedAt
	} else {
		asset.ID = l.state.nextID()
		asset.CreatedAt = now
	}

	asset.UpdatedAt = now
	l.state.assets[asset.AssetID] = copyAsset(asset)
	return nil
}

func (l *ledger) FindMarket(ctx context.Context, assetID string) (*core.Market, error) {
	market, ok := l.state.markets[assetID]
	if !ok {
		return nil, fmt.Errorf("market %q: %w", assetID, core.ErrInvalidAsset)
	}

	return copyMarket(market), nil
}

func (l *ledger) SaveMarket(ctx context.Context, market *core.Market) error {
	now := time.Now()
	if old, ok := l.state.markets[market.AssetID]; ok {
		market.ID = old.ID
		market.CreatedAt = old.CreatedAt
	} else {
		market.ID = l.state.nextID()
		market.CreatedAt = now
	}

	market.Version++
	market.UpdatedAt = now
	l.state.markets[market.AssetID] = copyMarket(market)
	return nil
}

func (l *ledger) FindCollateral(ctx context.Context, userID, assetID string) (*core.Collateral, error) {
	if c, ok := l.state.collaterals[positionKey(userID, assetID)]; ok {
		return copyCollateral(c), nil
	}

	return &core.Collateral{UserID: userID, AssetID: assetID}, nil
}

func (l *ledger) ListCollaterals(ctx context.Context, userID string) ([]*core.Collateral, error) {
	var collaterals []*core.Collateral
	for _, c := range l.state.collaterals {
		if c.UserID == userID {
			collaterals = append(collaterals, copyCollateral(c))
		}
	}

	sort.Slice(collaterals, func(i, j int) bool {
		return collaterals[i].AssetID < collaterals[j].AssetID
	})

	return collaterals, nil
}

func (l *ledger) SaveCollateral(ctx context.Context, collateral *core.Collateral) error {
	key := positionKey(collateral.UserID, collateral.AssetID)
	now := time.Now()
	if old, ok := l.state.collaterals[key]; ok {
		collateral.ID = old.ID
		collateral.CreatedAt = old.CreatedAt
	} else {
		collateral.ID = l.state.nextID()
		collateral.CreatedAt = now
	}

	collateral.Version++
	collateral.UpdatedAt = now
	l.state.collaterals[key] = copyCollateral(collateral)
	return nil
}

func (l *ledger) DeleteCollateral(ctx context.Context, collateral *core.Collateral) error {
	delete(l.state.collaterals, positionKey(collateral.UserID, collateral.AssetID))
	return nil
}

func (l *ledger) CountCollaterals(ctx context.Context, assetID string) (int64, error) {
	var count int64
	for _, c := range l.state.collaterals {
		if c.AssetID == assetID {
			count++
		}
	}

	return count, nil
}

func (l *ledger) FindBorrow(ctx context.Context, userID, assetID string) (*core.Borrow, error) {
	if b, ok := l.state.borrows[positionKey(userID, assetID)]; ok {
		return copyBorrow(b), nil
	}

	return &core.Borrow{UserID: userID, AssetID: assetID}, nil
}

func (l *ledger) ListBorrows(ctx context.Context, userID string) ([]*core.Borrow, error) {
	var borrows []*core.Borrow
	for _, b := range l.state.borrows {
		if b.UserID == userID {
			borrows = append(borrows, copyBorrow(b))
		}
	}

	sort.Slice(borrows, func(i, j int) bool {
		return borrows[i].AssetID < borrows[j].AssetID
	})

	return borrows, nil
}

func (l *ledger) SaveBorrow(ctx context.Context, borrow *core.Borrow) error {
	key := positionKey(borrow.UserID, borrow.AssetID)
	now := time.Now()
	if old, ok := l.state.borrows[key]; ok {
		borrow.ID = old.ID
		borrow.CreatedAt = old.CreatedAt
	} else {
		borrow.ID = l.state.nextID()
		borrow.CreatedAt = now
	}

	borrow.Version++
	borrow.UpdatedAt = now
	l.state.borrows[key] = copyBorrow(borrow)
	return nil
}

func (l *ledger) DeleteBorrow(ctx context.Context, borrow *core.Borrow) error {
	delete(l.state.borrows, positionKey(borrow.UserID, borrow.AssetID))
	return nil
}

func (l *ledger) CountBorrows(ctx context.Context, assetID string) (int64, error) {
	var count int64
	for _, b := range l.state.borrows {
		if b.AssetID == assetID {
			count++
		}
	}

	return count, nil
}

func (l *ledger) Borrowers(ctx context.Context) ([]string, error) {
	seen := map[string]bool{}
	var users []string
	for _, b := range l.state.borrows {
		if !seen[b.UserID] {
			seen[b.UserID] = true
			users = append(users, b.UserID)
		}
	}

	sort.Strings(users)
	return users, nil
}

func (l *ledger) FindBtcDeposit(ctx context.Context, txID string) (*core.BtcDeposit, error) {
	if d, ok := l.state.deposits[strings.ToLower(txID)]; ok {
		return copyDeposit(d), nil
	}

	return &core.BtcDeposit{}, nil
}

func (l *ledger) SaveBtcDeposit(ctx context.Context, deposit *core.BtcDeposit) error {
	key := strings.ToLower(deposit.TxID)
	now := time.Now()
	if old, ok := l.state.deposits[key]; ok {
		if old.Version != deposit.Version {
			return fmt.Errorf("btc deposit %s version %d: stale write", deposit.TxID, deposit.Version)
		}

		deposit.ID = old.ID
		deposit.CreatedAt = old.CreatedAt
	} else {
		deposit.ID = l.state.nextID()
		deposit.CreatedAt = now
	}

	deposit.Version++
	deposit.UpdatedAt = now
	l.state.deposits[key] = copyDeposit(deposit)
	return nil
}

func (l *ledger) CreateTransaction(ctx context.Context, tx *core.Transaction) error {
	for _, t := range l.state.transactions {
		if t.TraceID == tx.TraceID {
			return fmt.Errorf("transaction %s already exists", tx.TraceID)
		}
	}

	tx.ID = l.state.nextID()
	tx.CreatedAt = time.Now()
	tx.UpdatedAt = tx.CreatedAt
	l.state.transactions = append(l.state.transactions, copyTransaction(tx))
	return nil
}

func copyAsset(a *core.Asset) *core.Asset {
	c := *a
	return &c
}

func copyMarket(m *core.Market) *core.Market {
	c := *m
	return &c
}

func copyCollateral(v *core.Collateral) *core.Collateral {
	c := *v
	return &c
}

func copyBorrow(b *core.Borrow) *core.Borrow {
	c := *b
	return &c
}

func copyDeposit(d *core.BtcDeposit) *core.BtcDeposit {
	c := *d
	c.Attesters = append(pq.StringArray(nil), d.Attesters...)
	return &c
}

func copyTransaction(t *core.Transaction) *core.Transaction {
	c := *t
	c.Data = append(types.JSONText(nil), t.Data...)
	return &c
}

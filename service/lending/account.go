package lending

import (
	"context"

	"lending/core"
)

// AccountLiquidity value the account at the current block. Markets are accrued
// in memory only, nothing is written.
func (s *service) AccountLiquidity(ctx context.Context, userID string) (*core.Account, error) {
	params, err := s.params.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	block, err := s.blocks.CurrentBlock(ctx)
	if err != nil {
		return nil, err
	}

	var account *core.Account
	err = s.ledger.View(ctx, func(l core.Ledger) error {
		account, err = s.newState(ctx, l, params, block).account(userID)
		return err
	})

	return account, err
}

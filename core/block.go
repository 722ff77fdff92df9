package core

import (
	"context"
	"time"
)

// BlockService block clock, one block every App.SecondsPerBlock since genesis
type BlockService interface {
	GetBlock(ctx context.Context, t time.Time) (int64, error)
	CurrentBlock(ctx context.Context) (int64, error)
}

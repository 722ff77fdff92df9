package compound

import (
	"errors"
	"time"
)

var (
	// ErrInvalidClock bad clock settings
	ErrInvalidClock = errors.New("secondsPerBlock should not be less than or equal zero")
	// ErrBeforeGenesis time before genesis
	ErrBeforeGenesis = errors.New("invalid blocks")
)

// BlockAt block of t, one block every secondsPerBlock since genesis (unix seconds)
func BlockAt(t time.Time, secondsPerBlock, genesis int64) (int64, error) {
	if secondsPerBlock <= 0 {
		return 0, ErrInvalidClock
	}

	seconds := t.UTC().Unix() - genesis
	if seconds < 0 {
		return 0, ErrBeforeGenesis
	}

	return seconds / secondsPerBlock, nil
}

// CurrentBlock current block
func CurrentBlock(secondsPerBlock, genesis int64) (int64, error) {
	return BlockAt(time.Now(), secondsPerBlock, genesis)
}

package compound

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBlockAt(t *testing.T) {
	genesis := int64(1603366002)

	block, err := BlockAt(time.Unix(genesis, 0), 15, genesis)
	require.NoError(t, err)
	assert.Equal(t, int64(0), block)

	block, err = BlockAt(time.Unix(genesis+149, 0), 15, genesis)
	require.NoError(t, err)
	assert.Equal(t, int64(9), block)

	_, err = BlockAt(time.Unix(genesis-1, 0), 15, genesis)
	assert.ErrorIs(t, err, ErrBeforeGenesis)

	_, err = BlockAt(time.Now(), 0, genesis)
	assert.ErrorIs(t, err, ErrInvalidClock)
}

func TestCurrentBlock(t *testing.T) {
	currentBlock, err := CurrentBlock(15, 1603366002)
	require.NoError(t, err)
	assert.True(t, currentBlock > 0)
}

package core

import "strconv"

// ErrorCode int
type ErrorCode int

const (
	// ErrUnknown unkown
	ErrUnknown ErrorCode = 100000
	// ErrUnauthorized caller is not allowed to perform the action
	ErrUnauthorized ErrorCode = 100001
	// ErrProtocolPaused protocol paused
	ErrProtocolPaused ErrorCode = 100002

	// ErrInvalidAmount zero, negative or overflow-risking amount
	ErrInvalidAmount ErrorCode = 100101
	// ErrInvalidAsset asset not registered or disabled for the operation
	ErrInvalidAsset ErrorCode = 100102
	// ErrInsufficientCollateral insufficient collaterals
	ErrInsufficientCollateral ErrorCode = 100103
	// ErrInsufficientFunds insufficient pool liquidity
	ErrInsufficientFunds ErrorCode = 100104
	// ErrBorrowLimitReached per-asset or per-user borrow cap reached
	ErrBorrowLimitReached ErrorCode = 100105
	// ErrNotLiquidatable position is healthy
	ErrNotLiquidatable ErrorCode = 100106
	// ErrPositionNotFound no borrow position
	ErrPositionNotFound ErrorCode = 100107
	// ErrOracleDataExpired price too old or missing
	ErrOracleDataExpired ErrorCode = 100108
	// ErrInvalidAssetState bad btc deposit transition
	ErrInvalidAssetState ErrorCode = 100109
)

var errorMessages = map[ErrorCode]string{
	ErrUnknown:                "unknown error",
	ErrUnauthorized:           "unauthorized",
	ErrProtocolPaused:         "protocol paused",
	ErrInvalidAmount:          "invalid amount",
	ErrInvalidAsset:           "invalid asset",
	ErrInsufficientCollateral: "insufficient collateral",
	ErrInsufficientFunds:      "insufficient funds",
	ErrBorrowLimitReached:     "borrow limit reached",
	ErrNotLiquidatable:        "not liquidatable",
	ErrPositionNotFound:       "position not found",
	ErrOracleDataExpired:      "oracle data expired",
	ErrInvalidAssetState:      "invalid asset state",
}

func (e ErrorCode) String() string {
	return strconv.Itoa(int(e))
}

func (e ErrorCode) Error() string {
	if msg, ok := errorMessages[e]; ok {
		return msg
	}

	return e.String()
}

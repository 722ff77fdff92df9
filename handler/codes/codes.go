package codes

import (
	"errors"
	"strconv"

	"lending/core"

	"github.com/twitchtv/twirp"
)

const (
	// CustomCodeKey code key
	CustomCodeKey = "custom_code"

	// InvalidArguments invalid arguments
	InvalidArguments = 100001
)

// With with specified error
func With(err error, code int) error {
	twerr, ok := err.(twirp.Error)
	if !ok {
		twerr = twirp.InternalErrorWith(err)
	}

	return twerr.WithMeta(CustomCodeKey, strconv.Itoa(code))
}

// Get get error code
func Get(code twirp.ErrorCode) int {
	switch code {
	case twirp.InvalidArgument:
		return InvalidArguments
	default:
		return twirp.ServerHTTPStatusFromErrorCode(code)
	}
}

// From twirp error of err, lending error codes keep their numeric code
func From(err error) twirp.Error {
	if twerr, ok := err.(twirp.Error); ok {
		return twerr
	}

	var code core.ErrorCode
	if !errors.As(err, &code) {
		return twirp.InternalErrorWith(err)
	}

	return twirp.NewError(twirpCode(code), err.Error()).WithMeta(CustomCodeKey, code.String())
}

func twirpCode(code core.ErrorCode) twirp.ErrorCode {
	switch code {
	case core.ErrUnauthorized:
		return twirp.PermissionDenied
	case core.ErrProtocolPaused, core.ErrOracleDataExpired:
		return twirp.Unavailable
	case core.ErrInvalidAmount, core.ErrInvalidAsset:
		return twirp.InvalidArgument
	case core.ErrInsufficientCollateral, core.ErrInsufficientFunds, core.ErrNotLiquidatable, core.ErrInvalidAssetState:
		return twirp.FailedPrecondition
	case core.ErrBorrowLimitReached:
		return twirp.ResourceExhausted
	case core.ErrPositionNotFound:
		return twirp.NotFound
	default:
		return twirp.Internal
	}
}

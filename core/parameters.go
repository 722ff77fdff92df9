package core

import (
	"context"

	"github.com/shopspring/decimal"
)

// Permille fixed-point ratio in basis points of 1000
type Permille int64

// PermilleOne 100%
const PermilleOne Permille = 1000

// Decimal permille as a decimal fraction, 750 => 0.75
func (p Permille) Decimal() decimal.Decimal {
	return decimal.New(int64(p), -3)
}

// RateModel shape of the borrow rate curve
type RateModel string

const (
	// RateModelTwoSlope base + low slope up to the optimal utilization, steep slope after
	RateModelTwoSlope RateModel = "two-slope"
	// RateModelLinear base + utilization * low slope
	RateModelLinear RateModel = "linear"
)

// ShortfallPolicy how a liquidation handles collateral that can not cover the seize value
type ShortfallPolicy string

const (
	// ShortfallCap seize what is available and reduce the repay credit proportionally
	ShortfallCap ShortfallPolicy = "cap"
	// ShortfallReject fail the liquidation
	ShortfallReject ShortfallPolicy = "reject"
)

// Parameters protocol parameters snapshot, owned by governance and immutable
// for the duration of one action
type Parameters struct {
	// 清算阈值
	LiquidationThreshold Permille `json:"liquidation_threshold"`
	// 清算激励, 1080 => liquidator receives 108% of the repaid value
	LiquidationIncentive Permille `json:"liquidation_incentive"`
	// share of the liquidation bonus routed to reserves
	ProtocolFee Permille `json:"protocol_fee"`
	// yearly
	BaseRate Permille `json:"base_rate"`
	// yearly, slope below the optimal utilization
	RateMultiplier Permille `json:"rate_multiplier"`
	// yearly, slope above the optimal utilization
	JumpMultiplier     Permille `json:"jump_multiplier"`
	OptimalUtilization Permille `json:"optimal_utilization"`
	ReserveFactor      Permille `json:"reserve_factor"`
	// max share of a debt repaid by one liquidation
	CloseFactor            Permille        `json:"close_factor"`
	MinimumCollateralValue decimal.Decimal `json:"minimum_collateral_value"`
	// max age of an oracle price in blocks
	OracleStaleness    int64           `json:"oracle_staleness"`
	BlocksPerYear      int64           `json:"blocks_per_year"`
	MaxBorrowPositions int             `json:"max_borrow_positions"`
	RateModel          RateModel       `json:"rate_model"`
	ShortfallPolicy    ShortfallPolicy `json:"shortfall_policy"`
	Paused             bool            `json:"paused"`
}

// DefaultParameters parameters used before governance stores any
func DefaultParameters() *Parameters {
	return &Parameters{
		LiquidationThreshold:   750,
		LiquidationIncentive:   1080,
		ProtocolFee:            100,
		BaseRate:               20,
		RateMultiplier:         150,
		JumpMultiplier:         1000,
		OptimalUtilization:     800,
		ReserveFactor:          100,
		CloseFactor:            500,
		MinimumCollateralValue: decimal.NewFromInt(10),
		OracleStaleness:        40,
		BlocksPerYear:          2102400,
		RateModel:              RateModelTwoSlope,
		ShortfallPolicy:        ShortfallCap,
	}
}

// Validate check parameter ranges
func (p *Parameters) Validate() error {
	for _, v := range []Permille{
		p.LiquidationThreshold,
		p.ProtocolFee,
		p.OptimalUtilization,
		p.ReserveFactor,
		p.CloseFactor,
	} {
		if v < 0 || v > PermilleOne {
			return ErrInvalidAmount
		}
	}

	if p.LiquidationThreshold == 0 || p.LiquidationIncentive < PermilleOne {
		return ErrInvalidAmount
	}

	if p.BaseRate < 0 || p.RateMultiplier < 0 || p.JumpMultiplier < 0 {
		return ErrInvalidAmount
	}

	if p.BlocksPerYear <= 0 || p.OracleStaleness < 0 || p.MaxBorrowPositions < 0 {
		return ErrInvalidAmount
	}

	if p.MinimumCollateralValue.IsNegative() {
		return ErrInvalidAmount
	}

	switch p.RateModel {
	case RateModelTwoSlope, RateModelLinear:
	default:
		return ErrInvalidAmount
	}

	switch p.ShortfallPolicy {
	case ShortfallCap, ShortfallReject:
	default:
		return ErrInvalidAmount
	}

	return nil
}

// ParametersPatch partial update, every non-nil field is applied independently
type ParametersPatch struct {
	LiquidationThreshold   *Permille        `json:"liquidation_threshold,omitempty"`
	LiquidationIncentive   *Permille        `json:"liquidation_incentive,omitempty"`
	ProtocolFee            *Permille        `json:"protocol_fee,omitempty"`
	BaseRate               *Permille        `json:"base_rate,omitempty"`
	RateMultiplier         *Permille        `json:"rate_multiplier,omitempty"`
	JumpMultiplier         *Permille        `json:"jump_multiplier,omitempty"`
	OptimalUtilization     *Permille        `json:"optimal_utilization,omitempty"`
	ReserveFactor          *Permille        `json:"reserve_factor,omitempty"`
	CloseFactor            *Permille        `json:"close_factor,omitempty"`
	MinimumCollateralValue *decimal.Decimal `json:"minimum_collateral_value,omitempty"`
	OracleStaleness        *int64           `json:"oracle_staleness,omitempty"`
	BlocksPerYear          *int64           `json:"blocks_per_year,omitempty"`
	MaxBorrowPositions     *int             `json:"max_borrow_positions,omitempty"`
	RateModel              *RateModel       `json:"rate_model,omitempty"`
	ShortfallPolicy        *ShortfallPolicy `json:"shortfall_policy,omitempty"`
	Paused                 *bool            `json:"paused,omitempty"`
}

// Apply returns a copy of p with the patch applied
func (patch *ParametersPatch) Apply(p Parameters) Parameters {
	if v := patch.LiquidationThreshold; v != nil {
		p.LiquidationThreshold = *v
	}
	if v := patch.LiquidationIncentive; v != nil {
		p.LiquidationIncentive = *v
	}
	if v := patch.ProtocolFee; v != nil {
		p.ProtocolFee = *v
	}
	if v := patch.BaseRate; v != nil {
		p.BaseRate = *v
	}
	if v := patch.RateMultiplier; v != nil {
		p.RateMultiplier = *v
	}
	if v := patch.JumpMultiplier; v != nil {
		p.JumpMultiplier = *v
	}
	if v := patch.OptimalUtilization; v != nil {
		p.OptimalUtilization = *v
	}
	if v := patch.ReserveFactor; v != nil {
		p.ReserveFactor = *v
	}
	if v := patch.CloseFactor; v != nil {
		p.CloseFactor = *v
	}
	if v := patch.MinimumCollateralValue; v != nil {
		p.MinimumCollateralValue = *v
	}
	if v := patch.OracleStaleness; v != nil {
		p.OracleStaleness = *v
	}
	if v := patch.BlocksPerYear; v != nil {
		p.BlocksPerYear = *v
	}
	if v := patch.MaxBorrowPositions; v != nil {
		p.MaxBorrowPositions = *v
	}
	if v := patch.RateModel; v != nil {
		p.RateModel = *v
	}
	if v := patch.ShortfallPolicy; v != nil {
		p.ShortfallPolicy = *v
	}
	if v := patch.Paused; v != nil {
		p.Paused = *v
	}

	return p
}

// ParameterStore governance parameter snapshots
type ParameterStore interface {
	Snapshot(ctx context.Context) (*Parameters, error)
	Update(ctx context.Context, patch *ParametersPatch) (*Parameters, error)
}

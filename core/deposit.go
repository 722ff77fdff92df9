package core

import (
	"context"
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// DepositStatus btc deposit status
type DepositStatus int

const (
	_ DepositStatus = iota
	// DepositStatusSubmitted reported by the user, not trusted yet
	DepositStatusSubmitted
	// DepositStatusConfirmed attested deep enough, not credited yet
	DepositStatusConfirmed
	// DepositStatusCredited collateral credited, terminal
	DepositStatusCredited
	// DepositStatusRejected fraud, double spend or not confirmed, terminal
	DepositStatusRejected
)

func (s DepositStatus) String() string {
	switch s {
	case DepositStatusSubmitted:
		return "submitted"
	case DepositStatusConfirmed:
		return "confirmed"
	case DepositStatusCredited:
		return "credited"
	case DepositStatusRejected:
		return "rejected"
	default:
		return "unknown"
	}
}

// Terminal credited or rejected
func (s DepositStatus) Terminal() bool {
	return s == DepositStatusCredited || s == DepositStatusRejected
}

// CanTransit forward only transitions, nothing leaves a terminal status
func (s DepositStatus) CanTransit(to DepositStatus) bool {
	if s.Terminal() {
		return false
	}

	switch to {
	case DepositStatusConfirmed:
		return s == DepositStatusSubmitted
	case DepositStatusCredited:
		return s == DepositStatusConfirmed
	case DepositStatusRejected:
		return s == DepositStatusSubmitted || s == DepositStatusConfirmed
	default:
		return false
	}
}

// BtcDeposit external bitcoin deposit tracked from submission to credited collateral
type BtcDeposit struct {
	ID     int64  `sql:"PRIMARY_KEY;AUTO_INCREMENT" json:"id"`
	TxID   string `sql:"size:64;unique_index:idx_btc_deposits_tx_id" json:"tx_id"`
	UserID string `sql:"size:36;index:idx_btc_deposits_user_id" json:"user_id"`
	// amount in satoshi
	Satoshis int64 `json:"satoshis"`
	// amount in btc
	Amount         decimal.Decimal `sql:"type:decimal(24,8)" json:"amount"`
	Status         DepositStatus   `json:"status"`
	Confirmations  int64           `json:"confirmations"`
	Attesters      pq.StringArray  `sql:"type:varchar(1024)" json:"attesters,omitempty"`
	RejectReason   string          `sql:"size:255" json:"reject_reason,omitempty"`
	SubmittedBlock int64           `json:"submitted_block"`
	ConfirmedBlock int64           `json:"confirmed_block,omitempty"`
	SettledBlock   int64           `json:"settled_block,omitempty"`
	Version        int64           `sql:"default:0" json:"version"`
	CreatedAt      time.Time       `sql:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt      time.Time       `sql:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// BridgeService btc collateral bridge
type BridgeService interface {
	Submit(ctx context.Context, userID, txID string, satoshis int64) (*BtcDeposit, error)
	Confirm(ctx context.Context, attester, txID string, confirmations int64) (*BtcDeposit, error)
	Reject(ctx context.Context, attester, txID, reason string) (*BtcDeposit, error)
	Credit(ctx context.Context, txID string) (*BtcDeposit, error)
	Find(ctx context.Context, txID string) (*BtcDeposit, error)
}

package core

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jmoiron/sqlx/types"
	"github.com/shopspring/decimal"
)

// ActionType action type
type ActionType int

const (
	// ActionTypeDefault default
	ActionTypeDefault ActionType = iota
	ActionTypeSupply
	ActionTypeWithdraw
	ActionTypeBorrow
	ActionTypeRepay
	ActionTypeLiquidate
	ActionTypeBtcSubmit
	ActionTypeBtcConfirm
	ActionTypeBtcReject
	ActionTypeBtcCredit
)

func (a ActionType) String() string {
	switch a {
	case ActionTypeSupply:
		return "supply"
	case ActionTypeWithdraw:
		return "withdraw"
	case ActionTypeBorrow:
		return "borrow"
	case ActionTypeRepay:
		return "repay"
	case ActionTypeLiquidate:
		return "liquidate"
	case ActionTypeBtcSubmit:
		return "btc_submit"
	case ActionTypeBtcConfirm:
		return "btc_confirm"
	case ActionTypeBtcReject:
		return "btc_reject"
	case ActionTypeBtcCredit:
		return "btc_credit"
	default:
		return "default"
	}
}

// ParseActionType action type by name
func ParseActionType(name string) (ActionType, bool) {
	for a := ActionTypeSupply; a <= ActionTypeBtcCredit; a++ {
		if a.String() == name {
			return a, true
		}
	}

	return ActionTypeDefault, false
}

const (
	// TransactionKeyBlock block index :int64
	TransactionKeyBlock = "block"
	// TransactionKeyPrice price :decimal
	TransactionKeyPrice = "price"
	// TransactionKeyRepayAmount repay amount :decimal
	TransactionKeyRepayAmount = "repay_amount"
	// TransactionKeyRefund refund :decimal
	TransactionKeyRefund = "refund"
	// TransactionKeyBorrower borrower :string
	TransactionKeyBorrower = "borrower"
	// TransactionKeySeized seized collaterals :[]Seizure
	TransactionKeySeized = "seized"
	// TransactionKeyTxID bitcoin tx id :string
	TransactionKeyTxID = "tx_id"
	// TransactionKeyBalance balance after action :decimal
	TransactionKeyBalance = "balance"
)

type ExtraDataFormatter interface {
	Format() []byte
}

// TransactionExtraData extra data
type TransactionExtraData map[string]interface{}

// NewTransactionExtra new transaction extra instance
func NewTransactionExtra() TransactionExtraData {
	d := make(TransactionExtraData)
	return d
}

// Put put data
func (t TransactionExtraData) Put(key string, value interface{}) {
	t[key] = value
}

// Format format as []byte by default
func (t TransactionExtraData) Format() []byte {
	bs, e := json.Marshal(t)
	if e != nil {
		return []byte("{}")
	}

	return bs
}

// Transaction audit record of one successful action
type Transaction struct {
	ID          int64           `sql:"PRIMARY_KEY;AUTO_INCREMENT" json:"id,omitempty"`
	Action      ActionType      `json:"action,omitempty"`
	TraceID     string          `sql:"size:36;unique_index:idx_transactions_trace_id" json:"trace_id,omitempty"`
	UserID      string          `sql:"size:36;index:idx_transactions_user_id" json:"user_id,omitempty"`
	AssetID     string          `sql:"size:36;index:idx_transactions_asset_id" json:"asset_id,omitempty"`
	Amount      decimal.Decimal `sql:"type:decimal(32,16)" json:"amount,omitempty"`
	BlockNumber int64           `json:"block_number,omitempty"`
	Data        types.JSONText  `sql:"type:TEXT" json:"data,omitempty"`
	CreatedAt   time.Time       `sql:"default:CURRENT_TIMESTAMP;index:idx_transactions_created_at" json:"created_at,omitempty"`
	UpdatedAt   time.Time       `sql:"default:CURRENT_TIMESTAMP" json:"updated_at,omitempty"`
}

func (t *Transaction) SetExtraData(extra ExtraDataFormatter) {
	data := []byte("{}")
	if extra != nil {
		data = extra.Format()
	}

	t.Data = data
}

func (t *Transaction) UnmarshalExtraData(v interface{}) error {
	return json.Unmarshal(t.Data, v)
}

// TransactionStore transaction read store
type TransactionStore interface {
	FindByTraceID(ctx context.Context, traceID string) (*Transaction, error)
	List(ctx context.Context, query TransactionQuery) ([]*Transaction, error)
}

// TransactionQuery transaction list filter
type TransactionQuery struct {
	UserID string `schema:"user_id"`
	Action string `schema:"action"`
	Offset int64  `schema:"offset"`
	Limit  int    `schema:"limit"`
}

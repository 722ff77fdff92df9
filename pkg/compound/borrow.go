package compound

import (
	"lending/core"
	"lending/pkg/number"

	"github.com/shopspring/decimal"
)

// BorrowBalance caculate borrow balance
// balance = borrow.principal * market.borrow_index / borrow.interest_index
func BorrowBalance(b *core.Borrow, market *core.Market) decimal.Decimal {
	if !market.BorrowIndex.IsPositive() {
		market.BorrowIndex = one
	}

	if !b.InterestIndex.IsPositive() {
		b.InterestIndex = market.BorrowIndex
	}

	if market.BorrowIndex.Equal(b.InterestIndex) {
		return b.Principal
	}

	principalTimesIndex := b.Principal.Mul(market.BorrowIndex)
	return number.Ceil(principalTimesIndex.Div(b.InterestIndex), MaxPricision)
}

// UpdateBorrow rebase the borrow on the current index with a new balance
func UpdateBorrow(b *core.Borrow, market *core.Market, balance decimal.Decimal) {
	b.Principal = balance
	b.InterestIndex = market.BorrowIndex
	b.BlockNumber = market.BlockNumber
}

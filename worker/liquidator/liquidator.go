package liquidator

import (
	"context"
	"time"

	"lending/core"
	"lending/pkg/metric"
	"lending/worker"

	"github.com/fox-one/pkg/logger"
	"github.com/sirupsen/logrus"
)

// Worker values every borrower and reports the liquidatable ones
type Worker struct {
	worker.TickWorker
	ledger   core.LedgerStore
	lendings core.LendingService
}

// New new liquidation scanner
func New(ledger core.LedgerStore, lendings core.LendingService, interval time.Duration) *Worker {
	if interval <= 0 {
		interval = time.Minute
	}

	return &Worker{
		TickWorker: worker.TickWorker{
			Delay:    interval,
			ErrDelay: interval,
		},
		ledger:   ledger,
		lendings: lendings,
	}
}

// Run run worker
func (w *Worker) Run(ctx context.Context) error {
	return w.StartTick(ctx, func(ctx context.Context) error {
		_, err := w.scan(ctx)
		return err
	})
}

// scan liquidatable accounts, an account that can not be valued is skipped
func (w *Worker) scan(ctx context.Context) ([]*core.Account, error) {
	log := logger.FromContext(ctx).WithField("worker", "liquidator")

	var borrowers []string
	if err := w.ledger.View(ctx, func(l core.Ledger) (err error) {
		borrowers, err = l.Borrowers(ctx)
		return err
	}); err != nil {
		log.WithError(err).Errorln("list borrowers")
		return nil, err
	}

	var accounts []*core.Account
	for _, userID := range borrowers {
		account, err := w.lendings.AccountLiquidity(ctx, userID)
		if err != nil {
			log.WithError(err).WithField("user_id", userID).Warnln("value account")
			continue
		}

		if !account.Liquidatable {
			continue
		}

		log.WithFields(logrus.Fields{
			"user_id":          userID,
			"collateral_value": account.CollateralValue,
			"borrow_value":     account.BorrowValue,
		}).Infoln("account liquidatable")
		accounts = append(accounts, account)
	}

	metric.SetLiquidatable(len(accounts))
	return accounts, nil
}

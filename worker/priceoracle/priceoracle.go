package priceoracle

import (
	"context"
	"encoding/json"
	"time"

	"lending/core"
	"lending/pkg/metric"
	"lending/worker"

	"github.com/fox-one/pkg/logger"
	"github.com/jmoiron/sqlx/types"
	"golang.org/x/sync/errgroup"
)

// Config price oracle worker config
type Config struct {
	Interval time.Duration `json:"interval"`
	// readings older than Retention blocks are pruned, zero keeps all
	Retention int64 `json:"retention"`
}

//Worker pulls a ticker for every oracle ref once per block
type Worker struct {
	worker.TickWorker
	ledger  core.LedgerStore
	prices  core.PriceStore
	blocks  core.BlockService
	tickers core.PriceTickerService
	cfg     Config
}

// New new price oracle worker
func New(
	ledger core.LedgerStore,
	prices core.PriceStore,
	blocks core.BlockService,
	tickers core.PriceTickerService,
	cfg Config,
) *Worker {
	if cfg.Interval <= 0 {
		cfg.Interval = 10 * time.Second
	}

	return &Worker{
		TickWorker: worker.TickWorker{
			Delay:    cfg.Interval,
			ErrDelay: cfg.Interval,
		},
		ledger:  ledger,
		prices:  prices,
		blocks:  blocks,
		tickers: tickers,
		cfg:     cfg,
	}
}

// Run run worker
func (w *Worker) Run(ctx context.Context) error {
	return w.StartTick(ctx, func(ctx context.Context) error {
		return w.onWork(ctx)
	})
}

func (w *Worker) onWork(ctx context.Context) error {
	log := logger.FromContext(ctx).WithField("worker", "priceoracle")

	block, err := w.blocks.CurrentBlock(ctx)
	if err != nil {
		log.WithError(err).Errorln("current block")
		return err
	}

	refs, err := w.oracleRefs(ctx)
	if err != nil {
		log.WithError(err).Errorln("list assets")
		return err
	}

	if len(refs) == 0 {
		log.Debugln("no oracle ref found")
		return nil
	}

	var g errgroup.Group
	for _, ref := range refs {
		ref := ref
		g.Go(func() error {
			return w.pull(ctx, ref, block)
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	if w.cfg.Retention > 0 && block > w.cfg.Retention {
		if err := w.prices.DeleteBefore(ctx, block-w.cfg.Retention); err != nil {
			log.WithError(err).Errorln("prune prices")
			return err
		}
	}

	return nil
}

func (w *Worker) oracleRefs(ctx context.Context) ([]string, error) {
	var refs []string
	err := w.ledger.View(ctx, func(l core.Ledger) error {
		assets, err := l.ListAssets(ctx)
		if err != nil {
			return err
		}

		seen := map[string]bool{}
		for _, asset := range assets {
			if asset.OracleRef == "" || seen[asset.OracleRef] {
				continue
			}

			seen[asset.OracleRef] = true
			refs = append(refs, asset.OracleRef)
		}

		return nil
	})

	return refs, err
}

func (w *Worker) pull(ctx context.Context, ref string, block int64) error {
	log := logger.FromContext(ctx).WithField("oracle_ref", ref)

	latest, err := w.prices.Latest(ctx, ref, block)
	if err != nil {
		log.WithError(err).Errorln("latest price")
		return err
	}

	if latest.ID > 0 && latest.BlockNumber == block {
		return nil
	}

	ticker, err := w.tickers.PullPriceTicker(ctx, ref, time.Now())
	if err != nil {
		log.WithError(err).Errorln("pull price ticker")
		return err
	}

	if !ticker.Price.IsPositive() {
		log.Errorln("invalid ticker price:", ticker.Symbol, ":", ticker.Price)
		return nil
	}

	content, _ := json.Marshal(ticker)
	price := &core.Price{
		OracleRef:   ref,
		BlockNumber: block,
		Price:       ticker.Price,
		Content:     types.JSONText(content),
	}
	if err := w.prices.Create(ctx, price); err != nil {
		log.WithError(err).Errorln("save price")
		return err
	}

	metric.SetPrice(ref, ticker.Price.InexactFloat64())
	log.Debugln("price", ticker.Price, "at block", block)
	return nil
}

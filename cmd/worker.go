package cmd

import (
	"time"

	"lending/worker"
	"lending/worker/liquidator"
	"lending/worker/priceoracle"

	"github.com/drone/signal"
	"github.com/fox-one/pkg/logger"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "lending job worker",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := signal.WithContext(cmd.Context())
		log := logger.FromContext(ctx)
		ctx = logger.WithContext(ctx, log)

		database := provideDatabase()
		defer database.Close()

		ledgers := provideLedgerStore(database)
		priceStore := providePriceStore(database)
		params := provideParameterStore(providePropertyStore(database))
		blocks := provideBlockService()
		lendings := provideLendingService(ledgers, params, providePriceGateway(priceStore), blocks)

		interval, _ := cmd.Flags().GetDuration("interval")
		retention, _ := cmd.Flags().GetInt64("retention")
		scanInterval, _ := cmd.Flags().GetDuration("scan-interval")

		workers := []worker.Worker{
			priceoracle.New(ledgers, priceStore, blocks, provideTickerService(), priceoracle.Config{
				Interval:  interval,
				Retention: retention,
			}),
			liquidator.New(ledgers, lendings, scanInterval),
		}

		g, ctx := errgroup.WithContext(ctx)
		for _, w := range workers {
			w := w
			g.Go(func() error {
				return w.Run(ctx)
			})
		}

		if err := g.Wait(); err != nil {
			log.WithError(err).Infoln("worker stopped")
		}
	},
}

func init() {
	rootCmd.AddCommand(workerCmd)
	workerCmd.Flags().Duration("interval", 10*time.Second, "price oracle pull interval")
	workerCmd.Flags().Int64("retention", 20000, "price readings kept, in blocks")
	workerCmd.Flags().Duration("scan-interval", time.Minute, "liquidation scan interval")
}

package metric

import (
	"errors"

	"lending/core"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "lending"

var (
	actions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "actions_total",
		Help:      "Lending and bridge actions by result.",
	}, []string{"action", "result"})

	liquidatable = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "liquidatable_accounts",
		Help:      "Accounts found liquidatable by the last scan.",
	})

	prices = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "oracle_price",
		Help:      "Latest stored oracle price per feed.",
	}, []string{"oracle_ref"})
)

func init() {
	prometheus.MustRegister(actions, liquidatable, prices)
}

// ObserveAction count one action, result is "ok" or the error code
func ObserveAction(action core.ActionType, err error) {
	actions.WithLabelValues(action.String(), Result(err)).Inc()
}

// Result metric label of err
func Result(err error) string {
	if err == nil {
		return "ok"
	}

	var code core.ErrorCode
	if errors.As(err, &code) {
		return code.String()
	}

	return "error"
}

// SetLiquidatable number of liquidatable accounts
func SetLiquidatable(n int) {
	liquidatable.Set(float64(n))
}

// SetPrice latest price of a feed
func SetPrice(oracleRef string, price float64) {
	prices.WithLabelValues(oracleRef).Set(price)
}

package oracle

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"lending/core"
	"lending/pkg/id"
	"lending/pkg/resthttp"

	"github.com/fox-one/pkg/logger"
)

type tickerService struct {
	endpoint string
}

// NewTickerService pulls tickers from the configured oracle endpoint
func NewTickerService(cfg *core.Config) core.PriceTickerService {
	return &tickerService{endpoint: cfg.PriceOracle.EndPoint}
}

// PullPriceTicker pull price ticker
func (s *tickerService) PullPriceTicker(ctx context.Context, oracleRef string, t time.Time) (*core.PriceTicker, error) {
	uri := fmt.Sprintf("%s/api/v2/tickers/%s?ts=%d", s.endpoint, url.PathEscape(oracleRef), t.UTC().Unix())
	logger.FromContext(ctx).Debugln("pull price:", uri)

	resp, err := resthttp.WithRequestID(ctx, id.GenTraceID()).Get(uri)
	if err != nil {
		return nil, err
	}

	var ticker core.PriceTicker
	if err := resthttp.ParseResponse(resp, &ticker); err != nil {
		return nil, err
	}

	return &ticker, nil
}

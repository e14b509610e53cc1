package report

import (
	"context"
	"fmt"
	"strings"
	"time"

	"fundingdesk/logger"
	"fundingdesk/models"

	futures "github.com/adshao/go-binance/v2/futures"
	"github.com/shopspring/decimal"
)

// PerpetualSymbols returns every listed USDT-quoted perpetual contract
// symbol, in listing order.
func (f *Facade) PerpetualSymbols(ctx context.Context) ([]string, error) {
	info, err := f.api.ExchangeInfo(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch exchange information: %w", err)
	}

	symbols := make([]string, 0, len(info.Symbols))
	for _, s := range info.Symbols {
		if string(s.ContractType) != string(futures.ContractTypePerpetual) {
			continue
		}
		if !strings.HasSuffix(s.Symbol, quoteSuffix) {
			continue
		}
		symbols = append(symbols, s.Symbol)
	}
	return symbols, nil
}

// LeverageCatalog flattens the notional/leverage brackets of every perpetual
// USDT symbol into one row per (symbol, tier). A symbol with N tiers yields
// N rows.
func (f *Facade) LeverageCatalog(ctx context.Context) ([]models.LeverageBracket, error) {
	start := time.Now()

	symbols, err := f.PerpetualSymbols(ctx)
	if err != nil {
		return nil, err
	}
	perpetual := make(map[string]struct{}, len(symbols))
	for _, s := range symbols {
		perpetual[s] = struct{}{}
	}

	brackets, err := f.api.LeverageBrackets(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch leverage brackets: %w", err)
	}

	rows := make([]models.LeverageBracket, 0, len(brackets))
	for _, lb := range brackets {
		if _, ok := perpetual[lb.Symbol]; !ok {
			continue
		}
		for _, tier := range lb.Brackets {
			rows = append(rows, models.LeverageBracket{
				Symbol:          lb.Symbol,
				InitialLeverage: tier.InitialLeverage,
				NotionalCap:     decimal.NewFromFloat(tier.NotionalCap),
			})
		}
	}

	f.log.LogDuration("report", "leverage_catalog", time.Since(start), logger.Fields{"rows": len(rows)})
	return rows, nil
}

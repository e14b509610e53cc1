package report

import (
	"context"
	"time"

	"fundingdesk/logger"
	"fundingdesk/models"

	"github.com/shopspring/decimal"
)

// FundingArbitrage answers "what is the expected funding-rate carry, net of
// round-trip trading fees, at a given leverage tier and order-type mix". It
// left-joins the current funding-rate report with the leverage catalog
// restricted to the requested tier; symbols without a bracket at that
// leverage keep their quote columns and carry null economics. Position size
// is the tier's notional cap. entryMarket/exitMarket pick the taker fee for
// that leg, otherwise the maker fee applies.
func (f *Facade) FundingArbitrage(ctx context.Context, leverage int, entryMarket, exitMarket bool) ([]models.ArbitrageCandidate, error) {
	start := time.Now()

	catalog, err := f.LeverageCatalog(ctx)
	if err != nil {
		return nil, err
	}
	tiers := make(map[string][]decimal.Decimal)
	for _, b := range catalog {
		if b.InitialLeverage == leverage {
			tiers[b.Symbol] = append(tiers[b.Symbol], b.NotionalCap)
		}
	}

	quotes, err := f.FundingRates(ctx, nil)
	if err != nil {
		return nil, err
	}

	feeEntry := makerFeeRate
	if entryMarket {
		feeEntry = takerFeeRate
	}
	feeExit := makerFeeRate
	if exitMarket {
		feeExit = takerFeeRate
	}
	feeRate := feeEntry.Add(feeExit)
	lev := decimal.NewFromInt(int64(leverage))

	rows := make([]models.ArbitrageCandidate, 0, len(quotes))
	for _, q := range quotes {
		base := models.ArbitrageCandidate{
			Symbol:          q.Symbol,
			FundingRate:     q.FundingRate,
			NextFundingTime: q.NextFundingTime,
			Side:            q.Side,
			Ranking:         q.Ranking,
		}

		caps, ok := tiers[q.Symbol]
		if !ok {
			rows = append(rows, base)
			continue
		}

		absRate := q.FundingRate.Abs()
		for _, notional := range caps {
			cand := base
			cand.Leverage = leverage
			cand.Position = decimal.NewNullDecimal(notional)
			cand.PercentProfit = decimal.NewNullDecimal(absRate.Mul(lev))
			cand.Margin = decimal.NewNullDecimal(notional.Div(lev))
			cand.Fees = decimal.NewNullDecimal(notional.Mul(feeRate))

			gross := notional.Mul(absRate).Round(2)
			cand.GrossProfit = decimal.NewNullDecimal(gross)
			cand.NetProfit = decimal.NewNullDecimal(gross.Sub(notional.Mul(feeRate)))
			rows = append(rows, cand)
		}
	}

	f.log.LogDuration("report", "funding_arbitrage", time.Since(start), logger.Fields{
		"leverage": leverage,
		"rows":     len(rows),
	})
	return rows, nil
}

package report

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"fundingdesk/logger"
	"fundingdesk/models"

	"github.com/shopspring/decimal"
)

// FundingRates reports the current funding rate for every symbol in assets,
// or for every USDT-quoted symbol when assets is empty. Rows carry the
// favorable entry side (BUY when the funding rate is zero or negative) and a
// ranking by descending |funding rate|; the report is ordered by that ranking.
// An empty filtered universe yields an empty report, not an error.
func (f *Facade) FundingRates(ctx context.Context, assets []string) ([]models.SymbolQuote, error) {
	start := time.Now()

	quotes, err := f.api.PremiumIndex(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("failed to fetch premium index: %w", err)
	}

	var allow map[string]struct{}
	if len(assets) > 0 {
		allow = make(map[string]struct{}, len(assets))
		for _, s := range assets {
			allow[s] = struct{}{}
		}
	}

	rows := make([]models.SymbolQuote, 0, len(quotes))
	for _, q := range quotes {
		if allow != nil {
			if _, ok := allow[q.Symbol]; !ok {
				continue
			}
		} else if !strings.HasSuffix(q.Symbol, quoteSuffix) {
			continue
		}

		rate, err := decimal.NewFromString(q.LastFundingRate)
		if err != nil {
			return nil, fmt.Errorf("invalid funding rate for %s: %w", q.Symbol, err)
		}

		row := models.SymbolQuote{
			Symbol:          q.Symbol,
			FundingRate:     rate.Round(6),
			NextFundingTime: f.formatMillis(q.NextFundingTime, minuteLayout),
			Side:            models.SideSell,
		}
		// Negative funding pays longs, so going long is the favorable carry.
		if row.FundingRate.Sign() <= 0 {
			row.Side = models.SideBuy
		}
		rows = append(rows, row)
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].FundingRate.Cmp(rows[j].FundingRate) < 0
	})

	rates := make([]decimal.Decimal, len(rows))
	for i := range rows {
		rates[i] = rows[i].FundingRate
	}
	for i, r := range rankAbsDesc(rates) {
		rows[i].Ranking = r
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Ranking < rows[j].Ranking
	})

	f.log.LogDuration("report", "funding_rates", time.Since(start), logger.Fields{"rows": len(rows)})
	return rows, nil
}

// FundingHistory reports the most recent funding-fee payments (up to 1000),
// optionally restricted to one symbol, ordered by time descending with symbol
// as ascending tiebreak.
func (f *Facade) FundingHistory(ctx context.Context, symbol string) ([]models.FundingIncome, error) {
	start := time.Now()

	records, err := f.api.IncomeHistory(ctx, symbol, incomeTypeFundingFee, incomeFetchLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch income history: %w", err)
	}

	type timedIncome struct {
		ms  int64
		row models.FundingIncome
	}

	timed := make([]timedIncome, 0, len(records))
	for _, rec := range records {
		income, err := decimal.NewFromString(rec.Income)
		if err != nil {
			return nil, fmt.Errorf("invalid income for %s: %w", rec.Symbol, err)
		}
		timed = append(timed, timedIncome{
			ms: rec.Time,
			row: models.FundingIncome{
				Symbol:     rec.Symbol,
				Time:       f.formatMillis(rec.Time, minuteLayout),
				Income:     income.Round(2),
				IncomeType: rec.IncomeType,
			},
		})
	}

	sort.SliceStable(timed, func(i, j int) bool {
		if timed[i].ms != timed[j].ms {
			return timed[i].ms > timed[j].ms
		}
		return timed[i].row.Symbol < timed[j].row.Symbol
	})

	rows := make([]models.FundingIncome, len(timed))
	for i, t := range timed {
		rows[i] = t.row
	}

	f.log.LogDuration("report", "funding_history", time.Since(start), logger.Fields{
		"symbol": symbol,
		"rows":   len(rows),
	})
	return rows, nil
}

// PastFundingRates reports historical funding-rate prints for one symbol,
// hour-bucketed in the report zone and ordered most recent first. When limit
// is positive it bounds both the fetch and the returned rows.
func (f *Facade) PastFundingRates(ctx context.Context, symbol string, limit int) ([]models.FundingRatePrint, error) {
	start := time.Now()

	prints, err := f.api.FundingRateHistory(ctx, symbol, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch funding rate history: %w", err)
	}

	type timedPrint struct {
		ms  int64
		row models.FundingRatePrint
	}

	timed := make([]timedPrint, 0, len(prints))
	for _, p := range prints {
		rate, err := decimal.NewFromString(p.FundingRate)
		if err != nil {
			return nil, fmt.Errorf("invalid funding rate print for %s: %w", symbol, err)
		}
		timed = append(timed, timedPrint{
			ms: p.FundingTime,
			row: models.FundingRatePrint{
				FundingTime: f.formatMillis(p.FundingTime, hourLayout),
				FundingRate: rate,
			},
		})
	}

	sort.SliceStable(timed, func(i, j int) bool {
		return timed[i].ms > timed[j].ms
	})
	if limit > 0 && len(timed) > limit {
		timed = timed[:limit]
	}

	rows := make([]models.FundingRatePrint, len(timed))
	for i, t := range timed {
		rows[i] = t.row
	}

	f.log.LogDuration("report", "past_funding_rates", time.Since(start), logger.Fields{
		"symbol": symbol,
		"rows":   len(rows),
	})
	return rows, nil
}

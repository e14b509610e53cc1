package report

import (
	"context"
	"errors"
	"testing"
	"time"

	futures "github.com/adshao/go-binance/v2/futures"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quote(symbol, rate string, nextFunding int64) *futures.PremiumIndex {
	return &futures.PremiumIndex{
		Symbol:          symbol,
		LastFundingRate: rate,
		NextFundingTime: nextFunding,
	}
}

func TestFundingRatesOrderingAndSides(t *testing.T) {
	api := &stubAPI{premiumIndex: []*futures.PremiumIndex{
		quote("ADAUSDT", "0.000100", 0),
		quote("BTCUSDT", "-0.000500", 0),
		quote("ETHUSDT", "0.000300", 0),
		quote("XRPUSDT", "0.000000", 0),
	}}
	f := newTestFacade(t, api)

	rows, err := f.FundingRates(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, rows, 4)

	// Ordered by ranking ascending: largest |rate| first.
	assert.Equal(t, "BTCUSDT", rows[0].Symbol)
	assert.Equal(t, "ETHUSDT", rows[1].Symbol)
	assert.Equal(t, "ADAUSDT", rows[2].Symbol)
	assert.Equal(t, "XRPUSDT", rows[3].Symbol)

	for i, row := range rows {
		assert.Equal(t, float64(i+1), row.Ranking)
		if row.FundingRate.Sign() <= 0 {
			assert.Equal(t, "BUY", row.Side, row.Symbol)
		} else {
			assert.Equal(t, "SELL", row.Side, row.Symbol)
		}
	}
}

func TestFundingRatesRankingAveragesTies(t *testing.T) {
	api := &stubAPI{premiumIndex: []*futures.PremiumIndex{
		quote("AUSDT", "0.000200", 0),
		quote("BUSDT", "-0.000200", 0),
		quote("CUSDT", "0.000100", 0),
	}}
	f := newTestFacade(t, api)

	rows, err := f.FundingRates(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	// |0.0002| ties across A and B: both get (1+2)/2.
	byName := map[string]float64{}
	for _, r := range rows {
		byName[r.Symbol] = r.Ranking
	}
	assert.Equal(t, 1.5, byName["AUSDT"])
	assert.Equal(t, 1.5, byName["BUSDT"])
	assert.Equal(t, 3.0, byName["CUSDT"])

	for i := 1; i < len(rows); i++ {
		assert.LessOrEqual(t, rows[i-1].Ranking, rows[i].Ranking)
	}
}

func TestFundingRatesAssetFilter(t *testing.T) {
	api := &stubAPI{premiumIndex: []*futures.PremiumIndex{
		quote("ETHUSDT", "0.000300", 0),
		quote("BTCUSD", "0.000100", 0),
		quote("BTCUSDT", "-0.000500", 0),
		quote("SOLUSDT", "0.000200", 0),
	}}
	f := newTestFacade(t, api)

	rows, err := f.FundingRates(context.Background(), []string{"BTCUSDT", "ETHUSDT"})
	require.NoError(t, err)
	require.Len(t, rows, 2)

	got := []string{rows[0].Symbol, rows[1].Symbol}
	assert.ElementsMatch(t, []string{"BTCUSDT", "ETHUSDT"}, got)
}

func TestFundingRatesSuffixFilterAndRounding(t *testing.T) {
	api := &stubAPI{premiumIndex: []*futures.PremiumIndex{
		quote("BTCUSD", "0.000100", 0),
		quote("BTCUSDT", "0.0001234567", 0),
	}}
	f := newTestFacade(t, api)

	rows, err := f.FundingRates(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "BTCUSDT", rows[0].Symbol)
	assert.True(t, rows[0].FundingRate.Equal(decimal.RequireFromString("0.000123")),
		"got %s", rows[0].FundingRate)
}

func TestFundingRatesTimeZoneRendering(t *testing.T) {
	ms := int64(1735689600000) // 2025-01-01 00:00:00 UTC
	api := &stubAPI{premiumIndex: []*futures.PremiumIndex{
		quote("BTCUSDT", "0.000100", ms),
	}}
	f := newTestFacade(t, api)

	rows, err := f.FundingRates(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, rows, 1)

	loc, err := time.LoadLocation("America/Mexico_City")
	require.NoError(t, err)
	want := time.UnixMilli(ms).In(loc).Format("2006-01-02 15:04")
	assert.Equal(t, want, rows[0].NextFundingTime)
}

func TestFundingRatesEmptyUniverse(t *testing.T) {
	f := newTestFacade(t, &stubAPI{})

	rows, err := f.FundingRates(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestFundingRatesPropagatesAPIError(t *testing.T) {
	f := newTestFacade(t, &stubAPI{err: errors.New("boom")})

	_, err := f.FundingRates(context.Background(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
}

func TestFundingHistoryOrderingAndRounding(t *testing.T) {
	api := &stubAPI{income: []*futures.IncomeHistory{
		{Symbol: "ETHUSDT", Income: "1.005", IncomeType: "FUNDING_FEE", Time: 2000},
		{Symbol: "BTCUSDT", Income: "-0.123", IncomeType: "FUNDING_FEE", Time: 3000},
		{Symbol: "ADAUSDT", Income: "0.4", IncomeType: "FUNDING_FEE", Time: 2000},
	}}
	f := newTestFacade(t, api)

	rows, err := f.FundingHistory(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, rows, 3)

	// Time descending, symbol ascending on ties.
	assert.Equal(t, "BTCUSDT", rows[0].Symbol)
	assert.Equal(t, "ADAUSDT", rows[1].Symbol)
	assert.Equal(t, "ETHUSDT", rows[2].Symbol)

	assert.True(t, rows[0].Income.Equal(decimal.RequireFromString("-0.12")))
	assert.True(t, rows[2].Income.Equal(decimal.RequireFromString("1.01")))

	assert.Equal(t, "FUNDING_FEE", api.incomeType)
	assert.Equal(t, int64(1000), api.incomeLimit)
}

func TestFundingHistoryForwardsSymbol(t *testing.T) {
	api := &stubAPI{}
	f := newTestFacade(t, api)

	_, err := f.FundingHistory(context.Background(), "BTCUSDT")
	require.NoError(t, err)
	assert.Equal(t, "BTCUSDT", api.incomeSymbol)
}

func TestPastFundingRatesLimitEnforced(t *testing.T) {
	api := &stubAPI{fundingHistory: []*futures.FundingRate{
		{Symbol: "BTCUSDT", FundingRate: "0.0001", FundingTime: 1000},
		{Symbol: "BTCUSDT", FundingRate: "0.0003", FundingTime: 3000},
		{Symbol: "BTCUSDT", FundingRate: "0.0002", FundingTime: 2000},
	}}
	f := newTestFacade(t, api)

	rows, err := f.PastFundingRates(context.Background(), "BTCUSDT", 2)
	require.NoError(t, err)
	assert.Equal(t, 2, api.fundingHistLimit)

	// Most recent first, truncated to the limit.
	require.Len(t, rows, 2)
	assert.True(t, rows[0].FundingRate.Equal(decimal.RequireFromString("0.0003")))
	assert.True(t, rows[1].FundingRate.Equal(decimal.RequireFromString("0.0002")))
}

func TestPastFundingRatesHourBucketing(t *testing.T) {
	ms := int64(1735693500000) // 2025-01-01 01:05:00 UTC
	api := &stubAPI{fundingHistory: []*futures.FundingRate{
		{Symbol: "BTCUSDT", FundingRate: "0.0001", FundingTime: ms},
	}}
	f := newTestFacade(t, api)

	rows, err := f.PastFundingRates(context.Background(), "BTCUSDT", 0)
	require.NoError(t, err)
	require.Len(t, rows, 1)

	loc, err := time.LoadLocation("America/Mexico_City")
	require.NoError(t, err)
	want := time.UnixMilli(ms).In(loc).Format("2006-01-02 15:00")
	assert.Equal(t, want, rows[0].FundingTime)
}

package models

import "github.com/shopspring/decimal"

// Order sides derived by the report layer.
const (
	SideBuy   = "BUY"
	SideSell  = "SELL"
	SideLong  = "LONG"
	SideShort = "SHORT"
)

// SymbolQuote is one row of the funding-rate report. FundingRate is the last
// funding rate rounded to six decimal places and NextFundingTime is rendered
// in the report time zone. Ranking orders rows by descending |FundingRate|
// with average ranks on ties, so it is not necessarily an integer.
type SymbolQuote struct {
	Symbol          string          `json:"symbol"`
	FundingRate     decimal.Decimal `json:"funding_rate"`
	NextFundingTime string          `json:"next_funding_time"`
	Side            string          `json:"side"`
	Ranking         float64         `json:"ranking"`
}

// LeverageBracket is one (symbol, tier) row of the leverage catalog.
type LeverageBracket struct {
	Symbol          string          `json:"symbol"`
	InitialLeverage int             `json:"initial_leverage"`
	NotionalCap     decimal.Decimal `json:"notional_cap"`
}

// FundingIncome is a single funding-fee payment from the income history.
type FundingIncome struct {
	Symbol     string          `json:"symbol"`
	Time       string          `json:"time"`
	Income     decimal.Decimal `json:"income"`
	IncomeType string          `json:"income_type"`
}

// FundingRatePrint is one historical funding-rate print for a symbol.
// FundingTime is bucketed to the hour in the report time zone.
type FundingRatePrint struct {
	FundingTime string          `json:"funding_time"`
	FundingRate decimal.Decimal `json:"funding_rate"`
}

// ArbitrageCandidate joins a funding-rate quote with the leverage bracket for
// the requested tier and carries the derived carry-trade economics. The
// economics columns are null when the symbol has no bracket at that tier.
type ArbitrageCandidate struct {
	Symbol          string              `json:"symbol"`
	FundingRate     decimal.Decimal     `json:"funding_rate"`
	NextFundingTime string              `json:"next_funding_time"`
	Side            string              `json:"side"`
	Ranking         float64             `json:"ranking"`
	Leverage        int                 `json:"leverage"`
	Position        decimal.NullDecimal `json:"position"`
	PercentProfit   decimal.NullDecimal `json:"percent_profit"`
	Margin          decimal.NullDecimal `json:"margin"`
	Fees            decimal.NullDecimal `json:"fees"`
	GrossProfit     decimal.NullDecimal `json:"gross_profit"`
	NetProfit       decimal.NullDecimal `json:"net_profit"`
}

// Position is a live position snapshot. Side is derived from the sign of the
// position amount, never read from the exchange. The extended columns after
// MarkPrice are zeroed when the report is requested with reduced columns.
type Position struct {
	Symbol           string          `json:"symbol"`
	Side             string          `json:"side"`
	EntryPrice       decimal.Decimal `json:"entry_price"`
	UnrealizedProfit decimal.Decimal `json:"unrealized_profit"`
	IsolatedWallet   decimal.Decimal `json:"isolated_wallet"`
	MarkPrice        decimal.Decimal `json:"mark_price"`

	PositionAmt      decimal.Decimal `json:"position_amt"`
	LiquidationPrice decimal.Decimal `json:"liquidation_price"`
	Notional         decimal.Decimal `json:"notional"`
	UpdateTime       int64           `json:"update_time"`
}

// OrderReceipt is the confirmation returned by the exchange for a newly
// placed trailing-stop order.
type OrderReceipt struct {
	OrderID         int64           `json:"order_id"`
	ClientOrderID   string          `json:"client_order_id"`
	Symbol          string          `json:"symbol"`
	Side            string          `json:"side"`
	Type            string          `json:"type"`
	Quantity        decimal.Decimal `json:"quantity"`
	ActivationPrice decimal.Decimal `json:"activation_price"`
	CallbackRate    decimal.Decimal `json:"callback_rate"`
	ReduceOnly      bool            `json:"reduce_only"`
	Status          string          `json:"status"`
}

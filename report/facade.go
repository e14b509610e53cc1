// Package report turns raw Binance USDT-M futures responses into
// decision-ready tables and exposes the small set of supported order
// operations. Every method is synchronous and stateless; failures from the
// exchange propagate wrapped but otherwise unchanged.
package report

import (
	"fmt"
	"time"

	"fundingdesk/internal/exchange"
	"fundingdesk/logger"

	"github.com/shopspring/decimal"
)

const (
	// All human-readable timestamps are rendered in this zone regardless of
	// the deployment's local zone.
	reportTimeZone = "America/Mexico_City"

	minuteLayout = "2006-01-02 15:04"
	hourLayout   = "2006-01-02 15:00"

	quoteSuffix          = "USDT"
	incomeTypeFundingFee = "FUNDING_FEE"
	incomeFetchLimit     = 1000
)

// Round-trip fee schedule used by the arbitrage report.
var (
	makerFeeRate = decimal.NewFromFloat(0.0002)
	takerFeeRate = decimal.NewFromFloat(0.0005)
)

// Facade wraps an authenticated exchange client and exposes the reporting and
// order-management operations. A Facade holds no mutable state beyond the
// client handle; it is meant for single-caller use unless the underlying
// client guarantees concurrent safety.
type Facade struct {
	api exchange.API
	log *logger.Log
	loc *time.Location
}

// New builds a Facade over the given exchange client.
func New(api exchange.API) (*Facade, error) {
	loc, err := time.LoadLocation(reportTimeZone)
	if err != nil {
		return nil, fmt.Errorf("failed to load report time zone: %w", err)
	}
	return &Facade{
		api: api,
		log: logger.GetLogger(),
		loc: loc,
	}, nil
}

// formatMillis renders an epoch-milliseconds timestamp in the report zone.
func (f *Facade) formatMillis(ms int64, layout string) string {
	return time.UnixMilli(ms).In(f.loc).Format(layout)
}

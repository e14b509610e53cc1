package report

import (
	"context"
	"fmt"
	"time"

	"fundingdesk/logger"
	"fundingdesk/models"

	"github.com/shopspring/decimal"
)

// Positions reports the live position-risk snapshot. Side is LONG when the
// position amount is strictly positive, SHORT otherwise; unrealized profit
// and isolated wallet are rounded to two decimals. When reducedCols is set
// the extended columns after MarkPrice are projected away (left zero-valued).
func (f *Facade) Positions(ctx context.Context, reducedCols bool) ([]models.Position, error) {
	start := time.Now()

	risks, err := f.api.PositionRisk(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch position risk: %w", err)
	}

	rows := make([]models.Position, 0, len(risks))
	for _, r := range risks {
		amt, err := decimal.NewFromString(r.PositionAmt)
		if err != nil {
			return nil, fmt.Errorf("invalid position amount for %s: %w", r.Symbol, err)
		}
		entryPrice, err := decimal.NewFromString(r.EntryPrice)
		if err != nil {
			return nil, fmt.Errorf("invalid entry price for %s: %w", r.Symbol, err)
		}
		markPrice, err := decimal.NewFromString(r.MarkPrice)
		if err != nil {
			return nil, fmt.Errorf("invalid mark price for %s: %w", r.Symbol, err)
		}
		unrealized, err := decimal.NewFromString(r.UnRealizedProfit)
		if err != nil {
			return nil, fmt.Errorf("invalid unrealized profit for %s: %w", r.Symbol, err)
		}
		isolated, err := decimal.NewFromString(r.IsolatedWallet)
		if err != nil {
			return nil, fmt.Errorf("invalid isolated wallet for %s: %w", r.Symbol, err)
		}

		side := models.SideShort
		if amt.Sign() > 0 {
			side = models.SideLong
		}

		pos := models.Position{
			Symbol:           r.Symbol,
			Side:             side,
			EntryPrice:       entryPrice,
			UnrealizedProfit: unrealized.Round(2),
			IsolatedWallet:   isolated.Round(2),
			MarkPrice:        markPrice,
		}

		if !reducedCols {
			pos.PositionAmt = amt
			pos.UpdateTime = r.UpdateTime
			if liq, err := decimal.NewFromString(r.LiquidationPrice); err == nil {
				pos.LiquidationPrice = liq
			}
			if notional, err := decimal.NewFromString(r.Notional); err == nil {
				pos.Notional = notional
			}
		}

		rows = append(rows, pos)
	}

	f.log.LogDuration("report", "positions", time.Since(start), logger.Fields{"rows": len(rows)})
	return rows, nil
}

package report

import (
	"context"
	"fmt"

	"fundingdesk/internal/exchange"
	"fundingdesk/logger"
	"fundingdesk/models"

	futures "github.com/adshao/go-binance/v2/futures"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TrailingStopParams describes a scaled trailing-stop submission. SizeUSD is
// the notional to commit; the order quantity is derived from it and the
// activation price. CallbackRate is in percent (0.1 .. 10 on the exchange).
type TrailingStopParams struct {
	Symbol          string
	Side            string
	SizeUSD         decimal.Decimal
	ActivationPrice decimal.Decimal
	CallbackRate    decimal.Decimal
	ReduceOnly      bool
}

// CreateScaledTrailingStopOrder places a TRAILING_STOP_MARKET order whose
// quantity is SizeUSD / ActivationPrice rounded to two decimals. Exchange-side
// constraints (min quantity, tick size) are not validated locally; errors
// surface directly from the API.
func (f *Facade) CreateScaledTrailingStopOrder(ctx context.Context, p TrailingStopParams) (*models.OrderReceipt, error) {
	quantity := p.SizeUSD.Div(p.ActivationPrice).Round(2)

	order := exchange.TrailingStopOrder{
		Symbol:          p.Symbol,
		Side:            futures.SideType(p.Side),
		Quantity:        quantity.String(),
		ActivationPrice: p.ActivationPrice.String(),
		CallbackRate:    p.CallbackRate.String(),
		ReduceOnly:      p.ReduceOnly,
		ClientOrderID:   uuid.NewString(),
	}

	log := f.log.WithComponent("report").WithFields(logger.Fields{
		"symbol":           p.Symbol,
		"side":             p.Side,
		"quantity":         order.Quantity,
		"activation_price": order.ActivationPrice,
		"callback_rate":    order.CallbackRate,
		"client_order_id":  order.ClientOrderID,
	})
	log.Info("placing trailing stop order")

	resp, err := f.api.CreateTrailingStopOrder(ctx, order)
	if err != nil {
		return nil, fmt.Errorf("failed to place trailing stop order: %w", err)
	}

	log.WithFields(logger.Fields{"order_id": resp.OrderID, "status": resp.Status}).Info("trailing stop order placed")

	return &models.OrderReceipt{
		OrderID:         resp.OrderID,
		ClientOrderID:   resp.ClientOrderID,
		Symbol:          resp.Symbol,
		Side:            string(resp.Side),
		Type:            string(resp.Type),
		Quantity:        quantity,
		ActivationPrice: p.ActivationPrice,
		CallbackRate:    p.CallbackRate,
		ReduceOnly:      resp.ReduceOnly,
		Status:          string(resp.Status),
	}, nil
}

// CancelAllTrailingStopOrders cancels every open TRAILING_STOP_MARKET order
// for the symbol, one cancellation per order, sequentially and best-effort:
// an individual failure is logged and skipped, never rolled back or retried.
// It returns the number of orders cancelled; listing failures propagate.
func (f *Facade) CancelAllTrailingStopOrders(ctx context.Context, symbol string) (int, error) {
	log := f.log.WithComponent("report").WithFields(logger.Fields{"symbol": symbol})

	orders, err := f.api.OpenOrders(ctx, symbol)
	if err != nil {
		return 0, fmt.Errorf("failed to list open orders: %w", err)
	}

	ids := make([]int64, 0, len(orders))
	for _, o := range orders {
		if o.Type == futures.OrderTypeTrailingStopMarket {
			ids = append(ids, o.OrderID)
		}
	}
	log.WithFields(logger.Fields{"count": len(ids)}).Info("trailing stop orders to cancel")

	cancelled := 0
	for _, id := range ids {
		if err := f.api.CancelOrder(ctx, symbol, id); err != nil {
			log.WithError(err).WithFields(logger.Fields{"order_id": id}).Warn("failed to cancel trailing stop order")
			continue
		}
		log.WithFields(logger.Fields{"order_id": id}).Info("trailing stop order cancelled")
		cancelled++
	}

	return cancelled, nil
}

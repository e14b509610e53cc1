package exchange

import (
	"context"
	"net/http"

	"fundingdesk/config"
	"fundingdesk/logger"

	futures "github.com/adshao/go-binance/v2/futures"
)

// TrailingStopOrder carries the parameters of a TRAILING_STOP_MARKET
// submission. All numeric fields are pre-formatted strings because the
// exchange API is string-typed on the wire.
type TrailingStopOrder struct {
	Symbol          string
	Side            futures.SideType
	Quantity        string
	ActivationPrice string
	CallbackRate    string
	ReduceOnly      bool
	ClientOrderID   string
}

// API is the slice of the authenticated futures REST client the report layer
// depends on. The production implementation delegates to go-binance; tests
// substitute an in-memory stub.
type API interface {
	// PremiumIndex returns the mark-price snapshot for one symbol, or for
	// every listed symbol when symbol is empty.
	PremiumIndex(ctx context.Context, symbol string) ([]*futures.PremiumIndex, error)
	ExchangeInfo(ctx context.Context) (*futures.ExchangeInfo, error)
	LeverageBrackets(ctx context.Context) ([]*futures.LeverageBracket, error)
	IncomeHistory(ctx context.Context, symbol, incomeType string, limit int64) ([]*futures.IncomeHistory, error)
	FundingRateHistory(ctx context.Context, symbol string, limit int) ([]*futures.FundingRate, error)
	// PositionRisk reads /fapi/v3/positionRisk; the v3 rows carry the
	// per-position update time.
	PositionRisk(ctx context.Context) ([]*futures.PositionRiskV3, error)
	CreateTrailingStopOrder(ctx context.Context, order TrailingStopOrder) (*futures.CreateOrderResponse, error)
	OpenOrders(ctx context.Context, symbol string) ([]*futures.Order, error)
	CancelOrder(ctx context.Context, symbol string, orderID int64) error
}

// Client is the production API implementation backed by an authenticated
// go-binance futures client against the fixed production endpoint.
type Client struct {
	fc *futures.Client
}

var _ API = (*Client)(nil)

// NewClient builds the authenticated futures client. The HTTP transport is
// tuned from config the same way as any other outbound pool in this codebase;
// signing, rate limiting and retries stay inside the SDK.
func NewClient(cfg *config.Config) *Client {
	log := logger.GetLogger()

	transport := &http.Transport{
		MaxIdleConns:        cfg.Binance.ConnectionPool.MaxIdleConns,
		MaxIdleConnsPerHost: cfg.Binance.ConnectionPool.MaxIdleConns,
		MaxConnsPerHost:     cfg.Binance.ConnectionPool.MaxConnsPerHost,
		IdleConnTimeout:     cfg.Binance.ConnectionPool.IdleConnTimeout,
	}

	fc := futures.NewClient(cfg.Binance.APIKey, cfg.Binance.APISecret)
	fc.HTTPClient = &http.Client{
		Transport: transport,
		Timeout:   cfg.Binance.Timeout,
	}

	log.WithComponent("exchange").WithFields(logger.Fields{
		"timeout":            cfg.Binance.Timeout,
		"max_idle_conns":     cfg.Binance.ConnectionPool.MaxIdleConns,
		"max_conns_per_host": cfg.Binance.ConnectionPool.MaxConnsPerHost,
	}).Info("binance futures client initialized")

	return &Client{fc: fc}
}

func (c *Client) PremiumIndex(ctx context.Context, symbol string) ([]*futures.PremiumIndex, error) {
	svc := c.fc.NewPremiumIndexService()
	if symbol != "" {
		svc = svc.Symbol(symbol)
	}
	return svc.Do(ctx)
}

func (c *Client) ExchangeInfo(ctx context.Context) (*futures.ExchangeInfo, error) {
	return c.fc.NewExchangeInfoService().Do(ctx)
}

func (c *Client) LeverageBrackets(ctx context.Context) ([]*futures.LeverageBracket, error) {
	return c.fc.NewGetLeverageBracketService().Do(ctx)
}

func (c *Client) IncomeHistory(ctx context.Context, symbol, incomeType string, limit int64) ([]*futures.IncomeHistory, error) {
	svc := c.fc.NewGetIncomeHistoryService()
	if symbol != "" {
		svc = svc.Symbol(symbol)
	}
	if incomeType != "" {
		svc = svc.IncomeType(incomeType)
	}
	if limit > 0 {
		svc = svc.Limit(limit)
	}
	return svc.Do(ctx)
}

func (c *Client) FundingRateHistory(ctx context.Context, symbol string, limit int) ([]*futures.FundingRate, error) {
	svc := c.fc.NewFundingRateService().Symbol(symbol)
	if limit > 0 {
		svc = svc.Limit(limit)
	}
	return svc.Do(ctx)
}

func (c *Client) PositionRisk(ctx context.Context) ([]*futures.PositionRiskV3, error) {
	return c.fc.NewGetPositionRiskV3Service().Do(ctx)
}

func (c *Client) CreateTrailingStopOrder(ctx context.Context, order TrailingStopOrder) (*futures.CreateOrderResponse, error) {
	svc := c.fc.NewCreateOrderService().
		Symbol(order.Symbol).
		Side(order.Side).
		Type(futures.OrderTypeTrailingStopMarket).
		Quantity(order.Quantity).
		ActivationPrice(order.ActivationPrice).
		CallbackRate(order.CallbackRate).
		ReduceOnly(order.ReduceOnly)
	if order.ClientOrderID != "" {
		svc = svc.NewClientOrderID(order.ClientOrderID)
	}
	return svc.Do(ctx)
}

func (c *Client) OpenOrders(ctx context.Context, symbol string) ([]*futures.Order, error) {
	return c.fc.NewListOpenOrdersService().Symbol(symbol).Do(ctx)
}

func (c *Client) CancelOrder(ctx context.Context, symbol string, orderID int64) error {
	_, err := c.fc.NewCancelOrderService().Symbol(symbol).OrderID(orderID).Do(ctx)
	return err
}

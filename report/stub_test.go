package report

import (
	"context"
	"testing"

	"fundingdesk/internal/exchange"

	futures "github.com/adshao/go-binance/v2/futures"
	"github.com/stretchr/testify/require"
)

// stubAPI is an in-memory exchange.API used by the façade tests. Any errField
// set takes priority over the canned data for that call.
type stubAPI struct {
	premiumIndex   []*futures.PremiumIndex
	exchangeInfo   *futures.ExchangeInfo
	brackets       []*futures.LeverageBracket
	income         []*futures.IncomeHistory
	fundingHistory []*futures.FundingRate
	positions      []*futures.PositionRiskV3
	openOrders     []*futures.Order
	createResp     *futures.CreateOrderResponse

	err error

	// call recording
	incomeSymbol     string
	incomeType       string
	incomeLimit      int64
	fundingHistLimit int
	createdOrders    []exchange.TrailingStopOrder
	cancelledIDs     []int64
	cancelErr        map[int64]error
}

var _ exchange.API = (*stubAPI)(nil)

func (s *stubAPI) PremiumIndex(ctx context.Context, symbol string) ([]*futures.PremiumIndex, error) {
	return s.premiumIndex, s.err
}

func (s *stubAPI) ExchangeInfo(ctx context.Context) (*futures.ExchangeInfo, error) {
	return s.exchangeInfo, s.err
}

func (s *stubAPI) LeverageBrackets(ctx context.Context) ([]*futures.LeverageBracket, error) {
	return s.brackets, s.err
}

func (s *stubAPI) IncomeHistory(ctx context.Context, symbol, incomeType string, limit int64) ([]*futures.IncomeHistory, error) {
	s.incomeSymbol = symbol
	s.incomeType = incomeType
	s.incomeLimit = limit
	return s.income, s.err
}

func (s *stubAPI) FundingRateHistory(ctx context.Context, symbol string, limit int) ([]*futures.FundingRate, error) {
	s.fundingHistLimit = limit
	return s.fundingHistory, s.err
}

func (s *stubAPI) PositionRisk(ctx context.Context) ([]*futures.PositionRiskV3, error) {
	return s.positions, s.err
}

func (s *stubAPI) CreateTrailingStopOrder(ctx context.Context, order exchange.TrailingStopOrder) (*futures.CreateOrderResponse, error) {
	s.createdOrders = append(s.createdOrders, order)
	if s.err != nil {
		return nil, s.err
	}
	if s.createResp != nil {
		return s.createResp, nil
	}
	return &futures.CreateOrderResponse{
		OrderID:       1,
		ClientOrderID: order.ClientOrderID,
		Symbol:        order.Symbol,
		Side:          order.Side,
		Type:          futures.OrderTypeTrailingStopMarket,
		Status:        futures.OrderStatusTypeNew,
		ReduceOnly:    order.ReduceOnly,
	}, nil
}

func (s *stubAPI) OpenOrders(ctx context.Context, symbol string) ([]*futures.Order, error) {
	return s.openOrders, s.err
}

func (s *stubAPI) CancelOrder(ctx context.Context, symbol string, orderID int64) error {
	if err, ok := s.cancelErr[orderID]; ok {
		return err
	}
	s.cancelledIDs = append(s.cancelledIDs, orderID)
	return nil
}

// newTestFacade builds a façade over the stub, failing the test if the
// report time zone is unavailable on the host.
func newTestFacade(t *testing.T, api *stubAPI) *Facade {
	t.Helper()
	f, err := New(api)
	require.NoError(t, err)
	return f
}

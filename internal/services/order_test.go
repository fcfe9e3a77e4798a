package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"github.com/CatDevelop/exchange-tochka/internal/db/models"
)

type OrderServiceTestSuite struct {
	ServiceTestSuite
}

func TestOrderService(t *testing.T) {
	suite.Run(t, new(OrderServiceTestSuite))
}

func (s *OrderServiceTestSuite) TestLimitOrderRestsOnEmptyBook() {
	buyer := s.newTrader(1000, 0)

	order := s.placeLimit(buyer.ID, models.OrderDirectionBuy, 5, 100)
	s.Equal(models.OrderStatusNew, order.Status)
	s.Zero(order.Filled)

	// The full cost is reserved
	rub := s.balanceRow(buyer.ID, models.CurrencyRUB)
	s.Equal(int64(1000), rub.Amount)
	s.Equal(int64(500), rub.Blocked)
	s.Equal(int64(500), rub.Available())
}

func (s *OrderServiceTestSuite) TestLimitOrdersCross() {
	seller := s.newTrader(0, 10)
	buyer := s.newTrader(1100, 0)

	resting := s.placeLimit(seller.ID, models.OrderDirectionSell, 10, 100)
	taker := s.placeLimit(buyer.ID, models.OrderDirectionBuy, 10, 110)

	s.Equal(models.OrderStatusExecuted, taker.Status)
	s.Equal(int64(10), taker.Filled)

	// The fill happens at the resting order's price
	sellerRUB := s.balanceRow(seller.ID, models.CurrencyRUB)
	s.Equal(int64(1000), sellerRUB.Amount)
	s.Zero(sellerRUB.Blocked)

	sellerAsset := s.balanceRow(seller.ID, testTicker)
	s.Zero(sellerAsset.Amount)
	s.Zero(sellerAsset.Blocked)

	buyerRUB := s.balanceRow(buyer.ID, models.CurrencyRUB)
	s.Equal(int64(100), buyerRUB.Amount)
	s.Zero(buyerRUB.Blocked)
	buyerAsset := s.balanceRow(buyer.ID, testTicker)
	s.Equal(int64(10), buyerAsset.Amount)

	restingAfter, err := s.order.GetOrder(s.ctx, seller.ID, resting.ID)
	s.NoError(err)
	s.Equal(models.OrderStatusExecuted, restingAfter.Status)
	s.Equal(int64(10), restingAfter.Filled)
}

func (s *OrderServiceTestSuite) TestPartialFillRests() {
	seller := s.newTrader(0, 4)
	buyer := s.newTrader(1000, 0)

	s.placeLimit(seller.ID, models.OrderDirectionSell, 4, 100)
	taker := s.placeLimit(buyer.ID, models.OrderDirectionBuy, 10, 100)

	s.Equal(models.OrderStatusPartiallyExecuted, taker.Status)
	s.Equal(int64(4), taker.Filled)

	// 400 spent on the fill, 600 reserved for the resting remainder
	buyerRUB := s.balanceRow(buyer.ID, models.CurrencyRUB)
	s.Equal(int64(600), buyerRUB.Amount)
	s.Equal(int64(600), buyerRUB.Blocked)
	s.Equal(int64(4), s.balanceRow(buyer.ID, testTicker).Amount)
}

func (s *OrderServiceTestSuite) TestBestPriceFirst() {
	cheap := s.newTrader(0, 5)
	expensive := s.newTrader(0, 5)
	buyer := s.newTrader(1000, 0)

	s.placeLimit(expensive.ID, models.OrderDirectionSell, 5, 120)
	cheapOrder := s.placeLimit(cheap.ID, models.OrderDirectionSell, 5, 90)

	taker := s.placeLimit(buyer.ID, models.OrderDirectionBuy, 5, 130)
	s.Equal(models.OrderStatusExecuted, taker.Status)

	// Matched against the cheaper ask despite its later arrival
	filled, err := s.order.GetOrder(s.ctx, cheap.ID, cheapOrder.ID)
	s.NoError(err)
	s.Equal(models.OrderStatusExecuted, filled.Status)
	s.Equal(int64(1000-5*90), s.balanceRow(buyer.ID, models.CurrencyRUB).Amount)
}

func (s *OrderServiceTestSuite) TestMarketBuy() {
	seller := s.newTrader(0, 10)
	buyer := s.newTrader(1000, 0)

	s.placeLimit(seller.ID, models.OrderDirectionSell, 10, 50)

	order, err := s.order.CreateOrder(s.ctx, CreateOrderInput{
		UserID:    buyer.ID,
		Direction: models.OrderDirectionBuy,
		Ticker:    testTicker,
		Qty:       6,
	})
	s.Require().NoError(err)
	s.Equal(models.OrderStatusExecuted, order.Status)
	s.Equal(int64(6), order.Filled)
	s.Nil(order.Price)

	s.Equal(int64(700), s.balanceRow(buyer.ID, models.CurrencyRUB).Amount)
	s.Equal(int64(6), s.balanceRow(buyer.ID, testTicker).Amount)
}

func (s *OrderServiceTestSuite) TestMarketOrderNeverRests() {
	buyer := s.newTrader(1000, 0)

	// Empty book: an unmatched market order is cancelled, nothing is blocked
	order, err := s.order.CreateOrder(s.ctx, CreateOrderInput{
		UserID:    buyer.ID,
		Direction: models.OrderDirectionBuy,
		Ticker:    testTicker,
		Qty:       3,
	})
	s.Require().NoError(err)
	s.Equal(models.OrderStatusCancelled, order.Status)
	s.Zero(order.Filled)
	s.Zero(s.balanceRow(buyer.ID, models.CurrencyRUB).Blocked)
}

func (s *OrderServiceTestSuite) TestInsufficientFundsPersistsCancelledOrder() {
	buyer := s.newTrader(100, 0)

	price := int64(100)
	order, err := s.order.CreateOrder(s.ctx, CreateOrderInput{
		UserID:    buyer.ID,
		Direction: models.OrderDirectionBuy,
		Ticker:    testTicker,
		Qty:       5,
		Price:     &price,
	})
	s.Require().ErrorIs(err, ErrInsufficientFunds)
	s.Require().NotNil(order)
	s.Equal(models.OrderStatusCancelled, order.Status)

	// The rejected order is still visible in the user's history
	stored, getErr := s.order.GetOrder(s.ctx, buyer.ID, order.ID)
	s.NoError(getErr)
	s.Equal(models.OrderStatusCancelled, stored.Status)
	s.Zero(s.balanceRow(buyer.ID, models.CurrencyRUB).Blocked)
}

func (s *OrderServiceTestSuite) TestSellWithoutAssetRejected() {
	seller := s.newTrader(0, 2)

	price := int64(100)
	order, err := s.order.CreateOrder(s.ctx, CreateOrderInput{
		UserID:    seller.ID,
		Direction: models.OrderDirectionSell,
		Ticker:    testTicker,
		Qty:       5,
		Price:     &price,
	})
	s.Require().ErrorIs(err, ErrInsufficientFunds)
	s.Equal(models.OrderStatusCancelled, order.Status)
}

func (s *OrderServiceTestSuite) TestUnknownInstrument() {
	user, err := s.user.Register(s.ctx, "trader")
	s.Require().NoError(err)

	price := int64(100)
	_, err = s.order.CreateOrder(s.ctx, CreateOrderInput{
		UserID:    user.ID,
		Direction: models.OrderDirectionBuy,
		Ticker:    "GHOST",
		Qty:       1,
		Price:     &price,
	})
	s.ErrorIs(err, ErrUnknownInstrument)
}

func (s *OrderServiceTestSuite) TestValidation() {
	buyer := s.newTrader(1000, 0)

	_, err := s.order.CreateOrder(s.ctx, CreateOrderInput{
		UserID:    buyer.ID,
		Direction: "SIDEWAYS",
		Ticker:    testTicker,
		Qty:       1,
	})
	s.Error(err)

	_, err = s.order.CreateOrder(s.ctx, CreateOrderInput{
		UserID:    buyer.ID,
		Direction: models.OrderDirectionBuy,
		Ticker:    testTicker,
		Qty:       0,
	})
	s.Error(err)

	badPrice := int64(-5)
	_, err = s.order.CreateOrder(s.ctx, CreateOrderInput{
		UserID:    buyer.ID,
		Direction: models.OrderDirectionBuy,
		Ticker:    testTicker,
		Qty:       1,
		Price:     &badPrice,
	})
	s.Error(err)
}

func (s *OrderServiceTestSuite) TestCancelReleasesReservation() {
	buyer := s.newTrader(1000, 0)
	order := s.placeLimit(buyer.ID, models.OrderDirectionBuy, 5, 100)

	cancelled, err := s.order.CancelOrder(s.ctx, buyer.ID, order.ID)
	s.Require().NoError(err)
	s.Equal(models.OrderStatusCancelled, cancelled.Status)

	rub := s.balanceRow(buyer.ID, models.CurrencyRUB)
	s.Zero(rub.Blocked)
	s.Equal(int64(1000), rub.Amount)

	// A cancelled order cannot be cancelled again
	_, err = s.order.CancelOrder(s.ctx, buyer.ID, order.ID)
	s.ErrorIs(err, ErrOrderNotOpen)
}

func (s *OrderServiceTestSuite) TestCancelPartiallyFilled() {
	seller := s.newTrader(0, 3)
	buyer := s.newTrader(1000, 0)

	s.placeLimit(seller.ID, models.OrderDirectionSell, 3, 100)
	taker := s.placeLimit(buyer.ID, models.OrderDirectionBuy, 10, 100)
	s.Equal(models.OrderStatusPartiallyExecuted, taker.Status)

	_, err := s.order.CancelOrder(s.ctx, buyer.ID, taker.ID)
	s.Require().NoError(err)

	// Only the unfilled remainder was reserved and released
	rub := s.balanceRow(buyer.ID, models.CurrencyRUB)
	s.Zero(rub.Blocked)
	s.Equal(int64(700), rub.Amount)
}

func (s *OrderServiceTestSuite) TestCancelForeignOrderHidden() {
	owner := s.newTrader(1000, 0)
	stranger := s.newTrader(1000, 0)

	order := s.placeLimit(owner.ID, models.OrderDirectionBuy, 5, 100)

	_, err := s.order.CancelOrder(s.ctx, stranger.ID, order.ID)
	s.ErrorIs(err, ErrOrderNotFound)

	_, err = s.order.GetOrder(s.ctx, stranger.ID, order.ID)
	s.ErrorIs(err, ErrOrderNotFound)
}

func (s *OrderServiceTestSuite) TestCancelMissingOrder() {
	user := s.newTrader(0, 0)
	_, err := s.order.CancelOrder(s.ctx, user.ID, uuid.New())
	s.ErrorIs(err, ErrOrderNotFound)
}

func (s *OrderServiceTestSuite) TestListOrders() {
	buyer := s.newTrader(1000, 0)
	s.placeLimit(buyer.ID, models.OrderDirectionBuy, 1, 100)
	s.placeLimit(buyer.ID, models.OrderDirectionBuy, 2, 90)

	orders, err := s.order.ListOrders(s.ctx, buyer.ID)
	s.NoError(err)
	s.Len(orders, 2)
}

func (s *OrderServiceTestSuite) TestFillRecordsTransaction() {
	seller := s.newTrader(0, 5)
	buyer := s.newTrader(1000, 0)

	resting := s.placeLimit(seller.ID, models.OrderDirectionSell, 5, 80)
	s.placeLimit(buyer.ID, models.OrderDirectionBuy, 5, 80)

	trades, err := s.marketData.GetTransactions(s.ctx, testTicker, 10)
	s.Require().NoError(err)
	s.Require().Len(trades, 1)
	s.Equal(resting.UserID, trades[0].UserID)
	s.Equal(int64(5), trades[0].Amount)
	s.Equal(int64(80), trades[0].Price)
}

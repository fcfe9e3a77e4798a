package services

import (
	"context"
	"sort"

	"github.com/CatDevelop/exchange-tochka/internal/db/models"
	"github.com/CatDevelop/exchange-tochka/internal/db/repos"
)

// PriceLevel is one aggregated level of the order book
type PriceLevel struct {
	Price int64 `json:"price"`
	Qty   int64 `json:"qty"`
}

// Orderbook holds the aggregated bid and ask levels of one instrument
type Orderbook struct {
	BidLevels []PriceLevel `json:"bid_levels"`
	AskLevels []PriceLevel `json:"ask_levels"`
}

// MarketData provides the public order book and trade history views
type MarketData struct {
	orderRepo *repos.OrderRepository
	txRepo    *repos.TransactionRepository
}

// NewMarketDataService creates a new market data service instance
func NewMarketDataService(orderRepo *repos.OrderRepository, txRepo *repos.TransactionRepository) *MarketData {
	return &MarketData{orderRepo: orderRepo, txRepo: txRepo}
}

// GetOrderbook aggregates the open limit orders of a ticker into price
// levels: bids descending, asks ascending, at most limit levels per side
func (s *MarketData) GetOrderbook(ctx context.Context, ticker string, limit int) (*Orderbook, error) {
	if limit <= 0 || limit > models.MaxListLimit {
		limit = models.DefaultListLimit
	}

	bids, err := s.levels(ctx, ticker, models.OrderDirectionBuy, limit, true)
	if err != nil {
		return nil, err
	}
	asks, err := s.levels(ctx, ticker, models.OrderDirectionSell, limit, false)
	if err != nil {
		return nil, err
	}

	return &Orderbook{BidLevels: bids, AskLevels: asks}, nil
}

func (s *MarketData) levels(ctx context.Context, ticker string, direction models.OrderDirection, limit int, descending bool) ([]PriceLevel, error) {
	orders, err := s.orderRepo.GetBookOrders(ctx, ticker, direction)
	if err != nil {
		return nil, err
	}

	byPrice := make(map[int64]int64)
	for i := range orders {
		if orders[i].Remaining() <= 0 {
			continue
		}
		byPrice[*orders[i].Price] += orders[i].Remaining()
	}

	levels := make([]PriceLevel, 0, len(byPrice))
	for price, qty := range byPrice {
		levels = append(levels, PriceLevel{Price: price, Qty: qty})
	}
	sort.Slice(levels, func(i, j int) bool {
		if descending {
			return levels[i].Price > levels[j].Price
		}
		return levels[i].Price < levels[j].Price
	})

	if len(levels) > limit {
		levels = levels[:limit]
	}
	return levels, nil
}

// GetTransactions returns the most recent trades of a ticker, newest first
func (s *MarketData) GetTransactions(ctx context.Context, ticker string, limit int) ([]models.Transaction, error) {
	return s.txRepo.GetTransactionsByTicker(ctx, ticker, limit)
}

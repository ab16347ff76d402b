package exchange

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spotarb/spot-arb/pkg/types"
	"go.uber.org/zap"
)

// kucoin talks to the KuCoin spot public REST API.
type kucoin struct {
	client *restClient
}

const (
	kucoinDefaultMakerFee = 0.001
	kucoinDefaultTakerFee = 0.001
)

func newKucoin(timeout time.Duration, logger *zap.Logger) *kucoin {
	return &kucoin{
		client: newRESTClient("https://api.kucoin.com", timeout, logger),
	}
}

func (k *kucoin) ID() types.VenueID {
	return types.VenueKucoin
}

// toNative converts "BTC/USDT" to "BTC-USDT".
func (k *kucoin) toNative(symbol string) string {
	return strings.ReplaceAll(symbol, "/", "-")
}

type kucoinSymbols struct {
	Data []struct {
		BaseCurrency   string `json:"baseCurrency"`
		QuoteCurrency  string `json:"quoteCurrency"`
		EnableTrading  bool   `json:"enableTrading"`
		BaseMinSize    string `json:"baseMinSize"`
		BaseMaxSize    string `json:"baseMaxSize"`
		MinFunds       string `json:"minFunds"`
		PriceIncrement string `json:"priceIncrement"`
		BaseIncrement  string `json:"baseIncrement"`
	} `json:"data"`
}

func (k *kucoin) LoadMarkets(ctx context.Context) (map[string]types.MarketMeta, error) {
	var resp kucoinSymbols
	err := k.client.getJSON(ctx, "/api/v2/symbols", nil, &resp)
	if err != nil {
		return nil, fmt.Errorf("symbols: %w", err)
	}

	markets := make(map[string]types.MarketMeta, len(resp.Data))
	for _, s := range resp.Data {
		symbol := s.BaseCurrency + "/" + s.QuoteCurrency
		markets[symbol] = types.MarketMeta{
			Symbol:   symbol,
			Active:   s.EnableTrading,
			Spot:     true, // the spot symbols endpoint lists spot markets only
			MakerFee: kucoinDefaultMakerFee,
			TakerFee: kucoinDefaultTakerFee,
			Limits: types.Limits{
				MinAmount: parseFloat(s.BaseMinSize),
				MaxAmount: parseFloat(s.BaseMaxSize),
				MinCost:   parseFloat(s.MinFunds),
			},
			Precision: types.Precision{
				Price:  decimalsFromStep(s.PriceIncrement),
				Amount: decimalsFromStep(s.BaseIncrement),
			},
		}
	}

	return markets, nil
}

type kucoinStats struct {
	Data struct {
		Last       string `json:"last"`
		Buy        string `json:"buy"`
		Sell       string `json:"sell"`
		Vol        string `json:"vol"`
		ChangeRate string `json:"changeRate"`
	} `json:"data"`
}

func (k *kucoin) FetchTicker(ctx context.Context, symbol string) (*types.Ticker, error) {
	params := url.Values{}
	params.Set("symbol", k.toNative(symbol))

	var resp kucoinStats
	err := k.client.getJSON(ctx, "/api/v1/market/stats", params, &resp)
	if err != nil {
		return nil, fmt.Errorf("market stats %s: %w", symbol, err)
	}

	return &types.Ticker{
		Symbol:     symbol,
		Last:       parseFloat(resp.Data.Last),
		Bid:        parseFloat(resp.Data.Buy),
		Ask:        parseFloat(resp.Data.Sell),
		BaseVolume: parseFloat(resp.Data.Vol),
		// changeRate is a fraction; normalize to a percentage
		Percentage: parseFloat(resp.Data.ChangeRate) * 100,
	}, nil
}

type kucoinOrderBook struct {
	Data struct {
		Bids [][]string `json:"bids"`
		Asks [][]string `json:"asks"`
	} `json:"data"`
}

func (k *kucoin) FetchOrderBook(ctx context.Context, symbol string, limit int) (*types.OrderBook, error) {
	params := url.Values{}
	params.Set("symbol", k.toNative(symbol))

	// KuCoin's public part-book endpoint serves fixed 20-level depth.
	var resp kucoinOrderBook
	err := k.client.getJSON(ctx, "/api/v1/market/orderbook/level2_20", params, &resp)
	if err != nil {
		return nil, fmt.Errorf("order book %s: %w", symbol, err)
	}

	book := &types.OrderBook{
		Bids: parseLevels(resp.Data.Bids),
		Asks: parseLevels(resp.Data.Asks),
	}
	trimBook(book, limit)
	return book, nil
}

package exchange

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/spotarb/spot-arb/pkg/types"
	"go.uber.org/zap"
)

// bitget talks to the Bitget spot public REST API (v2).
type bitget struct {
	client *restClient
}

const (
	bitgetDefaultMakerFee = 0.001
	bitgetDefaultTakerFee = 0.001
)

func newBitget(timeout time.Duration, logger *zap.Logger) *bitget {
	return &bitget{
		client: newRESTClient("https://api.bitget.com", timeout, logger),
	}
}

func (b *bitget) ID() types.VenueID {
	return types.VenueBitget
}

// toNative converts "BTC/USDT" to "BTCUSDT".
func (b *bitget) toNative(symbol string) string {
	return strings.ReplaceAll(symbol, "/", "")
}

type bitgetSymbols struct {
	Data []struct {
		BaseCoin          string `json:"baseCoin"`
		QuoteCoin         string `json:"quoteCoin"`
		Status            string `json:"status"`
		MakerFeeRate      string `json:"makerFeeRate"`
		TakerFeeRate      string `json:"takerFeeRate"`
		MinTradeAmount    string `json:"minTradeAmount"`
		MaxTradeAmount    string `json:"maxTradeAmount"`
		MinTradeUSDT      string `json:"minTradeUSDT"`
		PricePrecision    string `json:"pricePrecision"`
		QuantityPrecision string `json:"quantityPrecision"`
	} `json:"data"`
}

func (b *bitget) LoadMarkets(ctx context.Context) (map[string]types.MarketMeta, error) {
	var resp bitgetSymbols
	err := b.client.getJSON(ctx, "/api/v2/spot/public/symbols", nil, &resp)
	if err != nil {
		return nil, fmt.Errorf("symbols: %w", err)
	}

	markets := make(map[string]types.MarketMeta, len(resp.Data))
	for _, s := range resp.Data {
		symbol := s.BaseCoin + "/" + s.QuoteCoin

		maker := parseFloat(s.MakerFeeRate)
		if maker == 0 {
			maker = bitgetDefaultMakerFee
		}
		taker := parseFloat(s.TakerFeeRate)
		if taker == 0 {
			taker = bitgetDefaultTakerFee
		}

		markets[symbol] = types.MarketMeta{
			Symbol:   symbol,
			Active:   s.Status == "online",
			Spot:     true,
			MakerFee: maker,
			TakerFee: taker,
			Limits: types.Limits{
				MinAmount: parseFloat(s.MinTradeAmount),
				MaxAmount: parseFloat(s.MaxTradeAmount),
				MinCost:   parseFloat(s.MinTradeUSDT),
			},
			Precision: types.Precision{
				Price:  int(parseFloat(s.PricePrecision)),
				Amount: int(parseFloat(s.QuantityPrecision)),
			},
		}
	}

	return markets, nil
}

type bitgetTickers struct {
	Data []struct {
		LastPr     string `json:"lastPr"`
		BidPr      string `json:"bidPr"`
		AskPr      string `json:"askPr"`
		BaseVolume string `json:"baseVolume"`
		Change24h  string `json:"change24h"` // fraction
	} `json:"data"`
}

func (b *bitget) FetchTicker(ctx context.Context, symbol string) (*types.Ticker, error) {
	params := url.Values{}
	params.Set("symbol", b.toNative(symbol))

	var resp bitgetTickers
	err := b.client.getJSON(ctx, "/api/v2/spot/market/tickers", params, &resp)
	if err != nil {
		return nil, fmt.Errorf("ticker %s: %w", symbol, err)
	}
	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("ticker %s: empty response", symbol)
	}

	t := resp.Data[0]
	return &types.Ticker{
		Symbol:     symbol,
		Last:       parseFloat(t.LastPr),
		Bid:        parseFloat(t.BidPr),
		Ask:        parseFloat(t.AskPr),
		BaseVolume: parseFloat(t.BaseVolume),
		Percentage: parseFloat(t.Change24h) * 100,
	}, nil
}

type bitgetOrderBook struct {
	Data struct {
		Bids [][]string `json:"bids"`
		Asks [][]string `json:"asks"`
	} `json:"data"`
}

func (b *bitget) FetchOrderBook(ctx context.Context, symbol string, limit int) (*types.OrderBook, error) {
	params := url.Values{}
	params.Set("symbol", b.toNative(symbol))
	params.Set("limit", strconv.Itoa(limit))

	var resp bitgetOrderBook
	err := b.client.getJSON(ctx, "/api/v2/spot/market/orderbook", params, &resp)
	if err != nil {
		return nil, fmt.Errorf("order book %s: %w", symbol, err)
	}

	return &types.OrderBook{
		Bids: parseLevels(resp.Data.Bids),
		Asks: parseLevels(resp.Data.Asks),
	}, nil
}

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

// binance talks to the Binance spot public REST API.
type binance struct {
	client *restClient
}

// Default spot trading fees applied when the venue does not expose fee
// schedules on public endpoints.
const (
	binanceDefaultMakerFee = 0.001
	binanceDefaultTakerFee = 0.001
)

func newBinance(timeout time.Duration, logger *zap.Logger) *binance {
	return &binance{
		client: newRESTClient("https://api.binance.com", timeout, logger),
	}
}

func (b *binance) ID() types.VenueID {
	return types.VenueBinance
}

// toNative converts "BTC/USDT" to "BTCUSDT".
func (b *binance) toNative(symbol string) string {
	return strings.ReplaceAll(symbol, "/", "")
}

type binanceExchangeInfo struct {
	Symbols []struct {
		Symbol                 string `json:"symbol"`
		Status                 string `json:"status"`
		BaseAsset              string `json:"baseAsset"`
		QuoteAsset             string `json:"quoteAsset"`
		BaseAssetPrecision     int    `json:"baseAssetPrecision"`
		QuoteAssetPrecision    int    `json:"quoteAssetPrecision"`
		IsSpotTradingAllowed   bool   `json:"isSpotTradingAllowed"`
		Filters                []struct {
			FilterType  string `json:"filterType"`
			MinQty      string `json:"minQty"`
			MaxQty      string `json:"maxQty"`
			MinPrice    string `json:"minPrice"`
			MaxPrice    string `json:"maxPrice"`
			MinNotional string `json:"minNotional"`
			MaxNotional string `json:"maxNotional"`
		} `json:"filters"`
	} `json:"symbols"`
}

func (b *binance) LoadMarkets(ctx context.Context) (map[string]types.MarketMeta, error) {
	var info binanceExchangeInfo
	err := b.client.getJSON(ctx, "/api/v3/exchangeInfo", nil, &info)
	if err != nil {
		return nil, fmt.Errorf("exchange info: %w", err)
	}

	markets := make(map[string]types.MarketMeta, len(info.Symbols))
	for _, s := range info.Symbols {
		symbol := s.BaseAsset + "/" + s.QuoteAsset

		meta := types.MarketMeta{
			Symbol:   symbol,
			Active:   s.Status == "TRADING",
			Spot:     s.IsSpotTradingAllowed,
			MakerFee: binanceDefaultMakerFee,
			TakerFee: binanceDefaultTakerFee,
			Precision: types.Precision{
				Price:  s.QuoteAssetPrecision,
				Amount: s.BaseAssetPrecision,
			},
		}

		for _, f := range s.Filters {
			switch f.FilterType {
			case "LOT_SIZE":
				meta.Limits.MinAmount = parseFloat(f.MinQty)
				meta.Limits.MaxAmount = parseFloat(f.MaxQty)
			case "PRICE_FILTER":
				meta.Limits.MinPrice = parseFloat(f.MinPrice)
				meta.Limits.MaxPrice = parseFloat(f.MaxPrice)
			case "NOTIONAL", "MIN_NOTIONAL":
				if f.MinNotional != "" {
					meta.Limits.MinCost = parseFloat(f.MinNotional)
				}
				if f.MaxNotional != "" {
					meta.Limits.MaxCost = parseFloat(f.MaxNotional)
				}
			}
		}

		markets[symbol] = meta
	}

	return markets, nil
}

type binanceTicker struct {
	LastPrice          string `json:"lastPrice"`
	BidPrice           string `json:"bidPrice"`
	AskPrice           string `json:"askPrice"`
	Volume             string `json:"volume"`
	PriceChangePercent string `json:"priceChangePercent"`
}

func (b *binance) FetchTicker(ctx context.Context, symbol string) (*types.Ticker, error) {
	params := url.Values{}
	params.Set("symbol", b.toNative(symbol))

	var t binanceTicker
	err := b.client.getJSON(ctx, "/api/v3/ticker/24hr", params, &t)
	if err != nil {
		return nil, fmt.Errorf("ticker %s: %w", symbol, err)
	}

	return &types.Ticker{
		Symbol:     symbol,
		Last:       parseFloat(t.LastPrice),
		Bid:        parseFloat(t.BidPrice),
		Ask:        parseFloat(t.AskPrice),
		BaseVolume: parseFloat(t.Volume),
		Percentage: parseFloat(t.PriceChangePercent),
	}, nil
}

type binanceDepth struct {
	Bids [][]string `json:"bids"`
	Asks [][]string `json:"asks"`
}

func (b *binance) FetchOrderBook(ctx context.Context, symbol string, limit int) (*types.OrderBook, error) {
	params := url.Values{}
	params.Set("symbol", b.toNative(symbol))
	params.Set("limit", strconv.Itoa(limit))

	var d binanceDepth
	err := b.client.getJSON(ctx, "/api/v3/depth", params, &d)
	if err != nil {
		return nil, fmt.Errorf("depth %s: %w", symbol, err)
	}

	return &types.OrderBook{
		Bids: parseLevels(d.Bids),
		Asks: parseLevels(d.Asks),
	}, nil
}

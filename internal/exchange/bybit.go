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

// bybit talks to the Bybit v5 public REST API with category=spot.
type bybit struct {
	client *restClient
}

const (
	bybitDefaultMakerFee = 0.001
	bybitDefaultTakerFee = 0.001
)

func newBybit(timeout time.Duration, logger *zap.Logger) *bybit {
	return &bybit{
		client: newRESTClient("https://api.bybit.com", timeout, logger),
	}
}

func (b *bybit) ID() types.VenueID {
	return types.VenueBybit
}

// toNative converts "BTC/USDT" to "BTCUSDT".
func (b *bybit) toNative(symbol string) string {
	return strings.ReplaceAll(symbol, "/", "")
}

type bybitInstruments struct {
	Result struct {
		List []struct {
			BaseCoin      string `json:"baseCoin"`
			QuoteCoin     string `json:"quoteCoin"`
			Status        string `json:"status"`
			LotSizeFilter struct {
				BasePrecision  string `json:"basePrecision"`
				QuotePrecision string `json:"quotePrecision"`
				MinOrderQty    string `json:"minOrderQty"`
				MaxOrderQty    string `json:"maxOrderQty"`
				MinOrderAmt    string `json:"minOrderAmt"`
				MaxOrderAmt    string `json:"maxOrderAmt"`
			} `json:"lotSizeFilter"`
			PriceFilter struct {
				TickSize string `json:"tickSize"`
			} `json:"priceFilter"`
		} `json:"list"`
	} `json:"result"`
}

func (b *bybit) LoadMarkets(ctx context.Context) (map[string]types.MarketMeta, error) {
	params := url.Values{}
	params.Set("category", "spot")

	var resp bybitInstruments
	err := b.client.getJSON(ctx, "/v5/market/instruments-info", params, &resp)
	if err != nil {
		return nil, fmt.Errorf("instruments info: %w", err)
	}

	markets := make(map[string]types.MarketMeta, len(resp.Result.List))
	for _, s := range resp.Result.List {
		symbol := s.BaseCoin + "/" + s.QuoteCoin
		markets[symbol] = types.MarketMeta{
			Symbol:   symbol,
			Active:   s.Status == "Trading",
			Spot:     true,
			MakerFee: bybitDefaultMakerFee,
			TakerFee: bybitDefaultTakerFee,
			Limits: types.Limits{
				MinAmount: parseFloat(s.LotSizeFilter.MinOrderQty),
				MaxAmount: parseFloat(s.LotSizeFilter.MaxOrderQty),
				MinCost:   parseFloat(s.LotSizeFilter.MinOrderAmt),
				MaxCost:   parseFloat(s.LotSizeFilter.MaxOrderAmt),
			},
			Precision: types.Precision{
				Price:  decimalsFromStep(s.PriceFilter.TickSize),
				Amount: decimalsFromStep(s.LotSizeFilter.BasePrecision),
			},
		}
	}

	return markets, nil
}

type bybitTickers struct {
	Result struct {
		List []struct {
			LastPrice    string `json:"lastPrice"`
			Bid1Price    string `json:"bid1Price"`
			Ask1Price    string `json:"ask1Price"`
			Volume24h    string `json:"volume24h"`
			Price24hPcnt string `json:"price24hPcnt"` // fraction
		} `json:"list"`
	} `json:"result"`
}

func (b *bybit) FetchTicker(ctx context.Context, symbol string) (*types.Ticker, error) {
	params := url.Values{}
	params.Set("category", "spot")
	params.Set("symbol", b.toNative(symbol))

	var resp bybitTickers
	err := b.client.getJSON(ctx, "/v5/market/tickers", params, &resp)
	if err != nil {
		return nil, fmt.Errorf("ticker %s: %w", symbol, err)
	}
	if len(resp.Result.List) == 0 {
		return nil, fmt.Errorf("ticker %s: empty response", symbol)
	}

	t := resp.Result.List[0]
	return &types.Ticker{
		Symbol:     symbol,
		Last:       parseFloat(t.LastPrice),
		Bid:        parseFloat(t.Bid1Price),
		Ask:        parseFloat(t.Ask1Price),
		BaseVolume: parseFloat(t.Volume24h),
		Percentage: parseFloat(t.Price24hPcnt) * 100,
	}, nil
}

type bybitOrderBook struct {
	Result struct {
		Bids [][]string `json:"b"`
		Asks [][]string `json:"a"`
	} `json:"result"`
}

func (b *bybit) FetchOrderBook(ctx context.Context, symbol string, limit int) (*types.OrderBook, error) {
	params := url.Values{}
	params.Set("category", "spot")
	params.Set("symbol", b.toNative(symbol))
	params.Set("limit", strconv.Itoa(limit))

	var resp bybitOrderBook
	err := b.client.getJSON(ctx, "/v5/market/orderbook", params, &resp)
	if err != nil {
		return nil, fmt.Errorf("order book %s: %w", symbol, err)
	}

	return &types.OrderBook{
		Bids: parseLevels(resp.Result.Bids),
		Asks: parseLevels(resp.Result.Asks),
	}, nil
}

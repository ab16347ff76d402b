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

// mexc talks to the MEXC spot public REST API, which is largely
// Binance-shaped but reports fees per market and uses numeric status codes.
type mexc struct {
	client *restClient
}

const (
	mexcDefaultMakerFee = 0.0
	mexcDefaultTakerFee = 0.001
)

func newMexc(timeout time.Duration, logger *zap.Logger) *mexc {
	return &mexc{
		client: newRESTClient("https://api.mexc.com", timeout, logger),
	}
}

func (m *mexc) ID() types.VenueID {
	return types.VenueMexc
}

// toNative converts "BTC/USDT" to "BTCUSDT".
func (m *mexc) toNative(symbol string) string {
	return strings.ReplaceAll(symbol, "/", "")
}

type mexcExchangeInfo struct {
	Symbols []struct {
		BaseAsset            string `json:"baseAsset"`
		QuoteAsset           string `json:"quoteAsset"`
		Status               string `json:"status"` // "1" = trading
		IsSpotTradingAllowed bool   `json:"isSpotTradingAllowed"`
		MakerCommission      string `json:"makerCommission"`
		TakerCommission      string `json:"takerCommission"`
		BaseSizePrecision    string `json:"baseSizePrecision"`
		QuotePrecision       int    `json:"quotePrecision"`
		BaseAssetPrecision   int    `json:"baseAssetPrecision"`
		QuoteAmountPrecision string `json:"quoteAmountPrecision"` // min notional
		MaxQuoteAmount       string `json:"maxQuoteAmount"`
	} `json:"symbols"`
}

func (m *mexc) LoadMarkets(ctx context.Context) (map[string]types.MarketMeta, error) {
	var info mexcExchangeInfo
	err := m.client.getJSON(ctx, "/api/v3/exchangeInfo", nil, &info)
	if err != nil {
		return nil, fmt.Errorf("exchange info: %w", err)
	}

	markets := make(map[string]types.MarketMeta, len(info.Symbols))
	for _, s := range info.Symbols {
		symbol := s.BaseAsset + "/" + s.QuoteAsset

		maker := parseFloat(s.MakerCommission)
		taker := parseFloat(s.TakerCommission)
		if taker == 0 {
			maker, taker = mexcDefaultMakerFee, mexcDefaultTakerFee
		}

		markets[symbol] = types.MarketMeta{
			Symbol:   symbol,
			Active:   s.Status == "1" || s.Status == "ENABLED",
			Spot:     s.IsSpotTradingAllowed,
			MakerFee: maker,
			TakerFee: taker,
			Limits: types.Limits{
				MinAmount: parseFloat(s.BaseSizePrecision),
				MinCost:   parseFloat(s.QuoteAmountPrecision),
				MaxCost:   parseFloat(s.MaxQuoteAmount),
			},
			Precision: types.Precision{
				Price:  s.QuotePrecision,
				Amount: s.BaseAssetPrecision,
			},
		}
	}

	return markets, nil
}

type mexcTicker struct {
	LastPrice          string `json:"lastPrice"`
	BidPrice           string `json:"bidPrice"`
	AskPrice           string `json:"askPrice"`
	Volume             string `json:"volume"`
	PriceChangePercent string `json:"priceChangePercent"` // fraction on MEXC
}

func (m *mexc) FetchTicker(ctx context.Context, symbol string) (*types.Ticker, error) {
	params := url.Values{}
	params.Set("symbol", m.toNative(symbol))

	var t mexcTicker
	err := m.client.getJSON(ctx, "/api/v3/ticker/24hr", params, &t)
	if err != nil {
		return nil, fmt.Errorf("ticker %s: %w", symbol, err)
	}

	return &types.Ticker{
		Symbol:     symbol,
		Last:       parseFloat(t.LastPrice),
		Bid:        parseFloat(t.BidPrice),
		Ask:        parseFloat(t.AskPrice),
		BaseVolume: parseFloat(t.Volume),
		Percentage: parseFloat(t.PriceChangePercent) * 100,
	}, nil
}

type mexcDepth struct {
	Bids [][]string `json:"bids"`
	Asks [][]string `json:"asks"`
}

func (m *mexc) FetchOrderBook(ctx context.Context, symbol string, limit int) (*types.OrderBook, error) {
	params := url.Values{}
	params.Set("symbol", m.toNative(symbol))
	params.Set("limit", strconv.Itoa(limit))

	var d mexcDepth
	err := m.client.getJSON(ctx, "/api/v3/depth", params, &d)
	if err != nil {
		return nil, fmt.Errorf("depth %s: %w", symbol, err)
	}

	return &types.OrderBook{
		Bids: parseLevels(d.Bids),
		Asks: parseLevels(d.Asks),
	}, nil
}

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

// gate talks to the Gate.io spot public REST API (v4).
type gate struct {
	client *restClient
}

const (
	gateDefaultMakerFee = 0.002
	gateDefaultTakerFee = 0.002
)

func newGate(timeout time.Duration, logger *zap.Logger) *gate {
	return &gate{
		client: newRESTClient("https://api.gateio.ws/api/v4", timeout, logger),
	}
}

func (g *gate) ID() types.VenueID {
	return types.VenueGate
}

// toNative converts "BTC/USDT" to "BTC_USDT".
func (g *gate) toNative(symbol string) string {
	return strings.ReplaceAll(symbol, "/", "_")
}

type gateCurrencyPair struct {
	Base            string `json:"base"`
	Quote           string `json:"quote"`
	TradeStatus     string `json:"trade_status"`
	Fee             string `json:"fee"` // percent, e.g. "0.2"
	MinBaseAmount   string `json:"min_base_amount"`
	MaxBaseAmount   string `json:"max_base_amount"`
	MinQuoteAmount  string `json:"min_quote_amount"`
	MaxQuoteAmount  string `json:"max_quote_amount"`
	Precision       int    `json:"precision"`
	AmountPrecision int    `json:"amount_precision"`
}

func (g *gate) LoadMarkets(ctx context.Context) (map[string]types.MarketMeta, error) {
	var pairs []gateCurrencyPair
	err := g.client.getJSON(ctx, "/spot/currency_pairs", nil, &pairs)
	if err != nil {
		return nil, fmt.Errorf("currency pairs: %w", err)
	}

	markets := make(map[string]types.MarketMeta, len(pairs))
	for _, p := range pairs {
		symbol := p.Base + "/" + p.Quote

		maker, taker := gateDefaultMakerFee, gateDefaultTakerFee
		if p.Fee != "" {
			fee := parseFloat(p.Fee) / 100 // percent to fraction
			if fee > 0 {
				maker, taker = fee, fee
			}
		}

		markets[symbol] = types.MarketMeta{
			Symbol:   symbol,
			Active:   p.TradeStatus == "tradable",
			Spot:     true, // v4 spot listing covers spot markets only
			MakerFee: maker,
			TakerFee: taker,
			Limits: types.Limits{
				MinAmount: parseFloat(p.MinBaseAmount),
				MaxAmount: parseFloat(p.MaxBaseAmount),
				MinCost:   parseFloat(p.MinQuoteAmount),
				MaxCost:   parseFloat(p.MaxQuoteAmount),
			},
			Precision: types.Precision{
				Price:  p.Precision,
				Amount: p.AmountPrecision,
			},
		}
	}

	return markets, nil
}

type gateTicker struct {
	Last             string `json:"last"`
	HighestBid       string `json:"highest_bid"`
	LowestAsk        string `json:"lowest_ask"`
	BaseVolume       string `json:"base_volume"`
	ChangePercentage string `json:"change_percentage"`
}

func (g *gate) FetchTicker(ctx context.Context, symbol string) (*types.Ticker, error) {
	params := url.Values{}
	params.Set("currency_pair", g.toNative(symbol))

	var tickers []gateTicker
	err := g.client.getJSON(ctx, "/spot/tickers", params, &tickers)
	if err != nil {
		return nil, fmt.Errorf("ticker %s: %w", symbol, err)
	}
	if len(tickers) == 0 {
		return nil, fmt.Errorf("ticker %s: empty response", symbol)
	}

	t := tickers[0]
	return &types.Ticker{
		Symbol:     symbol,
		Last:       parseFloat(t.Last),
		Bid:        parseFloat(t.HighestBid),
		Ask:        parseFloat(t.LowestAsk),
		BaseVolume: parseFloat(t.BaseVolume),
		Percentage: parseFloat(t.ChangePercentage),
	}, nil
}

type gateOrderBook struct {
	Bids [][]string `json:"bids"`
	Asks [][]string `json:"asks"`
}

func (g *gate) FetchOrderBook(ctx context.Context, symbol string, limit int) (*types.OrderBook, error) {
	params := url.Values{}
	params.Set("currency_pair", g.toNative(symbol))
	params.Set("limit", strconv.Itoa(limit))

	var resp gateOrderBook
	err := g.client.getJSON(ctx, "/spot/order_book", params, &resp)
	if err != nil {
		return nil, fmt.Errorf("order book %s: %w", symbol, err)
	}

	return &types.OrderBook{
		Bids: parseLevels(resp.Bids),
		Asks: parseLevels(resp.Asks),
	}, nil
}

package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/alejandrosejas/binance-bob-usdt/internal/domain/model"
)

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// searchRequest is the P2P listing search payload. Field order and values
// mirror what the web client sends; the API rejects stripped-down bodies.
type searchRequest struct {
	Fiat                      string   `json:"fiat"`
	Page                      int      `json:"page"`
	Rows                      int      `json:"rows"`
	TradeType                 string   `json:"tradeType"`
	Asset                     string   `json:"asset"`
	Countries                 []string `json:"countries"`
	ProMerchantAds            bool     `json:"proMerchantAds"`
	ShieldMerchantAds         bool     `json:"shieldMerchantAds"`
	FilterType                string   `json:"filterType"`
	Periods                   []string `json:"periods"`
	AdditionalKycVerifyFilter int      `json:"additionalKycVerifyFilter"`
	PublisherType             string   `json:"publisherType"`
	PayTypes                  []string `json:"payTypes"`
	Classifies                []string `json:"classifies"`
	TradedWith                bool     `json:"tradedWith"`
	Followed                  bool     `json:"followed"`
}

type searchResponse struct {
	Data []struct {
		Adv struct {
			Price string `json:"price"`
		} `json:"adv"`
	} `json:"data"`
}

// BinanceClient fetches P2P listings from the Binance C2C search endpoint.
type BinanceClient struct {
	url    string
	fiat   string
	asset  string
	rows   int
	client *http.Client
	logger *slog.Logger
}

func NewBinanceClient(url, fiat, asset string, rows int, logger *slog.Logger) *BinanceClient {
	return &BinanceClient{
		url:    url,
		fiat:   fiat,
		asset:  asset,
		rows:   rows,
		client: &http.Client{Timeout: 10 * time.Second},
		logger: logger,
	}
}

func (c *BinanceClient) Name() string { return "binance-p2p" }

// FetchSamples queries the listing search for one trade direction and
// returns the listed prices in API order. Listings whose price does not
// parse are skipped.
func (c *BinanceClient) FetchSamples(ctx context.Context, direction model.Direction) ([]model.PriceSample, error) {
	payload := searchRequest{
		Fiat:          c.fiat,
		Page:          1,
		Rows:          c.rows,
		TradeType:     string(direction),
		Asset:         c.asset,
		Countries:     []string{},
		FilterType:    "all",
		Periods:       []string{},
		PublisherType: "merchant",
		PayTypes:      []string{},
		Classifies:    []string{"mass", "profession", "fiat_trade"},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, &model.UpstreamError{Direction: direction, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, &model.UpstreamError{Direction: direction, Err: err}
	}
	req.Header.Set("Accept", "*/*")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Origin", "https://p2p.binance.com")
	req.Header.Set("Referer", fmt.Sprintf("https://p2p.binance.com/en/trade/all-payments/%s?fiat=%s", c.asset, c.fiat))
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &model.UpstreamError{Direction: direction, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &model.UpstreamError{
			Direction: direction,
			Status:    resp.StatusCode,
			Err:       fmt.Errorf("unexpected status"),
		}
	}

	var parsed searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, &model.UpstreamError{Direction: direction, Err: fmt.Errorf("decode response: %w", err)}
	}
	if parsed.Data == nil {
		return nil, &model.UpstreamError{Direction: direction, Err: fmt.Errorf("response missing listing data")}
	}

	samples := make([]model.PriceSample, 0, len(parsed.Data))
	for _, item := range parsed.Data {
		price, err := decimal.NewFromString(item.Adv.Price)
		if err != nil {
			c.logger.Debug("skipping unparseable listing price", "direction", direction, "price", item.Adv.Price)
			continue
		}
		samples = append(samples, model.PriceSample{Price: price})
	}
	return samples, nil
}

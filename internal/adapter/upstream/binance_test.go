package upstream

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alejandrosejas/binance-bob-usdt/internal/domain/model"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestClient(url string) *BinanceClient {
	return NewBinanceClient(url, "BOB", "USDT", 20, testLogger())
}

func TestFetchSamplesRequestPayload(t *testing.T) {
	var got searchRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "https://p2p.binance.com", r.Header.Get("Origin"))

		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte(`{"data":[{"adv":{"price":"6.91"}}]}`))
	}))
	defer srv.Close()

	samples, err := newTestClient(srv.URL).FetchSamples(context.Background(), model.DirectionSell)
	require.NoError(t, err)
	require.Len(t, samples, 1)

	assert.Equal(t, "BOB", got.Fiat)
	assert.Equal(t, "USDT", got.Asset)
	assert.Equal(t, "SELL", got.TradeType)
	assert.Equal(t, 1, got.Page)
	assert.Equal(t, 20, got.Rows)
	assert.Equal(t, "merchant", got.PublisherType)
	assert.Equal(t, []string{"mass", "profession", "fiat_trade"}, got.Classifies)
}

func TestFetchSamplesParsesListings(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":[
			{"adv":{"price":"6.91"}},
			{"adv":{"price":"not-a-number"}},
			{"adv":{"price":"6.89"}}
		]}`))
	}))
	defer srv.Close()

	samples, err := newTestClient(srv.URL).FetchSamples(context.Background(), model.DirectionBuy)
	require.NoError(t, err)

	require.Len(t, samples, 2, "unparseable listings are skipped")
	assert.True(t, samples[0].Price.Equal(decimal.RequireFromString("6.91")))
	assert.True(t, samples[1].Price.Equal(decimal.RequireFromString("6.89")))
}

func TestFetchSamplesUpstreamStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).FetchSamples(context.Background(), model.DirectionBuy)
	require.Error(t, err)

	var upErr *model.UpstreamError
	require.ErrorAs(t, err, &upErr)
	assert.Equal(t, http.StatusTooManyRequests, upErr.Status)
	assert.Equal(t, model.DirectionBuy, upErr.Direction)
}

func TestFetchSamplesMalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data": not json`))
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).FetchSamples(context.Background(), model.DirectionSell)

	var upErr *model.UpstreamError
	require.ErrorAs(t, err, &upErr)
}

func TestFetchSamplesMissingData(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"code":"000000"}`))
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).FetchSamples(context.Background(), model.DirectionBuy)
	require.Error(t, err)
}

func TestFetchSamplesEmptyListings(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":[]}`))
	}))
	defer srv.Close()

	samples, err := newTestClient(srv.URL).FetchSamples(context.Background(), model.DirectionBuy)
	require.NoError(t, err)
	assert.Empty(t, samples)
}

package gateway

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"chartengine/internal/indicator"
	"chartengine/internal/metrics"
	"chartengine/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testMetrics = metrics.NewMetrics() // metrics register globally once

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	log := slog.Default()
	hub := NewHub(log, testMetrics)
	srv := NewServer(indicator.NewRegistry(), hub, log)
	ts := httptest.NewServer(srv.Routes())
	t.Cleanup(ts.Close)
	return ts
}

func TestHandleList(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/api/indicators")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var infos []indicatorInfo
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&infos))
	require.Len(t, infos, 7)

	byName := map[string]indicatorInfo{}
	for _, info := range infos {
		byName[info.Name] = info
	}
	assert.Equal(t, []int{12, 26, 9}, byName["MACD"].DefaultParams)
	assert.Len(t, byName["MACD"].Figures, 3)
	assert.Len(t, byName["VOL"].Figures, 3) // volume bar + 2 MAs
}

func TestHandleFigures(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/api/indicators/MA/figures?params=7,25")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var figs []model.Figure
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&figs))
	require.Len(t, figs, 2)
	assert.Equal(t, "ma7", figs[0].Key)
	assert.Equal(t, "MA25", figs[1].Title)
	assert.Equal(t, model.FigureLine, figs[0].Type)
}

func TestHandleFigures_Errors(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/api/indicators/BOLL/figures")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, err = http.Get(ts.URL + "/api/indicators/MACD/figures?params=12,26")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, err = http.Get(ts.URL + "/api/indicators/MA/figures?params=abc")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHandleCalculate(t *testing.T) {
	ts := newTestServer(t)

	candles := make([]model.Candle, 5)
	for i := range candles {
		c := float64(i + 1)
		candles[i] = model.Candle{TS: int64(i+1) * 60_000, Open: c, High: c, Low: c, Close: c}
	}
	body, err := json.Marshal(calculateRequest{Candles: candles, Params: []int{3}})
	require.NoError(t, err)

	resp, err := http.Post(ts.URL+"/api/indicators/MA/calculate", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out calculateResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	require.Len(t, out.Records, 5)
	require.Len(t, out.Figures, 1)
	assert.NotContains(t, out.Records[1], "ma3")
	assert.InDelta(t, 2.0, out.Records[2]["ma3"], 1e-9)
	assert.InDelta(t, 4.0, out.Records[4]["ma3"], 1e-9)
}

func TestHandleCalculate_EmptySeries(t *testing.T) {
	ts := newTestServer(t)

	body := []byte(`{"candles":[],"params":[5]}`)
	resp, err := http.Post(ts.URL+"/api/indicators/MA/calculate", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out calculateResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Empty(t, out.Records)
}

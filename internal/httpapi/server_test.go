package httpapi_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/katalvlaran/molnet/internal/config"
	"github.com/katalvlaran/molnet/internal/httpapi"
	"github.com/katalvlaran/molnet/internal/metrics"
	"github.com/katalvlaran/molnet/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const pairBody = `{"matrix": [
	[1, 0.9, 0.1, 0.1, 0.1],
	[0.9, 1, 0.1, 0.1, 0.1],
	[0.1, 0.1, 1, 0.1, 0.1],
	[0.1, 0.1, 0.1, 1, 0.1],
	[0.1, 0.1, 0.1, 0.1, 1]
]%s}`

func newServer(t *testing.T, withStore bool) (http.Handler, *config.Config) {
	t.Helper()
	cfg := config.Default()
	cfg.Network.Iterations = 50
	var runs httpapi.RunStore
	if withStore {
		s, err := store.Open(store.MemoryPath)
		require.NoError(t, err)
		t.Cleanup(func() { s.Close() })
		runs = s
	}
	return httpapi.New(cfg, runs, metrics.NewCollector("molnet"), nil).Handler(), cfg
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

type created struct {
	ID      string `json:"id"`
	Network struct {
		Isolated   []int   `json:"isolated"`
		Components [][]int `json:"components"`
		Nodes      []struct {
			ID       int  `json:"id"`
			Isolated bool `json:"isolated"`
		} `json:"nodes"`
	} `json:"network"`
}

func TestHealthz(t *testing.T) {
	h, _ := newServer(t, false)
	rec := do(t, h, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestCreateNetwork(t *testing.T) {
	h, _ := newServer(t, false)
	rec := do(t, h, http.MethodPost, "/v1/networks", strings.Replace(pairBody, "%s", "", 1))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var got created
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Empty(t, got.ID)
	assert.Equal(t, []int{2, 3, 4}, got.Network.Isolated)
	assert.Equal(t, [][]int{{0, 1}, {2}, {3}, {4}}, got.Network.Components)
	assert.Len(t, got.Network.Nodes, 5)
}

func TestCreateNetwork_SaveAndLoad(t *testing.T) {
	h, _ := newServer(t, true)
	rec := do(t, h, http.MethodPost, "/v1/networks", strings.Replace(pairBody, "%s", `, "save": true, "top_k": 3`, 1))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var got created
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.NotEmpty(t, got.ID)
	assert.Equal(t, "/v1/networks/"+got.ID, rec.Header().Get("Location"))

	rec = do(t, h, http.MethodGet, "/v1/networks/"+got.ID, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var run store.Run
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &run))
	assert.Equal(t, got.ID, run.ID)
	assert.Equal(t, 3, run.Params.TopK)
	assert.Equal(t, []int{2, 3, 4}, run.Isolated())

	rec = do(t, h, http.MethodGet, "/v1/networks", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var list []store.Summary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list, 1)
	assert.Equal(t, 5, list[0].Nodes)

	rec = do(t, h, http.MethodDelete, "/v1/networks/"+got.ID, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodGet, "/v1/networks/"+got.ID, "").Code)
	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodDelete, "/v1/networks/"+got.ID, "").Code)
}

func TestCreateNetwork_BadRequests(t *testing.T) {
	h, _ := newServer(t, false)
	cases := map[string]struct {
		body string
		code int
	}{
		"broken json":   {`{"matrix": [[1]`, http.StatusBadRequest},
		"unknown field": {`{"matrix": [[1]], "k": 3}`, http.StatusBadRequest},
		"missing":       {`{}`, http.StatusBadRequest},
		"negative k":    {`{"matrix": [[1]], "top_k": -1}`, http.StatusBadRequest},
		"negative r":    {`{"matrix": [[1]], "radii": [-2]}`, http.StatusBadRequest},
		"ragged":        {`{"matrix": [[1, 0], [0]]}`, http.StatusBadRequest},
		"asymmetric":    {`{"matrix": [[1, 0.9], [0.2, 1]]}`, http.StatusUnprocessableEntity},
		"non-square":    {`{"matrix": [[1, 0.9]]}`, http.StatusUnprocessableEntity},
		"radii length":  {`{"matrix": [[1, 0.9], [0.9, 1]], "radii": [1, 2, 3]}`, http.StatusUnprocessableEntity},
	}
	for name, tc := range cases {
		rec := do(t, h, http.MethodPost, "/v1/networks", tc.body)
		assert.Equal(t, tc.code, rec.Code, "%s: %s", name, rec.Body.String())
		assert.Contains(t, rec.Body.String(), `"error"`, name)
	}
}

func TestCreateNetwork_TooManyNodes(t *testing.T) {
	cfg := config.Default()
	cfg.Server.MaxNodes = 2
	h := httpapi.New(cfg, nil, nil, nil).Handler()

	rec := do(t, h, http.MethodPost, "/v1/networks", `{"matrix": [[1,0,0],[0,1,0],[0,0,1]]}`)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestRuns_WithoutStore(t *testing.T) {
	h, _ := newServer(t, false)
	assert.Equal(t, http.StatusNotImplemented, do(t, h, http.MethodGet, "/v1/networks", "").Code)
	assert.Equal(t, http.StatusNotImplemented, do(t, h, http.MethodGet, "/v1/networks/x", "").Code)
	assert.Equal(t, http.StatusNotImplemented, do(t, h, http.MethodDelete, "/v1/networks/x", "").Code)
	rec := do(t, h, http.MethodPost, "/v1/networks", strings.Replace(pairBody, "%s", `, "save": true`, 1))
	assert.Equal(t, http.StatusNotImplemented, rec.Code)
}

func TestGetRun_NotFound(t *testing.T) {
	h, _ := newServer(t, true)
	rec := do(t, h, http.MethodGet, "/v1/networks/3f2504e0-4f89-11d3-9a0c-0305e82c3301", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = do(t, h, http.MethodGet, "/v1/networks?limit=x", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestNeighbors(t *testing.T) {
	h, _ := newServer(t, false)
	body := `{"matrix": [[1, 0.9, 0.8], [0.9, 1, 0.7], [0.8, 0.7, 1]], "row": 0, "top_k": 1}`
	rec := do(t, h, http.MethodPost, "/v1/neighbors", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.JSONEq(t, `[{"index":1,"score":0.9}]`, rec.Body.String())

	body = `{"matrix": [[1, 0.9], [0.9, 1]], "row": 5}`
	assert.Equal(t, http.StatusUnprocessableEntity, do(t, h, http.MethodPost, "/v1/neighbors", body).Code)
}

func TestMetricsEndpoint(t *testing.T) {
	h, _ := newServer(t, false)
	do(t, h, http.MethodPost, "/v1/networks", strings.Replace(pairBody, "%s", "", 1))

	rec := do(t, h, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `molnet_runs_total{outcome="ok"} 1`)
	assert.Contains(t, rec.Body.String(), "molnet_http_requests_total")
}

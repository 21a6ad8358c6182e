package http

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rupamthxt/vectrasmoke/internal/metrics"
	"github.com/rupamthxt/vectrasmoke/internal/store"
)

type testApp struct {
	app     *fiber.App
	store   *store.Store
	metrics *metrics.Server
}

func newTestApp(t *testing.T, dim int) *testApp {
	t.Helper()
	reg := prometheus.NewRegistry()
	s := store.New(dim)
	m := metrics.NewServer(reg)
	return &testApp{app: NewApp(NewHandler(s, m), reg, false), store: s, metrics: m}
}

func (ta *testApp) do(t *testing.T, method, path, body string) (int, string) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := ta.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(b)
}

func TestInsert(t *testing.T) {
	ta := newTestApp(t, 0)

	code, body := ta.do(t, http.MethodPost, "/insert", `{"id":"doc_0","vector":[0.1,0.2]}`)
	assert.Equal(t, http.StatusCreated, code, body)
	assert.Equal(t, 1, ta.store.Len())
	assert.Equal(t, 1.0, testutil.ToFloat64(ta.metrics.InsertRequests))
	assert.Equal(t, 1.0, testutil.ToFloat64(ta.metrics.TotalVectors))
}

func TestInsert_badRequests(t *testing.T) {
	ta := newTestApp(t, 2)
	tests := []struct {
		name string
		body string
	}{
		{"bad json", `{"id":`},
		{"missing id", `{"vector":[1,2]}`},
		{"empty vector", `{"id":"a","vector":[]}`},
		{"wrong dimension", `{"id":"a","vector":[1,2,3]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, body := ta.do(t, http.MethodPost, "/insert", tt.body)
			assert.Equal(t, http.StatusBadRequest, code, body)
		})
	}
	assert.Zero(t, ta.store.Len())
}

func TestSearch(t *testing.T) {
	ta := newTestApp(t, 0)
	ta.do(t, http.MethodPost, "/insert", `{"id":"doc_0","vector":[0,0]}`)
	ta.do(t, http.MethodPost, "/insert", `{"id":"doc_1","vector":[1,1]}`)
	ta.do(t, http.MethodPost, "/insert", `{"id":"doc_2","vector":[5,5]}`)

	code, body := ta.do(t, http.MethodPost, "/search", `{"vector":[1,1],"k":2}`)
	require.Equal(t, http.StatusOK, code, body)

	var resp SearchResponse
	require.NoError(t, json.Unmarshal([]byte(body), &resp))
	require.Len(t, resp.Results, 2)
	assert.Equal(t, "doc_1", resp.Results[0].ID)
	assert.Zero(t, resp.Results[0].Distance)
	assert.Equal(t, "doc_0", resp.Results[1].ID)
	assert.Equal(t, 2, resp.Count)
	assert.NotEmpty(t, resp.Latency)
}

func TestSearch_defaultsKToOne(t *testing.T) {
	ta := newTestApp(t, 0)
	ta.do(t, http.MethodPost, "/insert", `{"id":"a","vector":[0]}`)
	ta.do(t, http.MethodPost, "/insert", `{"id":"b","vector":[1]}`)

	code, body := ta.do(t, http.MethodPost, "/search", `{"vector":[0]}`)
	require.Equal(t, http.StatusOK, code, body)

	var resp SearchResponse
	require.NoError(t, json.Unmarshal([]byte(body), &resp))
	assert.Equal(t, 1, resp.Count)
}

func TestSearch_hugeKReturnsWholeStore(t *testing.T) {
	ta := newTestApp(t, 0)
	ta.do(t, http.MethodPost, "/insert", `{"id":"a","vector":[0]}`)
	ta.do(t, http.MethodPost, "/insert", `{"id":"b","vector":[3]}`)

	code, body := ta.do(t, http.MethodPost, "/search", `{"vector":[0],"k":9223372036854775807}`)
	require.Equal(t, http.StatusOK, code, body)

	var resp SearchResponse
	require.NoError(t, json.Unmarshal([]byte(body), &resp))
	assert.Equal(t, ta.store.Len(), resp.Count)
	assert.Equal(t, "a", resp.Results[0].ID)
}

func TestRecoverMiddleware(t *testing.T) {
	ta := newTestApp(t, 0)
	ta.app.Get("/boom", func(*fiber.Ctx) error { panic("boom") })

	code, _ := ta.do(t, http.MethodGet, "/boom", "")
	assert.Equal(t, http.StatusInternalServerError, code)
}

func TestSearch_badRequests(t *testing.T) {
	ta := newTestApp(t, 2)

	code, _ := ta.do(t, http.MethodPost, "/search", `nope`)
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = ta.do(t, http.MethodPost, "/search", `{"k":3}`)
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = ta.do(t, http.MethodPost, "/search", `{"vector":[1,2,3],"k":3}`)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestRoot_isNotFound(t *testing.T) {
	ta := newTestApp(t, 0)
	code, _ := ta.do(t, http.MethodGet, "/", "")
	assert.Equal(t, http.StatusNotFound, code)
}

func TestMetricsEndpoint(t *testing.T) {
	ta := newTestApp(t, 0)
	ta.do(t, http.MethodPost, "/insert", `{"id":"a","vector":[0]}`)

	code, body := ta.do(t, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, "vectrasmoke_server_insert_requests_total 1")
}

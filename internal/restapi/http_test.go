package restapi

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"serviceanalyst.onebusaway.org/internal/app"
	"serviceanalyst.onebusaway.org/internal/appconf"
	"serviceanalyst.onebusaway.org/internal/feed"
	"serviceanalyst.onebusaway.org/internal/logging"
	"serviceanalyst.onebusaway.org/internal/metrics"
	"serviceanalyst.onebusaway.org/internal/models"
	"serviceanalyst.onebusaway.org/internal/schedule"
)

// createTestApi creates a RestAPI over the sample feed, without rate limiting.
func createTestApi(t *testing.T) *RestAPI {
	t.Helper()
	f, err := feed.Open(context.Background(), filepath.Join("..", "..", "testdata", "sample"), feed.Options{})
	require.NoError(t, err)

	collector := metrics.NewCollector()
	application := &app.Application{
		Config: app.Config{
			Env:     appconf.Test,
			ApiKeys: []string{"TEST"},
		},
		Engine:  schedule.NewEngine(f, schedule.WithMetrics(collector)),
		Metrics: collector,
	}

	return &RestAPI{Application: application}
}

func testServer(t *testing.T, api *RestAPI) *httptest.Server {
	t.Helper()
	router := httprouter.New()
	api.SetRoutes(router)
	server := httptest.NewServer(api.Handler(router))
	t.Cleanup(server.Close)
	return server
}

// serveAndRetrieveEndpoint sets up a test server, makes a request to the specified endpoint, and returns the response
// and decoded model.
func serveAndRetrieveEndpoint(t *testing.T, endpoint string) (*RestAPI, *http.Response, models.ResponseModel) {
	api := createTestApi(t)
	resp, model := serveApiAndRetrieveEndpoint(t, api, endpoint)
	return api, resp, model
}

func serveApiAndRetrieveEndpoint(t *testing.T, api *RestAPI, endpoint string) (*http.Response, models.ResponseModel) {
	server := testServer(t, api)
	resp, err := http.Get(server.URL + endpoint)
	require.NoError(t, err)
	defer logging.SafeCloseWithLogging(resp.Body,
		slog.Default().With(slog.String("component", "test")),
		"http_response_body")

	var response models.ResponseModel
	err = json.NewDecoder(resp.Body).Decode(&response)
	require.NoError(t, err)

	return resp, response
}

func dataOf(t *testing.T, model models.ResponseModel) map[string]interface{} {
	t.Helper()
	data, ok := model.Data.(map[string]interface{})
	require.True(t, ok, "data should be an object")
	return data
}

func listOf(t *testing.T, model models.ResponseModel) []interface{} {
	t.Helper()
	list, ok := dataOf(t, model)["list"].([]interface{})
	require.True(t, ok, "data.list should be an array")
	return list
}

func TestCompressionMiddleware(t *testing.T) {
	testHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(strings.Repeat(`{"test": "data"}`, 1000)))
	})

	t.Run("compresses response when gzip accepted", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/test", nil)
		req.Header.Set("Accept-Encoding", "gzip")
		recorder := httptest.NewRecorder()

		CompressionMiddleware(testHandler).ServeHTTP(recorder, req)

		assert.Equal(t, http.StatusOK, recorder.Code)
		assert.Equal(t, "gzip", recorder.Header().Get("Content-Encoding"))

		reader, err := gzip.NewReader(bytes.NewReader(recorder.Body.Bytes()))
		require.NoError(t, err)
		defer func() { _ = reader.Close() }()

		decompressed, err := io.ReadAll(reader)
		require.NoError(t, err)

		expected := strings.Repeat(`{"test": "data"}`, 1000)
		assert.Equal(t, expected, string(decompressed))
		assert.Less(t, recorder.Body.Len(), len(expected))
	})

	t.Run("does not compress when gzip not accepted", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/test", nil)
		recorder := httptest.NewRecorder()

		CompressionMiddleware(testHandler).ServeHTTP(recorder, req)

		assert.Equal(t, http.StatusOK, recorder.Code)
		assert.Empty(t, recorder.Header().Get("Content-Encoding"))
		assert.Equal(t, strings.Repeat(`{"test": "data"}`, 1000), recorder.Body.String())
	})

	t.Run("handles empty responses", func(t *testing.T) {
		emptyHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		})

		req := httptest.NewRequest("GET", "/test", nil)
		req.Header.Set("Accept-Encoding", "gzip")
		recorder := httptest.NewRecorder()

		CompressionMiddleware(emptyHandler).ServeHTTP(recorder, req)

		assert.Equal(t, http.StatusNoContent, recorder.Code)
		assert.Empty(t, recorder.Body.String())
	})
}

func TestCompressionConfigFrom(t *testing.T) {
	t.Run("zero values fall back to defaults", func(t *testing.T) {
		assert.Equal(t, DefaultCompressionConfig(), compressionConfigFrom(appconf.CompressionConfig{}))
	})

	t.Run("file values override defaults", func(t *testing.T) {
		config := compressionConfigFrom(appconf.CompressionConfig{MinSize: 2048, Level: 9})
		assert.Equal(t, CompressionConfig{MinSize: 2048, Level: 9}, config)
	})
}

func TestAPIResponsesAreCompressed(t *testing.T) {
	api := createTestApi(t)
	server := testServer(t, api)

	req, err := http.NewRequest("GET", server.URL+"/api/schedule/20240103/line-stops.json?key=TEST", nil)
	require.NoError(t, err)
	req.Header.Set("Accept-Encoding", "gzip")

	// Setting Accept-Encoding explicitly disables the transport's transparent decompression.
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	require.Equal(t, "gzip", resp.Header.Get("Content-Encoding"))

	reader, err := gzip.NewReader(resp.Body)
	require.NoError(t, err)
	defer func() { _ = reader.Close() }()
	body, err := io.ReadAll(reader)
	require.NoError(t, err)
	assert.Contains(t, string(body), `"code":200`)
}

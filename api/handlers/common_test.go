// Common test helpers
package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/meghashyamc/hotelfinder/config"
	"github.com/meghashyamc/hotelfinder/db/kvdb"
	"github.com/meghashyamc/hotelfinder/db/searchdb"
	"github.com/meghashyamc/hotelfinder/logger"
	"github.com/meghashyamc/hotelfinder/metrics"
	"github.com/meghashyamc/hotelfinder/mq"
	"github.com/meghashyamc/hotelfinder/services/catalog"
	"github.com/meghashyamc/hotelfinder/services/index"
	"github.com/meghashyamc/hotelfinder/services/listener"
	"github.com/meghashyamc/hotelfinder/services/search"
	"github.com/meghashyamc/hotelfinder/validation"
	"github.com/stretchr/testify/require"
)

var defaultTestRequestHeaders = map[string]string{"Content-Type": "application/json"}

type testCase struct {
	name             string
	requestHeaders   map[string]string
	requestBody      map[string]any
	queryParams      map[string]string
	expectedStatus   int
	expectedResponse map[string]any
}

type testServer struct {
	router   *gin.Engine
	catalog  *catalog.Service
	searchDB *searchdb.BleveDB
}

// inlinePublisher applies change events as soon as they are published so that tests
// observe the index right after a catalog write.
type inlinePublisher struct {
	listener *listener.Listener
}

func (p *inlinePublisher) Publish(ctx context.Context, event mq.Event) error {
	return p.listener.Handle(ctx, event)
}

func newTestLogger() logger.Logger {

	opts := &slog.HandlerOptions{
		Level:     slog.LevelDebug,
		AddSource: true,
	}
	handler := slog.NewJSONHandler(os.Stderr, opts)
	return slog.New(handler)
}

func setupTestServer(t *testing.T, assert *require.Assertions) *testServer {

	t.Setenv("ENV", "test")
	t.Setenv("CATALOG_PATH", filepath.Join(t.TempDir(), "catalog.db"))
	t.Setenv("INDEX_PATH", "")

	cfg, err := config.Load("")
	assert.NoError(err, "could not load config")

	testLogger := newTestLogger()
	testMetrics := metrics.NewSearchMetrics(cfg.GetServiceName())

	searchDB, err := searchdb.New(testLogger, cfg)
	assert.NoError(err, "could not create search database")

	kvDB, err := kvdb.New(testLogger, cfg.GetCatalogPath())
	assert.NoError(err, "could not create kv database")

	validator, err := validation.New(testLogger)
	assert.NoError(err, "could not create validator")

	publisher := &inlinePublisher{}
	catalogService := catalog.New(testLogger, kvDB, publisher)
	publisher.listener = listener.New(testLogger, catalogService, searchDB, testMetrics, cfg.GetListenerWorkers())

	ctx, cancel := context.WithCancel(context.Background())
	indexService := index.New(ctx, testLogger, searchDB, catalogService, kvDB)

	searchService := search.New(testLogger, searchDB, testMetrics, search.Options{
		BoostWeight:    cfg.GetBoostWeight(),
		FacetSize:      cfg.GetFacetSize(),
		SuggestionSize: cfg.GetSuggestionSize(),
	})

	gin.SetMode(gin.TestMode)
	router := gin.New()

	SetupHotel(router, testLogger, searchService, validator, PageLimits{
		DefaultSize: cfg.GetDefaultPageSize(),
		MaxSize:     cfg.GetMaxPageSize(),
	})
	SetupCatalog(router, testLogger, catalogService, indexService, validator)

	t.Cleanup(func() {
		cancel()
		assert.NoError(searchDB.Close(), "could not close search database")
		assert.NoError(kvDB.Close(), "could not close kv database")
	})

	return &testServer{router: router, catalog: catalogService, searchDB: searchDB}
}

// seedHotels stores the test hotels through the admin endpoint.
func seedHotels(server *testServer, assert *require.Assertions) {
	for _, hotel := range testHotels {
		w := makeTestHTTPRequest(server.router, assert, http.MethodPost, "/catalog/hotels", defaultTestRequestHeaders, hotel, nil)
		assert.Equal(http.StatusOK, w.Code, fmt.Sprintf("could not seed hotel %v: %s", hotel["id"], w.Body.String()))
	}
}

func makeTestHTTPRequest(router *gin.Engine, assert *require.Assertions, method string, endpoint string, headers map[string]string, requestBodyMap map[string]interface{}, queryParams map[string]string) *httptest.ResponseRecorder {

	var err error
	w := httptest.NewRecorder()

	if len(queryParams) > 0 {
		endpoint = endpoint + "?"
		for key, value := range queryParams {
			if endpoint[len(endpoint)-1] != '?' {
				endpoint = endpoint + "&"
			}
			endpoint = endpoint + key + "=" + value
		}
	}
	var jsonBody []byte
	var req *http.Request
	if requestBodyMap != nil {
		jsonBody, err = json.Marshal(requestBodyMap)
		assert.NoError(err)
	}

	slog.Info("Making test request", "method", method, "endpoint", endpoint, "headers", headers, "body", string(jsonBody))

	if len(jsonBody) > 0 {
		req, err = http.NewRequest(method, endpoint, bytes.NewBuffer(jsonBody))
	} else {
		req, err = http.NewRequest(method, endpoint, nil)
	}
	assert.NoError(err)

	for key, value := range headers {
		req.Header.Set(key, value)
	}
	router.ServeHTTP(w, req)

	return w
}

// assertResponseSubset checks that every key in expected is present in actual with an equal
// value, recursing into nested objects.
func assertResponseSubset(assert *require.Assertions, expected map[string]any, actual map[string]any) {
	for key, expectedValue := range expected {
		actualValue, exists := actual[key]
		assert.True(exists, fmt.Sprintf("expected field %s not found", key))

		expectedMap, isMap := expectedValue.(map[string]any)
		if isMap {
			actualMap, ok := actualValue.(map[string]any)
			assert.True(ok, fmt.Sprintf("field %s should be an object", key))
			assertResponseSubset(assert, expectedMap, actualMap)
			continue
		}
		assert.Equal(expectedValue, actualValue, fmt.Sprintf("field %s mismatch", key))
	}
}

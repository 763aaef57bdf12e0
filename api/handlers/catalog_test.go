package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/meghashyamc/hotelfinder/services/index"
	"github.com/meghashyamc/hotelfinder/services/search"
	"github.com/stretchr/testify/require"
)

var saveHotelHandlerTestCases = []testCase{
	{
		name:           "NoRequestBody",
		requestHeaders: defaultTestRequestHeaders,
		requestBody:    nil,
		expectedStatus: http.StatusUnprocessableEntity,
	},
	{
		name:           "MissingName",
		requestHeaders: defaultTestRequestHeaders,
		requestBody:    map[string]any{"city": "Shanghai"},
		expectedStatus: http.StatusNotAcceptable,
	},
	{
		name:           "MissingCity",
		requestHeaders: defaultTestRequestHeaders,
		requestBody:    map[string]any{"name": "Nameless Inn"},
		expectedStatus: http.StatusNotAcceptable,
	},
	{
		name:           "LatitudeOutOfRange",
		requestHeaders: defaultTestRequestHeaders,
		requestBody:    map[string]any{"name": "Polar Inn", "city": "Nowhere", "latitude": 95},
		expectedStatus: http.StatusNotAcceptable,
	},
	{
		name:           "NegativePrice",
		requestHeaders: defaultTestRequestHeaders,
		requestBody:    map[string]any{"name": "Free Inn", "city": "Shanghai", "price": -1},
		expectedStatus: http.StatusNotAcceptable,
	},
	{
		name:           "Success",
		requestHeaders: defaultTestRequestHeaders,
		requestBody:    map[string]any{"id": "40001", "name": "Harbor Inn", "city": "Qingdao", "brand": "Hanting", "price": 99},
		expectedStatus: http.StatusOK,
		expectedResponse: map[string]any{
			"data": map[string]any{
				"id":    "40001",
				"name":  "Harbor Inn",
				"city":  "Qingdao",
				"price": float64(99),
			},
		},
	},
}

func TestHandleSaveHotel(t *testing.T) {
	assert := require.New(t)
	server := setupTestServer(t, assert)

	for _, testCase := range saveHotelHandlerTestCases {
		t.Run(testCase.name, func(t *testing.T) {
			assert := require.New(t)
			w := makeTestHTTPRequest(server.router, assert, http.MethodPost, "/catalog/hotels", testCase.requestHeaders, testCase.requestBody, testCase.queryParams)
			responseBytes := w.Body.Bytes()
			assert.Equal(testCase.expectedStatus, w.Code, fmt.Sprintf("response gotten was %s", string(responseBytes)))

			if testCase.expectedResponse != nil {
				var responseMap map[string]any
				err := json.Unmarshal(responseBytes, &responseMap)
				assert.NoError(err)
				assertResponseSubset(assert, testCase.expectedResponse, responseMap)
			}
		})
	}

	count, err := server.searchDB.GetDocCount()
	assert.NoError(err)
	assert.Equal(uint64(1), count, "only the valid hotel should reach the index")
}

func TestHandleSaveHotelAssignsID(t *testing.T) {
	assert := require.New(t)
	server := setupTestServer(t, assert)

	requestBody := map[string]any{"name": "Fresh Inn", "city": "Suzhou"}
	w := makeTestHTTPRequest(server.router, assert, http.MethodPost, "/catalog/hotels", defaultTestRequestHeaders, requestBody, nil)
	assert.Equal(http.StatusOK, w.Code, w.Body.String())

	var saveResponse struct {
		Data map[string]any `json:"data"`
	}
	assert.NoError(json.Unmarshal(w.Body.Bytes(), &saveResponse))
	id, ok := saveResponse.Data["id"].(string)
	assert.True(ok)
	_, err := uuid.Parse(id)
	assert.NoError(err, "generated hotel id should be a uuid")

	w = makeTestHTTPRequest(server.router, assert, http.MethodGet, "/catalog/hotels/"+id, nil, nil, nil)
	assert.Equal(http.StatusOK, w.Code, w.Body.String())
}

func TestHandleHotelLifecycle(t *testing.T) {
	assert := require.New(t)
	server := setupTestServer(t, assert)
	seedHotels(server, assert)

	w := makeTestHTTPRequest(server.router, assert, http.MethodGet, "/catalog/hotels/38812", nil, nil, nil)
	assert.Equal(http.StatusOK, w.Code, w.Body.String())
	assert.Contains(w.Body.String(), "Sanlitun Hotel")

	w = makeTestHTTPRequest(server.router, assert, http.MethodGet, "/catalog/hotels/unknown", nil, nil, nil)
	assert.Equal(http.StatusNotFound, w.Code, w.Body.String())

	// Update moves the hotel to another city
	updated := map[string]any{}
	for key, value := range testHotels[3] {
		updated[key] = value
	}
	updated["city"] = "Tianjin"
	w = makeTestHTTPRequest(server.router, assert, http.MethodPost, "/catalog/hotels", defaultTestRequestHeaders, updated, nil)
	assert.Equal(http.StatusOK, w.Code, w.Body.String())

	w = makeTestHTTPRequest(server.router, assert, http.MethodPost, "/hotel/list", defaultTestRequestHeaders, map[string]any{"city": "Tianjin"}, nil)
	assert.Equal(http.StatusOK, w.Code, w.Body.String())
	assert.Contains(w.Body.String(), "38812")

	w = makeTestHTTPRequest(server.router, assert, http.MethodDelete, "/catalog/hotels/38812", nil, nil, nil)
	assert.Equal(http.StatusNoContent, w.Code, w.Body.String())

	w = makeTestHTTPRequest(server.router, assert, http.MethodDelete, "/catalog/hotels/38812", nil, nil, nil)
	assert.Equal(http.StatusNoContent, w.Code, "deleting twice should succeed")

	w = makeTestHTTPRequest(server.router, assert, http.MethodGet, "/catalog/hotels/38812", nil, nil, nil)
	assert.Equal(http.StatusNotFound, w.Code, w.Body.String())

	w = makeTestHTTPRequest(server.router, assert, http.MethodPost, "/hotel/list", defaultTestRequestHeaders, map[string]any{}, nil)
	assert.Equal(http.StatusOK, w.Code, w.Body.String())
	assert.NotContains(w.Body.String(), "38812")
}

func TestHandleReindex(t *testing.T) {
	assert := require.New(t)
	server := setupTestServer(t, assert)
	seedHotels(server, assert)
	ctx := context.Background()

	// Drift the index away from the catalog: one record missing, one stale document
	assert.NoError(server.searchDB.Delete(ctx, "36934"))
	assert.NoError(server.searchDB.Upsert(ctx, "stale", search.Document{Name: "Ghost Hotel", City: "Shanghai"}))

	w := makeTestHTTPRequest(server.router, assert, http.MethodPost, "/catalog/reindex", nil, nil, nil)
	assert.Equal(http.StatusAccepted, w.Code, w.Body.String())

	var reindexResponse struct {
		Data ReindexResponse `json:"data"`
	}
	assert.NoError(json.Unmarshal(w.Body.Bytes(), &reindexResponse))
	_, err := uuid.Parse(reindexResponse.Data.ID)
	assert.NoError(err, "got an error parsing gotten request id into UUID")

	assertReindexCompletes(assert, server, reindexResponse.Data.ID)

	ids, err := server.searchDB.DocumentIDs(ctx)
	assert.NoError(err)
	assert.ElementsMatch([]string{"36934", "38609", "38665", "38812", "39106"}, ids)

	w = makeTestHTTPRequest(server.router, assert, http.MethodGet, "/catalog/reindex/"+uuid.NewString(), nil, nil, nil)
	assert.Equal(http.StatusNotFound, w.Code, w.Body.String())
}

func assertReindexCompletes(assert *require.Assertions, server *testServer, requestID string) {

	maxWaitForReindex := 10 * time.Second

	for startTime := time.Now().UTC(); time.Since(startTime) < maxWaitForReindex; time.Sleep(100 * time.Millisecond) {
		w := makeTestHTTPRequest(server.router, assert, http.MethodGet, "/catalog/reindex/"+requestID, nil, nil, nil)
		assert.Equal(http.StatusOK, w.Code, w.Body.String())

		var statusResponse struct {
			Data ReindexResponse `json:"data"`
		}
		assert.NoError(json.Unmarshal(w.Body.Bytes(), &statusResponse))
		assert.NotEqual(index.ProgressStatusFailed, statusResponse.Data.Progress, "reindex failed")
		if statusResponse.Data.Progress == index.ProgressStatusComplete {
			return
		}
	}
	assert.Fail("timed out waiting for reindex: ", requestID)
}

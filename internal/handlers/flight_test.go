package handlers_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ibrahimkabore/MISTRAL-VOYAGE/internal/config"
	"github.com/ibrahimkabore/MISTRAL-VOYAGE/internal/handlers"
	"github.com/ibrahimkabore/MISTRAL-VOYAGE/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFlightRouter(t *testing.T, upstream http.HandlerFunc) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	server := httptest.NewServer(upstream)
	t.Cleanup(server.Close)

	amadeus := service.NewAmadeusClient(config.AmadeusConfig{
		BaseURL:      server.URL,
		ClientID:     "id",
		ClientSecret: "secret",
	})
	h := handlers.NewFlightHandler(amadeus)

	r := gin.New()
	r.GET("/flights/search", h.SearchFlights)
	r.GET("/flights/airports", h.SearchAirports)
	return r
}

func TestSearchFlightsPassesOffersThrough(t *testing.T) {
	r := newFlightRouter(t, func(w http.ResponseWriter, req *http.Request) {
		if req.URL.Path == "/v1/security/oauth2/token" {
			fmt.Fprint(w, `{"access_token":"test-token","expires_in":1799}`)
			return
		}
		fmt.Fprint(w, `{"data":[{"id":"1","type":"flight-offer"}]}`)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet,
		"/flights/search?origin=abj&destination=cdg&departure_date=2025-04-15", nil))

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"ABJ"`)
	assert.Contains(t, w.Body.String(), `"CDG"`)
	assert.Contains(t, w.Body.String(), "flight-offer")
}

func TestSearchFlightsMissingParams(t *testing.T) {
	r := newFlightRouter(t, func(w http.ResponseWriter, req *http.Request) {
		t.Error("upstream must not be called for an invalid query")
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/flights/search?origin=abj", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSearchFlightsUpstreamFailure(t *testing.T) {
	r := newFlightRouter(t, func(w http.ResponseWriter, req *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet,
		"/flights/search?origin=abj&destination=cdg&departure_date=2025-04-15", nil))
	assert.Equal(t, http.StatusBadGateway, w.Code)
}

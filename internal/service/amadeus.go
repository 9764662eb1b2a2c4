package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/ibrahimkabore/MISTRAL-VOYAGE/internal/config"
	"github.com/ibrahimkabore/MISTRAL-VOYAGE/internal/models"
)

// AmadeusClient is a thin client over the Amadeus self-service API:
// OAuth2 client-credentials token with expiry caching, flight-offers
// search and airport lookup.
type AmadeusClient struct {
	baseURL      string
	clientID     string
	clientSecret string
	httpClient   *http.Client

	mu          sync.Mutex
	token       string
	tokenExpiry time.Time
}

type amadeusTokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}

func NewAmadeusClient(cfg config.AmadeusConfig) *AmadeusClient {
	return &AmadeusClient{
		baseURL:      cfg.BaseURL,
		clientID:     cfg.ClientID,
		clientSecret: cfg.ClientSecret,
		httpClient:   &http.Client{Timeout: 30 * time.Second},
	}
}

// accessToken returns a cached token, refreshing it when less than 30
// seconds of lifetime remain.
func (c *AmadeusClient) accessToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.token != "" && time.Now().Before(c.tokenExpiry.Add(-30*time.Second)) {
		return c.token, nil
	}

	form := url.Values{}
	form.Set("grant_type", "client_credentials")
	form.Set("client_id", c.clientID)
	form.Set("client_secret", c.clientSecret)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/v1/security/oauth2/token", strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to request amadeus token: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("amadeus token request returned status %d: %s", resp.StatusCode, body)
	}

	var tokenResp amadeusTokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tokenResp); err != nil {
		return "", fmt.Errorf("failed to decode amadeus token response: %w", err)
	}

	c.token = tokenResp.AccessToken
	c.tokenExpiry = time.Now().Add(time.Duration(tokenResp.ExpiresIn) * time.Second)
	return c.token, nil
}

// SearchFlightOffers proxies the flight-offers search and returns the
// upstream payload untouched.
func (c *AmadeusClient) SearchFlightOffers(ctx context.Context, req models.FlightSearchRequest) (json.RawMessage, error) {
	params := url.Values{}
	params.Set("originLocationCode", strings.ToUpper(req.Origin))
	params.Set("destinationLocationCode", strings.ToUpper(req.Destination))
	params.Set("departureDate", req.DepartureDate)
	if req.ReturnDate != "" {
		params.Set("returnDate", req.ReturnDate)
	}
	adults := req.Adults
	if adults == 0 {
		adults = 1
	}
	params.Set("adults", strconv.Itoa(adults))
	if req.TravelClass != "" {
		params.Set("travelClass", req.TravelClass)
	}
	if req.Currency != "" {
		params.Set("currencyCode", strings.ToUpper(req.Currency))
	}

	return c.get(ctx, "/v2/shopping/flight-offers?"+params.Encode())
}

// LookupAirports searches airports and cities by keyword.
func (c *AmadeusClient) LookupAirports(ctx context.Context, keyword string) (json.RawMessage, error) {
	params := url.Values{}
	params.Set("subType", "AIRPORT,CITY")
	params.Set("keyword", keyword)

	return c.get(ctx, "/v1/reference-data/locations?"+params.Encode())
}

func (c *AmadeusClient) get(ctx context.Context, path string) (json.RawMessage, error) {
	token, err := c.accessToken(ctx)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("amadeus request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read amadeus response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("amadeus request returned status %d: %s", resp.StatusCode, body)
	}

	return json.RawMessage(body), nil
}

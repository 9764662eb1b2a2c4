package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// GeoService backfills country, city and currency on a user record from
// the client IP. Lookups are best-effort: a failure never blocks the
// calling flow.
type GeoService struct {
	baseURL    string
	httpClient *http.Client
}

type GeoInfo struct {
	Country     string
	City        string
	CountryCode string
	Currency    string
}

type geoAPIResponse struct {
	Status      string `json:"status"`
	Country     string `json:"country"`
	CountryCode string `json:"countryCode"`
	City        string `json:"city"`
}

func NewGeoService(baseURL string) *GeoService {
	return &GeoService{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 5 * time.Second},
	}
}

// Lookup resolves an IP address to country/city/currency. Pass an empty
// IP to let the upstream detect the caller's address.
func (g *GeoService) Lookup(ctx context.Context, ip string) (*GeoInfo, error) {
	url := fmt.Sprintf("%s/json/%s", g.baseURL, ip)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("geolocation lookup failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("geolocation lookup returned status %d", resp.StatusCode)
	}

	var data geoAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("failed to decode geolocation response: %w", err)
	}

	if data.Status != "success" {
		return nil, fmt.Errorf("geolocation lookup failed for ip %q", ip)
	}

	return &GeoInfo{
		Country:     data.Country,
		City:        data.City,
		CountryCode: data.CountryCode,
		Currency:    CurrencyForCountry(data.CountryCode),
	}, nil
}

// countryCurrencies maps ISO 3166-1 alpha-2 country codes to currency
// codes.
var countryCurrencies = map[string]string{
	"US": "USD",
	"CA": "CAD",
	"GB": "GBP",
	"FR": "EUR",
	"DE": "EUR",
	"IT": "EUR",
	"ES": "EUR",
	"JP": "JPY",
	"CN": "CNY",
	"AU": "AUD",
	"CH": "CHF",
	"RU": "RUB",
	"BR": "BRL",
	"IN": "INR",
	"ZA": "ZAR",
	"MX": "MXN",
	"SG": "SGD",
	"HK": "HKD",
	"SE": "SEK",
	"NO": "NOK",
	"DK": "DKK",
	"CI": "XOF",
	"SN": "XOF",
	"BF": "XOF",
	"MA": "MAD",
}

// CurrencyForCountry returns the currency code for a two-letter country
// code, or an empty string when unknown.
func CurrencyForCountry(countryCode string) string {
	return countryCurrencies[countryCode]
}

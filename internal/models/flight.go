package models

import "encoding/json"

// FlightSearchRequest mirrors the query parameters of the flight-offers
// search endpoint. Dates use the YYYY-MM-DD format expected upstream.
type FlightSearchRequest struct {
	Origin        string `form:"origin" binding:"required,len=3"`
	Destination   string `form:"destination" binding:"required,len=3"`
	DepartureDate string `form:"departure_date" binding:"required"`
	ReturnDate    string `form:"return_date" binding:"omitempty"`
	Adults        int    `form:"adults" binding:"omitempty,min=1,max=9"`
	TravelClass   string `form:"travel_class" binding:"omitempty,oneof=ECONOMY PREMIUM_ECONOMY BUSINESS FIRST"`
	Currency      string `form:"currency" binding:"omitempty,len=3"`
}

type AirportSearchRequest struct {
	Keyword string `form:"keyword" binding:"required,min=2"`
}

// FlightSearchResponse passes the upstream offers through untouched;
// the backend is a thin proxy over the flight API.
type FlightSearchResponse struct {
	Origin      string          `json:"origin"`
	Destination string          `json:"destination"`
	Offers      json.RawMessage `json:"flight_offers"`
}

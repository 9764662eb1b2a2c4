package handlers

import (
	"log"
	"net/http"
	"strings"

	"github.com/ibrahimkabore/MISTRAL-VOYAGE/internal/models"
	"github.com/ibrahimkabore/MISTRAL-VOYAGE/internal/service"

	"github.com/gin-gonic/gin"
)

// FlightHandler is thin data access over the flight API: it validates
// the query, forwards it and passes the upstream payload through.
type FlightHandler struct {
	amadeus *service.AmadeusClient
}

func NewFlightHandler(amadeus *service.AmadeusClient) *FlightHandler {
	return &FlightHandler{amadeus: amadeus}
}

func (h *FlightHandler) SearchFlights(c *gin.Context) {
	var req models.FlightSearchRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	offers, err := h.amadeus.SearchFlightOffers(c.Request.Context(), req)
	if err != nil {
		log.Printf("SearchFlights: upstream search failed: %v", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Flight search is temporarily unavailable"})
		return
	}

	c.JSON(http.StatusOK, models.FlightSearchResponse{
		Origin:      strings.ToUpper(req.Origin),
		Destination: strings.ToUpper(req.Destination),
		Offers:      offers,
	})
}

func (h *FlightHandler) SearchAirports(c *gin.Context) {
	var req models.AirportSearchRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	locations, err := h.amadeus.LookupAirports(c.Request.Context(), req.Keyword)
	if err != nil {
		log.Printf("SearchAirports: upstream lookup failed: %v", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Airport lookup is temporarily unavailable"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"locations": locations})
}

package main

import (
	"fmt"
	"log"

	"github.com/ibrahimkabore/MISTRAL-VOYAGE/internal/config"
	"github.com/ibrahimkabore/MISTRAL-VOYAGE/internal/database"
	"github.com/ibrahimkabore/MISTRAL-VOYAGE/internal/handlers"
	"github.com/ibrahimkabore/MISTRAL-VOYAGE/internal/middleware"
	"github.com/ibrahimkabore/MISTRAL-VOYAGE/internal/otp"
	"github.com/ibrahimkabore/MISTRAL-VOYAGE/internal/routes"
	"github.com/ibrahimkabore/MISTRAL-VOYAGE/internal/service"

	"github.com/gin-gonic/gin"
)

func main() {
	// Load YAML configuration
	if err := config.LoadConfig(); err != nil {
		log.Printf("Warning: Failed to load YAML config: %v", err)
		log.Println("Using default configuration...")
	}
	cfg := config.GetConfig()

	// Initialize database
	db, err := database.InitDB()
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	// Run migrations
	if err := database.RunMigrations(db); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	// Initialize Gin router
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.UserExtractionMiddleware())
	r.Use(middleware.CustomLoggingMiddleware())

	// Collaborators
	emailService := service.NewEmailServiceFromConfig(cfg)
	otpStore := otp.NewStore(db, cfg.OTPValidityWindow())

	var geoService *service.GeoService
	if cfg.Geo.Enabled {
		geoService = service.NewGeoService(cfg.Geo.BaseURL)
	}

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(db, otpStore, emailService, geoService)

	var flightHandler *handlers.FlightHandler
	if cfg.Amadeus.Enabled {
		flightHandler = handlers.NewFlightHandler(service.NewAmadeusClient(cfg.Amadeus))
	}

	// Setup routes
	routes.SetupRoutes(r, authHandler, flightHandler)

	// Start server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	log.Printf("Starting server on %s", addr)
	if err := r.Run(addr); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}

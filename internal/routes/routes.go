package routes

import (
	"github.com/ibrahimkabore/MISTRAL-VOYAGE/internal/handlers"
	"github.com/ibrahimkabore/MISTRAL-VOYAGE/internal/middleware"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(r *gin.Engine, authHandler *handlers.AuthHandler, flightHandler *handlers.FlightHandler) {
	// API v1
	v1 := r.Group("/api/v1")

	// Auth routes
	auth := v1.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/verify-email", authHandler.VerifyEmail)
		auth.POST("/login/initiate", authHandler.LoginInitiate)
		auth.POST("/login/complete", authHandler.LoginComplete)
		auth.POST("/password/reset/request", authHandler.RequestPasswordReset)
		auth.POST("/password/reset/complete", authHandler.CompletePasswordReset)
		auth.POST("/resend-otp", authHandler.ResendOTP)
		auth.POST("/token/refresh", authHandler.RefreshToken)

		auth.GET("/profile", middleware.AuthRequired(), authHandler.GetProfile)
		auth.POST("/logout", middleware.AuthRequired(), authHandler.Logout)
	}

	// Flight routes (require authentication)
	if flightHandler != nil {
		flights := v1.Group("/flights")
		flights.Use(middleware.AuthRequired())
		{
			flights.GET("/search", flightHandler.SearchFlights)
			flights.GET("/airports", flightHandler.SearchAirports)
		}
	}
}

package handler

import (
	"github.com/kqmdigital/mortgage-calculator-sub000/internal/middleware"
	"github.com/labstack/echo/v4"
)

// RegisterRoutes sets up all API routes
func RegisterRoutes(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, rateLimiter *middleware.RateLimiter, authHandler *AuthHandler, calculatorHandler *CalculatorHandler, packageHandler *PackageHandler, bankHandler *BankHandler, refRateHandler *ReferenceRateHandler, reportHandler *ReportHandler, wsHandler *WebSocketHandler) {
	// API version 1
	api := e.Group("/api/v1")
	api.Use(authMiddleware.Authenticate())
	api.Use(middleware.RateLimitMiddleware(rateLimiter))

	// Auth routes
	auth := api.Group("/auth")
	auth.POST("/callback", authHandler.Callback)
	auth.GET("/me", authHandler.Me)
	auth.POST("/logout", authHandler.Logout)
	api.PUT("/profile", authHandler.UpdateProfile)

	// Calculator routes
	calculators := api.Group("/calculators")
	calculators.POST("/repayment", calculatorHandler.CalculateRepayment)
	calculators.POST("/refinance", calculatorHandler.CalculateRefinance)
	calculators.POST("/progressive", calculatorHandler.CalculateProgressive)
	calculators.POST("/affordability", calculatorHandler.CalculateAffordability)

	// Rate package routes; mutations are admin-only
	packages := api.Group("/packages")
	packages.GET("", packageHandler.GetPackages)
	packages.GET("/:id", packageHandler.GetPackage)
	packages.POST("/recommend", packageHandler.Recommend)
	packages.POST("/compare", packageHandler.Compare)
	packages.POST("", packageHandler.CreatePackage, authMiddleware.RequireAdmin())
	packages.PUT("/:id", packageHandler.UpdatePackage, authMiddleware.RequireAdmin())
	packages.DELETE("/:id", packageHandler.DeletePackage, authMiddleware.RequireAdmin())

	// Bank routes; mutations are admin-only
	banks := api.Group("/banks")
	banks.GET("", bankHandler.GetBanks)
	banks.GET("/:id", bankHandler.GetBank)
	banks.POST("", bankHandler.CreateBank, authMiddleware.RequireAdmin())
	banks.PUT("/:id", bankHandler.UpdateBank, authMiddleware.RequireAdmin())
	banks.DELETE("/:id", bankHandler.DeleteBank, authMiddleware.RequireAdmin())
	banks.POST("/:id/logo", bankHandler.UploadLogo, authMiddleware.RequireAdmin())

	// Reference rate routes; updates are admin-only
	refRates := api.Group("/reference-rates")
	refRates.GET("", refRateHandler.GetRates)
	refRates.PUT("", refRateHandler.UpdateRate, authMiddleware.RequireAdmin())

	// Report routes
	reports := api.Group("/reports")
	reports.POST("/repayment", reportHandler.GenerateRepaymentReport)
	reports.POST("/progressive", reportHandler.GenerateProgressiveReport)
	reports.GET("", reportHandler.GetReports)
	reports.GET("/:id/url", reportHandler.GetDownloadURL)

	// WebSocket endpoint authenticates via query token, not the middleware
	e.GET("/ws", wsHandler.HandleWS)
}

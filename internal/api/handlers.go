package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"market-dashboard-api/internal/logger"
	"market-dashboard-api/internal/middleware"
	"market-dashboard-api/internal/models"
	"market-dashboard-api/internal/ratelimit"
	"market-dashboard-api/internal/service"
	"market-dashboard-api/internal/store"
)

// HandlerConfig wires the handlers' dependencies
type HandlerConfig struct {
	Logger            *logger.Logger
	Store             store.Store
	MarketService     *service.MarketService
	ConversionService *service.ConversionService
	RateLimiter       *ratelimit.Limiter
}

// Handlers contains all HTTP handlers
type Handlers struct {
	logger            *logger.Logger
	store             store.Store
	marketService     *service.MarketService
	conversionService *service.ConversionService
	rateLimiter       *ratelimit.Limiter
	startTime         time.Time
}

// NewHandlers creates a new handlers instance
func NewHandlers(handlerConfig HandlerConfig) *Handlers {
	return &Handlers{
		logger:            handlerConfig.Logger,
		store:             handlerConfig.Store,
		marketService:     handlerConfig.MarketService,
		conversionService: handlerConfig.ConversionService,
		rateLimiter:       handlerConfig.RateLimiter,
		startTime:         time.Now(),
	}
}

// SetupRoutes configures all the routes using Gin
func (handlers *Handlers) SetupRoutes() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	router.Use(middleware.RequestLogger(handlers.logger))
	router.Use(gin.Recovery())
	router.Use(middleware.SecurityHeaders())
	router.Use(middleware.RequestID())
	router.Use(handlers.corsMiddleware())

	if handlers.rateLimiter != nil {
		router.Use(handlers.rateLimitMiddleware())
	}

	apiGroup := router.Group("/api")
	{
		apiGroup.GET("/health", handlers.HealthCheck)

		apiGroup.GET("/currencies", handlers.GetCurrencies)
		apiGroup.GET("/forex", handlers.GetForex)
		apiGroup.GET("/crypto", handlers.GetCrypto)
		apiGroup.GET("/exchanges", handlers.GetExchanges)

		apiGroup.POST("/convert", handlers.Convert)
		apiGroup.GET("/conversions", handlers.GetConversions)

		apiGroup.GET("/market-stats", handlers.GetMarketStats)
		apiGroup.GET("/market-data/:currencyId", handlers.GetMarketData)
	}

	return router
}

// HealthCheck reports service and database health
func (handlers *Handlers) HealthCheck(context *gin.Context) {
	requestContext := context.Request.Context()

	healthStatus := "healthy"
	databaseStatus := "connected"
	if pingError := handlers.store.Ping(requestContext); pingError != nil {
		healthStatus = "unhealthy"
		databaseStatus = "disconnected"
		handlers.logger.Warnf("Database health check failed: %v", pingError)
	}

	healthCheckResponse := models.HealthCheck{
		Status:    healthStatus,
		Timestamp: time.Now(),
		Version:   "1.0.0",
		Uptime:    time.Since(handlers.startTime).String(),
		Database:  databaseStatus,
	}

	// Health uses the same envelope as every other endpoint.
	if healthStatus != "healthy" {
		context.JSON(http.StatusServiceUnavailable, models.APIResponse{
			Success: false,
			Data:    healthCheckResponse,
			Error:   "database unavailable",
		})
		return
	}
	handlers.writeDataResponse(context, healthCheckResponse)
}

// GetCurrencies returns stored currencies, optionally filtered by type
func (handlers *Handlers) GetCurrencies(context *gin.Context) {
	requestContext := context.Request.Context()
	currencyType := context.Query("type")

	var (
		currencies []store.Currency
		fetchError error
	)
	switch currencyType {
	case "":
		currencies, fetchError = handlers.store.GetAllCurrencies(requestContext)
	case store.CurrencyTypeForex, store.CurrencyTypeCrypto:
		currencies, fetchError = handlers.store.GetCurrenciesByType(requestContext, currencyType)
	default:
		handlers.writeErrorResponse(context, http.StatusBadRequest, "invalid currency type")
		return
	}
	if fetchError != nil {
		handlers.logger.Errorf("Failed to fetch currencies: %v", fetchError)
		handlers.writeErrorResponse(context, http.StatusInternalServerError, "failed to fetch currencies")
		return
	}

	handlers.writeDataResponse(context, currencies)
}

// GetForex syncs and returns the forex pairs
func (handlers *Handlers) GetForex(context *gin.Context) {
	requestContext := context.Request.Context()

	quotes, syncError := handlers.marketService.SyncForex(requestContext)
	if syncError != nil {
		handlers.writeServiceError(context, syncError, "failed to fetch forex data")
		return
	}

	handlers.writeDataResponse(context, quotes)
}

// GetCrypto syncs and returns the top coins
func (handlers *Handlers) GetCrypto(context *gin.Context) {
	requestContext := context.Request.Context()

	quotes, syncError := handlers.marketService.SyncCrypto(requestContext)
	if syncError != nil {
		handlers.writeServiceError(context, syncError, "failed to fetch crypto data")
		return
	}

	handlers.writeDataResponse(context, quotes)
}

// GetExchanges syncs and returns the exchange listings
func (handlers *Handlers) GetExchanges(context *gin.Context) {
	requestContext := context.Request.Context()

	listings, syncError := handlers.marketService.SyncExchanges(requestContext)
	if syncError != nil {
		handlers.writeServiceError(context, syncError, "failed to fetch exchange data")
		return
	}

	handlers.writeDataResponse(context, listings)
}

// Convert performs a currency conversion and records it
func (handlers *Handlers) Convert(context *gin.Context) {
	var convertRequest models.ConvertRequest
	if bindError := context.ShouldBindJSON(&convertRequest); bindError != nil {
		handlers.writeErrorResponse(context, http.StatusBadRequest, "invalid conversion parameters")
		return
	}

	requestContext := context.Request.Context()
	result, convertError := handlers.conversionService.Convert(requestContext, convertRequest)
	if convertError != nil {
		handlers.writeServiceError(context, convertError, "conversion failed")
		return
	}

	handlers.writeDataResponse(context, result)
}

// GetConversions returns conversion history, per user when userId is given
func (handlers *Handlers) GetConversions(context *gin.Context) {
	requestContext := context.Request.Context()

	if userIDString := context.Query("userId"); userIDString != "" {
		userID, parseError := strconv.ParseUint(userIDString, 10, 32)
		if parseError != nil {
			handlers.writeErrorResponse(context, http.StatusBadRequest, "userId must be a number")
			return
		}

		conversions, fetchError := handlers.conversionService.UserConversions(requestContext, uint(userID))
		if fetchError != nil {
			handlers.writeServiceError(context, fetchError, "failed to fetch conversions")
			return
		}
		handlers.writeDataResponse(context, conversions)
		return
	}

	limit := 10
	if limitString := context.Query("limit"); limitString != "" {
		parsedLimit, parseError := strconv.Atoi(limitString)
		if parseError != nil || parsedLimit < 1 {
			handlers.writeErrorResponse(context, http.StatusBadRequest, "limit must be a positive number")
			return
		}
		limit = parsedLimit
	}

	conversions, fetchError := handlers.conversionService.RecentConversions(requestContext, limit)
	if fetchError != nil {
		handlers.writeServiceError(context, fetchError, "failed to fetch conversions")
		return
	}
	handlers.writeDataResponse(context, conversions)
}

// GetMarketStats returns the aggregated dashboard statistics
func (handlers *Handlers) GetMarketStats(context *gin.Context) {
	requestContext := context.Request.Context()

	stats, statsError := handlers.marketService.MarketStats(requestContext)
	if statsError != nil {
		handlers.writeServiceError(context, statsError, "failed to fetch market stats")
		return
	}

	handlers.writeDataResponse(context, stats)
}

// GetMarketData returns a currency's stored time-series samples
func (handlers *Handlers) GetMarketData(context *gin.Context) {
	currencyIDString := context.Param("currencyId")
	currencyID, parseError := strconv.ParseUint(currencyIDString, 10, 32)
	if parseError != nil {
		handlers.writeErrorResponse(context, http.StatusBadRequest, "currencyId must be a number")
		return
	}

	hoursWindow := 24
	if hoursString := context.Query("hours"); hoursString != "" {
		parsedHours, hoursError := strconv.Atoi(hoursString)
		if hoursError != nil || parsedHours < 1 {
			handlers.writeErrorResponse(context, http.StatusBadRequest, "hours must be a positive number")
			return
		}
		hoursWindow = parsedHours
	}

	requestContext := context.Request.Context()
	points, fetchError := handlers.marketService.MarketHistory(requestContext, uint(currencyID), hoursWindow)
	if fetchError != nil {
		handlers.writeServiceError(context, fetchError, "failed to fetch market data")
		return
	}

	handlers.writeDataResponse(context, points)
}

// writeDataResponse writes the success envelope
func (handlers *Handlers) writeDataResponse(context *gin.Context, data interface{}) {
	context.JSON(http.StatusOK, models.APIResponse{
		Success: true,
		Data:    data,
	})
}

// writeErrorResponse writes the error envelope
func (handlers *Handlers) writeErrorResponse(context *gin.Context, statusCode int, errorMessage string) {
	context.JSON(statusCode, models.APIResponse{
		Success: false,
		Error:   errorMessage,
	})
}

// writeServiceError maps a service failure onto an HTTP response. Client
// faults keep their message; provider and store failures become a generic
// 500 that does not echo the upstream or database cause to the caller.
func (handlers *Handlers) writeServiceError(context *gin.Context, err error, genericMessage string) {
	var serviceError *service.ServiceError
	if errors.As(err, &serviceError) && serviceError.IsClientError() {
		handlers.writeErrorResponse(context, http.StatusBadRequest, serviceError.Message)
		return
	}

	handlers.logger.Errorf("%s: %v", genericMessage, err)
	handlers.writeErrorResponse(context, http.StatusInternalServerError, genericMessage)
}

// corsMiddleware adds CORS headers using Gin middleware
func (handlers *Handlers) corsMiddleware() gin.HandlerFunc {
	return func(context *gin.Context) {
		context.Header("Access-Control-Allow-Origin", "*")
		context.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		context.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if context.Request.Method == "OPTIONS" {
			context.AbortWithStatus(http.StatusOK)
			return
		}

		context.Next()
	}
}

// rateLimitMiddleware provides rate limiting using Gin middleware
func (handlers *Handlers) rateLimitMiddleware() gin.HandlerFunc {
	return func(context *gin.Context) {
		clientIP := handlers.rateLimiter.GetClientIP(context.Request)

		if !handlers.rateLimiter.Allow(clientIP) {
			handlers.logger.Warnf("Rate limit exceeded for IP: %s", clientIP)
			context.Header("X-RateLimit-Limit", strconv.Itoa(handlers.rateLimiter.Configuration.RateLimitRequests))
			context.Header("X-RateLimit-Remaining", "0")
			context.Header("X-RateLimit-Reset", strconv.FormatInt(time.Now().Add(handlers.rateLimiter.Configuration.RateLimitWindow).Unix(), 10))
			context.JSON(http.StatusTooManyRequests, models.APIResponse{Success: false, Error: "rate limit exceeded"})
			context.Abort()
			return
		}

		context.Next()
	}
}

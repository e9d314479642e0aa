package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/sterlingfx/currency_converter_app/internal/apperrors"
	portssvc "github.com/sterlingfx/currency_converter_app/internal/core/ports/services"
	"github.com/sterlingfx/currency_converter_app/internal/dto"
	"github.com/sterlingfx/currency_converter_app/internal/middleware"
)

// conversionsTotal counts completed conversions per currency pair. Label
// cardinality is bounded by the ISO code universe.
var conversionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "currency_conversions_total",
		Help: "Completed currency conversions by currency pair.",
	},
	[]string{"source_currency", "destination_currency"},
)

// conversionHandler handles HTTP requests for conversions and cross-rates.
type conversionHandler struct {
	conversionService portssvc.ConversionSvcFacade
}

// newConversionHandler creates a new conversionHandler.
func newConversionHandler(cs portssvc.ConversionSvcFacade) *conversionHandler {
	return &conversionHandler{
		conversionService: cs,
	}
}

// registerConversionRoutes registers the conversion and cross-rate routes.
func registerConversionRoutes(rg *gin.RouterGroup, conversionService portssvc.ConversionSvcFacade) {
	h := newConversionHandler(conversionService)

	rg.POST("/convert", h.convert)
	rg.GET("/rates/:source/:destination", h.getRate)
}

// convert godoc
// @Summary Convert an amount between two currencies
// @Description Converts an amount from the source currency to the destination currency using the currently valid rates. The applied rate is rounded to 7 decimal places before the multiplication and the result is rounded to the destination currency's precision.
// @Tags conversion
// @Accept  json
// @Produce  json
// @Param   conversion body dto.ConvertRequest true "Conversion details"
// @Success 200 {object} dto.ConvertResponse
// @Failure 400 {object} map[string]string "Invalid input or negative amount"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Source or destination currency not found"
// @Failure 500 {object} map[string]string "Failed to convert"
// @Security BearerAuth
// @Router /convert [post]
func (h *conversionHandler) convert(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.ConvertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for Convert", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	logger = logger.With(
		slog.String("source_currency", req.SourceCurrencyCode),
		slog.String("destination_currency", req.DestinationCurrencyCode),
	)
	logger.Info("Received request to convert", slog.String("amount", req.Amount.String()))

	result, err := h.conversionService.Convert(c.Request.Context(), req.SourceCurrencyCode, req.DestinationCurrencyCode, *req.Amount)
	if err != nil {
		var notFound *apperrors.CurrencyNotFoundError
		if errors.As(err, &notFound) {
			logger.Warn("Currency not found for conversion", slog.String("error", err.Error()))
			c.JSON(http.StatusNotFound, gin.H{"error": notFound.Error()})
		} else if errors.Is(err, apperrors.ErrValidation) {
			logger.Warn("Validation error converting", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to convert in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to convert"})
		}
		return
	}

	conversionsTotal.WithLabelValues(result.SourceCurrencyCode, result.DestinationCurrencyCode).Inc()
	logger.Info("Conversion completed",
		slog.String("rate", result.ExchangeRate.String()),
		slog.String("destination_amount", result.DestinationAmount.String()),
	)
	c.JSON(http.StatusOK, dto.ToConvertResponse(result))
}

// getRate godoc
// @Summary Get the exchange rate between two currencies
// @Description Retrieves the current exchange rate from the source to the destination currency, rounded to 7 decimal places. The rate between identical currencies is always exactly 1.
// @Tags conversion
// @Produce  json
// @Param   source      path string true "Source Currency Code (3 letters)" MinLength(3) MaxLength(3)
// @Param   destination path string true "Destination Currency Code (3 letters)" MinLength(3) MaxLength(3)
// @Success 200 {object} dto.CrossRateResponse
// @Failure 400 {object} map[string]string "Invalid currency code format"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Source or destination currency not found"
// @Failure 500 {object} map[string]string "Failed to retrieve rate"
// @Security BearerAuth
// @Router /rates/{source}/{destination} [get]
func (h *conversionHandler) getRate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	sourceCode := c.Param("source")
	destinationCode := c.Param("destination")

	logger = logger.With(
		slog.String("source_currency", sourceCode),
		slog.String("destination_currency", destinationCode),
	)
	logger.Info("Received request to get cross-rate")

	rate, err := h.conversionService.GetRate(c.Request.Context(), sourceCode, destinationCode)
	if err != nil {
		var notFound *apperrors.CurrencyNotFoundError
		if errors.As(err, &notFound) {
			logger.Warn("Currency not found for cross-rate", slog.String("error", err.Error()))
			c.JSON(http.StatusNotFound, gin.H{"error": notFound.Error()})
		} else if errors.Is(err, apperrors.ErrValidation) {
			logger.Warn("Validation error getting cross-rate", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to get cross-rate from service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve rate"})
		}
		return
	}

	logger.Info("Cross-rate retrieved successfully", slog.String("rate", rate.String()))
	c.JSON(http.StatusOK, dto.CrossRateResponse{
		SourceCurrencyCode:      normalizeForResponse(sourceCode),
		DestinationCurrencyCode: normalizeForResponse(destinationCode),
		ExchangeRate:            rate,
	})
}

// normalizeForResponse mirrors the code normalization the service applies, so
// responses echo codes in their canonical form.
func normalizeForResponse(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

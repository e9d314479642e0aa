package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"

	portssvc "github.com/sterlingfx/currency_converter_app/internal/core/ports/services"
	"github.com/sterlingfx/currency_converter_app/internal/dto"
	"github.com/sterlingfx/currency_converter_app/internal/middleware"
)

// authHandler exchanges a validated API key for a short-lived JWT.
type authHandler struct {
	tokenService portssvc.TokenSvcFacade
}

// newAuthHandler creates a new authHandler.
func newAuthHandler(ts portssvc.TokenSvcFacade) *authHandler {
	return &authHandler{
		tokenService: ts,
	}
}

// ErrorResponse is a generic error response structure for handlers.
type ErrorResponse struct {
	Error string `json:"error"`
}

// registerAuthRoutes sets up the token issuance route. It sits inside the
// authenticated v1 group, so the API key middleware has already validated the
// key by the time the handler runs. Token minting is rate limited per IP.
func registerAuthRoutes(rg *gin.RouterGroup, tokenService portssvc.TokenSvcFacade) {
	h := newAuthHandler(tokenService)

	// 5 token requests per minute per IP
	rate, _ := limiter.NewRateFromFormatted("5-M")
	store := memory.NewStore()
	ipLimiter := limiter.New(store, rate)

	auth := rg.Group("/auth")
	{
		auth.POST("/token", middleware.RateLimit(ipLimiter), h.issueToken)
	}
}

// issueToken godoc
// @Summary Exchange an API key for an access token
// @Description Issues a short-lived JWT for the API key presented in the x-api-key header. Subsequent requests can use the JWT as a Bearer token instead of the key.
// @Tags auth
// @Produce json
// @Success 200 {object} dto.TokenResponse
// @Failure 401 {object} ErrorResponse "Missing or invalid API key"
// @Failure 429 {object} map[string]string "Rate limit exceeded"
// @Failure 500 {object} ErrorResponse
// @Security ApiKeyAuth
// @Router /auth/token [post]
func (h *authHandler) issueToken(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	// JWT-authenticated requests cannot mint further tokens; only the key
	// itself can.
	key, ok := middleware.GetValidatedKeyFromContext(c)
	if !ok {
		logger.Warn("Token requested without a validated API key")
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "A valid x-api-key header is required"})
		return
	}

	token, expiresAt, err := h.tokenService.GenerateAccessToken(c.Request.Context(), key)
	if err != nil {
		logger.Error("Failed to generate access token", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to generate token"})
		return
	}

	logger.Info("Access token issued", slog.String("key_id", key.APIKeyID))
	c.JSON(http.StatusOK, dto.TokenResponse{Token: token, ExpiresAt: expiresAt})
}

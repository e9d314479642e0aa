package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/sterlingfx/currency_converter_app/internal/apperrors"
	portssvc "github.com/sterlingfx/currency_converter_app/internal/core/ports/services"
	"github.com/sterlingfx/currency_converter_app/internal/dto"
	"github.com/sterlingfx/currency_converter_app/internal/middleware"
)

// apiKeyHandler handles HTTP requests for API key management.
type apiKeyHandler struct {
	keyService portssvc.APIKeySvc
}

// newAPIKeyHandler creates a new apiKeyHandler.
func newAPIKeyHandler(ks portssvc.APIKeySvc) *apiKeyHandler {
	return &apiKeyHandler{
		keyService: ks,
	}
}

// registerAPIKeyRoutes registers routes for API key management.
func registerAPIKeyRoutes(rg *gin.RouterGroup, keyService portssvc.APIKeySvc) {
	h := newAPIKeyHandler(keyService)

	keys := rg.Group("/api-keys")
	{
		keys.POST("", h.createKey)
		keys.GET("", h.listKeys)
		keys.DELETE("/:keyID", h.revokeKey)
	}
}

// createKey godoc
// @Summary Create a new API key
// @Description Creates a new API key. The plaintext key is returned exactly once; only a hash is stored.
// @Tags api-keys
// @Accept json
// @Produce json
// @Param request body dto.CreateAPIKeyRequest true "Key details"
// @Success 201 {object} dto.CreateAPIKeyResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to create key"
// @Security BearerAuth
// @Router /api-keys [post]
func (h *apiKeyHandler) createKey(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateAPIKeyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateKey", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	plaintext, key, err := h.keyService.CreateKey(c.Request.Context(), req.Name, req.ExpiresIn)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			logger.Warn("Validation error creating api key", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to create api key in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create key"})
		}
		return
	}

	logger.Info("API key created", slog.String("key_id", key.APIKeyID))
	c.JSON(http.StatusCreated, dto.ToCreateAPIKeyResponse(plaintext, *key))
}

// listKeys godoc
// @Summary List all API keys
// @Description Lists key metadata. Plaintext values are never returned.
// @Tags api-keys
// @Produce json
// @Success 200 {array} dto.APIKeyResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to list keys"
// @Security BearerAuth
// @Router /api-keys [get]
func (h *apiKeyHandler) listKeys(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	keys, err := h.keyService.ListKeys(c.Request.Context())
	if err != nil {
		logger.Error("Failed to list api keys from service", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list keys"})
		return
	}

	logger.Info("API keys listed", slog.Int("count", len(keys)))
	c.JSON(http.StatusOK, dto.ToAPIKeyResponseList(keys))
}

// revokeKey godoc
// @Summary Revoke an API key
// @Description Revokes an API key by ID. The key stops authenticating immediately. Revoking an already revoked key succeeds.
// @Tags api-keys
// @Produce json
// @Param keyID path string true "Key ID (UUID format)" format(uuid)
// @Success 204 "Key revoked"
// @Failure 400 {object} map[string]string "Invalid key ID"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Key not found"
// @Failure 500 {object} map[string]string "Failed to revoke key"
// @Security BearerAuth
// @Router /api-keys/{keyID} [delete]
func (h *apiKeyHandler) revokeKey(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	keyID := c.Param("keyID")
	if _, err := uuid.Parse(keyID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid key ID"})
		return
	}

	logger = logger.With(slog.String("key_id", keyID))

	if err := h.keyService.RevokeKey(c.Request.Context(), keyID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("API key not found for revocation")
			c.JSON(http.StatusNotFound, gin.H{"error": "Key not found"})
		} else {
			logger.Error("Failed to revoke api key", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to revoke key"})
		}
		return
	}

	logger.Info("API key revoked")
	c.Status(http.StatusNoContent)
}

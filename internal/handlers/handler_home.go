package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// getHealth godoc
// @Summary Show the status of server.
// @Description get the status of server.
// @Tags ops
// @Accept */*
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /health [get]
func getHealth(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// registerOpsRoutes registers the health and metrics endpoints. Both are
// public: liveness probes and scrapers do not authenticate.
func registerOpsRoutes(r *gin.Engine) {
	r.GET("/health", getHealth)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

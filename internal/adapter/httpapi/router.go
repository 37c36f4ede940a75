package httpapi

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

// NewRouter wires the HTTP routes. Transfer and deposit routes are open;
// pause, resume and claim sit behind the admin bearer token.
func NewRouter(h *Handler, adminToken string, logger *logrus.Logger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestLoggerMiddleware(logger))
	router.Use(MetricsMiddleware())

	router.GET("/healthz", h.Health)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api")
	{
		transfers := api.Group("/transfers")
		{
			transfers.POST("/native", h.TransferNative)
			transfers.POST("/token", h.TransferToken)
			transfers.POST("/combined", h.TransferCombined)
		}

		api.POST("/deposits", h.Deposit)

		admin := api.Group("/admin")
		admin.Use(AdminAuthMiddleware(adminToken, logger))
		{
			admin.POST("/pause", h.Pause)
			admin.POST("/resume", h.Resume)
			admin.POST("/claim", h.Claim)
		}
	}

	return router
}

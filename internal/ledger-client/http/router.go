package http

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func NewRouter(h *Handler, allowedOrigins []string, metrics http.Handler) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger())

	if len(allowedOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     allowedOrigins,
			AllowMethods:     []string{"GET", "POST", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type"},
			AllowCredentials: true,
		}))
	}

	api := r.Group("/api")
	{
		api.GET("/health", h.Health)
		api.GET("/network", h.Network)
		api.GET("/plans", h.Plans)

		api.GET("/snapshot", h.Snapshot)
		api.POST("/refresh", h.Refresh)

		api.POST("/wallet/connect", h.ConnectWallet)
		api.POST("/wallet/disconnect", h.DisconnectWallet)

		api.POST("/tx/invest", h.Invest)
		api.POST("/tx/withdraw/:kind", h.Withdraw)
		api.GET("/tx", h.Transactions)
		api.GET("/tx/:kind", h.Transaction)

		api.GET("/notifications", h.Notifications)
	}

	if metrics != nil {
		r.GET("/metrics", gin.WrapH(metrics))
	}

	return r
}

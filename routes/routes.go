package routes

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/srgchrksv/designnewshub/handlers"
)

func RegisterRoutes(r *gin.Engine, h *handlers.Handler, allowedOrigins []string, metrics http.Handler) {
	// Configure CORS middleware
	config := cors.DefaultConfig()
	config.AllowOrigins = allowedOrigins
	config.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	config.AllowHeaders = []string{"Origin", "Content-Type"}
	config.ExposeHeaders = []string{"Content-Disposition"}
	r.Use(cors.New(config))

	r.GET("/health", h.GetHealth)
	r.GET("/status", h.GetStatus)
	r.GET("/ws/status", h.StatusStream)

	r.POST("/reports", h.StartReport)
	r.POST("/reports/retry", h.RetryReport)
	r.POST("/reports/reset", h.ResetReport)
	r.GET("/reports/current", h.GetReport)
	r.GET("/reports/current/pdf", h.DownloadPDF)
	r.GET("/reports/current/audio", h.DownloadAudio)

	if metrics != nil {
		r.GET("/metrics", gin.WrapH(metrics))
	}
}

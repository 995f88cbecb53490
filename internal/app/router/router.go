package router

import (
	"net/http"
	"time"

	"fuelprices_dashboard/internal/feature/dashboard/transport/handler"
	"fuelprices_dashboard/internal/platform/config"
	httphandler "fuelprices_dashboard/internal/platform/http/handler"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func NewRouter(cfg config.ServerConfig, dashboard *handler.DashboardHandler, health *httphandler.HealthHandler) *gin.Engine {
	r := gin.Default()
	r.SetHTMLTemplate(handler.Templates())

	// CORS: 設定がなければ全オリジンを許可
	if len(cfg.CORSOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.CORSOrigins,
			AllowMethods:     []string{http.MethodGet, http.MethodHead, http.MethodPost, http.MethodOptions},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
			AllowCredentials: false,
			MaxAge:           12 * time.Hour,
		}))
	} else {
		r.Use(cors.Default())
	}

	// 導通確認用
	r.GET("/healthz", health.Health)
	r.HEAD("/healthz", health.Health)
	r.OPTIONS("/healthz", health.Health)

	// 画面
	r.GET("/", dashboard.Index)
	r.GET("/chart", dashboard.Chart)
	r.GET("/chart.png", dashboard.ChartPNG)

	// JSON API
	api := r.Group("/api")
	{
		api.GET("/view", dashboard.View)
		api.GET("/chart", dashboard.ChartData)
		api.POST("/range", dashboard.SelectRange)
	}

	return r
}

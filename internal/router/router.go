package router

import (
	"net/http"

	"fraud_report_backend/internal/handlers"
	"fraud_report_backend/internal/metrics"
	"fraud_report_backend/internal/middleware"
	"fraud_report_backend/internal/services"
	"fraud_report_backend/internal/session"
	"fraud_report_backend/internal/view"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Dependencies are the long-lived objects the routes are built from.
type Dependencies struct {
	CustomerService    services.CustomerService
	Sessions           *session.Manager
	CORSAllowedOrigins []string
}

// Setup initializes the routing for the application.
func Setup(engine *gin.Engine, deps Dependencies) {
	engine.SetHTMLTemplate(view.Templates())
	// Applied engine-wide so preflight OPTIONS requests reach it.
	engine.Use(cors.New(corsConfig(deps.CORSAllowedOrigins)))

	customerHandler := handlers.NewCustomerHandler(deps.CustomerService)
	pageHandler := handlers.NewPageHandler()

	engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})
	engine.GET("/metrics", metrics.Handler())

	pages := engine.Group("")
	pages.Use(middleware.SessionMiddleware(deps.Sessions))
	SetupPageRoutes(pages, pageHandler)

	apiV1 := engine.Group("/api/v1")
	SetupCustomerRoutes(apiV1, customerHandler)
}

func corsConfig(allowedOrigins []string) cors.Config {
	config := cors.DefaultConfig()
	if len(allowedOrigins) > 0 {
		config.AllowOrigins = allowedOrigins
	} else {
		config.AllowAllOrigins = true
	}
	config.AllowMethods = []string{"GET", "POST", "DELETE", "OPTIONS"}
	config.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type"}
	return config
}

// internal/routes/routes.go
package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerfiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"receipt-service/internal/config"
	"receipt-service/internal/database"
	"receipt-service/internal/handler"
	"receipt-service/internal/middleware"
	"receipt-service/internal/relay"
	"receipt-service/internal/service"
	"receipt-service/internal/utils"
)

// Dependencies are the components the HTTP surface exposes.
// DB, Documents and RelayHub are optional.
type Dependencies struct {
	DB             *database.DB
	PrintService   *service.PrintService
	PrinterService *service.PrinterService
	JobService     *service.JobService
	Documents      handler.DocumentStore
	RelayHub       *relay.Hub
	Events         *handler.WebSocketHandler
}

// Router holds all dependencies for routing
type Router struct {
	config *config.Config
	logger *zap.Logger
	deps   Dependencies
}

// NewRouter creates a new router instance
func NewRouter(config *config.Config, logger *zap.Logger, deps Dependencies) *Router {
	return &Router{
		config: config,
		logger: logger,
		deps:   deps,
	}
}

// SetupRouter creates and configures the Gin router
func (r *Router) SetupRouter() *gin.Engine {
	if r.config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	router := gin.New()

	r.addMiddleware(router)
	r.addRoutes(router)

	return router
}

func (r *Router) addMiddleware(router *gin.Engine) {
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.RecoveryMiddleware(r.logger))

	serviceLogger := utils.NewServiceLogger(r.logger, "http-server")
	router.Use(middleware.LoggingMiddleware(serviceLogger))

	router.Use(middleware.CORSMiddleware(&r.config.Security))

	r.logger.Info("Middleware configured")
}

func (r *Router) addRoutes(router *gin.Engine) {
	healthHandler := handler.NewHealthHandler(r.deps.DB, r.relayStatus(), r.deps.PrintService.Methods, r.config, r.logger)
	receiptHandler := handler.NewReceiptHandler(r.deps.PrintService, r.deps.Documents, r.config.Printing, r.logger)
	printerHandler := handler.NewPrinterHandler(r.deps.PrinterService, r.logger)
	jobHandler := handler.NewJobHandler(r.deps.JobService, r.logger)

	healthHandler.RegisterRoutes(router)

	apiV1 := router.Group("/api/v1")
	receiptHandler.RegisterRoutes(apiV1)
	printerHandler.RegisterRoutes(apiV1)
	jobHandler.RegisterRoutes(apiV1)

	ws := router.Group("/ws")
	if r.deps.Events != nil {
		r.deps.Events.RegisterRoutes(ws)
	}
	if r.deps.RelayHub != nil {
		ws.GET("/relay", r.deps.RelayHub.HandleAgent)
	}

	r.addDocumentationRoutes(router)

	r.logger.Info("All routes configured successfully")
}

// relayStatus avoids handing the health handler a typed nil
func (r *Router) relayStatus() handler.RelayStatus {
	if r.deps.RelayHub == nil {
		return nil
	}
	return r.deps.RelayHub
}

func (r *Router) addDocumentationRoutes(router *gin.Engine) {
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerfiles.Handler))

	router.GET("/docs", func(c *gin.Context) {
		c.Redirect(http.StatusMovedPermanently, "/swagger/index.html")
	})
}

package router

import (
	"github.com/gin-gonic/gin"
	"github.com/pageza/coffeeshop/backend/internal/api"
	"github.com/pageza/coffeeshop/backend/internal/middleware"
	"github.com/pageza/coffeeshop/backend/internal/service"
	"github.com/sirupsen/logrus"
)

// Dependencies are the collaborators the routes are built from.
type Dependencies struct {
	Logger    *logrus.Logger
	Validator middleware.TokenValidator
	Drinks    service.IDrinkService
	Health    api.Pinger
	// WriteLimiter is optional; nil leaves mutations unlimited.
	WriteLimiter   *middleware.RateLimiter
	AllowedOrigins []string
}

// SetupRouter configures the application routes
func SetupRouter(deps Dependencies) *gin.Engine {
	router := gin.New()
	router.HandleMethodNotAllowed = true

	router.Use(
		middleware.RequestID(),
		middleware.Logger(deps.Logger),
		middleware.Recovery(deps.Logger),
		middleware.CORS(deps.AllowedOrigins),
	)

	router.NoRoute(middleware.NotFound)
	router.NoMethod(middleware.MethodNotAllowed)

	router.GET("/health", api.Health(deps.Health))

	var writeMiddleware []gin.HandlerFunc
	if deps.WriteLimiter != nil {
		writeMiddleware = append(writeMiddleware, deps.WriteLimiter.Middleware())
	}
	api.NewDrinkHandler(deps.Drinks, deps.Logger).RegisterRoutes(router, deps.Validator, writeMiddleware...)

	return router
}

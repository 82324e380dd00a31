package server

import (
	"github.com/esolink/backend/internal/server/middleware"
	"github.com/esolink/backend/internal/server/routes"

	"github.com/labstack/echo/v4"
)

func RegisterRoutes(e *echo.Echo) {
	// Health check route
	e.GET("/health", func(c echo.Context) error {
		return c.String(200, "OK")
	})

	apiRoutes := e.Group("/api", middleware.AuthMiddleware)

	// Relationship routes
	apiRoutes.GET("/relationships", routes.GetRelationshipsHandler, middleware.RequirePermission("relationship.view"))
	apiRoutes.POST("/relationships", routes.CreateRelationshipHandler, middleware.RequirePermission("relationship.create"))
	apiRoutes.DELETE("/relationships/:id", routes.DeleteRelationshipHandler, middleware.RequirePermission("relationship.delete"))
	apiRoutes.POST("/relationships/:id/score", routes.ScoreRelationshipHandler, middleware.RequirePermission("relationship.score"))

	// Network routes
	apiRoutes.POST("/network/discover-path", routes.DiscoverPathHandler, middleware.RequirePermission("network.view"))
	apiRoutes.GET("/network/stats", routes.GetNetworkStatsHandler, middleware.RequireAnyPermission("network.view", "network.analyze"))
	apiRoutes.POST("/network/analyze", routes.AnalyzeNetworkHandler, middleware.RequirePermission("network.analyze"))
	apiRoutes.POST("/network/report", routes.NetworkReportHandler, middleware.RequirePermission("network.report"))

	// Grant routes
	apiRoutes.POST("/grants/:id/success", routes.PredictGrantSuccessHandler, middleware.RequirePermission("grant.score"))
	apiRoutes.POST("/grants/score", routes.ScoreGrantsHandler, middleware.RequirePermission("grant.score"))
}

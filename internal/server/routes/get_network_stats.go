package routes

import (
	"net/http"

	"github.com/esolink/backend/internal/server/middleware"

	"github.com/labstack/echo/v4"
)

// GetNetworkStatsHandler serves the aggregate network view for the caller's
// tenant.
func GetNetworkStatsHandler(c echo.Context) error {
	user := c.(*middleware.AppContext).User
	if user == nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}

	stats, err := newEngine(c).NetworkStats(c.Request().Context(), user.TenantID)
	if err != nil {
		return engineErrorJSON(c, err)
	}

	return c.JSON(http.StatusOK, stats)
}

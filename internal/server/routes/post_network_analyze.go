package routes

import (
	"encoding/json"
	"net/http"

	"github.com/esolink/backend/internal/queue"
	"github.com/esolink/backend/internal/server/middleware"

	"github.com/labstack/echo/v4"
)

// AnalyzeNetworkHandler computes structural metrics for the caller's tenant
// and optionally pushes them as a kpi_update broadcast. With async set, the
// analysis is queued for the worker instead and the request returns
// immediately.
func AnalyzeNetworkHandler(c echo.Context) error {
	type analyzeBody struct {
		Broadcast bool `json:"broadcast"`
		Async     bool `json:"async"`
	}

	data := new(analyzeBody)
	if err := c.Bind(data); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}

	user := c.(*middleware.AppContext).User
	if user == nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}

	if data.Async {
		job, err := json.Marshal(queue.AnalysisJobMsg{
			TenantID:  user.TenantID,
			Broadcast: data.Broadcast,
		})
		if err != nil {
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
		}
		ch := c.(*middleware.AppContext).App.Queue
		if err := queue.PublishFIFO(ch, queue.AnalysisQueue, job); err != nil {
			return engineErrorJSON(c, err)
		}
		return c.JSON(http.StatusAccepted, map[string]string{"message": "Analysis queued"})
	}

	metrics, err := newEngine(c).AnalyzeNetwork(c.Request().Context(), user.TenantID, data.Broadcast)
	if err != nil {
		return engineErrorJSON(c, err)
	}

	return c.JSON(http.StatusOK, metrics)
}

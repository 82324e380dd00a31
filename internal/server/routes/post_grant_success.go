package routes

import (
	"net/http"

	"github.com/esolink/backend/internal/server/middleware"
	"github.com/esolink/backend/pkg/common"

	"github.com/labstack/echo/v4"
)

// PredictGrantSuccessHandler computes the success probability for a stored
// grant application. With broadcast set, the prediction is also pushed as a
// grant_milestone event.
func PredictGrantSuccessHandler(c echo.Context) error {
	type predictGrantSuccessBody struct {
		Broadcast bool `json:"broadcast"`
	}

	type predictGrantSuccessResponse struct {
		GrantID    string                    `json:"grant_id"`
		Prediction common.SuccessProbability `json:"prediction"`
	}

	grantID := c.Param("id")
	if grantID == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Missing grant id"})
	}

	data := new(predictGrantSuccessBody)
	if err := c.Bind(data); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}

	user := c.(*middleware.AppContext).User
	if user == nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}

	prediction, err := newEngine(c).PredictGrantSuccess(c.Request().Context(), user.TenantID, grantID, data.Broadcast)
	if err != nil {
		return engineErrorJSON(c, err)
	}

	return c.JSON(http.StatusOK, predictGrantSuccessResponse{
		GrantID:    grantID,
		Prediction: prediction,
	})
}

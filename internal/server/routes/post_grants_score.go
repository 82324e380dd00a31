package routes

import (
	"encoding/json"
	"net/http"

	"github.com/esolink/backend/internal/queue"
	"github.com/esolink/backend/internal/server/middleware"

	_ "github.com/go-playground/validator"
	"github.com/labstack/echo/v4"
)

// ScoreGrantsHandler queues success predictions for a batch of grants. The
// worker fans the batch out and broadcasts each prediction when requested.
func ScoreGrantsHandler(c echo.Context) error {
	type scoreGrantsBody struct {
		GrantIDs  []string `json:"grant_ids" validate:"required,min=1"`
		Broadcast bool     `json:"broadcast"`
	}

	data := new(scoreGrantsBody)
	if err := c.Bind(data); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}
	if err := c.Validate(data); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}

	user := c.(*middleware.AppContext).User
	if user == nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}

	job, err := json.Marshal(queue.ScoringJobMsg{
		TenantID:  user.TenantID,
		GrantIDs:  data.GrantIDs,
		Broadcast: data.Broadcast,
	})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
	}

	ch := c.(*middleware.AppContext).App.Queue
	if err := queue.PublishFIFO(ch, queue.ScoringQueue, job); err != nil {
		return engineErrorJSON(c, err)
	}

	return c.JSON(http.StatusAccepted, map[string]string{"message": "Scoring queued"})
}

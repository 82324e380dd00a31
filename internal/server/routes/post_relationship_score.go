package routes

import (
	"net/http"

	"github.com/esolink/backend/internal/server/middleware"

	"github.com/labstack/echo/v4"
)

// ScoreRelationshipHandler recomputes the weighted strength score of a
// single stored relationship.
func ScoreRelationshipHandler(c echo.Context) error {
	type scoreRelationshipResponse struct {
		RelationshipID string  `json:"relationship_id"`
		Score          float64 `json:"score"`
	}

	relationshipID := c.Param("id")
	if relationshipID == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Missing relationship id"})
	}

	user := c.(*middleware.AppContext).User
	if user == nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}

	score, err := newEngine(c).ScoreRelationship(c.Request().Context(), user.TenantID, relationshipID)
	if err != nil {
		return engineErrorJSON(c, err)
	}

	return c.JSON(http.StatusOK, scoreRelationshipResponse{
		RelationshipID: relationshipID,
		Score:          score,
	})
}

package routes

import (
	"net/http"

	"github.com/esolink/backend/internal/queue"
	"github.com/esolink/backend/internal/server/middleware"
	"github.com/esolink/backend/pkg/broadcast"
	"github.com/esolink/backend/pkg/logger"
	pgxstore "github.com/esolink/backend/pkg/store/pgx"

	"github.com/labstack/echo/v4"
)

// DeleteRelationshipHandler removes a relationship from the tenant's graph
// and announces the removal as a relationship_change broadcast.
func DeleteRelationshipHandler(c echo.Context) error {
	relationshipID := c.Param("id")
	if relationshipID == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Missing relationship id"})
	}

	user := c.(*middleware.AppContext).User
	if user == nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}

	ctx := c.Request().Context()
	conn := c.(*middleware.AppContext).App.DBConn
	storageClient := pgxstore.NewRelationshipDBStorage(conn)

	if err := storageClient.DeleteRelationship(ctx, user.TenantID, relationshipID); err != nil {
		return engineErrorJSON(c, err)
	}

	ch := c.(*middleware.AppContext).App.Queue
	broadcaster := queue.NewAmqpBroadcaster(ch)
	event := broadcast.NewEvent(broadcast.EventRelationshipChange, user.TenantID, map[string]string{
		"relationship_id": relationshipID,
		"action":          "deleted",
	})
	if err := broadcaster.Publish(ctx, event); err != nil {
		logger.Error("[API] Failed to broadcast relationship change", "err", err)
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "Relationship deleted successfully"})
}

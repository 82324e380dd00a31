package routes

import (
	"net/http"

	"github.com/esolink/backend/internal/server/middleware"
	"github.com/esolink/backend/pkg/common"
	"github.com/esolink/backend/pkg/store"
	pgxstore "github.com/esolink/backend/pkg/store/pgx"

	"github.com/labstack/echo/v4"
)

// GetRelationshipsHandler lists the tenant's relationships, optionally
// narrowed by status, type or entity query parameters.
func GetRelationshipsHandler(c echo.Context) error {
	type getRelationshipsResponse struct {
		Relationships []common.Relationship `json:"relationships"`
		Count         int                   `json:"count"`
	}

	user := c.(*middleware.AppContext).User
	if user == nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}

	conn := c.(*middleware.AppContext).App.DBConn
	storageClient := pgxstore.NewRelationshipDBStorage(conn)

	relationships, err := storageClient.ListRelationships(c.Request().Context(), user.TenantID, store.RelationshipFilter{
		Status:           common.RelationshipStatus(c.QueryParam("status")),
		RelationshipType: c.QueryParam("relationship_type"),
		EntityID:         c.QueryParam("entity_id"),
	})
	if err != nil {
		return engineErrorJSON(c, err)
	}

	return c.JSON(http.StatusOK, getRelationshipsResponse{
		Relationships: relationships,
		Count:         len(relationships),
	})
}

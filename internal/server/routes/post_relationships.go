package routes

import (
	"net/http"
	"time"

	"github.com/esolink/backend/internal/queue"
	"github.com/esolink/backend/internal/server/middleware"
	"github.com/esolink/backend/internal/util"
	"github.com/esolink/backend/pkg/broadcast"
	"github.com/esolink/backend/pkg/common"
	"github.com/esolink/backend/pkg/logger"
	pgxstore "github.com/esolink/backend/pkg/store/pgx"

	_ "github.com/go-playground/validator"
	"github.com/labstack/echo/v4"
)

// CreateRelationshipHandler records a new relationship for the caller's
// tenant and announces it as a relationship_change broadcast.
func CreateRelationshipHandler(c echo.Context) error {
	type createRelationshipBody struct {
		SourcePerson     string            `json:"source_person" validate:"required"`
		TargetPerson     string            `json:"target_person" validate:"required"`
		RelationshipType string            `json:"relationship_type" validate:"required"`
		Strength         float64           `json:"strength" validate:"min=0,max=1"`
		Metadata         map[string]string `json:"metadata"`
		LastContact      *time.Time        `json:"last_contact"`
		Interactions     int               `json:"interactions" validate:"min=0"`
	}

	type createRelationshipResponse struct {
		Message      string               `json:"message"`
		Relationship *common.Relationship `json:"relationship,omitempty"`
	}

	data := new(createRelationshipBody)
	if err := c.Bind(data); err != nil {
		return c.JSON(http.StatusBadRequest, createRelationshipResponse{Message: "Invalid request body"})
	}
	if err := c.Validate(data); err != nil {
		return c.JSON(http.StatusBadRequest, createRelationshipResponse{Message: "Invalid request body"})
	}
	if data.SourcePerson == data.TargetPerson {
		return c.JSON(http.StatusBadRequest, createRelationshipResponse{Message: "Relationship endpoints must differ"})
	}

	user := c.(*middleware.AppContext).User
	if user == nil {
		return c.JSON(http.StatusUnauthorized, createRelationshipResponse{Message: "Unauthorized"})
	}

	ctx := c.Request().Context()
	conn := c.(*middleware.AppContext).App.DBConn
	storageClient := pgxstore.NewRelationshipDBStorage(conn)

	rel, err := storageClient.AddRelationship(ctx, common.Relationship{
		TenantID:         user.TenantID,
		SourcePerson:     data.SourcePerson,
		TargetPerson:     data.TargetPerson,
		RelationshipType: util.SanitizePostgresText(data.RelationshipType),
		Strength:         data.Strength,
		Status:           common.StatusActive,
		Metadata:         data.Metadata,
		LastContact:      data.LastContact,
		Interactions:     data.Interactions,
	})
	if err != nil {
		return engineErrorJSON(c, err)
	}

	ch := c.(*middleware.AppContext).App.Queue
	broadcaster := queue.NewAmqpBroadcaster(ch)
	if err := broadcaster.Publish(ctx, broadcast.NewEvent(broadcast.EventRelationshipChange, user.TenantID, rel)); err != nil {
		logger.Error("[API] Failed to broadcast relationship change", "err", err)
	}

	return c.JSON(http.StatusOK, createRelationshipResponse{
		Message:      "Relationship created successfully",
		Relationship: &rel,
	})
}

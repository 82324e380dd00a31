package routes

import (
	"net/http"

	"github.com/esolink/backend/internal/server/middleware"
	"github.com/esolink/backend/pkg/common"
	"github.com/esolink/backend/pkg/engine"

	_ "github.com/go-playground/validator"
	"github.com/labstack/echo/v4"
)

// DiscoverPathHandler finds a bounded connection path between two entities
// of the caller's tenant.
func DiscoverPathHandler(c echo.Context) error {
	type discoverPathBody struct {
		SourceID  string `json:"source_id" validate:"required"`
		TargetID  string `json:"target_id" validate:"required"`
		MaxDepth  int    `json:"max_depth" validate:"required,min=1,max=7"`
		Algorithm string `json:"algorithm"`
	}

	type discoverPathResponse struct {
		Path                 []string                    `json:"path"`
		PathLength           int                         `json:"path_length"`
		PathQuality          common.PathQuality          `json:"path_quality"`
		ConfidenceScore      float64                     `json:"confidence_score"`
		RelationshipAnalysis common.RelationshipAnalysis `json:"relationship_analysis"`
		AlgorithmUsed        string                      `json:"algorithm_used"`
		ComputationTimeMs    int64                       `json:"computation_time_ms"`
	}

	data := new(discoverPathBody)
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

	ctx := c.Request().Context()
	result, err := newEngine(c).DiscoverPath(ctx, user.TenantID, engine.DiscoverPathParams{
		SourceID:  data.SourceID,
		TargetID:  data.TargetID,
		MaxDepth:  data.MaxDepth,
		Algorithm: data.Algorithm,
	})
	if err != nil {
		return engineErrorJSON(c, err)
	}

	return c.JSON(http.StatusOK, discoverPathResponse{
		Path:                 result.Path.Entities,
		PathLength:           result.Path.Length,
		PathQuality:          result.Path.Quality,
		ConfidenceScore:      result.Path.ConfidenceScore,
		RelationshipAnalysis: result.Path.Analysis,
		AlgorithmUsed:        result.AlgorithmUsed,
		ComputationTimeMs:    result.ComputationTimeMs,
	})
}

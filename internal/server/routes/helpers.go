package routes

import (
	"net/http"
	"time"

	"github.com/esolink/backend/internal/queue"
	"github.com/esolink/backend/internal/util"
	"github.com/esolink/backend/internal/server/middleware"
	"github.com/esolink/backend/pkg/common"
	"github.com/esolink/backend/pkg/engine"
	"github.com/esolink/backend/pkg/logger"
	pgxstore "github.com/esolink/backend/pkg/store/pgx"

	"github.com/labstack/echo/v4"
)

// newEngine builds a per-request engine instance from the app context.
func newEngine(c echo.Context) *engine.Engine {
	app := c.(*middleware.AppContext).App
	budget := time.Duration(util.GetEnvNumeric("PATH_COMPUTE_BUDGET_SECONDS", 30)) * time.Second
	return engine.New(
		pgxstore.NewRelationshipDBStorage(app.DBConn),
		queue.NewAmqpBroadcaster(app.Queue),
		engine.WithComputeBudget(budget),
	)
}

// engineErrorJSON translates the engine error taxonomy into an HTTP
// response. Validation and not-found results are expected outcomes and not
// logged as faults.
func engineErrorJSON(c echo.Context, err error) error {
	switch common.KindOf(err) {
	case common.ErrValidation:
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	case common.ErrNotFound:
		return c.JSON(http.StatusNotFound, map[string]string{"error": err.Error()})
	case common.ErrTimeout:
		logger.Warn("[API] Computation exceeded budget", "err", err)
		return c.JSON(http.StatusGatewayTimeout, map[string]string{"error": "Computation exceeded time budget"})
	default:
		logger.Error("[API] Engine error", "err", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
	}
}

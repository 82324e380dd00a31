package routes

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/esolink/backend/internal/server/middleware"
	"github.com/esolink/backend/internal/storage"
	"github.com/esolink/backend/pkg/logger"

	"github.com/labstack/echo/v4"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

// NetworkReportHandler computes a metrics snapshot, stores it as a JSON
// report, and returns a time-limited download link.
func NetworkReportHandler(c echo.Context) error {
	type reportResponse struct {
		Message     string `json:"message"`
		ReportKey   string `json:"report_key,omitempty"`
		DownloadURL string `json:"download_url,omitempty"`
	}

	user := c.(*middleware.AppContext).User
	if user == nil {
		return c.JSON(http.StatusUnauthorized, reportResponse{Message: "Unauthorized"})
	}

	ctx := c.Request().Context()
	metrics, err := newEngine(c).AnalyzeNetwork(ctx, user.TenantID, false)
	if err != nil {
		return engineErrorJSON(c, err)
	}

	report, err := json.Marshal(map[string]any{
		"tenant_id":    user.TenantID,
		"generated_at": time.Now().UTC(),
		"metrics":      metrics,
	})
	if err != nil {
		logger.Error("Failed to encode network report", "err", err)
		return c.JSON(http.StatusInternalServerError, reportResponse{Message: "Internal server error"})
	}

	reportID, err := gonanoid.New()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, reportResponse{Message: "Internal server error"})
	}
	key := fmt.Sprintf("tenants/%s/reports/network-%s.json", user.TenantID, reportID)

	s3Client := c.(*middleware.AppContext).App.S3
	if err := storage.PutJSON(ctx, s3Client, key, report); err != nil {
		logger.Error("Failed to store network report", "err", err)
		return c.JSON(http.StatusInternalServerError, reportResponse{Message: "Internal server error"})
	}

	url, err := storage.GenerateDownloadLink(ctx, s3Client, key)
	if err != nil {
		logger.Error("Failed to presign network report", "err", err)
		return c.JSON(http.StatusInternalServerError, reportResponse{Message: "Internal server error"})
	}

	return c.JSON(http.StatusOK, reportResponse{
		Message:     "Report generated successfully",
		ReportKey:   key,
		DownloadURL: url,
	})
}

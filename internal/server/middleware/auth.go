package middleware

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

var allPermissions = []string{
	"relationship.create",
	"relationship.delete",
	"relationship.view",
	"relationship.score",
	"network.view",
	"network.analyze",
	"network.report",
	"grant.score",
}

// AuthMiddleware resolves the caller from a Bearer token. Tokens carry the
// tenant id, role, and permission claims; the master API key (used by
// scheduled jobs) selects its tenant through the X-Tenant-ID header.
func AuthMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authHeader := c.Request().Header.Get("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
		}

		token := strings.Split(authHeader, " ")[1]
		app := c.(*AppContext).App

		// Master API Key bypass
		if app.MasterAPIKey != "" && token == app.MasterAPIKey {
			tenantID := c.Request().Header.Get("X-Tenant-ID")
			if tenantID == "" {
				tenantID = app.MasterTenantID
			}
			if tenantID == "" {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Missing tenant"})
			}
			c.(*AppContext).User = &AppUser{
				UserID:      "master",
				TenantID:    tenantID,
				Role:        "admin",
				Permissions: allPermissions,
			}
			return next(c)
		}

		// Parse JWT token
		k := *c.(*AppContext).App.Key
		parsed, err := jwt.Parse(token, k.Keyfunc)
		if err != nil || !parsed.Valid {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
		}

		claims, ok := parsed.Claims.(jwt.MapClaims)
		if !ok {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
		}

		userID, ok := claims["id"].(string)
		if !ok || userID == "" {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Invalid user ID"})
		}

		tenantID, ok := claims["tenant_id"].(string)
		if !ok || tenantID == "" {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Invalid tenant"})
		}

		role := "user"
		if roleClaim, ok := claims["role"].(string); ok {
			role = roleClaim
		}

		var permissions []string
		if permsClaim, ok := claims["permissions"].([]any); ok {
			for _, p := range permsClaim {
				if pStr, ok := p.(string); ok {
					permissions = append(permissions, pStr)
				}
			}
		}

		if role == "admin" && len(permissions) == 0 {
			permissions = allPermissions
		}

		c.(*AppContext).User = &AppUser{
			UserID:      userID,
			TenantID:    tenantID,
			Role:        role,
			Permissions: permissions,
		}

		return next(c)
	}
}

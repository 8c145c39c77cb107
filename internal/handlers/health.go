package handlers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

// HealthCheck reports the API and both stores.
func HealthCheck(pgdb *gorm.DB, mgClient *mongo.Client) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		details := map[string]string{"server": "OK", "postgres": "OK", "mongo": "OK"}
		healthy := true

		if sqlDB, err := pgdb.DB(); err != nil || sqlDB.PingContext(ctx) != nil {
			details["postgres"] = "Not connected"
			healthy = false
		}
		if err := mgClient.Ping(ctx, nil); err != nil {
			details["mongo"] = "Not connected"
			healthy = false
		}

		status := http.StatusOK
		state := "GOOD"
		if !healthy {
			status = http.StatusServiceUnavailable
			state = "ISSUE"
		}
		return c.JSON(status, echo.Map{"status": state, "details": details, "checked_at": time.Now()})
	}
}

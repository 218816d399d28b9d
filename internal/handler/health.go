package handler

import (
    "context"
    "database/sql"
    "net/http"
    "time"

    "github.com/labstack/echo/v4"
    "github.com/redis/go-redis/v9"
)

// Health answers liveness probes with a plain "ok".
func Health(c echo.Context) error {
    return c.String(http.StatusOK, "ok")
}

// Readiness pings the backing stores that are configured.  A nil db or rdb
// is skipped, so the in-memory store with Redis disabled is always ready.
func Readiness(db *sql.DB, rdb *redis.Client) echo.HandlerFunc {
    return func(c echo.Context) error {
        ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
        defer cancel()
        checks := echo.Map{}
        healthy := true
        if db != nil {
            if err := db.PingContext(ctx); err != nil {
                checks["mysql"] = err.Error()
                healthy = false
            } else {
                checks["mysql"] = "ok"
            }
        }
        if rdb != nil {
            if err := rdb.Ping(ctx).Err(); err != nil {
                checks["redis"] = err.Error()
                healthy = false
            } else {
                checks["redis"] = "ok"
            }
        }
        if !healthy {
            return c.JSON(http.StatusServiceUnavailable, echo.Map{"status": "error", "checks": checks})
        }
        return c.JSON(http.StatusOK, echo.Map{"status": "success", "checks": checks})
    }
}

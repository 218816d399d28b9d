package router // router defines how HTTP routes are registered

import (
	"database/sql"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/room-reservation/internal/handler"
)

// RegisterRoutes registers the probes.  /readyz pings whichever of db and
// rdb are configured.
func RegisterRoutes(e *echo.Echo, db *sql.DB, rdb *redis.Client) {
	e.GET("/healthz", handler.Health)
	e.GET("/readyz", handler.Readiness(db, rdb))
}

// RegisterReservations registers the calendar JSON API.  cache wraps only the
// per-room events feed; it is invalidated on every reservation change.
func RegisterReservations(e *echo.Echo, h *handler.ReservationHandler, cache echo.MiddlewareFunc) {
	e.GET("/events/:roomId", h.Events, cache)
	e.GET("/reservations/:id", h.Get)
	e.POST("/reserve", h.Reserve)
	e.PUT("/update/:id", h.Update)
	e.DELETE("/delete/:id", h.Delete)
	e.PUT("/update_batch", h.UpdateBatch)
}

// RegisterRooms registers the HTML pages and the JSON room list.
func RegisterRooms(e *echo.Echo, h *handler.RoomHandler) {
	e.GET("/", h.Index)

	// ---- Room management ----
	e.GET("/rooms", h.Rooms)
	e.POST("/rooms", h.Rooms)
	e.POST("/rooms/delete/:id", h.DeleteRoom)
	e.POST("/rooms/edit/:id", h.EditRoom)

	e.GET("/api/rooms", h.ListRoomsJSON)
}

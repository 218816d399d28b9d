package handler

import (
    "errors"
    "net/http"

    "github.com/labstack/echo/v4"
    "go.uber.org/zap"

    "github.com/iliyamo/room-reservation/internal/model"
    "github.com/iliyamo/room-reservation/internal/repository"
    "github.com/iliyamo/room-reservation/internal/service"
)

// RoomHandler serves the HTML room management pages, the booking page and
// the JSON room list used by the calendar.
type RoomHandler struct {
    Service *service.RoomService
    Log     *zap.Logger
}

// NewRoomHandler panics if svc is nil.
func NewRoomHandler(svc *service.RoomService, log *zap.Logger) *RoomHandler {
    if svc == nil {
        panic("nil service passed to NewRoomHandler")
    }
    return &RoomHandler{Service: svc, Log: log.Named("http")}
}

type roomsPage struct {
    Rooms []model.Room
    Error string
}

// flash messages carried across the post/redirect/get cycle.
var roomNotices = map[string]string{
    "in_use":    "This room still has reservations and cannot be deleted.",
    "not_found": "Room not found.",
    "name":      "Room name is required (at most 100 characters).",
}

func (h *RoomHandler) render(c echo.Context, status int, page, notice string) error {
    rooms, err := h.Service.List(c.Request().Context())
    if err != nil {
        h.Log.Error("list rooms failed", zap.Error(err))
        return c.String(http.StatusInternalServerError, "internal error")
    }
    return c.Render(status, page, roomsPage{Rooms: rooms, Error: notice})
}

// Index handles GET / and renders the booking calendar.
func (h *RoomHandler) Index(c echo.Context) error {
    return h.render(c, http.StatusOK, "index.html", "")
}

// Rooms handles GET and POST /rooms.  A POST renders the updated list
// directly; a blank or oversized name re-renders it with an error instead of
// inserting.
func (h *RoomHandler) Rooms(c echo.Context) error {
    if c.Request().Method == http.MethodPost {
        if _, err := h.Service.Create(c.Request().Context(), c.FormValue("name")); err != nil {
            if errors.Is(err, service.ErrValidation) {
                return h.render(c, http.StatusBadRequest, "rooms.html", roomNotices["name"])
            }
            h.Log.Error("create room failed", zap.Error(err))
            return c.String(http.StatusInternalServerError, "internal error")
        }
        return h.render(c, http.StatusOK, "rooms.html", "")
    }
    return h.render(c, http.StatusOK, "rooms.html", roomNotices[c.QueryParam("error")])
}

// DeleteRoom handles POST /rooms/delete/:id.  Rooms that still own
// reservations are left untouched.
func (h *RoomHandler) DeleteRoom(c echo.Context) error {
    id, ok := paramID(c, "id")
    if !ok {
        return c.Redirect(http.StatusSeeOther, "/rooms?error=not_found")
    }
    err := h.Service.Delete(c.Request().Context(), id)
    switch {
    case err == nil:
        return c.Redirect(http.StatusSeeOther, "/rooms")
    case errors.Is(err, repository.ErrRoomInUse):
        return c.Redirect(http.StatusSeeOther, "/rooms?error=in_use")
    case errors.Is(err, repository.ErrRoomNotFound):
        return c.Redirect(http.StatusSeeOther, "/rooms?error=not_found")
    }
    h.Log.Error("delete room failed", zap.Uint64("room_id", id), zap.Error(err))
    return c.String(http.StatusInternalServerError, "internal error")
}

// EditRoom handles POST /rooms/edit/:id.  Unknown rooms and blank names are
// ignored.
func (h *RoomHandler) EditRoom(c echo.Context) error {
    id, ok := paramID(c, "id")
    if !ok {
        return c.Redirect(http.StatusSeeOther, "/rooms")
    }
    err := h.Service.Rename(c.Request().Context(), id, c.FormValue("name"))
    if err != nil && !errors.Is(err, service.ErrValidation) && !errors.Is(err, repository.ErrRoomNotFound) {
        h.Log.Error("rename room failed", zap.Uint64("room_id", id), zap.Error(err))
        return c.String(http.StatusInternalServerError, "internal error")
    }
    return c.Redirect(http.StatusSeeOther, "/rooms")
}

// ListRoomsJSON handles GET /api/rooms.
func (h *RoomHandler) ListRoomsJSON(c echo.Context) error {
    rooms, err := h.Service.List(c.Request().Context())
    if err != nil {
        return internalError(c, h.Log, "list rooms failed", err)
    }
    if rooms == nil {
        rooms = []model.Room{}
    }
    return c.JSON(http.StatusOK, rooms)
}

package handler

// This file implements the JSON endpoints used by the booking calendar:
// listing a room's events and creating, updating, deleting and batch
// updating reservations.  Absence of a reservation is reported as a soft
// failure in the payload; malformed input is a 400.

import (
    "errors"
    "net/http"

    "github.com/labstack/echo/v4"
    "go.uber.org/zap"

    "github.com/iliyamo/room-reservation/internal/model"
    "github.com/iliyamo/room-reservation/internal/repository"
    "github.com/iliyamo/room-reservation/internal/service"
)

// ReservationHandler exposes the reservation service over HTTP.
type ReservationHandler struct {
    Service *service.ReservationService
    Log     *zap.Logger
}

// NewReservationHandler panics if svc is nil.
func NewReservationHandler(svc *service.ReservationService, log *zap.Logger) *ReservationHandler {
    if svc == nil {
        panic("nil service passed to NewReservationHandler")
    }
    return &ReservationHandler{Service: svc, Log: log.Named("http")}
}

// eventJSON is the calendar representation of a reservation.
type eventJSON struct {
    ID     uint64 `json:"id"`
    Title  string `json:"title"`
    Start  string `json:"start"`
    End    string `json:"end"`
    RoomID uint64 `json:"room_id,omitempty"`
}

func (h *ReservationHandler) toEvent(r model.Reservation, withRoom bool) eventJSON {
    clock := h.Service.Clock()
    ev := eventJSON{ID: r.ID, Title: r.Title, Start: clock.Format(r.Start), End: clock.Format(r.End)}
    if withRoom {
        ev.RoomID = r.RoomID
    }
    return ev
}

type reservationBody struct {
    Title  string `json:"title"`
    Start  string `json:"start"`
    End    string `json:"end"`
    RoomID flexID `json:"room_id"`
}

// Events handles GET /events/:roomId and returns the room's reservations as
// [{id,title,start,end}].  Unknown rooms yield [].
func (h *ReservationHandler) Events(c echo.Context) error {
    roomID, ok := paramID(c, "roomId")
    if !ok {
        return clientError(c, "invalid room id")
    }
    list, err := h.Service.ListForRoom(c.Request().Context(), roomID)
    if err != nil {
        return internalError(c, h.Log, "list reservations failed", err)
    }
    out := make([]eventJSON, 0, len(list))
    for _, r := range list {
        out = append(out, h.toEvent(r, false))
    }
    return c.JSON(http.StatusOK, out)
}

// Get handles GET /reservations/:id.
func (h *ReservationHandler) Get(c echo.Context) error {
    id, ok := paramID(c, "id")
    if !ok {
        return clientError(c, "invalid id")
    }
    res, err := h.Service.Get(c.Request().Context(), id)
    if err != nil {
        if errors.Is(err, repository.ErrReservationNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"status": "fail"})
        }
        return internalError(c, h.Log, "get reservation failed", err)
    }
    return c.JSON(http.StatusOK, h.toEvent(*res, true))
}

// Reserve handles POST /reserve with {title,start,end,room_id}.
func (h *ReservationHandler) Reserve(c echo.Context) error {
    var body reservationBody
    if err := c.Bind(&body); err != nil {
        return clientError(c, "invalid request body")
    }
    res, err := h.Service.Create(c.Request().Context(), service.ReservationInput{
        Title:  body.Title,
        Start:  body.Start,
        End:    body.End,
        RoomID: uint64(body.RoomID),
    })
    if err != nil {
        if handled, herr := inputError(c, err); handled {
            return herr
        }
        if errors.Is(err, repository.ErrRoomNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"status": "fail", "message": "room not found"})
        }
        return internalError(c, h.Log, "create reservation failed", err)
    }
    return c.JSON(http.StatusOK, echo.Map{"status": "success", "id": res.ID})
}

// Update handles PUT /update/:id with {title,start,end}.  An unknown id
// answers 404 {"status":"fail"}.
func (h *ReservationHandler) Update(c echo.Context) error {
    id, ok := paramID(c, "id")
    if !ok {
        return c.JSON(http.StatusNotFound, echo.Map{"status": "fail"})
    }
    var body reservationBody
    if err := c.Bind(&body); err != nil {
        return clientError(c, "invalid request body")
    }
    _, err := h.Service.Update(c.Request().Context(), id, service.ReservationInput{
        Title: body.Title,
        Start: body.Start,
        End:   body.End,
    })
    if err != nil {
        if errors.Is(err, repository.ErrReservationNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"status": "fail"})
        }
        if handled, herr := inputError(c, err); handled {
            return herr
        }
        return internalError(c, h.Log, "update reservation failed", err)
    }
    return success(c)
}

// Delete handles DELETE /delete/:id.  An unknown id is a soft failure
// reported with 200 and {"status":"error","message":...}.
func (h *ReservationHandler) Delete(c echo.Context) error {
    id, ok := paramID(c, "id")
    if !ok {
        return c.JSON(http.StatusOK, echo.Map{"status": "error", "message": "reservation not found"})
    }
    if err := h.Service.Delete(c.Request().Context(), id); err != nil {
        if errors.Is(err, repository.ErrReservationNotFound) {
            return c.JSON(http.StatusOK, echo.Map{"status": "error", "message": "reservation not found"})
        }
        return internalError(c, h.Log, "delete reservation failed", err)
    }
    return success(c)
}

type batchBody struct {
    Updates []struct {
        ID    flexID `json:"id"`
        Title string `json:"title"`
        Start string `json:"start"`
        End   string `json:"end"`
    } `json:"updates"`
}

// UpdateBatch handles PUT /update_batch.  The response is always
// {"status":"success"} once the batch is accepted; applied and skipped
// counts plus per-item outcomes are reported alongside.
func (h *ReservationHandler) UpdateBatch(c echo.Context) error {
    var body batchBody
    if err := c.Bind(&body); err != nil {
        return clientError(c, "invalid request body")
    }
    items := make([]service.BatchItem, 0, len(body.Updates))
    for _, u := range body.Updates {
        items = append(items, service.BatchItem{ID: uint64(u.ID), Title: u.Title, Start: u.Start, End: u.End})
    }
    report, err := h.Service.UpdateBatch(c.Request().Context(), items)
    if err != nil {
        if handled, herr := inputError(c, err); handled {
            return herr
        }
        return internalError(c, h.Log, "batch update failed", err)
    }
    return c.JSON(http.StatusOK, echo.Map{
        "status":  "success",
        "applied": report.Applied,
        "skipped": report.Skipped,
        "results": report.Results,
    })
}

package router

import (
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/iliyamo/room-reservation/internal/handler"
	"github.com/iliyamo/room-reservation/internal/repository"
	"github.com/iliyamo/room-reservation/internal/service"
)

func TestRoutesRegistered(t *testing.T) {
	e := echo.New()
	roomStore, resStore := repository.NewMemoryStore()
	log := zap.NewNop()
	rooms := service.NewRoomService(roomStore, log)
	reservations := service.NewReservationService(roomStore, resStore, service.NewClock(nil), log)
	passthrough := func(next echo.HandlerFunc) echo.HandlerFunc { return next }

	RegisterRoutes(e, nil, nil)
	RegisterReservations(e, handler.NewReservationHandler(reservations, log), passthrough)
	RegisterRooms(e, handler.NewRoomHandler(rooms, log))

	got := map[string]bool{}
	for _, r := range e.Routes() {
		got[r.Method+" "+r.Path] = true
	}
	for _, want := range []string{
		http.MethodGet + " /healthz",
		http.MethodGet + " /readyz",
		http.MethodGet + " /",
		http.MethodGet + " /events/:roomId",
		http.MethodGet + " /reservations/:id",
		http.MethodPost + " /reserve",
		http.MethodPut + " /update/:id",
		http.MethodDelete + " /delete/:id",
		http.MethodPut + " /update_batch",
		http.MethodGet + " /rooms",
		http.MethodPost + " /rooms",
		http.MethodPost + " /rooms/delete/:id",
		http.MethodPost + " /rooms/edit/:id",
		http.MethodGet + " /api/rooms",
	} {
		assert.True(t, got[want], "missing route %s", want)
	}
}

package handler // handler defines http handlers

import (
    "bytes"    // bytes trims JSON quotes
    "errors"   // errors classifies service failures
    "net/http" // http defines status code constants
    "strconv"  // strconv parses ids

    "github.com/labstack/echo/v4" // echo defines request context types
    "go.uber.org/zap"             // zap logs storage faults

    "github.com/iliyamo/room-reservation/internal/service" // service error types
)

// flexID accepts a JSON number or a numeric string.  Browser calendars often
// send ids taken from DOM attributes as strings.
type flexID uint64

func (f *flexID) UnmarshalJSON(b []byte) error {
    b = bytes.Trim(bytes.TrimSpace(b), `"`)
    if len(b) == 0 || string(b) == "null" {
        *f = 0
        return nil
    }
    n, err := strconv.ParseUint(string(b), 10, 64)
    if err != nil {
        return errors.New("id must be a positive integer")
    }
    *f = flexID(n)
    return nil
}

// paramID parses a numeric path parameter.  Only the canonical decimal form
// is accepted, so /events/01 never aliases /events/1 in the response cache.
func paramID(c echo.Context, name string) (uint64, bool) {
    raw := c.Param(name)
    id, err := strconv.ParseUint(raw, 10, 64)
    if err != nil || id == 0 || strconv.FormatUint(id, 10) != raw {
        return 0, false
    }
    return id, true
}

func success(c echo.Context) error {
    return c.JSON(http.StatusOK, echo.Map{"status": "success"})
}

func clientError(c echo.Context, msg string) error {
    return c.JSON(http.StatusBadRequest, echo.Map{"status": "error", "message": msg})
}

// inputError answers 400 for validation and parse failures.  It reports
// false when err is neither so the caller can continue classifying it.
func inputError(c echo.Context, err error) (bool, error) {
    var pe *service.ParseError
    if errors.As(err, &pe) || errors.Is(err, service.ErrValidation) {
        return true, clientError(c, err.Error())
    }
    return false, nil
}

// internalError logs a storage fault and answers 500 without details.
func internalError(c echo.Context, log *zap.Logger, msg string, err error) error {
    log.Error(msg, zap.Error(err), zap.String("path", c.Path()))
    return c.JSON(http.StatusInternalServerError, echo.Map{"status": "error", "message": "internal error"})
}

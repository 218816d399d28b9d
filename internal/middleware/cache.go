package middleware

import (
    "bytes"
    "context"
    "crypto/sha1"
    "encoding/binary"
    "encoding/json"
    "fmt"
    "net/http"
    "strings"
    "time"

    "github.com/labstack/echo/v4"
    "github.com/redis/go-redis/v9"
    "go.uber.org/zap"

    "github.com/iliyamo/room-reservation/internal/config"
    "github.com/iliyamo/room-reservation/internal/queue"
)

// captureWriter captures response body/status while forwarding to the client.
type captureWriter struct {
    http.ResponseWriter
    status int
    buf    bytes.Buffer
    size   int64
    limit  int64
}
func (cw *captureWriter) WriteHeader(code int) { cw.status = code; cw.ResponseWriter.WriteHeader(code) }
func (cw *captureWriter) Write(b []byte) (int, error) {
    if cw.limit <= 0 || cw.size < cw.limit {
        remain := cw.limit - cw.size
        if cw.limit <= 0 {
            cw.buf.Write(b)
        } else if remain > 0 {
            if int64(len(b)) <= remain {
                cw.buf.Write(b)
            } else {
                cw.buf.Write(b[:remain])
            }
        }
        cw.size += int64(len(b))
    }
    return cw.ResponseWriter.Write(b)
}

// cacheKeyFrom builds "<prefix>:<path>:<sha1>" where the hash covers the
// parts selected by the key strategy.  Keeping the raw path in the key lets
// Invalidate drop every variant of one resource with a single pattern.
func cacheKeyFrom(cfg config.CacheConfig, c echo.Context) string {
    r := c.Request()
    method := r.Method
    query := r.URL.RawQuery

    var parts []string
    switch strings.ToLower(cfg.KeyStrategy) {
    case "path":
        parts = []string{"path"}
    case "method_path":
        parts = []string{"method", method}
    case "method_path_query":
        parts = []string{"method", method, "q", query}
    default: // "path_query"
        parts = []string{"q", query}
    }

    sum := sha1.Sum([]byte(strings.Join(parts, ":")))
    return fmt.Sprintf("%s:%x", pathNamespace(cfg, r.URL.Path), sum[:])
}

func pathNamespace(cfg config.CacheConfig, path string) string {
    return cfg.Prefix + ":" + path
}

// encodePayload packs: [4 bytes status][4 bytes headerLen][headerJSON][body]
func encodePayload(status int, header http.Header, body []byte) ([]byte, error) {
    hdrJSON, err := json.Marshal(header)
    if err != nil {
        return nil, err
    }
    total := 4 + 4 + len(hdrJSON) + len(body)
    out := make([]byte, total)
    binary.BigEndian.PutUint32(out[0:4], uint32(status))
    binary.BigEndian.PutUint32(out[4:8], uint32(len(hdrJSON)))
    copy(out[8:8+len(hdrJSON)], hdrJSON)
    copy(out[8+len(hdrJSON):], body)
    return out, nil
}

func decodePayload(bs []byte) (status int, header http.Header, body []byte, ok bool) {
    if len(bs) < 8 {
        return 0, nil, nil, false
    }
    status = int(binary.BigEndian.Uint32(bs[0:4]))
    hlen := int(binary.BigEndian.Uint32(bs[4:8]))
    if 8+hlen > len(bs) || hlen < 0 {
        return 0, nil, nil, false
    }
    var hdr http.Header
    if hlen > 0 {
        if err := json.Unmarshal(bs[8:8+hlen], &hdr); err != nil {
            return 0, nil, nil, false
        }
    } else {
        hdr = make(http.Header)
    }
    body = bs[8+hlen:]
    return status, hdr, body, true
}

// NewRedisCache stores status, headers and body of successful responses so a
// hit replays exactly what the handler wrote.  Entries live until TTL or
// until Invalidate removes them.
func NewRedisCache(cfg config.CacheConfig, rdb *redis.Client) echo.MiddlewareFunc {
    if !cfg.Enabled || rdb == nil {
        return func(next echo.HandlerFunc) echo.HandlerFunc { return func(c echo.Context) error { return next(c) } }
    }
    ttl := cfg.TTL
    if ttl <= 0 { ttl = 5 * time.Minute } // sane default longer TTL

    maxBody := int64(cfg.MaxBodyBytes)

    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            if !cfg.Methods[strings.ToUpper(c.Request().Method)] {
                return next(c)
            }

            ctx := c.Request().Context()
            key := cacheKeyFrom(cfg, c)

            // Try get from Redis
            if bs, err := rdb.Get(ctx, key).Bytes(); err == nil && len(bs) >= 8 {
                if status, hdr, body, ok := decodePayload(bs); ok {
                    // Restore headers (except hop-by-hop)
                    for k, vals := range hdr {
                        // X-Cache will be set below; skip Content-Length (Echo will handle)
                        if strings.EqualFold(k, "Content-Length") { continue }
                        for _, v := range vals {
                            c.Response().Header().Add(k, v)
                        }
                    }
                    c.Response().Header().Set("X-Cache", "HIT")
                    c.Response().WriteHeader(status)
                    if len(body) > 0 {
                        _, _ = c.Response().Write(body)
                    }
                    return nil
                }
            }

            // Miss: capture
            cw := &captureWriter{ResponseWriter: c.Response().Writer, status: http.StatusOK, limit: maxBody}
            c.Response().Writer = cw
            c.Response().Header().Set("X-Cache", "MISS")

            if err := next(c); err != nil {
                return err
            }

            if cw.status == http.StatusOK {
                // Copy headers from response
                hdr := make(http.Header, len(c.Response().Header()))
                for k, vals := range c.Response().Header() {
                    vv := make([]string, len(vals))
                    copy(vv, vals)
                    hdr[k] = vv
                }
                body := cw.buf.Bytes()
                if maxBody > 0 && int64(len(body)) > maxBody {
                    body = body[:maxBody]
                }
                if payload, err := encodePayload(cw.status, hdr, body); err == nil {
                    _ = rdb.SetEx(context.Background(), key, payload, ttl).Err()
                }
            }
            return nil
        }
    }
}

// Invalidate deletes every cached variant of path.
func Invalidate(ctx context.Context, cfg config.CacheConfig, rdb *redis.Client, path string) (int, error) {
    iter := rdb.Scan(ctx, 0, pathNamespace(cfg, path)+":*", 100).Iterator()
    var keys []string
    for iter.Next(ctx) {
        keys = append(keys, iter.Val())
    }
    if err := iter.Err(); err != nil {
        return 0, err
    }
    if len(keys) == 0 {
        return 0, nil
    }
    n, err := rdb.Del(ctx, keys...).Result()
    return int(n), err
}

// EventsPath is the cached calendar feed of one room.
func EventsPath(roomID uint64) string {
    return fmt.Sprintf("/events/%d", roomID)
}

// CacheInvalidator drops a room's cached events feed whenever one of its
// reservations changes.
type CacheInvalidator struct {
    cfg config.CacheConfig
    rdb *redis.Client
    log *zap.Logger
}

// NewCacheInvalidator returns nil when caching is off so callers can skip
// registering it.
func NewCacheInvalidator(cfg config.CacheConfig, rdb *redis.Client, log *zap.Logger) *CacheInvalidator {
    if !cfg.Enabled || rdb == nil {
        return nil
    }
    return &CacheInvalidator{cfg: cfg, rdb: rdb, log: log.Named("cache")}
}

// OnReservationChange implements service.ChangeListener.
func (ci *CacheInvalidator) OnReservationChange(ctx context.Context, ev queue.ReservationEvent) {
    path := EventsPath(ev.RoomID)
    n, err := Invalidate(ctx, ci.cfg, ci.rdb, path)
    if err != nil {
        ci.log.Warn("cache invalidation failed", zap.String("path", path), zap.Error(err))
        return
    }
    ci.log.Debug("cache invalidated", zap.String("path", path), zap.Int("keys", n))
}

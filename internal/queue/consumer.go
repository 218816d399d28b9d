package queue

import (
    "context"
    "encoding/json"
    "errors"
    "fmt"
    "time"

    amqp "github.com/rabbitmq/amqp091-go"
    "go.uber.org/zap"

    "github.com/iliyamo/room-reservation/internal/config"
)

// StartAuditConsumer connects to RabbitMQ, declares the reservation queue and
// writes one audit entry per event to audit.  It reconnects with exponential
// backoff (capped at 30s) and returns only when ctx is cancelled.
func StartAuditConsumer(ctx context.Context, cfg config.QueueConfig, log *zap.Logger, audit *zap.Logger) error {
    backoff := time.Second
    for {
        conn, err := amqp.DialConfig(cfg.URL, amqp.Config{Dial: amqp.DefaultDial(cfg.DialTimeout)})
        if err != nil {
            log.Warn("audit-consumer: dial failed", zap.Error(err), zap.Duration("retry_in", backoff))
            if !sleep(ctx, backoff) {
                return ctx.Err()
            }
            if backoff < 30*time.Second {
                backoff *= 2
            }
            continue
        }
        backoff = time.Second

        err = consumeLoop(ctx, conn, cfg.QueueName, log, audit)
        _ = conn.Close()
        if ctx.Err() != nil {
            return ctx.Err()
        }
        log.Warn("audit-consumer: consume loop ended, reconnecting", zap.Error(err))
        if !sleep(ctx, 2*time.Second) {
            return ctx.Err()
        }
    }
}

func consumeLoop(ctx context.Context, conn *amqp.Connection, queue string, log, audit *zap.Logger) error {
    ch, err := conn.Channel()
    if err != nil {
        return fmt.Errorf("channel open: %w", err)
    }
    defer func() { _ = ch.Close() }()

    if err := ch.Qos(50, 0, false); err != nil {
        log.Warn("audit-consumer: set QoS failed", zap.Error(err))
    }
    if _, err := declareQueue(ch, queue); err != nil {
        return fmt.Errorf("queue declare: %w", err)
    }
    msgs, err := ch.Consume(queue, "", false, false, false, false, nil)
    if err != nil {
        return fmt.Errorf("queue consume: %w", err)
    }

    for {
        select {
        case <-ctx.Done():
            return ctx.Err()
        case d, ok := <-msgs:
            if !ok {
                return errors.New("deliveries channel closed")
            }
            if err := handleMessage(d.Body, audit); err != nil {
                log.Warn("audit-consumer: handle message failed", zap.Error(err))
                _ = d.Nack(false, false) // reject, do not requeue to avoid tight loops
                continue
            }
            _ = d.Ack(false)
        }
    }
}

func handleMessage(body []byte, audit *zap.Logger) error {
    var ev ReservationEvent
    if err := json.Unmarshal(body, &ev); err != nil {
        return fmt.Errorf("unmarshal: %w", err)
    }
    if ev.Action == "" || ev.ReservationID == 0 {
        return fmt.Errorf("incomplete event: %q", body)
    }
    audit.Info("reservation "+ev.Action,
        zap.Uint64("reservation_id", ev.ReservationID),
        zap.Uint64("room_id", ev.RoomID),
        zap.String("title", ev.Title),
        zap.String("start", ev.Start),
        zap.String("end", ev.End),
        zap.Bool("batch", ev.Batch),
        zap.String("occurred_at", ev.OccurredAt),
    )
    return nil
}

// sleep waits for d and reports false if ctx ended first.
func sleep(ctx context.Context, d time.Duration) bool {
    t := time.NewTimer(d)
    defer t.Stop()
    select {
    case <-ctx.Done():
        return false
    case <-t.C:
        return true
    }
}

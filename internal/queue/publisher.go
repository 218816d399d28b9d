package queue

import (
    "context"
    "encoding/json"
    "sync"
    "time"

    amqp "github.com/rabbitmq/amqp091-go"
    "go.uber.org/zap"

    "github.com/iliyamo/room-reservation/internal/config"
)

// Publisher sends ReservationEvents to the configured queue.  Events are
// buffered and published by Run on a single long-lived connection, so a slow
// or unreachable broker never delays the HTTP request that produced them.
// Failures are logged and the event is dropped.
type Publisher struct {
    cfg    config.QueueConfig
    log    *zap.Logger
    events chan ReservationEvent

    mu   sync.Mutex // guards conn and ch
    conn *amqp.Connection
    ch   *amqp.Channel
}

// NewPublisher returns a Publisher for cfg.  Nothing is sent until Run is
// started.
func NewPublisher(cfg config.QueueConfig, log *zap.Logger) *Publisher {
    size := cfg.BufferSize
    if size < 1 {
        size = 1
    }
    return &Publisher{cfg: cfg, log: log.Named("publisher"), events: make(chan ReservationEvent, size)}
}

// OnReservationChange enqueues ev without blocking.  A full buffer drops the
// event.
func (p *Publisher) OnReservationChange(_ context.Context, ev ReservationEvent) {
    select {
    case p.events <- ev:
    default:
        p.log.Warn("publish buffer full, dropping reservation event",
            zap.String("action", ev.Action),
            zap.Uint64("reservation_id", ev.ReservationID))
    }
}

// Run publishes buffered events until ctx is cancelled, then flushes what is
// still buffered and closes the connection.
func (p *Publisher) Run(ctx context.Context) {
    defer p.Close()
    for {
        select {
        case ev := <-p.events:
            p.send(ctx, ev)
        case <-ctx.Done():
            p.flush()
            return
        }
    }
}

func (p *Publisher) flush() {
    for {
        select {
        case ev := <-p.events:
            ctx, cancel := context.WithTimeout(context.Background(), p.cfg.DialTimeout)
            err := p.send(ctx, ev)
            cancel()
            if err != nil {
                return
            }
        default:
            return
        }
    }
}

func (p *Publisher) send(ctx context.Context, ev ReservationEvent) error {
    err := p.Publish(ctx, ev)
    if err != nil {
        p.log.Warn("publish reservation event failed",
            zap.String("action", ev.Action),
            zap.Uint64("reservation_id", ev.ReservationID),
            zap.Error(err))
    }
    return err
}

// Publish marshals ev and publishes it as a persistent message on the
// default exchange with the queue name as routing key.  The connection is
// opened on first use and reopened after a failure.
func (p *Publisher) Publish(ctx context.Context, ev ReservationEvent) error {
    body, err := json.Marshal(ev)
    if err != nil {
        return err
    }

    p.mu.Lock()
    defer p.mu.Unlock()

    ch, err := p.channel()
    if err != nil {
        return err
    }

    ctx, cancel := context.WithTimeout(ctx, p.cfg.DialTimeout)
    defer cancel()
    err = ch.PublishWithContext(ctx,
        "",              // default exchange
        p.cfg.QueueName, // routing key = queue name
        false,           // mandatory
        false,           // immediate
        amqp.Publishing{
            ContentType:  "application/json",
            DeliveryMode: amqp.Persistent,
            Timestamp:    time.Now().UTC(),
            Body:         body,
        },
    )
    if err != nil {
        p.reset()
    }
    return err
}

// channel returns the open channel, dialing when needed.  Caller holds mu.
func (p *Publisher) channel() (*amqp.Channel, error) {
    if p.ch != nil && !p.ch.IsClosed() && p.conn != nil && !p.conn.IsClosed() {
        return p.ch, nil
    }
    p.reset()

    conn, err := amqp.DialConfig(p.cfg.URL, amqp.Config{Dial: amqp.DefaultDial(p.cfg.DialTimeout)})
    if err != nil {
        return nil, err
    }
    ch, err := conn.Channel()
    if err != nil {
        _ = conn.Close()
        return nil, err
    }
    // Idempotent; durable so messages survive broker restarts.
    if _, err := declareQueue(ch, p.cfg.QueueName); err != nil {
        _ = conn.Close()
        return nil, err
    }
    p.conn, p.ch = conn, ch
    return ch, nil
}

// reset drops the cached connection.  Caller holds mu.
func (p *Publisher) reset() {
    if p.ch != nil {
        _ = p.ch.Close()
    }
    if p.conn != nil {
        _ = p.conn.Close()
    }
    p.conn, p.ch = nil, nil
}

// Close releases the broker connection.
func (p *Publisher) Close() {
    p.mu.Lock()
    defer p.mu.Unlock()
    p.reset()
}

func declareQueue(ch *amqp.Channel, name string) (amqp.Queue, error) {
    return ch.QueueDeclare(
        name,
        true,  // durable
        false, // autoDelete
        false, // exclusive
        false, // noWait
        nil,   // args
    )
}

package queue

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/labstack/gommon/log"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/iliyamo/bus-seating/internal/model"
)

// SeatQueueName is the durable queue seat events are published to.
const SeatQueueName = "seating.events"

const publishTimeout = 10 * time.Second

// Publisher sends seat events to RabbitMQ. Each publish opens its own
// connection and runs in the background, so a broker outage never holds
// up or fails a seat write; errors are logged and dropped. Close waits for
// the publishes still in flight.
type Publisher struct {
	url  string
	send func(ctx context.Context, ev SeatEvent) error

	mu       sync.Mutex
	closed   bool
	inflight sync.WaitGroup
}

// NewPublisher returns a Publisher for the broker at url.
func NewPublisher(url string) *Publisher {
	p := &Publisher{url: url}
	p.send = p.publish
	return p
}

func (p *Publisher) SeatAssigned(ctx context.Context, cfg *model.BusConfig, a *model.SeatAssignment) {
	p.emit(ctx, newSeatEvent(EventSeatAssigned, cfg, a, time.Now()))
}

func (p *Publisher) SeatClaimed(ctx context.Context, cfg *model.BusConfig, a *model.SeatAssignment) {
	p.emit(ctx, newSeatEvent(EventSeatClaimed, cfg, a, time.Now()))
}

func (p *Publisher) SeatReleased(ctx context.Context, a *model.SeatAssignment) {
	p.emit(ctx, newSeatEvent(EventSeatReleased, nil, a, time.Now()))
}

func (p *Publisher) emit(ctx context.Context, ev SeatEvent) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		log.Warnf("rabbitmq: publisher closed, dropping %s %s", ev.Type, ev.ID)
		return
	}
	p.inflight.Add(1)
	p.mu.Unlock()

	ctx = context.WithoutCancel(ctx)
	go func() {
		defer p.inflight.Done()
		ctx, cancel := context.WithTimeout(ctx, publishTimeout)
		defer cancel()
		if err := p.send(ctx, ev); err != nil {
			log.Errorf("rabbitmq: publish %s %s failed: %v", ev.Type, ev.ID, err)
		}
	}()
}

// Close stops accepting events and waits until the in-flight publishes
// finish or ctx is done.
func (p *Publisher) Close(ctx context.Context) error {
	p.mu.Lock()
	p.closed = true
	p.mu.Unlock()

	done := make(chan struct{})
	go func() {
		p.inflight.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// publish delivers one event. Messages are marked as persistent.
func (p *Publisher) publish(ctx context.Context, ev SeatEvent) error {
	conn, err := amqp.DialConfig(p.url, amqp.Config{
		Heartbeat: 10 * time.Second,
		Locale:    "en_US",
		Dial:      amqp.DefaultDial(5 * time.Second),
	})
	if err != nil {
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		return err
	}
	defer func() { _ = ch.Close() }()

	// Ensure the queue exists (idempotent). Durable so messages survive broker restarts.
	if _, err := ch.QueueDeclare(SeatQueueName, true, false, false, false, nil); err != nil {
		return err
	}

	body, err := json.Marshal(ev)
	if err != nil {
		return err
	}

	return ch.PublishWithContext(ctx,
		"",            // default exchange
		SeatQueueName, // routing key = queue name
		false,         // mandatory
		false,         // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    ev.ID,
			Type:         ev.Type,
			Timestamp:    ev.OccurredAt,
			Body:         body,
		},
	)
}

package eventbus

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/m04kA/LaundryBookingService/internal/domain"
	"github.com/m04kA/LaundryBookingService/pkg/metrics"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Publisher публикует события бронирований в durable-очереди RabbitMQ.
// Имя очереди: <queuePrefix>.<тип события>.
// PublishReservation только ставит событие в буфер, доставку выполняет фоновая горутина.
type Publisher struct {
	url         string
	queuePrefix string
	timeout     time.Duration
	metrics     *metrics.Metrics
	log         Logger

	// send доставляет тело события в очередь; подменяется в тестах
	send func(ctx context.Context, queue string, body []byte) error

	events    chan ReservationEvent
	closing   chan struct{}
	done      chan struct{}
	closeOnce sync.Once

	mu       sync.Mutex
	conn     *amqp.Connection
	channel  *amqp.Channel
	declared map[string]bool
}

// NewPublisher создает publisher и запускает горутину доставки.
// Соединение устанавливается лениво при первой доставке, dial ограничен timeout.
// m может быть nil.
func NewPublisher(url, queuePrefix string, timeout time.Duration, bufferSize int, m *metrics.Metrics, log Logger) *Publisher {
	p := newPublisher(url, queuePrefix, timeout, bufferSize, m, log, nil)
	p.send = p.sendAMQP
	go p.run()
	return p
}

func newPublisher(url, queuePrefix string, timeout time.Duration, bufferSize int, m *metrics.Metrics, log Logger,
	send func(ctx context.Context, queue string, body []byte) error) *Publisher {
	if bufferSize <= 0 {
		bufferSize = 1
	}
	return &Publisher{
		url:         url,
		queuePrefix: queuePrefix,
		timeout:     timeout,
		metrics:     m,
		log:         log,
		send:        send,
		events:      make(chan ReservationEvent, bufferSize),
		closing:     make(chan struct{}),
		done:        make(chan struct{}),
		declared:    make(map[string]bool),
	}
}

// Publish синхронно отправляет событие в очередь, соответствующую его типу
func (p *Publisher) Publish(ctx context.Context, event ReservationEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		p.observe(event.Type, err)
		return fmt.Errorf("%w: %v", ErrMarshal, err)
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	if err := p.send(ctx, p.queueName(event.Type), body); err != nil {
		p.observe(event.Type, err)
		return err
	}

	p.observe(event.Type, nil)
	return nil
}

// PublishReservation ставит событие в буфер и сразу возвращает управление.
// Если буфер заполнен или publisher закрыт, событие отбрасывается с предупреждением.
func (p *Publisher) PublishReservation(_ context.Context, eventType EventType, res *domain.Reservation) {
	event := NewReservationEvent(eventType, res)

	select {
	case <-p.closing:
		p.drop(event, ErrClosed)
		return
	default:
	}

	select {
	case p.events <- event:
	default:
		p.drop(event, ErrBufferFull)
	}
}

// Close прекращает приём событий, доставляет уже поставленные в буфер и закрывает соединение
func (p *Publisher) Close() error {
	p.closeOnce.Do(func() { close(p.closing) })
	<-p.done

	p.mu.Lock()
	defer p.mu.Unlock()

	p.resetLocked()
	return nil
}

func (p *Publisher) run() {
	defer close(p.done)

	for {
		select {
		case event := <-p.events:
			p.deliver(event)
		case <-p.closing:
			p.drain()
			return
		}
	}
}

// drain доставляет оставшиеся события; после первой ошибки остальные отбрасываются
func (p *Publisher) drain() {
	for {
		select {
		case event := <-p.events:
			if !p.deliver(event) {
				for {
					select {
					case rest := <-p.events:
						p.drop(rest, ErrClosed)
					default:
						return
					}
				}
			}
		default:
			return
		}
	}
}

func (p *Publisher) deliver(event ReservationEvent) bool {
	if err := p.Publish(context.Background(), event); err != nil {
		p.log.Warn("EventBus: failed to publish %s for reservation id=%d: %v", event.Type, event.ReservationID, err)
		return false
	}
	p.log.Info("EventBus: published %s for reservation id=%d", event.Type, event.ReservationID)
	return true
}

func (p *Publisher) drop(event ReservationEvent, reason error) {
	p.observe(event.Type, reason)
	p.log.Warn("EventBus: dropped %s for reservation id=%d: %v", event.Type, event.ReservationID, reason)
}

func (p *Publisher) sendAMQP(ctx context.Context, queue string, body []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	ch, err := p.ensureChannel(queue)
	if err != nil {
		return err
	}

	err = ch.PublishWithContext(ctx,
		"",    // default exchange
		queue, // routing key = имя очереди
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now().UTC(),
			Body:         body,
		},
	)
	if err != nil {
		p.resetLocked()
		return fmt.Errorf("%w: %v", ErrPublish, err)
	}
	return nil
}

func (p *Publisher) ensureChannel(queue string) (*amqp.Channel, error) {
	if p.conn == nil || p.conn.IsClosed() || p.channel == nil || p.channel.IsClosed() {
		p.resetLocked()

		conn, err := amqp.DialConfig(p.url, amqp.Config{
			Heartbeat: 10 * time.Second,
			Locale:    "en_US",
			Dial:      amqp.DefaultDial(p.timeout),
		})
		if err != nil {
			return nil, fmt.Errorf("%w: dial: %v", ErrNotConnected, err)
		}
		ch, err := conn.Channel()
		if err != nil {
			_ = conn.Close()
			return nil, fmt.Errorf("%w: open channel: %v", ErrNotConnected, err)
		}
		p.conn = conn
		p.channel = ch
	}

	if !p.declared[queue] {
		// durable, не удаляется автоматически, не exclusive
		if _, err := p.channel.QueueDeclare(queue, true, false, false, false, nil); err != nil {
			p.resetLocked()
			return nil, fmt.Errorf("%w: declare queue %s: %v", ErrNotConnected, queue, err)
		}
		p.declared[queue] = true
	}

	return p.channel, nil
}

func (p *Publisher) resetLocked() {
	if p.channel != nil {
		_ = p.channel.Close()
		p.channel = nil
	}
	if p.conn != nil {
		_ = p.conn.Close()
		p.conn = nil
	}
	p.declared = make(map[string]bool)
}

func (p *Publisher) queueName(eventType EventType) string {
	if p.queuePrefix == "" {
		return string(eventType)
	}
	return p.queuePrefix + "." + string(eventType)
}

func (p *Publisher) observe(eventType EventType, err error) {
	if p.metrics == nil {
		return
	}
	status := "ok"
	switch {
	case errors.Is(err, ErrBufferFull), errors.Is(err, ErrClosed):
		status = "dropped"
	case err != nil:
		status = "error"
	}
	p.metrics.EventsPublishedTotal.WithLabelValues(string(eventType), status).Inc()
}

// NewReservationEvent строит событие из бронирования
func NewReservationEvent(eventType EventType, res *domain.Reservation) ReservationEvent {
	event := ReservationEvent{
		Type:          eventType,
		ReservationID: res.ID,
		UserID:        res.UserID,
		MachineID:     res.MachineID,
		StartTime:     res.StartTime,
		EndTime:       res.EndTime,
		Amount:        res.Amount.StringFixed(2),
		Status:        string(res.Status),
		CancelledBy:   res.CancelledBy,
		OccurredAt:    time.Now().UTC(),
	}
	if res.CancelReason != nil {
		reason := string(*res.CancelReason)
		event.CancelReason = &reason
	}
	return event
}

// Package notify delivers domain events to Kafka and to members' inboxes.
package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"clubsphere/internal/logger"
	"clubsphere/internal/model"
	"clubsphere/internal/pkg"
	"clubsphere/internal/service"
)

// Producer is satisfied by *pkg.KafkaProducer.
type Producer interface {
	Send(ctx context.Context, key string, value []byte, headers map[string]string) error
}

type Kafka struct {
	producer Producer
}

func NewKafka(p Producer) *Kafka {
	return &Kafka{producer: p}
}

func (k *Kafka) Notify(ctx context.Context, ev *model.DomainEvent) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return k.producer.Send(ctx, ev.Key(), body, map[string]string{"type": string(ev.Type)})
}

// SendFunc matches pkg.SendEmail with the SMTP config bound.
type SendFunc func(to, subject, htmlBody string) error

// Mail emails the member concerned for the event types members care about.
type Mail struct {
	send SendFunc
}

func NewMail(cfg pkg.SMTPConfig) *Mail {
	return &Mail{send: func(to, subject, body string) error {
		return pkg.SendEmail(cfg, to, subject, body)
	}}
}

func NewMailWithSender(send SendFunc) *Mail {
	return &Mail{send: send}
}

func (m *Mail) Notify(_ context.Context, ev *model.DomainEvent) error {
	subject, headline, ok := mailCopy(ev)
	if !ok || ev.UserEmail == "" {
		return nil
	}
	var rows [][2]string
	if ev.ClubName != "" {
		rows = append(rows, [2]string{"Club", ev.ClubName})
	}
	if ev.EventTitle != "" {
		rows = append(rows, [2]string{"Event", ev.EventTitle})
	}
	if ev.Amount > 0 {
		rows = append(rows, [2]string{"Amount", fmt.Sprintf("%.2f", ev.Amount)})
	}
	if ev.Status != "" && ev.Type == model.EventClubStatusChanged {
		rows = append(rows, [2]string{"Status", ev.Status})
	}
	return m.send(ev.UserEmail, subject, pkg.NoticeHTML("", headline, rows))
}

func mailCopy(ev *model.DomainEvent) (subject, headline string, ok bool) {
	switch ev.Type {
	case model.EventMembershipJoined:
		return "Welcome to the club", "Your membership is active.", true
	case model.EventRegistrationCreated:
		return "You're registered", "Your seat is booked.", true
	case model.EventPaymentSucceeded:
		return "Payment received", "Thanks, your payment went through.", true
	case model.EventClubStatusChanged:
		return "Club status updated", "An administrator reviewed your club.", true
	case model.EventMembershipExpired:
		return "Membership expired", "Your membership has ended. You can renew it any time.", true
	}
	return "", "", false
}

// Multi fans an event out to every notifier and joins their errors.
type Multi []service.Notifier

func (m Multi) Notify(ctx context.Context, ev *model.DomainEvent) error {
	var errs []error
	for _, n := range m {
		if err := n.Notify(ctx, ev); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Async queues events and delivers them from a single worker, so requests never wait on a broker
// or an SMTP server. When the queue is full the event is dropped and logged.
type Async struct {
	next    service.Notifier
	queue   chan *model.DomainEvent
	timeout time.Duration
	log     *logger.Logger
	wg      sync.WaitGroup

	mu     sync.RWMutex
	closed bool
}

func NewAsync(next service.Notifier, size int) *Async {
	if size <= 0 {
		size = 256
	}
	a := &Async{
		next:    next,
		queue:   make(chan *model.DomainEvent, size),
		timeout: 10 * time.Second,
		log:     logger.Named("notify"),
	}
	a.wg.Add(1)
	go a.run()
	return a
}

func (a *Async) Notify(_ context.Context, ev *model.DomainEvent) error {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.closed {
		return errors.New("notifier closed")
	}
	select {
	case a.queue <- ev:
		return nil
	default:
		return fmt.Errorf("notify queue full, dropped %s", ev.Type)
	}
}

func (a *Async) run() {
	defer a.wg.Done()
	for ev := range a.queue {
		ctx, cancel := context.WithTimeout(context.Background(), a.timeout)
		if err := a.next.Notify(ctx, ev); err != nil {
			a.log.Warnw("deliver failed", "type", ev.Type, "error", err)
		}
		cancel()
	}
}

// Close stops accepting events and waits for the queue to drain.
func (a *Async) Close() {
	a.mu.Lock()
	if !a.closed {
		a.closed = true
		close(a.queue)
	}
	a.mu.Unlock()
	a.wg.Wait()
}

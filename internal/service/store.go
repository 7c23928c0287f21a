package service

import (
	"context"
	"errors"
	"time"

	"clubsphere/internal/model"
	"clubsphere/internal/pkg"
	"clubsphere/internal/repository"
)

// The stores are implemented by repository/rdb and repository/mongodb.

type UserStore interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	Update(ctx context.Context, user *model.User) error
	List(ctx context.Context) ([]model.User, error)
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
}

type ClubStore interface {
	Create(ctx context.Context, c *model.Club) error
	GetByID(ctx context.Context, id string) (*model.Club, error)
	GetByName(ctx context.Context, name string) (*model.Club, error)
	GetMany(ctx context.Context, ids []string) ([]model.Club, error)
	List(ctx context.Context, f repository.ClubFilter) ([]model.Club, error)
	ListAfter(ctx context.Context, lastID string, limit int) ([]model.Club, error)
	Update(ctx context.Context, c *model.Club) error
	Delete(ctx context.Context, id string) error
	CountByStatus(ctx context.Context) (map[model.ClubStatus]int64, error)
	SetMembersCount(ctx context.Context, id string, n int64) error
}

type EventStore interface {
	Create(ctx context.Context, e *model.Event) error
	GetByID(ctx context.Context, id string) (*model.Event, error)
	GetMany(ctx context.Context, ids []string) ([]model.Event, error)
	List(ctx context.Context, f repository.EventFilter) ([]model.Event, error)
	Update(ctx context.Context, e *model.Event) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context, scope repository.Scope) (int64, error)
}

type MembershipStore interface {
	// Activate inserts m as active, or promotes the pendingPayment row with m.ID, and bumps the
	// club's membersCount. ErrDuplicate when another active membership exists.
	Activate(ctx context.Context, m *model.Membership) error
	CreatePending(ctx context.Context, m *model.Membership) error
	// Terminate expires an active membership and decrements membersCount.
	Terminate(ctx context.Context, id string) error
	FindActive(ctx context.Context, email, clubID string) (*model.Membership, error)
	FindByPayment(ctx context.Context, paymentID string) (*model.Membership, error)
	ListByUser(ctx context.Context, email string) ([]model.Membership, error)
	ListByClub(ctx context.Context, clubID string) ([]model.Membership, error)
	ListExpiring(ctx context.Context, t time.Time, limit int) ([]model.Membership, error)
	CountActive(ctx context.Context, scope repository.Scope) (int64, error)
}

type RegistrationStore interface {
	// Register fails with ErrDuplicate or, when capacity > 0 is reached, ErrFull.
	Register(ctx context.Context, reg *model.EventRegistration, capacity int) error
	Cancel(ctx context.Context, id string) error
	FindRegistered(ctx context.Context, email, eventID string) (*model.EventRegistration, error)
	ListByUser(ctx context.Context, email string) ([]model.EventRegistration, error)
	ListByEvent(ctx context.Context, eventID string) ([]model.EventRegistration, error)
}

type PaymentStore interface {
	Create(ctx context.Context, p *model.Payment) error
	GetByReference(ctx context.Context, ref string) (*model.Payment, error)
	UpdateStatus(ctx context.Context, id, status string) error
	ListByUser(ctx context.Context, email string) ([]model.Payment, error)
	List(ctx context.Context, scope repository.Scope) ([]model.Payment, error)
	SumSucceeded(ctx context.Context, scope repository.Scope) (float64, error)
}

// Stores bundles one backend's repositories.
type Stores struct {
	Users         UserStore
	Clubs         ClubStore
	Events        EventStore
	Memberships   MembershipStore
	Registrations RegistrationStore
	Payments      PaymentStore
}

// Locker serialises work on a key across API instances.
type Locker interface {
	Acquire(ctx context.Context, key string) (release func(), err error)
}

// NopLocker never blocks. It is used when no redis is configured.
type NopLocker struct{}

func (NopLocker) Acquire(context.Context, string) (func(), error) {
	return func() {}, nil
}

// Notifier publishes domain events. Implementations must not block the request for long.
type Notifier interface {
	Notify(ctx context.Context, ev *model.DomainEvent) error
}

type NopNotifier struct{}

func (NopNotifier) Notify(context.Context, *model.DomainEvent) error { return nil }

type PaymentProvider interface {
	CreateIntent(ctx context.Context, amount int64, currency string, metadata map[string]string) (*pkg.PaymentIntent, error)
	GetIntent(ctx context.Context, id string) (*pkg.PaymentIntent, error)
}

func withLock(ctx context.Context, l Locker, key string, fn func() error) error {
	release, err := l.Acquire(ctx, key)
	if err != nil {
		if errors.Is(err, repository.ErrLocked) {
			return Conflict("Request already in progress")
		}
		return Internal(err)
	}
	defer release()
	return fn()
}

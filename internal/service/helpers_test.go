package service

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"testing"

	"clubsphere/internal/auth"
	"clubsphere/internal/model"
	"clubsphere/internal/pkg"
	"clubsphere/internal/repository"
	"clubsphere/internal/repository/rdb"

	"github.com/glebarez/sqlite"
)

var (
	admin   = auth.Admin{Email: "admin@x.io"}
	manager = auth.Manager{Email: "manager@x.io"}
	rival   = auth.Manager{Email: "rival@x.io"}
	member  = auth.Member{Email: "member@x.io"}
)

func newStores(t *testing.T) Stores {
	t.Helper()
	db, err := rdb.OpenDialector(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), false)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return Stores{
		Users:         rdb.NewUserRepository(db),
		Clubs:         rdb.NewClubRepository(db),
		Events:        rdb.NewEventRepository(db),
		Memberships:   rdb.NewMembershipRepository(db),
		Registrations: rdb.NewRegistrationRepository(db),
		Payments:      rdb.NewPaymentRepository(db),
	}
}

func seedClub(t *testing.T, s Stores, name string, fee float64, managerEmail string) *model.Club {
	t.Helper()
	c := &model.Club{
		ClubName:      name,
		Description:   name + " description",
		Category:      "general",
		Location:      "Dhaka",
		MembershipFee: fee,
		Status:        model.ClubApproved,
		ManagerEmail:  managerEmail,
	}
	if err := s.Clubs.Create(context.Background(), c); err != nil {
		t.Fatalf("seed club: %v", err)
	}
	return c
}

func seedEvent(t *testing.T, s Stores, clubID string, fee float64, capacity int) *model.Event {
	t.Helper()
	e := &model.Event{
		ClubID:       clubID,
		Title:        "Meetup",
		Description:  "monthly",
		Location:     "Hall 2",
		IsPaid:       fee > 0,
		EventFee:     fee,
		MaxAttendees: capacity,
	}
	if err := s.Events.Create(context.Background(), e); err != nil {
		t.Fatalf("seed event: %v", err)
	}
	return e
}

func wantKind(t *testing.T, err error, kind Kind, msg string) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s error %q, got nil", kind, msg)
	}
	var e *Error
	if !errors.As(err, &e) {
		t.Fatalf("expected *Error, got %T: %v", err, err)
	}
	if e.Kind != kind {
		t.Fatalf("kind = %s, want %s (%v)", e.Kind, kind, err)
	}
	if msg != "" && e.Message != msg {
		t.Fatalf("message = %q, want %q", e.Message, msg)
	}
}

type recorder struct {
	mu     sync.Mutex
	events []model.DomainEvent
}

func (r *recorder) Notify(_ context.Context, ev *model.DomainEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, *ev)
	return nil
}

func (r *recorder) count(typ model.DomainEventType) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, ev := range r.events {
		if ev.Type == typ {
			n++
		}
	}
	return n
}

// fakeProvider hands out intents that stay unpaid until succeed is called.
type fakeProvider struct {
	mu      sync.Mutex
	seq     int
	intents map[string]pkg.PaymentIntent
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{intents: map[string]pkg.PaymentIntent{}}
}

func (f *fakeProvider) CreateIntent(_ context.Context, amount int64, currency string, _ map[string]string) (*pkg.PaymentIntent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	id := fmt.Sprintf("pi_%d", f.seq)
	in := pkg.PaymentIntent{ID: id, ClientSecret: id + "_secret", Status: "requires_payment_method", Amount: amount, Currency: currency}
	f.intents[id] = in
	return &in, nil
}

func (f *fakeProvider) GetIntent(_ context.Context, id string) (*pkg.PaymentIntent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	in, ok := f.intents[id]
	if !ok {
		return nil, fmt.Errorf("no such intent %s", id)
	}
	return &in, nil
}

func (f *fakeProvider) succeed(id string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	in := f.intents[id]
	in.Status = model.PaymentSucceeded
	f.intents[id] = in
}

type busyLocker struct{}

func (busyLocker) Acquire(context.Context, string) (func(), error) {
	return nil, repository.ErrLocked
}

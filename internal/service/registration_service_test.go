package service

import (
	"context"
	"testing"
)

func TestRegistrationFlow(t *testing.T) {
	ctx := context.Background()
	s := newStores(t)
	notes := &recorder{}
	svc := NewRegistrationService(s.Registrations, s.Events, s.Clubs, nil, notes)
	club := seedClub(t, s, "Club A", 0, manager.Email)
	event := seedEvent(t, s, club.ID, 0, 0)

	if ok, err := svc.Check(ctx, member, event.ID); err != nil || ok {
		t.Fatalf("Check before register = %v, %v", ok, err)
	}
	reg, err := svc.Register(ctx, member, event.ID)
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if reg.ClubID != club.ID {
		t.Fatalf("registration club = %q, want %q", reg.ClubID, club.ID)
	}
	if ok, _ := svc.Check(ctx, member, event.ID); !ok {
		t.Fatal("Check after register = false")
	}

	_, err = svc.Register(ctx, member, event.ID)
	wantKind(t, err, KindConflict, "Already registered")

	mine, err := svc.ListMine(ctx, member)
	if err != nil || len(mine) != 1 {
		t.Fatalf("ListMine = %d, %v", len(mine), err)
	}
	if mine[0].Event == nil || mine[0].Event.Title != "Meetup" || mine[0].ClubName != "Club A" {
		t.Fatalf("view = %+v", mine[0])
	}

	if err := svc.Cancel(ctx, member, event.ID); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	wantKind(t, svc.Cancel(ctx, member, event.ID), KindNotFound, "Registration not found")
	if ok, _ := svc.Check(ctx, member, event.ID); ok {
		t.Fatal("Check after cancel = true")
	}
	if notes.count("registration.created") != 1 || notes.count("registration.cancelled") != 1 {
		t.Fatalf("events = %+v", notes.events)
	}
}

func TestRegistrationRejections(t *testing.T) {
	ctx := context.Background()
	s := newStores(t)
	svc := NewRegistrationService(s.Registrations, s.Events, s.Clubs, nil, nil)
	club := seedClub(t, s, "Club A", 0, manager.Email)
	paid := seedEvent(t, s, club.ID, 15, 0)
	small := seedEvent(t, s, club.ID, 0, 1)

	_, err := svc.Register(ctx, member, paid.ID)
	wantKind(t, err, KindPaymentRequired, "Payment required for this event")

	_, err = svc.Register(ctx, member, "missing")
	wantKind(t, err, KindNotFound, "Event not found")

	if _, err := svc.Register(ctx, admin, small.ID); err != nil {
		t.Fatalf("first seat: %v", err)
	}
	_, err = svc.Register(ctx, member, small.ID)
	wantKind(t, err, KindConflict, "Event is full")
}

func TestRegistrationListForEvent(t *testing.T) {
	ctx := context.Background()
	s := newStores(t)
	svc := NewRegistrationService(s.Registrations, s.Events, s.Clubs, nil, nil)
	club := seedClub(t, s, "Club A", 0, manager.Email)
	event := seedEvent(t, s, club.ID, 0, 0)
	if _, err := svc.Register(ctx, member, event.ID); err != nil {
		t.Fatalf("register: %v", err)
	}

	if list, err := svc.ListForEvent(ctx, manager, event.ID); err != nil || len(list) != 1 {
		t.Fatalf("owner ListForEvent = %d, %v", len(list), err)
	}
	_, err := svc.ListForEvent(ctx, rival, event.ID)
	wantKind(t, err, KindForbidden, "Not authorized")

	// Once the club is gone only admins can see the list.
	if err := s.Clubs.Delete(ctx, club.ID); err != nil {
		t.Fatalf("delete club: %v", err)
	}
	_, err = svc.ListForEvent(ctx, manager, event.ID)
	wantKind(t, err, KindForbidden, "Not authorized")
	if _, err := svc.ListForEvent(ctx, admin, event.ID); err != nil {
		t.Fatalf("admin ListForEvent: %v", err)
	}
}

package service

import (
	"context"
	"errors"

	"clubsphere/internal/auth"
	"clubsphere/internal/logger"
	"clubsphere/internal/model"
	"clubsphere/internal/repository"
)

type RegistrationService struct {
	registrations RegistrationStore
	events        EventStore
	clubs         ClubStore
	locker        Locker
	notifier      Notifier
	log           *logger.Logger
}

func NewRegistrationService(registrations RegistrationStore, events EventStore, clubs ClubStore, locker Locker, notifier Notifier) *RegistrationService {
	if locker == nil {
		locker = NopLocker{}
	}
	return &RegistrationService{
		registrations: registrations,
		events:        events,
		clubs:         clubs,
		locker:        locker,
		notifier:      notifier,
		log:           logger.Named("registration"),
	}
}

// RegistrationView is a registration with its event and club names filled in.
type RegistrationView struct {
	model.EventRegistration
	Event    *model.EventSummary `json:"event,omitempty"`
	ClubName string              `json:"clubName,omitempty"`
}

func registrationLockKey(email, eventID string) string {
	return "registration:" + email + ":" + eventID
}

// registrationError maps the store's refusal reasons onto API errors.
func registrationError(err error) error {
	switch {
	case errors.Is(err, repository.ErrDuplicate):
		return Conflict("Already registered")
	case errors.Is(err, repository.ErrFull):
		return Conflict("Event is full")
	}
	return Internal(err)
}

// Register is the free path. Paid events go through the payment flow.
func (s *RegistrationService) Register(ctx context.Context, p auth.Principal, eventID string) (*model.EventRegistration, error) {
	eventID, err := required("eventId", eventID)
	if err != nil {
		return nil, err
	}
	event, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		return nil, lookup(err, "Event not found")
	}
	if event.RequiresPayment() {
		return nil, PaymentRequired("Payment required for this event")
	}

	email := auth.EmailOf(p)
	reg := &model.EventRegistration{EventID: event.ID, UserEmail: email, ClubID: event.ClubID}
	err = withLock(ctx, s.locker, registrationLockKey(email, event.ID), func() error {
		if _, err := s.registrations.FindRegistered(ctx, email, event.ID); err == nil {
			return Conflict("Already registered")
		} else if !errors.Is(err, repository.ErrNotFound) {
			return Internal(err)
		}
		if err := s.registrations.Register(ctx, reg, event.MaxAttendees); err != nil {
			return registrationError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	publish(ctx, s.notifier, s.log, &model.DomainEvent{
		Type:       model.EventRegistrationCreated,
		UserEmail:  email,
		ClubID:     event.ClubID,
		EventID:    event.ID,
		EventTitle: event.Title,
	})
	return reg, nil
}

func (s *RegistrationService) Cancel(ctx context.Context, p auth.Principal, eventID string) error {
	eventID, err := required("eventId", eventID)
	if err != nil {
		return err
	}
	email := auth.EmailOf(p)
	var clubID string
	err = withLock(ctx, s.locker, registrationLockKey(email, eventID), func() error {
		reg, err := s.registrations.FindRegistered(ctx, email, eventID)
		if err != nil {
			return lookup(err, "Registration not found")
		}
		clubID = reg.ClubID
		if err := s.registrations.Cancel(ctx, reg.ID); err != nil {
			return lookup(err, "Registration not found")
		}
		return nil
	})
	if err != nil {
		return err
	}

	publish(ctx, s.notifier, s.log, &model.DomainEvent{
		Type:      model.EventRegistrationCancel,
		UserEmail: email,
		ClubID:    clubID,
		EventID:   eventID,
	})
	return nil
}

func (s *RegistrationService) Check(ctx context.Context, p auth.Principal, eventID string) (bool, error) {
	_, err := s.registrations.FindRegistered(ctx, auth.EmailOf(p), eventID)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, repository.ErrNotFound):
		return false, nil
	}
	return false, Internal(err)
}

func (s *RegistrationService) ListMine(ctx context.Context, p auth.Principal) ([]RegistrationView, error) {
	list, err := s.registrations.ListByUser(ctx, auth.EmailOf(p))
	if err != nil {
		return nil, Internal(err)
	}
	eventIDs := make([]string, 0, len(list))
	clubIDs := make([]string, 0, len(list))
	for _, r := range list {
		eventIDs = append(eventIDs, r.EventID)
		clubIDs = append(clubIDs, r.ClubID)
	}
	events, err := s.events.GetMany(ctx, dedupe(eventIDs))
	if err != nil {
		return nil, Internal(err)
	}
	byEvent := make(map[string]*model.Event, len(events))
	for i := range events {
		byEvent[events[i].ID] = &events[i]
	}
	clubs, err := clubsByID(ctx, s.clubs, clubIDs)
	if err != nil {
		return nil, err
	}

	views := make([]RegistrationView, 0, len(list))
	for _, r := range list {
		v := RegistrationView{EventRegistration: r}
		if e, ok := byEvent[r.EventID]; ok {
			v.Event = e.Summary()
		}
		if c, ok := clubs[r.ClubID]; ok {
			v.ClubName = c.ClubName
		}
		views = append(views, v)
	}
	return views, nil
}

// ListForEvent requires ownership of the event's club. Events whose club is gone are admin-only.
func (s *RegistrationService) ListForEvent(ctx context.Context, p auth.Principal, eventID string) ([]model.EventRegistration, error) {
	event, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		return nil, lookup(err, "Event not found")
	}
	var manager string
	club, err := s.clubs.GetByID(ctx, event.ClubID)
	switch {
	case err == nil:
		manager = club.ManagerEmail
	case !errors.Is(err, repository.ErrNotFound):
		return nil, Internal(err)
	}
	if !auth.Owns(p, manager) {
		return nil, Forbidden("Not authorized")
	}

	list, err := s.registrations.ListByEvent(ctx, event.ID)
	if err != nil {
		return nil, Internal(err)
	}
	return list, nil
}

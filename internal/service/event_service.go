package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"clubsphere/internal/auth"
	"clubsphere/internal/model"
	"clubsphere/internal/repository"
)

type EventService struct {
	events EventStore
	clubs  ClubStore
}

func NewEventService(events EventStore, clubs ClubStore) *EventService {
	return &EventService{events: events, clubs: clubs}
}

type CreateEventInput struct {
	ClubID       string
	Title        string
	Description  string
	EventDate    time.Time
	Location     string
	IsPaid       bool
	EventFee     float64
	MaxAttendees int
	BannerImage  string
}

type UpdateEventInput struct {
	Title        *string
	Description  *string
	EventDate    *time.Time
	Location     *string
	IsPaid       *bool
	EventFee     *float64
	MaxAttendees *int
	BannerImage  *string
}

type EventQuery struct {
	Search string
	ClubID string
	Sort   string
}

// EventDetail is an event with its club's name filled in.
type EventDetail struct {
	*model.Event
	ClubName string `json:"clubName,omitempty"`
}

func (s *EventService) Create(ctx context.Context, p auth.Principal, in CreateEventInput) (*model.Event, error) {
	clubID, err := required("clubId", in.ClubID)
	if err != nil {
		return nil, err
	}
	club, err := s.clubs.GetByID(ctx, clubID)
	if err != nil {
		return nil, lookup(err, "Club not found")
	}
	if !auth.Owns(p, club.ManagerEmail) {
		return nil, Forbidden("Not authorized to create event for this club")
	}

	event := &model.Event{
		ClubID:       club.ID,
		EventDate:    in.EventDate,
		IsPaid:       in.IsPaid,
		EventFee:     in.EventFee,
		MaxAttendees: in.MaxAttendees,
		BannerImage:  strings.TrimSpace(in.BannerImage),
	}
	if event.Title, err = required("title", in.Title); err != nil {
		return nil, err
	}
	if event.Description, err = required("description", in.Description); err != nil {
		return nil, err
	}
	if event.Location, err = required("location", in.Location); err != nil {
		return nil, err
	}
	if in.EventDate.IsZero() {
		return nil, Validation("eventDate is required")
	}
	if err := validateEventNumbers(event); err != nil {
		return nil, err
	}

	if err := s.events.Create(ctx, event); err != nil {
		return nil, Internal(err)
	}
	return event, nil
}

func validateEventNumbers(e *model.Event) error {
	if err := nonNegative("eventFee", e.EventFee); err != nil {
		return err
	}
	if e.MaxAttendees < 0 {
		return Validation("maxAttendees must be zero or more")
	}
	return nil
}

func (s *EventService) ListPublic(ctx context.Context, q EventQuery) ([]model.Event, error) {
	list, err := s.events.List(ctx, repository.EventFilter{
		ClubID: strings.TrimSpace(q.ClubID),
		Search: strings.TrimSpace(q.Search),
		Sort:   repository.ParseEventSort(q.Sort),
	})
	if err != nil {
		return nil, Internal(err)
	}
	return list, nil
}

func (s *EventService) Get(ctx context.Context, id string) (*EventDetail, error) {
	event, err := s.events.GetByID(ctx, id)
	if err != nil {
		return nil, lookup(err, "Event not found")
	}
	detail := &EventDetail{Event: event}
	club, err := s.clubs.GetByID(ctx, event.ClubID)
	switch {
	case err == nil:
		detail.ClubName = club.ClubName
	case !errors.Is(err, repository.ErrNotFound):
		return nil, Internal(err)
	}
	return detail, nil
}

// parentManager returns the managerEmail of the event's club, or "" when the club is gone.
func (s *EventService) parentManager(ctx context.Context, clubID string) (string, bool, error) {
	club, err := s.clubs.GetByID(ctx, clubID)
	if errors.Is(err, repository.ErrNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, Internal(err)
	}
	return club.ManagerEmail, true, nil
}

func (s *EventService) Update(ctx context.Context, p auth.Principal, id string, in UpdateEventInput) (*model.Event, error) {
	event, err := s.events.GetByID(ctx, id)
	if err != nil {
		return nil, lookup(err, "Event not found")
	}
	manager, found, err := s.parentManager(ctx, event.ClubID)
	if err != nil {
		return nil, err
	}
	// Without a parent club only admins may edit.
	if (found && !auth.Owns(p, manager)) || (!found && !isAdmin(p)) {
		return nil, Forbidden("Not authorized to update this event")
	}

	if err := patchRequired("title", &event.Title, in.Title); err != nil {
		return nil, err
	}
	if err := patchRequired("description", &event.Description, in.Description); err != nil {
		return nil, err
	}
	if err := patchRequired("location", &event.Location, in.Location); err != nil {
		return nil, err
	}
	patchOptional(&event.BannerImage, in.BannerImage)
	if in.EventDate != nil {
		if in.EventDate.IsZero() {
			return nil, Validation("eventDate cannot be empty")
		}
		event.EventDate = *in.EventDate
	}
	if in.IsPaid != nil {
		event.IsPaid = *in.IsPaid
	}
	if in.EventFee != nil {
		event.EventFee = *in.EventFee
	}
	if in.MaxAttendees != nil {
		event.MaxAttendees = *in.MaxAttendees
	}
	if err := validateEventNumbers(event); err != nil {
		return nil, err
	}

	if err := s.events.Update(ctx, event); err != nil {
		return nil, lookup(err, "Event not found")
	}
	return event, nil
}

// Delete lets anyone through the route guard remove an event whose club no longer exists.
func (s *EventService) Delete(ctx context.Context, p auth.Principal, id string) error {
	event, err := s.events.GetByID(ctx, id)
	if err != nil {
		return lookup(err, "Event not found")
	}
	manager, found, err := s.parentManager(ctx, event.ClubID)
	if err != nil {
		return err
	}
	if found && !auth.Owns(p, manager) {
		return Forbidden("Not authorized to delete this event")
	}
	if err := s.events.Delete(ctx, id); err != nil {
		return lookup(err, "Event not found")
	}
	return nil
}

func isAdmin(p auth.Principal) bool {
	_, ok := p.(auth.Admin)
	return ok
}

package model

import "time"

type DomainEventType string

const (
	EventMembershipJoined    DomainEventType = "membership.joined"
	EventMembershipLeft      DomainEventType = "membership.left"
	EventMembershipExpired   DomainEventType = "membership.expired"
	EventRegistrationCreated DomainEventType = "registration.created"
	EventRegistrationCancel  DomainEventType = "registration.cancelled"
	EventPaymentSucceeded    DomainEventType = "payment.succeeded"
	EventClubStatusChanged   DomainEventType = "club.status_changed"
)

// DomainEvent is published after a state change has been committed.
type DomainEvent struct {
	Type       DomainEventType `json:"type"`
	UserEmail  string          `json:"userEmail,omitempty"`
	ClubID     string          `json:"clubId,omitempty"`
	ClubName   string          `json:"clubName,omitempty"`
	EventID    string          `json:"eventId,omitempty"`
	EventTitle string          `json:"eventTitle,omitempty"`
	Status     string          `json:"status,omitempty"`
	Amount     float64         `json:"amount,omitempty"`
	OccurredAt time.Time       `json:"occurredAt"`
}

// Key groups related events on one partition.
func (e *DomainEvent) Key() string {
	if e.ClubID != "" {
		return e.ClubID
	}
	return e.UserEmail
}

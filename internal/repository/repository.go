// Package repository holds what every store backend shares: sentinel errors
// and the query filters the services build.
package repository

import (
	"errors"

	"clubsphere/internal/model"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate record")
	// ErrFull is returned when an event has no seats left.
	ErrFull = errors.New("capacity reached")
	// ErrLocked is returned by lockers when another request holds the key.
	ErrLocked = errors.New("lock held")
)

type ClubSort string

const (
	ClubNewest  ClubSort = "newest"
	ClubOldest  ClubSort = "oldest"
	ClubFeeAsc  ClubSort = "fee-asc"
	ClubFeeDesc ClubSort = "fee-desc"
)

// ParseClubSort falls back to newest for anything unknown.
func ParseClubSort(s string) ClubSort {
	switch ClubSort(s) {
	case ClubOldest, ClubFeeAsc, ClubFeeDesc:
		return ClubSort(s)
	}
	return ClubNewest
}

// ClubFilter narrows a club listing. Zero fields do not filter.
type ClubFilter struct {
	Status       model.ClubStatus
	ManagerEmail string
	Category     string
	// Search is matched as a literal, case-insensitive substring of the club name.
	Search string
	Sort   ClubSort
}

type EventSort string

const (
	EventSoonest EventSort = "soonest"
	EventNewest  EventSort = "newest"
	EventOldest  EventSort = "oldest"
	EventFeeAsc  EventSort = "fee-asc"
	EventFeeDesc EventSort = "fee-desc"
)

func ParseEventSort(s string) EventSort {
	switch EventSort(s) {
	case EventNewest, EventOldest, EventFeeAsc, EventFeeDesc:
		return EventSort(s)
	}
	return EventSoonest
}

type EventFilter struct {
	ClubID string
	Search string
	Sort   EventSort
}

// Scope restricts rollups and listings to a set of clubs. A nil Scope means every club;
// an empty, non-nil Scope matches nothing.
type Scope []string

func AllClubs() Scope { return nil }

func (s Scope) All() bool { return s == nil }

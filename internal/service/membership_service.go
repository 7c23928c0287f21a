package service

import (
	"context"
	"errors"

	"clubsphere/internal/auth"
	"clubsphere/internal/logger"
	"clubsphere/internal/model"
	"clubsphere/internal/repository"
)

type MembershipService struct {
	memberships MembershipStore
	clubs       ClubStore
	locker      Locker
	notifier    Notifier
	log         *logger.Logger
}

func NewMembershipService(memberships MembershipStore, clubs ClubStore, locker Locker, notifier Notifier) *MembershipService {
	if locker == nil {
		locker = NopLocker{}
	}
	return &MembershipService{
		memberships: memberships,
		clubs:       clubs,
		locker:      locker,
		notifier:    notifier,
		log:         logger.Named("membership"),
	}
}

// MembershipView is a membership with a short description of its club.
type MembershipView struct {
	model.Membership
	Club *model.ClubSummary `json:"club,omitempty"`
}

func membershipLockKey(email, clubID string) string {
	return "membership:" + email + ":" + clubID
}

// Join is the free path. Clubs with a fee go through the payment flow.
func (s *MembershipService) Join(ctx context.Context, p auth.Principal, clubID string) (*model.Membership, error) {
	clubID, err := required("clubId", clubID)
	if err != nil {
		return nil, err
	}
	club, err := s.clubs.GetByID(ctx, clubID)
	if err != nil {
		return nil, lookup(err, "Club not found")
	}
	if club.MembershipFee > 0 {
		return nil, PaymentRequired("This club requires payment. Please use payment flow.")
	}

	email := auth.EmailOf(p)
	m := &model.Membership{UserEmail: email, ClubID: club.ID}
	err = withLock(ctx, s.locker, membershipLockKey(email, club.ID), func() error {
		if _, err := s.memberships.FindActive(ctx, email, club.ID); err == nil {
			return Conflict("Already a member")
		} else if !errors.Is(err, repository.ErrNotFound) {
			return Internal(err)
		}
		if err := s.memberships.Activate(ctx, m); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				return Conflict("Already a member")
			}
			return Internal(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	publish(ctx, s.notifier, s.log, &model.DomainEvent{
		Type:      model.EventMembershipJoined,
		UserEmail: email,
		ClubID:    club.ID,
		ClubName:  club.ClubName,
	})
	return m, nil
}

// Leave expires the caller's active membership and frees its place in membersCount.
func (s *MembershipService) Leave(ctx context.Context, p auth.Principal, clubID string) error {
	clubID, err := required("clubId", clubID)
	if err != nil {
		return err
	}
	email := auth.EmailOf(p)
	err = withLock(ctx, s.locker, membershipLockKey(email, clubID), func() error {
		m, err := s.memberships.FindActive(ctx, email, clubID)
		if err != nil {
			return lookup(err, "Membership not found")
		}
		if err := s.memberships.Terminate(ctx, m.ID); err != nil {
			return lookup(err, "Membership not found")
		}
		return nil
	})
	if err != nil {
		return err
	}

	publish(ctx, s.notifier, s.log, &model.DomainEvent{
		Type:      model.EventMembershipLeft,
		UserEmail: email,
		ClubID:    clubID,
	})
	return nil
}

func (s *MembershipService) Check(ctx context.Context, p auth.Principal, clubID string) (bool, error) {
	_, err := s.memberships.FindActive(ctx, auth.EmailOf(p), clubID)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, repository.ErrNotFound):
		return false, nil
	}
	return false, Internal(err)
}

func (s *MembershipService) ListMine(ctx context.Context, p auth.Principal) ([]MembershipView, error) {
	list, err := s.memberships.ListByUser(ctx, auth.EmailOf(p))
	if err != nil {
		return nil, Internal(err)
	}
	ids := make([]string, 0, len(list))
	for _, m := range list {
		ids = append(ids, m.ClubID)
	}
	clubs, err := clubsByID(ctx, s.clubs, ids)
	if err != nil {
		return nil, err
	}

	views := make([]MembershipView, 0, len(list))
	for _, m := range list {
		v := MembershipView{Membership: m}
		if c, ok := clubs[m.ClubID]; ok {
			v.Club = c.Summary()
		}
		views = append(views, v)
	}
	return views, nil
}

func (s *MembershipService) ListClubMembers(ctx context.Context, p auth.Principal, clubID string) ([]model.Membership, error) {
	club, err := s.clubs.GetByID(ctx, clubID)
	if err != nil {
		return nil, lookup(err, "Club not found")
	}
	if !auth.Owns(p, club.ManagerEmail) {
		return nil, Forbidden("Not authorized")
	}
	list, err := s.memberships.ListByClub(ctx, club.ID)
	if err != nil {
		return nil, Internal(err)
	}
	return list, nil
}

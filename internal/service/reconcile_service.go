package service

import (
	"context"
	"errors"
	"time"

	"clubsphere/internal/logger"
	"clubsphere/internal/model"
	"clubsphere/internal/repository"
)

const defaultBatchSize = 500

// Reconciler repairs membersCount drift and expires lapsed memberships. It runs out of band.
type Reconciler struct {
	clubs       ClubStore
	memberships MembershipStore
	notifier    Notifier
	batchSize   int
	log         *logger.Logger
}

func NewReconciler(clubs ClubStore, memberships MembershipStore, notifier Notifier, batchSize int) *Reconciler {
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}
	return &Reconciler{
		clubs:       clubs,
		memberships: memberships,
		notifier:    notifier,
		batchSize:   batchSize,
		log:         logger.Named("reconcile"),
	}
}

type ReconcileReport struct {
	Scanned int `json:"scanned"`
	Updated int `json:"updated"`
}

// ReconcileMembers walks all clubs in id order and rewrites membersCount wherever it differs from
// the number of active memberships.
func (r *Reconciler) ReconcileMembers(ctx context.Context) (ReconcileReport, error) {
	var report ReconcileReport
	lastID := ""
	for {
		clubs, err := r.clubs.ListAfter(ctx, lastID, r.batchSize)
		if err != nil {
			return report, err
		}
		if len(clubs) == 0 {
			return report, nil
		}
		for _, c := range clubs {
			report.Scanned++
			actual, err := r.memberships.CountActive(ctx, repository.Scope{c.ID})
			if err != nil {
				return report, err
			}
			if actual == c.MembersCount {
				continue
			}
			if err := r.clubs.SetMembersCount(ctx, c.ID, actual); err != nil {
				return report, err
			}
			report.Updated++
			r.log.Infow("members count corrected", "club", c.ID, "name", c.ClubName, "was", c.MembersCount, "now", actual)
		}
		lastID = clubs[len(clubs)-1].ID
	}
}

// ExpireMemberships ends every active membership whose expiresAt is before now.
func (r *Reconciler) ExpireMemberships(ctx context.Context, now time.Time) (int, error) {
	expired := 0
	for {
		batch, err := r.memberships.ListExpiring(ctx, now, r.batchSize)
		if err != nil {
			return expired, err
		}
		if len(batch) == 0 {
			return expired, nil
		}
		for _, m := range batch {
			if err := r.memberships.Terminate(ctx, m.ID); err != nil {
				// Someone else ended it between the list and the update.
				if errors.Is(err, repository.ErrNotFound) {
					continue
				}
				return expired, err
			}
			expired++
			publish(ctx, r.notifier, r.log, &model.DomainEvent{
				Type:      model.EventMembershipExpired,
				UserEmail: m.UserEmail,
				ClubID:    m.ClubID,
			})
		}
	}
}

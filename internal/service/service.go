// Package service holds the business rules. Handlers call it with an auth.Principal and get back
// models or a *Error.
package service

import (
	"context"
	"strings"
	"time"

	"clubsphere/internal/auth"
	"clubsphere/internal/logger"
	"clubsphere/internal/model"
	"clubsphere/internal/repository"
)

// required trims s and fails with a Validation error naming field when nothing is left.
func required(field, s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", Validation("%s is required", field)
	}
	return s, nil
}

// patchRequired applies an optional update to a required field. nil keeps dst.
func patchRequired(field string, dst *string, v *string) error {
	if v == nil {
		return nil
	}
	s := strings.TrimSpace(*v)
	if s == "" {
		return Validation("%s cannot be empty", field)
	}
	*dst = s
	return nil
}

func patchOptional(dst *string, v *string) {
	if v != nil {
		*dst = strings.TrimSpace(*v)
	}
}

// patchKept applies an update only when it is non-blank.
func patchKept(dst *string, v *string) {
	if v != nil {
		if s := strings.TrimSpace(*v); s != "" {
			*dst = s
		}
	}
}

func nonNegative(field string, v float64) error {
	if v < 0 {
		return Validation("%s must be zero or more", field)
	}
	return nil
}

// publish hands ev to the notifier. Failures are logged and dropped.
func publish(ctx context.Context, n Notifier, log *logger.Logger, ev *model.DomainEvent) {
	if n == nil {
		return
	}
	ev.OccurredAt = time.Now().UTC()
	if err := n.Notify(ctx, ev); err != nil {
		log.Warnw("notify failed", "type", ev.Type, "club", ev.ClubID, "user", ev.UserEmail, "error", err)
	}
}

// managedScope is the set of clubs whose managerEmail is the caller's. It is never nil.
func managedScope(ctx context.Context, clubs ClubStore, email string) (repository.Scope, []model.Club, error) {
	list, err := clubs.List(ctx, repository.ClubFilter{ManagerEmail: email})
	if err != nil {
		return nil, nil, Internal(err)
	}
	scope := make(repository.Scope, 0, len(list))
	for _, c := range list {
		scope = append(scope, c.ID)
	}
	return scope, list, nil
}

// visibleScope is every club for admins and the managed clubs for everyone else.
func visibleScope(ctx context.Context, clubs ClubStore, p auth.Principal) (repository.Scope, error) {
	if _, ok := p.(auth.Admin); ok {
		return repository.AllClubs(), nil
	}
	scope, _, err := managedScope(ctx, clubs, auth.EmailOf(p))
	return scope, err
}

func clubsByID(ctx context.Context, clubs ClubStore, ids []string) (map[string]*model.Club, error) {
	list, err := clubs.GetMany(ctx, dedupe(ids))
	if err != nil {
		return nil, Internal(err)
	}
	out := make(map[string]*model.Club, len(list))
	for i := range list {
		out[list[i].ID] = &list[i]
	}
	return out, nil
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := ids[:0:0]
	for _, id := range ids {
		if _, ok := seen[id]; ok || id == "" {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

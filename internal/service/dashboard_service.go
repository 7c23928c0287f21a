package service

import (
	"context"

	"clubsphere/internal/auth"
	"clubsphere/internal/model"
	"clubsphere/internal/repository"
)

type DashboardService struct {
	stores Stores
}

func NewDashboardService(stores Stores) *DashboardService {
	return &DashboardService{stores: stores}
}

type ClubCounts struct {
	Total    int64 `json:"total"`
	Approved int64 `json:"approved"`
	Pending  int64 `json:"pending"`
	Rejected int64 `json:"rejected"`
}

type AdminStats struct {
	TotalUsers       int64      `json:"totalUsers"`
	TotalClubs       ClubCounts `json:"totalClubs"`
	TotalMemberships int64      `json:"totalMemberships"`
	TotalEvents      int64      `json:"totalEvents"`
	TotalRevenue     float64    `json:"totalRevenue"`
}

type ManagerStats struct {
	TotalClubs   int64   `json:"totalClubs"`
	TotalMembers int64   `json:"totalMembers"`
	TotalEvents  int64   `json:"totalEvents"`
	TotalRevenue float64 `json:"totalRevenue"`
}

func (s *DashboardService) Admin(ctx context.Context) (*AdminStats, error) {
	var stats AdminStats
	var err error

	if stats.TotalUsers, err = s.stores.Users.Count(ctx); err != nil {
		return nil, Internal(err)
	}
	byStatus, err := s.stores.Clubs.CountByStatus(ctx)
	if err != nil {
		return nil, Internal(err)
	}
	for _, n := range byStatus {
		stats.TotalClubs.Total += n
	}
	stats.TotalClubs.Approved = byStatus[model.ClubApproved]
	stats.TotalClubs.Pending = byStatus[model.ClubPending]
	stats.TotalClubs.Rejected = byStatus[model.ClubRejected]

	all := repository.AllClubs()
	if stats.TotalMemberships, err = s.stores.Memberships.CountActive(ctx, all); err != nil {
		return nil, Internal(err)
	}
	if stats.TotalEvents, err = s.stores.Events.Count(ctx, all); err != nil {
		return nil, Internal(err)
	}
	if stats.TotalRevenue, err = s.stores.Payments.SumSucceeded(ctx, all); err != nil {
		return nil, Internal(err)
	}
	return &stats, nil
}

// Manager rolls up the clubs the caller manages. Admins get their own clubs too, not everyone's.
func (s *DashboardService) Manager(ctx context.Context, p auth.Principal) (*ManagerStats, error) {
	scope, clubs, err := managedScope(ctx, s.stores.Clubs, auth.EmailOf(p))
	if err != nil {
		return nil, err
	}
	stats := ManagerStats{TotalClubs: int64(len(clubs))}
	if len(scope) == 0 {
		return &stats, nil
	}

	if stats.TotalMembers, err = s.stores.Memberships.CountActive(ctx, scope); err != nil {
		return nil, Internal(err)
	}
	if stats.TotalEvents, err = s.stores.Events.Count(ctx, scope); err != nil {
		return nil, Internal(err)
	}
	if stats.TotalRevenue, err = s.stores.Payments.SumSucceeded(ctx, scope); err != nil {
		return nil, Internal(err)
	}
	return &stats, nil
}

package service

import (
	"context"
	"testing"

	"clubsphere/internal/auth"
	"clubsphere/internal/model"
	"clubsphere/internal/repository"
)

func TestUserSync(t *testing.T) {
	ctx := context.Background()
	s := newStores(t)
	svc := NewUserService(s.Users)

	id := auth.Provisional{Email: "ann@x.io", Name: "Ann", Picture: "https://img/ann.png"}
	user, created, err := svc.Sync(ctx, id, SyncInput{})
	if err != nil || !created {
		t.Fatalf("first sync = %v, %v", created, err)
	}
	if user.Role != model.RoleMember || user.Name != "Ann" || user.PhotoURL != "https://img/ann.png" {
		t.Fatalf("user = %+v", user)
	}

	// A promoted user keeps their role across syncs.
	if _, err := svc.SetRole(ctx, user.ID, model.RoleClubManager); err != nil {
		t.Fatalf("SetRole: %v", err)
	}
	stored, _ := s.Users.GetByID(ctx, user.ID)
	again, created, err := svc.Sync(ctx, auth.Persisted{User: stored}, SyncInput{Name: "Ann B"})
	if err != nil || created {
		t.Fatalf("second sync = %v, %v", created, err)
	}
	if again.Role != model.RoleClubManager || again.Name != "Ann B" {
		t.Fatalf("resynced user = %+v", again)
	}

	// A stale provisional identity for an existing email updates instead of failing.
	raced, created, err := svc.Sync(ctx, id, SyncInput{PhotoURL: "https://img/new.png"})
	if err != nil || created || raced.ID != user.ID || raced.PhotoURL != "https://img/new.png" {
		t.Fatalf("raced sync = %+v, %v, %v", raced, created, err)
	}
}

func TestUserSyncNameFallsBackToEmail(t *testing.T) {
	s := newStores(t)
	user, _, err := NewUserService(s.Users).Sync(context.Background(), auth.Provisional{Email: "anon@x.io"}, SyncInput{})
	if err != nil || user.Name != "anon@x.io" {
		t.Fatalf("user = %+v, %v", user, err)
	}
}

func TestUserProfileAndRoles(t *testing.T) {
	ctx := context.Background()
	s := newStores(t)
	svc := NewUserService(s.Users)
	user, _, _ := svc.Sync(ctx, auth.Provisional{Email: "ann@x.io", Name: "Ann"}, SyncInput{})

	name := "Annie"
	_, err := svc.UpdateProfile(ctx, auth.Provisional{Email: "new@x.io"}, ProfileInput{Name: &name})
	wantKind(t, err, KindNotFound, "User not found")

	photo := "https://img/annie.png"
	got, err := svc.UpdateProfile(ctx, auth.Persisted{User: user}, ProfileInput{Name: &name, PhotoURL: &photo})
	if err != nil || got.Name != "Annie" || got.PhotoURL != photo {
		t.Fatalf("UpdateProfile = %+v, %v", got, err)
	}
	// Blank fields keep what is stored.
	blank := " "
	got, err = svc.UpdateProfile(ctx, auth.Persisted{User: user}, ProfileInput{Name: &blank, PhotoURL: &blank})
	if err != nil || got.Name != "Annie" || got.PhotoURL != photo {
		t.Fatalf("blank UpdateProfile = %+v, %v", got, err)
	}

	_, err = svc.SetRole(ctx, user.ID, "owner")
	wantKind(t, err, KindValidation, "Invalid role")
	_, err = svc.SetRole(ctx, "missing", model.RoleAdmin)
	wantKind(t, err, KindNotFound, "User not found")

	promoted, err := svc.MakeAdmin(ctx, " ann@x.io ")
	if err != nil || promoted.Role != model.RoleAdmin {
		t.Fatalf("MakeAdmin = %+v, %v", promoted, err)
	}
	_, err = svc.MakeAdmin(ctx, "ghost@x.io")
	wantKind(t, err, KindNotFound, "User not found")

	if list, _ := svc.List(ctx); len(list) != 1 {
		t.Fatalf("List = %d, want 1", len(list))
	}
	if err := svc.Delete(ctx, user.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	wantKind(t, svc.Delete(ctx, user.ID), KindNotFound, "User not found")
}

// vanishingUsers loses every row between read and write.
type vanishingUsers struct{ UserStore }

func (vanishingUsers) Update(context.Context, *model.User) error { return repository.ErrNotFound }

func TestUserUpdateOfVanishedRow(t *testing.T) {
	ctx := context.Background()
	s := newStores(t)
	user, _, err := NewUserService(s.Users).Sync(ctx, auth.Provisional{Email: "ann@x.io", Name: "Ann"}, SyncInput{})
	if err != nil {
		t.Fatalf("sync: %v", err)
	}
	svc := NewUserService(vanishingUsers{s.Users})

	name := "Annie"
	_, err = svc.UpdateProfile(ctx, auth.Persisted{User: user}, ProfileInput{Name: &name})
	wantKind(t, err, KindNotFound, "User not found")
	_, err = svc.SetRole(ctx, user.ID, model.RoleClubManager)
	wantKind(t, err, KindNotFound, "User not found")
	_, _, err = svc.Sync(ctx, auth.Persisted{User: user}, SyncInput{Name: "Ann B"})
	wantKind(t, err, KindNotFound, "User not found")
}

package mongodb

import (
	"errors"
	"testing"

	"clubsphere/internal/model"
	"clubsphere/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func lookup(d bson.D, key string) (any, bool) {
	for _, e := range d {
		if e.Key == key {
			return e.Value, true
		}
	}
	return nil, false
}

func TestClubFilter(t *testing.T) {
	t.Run("empty filter matches everything", func(t *testing.T) {
		if got := clubFilter(repository.ClubFilter{}); len(got) != 0 {
			t.Fatalf("clubFilter(zero) = %v, want empty", got)
		}
	})

	t.Run("all fields", func(t *testing.T) {
		got := clubFilter(repository.ClubFilter{
			Status:       model.ClubApproved,
			ManagerEmail: "m@example.com",
			Category:     "sports",
			Search:       "chess",
		})
		if v, _ := lookup(got, "status"); v != model.ClubApproved {
			t.Fatalf("status = %v", v)
		}
		if v, _ := lookup(got, "managerEmail"); v != "m@example.com" {
			t.Fatalf("managerEmail = %v", v)
		}
		if v, _ := lookup(got, "category"); v != "sports" {
			t.Fatalf("category = %v", v)
		}
		re, ok := lookup(got, "clubName")
		if !ok {
			t.Fatal("clubName regex missing")
		}
		if re != (primitive.Regex{Pattern: "chess", Options: "i"}) {
			t.Fatalf("clubName = %v", re)
		}
	})
}

func TestContainsRegexQuotesMeta(t *testing.T) {
	got := containsRegex("a.b*(c)")
	if got.Pattern != `a\.b\*\(c\)` {
		t.Fatalf("Pattern = %q", got.Pattern)
	}
	if got.Options != "i" {
		t.Fatalf("Options = %q", got.Options)
	}
}

func TestSorts(t *testing.T) {
	cases := []struct {
		name string
		got  bson.D
		key  string
		dir  int
	}{
		{"club default", clubSort(""), "createdAt", -1},
		{"club oldest", clubSort(repository.ClubOldest), "createdAt", 1},
		{"club fee asc", clubSort(repository.ClubFeeAsc), "membershipFee", 1},
		{"club fee desc", clubSort(repository.ClubFeeDesc), "membershipFee", -1},
		{"event default", eventSort(""), "eventDate", 1},
		{"event newest", eventSort(repository.EventNewest), "createdAt", -1},
		{"event fee desc", eventSort(repository.EventFeeDesc), "eventFee", -1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if len(tc.got) == 0 {
				t.Fatal("empty sort")
			}
			first := tc.got[0]
			if first.Key != tc.key || first.Value != tc.dir {
				t.Fatalf("first sort key = %s:%v, want %s:%d", first.Key, first.Value, tc.key, tc.dir)
			}
		})
	}
}

func TestEventFilter(t *testing.T) {
	got := eventFilter(repository.EventFilter{ClubID: "c1", Search: "open day"})
	if v, _ := lookup(got, "clubId"); v != "c1" {
		t.Fatalf("clubId = %v", v)
	}
	if _, ok := lookup(got, "title"); !ok {
		t.Fatal("title regex missing")
	}
}

func TestWithScope(t *testing.T) {
	t.Run("nil scope leaves filter alone", func(t *testing.T) {
		got, ok := withScope(bson.D{{Key: "status", Value: "active"}}, repository.AllClubs())
		if !ok || len(got) != 1 {
			t.Fatalf("withScope(all) = %v, %v", got, ok)
		}
	})

	t.Run("empty scope matches nothing", func(t *testing.T) {
		if _, ok := withScope(bson.D{}, repository.Scope{}); ok {
			t.Fatal("empty scope should report ok=false")
		}
	})

	t.Run("clubs restrict by id", func(t *testing.T) {
		got, ok := withScope(bson.D{}, repository.Scope{"a", "b"})
		if !ok {
			t.Fatal("ok = false")
		}
		v, found := lookup(got, "clubId")
		if !found {
			t.Fatal("clubId missing")
		}
		in, _ := lookup(v.(bson.D), "$in")
		ids := in.([]string)
		if len(ids) != 2 || ids[0] != "a" || ids[1] != "b" {
			t.Fatalf("$in = %v", ids)
		}
	})
}

func TestWithdrawn(t *testing.T) {
	if err := withdrawn(repository.ErrFull, nil); !errors.Is(err, repository.ErrFull) {
		t.Fatalf("clean withdraw = %v, want ErrFull", err)
	}
	// The entry is still stored, so the caller must not report a plain full event.
	stuck := errors.New("connection reset")
	err := withdrawn(repository.ErrFull, stuck)
	if errors.Is(err, repository.ErrFull) || !errors.Is(err, stuck) {
		t.Fatalf("failed withdraw = %v, want the delete error only", err)
	}
}

package router

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"clubsphere/internal/auth"
	"clubsphere/internal/model"
	"clubsphere/internal/pkg"
	"clubsphere/internal/repository/rdb"
	"clubsphere/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
)

const secret = "router-test-secret"

type noPayments struct{}

func (noPayments) CreateIntent(context.Context, int64, string, map[string]string) (*pkg.PaymentIntent, error) {
	return nil, errors.New("payments disabled")
}

func (noPayments) GetIntent(context.Context, string) (*pkg.PaymentIntent, error) {
	return nil, errors.New("payments disabled")
}

type testServer struct {
	t      *testing.T
	engine *gin.Engine
	stores service.Stores
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := rdb.OpenDialector(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), false)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	s := service.Stores{
		Users:         rdb.NewUserRepository(db),
		Clubs:         rdb.NewClubRepository(db),
		Events:        rdb.NewEventRepository(db),
		Memberships:   rdb.NewMembershipRepository(db),
		Registrations: rdb.NewRegistrationRepository(db),
		Payments:      rdb.NewPaymentRepository(db),
	}

	verifier, err := pkg.NewLocalVerifier(secret)
	if err != nil {
		t.Fatalf("verifier: %v", err)
	}
	nop := service.NopNotifier{}
	lock := service.NopLocker{}
	engine := New(auth.NewResolver(verifier, s.Users), Services{
		Users:         service.NewUserService(s.Users),
		Clubs:         service.NewClubService(s.Clubs, nop),
		Events:        service.NewEventService(s.Events, s.Clubs),
		Memberships:   service.NewMembershipService(s.Memberships, s.Clubs, lock, nop),
		Registrations: service.NewRegistrationService(s.Registrations, s.Events, s.Clubs, lock, nop),
		Payments:      service.NewPaymentService(s, noPayments{}, lock, nop),
		Dashboard:     service.NewDashboardService(s),
	})
	return &testServer{t: t, engine: engine, stores: s}
}

func (ts *testServer) user(email string, role model.Role) {
	ts.t.Helper()
	u := &model.User{Name: email, Email: email, Role: role}
	if err := ts.stores.Users.Create(context.Background(), u); err != nil {
		ts.t.Fatalf("seed user: %v", err)
	}
}

func (ts *testServer) token(email string) string {
	ts.t.Helper()
	tok, err := pkg.IssueLocalToken(secret, email, "", time.Hour)
	if err != nil {
		ts.t.Fatalf("issue token: %v", err)
	}
	return tok
}

// do sends body as JSON with a bearer token for email, if any, and decodes the reply into out.
func (ts *testServer) do(method, path, email string, body any, out any) int {
	ts.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			ts.t.Fatalf("encode: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if email != "" {
		req.Header.Set("Authorization", "Bearer "+ts.token(email))
	}
	rec := httptest.NewRecorder()
	ts.engine.ServeHTTP(rec, req)
	if out != nil {
		if err := json.Unmarshal(rec.Body.Bytes(), out); err != nil {
			ts.t.Fatalf("%s %s: decode %q: %v", method, path, rec.Body.String(), err)
		}
	}
	return rec.Code
}

type msg struct {
	Message string `json:"message"`
}

func TestRoot(t *testing.T) {
	ts := newTestServer(t)
	rec := httptest.NewRecorder()
	ts.engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusOK || rec.Body.String() != "ClubSphere API is running..." {
		t.Fatalf("GET / = %d %q", rec.Code, rec.Body.String())
	}
	if rec.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Fatal("security headers missing")
	}
}

func TestAuthentication(t *testing.T) {
	ts := newTestServer(t)

	var m msg
	if code := ts.do(http.MethodGet, "/api/users/me", "", nil, &m); code != http.StatusUnauthorized || m.Message != "Not authorized, no token" {
		t.Fatalf("no token = %d %q", code, m.Message)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/users/me", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	rec := httptest.NewRecorder()
	ts.engine.ServeHTTP(rec, req)
	json.Unmarshal(rec.Body.Bytes(), &m)
	if rec.Code != http.StatusUnauthorized || m.Message != "Not authorized, token failed" {
		t.Fatalf("bad token = %d %q", rec.Code, m.Message)
	}

	// A verified caller without a record is treated as a member.
	var me model.User
	if code := ts.do(http.MethodGet, "/api/users/me", "new@x.io", nil, &me); code != http.StatusOK {
		t.Fatalf("provisional /me = %d", code)
	}
	if me.Email != "new@x.io" || me.Role != model.RoleMember || me.ID != "" {
		t.Fatalf("provisional user = %+v", me)
	}
}

func TestRoleGuard(t *testing.T) {
	ts := newTestServer(t)
	ts.user("admin@x.io", model.RoleAdmin)
	ts.user("manager@x.io", model.RoleClubManager)

	tests := []struct {
		name   string
		method string
		path   string
		email  string
		want   int
		msg    string
	}{
		{"member lists users", http.MethodGet, "/api/users", "member@x.io", http.StatusForbidden, "User role 'member' is not authorized to access this route"},
		{"manager lists users", http.MethodGet, "/api/users", "manager@x.io", http.StatusForbidden, "User role 'clubManager' is not authorized to access this route"},
		{"admin lists users", http.MethodGet, "/api/users", "admin@x.io", http.StatusOK, ""},
		{"member reads manager stats", http.MethodGet, "/api/dashboard/manager/stats", "member@x.io", http.StatusForbidden, "User role 'member' is not authorized to access this route"},
		{"manager reads manager stats", http.MethodGet, "/api/dashboard/manager/stats", "manager@x.io", http.StatusOK, ""},
		{"manager reads admin stats", http.MethodGet, "/api/dashboard/admin/stats", "manager@x.io", http.StatusForbidden, "User role 'clubManager' is not authorized to access this route"},
		{"member lists all payments", http.MethodGet, "/api/payments/all", "member@x.io", http.StatusForbidden, "User role 'member' is not authorized to access this route"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			req.Header.Set("Authorization", "Bearer "+ts.token(tt.email))
			rec := httptest.NewRecorder()
			ts.engine.ServeHTTP(rec, req)
			if rec.Code != tt.want {
				t.Fatalf("status = %d, want %d (%s)", rec.Code, tt.want, rec.Body.String())
			}
			if tt.msg != "" {
				var m msg
				json.Unmarshal(rec.Body.Bytes(), &m)
				if m.Message != tt.msg {
					t.Fatalf("message = %q, want %q", m.Message, tt.msg)
				}
			}
		})
	}
}

func TestSync(t *testing.T) {
	ts := newTestServer(t)

	var u model.User
	if code := ts.do(http.MethodPost, "/api/users/sync", "ann@x.io", map[string]string{"name": "Ann"}, &u); code != http.StatusCreated {
		t.Fatalf("first sync = %d", code)
	}
	if u.ID == "" || u.Name != "Ann" || u.Role != model.RoleMember {
		t.Fatalf("synced user = %+v", u)
	}
	if code := ts.do(http.MethodPost, "/api/users/sync", "ann@x.io", nil, &u); code != http.StatusOK {
		t.Fatalf("second sync = %d", code)
	}
}

func TestClubLifecycle(t *testing.T) {
	ts := newTestServer(t)
	ts.user("admin@x.io", model.RoleAdmin)
	ts.user("manager@x.io", model.RoleClubManager)

	var m msg
	code := ts.do(http.MethodPost, "/api/clubs", "manager@x.io", map[string]any{"description": "d", "category": "c", "location": "l"}, &m)
	if code != http.StatusBadRequest || m.Message != "clubName is required" {
		t.Fatalf("missing name = %d %q", code, m.Message)
	}
	code = ts.do(http.MethodPost, "/api/clubs", "member@x.io", map[string]any{"clubName": "x"}, &m)
	if code != http.StatusForbidden {
		t.Fatalf("member creates club = %d", code)
	}

	var club model.Club
	body := map[string]any{"clubName": "Chess", "description": "d", "category": "games", "location": "Dhaka"}
	if code := ts.do(http.MethodPost, "/api/clubs", "manager@x.io", body, &club); code != http.StatusCreated {
		t.Fatalf("create club = %d", code)
	}
	if club.Status != model.ClubPending || club.ManagerEmail != "manager@x.io" {
		t.Fatalf("club = %+v", club)
	}

	// Pending clubs never show up publicly, whatever status is asked for.
	var list []model.Club
	ts.do(http.MethodGet, "/api/clubs?status=pending", "", nil, &list)
	if len(list) != 0 {
		t.Fatalf("public list has %d clubs before approval", len(list))
	}

	if code := ts.do(http.MethodPut, "/api/clubs/"+club.ID+"/status", "admin@x.io", map[string]string{"status": "approved"}, &club); code != http.StatusOK {
		t.Fatalf("approve = %d", code)
	}
	ts.do(http.MethodGet, "/api/clubs?status=pending", "", nil, &list)
	if len(list) != 1 || list[0].Status != model.ClubApproved {
		t.Fatalf("public list = %+v", list)
	}

	var joined model.Membership
	if code := ts.do(http.MethodPost, "/api/memberships/join", "member@x.io", map[string]string{"clubId": club.ID}, &joined); code != http.StatusCreated {
		t.Fatalf("join = %d", code)
	}
	if code := ts.do(http.MethodPost, "/api/memberships/join", "member@x.io", map[string]string{"clubId": club.ID}, &m); code != http.StatusConflict || m.Message != "Already a member" {
		t.Fatalf("second join = %d %q", code, m.Message)
	}

	var check struct {
		IsMember bool `json:"isMember"`
	}
	ts.do(http.MethodGet, "/api/memberships/check/"+club.ID, "member@x.io", nil, &check)
	if !check.IsMember {
		t.Fatal("check after join = false")
	}

	var got model.Club
	ts.do(http.MethodGet, "/api/clubs/"+club.ID, "", nil, &got)
	if got.MembersCount != 1 {
		t.Fatalf("membersCount = %d, want 1", got.MembersCount)
	}

	if code := ts.do(http.MethodGet, "/api/clubs/missing", "", nil, &m); code != http.StatusNotFound || m.Message != "Club not found" {
		t.Fatalf("missing club = %d %q", code, m.Message)
	}
}

func TestPaidClubNeedsPaymentFlow(t *testing.T) {
	ts := newTestServer(t)
	paid := &model.Club{ClubName: "Paid", Status: model.ClubApproved, MembershipFee: 5, ManagerEmail: "manager@x.io"}
	if err := ts.stores.Clubs.Create(context.Background(), paid); err != nil {
		t.Fatalf("seed club: %v", err)
	}

	var m msg
	code := ts.do(http.MethodPost, "/api/memberships/join", "member@x.io", map[string]string{"clubId": paid.ID}, &m)
	if code != http.StatusPaymentRequired || m.Message != "This club requires payment. Please use payment flow." {
		t.Fatalf("join paid club = %d %q", code, m.Message)
	}

	code = ts.do(http.MethodPost, "/api/payments/create-intent", "member@x.io", map[string]string{"type": "gift"}, &m)
	if code != http.StatusBadRequest || m.Message != "type must be one of membership event" {
		t.Fatalf("bad payment type = %d %q", code, m.Message)
	}

	// Provider failures are hidden from the client.
	code = ts.do(http.MethodPost, "/api/payments/create-intent", "member@x.io", map[string]string{"type": "membership", "clubId": paid.ID}, &m)
	if code != http.StatusInternalServerError || m.Message != "Server Error" {
		t.Fatalf("provider failure = %d %q", code, m.Message)
	}
}

func TestEventRoutes(t *testing.T) {
	ts := newTestServer(t)
	ts.user("manager@x.io", model.RoleClubManager)
	club := &model.Club{ClubName: "Chess", Status: model.ClubApproved, ManagerEmail: "manager@x.io"}
	if err := ts.stores.Clubs.Create(context.Background(), club); err != nil {
		t.Fatalf("seed club: %v", err)
	}

	var ev model.Event
	body := map[string]any{
		"clubId":       club.ID,
		"title":        "Blitz night",
		"description":  "5+0",
		"eventDate":    "2026-12-01T18:30",
		"location":     "Room 4",
		"maxAttendees": 1,
	}
	if code := ts.do(http.MethodPost, "/api/events", "manager@x.io", body, &ev); code != http.StatusCreated {
		t.Fatalf("create event = %d", code)
	}
	if want := time.Date(2026, 12, 1, 18, 30, 0, 0, time.UTC); !ev.EventDate.Equal(want) {
		t.Fatalf("eventDate = %v, want %v", ev.EventDate, want)
	}

	var check struct {
		IsRegistered bool `json:"isRegistered"`
	}
	ts.do(http.MethodGet, "/api/event-registrations/check/"+ev.ID, "a@x.io", nil, &check)
	if check.IsRegistered {
		t.Fatal("registered before registering")
	}
	if code := ts.do(http.MethodPost, "/api/event-registrations/register", "a@x.io", map[string]string{"eventId": ev.ID}, nil); code != http.StatusCreated {
		t.Fatalf("register = %d", code)
	}
	ts.do(http.MethodGet, "/api/event-registrations/check/"+ev.ID, "a@x.io", nil, &check)
	if !check.IsRegistered {
		t.Fatal("not registered after registering")
	}

	var m msg
	if code := ts.do(http.MethodPost, "/api/event-registrations/register", "b@x.io", map[string]string{"eventId": ev.ID}, &m); code != http.StatusConflict || m.Message != "Event is full" {
		t.Fatalf("full event = %d %q", code, m.Message)
	}

	var regs []model.EventRegistration
	if code := ts.do(http.MethodGet, "/api/event-registrations/event/"+ev.ID, "manager@x.io", nil, &regs); code != http.StatusOK || len(regs) != 1 {
		t.Fatalf("registrations = %d, %d", code, len(regs))
	}
}

func TestEmptyListsAreArrays(t *testing.T) {
	ts := newTestServer(t)
	ts.user("manager@x.io", model.RoleClubManager)
	ts.user("member@x.io", model.RoleMember)

	tests := []struct {
		path  string
		email string
	}{
		{"/api/clubs", ""},
		{"/api/events", ""},
		{"/api/clubs/admin/all", "manager@x.io"},
		{"/api/payments/all", "manager@x.io"},
		{"/api/payments/my-payments", "member@x.io"},
		{"/api/memberships/my", "member@x.io"},
		{"/api/event-registrations/my", "member@x.io"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			var raw json.RawMessage
			if code := ts.do(http.MethodGet, tt.path, tt.email, nil, &raw); code != http.StatusOK {
				t.Fatalf("status = %d, body %s", code, raw)
			}
			if string(raw) != "[]" {
				t.Fatalf("body = %s, want []", raw)
			}
		})
	}
}

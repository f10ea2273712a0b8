package web

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hpungsan/shelf/internal/db"
)

func TestSessions_ReadsDoNotRegisterManagers(t *testing.T) {
	database, err := db.Init(t.TempDir())
	if err != nil {
		t.Fatalf("db.Init: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	sessions := NewSessions(database)
	ctx := context.Background()

	for i := 0; i < 20; i++ {
		rec := httptest.NewRecorder()
		set, err := sessions.Snapshot(ctx, rec, httptest.NewRequest("GET", "/prompts", nil))
		if err != nil {
			t.Fatalf("Snapshot: %v", err)
		}
		if set.Len() != 0 {
			t.Errorf("new session has %d saved, want 0", set.Len())
		}
		if len(rec.Result().Cookies()) != 1 {
			t.Fatalf("expected a session cookie on cookieless request %d", i)
		}
	}
	if n := sessions.Len(); n != 0 {
		t.Errorf("sessions.Len() = %d after read-only requests, want 0", n)
	}
}

func TestSessions_ManagerCreatedOnWrite(t *testing.T) {
	database, err := db.Init(t.TempDir())
	if err != nil {
		t.Fatalf("db.Init: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	sessions := NewSessions(database)
	ctx := context.Background()

	rec := httptest.NewRecorder()
	mgr, err := sessions.Manager(ctx, rec, httptest.NewRequest("POST", "/prompts/1/save", nil))
	if err != nil {
		t.Fatalf("Manager: %v", err)
	}
	if _, err := mgr.Toggle(ctx, 1); err != nil {
		t.Fatalf("Toggle: %v", err)
	}
	cookies := rec.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("expected one session cookie, got %d", len(cookies))
	}

	withCookie := func(method string) *http.Request {
		req := httptest.NewRequest(method, "/prompts", nil)
		req.AddCookie(cookies[0])
		return req
	}

	again, err := sessions.Manager(ctx, httptest.NewRecorder(), withCookie("POST"))
	if err != nil {
		t.Fatalf("Manager: %v", err)
	}
	if again != mgr {
		t.Error("expected the same manager for the same session")
	}
	if n := sessions.Len(); n != 1 {
		t.Errorf("sessions.Len() = %d, want 1", n)
	}

	set, err := sessions.Snapshot(ctx, httptest.NewRecorder(), withCookie("GET"))
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if !set.Contains(1) {
		t.Error("snapshot should see the toggled prompt")
	}

	// A fresh registry reads the persisted set without registering it.
	fresh := NewSessions(database)
	set, err = fresh.Snapshot(ctx, httptest.NewRecorder(), withCookie("GET"))
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if !set.Contains(1) || fresh.Len() != 0 {
		t.Errorf("fresh registry: contains=%v len=%d", set.Contains(1), fresh.Len())
	}
}

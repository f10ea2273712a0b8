package web

import (
	"context"
	"crypto/rand"
	"database/sql"
	"net/http"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/hpungsan/shelf/internal/db"
	"github.com/hpungsan/shelf/internal/saved"
)

const (
	sessionCookie = "shelf_session"
	themeCookie   = "shelf_theme"
	cookieMaxAge  = 365 * 24 * 60 * 60
)

// Sessions maps browser sessions to saved-set managers. Each session's set is
// stored under the profile "web:<session id>".
type Sessions struct {
	db *sql.DB // nil keeps sets in memory

	mu       sync.Mutex
	managers map[string]*saved.Manager
}

// NewSessions returns a session registry backed by database.
func NewSessions(database *sql.DB) *Sessions {
	return &Sessions{db: database, managers: make(map[string]*saved.Manager)}
}

// ProfileFor returns the saved-set profile name of a session.
func ProfileFor(sessionID string) string {
	return "web:" + sessionID
}

// Snapshot returns the saved set of the request's session without
// registering a manager, so read-only requests never grow the table.
func (s *Sessions) Snapshot(ctx context.Context, w http.ResponseWriter, r *http.Request) (saved.Set, error) {
	id, fresh := s.ensure(w, r)

	s.mu.Lock()
	m, ok := s.managers[id]
	s.mu.Unlock()
	if ok {
		return m.Snapshot(), nil
	}
	if fresh || s.db == nil {
		return saved.New(), nil
	}
	ids, err := s.store(id).Load(ctx)
	if err != nil {
		return saved.Set{}, err
	}
	return saved.New(ids...), nil
}

// Manager returns the manager for the request's session, creating it on
// first use. Only mutating handlers call it.
func (s *Sessions) Manager(ctx context.Context, w http.ResponseWriter, r *http.Request) (*saved.Manager, error) {
	id, _ := s.ensure(w, r)

	s.mu.Lock()
	defer s.mu.Unlock()

	if m, ok := s.managers[id]; ok {
		return m, nil
	}

	var store saved.Persister
	if s.db != nil {
		store = s.store(id)
	}
	m, err := saved.Open(ctx, store)
	if err != nil {
		return nil, err
	}
	s.managers[id] = m
	return m, nil
}

// Len returns the number of sessions holding a manager.
func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.managers)
}

func (s *Sessions) store(id string) *db.SavedStore {
	return &db.SavedStore{DB: s.db, Profile: ProfileFor(id)}
}

// ensure returns the request's session id, issuing a new session cookie when
// the request has none or an invalid one. fresh reports a newly issued id.
func (s *Sessions) ensure(w http.ResponseWriter, r *http.Request) (id string, fresh bool) {
	if id := sessionID(r); id != "" {
		return id, false
	}
	id = ulid.MustNew(ulid.Timestamp(time.Now()), rand.Reader).String()
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    id,
		Path:     "/",
		MaxAge:   cookieMaxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return id, true
}

// sessionID returns the request's session id if it is a valid ULID.
func sessionID(r *http.Request) string {
	c, err := r.Cookie(sessionCookie)
	if err != nil {
		return ""
	}
	id, err := ulid.ParseStrict(c.Value)
	if err != nil {
		return ""
	}
	return id.String()
}

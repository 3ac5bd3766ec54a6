package server

import (
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/goliatone/go-formbuilder/pkg/builder"
)

// SessionCookie names the cookie that binds a browser to its builder.
const SessionCookie = "formbuilder_session"

// entry is one mounted builder. Handlers hold mu for the whole request so
// gesture and dialog events from one browser apply in order.
type entry struct {
	mu       sync.Mutex
	builder  *builder.Builder
	lastSeen time.Time
}

type sessionStore struct {
	mu      sync.Mutex
	entries map[string]*entry
	ttl     time.Duration
	now     func() time.Time
	mount   func() *builder.Builder
	logger  *zap.Logger

	// afterLookup runs between lookup and locking the entry; tests use it to
	// interleave a sweep.
	afterLookup func()
}

func newSessionStore(ttl time.Duration, now func() time.Time, mount func() *builder.Builder, logger *zap.Logger) *sessionStore {
	return &sessionStore{
		entries: make(map[string]*entry),
		ttl:     ttl,
		now:     now,
		mount:   mount,
		logger:  logger,
	}
}

// acquire returns the caller's builder, mounting a fresh one when the cookie
// is missing or expired. The returned entry is locked and still registered:
// an entry swept between lookup and locking is dropped and replaced.
func (s *sessionStore) acquire(w http.ResponseWriter, r *http.Request) *entry {
	id := ""
	if cookie, err := r.Cookie(SessionCookie); err == nil {
		id = cookie.Value
	}

	for {
		var e *entry
		id, e = s.lookup(id)
		if s.afterLookup != nil {
			s.afterLookup()
		}

		e.mu.Lock()
		s.mu.Lock()
		live := s.entries[id] == e
		if live {
			e.lastSeen = s.now()
		}
		s.mu.Unlock()
		if live {
			http.SetCookie(w, &http.Cookie{
				Name:     SessionCookie,
				Value:    id,
				Path:     "/",
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
				MaxAge:   int(s.ttl / time.Second),
			})
			return e
		}
		e.mu.Unlock()
		s.logger.Debug("builder swept during lookup", zap.String("session", id))
	}
}

// lookup finds the entry for id, replacing it when missing or expired.
func (s *sessionStore) lookup(id string) (string, *entry) {
	now := s.now()
	var stale *entry

	s.mu.Lock()
	e, ok := s.entries[id]
	if ok && now.Sub(e.lastSeen) > s.ttl {
		delete(s.entries, id)
		stale = e
		ok = false
	}
	if !ok {
		id = uuid.NewString()
		e = &entry{builder: s.mount()}
		s.entries[id] = e
		s.logger.Debug("builder mounted", zap.String("session", id))
	}
	e.lastSeen = now
	s.mu.Unlock()

	if stale != nil {
		stale.mu.Lock()
		stale.builder.Close()
		stale.mu.Unlock()
	}
	return id, e
}

// sweep unmounts builders idle for longer than the TTL and reports how many
// were dropped.
func (s *sessionStore) sweep() int {
	now := s.now()
	var expired []*entry

	s.mu.Lock()
	for id, e := range s.entries {
		if now.Sub(e.lastSeen) > s.ttl {
			expired = append(expired, e)
			delete(s.entries, id)
		}
	}
	s.mu.Unlock()

	for _, e := range expired {
		e.mu.Lock()
		e.builder.Close()
		e.mu.Unlock()
	}
	return len(expired)
}

func (s *sessionStore) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

func (s *sessionStore) closeAll() {
	s.mu.Lock()
	entries := s.entries
	s.entries = make(map[string]*entry)
	s.mu.Unlock()

	for _, e := range entries {
		e.mu.Lock()
		e.builder.Close()
		e.mu.Unlock()
	}
}

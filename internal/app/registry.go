package app

import (
	"sync"

	"github.com/dkeye/mirror/internal/domain"
	"github.com/rs/zerolog/log"
)

// Registry maps a transport connection to its live mirror session.
// Remove is the single point that decides who releases a session.
type Registry struct {
	mu       sync.RWMutex
	sessions map[domain.SessionID]*Session
}

func NewRegistry() *Registry {
	return &Registry{
		sessions: make(map[domain.SessionID]*Session),
	}
}

// Put registers sess under sid. It refuses to overwrite a live entry and
// reports false in that case; callers must Remove the previous session first.
func (r *Registry) Put(sid domain.SessionID, sess *Session) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[sid]; ok {
		log.Warn().Str("module", "app.registry").Str("sid", string(sid)).Msg("put refused, sid already bound")
		return false
	}
	r.sessions[sid] = sess
	log.Info().Str("module", "app.registry").Str("sid", string(sid)).Msg("bound session")
	return true
}

func (r *Registry) Get(sid domain.SessionID) (*Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	sess, ok := r.sessions[sid]
	return sess, ok
}

// Remove unbinds sid and returns the session that was bound, if any.
func (r *Registry) Remove(sid domain.SessionID) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	sess, ok := r.sessions[sid]
	if !ok {
		return nil, false
	}
	delete(r.sessions, sid)
	log.Info().Str("module", "app.registry").Str("sid", string(sid)).Msg("unbind session")
	return sess, true
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

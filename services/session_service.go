package services

import (
	"sync"
	"time"

	"clinic-booking-backend/logging"
	"clinic-booking-backend/models"
)

// SessionService keeps one ConversationState per session id. States live in
// memory only and expire after the configured idle TTL; an expired session
// starts over from a fresh state, which is the same as the client sending
// `start`. Each session carries its own mutex so two overlapping requests on
// the same session are applied one after the other instead of interleaving.
type SessionService struct {
	mu       sync.RWMutex
	sessions map[string]*session
	ttl      time.Duration
	logger   *logging.Logger
	done     chan struct{}
	stopOnce sync.Once
}

type session struct {
	mu       sync.Mutex
	state    *models.ConversationState
	lastSeen time.Time
}

func NewSessionService(ttl time.Duration, logger *logging.Logger) *SessionService {
	if logger == nil {
		logger = logging.Default()
	}
	return &SessionService{
		sessions: make(map[string]*session),
		ttl:      ttl,
		logger:   logger,
		done:     make(chan struct{}),
	}
}

// Do runs fn with the conversation state for the given session id, holding
// that session's lock for the duration of the call.
func (ss *SessionService) Do(sessionID string, fn func(state *models.ConversationState)) {
	sess := ss.acquire(sessionID)

	sess.mu.Lock()
	defer sess.mu.Unlock()
	fn(sess.state)
}

// Count returns the number of live sessions.
func (ss *SessionService) Count() int {
	ss.mu.RLock()
	defer ss.mu.RUnlock()
	return len(ss.sessions)
}

// StartJanitor evicts idle sessions on the given interval until Close is
// called.
func (ss *SessionService) StartJanitor(interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				ss.evictExpired()
			case <-ss.done:
				return
			}
		}
	}()
}

// Close stops the janitor.
func (ss *SessionService) Close() {
	ss.stopOnce.Do(func() { close(ss.done) })
}

func (ss *SessionService) acquire(sessionID string) *session {
	now := time.Now()

	ss.mu.Lock()
	defer ss.mu.Unlock()

	sess, ok := ss.sessions[sessionID]
	if ok && now.Sub(sess.lastSeen) > ss.ttl {
		// Idle too long: the conversation starts over.
		ok = false
	}
	if !ok {
		sess = &session{state: models.NewConversationState()}
		ss.sessions[sessionID] = sess
	}
	sess.lastSeen = now
	return sess
}

func (ss *SessionService) evictExpired() {
	now := time.Now()

	ss.mu.Lock()
	defer ss.mu.Unlock()

	evicted := 0
	for id, sess := range ss.sessions {
		if now.Sub(sess.lastSeen) > ss.ttl {
			delete(ss.sessions, id)
			evicted++
		}
	}
	if evicted > 0 {
		ss.logger.Debug("evicted idle chat sessions", "count", evicted, "remaining", len(ss.sessions))
	}
}

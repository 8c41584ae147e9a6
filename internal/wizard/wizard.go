// Package wizard implements the multi-step parameter collection flow for a
// video generation request. Sessions expose transition methods only: each
// method validates that the session is in the right step and that the input
// is drawn from that step's option set, and rejects anything else without
// mutating the session. A session can only leave the confirmation step
// through Finalize, which re-checks that every required field is populated.
package wizard

import (
	"errors"
	"log"
	"sync"

	"video-gen-bot/internal/models"
)

var (
	// ErrInvalidSelection marks user input outside the current step's
	// option set. The session is untouched; the caller re-renders the step.
	ErrInvalidSelection = errors.New("selection not valid for current step")

	// ErrSessionIncomplete marks a finalize attempt with a missing required
	// field. This is an internal consistency fault, not user error.
	ErrSessionIncomplete = errors.New("session is missing a required field")

	// ErrImageLimit means the mode's photo limit was already reached.
	ErrImageLimit = errors.New("image limit reached")

	// ErrNoImages means a prompt arrived before any photo in a mode that
	// requires at least one.
	ErrNoImages = errors.New("no images collected yet")
)

// Session is one user's in-flight wizard. Exactly one of Sora/Veo is set.
type Session struct {
	Engine models.Engine
	Sora   *SoraSession
	Veo    *VeoSession
}

// Manager keeps at most one in-flight session per user. Starting a new
// wizard discards any prior uncommitted session.
type Manager struct {
	mu       sync.RWMutex
	sessions map[int64]*Session
}

func NewManager() *Manager {
	return &Manager{
		sessions: make(map[int64]*Session),
	}
}

func (m *Manager) StartSora(userID int64) *SoraSession {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := NewSoraSession(userID)
	m.sessions[userID] = &Session{Engine: models.EngineSora, Sora: s}
	log.Printf("Started Sora wizard for user %d", userID)
	return s
}

func (m *Manager) StartVeo(userID int64) *VeoSession {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := NewVeoSession(userID)
	m.sessions[userID] = &Session{Engine: models.EngineVeo, Veo: s}
	log.Printf("Started Veo wizard for user %d", userID)
	return s
}

func (m *Manager) Get(userID int64) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.sessions[userID]
	return s, ok
}

func (m *Manager) Clear(userID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.sessions, userID)
}

package coach

import (
	"log/slog"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/eleven-am/align-backend/internal/detector"
	"github.com/eleven-am/align-backend/internal/feedback"
	"github.com/eleven-am/align-backend/internal/overlay"
	"github.com/eleven-am/align-backend/internal/pose"
	"github.com/eleven-am/align-backend/internal/session"
	"github.com/eleven-am/align-backend/internal/synthesis"
	"github.com/eleven-am/align-backend/internal/transport"
)

const defaultMaxSessionsPerUser = 2

// Manager tracks every live coaching session and enforces the per-user cap.
type Manager struct {
	detector   *detector.Client
	synth      synthesis.Synthesizer
	store      *session.Store
	validate   *validator.Validate
	log        *slog.Logger
	maxPerUser int

	mu       sync.Mutex
	sessions map[string]*Session
}

type ManagerConfig struct {
	Detector   *detector.Client
	Synth      synthesis.Synthesizer
	Store      *session.Store
	Validate   *validator.Validate
	MaxPerUser int
	Log        *slog.Logger
}

func NewManager(cfg ManagerConfig) *Manager {
	log := cfg.Log
	if log == nil {
		log = slog.Default()
	}
	if cfg.MaxPerUser <= 0 {
		cfg.MaxPerUser = defaultMaxSessionsPerUser
	}
	if cfg.Validate == nil {
		cfg.Validate = validator.New()
	}

	return &Manager{
		detector:   cfg.Detector,
		synth:      cfg.Synth,
		store:      cfg.Store,
		validate:   cfg.Validate,
		log:        log.With("component", "coach_manager"),
		maxPerUser: cfg.MaxPerUser,
		sessions:   make(map[string]*Session),
	}
}

// StartSession creates a session for the connection and starts its loops.
// Each session gets its own evaluator and throttle so per-session state
// like the speech cooldown never leaks between users.
func (m *Manager) StartSession(conn transport.Connection, userID string) *Session {
	m.evictOverCap(userID)

	sess := NewSession(SessionConfig{
		Conn:          conn,
		UserID:        userID,
		Evaluator:     pose.NewEvaluator(pose.Config{}),
		Throttle:      feedback.NewThrottle(feedback.Policy{}),
		Detector:      m.detector,
		Synth:         m.synth,
		Store:         m.store,
		Validate:      m.validate,
		Logger:        m.log,
		DrawThreshold: overlay.DefaultDrawThreshold,
	})

	m.mu.Lock()
	m.sessions[sess.SessionID()] = sess
	m.mu.Unlock()

	sess.Start()
	m.log.Info("coaching session started", "session_id", sess.SessionID(), "user_id", userID)

	return sess
}

// evictOverCap closes the user's oldest session when they are at the cap,
// so a reconnecting client does not strand a zombie session.
func (m *Manager) evictOverCap(userID string) {
	m.mu.Lock()
	var owned []*Session
	for _, sess := range m.sessions {
		if sess.UserID() == userID {
			owned = append(owned, sess)
		}
	}
	if len(owned) < m.maxPerUser {
		m.mu.Unlock()
		return
	}

	oldest := owned[0]
	for _, sess := range owned[1:] {
		if sess.StartedAt().Before(oldest.StartedAt()) {
			oldest = sess
		}
	}
	delete(m.sessions, oldest.SessionID())
	m.mu.Unlock()

	m.log.Info("evicting oldest session over cap", "session_id", oldest.SessionID(), "user_id", userID)
	if err := oldest.CloseWithError(transport.ErrCodeSessionLimit, "session limit reached; oldest session closed"); err != nil {
		m.log.Error("failed to close evicted session", "session_id", oldest.SessionID(), "error", err)
	}
}

func (m *Manager) GetSession(id string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sess, ok := m.sessions[id]
	return sess, ok
}

func (m *Manager) RemoveSession(id string) {
	m.mu.Lock()
	sess, ok := m.sessions[id]
	if ok {
		delete(m.sessions, id)
	}
	m.mu.Unlock()

	if !ok {
		return
	}

	if err := sess.Close(); err != nil {
		m.log.Error("failed to close session", "session_id", id, "error", err)
	}
	m.log.Info("coaching session removed", "session_id", id)
}

func (m *Manager) SessionCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// SessionInfo is a point-in-time snapshot of one live session.
type SessionInfo struct {
	SessionID       string
	UserID          string
	CurrentKind     string
	FramesEvaluated int
	UptimeSeconds   int64
}

func (m *Manager) ListSessions() []SessionInfo {
	m.mu.Lock()
	defer m.mu.Unlock()

	sessions := make([]SessionInfo, 0, len(m.sessions))
	for _, sess := range m.sessions {
		sessions = append(sessions, sess.Info())
	}
	return sessions
}

// Close shuts down every live session. Used on server shutdown.
func (m *Manager) Close() {
	m.mu.Lock()
	sessions := make([]*Session, 0, len(m.sessions))
	for _, sess := range m.sessions {
		sessions = append(sessions, sess)
	}
	m.sessions = make(map[string]*Session)
	m.mu.Unlock()

	for _, sess := range sessions {
		if err := sess.Close(); err != nil {
			m.log.Error("failed to close session", "session_id", sess.SessionID(), "error", err)
		}
	}
	m.log.Info("all coaching sessions closed", "count", len(sessions))
}

package coach

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/eleven-am/align-backend/internal/detector"
	"github.com/eleven-am/align-backend/internal/feedback"
	"github.com/eleven-am/align-backend/internal/overlay"
	"github.com/eleven-am/align-backend/internal/pose"
	"github.com/eleven-am/align-backend/internal/session"
	"github.com/eleven-am/align-backend/internal/shared"
	"github.com/eleven-am/align-backend/internal/synthesis"
	"github.com/eleven-am/align-backend/internal/transport"
)

const (
	// Live-status snapshots go to Redis at most once a second; the frame
	// loop never waits on them.
	statusInterval = time.Second

	storeTimeout = 2 * time.Second
)

type Session struct {
	id     string
	userID string

	conn      transport.Connection
	evaluator *pose.Evaluator
	throttle  *feedback.Throttle
	detector  *detector.Client
	store     *session.Store
	validate  *validator.Validate
	bridge    *TTSBridge
	log       *slog.Logger

	ctx       context.Context
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	closeOnce sync.Once

	mu            sync.Mutex
	busy          bool
	drawThreshold float64
	startedAt     time.Time
	lastFrameAt   time.Time
	lastKind      pose.OutcomeKind
	lastFeedback  string
	lastFlushAt   time.Time
	frames        int
	goodFrames    int
	utterances    int
	dropped       int
	pending       session.MetricDeltas
}

type SessionConfig struct {
	Conn          transport.Connection
	UserID        string
	Evaluator     *pose.Evaluator
	Throttle      *feedback.Throttle
	Detector      *detector.Client
	Synth         synthesis.Synthesizer
	Store         *session.Store
	Validate      *validator.Validate
	Logger        *slog.Logger
	DrawThreshold float64
}

func NewSession(cfg SessionConfig) *Session {
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}
	if cfg.Evaluator == nil {
		cfg.Evaluator = pose.NewEvaluator(pose.Config{})
	}
	if cfg.Throttle == nil {
		cfg.Throttle = feedback.NewThrottle(feedback.Policy{})
	}
	if cfg.Validate == nil {
		cfg.Validate = validator.New()
	}
	if cfg.DrawThreshold == 0 {
		cfg.DrawThreshold = overlay.DefaultDrawThreshold
	}

	id := shared.NewID("sess_")
	ctx, cancel := context.WithCancel(context.Background())

	s := &Session{
		id:            id,
		userID:        cfg.UserID,
		conn:          cfg.Conn,
		evaluator:     cfg.Evaluator,
		throttle:      cfg.Throttle,
		detector:      cfg.Detector,
		store:         cfg.Store,
		validate:      cfg.Validate,
		log:           log.With("session_id", id),
		ctx:           ctx,
		cancel:        cancel,
		drawThreshold: cfg.DrawThreshold,
		startedAt:     time.Now(),
	}

	s.bridge = NewTTSBridge(TTSBridgeConfig{
		Synth:     cfg.Synth,
		Conn:      cfg.Conn,
		SessionID: id,
		Log:       s.log,
	})

	return s
}

func (s *Session) SessionID() string {
	return s.id
}

func (s *Session) UserID() string {
	return s.userID
}

func (s *Session) StartedAt() time.Time {
	return s.startedAt
}

// Info snapshots the session counters for the health endpoints.
func (s *Session) Info() SessionInfo {
	s.mu.Lock()
	defer s.mu.Unlock()
	return SessionInfo{
		SessionID:       s.id,
		UserID:          s.userID,
		CurrentKind:     string(s.lastKind),
		FramesEvaluated: s.frames,
		UptimeSeconds:   int64(time.Since(s.startedAt).Seconds()),
	}
}

func (s *Session) Start() {
	s.sendEvent(transport.EventSessionReady, transport.SessionReadyPayload{
		SessionID:     s.id,
		Checks:        checkNames(s.evaluator.EnabledChecks()),
		SoundEnabled:  s.throttle.SoundEnabled(),
		DrawThreshold: s.currentThreshold(),
	})

	if s.store != nil {
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			ctx, cancel := context.WithTimeout(s.ctx, storeTimeout)
			defer cancel()
			if err := s.store.IncrMetrics(ctx, time.Now(), session.MetricDeltas{SessionsStarted: 1}); err != nil {
				s.log.Debug("metrics write failed", "error", err)
			}
		}()
	}

	s.bridge.Start(s.ctx)

	s.wg.Add(1)
	go s.envelopeLoop()
}

func (s *Session) envelopeLoop() {
	defer s.wg.Done()

	envelopes := s.conn.Envelopes()
	for {
		select {
		case <-s.ctx.Done():
			return
		case env, ok := <-envelopes:
			if !ok {
				return
			}
			s.handleEnvelope(env)
		}
	}
}

func (s *Session) handleEnvelope(env transport.ClientEnvelope) {
	if err := s.validate.Struct(env); err != nil {
		s.log.Debug("rejected envelope", "error", err)
		s.sendError(transport.ErrCodeBadEnvelope, "invalid envelope")
		return
	}

	switch env.Type {
	case transport.EnvelopeLandmarkFrame:
		s.evaluateFrame(transport.ToLandmarkSet(env.Landmarks))
	case transport.EnvelopeImageFrame:
		s.handleImageFrame(env.Frame)
	case transport.EnvelopeConfigure:
		s.applySettings(env.Config)
	default:
		s.sendError(transport.ErrCodeBadEnvelope, fmt.Sprintf("unknown envelope type %q", env.Type))
	}
}

// handleImageFrame runs sidecar inference on its own goroutine. The busy
// flag keeps at most one evaluation outstanding; frames arriving while one
// is in flight are dropped, never queued, so feedback stays current.
func (s *Session) handleImageFrame(frame string) {
	if s.detector == nil {
		s.sendError(transport.ErrCodeDetectorUnavailable, "no pose detector configured")
		return
	}

	data, err := base64.StdEncoding.DecodeString(frame)
	if err != nil || len(data) == 0 {
		s.sendError(transport.ErrCodeBadEnvelope, "frame is not valid base64 image data")
		return
	}

	s.mu.Lock()
	if s.busy {
		s.dropped++
		dropped := s.dropped
		s.mu.Unlock()
		s.log.Debug("dropped frame while evaluation in flight", "dropped_total", dropped)
		return
	}
	s.busy = true
	s.mu.Unlock()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer func() {
			s.mu.Lock()
			s.busy = false
			s.mu.Unlock()
		}()

		set, err := s.detector.Detect(s.ctx, data)
		if err != nil {
			s.log.Error("pose detection failed", "error", err)
			s.sendError(transport.ErrCodeDetectorUnavailable, "pose detection failed")
			return
		}
		s.evaluateFrame(set)
	}()
}

func (s *Session) evaluateFrame(set *pose.LandmarkSet) {
	outcome := s.evaluator.Evaluate(set, s.throttle.GoodStreak())
	utterance, speak := s.throttle.MaybeSpeak(outcome, time.Now())

	status := make(map[string]bool, len(outcome.Status))
	for check, ok := range outcome.Status {
		status[string(check)] = ok
	}

	s.sendEvent(transport.EventEvaluation, transport.EvaluationPayload{
		Kind:        string(outcome.Kind),
		Feedback:    outcome.Feedback,
		DisplayText: displayText(outcome),
		CheckStatus: status,
		GoodStreak:  outcome.GoodStreak,
	})

	s.sendEvent(transport.EventOverlay, overlay.BuildPlan(set, outcome.Status, s.currentThreshold()))

	if speak {
		s.bridge.Enqueue(utterance)
	}

	s.recordFrame(outcome, speak)
}

func (s *Session) applySettings(settings *transport.SessionSettings) {
	if settings == nil {
		s.sendError(transport.ErrCodeBadEnvelope, "configure envelope carries no config")
		return
	}

	if settings.SoundEnabled != nil {
		s.throttle.SetSoundEnabled(*settings.SoundEnabled)
	}
	if settings.DrawThreshold != nil {
		s.mu.Lock()
		s.drawThreshold = *settings.DrawThreshold
		s.mu.Unlock()
	}

	s.sendEvent(transport.EventStatus, transport.StatusPayload{Message: "settings updated"})
}

func (s *Session) currentThreshold() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.drawThreshold
}

func (s *Session) recordFrame(outcome pose.Outcome, spoke bool) {
	now := time.Now()

	s.mu.Lock()
	s.frames++
	s.pending.FramesEvaluated++
	if outcome.Kind == pose.OutcomeGoodPose {
		s.goodFrames++
		s.pending.GoodFrames++
	}
	if spoke {
		s.utterances++
		s.pending.Utterances++
	}
	s.lastKind = outcome.Kind
	if len(outcome.Feedback) > 0 {
		s.lastFeedback = outcome.Feedback[0]
	}
	s.lastFrameAt = now

	var status *session.LiveStatus
	var deltas session.MetricDeltas
	if s.store != nil && now.Sub(s.lastFlushAt) >= statusInterval {
		s.lastFlushAt = now
		status = s.liveStatusLocked()
		deltas = s.pending
		s.pending = session.MetricDeltas{}
	}
	s.mu.Unlock()

	if status != nil {
		s.flush(status, deltas)
	}
}

func (s *Session) liveStatusLocked() *session.LiveStatus {
	return &session.LiveStatus{
		SessionID:       s.id,
		UserID:          s.userID,
		StartedAt:       s.startedAt,
		LastFrameAt:     s.lastFrameAt,
		FramesEvaluated: int64(s.frames),
		GoodFrames:      int64(s.goodFrames),
		CurrentKind:     string(s.lastKind),
		LastFeedback:    s.lastFeedback,
	}
}

func (s *Session) flush(status *session.LiveStatus, deltas session.MetricDeltas) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ctx, cancel := context.WithTimeout(s.ctx, storeTimeout)
		defer cancel()

		if err := s.store.SetLiveStatus(ctx, status); err != nil {
			s.log.Debug("live status write failed", "error", err)
			return
		}
		if err := s.store.IncrMetrics(ctx, time.Now(), deltas); err != nil {
			s.log.Debug("metrics write failed", "error", err)
		}
	}()
}

func (s *Session) sendEvent(t transport.EventType, payload any) {
	evt := transport.ServerEvent{
		Type:      t,
		SessionID: s.id,
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	}
	if err := s.conn.Send(s.ctx, evt); err != nil {
		s.log.Error("failed to send event", "type", t, "error", err)
	}
}

func (s *Session) sendError(code, message string) {
	s.sendEvent(transport.EventError, transport.ErrorPayload{Code: code, Message: message})
}

// CloseWithError tells the client why it is being disconnected, then closes.
func (s *Session) CloseWithError(code, message string) error {
	s.sendError(code, message)
	return s.Close()
}

func (s *Session) Close() error {
	var err error
	s.closeOnce.Do(func() {
		s.cancel()
		s.wg.Wait()
		s.bridge.Stop()

		s.mu.Lock()
		summary := transport.SummaryPayload{
			FramesEvaluated: s.frames,
			GoodFrames:      s.goodFrames,
			Utterances:      s.utterances,
			DroppedFrames:   s.dropped,
			DurationMS:      time.Since(s.startedAt).Milliseconds(),
		}
		deltas := s.pending
		s.pending = session.MetricDeltas{}
		s.mu.Unlock()

		sendCtx, cancelSend := context.WithTimeout(context.Background(), storeTimeout)
		defer cancelSend()
		evt := transport.ServerEvent{
			Type:      transport.EventSessionSummary,
			SessionID: s.id,
			Timestamp: time.Now().UTC(),
			Payload:   summary,
		}
		if sendErr := s.conn.Send(sendCtx, evt); sendErr != nil {
			s.log.Debug("failed to send session summary", "error", sendErr)
		}

		if s.store != nil {
			ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
			defer cancel()
			if delErr := s.store.DeleteLiveStatus(ctx, s.id); delErr != nil {
				s.log.Debug("live status delete failed", "error", delErr)
			}
			if incrErr := s.store.IncrMetrics(ctx, time.Now(), deltas); incrErr != nil {
				s.log.Debug("metrics write failed", "error", incrErr)
			}
		}

		s.log.Info("coaching session closed",
			"frames", summary.FramesEvaluated,
			"good_frames", summary.GoodFrames,
			"utterances", summary.Utterances,
			"dropped_frames", summary.DroppedFrames,
			"duration_ms", summary.DurationMS)

		err = s.conn.Close()
	})
	return err
}

// displayText is what the client renders as the caption block, one line
// per message. The spoken utterance is joined differently by the throttle.
func displayText(outcome pose.Outcome) string {
	return strings.Join(outcome.Feedback, "\n")
}

func checkNames(checks []pose.Check) []string {
	names := make([]string, len(checks))
	for i, c := range checks {
		names[i] = string(c)
	}
	return names
}

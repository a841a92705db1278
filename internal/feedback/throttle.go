package feedback

import (
	"strings"
	"sync"
	"time"

	"github.com/eleven-am/align-backend/internal/pose"
)

type SessionState struct {
	ConsecutiveGoodFrames int
	LastSpokenMessage     string
	LastSpeechTime        time.Time
}

type Policy struct {
	Cooldown time.Duration
}

type Throttle struct {
	mu           sync.Mutex
	policy       Policy
	soundEnabled bool
	state        SessionState
}

func NewThrottle(policy Policy) *Throttle {
	if policy.Cooldown == 0 {
		policy.Cooldown = 5 * time.Second
	}
	return &Throttle{
		policy:       policy,
		soundEnabled: true,
	}
}

func (t *Throttle) SetSoundEnabled(enabled bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.soundEnabled = enabled
}

func (t *Throttle) SoundEnabled() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.soundEnabled
}

func (t *Throttle) State() SessionState {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

func (t *Throttle) GoodStreak() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state.ConsecutiveGoodFrames
}

// MaybeSpeak applies one frame's outcome to the session state and reports the
// utterance to synthesize, if any. No-person and missing-landmark frames clear
// the spoken-message and timestamp state instead of speaking, so the next
// correction goes out immediately once evaluation resumes; making their own
// message a candidate would re-fire the cleared gates every frame.
func (t *Throttle) MaybeSpeak(outcome pose.Outcome, now time.Time) (string, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	switch outcome.Kind {
	case pose.OutcomeNoPerson, pose.OutcomeMissingLandmarks:
		t.state = SessionState{}
		return "", false
	case pose.OutcomeGoodPose:
		t.state.ConsecutiveGoodFrames = outcome.GoodStreak
	default:
		t.state.ConsecutiveGoodFrames = 0
	}

	if len(outcome.Feedback) == 0 {
		return "", false
	}

	candidate := outcome.Feedback[0]
	if outcome.Kind == pose.OutcomeGoodPose {
		candidate = strings.Join(outcome.Feedback, " ")
	}

	if !t.soundEnabled {
		return "", false
	}
	if !t.state.LastSpeechTime.IsZero() && now.Sub(t.state.LastSpeechTime) <= t.policy.Cooldown {
		return "", false
	}
	if candidate == t.state.LastSpokenMessage {
		return "", false
	}

	t.state.LastSpokenMessage = candidate
	t.state.LastSpeechTime = now
	return candidate, true
}

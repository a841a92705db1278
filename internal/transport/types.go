package transport

import (
	"time"

	"github.com/eleven-am/align-backend/internal/pose"
)

type EventType string

const (
	EventSessionReady   EventType = "session_ready"
	EventEvaluation     EventType = "evaluation"
	EventOverlay        EventType = "overlay"
	EventSpeech         EventType = "speech"
	EventStatus         EventType = "status"
	EventError          EventType = "error"
	EventSessionSummary EventType = "session_summary"
)

type EnvelopeType string

const (
	EnvelopeLandmarkFrame EnvelopeType = "landmark_frame"
	EnvelopeImageFrame    EnvelopeType = "image_frame"
	EnvelopeConfigure     EnvelopeType = "configure"
)

const (
	ErrCodeBadEnvelope         = "bad_envelope"
	ErrCodeDetectorUnavailable = "detector_unavailable"
	ErrCodeSessionLimit        = "session_limit"
	ErrCodeSlowConsumer        = "slow_consumer"
)

type ServerEvent struct {
	Type      EventType `json:"type"`
	SessionID string    `json:"session_id,omitempty"`
	Timestamp time.Time `json:"timestamp"`
	Payload   any       `json:"payload,omitempty"`
}

type ClientEnvelope struct {
	Type      EnvelopeType     `json:"type"`
	Landmarks []*LandmarkPoint `json:"landmarks,omitempty" validate:"omitempty,max=33,dive"`
	Frame     string           `json:"frame,omitempty"`
	Config    *SessionSettings `json:"config,omitempty"`
}

type LandmarkPoint struct {
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Visibility float64 `json:"visibility" validate:"gte=0,lte=1"`
}

type SessionSettings struct {
	SoundEnabled  *bool    `json:"sound_enabled,omitempty"`
	DrawThreshold *float64 `json:"draw_threshold,omitempty" validate:"omitempty,gte=0,lte=1"`
}

type SessionReadyPayload struct {
	SessionID     string   `json:"session_id"`
	Checks        []string `json:"checks"`
	SoundEnabled  bool     `json:"sound_enabled"`
	DrawThreshold float64  `json:"draw_threshold"`
}

type EvaluationPayload struct {
	Kind        string          `json:"kind"`
	Feedback    []string        `json:"feedback"`
	DisplayText string          `json:"display_text"`
	CheckStatus map[string]bool `json:"check_status,omitempty"`
	GoodStreak  int             `json:"good_streak"`
}

type SpeechPayload struct {
	Text     string `json:"text"`
	Audio    string `json:"audio,omitempty"`
	MimeType string `json:"mime_type,omitempty"`
}

type StatusPayload struct {
	Message string `json:"message"`
}

type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type SummaryPayload struct {
	FramesEvaluated int   `json:"frames_evaluated"`
	GoodFrames      int   `json:"good_frames"`
	Utterances      int   `json:"utterances"`
	DroppedFrames   int   `json:"dropped_frames"`
	DurationMS      int64 `json:"duration_ms"`
}

// ToLandmarkSet maps a wire landmark array onto the fixed body-point index
// space. An empty array means no person was detected; null entries mark
// points the detector dropped for the frame.
func ToLandmarkSet(points []*LandmarkPoint) *pose.LandmarkSet {
	if len(points) == 0 {
		return nil
	}
	set := pose.NewLandmarkSet()
	for i, p := range points {
		if p == nil {
			continue
		}
		set.Put(pose.Index(i), pose.Landmark{
			Point:      pose.Point{X: p.X, Y: p.Y},
			Visibility: p.Visibility,
		})
	}
	return set
}

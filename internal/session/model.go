package session

import (
	"strconv"
	"time"
)

type LiveStatus struct {
	SessionID       string    `json:"session_id"`
	UserID          string    `json:"user_id"`
	StartedAt       time.Time `json:"started_at"`
	LastFrameAt     time.Time `json:"last_frame_at"`
	FramesEvaluated int64     `json:"frames_evaluated"`
	GoodFrames      int64     `json:"good_frames"`
	CurrentKind     string    `json:"current_kind"`
	LastFeedback    string    `json:"last_feedback,omitempty"`
}

func (s *LiveStatus) RedisKey() string {
	return "live:" + s.SessionID
}

type MetricDeltas struct {
	SessionsStarted int64
	FramesEvaluated int64
	GoodFrames      int64
	Utterances      int64
}

type HourlyMetrics struct {
	Date            string `json:"date"`
	Hour            int    `json:"hour"`
	SessionsStarted int64  `json:"sessions_started"`
	FramesEvaluated int64  `json:"frames_evaluated"`
	GoodFrames      int64  `json:"good_frames"`
	Utterances      int64  `json:"utterances"`
}

func MetricsRedisKey(date string, hour int) string {
	return "metrics:" + date + ":" + strconv.Itoa(hour)
}

package dto

type LiveSessionResponse struct {
	SessionID       string `json:"session_id" example:"sess_abc123"`
	UserID          string `json:"user_id" example:"usr_xyz789"`
	StartedAt       string `json:"started_at" example:"2025-03-10T09:00:00Z"`
	LastFrameAt     string `json:"last_frame_at" example:"2025-03-10T09:05:30Z"`
	FramesEvaluated int64  `json:"frames_evaluated" example:"4200"`
	GoodFrames      int64  `json:"good_frames" example:"3100"`
	CurrentKind     string `json:"current_kind" example:"good_pose"`
	LastFeedback    string `json:"last_feedback,omitempty" example:"Sit deeper on your heels."`
}

type LiveSessionListResponse struct {
	Sessions []LiveSessionResponse `json:"sessions"`
	Count    int                   `json:"count" example:"3"`
}

type MetricsResponse struct {
	Date            string `json:"date" example:"2025-03-10"`
	Hour            int    `json:"hour" example:"9"`
	SessionsStarted int64  `json:"sessions_started" example:"12"`
	FramesEvaluated int64  `json:"frames_evaluated" example:"18000"`
	GoodFrames      int64  `json:"good_frames" example:"9500"`
	Utterances      int64  `json:"utterances" example:"230"`
}

type MetricsListResponse struct {
	Hours   int               `json:"hours" example:"24"`
	Metrics []MetricsResponse `json:"metrics"`
}

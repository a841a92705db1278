package dto

type LiveKitTokenResponse struct {
	Token    string `json:"token" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
	URL      string `json:"url" example:"wss://align.livekit.cloud"`
	Room     string `json:"room" example:"room_abc123"`
	Identity string `json:"identity" example:"usr_abc123"`
}

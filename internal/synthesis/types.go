package synthesis

import "time"

type Config struct {
	BaseURL    string
	APIKey     string
	VoiceID    string
	ModelID    string
	Stability  float64
	Similarity float64
	Timeout    time.Duration
}

type Synthesis struct {
	Audio    []byte
	MimeType string
	Voice    string
}

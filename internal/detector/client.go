package detector

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"google.golang.org/grpc"

	"github.com/eleven-am/align-backend/internal/pose"
	"github.com/eleven-am/align-backend/internal/shared"
)

const (
	probeTimeout = 2 * time.Second

	// One retry only. A video frame is stale by the second backoff.
	maxRetries = 1
)

type Config struct {
	BaseURL  string
	GRPCAddr string
	Timeout  time.Duration
	Retry    shared.BackoffConfig
}

type Client struct {
	httpClient *http.Client
	baseURL    string
	grpcAddr   string
	retry      shared.BackoffConfig
	logger     *slog.Logger

	mu   sync.Mutex
	conn *grpc.ClientConn
}

func NewClient(cfg Config, logger *slog.Logger) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 2 * time.Second
	}

	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    cfg.BaseURL,
		grpcAddr:   cfg.GRPCAddr,
		retry:      cfg.Retry.Normalized(),
		logger:     logger.With("component", "detector_client"),
	}
}

type detectRequest struct {
	Image string `json:"image"`
}

type landmarkEntry struct {
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Visibility float64 `json:"visibility"`
}

type detectResponse struct {
	Detected  bool             `json:"detected"`
	Landmarks []*landmarkEntry `json:"landmarks"`
}

// Detect posts one encoded camera frame to the inference sidecar and returns
// the landmarks it found. A frame with nobody in it returns (nil, nil); the
// caller treats that as the no-person outcome, not a failure.
func (c *Client) Detect(ctx context.Context, frame []byte) (*pose.LandmarkSet, error) {
	if len(frame) == 0 {
		return nil, fmt.Errorf("no frame data provided")
	}

	payload, err := json.Marshal(detectRequest{Image: base64.StdEncoding.EncodeToString(frame)})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			c.logger.Debug("retrying detect", "attempt", attempt, "error", lastErr)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(c.retry.Delay(attempt - 1)):
			}
		}

		set, retryable, err := c.postDetect(ctx, payload)
		if err == nil {
			return set, nil
		}
		lastErr = err
		if !retryable {
			break
		}
	}

	return nil, lastErr
}

func (c *Client) postDetect(ctx context.Context, payload []byte) (*pose.LandmarkSet, bool, error) {
	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/detect", bytes.NewReader(payload))
	if err != nil {
		return nil, false, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, true, fmt.Errorf("detector request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		err := fmt.Errorf("detector returned status %d: %s", resp.StatusCode, bytes.TrimSpace(body))
		return nil, resp.StatusCode >= 500, err
	}

	var out detectResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, false, fmt.Errorf("decode response: %w", err)
	}

	if !out.Detected {
		return nil, false, nil
	}

	set := pose.NewLandmarkSet()
	for i, lm := range out.Landmarks {
		if lm == nil || i >= pose.NumLandmarks {
			continue
		}
		set.Put(pose.Index(i), pose.Landmark{
			Point:      pose.Point{X: lm.X, Y: lm.Y},
			Visibility: lm.Visibility,
		})
	}
	return set, false, nil
}

// Healthy probes the sidecar, preferring the gRPC health service when an
// address for it is configured.
func (c *Client) Healthy(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	if c.grpcAddr != "" {
		return c.probeGRPC(ctx)
	}
	return c.probeHTTP(ctx)
}

func (c *Client) probeHTTP(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+"/health", nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("detector request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("detector returned status %d", resp.StatusCode)
	}
	return nil
}

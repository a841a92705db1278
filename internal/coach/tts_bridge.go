package coach

import (
	"context"
	"encoding/base64"
	"log/slog"
	"sync"
	"time"

	"github.com/eleven-am/align-backend/internal/synthesis"
	"github.com/eleven-am/align-backend/internal/transport"
)

const utteranceQueueSize = 4

// TTSBridge serializes utterances for one session: a single worker drains
// the queue so audio arrives in the order the throttle approved it.
type TTSBridge struct {
	synth     synthesis.Synthesizer
	conn      transport.Connection
	sessionID string
	log       *slog.Logger

	queue  chan string
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

type TTSBridgeConfig struct {
	Synth     synthesis.Synthesizer
	Conn      transport.Connection
	SessionID string
	Log       *slog.Logger
}

func NewTTSBridge(cfg TTSBridgeConfig) *TTSBridge {
	log := cfg.Log
	if log == nil {
		log = slog.Default()
	}
	return &TTSBridge{
		synth:     cfg.Synth,
		conn:      cfg.Conn,
		sessionID: cfg.SessionID,
		log:       log,
		queue:     make(chan string, utteranceQueueSize),
	}
}

func (b *TTSBridge) Start(ctx context.Context) {
	ctx, b.cancel = context.WithCancel(ctx)
	b.wg.Add(1)
	go b.run(ctx)
}

func (b *TTSBridge) run(ctx context.Context) {
	defer b.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case text := <-b.queue:
			b.speak(ctx, text)
		}
	}
}

// Enqueue queues one utterance, dropping the oldest pending one when the
// queue is full. Speech is advisory; the same text already went out on the
// evaluation event.
func (b *TTSBridge) Enqueue(text string) {
	select {
	case b.queue <- text:
		return
	default:
	}

	select {
	case dropped := <-b.queue:
		b.log.Debug("dropped queued utterance", "text", dropped)
	default:
	}
	select {
	case b.queue <- text:
	default:
	}
}

func (b *TTSBridge) Stop() {
	if b.cancel != nil {
		b.cancel()
	}
	b.wg.Wait()
}

func (b *TTSBridge) speak(ctx context.Context, text string) {
	payload := transport.SpeechPayload{Text: text}

	if b.synth != nil {
		result, err := b.synth.Synthesize(ctx, text)
		if err != nil {
			b.log.Error("synthesis failed", "error", err)
			b.sendEvent(ctx, transport.EventStatus, transport.StatusPayload{Message: "speech unavailable"})
			return
		}
		payload.Audio = base64.StdEncoding.EncodeToString(result.Audio)
		payload.MimeType = result.MimeType
	}

	b.sendEvent(ctx, transport.EventSpeech, payload)
}

func (b *TTSBridge) sendEvent(ctx context.Context, t transport.EventType, payload any) {
	evt := transport.ServerEvent{
		Type:      t,
		SessionID: b.sessionID,
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	}
	if err := b.conn.Send(ctx, evt); err != nil {
		b.log.Error("failed to send event", "type", t, "error", err)
	}
}

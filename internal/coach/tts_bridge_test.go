package coach

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/eleven-am/align-backend/internal/transport"
)

func newTestBridge(conn *fakeConn, synth *fakeSynth) *TTSBridge {
	cfg := TTSBridgeConfig{
		Conn:      conn,
		SessionID: "sess_test",
		Log:       testLogger(),
	}
	if synth != nil {
		cfg.Synth = synth
	}
	return NewTTSBridge(cfg)
}

func TestTTSBridge_TextOnlyWithoutSynth(t *testing.T) {
	conn := newFakeConn()
	bridge := newTestBridge(conn, nil)
	bridge.Start(t.Context())
	t.Cleanup(bridge.Stop)

	bridge.Enqueue("Sit deeper on your heels.")

	speeches := conn.waitForEvents(t, transport.EventSpeech, 1)
	payload := speeches[0].Payload.(transport.SpeechPayload)
	if payload.Text != "Sit deeper on your heels." {
		t.Errorf("unexpected text %q", payload.Text)
	}
	if payload.Audio != "" {
		t.Errorf("expected no audio without a synthesizer, got %q", payload.Audio)
	}
	if speeches[0].SessionID != "sess_test" {
		t.Errorf("expected session id on event, got %s", speeches[0].SessionID)
	}
}

func TestTTSBridge_AttachesAudio(t *testing.T) {
	conn := newFakeConn()
	synth := &fakeSynth{}
	bridge := newTestBridge(conn, synth)
	bridge.Start(t.Context())
	t.Cleanup(bridge.Stop)

	bridge.Enqueue("Lower your hips toward your heels.")

	speeches := conn.waitForEvents(t, transport.EventSpeech, 1)
	payload := speeches[0].Payload.(transport.SpeechPayload)
	if payload.Audio != "AQID" {
		t.Errorf("expected base64 audio AQID, got %q", payload.Audio)
	}
	if payload.MimeType != "audio/mpeg" {
		t.Errorf("expected audio/mpeg, got %s", payload.MimeType)
	}

	synth.mu.Lock()
	texts := synth.texts
	synth.mu.Unlock()
	if len(texts) != 1 || texts[0] != "Lower your hips toward your heels." {
		t.Errorf("unexpected synthesized texts %v", texts)
	}
}

func TestTTSBridge_SynthFailureKeepsWorkerAlive(t *testing.T) {
	conn := newFakeConn()
	synth := &fakeSynth{err: errors.New("api down")}
	bridge := newTestBridge(conn, synth)
	bridge.Start(t.Context())
	t.Cleanup(bridge.Stop)

	bridge.Enqueue("Round your back and relax your spine.")

	statuses := conn.waitForEvents(t, transport.EventStatus, 1)
	payload := statuses[0].Payload.(transport.StatusPayload)
	if payload.Message != "speech unavailable" {
		t.Errorf("unexpected status %q", payload.Message)
	}
	if got := len(conn.eventsOfType(transport.EventSpeech)); got != 0 {
		t.Errorf("expected no speech on failure, got %d events", got)
	}

	synth.mu.Lock()
	synth.err = nil
	synth.mu.Unlock()

	bridge.Enqueue("Keep your shoulders level and relaxed.")
	speeches := conn.waitForEvents(t, transport.EventSpeech, 1)
	speech := speeches[0].Payload.(transport.SpeechPayload)
	if speech.Text != "Keep your shoulders level and relaxed." {
		t.Errorf("worker should keep serving after a failure, got %q", speech.Text)
	}
}

func TestTTSBridge_DropsOldestWhenFull(t *testing.T) {
	conn := newFakeConn()
	bridge := newTestBridge(conn, nil)

	// Not started yet, so the queue fills up and the first utterance is shed.
	for i := 0; i < utteranceQueueSize+1; i++ {
		bridge.Enqueue(fmt.Sprintf("utterance %d", i))
	}

	bridge.Start(t.Context())
	t.Cleanup(bridge.Stop)

	speeches := conn.waitForEvents(t, transport.EventSpeech, utteranceQueueSize)
	first := speeches[0].Payload.(transport.SpeechPayload)
	if first.Text != "utterance 1" {
		t.Errorf("expected oldest utterance dropped, first spoken is %q", first.Text)
	}
	last := speeches[len(speeches)-1].Payload.(transport.SpeechPayload)
	if last.Text != fmt.Sprintf("utterance %d", utteranceQueueSize) {
		t.Errorf("expected newest utterance kept, last spoken is %q", last.Text)
	}
}

func TestTTSBridge_StopWithoutStart(t *testing.T) {
	bridge := newTestBridge(newFakeConn(), nil)
	bridge.Stop()
}

func TestTTSBridge_StopHaltsWorker(t *testing.T) {
	conn := newFakeConn()
	bridge := newTestBridge(conn, nil)
	bridge.Start(t.Context())
	bridge.Stop()

	bridge.Enqueue("Breathe deeply and hold the pose.")
	time.Sleep(50 * time.Millisecond)
	if got := len(conn.eventsOfType(transport.EventSpeech)); got != 0 {
		t.Errorf("expected no speech after stop, got %d events", got)
	}
}

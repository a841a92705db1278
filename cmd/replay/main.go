// Command replay feeds a recorded landmark stream through a live coaching
// session. The recording is JSONL: one frame per line, each line the JSON
// array of landmarks the detector produced (null entries allowed, an empty
// array for frames with nobody in them).
package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gorilla/websocket"

	"github.com/eleven-am/align-backend/internal/transport"
)

type wireEvent struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

func main() {
	addr := flag.String("addr", "ws://localhost:8080/v1/coach/connect", "gateway websocket URL")
	token := flag.String("token", "", "session JWT from POST /v1/auth/session")
	file := flag.String("file", "", "JSONL recording, one landmark array per line")
	fps := flag.Int("fps", 15, "frames per second to replay")
	sound := flag.Bool("sound", true, "leave speech enabled")
	flag.Parse()

	if *token == "" || *file == "" {
		flag.Usage()
		os.Exit(2)
	}
	if *fps <= 0 {
		*fps = 15
	}

	f, err := os.Open(*file)
	if err != nil {
		log.Fatal("open recording: ", err)
	}
	defer f.Close()

	fmt.Printf("[REPLAY] Connecting to %s\n", *addr)

	conn, resp, err := websocket.DefaultDialer.Dial(*addr+"?token="+url.QueryEscape(*token), nil)
	if err != nil {
		if resp != nil {
			body, _ := io.ReadAll(resp.Body)
			fmt.Printf("[REPLAY] Dial failed: status=%d body=%s\n", resp.StatusCode, string(body))
		}
		log.Fatal("dial: ", err)
	}
	defer conn.Close()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sig
		fmt.Println("[REPLAY] Interrupted")
		conn.Close()
		os.Exit(0)
	}()

	done := make(chan struct{})
	go printEvents(conn, done)

	if !*sound {
		muted := false
		send(conn, transport.ClientEnvelope{
			Type:   transport.EnvelopeConfigure,
			Config: &transport.SessionSettings{SoundEnabled: &muted},
		})
	}

	ticker := time.NewTicker(time.Second / time.Duration(*fps))
	defer ticker.Stop()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	frames := 0
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		var points []*transport.LandmarkPoint
		if err := json.Unmarshal(line, &points); err != nil {
			fmt.Printf("[REPLAY] Skipping bad line after frame %d: %v\n", frames, err)
			continue
		}

		<-ticker.C
		send(conn, transport.ClientEnvelope{
			Type:      transport.EnvelopeLandmarkFrame,
			Landmarks: points,
		})
		frames++
	}
	if err := scanner.Err(); err != nil {
		log.Fatal("read recording: ", err)
	}

	fmt.Printf("[REPLAY] Sent %d frames, closing\n", frames)
	conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))

	// Give the server a moment to flush the session summary.
	select {
	case <-done:
	case <-time.After(2 * time.Second):
	}
}

func printEvents(conn *websocket.Conn, done chan struct{}) {
	defer close(done)

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}

		var evt wireEvent
		if err := json.Unmarshal(data, &evt); err != nil {
			fmt.Printf("[REPLAY] Bad event: %v\n", err)
			continue
		}

		switch evt.Type {
		case "session_ready":
			var p transport.SessionReadyPayload
			json.Unmarshal(evt.Payload, &p)
			fmt.Printf("[REPLAY] Session %s ready, checks: %s\n", p.SessionID, strings.Join(p.Checks, ", "))
		case "evaluation":
			var p transport.EvaluationPayload
			json.Unmarshal(evt.Payload, &p)
			fmt.Printf("[REPLAY] %-17s streak=%-3d %s\n", p.Kind, p.GoodStreak, strings.ReplaceAll(p.DisplayText, "\n", " | "))
		case "speech":
			var p transport.SpeechPayload
			json.Unmarshal(evt.Payload, &p)
			if p.Audio != "" {
				fmt.Printf("[REPLAY] Speech (%s): %q\n", p.MimeType, p.Text)
			} else {
				fmt.Printf("[REPLAY] Speech (text only): %q\n", p.Text)
			}
		case "status":
			var p transport.StatusPayload
			json.Unmarshal(evt.Payload, &p)
			fmt.Printf("[REPLAY] Status: %s\n", p.Message)
		case "error":
			var p transport.ErrorPayload
			json.Unmarshal(evt.Payload, &p)
			fmt.Printf("[REPLAY] Error %s: %s\n", p.Code, p.Message)
		case "session_summary":
			var p transport.SummaryPayload
			json.Unmarshal(evt.Payload, &p)
			fmt.Printf("[REPLAY] Summary: %d frames, %d good, %d utterances, %d dropped, %dms\n",
				p.FramesEvaluated, p.GoodFrames, p.Utterances, p.DroppedFrames, p.DurationMS)
		default:
			// Overlay plans arrive every frame; printing them would bury
			// everything else.
		}
	}
}

func send(conn *websocket.Conn, env transport.ClientEnvelope) {
	data, err := json.Marshal(env)
	if err != nil {
		log.Fatal("marshal envelope: ", err)
	}
	if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
		log.Fatal("write: ", err)
	}
}

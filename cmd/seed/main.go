// Command seed writes a synthetic landmark recording for cmd/replay: a
// performer stepping into frame, holding child's pose, drifting up out of it
// and settling back down. Coordinates are normalized, origin top-left.
package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"math/rand"
	"os"

	"github.com/eleven-am/align-backend/internal/pose"
	"github.com/eleven-am/align-backend/internal/transport"
)

func main() {
	out := flag.String("out", "recording.jsonl", "output file")
	seconds := flag.Int("seconds", 60, "length of the recording")
	fps := flag.Int("fps", 15, "frames per second")
	seed := flag.Int64("seed", 1, "jitter seed")
	flag.Parse()

	if *seconds <= 0 {
		*seconds = 60
	}
	if *fps <= 0 {
		*fps = 15
	}

	f, err := os.Create(*out)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create %s: %v\n", *out, err)
		os.Exit(1)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	enc := json.NewEncoder(w)
	r := rand.New(rand.NewSource(*seed))

	total := *seconds * *fps
	for i := 0; i < total; i++ {
		progress := float64(i) / float64(total)

		var points []*transport.LandmarkPoint
		switch {
		case progress < 0.05:
			// Performer still off camera.
			points = []*transport.LandmarkPoint{}
		case progress < 0.10:
			// Settling in, visibly shaky.
			points = frame(r, basePose(), 0.012)
		case progress < 0.60:
			points = frame(r, basePose(), 0.003)
		case progress < 0.75:
			// Hips drift up off the heels.
			points = frame(r, hipsHigh(), 0.003)
		default:
			points = frame(r, basePose(), 0.003)
		}

		if err := enc.Encode(points); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to write frame %d: %v\n", i, err)
			os.Exit(1)
		}
	}

	if err := w.Flush(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to flush %s: %v\n", *out, err)
		os.Exit(1)
	}

	fmt.Printf("Wrote %d frames (%ds at %d fps) to %s\n", total, *seconds, *fps, *out)
	fmt.Println("")
	fmt.Println("Replay it against a local server:")
	fmt.Printf("  go run ./cmd/replay -token <token> -file %s -fps %d\n", *out, *fps)
}

// basePose is a child's pose seen from the side: forehead down, arms
// reaching past the head, hips resting on the heels.
func basePose() map[pose.Index]pose.Point {
	return map[pose.Index]pose.Point{
		pose.Nose:          {X: 0.5695, Y: 0.7157},
		pose.LeftShoulder:  {X: 0.44, Y: 0.70},
		pose.RightShoulder: {X: 0.46, Y: 0.71},
		pose.LeftWrist:     {X: 0.52, Y: 0.75},
		pose.RightWrist:    {X: 0.54, Y: 0.76},
		pose.LeftHip:       {X: 0.48, Y: 0.52},
		pose.RightHip:      {X: 0.52, Y: 0.52},
		pose.LeftKnee:      {X: 0.48, Y: 0.72},
		pose.RightKnee:     {X: 0.52, Y: 0.72},
		pose.LeftAnkle:     {X: 0.5645, Y: 0.5387},
		pose.RightAnkle:    {X: 0.6045, Y: 0.5387},
		pose.LeftHeel:      {X: 0.48, Y: 0.57},
		pose.RightHeel:     {X: 0.52, Y: 0.57},
	}
}

// hipsHigh swings the ankles out so the knees open far past the fold and the
// evaluator asks the performer to sit back down.
func hipsHigh() map[pose.Index]pose.Point {
	coords := basePose()
	coords[pose.LeftAnkle] = pose.Point{X: 0.88, Y: 0.65}
	coords[pose.RightAnkle] = pose.Point{X: 0.92, Y: 0.65}
	return coords
}

func frame(r *rand.Rand, coords map[pose.Index]pose.Point, wobble float64) []*transport.LandmarkPoint {
	points := make([]*transport.LandmarkPoint, pose.NumLandmarks)
	for i, p := range coords {
		points[i] = &transport.LandmarkPoint{
			X:          p.X + jitter(r, wobble),
			Y:          p.Y + jitter(r, wobble),
			Visibility: clamp(0.95+jitter(r, 0.04), 0, 1),
		}
	}
	return points
}

func jitter(r *rand.Rand, scale float64) float64 {
	return (r.Float64()*2 - 1) * scale
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

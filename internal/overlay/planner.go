package overlay

import "github.com/eleven-am/align-backend/internal/pose"

const DefaultDrawThreshold = 0.1

type Color string

const (
	ColorGood    Color = "green"
	ColorBad     Color = "red"
	ColorNeutral Color = "white"
)

type Marker struct {
	Index int     `json:"index"`
	Name  string  `json:"name"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Color Color   `json:"color"`
}

type Segment struct {
	From  int   `json:"from"`
	To    int   `json:"to"`
	Color Color `json:"color"`
}

type Plan struct {
	Markers  []Marker  `json:"markers"`
	Segments []Segment `json:"segments"`
}

type Connection struct {
	From pose.Index
	To   pose.Index
}

var Connections = []Connection{
	{From: pose.LeftShoulder, To: pose.RightShoulder},
	{From: pose.LeftShoulder, To: pose.LeftHip},
	{From: pose.RightShoulder, To: pose.RightHip},
	{From: pose.LeftHip, To: pose.RightHip},
	{From: pose.LeftHip, To: pose.LeftKnee},
	{From: pose.RightHip, To: pose.RightKnee},
	{From: pose.LeftKnee, To: pose.LeftAnkle},
	{From: pose.RightKnee, To: pose.RightAnkle},
	{From: pose.LeftShoulder, To: pose.LeftElbow},
	{From: pose.RightShoulder, To: pose.RightElbow},
	{From: pose.LeftElbow, To: pose.LeftWrist},
	{From: pose.RightElbow, To: pose.RightWrist},
}

// BuildPlan turns one frame's landmarks and check statuses into the draw plan
// the client renders. Landmarks under the visibility threshold are skipped, a
// segment needs both endpoints drawn, and a joint goes red when any check it
// participates in is currently failing.
func BuildPlan(set *pose.LandmarkSet, status map[pose.Check]bool, threshold float64) Plan {
	if set == nil {
		return Plan{}
	}

	var plan Plan
	var drawn [pose.NumLandmarks]bool
	var colors [pose.NumLandmarks]Color

	for i := pose.Index(0); i < pose.NumLandmarks; i++ {
		lm, ok := set.At(i)
		if !ok || lm.Visibility < threshold {
			continue
		}
		drawn[i] = true
		colors[i] = markerColor(i, status)
		plan.Markers = append(plan.Markers, Marker{
			Index: int(i),
			Name:  i.String(),
			X:     lm.X,
			Y:     lm.Y,
			Color: colors[i],
		})
	}

	for _, c := range Connections {
		if !drawn[c.From] || !drawn[c.To] {
			continue
		}
		plan.Segments = append(plan.Segments, Segment{
			From:  int(c.From),
			To:    int(c.To),
			Color: segmentColor(colors[c.From], colors[c.To]),
		})
	}

	return plan
}

func markerColor(i pose.Index, status map[pose.Check]bool) Color {
	var passedAny bool
	for _, check := range pose.LandmarkChecks()[i] {
		passed, ok := status[check]
		if !ok {
			continue
		}
		if !passed {
			return ColorBad
		}
		passedAny = true
	}
	if !passedAny {
		return ColorNeutral
	}
	return ColorGood
}

func segmentColor(a, b Color) Color {
	if a == ColorBad || b == ColorBad {
		return ColorBad
	}
	if a == ColorGood || b == ColorGood {
		return ColorGood
	}
	return ColorNeutral
}

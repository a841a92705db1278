package pose

import (
	"math"
	"testing"
)

func TestAngle_KnownValues(t *testing.T) {
	tests := []struct {
		name    string
		a, b, c Point
		want    float64
	}{
		{
			name: "right angle",
			a:    Point{X: 1, Y: 0},
			b:    Point{X: 0, Y: 0},
			c:    Point{X: 0, Y: 1},
			want: 90,
		},
		{
			name: "straight line",
			a:    Point{X: 1, Y: 0},
			b:    Point{X: 0, Y: 0},
			c:    Point{X: -1, Y: 0},
			want: 180,
		},
		{
			name: "coincident rays",
			a:    Point{X: 1, Y: 1},
			b:    Point{X: 0, Y: 0},
			c:    Point{X: 1, Y: 1},
			want: 0,
		},
		{
			name: "forty five",
			a:    Point{X: 1, Y: 0},
			b:    Point{X: 0, Y: 0},
			c:    Point{X: 1, Y: 1},
			want: 45,
		},
		{
			name: "raw difference above 180 reflects",
			a:    Point{X: -1, Y: 0.17632698},
			b:    Point{X: 0, Y: 0},
			c:    Point{X: -1, Y: -0.17632698},
			want: 20,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Angle(tt.a, tt.b, tt.c)
			if math.Abs(got-tt.want) > 1e-6 {
				t.Errorf("expected angle %.4f, got %.4f", tt.want, got)
			}
		})
	}
}

func TestAngle_ReflectionInvariant(t *testing.T) {
	triples := []struct{ a, b, c Point }{
		{Point{0.1, 0.2}, Point{0.5, 0.5}, Point{0.9, 0.3}},
		{Point{0.5, 0.6}, Point{0.5, 0.7}, Point{0.5, 0.6}},
		{Point{0.0, 0.0}, Point{0.3, 0.9}, Point{1.0, 1.0}},
		{Point{-1, 0.17632698}, Point{0, 0}, Point{-1, -0.17632698}},
	}

	for _, tr := range triples {
		forward := Angle(tr.a, tr.b, tr.c)
		backward := Angle(tr.c, tr.b, tr.a)
		if math.Abs(forward-backward) > 1e-9 {
			t.Errorf("Angle(a,b,c)=%.6f but Angle(c,b,a)=%.6f", forward, backward)
		}
	}
}

func TestAngle_RangeBounded(t *testing.T) {
	pts := []Point{
		{0, 0}, {1, 0}, {0, 1}, {-1, 0}, {0, -1},
		{0.5, 0.5}, {-0.5, 0.25}, {0.9, -0.8},
	}
	for _, a := range pts {
		for _, b := range pts {
			for _, c := range pts {
				got := Angle(a, b, c)
				if got < 0 || got > 180 {
					t.Fatalf("Angle(%v,%v,%v)=%.4f outside [0,180]", a, b, c, got)
				}
			}
		}
	}
}

func TestDistance(t *testing.T) {
	tests := []struct {
		name string
		a, b Point
		want float64
	}{
		{name: "three four five", a: Point{0, 0}, b: Point{0.3, 0.4}, want: 0.5},
		{name: "same point", a: Point{0.5, 0.5}, b: Point{0.5, 0.5}, want: 0},
		{name: "horizontal", a: Point{0.2, 0.7}, b: Point{0.9, 0.7}, want: 0.7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Distance(tt.a, tt.b)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("expected distance %.4f, got %.4f", tt.want, got)
			}
		})
	}
}

func TestMidpoint(t *testing.T) {
	got := Midpoint(Point{X: 0.2, Y: 0.8}, Point{X: 0.6, Y: 0.4})
	if got.X != 0.4 || got.Y != 0.6 {
		t.Errorf("expected midpoint (0.4, 0.6), got (%v, %v)", got.X, got.Y)
	}
}

package emitter

import (
	"image"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/decker502/particlelab/pkg/geom"
	"github.com/decker502/particlelab/pkg/rng"
)

func TestPoint_ReturnsAnchor(t *testing.T) {
	assert.Equal(t, geom.V(3, 4), Point{}.Sample(geom.V(3, 4), rng.New(1)))
}

func TestCircle_ChordFixedAtConstruction(t *testing.T) {
	src := &edgeSource{high: true}
	c := NewCircle(geom.V(200, 200), 50, IntRange{Min: 0, Max: 1}, src)

	// angle drawn from [0, 2] as radians
	want := image.Pt(int(math.Abs(50*math.Cos(2))), int(math.Abs(50*math.Sin(2))))
	assert.Equal(t, want, c.Chord())

	src.calls = nil
	for i := 0; i < 10; i++ {
		c.Sample(geom.Vec2{}, src)
	}
	for _, call := range src.calls {
		assert.Contains(t, [][2]int{
			{200 - want.X, 200 + want.X},
			{200 - want.Y, 200 + want.Y},
		}, call, "every sample uses the same chord box")
	}
}

func TestCircle_SamplesStayInChordBox(t *testing.T) {
	src := rng.New(21)
	c := NewCircle(geom.V(500, 300), 80, IntRange{Min: 0, Max: 360}, src)
	d := c.Chord()

	for i := 0; i < 500; i++ {
		p := c.Sample(geom.Vec2{}, src)
		assert.GreaterOrEqual(t, p.X, float64(500-d.X))
		assert.LessOrEqual(t, p.X, float64(500+d.X))
		assert.GreaterOrEqual(t, p.Y, float64(300-d.Y))
		assert.LessOrEqual(t, p.Y, float64(300+d.Y))
	}
}

func TestCircle_TranslateMovesSamples(t *testing.T) {
	c := NewCircle(geom.V(10, 10), 0, IntRange{}, rng.New(1))
	c.Translate(5, 0)

	assert.Equal(t, geom.V(15, 10), c.Center())
	assert.Equal(t, geom.V(15, 10), c.Sample(geom.Vec2{}, rng.New(1)))
}

func TestRect_Degenerate(t *testing.T) {
	r := NewRect(geom.V(40, 60), 0, 0)
	assert.Equal(t, geom.V(40, 60), r.Sample(geom.Vec2{}, rng.New(2)))
}

func TestRect_Translate(t *testing.T) {
	r := NewRect(geom.V(100, 100), 20, 10)
	r.Translate(3, -4)
	assert.Equal(t, image.Rect(93, 91, 113, 101), r.Bounds())
}

func TestLine_RotateNormalizesAngle(t *testing.T) {
	tests := []struct {
		name   string
		deltas []float64
		want   float64
	}{
		{"one step", []float64{1}, 1},
		{"full turn wraps to zero", []float64{360}, 0},
		{"negative wraps up", []float64{-1}, 359},
		{"past full turn", []float64{300, 90}, 30},
		{"large negative", []float64{-725}, 355},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := NewLine(geom.V(0, 0), 10, 1)
			for _, d := range tt.deltas {
				l.Rotate(d)
			}
			assert.InDelta(t, tt.want, l.Angle(), 1e-9)
			assert.GreaterOrEqual(t, l.Angle(), 0.0)
			assert.Less(t, l.Angle(), 360.0)
		})
	}
}

func TestLine_RotateKeepsLength(t *testing.T) {
	l := NewLine(geom.V(50, 50), 120, 2)
	for _, d := range []float64{37, 90, -200, 15} {
		l.Rotate(d)
		p1, p2 := l.Endpoints()
		assert.InDelta(t, 120, p2.Sub(p1).Len(), 1e-9)
	}
}

func TestLine_SamplesBoundingBox(t *testing.T) {
	l := NewLine(geom.V(100, 100), 50, 1)
	l.Rotate(135)
	p1, p2 := l.Endpoints()
	minX, maxX := math.Min(p1.X, p2.X), math.Max(p1.X, p2.X)
	minY, maxY := math.Min(p1.Y, p2.Y), math.Max(p1.Y, p2.Y)

	src := rng.New(8)
	for i := 0; i < 300; i++ {
		p := l.Sample(geom.Vec2{}, src)
		assert.GreaterOrEqual(t, p.X, math.Floor(minX)-1)
		assert.LessOrEqual(t, p.X, math.Ceil(maxX))
		assert.GreaterOrEqual(t, p.Y, math.Floor(minY))
		assert.LessOrEqual(t, p.Y, math.Ceil(maxY))
	}
}

func TestLine_ZeroLength(t *testing.T) {
	l := NewLine(geom.V(7, 9), 0, 1)
	l.Rotate(45)
	assert.Equal(t, geom.V(7, 9), l.Sample(geom.Vec2{}, rng.New(4)))
}

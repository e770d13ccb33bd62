package constraints

import (
	"testing"

	"github.com/Future-Now-Studio/shirtshop-2026-sub000/internal/design"
	"github.com/Future-Now-Studio/shirtshop-2026-sub000/internal/zones"
	"github.com/Future-Now-Studio/shirtshop-2026-sub000/pkg/enums"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const canvasSize = 600.0

func chestZone() zones.Zone {
	return zones.Zone{ID: "chest", Name: "Chest", X: 0.25, Y: 0.25, Width: 0.5, Height: 0.3}
}

func newEngine(t *testing.T, doc zones.Document) *Engine {
	t.Helper()
	e, err := NewEngine(Config{CanvasWidth: canvasSize, CanvasHeight: canvasSize, SizeCapRatio: 0.8, MoveGrace: 1}, zones.NewRegistry(doc))
	require.NoError(t, err)
	return e
}

// element with a natural size of the whole canvas, scaled to the requested
// fraction of it.
func elementAt(fx, fy, fw, fh float64) design.Element {
	return design.Element{
		ID:   "el",
		Kind: enums.ElementKindImage,
		Transform: design.Transform{
			CenterX: fx * canvasSize,
			CenterY: fy * canvasSize,
			ScaleX:  fw,
			ScaleY:  fh,
		},
		Width:  canvasSize,
		Height: canvasSize,
		Image:  &design.ImageContent{AssetID: "a", Width: 600, Height: 600},
	}
}

func TestElementInsideZoneIsCompliant(t *testing.T) {
	e := newEngine(t, zones.Document{Front: []zones.Zone{chestZone()}})

	v := e.Evaluate(enums.ViewFront, elementAt(0.5, 0.4, 0.4, 0.2))
	assert.False(t, v.Violating)
	assert.Equal(t, "chest", v.ZoneID)
}

func TestReleaseOutsideZoneClampsToNearestZone(t *testing.T) {
	e := newEngine(t, zones.Document{Front: []zones.Zone{chestZone()}})
	el := elementAt(0.9, 0.9, 0.4, 0.2)

	require.True(t, e.Evaluate(enums.ViewFront, el).Violating)

	v, moved := e.Correct(enums.ViewFront, &el)
	assert.True(t, moved)
	assert.False(t, v.Violating)
	assert.InDelta(t, 330, el.Transform.CenterX, 1e-9)
	assert.InDelta(t, 270, el.Transform.CenterY, 1e-9)
	assert.InDelta(t, 0.4, el.Transform.ScaleX, 1e-12, "clamping never rescales")
	assert.InDelta(t, 0.2, el.Transform.ScaleY, 1e-12)
}

func TestUnzonedViewOnlyAppliesSizeCap(t *testing.T) {
	e := newEngine(t, zones.Document{Front: []zones.Zone{chestZone()}})

	for _, pos := range [][2]float64{{0.05, 0.05}, {0.95, 0.5}, {0.5, 0.5}} {
		v := e.Evaluate(enums.ViewLeft, elementAt(pos[0], pos[1], 0.3, 0.3))
		assert.False(t, v.Violating, "left has no zones, position %v should pass", pos)
	}

	wide := e.Evaluate(enums.ViewLeft, elementAt(0.5, 0.5, 0.81, 0.1))
	assert.True(t, wide.Violating)
	assert.Equal(t, ReasonSizeCap, wide.Reason)

	tall := e.Evaluate(enums.ViewLeft, elementAt(0.5, 0.5, 0.1, 0.85))
	assert.True(t, tall.Violating)

	atCap := e.Evaluate(enums.ViewLeft, elementAt(0.5, 0.5, 0.8, 0.8))
	assert.False(t, atCap.Violating, "exactly 80% is allowed")

	el := elementAt(0.5, 0.5, 0.9, 0.9)
	v, moved := e.Correct(enums.ViewLeft, &el)
	assert.True(t, v.Violating)
	assert.False(t, moved)
}

func TestBoundingBoxEqualToZoneIsCompliant(t *testing.T) {
	e := newEngine(t, zones.Document{Front: []zones.Zone{chestZone()}})
	el := elementAt(0.5, 0.4, 0.5, 0.3)

	v := e.Evaluate(enums.ViewFront, el)
	assert.False(t, v.Violating)
}

func TestElementLargerThanEveryZoneStaysFlagged(t *testing.T) {
	small := zones.Zone{ID: "pocket", X: 0.6, Y: 0.2, Width: 0.1, Height: 0.1}
	e := newEngine(t, zones.Document{Front: []zones.Zone{chestZone(), small}})
	el := elementAt(0.9, 0.9, 0.6, 0.2)

	v, moved := e.Correct(enums.ViewFront, &el)
	assert.True(t, moved)
	assert.True(t, v.Violating)
	assert.Equal(t, ReasonTooLargeZones, v.Reason)
}

func TestSmallerThanOneZoneButInsideOnlyTheOther(t *testing.T) {
	// fits the big zone by size, but sits inside neither
	big := zones.Zone{ID: "big", X: 0, Y: 0, Width: 0.5, Height: 0.5}
	tiny := zones.Zone{ID: "tiny", X: 0.6, Y: 0.6, Width: 0.1, Height: 0.1}
	e := newEngine(t, zones.Document{Back: []zones.Zone{big, tiny}})

	// centered on tiny, bbox contains tiny entirely but is larger than it
	v := e.Evaluate(enums.ViewBack, elementAt(0.65, 0.65, 0.2, 0.2))
	assert.True(t, v.Violating)
	assert.Equal(t, ReasonOutsideZones, v.Reason)
}

func TestCorrectPicksNearestZoneByCenterDistance(t *testing.T) {
	left := zones.Zone{ID: "left", X: 0.05, Y: 0.3, Width: 0.3, Height: 0.3}
	right := zones.Zone{ID: "right", X: 0.65, Y: 0.3, Width: 0.3, Height: 0.3}
	e := newEngine(t, zones.Document{Front: []zones.Zone{left, right}})
	el := elementAt(0.7, 0.9, 0.1, 0.1)

	v, _ := e.Correct(enums.ViewFront, &el)
	assert.False(t, v.Violating)
	assert.Equal(t, "right", v.ZoneID)
}

func TestZoneSizeLimits(t *testing.T) {
	maxSize := 100.0
	z := chestZone()
	z.MaxSize = &maxSize
	e := newEngine(t, zones.Document{Front: []zones.Zone{z}})

	v := e.Evaluate(enums.ViewFront, elementAt(0.5, 0.4, 0.3, 0.1))
	assert.True(t, v.Violating)
	assert.Equal(t, ReasonZoneSizeLimit, v.Reason)

	ok := e.Evaluate(enums.ViewFront, elementAt(0.5, 0.4, 0.15, 0.1))
	assert.False(t, ok.Violating)
}

func TestCompletionInvariantAcrossPositions(t *testing.T) {
	e := newEngine(t, zones.Document{Front: []zones.Zone{chestZone()}})
	zone := chestZone().Rect(canvasSize, canvasSize)

	for x := 0.0; x <= 1.0; x += 0.1 {
		for y := 0.0; y <= 1.0; y += 0.1 {
			for _, scale := range []float64{0.1, 0.3, 0.6} {
				el := elementAt(x, y, scale, scale)
				v, _ := e.Correct(enums.ViewFront, &el)
				inside := zone.Contains(el.Bounds()) && zone.Fits(el.ScaledSize())
				assert.True(t, inside || v.Violating, "x=%.1f y=%.1f s=%.1f neither contained nor flagged", x, y, scale)
			}
		}
	}
}

func TestGestureGrace(t *testing.T) {
	e := newEngine(t, zones.Document{})
	g := e.BeginGesture()
	assert.False(t, g.Move(), "first move after pickup is not judged")
	assert.True(t, g.Move())
	assert.True(t, g.Move())
	assert.Equal(t, 3, g.Moves())

	strict, err := NewEngine(Config{CanvasWidth: 10, CanvasHeight: 10, SizeCapRatio: 0.8}, nil)
	require.NoError(t, err)
	assert.True(t, strict.BeginGesture().Move(), "zero grace judges every move")
}

func TestNewEngineRejectsBadConfig(t *testing.T) {
	_, err := NewEngine(Config{CanvasWidth: 0, CanvasHeight: 10, SizeCapRatio: 0.8}, nil)
	assert.Error(t, err)
	_, err = NewEngine(Config{CanvasWidth: 10, CanvasHeight: 10, SizeCapRatio: 0}, nil)
	assert.Error(t, err)
	_, err = NewEngine(Config{CanvasWidth: 10, CanvasHeight: 10, SizeCapRatio: 0.8, MoveGrace: -1}, nil)
	assert.Error(t, err)
}

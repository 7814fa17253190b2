package editor

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wcatz/widget-canvas/internal/geom"
	"github.com/wcatz/widget-canvas/internal/layout"
	"github.com/wcatz/widget-canvas/internal/testutil"
	"github.com/wcatz/widget-canvas/internal/widget"
)

const testHandle = 10

func newTestController(t *testing.T, s *Scene) *Controller {
	t.Helper()
	return NewController(s, testHandle, testutil.NewTestLogger(t))
}

func bounds(t *testing.T, s *Scene, id string) geom.Rect {
	t.Helper()
	w, ok := s.Find(id)
	require.True(t, ok, "widget %s", id)
	return w.Bounds()
}

func TestDropInsideOtherWidgetSwaps(t *testing.T) {
	s := newTestScene(t)
	addRect(t, s, "a", 0, 0, 100, 100)
	addRect(t, s, "b", 300, 0, 200, 200)
	c := newTestController(t, s)

	c.PointerDown(50, 50, true)
	require.Equal(t, StateDragging, c.State())

	c.PointerMove(400, 100)
	p, ok := c.Preview()
	require.True(t, ok)
	assert.Equal(t, layout.PreviewSwap, p.Kind)
	assert.Equal(t, "b", p.TargetID)

	c.PointerUp(400, 100)
	assert.Equal(t, StateIdle, c.State())
	assert.Equal(t, geom.NewRect(300, 0, 200, 200), bounds(t, s, "a"))
	assert.Equal(t, geom.NewRect(0, 0, 100, 100), bounds(t, s, "b"))
	_, ok = c.Preview()
	assert.False(t, ok)
}

func TestDragToFreeSpace(t *testing.T) {
	s := newTestScene(t)
	addRect(t, s, "a", 0, 0, 100, 100)
	c := newTestController(t, s)

	c.PointerDown(50, 50, true)
	c.PointerMove(650, 450)
	p, ok := c.Preview()
	require.True(t, ok)
	assert.Equal(t, layout.PreviewFree, p.Kind)
	assert.Equal(t, uint64(1), s.Version(), "preview must not commit")

	c.PointerUp(650, 450)
	assert.Equal(t, geom.NewRect(600, 400, 100, 100), bounds(t, s, "a"))
	sel, ok := c.Selection()
	assert.True(t, ok)
	assert.Equal(t, "a", sel)
}

func TestPointerUpWithoutMoveComputesPreview(t *testing.T) {
	s := newTestScene(t)
	addRect(t, s, "a", 0, 0, 100, 100)
	c := newTestController(t, s)

	c.PointerDown(50, 50, true)
	c.PointerUp(650, 450)
	assert.Equal(t, geom.NewRect(600, 400, 100, 100), bounds(t, s, "a"))
}

func TestClickWithoutMoveKeepsGeometry(t *testing.T) {
	s := newTestScene(t)
	addRect(t, s, "a", 13, 7, 100, 100)
	c := newTestController(t, s)

	c.PointerDown(50, 50, true)
	c.PointerUp(50, 50)
	assert.Equal(t, geom.NewRect(13, 7, 100, 100), bounds(t, s, "a"))
}

func TestDropCollisionKeepsGeometry(t *testing.T) {
	s := NewScene(Config{
		Factory: widget.NewFactory(widget.NewSequentialIDGenerator()),
		Solver:  layout.NewSolver(geom.Size{Width: 400, Height: 200}, 20, 20, 0),
		Logger:  testutil.NewTestLogger(t),
	})
	addRect(t, s, "left", 0, 0, 100, 200)
	addRect(t, s, "right", 110, 0, 100, 200)
	addRect(t, s, "a", 300, 0, 100, 100)
	c := newTestController(t, s)

	c.PointerDown(350, 50, true)
	c.PointerMove(105, 50)
	p, ok := c.Preview()
	require.True(t, ok)
	assert.Equal(t, layout.PreviewCollision, p.Kind)

	c.PointerUp(105, 50)
	assert.Equal(t, geom.NewRect(300, 0, 100, 100), bounds(t, s, "a"))
}

func TestDropOntoContainerAbsorbs(t *testing.T) {
	s := newTestScene(t)
	addRect(t, s, "a", 0, 0, 100, 100)
	require.True(t, s.Add(widget.NewContainer("c", "tabs", geom.NewRect(400, 0, 320, 260), nil)))
	c := newTestController(t, s)

	c.PointerDown(50, 50, true)
	c.PointerMove(500, 150)
	p, ok := c.Preview()
	require.True(t, ok)
	assert.Equal(t, layout.PreviewAbsorb, p.Kind)

	c.PointerUp(500, 150)
	require.Equal(t, 1, s.Len())
	root := s.Widgets()[0].(*widget.Container)
	require.Len(t, root.Children(), 1)
	child := root.Children()[0]
	assert.Equal(t, "a", child.ID())
	assert.Equal(t, root.ContentRect(), child.Bounds())
	assert.Equal(t, 0, root.ActiveIndex())
	_, selected := c.Selection()
	assert.False(t, selected)
}

func TestContainerDropOntoContainerSwaps(t *testing.T) {
	s := newTestScene(t)
	require.True(t, s.Add(widget.NewContainer("c1", "", geom.NewRect(0, 0, 300, 300), nil)))
	require.True(t, s.Add(widget.NewContainer("c2", "", geom.NewRect(400, 0, 300, 300), nil)))
	c := newTestController(t, s)

	c.PointerDown(150, 150, true)
	c.PointerUp(550, 150)
	assert.Equal(t, 2, s.Len())
	assert.Equal(t, geom.NewRect(400, 0, 300, 300), bounds(t, s, "c1"))
	assert.Equal(t, geom.NewRect(0, 0, 300, 300), bounds(t, s, "c2"))
}

func TestResizeLiveThenSnap(t *testing.T) {
	s := newTestScene(t)
	addRect(t, s, "a", 0, 0, 100, 100)
	c := newTestController(t, s)

	c.PointerDown(98, 98, true)
	require.Equal(t, StateResizing, c.State())

	c.PointerMove(153, 147)
	assert.Equal(t, geom.NewRect(0, 0, 153, 147), bounds(t, s, "a"), "resize is live")

	c.PointerUp(153, 147)
	assert.Equal(t, StateIdle, c.State())
	assert.Equal(t, geom.NewRect(0, 0, 160, 140), bounds(t, s, "a"))
}

func TestResizeClamps(t *testing.T) {
	s := newTestScene(t)
	addRect(t, s, "a", 1100, 700, 100, 100)
	addRect(t, s, "b", 0, 0, 100, 100)
	c := newTestController(t, s)

	c.PointerDown(1195, 795, true)
	c.PointerMove(5000, 5000)
	assert.Equal(t, geom.NewRect(1100, 700, 100, 100), bounds(t, s, "a"))
	c.PointerMove(1101, 702)
	assert.Equal(t, geom.NewRect(1100, 700, 20, 20), bounds(t, s, "a"))
	c.PointerUp(1101, 702)
	assert.Equal(t, geom.NewRect(1100, 700, 20, 20), bounds(t, s, "a"))

	c.PointerDown(95, 95, true)
	c.PointerMove(-50, -50)
	assert.Equal(t, geom.NewRect(0, 0, 20, 20), bounds(t, s, "b"))
}

func TestResizeRejectsCollision(t *testing.T) {
	s := newTestScene(t)
	addRect(t, s, "a", 0, 0, 100, 100)
	addRect(t, s, "b", 190, 0, 100, 100)
	c := newTestController(t, s)

	c.PointerDown(98, 98, true)
	c.PointerMove(250, 50)
	assert.Equal(t, geom.NewRect(0, 0, 100, 100), bounds(t, s, "a"))

	c.PointerMove(190, 120)
	assert.Equal(t, geom.NewRect(0, 0, 190, 120), bounds(t, s, "a"))

	// rounding would reach 200 and overlap b, so the size is floored
	c.PointerUp(190, 120)
	assert.Equal(t, geom.NewRect(0, 0, 180, 120), bounds(t, s, "a"))
}

func TestPointerLeaveAborts(t *testing.T) {
	s := newTestScene(t)
	addRect(t, s, "a", 0, 0, 100, 100)
	c := newTestController(t, s)

	before := s.Version()
	c.PointerDown(50, 50, true)
	c.PointerMove(650, 450)
	c.PointerLeave()
	assert.Equal(t, StateIdle, c.State())
	assert.Equal(t, before, s.Version(), "aborted drag commits nothing")
	c.PointerUp(650, 450)
	assert.Equal(t, geom.NewRect(0, 0, 100, 100), bounds(t, s, "a"))

	c.PointerDown(98, 98, true)
	c.PointerMove(300, 300)
	require.Equal(t, geom.NewRect(0, 0, 300, 300), bounds(t, s, "a"))
	live := s.Version()
	c.PointerLeave()
	assert.Equal(t, StateIdle, c.State())
	assert.Equal(t, geom.NewRect(0, 0, 100, 100), bounds(t, s, "a"))
	assert.Equal(t, live+1, s.Version(), "rollback is a single commit")
}

func TestReadOnlyModeOnlyClicks(t *testing.T) {
	s := newTestScene(t)
	tbl := widget.NewTable("t", "", geom.NewRect(0, 0, 200, 120), []string{"Name", "Value"},
		[][]string{{"a", "2"}, {"b", "1"}})
	require.True(t, s.Add(tbl))
	c := newTestController(t, s)

	c.PointerDown(150, 10, false)
	assert.Equal(t, StateIdle, c.State())
	_, selected := c.Selection()
	assert.False(t, selected)
	got, _ := s.Find("t")
	assert.Equal(t, [][]string{{"b", "1"}, {"a", "2"}}, got.(*widget.Table).Rows())

	c.PointerMove(600, 600)
	c.PointerUp(600, 600)
	assert.Equal(t, geom.NewRect(0, 0, 200, 120), bounds(t, s, "t"))

	c.PointerDown(195, 115, false)
	assert.Equal(t, StateIdle, c.State(), "no resize without edit mode")
}

func TestEditModeClickThenDrag(t *testing.T) {
	s := newTestScene(t)
	ctr := widget.NewContainer("c", "", geom.NewRect(0, 0, 300, 200), []widget.Widget{
		widget.NewRect("x", "", geom.Rect{}),
		widget.NewRect("y", "", geom.Rect{}),
	})
	require.True(t, s.Add(ctr))
	c := newTestController(t, s)

	// next arrow
	c.PointerDown(290, 10, true)
	assert.Equal(t, StateDragging, c.State())
	got, _ := s.Find("c")
	assert.Equal(t, 1, got.(*widget.Container).ActiveIndex())
	c.PointerUp(290, 10)
	assert.Equal(t, geom.NewRect(0, 0, 300, 200), bounds(t, s, "c"))
}

func TestPressOnEmptyCanvasClearsSelection(t *testing.T) {
	s := newTestScene(t)
	addRect(t, s, "a", 0, 0, 100, 100)
	c := newTestController(t, s)

	c.PointerDown(50, 50, true)
	c.PointerUp(50, 50)
	_, selected := c.Selection()
	require.True(t, selected)

	c.PointerDown(700, 700, true)
	assert.Equal(t, StateIdle, c.State())
	_, selected = c.Selection()
	assert.False(t, selected)
}

func TestTopmostWidgetIsPicked(t *testing.T) {
	s := newTestScene(t)
	s.Replace([]widget.Widget{
		widget.NewRect("low", "", geom.NewRect(0, 0, 200, 200)),
		widget.NewRect("high", "", geom.NewRect(100, 100, 200, 200)),
	})
	c := newTestController(t, s)

	c.PointerDown(150, 150, true)
	sel, _ := c.Selection()
	assert.Equal(t, "high", sel)
}

func TestCommittedDragsNeverOverlap(t *testing.T) {
	s := newTestScene(t)
	for _, kind := range []widget.Kind{
		widget.KindRect, widget.KindBarChart, widget.KindTable, widget.KindContainer,
		widget.KindPieChart, widget.KindFilter, widget.KindRect, widget.KindLineChart,
	} {
		_, ok := s.AddFromToolbar(kind, nil)
		require.True(t, ok)
	}
	require.False(t, anyRootOverlap(s))

	c := newTestController(t, s)
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 300; i++ {
		ws := s.Widgets()
		w := ws[rng.Intn(len(ws))]
		b := w.Bounds()
		if rng.Intn(4) == 0 {
			c.PointerDown(b.Right()-2, b.Bottom()-2, true)
		} else {
			c.PointerDown(b.X+b.Width/2, b.Y+b.Height/2, true)
		}
		for j := 0; j < 3; j++ {
			c.PointerMove(rng.Float64()*1200, rng.Float64()*800)
		}
		c.PointerUp(rng.Float64()*1200, rng.Float64()*800)

		require.False(t, anyRootOverlap(s), "overlap after interaction %d", i)
		for _, w := range s.Widgets() {
			r := w.Bounds()
			require.GreaterOrEqual(t, r.Width, 20.0)
			require.GreaterOrEqual(t, r.Height, 20.0)
			require.LessOrEqual(t, r.Right(), 1200.0)
			require.LessOrEqual(t, r.Bottom(), 800.0)
		}
	}
}

func TestDispatchReplaysDrag(t *testing.T) {
	s := newTestScene(t)
	addRect(t, s, "a", 0, 0, 100, 100)
	c := newTestController(t, s)

	script := []PointerEvent{
		{Type: EventDown, X: 50, Y: 50},
		{Type: EventMove, X: 650, Y: 450},
		{Type: EventUp, X: 650, Y: 450},
	}
	for _, ev := range script {
		require.NoError(t, c.Dispatch(ev, true))
	}
	assert.Equal(t, geom.NewRect(600, 400, 100, 100), bounds(t, s, "a"))
	assert.Equal(t, StateIdle, c.State())

	assert.Error(t, c.Dispatch(PointerEvent{Type: "wheel"}, true))
}

func anyRootOverlap(s *Scene) bool {
	ws := s.Widgets()
	for i := range ws {
		for j := i + 1; j < len(ws); j++ {
			if geom.Overlaps(ws[i].Bounds(), ws[j].Bounds()) {
				return true
			}
		}
	}
	return false
}

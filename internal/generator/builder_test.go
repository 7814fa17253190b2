package generator

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wcatz/widget-canvas/internal/config"
	"github.com/wcatz/widget-canvas/internal/geom"
	"github.com/wcatz/widget-canvas/internal/testutil"
	"github.com/wcatz/widget-canvas/internal/widget"
)

const builderConfig = `
canvas:
  width: 800
  height: 600
  grid_unit: 20
  min_size: 20
default_sizes:
  rect: { width: 200, height: 100 }
scenes:
  ops:
    title: ops
    filename: ops-board.json
    widgets:
      - { type: rect, id: header, label: header, x: 0, y: 0, width: 800, height: 60 }
      - { type: barChart, values: [1, 2, 3], labels: [a, b, c] }
      - { type: gauge }
      - { type: rect, x: 100, y: 100 }
      - { type: rect, id: header, x: 600, y: 400, width: 100, height: 100 }
  nested:
    widgets:
      - type: container
        x: 0
        y: 0
        children:
          - { type: table, columns: [host, load], rows: [[web-1, 0.4]] }
          - { type: rect, label: inner }
  broken:
    widgets:
      - { label: no type }
`

func newTestBuilder(t *testing.T) (*SceneBuilder, *config.Config) {
	t.Helper()
	cfg, err := config.LoadFromBytes([]byte(builderConfig))
	require.NoError(t, err)
	return NewSceneBuilder(cfg, widget.NewSequentialIDGenerator(), testutil.NewTestLogger(t)), cfg
}

func TestBuildPlacesAndSkips(t *testing.T) {
	sb, cfg := newTestBuilder(t)
	sc, err := cfg.GetScene("ops")
	require.NoError(t, err)

	scene, err := sb.Build(sc)
	require.NoError(t, err)

	ws := scene.Widgets()
	require.Len(t, ws, 4, "unknown type is skipped")

	assert.Equal(t, "header", ws[0].ID())
	assert.Equal(t, geom.NewRect(0, 0, 800, 60), ws[0].Bounds())

	assert.Equal(t, widget.KindBarChart, ws[1].Kind())
	assert.Equal(t, geom.NewRect(0, 60, 300, 200), ws[1].Bounds())

	// explicit position collides with the chart
	assert.Equal(t, geom.NewRect(300, 60, 200, 100), ws[2].Bounds())

	// duplicate id gets a fresh one and keeps its free position
	assert.NotEqual(t, "header", ws[3].ID())
	assert.Equal(t, geom.NewRect(600, 400, 100, 100), ws[3].Bounds())

	for i, a := range ws {
		for _, b := range ws[i+1:] {
			assert.False(t, geom.Overlaps(a.Bounds(), b.Bounds()), "%s overlaps %s", a.ID(), b.ID())
		}
	}
}

func sceneIDs(ws []widget.Widget) map[string]int {
	ids := make(map[string]int)
	for _, w := range ws {
		for _, id := range widget.IDs(w) {
			ids[id]++
		}
	}
	return ids
}

func TestBuildKeepsIDsUnique(t *testing.T) {
	cfg, err := config.LoadFromBytes([]byte(`
canvas: { width: 800, height: 600, grid_unit: 20, min_size: 20 }
scenes:
  mixed:
    widgets:
      - { type: rect, id: w2 }
      - { type: rect }
      - { type: rect }
      - { type: rect, id: w4, x: 600, y: 0 }
      - type: container
        id: w1
        x: 400
        y: 300
        children:
          - { type: rect, id: w2 }
          - { type: rect }
`))
	require.NoError(t, err)
	sb := NewSceneBuilder(cfg, widget.NewSequentialIDGenerator(), testutil.NewTestLogger(t))
	sc, err := cfg.GetScene("mixed")
	require.NoError(t, err)

	scene, err := sb.Build(sc)
	require.NoError(t, err)
	ws := scene.Widgets()
	require.Len(t, ws, 5)

	assert.Equal(t, "w2", ws[0].ID())
	assert.Equal(t, "w1", ws[1].ID())
	assert.Equal(t, "w3", ws[2].ID())
	assert.Equal(t, "w4", ws[3].ID())
	assert.Equal(t, geom.NewRect(600, 0, 100, 100), ws[3].Bounds())
	assert.Equal(t, "w5", ws[4].ID())
	assert.Equal(t, geom.NewRect(400, 300, 320, 260), ws[4].Bounds(), "fresh ids keep the explicit position")

	ids := sceneIDs(ws)
	assert.Len(t, ids, 7)
	for id, n := range ids {
		assert.Equal(t, 1, n, "id %s used %d times", id, n)
	}
}

func TestBuildNestedContainer(t *testing.T) {
	sb, cfg := newTestBuilder(t)
	sc, err := cfg.GetScene("nested")
	require.NoError(t, err)

	scene, err := sb.Build(sc)
	require.NoError(t, err)
	require.Equal(t, 1, scene.Len())

	c, ok := scene.Widgets()[0].(*widget.Container)
	require.True(t, ok)
	assert.Equal(t, geom.NewRect(0, 0, 320, 260), c.Bounds())
	require.Len(t, c.Children(), 2)
	assert.Equal(t, 0, c.ActiveIndex())
	assert.Equal(t, []string{"host", "load"}, c.Children()[0].(*widget.Table).Columns())
}

func TestBuildMissingType(t *testing.T) {
	sb, cfg := newTestBuilder(t)
	sc, err := cfg.GetScene("broken")
	require.NoError(t, err)

	_, err = sb.Build(sc)
	assert.Error(t, err)
}

func TestBuildResetsIDs(t *testing.T) {
	sb, cfg := newTestBuilder(t)
	sc, err := cfg.GetScene("nested")
	require.NoError(t, err)

	first, err := sb.Build(sc)
	require.NoError(t, err)
	second, err := sb.Build(sc)
	require.NoError(t, err)
	assert.Equal(t, first.Widgets()[0].ID(), second.Widgets()[0].ID())
}

func TestNewFactoryAndSolverFromConfig(t *testing.T) {
	_, cfg := newTestBuilder(t)

	f := NewFactory(cfg, widget.NewSequentialIDGenerator())
	assert.Equal(t, geom.Size{Width: 200, Height: 100}, f.DefaultSize(widget.KindRect))
	assert.Equal(t, geom.Size{Width: 400, Height: 240}, f.DefaultSize(widget.KindTable))
	assert.Equal(t, 20.0, f.MinSize)

	s := NewSolver(cfg)
	assert.Equal(t, geom.Size{Width: 800, Height: 600}, s.Canvas)
	assert.Equal(t, 20.0, s.Snapper.Unit)
}

func TestWriteScene(t *testing.T) {
	sb, cfg := newTestBuilder(t)
	sc, err := cfg.GetScene("ops")
	require.NoError(t, err)
	scene, err := sb.Build(sc)
	require.NoError(t, err)

	dir := t.TempDir()
	path := filepath.Join(dir, "out", SceneFilename("ops", sc))
	assert.Equal(t, "ops-board.json", filepath.Base(path))

	size, err := WriteScene(scene, path, true)
	require.NoError(t, err)
	assert.Positive(t, size)
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err), "dry run must not write")

	size, err = WriteScene(scene, path, false)
	require.NoError(t, err)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Len(t, data, size)

	var recs []map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &recs))
	assert.Len(t, recs, scene.Len())
	assert.Equal(t, "header", recs[0]["id"])
}

func TestSceneFilenameDefault(t *testing.T) {
	assert.Equal(t, "home.json", SceneFilename("home", config.SceneConfig{}))
}

func TestFormatSize(t *testing.T) {
	tests := map[int]string{
		0:       "0",
		999:     "999",
		1000:    "1,000",
		1234567: "1,234,567",
	}
	for n, want := range tests {
		assert.Equal(t, want, FormatSize(n), "FormatSize(%d)", n)
	}
}

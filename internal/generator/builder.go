// Package generator builds editor scenes from the layouts in the config file
// and writes them out as serialized widget lists.
package generator

import (
	"fmt"
	"log/slog"

	"github.com/wcatz/widget-canvas/internal/config"
	"github.com/wcatz/widget-canvas/internal/editor"
	"github.com/wcatz/widget-canvas/internal/geom"
	"github.com/wcatz/widget-canvas/internal/layout"
	"github.com/wcatz/widget-canvas/internal/widget"
)

// SceneBuilder assembles scenes from configured layouts.
type SceneBuilder struct {
	Config *config.Config
	IDGen  *widget.IDGenerator
	logger *slog.Logger
}

// NewSceneBuilder creates a new scene builder. A nil logger discards output.
func NewSceneBuilder(cfg *config.Config, idGen *widget.IDGenerator, logger *slog.Logger) *SceneBuilder {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &SceneBuilder{Config: cfg, IDGen: idGen, logger: logger}
}

// NewFactory creates a widget factory using the configured minimum size and
// default sizes.
func NewFactory(cfg *config.Config, idGen *widget.IDGenerator) *widget.Factory {
	f := widget.NewFactory(idGen)
	f.MinSize = cfg.Canvas.MinSize
	for kind, s := range cfg.DefaultSizes {
		f.Sizes[widget.Kind(kind)] = geom.Size{Width: s.Width, Height: s.Height}
	}
	return f
}

// NewSolver creates a free-space solver for the configured canvas.
func NewSolver(cfg *config.Config) *layout.Solver {
	cv := cfg.Canvas
	return layout.NewSolver(geom.Size{Width: cv.Width, Height: cv.Height}, cv.GridUnit, cv.MinSize, cv.MaxSize)
}

// NewScene creates an empty scene bound to the configured canvas.
func (sb *SceneBuilder) NewScene() *editor.Scene {
	return editor.NewScene(editor.Config{
		Factory: NewFactory(sb.Config, sb.IDGen),
		Solver:  NewSolver(sb.Config),
		Logger:  sb.logger,
	})
}

// Build creates a scene from a layout. Widgets with x and y keep their
// position when it is on the canvas and free, everything else goes through
// the placement search in configured order. Unknown widget types are logged
// and skipped.
func (sb *SceneBuilder) Build(sc config.SceneConfig) (*editor.Scene, error) {
	sb.IDGen.Reset()
	scene := sb.NewScene()
	canvas := geom.Rect{Width: sb.Config.Canvas.Width, Height: sb.Config.Canvas.Height}
	minSize := sb.Config.Canvas.MinSize
	seen := make(map[string]bool)

	for i, wcfg := range sc.Widgets {
		kind := widget.Kind(getString(wcfg, "type", ""))
		if kind == "" {
			return nil, fmt.Errorf("widget %d: missing type", i)
		}
		if !widget.Known(kind) {
			sb.logger.Warn("skipping widget of unknown type", "scene", sc.Title, "index", i, "type", kind)
			continue
		}

		def := scene.Factory().DefaultSize(kind)
		size := geom.Size{
			Width:  max(getFloat(wcfg, "width", def.Width), minSize),
			Height: max(getFloat(wcfg, "height", def.Height), minSize),
		}

		if hasKey(wcfg, "x") && hasKey(wcfg, "y") {
			rec := widget.UniqueRecord(withSize(wcfg, size.Width, size.Height), seen, sb.IDGen)
			w, ok := scene.Factory().FromRecord(rec)
			if ok && canvas.ContainsRect(w.Bounds()) && !geom.AnyCollision(w.Bounds(), scene.Widgets(), "") && scene.Add(w) {
				continue
			}
			sb.logger.Warn("explicit position unavailable, placing automatically",
				"scene", sc.Title, "index", i, "type", kind,
				"x", getFloat(wcfg, "x", 0), "y", getFloat(wcfg, "y", 0))
		}

		w, ok := scene.AddPlaced(kind, size, wcfg)
		if !ok {
			return nil, fmt.Errorf("widget %d: cannot create %s", i, kind)
		}
		for _, id := range widget.IDs(w) {
			seen[id] = true
		}
	}

	sb.logger.Info("scene built", "scene", sc.Title, "widgets", scene.Len())
	return scene, nil
}

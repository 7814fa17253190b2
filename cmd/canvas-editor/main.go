package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/wcatz/widget-canvas/internal/config"
	"github.com/wcatz/widget-canvas/internal/editor"
	"github.com/wcatz/widget-canvas/internal/generator"
	"github.com/wcatz/widget-canvas/internal/render"
	"github.com/wcatz/widget-canvas/internal/server"
	"github.com/wcatz/widget-canvas/internal/widget"
)

var (
	cfgFile    string
	sceneName  string
	inputFile  string
	outputFile string
	scriptFile string
	widgetKind string
	propsJSON  string
	dryRun     bool
	editMode   bool
	readOnly   bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "canvas-editor",
		Short:        "free-form widget canvas: build, edit, replay and render scenes",
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "path to YAML config file")
	rootCmd.PersistentFlags().Float64("width", 0, "canvas width in pixels")
	rootCmd.PersistentFlags().Float64("height", 0, "canvas height in pixels")
	rootCmd.PersistentFlags().Float64("grid-unit", 0, "snap grid unit in pixels (0 disables snapping)")
	rootCmd.PersistentFlags().Float64("min-size", 0, "minimum widget width and height")
	rootCmd.PersistentFlags().Float64("max-size", 0, "maximum dropped widget size (0 means canvas bound)")
	rootCmd.PersistentFlags().String("palette", "", "active palette")
	rootCmd.PersistentFlags().String("log-level", "", "log level (debug, info, warn, error)")

	buildCmd := &cobra.Command{
		Use:   "build",
		Short: "build scene JSON files from the layouts in the config",
		RunE:  runBuild,
	}
	buildCmd.Flags().StringVar(&sceneName, "scene", "", "build only the named scene")
	buildCmd.Flags().String("output-dir", "", "override output directory")
	buildCmd.Flags().BoolVar(&dryRun, "dry-run", false, "build to memory only")

	renderCmd := &cobra.Command{
		Use:   "render",
		Short: "render a scene JSON file to PNG",
		RunE:  runRender,
	}
	renderCmd.Flags().StringVar(&inputFile, "input", "", "scene JSON file (required)")
	renderCmd.Flags().StringVar(&outputFile, "output", "", "PNG file (default: input with .png)")
	renderCmd.Flags().BoolVar(&editMode, "edit", false, "draw edit-mode affordances")
	renderCmd.MarkFlagRequired("input")

	addCmd := &cobra.Command{
		Use:   "add",
		Short: "add a widget to a scene file at the first free grid slot",
		RunE:  runAdd,
	}
	addCmd.Flags().StringVar(&inputFile, "input", "", "scene JSON file, created when missing (required)")
	addCmd.Flags().StringVar(&outputFile, "output", "", "output file (default: input)")
	addCmd.Flags().StringVar(&widgetKind, "kind", "", "widget kind (required)")
	addCmd.Flags().StringVar(&propsJSON, "props", "", "widget properties as a JSON object")
	addCmd.MarkFlagRequired("input")
	addCmd.MarkFlagRequired("kind")

	replayCmd := &cobra.Command{
		Use:   "replay",
		Short: "apply a JSON script of pointer events to a scene",
		RunE:  runReplay,
	}
	replayCmd.Flags().StringVar(&inputFile, "input", "", "scene JSON file (required)")
	replayCmd.Flags().StringVar(&scriptFile, "script", "", "pointer event script (required)")
	replayCmd.Flags().StringVar(&outputFile, "output", "", "output file (default: input)")
	replayCmd.Flags().BoolVar(&readOnly, "read-only", false, "replay with edit mode off")
	replayCmd.MarkFlagRequired("input")
	replayCmd.MarkFlagRequired("script")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "serve a scene over HTTP",
		RunE:  runServe,
	}
	serveCmd.Flags().StringVar(&inputFile, "input", "", "initial scene JSON file")
	serveCmd.Flags().StringVar(&sceneName, "scene", "", "build the initial scene from a configured layout")
	serveCmd.Flags().BoolVar(&readOnly, "read-only", false, "start with edit mode off")
	serveCmd.Flags().Int("port", 0, "HTTP server port")

	rootCmd.AddCommand(buildCmd, renderCmd, addCmd, replayCmd, serveCmd, newPaletteCmd(), newCanvasCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func loadConfig(flags *pflag.FlagSet) (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load(cfgFile, flags)
	if err != nil {
		return nil, nil, err
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	return cfg, logger, nil
}

func requireConfig(cmd *cobra.Command, args []string) error {
	if cfgFile == "" {
		return fmt.Errorf("%s requires --config", cmd.CommandPath())
	}
	return nil
}

// openScene loads a scene file. Fresh ids come from random UUIDs so they
// never clash with ids already in the file.
func openScene(cfg *config.Config, logger *slog.Logger, path string, allowMissing bool) (*editor.Scene, error) {
	scene := generator.NewSceneBuilder(cfg, widget.NewIDGenerator(), logger).NewScene()
	if path == "" {
		return scene, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if allowMissing && errors.Is(err, os.ErrNotExist) {
			return scene, nil
		}
		return nil, fmt.Errorf("reading scene: %w", err)
	}
	if err := scene.Load(data); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return scene, nil
}

func outputPath(def string) string {
	if outputFile != "" {
		return outputFile
	}
	return def
}

func runBuild(cmd *cobra.Command, args []string) error {
	if err := requireConfig(cmd, args); err != nil {
		return err
	}
	cfg, logger, err := loadConfig(cmd.Flags())
	if err != nil {
		return err
	}

	outDir := cfg.OutputDir
	if !filepath.IsAbs(outDir) {
		absConfig, err := filepath.Abs(filepath.Dir(cfgFile))
		if err != nil {
			return err
		}
		outDir = filepath.Join(absConfig, outDir)
	}

	order := cfg.GetSceneOrder()
	if sceneName != "" {
		if _, err := cfg.GetScene(sceneName); err != nil {
			return err
		}
		order = []string{sceneName}
	}
	if len(order) == 0 {
		return fmt.Errorf("no scenes defined in config")
	}

	builder := generator.NewSceneBuilder(cfg, widget.NewSequentialIDGenerator(), logger)
	totalSize, totalWidgets := 0, 0
	fmt.Println("canvas scene builder:")
	for _, name := range order {
		sc, _ := cfg.GetScene(name)
		if sc.Title == "" {
			sc.Title = name
		}
		scene, err := builder.Build(sc)
		if err != nil {
			return fmt.Errorf("building scene '%s': %w", name, err)
		}
		size, err := generator.WriteScene(scene, filepath.Join(outDir, generator.SceneFilename(name, sc)), dryRun)
		if err != nil {
			return err
		}
		totalSize += size
		totalWidgets += scene.Len()
	}

	fmt.Printf("\n  total: %d scenes, %d widgets, %s bytes\n", len(order), totalWidgets, generator.FormatSize(totalSize))
	return nil
}

func runRender(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadConfig(cmd.Flags())
	if err != nil {
		return err
	}
	scene, err := openScene(cfg, logger, inputFile, false)
	if err != nil {
		return err
	}

	canvas := scene.Canvas()
	surf, err := render.NewRasterSurface(int(canvas.Width), int(canvas.Height))
	if err != nil {
		return err
	}
	ctrl := editor.NewController(scene, cfg.Canvas.HandleSize, logger)
	render.NewRenderer(render.ThemeFromConfig(cfg, logger), cfg.Canvas.HandleSize).Draw(surf, scene, ctrl, editMode)

	out := outputPath(trimExt(inputFile) + ".png")
	f, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("creating %s: %w", out, err)
	}
	defer f.Close()
	if err := surf.EncodePNG(f); err != nil {
		return err
	}
	fmt.Printf("  %s: %d widgets, %gx%g\n", filepath.Base(out), scene.Len(), canvas.Width, canvas.Height)
	return nil
}

func runAdd(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadConfig(cmd.Flags())
	if err != nil {
		return err
	}
	scene, err := openScene(cfg, logger, inputFile, true)
	if err != nil {
		return err
	}

	var props map[string]interface{}
	if propsJSON != "" {
		if err := json.Unmarshal([]byte(propsJSON), &props); err != nil {
			return fmt.Errorf("parsing --props: %w", err)
		}
	}
	w, ok := scene.AddFromToolbar(widget.Kind(widgetKind), props)
	if !ok {
		return fmt.Errorf("unknown widget kind '%s'", widgetKind)
	}
	b := w.Bounds()
	fmt.Printf("  added %s %s at (%g, %g) %gx%g\n", w.Kind(), w.ID(), b.X, b.Y, b.Width, b.Height)

	_, err = generator.WriteScene(scene, outputPath(inputFile), false)
	return err
}

func runReplay(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadConfig(cmd.Flags())
	if err != nil {
		return err
	}
	scene, err := openScene(cfg, logger, inputFile, false)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(scriptFile)
	if err != nil {
		return fmt.Errorf("reading script: %w", err)
	}
	var events []editor.PointerEvent
	if err := json.Unmarshal(data, &events); err != nil {
		return fmt.Errorf("parsing script: %w", err)
	}

	ctrl := editor.NewController(scene, cfg.Canvas.HandleSize, logger)
	before := scene.Version()
	for i, ev := range events {
		if err := ctrl.Dispatch(ev, !readOnly); err != nil {
			return fmt.Errorf("event %d: %w", i, err)
		}
	}
	ctrl.Cancel()
	fmt.Printf("  replayed %d events, %d changes\n", len(events), scene.Version()-before)

	_, err = generator.WriteScene(scene, outputPath(inputFile), false)
	return err
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadConfig(cmd.Flags())
	if err != nil {
		return err
	}

	var scene *editor.Scene
	if sceneName != "" {
		sc, err := cfg.GetScene(sceneName)
		if err != nil {
			return err
		}
		scene, err = generator.NewSceneBuilder(cfg, widget.NewIDGenerator(), logger).Build(sc)
		if err != nil {
			return fmt.Errorf("building scene '%s': %w", sceneName, err)
		}
	} else {
		scene, err = openScene(cfg, logger, inputFile, false)
		if err != nil {
			return err
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := server.New(server.Config{Config: cfg, Scene: scene, EditMode: !readOnly, Logger: logger})
	return srv.Serve(ctx)
}

func newPaletteCmd() *cobra.Command {
	paletteCmd := &cobra.Command{
		Use:   "palette",
		Short: "edit palettes in the config file",
	}
	paletteCmd.PersistentPreRunE = requireConfig

	paletteCmd.AddCommand(
		&cobra.Command{
			Use:   "set <palette> <color> <hex>",
			Short: "set or update a palette colour",
			Args:  cobra.ExactArgs(3),
			RunE: func(cmd *cobra.Command, args []string) error {
				return config.NewYAMLEditor(cfgFile).SetPaletteColor(args[0], args[1], args[2])
			},
		},
		&cobra.Command{
			Use:   "delete-color <palette> <color>",
			Short: "remove a palette colour",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				return config.NewYAMLEditor(cfgFile).DeletePaletteColor(args[0], args[1])
			},
		},
		&cobra.Command{
			Use:   "rename-color <palette> <old> <new>",
			Short: "rename a palette colour",
			Args:  cobra.ExactArgs(3),
			RunE: func(cmd *cobra.Command, args []string) error {
				return config.NewYAMLEditor(cfgFile).RenamePaletteColor(args[0], args[1], args[2])
			},
		},
		&cobra.Command{
			Use:   "add <palette>",
			Short: "create an empty palette",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return config.NewYAMLEditor(cfgFile).AddPalette(args[0])
			},
		},
		&cobra.Command{
			Use:   "delete <palette>",
			Short: "delete a palette",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return config.NewYAMLEditor(cfgFile).DeletePalette(args[0])
			},
		},
		&cobra.Command{
			Use:   "use <palette>",
			Short: "make a palette active",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return config.NewYAMLEditor(cfgFile).SetActivePalette(args[0])
			},
		},
	)
	return paletteCmd
}

func newCanvasCmd() *cobra.Command {
	canvasCmd := &cobra.Command{
		Use:   "canvas",
		Short: "edit canvas and theme settings in the config file",
	}
	canvasCmd.PersistentPreRunE = requireConfig

	canvasCmd.AddCommand(
		&cobra.Command{
			Use:   "set <key> <value>",
			Short: "set a canvas setting (width, height, grid_unit, min_size, max_size, handle_size)",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				v, err := strconv.ParseFloat(args[1], 64)
				if err != nil {
					return fmt.Errorf("invalid value '%s': %w", args[1], err)
				}
				return config.NewYAMLEditor(cfgFile).SetCanvasValue(args[0], v)
			},
		},
		&cobra.Command{
			Use:   "theme <role> <color>",
			Short: "point a theme role at a hex colour or $palette name",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				return config.NewYAMLEditor(cfgFile).SetThemeRole(args[0], args[1])
			},
		},
	)
	return canvasCmd
}

func trimExt(path string) string {
	return path[:len(path)-len(filepath.Ext(path))]
}

package config

import (
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"

	kyaml "github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes environment overrides. A double underscore separates
// nested keys: CANVAS_CANVAS__GRID_UNIT sets canvas.grid_unit.
const EnvPrefix = "CANVAS_"

// CanvasSettings holds the canvas geometry and interaction sizes in pixels.
type CanvasSettings struct {
	Width    float64 `yaml:"width"`
	Height   float64 `yaml:"height"`
	GridUnit float64 `yaml:"grid_unit"`
	MinSize  float64 `yaml:"min_size"`
	// MaxSize caps dropped widget sizes. Zero means the canvas bound.
	MaxSize    float64 `yaml:"max_size"`
	HandleSize float64 `yaml:"handle_size"`
}

// SizeDef overrides a widget kind's toolbar size.
type SizeDef struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// ThemeDef maps renderer roles to colours. Values are hex strings or $name
// references into the active palette.
type ThemeDef struct {
	Background string   `yaml:"background"`
	Border     string   `yaml:"border"`
	Text       string   `yaml:"text"`
	Header     string   `yaml:"header"`
	Accent     string   `yaml:"accent"`
	Series     []string `yaml:"series"`
}

// ServerSettings configures the scene server.
type ServerSettings struct {
	Port int `yaml:"port"`
}

// SceneConfig is a named widget layout. Widgets keep their configured order;
// entries without x and y are placed automatically.
type SceneConfig struct {
	Title    string                   `yaml:"title"`
	Filename string                   `yaml:"filename"`
	Widgets  []map[string]interface{} `yaml:"widgets"`
}

// Config holds the entire configuration.
type Config struct {
	Canvas        CanvasSettings               `yaml:"canvas"`
	DefaultSizes  map[string]SizeDef           `yaml:"default_sizes"`
	Palettes      map[string]map[string]string `yaml:"palettes"`
	ActivePalette string                       `yaml:"active_palette"`
	Theme         ThemeDef                     `yaml:"theme"`
	Scenes        map[string]SceneConfig       `yaml:"scenes"`
	OutputDir     string                       `yaml:"output_dir"`
	LogLevel      string                       `yaml:"log_level"`
	Server        ServerSettings               `yaml:"server"`

	palette    map[string]string
	sceneOrder []string
	path       string
}

func defaults() map[string]interface{} {
	return map[string]interface{}{
		"canvas.width":       1200,
		"canvas.height":      800,
		"canvas.grid_unit":   20,
		"canvas.min_size":    20,
		"canvas.max_size":    0,
		"canvas.handle_size": 10,
		"palettes.default": map[string]interface{}{
			"white":  "#FFFFFF",
			"grey":   "#AAAAAA",
			"ink":    "#333333",
			"mist":   "#EBEEF2",
			"blue":   "#5794F2",
			"green":  "#73BF69",
			"orange": "#FF9830",
			"red":    "#F2495C",
			"purple": "#B877D9",
		},
		"active_palette":   "default",
		"theme.background": "$white",
		"theme.border":     "$grey",
		"theme.text":       "$ink",
		"theme.header":     "$mist",
		"theme.accent":     "$blue",
		"theme.series":     []interface{}{"$green", "$blue", "$orange", "$red", "$purple"},
		"output_dir":       "out",
		"log_level":        "info",
		"server.port":      8080,
	}
}

// flagKeys maps CLI flag names onto config keys.
var flagKeys = map[string]string{
	"width":      "canvas.width",
	"height":     "canvas.height",
	"grid-unit":  "canvas.grid_unit",
	"min-size":   "canvas.min_size",
	"max-size":   "canvas.max_size",
	"palette":    "active_palette",
	"output-dir": "output_dir",
	"log-level":  "log_level",
	"port":       "server.port",
}

// Load reads configuration from built-in defaults, the YAML file at path
// (optional), CANVAS_ environment variables and explicitly set flags, in
// increasing order of precedence.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	if path == "" {
		return load(nil, nil, nil, flags)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	c, err := load(file.Provider(path), kyaml.Parser(), data, flags)
	if err != nil {
		return nil, err
	}
	c.path = path
	return c, nil
}

// LoadFromBytes parses a YAML config from raw bytes (for validation).
func LoadFromBytes(data []byte) (*Config, error) {
	m, err := kyaml.Parser().Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return load(confmap.Provider(m, ""), nil, data, nil)
}

func load(src koanf.Provider, parser koanf.Parser, data []byte, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("loading defaults: %w", err)
	}
	if src != nil {
		if err := k.Load(src, parser); err != nil {
			return nil, fmt.Errorf("parsing config: %w", err)
		}
	}
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
		return strings.ReplaceAll(key, "__", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("loading env vars: %w", err)
	}
	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			key, ok := flagKeys[f.Name]
			if !ok || !f.Changed {
				return "", nil
			}
			return key, posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("loading flags: %w", err)
		}
	}

	var c Config
	if err := k.UnmarshalWithConf("", &c, koanf.UnmarshalConf{Tag: "yaml"}); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}

	c.sceneOrder = parseSceneKeyOrder(data)
	c.palette = c.resolvePalette()
	return &c, nil
}

// Validate checks the canvas settings and palette selection.
func (c *Config) Validate() error {
	cv := c.Canvas
	if cv.Width <= 0 || cv.Height <= 0 {
		return fmt.Errorf("canvas size must be positive, got %gx%g", cv.Width, cv.Height)
	}
	if cv.GridUnit < 0 {
		return fmt.Errorf("canvas grid_unit must not be negative, got %g", cv.GridUnit)
	}
	if cv.MinSize <= 0 || cv.MinSize > cv.Width || cv.MinSize > cv.Height {
		return fmt.Errorf("canvas min_size %g must be positive and fit the canvas", cv.MinSize)
	}
	if cv.MaxSize != 0 && cv.MaxSize < cv.MinSize {
		return fmt.Errorf("canvas max_size %g is below min_size %g", cv.MaxSize, cv.MinSize)
	}
	if _, ok := c.Palettes[c.ActivePalette]; !ok {
		return fmt.Errorf("active palette '%s' not defined in config", c.ActivePalette)
	}
	if _, err := parseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// Path returns the file the config was read from, if any.
func (c *Config) Path() string {
	return c.path
}

func (c *Config) resolvePalette() map[string]string {
	p, ok := c.Palettes[c.ActivePalette]
	if !ok {
		return map[string]string{}
	}
	return p
}

// ResolveColor resolves a $color_name reference to a hex color. Unknown
// names resolve to the bare name.
func (c *Config) ResolveColor(value string) string {
	if strings.HasPrefix(value, "$") {
		name := value[1:]
		if hex, ok := c.palette[name]; ok {
			return hex
		}
		return name
	}
	return value
}

// SlogLevel returns the configured log level.
func (c *Config) SlogLevel() slog.Level {
	level, _ := parseLevel(c.LogLevel)
	return level
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log_level '%s'", s)
	}
	return level, nil
}

// GetScene returns a named scene layout.
func (c *Config) GetScene(name string) (SceneConfig, error) {
	sc, ok := c.Scenes[name]
	if !ok {
		return SceneConfig{}, fmt.Errorf("scene '%s' not defined in config", name)
	}
	return sc, nil
}

// GetSceneOrder returns scene names in file order, or sorted when the order
// is unknown.
func (c *Config) GetSceneOrder() []string {
	if len(c.sceneOrder) > 0 {
		order := make([]string, 0, len(c.sceneOrder))
		for _, name := range c.sceneOrder {
			if _, ok := c.Scenes[name]; ok {
				order = append(order, name)
			}
		}
		return order
	}
	keys := make([]string, 0, len(c.Scenes))
	for k := range c.Scenes {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// parseSceneKeyOrder extracts scene key ordering from raw YAML.
func parseSceneKeyOrder(data []byte) []string {
	if len(data) == 0 {
		return nil
	}
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil
	}
	if node.Kind != yaml.DocumentNode || len(node.Content) == 0 {
		return nil
	}
	scenes := findMappingKey(node.Content[0], "scenes")
	if scenes == nil || scenes.Kind != yaml.MappingNode {
		return nil
	}
	var order []string
	for j := 0; j < len(scenes.Content)-1; j += 2 {
		order = append(order, scenes.Content[j].Value)
	}
	return order
}

package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// YAMLEditor edits palettes, theme roles and canvas settings in the config
// file through the yaml.v3 Node API, so comments and key order survive.
type YAMLEditor struct {
	path string
}

// NewYAMLEditor creates a new editor for the given config file path.
func NewYAMLEditor(path string) *YAMLEditor {
	return &YAMLEditor{path: path}
}

// canvasKeys are the canvas settings SetCanvasValue accepts.
var canvasKeys = map[string]bool{
	"width": true, "height": true, "grid_unit": true,
	"min_size": true, "max_size": true, "handle_size": true,
}

// themeKeys are the scalar theme roles SetThemeRole accepts.
var themeKeys = map[string]bool{
	"background": true, "border": true, "text": true, "header": true, "accent": true,
}

// SetCanvasValue sets one numeric canvas setting, creating the canvas
// section when missing.
func (e *YAMLEditor) SetCanvasValue(key string, value float64) error {
	if !canvasKeys[key] {
		return fmt.Errorf("unknown canvas setting '%s'", key)
	}
	if value < 0 {
		return fmt.Errorf("canvas %s must not be negative", key)
	}
	return e.edit(func(root *yaml.Node) error {
		canvas := ensureMapping(root, "canvas")
		setScalar(canvas, key, strconv.FormatFloat(value, 'f', -1, 64), 0)
		return nil
	})
}

// SetThemeRole points a theme role at a colour, either hex or $name.
func (e *YAMLEditor) SetThemeRole(role, value string) error {
	if !themeKeys[role] {
		return fmt.Errorf("unknown theme role '%s'", role)
	}
	return e.edit(func(root *yaml.Node) error {
		theme := ensureMapping(root, "theme")
		setScalar(theme, role, value, yaml.DoubleQuotedStyle)
		return nil
	})
}

// SetPaletteColor sets or updates a color in a named palette.
func (e *YAMLEditor) SetPaletteColor(palette, color, hex string) error {
	if _, err := ParseHexColor(hex); err != nil {
		return err
	}
	return e.edit(func(root *yaml.Node) error {
		p, err := paletteNode(root, palette)
		if err != nil {
			return err
		}
		setScalar(p, color, hex, yaml.DoubleQuotedStyle)
		return nil
	})
}

// DeletePaletteColor removes a color from a named palette.
func (e *YAMLEditor) DeletePaletteColor(palette, color string) error {
	return e.edit(func(root *yaml.Node) error {
		p, err := paletteNode(root, palette)
		if err != nil {
			return err
		}
		if !removeMappingKey(p, color) {
			return fmt.Errorf("color '%s' not found in palette '%s'", color, palette)
		}
		return nil
	})
}

// RenamePaletteColor renames a color key within a palette.
func (e *YAMLEditor) RenamePaletteColor(palette, oldName, newName string) error {
	return e.edit(func(root *yaml.Node) error {
		p, err := paletteNode(root, palette)
		if err != nil {
			return err
		}
		idx := findMappingKeyIndex(p, oldName)
		if idx < 0 {
			return fmt.Errorf("color '%s' not found in palette '%s'", oldName, palette)
		}
		if findMappingKey(p, newName) != nil {
			return fmt.Errorf("color '%s' already exists in palette '%s'", newName, palette)
		}
		p.Content[idx].Value = newName
		return nil
	})
}

// AddPalette creates a new empty palette.
func (e *YAMLEditor) AddPalette(name string) error {
	return e.edit(func(root *yaml.Node) error {
		palettes := ensureMapping(root, "palettes")
		if findMappingKey(palettes, name) != nil {
			return fmt.Errorf("palette '%s' already exists", name)
		}
		palettes.Content = append(palettes.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: name},
			&yaml.Node{Kind: yaml.MappingNode},
		)
		return nil
	})
}

// DeletePalette removes a palette. The active palette cannot be removed.
func (e *YAMLEditor) DeletePalette(name string) error {
	return e.edit(func(root *yaml.Node) error {
		if active := findMappingKey(root, "active_palette"); active != nil && active.Value == name {
			return fmt.Errorf("palette '%s' is active", name)
		}
		palettes := findMappingKey(root, "palettes")
		if palettes == nil || !removeMappingKey(palettes, name) {
			return fmt.Errorf("palette '%s' not found", name)
		}
		return nil
	})
}

// SetActivePalette updates the active_palette key.
func (e *YAMLEditor) SetActivePalette(name string) error {
	return e.edit(func(root *yaml.Node) error {
		if _, err := paletteNode(root, name); err != nil {
			return err
		}
		setScalar(root, "active_palette", name, 0)
		return nil
	})
}

func (e *YAMLEditor) edit(fn func(root *yaml.Node) error) error {
	doc, root, err := e.load()
	if err != nil {
		return err
	}
	if err := fn(root); err != nil {
		return err
	}
	return e.save(doc)
}

func (e *YAMLEditor) load() (*yaml.Node, *yaml.Node, error) {
	data, err := os.ReadFile(e.path)
	if err != nil {
		return nil, nil, fmt.Errorf("reading config: %w", err)
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, nil, fmt.Errorf("parsing config: %w", err)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, nil, fmt.Errorf("invalid YAML document")
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, nil, fmt.Errorf("root is not a mapping")
	}
	return &doc, root, nil
}

func (e *YAMLEditor) save(doc *yaml.Node) error {
	out, err := os.Create(e.path)
	if err != nil {
		return fmt.Errorf("opening config for write: %w", err)
	}
	defer out.Close()

	enc := yaml.NewEncoder(out)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	return enc.Close()
}

func paletteNode(root *yaml.Node, name string) (*yaml.Node, error) {
	palettes := findMappingKey(root, "palettes")
	if palettes == nil {
		return nil, fmt.Errorf("no palettes section in config")
	}
	p := findMappingKey(palettes, name)
	if p == nil {
		return nil, fmt.Errorf("palette '%s' not found", name)
	}
	return p, nil
}

// ensureMapping returns the mapping under key, appending an empty one when
// the key is missing.
func ensureMapping(parent *yaml.Node, key string) *yaml.Node {
	if n := findMappingKey(parent, key); n != nil && n.Kind == yaml.MappingNode {
		return n
	}
	removeMappingKey(parent, key)
	parent.Content = append(parent.Content,
		&yaml.Node{Kind: yaml.ScalarNode, Value: key},
		&yaml.Node{Kind: yaml.MappingNode},
	)
	return parent.Content[len(parent.Content)-1]
}

func setScalar(mapping *yaml.Node, key, value string, style yaml.Style) {
	if n := findMappingKey(mapping, key); n != nil {
		n.Kind = yaml.ScalarNode
		n.Value = value
		n.Tag = ""
		n.Style = style
		n.Content = nil
		return
	}
	mapping.Content = append(mapping.Content,
		&yaml.Node{Kind: yaml.ScalarNode, Value: key},
		&yaml.Node{Kind: yaml.ScalarNode, Value: value, Style: style},
	)
}

func removeMappingKey(mapping *yaml.Node, key string) bool {
	idx := findMappingKeyIndex(mapping, key)
	if idx < 0 {
		return false
	}
	mapping.Content = append(mapping.Content[:idx], mapping.Content[idx+2:]...)
	return true
}

// findMappingKey finds the value node for a key in a MappingNode.
func findMappingKey(mapping *yaml.Node, key string) *yaml.Node {
	if idx := findMappingKeyIndex(mapping, key); idx >= 0 {
		return mapping.Content[idx+1]
	}
	return nil
}

// findMappingKeyIndex returns the index of a key in a MappingNode's Content, or -1.
func findMappingKeyIndex(mapping *yaml.Node, key string) int {
	if mapping.Kind != yaml.MappingNode {
		return -1
	}
	for i := 0; i < len(mapping.Content)-1; i += 2 {
		if mapping.Content[i].Value == key {
			return i
		}
	}
	return -1
}

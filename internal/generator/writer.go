package generator

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/wcatz/widget-canvas/internal/config"
	"github.com/wcatz/widget-canvas/internal/editor"
)

// WriteScene writes a scene's widget list to a JSON file, returning the size.
func WriteScene(scene *editor.Scene, fpath string, dryRun bool) (int, error) {
	data, err := scene.Save()
	if err != nil {
		return 0, fmt.Errorf("serializing scene: %w", err)
	}
	data = append(data, '\n')
	size := len(data)
	filename := filepath.Base(fpath)

	if !dryRun {
		if err := os.MkdirAll(filepath.Dir(fpath), 0755); err != nil {
			return 0, fmt.Errorf("creating %s: %w", filepath.Dir(fpath), err)
		}
		if err := os.WriteFile(fpath, data, 0644); err != nil {
			return 0, fmt.Errorf("writing %s: %w", fpath, err)
		}
	}

	fmt.Printf("  %s: %d widgets, %s bytes\n", filename, scene.Len(), FormatSize(size))
	return size, nil
}

// SceneFilename returns the output file name for a scene.
func SceneFilename(name string, sc config.SceneConfig) string {
	if sc.Filename != "" {
		return sc.Filename
	}
	return name + ".json"
}

// FormatSize formats a byte count with thousands separators.
func FormatSize(n int) string {
	if n < 1000 {
		return fmt.Sprintf("%d", n)
	}
	s := fmt.Sprintf("%d", n)
	// insert commas
	var result []byte
	for i, c := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			result = append(result, ',')
		}
		result = append(result, byte(c))
	}
	return string(result)
}

package widget

import (
	"fmt"

	"github.com/google/uuid"
)

// IDGenerator produces widget ids that are unique within a scene.
type IDGenerator struct {
	n      int
	source func() string
}

// NewIDGenerator creates a generator backed by random UUIDs.
func NewIDGenerator() *IDGenerator {
	return &IDGenerator{source: uuid.NewString}
}

// NewSequentialIDGenerator creates a generator producing w1, w2, ...
func NewSequentialIDGenerator() *IDGenerator {
	return &IDGenerator{}
}

// Reset restarts the sequential counter.
func (g *IDGenerator) Reset() {
	g.n = 0
}

// Next returns the next id.
func (g *IDGenerator) Next() string {
	if g.source != nil {
		return g.source()
	}
	g.n++
	return fmt.Sprintf("w%d", g.n)
}

// NextFree returns the next id for which taken reports false.
func (g *IDGenerator) NextFree(taken func(id string) bool) string {
	for {
		if id := g.Next(); !taken(id) {
			return id
		}
	}
}

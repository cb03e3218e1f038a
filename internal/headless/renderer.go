// Package headless provides an in-memory galaxy.Renderer used when no
// display is attached. It keeps the sprite table so the state can be
// inspected over the status API.
package headless

import (
	"sync"

	"github.com/lucasb-eyer/go-colorful"

	"eve-render/internal/galaxy"
	"eve-render/internal/vmath"
)

// Stats summarizes the sprite table.
type Stats struct {
	Sprites   int            `json:"sprites"`
	Created   uint64         `json:"created"`
	Released  uint64         `json:"released"`
	Invalid   uint64         `json:"invalid_ops"`
	Segments  int            `json:"line_segments"`
	ByTexture map[string]int `json:"by_texture"`
}

// Renderer records sprites in memory. Handles are issued from 1 upwards and
// never reused. Calls on unknown or released handles are counted as invalid.
type Renderer struct {
	mu        sync.Mutex
	next      galaxy.Handle
	sprites   map[galaxy.Handle]galaxy.Sprite
	created   uint64
	released  uint64
	invalid   uint64
	lineColor colorful.Color
	segments  [][2]vmath.Vec3
}

// New creates an empty renderer.
func New() *Renderer {
	return &Renderer{sprites: make(map[galaxy.Handle]galaxy.Sprite)}
}

func (r *Renderer) CreateSprite(s galaxy.Sprite) galaxy.Handle {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.next++
	r.sprites[r.next] = s
	r.created++
	return r.next
}

func (r *Renderer) UpdateSprite(h galaxy.Handle, location vmath.Vec3, color colorful.Color) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sprites[h]
	if !ok {
		r.invalid++
		return
	}
	s.Location = location
	s.Color = color
	r.sprites[h] = s
}

func (r *Renderer) ReleaseSprite(h galaxy.Handle) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sprites[h]; !ok {
		r.invalid++
		return
	}
	delete(r.sprites, h)
	r.released++
}

// DrawLines replaces the line mesh.
func (r *Renderer) DrawLines(color colorful.Color, segments [][2]vmath.Vec3) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lineColor = color
	r.segments = segments
}

// Sprite returns the sprite behind h.
func (r *Renderer) Sprite(h galaxy.Handle) (galaxy.Sprite, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sprites[h]
	return s, ok
}

// Stats returns a snapshot of the sprite table.
func (r *Renderer) Stats() Stats {
	r.mu.Lock()
	defer r.mu.Unlock()
	st := Stats{
		Sprites:   len(r.sprites),
		Created:   r.created,
		Released:  r.released,
		Invalid:   r.invalid,
		Segments:  len(r.segments),
		ByTexture: make(map[string]int),
	}
	for _, s := range r.sprites {
		st.ByTexture[s.Texture]++
	}
	return st
}

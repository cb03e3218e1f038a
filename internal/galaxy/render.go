package galaxy

import (
	"github.com/lucasb-eyer/go-colorful"

	"eve-render/internal/vmath"
)

// Texture keys understood by the renderer.
const (
	TextureStar          = "textures/star2d.dds"
	TextureFlashingPoint = "textures/flashingpoint.dds"
	TextureMovingPoint   = "textures/movingpoint.dds"
)

// Handle is an opaque reference to a sprite owned by the renderer.
// The zero Handle refers to nothing.
type Handle uint64

// Sprite describes a point sprite to create.
type Sprite struct {
	Color    colorful.Color
	Location vmath.Vec3
	Size     float64
	Texture  string
}

// Renderer creates and destroys the visual side of entities. It never
// mutates simulation state. All calls come from the simulation goroutine.
type Renderer interface {
	CreateSprite(s Sprite) Handle
	UpdateSprite(h Handle, location vmath.Vec3, color colorful.Color)
	ReleaseSprite(h Handle)
	DrawLines(color colorful.Color, segments [][2]vmath.Vec3)
}

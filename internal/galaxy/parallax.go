package galaxy

import (
	"math"
	"math/rand/v2"

	"github.com/lucasb-eyer/go-colorful"

	"eve-render/internal/vmath"
)

// DefaultParallaxStars is the size of the background field drawn by the viewer.
const DefaultParallaxStars = 2048

// ParallaxField returns n white background sprites scattered on a spherical
// shell around the map, denser and smaller towards the center.
func ParallaxField(rng *rand.Rand, n int) []Sprite {
	out := make([]Sprite, 0, n)
	for i := 0; i < n; i++ {
		radius := rng.Float64()*16 + 2
		radius *= radius
		theta := rng.Float64() * 2 * math.Pi
		phi := rng.Float64() * 2 * math.Pi

		size := rng.Float64() * 1.5 * math.Sqrt(radius)
		size *= size

		out = append(out, Sprite{
			Color: colorful.Color{R: 1, G: 1, B: 1},
			Location: vmath.Vec3{
				X: radius * math.Sin(theta) * math.Cos(phi),
				Y: radius * math.Sin(theta) * math.Sin(phi),
				Z: radius * math.Cos(theta),
			},
			Size:    size,
			Texture: TextureStar,
		})
	}
	return out
}

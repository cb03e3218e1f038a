package galaxy

import (
	"math"

	"github.com/lucasb-eyer/go-colorful"

	"eve-render/internal/vmath"
)

// Kind identifies the concrete entity variant.
type Kind uint8

const (
	KindStaticStar Kind = iota
	KindFlashingPoint
	KindMovingPoint
)

func (k Kind) String() string {
	switch k {
	case KindStaticStar:
		return "star"
	case KindFlashingPoint:
		return "flashing"
	case KindMovingPoint:
		return "moving"
	}
	return "unknown"
}

const (
	// FlashDecay is how much life a FlashingPoint loses per second.
	FlashDecay = 4.0
	// MovingSpeed is the travel speed of a MovingPoint in world units per second.
	MovingSpeed = 1 / 50.0
)

// Entity is an animated point on the map. The set of implementations is
// closed: *StaticStar, *FlashingPoint and *MovingPoint.
type Entity interface {
	Kind() Kind
	// Update advances the entity by dt seconds and reports whether it has
	// reached its terminal state. A terminal entity never becomes alive again.
	Update(dt float64) bool
	Location() vmath.Vec3
	Color() colorful.Color
	Size() float64
	Texture() string
	Handle() Handle

	setHandle(h Handle)
}

// point holds the fields shared by all variants.
type point struct {
	location vmath.Vec3
	size     float64
	color    colorful.Color
	handle   Handle
}

func (p *point) Location() vmath.Vec3 { return p.location }
func (p *point) Size() float64 { return p.size }
func (p *point) Color() colorful.Color { return p.color }
func (p *point) Handle() Handle { return p.handle }
func (p *point) setHandle(h Handle) { p.handle = h }

// StaticStar is the rendered form of a catalog star. It never terminates.
type StaticStar struct {
	point
	Star *Star
}

func NewStaticStar(s *Star) *StaticStar {
	return &StaticStar{
		point: point{location: s.Location, size: s.Size, color: s.Color},
		Star:  s,
	}
}

func (s *StaticStar) Kind() Kind { return KindStaticStar }
func (s *StaticStar) Texture() string { return TextureStar }
func (s *StaticStar) Update(dt float64) bool { return false }

// FlashingPoint is a short flash marking a ship kill. Its life starts at 1
// and drops by FlashDecay per second; its color fades to black with it.
type FlashingPoint struct {
	point
	life float64
}

func NewFlashingPoint(location vmath.Vec3, size float64, color colorful.Color) *FlashingPoint {
	return &FlashingPoint{
		point: point{location: location, size: size, color: color},
		life:  1.0,
	}
}

func (f *FlashingPoint) Kind() Kind { return KindFlashingPoint }
func (f *FlashingPoint) Texture() string { return TextureFlashingPoint }

// Life returns the remaining life. Negative once terminal.
func (f *FlashingPoint) Life() float64 { return f.life }

// BaseColor returns the unfaded color.
func (f *FlashingPoint) BaseColor() colorful.Color { return f.color }

// Color returns the base color scaled by the remaining life.
func (f *FlashingPoint) Color() colorful.Color {
	l := max(f.life, 0)
	return colorful.Color{R: f.color.R * l, G: f.color.G * l, B: f.color.B * l}
}

func (f *FlashingPoint) Update(dt float64) bool {
	f.life -= dt * FlashDecay
	return f.life < 0
}

// MovingPoint travels in a straight line from one star towards another,
// marking a jump.
type MovingPoint struct {
	point
	origin   *Star
	dest     *Star
	velocity vmath.Vec3
	// distance to dest after the previous update
	prevDistance float64
}

func NewMovingPoint(origin, dest *Star, size float64) *MovingPoint {
	return &MovingPoint{
		point:        point{location: origin.Location, size: size, color: origin.Color},
		origin:       origin,
		dest:         dest,
		velocity:     dest.Location.Sub(origin.Location).Normalize().Scale(MovingSpeed),
		prevDistance: math.Inf(1),
	}
}

func (m *MovingPoint) Kind() Kind { return KindMovingPoint }
func (m *MovingPoint) Texture() string { return TextureMovingPoint }
func (m *MovingPoint) Origin() *Star { return m.origin }
func (m *MovingPoint) Destination() *Star { return m.dest }
func (m *MovingPoint) Velocity() vmath.Vec3 { return m.velocity }
func (m *MovingPoint) PrevDistance() float64 { return m.prevDistance }

// Update moves the point and reports arrival. Arrival is detected once the
// distance to the destination grows compared to the previous update, so the
// point is removed on the tick after it passes the destination.
func (m *MovingPoint) Update(dt float64) bool {
	m.location = m.location.Add(m.velocity.Scale(dt))
	d := m.location.Distance(m.dest.Location)
	arrived := d > m.prevDistance
	m.prevDistance = d
	return arrived
}

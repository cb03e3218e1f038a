package galaxy

import (
	"sync/atomic"

	"github.com/lucasb-eyer/go-colorful"

	"eve-render/internal/vmath"
)

// Star is a solar system on the map. Identity, position, size and color are
// fixed at load time. The traffic counters are written by the traffic feed and
// read by the simulation clock from another goroutine.
type Star struct {
	ID       int32
	Location vmath.Vec3
	Size     float64
	Color    colorful.Color
	Security float64

	kills atomic.Int32
	jumps atomic.Int32
}

// NewStar creates a Star with zeroed traffic counters.
func NewStar(id int32, location vmath.Vec3, size float64, color colorful.Color, security float64) *Star {
	return &Star{
		ID:       id,
		Location: location,
		Size:     size,
		Color:    color,
		Security: security,
	}
}

// KillsPerHour returns the last published ship kills per hour.
func (s *Star) KillsPerHour() int32 { return s.kills.Load() }

// JumpsPerHour returns the last published jumps per hour.
func (s *Star) JumpsPerHour() int32 { return s.jumps.Load() }

// SetKillsPerHour overwrites the kill rate.
func (s *Star) SetKillsPerHour(n int32) { s.kills.Store(n) }

// SetJumpsPerHour overwrites the jump rate.
func (s *Star) SetJumpsPerHour(n int32) { s.jumps.Store(n) }

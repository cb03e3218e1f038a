package galaxy

import (
	"math/rand/v2"
	"sync/atomic"

	"github.com/lucasb-eyer/go-colorful"
)

// ClockOptions configures a Clock.
type ClockOptions struct {
	// Multipliers applied to the hourly rates. Zero disables that kind of event.
	KillSpeed float64
	JumpSpeed float64
	// Number of decorative parallax sprites added by Populate.
	ParallaxStars int
	// Random source. Nil seeds a new one. Only the tick goroutine draws from it.
	Rand *rand.Rand
}

// TickResult lists the entities created and removed by one tick.
type TickResult struct {
	Added   []Entity
	Removed []Entity
}

// ClockStats is a point-in-time view of the clock, safe to read from any goroutine.
type ClockStats struct {
	Ticks   uint64 `json:"ticks"`
	Live    int64  `json:"live"`
	Kills   uint64 `json:"kills_spawned"`
	Jumps   uint64 `json:"jumps_spawned"`
	Removed uint64 `json:"removed"`
}

// Clock advances the animated map once per frame. It owns the set of
// transient entities; only the goroutine calling Tick may touch it.
type Clock struct {
	catalog   *Catalog
	renderer  Renderer
	rng       *rand.Rand
	killSpeed float64
	jumpSpeed float64
	parallax  int

	entities []Entity
	stars    []*StaticStar

	ticks   atomic.Uint64
	live    atomic.Int64
	kills   atomic.Uint64
	jumps   atomic.Uint64
	removed atomic.Uint64
}

// DefaultClockOptions returns real-time rates and the full parallax field.
func DefaultClockOptions() ClockOptions {
	return ClockOptions{KillSpeed: 1, JumpSpeed: 1, ParallaxStars: DefaultParallaxStars}
}

// NewClock creates a Clock over the catalog, drawing through r. The speed
// multipliers are used as given.
func NewClock(catalog *Catalog, r Renderer, opts ClockOptions) *Clock {
	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Clock{
		catalog:   catalog,
		renderer:  r,
		rng:       rng,
		killSpeed: opts.KillSpeed,
		jumpSpeed: opts.JumpSpeed,
		parallax:  opts.ParallaxStars,
	}
}

// Populate creates the static part of the map: one sprite per star, the
// gate line mesh and the parallax field. Call once before the first Tick.
func (c *Clock) Populate(lineColor colorful.Color) []*StaticStar {
	c.stars = make([]*StaticStar, 0, c.catalog.Len())
	for _, s := range c.catalog.Stars() {
		st := NewStaticStar(s)
		c.attach(st)
		c.stars = append(c.stars, st)
	}
	c.renderer.DrawLines(lineColor, c.catalog.GateSegments())
	for _, sp := range ParallaxField(c.rng, c.parallax) {
		c.renderer.CreateSprite(sp)
	}
	return c.stars
}

// SpawnProbability is the chance of at least one event in dt seconds for a
// rate given per hour. It is the linear approximation rate*dt, valid while
// dt is small against the mean gap between events; it is not a Poisson draw.
func SpawnProbability(perHour int32, dt, multiplier float64) float64 {
	return float64(perHour) / 3600 * dt * multiplier
}

// Tick advances every live entity by dt seconds, removes those that reached
// their end, and spawns new ones from the current traffic rates.
func (c *Clock) Tick(dt float64) TickResult {
	var res TickResult

	live := c.entities[:0]
	for _, e := range c.entities {
		if e.Update(dt) {
			c.renderer.ReleaseSprite(e.Handle())
			e.setHandle(0)
			res.Removed = append(res.Removed, e)
			continue
		}
		c.renderer.UpdateSprite(e.Handle(), e.Location(), e.Color())
		live = append(live, e)
	}
	clear(c.entities[len(live):])
	c.entities = live

	stars := c.catalog.Stars()
	for _, s := range stars {
		if c.rng.Float64() < SpawnProbability(s.KillsPerHour(), dt, c.killSpeed) {
			res.Added = append(res.Added, c.spawnKill(s))
		}
	}
	for _, s := range stars {
		jumps := s.JumpsPerHour()
		if jumps <= 0 {
			continue
		}
		if c.rng.Float64() < SpawnProbability(jumps, dt, c.jumpSpeed) {
			if m := c.spawnJump(s); m != nil {
				res.Added = append(res.Added, m)
			}
		}
	}
	c.entities = append(c.entities, res.Added...)

	c.ticks.Add(1)
	c.removed.Add(uint64(len(res.Removed)))
	c.live.Store(int64(len(c.entities)))
	return res
}

func (c *Clock) spawnKill(s *Star) Entity {
	f := NewFlashingPoint(s.Location, s.Size*0.25+0.25, s.Color)
	c.attach(f)
	c.kills.Add(1)
	return f
}

// spawnJump picks a random gate out of s. Stars without gates, and gates
// whose ends coincide, produce nothing.
func (c *Clock) spawnJump(s *Star) Entity {
	dests := c.catalog.Destinations(s.ID)
	if len(dests) == 0 {
		return nil
	}
	d := dests[c.rng.IntN(len(dests))]
	if d.Location == s.Location {
		return nil
	}
	m := NewMovingPoint(s, d, c.rng.Float64()*0.1+0.1)
	c.attach(m)
	c.jumps.Add(1)
	return m
}

func (c *Clock) attach(e Entity) {
	e.setHandle(c.renderer.CreateSprite(Sprite{
		Color:    e.Color(),
		Location: e.Location(),
		Size:     e.Size(),
		Texture:  e.Texture(),
	}))
}

// Live returns the number of live transient entities.
func (c *Clock) Live() int { return int(c.live.Load()) }

// Stats returns counters for status reporting.
func (c *Clock) Stats() ClockStats {
	return ClockStats{
		Ticks:   c.ticks.Load(),
		Live:    c.live.Load(),
		Kills:   c.kills.Load(),
		Jumps:   c.jumps.Load(),
		Removed: c.removed.Load(),
	}
}

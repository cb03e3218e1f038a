package galaxy

import (
	"sort"

	"eve-render/internal/graph"
	"eve-render/internal/vmath"
)

// Catalog is the immutable set of stars and the jumpgates between them.
// Only the per-star traffic counters change after construction.
type Catalog struct {
	stars   map[int32]*Star
	ordered []*Star           // ascending ID, for stable iteration
	dests   map[int32][]*Star // resolved gate destinations
	gates   *graph.Universe
}

// NewCatalog builds a Catalog. Gates referencing unknown stars are ignored.
// A nil gates graph is treated as empty. Star security is copied into the
// graph for filtered traversal.
func NewCatalog(stars map[int32]*Star, gates *graph.Universe) *Catalog {
	if gates == nil {
		gates = graph.NewUniverse()
	}
	c := &Catalog{
		stars:   stars,
		ordered: make([]*Star, 0, len(stars)),
		dests:   make(map[int32][]*Star, len(gates.Adj)),
		gates:   gates,
	}
	for _, s := range stars {
		c.ordered = append(c.ordered, s)
		gates.SetSecurity(s.ID, s.Security)
	}
	sort.Slice(c.ordered, func(i, j int) bool { return c.ordered[i].ID < c.ordered[j].ID })

	for _, e := range gates.Edges() {
		from, to := stars[e[0]], stars[e[1]]
		if from == nil || to == nil {
			continue
		}
		c.dests[from.ID] = append(c.dests[from.ID], to)
	}
	return c
}

// Len returns the number of stars.
func (c *Catalog) Len() int { return len(c.ordered) }

// Star returns the star with the given ID, or nil.
func (c *Catalog) Star(id int32) *Star { return c.stars[id] }

// Stars returns all stars in ascending ID order. Callers must not modify the slice.
func (c *Catalog) Stars() []*Star { return c.ordered }

// Gates returns the underlying gate graph.
func (c *Catalog) Gates() *graph.Universe { return c.gates }

// Destinations returns the stars one jump away from id. Never nil.
func (c *Catalog) Destinations(id int32) []*Star {
	if d, ok := c.dests[id]; ok {
		return d
	}
	return []*Star{}
}

// SetKillsPerHour updates a star's kill rate. Unknown IDs are ignored and report false.
func (c *Catalog) SetKillsPerHour(id, kills int32) bool {
	s := c.stars[id]
	if s == nil {
		return false
	}
	s.SetKillsPerHour(kills)
	return true
}

// SetJumpsPerHour updates a star's jump rate. Unknown IDs are ignored and report false.
func (c *Catalog) SetJumpsPerHour(id, jumps int32) bool {
	s := c.stars[id]
	if s == nil {
		return false
	}
	s.SetJumpsPerHour(jumps)
	return true
}

// GateSegments returns one line segment per adjacency entry, for drawing the gate mesh.
func (c *Catalog) GateSegments() [][2]vmath.Vec3 {
	var segs [][2]vmath.Vec3
	for _, s := range c.ordered {
		for _, id := range c.gates.Destinations(s.ID) {
			if d := c.stars[id]; d != nil {
				segs = append(segs, [2]vmath.Vec3{s.Location, d.Location})
			}
		}
	}
	return segs
}

package graph

// Universe holds the adjacency list of star systems connected by jumpgates,
// plus each system's security status for filtered traversal.
type Universe struct {
	// Adj maps systemID -> list of neighboring systemIDs, in insertion order.
	Adj map[int32][]int32
	// SystemSecurity maps systemID -> security status (-1.0 to 1.0).
	SystemSecurity map[int32]float64
}

// NewUniverse creates an empty Universe with initialized maps.
func NewUniverse() *Universe {
	return &Universe{
		Adj:            make(map[int32][]int32),
		SystemSecurity: make(map[int32]float64),
	}
}

// AddGate adds an undirected jumpgate: b becomes a destination of a and a of b.
func (u *Universe) AddGate(a, b int32) {
	u.Adj[a] = append(u.Adj[a], b)
	u.Adj[b] = append(u.Adj[b], a)
}

// SetSecurity sets the security status for a system.
func (u *Universe) SetSecurity(systemID int32, security float64) {
	u.SystemSecurity[systemID] = security
}

// Destinations returns the systems reachable by one jump from systemID.
// The result is never nil; callers must not modify it.
func (u *Universe) Destinations(systemID int32) []int32 {
	if d, ok := u.Adj[systemID]; ok {
		return d
	}
	return []int32{}
}

// Edges returns every adjacency entry as a (from, to) pair. Each gate
// therefore appears once per direction.
func (u *Universe) Edges() [][2]int32 {
	var n int
	for _, dests := range u.Adj {
		n += len(dests)
	}
	out := make([][2]int32, 0, n)
	for from, dests := range u.Adj {
		for _, to := range dests {
			out = append(out, [2]int32{from, to})
		}
	}
	return out
}

// GateCount returns the number of undirected gates.
func (u *Universe) GateCount() int {
	var n int
	for _, dests := range u.Adj {
		n += len(dests)
	}
	return n / 2
}

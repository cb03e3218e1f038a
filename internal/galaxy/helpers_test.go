package galaxy

import (
	"math/rand/v2"

	"github.com/lucasb-eyer/go-colorful"

	"eve-render/internal/graph"
	"eve-render/internal/vmath"
)

type fakeRenderer struct {
	next       Handle
	live       map[Handle]Sprite
	created    int
	released   int
	badRelease int
	updates    int
	lineColor  colorful.Color
	lines      [][2]vmath.Vec3
}

func newFakeRenderer() *fakeRenderer {
	return &fakeRenderer{live: make(map[Handle]Sprite)}
}

func (r *fakeRenderer) CreateSprite(s Sprite) Handle {
	r.next++
	r.created++
	r.live[r.next] = s
	return r.next
}

func (r *fakeRenderer) UpdateSprite(h Handle, loc vmath.Vec3, c colorful.Color) {
	sp, ok := r.live[h]
	if !ok {
		r.badRelease++
		return
	}
	sp.Location = loc
	sp.Color = c
	r.live[h] = sp
	r.updates++
}

func (r *fakeRenderer) ReleaseSprite(h Handle) {
	if _, ok := r.live[h]; !ok {
		r.badRelease++
		return
	}
	delete(r.live, h)
	r.released++
}

func (r *fakeRenderer) DrawLines(c colorful.Color, segs [][2]vmath.Vec3) {
	r.lineColor = c
	r.lines = segs
}

func seeded() *rand.Rand {
	return rand.New(rand.NewPCG(1, 2))
}

// testCatalog builds stars 1..n on the x axis, one unit apart, with gates
// between the given pairs.
func testCatalog(n int, gates ...[2]int32) *Catalog {
	stars := make(map[int32]*Star, n)
	for i := 1; i <= n; i++ {
		stars[int32(i)] = NewStar(int32(i), vmath.Vec3{X: float64(i)}, 0.02, colorful.Color{R: 1, G: 0.5, B: 0.25}, 0.5)
	}
	u := graph.NewUniverse()
	for _, g := range gates {
		u.AddGate(g[0], g[1])
	}
	return NewCatalog(stars, u)
}

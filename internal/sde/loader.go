package sde

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"

	"eve-render/internal/config"
	"eve-render/internal/galaxy"
	"eve-render/internal/graph"
	"eve-render/internal/logger"
	"eve-render/internal/vmath"
)

const (
	SystemsFile = "systems.txt"
	GatesFile   = "gates.txt"
)

const (
	// Raw SDE coordinates are in meters; dividing by 2^60 brings the cluster
	// to roughly unit size. The X offset centers it on the world origin.
	positionFactor  = 1 << 60
	positionOffsetX = 0.075

	sizeFactor   = 0.02
	sizeExponent = 0.125

	// Wormhole space sits in its own group at x - z >= 5 and is left off the map.
	wspaceCutoff = 5.0
)

var (
	errMalformed = errors.New("malformed record")
	errExcluded  = errors.New("outside map volume")
)

// Palette holds the color ramps for the three security bands.
type Palette struct {
	Null config.ColorPair
	Low  config.ColorPair
	High config.ColorPair
}

// PaletteFrom extracts the security colors from settings.
func PaletteFrom(s *config.Settings) Palette {
	return Palette{Null: s.NullColors, Low: s.LowColors, High: s.HighColors}
}

// LoadStats counts what happened to the input lines of one load.
type LoadStats struct {
	Lines    int
	Loaded   int
	Skipped  int // malformed
	Excluded int // outside the map volume
	Dropped  int // gates referencing unknown stars
}

// Load reads systems.txt and gates.txt from dataDir. A file that cannot be
// read is treated as empty; the returned error describes what was missing,
// but the catalog is always usable.
func Load(dataDir string, pal Palette) (*galaxy.Catalog, error) {
	var errs []error

	stars := make(map[int32]*galaxy.Star)
	var starStats LoadStats
	logger.Info("SDE", "Loading star systems...")
	if f, err := os.Open(filepath.Join(dataDir, SystemsFile)); err != nil {
		errs = append(errs, fmt.Errorf("open systems: %w", err))
	} else {
		stars, starStats, err = LoadStars(f, pal)
		f.Close()
		if err != nil {
			errs = append(errs, fmt.Errorf("read systems: %w", err))
		}
	}

	gates := graph.NewUniverse()
	var gateStats LoadStats
	logger.Info("SDE", "Loading jumpgates...")
	if f, err := os.Open(filepath.Join(dataDir, GatesFile)); err != nil {
		errs = append(errs, fmt.Errorf("open gates: %w", err))
	} else {
		gates, gateStats, err = LoadGates(f, stars)
		f.Close()
		if err != nil {
			errs = append(errs, fmt.Errorf("read gates: %w", err))
		}
	}

	logger.Section("SDE Statistics")
	logger.Stats("Systems", starStats.Loaded)
	logger.Stats("Skipped lines", starStats.Skipped)
	logger.Stats("W-space excluded", starStats.Excluded)
	logger.Stats("Gates", gates.GateCount())
	logger.Stats("Dropped gates", gateStats.Dropped)

	return galaxy.NewCatalog(stars, gates), errors.Join(errs...)
}

// LoadStars parses the star table: one system per line as
// "id name x y z sizeA security sizeB", whitespace separated.
// Malformed lines are skipped.
func LoadStars(r io.Reader, pal Palette) (map[int32]*galaxy.Star, LoadStats, error) {
	stars := make(map[int32]*galaxy.Star)
	var st LoadStats
	err := scanLines(r, func(line string) {
		st.Lines++
		s, err := ParseStar(line, pal)
		switch {
		case errors.Is(err, errExcluded):
			st.Excluded++
		case err != nil:
			st.Skipped++
		default:
			stars[s.ID] = s
		}
	})
	st.Loaded = len(stars)
	return stars, st, err
}

// ParseStar parses a single star table line.
func ParseStar(line string, pal Palette) (*galaxy.Star, error) {
	tokens := strings.Fields(line)
	if len(tokens) < 8 {
		return nil, errMalformed
	}
	id, err := strconv.ParseInt(tokens[0], 10, 32)
	if err != nil || id < 0 {
		return nil, errMalformed
	}
	var f [6]float64 // x y z sizeA security sizeB
	for i := range f {
		v, err := strconv.ParseFloat(tokens[i+2], 64)
		if err != nil {
			return nil, errMalformed
		}
		f[i] = v
	}

	loc := vmath.Vec3{
		X: f[0]/positionFactor + positionOffsetX,
		Y: f[1] / positionFactor,
		Z: f[2] / positionFactor,
	}
	if !inMapVolume(loc) {
		return nil, errExcluded
	}

	size := math.Pow(f[3]*f[5], sizeExponent) * sizeFactor
	if math.IsNaN(size) || math.IsInf(size, 0) || size <= 0 {
		return nil, errMalformed
	}
	security := f[4]
	return galaxy.NewStar(int32(id), loc, size, StarColor(security, pal), security), nil
}

func inMapVolume(loc vmath.Vec3) bool {
	return loc.X-loc.Z < wspaceCutoff
}

// StarColor interpolates the band color for a security status:
// below 0 along Null, [0, 0.5) along Low, 0.5 and above along High.
func StarColor(security float64, pal Palette) colorful.Color {
	switch {
	case security < 0:
		return blend(pal.Null, security+1)
	case security < 0.5:
		return blend(pal.Low, security*2)
	default:
		return blend(pal.High, (security-0.5)*2)
	}
}

func blend(p config.ColorPair, t float64) colorful.Color {
	t = min(max(t, 0), 1)
	return p[0].BlendRgb(p[1], t)
}

// LoadGates parses the gate table: "idA idB" per line. Each gate is added in
// both directions when both stars exist; other lines are dropped.
func LoadGates(r io.Reader, stars map[int32]*galaxy.Star) (*graph.Universe, LoadStats, error) {
	u := graph.NewUniverse()
	var st LoadStats
	err := scanLines(r, func(line string) {
		st.Lines++
		tokens := strings.Fields(line)
		if len(tokens) < 2 {
			st.Skipped++
			return
		}
		a, errA := strconv.ParseInt(tokens[0], 10, 32)
		b, errB := strconv.ParseInt(tokens[1], 10, 32)
		if errA != nil || errB != nil {
			st.Skipped++
			return
		}
		if stars[int32(a)] == nil || stars[int32(b)] == nil {
			st.Dropped++
			return
		}
		u.AddGate(int32(a), int32(b))
		st.Loaded++
	})
	return u, st, err
}

// scanLines calls fn for every non-blank line.
func scanLines(r io.Reader, fn func(line string)) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		fn(line)
	}
	return scanner.Err()
}

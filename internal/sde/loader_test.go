package sde

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/lucasb-eyer/go-colorful"

	"eve-render/internal/config"
	"eve-render/internal/vmath"
)

var testPalette = Palette{
	Null: config.ColorPair{{R: 1}, {R: 0.5}},
	Low:  config.ColorPair{{G: 1}, {G: 0.5}},
	High: config.ColorPair{{B: 1}, {R: 1, G: 1, B: 1}},
}

func TestStarColor(t *testing.T) {
	tests := []struct {
		name     string
		security float64
		want     colorful.Color
	}{
		{name: "null start", security: -1, want: colorful.Color{R: 1}},
		{name: "null mid", security: -0.5, want: colorful.Color{R: 0.75}},
		{name: "low start", security: 0, want: colorful.Color{G: 1}},
		{name: "low mid", security: 0.25, want: colorful.Color{G: 0.75}},
		{name: "high boundary", security: 0.5, want: colorful.Color{B: 1}},
		{name: "high end", security: 1, want: colorful.Color{R: 1, G: 1, B: 1}},
		{name: "below range clamps", security: -3, want: colorful.Color{R: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StarColor(tt.security, testPalette); got != tt.want {
				t.Fatalf("StarColor(%v) = %v, want %v", tt.security, got, tt.want)
			}
		})
	}
}

func TestInMapVolume_Boundary(t *testing.T) {
	tests := []struct {
		name string
		loc  vmath.Vec3
		want bool
	}{
		{name: "exactly five excluded", loc: vmath.Vec3{X: 5, Z: 0}, want: false},
		{name: "just below five kept", loc: vmath.Vec3{X: math.Nextafter(5, 0), Z: 0}, want: true},
		{name: "offset by z", loc: vmath.Vec3{X: 6, Z: 1}, want: false},
		{name: "negative z pushes out", loc: vmath.Vec3{X: 1, Z: -4}, want: false},
		{name: "origin", loc: vmath.Vec3{}, want: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := inMapVolume(tt.loc); got != tt.want {
				t.Fatalf("inMapVolume(%v) = %v, want %v", tt.loc, got, tt.want)
			}
		})
	}
}

func TestParseStar(t *testing.T) {
	// x = 2^60 -> 1 + offset; sizeA*sizeB = 256 -> 256^0.125 = 2.
	s, err := ParseStar("30000142 Jita 1152921504606846976 0 -1152921504606846976 16 0.5 16", testPalette)
	if err != nil {
		t.Fatalf("ParseStar: %v", err)
	}
	if s.ID != 30000142 {
		t.Errorf("ID = %d", s.ID)
	}
	x := 1.0
	want := vmath.Vec3{X: x + positionOffsetX, Y: 0, Z: -1}
	if s.Location != want {
		t.Errorf("Location = %v, want %v", s.Location, want)
	}
	if math.Abs(s.Size-2*sizeFactor) > 1e-15 {
		t.Errorf("Size = %v, want %v", s.Size, 2*sizeFactor)
	}
	if s.Color != testPalette.High[0] {
		t.Errorf("Color = %v, want high band at t=0", s.Color)
	}
	if s.Security != 0.5 {
		t.Errorf("Security = %v", s.Security)
	}
	if s.KillsPerHour() != 0 || s.JumpsPerHour() != 0 {
		t.Error("traffic not zero")
	}
}

func TestParseStar_Malformed(t *testing.T) {
	lines := []string{
		"",
		"1 name 0 0 0 1 0.5",             // too few fields
		"abc name 0 0 0 1 0.5 1",         // bad id
		"-5 name 0 0 0 1 0.5 1",          // negative id
		"1 name zero 0 0 1 0.5 1",        // bad x
		"1 name 0 0 0 1 secure 1",        // bad security
		"1 name 0 0 0 -1 0.5 1",          // negative size product
		"1 name 0 0 0 0 0.5 1",           // zero size
		"1 name 0 0 0 4 0.5 0",           // zero sizeB
		"99999999999 name 0 0 0 1 0.5 1", // id overflow
	}
	for _, line := range lines {
		if s, err := ParseStar(line, testPalette); err == nil {
			t.Errorf("ParseStar(%q) = %+v, want error", line, s)
		}
	}
}

func TestLoadStars(t *testing.T) {
	in := strings.Join([]string{
		"1 A 0 0 0 1 0.9 1",
		"2 B 0 0 0 1 -0.2 1",
		"3 C not-a-number 0 0 1 0.1 1",
		"",
		"4 W 11529215046068469760 0 0 1 -1 1", // x = 10, wormhole space
		"5 D 0 0 0 1 0.3 1",
	}, "\n")
	stars, st, err := LoadStars(strings.NewReader(in), testPalette)
	if err != nil {
		t.Fatalf("LoadStars: %v", err)
	}
	if len(stars) != 3 || st.Loaded != 3 {
		t.Fatalf("loaded %d stars (stats %+v), want 3", len(stars), st)
	}
	for _, id := range []int32{1, 2, 5} {
		if stars[id] == nil {
			t.Errorf("star %d missing", id)
		}
	}
	if st.Skipped != 1 || st.Excluded != 1 || st.Lines != 5 {
		t.Errorf("stats = %+v, want Lines=5 Skipped=1 Excluded=1", st)
	}
}

func TestLoadGates(t *testing.T) {
	stars, _, _ := LoadStars(strings.NewReader("1 A 0 0 0 1 1 1\n2 B 0 0 0 1 1 1\n3 C 0 0 0 1 1 1\n"), testPalette)
	in := "1 2\n2 3\n1 99\nx 2\n7\n"
	u, st, err := LoadGates(strings.NewReader(in), stars)
	if err != nil {
		t.Fatalf("LoadGates: %v", err)
	}
	if st.Loaded != 2 || st.Dropped != 1 || st.Skipped != 2 {
		t.Errorf("stats = %+v", st)
	}
	if d := u.Destinations(2); len(d) != 2 || d[0] != 1 || d[1] != 3 {
		t.Errorf("Destinations(2) = %v, want [1 3]", d)
	}
	if d := u.Destinations(1); len(d) != 1 || d[0] != 2 {
		t.Errorf("Destinations(1) = %v, want [2]", d)
	}
	if _, ok := u.Adj[99]; ok {
		t.Error("adjacency created for unknown star 99")
	}
}

func TestLoad_FromDir(t *testing.T) {
	old := os.Stdout
	_, w, _ := os.Pipe()
	os.Stdout = w
	defer func() { os.Stdout = old; w.Close() }()

	dir := t.TempDir()
	os.WriteFile(filepath.Join(dir, SystemsFile), []byte("1 A 0 0 0 1 1 1\n2 B 0 0 0 1 0 1\n"), 0644)
	os.WriteFile(filepath.Join(dir, GatesFile), []byte("1 2\n"), 0644)

	cat, err := Load(dir, testPalette)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cat.Len() != 2 {
		t.Fatalf("Len = %d, want 2", cat.Len())
	}
	if d := cat.Destinations(1); len(d) != 1 || d[0].ID != 2 {
		t.Errorf("Destinations(1) = %v", d)
	}
	if sec := cat.Gates().SystemSecurity[2]; sec != 0 {
		t.Errorf("security[2] = %v", sec)
	}
}

func TestLoad_MissingFilesGiveEmptyCatalog(t *testing.T) {
	old := os.Stdout
	_, w, _ := os.Pipe()
	os.Stdout = w
	defer func() { os.Stdout = old; w.Close() }()

	cat, err := Load(t.TempDir(), testPalette)
	if err == nil {
		t.Error("expected an error describing the missing files")
	}
	if cat == nil || cat.Len() != 0 {
		t.Fatalf("catalog = %v, want empty", cat)
	}
}

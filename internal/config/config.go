package config

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/lucasb-eyer/go-colorful"

	"eve-render/internal/logger"
)

const (
	DefaultJumpsURL  = "https://api.eveonline.com/map/Jumps.xml.aspx"
	DefaultKillsURL  = "https://api.eveonline.com/map/Kills.xml.aspx"
	DefaultUserAgent = "eve-render/1.0 (github.com)"
)

// ColorPair is the start and end color of one security band.
type ColorPair [2]colorful.Color

// Settings holds map colors, simulation speed and runtime options.
type Settings struct {
	NullColors ColorPair
	LowColors  ColorPair
	HighColors ColorPair
	LineColor  colorful.Color

	// Multipliers applied to the hourly jump/kill rates when spawning points.
	JumpSpeed float64
	KillSpeed float64

	// Exit on any input.
	Screensaver bool

	// Delay between traffic feed cycles. <= 0 runs a single cycle.
	FeedInterval time.Duration

	JumpsURL   string
	KillsURL   string
	UserAgent  string
	DataDir    string
	DBPath     string
	StatusAddr string
	TickRate   int // ticks per second
}

// Default returns Settings with sensible defaults.
func Default() *Settings {
	return &Settings{
		NullColors: ColorPair{
			{R: 0.6, G: 0.0, B: 0.0},
			{R: 0.9, G: 0.3, B: 0.1},
		},
		LowColors: ColorPair{
			{R: 0.9, G: 0.4, B: 0.1},
			{R: 0.9, G: 0.8, B: 0.2},
		},
		HighColors: ColorPair{
			{R: 0.3, G: 0.8, B: 0.4},
			{R: 0.2, G: 0.5, B: 1.0},
		},
		LineColor:    colorful.Color{R: 0.3, G: 0.4, B: 0.6},
		JumpSpeed:    1,
		KillSpeed:    1,
		FeedInterval: 5 * time.Minute,
		JumpsURL:     DefaultJumpsURL,
		KillsURL:     DefaultKillsURL,
		UserAgent:    DefaultUserAgent,
		DataDir:      "assets",
		DBPath:       "everender.db",
		StatusAddr:   "127.0.0.1:13371",
		TickRate:     60,
	}
}

// Load reads the config file at path on top of the defaults.
// A missing or unreadable file is logged and the defaults are returned.
func Load(path string) *Settings {
	s := Default()
	f, err := os.Open(path)
	if err != nil {
		logger.Warn("Config", fmt.Sprintf("Cannot read %s, using defaults: %v", path, err))
		return s
	}
	defer f.Close()

	skipped, err := Parse(f, s)
	if err != nil {
		logger.Warn("Config", fmt.Sprintf("Read %s: %v", path, err))
	}
	if skipped > 0 {
		logger.Warn("Config", fmt.Sprintf("Skipped %d malformed line(s) in %s", skipped, path))
	}
	return s
}

// Parse applies "key: value" lines from r to s. Text after "//" is a comment.
// Lines that do not parse are skipped and leave s unchanged; the number of
// skipped non-blank lines is returned.
func Parse(r io.Reader, s *Settings) (int, error) {
	skipped := 0
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		if i := strings.Index(line, "//"); i >= 0 {
			line = line[:i]
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			skipped++
			continue
		}
		if !apply(s, strings.ToLower(strings.TrimSpace(key)), strings.TrimSpace(value)) {
			skipped++
		}
	}
	return skipped, scanner.Err()
}

func apply(s *Settings, key, value string) bool {
	switch key {
	case "nullsec", "lowsec", "highsec":
		pair, ok := parseColorPair(value)
		if !ok {
			return false
		}
		switch key {
		case "nullsec":
			s.NullColors = pair
		case "lowsec":
			s.LowColors = pair
		default:
			s.HighColors = pair
		}
	case "lines":
		c, ok := ParseColor(value)
		if !ok {
			return false
		}
		s.LineColor = c
	case "jumpspeed":
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return false
		}
		s.JumpSpeed = v
	case "killspeed":
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return false
		}
		s.KillSpeed = v
	case "screensaver":
		s.Screensaver = ParseBool(value)
	case "feedinterval":
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return false
		}
		s.FeedInterval = time.Duration(v * float64(time.Second))
	default:
		return false
	}
	return true
}

// ParseBool understands true/yes/hija'/hislah and false/no/ghobe'.
// Anything else is false.
func ParseBool(in string) bool {
	switch strings.ToLower(strings.TrimSpace(in)) {
	case "true", "yes", "hija'", "hislah":
		return true
	case "false", "no", "ghobe'":
		return false
	}
	return false
}

// ParseColor parses "r,g,b" with float channels.
func ParseColor(in string) (colorful.Color, bool) {
	rgb := strings.Split(in, ",")
	if len(rgb) != 3 {
		return colorful.Color{}, false
	}
	var ch [3]float64
	for i, s := range rgb {
		v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return colorful.Color{}, false
		}
		ch[i] = v
	}
	return colorful.Color{R: ch[0], G: ch[1], B: ch[2]}, true
}

func parseColorPair(in string) (ColorPair, bool) {
	parts := strings.Split(in, ";")
	if len(parts) != 2 {
		return ColorPair{}, false
	}
	c1, ok1 := ParseColor(parts[0])
	c2, ok2 := ParseColor(parts[1])
	if !ok1 || !ok2 {
		return ColorPair{}, false
	}
	return ColorPair{c1, c2}, true
}

// ApplyEnv overrides runtime options from EVERENDER_* environment variables.
// Feed URLs live here rather than in the config file because "//" starts a comment there.
func ApplyEnv(s *Settings) {
	if v := os.Getenv("EVERENDER_JUMPS_URL"); v != "" {
		s.JumpsURL = v
	}
	if v := os.Getenv("EVERENDER_KILLS_URL"); v != "" {
		s.KillsURL = v
	}
	if v := os.Getenv("EVERENDER_USER_AGENT"); v != "" {
		s.UserAgent = v
	}
	if v := os.Getenv("EVERENDER_DATA_DIR"); v != "" {
		s.DataDir = v
	}
	if v := os.Getenv("EVERENDER_DB"); v != "" {
		s.DBPath = v
	}
	if v := os.Getenv("EVERENDER_STATUS_ADDR"); v != "" {
		s.StatusAddr = v
	}
	if v := os.Getenv("EVERENDER_FEED_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			s.FeedInterval = d
		} else {
			logger.Warn("Config", fmt.Sprintf("Ignoring EVERENDER_FEED_INTERVAL=%q: %v", v, err))
		}
	}
}

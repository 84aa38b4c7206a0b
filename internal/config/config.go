package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	appName   = "wavesink"
	envPrefix = "WAVESINK_"
)

// Sink backends.
const (
	BackendOto     = "oto"
	BackendSpeaker = "speaker"
	BackendNull    = "null"
)

// ErrInvalid is wrapped by every validation error.
var ErrInvalid = errors.New("invalid configuration")

type Config struct {
	MusicRoot     string `koanf:"music_root"`
	TargetDevice  string `koanf:"target_device"` // device the sink connects to
	LocalName     string `koanf:"local_name"`    // name announced to the sink
	Notifications bool   `koanf:"notifications"` // desktop "now playing" notifications
	MPRIS         *bool  `koanf:"mpris"`         // media key integration (default: true)

	Audio   AudioConfig   `koanf:"audio"`
	Sink    SinkConfig    `koanf:"sink"`
	Catalog CatalogConfig `koanf:"catalog"`
	Volume  VolumeConfig  `koanf:"volume"`
	Log     LogConfig     `koanf:"log"`
}

// AudioConfig holds the fixed PCM contract.
type AudioConfig struct {
	SampleRate  int `koanf:"sample_rate"`  // Hz (default: 44100)
	BufferBytes int `koanf:"buffer_bytes"` // decoded audio buffered ahead of the sink (default: 8192)
	FrameBytes  int `koanf:"frame_bytes"`  // bytes per pull of the null sink (default: 2560)
}

// SinkConfig selects the audio output.
type SinkConfig struct {
	Backend   string `koanf:"backend"`    // "oto", "speaker" or "null" (default: "oto")
	LatencyMS int    `koanf:"latency_ms"` // device buffer (default: 100)
}

// CatalogConfig controls track discovery.
type CatalogConfig struct {
	Extensions []string `koanf:"extensions"` // default: .mp3 .flac .wav .ogg .opus
	TagNames   bool     `koanf:"tag_names"`  // name tracks from tags when present
}

// VolumeConfig holds the sink volume policy on a 0..127 scale.
type VolumeConfig struct {
	Initial        int `koanf:"initial"`          // default: 70
	Step           int `koanf:"step"`             // default: 10
	Min            int `koanf:"min"`              // default: 40
	Max            int `koanf:"max"`              // default: 120
	FadeStep       int `koanf:"fade_step"`        // 0 disables fades
	FadeIntervalMS int `koanf:"fade_interval_ms"` // default: 50
}

// LogConfig configures the logger.
type LogConfig struct {
	Level string `koanf:"level"` // trace, debug, info, warn, error (default: info)
	File  string `koanf:"file"`  // empty logs to stderr
}

// Load reads the config files, a .env file and WAVESINK_* variables.
// explicit, when set, is loaded last and must exist.
func Load(explicit string) (*Config, error) {
	// A missing .env is the normal case
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	paths := getConfigPaths()
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return nil, err
		}
		paths = append(paths, explicit)
	}
	return load(paths, os.Environ())
}

func load(paths, environ []string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("defaults: %w", err)
	}

	// Try config files in order of priority (last wins)
	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
				return nil, fmt.Errorf("%s: %w", path, err)
			}
		}
	}

	err := k.Load(env.Provider(".", env.Opt{
		Prefix:        envPrefix,
		TransformFunc: envKey,
		EnvironFunc:   func() []string { return environ },
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("environment: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, err
	}

	cfg.Sink.Backend = strings.ToLower(cfg.Sink.Backend)
	cfg.MusicRoot = expandPath(cfg.MusicRoot)
	cfg.Log.File = expandPath(cfg.Log.File)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Default returns the configuration used when no file or variable is set.
func Default() *Config {
	cfg, err := load(nil, nil)
	if err != nil {
		panic(fmt.Sprintf("config: invalid defaults: %v", err))
	}
	return cfg
}

func getConfigPaths() []string {
	return []string{
		// 1. $XDG_CONFIG_HOME/wavesink/config.toml
		filepath.Join(xdg.ConfigHome, appName, "config.toml"),
		// 2. ./config.toml (pwd)
		"config.toml",
	}
}

// defaults is the lowest layer. Files and variables only override the keys
// they set, so an explicit zero is kept.
func defaults() map[string]any {
	return map[string]any{
		"music_root":              "~/Music",
		"target_device":           "default",
		"local_name":              appName,
		"audio.sample_rate":       44100,
		"audio.buffer_bytes":      8 * 1024,
		"audio.frame_bytes":       2560,
		"sink.backend":            BackendOto,
		"sink.latency_ms":         100,
		"catalog.extensions":      []string{".mp3", ".flac", ".wav", ".ogg", ".opus"},
		"volume.initial":          70,
		"volume.step":             10,
		"volume.min":              40,
		"volume.max":              120,
		"volume.fade_interval_ms": 50,
		"log.level":               "info",
	}
}

// envKey maps WAVESINK_MUSIC_ROOT to music_root and
// WAVESINK_AUDIO__SAMPLE_RATE to audio.sample_rate. Comma separated values
// become lists. Empty variables are ignored.
func envKey(name, value string) (string, any) {
	if value == "" {
		return "", nil
	}
	key := strings.ToLower(strings.TrimPrefix(name, envPrefix))
	key = strings.ReplaceAll(key, "__", ".")
	if strings.Contains(value, ",") {
		return key, splitList(value)
	}
	return key, value
}

func splitList(s string) []string {
	var out []string
	for part := range strings.SplitSeq(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Validate reports settings that cannot work.
func (c *Config) Validate() error {
	if !slices.Contains([]string{BackendOto, BackendSpeaker, BackendNull}, c.Sink.Backend) {
		return fmt.Errorf("%w: unknown sink backend %q", ErrInvalid, c.Sink.Backend)
	}
	if c.Audio.SampleRate <= 0 || c.Audio.FrameBytes <= 0 || c.Sink.LatencyMS <= 0 {
		return fmt.Errorf("%w: sample rate, frame size and latency must be positive", ErrInvalid)
	}
	if c.Audio.BufferBytes <= 0 || c.Audio.BufferBytes%4 != 0 {
		return fmt.Errorf("%w: audio.buffer_bytes must be a positive multiple of 4", ErrInvalid)
	}
	if c.Volume.Min < 0 || c.Volume.Min > c.Volume.Max || c.Volume.Max > 127 {
		return fmt.Errorf("%w: volume range %d..%d", ErrInvalid, c.Volume.Min, c.Volume.Max)
	}
	if c.Volume.Initial < 0 || c.Volume.Initial > 127 {
		return fmt.Errorf("%w: volume.initial %d outside 0..127", ErrInvalid, c.Volume.Initial)
	}
	if c.Volume.Step <= 0 || (c.Volume.FadeStep > 0 && c.Volume.FadeIntervalMS <= 0) {
		return fmt.Errorf("%w: volume step and fade interval must be positive", ErrInvalid)
	}
	return nil
}

// MPRISEnabled reports whether media key integration is on.
func (c *Config) MPRISEnabled() bool {
	return c.MPRIS == nil || *c.MPRIS
}

// Latency returns the sink buffer duration.
func (c SinkConfig) Latency() time.Duration {
	return time.Duration(c.LatencyMS) * time.Millisecond
}

// FadeInterval returns the fade tick duration.
func (c VolumeConfig) FadeInterval() time.Duration {
	return time.Duration(c.FadeIntervalMS) * time.Millisecond
}

// DefaultLogFile is where the console UI logs when no file is configured.
func DefaultLogFile() string {
	return filepath.Join(xdg.StateHome, appName, appName+".log")
}

func expandPath(path string) string {
	if path != "" && path[0] == '~' {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}

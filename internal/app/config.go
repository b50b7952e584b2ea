package app

import (
	"fmt"
	"net/http"
	"os"
	"os/user"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/go-ini/ini"
	"github.com/kardianos/osext"
)

// ConfigName is the file searched for when no --config is given.
const ConfigName = "dhlib.ini"

// EngineConfig is the [engine] section.
type EngineConfig struct {
	Bits        int    `ini:"bits"`
	Rounds      int    `ini:"rounds"`
	Workers     int    `ini:"workers"`
	MaxAttempts int    `ini:"max_attempts"`
	MinBits     int    `ini:"min_bits"`
	MaxBits     int    `ini:"max_bits"`
	StrictPeer  bool   `ini:"strict_peer"`
	Digest      string `ini:"digest"`
	Cache       bool   `ini:"cache"`
	// Seed, when set, replaces the system CSPRNG with a reproducible stream.
	// Only for benchmarks.
	Seed string `ini:"seed"`
}

// ExchangeConfig is the [exchange] section.
type ExchangeConfig struct {
	Listen       string        `ini:"listen"`
	Server       string        `ini:"server"`
	Group        int           `ini:"group"`
	Bits         int           `ini:"bits"`
	TTL          time.Duration `ini:"ttl"`
	MaxPending   int           `ini:"max_pending"`
	AllowedPeers []string      `ini:"allowed_peers" delim:","`
	Trust        bool          `ini:"trust"`
	Timeout      time.Duration `ini:"timeout"`
}

// LogConfig is the [log] section.
type LogConfig struct {
	Level    string `ini:"level"`
	File     string `ini:"file"`
	NoStdout bool   `ini:"no_stdout"`
}

// BenchConfig is the [bench] section.
type BenchConfig struct {
	From       int    `ini:"from"`
	To         int    `ini:"to"`
	Step       int    `ini:"step"`
	Iterations int    `ini:"iterations"`
	Workers    int    `ini:"workers"`
	Bits       int    `ini:"bits"`
	Threshold  uint64 `ini:"threshold"`
}

// Config holds runtime wiring options for building the app.
type Config struct {
	Path     string       // file the values came from; empty for defaults
	Home     string       // data directory, e.g. $HOME/.dhlib
	HTTP     *http.Client // optional; defaults to a client with Exchange.Timeout
	Engine   EngineConfig
	Exchange ExchangeConfig
	Log      LogConfig
	Bench    BenchConfig
}

// DefaultConfig returns the values used when no file is found.
func DefaultConfig() Config {
	return Config{
		Home: defaultHome(),
		Engine: EngineConfig{
			Bits:   2048,
			Digest: "sha256",
			Cache:  true,
		},
		Exchange: ExchangeConfig{
			Listen:     "127.0.0.1:8080",
			Server:     "http://127.0.0.1:8080",
			Bits:       2048,
			TTL:        time.Minute,
			MaxPending: 1024,
			Timeout:    2 * time.Minute,
		},
		Log: LogConfig{Level: "info"},
		Bench: BenchConfig{
			From:       512,
			To:         2048,
			Step:       100,
			Iterations: 10,
			Workers:    10,
			Bits:       1024,
			Threshold:  1 << 20,
		},
	}
}

// SearchPaths lists where LoadConfig looks for dhlib.ini when no file is
// named: the working directory, the executable's folder, the home directory
// and /etc/dhlib.
func SearchPaths() []string {
	paths := []string{ConfigName}
	if ef, err := osext.ExecutableFolder(); err == nil {
		paths = append(paths, filepath.Join(ef, ConfigName))
	}
	if home := userHome(); home != "" {
		paths = append(paths, filepath.Join(home, ConfigName))
	}
	if runtime.GOOS != "windows" {
		paths = append(paths, filepath.Join("/etc/dhlib", ConfigName))
	}
	return paths
}

// LoadConfig reads specified, or the first file found on SearchPaths, over
// DefaultConfig. A named file must exist; finding nothing on the search path
// yields the defaults.
func LoadConfig(specified string) (Config, error) {
	cfg := DefaultConfig()

	var file string
	if specified != "" {
		if _, err := os.Stat(specified); err != nil {
			return cfg, fmt.Errorf("config %s: %w", specified, err)
		}
		file = specified
	} else {
		for _, p := range SearchPaths() {
			if _, err := os.Stat(p); err == nil {
				file = p
				break
			}
		}
	}
	if file == "" {
		return cfg, nil
	}

	f, err := ini.Load(file)
	if err != nil {
		return cfg, fmt.Errorf("parse %s: %w", file, err)
	}
	cfg.Path = file
	cfg.Home = expandHome(f.Section("").Key("home").MustString(cfg.Home))

	sections := []struct {
		name string
		dst  any
	}{
		{"engine", &cfg.Engine},
		{"exchange", &cfg.Exchange},
		{"log", &cfg.Log},
		{"bench", &cfg.Bench},
	}
	for _, s := range sections {
		if !f.HasSection(s.name) {
			continue
		}
		if err := f.Section(s.name).StrictMapTo(s.dst); err != nil {
			return cfg, fmt.Errorf("section [%s] in %s: %w", s.name, file, err)
		}
	}
	return cfg, nil
}

func defaultHome() string {
	if home := userHome(); home != "" {
		return filepath.Join(home, ".dhlib")
	}
	return ".dhlib"
}

func userHome() string {
	if u, err := user.Current(); err == nil && u.HomeDir != "" {
		return u.HomeDir
	}
	return os.Getenv("HOME")
}

func expandHome(p string) string {
	if p == "~" || strings.HasPrefix(p, "~/") {
		return filepath.Join(userHome(), strings.TrimPrefix(p, "~"))
	}
	return p
}

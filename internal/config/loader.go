// Package config loads demo scenarios from YAML, JSON or TOML files.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	observer "github.com/kan1-u/event-observer"
)

// Scenario describes one demo run: how many subjects to build, which
// ownership kinds to register on each of them and how many events to send.
// Observers of the same kind are shared by every subject.
type Scenario struct {
	Name     string          `json:"name" yaml:"name" toml:"name"`
	Subjects int             `json:"subjects" yaml:"subjects" toml:"subjects"`
	Events   int             `json:"events" yaml:"events" toml:"events"`
	Wrappers []observer.Kind `json:"wrappers" yaml:"wrappers" toml:"wrappers"`

	// Concurrent drives each subject from its own goroutine.
	Concurrent bool `json:"concurrent" yaml:"concurrent" toml:"concurrent"`

	LogLevel     string `json:"log_level" yaml:"log_level" toml:"log_level"`
	RecordDir    string `json:"record_dir" yaml:"record_dir" toml:"record_dir"`
	RecordFormat string `json:"record_format" yaml:"record_format" toml:"record_format"`
}

var ErrInvalid = errors.New("invalid scenario")

// Defaults returns a scenario exercising every goroutine-safe kind.
func Defaults() Scenario {
	return Scenario{
		Name:     "demo",
		Subjects: 2,
		Events:   100,
		Wrappers: []observer.Kind{
			observer.KindBox,
			observer.KindArc,
			observer.KindArcMutex,
			observer.KindArcMutexMut,
			observer.KindArcRWMutex,
			observer.KindArcRWMutexMut,
		},
		Concurrent:   true,
		LogLevel:     "info",
		RecordFormat: "yaml",
	}
}

// Load reads a scenario file based on its extension, on top of Defaults.
// Supports: .yaml/.yml, .json, .toml
func Load(path string) (Scenario, error) {
	cfg := Defaults()
	if path == "" {
		return cfg, fmt.Errorf("empty config path")
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(b, &cfg)
	case ".json":
		err = json.Unmarshal(b, &cfg)
	case ".toml":
		err = toml.Unmarshal(b, &cfg)
	default:
		return cfg, fmt.Errorf("unsupported config extension: %s", ext)
	}
	if err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

// Validate rejects scenarios the demo cannot run safely.
func (s Scenario) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalid)
	}
	if s.Subjects < 1 {
		return fmt.Errorf("%w: subjects must be at least 1, got %d", ErrInvalid, s.Subjects)
	}
	if s.Events < 0 {
		return fmt.Errorf("%w: negative events %d", ErrInvalid, s.Events)
	}
	if len(s.Wrappers) == 0 {
		return fmt.Errorf("%w: no wrappers", ErrInvalid)
	}
	seen := make(map[observer.Kind]bool, len(s.Wrappers))
	for _, k := range s.Wrappers {
		if seen[k] {
			return fmt.Errorf("%w: wrapper %s listed more than once", ErrInvalid, k)
		}
		seen[k] = true
	}
	if s.Concurrent && s.Subjects > 1 {
		for _, k := range s.Wrappers {
			if k != observer.KindBox && !k.Concurrent() {
				return fmt.Errorf("%w: %s observers are confined to one goroutine; set concurrent to false", ErrInvalid, k)
			}
		}
	}
	switch strings.ToLower(s.RecordFormat) {
	case "", "yaml", "yml", "json":
	default:
		return fmt.Errorf("%w: unsupported record format %q", ErrInvalid, s.RecordFormat)
	}
	return nil
}

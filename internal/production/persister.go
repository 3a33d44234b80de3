package production

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Recording is a named, persisted list of recorded events.
type Recording[E any] struct {
	Name    string      `json:"name" yaml:"name"`
	Saved   time.Time   `json:"saved" yaml:"saved"`
	Records []Record[E] `json:"records" yaml:"records"`
}

// Persister stores recordings by name.
type Persister[E any] interface {
	Save(ctx context.Context, rec Recording[E]) error
	Load(ctx context.Context, name string) (Recording[E], error)
}

var ErrInvalidName = errors.New("invalid recording name")

// NewPersister returns the persister for format ("json" or "yaml") rooted at dir.
func NewPersister[E any](format, dir string) (Persister[E], error) {
	switch strings.ToLower(format) {
	case "json":
		p, err := NewJSONPersister[E](dir)
		if err != nil {
			return nil, err
		}
		return p, nil
	case "yaml", "yml", "":
		p, err := NewYAMLPersister[E](dir)
		if err != nil {
			return nil, err
		}
		return p, nil
	default:
		return nil, fmt.Errorf("unsupported record format: %s", format)
	}
}

// JSONPersister is a file-based persister using JSON serialization.
type JSONPersister[E any] struct {
	dir string
}

// NewJSONPersister creates a JSONPersister, ensuring the directory exists.
func NewJSONPersister[E any](dir string) (*JSONPersister[E], error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("mkdir %s: %w", dir, err)
	}
	return &JSONPersister[E]{dir: dir}, nil
}

// Path returns the file a recording named name is stored in.
func (p *JSONPersister[E]) Path(name string) string {
	return filepath.Join(p.dir, name+".json")
}

func (p *JSONPersister[E]) Save(ctx context.Context, rec Recording[E]) error {
	if err := checkName(rec.Name); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("json marshal: %w", err)
	}
	return writeFile(p.Path(rec.Name), data)
}

func (p *JSONPersister[E]) Load(ctx context.Context, name string) (Recording[E], error) {
	var rec Recording[E]
	data, err := readFile(ctx, name, p.Path(name))
	if err != nil {
		return rec, err
	}
	if err := json.Unmarshal(data, &rec); err != nil {
		return Recording[E]{}, fmt.Errorf("json unmarshal: %w", err)
	}
	rec.Name = name
	return rec, nil
}

// YAMLPersister is a file-based persister using YAML serialization.
type YAMLPersister[E any] struct {
	dir string
}

// NewYAMLPersister creates a YAMLPersister, ensuring the directory exists.
func NewYAMLPersister[E any](dir string) (*YAMLPersister[E], error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("mkdir %s: %w", dir, err)
	}
	return &YAMLPersister[E]{dir: dir}, nil
}

// Path returns the file a recording named name is stored in.
func (p *YAMLPersister[E]) Path(name string) string {
	return filepath.Join(p.dir, name+".yaml")
}

func (p *YAMLPersister[E]) Save(ctx context.Context, rec Recording[E]) error {
	if err := checkName(rec.Name); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := yaml.Marshal(rec)
	if err != nil {
		return fmt.Errorf("yaml marshal: %w", err)
	}
	return writeFile(p.Path(rec.Name), data)
}

func (p *YAMLPersister[E]) Load(ctx context.Context, name string) (Recording[E], error) {
	var rec Recording[E]
	data, err := readFile(ctx, name, p.Path(name))
	if err != nil {
		return rec, err
	}
	if err := yaml.Unmarshal(data, &rec); err != nil {
		return Recording[E]{}, fmt.Errorf("yaml unmarshal: %w", err)
	}
	rec.Name = name
	return rec, nil
}

func checkName(name string) error {
	if name == "" || name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}

func writeFile(fn string, data []byte) error {
	if err := os.WriteFile(fn, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", fn, err)
	}
	return nil
}

func readFile(ctx context.Context, name, fn string) ([]byte, error) {
	if err := checkName(name); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(fn)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("recording %q: %w", name, os.ErrNotExist)
		}
		return nil, fmt.Errorf("read %s: %w", fn, err)
	}
	return data, nil
}

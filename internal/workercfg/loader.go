package workercfg

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Loader reads worker definitions. Relative paths resolve against the
// loader's base directory, so resolution state stays scoped to the loader
// instead of leaking into process globals.
type Loader struct {
	baseDir string
}

type LoaderOption func(*Loader)

// WithBaseDir sets the directory relative definition paths resolve against.
// Defaults to the process working directory.
func WithBaseDir(dir string) LoaderOption {
	return func(l *Loader) {
		l.baseDir = dir
	}
}

func NewLoader(opts ...LoaderOption) *Loader {
	l := &Loader{}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Resolve returns the absolute path of a definition file.
func (l *Loader) Resolve(path string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	if l.baseDir != "" {
		return filepath.Join(l.baseDir, path)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return filepath.Clean(path)
	}
	return abs
}

// Load reads the definition at path and returns the raw value of its
// top-level "config" key, exactly as declared. The result is whatever the
// document encodes; callers relaying it must not assume a mapping.
func (l *Loader) Load(path string) (any, error) {
	resolved := l.Resolve(path)
	data, err := os.ReadFile(resolved)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}

	doc := map[string]any{}
	if err := l.decode(resolved, data, &doc); err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}

	value, ok := doc["config"]
	if !ok {
		return nil, &MissingConfigError{Path: path}
	}
	return value, nil
}

// LoadDescriptor reads the definition at path into the typed descriptor.
// Unknown config keys are dropped; use Load for byte-faithful relaying.
func (l *Loader) LoadDescriptor(path string) (*Descriptor, error) {
	resolved := l.Resolve(path)
	data, err := os.ReadFile(resolved)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}

	doc := struct {
		Config *Descriptor `json:"config" yaml:"config"`
	}{}
	if err := l.decode(resolved, data, &doc); err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	if doc.Config == nil {
		return nil, &MissingConfigError{Path: path}
	}
	return doc.Config, nil
}

func (l *Loader) decode(path string, data []byte, out any) error {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		return yaml.Unmarshal(data, out)
	case ".json":
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		return dec.Decode(out)
	default:
		return fmt.Errorf("unsupported definition format %q", ext)
	}
}

// StripMiddleware removes the top-level "middleware" entry from a keyed
// config. The entry holds in-process runtime hooks and must never reach the
// wire. Non-mapping configs pass through untouched.
func StripMiddleware(config any) any {
	mapping, ok := config.(map[string]any)
	if !ok {
		return config
	}
	delete(mapping, "middleware")
	return mapping
}

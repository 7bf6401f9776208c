package sources

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

// Supported source types.
const (
	TypeText    = "text"
	TypeURL     = "url"
	TypeSitemap = "sitemap"
)

var defaultRequestDelayMs = 500

// Source describes where articles to analyze come from.
type Source struct {
	ID             string         `json:"id" yaml:"id"`
	Name           string         `json:"name" yaml:"name"`
	Type           string         `json:"type" yaml:"type"`
	URL            string         `json:"url" yaml:"url"`
	Text           string         `json:"text" yaml:"text"`
	RequestDelayMs int            `json:"request_delay_ms" yaml:"request_delay_ms"`
	Config         map[string]any `json:"config" yaml:"config"`
}

type configFile struct {
	Sources []Source `json:"sources" yaml:"sources"`
}

// Registry holds the sources loaded from a config file.
type Registry struct {
	mu      sync.RWMutex
	sources []Source
	idx     map[string]Source
}

// LoadRegistry loads the source registry from a YAML/JSON file.
func LoadRegistry(path string) (*Registry, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("sources file path is empty")
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open sources file: %w", err)
	}
	defer file.Close()

	raw, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("read sources file: %w", err)
	}

	cf, err := parseConfigFile(raw, filepath.Ext(path))
	if err != nil {
		return nil, err
	}
	return NewRegistry(cf.Sources)
}

// NewRegistry validates srcs and indexes them by id.
func NewRegistry(srcs []Source) (*Registry, error) {
	if len(srcs) == 0 {
		return nil, errors.New("sources file contains no sources entries")
	}

	reg := &Registry{
		sources: make([]Source, len(srcs)),
		idx:     make(map[string]Source, len(srcs)),
	}
	for i := range srcs {
		s := sanitizeSource(srcs[i])
		if err := validateSource(s); err != nil {
			return nil, fmt.Errorf("sources[%d]: %w", i, err)
		}
		if _, exists := reg.idx[s.ID]; exists {
			return nil, fmt.Errorf("duplicate source id %q", s.ID)
		}
		reg.sources[i] = s
		reg.idx[s.ID] = s
	}
	return reg, nil
}

func parseConfigFile(data []byte, ext string) (configFile, error) {
	ext = strings.ToLower(strings.TrimSpace(ext))

	decoders := []struct {
		name string
		ext  string
		fn   unmarshalFn
	}{
		{name: "yaml", ext: ".yaml", fn: yaml.Unmarshal},
		{name: "yaml", ext: ".yml", fn: yaml.Unmarshal},
		{name: "json", ext: ".json", fn: json.Unmarshal},
	}

	for _, d := range decoders {
		if ext != "" && ext != d.ext {
			continue
		}
		if cf, err := unmarshalConfigFile(d.name, data, d.fn); err == nil {
			return cf, nil
		}
	}

	return configFile{}, errors.New("sources file format not recognized (expected YAML or JSON)")
}

type unmarshalFn func([]byte, any) error

func unmarshalConfigFile(name string, data []byte, fn unmarshalFn) (configFile, error) {
	var cf configFile
	if err := fn(data, &cf); err != nil {
		return configFile{}, fmt.Errorf("decode %s sources: %w", name, err)
	}
	return cf, nil
}

func sanitizeSource(s Source) Source {
	s.ID = strings.TrimSpace(s.ID)
	s.Name = strings.TrimSpace(s.Name)
	s.Type = strings.ToLower(strings.TrimSpace(s.Type))
	s.URL = strings.TrimSpace(s.URL)

	if s.Name == "" {
		s.Name = s.ID
	}
	if s.Config == nil {
		s.Config = map[string]any{}
	}
	if s.RequestDelayMs <= 0 {
		s.RequestDelayMs = defaultRequestDelayMs
	}
	return s
}

func validateSource(s Source) error {
	if s.ID == "" {
		return errors.New("id is required")
	}
	switch s.Type {
	case TypeText:
		if strings.TrimSpace(s.Text) == "" {
			return fmt.Errorf("text is required for source %q", s.ID)
		}
	case TypeURL, TypeSitemap:
		if s.URL == "" {
			return fmt.Errorf("url is required for source %q", s.ID)
		}
	case "":
		return fmt.Errorf("type is required for source %q", s.ID)
	default:
		return fmt.Errorf("unsupported type %q for source %q", s.Type, s.ID)
	}
	return nil
}

// ByID returns the source with the given id.
func (r *Registry) ByID(id string) (Source, bool) {
	if r == nil {
		return Source{}, false
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return Source{}, false
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.idx[id]
	return s, ok
}

// All returns a copy of every configured source.
func (r *Registry) All() []Source {
	if r == nil {
		return nil
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Source, len(r.sources))
	copy(out, r.sources)
	return out
}

// RequestDelay returns the per-request throttle duration for the source.
func (s Source) RequestDelay() time.Duration {
	if s.RequestDelayMs <= 0 {
		return time.Duration(defaultRequestDelayMs) * time.Millisecond
	}
	return time.Duration(s.RequestDelayMs) * time.Millisecond
}

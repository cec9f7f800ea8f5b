// Package feeds holds the named feed definitions the reader can target.
package feeds

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

const (
	DefaultFeedID = "nyt"

	nytWorldURL = "https://rss.nytimes.com/services/xml/rss/nyt/World.xml"
	apTopURL    = "https://feeds.apnews.com/rss/apf-topnews"
)

// Feed describes one RSS endpoint.
type Feed struct {
	ID     string         `json:"id" yaml:"id"`
	Name   string         `json:"name" yaml:"name"`
	URL    string         `json:"url" yaml:"url"`
	Config map[string]any `json:"config" yaml:"config"`
}

type fileRegistry struct {
	Feeds []Feed `json:"feeds" yaml:"feeds"`
}

// Registry indexes feeds by id.
type Registry struct {
	mu  sync.RWMutex
	idx map[string]Feed
}

// Builtin returns the feeds that ship with the binary.
func Builtin() []Feed {
	return []Feed{
		{ID: "ap", Name: "Associated Press", URL: apTopURL, Config: map[string]any{}},
		{ID: "nyt", Name: "New York Times", URL: nytWorldURL, Config: map[string]any{}},
	}
}

// NewRegistry builds a registry from the given feeds; later entries override earlier ones.
func NewRegistry(feeds ...Feed) *Registry {
	r := &Registry{idx: make(map[string]Feed, len(feeds))}
	for _, f := range feeds {
		f = sanitizeFeed(f)
		if f.ID == "" {
			continue
		}
		r.idx[f.ID] = f
	}
	return r
}

// LoadRegistry returns the built-in feeds merged with the entries of path.
// An empty path yields the built-ins only.
func LoadRegistry(path string) (*Registry, error) {
	reg := NewRegistry(Builtin()...)

	path = strings.TrimSpace(path)
	if path == "" {
		return reg, nil
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open feeds file: %w", err)
	}
	defer file.Close()

	raw, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("read feeds file: %w", err)
	}

	parsed, err := parseRegistry(raw, filepath.Ext(path))
	if err != nil {
		return nil, err
	}
	if len(parsed.Feeds) == 0 {
		return nil, errors.New("feeds file contains no feeds entries")
	}

	seen := make(map[string]struct{}, len(parsed.Feeds))
	for i := range parsed.Feeds {
		f := sanitizeFeed(parsed.Feeds[i])
		if err := validateFeed(f); err != nil {
			return nil, fmt.Errorf("feed[%d]: %w", i, err)
		}
		if _, exists := seen[f.ID]; exists {
			return nil, fmt.Errorf("duplicate feed id %q", f.ID)
		}
		seen[f.ID] = struct{}{}
		reg.idx[f.ID] = f
	}

	return reg, nil
}

// ByID returns the feed registered under id (case-insensitive).
func (r *Registry) ByID(id string) (Feed, bool) {
	if r == nil {
		return Feed{}, false
	}
	id = strings.ToLower(strings.TrimSpace(id))
	if id == "" {
		return Feed{}, false
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.idx[id]
	return f, ok
}

// All returns every feed ordered by id.
func (r *Registry) All() []Feed {
	if r == nil {
		return nil
	}

	r.mu.RLock()
	out := make([]Feed, 0, len(r.idx))
	for _, f := range r.idx {
		out = append(out, f)
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

type unmarshalFn func([]byte, any) error

func parseRegistry(data []byte, ext string) (fileRegistry, error) {
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
		var reg fileRegistry
		if err := d.fn(data, &reg); err == nil {
			return reg, nil
		}
	}

	return fileRegistry{}, errors.New("feeds file format not recognized (expected YAML or JSON)")
}

func sanitizeFeed(f Feed) Feed {
	f.ID = strings.ToLower(strings.TrimSpace(f.ID))
	f.Name = strings.TrimSpace(f.Name)
	f.URL = strings.TrimSpace(f.URL)
	if f.Config == nil {
		f.Config = map[string]any{}
	}
	return f
}

func validateFeed(f Feed) error {
	if f.ID == "" {
		return errors.New("id is required")
	}
	if f.Name == "" {
		return fmt.Errorf("name is required for feed %q", f.ID)
	}
	if f.URL == "" {
		return fmt.Errorf("url is required for feed %q", f.ID)
	}
	return nil
}

// Feed config keys that become request headers.
const (
	ConfigUserAgentKey      = "user_agent"
	ConfigAcceptKey         = "accept"
	ConfigAcceptLanguageKey = "accept_language"
	ConfigCacheControlKey   = "cache_control"
)

var headerKeys = []struct {
	key    string
	header string
}{
	{ConfigUserAgentKey, "User-Agent"},
	{ConfigAcceptKey, "Accept"},
	{ConfigAcceptLanguageKey, "Accept-Language"},
	{ConfigCacheControlKey, "Cache-Control"},
}

// Headers builds the request headers for a feed download, skipping empty or non-string values.
func Headers(f Feed) map[string]string {
	headers := make(map[string]string, len(headerKeys))
	for _, hk := range headerKeys {
		if v := configString(f, hk.key); v != "" {
			headers[hk.header] = v
		}
	}
	return headers
}

func configString(f Feed, key string) string {
	raw, ok := f.Config[key]
	if !ok {
		return ""
	}
	val, ok := raw.(string)
	if !ok {
		return ""
	}
	return strings.TrimSpace(val)
}

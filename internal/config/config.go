// Package config loads segdiff configuration from layered sources. From lowest to highest precedence:
//   - built-in defaults
//   - the user file ~/.segdiff/config.json
//   - the nearest .segdiff/config.json found walking up from the working directory
//   - environment variables
//
// Keys are lowercase and dot-separated for nesting (ex: "explain.model"). Files are JSON objects; unknown keys are ignored, and a known key with the wrong JSON type is an
// error naming the file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/codalotl/segdiff/internal/segment"
)

// Dir and File name the config file relative to a home or project directory.
const (
	Dir  = ".segdiff"
	File = "config.json"
)

// Config is the effective configuration.
type Config struct {
	ContextSize int     `json:"contextsize"` // Rows of context around differences in diffs-only views.
	MaxSegments int     `json:"maxsegments"` // Documents with more segments are refused.
	Color       string  `json:"color"`       // "auto", "always", or "never".
	Pins        Pins    `json:"pins"`
	Explain     Explain `json:"explain"`

	// Origins maps each key to the source that last set it: "default", a file path, or "env:NAME".
	Origins map[string]string `json:"-"`
}

// Pins overrides the default pinned segment ids per dialect. A nil list means the dialect's defaults.
type Pins struct {
	X12     []string `json:"x12"`
	EDIFACT []string `json:"edifact"`
}

type Explain struct {
	Model           string `json:"model"`
	BaseURL         string `json:"baseurl"`
	APIKey          string `json:"apikey"`
	MaxPromptTokens int    `json:"maxprompttokens"`
	CacheSize       int    `json:"cachesize"`
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		ContextSize: 2,
		MaxSegments: 200000,
		Color:       "auto",
		Explain: Explain{
			Model:           "gpt-4.1-mini",
			MaxPromptTokens: 2000,
			CacheSize:       128,
		},
	}
}

// PinsFor returns the pinned ids for dialect d: the configured list if any, otherwise segment.DefaultPinnedIDs(d). For DialectUnknown, the configured lists of both
// dialects are combined.
func (c Config) PinsFor(d segment.Dialect) []string {
	switch d {
	case segment.DialectX12:
		if c.Pins.X12 != nil {
			return append([]string(nil), c.Pins.X12...)
		}
	case segment.DialectEDIFACT:
		if c.Pins.EDIFACT != nil {
			return append([]string(nil), c.Pins.EDIFACT...)
		}
	default:
		if c.Pins.X12 != nil || c.Pins.EDIFACT != nil {
			return append(c.PinsFor(segment.DialectX12), c.PinsFor(segment.DialectEDIFACT)...)
		}
	}
	return segment.DefaultPinnedIDs(d)
}

// Validate checks value ranges.
func (c Config) Validate() error {
	var problems []string
	if c.ContextSize < 0 {
		problems = append(problems, fmt.Sprintf("contextsize must be >= 0 (got %d)", c.ContextSize))
	}
	if c.MaxSegments <= 0 {
		problems = append(problems, fmt.Sprintf("maxsegments must be > 0 (got %d)", c.MaxSegments))
	}
	switch c.Color {
	case "auto", "always", "never":
	default:
		problems = append(problems, fmt.Sprintf("color must be auto, always, or never (got %q)", c.Color))
	}
	if c.Explain.MaxPromptTokens < 0 {
		problems = append(problems, fmt.Sprintf("explain.maxprompttokens must be >= 0 (got %d)", c.Explain.MaxPromptTokens))
	}
	if c.Explain.CacheSize < 1 {
		problems = append(problems, fmt.Sprintf("explain.cachesize must be >= 1 (got %d)", c.Explain.CacheSize))
	}
	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}

// Redacted returns a copy of c that is safe to print.
func (c Config) Redacted() Config {
	if c.Explain.APIKey != "" {
		c.Explain.APIKey = "********"
	}
	return c
}

// Loader locates and reads the configuration sources. The zero value uses the process environment.
type Loader struct {
	Home    string              // User home directory. If empty, os.UserHomeDir is used.
	WorkDir string              // Where the project file search starts. If empty, os.Getwd is used.
	Getenv  func(string) string // If nil, os.Getenv is used.
}

func (l Loader) getenv(name string) string {
	if l.Getenv != nil {
		return l.Getenv(name)
	}
	return os.Getenv(name)
}

func (l Loader) home() string {
	if l.Home != "" {
		return l.Home
	}
	h, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return h
}

func (l Loader) workDir() string {
	if l.WorkDir != "" {
		return l.WorkDir
	}
	wd, err := os.Getwd()
	if err != nil {
		return "."
	}
	return wd
}

// UserPath is the path of the user config file, or "" if there is no home directory.
func (l Loader) UserPath() string {
	h := l.home()
	if h == "" {
		return ""
	}
	return filepath.Join(h, Dir, File)
}

// ProjectPath returns the nearest existing project config file walking up from the working directory. If there is none, it returns where one would be created in
// the working directory itself. The user file is never treated as a project file.
func (l Loader) ProjectPath() string {
	start, err := filepath.Abs(l.workDir())
	if err != nil {
		start = l.workDir()
	}
	user := l.UserPath()
	for dir := start; ; {
		p := filepath.Join(dir, Dir, File)
		if p != user {
			if fi, err := os.Stat(p); err == nil && fi.Mode().IsRegular() {
				return p
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return filepath.Join(start, Dir, File)
}

// Load applies every source in precedence order and validates the result.
func (l Loader) Load() (Config, error) {
	cfg := Defaults()
	cfg.Origins = make(map[string]string, len(keys))
	for _, k := range keys {
		cfg.Origins[k.name] = "default"
	}

	var files []string
	if p := l.UserPath(); p != "" {
		files = append(files, p)
	}
	if p := l.ProjectPath(); p != "" && (len(files) == 0 || p != files[0]) {
		files = append(files, p)
	}
	for _, path := range files {
		if err := applyFile(&cfg, path); err != nil {
			return Config{}, err
		}
	}
	if err := applyEnv(&cfg, l.getenv); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if strings.TrimSpace(string(data)) == "" {
		return nil
	}
	if !gjson.ValidBytes(data) {
		return fmt.Errorf("config %s: invalid JSON", path)
	}
	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return fmt.Errorf("config %s: top level must be an object", path)
	}
	for _, k := range keys {
		v := root.Get(k.name)
		if !v.Exists() || v.Type == gjson.Null {
			continue
		}
		if err := k.apply(cfg, v); err != nil {
			return fmt.Errorf("config %s: %s: %w", path, k.name, err)
		}
		cfg.Origins[k.name] = path
	}
	return nil
}

func applyEnv(cfg *Config, getenv func(string) string) error {
	for _, k := range keys {
		if k.env == "" {
			continue
		}
		raw := strings.TrimSpace(getenv(k.env))
		if raw == "" {
			continue
		}
		v, err := k.kind.fromString(raw)
		if err != nil {
			return fmt.Errorf("environment %s: %w", k.env, err)
		}
		if err := k.apply(cfg, v); err != nil {
			return fmt.Errorf("environment %s: %w", k.env, err)
		}
		cfg.Origins[k.name] = "env:" + k.env
	}
	return nil
}

// kind is the JSON type of a key's value.
type kind int

const (
	kindInt kind = iota
	kindString
	kindStrings
)

func (k kind) String() string {
	switch k {
	case kindInt:
		return "integer"
	case kindString:
		return "string"
	default:
		return "array of strings"
	}
}

// check reports an error unless v has type k.
func (k kind) check(v gjson.Result) error {
	ok := false
	switch k {
	case kindInt:
		ok = v.Type == gjson.Number && v.Num == float64(int64(v.Num))
	case kindString:
		ok = v.Type == gjson.String
	case kindStrings:
		ok = v.IsArray()
		for _, e := range v.Array() {
			ok = ok && e.Type == gjson.String
		}
	}
	if !ok {
		return fmt.Errorf("expected %s, got %s", k, v.Raw)
	}
	return nil
}

// fromString converts a command-line or environment value to a JSON value of kind k. String lists are comma-separated.
func (k kind) fromString(s string) (gjson.Result, error) {
	switch k {
	case kindInt:
		n, err := strconv.Atoi(s)
		if err != nil {
			return gjson.Result{}, fmt.Errorf("expected integer, got %q", s)
		}
		return gjson.Result{Type: gjson.Number, Num: float64(n), Raw: strconv.Itoa(n)}, nil
	case kindString:
		return gjson.Result{Type: gjson.String, Str: s, Raw: strconv.Quote(s)}, nil
	default:
		var quoted []string
		for _, part := range strings.Split(s, ",") {
			if part = strings.TrimSpace(part); part != "" {
				quoted = append(quoted, strconv.Quote(part))
			}
		}
		return gjson.Parse("[" + strings.Join(quoted, ",") + "]"), nil
	}
}

// key describes one configuration key.
type key struct {
	name string
	kind kind
	env  string // Environment variable that sets it, if any.
	set  func(c *Config, v gjson.Result)
}

func (k key) apply(c *Config, v gjson.Result) error {
	if err := k.kind.check(v); err != nil {
		return err
	}
	k.set(c, v)
	return nil
}

func strs(v gjson.Result) []string {
	out := []string{}
	for _, e := range v.Array() {
		out = append(out, e.String())
	}
	return out
}

var keys = []key{
	{name: "contextsize", kind: kindInt, env: "SEGDIFF_CONTEXT_SIZE", set: func(c *Config, v gjson.Result) { c.ContextSize = int(v.Int()) }},
	{name: "maxsegments", kind: kindInt, env: "SEGDIFF_MAX_SEGMENTS", set: func(c *Config, v gjson.Result) { c.MaxSegments = int(v.Int()) }},
	{name: "color", kind: kindString, env: "SEGDIFF_COLOR", set: func(c *Config, v gjson.Result) { c.Color = strings.ToLower(v.String()) }},
	{name: "pins.x12", kind: kindStrings, set: func(c *Config, v gjson.Result) { c.Pins.X12 = strs(v) }},
	{name: "pins.edifact", kind: kindStrings, set: func(c *Config, v gjson.Result) { c.Pins.EDIFACT = strs(v) }},
	{name: "explain.model", kind: kindString, env: "SEGDIFF_EXPLAIN_MODEL", set: func(c *Config, v gjson.Result) { c.Explain.Model = v.String() }},
	{name: "explain.baseurl", kind: kindString, env: "OPENAI_BASE_URL", set: func(c *Config, v gjson.Result) { c.Explain.BaseURL = v.String() }},
	{name: "explain.apikey", kind: kindString, env: "OPENAI_API_KEY", set: func(c *Config, v gjson.Result) { c.Explain.APIKey = v.String() }},
	{name: "explain.maxprompttokens", kind: kindInt, set: func(c *Config, v gjson.Result) { c.Explain.MaxPromptTokens = int(v.Int()) }},
	{name: "explain.cachesize", kind: kindInt, set: func(c *Config, v gjson.Result) { c.Explain.CacheSize = int(v.Int()) }},
}

// Keys lists every configuration key.
func Keys() []string {
	names := make([]string, len(keys))
	for i, k := range keys {
		names[i] = k.name
	}
	return names
}

func lookupKey(name string) (key, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, k := range keys {
		if k.name == name {
			return k, true
		}
	}
	return key{}, false
}

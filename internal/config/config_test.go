package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/codalotl/segdiff/internal/segment"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

// testLoader isolates a loader from the real home directory and environment.
func testLoader(t *testing.T, env map[string]string) (Loader, string, string) {
	t.Helper()
	root := t.TempDir()
	home := filepath.Join(root, "home")
	work := filepath.Join(root, "proj", "sub", "dir")
	require.NoError(t, os.MkdirAll(home, 0o755))
	require.NoError(t, os.MkdirAll(work, 0o755))
	l := Loader{Home: home, WorkDir: work, Getenv: func(k string) string { return env[k] }}
	return l, home, filepath.Join(root, "proj")
}

func TestLoad_Defaults(t *testing.T) {
	l, _, _ := testLoader(t, nil)
	cfg, err := l.Load()
	require.NoError(t, err)

	want := Defaults()
	cfg.Origins = nil
	assert.Equal(t, want, cfg)
	assert.Equal(t, 2, cfg.ContextSize)
	assert.Equal(t, "gpt-4.1-mini", cfg.Explain.Model)
}

func TestLoad_Precedence(t *testing.T) {
	l, home, proj := testLoader(t, map[string]string{"SEGDIFF_COLOR": "Never"})
	userFile := filepath.Join(home, Dir, File)
	projFile := filepath.Join(proj, Dir, File)
	writeFile(t, userFile, `{"contextsize": 4, "maxsegments": 10, "explain": {"model": "user-model"}}`)
	writeFile(t, projFile, `{"contextsize": 1, "pins": {"x12": ["ISA", "ST"]}, "unknown": true}`)

	assert.Equal(t, projFile, l.ProjectPath())

	cfg, err := l.Load()
	require.NoError(t, err)
	assert.Equal(t, 1, cfg.ContextSize)
	assert.Equal(t, 10, cfg.MaxSegments)
	assert.Equal(t, "never", cfg.Color)
	assert.Equal(t, "user-model", cfg.Explain.Model)
	assert.Equal(t, []string{"ISA", "ST"}, cfg.Pins.X12)
	assert.Nil(t, cfg.Pins.EDIFACT)

	assert.Equal(t, projFile, cfg.Origins["contextsize"])
	assert.Equal(t, userFile, cfg.Origins["maxsegments"])
	assert.Equal(t, "env:SEGDIFF_COLOR", cfg.Origins["color"])
	assert.Equal(t, "default", cfg.Origins["explain.cachesize"])
}

func TestLoad_EnvOverridesFiles(t *testing.T) {
	l, home, _ := testLoader(t, map[string]string{"SEGDIFF_CONTEXT_SIZE": "7", "OPENAI_API_KEY": "sk-test"})
	writeFile(t, filepath.Join(home, Dir, File), `{"contextsize": 3, "explain": {"apikey": "from-file"}}`)

	cfg, err := l.Load()
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.ContextSize)
	assert.Equal(t, "sk-test", cfg.Explain.APIKey)
	assert.Equal(t, "********", cfg.Redacted().Explain.APIKey)
	assert.Equal(t, "sk-test", cfg.Explain.APIKey)
}

func TestLoad_Errors(t *testing.T) {
	cases := []struct {
		name    string
		file    string
		env     map[string]string
		wantErr string
	}{
		{name: "invalid json", file: `{"contextsize": `, wantErr: "invalid JSON"},
		{name: "not an object", file: `[1, 2]`, wantErr: "top level must be an object"},
		{name: "wrong type", file: `{"contextsize": "two"}`, wantErr: "contextsize: expected integer"},
		{name: "fractional int", file: `{"maxsegments": 1.5}`, wantErr: "maxsegments: expected integer"},
		{name: "mixed list", file: `{"pins": {"edifact": ["UNH", 3]}}`, wantErr: "pins.edifact: expected array of strings"},
		{name: "out of range", file: `{"contextsize": -1}`, wantErr: "contextsize must be >= 0"},
		{name: "bad color", file: `{"color": "sometimes"}`, wantErr: "color must be auto, always, or never"},
		{name: "bad env", env: map[string]string{"SEGDIFF_MAX_SEGMENTS": "lots"}, wantErr: "environment SEGDIFF_MAX_SEGMENTS"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			l, home, _ := testLoader(t, c.env)
			if c.file != "" {
				writeFile(t, filepath.Join(home, Dir, File), c.file)
			}
			_, err := l.Load()
			assert.ErrorContains(t, err, c.wantErr)
		})
	}
}

func TestLoad_EmptyFileIgnored(t *testing.T) {
	l, home, _ := testLoader(t, nil)
	writeFile(t, filepath.Join(home, Dir, File), "  \n")
	_, err := l.Load()
	assert.NoError(t, err)
}

func TestProjectPath_DefaultsToWorkDir(t *testing.T) {
	l, _, _ := testLoader(t, nil)
	assert.Equal(t, filepath.Join(l.WorkDir, Dir, File), l.ProjectPath())
}

func TestPinsFor(t *testing.T) {
	cfg := Defaults()
	assert.Equal(t, segment.DefaultPinnedIDs(segment.DialectX12), cfg.PinsFor(segment.DialectX12))
	assert.Equal(t, segment.DefaultPinnedIDs(segment.DialectUnknown), cfg.PinsFor(segment.DialectUnknown))

	cfg.Pins.X12 = []string{"ST"}
	assert.Equal(t, []string{"ST"}, cfg.PinsFor(segment.DialectX12))
	assert.Equal(t, segment.DefaultPinnedIDs(segment.DialectEDIFACT), cfg.PinsFor(segment.DialectEDIFACT))
	assert.Equal(t, append([]string{"ST"}, segment.DefaultPinnedIDs(segment.DialectEDIFACT)...), cfg.PinsFor(segment.DialectUnknown))

	// An explicitly empty list turns pinning off.
	cfg.Pins.X12 = []string{}
	assert.Empty(t, cfg.PinsFor(segment.DialectX12))
}

func TestSet(t *testing.T) {
	l, _, _ := testLoader(t, nil)
	path := l.ProjectPath()

	require.NoError(t, Set(path, "contextsize", "5"))
	require.NoError(t, Set(path, "Pins.X12", "ISA, GS ,ST"))
	require.NoError(t, Set(path, "explain.model", "gpt-4.1"))

	cfg, err := l.Load()
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.ContextSize)
	assert.Equal(t, []string{"ISA", "GS", "ST"}, cfg.Pins.X12)
	assert.Equal(t, "gpt-4.1", cfg.Explain.Model)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "\n  \"contextsize\": 5")

	require.NoError(t, Set(path, "contextsize", ""))
	cfg, err = l.Load()
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.ContextSize)
	assert.Equal(t, "gpt-4.1", cfg.Explain.Model)
}

func TestSet_PreservesOtherContent(t *testing.T) {
	path := filepath.Join(t.TempDir(), File)
	writeFile(t, path, `{"custom": {"keep": [1, 2]}, "color": "always"}`)

	require.NoError(t, Set(path, "color", "never"))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"keep"`)
	assert.Contains(t, string(data), `"color": "never"`)
}

func TestSet_Errors(t *testing.T) {
	path := filepath.Join(t.TempDir(), File)

	assert.ErrorContains(t, Set(path, "nope", "1"), `unknown config key "nope"`)
	assert.ErrorContains(t, Set(path, "contextsize", "x"), "expected integer")
	assert.ErrorContains(t, Set(path, "color", "purple"), "color must be")
	assert.ErrorContains(t, Set(path, "explain.cachesize", "0"), "explain.cachesize must be >= 1")

	writeFile(t, path, `not json`)
	assert.ErrorContains(t, Set(path, "contextsize", "1"), "not a JSON object")
}

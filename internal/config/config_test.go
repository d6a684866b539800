package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ferrors "git.home.luguber.info/inful/htmlgen/internal/foundation/errors"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, DefaultTemplate, cfg.Template)
	assert.Equal(t, DefaultPattern, cfg.Content.Pattern)
	assert.Empty(t, cfg.Output.Destination)
	assert.Equal(t, DefaultDebounce, cfg.Watch.Debounce)
	assert.True(t, cfg.Output.MinifyEnabled())
	assert.Equal(t, LogLevelInfo, cfg.Log.Level)
	assert.Empty(t, cfg.Notify.Subject)
	assert.Nil(t, cfg.Content.Repository)
	assert.Equal(t, DefaultRetries, RepositoryConfig{}.RetryCount())
}

func TestParseFull(t *testing.T) {
	t.Setenv("HTMLGEN_TEST_NATS", "nats://127.0.0.1:4222")
	cfg, err := Parse([]byte(`
content:
  dir: posts
  pattern: "*.markdown"
  repository:
    url: https://example.com/blog.git
    branch: main
    depth: 1
    retries: 5
output:
  destination: public
  minify: false
template: blog
watch:
  debounce: 1s
  every: 10m
history:
  path: runs.db
notify:
  url: ${HTMLGEN_TEST_NATS}
metrics:
  addr: ":9090"
log:
  level: DEBUG
`))
	require.NoError(t, err)
	assert.Equal(t, "posts", cfg.Content.Dir)
	assert.Equal(t, "*.markdown", cfg.Content.Pattern)
	require.NotNil(t, cfg.Content.Repository)
	assert.Equal(t, 1, cfg.Content.Repository.Depth)
	assert.Equal(t, DefaultWorkspace, cfg.Content.Repository.Workspace)
	assert.Equal(t, 5, cfg.Content.Repository.RetryCount())
	assert.Equal(t, "public", cfg.Output.Destination)
	assert.False(t, cfg.Output.MinifyEnabled())
	assert.Equal(t, time.Second, cfg.Watch.Debounce)
	assert.Equal(t, 10*time.Minute, cfg.Watch.Every)
	assert.Equal(t, "runs.db", cfg.History.Path)
	assert.Equal(t, "nats://127.0.0.1:4222", cfg.Notify.URL)
	assert.Equal(t, DefaultSubject, cfg.Notify.Subject)
	assert.Equal(t, ":9090", cfg.Metrics.Addr)
	assert.Equal(t, LogLevelDebug, cfg.Log.Level)
}

func TestParseInvalid(t *testing.T) {
	tests := map[string]string{
		"yaml":       "content: [",
		"pattern":    "content:\n  pattern: \"[\"\n",
		"debounce":   "watch:\n  debounce: -1s\n",
		"every":      "watch:\n  every: -1m\n",
		"repo url":   "content:\n  repository:\n    branch: main\n",
		"repo depth": "content:\n  repository:\n    url: x\n    depth: -1\n",
		"same dirs":  "content:\n  dir: site\noutput:\n  destination: ./site\n",
		"log level":  "log:\n  level: loud\n",
	}
	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(doc))
			require.Error(t, err)
			assert.True(t, ferrors.HasCategory(err, ferrors.CategoryConfig))
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "htmlgen.yaml")
	require.NoError(t, os.WriteFile(path, []byte("template: blog\noutput:\n  destination: out\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "out", cfg.Output.Destination)

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryNotFound))

	cfg, err = LoadOrDefault(filepath.Join(dir, "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadEnvFilesDoesNotOverride(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("HTMLGEN_A=from-env\nHTMLGEN_B=from-env\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env.local"), []byte("HTMLGEN_A=from-local\n"), 0o600))
	t.Setenv("HTMLGEN_C", "process")
	t.Setenv("HTMLGEN_A", "")
	t.Setenv("HTMLGEN_B", "")
	require.NoError(t, os.Unsetenv("HTMLGEN_A"))
	require.NoError(t, os.Unsetenv("HTMLGEN_B"))

	require.NoError(t, loadEnvFiles(dir))
	assert.Equal(t, "from-local", os.Getenv("HTMLGEN_A"))
	assert.Equal(t, "from-env", os.Getenv("HTMLGEN_B"))
	assert.Equal(t, "process", os.Getenv("HTMLGEN_C"))

	require.NoError(t, loadEnvFiles(t.TempDir()))
}

func TestLogLevelSlog(t *testing.T) {
	for raw, want := range map[string]string{"debug": "DEBUG", "info": "INFO", "warn": "WARN", "error": "ERROR"} {
		l, err := ParseLogLevel(raw)
		require.NoError(t, err)
		assert.Equal(t, want, l.Slog().String())
	}
}

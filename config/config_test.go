package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFile(t *testing.T) {
	dir := t.TempDir()
	cfg, err := Load(dir)
	require.NoError(t, err)

	want := Default()
	want.DataDir = dir
	assert.Equal(t, want, cfg)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	cfg := Default()
	cfg.DataDir = dir
	cfg.ListenAddr = "127.0.0.1:9000"
	cfg.DefaultMarkdownTheme = "elegant"
	cfg.DarkMode = true
	cfg.Logging.Level = "debug"
	require.NoError(t, Save(cfg))

	loaded, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)

	_, err = os.Stat(filepath.Join(dir, FileName+".tmp"))
	assert.True(t, os.IsNotExist(err))
}

func TestLoadFillsDefaults(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(`{"listen_addr": "", "dark_mode": true}`), 0o644))

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.ListenAddr)
	assert.Equal(t, ".markdown-content", cfg.MarkdownSelector)
	assert.Equal(t, "gitbook", cfg.DefaultMarkdownTheme)
	assert.True(t, cfg.DarkMode)
	assert.True(t, cfg.HighlightCDN)
	assert.Equal(t, "normal", cfg.Logging.Level)
}

func TestLoadRejectsBadValues(t *testing.T) {
	tests := map[string]string{
		"corrupt":       `{`,
		"log level":     `{"logging": {"level": "loud"}}`,
		"bare selector": `{"markdown_selector": "article"}`,
		"compound":      `{"markdown_selector": ".post .body"}`,
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			dir := t.TempDir()
			require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(body), 0o644))
			_, err := Load(dir)
			assert.Error(t, err)
		})
	}
}

func TestResolve(t *testing.T) {
	cfg := Config{DataDir: "/srv/blog"}
	assert.Equal(t, filepath.Join("/srv/blog", "content"), cfg.Resolve("content"))
	assert.Equal(t, "/abs/themes", cfg.Resolve("/abs/themes"))
	assert.Empty(t, cfg.Resolve(""))
}

func TestLoggingPrepare(t *testing.T) {
	for _, level := range []string{"none", "debug", "normal"} {
		conf := LoggingConfig{Level: level}
		log, err := conf.Prepare()
		require.NoError(t, err, level)
		assert.NotNil(t, log)
	}

	conf := LoggingConfig{Level: "debug", File: filepath.Join(t.TempDir(), "inkblog.log")}
	log, err := conf.Prepare()
	require.NoError(t, err)
	log.Info("hello file")
	_ = log.Sync()
	data, err := os.ReadFile(conf.File)
	require.NoError(t, err)
	assert.Contains(t, string(data), "hello file")

	conf = LoggingConfig{Level: "verbose"}
	_, err = conf.Prepare()
	assert.Error(t, err)
}

func TestSaveRenameFailureCleansUp(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, FileName, "keep"), 0o755))

	cfg := Default()
	cfg.DataDir = dir
	require.Error(t, Save(cfg))

	_, err := os.Stat(filepath.Join(dir, FileName+".tmp"))
	assert.True(t, os.IsNotExist(err))
}

// SPDX-FileCopyrightText: 2026 specportal
// SPDX-License-Identifier: FSL-1.1-MIT

package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/specportal/specportal/internal/config"
)

func TestInitCommand_CreatesConfig(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	_, err := executeCommand(t, rootCmd, "init", "--content", "./docs", "--languages", "ar,en", "--addr", ":9000")
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "specportal.yaml"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "# specportal configuration file"))

	cfg, err := config.Load("")
	require.NoError(t, err)
	assert.Equal(t, "./docs", cfg.Content.Root)
	assert.Equal(t, []string{"ar", "en"}, cfg.Languages)
	assert.Equal(t, "ar", cfg.DefaultLanguage)
	assert.Equal(t, ":9000", cfg.Server.Addr)
	assert.NoError(t, cfg.Validate())
}

func TestInitCommand_ExistingConfig(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile("specportal.yaml", []byte("languages: [en]\n"), 0644))

	_, err := executeCommand(t, rootCmd, "init")
	assert.ErrorContains(t, err, "already exists")

	_, err = executeCommand(t, rootCmd, "init", "--force")
	require.NoError(t, err)

	cfg, err := config.Load("")
	require.NoError(t, err)
	assert.Equal(t, []string{"en", "ar"}, cfg.Languages)
}

func TestInitCommand_InvalidOptions(t *testing.T) {
	t.Chdir(t.TempDir())

	_, err := executeCommand(t, rootCmd, "init", "--languages", "en,apispecs")
	assert.ErrorContains(t, err, "invalid configuration")

	_, err = os.Stat("specportal.yaml")
	assert.True(t, os.IsNotExist(err))
}

func TestInitCommand_Scaffold(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	_, err := executeCommand(t, rootCmd, "init", "--scaffold", "--languages", "en,ar,fr")
	require.NoError(t, err)

	for _, lang := range []string{"en", "ar", "fr"} {
		path := filepath.Join(dir, "content", lang, "apispecs", "example-api", "v1", "openapi.yaml")
		assert.FileExists(t, path)
	}

	ar, err := os.ReadFile(filepath.Join(dir, "content", "ar", "apispecs", "example-api", "v1", "openapi.yaml"))
	require.NoError(t, err)
	assert.Contains(t, string(ar), "واجهة المثال")

	fr, err := os.ReadFile(filepath.Join(dir, "content", "fr", "apispecs", "example-api", "v1", "openapi.yaml"))
	require.NoError(t, err)
	assert.Contains(t, string(fr), "Example API")

	// The scaffolded tree is served as-is.
	output, err := executeCommand(t, rootCmd, "list", "v1", "--lang", "ar")
	require.NoError(t, err)
	assert.Contains(t, output, "example-api")
	assert.Contains(t, output, "واجهة المثال")
}

func TestScaffoldContent_KeepsExistingFiles(t *testing.T) {
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Content.Root = dir
	cfg.Languages = []string{"en"}

	path := filepath.Join(dir, "en", "apispecs", "example-api", "v1", "openapi.yaml")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte("custom"), 0644))

	created, err := scaffoldContent(cfg)
	require.NoError(t, err)
	assert.Empty(t, created)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "custom", string(data))
}

func TestInteractiveInit(t *testing.T) {
	tests := []struct {
		name  string
		input string
		check func(t *testing.T, cfg *config.Config)
	}{
		{
			name:  "accept defaults",
			input: "\n\n\n\n",
			check: func(t *testing.T, cfg *config.Config) {
				assert.Equal(t, config.Default(), cfg)
			},
		},
		{
			name:  "custom answers",
			input: "./docs\nar, en ,fr\nar\n:9090\n",
			check: func(t *testing.T, cfg *config.Config) {
				assert.Equal(t, "./docs", cfg.Content.Root)
				assert.Equal(t, []string{"ar", "en", "fr"}, cfg.Languages)
				assert.Equal(t, "ar", cfg.DefaultLanguage)
				assert.Equal(t, ":9090", cfg.Server.Addr)
			},
		},
		{
			name:  "input ends early",
			input: "./docs",
			check: func(t *testing.T, cfg *config.Config) {
				assert.Equal(t, "./docs", cfg.Content.Root)
				assert.Equal(t, []string{"en", "ar"}, cfg.Languages)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := new(bytes.Buffer)
			cfg, err := interactiveInit(config.Default(), strings.NewReader(tt.input), out)
			require.NoError(t, err)
			assert.Contains(t, out.String(), "Content root [content]: ")
			assert.Contains(t, out.String(), "Listen address")
			tt.check(t, cfg)
		})
	}
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"en", "ar"}, splitList("en, ar"))
	assert.Equal(t, []string{"en"}, splitList(" ,en,, "))
	assert.Nil(t, splitList(""))
}

func TestBuildConfigYAML(t *testing.T) {
	cfg := config.Default()
	cfg.Auth.Secret = "s3cret"
	cfg.Auth.Rules = map[string]string{"/api/specs": "authenticated"}

	output, err := buildConfigYAML(cfg)
	require.NoError(t, err)
	assert.Contains(t, output, "SPECPORTAL_SERVER_ADDR")
	assert.Contains(t, output, "ttl: 5m0s")
	assert.Contains(t, output, "defaultLanguage: en")

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "specportal.yaml"), []byte(output), 0644))

	loaded, err := config.LoadFromPath(dir)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

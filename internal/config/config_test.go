package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearKeys(t *testing.T) {
	for _, k := range []string{"GEMINI_API_KEY", "GOOGLE_API_KEY", "OPENAI_API_KEY", "ANTHROPIC_API_KEY", "GROQ_API_KEY", SerperEnvKey} {
		t.Setenv(k, "")
	}
}

func TestLoadPathsLocalWins(t *testing.T) {
	dir := t.TempDir()
	globalPath := filepath.Join(dir, "global.yaml")
	localPath := filepath.Join(dir, "local.yaml")

	require.NoError(t, SaveFile(globalPath, File{APIKey: "global-key", Provider: "gemini", Name: "global"}))
	require.NoError(t, SaveFile(localPath, File{Name: "local", SerperAPIKey: "serper-local"}))

	cfg, err := LoadPaths(globalPath, localPath)
	require.NoError(t, err)

	assert.Equal(t, "global-key", cfg.File.APIKey)
	assert.Equal(t, "gemini", cfg.Provider)
	assert.Equal(t, "local", cfg.Name)
	assert.Equal(t, "serper-local", cfg.SerperAPIKey)
}

func TestLoadFileMissingIsEmpty(t *testing.T) {
	f, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, File{}, f)
}

func TestLoadFileInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("api_key: [unclosed"), 0600))

	_, err := LoadFile(path)
	assert.Error(t, err)
}

func TestSaveFilePermissions(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, SaveFile(path, File{APIKey: "secret"}))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestAPIKeyPrecedence(t *testing.T) {
	clearKeys(t)
	cfg := &Config{File: File{APIKey: "file-key", Provider: "gemini"}}

	assert.Equal(t, "file-key", cfg.APIKey("gemini"))
	assert.Empty(t, cfg.APIKey("openai"))

	t.Setenv("GOOGLE_API_KEY", "google-env")
	assert.Equal(t, "google-env", cfg.APIKey("gemini"))

	t.Setenv("GEMINI_API_KEY", "gemini-env")
	assert.Equal(t, "gemini-env", cfg.APIKey("google"))

	t.Setenv("GROQ_API_KEY", "groq-env")
	assert.Equal(t, "groq-env", cfg.APIKey("groq"))
}

func TestAPIKeyWithoutProviderAppliesToAll(t *testing.T) {
	clearKeys(t)
	cfg := &Config{File: File{APIKey: "any"}}
	assert.Equal(t, "any", cfg.APIKey("anthropic"))
}

func TestSearchAPIKey(t *testing.T) {
	clearKeys(t)
	cfg := &Config{File: File{SerperAPIKey: "from-file"}}
	assert.Equal(t, "from-file", cfg.SearchAPIKey())

	t.Setenv(SerperEnvKey, "from-env")
	assert.Equal(t, "from-env", cfg.SearchAPIKey())
}

func TestDirectories(t *testing.T) {
	dir := t.TempDir()
	cfg := &Config{File: File{DataDir: dir}}

	assert.Equal(t, filepath.Join(dir, "runs"), cfg.RunsDir())
	assert.Equal(t, filepath.Join(dir, "logs"), cfg.LogsDir())
	assert.Equal(t, filepath.Join(dir, "vectordb"), cfg.VectorDir())
}

func TestLoadReadsDotEnv(t *testing.T) {
	clearKeys(t)
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("SERPER_API_KEY=dotenv-key\n"), 0600))

	// godotenv never overrides variables that are already set, even empty ones
	require.NoError(t, os.Unsetenv(SerperEnvKey))

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "dotenv-key", cfg.SearchAPIKey())
	assert.Equal(t, filepath.Join(dir, FileName), cfg.LocalPath)
}

func TestMaskKey(t *testing.T) {
	assert.Equal(t, "(not set)", MaskKey(""))
	assert.Equal(t, "****", MaskKey("abcd"))
	assert.Equal(t, "sk-1...wxyz", MaskKey("sk-1234567890wxyz"))
}

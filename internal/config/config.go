// Package config loads process-wide settings from .env, the global and local
// YAML files and the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	FileName = ".fincrew.yaml"
	HomeDir  = ".fincrew"

	SerperEnvKey = "SERPER_API_KEY"
)

// File is the content of a .fincrew.yaml file
type File struct {
	APIKey         string `yaml:"api_key,omitempty"`
	Name           string `yaml:"name,omitempty"`
	Model          string `yaml:"model,omitempty"`
	Provider       string `yaml:"provider,omitempty"`
	SerperAPIKey   string `yaml:"serper_api_key,omitempty"`
	Embedding      string `yaml:"embedding,omitempty"`
	EmbeddingModel string `yaml:"embedding_model,omitempty"`
	DataDir        string `yaml:"data_dir,omitempty"`
}

// Merge returns f with every field set in other overriding it
func (f File) Merge(other File) File {
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&f.APIKey, other.APIKey)
	set(&f.Name, other.Name)
	set(&f.Model, other.Model)
	set(&f.Provider, other.Provider)
	set(&f.SerperAPIKey, other.SerperAPIKey)
	set(&f.Embedding, other.Embedding)
	set(&f.EmbeddingModel, other.EmbeddingModel)
	set(&f.DataDir, other.DataDir)
	return f
}

// Config is the effective configuration handed to components
type Config struct {
	File

	GlobalPath string
	LocalPath  string
}

// GlobalPath returns ~/.fincrew.yaml
func GlobalPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("locating home directory: %w", err)
	}
	return filepath.Join(home, FileName), nil
}

// LocalPath returns ./.fincrew.yaml
func LocalPath() (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("locating working directory: %w", err)
	}
	return filepath.Join(cwd, FileName), nil
}

// LoadFile reads a config file. A missing file yields an empty File.
func LoadFile(path string) (File, error) {
	var f File
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return f, nil
		}
		return f, err
	}
	if err := yaml.Unmarshal(data, &f); err != nil {
		return File{}, fmt.Errorf("parsing %s: %w", path, err)
	}
	return f, nil
}

// SaveFile writes a config file readable only by its owner
func SaveFile(path string, f File) error {
	data, err := yaml.Marshal(f)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}

// Load reads .env, then the global and local config files. An explicit path
// replaces the local file.
func Load(explicit string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	globalPath, err := GlobalPath()
	if err != nil {
		return nil, err
	}
	localPath := explicit
	if localPath == "" {
		if localPath, err = LocalPath(); err != nil {
			return nil, err
		}
	}
	return LoadPaths(globalPath, localPath)
}

// LoadPaths merges the two files, local values winning
func LoadPaths(globalPath, localPath string) (*Config, error) {
	global, err := LoadFile(globalPath)
	if err != nil {
		return nil, err
	}
	local, err := LoadFile(localPath)
	if err != nil {
		return nil, err
	}
	return &Config{
		File:       global.Merge(local),
		GlobalPath: globalPath,
		LocalPath:  localPath,
	}, nil
}

// EnvKeyNames returns the environment variables holding a provider's key, in
// lookup order.
func EnvKeyNames(provider string) []string {
	switch strings.ToLower(provider) {
	case "anthropic":
		return []string{"ANTHROPIC_API_KEY"}
	case "openai":
		return []string{"OPENAI_API_KEY"}
	case "gemini", "google", "":
		return []string{"GEMINI_API_KEY", "GOOGLE_API_KEY"}
	default:
		return []string{strings.ToUpper(provider) + "_API_KEY"}
	}
}

// APIKey resolves the key for a provider. Environment variables win over the
// config files, whose key only applies to their own provider.
func (c *Config) APIKey(provider string) string {
	for _, name := range EnvKeyNames(provider) {
		if v := os.Getenv(name); v != "" {
			return v
		}
	}
	if c.File.APIKey != "" && (c.Provider == "" || strings.EqualFold(c.Provider, provider)) {
		return c.File.APIKey
	}
	return ""
}

// SearchAPIKey returns the Serper key
func (c *Config) SearchAPIKey() string {
	if v := os.Getenv(SerperEnvKey); v != "" {
		return v
	}
	return c.SerperAPIKey
}

// Home returns the data directory, ~/.fincrew unless configured
func (c *Config) Home() string {
	if c.DataDir != "" {
		return c.DataDir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return HomeDir
	}
	return filepath.Join(home, HomeDir)
}

func (c *Config) RunsDir() string   { return filepath.Join(c.Home(), "runs") }
func (c *Config) LogsDir() string   { return filepath.Join(c.Home(), "logs") }
func (c *Config) VectorDir() string { return filepath.Join(c.Home(), "vectordb") }

// MaskKey hides all but the ends of a secret
func MaskKey(key string) string {
	if key == "" {
		return "(not set)"
	}
	if len(key) <= 8 {
		return strings.Repeat("*", len(key))
	}
	return key[:4] + "..." + key[len(key)-4:]
}

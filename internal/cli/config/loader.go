package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultConfigPath returns the default CLI config file path.
func DefaultConfigPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".chatmesh", "cli.yaml")
	}
	return filepath.Join(homeDir, ".chatmesh", "cli.yaml")
}

// Load reads the CLI configuration from path. A missing file yields the
// defaults.
func Load(path string) (*CLIConfig, error) {
	if path == "" {
		path = DefaultConfigPath()
	}

	cfg := Default()
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read cli config: %w", err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse cli config %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes cfg to path with owner-only permissions, since it may hold
// a token. The file is replaced atomically.
func Save(cfg *CLIConfig, path string) error {
	if path == "" {
		path = DefaultConfigPath()
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode cli config: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".cli-*.yaml")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write cli config: %w", err)
	}
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return fmt.Errorf("chmod cli config: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close cli config: %w", err)
	}
	return os.Rename(tmp.Name(), path)
}

// Merge applies non-empty overrides on top of cfg. Recognized keys are
// server, output, token and session. A token override drops the saved
// issue time since its age is unknown.
func Merge(cfg *CLIConfig, overrides map[string]string) *CLIConfig {
	for key, val := range overrides {
		if val == "" {
			continue
		}
		switch key {
		case "server":
			cfg.Server = val
		case "output":
			cfg.Output = val
		case "token":
			if val != cfg.Token {
				cfg.ClearToken()
				cfg.Token = val
			}
		case "session":
			cfg.Session = val
		}
	}
	return cfg
}

/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package config loads and persists the user-editable CuePartner
// configuration. The YAML file holds non-secret settings; API keys for the
// annotator and synthesis providers live in the OS keychain. Environment
// variables act as read-only overrides at runtime.
package config

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"github.com/zalando/go-keyring"
	"gopkg.in/yaml.v3"
)

type GeneralConfig struct {
	TelemetryOptIn bool `yaml:"telemetry_opt_in"`
}

// ParserConfig tunes script recognition. Source selects the default
// skip-word profile ("paste" or "pdf"); ExtraSkipWords extends it.
type ParserConfig struct {
	Source         string   `yaml:"source"`
	ExtraSkipWords []string `yaml:"extra_skip_words,omitempty"`
}

// AnnotatorConfig points at the AI script analyzer. The API key is not
// stored here; it lives in the OS keychain.
type AnnotatorConfig struct {
	BaseURL   string `yaml:"base_url"`
	TimeoutMs int    `yaml:"timeout_ms"`
}

// BackendConfig points at an optional hosted CuePartner backend used for the
// shared script library.
type BackendConfig struct {
	BaseURL   string `yaml:"base_url"`
	TimeoutMs int    `yaml:"timeout_ms"`
	DBURL     string `yaml:"db_url,omitempty"` // Postgres DSN, server-side only
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Source bool   `yaml:"source"`
	File   string `yaml:"file"`
}

type AppConfig struct {
	ConfigVersion int             `yaml:"config_version"`
	General       GeneralConfig   `yaml:"general"`
	Parser        ParserConfig    `yaml:"parser"`
	Annotator     AnnotatorConfig `yaml:"annotator"`
	Backend       BackendConfig   `yaml:"backend"`
	Logging       LoggingConfig   `yaml:"logging"`
}

// Defaults returns the application defaults.
func Defaults() AppConfig {
	return AppConfig{
		ConfigVersion: 1,
		General:       GeneralConfig{TelemetryOptIn: false},
		Parser:        ParserConfig{Source: "paste"},
		Annotator:     AnnotatorConfig{BaseURL: "", TimeoutMs: 30000},
		Backend:       BackendConfig{BaseURL: "", TimeoutMs: 15000},
		Logging:       LoggingConfig{Level: "info", Format: "console"},
	}
}

// Env var names used as overrides.
const (
	EnvParserSource     = "CUE_PARSER_SOURCE"
	EnvAnnotatorURL     = "CUE_ANNOTATOR_URL"
	EnvAnnotatorTimeout = "CUE_ANNOTATOR_TIMEOUT_MS"
	EnvBackendURL       = "CUE_BACKEND_URL"
	EnvBackendTimeout   = "CUE_BACKEND_TIMEOUT_MS"
	EnvBackendDBURL     = "CUE_BACKEND_DB_URL"
	EnvTelemetryOptIn   = "CUE_TELEMETRY_OPT_IN"
	EnvLogLevel         = "CUE_LOG_LEVEL"
	EnvLogFormat        = "CUE_LOG_FORMAT"
	EnvLogSource        = "CUE_LOG_SOURCE"
	EnvLogFile          = "CUE_LOG_FILE"
)

// Keychain service and key names.
const (
	keyringService = "CuePartner"

	KeyAnnotatorAPIKey = "annotator_api_key"
	KeySynthesisAPIKey = "synthesis_api_key"
	KeyBackendToken    = "backend_token"
)

// SecretStore abstracts the OS keychain so tests can stub it.
type SecretStore interface {
	Get(key string) (string, error)
	Set(key, value string) error
	Delete(key string) error
}

// Secrets is the process-wide secret store. Replace in tests.
var Secrets SecretStore = osKeychain{}

type osKeychain struct{}

func (osKeychain) Get(key string) (string, error) { return keyring.Get(keyringService, key) }
func (osKeychain) Set(key, value string) error    { return keyring.Set(keyringService, key, value) }
func (osKeychain) Delete(key string) error        { return keyring.Delete(keyringService, key) }

// MemorySecrets is an in-memory SecretStore for tests and headless CI.
type MemorySecrets map[string]string

func (m MemorySecrets) Get(key string) (string, error) {
	v, ok := m[key]
	if !ok {
		return "", keyring.ErrNotFound
	}
	return v, nil
}
func (m MemorySecrets) Set(key, value string) error { m[key] = value; return nil }
func (m MemorySecrets) Delete(key string) error     { delete(m, key); return nil }

// Path returns the per-user config file path.
func Path() (string, error) {
	var base string
	switch runtime.GOOS {
	case "windows":
		base = os.Getenv("AppData")
		if base == "" {
			base = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		base = filepath.Join(base, "CuePartner")
	case "darwin":
		base = filepath.Join(os.Getenv("HOME"), "Library", "Application Support", "CuePartner")
	default:
		base = filepath.Join(os.Getenv("HOME"), ".config", "cuepartner")
	}
	if base == "" {
		return "", errors.New("cannot resolve config directory")
	}
	return filepath.Join(base, "config.yaml"), nil
}

// Load reads the user config file (if present), applies defaults, and merges
// environment overrides.
func Load() (AppConfig, error) {
	cfg := Defaults()
	path, err := Path()
	if err != nil {
		return cfg, err
	}
	if data, err := os.ReadFile(path); err == nil {
		var fileCfg AppConfig
		if err := yaml.Unmarshal(data, &fileCfg); err == nil {
			mergeInto(&cfg, &fileCfg)
		}
	}
	applyEnvOverrides(&cfg)
	return cfg, nil
}

// Save writes the user config YAML.
func Save(cfg AppConfig) error {
	path, err := Path()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

func mergeInto(dst, src *AppConfig) {
	if src.ConfigVersion != 0 {
		dst.ConfigVersion = src.ConfigVersion
	}
	dst.General.TelemetryOptIn = src.General.TelemetryOptIn
	if s := strings.TrimSpace(src.Parser.Source); s != "" {
		dst.Parser.Source = strings.ToLower(s)
	}
	if len(src.Parser.ExtraSkipWords) > 0 {
		dst.Parser.ExtraSkipWords = src.Parser.ExtraSkipWords
	}
	if src.Annotator.BaseURL != "" {
		dst.Annotator.BaseURL = src.Annotator.BaseURL
	}
	if src.Annotator.TimeoutMs != 0 {
		dst.Annotator.TimeoutMs = src.Annotator.TimeoutMs
	}
	if src.Backend.BaseURL != "" {
		dst.Backend.BaseURL = src.Backend.BaseURL
	}
	if src.Backend.TimeoutMs != 0 {
		dst.Backend.TimeoutMs = src.Backend.TimeoutMs
	}
	if src.Backend.DBURL != "" {
		dst.Backend.DBURL = src.Backend.DBURL
	}
	if s := strings.TrimSpace(src.Logging.Level); s != "" {
		dst.Logging.Level = strings.ToLower(s)
	}
	if s := strings.TrimSpace(src.Logging.Format); s != "" {
		dst.Logging.Format = strings.ToLower(s)
	}
	dst.Logging.Source = src.Logging.Source
	if s := strings.TrimSpace(src.Logging.File); s != "" {
		dst.Logging.File = s
	}
}

func applyEnvOverrides(cfg *AppConfig) {
	if v := strings.TrimSpace(os.Getenv(EnvParserSource)); v != "" {
		cfg.Parser.Source = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvAnnotatorURL)); v != "" {
		cfg.Annotator.BaseURL = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvAnnotatorTimeout)); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Annotator.TimeoutMs = n
		}
	}
	if v := strings.TrimSpace(os.Getenv(EnvBackendURL)); v != "" {
		cfg.Backend.BaseURL = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvBackendTimeout)); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Backend.TimeoutMs = n
		}
	}
	if v := strings.TrimSpace(os.Getenv(EnvBackendDBURL)); v != "" {
		cfg.Backend.DBURL = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvTelemetryOptIn)); v != "" {
		cfg.General.TelemetryOptIn = parseBool(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		cfg.Logging.Level = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFormat)); v != "" {
		cfg.Logging.Format = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogSource)); v != "" {
		cfg.Logging.Source = parseBool(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFile)); v != "" {
		cfg.Logging.File = v
	}
}

func parseBool(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "on", "yes":
		return true
	}
	return false
}

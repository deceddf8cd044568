/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package config

import (
	"testing"

	"gopkg.in/yaml.v3"
)

func TestDefaults(t *testing.T) {
	cfg := Defaults()
	if cfg.Parser.Source != "paste" {
		t.Fatalf("default parser source should be paste, got %q", cfg.Parser.Source)
	}
	if cfg.General.TelemetryOptIn {
		t.Fatalf("telemetry must default to opt-out")
	}
	if cfg.Logging.Level != "info" || cfg.Logging.Format != "console" {
		t.Fatalf("unexpected logging defaults: %+v", cfg.Logging)
	}
}

func TestMergePreservesDefaultsForEmptyFields(t *testing.T) {
	cfg := Defaults()
	var fileCfg AppConfig
	if err := yaml.Unmarshal([]byte("parser:\n  source: PDF\n"), &fileCfg); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	mergeInto(&cfg, &fileCfg)

	if cfg.Parser.Source != "pdf" {
		t.Fatalf("parser source not merged/lowered: %q", cfg.Parser.Source)
	}
	if cfg.Annotator.TimeoutMs != Defaults().Annotator.TimeoutMs {
		t.Fatalf("annotator timeout default lost: %d", cfg.Annotator.TimeoutMs)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv(EnvParserSource, "pdf")
	t.Setenv(EnvAnnotatorURL, "https://annotator.example")
	t.Setenv(EnvAnnotatorTimeout, "2500")
	t.Setenv(EnvTelemetryOptIn, "yes")

	cfg := Defaults()
	applyEnvOverrides(&cfg)

	if cfg.Parser.Source != "pdf" {
		t.Fatalf("env parser source not applied: %q", cfg.Parser.Source)
	}
	if cfg.Annotator.BaseURL != "https://annotator.example" || cfg.Annotator.TimeoutMs != 2500 {
		t.Fatalf("annotator env overrides not applied: %+v", cfg.Annotator)
	}
	if !cfg.General.TelemetryOptIn {
		t.Fatalf("telemetry opt-in env not applied")
	}
}

func TestEnvOverrideIgnoresJunkTimeout(t *testing.T) {
	t.Setenv(EnvAnnotatorTimeout, "not-a-number")
	cfg := Defaults()
	applyEnvOverrides(&cfg)
	if cfg.Annotator.TimeoutMs != Defaults().Annotator.TimeoutMs {
		t.Fatalf("junk timeout should be ignored, got %d", cfg.Annotator.TimeoutMs)
	}
}

func TestMemorySecrets(t *testing.T) {
	old := Secrets
	defer func() { Secrets = old }()
	Secrets = MemorySecrets{}

	if err := Secrets.Set(KeyAnnotatorAPIKey, "sk-test"); err != nil {
		t.Fatalf("set: %v", err)
	}
	v, err := Secrets.Get(KeyAnnotatorAPIKey)
	if err != nil || v != "sk-test" {
		t.Fatalf("get: %q, %v", v, err)
	}
	if err := Secrets.Delete(KeyAnnotatorAPIKey); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := Secrets.Get(KeyAnnotatorAPIKey); err == nil {
		t.Fatalf("expected not-found after delete")
	}
}

func TestRoundTripYAML(t *testing.T) {
	cfg := Defaults()
	cfg.Parser.ExtraSkipWords = []string{"CHYRON"}
	cfg.Backend.BaseURL = "https://cue.example"

	data, err := yaml.Marshal(cfg)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var back AppConfig
	if err := yaml.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back.Backend.BaseURL != cfg.Backend.BaseURL || len(back.Parser.ExtraSkipWords) != 1 {
		t.Fatalf("round trip mismatch: %+v", back)
	}
}

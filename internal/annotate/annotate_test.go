/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package annotate

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"cuepartner/internal/domain"
)

func TestClientAnalyzeCharacters(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/characters" || r.Method != http.MethodPost {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		gotAuth = r.Header.Get("Authorization")
		var req CharacterRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if len(req.Characters) != 2 {
			t.Errorf("expected 2 characters, got %v", req.Characters)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"characters": []domain.CharacterAnalysis{
				{Name: "John", Gender: "male", AgeGroup: "adult"},
				{Name: "Mary", Gender: "female", AgeGroup: "adult"},
			},
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL+"/", "sk-test", 2*time.Second)
	out, err := c.AnalyzeCharacters(context.Background(), CharacterRequest{
		Characters: []string{"John", "Mary"},
		ScriptText: "JOHN: Hi.\nMARY: Hello.",
	})
	if err != nil {
		t.Fatalf("AnalyzeCharacters: %v", err)
	}
	if len(out) != 2 || out[0].Name != "John" {
		t.Fatalf("unexpected analyses: %+v", out)
	}
	if gotAuth != "Bearer sk-test" {
		t.Fatalf("missing bearer token, got %q", gotAuth)
	}
}

func TestClientErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "", 0)
	if _, err := c.AnalyzeEmotions(context.Background(), EmotionRequest{}); err == nil {
		t.Fatalf("expected error on 502")
	}
}

func TestClientUnconfigured(t *testing.T) {
	c := NewClient("", "", 0)
	if _, err := c.AnalyzeCharacters(context.Background(), CharacterRequest{}); err != ErrNotConfigured {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
}

func TestApplyCharacterAnalyses(t *testing.T) {
	p := domain.Project{Characters: []string{"John", "Mary"}}
	ApplyCharacterAnalyses(&p, []domain.CharacterAnalysis{
		{Name: "John", Gender: "male", AgeGroup: "elderly"},
		{Name: "Ghost", Gender: "male", AgeGroup: "adult"}, // not in cast
	})
	if _, ok := p.CharacterProfiles["John"]; !ok {
		t.Fatalf("John profile missing")
	}
	if _, ok := p.CharacterProfiles["Ghost"]; ok {
		t.Fatalf("unknown character should be dropped")
	}
}

func TestApplyEmotionTags(t *testing.T) {
	p := domain.Project{Scenes: []domain.Scene{{
		ID: "s1",
		Lines: []domain.DialogueLine{
			{ID: "l1", Character: "John", Text: "I can't believe it."},
			{ID: "l2", Character: "Mary", Text: "Believe it."},
		},
	}}}
	ApplyEmotionTags(&p, []LineEmotionTag{
		{LineID: "l2", Emotion: domain.LineEmotion{Emotion: "angry", Intensity: "high"}},
	})
	if p.Scenes[0].Lines[0].Emotion != nil {
		t.Fatalf("untagged line gained an emotion")
	}
	em := p.Scenes[0].Lines[1].Emotion
	if em == nil || em.Emotion != "angry" || em.Intensity != "high" {
		t.Fatalf("tag not applied: %+v", em)
	}
}

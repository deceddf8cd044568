/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package voice

import (
	"math"
	"testing"

	"cuepartner/internal/domain"
)

func TestVoiceForKnownProfile(t *testing.T) {
	got := VoiceFor(&domain.CharacterAnalysis{Name: "Sarah", Gender: "female", AgeGroup: "adult"})
	want := voiceTable["female|adult"]
	if got != want {
		t.Fatalf("expected female-adult voice %q, got %q", want, got)
	}
}

func TestVoiceForIsCaseInsensitive(t *testing.T) {
	a := VoiceFor(&domain.CharacterAnalysis{Gender: "Female", AgeGroup: "ADULT"})
	b := VoiceFor(&domain.CharacterAnalysis{Gender: "female", AgeGroup: "adult"})
	if a != b {
		t.Fatalf("lookup should be case-insensitive: %q vs %q", a, b)
	}
}

func TestVoiceForDefaults(t *testing.T) {
	if got := VoiceFor(nil); got != DefaultVoice {
		t.Fatalf("nil profile: expected default voice, got %q", got)
	}
	if got := VoiceFor(&domain.CharacterAnalysis{Gender: "robot", AgeGroup: "ancient"}); got != DefaultVoice {
		t.Fatalf("unknown key: expected default voice, got %q", got)
	}
}

func TestVoiceTableCoversAllCells(t *testing.T) {
	if len(voiceTable) != 8 {
		t.Fatalf("expected 8 voice table entries, got %d", len(voiceTable))
	}
	for _, g := range []string{"male", "female"} {
		for _, a := range []string{"child", "teen", "adult", "elderly"} {
			if _, ok := voiceTable[g+"|"+a]; !ok {
				t.Fatalf("missing voice for %s/%s", g, a)
			}
		}
	}
}

func TestParametersForNil(t *testing.T) {
	if got := ParametersFor(nil); got != neutralPreset {
		t.Fatalf("nil emotion: expected neutral preset, got %+v", got)
	}
}

func TestParametersForUnknownLabelFallsBack(t *testing.T) {
	got := ParametersFor(&domain.LineEmotion{Emotion: "contemplative-ennui", Intensity: "medium"})
	if got != neutralPreset {
		t.Fatalf("unknown label: expected neutral preset, got %+v", got)
	}
}

func TestParametersForHighIntensity(t *testing.T) {
	base := emotionPresets["angry"]
	got := ParametersFor(&domain.LineEmotion{Emotion: "angry", Intensity: "high"})

	wantStyle := math.Min(base.Style+0.2, 1.0)
	wantStability := math.Max(base.Stability-0.1, 0.1)
	if got.Style != wantStyle || got.Stability != wantStability {
		t.Fatalf("high intensity: got %+v, want style=%v stability=%v", got, wantStyle, wantStability)
	}
	if got.SimilarityBoost != base.SimilarityBoost || got.UseSpeakerBoost != base.UseSpeakerBoost {
		t.Fatalf("intensity must not touch similarity/speaker boost: %+v", got)
	}
}

func TestParametersForLowIntensity(t *testing.T) {
	base := emotionPresets["calm"]
	got := ParametersFor(&domain.LineEmotion{Emotion: "calm", Intensity: "low"})

	wantStyle := math.Max(base.Style-0.2, 0.0)
	wantStability := math.Min(base.Stability+0.1, 1.0)
	if got.Style != wantStyle || got.Stability != wantStability {
		t.Fatalf("low intensity: got %+v, want style=%v stability=%v", got, wantStyle, wantStability)
	}
}

func TestParametersForMediumAndJunkIntensity(t *testing.T) {
	base := emotionPresets["sad"]
	for _, intensity := range []string{"medium", "", "extreme"} {
		got := ParametersFor(&domain.LineEmotion{Emotion: "sad", Intensity: intensity})
		if got != base {
			t.Fatalf("intensity %q should not adjust: got %+v want %+v", intensity, got, base)
		}
	}
}

func TestParametersAlwaysInRange(t *testing.T) {
	labels := make([]string, 0, len(emotionPresets)+1)
	for l := range emotionPresets {
		labels = append(labels, l)
	}
	labels = append(labels, "unheard-of")
	for _, l := range labels {
		for _, intensity := range []string{"low", "medium", "high", "??"} {
			p := ParametersFor(&domain.LineEmotion{Emotion: l, Intensity: intensity})
			for name, v := range map[string]float64{
				"stability":         p.Stability,
				"similarity_boost":  p.SimilarityBoost,
				"style":             p.Style,
				"use_speaker_boost": p.UseSpeakerBoost,
			} {
				if v < 0 || v > 1 {
					t.Fatalf("%s/%s: %s=%v out of [0,1]", l, intensity, name, v)
				}
			}
			if intensity == "high" && p.Stability < 0.1 {
				t.Fatalf("%s/high: stability %v below floor", l, p.Stability)
			}
		}
	}
}

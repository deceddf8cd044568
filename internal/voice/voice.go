/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package voice maps character profiles and line emotions onto speech
// synthesis parameters. Both mappings are pure table lookups with documented
// defaults; malformed labels fall back, they never error.
package voice

import (
	"strings"

	"cuepartner/internal/domain"
)

// Token identifies a synthesis voice at the provider.
type Token string

// DefaultVoice is returned for a nil profile or any unknown
// gender/age-group combination.
const DefaultVoice = Token("pNInz6obpgDQGcFmaJgB") // Adam, neutral adult

// voiceTable keys are "gender|ageGroup", both lower-cased.
var voiceTable = map[string]Token{
	"male|child":     "yoZ06aMxZJJ28mfd3POQ", // Sam
	"male|teen":      "TxGEqnHWrfWFTfGW9XjX", // Josh
	"male|adult":     "ErXwobaYiN019PkySvjV", // Antoni
	"male|elderly":   "VR6AewLTigWG4xSOukaG", // Arnold
	"female|child":   "MF3mGyEYCl7XYWbV9V6O", // Elli
	"female|teen":    "AZnzlk1XvdvUeBnXmlld", // Domi
	"female|adult":   "21m00Tcm4TlvDq8ikWAM", // Rachel
	"female|elderly": "EXAVITQu4vr4xnSDxMaL", // Bella
}

// VoiceFor resolves the synthesis voice for a character profile.
func VoiceFor(profile *domain.CharacterAnalysis) Token {
	if profile == nil {
		return DefaultVoice
	}
	key := strings.ToLower(strings.TrimSpace(profile.Gender)) + "|" + strings.ToLower(strings.TrimSpace(profile.AgeGroup))
	if tok, ok := voiceTable[key]; ok {
		return tok
	}
	return DefaultVoice
}

// Parameters is the synthesis parameter tuple. All values live in [0,1].
type Parameters struct {
	Stability       float64 `json:"stability"`
	SimilarityBoost float64 `json:"similarity_boost"`
	Style           float64 `json:"style"`
	UseSpeakerBoost float64 `json:"use_speaker_boost"`
}

// ParametersFor resolves synthesis parameters for a line's emotion
// annotation. A nil emotion or unrecognized label yields the neutral preset.
// Intensity shifts style and stability in opposite directions:
//
//	high: style +0.2 (capped at 1.0), stability -0.1 (floored at 0.1)
//	low:  style -0.2 (floored at 0.0), stability +0.1 (capped at 1.0)
//
// Any other intensity, "medium" included, leaves the preset untouched.
// SimilarityBoost and UseSpeakerBoost come from the preset verbatim.
func ParametersFor(emotion *domain.LineEmotion) Parameters {
	if emotion == nil {
		return neutralPreset
	}
	p, ok := emotionPresets[strings.ToLower(strings.TrimSpace(emotion.Emotion))]
	if !ok {
		p = neutralPreset
	}
	switch strings.ToLower(strings.TrimSpace(emotion.Intensity)) {
	case "high":
		p.Style = min(p.Style+0.2, 1.0)
		p.Stability = max(p.Stability-0.1, 0.1)
	case "low":
		p.Style = max(p.Style-0.2, 0.0)
		p.Stability = min(p.Stability+0.1, 1.0)
	}
	return clampParameters(p)
}

func clampParameters(p Parameters) Parameters {
	p.Stability = clamp01(p.Stability)
	p.SimilarityBoost = clamp01(p.SimilarityBoost)
	p.Style = clamp01(p.Style)
	p.UseSpeakerBoost = clamp01(p.UseSpeakerBoost)
	return p
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

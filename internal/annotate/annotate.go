/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package annotate asks an external analysis service to profile the
// characters of a script (gender, age group, voice type) and to tag
// dialogue lines with emotions. The annotator is optional; callers fall
// back to defaults when none is configured.
package annotate

import (
	"context"
	"errors"

	"cuepartner/internal/domain"
)

// ErrNotConfigured is returned when no annotator endpoint is set up.
var ErrNotConfigured = errors.New("annotator not configured")

// CharacterRequest carries everything the service needs to profile the cast.
type CharacterRequest struct {
	Characters []string `json:"characters"`
	ScriptText string   `json:"scriptText"`
}

// EmotionRequest asks for per-line emotion tags for one scene.
type EmotionRequest struct {
	SceneName string                `json:"sceneName"`
	Lines     []domain.DialogueLine `json:"lines"`
}

// LineEmotionTag pairs a line ID with its analyzed emotion.
type LineEmotionTag struct {
	LineID  string             `json:"lineId"`
	Emotion domain.LineEmotion `json:"emotion"`
}

// Annotator analyzes characters and line emotions. Implementations must be
// safe for concurrent use.
type Annotator interface {
	AnalyzeCharacters(ctx context.Context, req CharacterRequest) ([]domain.CharacterAnalysis, error)
	AnalyzeEmotions(ctx context.Context, req EmotionRequest) ([]LineEmotionTag, error)
}

// ApplyCharacterAnalyses merges service results into the project, keyed by
// character name. Unknown names in the response are dropped.
func ApplyCharacterAnalyses(p *domain.Project, analyses []domain.CharacterAnalysis) {
	known := make(map[string]bool, len(p.Characters))
	for _, c := range p.Characters {
		known[c] = true
	}
	if p.CharacterProfiles == nil {
		p.CharacterProfiles = map[string]domain.CharacterAnalysis{}
	}
	for _, a := range analyses {
		if known[a.Name] {
			p.CharacterProfiles[a.Name] = a
		}
	}
}

// ApplyEmotionTags attaches emotion tags to the matching lines in place.
func ApplyEmotionTags(p *domain.Project, tags []LineEmotionTag) {
	byID := make(map[string]domain.LineEmotion, len(tags))
	for _, tg := range tags {
		byID[tg.LineID] = tg.Emotion
	}
	for si := range p.Scenes {
		lines := p.Scenes[si].Lines
		for li := range lines {
			if em, ok := byID[lines[li].ID]; ok {
				cp := em
				lines[li].Emotion = &cp
			}
		}
	}
}

/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package domain

// This file defines the core data model for CuePartner: projects, scenes and
// speaker-attributed dialogue lines, plus the annotation types filled in by the
// external AI analyzer. Everything serializes to a human-readable JSON manifest.

// Project represents a rehearsal project and its parsed script.
type Project struct {
	ID            string   `json:"id"`
	Title         string   `json:"title"`
	Description   string   `json:"description,omitempty"`
	Scenes        []Scene  `json:"scenes"`
	Characters    []string `json:"characters"`
	UserCharacter string   `json:"userCharacter,omitempty"`

	// CharacterProfiles holds analyzer results keyed by canonical name.
	CharacterProfiles map[string]CharacterAnalysis `json:"characterProfiles,omitempty"`

	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

// Scene is a named, ordered container of dialogue lines. The parser emits a
// single scene per parse; the slice exists so imported scripts can later be
// split by hand without a manifest migration.
type Scene struct {
	ID    string         `json:"id"`
	Name  string         `json:"name"`
	Lines []DialogueLine `json:"lines"`
}

// DialogueLine is one attributed speaker turn. Text holds the whole turn with
// internal line breaks collapsed to single spaces. SequenceNumber is 1-based
// and contiguous across the parse.
//
// IsUserLine, Emotion and AudioURL are never set by the parser; they are
// backfilled by the character-selection step, the AI annotator and the
// synthesis step respectively.
type DialogueLine struct {
	ID             string       `json:"id"`
	Character      string       `json:"character"`
	Text           string       `json:"text"`
	SequenceNumber int          `json:"sequenceNumber"`
	IsUserLine     bool         `json:"isUserLine"`
	Emotion        *LineEmotion `json:"emotion,omitempty"`
	AudioURL       string       `json:"audioUrl,omitempty"`
}

// LineEmotion is the per-line annotation returned by the AI analyzer.
// Intensity is one of "low", "medium", "high"; Direction is an optional
// free-form acting note.
type LineEmotion struct {
	Emotion   string `json:"emotion"`
	Intensity string `json:"intensity"`
	Direction string `json:"direction,omitempty"`
}

// CharacterAnalysis is the per-character demographic profile returned by the
// AI analyzer, looked up by Name equality against DialogueLine.Character.
type CharacterAnalysis struct {
	Name      string `json:"name"`
	Gender    string `json:"gender"`
	AgeGroup  string `json:"ageGroup"`
	VoiceType string `json:"voiceType,omitempty"`
}

/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package synth turns annotated dialogue lines into speech synthesis
// requests and hands them to a provider. The provider itself is pluggable;
// this package only fixes the request shape and the line-to-request mapping.
package synth

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"cuepartner/internal/domain"
	"cuepartner/internal/voice"
)

// ErrNotConfigured is returned when no synthesis provider is set up.
var ErrNotConfigured = errors.New("synthesis provider not configured")

// Request is one line of dialogue prepared for synthesis.
type Request struct {
	LineID string           `json:"lineId"`
	Text   string           `json:"text"`
	Voice  voice.Token      `json:"voiceId"`
	Params voice.Parameters `json:"voiceSettings"`
}

// Result carries the produced audio location for a line.
type Result struct {
	LineID   string `json:"lineId"`
	AudioURL string `json:"audioUrl"`
}

// Synthesizer produces audio for prepared requests. Implementations must be
// safe for concurrent use.
type Synthesizer interface {
	Synthesize(ctx context.Context, req Request) (Result, error)
}

// BuildRequest assembles the synthesis request for one line, resolving the
// voice from the speaker's profile and the parameters from the line emotion.
// A missing profile or emotion falls back to the package defaults rather
// than failing.
func BuildRequest(line domain.DialogueLine, profile *domain.CharacterAnalysis) Request {
	return Request{
		LineID: line.ID,
		Text:   line.Text,
		Voice:  voice.VoiceFor(profile),
		Params: voice.ParametersFor(line.Emotion),
	}
}

// PartnerRequests prepares requests for every line the user does NOT read,
// in scene and sequence order. These are the lines the app plays back while
// the user speaks their own.
func PartnerRequests(p domain.Project) []Request {
	var out []Request
	for _, sc := range p.Scenes {
		for _, ln := range sc.Lines {
			if ln.IsUserLine {
				continue
			}
			var profile *domain.CharacterAnalysis
			if a, ok := p.CharacterProfiles[ln.Character]; ok {
				cp := a
				profile = &cp
			}
			out = append(out, BuildRequest(ln, profile))
		}
	}
	return out
}

// TakeFileName is the canonical on-disk name for a synthesized line under
// the project's takes folder.
func TakeFileName(lineID string) string {
	return fmt.Sprintf("%s.mp3", lineID)
}

// TakePath joins the takes directory with the canonical file name.
func TakePath(takesDir, lineID string) string {
	return filepath.Join(takesDir, TakeFileName(lineID))
}

/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package script

import "strings"

// Skip words disqualify an otherwise cue-shaped line from being treated as a
// character name. They are matched by containment against the upper-cased
// candidate, so "FADE OUT" and "FADE IN:" both hit "FADE".

// pasteSkipWords covers the scene/technical markers that survive a copy-paste.
var pasteSkipWords = []string{
	"INT", "EXT", "FADE", "CUT", "SCENE", "ACT", "END",
	"CONTINUED", "CONT", "THE END",
}

// pdfSkipWords extends the paste profile with markers that commonly leak into
// text extracted from production PDFs (transitions, camera directions, page
// furniture).
var pdfSkipWords = append(append([]string{}, pasteSkipWords...),
	"MORE", "DISSOLVE", "SMASH", "INTERCUT", "FLASHBACK", "BACK TO",
	"ANGLE", "CLOSE", "WIDE", "POV", "INSERT", "SUPER", "TITLE",
	"V.O.", "O.S.", "O.C.", "CONT'D",
)

// DefaultSkipWords returns a copy of the skip-word profile for a source, so
// callers can extend it without mutating the package tables.
func DefaultSkipWords(src Source) []string {
	if src == SourcePDF {
		return append([]string{}, pdfSkipWords...)
	}
	return append([]string{}, pasteSkipWords...)
}

func skipWordsFor(opts Options) []string {
	if opts.SkipWords != nil {
		return opts.SkipWords
	}
	if opts.Source == SourcePDF {
		return pdfSkipWords
	}
	return pasteSkipWords
}

func containsSkipWord(upperName string, words []string) bool {
	for _, w := range words {
		if strings.Contains(upperName, w) {
			return true
		}
	}
	return false
}

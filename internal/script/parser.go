/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package script

import (
	"bufio"
	"regexp"
	"strings"
	"unicode"

	"github.com/google/uuid"

	"cuepartner/internal/domain"
)

// Parse converts raw screenplay text into one scene of speaker-attributed
// dialogue turns plus the registry of detected character names.
//
// Recognition is a single left-to-right scan with two cue notations, checked
// in this order on every trimmed physical line:
//
//   - Colon cue:      NAME [(parenthetical)]: optional trailing dialogue
//   - Standalone cue: an all-caps name on its own line (uppercase ratio >= 0.7)
//
// A cue sets the active speaker; subsequent lines accumulate into that
// speaker's turn until the next cue. Blank lines separate paragraphs but do
// not end the turn or clear the speaker. Fully parenthesized stage
// directions, bare page numbers and one-character fragments are dropped.
// Lines seen before any speaker (scene headings, action) are discarded.
//
// This is a best-effort heuristic lexer, not a format validator: short
// all-caps words ("OK") on their own line will register as characters.
func Parse(raw string, opts Options) (Result, error) {
	if strings.TrimSpace(raw) == "" {
		return Result{}, ErrEmptyInput
	}

	skip := skipWordsFor(opts)
	sceneName := opts.SceneName
	if sceneName == "" {
		sceneName = DefaultSceneName
	}

	lines := []domain.DialogueLine{}
	registry := []string{}
	seen := map[string]struct{}{}

	var (
		speaker string
		buf     []string
		seq     int
	)

	// flush joins the buffered fragments into one turn and emits it if it
	// carries more than one character of text. The active speaker survives.
	flush := func() {
		if len(buf) == 0 || speaker == "" {
			buf = buf[:0]
			return
		}
		text := strings.TrimSpace(strings.Join(buf, " "))
		buf = buf[:0]
		if len(text) <= 1 {
			return
		}
		seq++
		lines = append(lines, domain.DialogueLine{
			ID:             uuid.NewString(),
			Character:      speaker,
			Text:           text,
			SequenceNumber: seq,
		})
	}

	setSpeaker := func(name string) {
		speaker = titleCase(name)
		if _, ok := seen[speaker]; !ok {
			seen[speaker] = struct{}{}
			registry = append(registry, speaker)
		}
	}

	sc := bufio.NewScanner(strings.NewReader(raw))
	sc.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	for sc.Scan() {
		trim := strings.TrimSpace(sc.Text())

		// Blank line: paragraph gap inside the current turn. The speaker
		// persists, so a following non-cue line continues the same turn.
		if trim == "" {
			continue
		}

		// Colon cue wins over the standalone shape, so "JOHN: Hi" is a
		// cue with seeded dialogue, never a bare "JOHN" plus text ": Hi".
		if name, rest, ok := matchColonCue(trim, skip); ok {
			flush()
			setSpeaker(name)
			if rest != "" {
				buf = append(buf, rest)
			}
			continue
		}

		if name, ok := matchStandaloneCue(trim, skip); ok {
			flush()
			setSpeaker(name)
			continue
		}

		if speaker != "" {
			if isStageDirection(trim) || isPageNumber(trim) || len(trim) < 2 {
				continue
			}
			buf = append(buf, trim)
			continue
		}
		// No speaker yet: heading or action outside any dialogue; drop it.
	}
	if err := sc.Err(); err != nil {
		return Result{}, err
	}
	flush()

	scene := domain.Scene{ID: uuid.NewString(), Name: sceneName, Lines: lines}
	return Result{Scenes: []domain.Scene{scene}, Characters: registry}, nil
}

// DefaultSceneName is given to the single scene emitted per parse.
const DefaultSceneName = "Main Scene"

const (
	// colonNameMax caps the candidate name length in a colon cue.
	colonNameMax = 40
	// standaloneLineMax caps the whole line length for a standalone cue.
	standaloneLineMax = 50
	// upperRatioMin is the minimum share of uppercase letters among the
	// non-space characters of a standalone cue candidate.
	upperRatioMin = 0.7

	maxLineBytes = 1 << 20
)

var (
	reColonCue      = regexp.MustCompile(`^([A-Za-z][A-Za-z .'\-]*?)(?:\s*\([^)]*\))?\s*:\s*(.*)$`)
	reStandaloneCue = regexp.MustCompile(`^([A-Za-z][A-Za-z .'\-]*?)(?:\s*\([^)]*\))?$`)
	rePageNumber    = regexp.MustCompile(`^\d+$`)
)

// matchColonCue recognizes "NAME [(parenthetical)]: trailing text". The name
// may contain letters, spaces, hyphens, apostrophes and periods only.
func matchColonCue(line string, skip []string) (name, rest string, ok bool) {
	m := reColonCue.FindStringSubmatch(line)
	if m == nil {
		return "", "", false
	}
	name = strings.TrimSpace(m[1])
	if name == "" || len(name) >= colonNameMax {
		return "", "", false
	}
	if containsSkipWord(strings.ToUpper(name), skip) {
		return "", "", false
	}
	return name, strings.TrimSpace(m[2]), true
}

// matchStandaloneCue recognizes an (almost) all-caps name alone on a short
// line, optionally followed by a parenthetical. The uppercase ratio is
// computed over the name portion so "(whispering)" does not dilute it.
func matchStandaloneCue(line string, skip []string) (string, bool) {
	if len(line) >= standaloneLineMax {
		return "", false
	}
	m := reStandaloneCue.FindStringSubmatch(line)
	if m == nil {
		return "", false
	}
	name := strings.TrimSpace(m[1])
	if name == "" || upperRatio(name) < upperRatioMin {
		return "", false
	}
	if containsSkipWord(strings.ToUpper(name), skip) {
		return "", false
	}
	return name, true
}

func isStageDirection(s string) bool {
	return strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")")
}

func isPageNumber(s string) bool { return rePageNumber.MatchString(s) }

// upperRatio returns uppercase letters over non-space characters.
func upperRatio(s string) float64 {
	var upper, total int
	for _, r := range s {
		if unicode.IsSpace(r) {
			continue
		}
		total++
		if unicode.IsUpper(r) {
			upper++
		}
	}
	if total == 0 {
		return 0
	}
	return float64(upper) / float64(total)
}

// titleCase canonicalizes a name: every letter run starts uppercase and
// continues lowercase, so "JOHN", "john" and "John" all become "John", and
// "O'BRIEN" becomes "O'Brien".
func titleCase(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	prevLetter := false
	for _, r := range s {
		if unicode.IsLetter(r) {
			if prevLetter {
				b.WriteRune(unicode.ToLower(r))
			} else {
				b.WriteRune(unicode.ToUpper(r))
			}
			prevLetter = true
		} else {
			b.WriteRune(r)
			prevLetter = false
		}
	}
	return b.String()
}

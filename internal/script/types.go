/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package script

import (
	"errors"

	"cuepartner/internal/domain"
)

// ErrEmptyInput is returned by Parse when the input contains no non-whitespace
// content at all (e.g. an image-based or encrypted PDF produced empty text).
// Zero recognized dialogue is NOT this error; Parse then returns one empty
// scene and callers decide whether that is worth surfacing.
var ErrEmptyInput = errors.New("script: input contains no text")

// Source identifies where the raw text came from. Text extracted from PDFs
// carries more technical noise than pasted text, so it gets the broader
// skip-word profile.
type Source int

const (
	SourcePaste Source = iota
	SourcePDF
)

// Options configures a parse. The zero value is valid and parses pasted text
// with the default skip words.
type Options struct {
	Source Source
	// SkipWords overrides the per-source skip-word profile when non-nil.
	SkipWords []string
	// SceneName overrides the name given to the single emitted scene.
	SceneName string
}

// Result is the output of a parse: the single scene holding all recognized
// turns, and the distinct canonical character names in first-appearance order.
type Result struct {
	Scenes     []domain.Scene
	Characters []string
}

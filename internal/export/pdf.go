/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package export renders rehearsal sides from a project as printable PDFs.
package export

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jung-kurt/gofpdf"

	"cuepartner/internal/storage"
)

// SidesOptions controls the rehearsal-sides PDF layout.
// Built-in Helvetica keeps text vector without embedding.
type SidesOptions struct {
	// HighlightUser shades the user's own lines.
	HighlightUser bool
	// BlankUserLines replaces the user's line text with a rule, for
	// memorization runs.
	BlankUserLines bool
	// CharacterFilter limits output to one character's lines plus their cues
	// (the line immediately before each of theirs). Empty means all lines.
	CharacterFilter string
}

const (
	sidesPageWidth  = 595.0 // A4 portrait in pt
	sidesPageHeight = 842.0
	sidesMargin     = 54.0
	nameSize        = 11.0
	lineSize        = 12.0
	lineLeading     = 16.0
)

// ExportSidesPDF writes the project's dialogue as printable sides to outPath.
func ExportSidesPDF(ph *storage.ProjectHandle, outPath string, opt SidesOptions) error {
	if ph == nil {
		return fmt.Errorf("project handle is nil")
	}
	p := ph.Project

	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		UnitStr:        "pt",
		Size:           gofpdf.SizeType{Wd: sidesPageWidth, Ht: sidesPageHeight},
		OrientationStr: "",
	})
	pdf.SetTitle(fmt.Sprintf("%s — Sides", p.Title), true)
	pdf.SetAuthor("CuePartner", false)
	pdf.SetMargins(sidesMargin, sidesMargin, sidesMargin)
	pdf.SetAutoPageBreak(true, sidesMargin)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 24, p.Title, "", 1, "C", false, 0, "")
	if p.UserCharacter != "" {
		pdf.SetFont("Helvetica", "I", 10)
		pdf.CellFormat(0, 14, fmt.Sprintf("Reading: %s", p.UserCharacter), "", 1, "C", false, 0, "")
	}
	pdf.Ln(10)

	contentW := sidesPageWidth - 2*sidesMargin
	for _, sc := range p.Scenes {
		pdf.SetFont("Helvetica", "B", 12)
		pdf.CellFormat(0, 18, sc.Name, "B", 1, "L", false, 0, "")
		pdf.Ln(6)

		for i, ln := range sc.Lines {
			if opt.CharacterFilter != "" && ln.Character != opt.CharacterFilter {
				// Keep the cue line directly before a filtered character's line.
				if i+1 >= len(sc.Lines) || sc.Lines[i+1].Character != opt.CharacterFilter {
					continue
				}
			}

			pdf.SetFont("Helvetica", "B", nameSize)
			pdf.CellFormat(0, lineLeading, ln.Character, "", 1, "C", false, 0, "")

			fill := false
			if opt.HighlightUser && ln.IsUserLine {
				pdf.SetFillColor(255, 244, 196)
				fill = true
			}
			pdf.SetFont("Helvetica", "", lineSize)
			text := ln.Text
			if opt.BlankUserLines && ln.IsUserLine {
				text = "________________________________________"
			}
			pdf.MultiCell(contentW, lineLeading, text, "", "L", fill)
			pdf.Ln(8)
		}
		pdf.Ln(10)
	}

	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("create export dir: %w", err)
	}
	if err := pdf.OutputFileAndClose(outPath); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

// SearchQuery describes an in-project dialogue search. Text uses SQLite FTS5
// syntax (simple terms, phrases in quotes, AND/OR/NOT). Character filters on
// the canonical name; SeqFrom/To are inclusive, 0 means unset. UserOnly
// restricts to the user's own lines. Limit/Offset paginate with defaults
// applied when zero.
type SearchQuery struct {
	Text      string
	Character string
	SeqFrom   int
	SeqTo     int
	UserOnly  bool
	Limit     int
	Offset    int
}

// SearchResult is a single matching dialogue line. Snippet is a highlighted
// excerpt using [ ] markers when FTS text is used, otherwise the full text.
type SearchResult struct {
	LineID    string
	Character string
	Seq       int
	Snippet   string
}

// RebuildLineIndex replaces the indexed dialogue lines with the project's
// current scenes. Called after import and after character selection.
func RebuildLineIndex(ctx context.Context, ph *ProjectHandle) error {
	if ph == nil {
		return errors.New("nil ProjectHandle")
	}
	db, err := InitOrOpenIndex(ph.Root)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM lines`); err != nil {
		return fmt.Errorf("clear lines: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM fts_lines`); err != nil {
		return fmt.Errorf("clear fts: %w", err)
	}
	for _, sc := range ph.Project.Scenes {
		for _, ln := range sc.Lines {
			isUser := 0
			if ln.IsUserLine {
				isUser = 1
			}
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO lines(line_id, scene_id, character, seq, is_user, text) VALUES (?, ?, ?, ?, ?, ?)`,
				ln.ID, sc.ID, ln.Character, ln.SequenceNumber, isUser, ln.Text); err != nil {
				return fmt.Errorf("insert line: %w", err)
			}
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO fts_lines(text, character, line_id) VALUES (?, ?, ?)`,
				ln.Text, ln.Character, ln.ID); err != nil {
				return fmt.Errorf("insert fts line: %w", err)
			}
		}
	}
	return tx.Commit()
}

// Search performs dialogue search with optional filters over the embedded
// index. When q.Text is empty it falls back to a plain scan with filters.
func Search(ctx context.Context, projectRoot string, q SearchQuery) ([]SearchResult, error) {
	if strings.TrimSpace(projectRoot) == "" {
		return nil, errors.New("project root is required")
	}
	db, err := InitOrOpenIndex(projectRoot)
	if err != nil {
		return nil, err
	}
	defer func() { _ = db.Close() }()
	return searchDB(ctx, db, q)
}

func searchDB(ctx context.Context, db *sql.DB, q SearchQuery) ([]SearchResult, error) {
	var args []any
	var sb strings.Builder
	useFTS := strings.TrimSpace(q.Text) != ""
	if useFTS {
		sb.WriteString("SELECT l.line_id, l.character, l.seq, snippet(fts_lines, 0, '[', ']', '…', 10)\n")
		sb.WriteString("FROM fts_lines JOIN lines l ON fts_lines.line_id = l.line_id\n")
		sb.WriteString("WHERE fts_lines MATCH ?\n")
		args = append(args, q.Text)
	} else {
		sb.WriteString("SELECT l.line_id, l.character, l.seq, l.text\n")
		sb.WriteString("FROM lines l\nWHERE 1=1\n")
	}
	if strings.TrimSpace(q.Character) != "" {
		sb.WriteString(" AND l.character = ?\n")
		args = append(args, q.Character)
	}
	if q.UserOnly {
		sb.WriteString(" AND l.is_user = 1\n")
	}
	if q.SeqFrom > 0 && q.SeqTo > 0 && q.SeqTo >= q.SeqFrom {
		sb.WriteString(" AND l.seq BETWEEN ? AND ?\n")
		args = append(args, q.SeqFrom, q.SeqTo)
	} else if q.SeqFrom > 0 {
		sb.WriteString(" AND l.seq >= ?\n")
		args = append(args, q.SeqFrom)
	} else if q.SeqTo > 0 {
		sb.WriteString(" AND l.seq <= ?\n")
		args = append(args, q.SeqTo)
	}
	sb.WriteString(" ORDER BY l.seq ASC\n")

	limit := q.Limit
	if limit <= 0 {
		limit = 50
	}
	offset := q.Offset
	if offset < 0 {
		offset = 0
	}
	sb.WriteString(" LIMIT ? OFFSET ?")
	args = append(args, limit, offset)

	rows, err := db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("search query: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []SearchResult
	for rows.Next() {
		var r SearchResult
		if err := rows.Scan(&r.LineID, &r.Character, &r.Seq, &r.Snippet); err != nil {
			return nil, fmt.Errorf("scan result: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package backend

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"cuepartner/internal/storage"
)

// SearchPG runs the same dialogue search as the local SQLite index against a
// pushed project, using tsvector matching. Results map to
// storage.SearchResult so both paths stay interchangeable.
func SearchPG(ctx context.Context, db *sql.DB, stableID string, q storage.SearchQuery) ([]storage.SearchResult, error) {
	var (
		args []any
		b    strings.Builder
	)
	place := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	useFTS := strings.TrimSpace(q.Text) != ""
	if useFTS {
		tq := place(q.Text)
		b.WriteString("SELECT l.line_id, l.character, l.seq, ")
		b.WriteString("COALESCE(ts_headline('simple', l.text, plainto_tsquery('simple', " + tq + "), 'StartSel=[, StopSel=], MaxWords=12'), '') AS snippet ")
		b.WriteString("FROM dialogue_lines l JOIN projects p ON p.id = l.project_id ")
		b.WriteString("WHERE p.stable_id = " + place(stableID) + " ")
		b.WriteString("AND l.search_vector @@ plainto_tsquery('simple', " + tq + ") ")
	} else {
		b.WriteString("SELECT l.line_id, l.character, l.seq, l.text AS snippet ")
		b.WriteString("FROM dialogue_lines l JOIN projects p ON p.id = l.project_id ")
		b.WriteString("WHERE p.stable_id = " + place(stableID) + " ")
	}

	if s := strings.TrimSpace(q.Character); s != "" {
		b.WriteString(" AND l.character = " + place(s) + " ")
	}
	if q.UserOnly {
		b.WriteString(" AND l.is_user ")
	}
	if q.SeqFrom > 0 && q.SeqTo > 0 && q.SeqTo >= q.SeqFrom {
		b.WriteString(" AND l.seq BETWEEN " + place(q.SeqFrom) + " AND " + place(q.SeqTo) + " ")
	} else if q.SeqFrom > 0 {
		b.WriteString(" AND l.seq >= " + place(q.SeqFrom) + " ")
	} else if q.SeqTo > 0 {
		b.WriteString(" AND l.seq <= " + place(q.SeqTo) + " ")
	}

	limit := q.Limit
	if limit <= 0 {
		limit = 50
	}
	offset := q.Offset
	if offset < 0 {
		offset = 0
	}
	b.WriteString(" ORDER BY l.seq ASC ")
	b.WriteString(" LIMIT " + place(limit) + " OFFSET " + place(offset))

	rows, err := db.QueryContext(ctx, b.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("search pg query: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []storage.SearchResult
	for rows.Next() {
		var r storage.SearchResult
		if err := rows.Scan(&r.LineID, &r.Character, &r.Seq, &r.Snippet); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

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
	"time"
)

// language=SQL
// dialect=SQLite
const insertScriptSnapshotSQL = `INSERT INTO script_snapshots(ts, source, text) VALUES (?, ?, ?)`

// language=SQL
// dialect=SQLite
const selectLatestScriptSnapshotSQL = `SELECT ts, source, text FROM script_snapshots ORDER BY ts DESC LIMIT 1`

// language=SQL
// dialect=SQLite
const pruneOldScriptSnapshotsSQL = `DELETE FROM script_snapshots WHERE id NOT IN (
	SELECT id FROM script_snapshots ORDER BY ts DESC LIMIT ?
)`

// ScriptSnapshot is one archived raw script text with its provenance.
type ScriptSnapshot struct {
	TS     time.Time
	Source string
	Text   string
}

// SaveScriptSnapshot persists the raw script text with a timestamp. The index
// database is derived data; this history is for change tracking, not the
// canonical manifest.
func SaveScriptSnapshot(ctx context.Context, ph *ProjectHandle, text, source string, ts time.Time) error {
	if ph == nil {
		return errors.New("nil ProjectHandle")
	}
	db, err := InitOrOpenIndex(ph.Root)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()
	_, err = db.ExecContext(ctx, insertScriptSnapshotSQL, ts.UTC().Format(time.RFC3339Nano), source, text)
	return err
}

// LatestScriptSnapshot returns the newest snapshot, or ok=false if none exist.
func LatestScriptSnapshot(ctx context.Context, ph *ProjectHandle) (ScriptSnapshot, bool, error) {
	if ph == nil {
		return ScriptSnapshot{}, false, errors.New("nil ProjectHandle")
	}
	db, err := InitOrOpenIndex(ph.Root)
	if err != nil {
		return ScriptSnapshot{}, false, err
	}
	defer func() { _ = db.Close() }()

	var tsStr string
	var snap ScriptSnapshot
	err = db.QueryRowContext(ctx, selectLatestScriptSnapshotSQL).Scan(&tsStr, &snap.Source, &snap.Text)
	if errors.Is(err, sql.ErrNoRows) {
		return ScriptSnapshot{}, false, nil
	}
	if err != nil {
		return ScriptSnapshot{}, false, err
	}
	if t, perr := time.Parse(time.RFC3339Nano, tsStr); perr == nil {
		snap.TS = t
	}
	return snap, true, nil
}

// PruneScriptSnapshots keeps only the newest keep snapshots.
func PruneScriptSnapshots(ctx context.Context, ph *ProjectHandle, keep int) error {
	if ph == nil {
		return errors.New("nil ProjectHandle")
	}
	if keep < 1 {
		keep = 1
	}
	db, err := InitOrOpenIndex(ph.Root)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()
	_, err = db.ExecContext(ctx, pruneOldScriptSnapshotsSQL, keep)
	return err
}

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
	"fmt"
	"testing"
	"time"
)

func TestScriptSnapshotRoundTrip(t *testing.T) {
	ph := mustInit(t, "Snapshot Test")
	ctx := context.Background()

	if _, ok, err := LatestScriptSnapshot(ctx, ph); err != nil || ok {
		t.Fatalf("expected no snapshot yet, ok=%v err=%v", ok, err)
	}

	t0 := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	if err := SaveScriptSnapshot(ctx, ph, "JOHN: First draft.", "paste", t0); err != nil {
		t.Fatalf("save snapshot: %v", err)
	}
	if err := SaveScriptSnapshot(ctx, ph, "JOHN: Second draft.", "pdf", t0.Add(time.Hour)); err != nil {
		t.Fatalf("save snapshot: %v", err)
	}

	snap, ok, err := LatestScriptSnapshot(ctx, ph)
	if err != nil || !ok {
		t.Fatalf("latest snapshot: ok=%v err=%v", ok, err)
	}
	if snap.Text != "JOHN: Second draft." || snap.Source != "pdf" {
		t.Fatalf("unexpected latest snapshot: %+v", snap)
	}
	if !snap.TS.Equal(t0.Add(time.Hour)) {
		t.Fatalf("timestamp lost: %v", snap.TS)
	}
}

func TestPruneScriptSnapshotsKeepsNewest(t *testing.T) {
	ph := mustInit(t, "Prune Test")
	ctx := context.Background()

	base := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		text := fmt.Sprintf("JOHN: Draft %d.", i)
		if err := SaveScriptSnapshot(ctx, ph, text, "paste", base.Add(time.Duration(i)*time.Minute)); err != nil {
			t.Fatalf("save snapshot %d: %v", i, err)
		}
	}
	if err := PruneScriptSnapshots(ctx, ph, 2); err != nil {
		t.Fatalf("prune: %v", err)
	}

	snap, ok, err := LatestScriptSnapshot(ctx, ph)
	if err != nil || !ok {
		t.Fatalf("latest after prune: ok=%v err=%v", ok, err)
	}
	if snap.Text != "JOHN: Draft 4." {
		t.Fatalf("newest snapshot lost: %+v", snap)
	}
}

func TestIndexSchemaVersionRow(t *testing.T) {
	ph := mustInit(t, "Schema Test")
	db, err := InitOrOpenIndex(ph.Root)
	if err != nil {
		t.Fatalf("InitOrOpenIndex: %v", err)
	}
	defer db.Close()

	var schema int
	if err := db.QueryRow(`SELECT schema FROM version WHERE id=1`).Scan(&schema); err != nil {
		t.Fatalf("read version row: %v", err)
	}
	if schema != schemaVersion {
		t.Fatalf("schema version mismatch: got %d want %d", schema, schemaVersion)
	}

	// Reopening must not error or duplicate the version row.
	db2, err := InitOrOpenIndex(ph.Root)
	if err != nil {
		t.Fatalf("reopen index: %v", err)
	}
	defer db2.Close()
	var n int
	if err := db2.QueryRow(`SELECT COUNT(*) FROM version`).Scan(&n); err != nil {
		t.Fatalf("count version rows: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected exactly one version row, got %d", n)
	}
}

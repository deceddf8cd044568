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
	"testing"
	"time"

	"cuepartner/internal/domain"
	"cuepartner/internal/storage"
)

// openPGForTest connects to the DSN from the environment and skips the test
// when no database is reachable.
func openPGForTest(t *testing.T) *sql.DB {
	t.Helper()
	dsn := DSNFromEnv()
	if dsn == "" {
		t.Skip("no postgres DSN configured (CUE_PG_DSN / DATABASE_URL)")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	db, err := OpenDB(ctx, dsn)
	if err != nil {
		t.Skipf("postgres not available: %v", err)
	}
	return db
}

func TestPushFetchSearchRoundTrip(t *testing.T) {
	db := openPGForTest(t)
	defer func() { _ = db.Close() }()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	p := domain.Project{
		ID:            "it-push-1",
		Title:         "Integration Scene",
		Characters:    []string{"John", "Mary"},
		UserCharacter: "Mary",
		Scenes: []domain.Scene{{
			ID:   "s1",
			Name: "Main Scene",
			Lines: []domain.DialogueLine{
				{ID: "l1", Character: "John", Text: "Sunrise over the harbor", SequenceNumber: 1},
				{ID: "l2", Character: "Mary", Text: "I brought coffee", SequenceNumber: 2, IsUserLine: true},
			},
		}},
	}

	v1, err := PushProject(ctx, db, p)
	if err != nil {
		t.Fatalf("push: %v", err)
	}
	v2, err := PushProject(ctx, db, p)
	if err != nil {
		t.Fatalf("re-push: %v", err)
	}
	if v2 <= v1 {
		t.Fatalf("re-push should bump version: %d then %d", v1, v2)
	}

	got, err := FetchProject(ctx, db, "it-push-1")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if got.Title != p.Title || len(got.Scenes) != 1 {
		t.Fatalf("fetched project mismatch: %+v", got)
	}

	res, err := SearchPG(ctx, db, "it-push-1", storage.SearchQuery{Text: "harbor"})
	if err != nil {
		t.Fatalf("searchpg: %v", err)
	}
	if len(res) != 1 || res[0].LineID != "l1" {
		t.Fatalf("expected line l1, got %+v", res)
	}

	res, err = SearchPG(ctx, db, "it-push-1", storage.SearchQuery{UserOnly: true})
	if err != nil {
		t.Fatalf("searchpg user-only: %v", err)
	}
	if len(res) != 1 || res[0].Character != "Mary" {
		t.Fatalf("expected Mary's line, got %+v", res)
	}
}

/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package backend implements the optional shared project store: a Postgres
// schema for pushed projects plus a read-only HTTP client for browsing them.
// Everything here sits behind configuration; the app is fully functional
// offline.
package backend

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"cuepartner/internal/domain"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// ErrNotFound is returned when a pushed project does not exist.
var ErrNotFound = errors.New("project not found")

// DSNFromEnv resolves the Postgres connection string. CUE_PG_DSN wins over
// DATABASE_URL; empty means the shared store is disabled.
func DSNFromEnv() string {
	if v := os.Getenv("CUE_PG_DSN"); v != "" {
		return v
	}
	return os.Getenv("DATABASE_URL")
}

// OpenDB connects to Postgres and ensures the schema exists.
func OpenDB(ctx context.Context, dsn string) (*sql.DB, error) {
	if dsn == "" {
		return nil, errors.New("postgres DSN is empty")
	}
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}
	if err := ensureSchema(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

func ensureSchema(ctx context.Context, db *sql.DB) error {
	ddl := []string{
		`CREATE TABLE IF NOT EXISTS projects (
			id         BIGSERIAL PRIMARY KEY,
			stable_id  TEXT UNIQUE NOT NULL,
			title      TEXT NOT NULL,
			manifest   JSONB NOT NULL,
			version    BIGINT NOT NULL DEFAULT 1,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);`,
		`CREATE TABLE IF NOT EXISTS dialogue_lines (
			project_id BIGINT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
			line_id    TEXT NOT NULL,
			character  TEXT NOT NULL,
			seq        INTEGER NOT NULL,
			is_user    BOOLEAN NOT NULL DEFAULT false,
			text       TEXT NOT NULL,
			search_vector TSVECTOR GENERATED ALWAYS AS (to_tsvector('simple', text)) STORED,
			PRIMARY KEY (project_id, line_id)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_dialogue_lines_fts ON dialogue_lines USING GIN (search_vector);`,
		`CREATE INDEX IF NOT EXISTS idx_dialogue_lines_seq ON dialogue_lines (project_id, seq);`,
	}
	for _, q := range ddl {
		if _, err := db.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

// PushProject uploads the manifest and replaces the project's indexed lines.
// Re-pushing the same stable ID bumps the version.
func PushProject(ctx context.Context, db *sql.DB, p domain.Project) (int64, error) {
	manifest, err := json.Marshal(p)
	if err != nil {
		return 0, fmt.Errorf("marshal manifest: %w", err)
	}
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var id, version int64
	err = tx.QueryRowContext(ctx, `
		INSERT INTO projects (stable_id, title, manifest)
		VALUES ($1, $2, $3)
		ON CONFLICT (stable_id) DO UPDATE
		SET title = EXCLUDED.title,
		    manifest = EXCLUDED.manifest,
		    version = projects.version + 1,
		    updated_at = now()
		RETURNING id, version`,
		p.ID, p.Title, manifest).Scan(&id, &version)
	if err != nil {
		return 0, fmt.Errorf("upsert project: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM dialogue_lines WHERE project_id = $1`, id); err != nil {
		return 0, fmt.Errorf("clear lines: %w", err)
	}
	for _, sc := range p.Scenes {
		for _, ln := range sc.Lines {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO dialogue_lines (project_id, line_id, character, seq, is_user, text)
				VALUES ($1, $2, $3, $4, $5, $6)`,
				id, ln.ID, ln.Character, ln.SequenceNumber, ln.IsUserLine, ln.Text); err != nil {
				return 0, fmt.Errorf("insert line: %w", err)
			}
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return version, nil
}

// FetchProject downloads a pushed manifest by its stable ID.
func FetchProject(ctx context.Context, db *sql.DB, stableID string) (domain.Project, error) {
	var manifest []byte
	err := db.QueryRowContext(ctx,
		`SELECT manifest FROM projects WHERE stable_id = $1`, stableID).Scan(&manifest)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Project{}, ErrNotFound
	}
	if err != nil {
		return domain.Project{}, fmt.Errorf("fetch project: %w", err)
	}
	var p domain.Project
	if err := json.Unmarshal(manifest, &p); err != nil {
		return domain.Project{}, fmt.Errorf("parse manifest: %w", err)
	}
	return p, nil
}

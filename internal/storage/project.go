/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package storage persists CuePartner projects: a human-readable JSON
// manifest with transactional saves and timestamped backups, plus a
// per-project SQLite index for script snapshots and dialogue search.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"cuepartner/internal/domain"
	"cuepartner/internal/script"
)

const (
	ManifestFileName = "cuepartner.json"
	BackupsDirName   = "backups"
)

// Standard subfolders scaffolded under the project root.
var standardSubDirs = []string{
	"script",
	"takes",
	"exports",
	BackupsDirName,
}

// ProjectHandle tracks a project loaded from disk.
// Root is the project directory containing cuepartner.json and subfolders.
type ProjectHandle struct {
	Root         string
	ManifestPath string
	Project      domain.Project
}

// InitProject creates a new project directory at root (creating it if needed),
// scaffolds the standard subfolders, and writes the manifest transactionally.
func InitProject(root, title, description string) (*ProjectHandle, error) {
	if strings.TrimSpace(root) == "" {
		return nil, errors.New("root path is required")
	}
	if strings.TrimSpace(title) == "" {
		return nil, errors.New("project title is required")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create project root: %w", err)
	}
	for _, d := range standardSubDirs {
		if err := os.MkdirAll(filepath.Join(root, d), 0o755); err != nil {
			return nil, fmt.Errorf("create subdir %s: %w", d, err)
		}
	}

	now := time.Now().UTC().Format(time.RFC3339)
	ph := &ProjectHandle{
		Root:         root,
		ManifestPath: filepath.Join(root, ManifestFileName),
		Project: domain.Project{
			ID:          uuid.NewString(),
			Title:       title,
			Description: description,
			Scenes:      []domain.Scene{},
			Characters:  []string{},
			CreatedAt:   now,
			UpdatedAt:   now,
		},
	}
	if err := Save(ph); err != nil {
		return nil, err
	}
	return ph, nil
}

// Open loads an existing project from the given root directory. If the
// current manifest cannot be read or parsed, it falls back to the latest
// backup.
func Open(root string) (*ProjectHandle, error) {
	mpath := filepath.Join(root, ManifestFileName)
	b, err := os.ReadFile(mpath)
	if err != nil {
		proj, berr := openFromLatestBackup(root)
		if berr != nil {
			return nil, fmt.Errorf("open manifest: %w; backup attempt: %v", err, berr)
		}
		return &ProjectHandle{Root: root, ManifestPath: mpath, Project: *proj}, nil
	}
	var p domain.Project
	if uerr := json.Unmarshal(b, &p); uerr != nil {
		proj, berr := openFromLatestBackup(root)
		if berr != nil {
			return nil, fmt.Errorf("parse manifest: %w; backup attempt: %v", uerr, berr)
		}
		return &ProjectHandle{Root: root, ManifestPath: mpath, Project: *proj}, nil
	}
	return &ProjectHandle{Root: root, ManifestPath: mpath, Project: p}, nil
}

// Save writes the manifest to disk with transactional semantics and a
// timestamped backup of the previous manifest (if present).
func Save(ph *ProjectHandle) error {
	if ph == nil {
		return errors.New("nil ProjectHandle")
	}
	if ph.Root == "" || ph.ManifestPath == "" {
		return errors.New("invalid ProjectHandle: missing paths")
	}
	ph.Project.UpdatedAt = time.Now().UTC().Format(time.RFC3339)
	data, err := json.MarshalIndent(ph.Project, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal manifest: %w", err)
	}
	data = append(data, '\n')

	bdir := filepath.Join(ph.Root, BackupsDirName)
	if err := os.MkdirAll(bdir, 0o755); err != nil {
		return fmt.Errorf("ensure backups dir: %w", err)
	}
	if _, statErr := os.Stat(ph.ManifestPath); statErr == nil {
		stamp := time.Now().Format("20060102-150405")
		bpath := filepath.Join(bdir, fmt.Sprintf("%s.%s.bak", ManifestFileName, stamp))
		if cerr := copyFile(ph.ManifestPath, bpath); cerr != nil {
			return fmt.Errorf("backup current manifest: %w", cerr)
		}
	}

	// Write to a temp file in the same directory, then rename over target.
	dir := filepath.Dir(ph.ManifestPath)
	temp := filepath.Join(dir, fmt.Sprintf(".%s.tmp-%d-%d", ManifestFileName, os.Getpid(), rand.Int()))
	if werr := writeFileSync(temp, data); werr != nil {
		return fmt.Errorf("write temp manifest: %w", werr)
	}
	if _, err := os.Stat(ph.ManifestPath); err == nil {
		_ = os.Remove(ph.ManifestPath)
	}
	if rerr := os.Rename(temp, ph.ManifestPath); rerr != nil {
		_ = os.Remove(temp)
		return fmt.Errorf("replace manifest: %w", rerr)
	}
	return nil
}

// ImportScript replaces the project's scenes and characters with a fresh
// parse result and clears any prior character selection that no longer
// resolves. The raw text itself is snapshotted separately via the index.
func ImportScript(ph *ProjectHandle, res script.Result) error {
	if ph == nil {
		return errors.New("nil ProjectHandle")
	}
	ph.Project.Scenes = res.Scenes
	ph.Project.Characters = res.Characters
	if ph.Project.UserCharacter != "" && !hasCharacter(ph.Project, ph.Project.UserCharacter) {
		ph.Project.UserCharacter = ""
	}
	return Save(ph)
}

// SetUserCharacter records which character the user will read and marks
// IsUserLine on every line accordingly. The character must exist in the
// project.
func SetUserCharacter(ph *ProjectHandle, character string) error {
	if ph == nil {
		return errors.New("nil ProjectHandle")
	}
	if !hasCharacter(ph.Project, character) {
		return fmt.Errorf("character %q not found in project", character)
	}
	ph.Project.UserCharacter = character
	for si := range ph.Project.Scenes {
		lines := ph.Project.Scenes[si].Lines
		for li := range lines {
			lines[li].IsUserLine = lines[li].Character == character
		}
	}
	return Save(ph)
}

// ReaderData is the projection handed to the teleprompter reader.
type ReaderData struct {
	ProjectID     string         `json:"projectId"`
	ProjectTitle  string         `json:"projectTitle"`
	UserCharacter string         `json:"userCharacter,omitempty"`
	Scenes        []domain.Scene `json:"scenes"`
	Characters    []string       `json:"characters"`
}

// Reader builds the reader projection for the project.
func Reader(ph *ProjectHandle) (ReaderData, error) {
	if ph == nil {
		return ReaderData{}, errors.New("nil ProjectHandle")
	}
	return ReaderData{
		ProjectID:     ph.Project.ID,
		ProjectTitle:  ph.Project.Title,
		UserCharacter: ph.Project.UserCharacter,
		Scenes:        ph.Project.Scenes,
		Characters:    ph.Project.Characters,
	}, nil
}

func hasCharacter(p domain.Project, name string) bool {
	for _, c := range p.Characters {
		if c == name {
			return true
		}
	}
	return false
}

// AutosaveCrashSnapshot writes the in-memory manifest to a crash-stamped file
// in the backups folder without touching the current manifest.
func AutosaveCrashSnapshot(ph *ProjectHandle) (string, error) {
	if ph == nil {
		return "", errors.New("nil ProjectHandle")
	}
	data, err := json.MarshalIndent(ph.Project, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal manifest: %w", err)
	}
	bdir := filepath.Join(ph.Root, BackupsDirName)
	if err := os.MkdirAll(bdir, 0o755); err != nil {
		return "", fmt.Errorf("ensure backups dir: %w", err)
	}
	stamp := time.Now().Format("20060102-150405")
	path := filepath.Join(bdir, fmt.Sprintf("%s.%s.crash", ManifestFileName, stamp))
	if err := writeFileSync(path, data); err != nil {
		return "", err
	}
	return path, nil
}

// writeFileSync writes data to a file and flushes it to disk.
func writeFileSync(path string, data []byte) (err error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	if _, err := f.Write(data); err != nil {
		return err
	}
	return f.Sync()
}

// copyFile copies a file from src to dst (overwrites dst if it exists).
func copyFile(src, dst string) (err error) {
	sf, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := sf.Close(); err == nil {
			err = cerr
		}
	}()
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	df, err := os.OpenFile(dst, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := df.Close(); err == nil {
			err = cerr
		}
	}()
	if _, err := io.Copy(df, sf); err != nil {
		return err
	}
	return df.Sync()
}

// openFromLatestBackup tries to open the latest timestamped backup.
func openFromLatestBackup(root string) (*domain.Project, error) {
	bdir := filepath.Join(root, BackupsDirName)
	ents, err := os.ReadDir(bdir)
	if err != nil {
		return nil, fmt.Errorf("read backups dir: %w", err)
	}
	var candidates []string
	for _, e := range ents {
		name := e.Name()
		if strings.HasPrefix(name, ManifestFileName+".") && strings.HasSuffix(name, ".bak") {
			candidates = append(candidates, filepath.Join(bdir, name))
		}
	}
	if len(candidates) == 0 {
		return nil, errors.New("no backups found")
	}
	sort.Strings(candidates) // timestamp in name yields lexicographic order
	latest := candidates[len(candidates)-1]
	b, err := os.ReadFile(latest)
	if err != nil {
		return nil, fmt.Errorf("read latest backup: %w", err)
	}
	var p domain.Project
	if err := json.Unmarshal(b, &p); err != nil {
		return nil, fmt.Errorf("parse latest backup: %w", err)
	}
	return &p, nil
}

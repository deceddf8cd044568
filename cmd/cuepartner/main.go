/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"cuepartner/internal/annotate"
	"cuepartner/internal/config"
	"cuepartner/internal/crash"
	"cuepartner/internal/export"
	applog "cuepartner/internal/log"
	"cuepartner/internal/script"
	"cuepartner/internal/storage"
	"cuepartner/internal/telemetry"
	"cuepartner/internal/version"
)

func usage() {
	fmt.Println("CuePartner — rehearsal script tool")
	fmt.Printf("Version: %s\n", version.String())
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  cuepartner version|-v|--version               Show version")
	fmt.Println("  cuepartner init <dir> <title>                 Create a new project at <dir>")
	fmt.Println("  cuepartner open <dir>                         Open project at <dir> and print summary")
	fmt.Println("  cuepartner import <dir> <script.txt> [pdf]    Parse a script file into the project")
	fmt.Println("  cuepartner cast <dir> <character>             Choose the character you will read")
	fmt.Println("  cuepartner annotate <dir>                     Profile the cast via the configured analyzer")
	fmt.Println("  cuepartner search <dir> <query>               Full-text search over dialogue")
	fmt.Println("  cuepartner export <dir> [out.pdf]             Export printable rehearsal sides")
}

func main() {
	applog.Init(applog.FromEnv())
	l := applog.WithComponent("cli")
	var ph *storage.ProjectHandle
	defer func() { crash.Recover(ph) }()

	args := os.Args
	l.Debug("start", slog.Int("args", len(args)))
	if len(args) < 2 {
		usage()
		return
	}

	switch args[1] {
	case "version", "--version", "-v":
		fmt.Println("CuePartner — rehearsal script tool")
		fmt.Println(version.String())
	case "init":
		if len(args) < 4 {
			fmt.Println("init requires <dir> and <title>")
			usage()
			os.Exit(2)
		}
		abs, _ := filepath.Abs(args[2])
		l.Info("init project", slog.String("root", abs), slog.String("title", args[3]))
		h, err := storage.InitProject(abs, args[3], "")
		if err != nil {
			fail(l, "init failed", err)
		}
		ph = h
		telemetry.Event("project_created", nil)
		fmt.Println("Created project at", abs)
	case "open":
		h := mustOpen(l, args, 2)
		ph = h
		fmt.Printf("Opened project: %s\n", h.Project.Title)
		fmt.Printf("Characters: %s\n", strings.Join(h.Project.Characters, ", "))
		for _, sc := range h.Project.Scenes {
			fmt.Printf("Scene %q: %d lines\n", sc.Name, len(sc.Lines))
		}
		if h.Project.UserCharacter != "" {
			fmt.Println("Reading:", h.Project.UserCharacter)
		}
	case "import":
		if len(args) < 4 {
			fmt.Println("import requires <dir> and <script.txt>")
			usage()
			os.Exit(2)
		}
		h := mustOpen(l, args, 2)
		ph = h

		raw, err := readScript(args[3])
		if err != nil {
			fail(l, "read script failed", err)
		}
		cfg := config.Defaults()
		if loaded, err := config.Load(); err == nil {
			cfg = loaded
		}
		source := cfg.Parser.Source
		if len(args) > 4 {
			source = args[4]
		}
		var opts script.Options
		if strings.EqualFold(source, "pdf") {
			opts.Source = script.SourcePDF
		}
		if len(cfg.Parser.ExtraSkipWords) > 0 {
			opts.SkipWords = append(script.DefaultSkipWords(opts.Source), cfg.Parser.ExtraSkipWords...)
		}
		res, err := script.Parse(raw, opts)
		if err != nil {
			fail(l, "parse failed", err)
		}
		if err := storage.ImportScript(h, res); err != nil {
			fail(l, "import failed", err)
		}
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := storage.SaveScriptSnapshot(ctx, h, raw, source, time.Now()); err != nil {
			l.Warn("script snapshot failed", slog.Any("err", err))
		}
		if err := storage.RebuildLineIndex(ctx, h); err != nil {
			l.Warn("line index rebuild failed", slog.Any("err", err))
		}
		telemetry.Event("script_imported", map[string]any{"characters": len(res.Characters)})
		fmt.Printf("Imported %d characters, %d lines\n", len(res.Characters), countLines(res))
	case "cast":
		if len(args) < 4 {
			fmt.Println("cast requires <dir> and <character>")
			usage()
			os.Exit(2)
		}
		h := mustOpen(l, args, 2)
		ph = h
		if err := storage.SetUserCharacter(h, args[3]); err != nil {
			fail(l, "cast failed", err)
		}
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := storage.RebuildLineIndex(ctx, h); err != nil {
			l.Warn("line index rebuild failed", slog.Any("err", err))
		}
		fmt.Printf("You are reading %s\n", args[3])
	case "annotate":
		h := mustOpen(l, args, 2)
		ph = h
		cfg, err := config.Load()
		if err != nil {
			cfg = config.Defaults()
		}
		apiKey, _ := config.Secrets.Get(config.KeyAnnotatorAPIKey)
		client := annotate.NewClient(cfg.Annotator.BaseURL, apiKey, time.Duration(cfg.Annotator.TimeoutMs)*time.Millisecond)

		ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
		defer cancel()
		snap, ok, err := storage.LatestScriptSnapshot(ctx, h)
		if err != nil {
			l.Warn("no script snapshot available", slog.Any("err", err))
		}
		req := annotate.CharacterRequest{Characters: h.Project.Characters}
		if ok {
			req.ScriptText = snap.Text
		}
		analyses, err := client.AnalyzeCharacters(ctx, req)
		if err != nil {
			fail(l, "character analysis failed", err)
		}
		annotate.ApplyCharacterAnalyses(&h.Project, analyses)
		if err := storage.Save(h); err != nil {
			fail(l, "save failed", err)
		}
		fmt.Printf("Annotated %d characters\n", len(analyses))
	case "search":
		if len(args) < 4 {
			fmt.Println("search requires <dir> and <query>")
			usage()
			os.Exit(2)
		}
		abs, _ := filepath.Abs(args[2])
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		res, err := storage.Search(ctx, abs, storage.SearchQuery{Text: strings.Join(args[3:], " ")})
		if err != nil {
			fail(l, "search failed", err)
		}
		for _, r := range res {
			fmt.Printf("#%d %s: %s\n", r.Seq, r.Character, r.Snippet)
		}
		if len(res) == 0 {
			fmt.Println("No matches.")
		}
	case "export":
		h := mustOpen(l, args, 2)
		ph = h
		out := filepath.Join(h.Root, "exports", "sides.pdf")
		if len(args) > 3 {
			out = args[3]
		}
		if err := export.ExportSidesPDF(h, out, export.SidesOptions{HighlightUser: true}); err != nil {
			fail(l, "export failed", err)
		}
		telemetry.Event("sides_exported", nil)
		fmt.Println("Wrote", out)
	default:
		usage()
	}
}

func mustOpen(l *slog.Logger, args []string, idx int) *storage.ProjectHandle {
	if len(args) <= idx {
		fmt.Println("missing <dir>")
		usage()
		os.Exit(2)
	}
	abs, _ := filepath.Abs(args[idx])
	l.Info("open project", slog.String("root", abs))
	h, err := storage.Open(abs)
	if err != nil {
		fail(l, "open failed", err)
	}
	return h
}

func readScript(path string) (string, error) {
	if path == "-" {
		b, err := io.ReadAll(os.Stdin)
		return string(b), err
	}
	b, err := os.ReadFile(path)
	return string(b), err
}

func countLines(res script.Result) int {
	n := 0
	for _, sc := range res.Scenes {
		n += len(sc.Lines)
	}
	return n
}

func fail(l *slog.Logger, msg string, err error) {
	l.Error(msg, slog.Any("err", err))
	fmt.Println("Error:", err)
	os.Exit(1)
}

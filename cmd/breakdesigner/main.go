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
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"breakdesigner/internal/backend"
	"breakdesigner/internal/breaktypes"
	"breakdesigner/internal/config"
	"breakdesigner/internal/crash"
	"breakdesigner/internal/domain"
	"breakdesigner/internal/export"
	applog "breakdesigner/internal/log"
	"breakdesigner/internal/storage"
	"breakdesigner/internal/telemetry"
	"breakdesigner/internal/ui"
	"breakdesigner/internal/version"
)

func usage() {
	fmt.Println("Break Designer — break screen studio")
	fmt.Println(version.String())
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  breakdesigner version|-v|--version         Show version")
	fmt.Println("  breakdesigner init <dir> [name]             Create a new studio at <dir>")
	fmt.Println("  breakdesigner open <dir>                    Open studio at <dir> and print a summary")
	fmt.Println("  breakdesigner check <dir>                   Lint layouts and validate the manifest schema")
	fmt.Println("  breakdesigner search <dir> <query>          Full-text search over the studio index")
	fmt.Println("  breakdesigner export <dir> [flags]          Export layouts (--layout, --format png|svg|pdf,")
	fmt.Println("                                              --preset screen|print, --scale, --out)")
	fmt.Println("  breakdesigner publish <dir> --layout <id>   Publish a layout to the sync server")
	fmt.Println("  breakdesigner pack <dir> <zip>              Export the studio's break types as a pack")
	fmt.Println("  breakdesigner install <dir> <zip>           Install a break-type pack into the studio")
	fmt.Println("  breakdesigner serve                         Run the publish/sync server")
	fmt.Println("  breakdesigner ui [<dir>]                    Launch the designer (build with -tags fyne for full UI)")
}

func main() {
	// Config first so file settings reach the logger; env overrides are
	// already folded in by Load.
	cfg, token, cfgErr := config.Load()
	if cfgErr != nil {
		applog.Init(applog.FromEnv())
	} else {
		applog.Init(applog.Options{
			Level:     cfg.Logging.Level,
			Format:    cfg.Logging.Format,
			AddSource: cfg.Logging.Source,
			File:      cfg.Logging.File,
		})
	}
	l := applog.WithComponent("cli")
	if cfgErr != nil {
		l.Warn("config load failed, using defaults", slog.Any("err", cfgErr))
	}
	initTelemetry(cfg)

	var sh *storage.StudioHandle
	defer func() { crash.Recover(sh) }()

	args := os.Args
	l.Debug("start", slog.Int("args", len(args)))
	if len(args) < 2 {
		usage()
		return
	}

	switch args[1] {
	case "version", "--version", "-v":
		fmt.Println("Break Designer — break screen studio")
		fmt.Println(version.String())
		return
	case "init":
		if len(args) < 3 {
			fmt.Println("init requires <dir>")
			usage()
			os.Exit(2)
		}
		abs, _ := filepath.Abs(args[2])
		name := filepath.Base(abs)
		if len(args) >= 4 {
			name = args[3]
		}
		l.Info("init studio", slog.String("root", abs), slog.String("name", name))
		h, err := storage.InitStudio(abs, domain.Studio{Name: name, Layouts: []domain.Layout{}})
		if err != nil {
			l.Error("init failed", slog.Any("err", err))
			fmt.Println("Error:", err)
			os.Exit(1)
		}
		sh = h
		fmt.Println("Created studio at", abs)
		return
	case "open":
		if len(args) < 3 {
			fmt.Println("open requires <dir>")
			usage()
			os.Exit(2)
		}
		h := openStudio(l, args[2])
		sh = h
		fmt.Printf("Opened studio: %s\n", h.Studio.Name)
		fmt.Printf("Layouts: %d\n", len(h.Studio.Layouts))
		for _, lo := range h.Studio.Layouts {
			bt := lo.BreakType
			if bt == "" {
				bt = "-"
			}
			fmt.Printf("  %s  %q  break=%s  canvas=%gx%g  widgets=%d\n",
				lo.ID, lo.Name, bt, lo.Canvas.Width, lo.Canvas.Height, len(lo.Widgets))
		}
		fmt.Println("Root:", h.Root)
		return
	case "check":
		if len(args) < 3 {
			fmt.Println("check requires <dir>")
			usage()
			os.Exit(2)
		}
		h := openStudio(l, args[2])
		sh = h
		problems := storage.ValidateStudio(h.Studio)
		if data, err := os.ReadFile(h.ManifestPath); err != nil {
			problems = append(problems, fmt.Sprintf("read manifest: %v", err))
		} else if err := storage.ValidateManifest(data); err != nil {
			problems = append(problems, fmt.Sprintf("schema: %v", err))
		}
		problems = append(problems, checkBreakTypes(h)...)
		if len(problems) == 0 {
			fmt.Printf("OK: %d layout(s), no problems found\n", len(h.Studio.Layouts))
			return
		}
		for _, p := range problems {
			fmt.Println("  -", p)
		}
		fmt.Printf("%d problem(s) found\n", len(problems))
		os.Exit(1)
	case "search":
		if len(args) < 4 {
			fmt.Println("search requires <dir> and <query>")
			usage()
			os.Exit(2)
		}
		h := openStudio(l, args[2])
		sh = h
		query := strings.Join(args[3:], " ")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := storage.BuildIndexIfEmpty(ctx, h.Root, h.Studio); err != nil {
			l.Warn("index build failed", slog.Any("err", err))
		}
		results, err := storage.Search(ctx, h.Root, storage.SearchQuery{Text: query})
		if err != nil {
			l.Error("search failed", slog.Any("err", err))
			fmt.Println("Error:", err)
			os.Exit(1)
		}
		if len(results) == 0 {
			fmt.Println("No matches.")
			return
		}
		for _, r := range results {
			loc := r.LayoutID
			if r.WidgetID != "" {
				loc += "/" + r.WidgetID
			}
			if loc == "" {
				loc = "-"
			}
			fmt.Printf("  %-14s %-24s %s\n", r.Type, loc, r.Snippet)
		}
		fmt.Printf("%d match(es)\n", len(results))
		return
	case "export":
		if len(args) < 3 {
			fmt.Println("export requires <dir>")
			usage()
			os.Exit(2)
		}
		fs := flag.NewFlagSet("export", flag.ExitOnError)
		layoutID := fs.String("layout", "", "layout id (default: all layouts)")
		format := fs.String("format", "png", "output format: png, svg or pdf")
		preset := fs.String("preset", "", "run a preset batch: screen or print (overrides --format)")
		scale := fs.Float64("scale", 0, "PNG pixels per canvas unit (0 uses the default)")
		out := fs.String("out", "", "output directory or pdf path, relative to <studio>/exports")
		_ = fs.Parse(args[3:])
		h := openStudio(l, args[2])
		sh = h
		runExport(l, h, *layoutID, *format, *preset, *scale, *out)
		return
	case "publish":
		if len(args) < 3 {
			fmt.Println("publish requires <dir>")
			usage()
			os.Exit(2)
		}
		fs := flag.NewFlagSet("publish", flag.ExitOnError)
		layoutID := fs.String("layout", "", "layout id to publish")
		_ = fs.Parse(args[3:])
		if *layoutID == "" {
			fmt.Println("publish requires --layout <id>")
			os.Exit(2)
		}
		h := openStudio(l, args[2])
		sh = h
		lo, ok := h.Studio.LayoutByID(*layoutID)
		if !ok {
			fmt.Printf("Error: unknown layout %q\n", *layoutID)
			os.Exit(1)
		}
		if token == "" {
			fmt.Println("Error: no sync token configured. Set " + config.EnvSyncToken + " or save one via settings.")
			os.Exit(1)
		}
		cli := backend.NewClient(cfg.Backend.BaseURL, token)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		pub, err := cli.PublishLayout(ctx, *lo)
		if err != nil {
			l.Error("publish failed", slog.String("layout", *layoutID), slog.Any("err", err))
			fmt.Println("Error:", err)
			os.Exit(1)
		}
		l.Info("layout published", slog.String("layout", pub.LayoutID), slog.Int64("version", pub.Version))
		fmt.Printf("Published %s as version %d (stable id %s)\n", pub.LayoutID, pub.Version, pub.StableID)
		telemetry.Event("layout_published", map[string]any{"layout": pub.LayoutID, "version": pub.Version})
		telemetry.Flush(ctx)
		return
	case "pack":
		if len(args) < 4 {
			fmt.Println("pack requires <dir> and <zip>")
			usage()
			os.Exit(2)
		}
		h := openStudio(l, args[2])
		sh = h
		dest := args[3]
		if err := breaktypes.ExportPack(h.Root, dest); err != nil {
			l.Error("pack export failed", slog.Any("err", err))
			fmt.Println("Error:", err)
			os.Exit(1)
		}
		fmt.Println("Wrote break-type pack", dest)
		return
	case "install":
		if len(args) < 4 {
			fmt.Println("install requires <dir> and <zip>")
			usage()
			os.Exit(2)
		}
		h := openStudio(l, args[2])
		sh = h
		n, err := breaktypes.InstallPack(h.Root, args[3])
		if err != nil {
			l.Error("pack install failed", slog.Any("err", err))
			fmt.Println("Error:", err)
			os.Exit(1)
		}
		fmt.Printf("Installed %d break type(s) into %s\n", n, filepath.Join(h.Root, breaktypes.DirName))
		return
	case "serve":
		l.Info("starting publish server")
		if err := backend.Start(); err != nil {
			l.Error("server stopped", slog.Any("err", err))
			fmt.Println("Error:", err)
			os.Exit(1)
		}
		return
	case "ui":
		var h *storage.StudioHandle
		if len(args) >= 3 {
			h = openStudio(l, args[2])
			sh = h
		}
		if err := ui.Run(h); err != nil {
			fmt.Println("Error:", err)
			os.Exit(1)
		}
		return
	default:
		fmt.Println("Unknown command:", args[1])
		usage()
		os.Exit(2)
	}
}

// openStudio resolves dir and opens the studio, exiting with a message when
// that fails. Shared by every subcommand that takes a studio directory.
func openStudio(l *slog.Logger, dir string) *storage.StudioHandle {
	abs, _ := filepath.Abs(dir)
	l.Info("open studio", slog.String("root", abs))
	h, err := storage.Open(abs)
	if err != nil {
		l.Error("open failed", slog.String("root", abs), slog.Any("err", err))
		fmt.Println("Error:", err)
		os.Exit(1)
	}
	return h
}

// runExport handles the export subcommand once flags are parsed. A preset
// delegates to the batch pipeline; otherwise one format is exported for one
// or all layouts.
func runExport(l *slog.Logger, h *storage.StudioHandle, layoutID, format, preset string, scale float64, out string) {
	if preset != "" {
		var layouts []string
		if layoutID != "" {
			layouts = []string{layoutID}
		}
		opt := export.BatchOptions{
			Preset:  export.PresetName(preset),
			Layouts: layouts,
			Scale:   scale,
			OutDir:  out,
		}
		if err := export.BatchExport(h, opt); err != nil {
			l.Error("batch export failed", slog.String("preset", preset), slog.Any("err", err))
			fmt.Println("Error:", err)
			os.Exit(1)
		}
		fmt.Println("Batch export complete:", filepath.Join(h.Root, "exports"))
		return
	}

	ids := make([]string, 0, len(h.Studio.Layouts))
	if layoutID != "" {
		ids = append(ids, layoutID)
	} else {
		for _, lo := range h.Studio.Layouts {
			ids = append(ids, lo.ID)
		}
	}
	if len(ids) == 0 {
		fmt.Println("Error: studio has no layouts")
		os.Exit(1)
	}

	switch format {
	case "png":
		for _, id := range ids {
			if err := export.ExportLayoutPNG(h, id, out, export.PNGOptions{Scale: scale}); err != nil {
				l.Error("png export failed", slog.String("layout", id), slog.Any("err", err))
				fmt.Println("Error:", err)
				os.Exit(1)
			}
		}
	case "svg":
		for _, id := range ids {
			if err := export.ExportLayoutSVG(h, id, out, export.SVGOptions{}); err != nil {
				l.Error("svg export failed", slog.String("layout", id), slog.Any("err", err))
				fmt.Println("Error:", err)
				os.Exit(1)
			}
		}
	case "pdf":
		outPath := out
		if outPath == "" {
			outPath = "proof-sheet.pdf"
		}
		if err := export.ExportProofSheetPDF(h, ids, outPath, export.PDFOptions{Annotate: true}); err != nil {
			l.Error("pdf export failed", slog.Any("err", err))
			fmt.Println("Error:", err)
			os.Exit(1)
		}
		if !filepath.IsAbs(outPath) {
			outPath = filepath.Join(h.Root, "exports", outPath)
		}
		fmt.Printf("Exported proof sheet with %d layout(s) to %s\n", len(ids), outPath)
		return
	default:
		fmt.Printf("Unknown format %q (want png, svg or pdf)\n", format)
		os.Exit(2)
	}
	dest := out
	if !filepath.IsAbs(dest) {
		dest = filepath.Join(h.Root, "exports", dest)
	}
	fmt.Printf("Exported %d layout(s) as %s to %s\n", len(ids), format, dest)
}

// checkBreakTypes lints the studio's break-type definitions and flags layouts
// referencing a break type no definition provides. Studios without any
// definitions skip the reference check since the field is free-form there.
func checkBreakTypes(h *storage.StudioHandle) []string {
	defs, err := breaktypes.LoadAll(h.Root)
	if err != nil {
		return []string{fmt.Sprintf("break types: %v", err)}
	}
	var out []string
	known := make(map[string]bool, len(defs))
	for _, d := range defs {
		known[d.Slug()] = true
		out = append(out, d.Validate()...)
	}
	if len(defs) == 0 {
		return out
	}
	for _, lo := range h.Studio.Layouts {
		if lo.BreakType != "" && !known[lo.BreakType] {
			out = append(out, fmt.Sprintf("layout %s: no definition for break type %q", lo.ID, lo.BreakType))
		}
	}
	return out
}

// initTelemetry installs the default client. The config opt-in counts in
// addition to the env toggle, and the configured backend doubles as the
// collector endpoint when no explicit URL is set.
func initTelemetry(cfg config.AppConfig) {
	tc := telemetry.FromEnv()
	if cfg.General.TelemetryOptIn {
		tc.OptIn = true
	}
	if base := strings.TrimRight(cfg.Backend.BaseURL, "/"); base != "" {
		if tc.EventsURL == "" {
			tc.EventsURL = base + "/api/telemetry"
		}
		if tc.CrashURL == "" {
			tc.CrashURL = base + "/api/telemetry"
		}
	}
	telemetry.NewDefault(tc)
}

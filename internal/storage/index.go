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
	"os"
	"path/filepath"
	"strings"
	"time"

	"breakdesigner/internal/domain"
	applog "breakdesigner/internal/log"
	"breakdesigner/internal/version"
	"log/slog"

	// Pure-Go SQLite driver (CGO-free)
	_ "modernc.org/sqlite"
)

const (
	// IndexDirName stores all per-studio ephemeral/index data under the studio root.
	IndexDirName  = ".brd"
	IndexFileName = "index.sqlite"

	// schemaVersion tracks the local SQLite schema for the embedded index.
	// Bump this when you perform breaking schema changes and add migrations.
	schemaVersion = 2
)

// IndexPath returns the full path to the studio's embedded index database file.
func IndexPath(studioRoot string) string {
	return filepath.Join(studioRoot, IndexDirName, IndexFileName)
}

// InitOrOpenIndex ensures that the per-studio SQLite index exists at .brd/index.sqlite,
// opens the database, enables WAL mode, and ensures the meta/version tables exist.
// The returned *sql.DB is ready for use. Callers may close it when no longer needed.
func InitOrOpenIndex(studioRoot string) (*sql.DB, error) {
	l := applog.WithOperation(applog.WithComponent("storage"), "index_init").With(
		slog.String("root", studioRoot),
	)
	if stringsTrim(studioRoot) == "" {
		return nil, errors.New("studio root is required")
	}
	// Ensure directory exists
	if err := os.MkdirAll(filepath.Join(studioRoot, IndexDirName), 0o755); err != nil {
		l.Error("create .brd dir failed", slog.Any("err", err))
		return nil, fmt.Errorf("create .brd dir: %w", err)
	}

	path := IndexPath(studioRoot)
	// Use a URI with shared cache and set busy timeout. Convert to forward slashes for SQLite URI.
	uriPath := filepath.ToSlash(path)
	dsn := fmt.Sprintf("file:%s?cache=shared&_pragma=busy_timeout(5000)", uriPath)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		l.Error("sqlite open failed", slog.Any("err", err))
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// Set reasonable connection pool limits for embedded usage.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Ensure WAL mode is active.
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL;"); err != nil {
		_ = db.Close()
		l.Error("enable WAL failed", slog.Any("err", err))
		return nil, fmt.Errorf("enable WAL: %w", err)
	}
	// Enforce foreign keys; cross_refs relies on cascading deletes.
	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys=ON;"); err != nil {
		l.Warn("enable foreign_keys failed", slog.Any("err", err))
	}

	if err := ensureMetaAndVersion(ctx, db); err != nil {
		_ = db.Close()
		l.Error("ensure meta/version failed", slog.Any("err", err))
		return nil, err
	}
	// Ensure core index schema exists (documents, FTS, cross-refs, assets, previews, snapshots)
	if err := ensureIndexSchema(ctx, db); err != nil {
		_ = db.Close()
		l.Error("ensure index schema failed", slog.Any("err", err))
		return nil, err
	}
	// Run migrations to bring DB schema up to date
	if err := runMigrations(ctx, db); err != nil {
		_ = db.Close()
		l.Error("run migrations failed", slog.Any("err", err))
		return nil, err
	}

	l.Info("index ready", slog.String("path", path))
	return db, nil
}

func ensureMetaAndVersion(ctx context.Context, db *sql.DB) error {
	// Create tables if not exist
	ddl := []string{
		`CREATE TABLE IF NOT EXISTS meta (
			key   TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS version (
			id          INTEGER PRIMARY KEY CHECK(id=1),
			schema      INTEGER NOT NULL,
			app         TEXT,
			created_at  TEXT NOT NULL,
			updated_at  TEXT NOT NULL
		);`,
	}
	for _, q := range ddl {
		if _, err := db.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("create table: %w", err)
		}
	}
	// Seed or update single-row version info
	now := time.Now().UTC().Format(time.RFC3339)
	appv := version.String()
	// Check if a version row exists
	var curSchema int
	err := db.QueryRowContext(ctx, `SELECT schema FROM version WHERE id=1`).Scan(&curSchema)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		// Insert new row with current schemaVersion for a fresh DB
		if _, err := db.ExecContext(ctx, `INSERT INTO version (id, schema, app, created_at, updated_at) VALUES(1, ?, ?, ?, ?)`, schemaVersion, appv, now, now); err != nil {
			return fmt.Errorf("insert version: %w", err)
		}
	case err != nil:
		return fmt.Errorf("read version: %w", err)
	default:
		// Update app and timestamp only; keep existing schema for migrations
		if _, err := db.ExecContext(ctx, `UPDATE version SET app=?, updated_at=? WHERE id=1`, appv, now); err != nil {
			return fmt.Errorf("update version: %w", err)
		}
	}
	return nil
}

// runMigrations applies incremental schema migrations up to schemaVersion.
func runMigrations(ctx context.Context, db *sql.DB) error {
	var cur int
	if err := db.QueryRowContext(ctx, `SELECT schema FROM version WHERE id=1`).Scan(&cur); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if cur > schemaVersion {
		// Do not downgrade; just log and continue
		return nil
	}
	for cur < schemaVersion {
		next := cur + 1
		switch next {
		case 2:
			// Add helpful indexes for cross-refs and optimize FTS
			tx, err := db.BeginTx(ctx, nil)
			if err != nil {
				return fmt.Errorf("begin migration %d: %w", next, err)
			}
			stmts := []string{
				`CREATE INDEX IF NOT EXISTS idx_cross_refs_to ON cross_refs(to_id);`,
				`CREATE INDEX IF NOT EXISTS idx_cross_refs_from ON cross_refs(from_id);`,
			}
			for _, q := range stmts {
				if _, err := tx.ExecContext(ctx, q); err != nil {
					_ = tx.Rollback()
					return fmt.Errorf("migration %d stmt failed: %w", next, err)
				}
			}
			if _, err := tx.ExecContext(ctx, `UPDATE version SET schema=?, updated_at=? WHERE id=1`, next, time.Now().UTC().Format(time.RFC3339)); err != nil {
				_ = tx.Rollback()
				return fmt.Errorf("migration %d update version: %w", next, err)
			}
			if err := tx.Commit(); err != nil {
				return fmt.Errorf("migration %d commit: %w", next, err)
			}
			// Best-effort FTS optimize (outside the tx)
			if _, err := db.ExecContext(ctx, `INSERT INTO fts_documents(fts_documents) VALUES('optimize')`); err != nil {
				// best-effort optimize; ignore errors
			}
		default:
			// Unknown future step; break
		}
		cur = next
	}
	return nil
}

// ensureIndexSchema creates core index tables and FTS structures if they do not exist.
func ensureIndexSchema(ctx context.Context, db *sql.DB) error {
	ddl := []string{
		// Core documents table: studio fields, layout names, break types, widget content.
		`CREATE TABLE IF NOT EXISTS documents (
			doc_id    INTEGER PRIMARY KEY,
			type      TEXT    NOT NULL,
			path      TEXT    NOT NULL,
			layout_id TEXT,
			widget_id TEXT,
			text      TEXT
		);`,
		// Helpful indices for lookup
		`CREATE INDEX IF NOT EXISTS idx_documents_path ON documents(path);`,
		`CREATE INDEX IF NOT EXISTS idx_documents_layout ON documents(layout_id);`,

		// Contentless FTS5 index fed from documents via triggers.
		`CREATE VIRTUAL TABLE IF NOT EXISTS fts_documents USING fts5(
			text,
			content='',
			tokenize = 'unicode61'
		);`,

		// Cross references between documents (group membership, where-used)
		`CREATE TABLE IF NOT EXISTS cross_refs (
			from_id INTEGER NOT NULL,
			to_id   INTEGER NOT NULL,
			PRIMARY KEY(from_id, to_id),
			FOREIGN KEY(from_id) REFERENCES documents(doc_id) ON DELETE CASCADE,
			FOREIGN KEY(to_id)   REFERENCES documents(doc_id) ON DELETE CASCADE
		);`,

		// Assets catalog: image and QR files referenced by widget properties.
		`CREATE TABLE IF NOT EXISTS assets (
			path      TEXT PRIMARY KEY,
			type      TEXT,
			ref_count INTEGER NOT NULL DEFAULT 0
		);`,
		`CREATE INDEX IF NOT EXISTS idx_assets_type ON assets(type);`,

		// Previews cache (layout/widget thumbnails)
		`CREATE TABLE IF NOT EXISTS previews (
			id         INTEGER PRIMARY KEY,
			layout_id  TEXT    NOT NULL,
			widget_id  TEXT,
			thumb_blob BLOB    NOT NULL,
			updated_at TEXT    NOT NULL
		);`,
		`CREATE UNIQUE INDEX IF NOT EXISTS ux_previews_layout_widget ON previews(layout_id, widget_id);`,

		// Snapshots (autosave history of layout changes)
		`CREATE TABLE IF NOT EXISTS snapshots (
			id         INTEGER PRIMARY KEY,
			layout_id  TEXT    NOT NULL,
			ts         TEXT    NOT NULL,
			delta_blob BLOB    NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_snapshots_layout_ts ON snapshots(layout_id, ts);`,
	}
	for _, q := range ddl {
		if _, err := db.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("ensure index schema: %w", err)
		}
	}
	// Triggers for contentless FTS synchronization with documents.text
	triggers := []string{
		`CREATE TRIGGER IF NOT EXISTS documents_ai AFTER INSERT ON documents BEGIN
			INSERT INTO fts_documents(rowid, text) VALUES (new.doc_id, new.text);
		END;`,
		`CREATE TRIGGER IF NOT EXISTS documents_ad AFTER DELETE ON documents BEGIN
			INSERT INTO fts_documents(fts_documents, rowid, text) VALUES ('delete', old.doc_id, old.text);
		END;`,
		`CREATE TRIGGER IF NOT EXISTS documents_au AFTER UPDATE OF text ON documents BEGIN
			INSERT INTO fts_documents(fts_documents, rowid, text) VALUES ('delete', old.doc_id, old.text);
			INSERT INTO fts_documents(rowid, text) VALUES (new.doc_id, new.text);
		END;`,
	}
	for _, q := range triggers {
		if _, err := db.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("ensure fts triggers: %w", err)
		}
	}
	// Perform previews schema migration/additional indexes for caching variants and LRU
	if err := EnsurePreviewsMigrated(ctx, db); err != nil {
		return err
	}
	return nil
}

// DetectAndRebuildIndex checks for corruption or missing schema and rebuilds the index if needed.
// It returns true when a rebuild was performed.
func DetectAndRebuildIndex(ctx context.Context, studioRoot string, st domain.Studio) (bool, error) {
	path := IndexPath(studioRoot)
	// Try to open DB; if fails, attempt backup+delete+rebuild
	db, err := InitOrOpenIndex(studioRoot)
	if err != nil {
		backupIndexFile(path)
		_ = os.Remove(path)
		if rbErr := RebuildIndex(ctx, studioRoot, st); rbErr != nil {
			return false, fmt.Errorf("rebuild after open failure: %w (open err: %v)", rbErr, err)
		}
		return true, nil
	}
	defer db.Close()
	needs := false
	// quick_check for corruption
	var chk string
	if err := db.QueryRowContext(ctx, `PRAGMA quick_check;`).Scan(&chk); err != nil || !strings.Contains(strings.ToLower(chk), "ok") {
		needs = true
	}
	// Probe core table
	if !needs {
		if _, err := db.ExecContext(ctx, `SELECT 1 FROM documents LIMIT 1;`); err != nil {
			needs = true
		}
	}
	if !needs {
		return false, nil
	}
	// Backup and remove existing DB file
	backupIndexFile(path)
	_ = os.Remove(path)
	// Rebuild
	if err := RebuildIndex(ctx, studioRoot, st); err != nil {
		return false, err
	}
	return true, nil
}

// backupIndexFile copies the current index file into a timestamped backup in .brd/backups.
func backupIndexFile(indexPath string) {
	bdir := filepath.Join(filepath.Dir(indexPath), "backups")
	_ = os.MkdirAll(bdir, 0o755)
	stamp := time.Now().Format("20060102-150405")
	bak := filepath.Join(bdir, fmt.Sprintf("%s.%s.bak", filepath.Base(indexPath), stamp))
	if data, err := os.ReadFile(indexPath); err == nil {
		_ = os.WriteFile(bak, data, 0o644)
	}
}

// stringsTrim trims spaces, tabs, and newlines.
func stringsTrim(s string) string {
	i := 0
	j := len(s)
	for i < j {
		c := s[i]
		if c == ' ' || c == '\t' || c == '\n' || c == '\r' {
			i++
			continue
		}
		break
	}
	for i < j {
		c := s[j-1]
		if c == ' ' || c == '\t' || c == '\n' || c == '\r' {
			j--
			continue
		}
		break
	}
	return s[i:j]
}

// BuildIndexIfEmpty ensures the DB exists and, if the documents table is
// empty, populates it from the given studio manifest.
func BuildIndexIfEmpty(ctx context.Context, studioRoot string, st domain.Studio) error {
	// Ensure the DB exists and is initialized
	db, err := InitOrOpenIndex(studioRoot)
	if err != nil {
		return err
	}
	defer db.Close()
	// Check if documents has any rows
	var cnt int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM documents;").Scan(&cnt); err != nil {
		return fmt.Errorf("check documents count: %w", err)
	}
	if cnt > 0 {
		return nil // already built
	}
	return rebuildDocumentsFromStudio(ctx, db, st)
}

// UpdateIndex updates the embedded index with changes from the studio manifest.
// Minimal safe implementation: replace the documents content from the provided manifest.
func UpdateIndex(ctx context.Context, studioRoot string, st domain.Studio) error {
	db, err := InitOrOpenIndex(studioRoot)
	if err != nil {
		return err
	}
	defer db.Close()
	return rebuildDocumentsFromStudio(ctx, db, st)
}

// RebuildIndex drops and recreates core index tables and rebuilds content from the manifest.
// It preserves meta/version tables. This is a safe operation; the index is derived from studio.json and assets.
func RebuildIndex(ctx context.Context, studioRoot string, st domain.Studio) error {
	db, err := InitOrOpenIndex(studioRoot)
	if err != nil {
		return err
	}
	defer db.Close()
	// Drop core tables inside a transaction and recreate schema
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	drops := []string{
		"DROP TABLE IF EXISTS cross_refs;",
		"DROP TABLE IF EXISTS assets;",
		"DROP TABLE IF EXISTS previews;",
		"DROP TABLE IF EXISTS snapshots;",
		"DROP TRIGGER IF EXISTS documents_ai;",
		"DROP TRIGGER IF EXISTS documents_ad;",
		"DROP TRIGGER IF EXISTS documents_au;",
		"DROP TABLE IF EXISTS documents;",
		"DROP TABLE IF EXISTS fts_documents;",
	}
	for _, q := range drops {
		if _, err := tx.ExecContext(ctx, q); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("drop schema: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("drop commit: %w", err)
	}
	// Recreate schema and populate
	if err := ensureIndexSchema(ctx, db); err != nil {
		return err
	}
	return rebuildDocumentsFromStudio(ctx, db, st)
}

// widgetSearchText extracts the searchable content of a widget record.
// Groups index their child id list so membership shows up in where-used
// lookups and plain searches alike.
func widgetSearchText(w domain.WidgetData) string {
	switch w.Type {
	case domain.TypeText:
		parts := make([]string, 0, 2)
		if s := stringsTrim(w.Properties.Text); s != "" {
			parts = append(parts, s)
		}
		if s := stringsTrim(w.Properties.Template); s != "" {
			parts = append(parts, s)
		}
		return strings.Join(parts, " ")
	case domain.TypeQR:
		parts := make([]string, 0, 2)
		if s := stringsTrim(w.Properties.Payload); s != "" {
			parts = append(parts, s)
		}
		if s := stringsTrim(w.Properties.ImageURL); s != "" {
			parts = append(parts, s)
		}
		return strings.Join(parts, " ")
	case domain.TypeImage:
		return stringsTrim(w.Properties.ImageURL)
	case domain.TypeGroup:
		return strings.Join(w.Properties.ChildIDs, " ")
	default:
		return ""
	}
}

// rebuildDocumentsFromStudio replaces the documents, cross_refs, and assets
// content from the given studio manifest. All three are derived from the same
// source, so they are rebuilt together.
func rebuildDocumentsFromStudio(ctx context.Context, db *sql.DB, st domain.Studio) error {
	type row struct {
		typeStr  string
		path     string
		layoutID sql.NullString
		widgetID sql.NullString
		text     string
	}
	rows := make([]row, 0, 256)
	// Studio-level metadata
	if s := stringsTrim(st.Name); s != "" {
		rows = append(rows, row{typeStr: "studio_name", path: "studio:name", text: s})
	}
	if s := stringsTrim(st.Metadata.Workspace); s != "" {
		rows = append(rows, row{typeStr: "studio_workspace", path: "studio:workspace", text: s})
	}
	if s := stringsTrim(st.Metadata.Owner); s != "" {
		rows = append(rows, row{typeStr: "studio_owner", path: "studio:owner", text: s})
	}
	if s := stringsTrim(st.Metadata.Notes); s != "" {
		rows = append(rows, row{typeStr: "studio_notes", path: "studio:notes", text: s})
	}
	// Layouts and widgets. Every widget gets a row, even text-less ones, so
	// group cross-references always have both endpoints.
	widgetPath := func(layoutID, widgetID string) string {
		return fmt.Sprintf("layout:%s/widget:%s", layoutID, widgetID)
	}
	for _, l := range st.Layouts {
		lid := sql.NullString{String: l.ID, Valid: true}
		if s := stringsTrim(l.Name); s != "" {
			rows = append(rows, row{typeStr: "layout_name", path: fmt.Sprintf("layout:%s:name", l.ID), layoutID: lid, text: s})
		}
		if s := stringsTrim(l.BreakType); s != "" {
			rows = append(rows, row{typeStr: "break_type", path: fmt.Sprintf("layout:%s:breaktype", l.ID), layoutID: lid, text: s})
		}
		for _, w := range l.Widgets {
			rows = append(rows, row{
				typeStr:  "widget_" + string(w.Type),
				path:     widgetPath(l.ID, w.ID),
				layoutID: lid,
				widgetID: sql.NullString{String: w.ID, Valid: true},
				text:     widgetSearchText(w),
			})
		}
	}
	// Write in a transaction: clear derived tables and insert new rows.
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	for _, q := range []string{"DELETE FROM cross_refs;", "DELETE FROM assets;", "DELETE FROM documents;"} {
		if _, err := tx.ExecContext(ctx, q); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("clear derived tables: %w", err)
		}
	}
	ins, err := tx.PrepareContext(ctx, "INSERT INTO documents(type, path, layout_id, widget_id, text) VALUES(?,?,?,?,?);")
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer ins.Close()
	byPath := make(map[string]int64, len(rows))
	for _, r := range rows {
		res, err := ins.ExecContext(ctx, r.typeStr, r.path, r.layoutID, r.widgetID, r.text)
		if err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("insert document: %w", err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("document id: %w", err)
		}
		byPath[r.path] = id
	}
	// Group membership edges: group doc -> member doc.
	xref, err := tx.PrepareContext(ctx, "INSERT OR IGNORE INTO cross_refs(from_id, to_id) VALUES(?,?);")
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("prepare cross_ref insert: %w", err)
	}
	defer xref.Close()
	for _, l := range st.Layouts {
		for _, w := range l.Widgets {
			if w.Type != domain.TypeGroup {
				continue
			}
			fromID, ok := byPath[widgetPath(l.ID, w.ID)]
			if !ok {
				continue
			}
			for _, cid := range w.Properties.ChildIDs {
				toID, ok := byPath[widgetPath(l.ID, cid)]
				if !ok {
					continue // dangling child ref; ValidateLayout reports these
				}
				if _, err := xref.ExecContext(ctx, fromID, toID); err != nil {
					_ = tx.Rollback()
					return fmt.Errorf("insert cross_ref: %w", err)
				}
			}
		}
	}
	// Asset catalog: files referenced by image and QR widgets, with ref counts.
	type assetInfo struct {
		typeStr string
		refs    int
	}
	assets := map[string]*assetInfo{}
	for _, l := range st.Layouts {
		for _, w := range l.Widgets {
			u := stringsTrim(w.Properties.ImageURL)
			if u == "" {
				continue
			}
			kind := ""
			switch w.Type {
			case domain.TypeImage:
				kind = "image"
			case domain.TypeQR:
				kind = "qr"
			default:
				continue
			}
			if a, ok := assets[u]; ok {
				a.refs++
			} else {
				assets[u] = &assetInfo{typeStr: kind, refs: 1}
			}
		}
	}
	for path, a := range assets {
		if _, err := tx.ExecContext(ctx, "INSERT INTO assets(path, type, ref_count) VALUES(?,?,?);", path, a.typeStr, a.refs); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("insert asset: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

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
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"breakdesigner/internal/domain"
	applog "breakdesigner/internal/log"
)

const (
	ManifestFileName = "studio.json"
	BackupsDirName   = "backups"
)

// Standard subfolders scaffolded next to the manifest.
var standardSubDirs = []string{
	"assets",
	"breaktypes",
	"exports",
	BackupsDirName,
}

// StudioHandle keeps track of the studio state loaded/saved from disk.
// Root is the studio directory containing studio.json and subfolders.
// Studio holds the in-memory representation of the manifest.
type StudioHandle struct {
	Root         string
	ManifestPath string
	Studio       domain.Studio
}

// InitStudio creates a new studio directory at root (creating it if it doesn't exist),
// scaffolds the standard subfolders, writes the given manifest file transactionally,
// and seeds the embedded index from the manifest.
func InitStudio(root string, st domain.Studio) (*StudioHandle, error) {
	if strings.TrimSpace(root) == "" {
		return nil, errors.New("root path is required")
	}
	// Ensure directory exists
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create studio root: %w", err)
	}
	// Create standard subfolders
	for _, d := range standardSubDirs {
		if err := os.MkdirAll(filepath.Join(root, d), 0o755); err != nil {
			return nil, fmt.Errorf("create subdir %s: %w", d, err)
		}
	}

	h := &StudioHandle{
		Root:         root,
		ManifestPath: filepath.Join(root, ManifestFileName),
		Studio:       st,
	}
	if err := Save(h); err != nil {
		return nil, err
	}
	// First index build. The index is derived data; a failure here must not
	// block studio creation.
	if err := BuildIndexIfEmpty(context.Background(), root, st); err != nil {
		applog.WithComponent("storage").Warn("initial index build failed",
			slog.String("root", root), slog.Any("err", err))
	}
	return h, nil
}

// Open loads an existing studio from the given root directory.
// If the current manifest cannot be read or parsed, it will attempt last backup.
func Open(root string) (*StudioHandle, error) {
	mpath := filepath.Join(root, ManifestFileName)
	b, err := os.ReadFile(mpath)
	if err != nil {
		// try backup
		st, berr := openFromLatestBackup(root)
		if berr != nil {
			return nil, fmt.Errorf("open manifest: %w; backup attempt: %v", err, berr)
		}
		return &StudioHandle{Root: root, ManifestPath: mpath, Studio: *st}, nil
	}
	var st domain.Studio
	if uerr := json.Unmarshal(b, &st); uerr != nil {
		bst, berr := openFromLatestBackup(root)
		if berr != nil {
			return nil, fmt.Errorf("parse manifest: %w; backup attempt: %v", uerr, berr)
		}
		return &StudioHandle{Root: root, ManifestPath: mpath, Studio: *bst}, nil
	}
	return &StudioHandle{Root: root, ManifestPath: mpath, Studio: st}, nil
}

// Save writes the current StudioHandle.Studio to disk with transactional semantics
// and a timestamped backup of the previous manifest (if present).
func Save(h *StudioHandle) error {
	if h == nil {
		return errors.New("nil StudioHandle")
	}
	if h.Root == "" || h.ManifestPath == "" {
		return errors.New("invalid StudioHandle: missing paths")
	}
	// Marshal in human-readable form
	data, err := json.MarshalIndent(h.Studio, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal manifest: %w", err)
	}
	data = append(data, '\n')

	// Ensure backups dir exists
	bdir := filepath.Join(h.Root, BackupsDirName)
	if err := os.MkdirAll(bdir, 0o755); err != nil {
		return fmt.Errorf("ensure backups dir: %w", err)
	}

	// If a current manifest exists, copy it to a timestamped backup before replacing
	if _, statErr := os.Stat(h.ManifestPath); statErr == nil {
		stamp := time.Now().Format("20060102-150405")
		bname := fmt.Sprintf("%s.%s.bak", ManifestFileName, stamp)
		bpath := filepath.Join(bdir, bname)
		if cerr := copyFile(h.ManifestPath, bpath); cerr != nil {
			return fmt.Errorf("backup current manifest: %w", cerr)
		}
	}

	// Transactional write: to temp file in same directory, then rename over target
	dir := filepath.Dir(h.ManifestPath)
	temp := filepath.Join(dir, fmt.Sprintf(".%s.tmp-%d-%d", ManifestFileName, os.Getpid(), rand.Int()))
	if werr := writeFileSync(temp, data); werr != nil {
		return fmt.Errorf("write temp manifest: %w", werr)
	}
	// On Windows, replace by removing destination first if needed
	if _, err := os.Stat(h.ManifestPath); err == nil {
		_ = os.Remove(h.ManifestPath)
	}
	if rerr := os.Rename(temp, h.ManifestPath); rerr != nil {
		// attempt cleanup temp
		_ = os.Remove(temp)
		return fmt.Errorf("replace manifest: %w", rerr)
	}
	return nil
}

// SaveAs writes the manifest to a new root folder, scaffolding structure if needed, and updates the handle.
func SaveAs(h *StudioHandle, newRoot string) error {
	if h == nil {
		return errors.New("nil StudioHandle")
	}
	if newRoot == "" {
		return errors.New("new root is empty")
	}
	if err := os.MkdirAll(newRoot, 0o755); err != nil {
		return fmt.Errorf("create new root: %w", err)
	}
	for _, d := range standardSubDirs {
		if err := os.MkdirAll(filepath.Join(newRoot, d), 0o755); err != nil {
			return fmt.Errorf("create subdir %s: %w", d, err)
		}
	}
	h.Root = newRoot
	h.ManifestPath = filepath.Join(newRoot, ManifestFileName)
	return Save(h)
}

// AutosaveCrashSnapshot writes the in-memory manifest to a crash-stamped file
// in the backups folder and returns its path. The current manifest on disk is
// left untouched so a half-applied edit never overwrites the last good save.
// Per-layout snapshot rows are also stored in the index when it is reachable.
func AutosaveCrashSnapshot(h *StudioHandle) (string, error) {
	if h == nil {
		return "", errors.New("nil StudioHandle")
	}
	if h.Root == "" {
		return "", errors.New("invalid StudioHandle: missing root")
	}
	data, err := json.MarshalIndent(h.Studio, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal manifest: %w", err)
	}
	data = append(data, '\n')
	bdir := filepath.Join(h.Root, BackupsDirName)
	if err := os.MkdirAll(bdir, 0o755); err != nil {
		return "", fmt.Errorf("ensure backups dir: %w", err)
	}
	// Named so the backup fallback scan in Open never picks a crash autosave
	// over a regular timestamped backup.
	stamp := time.Now().Format("20060102-150405")
	path := filepath.Join(bdir, fmt.Sprintf("studio.crash-%s.json", stamp))
	if err := writeFileSync(path, data); err != nil {
		return "", fmt.Errorf("write crash snapshot: %w", err)
	}
	// Best effort only; the file above is the recovery source.
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	now := time.Now()
	for _, l := range h.Studio.Layouts {
		blob, merr := json.Marshal(l)
		if merr != nil {
			continue
		}
		_ = SaveSnapshot(ctx, h, l.ID, blob, now)
	}
	return path, nil
}

// writeFileSync writes data to a file, ensures it is flushed to disk.
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
	if err := f.Sync(); err != nil {
		return err
	}
	return nil
}

// copyFile copies a file from src to dst (overwrites dst if exists).
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
	if err := df.Sync(); err != nil {
		return err
	}
	return nil
}

// openFromLatestBackup tries to open the latest timestamped backup.
func openFromLatestBackup(root string) (*domain.Studio, error) {
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
	var st domain.Studio
	if err := json.Unmarshal(b, &st); err != nil {
		return nil, fmt.Errorf("parse latest backup: %w", err)
	}
	return &st, nil
}

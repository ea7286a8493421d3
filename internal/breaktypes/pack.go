/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * Licensed under the Apache License, Version 2.0.
 */

package breaktypes

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	applog "breakdesigner/internal/log"
)

// PackManifestName is the YAML manifest at the root of a break-type pack.
const PackManifestName = "breaktype.yaml"

type packManifest struct {
	Pack    string   `yaml:"pack"`
	Created string   `yaml:"created"`
	Studio  string   `yaml:"studio"`
	Types   []string `yaml:"types"`
}

// ExportPack zips the studio's breaktypes directory (<studio>/breaktypes)
// into a single .zip file. The archive preserves the directory structure and
// adds a breaktype.yaml manifest at the root listing the packed definitions.
// If the breaktypes directory does not exist or is empty, it still creates
// the archive with only the manifest.
func ExportPack(studioRoot string, destZipPath string) error {
	l := applog.WithOperation(applog.WithComponent("breaktypes"), "export").With(slog.String("studio", studioRoot))
	if strings.TrimSpace(studioRoot) == "" {
		return errors.New("studioRoot is required")
	}
	if strings.TrimSpace(destZipPath) == "" {
		return errors.New("destZipPath is required")
	}
	typesDir := filepath.Join(studioRoot, DirName)
	if _, err := os.Stat(typesDir); os.IsNotExist(err) {
		if err := os.MkdirAll(typesDir, 0o755); err != nil {
			return fmt.Errorf("ensure breaktypes dir: %w", err)
		}
	}

	defs, err := LoadAll(studioRoot)
	if err != nil {
		return err
	}

	// Ensure target directory exists
	if err := os.MkdirAll(filepath.Dir(destZipPath), 0o755); err != nil {
		return fmt.Errorf("ensure zip dir: %w", err)
	}
	// On Windows, remove destination if present before create
	_ = os.Remove(destZipPath)

	zf, err := os.Create(destZipPath)
	if err != nil {
		return fmt.Errorf("create zip: %w", err)
	}
	defer func() { _ = zf.Close() }()
	zw := zip.NewWriter(zf)
	defer func() { _ = zw.Close() }()

	// Add manifest
	m := packManifest{
		Pack:    strings.TrimSuffix(filepath.Base(destZipPath), filepath.Ext(destZipPath)),
		Created: time.Now().Format(time.RFC3339),
		Studio:  studioRoot,
	}
	for _, d := range defs {
		m.Types = append(m.Types, d.Name)
	}
	mdata, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("marshal manifest: %w", err)
	}
	w, err := zw.Create(PackManifestName)
	if err != nil {
		return fmt.Errorf("add manifest: %w", err)
	}
	if _, err := w.Write(mdata); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}

	// Walk breaktypes folder and add files
	added := 0
	err = filepath.Walk(typesDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(studioRoot, path)
		if err != nil {
			return err
		}
		// Forward slashes inside the zip
		zipName := filepath.ToSlash(rel)
		fw, err := zw.Create(zipName)
		if err != nil {
			return err
		}
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer func() { _ = f.Close() }()
		if _, err := io.Copy(fw, f); err != nil {
			return err
		}
		added++
		return nil
	})
	if err != nil {
		l.Error("zip build failed", slog.Any("err", err))
		return fmt.Errorf("build zip: %w", err)
	}
	l.Info("break type pack exported", slog.Int("files", added), slog.String("zip", destZipPath))
	return nil
}

// InstallPack extracts the given .zip pack into the studio's breaktypes
// directory. Existing files are not overwritten; if a file already exists,
// it is skipped. Returns the count of files installed (skipped files are not
// counted).
func InstallPack(studioRoot string, packZipPath string) (int, error) {
	l := applog.WithOperation(applog.WithComponent("breaktypes"), "install").With(slog.String("studio", studioRoot))
	if strings.TrimSpace(studioRoot) == "" {
		return 0, errors.New("studioRoot is required")
	}
	if strings.TrimSpace(packZipPath) == "" {
		return 0, errors.New("packZipPath is required")
	}
	typesDir := filepath.Join(studioRoot, DirName)
	if err := os.MkdirAll(typesDir, 0o755); err != nil {
		return 0, fmt.Errorf("ensure breaktypes dir: %w", err)
	}

	r, err := zip.OpenReader(packZipPath)
	if err != nil {
		return 0, fmt.Errorf("open pack: %w", err)
	}
	defer func() { _ = r.Close() }()

	installed := 0
	for _, f := range r.File {
		name := f.Name
		// Skip the top-level pack manifest
		if name == PackManifestName {
			continue
		}
		// Place entries under breaktypes/ whether or not the archive prefixed them
		targetRel := name
		if !strings.HasPrefix(targetRel, DirName+"/") {
			targetRel = filepath.ToSlash(filepath.Join(DirName, targetRel))
		}
		targetPath := filepath.Join(studioRoot, filepath.FromSlash(targetRel))
		// Reject entries that resolve outside the breaktypes dir (zip slip)
		if targetPath != typesDir && !strings.HasPrefix(targetPath, typesDir+string(os.PathSeparator)) {
			l.Warn("skip entry escaping breaktypes dir", slog.String("name", name))
			continue
		}
		// If file exists, skip
		if _, err := os.Stat(targetPath); err == nil {
			l.Warn("skip existing file", slog.String("path", targetPath))
			continue
		}
		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(targetPath, 0o755); err != nil {
				return installed, err
			}
			continue
		}
		if err := os.MkdirAll(filepath.Dir(targetPath), 0o755); err != nil {
			return installed, err
		}
		rc, err := f.Open()
		if err != nil {
			return installed, err
		}
		out, err := os.OpenFile(targetPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
		if err != nil {
			_ = rc.Close()
			return installed, err
		}
		if _, err := io.Copy(out, rc); err != nil {
			_ = out.Close()
			_ = rc.Close()
			return installed, err
		}
		_ = out.Close()
		_ = rc.Close()
		installed++
	}
	l.Info("break type pack installed", slog.Int("files", installed))
	return installed, nil
}

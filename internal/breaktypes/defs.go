/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * Licensed under the Apache License, Version 2.0.
 */

// Package breaktypes loads and validates the YAML break-type definitions a
// studio keeps under breaktypes/, and moves them between studios as zip packs.
package breaktypes

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"breakdesigner/internal/domain"
)

// DirName is the studio subdirectory holding break-type definitions.
const DirName = "breaktypes"

// Duration wraps time.Duration so definitions read naturally in YAML
// ("5m", "1h30m") instead of nanosecond integers.
type Duration time.Duration

func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	dd, err := time.ParseDuration(strings.TrimSpace(s))
	if err != nil {
		return fmt.Errorf("parse duration %q: %w", s, err)
	}
	*d = Duration(dd)
	return nil
}

// Definition describes one break type: how long the break runs, which layout
// the runtime shows for it, and the palette the editor offers for widgets.
type Definition struct {
	Name          string   `yaml:"name"`
	Duration      Duration `yaml:"duration"`
	DefaultLayout string   `yaml:"defaultLayout,omitempty"`
	Palette       []string `yaml:"palette,omitempty"`
}

// Validate returns human-readable problems; an empty slice means usable.
func (d Definition) Validate() []string {
	var out []string
	if strings.TrimSpace(d.Name) == "" {
		out = append(out, "break type without name")
	}
	if d.Duration <= 0 {
		out = append(out, fmt.Sprintf("break type %q has non-positive duration", d.Name))
	}
	for _, p := range d.Palette {
		if _, err := domain.ParseColor(p); err != nil {
			out = append(out, fmt.Sprintf("break type %q palette color %q: %v", d.Name, p, err))
		}
	}
	return out
}

// Slug is the file-name form of the definition name (lower case, spaces to
// dashes), used by Save and referenced from layout BreakType fields.
func (d Definition) Slug() string {
	return strings.ToLower(strings.Join(strings.Fields(d.Name), "-"))
}

// Load reads a single definition file.
func Load(path string) (Definition, error) {
	var def Definition
	data, err := os.ReadFile(path)
	if err != nil {
		return def, fmt.Errorf("read break type: %w", err)
	}
	if err := yaml.Unmarshal(data, &def); err != nil {
		return def, fmt.Errorf("parse break type %s: %w", filepath.Base(path), err)
	}
	return def, nil
}

// LoadAll reads every .yaml/.yml definition under the studio's breaktypes
// directory, sorted by file name. A missing directory yields an empty slice.
func LoadAll(studioRoot string) ([]Definition, error) {
	if strings.TrimSpace(studioRoot) == "" {
		return nil, errors.New("studioRoot is required")
	}
	dir := filepath.Join(studioRoot, DirName)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []Definition{}, nil
		}
		return nil, fmt.Errorf("read breaktypes dir: %w", err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if ext != ".yaml" && ext != ".yml" {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)
	out := make([]Definition, 0, len(names))
	for _, n := range names {
		def, err := Load(filepath.Join(dir, n))
		if err != nil {
			return nil, err
		}
		out = append(out, def)
	}
	return out, nil
}

// Save writes the definition to <studioRoot>/breaktypes/<slug>.yaml and
// returns the file path.
func Save(studioRoot string, def Definition) (string, error) {
	if strings.TrimSpace(studioRoot) == "" {
		return "", errors.New("studioRoot is required")
	}
	if def.Slug() == "" {
		return "", errors.New("break type name is required")
	}
	dir := filepath.Join(studioRoot, DirName)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("ensure breaktypes dir: %w", err)
	}
	data, err := yaml.Marshal(def)
	if err != nil {
		return "", fmt.Errorf("marshal break type: %w", err)
	}
	path := filepath.Join(dir, def.Slug()+".yaml")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write break type: %w", err)
	}
	return path, nil
}

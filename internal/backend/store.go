/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package backend

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"breakdesigner/internal/domain"
)

// PublishedLayout is a published_layouts row. Payload carries the full layout
// JSON and is omitted from list projections.
type PublishedLayout struct {
	StableID  string          `json:"stable_id"`
	Workspace string          `json:"workspace"`
	LayoutID  string          `json:"layout_id"`
	Name      string          `json:"name"`
	BreakType string          `json:"break_type"`
	Version   int64           `json:"version"`
	UpdatedAt time.Time       `json:"updated_at"`
	Payload   json.RawMessage `json:"layout,omitempty"`
}

// UpsertLayout publishes a layout into the workspace. Republishing the same
// layout id bumps the version and replaces the payload; the stable id of the
// first publication is kept.
func UpsertLayout(ctx context.Context, db *sql.DB, workspace string, l domain.Layout) (PublishedLayout, error) {
	if l.ID == "" {
		return PublishedLayout{}, fmt.Errorf("layout id is required")
	}
	payload, err := json.Marshal(l)
	if err != nil {
		return PublishedLayout{}, fmt.Errorf("marshal layout: %w", err)
	}
	out := PublishedLayout{
		Workspace: workspace,
		LayoutID:  l.ID,
		Name:      l.Name,
		BreakType: l.BreakType,
		Payload:   payload,
	}
	row := db.QueryRowContext(ctx, `INSERT INTO published_layouts (stable_id, workspace, layout_id, name, break_type, payload)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (workspace, layout_id) DO UPDATE
		SET name = EXCLUDED.name,
		    break_type = EXCLUDED.break_type,
		    payload = EXCLUDED.payload,
		    version = published_layouts.version + 1,
		    updated_at = now()
		RETURNING stable_id, version, updated_at`,
		uuid.NewString(), workspace, l.ID, l.Name, l.BreakType, string(payload))
	if err := row.Scan(&out.StableID, &out.Version, &out.UpdatedAt); err != nil {
		return PublishedLayout{}, fmt.Errorf("upsert layout: %w", err)
	}
	return out, nil
}

// ListLayouts returns the workspace's published layouts, newest first,
// without payloads.
func ListLayouts(ctx context.Context, db *sql.DB, workspace string) ([]PublishedLayout, error) {
	rows, err := db.QueryContext(ctx, `SELECT stable_id, workspace, layout_id, name, break_type, version, updated_at
		FROM published_layouts WHERE workspace = $1 ORDER BY updated_at DESC, id DESC`, workspace)
	if err != nil {
		return nil, fmt.Errorf("list layouts: %w", err)
	}
	defer func() { _ = rows.Close() }()
	var out []PublishedLayout
	for rows.Next() {
		var p PublishedLayout
		if err := rows.Scan(&p.StableID, &p.Workspace, &p.LayoutID, &p.Name, &p.BreakType, &p.Version, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan layout: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// GetLayout fetches one published layout with its payload.
// Returns sql.ErrNoRows when the layout id is not published in the workspace.
func GetLayout(ctx context.Context, db *sql.DB, workspace, layoutID string) (PublishedLayout, error) {
	var p PublishedLayout
	var payload []byte
	row := db.QueryRowContext(ctx, `SELECT stable_id, workspace, layout_id, name, break_type, version, updated_at, payload
		FROM published_layouts WHERE workspace = $1 AND layout_id = $2`, workspace, layoutID)
	if err := row.Scan(&p.StableID, &p.Workspace, &p.LayoutID, &p.Name, &p.BreakType, &p.Version, &p.UpdatedAt, &payload); err != nil {
		return PublishedLayout{}, err
	}
	p.Payload = payload
	return p, nil
}

// InsertTelemetry records one collector event. payload must be valid JSON.
func InsertTelemetry(ctx context.Context, db *sql.DB, kind string, payload []byte) error {
	if kind == "" {
		kind = "event"
	}
	if _, err := db.ExecContext(ctx, `INSERT INTO telemetry_events (kind, payload) VALUES ($1, $2)`, kind, string(payload)); err != nil {
		return fmt.Errorf("insert telemetry: %w", err)
	}
	return nil
}

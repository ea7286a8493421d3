/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * Licensed under the Apache License, Version 2.0.
 */
package backend

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"breakdesigner/internal/storage"
)

// SearchPublished executes a search over the published_layouts table and
// returns matching envelopes (no payload). It accepts the same query shape
// as the local studio index to ease parity checks between the two.
func SearchPublished(ctx context.Context, db *sql.DB, workspace string, q storage.SearchQuery) ([]PublishedLayout, error) {
	var (
		args []any
		b    strings.Builder
	)

	// Helper to add parameter and return placeholder like $n
	place := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	b.WriteString("SELECT l.stable_id, l.workspace, l.layout_id, l.name, l.break_type, l.version, l.updated_at ")
	b.WriteString("FROM published_layouts l WHERE l.workspace = " + place(workspace) + " ")

	// Text matches the layout name and widget text/template inside the JSONB
	// payload. Kinds from the local index scope which of the two participate.
	if s := strings.TrimSpace(q.Text); s != "" {
		pat := place("%" + strings.ToLower(s) + "%")
		inName, inWidgets := searchScope(q.Types)
		var terms []string
		if inName {
			terms = append(terms, "lower(l.name) LIKE "+pat)
		}
		if inWidgets {
			terms = append(terms, "EXISTS (SELECT 1 FROM jsonb_array_elements(l.payload->'widgets') w"+
				" WHERE lower(COALESCE(w->'properties'->>'text','')) LIKE "+pat+
				" OR lower(COALESCE(w->'properties'->>'template','')) LIKE "+pat+")")
		}
		b.WriteString(" AND (" + strings.Join(terms, " OR ") + ") ")
	}
	// Break type filter
	if s := strings.TrimSpace(q.BreakType); s != "" {
		b.WriteString(" AND lower(l.break_type) = " + place(strings.ToLower(s)) + " ")
	}
	// Layout filter
	if s := strings.TrimSpace(q.LayoutID); s != "" {
		b.WriteString(" AND l.layout_id = " + place(s) + " ")
	}

	// Order and pagination
	limit := q.Limit
	if limit <= 0 {
		limit = 100
	}
	offset := q.Offset
	if offset < 0 {
		offset = 0
	}
	b.WriteString(" ORDER BY l.updated_at DESC, l.id DESC ")
	b.WriteString(" LIMIT " + place(limit) + " OFFSET " + place(offset))

	rows, err := db.QueryContext(ctx, b.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("search published query: %w", err)
	}
	defer func() { _ = rows.Close() }()
	var out []PublishedLayout
	for rows.Next() {
		var p PublishedLayout
		if err := rows.Scan(&p.StableID, &p.Workspace, &p.LayoutID, &p.Name, &p.BreakType, &p.Version, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// searchScope maps local index document kinds onto the two places text can
// live in a published row. Empty or unrecognized kinds search both.
func searchScope(types []string) (inName, inWidgets bool) {
	if len(types) == 0 {
		return true, true
	}
	for _, t := range types {
		switch {
		case t == "layout_name":
			inName = true
		case strings.HasPrefix(t, "widget_"):
			inWidgets = true
		}
	}
	if !inName && !inWidgets {
		return true, true
	}
	return inName, inWidgets
}

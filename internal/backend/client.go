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
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"breakdesigner/internal/domain"
)

// ErrUnauthorized marks 401 responses: the token is missing, expired, or
// signed for another workspace. Callers prompt for a new token on it.
var ErrUnauthorized = errors.New("unauthorized")

// Client is a minimal HTTP client for the publish API.
// The desktop app uses it under a feature flag to publish layouts and to
// pull published ones back into a studio.
type Client struct {
	BaseURL string
	Token   string // bearer token
	client  *http.Client
}

// NewClient creates a new backend client. baseURL may include a trailing slash; it will be normalized.
func NewClient(baseURL string, token string) *Client {
	b := strings.TrimRight(baseURL, "/")
	return &Client{
		BaseURL: b,
		Token:   token,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *Client) doJSON(ctx context.Context, method, path string, body, dest any) error {
	u, err := url.Parse(c.BaseURL + path)
	if err != nil {
		return err
	}
	var rd *bytes.Buffer
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		rd = bytes.NewBuffer(b)
	} else {
		rd = &bytes.Buffer{}
	}
	req, err := http.NewRequestWithContext(ctx, method, u.String(), rd)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusUnauthorized {
		return fmt.Errorf("server %s %s: %w", method, u.Path, ErrUnauthorized)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("server %s %s: %s", method, u.Path, resp.Status)
	}
	if dest == nil {
		return nil
	}
	dec := json.NewDecoder(resp.Body)
	dec.UseNumber()
	return dec.Decode(dest)
}

// ListLayouts returns published layout envelopes for the token workspace.
func (c *Client) ListLayouts(ctx context.Context) ([]PublishedLayout, error) {
	var list []PublishedLayout
	if err := c.doJSON(ctx, http.MethodGet, "/api/layouts", nil, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// PublishLayout uploads the layout; republishing bumps the server version.
func (c *Client) PublishLayout(ctx context.Context, l domain.Layout) (*PublishedLayout, error) {
	var pub PublishedLayout
	if err := c.doJSON(ctx, http.MethodPost, "/api/layouts", l, &pub); err != nil {
		return nil, err
	}
	return &pub, nil
}

// FetchLayout retrieves a published layout with its payload.
func (c *Client) FetchLayout(ctx context.Context, layoutID string) (*PublishedLayout, error) {
	var pub PublishedLayout
	path := "/api/layouts/" + url.PathEscape(layoutID)
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &pub); err != nil {
		return nil, err
	}
	return &pub, nil
}

// PostTelemetry sends a named event to the collector endpoint. Errors are
// returned so callers can decide whether to log or ignore them.
func (c *Client) PostTelemetry(ctx context.Context, name string, fields map[string]any) error {
	ev := map[string]any{"name": name, "ts": time.Now().UTC().Format(time.RFC3339)}
	for k, v := range fields {
		ev[k] = v
	}
	return c.doJSON(ctx, http.MethodPost, "/api/telemetry", ev, nil)
}

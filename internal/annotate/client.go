/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package annotate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"cuepartner/internal/domain"
)

// Client talks to the annotation HTTP service. The service exposes two POST
// endpoints, /v1/characters and /v1/emotions, both JSON in and JSON out.
type Client struct {
	BaseURL string
	APIKey  string // bearer token
	client  *http.Client
}

// NewClient creates an annotator client. baseURL may include a trailing
// slash; it will be normalized. timeout <= 0 falls back to 10s.
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		APIKey:  apiKey,
		client:  &http.Client{Timeout: timeout},
	}
}

func (c *Client) postJSON(ctx context.Context, path string, body, dest any) error {
	if c.BaseURL == "" {
		return ErrNotConfigured
	}
	u, err := url.Parse(c.BaseURL + path)
	if err != nil {
		return err
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.String(), bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.APIKey)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("annotator POST %s: %s", u.Path, resp.Status)
	}
	return json.NewDecoder(resp.Body).Decode(dest)
}

// AnalyzeCharacters profiles the cast of a script.
func (c *Client) AnalyzeCharacters(ctx context.Context, req CharacterRequest) ([]domain.CharacterAnalysis, error) {
	var out struct {
		Characters []domain.CharacterAnalysis `json:"characters"`
	}
	if err := c.postJSON(ctx, "/v1/characters", req, &out); err != nil {
		return nil, err
	}
	return out.Characters, nil
}

// AnalyzeEmotions tags scene lines with emotions.
func (c *Client) AnalyzeEmotions(ctx context.Context, req EmotionRequest) ([]LineEmotionTag, error) {
	var out struct {
		Lines []LineEmotionTag `json:"lines"`
	}
	if err := c.postJSON(ctx, "/v1/emotions", req, &out); err != nil {
		return nil, err
	}
	return out.Lines, nil
}

var _ Annotator = (*Client)(nil)

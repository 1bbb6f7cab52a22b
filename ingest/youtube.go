// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package ingest

import (
	"context"
	"encoding/xml"
	"fmt"
	"html"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/poiesic/studyhall/core"
)

// ParseVideoID extracts a YouTube video identifier from the two accepted URL
// shapes: the `watch?v=<id>` query-parameter form and the `youtu.be/<id>`
// path form. Anything else is core.ErrInvalidVideoURL.
func ParseVideoID(rawURL string) (string, error) {
	parsed, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return "", fmt.Errorf("%w: %q", core.ErrInvalidVideoURL, rawURL)
	}

	host := strings.TrimPrefix(parsed.Hostname(), "www.")
	switch {
	case host == "youtu.be":
		id := strings.Trim(parsed.Path, "/")
		if id == "" || strings.Contains(id, "/") {
			return "", fmt.Errorf("%w: %q", core.ErrInvalidVideoURL, rawURL)
		}
		return id, nil

	case host == "youtube.com" || strings.HasSuffix(host, ".youtube.com"):
		id := parsed.Query().Get("v")
		if id == "" {
			return "", fmt.Errorf("%w: missing v parameter in %q", core.ErrInvalidVideoURL, rawURL)
		}
		return id, nil
	}

	return "", fmt.Errorf("%w: %q", core.ErrInvalidVideoURL, rawURL)
}

// TranscriptEntry is one timed-text segment of a video transcript.
type TranscriptEntry struct {
	Start    float64
	Duration float64
	Text     string
}

// TranscriptFetcher retrieves the transcript for a video as ordered timed-text
// entries. Implementations must be thread-safe for concurrent use.
type TranscriptFetcher interface {
	// Fetch returns the transcript entries for the video, in playback order.
	// A video without a retrievable transcript returns
	// core.ErrTranscriptUnavailable.
	Fetch(ctx context.Context, videoID string) ([]TranscriptEntry, error)
}

// JoinTranscript concatenates entry texts with single-space separators into
// one string for chunking.
func JoinTranscript(entries []TranscriptEntry) string {
	texts := make([]string, 0, len(entries))
	for _, entry := range entries {
		if t := strings.TrimSpace(entry.Text); t != "" {
			texts = append(texts, t)
		}
	}
	return strings.Join(texts, " ")
}

const defaultTimedTextURL = "https://www.youtube.com/api/timedtext"

// TimedTextClient fetches transcripts from YouTube's timed-text endpoint.
type TimedTextClient struct {
	httpClient *http.Client
	baseURL    string
	language   string
	logger     *slog.Logger
}

// TimedTextOption configures a TimedTextClient.
type TimedTextOption func(*TimedTextClient)

// WithBaseURL overrides the timed-text endpoint, primarily for tests.
func WithBaseURL(baseURL string) TimedTextOption {
	return func(c *TimedTextClient) {
		c.baseURL = baseURL
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) TimedTextOption {
	return func(c *TimedTextClient) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithLanguage sets the transcript language code.
// Default is "en".
func WithLanguage(lang string) TimedTextOption {
	return func(c *TimedTextClient) {
		if lang != "" {
			c.language = lang
		}
	}
}

// NewTimedTextClient creates a transcript client with a bounded request
// timeout so a hung fetch cannot pin a worker.
func NewTimedTextClient(opts ...TimedTextOption) *TimedTextClient {
	c := &TimedTextClient{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    defaultTimedTextURL,
		language:   "en",
		logger:     slog.Default().With("component", "timedtext"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// timedText mirrors the XML payload of the timed-text endpoint.
type timedText struct {
	XMLName xml.Name        `xml:"transcript"`
	Entries []timedTextLine `xml:"text"`
}

type timedTextLine struct {
	Start    float64 `xml:"start,attr"`
	Duration float64 `xml:"dur,attr"`
	Body     string  `xml:",chardata"`
}

// Fetch retrieves the transcript for the video.
func (c *TimedTextClient) Fetch(ctx context.Context, videoID string) ([]TranscriptEntry, error) {
	endpoint := fmt.Sprintf("%s?v=%s&lang=%s", c.baseURL, url.QueryEscape(videoID), url.QueryEscape(c.language))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("transcript request failed", "videoID", videoID, "err", err)
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%w: video %s", core.ErrTranscriptUnavailable, videoID)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("transcript request for %s returned status %d", videoID, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var payload timedText
	if err := xml.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("%w: video %s has no parseable transcript", core.ErrTranscriptUnavailable, videoID)
	}

	entries := make([]TranscriptEntry, 0, len(payload.Entries))
	for _, line := range payload.Entries {
		text := strings.TrimSpace(html.UnescapeString(line.Body))
		if text == "" {
			continue
		}
		entries = append(entries, TranscriptEntry{
			Start:    line.Start,
			Duration: line.Duration,
			Text:     text,
		})
	}

	if len(entries) == 0 {
		return nil, fmt.Errorf("%w: video %s", core.ErrTranscriptUnavailable, videoID)
	}

	c.logger.Debug("transcript fetched", "videoID", videoID, "entries", len(entries))
	return entries, nil
}

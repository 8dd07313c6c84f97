// Package weathernews fetches hourly pollen counts from the Weathernews open
// data endpoint as CSV keyed by citycode and a compact date window.
package weathernews

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/yanqian/pollen-advisor/internal/domain/allergycheck"
)

const defaultBaseURL = "https://wxtech.weathernews.com/opendata/v1/pollen"

// Client performs the time-series fetch.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient builds an API client.
func NewClient(baseURL string) *Client {
	base := strings.TrimSpace(baseURL)
	if base == "" {
		base = defaultBaseURL
	}
	return &Client{
		baseURL: strings.TrimRight(base, "/"),
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// Fetch retrieves and parses the pollen series for a citycode between start
// and end, both formatted YYYYMMDD.
func (c *Client) Fetch(ctx context.Context, citycode, start, end string) ([]allergycheck.RawRecord, error) {
	endpoint := fmt.Sprintf("%s?citycode=%s&start=%s&end=%s",
		c.baseURL, url.QueryEscape(citycode), url.QueryEscape(start), url.QueryEscape(end))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build pollen request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("pollen request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return nil, fmt.Errorf("pollen request error: status=%d body=%s", resp.StatusCode, string(body))
	}

	records, err := parseCSV(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse pollen response: %w", err)
	}
	return records, nil
}

// parseCSV decodes the delimited body. The first line is a header naming each
// column; date and pollen must be present, extra columns are ignored.
func parseCSV(r io.Reader) ([]allergycheck.RawRecord, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	dateIdx, pollenIdx := -1, -1
	for i, name := range header {
		switch strings.TrimSpace(name) {
		case "date":
			dateIdx = i
		case "pollen":
			pollenIdx = i
		}
	}
	if dateIdx < 0 || pollenIdx < 0 {
		return nil, fmt.Errorf("header %v missing date or pollen column", header)
	}

	var out []allergycheck.RawRecord
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		if len(row) <= dateIdx || len(row) <= pollenIdx {
			continue
		}
		count, err := strconv.ParseFloat(strings.TrimSpace(row[pollenIdx]), 64)
		if err != nil {
			return nil, fmt.Errorf("parse pollen value %q: %w", row[pollenIdx], err)
		}
		out = append(out, allergycheck.RawRecord{
			Date:   strings.TrimSpace(row[dateIdx]),
			Pollen: count,
		})
	}
	return out, nil
}

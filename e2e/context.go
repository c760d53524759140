package e2e

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

// TestContext carries the HTTP client and the last response across the steps of one scenario.
type TestContext struct {
	BaseURL string
	client  *http.Client

	lastStatus int
	lastHeader http.Header
	lastBody   []byte
}

// NewTestContext targets E2E_BASE_URL, defaulting to a local server.
func NewTestContext() *TestContext {
	base := os.Getenv("E2E_BASE_URL")
	if base == "" {
		base = "http://localhost:8080"
	}
	return &TestContext{
		BaseURL: strings.TrimRight(base, "/"),
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

func (tc *TestContext) Do(method, path string, body any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal body: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, tc.BaseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := tc.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	tc.lastStatus = resp.StatusCode
	tc.lastHeader = resp.Header
	tc.lastBody, err = io.ReadAll(resp.Body)
	return err
}

func (tc *TestContext) POST(path string, body any) error {
	return tc.Do(http.MethodPost, path, body)
}

func (tc *TestContext) GET(path string) error {
	return tc.Do(http.MethodGet, path, nil)
}

func (tc *TestContext) Status() int {
	return tc.lastStatus
}

func (tc *TestContext) Header(name string) string {
	return tc.lastHeader.Get(name)
}

// GetResponseField resolves a dot path such as "issues.0.completed" in the last JSON body.
func (tc *TestContext) GetResponseField(path string) (any, error) {
	var doc any
	if err := json.Unmarshal(tc.lastBody, &doc); err != nil {
		return nil, fmt.Errorf("response is not JSON: %w (body: %s)", err, tc.lastBody)
	}
	cur := doc
	for _, part := range strings.Split(path, ".") {
		switch node := cur.(type) {
		case map[string]any:
			v, ok := node[part]
			if !ok {
				return nil, fmt.Errorf("field %q not found in %s", path, tc.lastBody)
			}
			cur = v
		case []any:
			var idx int
			if _, err := fmt.Sscanf(part, "%d", &idx); err != nil || idx < 0 || idx >= len(node) {
				return nil, fmt.Errorf("index %q out of range in %s", part, path)
			}
			cur = node[idx]
		default:
			return nil, fmt.Errorf("cannot descend into %q of %s", part, path)
		}
	}
	return cur, nil
}

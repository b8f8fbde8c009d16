// Package e2e drives a running warden instance over HTTP. The suite is
// black box: it speaks only the public wire format and asserts on what
// a camera fleet would observe.
package e2e

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// embeddingDim is the wire contract for face embeddings.
const embeddingDim = 128

// TestContext holds shared state across steps within one scenario:
// the HTTP client, the seeded camera credentials, and the last
// response.
type TestContext struct {
	baseURL      string
	client       *http.Client
	sourceID     string
	sourceSecret string

	accessToken string

	lastStatus int
	lastBody   []byte
}

// NewTestContext builds a context targeting the given base URL with the
// seeded camera credentials.
func NewTestContext(baseURL, sourceID, sourceSecret string) *TestContext {
	return &TestContext{
		baseURL:      strings.TrimRight(baseURL, "/"),
		client:       &http.Client{Timeout: 10 * time.Second},
		sourceID:     sourceID,
		sourceSecret: sourceSecret,
	}
}

// Reset clears per-scenario state. Call it before each scenario.
func (tc *TestContext) Reset() {
	tc.accessToken = ""
	tc.lastStatus = 0
	tc.lastBody = nil
}

// SourceID returns the seeded camera's source id.
func (tc *TestContext) SourceID() string { return tc.sourceID }

// SourceSecret returns the seeded camera's secret.
func (tc *TestContext) SourceSecret() string { return tc.sourceSecret }

// SetAccessToken stores the bearer token for subsequent requests.
func (tc *TestContext) SetAccessToken(token string) { tc.accessToken = token }

// ClearAccessToken drops the stored bearer token.
func (tc *TestContext) ClearAccessToken() { tc.accessToken = "" }

// Embedding returns a wire-sized embedding filled with the given value.
func (tc *TestContext) Embedding(fill float64) []float64 {
	e := make([]float64, embeddingDim)
	for i := range e {
		e[i] = fill
	}
	return e
}

// POST sends a JSON body to the given path. The stored access token, if
// any, is attached as a bearer token.
func (tc *TestContext) POST(path string, body interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request body: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, tc.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if tc.accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+tc.accessToken)
	}
	return tc.do(req)
}

// GET sends a GET request to the given path with optional headers.
func (tc *TestContext) GET(path string, headers map[string]string) error {
	req, err := http.NewRequest(http.MethodGet, tc.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	for key, value := range headers {
		req.Header.Set(key, value)
	}
	return tc.do(req)
}

func (tc *TestContext) do(req *http.Request) error {
	resp, err := tc.client.Do(req)
	if err != nil {
		return fmt.Errorf("request %s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response body: %w", err)
	}
	tc.lastStatus = resp.StatusCode
	tc.lastBody = body
	return nil
}

// GetLastResponseStatus returns the status code of the last response.
func (tc *TestContext) GetLastResponseStatus() int { return tc.lastStatus }

// GetLastResponseBody returns the raw body of the last response.
func (tc *TestContext) GetLastResponseBody() []byte { return tc.lastBody }

// GetResponseField looks up a field in the last JSON response. Dotted
// paths descend into nested objects, e.g. "match.decision".
func (tc *TestContext) GetResponseField(field string) (interface{}, error) {
	var parsed map[string]interface{}
	if err := json.Unmarshal(tc.lastBody, &parsed); err != nil {
		return nil, fmt.Errorf("response is not a JSON object: %w", err)
	}

	parts := strings.Split(field, ".")
	var current interface{} = parsed
	for _, part := range parts {
		obj, ok := current.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("field %q: %q is not an object", field, part)
		}
		current, ok = obj[part]
		if !ok {
			return nil, fmt.Errorf("field %q not found in response", field)
		}
	}
	return current, nil
}

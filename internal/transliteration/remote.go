package transliteration

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/text/unicode/norm"
)

const (
	// hindiInputTool selects Hindi transliteration on the Input Tools service.
	hindiInputTool = "hi-t-i0-und"
	// suggestionCount is how many candidates are requested.
	suggestionCount = 5
	// maxBodyBytes bounds how much of a response is read.
	maxBodyBytes = 64 << 10
)

// InputToolsClient calls the Google Input Tools phonetic service.
type InputToolsClient struct {
	endpoint   string
	httpClient *http.Client
	timeout    time.Duration
}

// ClientOption configures an InputToolsClient.
type ClientOption func(*InputToolsClient)

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(c *http.Client) ClientOption {
	return func(ic *InputToolsClient) {
		if c != nil {
			ic.httpClient = c
		}
	}
}

// WithTimeout bounds each request. Zero disables the client-side bound.
func WithTimeout(d time.Duration) ClientOption {
	return func(ic *InputToolsClient) {
		ic.timeout = d
	}
}

// NewInputToolsClient creates a client for endpoint.
func NewInputToolsClient(endpoint string, opts ...ClientOption) *InputToolsClient {
	c := &InputToolsClient{
		endpoint:   endpoint,
		httpClient: &http.Client{},
		timeout:    3 * time.Second,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Suggest returns up to five Devanagari candidates for text, best first. Any
// deviation from the expected response shape is a *ProviderError.
func (c *InputToolsClient) Suggest(ctx context.Context, text string) ([]string, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.requestURL(text), nil)
	if err != nil {
		return nil, newProviderError(ErrorInternal, "build request", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, newProviderError(ErrorTimeout, "request timed out", err)
		}
		return nil, newProviderError(ErrorProviderOutage, "request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		return nil, statusError(resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, newProviderError(ErrorTimeout, "reading body timed out", err)
		}
		return nil, newProviderError(ErrorProviderOutage, "read body", err)
	}
	return parseSuggestions(body)
}

func (c *InputToolsClient) requestURL(text string) string {
	q := url.Values{}
	q.Set("text", text)
	q.Set("itc", hindiInputTool)
	q.Set("num", strconv.Itoa(suggestionCount))
	q.Set("cp", "0")
	q.Set("cs", "1")
	q.Set("ie", "utf-8")
	q.Set("oe", "utf-8")
	q.Set("app", "demopage")
	return c.endpoint + "?" + q.Encode()
}

func statusError(status int) *ProviderError {
	msg := fmt.Sprintf("unexpected status %d", status)
	switch {
	case status == http.StatusTooManyRequests:
		return newProviderError(ErrorRateLimited, msg, nil)
	case status >= 500:
		return newProviderError(ErrorProviderOutage, msg, nil)
	default:
		return newProviderError(ErrorBadStatus, msg, nil)
	}
}

// parseSuggestions walks the nested-array payload:
//
//	["SUCCESS", [["ram", ["राम", "रम", ...], [], {...}]]]
//
// wrapper[1] holds suggestion groups, group[0][1] holds candidate strings.
func parseSuggestions(body []byte) ([]string, error) {
	var wrapper []json.RawMessage
	if err := json.Unmarshal(body, &wrapper); err != nil {
		return nil, newProviderError(ErrorBadData, "response is not a JSON array", err)
	}
	if len(wrapper) < 2 {
		return nil, newProviderError(ErrorBadData, "response array too short", nil)
	}

	var groups []json.RawMessage
	if err := json.Unmarshal(wrapper[1], &groups); err != nil || len(groups) == 0 {
		return nil, newProviderError(ErrorBadData, "missing suggestion groups", err)
	}

	var group []json.RawMessage
	if err := json.Unmarshal(groups[0], &group); err != nil || len(group) < 2 {
		return nil, newProviderError(ErrorBadData, "malformed suggestion group", err)
	}

	var candidates []string
	if err := json.Unmarshal(group[1], &candidates); err != nil || len(candidates) == 0 {
		return nil, newProviderError(ErrorBadData, "missing candidates", err)
	}
	if candidates[0] == "" {
		return nil, newProviderError(ErrorBadData, "empty first candidate", nil)
	}

	out := make([]string, 0, len(candidates))
	for _, c := range candidates {
		if c != "" {
			out = append(out, norm.NFC.String(c))
		}
	}
	return out, nil
}

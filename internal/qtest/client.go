package qtest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"regexp"
	"strings"
	"time"
)

const (
	// DefaultHTTPTimeout is the default timeout for HTTP requests.
	DefaultHTTPTimeout = 30 * time.Second

	searchPageSize = 100
)

// jiraIDPattern extracts the Jira issue id prefix from a requirement name,
// e.g. "PRO-18404 Some requirement" -> "PRO-18404".
var jiraIDPattern = regexp.MustCompile(`^([a-zA-Z]+-\d+)`)

// Client is the narrow surface of the test-management API this tool
// consumes: search by automation content, requirement lookup by Jira id,
// custom-field-id resolution and test-log submission. Retry, pagination and
// authentication flows are deliberately out of scope.
type Client struct {
	httpClient *http.Client
	logger     *slog.Logger
	baseURL    string
	token      string
	projectID  int

	fieldCache *FieldCache
}

// ClientOption configures the API client.
type ClientOption func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithFieldCache sets the field-id cache. Callers that share one cache
// across clients, or that need to invalidate it, pass it in explicitly.
func WithFieldCache(cache *FieldCache) ClientOption {
	return func(c *Client) {
		c.fieldCache = cache
	}
}

// NewClient creates a client for one project on one API host.
func NewClient(baseURL, token string, projectID int, opts ...ClientOption) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: DefaultHTTPTimeout},
		logger:     slog.Default(),
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		token:      token,
		projectID:  projectID,
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.fieldCache == nil {
		c.fieldCache = NewFieldCache()
	}

	return c
}

// FieldCache returns the client's field-id cache, e.g. for invalidation.
func (c *Client) FieldCache() *FieldCache {
	return c.fieldCache
}

type searchRequest struct {
	ObjectType string   `json:"object_type"`
	Fields     []string `json:"fields"`
	Query      string   `json:"query"`
}

type searchResponse struct {
	Total int `json:"total"`
	Items []struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
	} `json:"items"`
}

// SearchTestCase looks up the test-case id matching an automation content
// UUID. ok is false when the test case has not been created remotely yet.
func (c *Client) SearchTestCase(ctx context.Context, automationContent string) (int, bool, error) {
	body := searchRequest{
		ObjectType: "test-cases",
		Fields:     []string{"id"},
		Query:      fmt.Sprintf("'Automation Content' = '%s'", automationContent),
	}

	var parsed searchResponse
	if err := c.post(ctx, "search", c.searchURL(), body, &parsed); err != nil {
		return 0, false, err
	}

	if len(parsed.Items) == 0 {
		c.logger.Debug("test case not found remotely", "automation_content", automationContent)
		return 0, false, nil
	}
	return parsed.Items[0].ID, true, nil
}

// SearchRequirements finds the requirement ids whose names carry the given
// Jira issue id. When the search is ambiguous only exact id-prefix matches
// are returned.
func (c *Client) SearchRequirements(ctx context.Context, jiraID string) ([]int, error) {
	body := searchRequest{
		ObjectType: "requirements",
		Fields:     []string{"id", "name"},
		Query:      fmt.Sprintf("'name' ~ '%s'", jiraID),
	}

	var parsed searchResponse
	if err := c.post(ctx, "requirement search", c.searchURL(), body, &parsed); err != nil {
		return nil, err
	}

	var ids []int
	switch {
	case parsed.Total == 1 && len(parsed.Items) == 1:
		ids = append(ids, parsed.Items[0].ID)
	case parsed.Total > 1:
		for _, item := range parsed.Items {
			if match := jiraIDPattern.FindString(item.Name); match == jiraID {
				ids = append(ids, item.ID)
			}
		}
	}
	return ids, nil
}

type fieldResource struct {
	ID    int    `json:"id"`
	Label string `json:"label"`
}

// FieldID resolves the id of a custom field by label for an object type
// (e.g. "Failure Output" on "test-runs"). Results are memoized in the
// client's FieldCache. ok is false when no field carries the label.
func (c *Client) FieldID(ctx context.Context, label, objectType string) (int, bool, error) {
	cacheKey := objectType + "|" + label

	id, err := c.fieldCache.Get(cacheKey, func() (int, error) {
		url := fmt.Sprintf("%s/api/v3/projects/%d/settings/%s/fields", c.baseURL, c.projectID, objectType)

		var fields []fieldResource
		if err := c.get(ctx, "field lookup", url, &fields); err != nil {
			return 0, err
		}

		for _, field := range fields {
			if field.Label == label {
				return field.ID, nil
			}
		}
		return 0, errFieldNotFound
	})
	if err == errFieldNotFound {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return id, true, nil
}

var errFieldNotFound = fmt.Errorf("field not found")

type submitRequest struct {
	TestCycle string               `json:"test_cycle"`
	TestLogs  []*AutomationTestLog `json:"test_logs"`
}

// SubmitLogs submits test logs for a test cycle.
func (c *Client) SubmitLogs(ctx context.Context, testCycle string, logs []*AutomationTestLog) error {
	url := fmt.Sprintf("%s/api/v3/projects/%d/auto-test-logs?type=automation", c.baseURL, c.projectID)
	body := submitRequest{TestCycle: testCycle, TestLogs: logs}

	if err := c.post(ctx, "test-log submission", url, body, nil); err != nil {
		return err
	}
	c.logger.Info("submitted test logs", "count", len(logs), "test_cycle", testCycle)
	return nil
}

func (c *Client) searchURL() string {
	return fmt.Sprintf("%s/api/v3/projects/%d/search?pageSize=%d&page=1", c.baseURL, c.projectID, searchPageSize)
}

func (c *Client) post(ctx context.Context, operation, url string, body, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("could not encode %s request: %w", operation, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("could not build %s request: %w", operation, err)
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req, operation, out)
}

func (c *Client) get(ctx context.Context, operation, url string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("could not build %s request: %w", operation, err)
	}

	return c.do(req, operation, out)
}

func (c *Client) do(req *http.Request, operation string, out interface{}) error {
	req.Header.Set("Authorization", c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s request failed: %w", operation, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("could not read %s response: %w", operation, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		reason := resp.Status
		if len(data) > 0 {
			reason = fmt.Sprintf("%s: %s", resp.Status, strings.TrimSpace(string(data)))
		}
		return &APIError{
			StatusCode: resp.StatusCode,
			Reason:     reason,
			Operation:  operation,
		}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("could not decode %s response: %w", operation, err)
	}
	return nil
}

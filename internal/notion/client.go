// Package notion is a minimal client for the Notion REST API covering the
// page and block operations the sync needs.
package notion

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/tidwall/gjson"

	"github.com/alexjbarnes/notion-docs-sync/internal/blocks"
	syncerrors "github.com/alexjbarnes/notion-docs-sync/internal/errors"
)

const (
	// DefaultBaseURL is the public API endpoint.
	DefaultBaseURL = "https://api.notion.com/v1"

	// DefaultVersion is the API version sent in the Notion-Version header.
	DefaultVersion = "2022-06-28"

	// MaxChildren is the most children one append or create call accepts.
	MaxChildren = 100

	// pageSize is the page size used when listing children.
	pageSize = 100

	// httpClientTimeout is the timeout for the default HTTP client used
	// when no custom client is provided.
	httpClientTimeout = 30 * time.Second

	// maxAPIResponseBytes caps response body reads. A page of 100 blocks
	// with long rich text stays well below this.
	maxAPIResponseBytes = 16 * 1024 * 1024
)

// Waiter gates outbound requests. *ratelimit.Limiter satisfies it.
type Waiter interface {
	Wait(ctx context.Context) error
}

// Options configures a Client. Zero values select the defaults.
type Options struct {
	BaseURL    string
	Version    string
	HTTPClient *http.Client
	Limiter    Waiter
	Logger     *slog.Logger
}

// Client talks to the Notion REST API. Every request passes through the
// limiter first, so one Client shared across a process keeps the whole
// process under the API's rate limit.
type Client struct {
	httpClient *http.Client
	baseURL    string
	version    string
	token      string
	limiter    Waiter
	logger     *slog.Logger
}

// NewClient creates an API client authenticated with token.
func NewClient(token string, opts Options) *Client {
	c := &Client{
		httpClient: opts.HTTPClient,
		baseURL:    opts.BaseURL,
		version:    opts.Version,
		token:      token,
		limiter:    opts.Limiter,
		logger:     opts.Logger,
	}

	if c.httpClient == nil {
		c.httpClient = &http.Client{Timeout: httpClientTimeout}
	}

	if c.baseURL == "" {
		c.baseURL = DefaultBaseURL
	}

	if c.version == "" {
		c.version = DefaultVersion
	}

	if c.logger == nil {
		c.logger = slog.Default()
	}

	c.logger = c.logger.With(slog.String("component", "notion"))

	return c
}

// do sends one request and returns the raw response body. Non-2xx
// responses become *APIError, wrapped in *TransientError for 429 and 5xx.
func (c *Client) do(ctx context.Context, method, endpoint string, body any) ([]byte, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("waiting for rate limiter: %w", err)
		}
	}

	var reader io.Reader

	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshalling request body: %w", err)
		}

		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, reader)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Notion-Version", c.version)

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// Network errors (timeouts, connection refused, DNS failures)
		// are transient by nature.
		return nil, &TransientError{Err: fmt.Errorf("%w: %s %s: %w", syncerrors.ErrAPIRequest, method, endpoint, err)}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxAPIResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("reading response from %s %s: %w", method, endpoint, err)
	}

	c.logger.Debug("api request",
		slog.String("method", method),
		slog.String("endpoint", endpoint),
		slog.Int("status", resp.StatusCode),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{
			Status:  resp.StatusCode,
			Code:    gjson.GetBytes(respBody, "code").Str,
			Message: gjson.GetBytes(respBody, "message").Str,
		}
		if apiErr.Message == "" {
			apiErr.Message = sanitizeResponseBody(respBody)
		}

		err := fmt.Errorf("API %s %s: %w", method, endpoint, apiErr)
		if isTransientStatus(resp.StatusCode) {
			return nil, &TransientError{Err: err}
		}

		return nil, err
	}

	return respBody, nil
}

// decodeResults decodes the "results" array of a list response, skipping
// partial objects that carry no type.
func (c *Client) decodeResults(data []byte) ([]blocks.Block, error) {
	results := gjson.GetBytes(data, "results")
	if !results.IsArray() {
		return nil, fmt.Errorf("%w: missing results array", syncerrors.ErrAPIResponse)
	}

	var (
		out    []blocks.Block
		decErr error
	)

	results.ForEach(func(_, item gjson.Result) bool {
		if item.Get("type").Str == "" {
			c.logger.Debug("skipping partial block", slog.String("id", item.Get("id").Str))
			return true
		}

		var b blocks.Block
		if err := json.Unmarshal([]byte(item.Raw), &b); err != nil {
			decErr = fmt.Errorf("%w: decoding block %s: %w", syncerrors.ErrAPIResponse, item.Get("id").Str, err)
			return false
		}

		out = append(out, b)

		return true
	})

	if decErr != nil {
		return nil, decErr
	}

	return out, nil
}

// FetchChildren returns every child block of blockID in order, following
// pagination cursors until the list is exhausted.
func (c *Client) FetchChildren(ctx context.Context, blockID string) ([]blocks.Block, error) {
	var (
		all    []blocks.Block
		cursor string
	)

	for {
		q := url.Values{}
		q.Set("page_size", fmt.Sprint(pageSize))

		if cursor != "" {
			q.Set("start_cursor", cursor)
		}

		data, err := c.do(ctx, http.MethodGet, "/blocks/"+url.PathEscape(blockID)+"/children?"+q.Encode(), nil)
		if err != nil {
			return nil, fmt.Errorf("fetching children of %s: %w", blockID, err)
		}

		page, err := c.decodeResults(data)
		if err != nil {
			return nil, fmt.Errorf("fetching children of %s: %w", blockID, err)
		}

		all = append(all, page...)

		if !gjson.GetBytes(data, "has_more").Bool() {
			return all, nil
		}

		cursor = gjson.GetBytes(data, "next_cursor").Str
		if cursor == "" {
			return nil, fmt.Errorf("fetching children of %s: %w: has_more without next_cursor", blockID, syncerrors.ErrAPIResponse)
		}
	}
}

type appendRequest struct {
	Children []blocks.Block `json:"children"`
	After    string         `json:"after,omitempty"`
}

// AppendChildren appends up to MaxChildren blocks to parentID. With a
// non-empty afterID they are inserted after that sibling, otherwise at
// the end. Returns the created blocks.
func (c *Client) AppendChildren(ctx context.Context, parentID, afterID string, children []blocks.Block) ([]blocks.Block, error) {
	if len(children) == 0 {
		return nil, nil
	}

	if len(children) > MaxChildren {
		return nil, fmt.Errorf("appending %d children to %s: %w", len(children), parentID, syncerrors.ErrTooManyChildren)
	}

	data, err := c.do(ctx, http.MethodPatch, "/blocks/"+url.PathEscape(parentID)+"/children", appendRequest{
		Children: children,
		After:    afterID,
	})
	if err != nil {
		return nil, fmt.Errorf("appending children to %s: %w", parentID, err)
	}

	created, err := c.decodeResults(data)
	if err != nil {
		return nil, fmt.Errorf("appending children to %s: %w", parentID, err)
	}

	return created, nil
}

// UpdateBlock replaces the content of a block in place. Only the
// type-keyed content object is sent.
func (c *Client) UpdateBlock(ctx context.Context, blockID string, block blocks.Block) error {
	if block.Type == "" {
		return fmt.Errorf("updating block %s: block has no type", blockID)
	}

	body := map[string]any{string(block.Type): block.Content}

	if _, err := c.do(ctx, http.MethodPatch, "/blocks/"+url.PathEscape(blockID), body); err != nil {
		return fmt.Errorf("updating block %s: %w", blockID, err)
	}

	return nil
}

// DeleteBlock archives a block.
func (c *Client) DeleteBlock(ctx context.Context, blockID string) error {
	if _, err := c.do(ctx, http.MethodDelete, "/blocks/"+url.PathEscape(blockID), nil); err != nil {
		return fmt.Errorf("deleting block %s: %w", blockID, err)
	}

	return nil
}

type pageParent struct {
	PageID string `json:"page_id"`
}

type createPageRequest struct {
	Parent     pageParent     `json:"parent"`
	Properties map[string]any `json:"properties"`
	Children   []blocks.Block `json:"children,omitempty"`
}

func titleProperties(title string) map[string]any {
	return map[string]any{
		"title": map[string]any{
			"title": []blocks.RichText{{
				Type: blocks.RichTextText,
				Text: &blocks.Text{Content: title},
			}},
		},
	}
}

// CreateDocument creates a child page of parentID and returns its id.
// Children beyond the first MaxChildren are appended in follow-up calls.
func (c *Client) CreateDocument(ctx context.Context, parentID, title string, children []blocks.Block) (string, error) {
	first := children
	if len(first) > MaxChildren {
		first = children[:MaxChildren]
	}

	data, err := c.do(ctx, http.MethodPost, "/pages", createPageRequest{
		Parent:     pageParent{PageID: parentID},
		Properties: titleProperties(title),
		Children:   first,
	})
	if err != nil {
		return "", fmt.Errorf("creating page %q: %w", title, err)
	}

	id := gjson.GetBytes(data, "id").Str
	if id == "" {
		return "", fmt.Errorf("creating page %q: %w: response has no id", title, syncerrors.ErrAPIResponse)
	}

	for rest := children[len(first):]; len(rest) > 0; {
		n := min(len(rest), MaxChildren)
		if _, err := c.AppendChildren(ctx, id, "", rest[:n]); err != nil {
			return id, fmt.Errorf("populating page %q: %w", title, err)
		}

		rest = rest[n:]
	}

	return id, nil
}

// UpdateDocumentTitle sets the title property of a page.
func (c *Client) UpdateDocumentTitle(ctx context.Context, documentID, title string) error {
	body := map[string]any{"properties": titleProperties(title)}

	if _, err := c.do(ctx, http.MethodPatch, "/pages/"+url.PathEscape(documentID), body); err != nil {
		return fmt.Errorf("updating title of %s: %w", documentID, err)
	}

	return nil
}

// FetchDocument retrieves a page. A page the integration cannot see is
// reported as nil with no error.
func (c *Client) FetchDocument(ctx context.Context, documentID string) (*Page, error) {
	data, err := c.do(ctx, http.MethodGet, "/pages/"+url.PathEscape(documentID), nil)
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}

		return nil, fmt.Errorf("fetching page %s: %w", documentID, err)
	}

	if gjson.GetBytes(data, "object").Str != "page" {
		return nil, fmt.Errorf("fetching page %s: %w: object is %q", documentID, syncerrors.ErrAPIResponse, gjson.GetBytes(data, "object").Str)
	}

	return parsePage(data), nil
}

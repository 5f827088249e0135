// Package paperless is a client for the paperless-ngx REST API, covering
// the entity catalogs and document access reconciliation needs.
package paperless

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/pigeonhole-ngx/pigeonhole/internal/common"
	"github.com/pigeonhole-ngx/pigeonhole/internal/model"
)

// Config holds the connection settings for a paperless-ngx instance.
type Config struct {
	// BaseURL is the instance root, e.g. http://paperless:8000.
	BaseURL string
	// Token is the API token sent on every request.
	Token string
	// InboxTagID filters inbox listings when set; otherwise the
	// instance's own inbox filter is used.
	InboxTagID int
	// PageSize bounds entity listings. Listings larger than this are
	// truncated with a warning.
	PageSize int
	// Timeout applies per request.
	Timeout time.Duration
}

// Client talks to one paperless-ngx instance. It implements
// service.DocumentStore. Calls are not retried here.
type Client struct {
	baseURL    string
	token      string
	inboxTagID int
	pageSize   int
	httpClient *http.Client
}

const (
	defaultPageSize = 1000
	defaultTimeout  = 30 * time.Second
)

// NewClient validates cfg and returns a ready client.
func NewClient(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("%w: paperless base URL is required", common.ErrMissingConfig)
	}
	if cfg.Token == "" {
		return nil, fmt.Errorf("%w: paperless API token is required", common.ErrMissingConfig)
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = defaultPageSize
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		token:      cfg.Token,
		inboxTagID: cfg.InboxTagID,
		pageSize:   cfg.PageSize,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}, nil
}

func endpoint(kind model.EntityKind) (string, error) {
	switch kind {
	case model.KindStoragePath:
		return "storage_paths", nil
	case model.KindCorrespondent:
		return "correspondents", nil
	case model.KindDocumentType:
		return "document_types", nil
	case model.KindTag:
		return "tags", nil
	}
	return "", fmt.Errorf("unknown entity kind %q", kind)
}

type listResponse struct {
	Next    string         `json:"next"`
	Results []model.Entity `json:"results"`
	Count   int            `json:"count"`
}

// List returns up to PageSize entities of a kind, following pagination
// links until the bound is reached.
func (c *Client) List(ctx context.Context, kind model.EntityKind) ([]model.Entity, error) {
	ep, err := endpoint(kind)
	if err != nil {
		return nil, err
	}
	op := "list " + ep

	url := fmt.Sprintf("%s/api/%s/?page_size=%d", c.baseURL, ep, c.pageSize)
	var entities []model.Entity
	for url != "" && len(entities) < c.pageSize {
		var page listResponse
		if err := c.do(ctx, op, http.MethodGet, url, nil, &page); err != nil {
			return nil, err
		}
		for i := range page.Results {
			page.Results[i].Kind = kind
		}
		entities = append(entities, page.Results...)
		url = page.Next

		if url != "" && len(entities) >= c.pageSize {
			slog.Warn("Entity listing truncated",
				"kind", kind, "fetched", len(entities), "total", page.Count)
		}
	}
	if len(entities) > c.pageSize {
		entities = entities[:c.pageSize]
	}
	return entities, nil
}

// Create adds a new entity and returns it with its assigned id.
func (c *Client) Create(ctx context.Context, kind model.EntityKind, payload model.Entity) (*model.Entity, error) {
	ep, err := endpoint(kind)
	if err != nil {
		return nil, err
	}

	var created model.Entity
	url := fmt.Sprintf("%s/api/%s/", c.baseURL, ep)
	if err := c.do(ctx, "create "+strings.TrimSuffix(ep, "s"), http.MethodPost, url, payload, &created); err != nil {
		return nil, err
	}
	created.Kind = kind
	return &created, nil
}

// GetDocument fetches a single document by id.
func (c *Client) GetDocument(ctx context.Context, id int) (*model.Document, error) {
	var doc model.Document
	url := fmt.Sprintf("%s/api/documents/%d/", c.baseURL, id)
	if err := c.do(ctx, "get document", http.MethodGet, url, nil, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

type documentPage struct {
	Next    string           `json:"next"`
	Results []model.Document `json:"results"`
	Count   int              `json:"count"`
}

// ListInboxDocuments returns the documents awaiting processing, oldest
// first, bounded by the configured page size.
func (c *Client) ListInboxDocuments(ctx context.Context) ([]model.Document, error) {
	filter := "is_in_inbox=true"
	if c.inboxTagID > 0 {
		filter = fmt.Sprintf("tags__id__all=%d", c.inboxTagID)
	}
	url := fmt.Sprintf("%s/api/documents/?%s&ordering=added&page_size=%d", c.baseURL, filter, c.pageSize)

	var page documentPage
	if err := c.do(ctx, "list inbox documents", http.MethodGet, url, nil, &page); err != nil {
		return nil, err
	}
	if page.Next != "" {
		slog.Warn("Inbox listing truncated", "fetched", len(page.Results), "total", page.Count)
	}
	return page.Results, nil
}

// UpdateDocument applies a partial update to a document. Empty fields in
// update are omitted from the patch and left untouched server-side.
func (c *Client) UpdateDocument(ctx context.Context, id int, update model.DocumentUpdate) error {
	url := fmt.Sprintf("%s/api/documents/%d/", c.baseURL, id)
	return c.do(ctx, "update document", http.MethodPatch, url, update, nil)
}

func (c *Client) do(ctx context.Context, op, method, url string, payload, out any) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("%s: encoding request: %w", op, err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return fmt.Errorf("%s: building request: %w", op, err)
	}
	req.Header.Set("Authorization", "Token "+c.token)
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return common.NewRemoteFault(op, 0, err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			slog.Warn("Failed to close response body", "op", op, "error", closeErr)
		}
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return common.NewRemoteFault(op, resp.StatusCode,
			fmt.Errorf("paperless returned %d: %s", resp.StatusCode, strings.TrimSpace(string(detail))))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s: decoding response: %w", op, err)
	}
	return nil
}

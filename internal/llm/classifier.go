package llm

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/pigeonhole-ngx/pigeonhole/internal/common"
	"github.com/pigeonhole-ngx/pigeonhole/internal/model"
	"github.com/pigeonhole-ngx/pigeonhole/internal/service"
)

// DocumentClassifier implements service.Classifier over a raw LLM client.
// Transient provider failures are retried; parse failures are not.
type DocumentClassifier struct {
	client Client
	retry  service.RetryOptions
}

// NewClassifier wraps client with retry behavior.
func NewClassifier(client Client, retry service.RetryOptions) *DocumentClassifier {
	return &DocumentClassifier{client: client, retry: retry}
}

// Classify prompts the provider with the document and parses the response.
func (c *DocumentClassifier) Classify(ctx context.Context, doc model.Document) (*model.ClassificationRecord, error) {
	if strings.TrimSpace(doc.Content) == "" && strings.TrimSpace(doc.Title) == "" {
		return nil, fmt.Errorf("%w: document %d", common.ErrEmptyDocument, doc.ID)
	}

	prompt := buildPrompt(doc)

	var content string
	err := common.WithRetry(ctx, func() error {
		var completeErr error
		content, completeErr = c.client.Complete(ctx, prompt)
		return completeErr
	}, c.retry)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrClassificationFailed, err)
	}

	record, err := parseRecord(content, doc.ID)
	if err != nil {
		return nil, err
	}
	slog.Debug("Document classified",
		"document_id", doc.ID,
		"correspondent", record.CorrespondentName,
		"document_type", record.DocumentTypeName,
		"confidence", record.Confidence)
	return record, nil
}

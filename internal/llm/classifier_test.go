package llm

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pigeonhole-ngx/pigeonhole/internal/common"
	"github.com/pigeonhole-ngx/pigeonhole/internal/model"
	"github.com/pigeonhole-ngx/pigeonhole/internal/service"
)

type fakeClient struct {
	responses []string
	errs      []error
	calls     int
	prompts   []string
}

func (f *fakeClient) Complete(_ context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	i := f.calls
	f.calls++
	if i < len(f.errs) && f.errs[i] != nil {
		return "", f.errs[i]
	}
	if i < len(f.responses) {
		return f.responses[i], nil
	}
	return f.responses[len(f.responses)-1], nil
}

func fastRetry() service.RetryOptions {
	return service.RetryOptions{
		MaxAttempts:  3,
		InitialDelay: time.Millisecond,
		MaxDelay:     5 * time.Millisecond,
	}
}

func TestDocumentClassifier_Classify(t *testing.T) {
	client := &fakeClient{responses: []string{sampleResponse}}
	classifier := NewClassifier(client, fastRetry())

	doc := model.Document{ID: 42, Title: "Rechnung Mai", Content: "Magenta Telekom invoice text"}
	record, err := classifier.Classify(context.Background(), doc)

	require.NoError(t, err)
	assert.Equal(t, 42, record.DocumentID)
	assert.Equal(t, "Magenta Telekom", record.CorrespondentName)
	require.Len(t, client.prompts, 1)
	assert.Contains(t, client.prompts[0], "Rechnung Mai")
	assert.Contains(t, client.prompts[0], "Magenta Telekom invoice text")
}

func TestDocumentClassifier_Classify_EmptyDocument(t *testing.T) {
	classifier := NewClassifier(&fakeClient{responses: []string{sampleResponse}}, fastRetry())

	_, err := classifier.Classify(context.Background(), model.Document{ID: 9})

	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrEmptyDocument)
}

func TestDocumentClassifier_Classify_RetriesTransientFailures(t *testing.T) {
	client := &fakeClient{
		errs:      []error{errors.New("connection reset"), nil},
		responses: []string{"", sampleResponse},
	}
	classifier := NewClassifier(client, fastRetry())

	record, err := classifier.Classify(context.Background(), model.Document{ID: 1, Content: "text"})

	require.NoError(t, err)
	assert.Equal(t, 2, client.calls)
	assert.Equal(t, "Magenta Telekom", record.CorrespondentName)
}

func TestDocumentClassifier_Classify_ExhaustedRetries(t *testing.T) {
	boom := errors.New("provider down")
	client := &fakeClient{errs: []error{boom, boom, boom}, responses: []string{""}}
	classifier := NewClassifier(client, fastRetry())

	_, err := classifier.Classify(context.Background(), model.Document{ID: 1, Content: "text"})

	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrClassificationFailed)
	assert.Equal(t, 3, client.calls)
}

func TestDocumentClassifier_Classify_TruncatesContentPreview(t *testing.T) {
	client := &fakeClient{responses: []string{sampleResponse}}
	classifier := NewClassifier(client, fastRetry())

	long := make([]byte, contentPreviewLimit*2)
	for i := range long {
		long[i] = 'x'
	}
	_, err := classifier.Classify(context.Background(), model.Document{ID: 1, Content: string(long)})

	require.NoError(t, err)
	assert.Less(t, len(client.prompts[0]), contentPreviewLimit+2000, "prompt must not carry the full document")
}

func TestNewClient_UnsupportedProvider(t *testing.T) {
	_, err := NewClient(Config{Provider: "llama", APIKey: "k"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported LLM provider")
}

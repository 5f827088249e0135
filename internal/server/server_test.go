package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pigeonhole-ngx/pigeonhole/internal/common"
	"github.com/pigeonhole-ngx/pigeonhole/internal/model"
)

type stubProcessor struct {
	result *model.ReconciliationResult
	err    error
	calls  []int
}

func (p *stubProcessor) ProcessDocument(_ context.Context, documentID int) (*model.ReconciliationResult, error) {
	p.calls = append(p.calls, documentID)
	return p.result, p.err
}

func postHook(t *testing.T, processor DocumentProcessor, body string) *httptest.ResponseRecorder {
	t.Helper()
	srv := New(processor, ":0")
	req := httptest.NewRequest(http.MethodPost, "/api/v1/hooks/document", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func TestServer_DocumentHook_Success(t *testing.T) {
	correspondentID := 3
	processor := &stubProcessor{
		result: &model.ReconciliationResult{
			SessionID:       "session-1",
			DocumentID:      42,
			CorrespondentID: &correspondentID,
			TagIDs:          []int{1, 2},
		},
	}

	rec := postHook(t, processor, `{"document_id":42}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []int{42}, processor.calls)

	var body model.ReconciliationResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "session-1", body.SessionID)
	require.NotNil(t, body.CorrespondentID)
	assert.Equal(t, 3, *body.CorrespondentID)
	assert.Equal(t, []int{1, 2}, body.TagIDs)
}

func TestServer_DocumentHook_MalformedBody(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "not json", body: `document 42 please`},
		{name: "missing document_id", body: `{}`},
		{name: "non-positive id", body: `{"document_id":0}`},
		{name: "wrong type", body: `{"document_id":"42x"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			processor := &stubProcessor{}
			rec := postHook(t, processor, tt.body)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Empty(t, processor.calls)
		})
	}
}

func TestServer_DocumentHook_DownstreamFault(t *testing.T) {
	processor := &stubProcessor{
		err: common.NewRemoteFault("list correspondents", 503, fmt.Errorf("unavailable")),
	}

	rec := postHook(t, processor, `{"document_id":42}`)

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), "list correspondents")
}

func TestServer_DocumentHook_AlreadyProcessed(t *testing.T) {
	processor := &stubProcessor{
		err: fmt.Errorf("%w: 42", common.ErrAlreadyProcessed),
	}

	rec := postHook(t, processor, `{"document_id":42}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "already_processed")
}

func TestServer_Health(t *testing.T) {
	srv := New(&stubProcessor{}, ":0")
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()

	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
}

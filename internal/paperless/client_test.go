package paperless

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pigeonhole-ngx/pigeonhole/internal/common"
	"github.com/pigeonhole-ngx/pigeonhole/internal/model"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(Config{
		BaseURL: server.URL,
		Token:   "test-token",
	})
	require.NoError(t, err)
	return client
}

func TestNewClient_Validation(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr error
	}{
		{
			name:    "missing base URL",
			cfg:     Config{Token: "tok"},
			wantErr: common.ErrMissingConfig,
		},
		{
			name:    "missing token",
			cfg:     Config{BaseURL: "http://paperless:8000"},
			wantErr: common.ErrMissingConfig,
		},
		{
			name: "valid",
			cfg:  Config{BaseURL: "http://paperless:8000/", Token: "tok"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := NewClient(tt.cfg)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "http://paperless:8000", client.baseURL)
		})
	}
}

func TestClient_List_FollowsPagination(t *testing.T) {
	var requests []string
	handler := func(w http.ResponseWriter, r *http.Request) {
		requests = append(requests, r.URL.RequestURI())
		assert.Equal(t, "Token test-token", r.Header.Get("Authorization"))
		assert.Equal(t, "/api/correspondents/", r.URL.Path)

		if r.URL.Query().Get("page") == "2" {
			fmt.Fprint(w, `{"count":3,"next":null,"results":[{"id":3,"name":"Wien Energie"}]}`)
			return
		}
		next := fmt.Sprintf("http://%s/api/correspondents/?page=2", r.Host)
		fmt.Fprintf(w, `{"count":3,"next":%q,"results":[{"id":1,"name":"Acme"},{"id":2,"name":"Magenta Telekom"}]}`, next)
	}
	client := newTestClient(t, handler)

	entities, err := client.List(context.Background(), model.KindCorrespondent)

	require.NoError(t, err)
	require.Len(t, entities, 3)
	assert.Len(t, requests, 2)
	assert.Equal(t, "Wien Energie", entities[2].Name)
	for _, e := range entities {
		assert.Equal(t, model.KindCorrespondent, e.Kind)
	}
}

func TestClient_List_StopsAtPageSizeBound(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		next := fmt.Sprintf("http://%s/api/tags/?page=%d", r.Host, calls+1)
		fmt.Fprintf(w, `{"count":100,"next":%q,"results":[{"id":%d,"name":"tag-%d"},{"id":%d,"name":"tag-%d"}]}`,
			next, calls*2-1, calls*2-1, calls*2, calls*2)
	}))
	t.Cleanup(server.Close)

	client, err := NewClient(Config{BaseURL: server.URL, Token: "tok", PageSize: 4})
	require.NoError(t, err)

	entities, err := client.List(context.Background(), model.KindTag)

	require.NoError(t, err)
	assert.Len(t, entities, 4)
	assert.Equal(t, 2, calls, "must not fetch past the bound")
}

func TestClient_Create(t *testing.T) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/storage_paths/", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var payload map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "financial-tracking - Acme", payload["name"])
		assert.Equal(t, "financial-tracking/acme/{created_year}/{created_month}", payload["path"])
		assert.Equal(t, float64(0), payload["matching_algorithm"])
		assert.NotContains(t, payload, "id")

		w.WriteHeader(http.StatusCreated)
		fmt.Fprint(w, `{"id":17,"name":"financial-tracking - Acme","path":"financial-tracking/acme/{created_year}/{created_month}"}`)
	}
	client := newTestClient(t, handler)

	created, err := client.Create(context.Background(), model.KindStoragePath, model.Entity{
		Name:     "financial-tracking - Acme",
		Path:     "financial-tracking/acme/{created_year}/{created_month}",
		Matching: model.MatchNone,
	})

	require.NoError(t, err)
	assert.Equal(t, 17, created.ID)
	assert.Equal(t, model.KindStoragePath, created.Kind)
}

func TestClient_Create_RemoteFault(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, `{"name":["This field must be unique."]}`)
	})

	_, err := client.Create(context.Background(), model.KindTag, model.Entity{Name: "Warranty"})

	require.Error(t, err)
	var fault *common.RemoteFault
	require.True(t, errors.As(err, &fault))
	assert.Equal(t, http.StatusBadRequest, fault.StatusCode)
	assert.Contains(t, fault.Error(), "must be unique")
}

func TestClient_UnknownKind(t *testing.T) {
	client := newTestClient(t, func(http.ResponseWriter, *http.Request) {})

	_, err := client.List(context.Background(), model.EntityKind("folder"))

	require.Error(t, err)
	assert.False(t, common.IsRemoteFault(err))
}

func TestClient_GetDocument(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/documents/42/", r.URL.Path)
		fmt.Fprint(w, `{"id":42,"title":"Stromrechnung Mai","content":"...","tags":[3,9]}`)
	})

	doc, err := client.GetDocument(context.Background(), 42)

	require.NoError(t, err)
	assert.Equal(t, 42, doc.ID)
	assert.Equal(t, "Stromrechnung Mai", doc.Title)
	assert.Equal(t, []int{3, 9}, doc.Tags)
}

func TestClient_ListInboxDocuments(t *testing.T) {
	t.Run("uses inbox tag filter when configured", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "5", r.URL.Query().Get("tags__id__all"))
			assert.Equal(t, "added", r.URL.Query().Get("ordering"))
			fmt.Fprint(w, `{"count":1,"next":null,"results":[{"id":8,"title":"Letter"}]}`)
		}))
		t.Cleanup(server.Close)

		client, err := NewClient(Config{BaseURL: server.URL, Token: "tok", InboxTagID: 5})
		require.NoError(t, err)

		docs, err := client.ListInboxDocuments(context.Background())
		require.NoError(t, err)
		require.Len(t, docs, 1)
		assert.Equal(t, 8, docs[0].ID)
	})

	t.Run("falls back to inbox filter", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "true", r.URL.Query().Get("is_in_inbox"))
			fmt.Fprint(w, `{"count":0,"next":null,"results":[]}`)
		})

		docs, err := client.ListInboxDocuments(context.Background())
		require.NoError(t, err)
		assert.Empty(t, docs)
	})
}

func TestClient_UpdateDocument(t *testing.T) {
	correspondent := 3
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/api/documents/42/", r.URL.Path)

		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		assert.JSONEq(t, `{"correspondent":3,"tags":[1,2],"custom_fields":[{"field":9,"value":"payment"}]}`, string(body))
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, `{}`)
	})

	err := client.UpdateDocument(context.Background(), 42, model.DocumentUpdate{
		CorrespondentID: &correspondent,
		Tags:            []int{1, 2},
		CustomFields:    []model.CustomField{{Field: 9, Value: "payment"}},
	})

	require.NoError(t, err)
}

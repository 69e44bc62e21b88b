package ai

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func candidate(text string) string {
	b, _ := json.Marshal(map[string]any{
		"candidates": []any{map[string]any{
			"content": map[string]any{"role": "model", "parts": []any{map[string]string{"text": text}}},
		}},
	})
	return string(b)
}

type capturedRequest struct {
	Path     string
	RawQuery string
	Key      string
	Body     struct {
		Contents []struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"contents"`
		GenerationConfig *struct {
			ResponseMimeType string         `json:"responseMimeType"`
			ResponseSchema   map[string]any `json:"responseSchema"`
		} `json:"generationConfig"`
	}
}

func newTestClient(t *testing.T, url string) *Client {
	t.Helper()
	c, err := NewClient(context.Background(), "secret", "gemini-test", url, time.Second)
	require.NoError(t, err)
	return c
}

func gemini(t *testing.T, status int, body string, got *capturedRequest) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got != nil {
			got.Path = r.URL.Path
			got.RawQuery = r.URL.RawQuery
			got.Key = r.Header.Get("x-goog-api-key")
			require.NoError(t, json.NewDecoder(r.Body).Decode(&got.Body))
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_CompleteText(t *testing.T) {
	var got capturedRequest
	srv := gemini(t, http.StatusOK, candidate("  Fresh deals for campus life!  "), &got)

	text, err := newTestClient(t, srv.URL+"/").CompleteText(context.Background(), "write copy")
	require.NoError(t, err)
	assert.Equal(t, "Fresh deals for campus life!", text)
	assert.Equal(t, "/v1beta/models/gemini-test:generateContent", got.Path)
	assert.Equal(t, "secret", got.Key)
	assert.NotContains(t, got.RawQuery, "secret")
	require.Len(t, got.Body.Contents, 1)
	assert.Equal(t, "write copy", got.Body.Contents[0].Parts[0].Text)
	if got.Body.GenerationConfig != nil {
		assert.Empty(t, got.Body.GenerationConfig.ResponseMimeType)
	}
}

func TestClient_CompleteJSON(t *testing.T) {
	var got capturedRequest
	srv := gemini(t, http.StatusOK, candidate(`{"matchingIds":["a","b"]}`), &got)

	var out struct {
		MatchingIDs []string `json:"matchingIds"`
	}
	schema := Object(map[string]Schema{"matchingIds": StringArray()})
	require.NoError(t, newTestClient(t, srv.URL+"/").CompleteJSON(context.Background(), "find", schema, &out))
	assert.Equal(t, []string{"a", "b"}, out.MatchingIDs)

	require.NotNil(t, got.Body.GenerationConfig)
	assert.Equal(t, "application/json", got.Body.GenerationConfig.ResponseMimeType)
	assert.Equal(t, "OBJECT", got.Body.GenerationConfig.ResponseSchema["type"])
	assert.Equal(t, []any{"matchingIds"}, got.Body.GenerationConfig.ResponseSchema["required"])
}

func TestClient_Failures(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{"quota", http.StatusTooManyRequests, `{"error":{"code":429,"message":"quota","status":"RESOURCE_EXHAUSTED"}}`, nil},
		{"no candidates", http.StatusOK, `{"candidates":[]}`, ErrEmptyResponse},
		{"bad request", http.StatusBadRequest, `{"error":{"code":400,"message":"bad","status":"INVALID_ARGUMENT"}}`, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := gemini(t, tt.status, tt.body, nil)
			_, err := newTestClient(t, srv.URL+"/").CompleteText(context.Background(), "p")
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
			}
			assert.NotContains(t, err.Error(), "secret")
		})
	}
}

func TestClient_TransportErrorHidesKey(t *testing.T) {
	_, err := newTestClient(t, "http://127.0.0.1:1/").CompleteText(context.Background(), "p")
	require.Error(t, err)
	assert.NotContains(t, err.Error(), "secret")
}

func TestClient_MalformedJSONCandidate(t *testing.T) {
	srv := gemini(t, http.StatusOK, candidate("not json at all"), nil)
	var out map[string]any
	err := newTestClient(t, srv.URL+"/").CompleteJSON(context.Background(), "p", String(), &out)
	assert.Error(t, err)
}

func TestNewClient_NoKeyIsDisabled(t *testing.T) {
	_, err := NewClient(context.Background(), "", "m", "", time.Second)
	assert.ErrorIs(t, err, ErrDisabled)
}

func TestToGenai(t *testing.T) {
	s := toGenai(Object(map[string]Schema{"reason": String(), "productIds": StringArray()}))
	assert.Equal(t, "OBJECT", string(s.Type))
	assert.Equal(t, []string{"productIds", "reason"}, s.Required)
	require.NotNil(t, s.Properties["productIds"].Items)
	assert.Equal(t, "STRING", string(s.Properties["productIds"].Items.Type))
}

func TestDisabled(t *testing.T) {
	var g Gateway = Disabled{}
	_, err := g.CompleteText(context.Background(), "p")
	assert.ErrorIs(t, err, ErrDisabled)
	assert.ErrorIs(t, g.CompleteJSON(context.Background(), "p", String(), nil), ErrDisabled)
}

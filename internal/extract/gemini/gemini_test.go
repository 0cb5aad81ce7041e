package gemini

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmaraschin/medidor/internal/extract"
)

// newFakeAPI serves both the file-hosting endpoint and the model endpoint,
// answering the model call with modelAnswer.
func newFakeAPI(t *testing.T, modelAnswer string) (*httptest.Server, *[]string) {
	t.Helper()
	var calls []string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasPrefix(r.URL.Path, "/upload/v1beta/files"):
			calls = append(calls, "upload")
			assert.Equal(t, "raw", r.Header.Get("X-Goog-Upload-Protocol"))
			body, err := io.ReadAll(r.Body)
			assert.NoError(t, err)
			assert.NotEmpty(t, body)
			writeJSON(t, w, map[string]any{
				"file": map[string]any{
					"name":     "files/abc123",
					"uri":      "https://files.example/abc123",
					"mimeType": r.Header.Get("Content-Type"),
				},
			})
		case strings.Contains(r.URL.Path, ":generateContent"):
			calls = append(calls, "generate")
			var req map[string]any
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			writeJSON(t, w, map[string]any{
				"candidates": []map[string]any{{
					"content": map[string]any{
						"parts": []map[string]any{{"text": modelAnswer}},
					},
				}},
			})
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)
	return server, &calls
}

func writeJSON(t *testing.T, w http.ResponseWriter, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	assert.NoError(t, json.NewEncoder(w).Encode(v))
}

func TestExtract(t *testing.T) {
	server, calls := newFakeAPI(t, "1234")

	client := NewClient("test-key", "gemini-1.5-flash")
	client.baseURL = server.URL

	reading, err := client.Extract(context.Background(), []byte{0xFF, 0xD8}, "image/jpeg", "C1")
	require.NoError(t, err)
	assert.True(t, reading.Found)
	assert.Equal(t, "1234", reading.Value)
	assert.Equal(t, "https://files.example/abc123", reading.ImageURL)
	assert.Equal(t, []string{"upload", "generate"}, *calls)
}

func TestExtractSentinel(t *testing.T) {
	server, _ := newFakeAPI(t, extract.NotFoundSentinel+"\n")

	client := NewClient("test-key", "gemini-1.5-flash")
	client.baseURL = server.URL

	reading, err := client.Extract(context.Background(), []byte{0xFF, 0xD8}, "image/jpeg", "C1")
	require.NoError(t, err)
	assert.False(t, reading.Found)
	assert.Empty(t, reading.Value)
	assert.Equal(t, "https://files.example/abc123", reading.ImageURL)
}

func TestExtractUploadError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := NewClient("test-key", "gemini-1.5-flash")
	client.baseURL = server.URL

	_, err := client.Extract(context.Background(), []byte{0xFF, 0xD8}, "image/jpeg", "C1")
	assert.Error(t, err)
}

func TestExtractModelError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/upload/") {
			writeJSON(t, w, map[string]any{"file": map[string]any{"uri": "https://files.example/x"}})
			return
		}
		http.Error(w, "internal", http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient("test-key", "gemini-1.5-flash")
	client.baseURL = server.URL

	_, err := client.Extract(context.Background(), []byte{0xFF, 0xD8}, "image/jpeg", "C1")
	assert.Error(t, err)
}

func TestExtractEmptyModelResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/upload/") {
			writeJSON(t, w, map[string]any{"file": map[string]any{"uri": "https://files.example/x"}})
			return
		}
		writeJSON(t, w, map[string]any{"candidates": []any{}})
	}))
	defer server.Close()

	client := NewClient("test-key", "gemini-1.5-flash")
	client.baseURL = server.URL

	_, err := client.Extract(context.Background(), []byte{0xFF, 0xD8}, "image/jpeg", "C1")
	assert.Error(t, err)
}

package gemini_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/spendlog/internal/parser/gemini"
)

func newClient(t *testing.T, handler http.HandlerFunc) *gemini.Client {
	t.Helper()

	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)

	c, err := gemini.New(context.Background(), gemini.Config{
		APIKey:   "test-key",
		Endpoint: ts.URL + "/",
	})
	require.NoError(t, err)

	return c
}

func TestClient_Complete(t *testing.T) {
	var body map[string]any

	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1beta/models/gemini-2.5-flash:generateContent", r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"candidates":[{"content":{"role":"model","parts":[{"text":"{\"amount\": 200}"}]}}]}`))
	})

	got, err := c.Complete(context.Background(), "Lunch 200")
	require.NoError(t, err)
	assert.Equal(t, `{"amount": 200}`, got)

	contents, ok := body["contents"].([]any)
	require.True(t, ok)
	require.Len(t, contents, 1)

	cfg, ok := body["generationConfig"].(map[string]any)
	require.True(t, ok)
	assert.InDelta(t, 0.1, cfg["temperature"], 0.0001)
}

func TestClient_Complete_NoCandidates(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"candidates":[]}`))
	})

	got, err := c.Complete(context.Background(), "Lunch 200")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestClient_Complete_ServerError(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte(`{"error":{"code":503,"message":"overloaded","status":"UNAVAILABLE"}}`))
	})

	_, err := c.Complete(context.Background(), "Lunch 200")
	assert.Error(t, err)
}

func TestClient_ListModels(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1beta/models", r.URL.Path)

		w.Header().Set("Content-Type", "application/json")

		if r.URL.Query().Get("pageToken") == "" {
			w.Write([]byte(`{"models":[{"name":"models/gemini-2.5-flash","displayName":"Gemini 2.5 Flash","supportedGenerationMethods":["generateContent","countTokens"]}],"nextPageToken":"p2"}`))
			return
		}

		w.Write([]byte(`{"models":[{"name":"models/embedding-001","displayName":"Embedding","supportedGenerationMethods":["embedContent"]}]}`))
	})

	models, err := c.ListModels(context.Background())
	require.NoError(t, err)
	require.Len(t, models, 2)

	assert.Equal(t, "models/gemini-2.5-flash", models[0].Name)
	assert.True(t, models[0].Supports("generateContent"))
	assert.False(t, models[1].Supports("generateContent"))
}

func TestNew_RequiresAPIKey(t *testing.T) {
	_, err := gemini.New(context.Background(), gemini.Config{})
	assert.Error(t, err)
}

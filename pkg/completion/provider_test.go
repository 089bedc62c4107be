package completion

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProviderSelection(t *testing.T) {
	tests := []struct {
		provider string
		wantName string
	}{
		{provider: "", wantName: "ollama"},
		{provider: "ollama", wantName: "ollama"},
		{provider: "openai", wantName: "openai"},
		{provider: "anthropic", wantName: "anthropic"},
	}

	for _, tt := range tests {
		p, err := NewProvider(Config{Provider: tt.provider})
		require.NoError(t, err, "provider %q", tt.provider)
		assert.Equal(t, tt.wantName, p.Name())
	}
}

func TestNewProviderUnsupported(t *testing.T) {
	_, err := NewProvider(Config{Provider: "mistral"})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported provider")
}

func TestOllamaProviderDefaults(t *testing.T) {
	p := NewOllamaProvider("", "")
	assert.Equal(t, DefaultOllamaURL, p.baseURL)
	assert.Equal(t, DefaultOllamaModel, p.model)

	p = NewOllamaProvider("http://example.com:11434/", "llama3")
	assert.Equal(t, "http://example.com:11434", p.baseURL)
	assert.Equal(t, "llama3", p.model)
}

func TestOllamaProviderComplete(t *testing.T) {
	var gotPrompt, gotModel string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/generate", r.URL.Path)

		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)

		var req ollamaGenerateRequest
		require.NoError(t, json.Unmarshal(body, &req))
		gotPrompt = req.Prompt
		gotModel = req.Model

		// NDJSON stream the way the generate endpoint answers.
		io.WriteString(w, `{"response":"Hello"}`+"\n")
		io.WriteString(w, `{"response":" world"}`+"\n")
		io.WriteString(w, "not json\n")
		io.WriteString(w, `{"response":"!","done":true}`+"\n")
	}))
	defer srv.Close()

	p := NewOllamaProvider(srv.URL, "test-model")

	answer, err := p.Complete(context.Background(), "say hello")
	require.NoError(t, err)
	assert.Equal(t, "Hello world!", answer)
	assert.Equal(t, "say hello", gotPrompt)
	assert.Equal(t, "test-model", gotModel)
}

func TestOllamaProviderCompleteErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not found", http.StatusNotFound)
	}))
	defer srv.Close()

	p := NewOllamaProvider(srv.URL, "test-model")

	_, err := p.Complete(context.Background(), "say hello")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "status 404")
	assert.Contains(t, err.Error(), "model not found")
}

func TestOllamaProviderCompleteUnreachable(t *testing.T) {
	p := NewOllamaProvider("http://127.0.0.1:1", "test-model")

	_, err := p.Complete(context.Background(), "say hello")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to call Ollama API")
}

func TestOllamaProviderCompleteContextCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(time.Second)
	}))
	defer srv.Close()

	p := NewOllamaProvider(srv.URL, "test-model")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := p.Complete(ctx, "say hello")
	assert.Error(t, err)
}

package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Cristian-Soto/copiloto-conversacional/internal/core/domain"
	"github.com/Cristian-Soto/copiloto-conversacional/internal/core/ports/driven"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func TestGenerate(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/generate", r.URL.Path)

		var req generateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.False(t, req.Stream)
		require.NotNil(t, req.Options)
		assert.Equal(t, 200, req.Options.NumPredict)
		assert.Equal(t, 0.7, req.Options.Temperature)
		assert.Equal(t, 0.9, req.Options.TopP)

		json.NewEncoder(w).Encode(generateResponse{
			Response:      "the answer",
			Done:          true,
			EvalCount:     42,
			TotalDuration: int64(3 * time.Second),
		})
	})

	s := NewLLMService(LLMConfig{BaseURL: srv.URL})
	res, err := s.Generate(context.Background(), "question", driven.GenerateOptions{
		MaxTokens:   200,
		Temperature: 0.7,
		TopP:        0.9,
	})
	require.NoError(t, err)
	assert.Equal(t, "the answer", res.Text)
	assert.Equal(t, 42, res.EvalCount)
	assert.Equal(t, 3*time.Second, res.Duration)
}

func TestGenerate_OmitsOptionsWhenZero(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		var req generateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Nil(t, req.Options)
		json.NewEncoder(w).Encode(generateResponse{Response: "ok", Done: true})
	})

	s := NewLLMService(LLMConfig{BaseURL: srv.URL})
	_, err := s.Generate(context.Background(), "q", driven.GenerateOptions{})
	require.NoError(t, err)
}

func TestGenerate_HTTPError(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "model overloaded", http.StatusInternalServerError)
	})

	s := NewLLMService(LLMConfig{BaseURL: srv.URL})
	_, err := s.Generate(context.Background(), "q", driven.GenerateOptions{})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrGenerationFailed)
	assert.Contains(t, err.Error(), "model overloaded")
}

func TestGenerate_Unreachable(t *testing.T) {
	s := NewLLMService(LLMConfig{BaseURL: "http://127.0.0.1:1"})
	_, err := s.Generate(context.Background(), "q", driven.GenerateOptions{})
	assert.ErrorIs(t, err, domain.ErrGenerationFailed)
}

func TestModels(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/tags", r.URL.Path)
		w.Write([]byte(`{"models":[{"name":"llama3.2:3b"},{"name":"nomic-embed-text"}]}`))
	})

	s := NewLLMService(LLMConfig{BaseURL: srv.URL})
	models, err := s.Models(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"llama3.2:3b", "nomic-embed-text"}, models)
}

func TestPing_Down(t *testing.T) {
	s := NewLLMService(LLMConfig{BaseURL: "http://127.0.0.1:1"})
	err := s.Ping(context.Background())
	assert.ErrorIs(t, err, domain.ErrLLMUnavailable)
}

func TestPing_OK(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"models":[]}`))
	})

	s := NewLLMService(LLMConfig{BaseURL: srv.URL})
	assert.NoError(t, s.Ping(context.Background()))
}

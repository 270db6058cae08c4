package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/poiesic/briefing/ai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chatServer fakes the /chat/completions endpoint of an OpenAI-compatible API.
func chatServer(t *testing.T, status int, content string, calls *int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls != nil {
			atomic.AddInt32(calls, 1)
		}
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if status != http.StatusOK {
			_, _ = w.Write([]byte(`{"error":{"message":"boom"}}`))
			return
		}
		resp := map[string]any{
			"id":      "chatcmpl-1",
			"object":  "chat.completion",
			"created": 1,
			"model":   "gpt-4o",
			"choices": []map[string]any{{
				"index":         0,
				"message":       map[string]any{"role": "assistant", "content": content},
				"finish_reason": "stop",
			}},
			"usage": map[string]any{"prompt_tokens": 1, "completion_tokens": 1, "total_tokens": 2},
		}
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestReasoner_Complete(t *testing.T) {
	t.Run("plain text", func(t *testing.T) {
		srv := chatServer(t, http.StatusOK, "  Azure Kubernetes Service retirement  ", nil)
		r, err := NewReasoner(ai.NewConfig(ai.WithHost(srv.URL), ai.WithToken("sk-test")))
		require.NoError(t, err)

		text, err := r.Complete(context.Background(), ai.Request{System: "sys", User: "user", Temperature: 0.3})
		require.NoError(t, err)
		assert.Equal(t, "Azure Kubernetes Service retirement", text)
	})

	t.Run("json mode cleans fences", func(t *testing.T) {
		srv := chatServer(t, http.StatusOK, "```json\n{\"intent\": \"search\",}\n```", nil)
		r, err := NewReasoner(ai.NewConfig(ai.WithHost(srv.URL), ai.WithToken("sk-test")))
		require.NoError(t, err)

		text, err := r.Complete(context.Background(), ai.Request{System: "sys", User: "user", JSON: true})
		require.NoError(t, err)
		assert.JSONEq(t, `{"intent":"search"}`, text)
	})

	t.Run("server error surfaces", func(t *testing.T) {
		srv := chatServer(t, http.StatusInternalServerError, "", nil)
		r, err := NewReasoner(ai.NewConfig(ai.WithHost(srv.URL), ai.WithToken("sk-test")))
		require.NoError(t, err)

		_, err = r.Complete(context.Background(), ai.Request{User: "user"})
		assert.Error(t, err)
	})

	t.Run("blank reply is an error", func(t *testing.T) {
		srv := chatServer(t, http.StatusOK, "   ", nil)
		r, err := NewReasoner(ai.NewConfig(ai.WithHost(srv.URL), ai.WithToken("sk-test")))
		require.NoError(t, err)

		_, err = r.Complete(context.Background(), ai.Request{User: "user"})
		assert.ErrorIs(t, err, ErrEmptyResponse)
	})
}

func TestReasoner_Unavailable(t *testing.T) {
	var calls int32
	srv := chatServer(t, http.StatusOK, "unused", &calls)

	tests := []struct {
		name string
		cfg  *ai.Config
	}{
		{name: "no token", cfg: ai.NewConfig(ai.WithHost(srv.URL))},
		{name: "disabled", cfg: ai.NewConfig(ai.WithHost(srv.URL), ai.WithToken("sk-test"), ai.WithEnabled(false))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := NewReasoner(tt.cfg)
			require.NoError(t, err)
			assert.False(t, r.Available())

			_, err = r.Complete(context.Background(), ai.Request{User: "user"})
			assert.ErrorIs(t, err, ErrUnavailable)
		})
	}
	assert.Zero(t, atomic.LoadInt32(&calls), "unavailable reasoner must not call the service")
}

func TestReasoner_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	t.Cleanup(srv.Close)

	r, err := NewReasoner(ai.NewConfig(
		ai.WithHost(srv.URL),
		ai.WithToken("sk-test"),
		ai.WithTimeout(50*time.Millisecond),
	))
	require.NoError(t, err)

	start := time.Now()
	_, err = r.Complete(context.Background(), ai.Request{User: "user"})
	assert.Error(t, err)
	assert.Less(t, time.Since(start), time.Second)
}

func TestNewReasoner_InvalidConfig(t *testing.T) {
	_, err := NewReasoner(ai.NewConfig(ai.WithModel("")))
	assert.Error(t, err)
}

func TestCleanJSON(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "already clean", input: `{"a":1}`, want: `{"a":1}`},
		{name: "code fence", input: "```json\n{\"a\":1}\n```", want: `{"a":1}`},
		{name: "preamble and trailer", input: `Here you go: {"a":1} hope this helps`, want: `{"a":1}`},
		{name: "trailing comma in object", input: `{"a":1, }`, want: `{"a":1 }`},
		{name: "trailing comma in array", input: `{"a":[1,2,]}`, want: `{"a":[1,2]}`},
		{name: "comma inside string kept", input: `{"a":"x,}"}`, want: `{"a":"x,}"}`},
		{name: "missing opening quote", input: `{"a":1, type":"x"}`, want: `{"a":1, "type":"x"}`},
		{name: "bare literals untouched", input: `{"a":[true, false]}`, want: `{"a":[true, false]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, cleanJSON(tt.input))
		})
	}
}

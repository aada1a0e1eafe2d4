package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompleteSuccess(t *testing.T) {
	var gotAuth, gotContentType string
	var gotBody completionRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotContentType = r.Header.Get("Content-Type")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[{"message":{"content":"sounds good to me"}}]}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "test-key", "llama3-8b-8192")
	reply, err := client.Complete(context.Background(), []Message{
		{Role: "system", Content: "be casual"},
		{Role: "user", Content: "you coming tonight?"},
	})

	require.NoError(t, err)
	assert.Equal(t, "sounds good to me", reply)
	assert.Equal(t, "Bearer test-key", gotAuth)
	assert.Equal(t, "application/json", gotContentType)
	assert.Equal(t, "llama3-8b-8192", gotBody.Model)
	assert.Equal(t, 0.8, gotBody.Temperature)
	assert.Equal(t, 50, gotBody.MaxTokens)
	assert.Len(t, gotBody.Messages, 2)
}

func TestCompleteNon2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"rate limited"}`, http.StatusTooManyRequests)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "test-key", "llama3-8b-8192")
	_, err := client.Complete(context.Background(), []Message{{Role: "user", Content: "hi"}})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestCompleteMalformedResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json at all`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "test-key", "llama3-8b-8192")
	_, err := client.Complete(context.Background(), []Message{{Role: "user", Content: "hi"}})

	require.Error(t, err)
}

func TestCompleteEmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[]}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "test-key", "llama3-8b-8192")
	_, err := client.Complete(context.Background(), []Message{{Role: "user", Content: "hi"}})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no choices")
}

func TestCompleteConnectionRefused(t *testing.T) {
	client := NewClient("http://127.0.0.1:1", "test-key", "llama3-8b-8192")
	_, err := client.Complete(context.Background(), []Message{{Role: "user", Content: "hi"}})

	require.Error(t, err)
}

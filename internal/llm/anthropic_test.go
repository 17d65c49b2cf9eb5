package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAnthropicClient(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{
			name: "valid config",
			config: Config{
				APIKey: "test-key",
			},
			wantErr: false,
		},
		{
			name: "missing API key",
			config: Config{
				APIKey: "",
			},
			wantErr: true,
		},
		{
			name: "custom model and settings",
			config: Config{
				APIKey:      "test-key",
				Model:       "claude-3-5-haiku-latest",
				Temperature: 0.5,
				MaxTokens:   200,
				BaseURL:     "http://localhost:9999/",
			},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := newAnthropicClient(tt.config)
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
				assert.NotNil(t, client)
			}
		})
	}
}

func TestAnthropicClient_Complete(t *testing.T) {
	tests := []struct {
		name       string
		response   string
		want       string
		statusCode int
		wantErr    bool
		wantAPIErr bool
	}{
		{
			name:       "successful completion",
			response:   `{"content":[{"type":"text","text":"{\"transactions\":[]}"}]}`,
			statusCode: http.StatusOK,
			want:       `{"transactions":[]}`,
		},
		{
			name:       "API error",
			response:   `{"error":{"type":"overloaded_error"}}`,
			statusCode: http.StatusInternalServerError,
			wantErr:    true,
			wantAPIErr: true,
		},
		{
			name:       "no content in response",
			response:   `{"content":[]}`,
			statusCode: http.StatusOK,
			wantErr:    true,
		},
		{
			name:       "malformed body",
			response:   `not json`,
			statusCode: http.StatusOK,
			wantErr:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodPost, r.Method)
				assert.Equal(t, "/v1/messages", r.URL.Path)
				assert.Equal(t, "test-key", r.Header.Get("x-api-key"))
				assert.Equal(t, "2023-06-01", r.Header.Get("anthropic-version"))

				var body map[string]any
				assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
				assert.Equal(t, "system text", body["system"])
				assert.Equal(t, "claude-test", body["model"])

				w.WriteHeader(tt.statusCode)
				_, _ = w.Write([]byte(tt.response))
			}))
			defer server.Close()

			client, err := newAnthropicClient(Config{APIKey: "test-key", Model: "claude-test", BaseURL: server.URL})
			require.NoError(t, err)

			got, err := client.Complete(context.Background(), CompletionRequest{System: "system text", Prompt: "hello"})
			if tt.wantErr {
				require.Error(t, err)
				var apiErr *APIError
				assert.Equal(t, tt.wantAPIErr, errors.As(err, &apiErr))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

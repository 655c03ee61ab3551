package assistant

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

	"github.com/mdpulso/clinic-assistant/pkg/logging"
)

func newRecordedServer(t *testing.T, status int, body string, captured **http.Request, rawBody *[]byte) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if captured != nil {
			*captured = r.Clone(context.Background())
		}
		if rawBody != nil {
			b, _ := io.ReadAll(r.Body)
			*rawBody = b
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
}

func TestCompleteSendsAuthAndAttributionHeaders(t *testing.T) {
	var captured *http.Request
	var rawBody []byte
	srv := newRecordedServer(t, http.StatusOK,
		`{"id":"gen-1","choices":[{"message":{"role":"assistant","content":"hola"}}]}`,
		&captured, &rawBody)
	defer srv.Close()

	client := NewOpenRouterClient(OpenRouterConfig{
		BaseURL: srv.URL,
		APIKey:  "sk-test",
		Referer: "https://clinic.example",
		Title:   "Clinic Assistant",
		Logger:  logging.New("error"),
	})

	completion, err := client.Complete(context.Background(), ChatRequest{
		Model:       defaultModel,
		Messages:    []ChatMessage{{Role: ChatRoleUser, Content: "Hola"}},
		Tools:       Registry(),
		ToolChoice:  "auto",
		Temperature: defaultTemperature,
	})

	require.NoError(t, err)
	assert.Equal(t, "hola", completion.Choices[0].Message.Content)

	require.NotNil(t, captured)
	assert.Equal(t, "/chat/completions", captured.URL.Path)
	assert.Equal(t, "Bearer sk-test", captured.Header.Get("Authorization"))
	assert.Equal(t, "https://clinic.example", captured.Header.Get("HTTP-Referer"))
	assert.Equal(t, "Clinic Assistant", captured.Header.Get("X-Title"))
	assert.Equal(t, "application/json", captured.Header.Get("Content-Type"))

	var sent ChatRequest
	require.NoError(t, json.Unmarshal(rawBody, &sent))
	assert.Equal(t, defaultModel, sent.Model)
	assert.Len(t, sent.Tools, len(Registry()))
	assert.Equal(t, "auto", sent.ToolChoice)
}

func TestCompleteRequiresAPIKey(t *testing.T) {
	client := NewOpenRouterClient(OpenRouterConfig{Logger: logging.New("error")})

	_, err := client.Complete(context.Background(), ChatRequest{})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "api key")
}

func TestCompleteSurfacesUpstreamErrorMessage(t *testing.T) {
	srv := newRecordedServer(t, http.StatusPaymentRequired,
		`{"error":{"message":"insufficient credits","code":402}}`, nil, nil)
	defer srv.Close()

	client := NewOpenRouterClient(OpenRouterConfig{BaseURL: srv.URL, APIKey: "sk-test", Logger: logging.New("error")})

	_, err := client.Complete(context.Background(), ChatRequest{})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "insufficient credits")
	assert.Contains(t, err.Error(), "402")
}

func TestCompleteTruncatesOpaqueErrorBody(t *testing.T) {
	srv := newRecordedServer(t, http.StatusBadGateway, strings.Repeat("x", 1000), nil, nil)
	defer srv.Close()

	client := NewOpenRouterClient(OpenRouterConfig{BaseURL: srv.URL, APIKey: "sk-test", Logger: logging.New("error")})

	_, err := client.Complete(context.Background(), ChatRequest{})

	require.Error(t, err)
	assert.Less(t, len(err.Error()), 400, "opaque upstream bodies are truncated")
}

func TestCompleteRejectsMalformedSuccessBody(t *testing.T) {
	srv := newRecordedServer(t, http.StatusOK, `{"choices":`, nil, nil)
	defer srv.Close()

	client := NewOpenRouterClient(OpenRouterConfig{BaseURL: srv.URL, APIKey: "sk-test", Logger: logging.New("error")})

	_, err := client.Complete(context.Background(), ChatRequest{})

	require.Error(t, err)
}

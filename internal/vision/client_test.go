package vision

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/huangsam/docname/internal/contract"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClientConfig(baseURL string) *contract.Config {
	return &contract.Config{
		Model:   "qwen2.5-vl-3b-instruct",
		BaseURL: baseURL,
		APIKey:  "secret",
		Timeout: 5 * time.Second,
	}
}

func completionResponse(content string) string {
	return `{"choices":[{"message":{"content":` + mustQuote(content) + `}}]}`
}

func mustQuote(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}

func TestClientAnalyze(t *testing.T) {
	var captured map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/v1/chat/completions", r.URL.Path)
		require.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		_, _ = w.Write([]byte(completionResponse("Date: 2024-07-12\nDescription: Kwik Fit Invoice\nID: 147218533")))
	}))
	defer server.Close()

	client := NewClient(testClientConfig(server.URL + "/v1"))
	reply, err := client.Analyze(context.Background(), contract.AnalysisRequest{
		ImageBase64: "aW1hZ2U=",
		Filename:    "scan.pdf",
	})
	require.NoError(t, err)
	assert.Contains(t, reply, "Kwik Fit Invoice")

	assert.Equal(t, "qwen2.5-vl-3b-instruct", captured["model"])
	messages := captured["messages"].([]any)
	require.Len(t, messages, 1)
	content := messages[0].(map[string]any)["content"].([]any)
	require.Len(t, content, 2)

	imagePart := content[0].(map[string]any)
	assert.Equal(t, "image_url", imagePart["type"])
	url := imagePart["image_url"].(map[string]any)["url"].(string)
	assert.True(t, strings.HasPrefix(url, "data:image/png;base64,"))

	textPart := content[1].(map[string]any)
	assert.Equal(t, "text", textPart["type"])
	assert.Contains(t, textPart["text"].(string), "Original filename: scan.pdf")
}

func TestClientAnalyzeNoImage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		content := body["messages"].([]any)[0].(map[string]any)["content"].([]any)

		// Text-only request in no-image mode
		require.Len(t, content, 1)
		assert.Equal(t, "text", content[0].(map[string]any)["type"])
		_, _ = w.Write([]byte(completionResponse("Description: Some Document")))
	}))
	defer server.Close()

	client := NewClient(testClientConfig(server.URL))
	_, err := client.Analyze(context.Background(), contract.AnalysisRequest{Filename: "scan.pdf"})
	require.NoError(t, err)
}

func TestClientAnalyzeReceiptPrompt(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		content := body["messages"].([]any)[0].(map[string]any)["content"].([]any)
		text := content[len(content)-1].(map[string]any)["text"].(string)
		assert.Contains(t, text, "Store/Merchant name")
		_, _ = w.Write([]byte(completionResponse("Store: Walmart")))
	}))
	defer server.Close()

	client := NewClient(testClientConfig(server.URL))
	_, err := client.Analyze(context.Background(), contract.AnalysisRequest{Filename: "r.jpg", Receipt: true})
	require.NoError(t, err)
}

func TestClientAnalyzeServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "model exploded", http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(testClientConfig(server.URL))
	_, err := client.Analyze(context.Background(), contract.AnalysisRequest{Filename: "scan.pdf"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "500")
}

func TestClientAnalyzeNoChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer server.Close()

	client := NewClient(testClientConfig(server.URL))
	_, err := client.Analyze(context.Background(), contract.AnalysisRequest{Filename: "scan.pdf"})
	assert.ErrorContains(t, err, "no choices")
}

func TestClientPing(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/models", r.URL.Path)
		_, _ = w.Write([]byte(`{"data":[]}`))
	}))
	defer server.Close()

	client := NewClient(testClientConfig(server.URL))
	assert.NoError(t, client.Ping(context.Background()))
}

func TestClientPingUnavailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := NewClient(testClientConfig(server.URL))
	err := client.Ping(context.Background())
	assert.ErrorIs(t, err, contract.ErrModelUnavailable)

	server.Close()
	err = client.Ping(context.Background())
	assert.ErrorIs(t, err, contract.ErrModelUnavailable)
}

func TestClientModelID(t *testing.T) {
	client := NewClient(testClientConfig("http://localhost:8080/v1"))
	assert.Equal(t, "qwen2.5-vl-3b-instruct", client.ModelID())
}

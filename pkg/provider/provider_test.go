package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	anthropicoption "github.com/anthropics/anthropic-sdk-go/option"
	"github.com/hugohenrick/pitchdeck/internal/infrastructure/config"
	"github.com/hugohenrick/pitchdeck/pkg/logger"
	openaioption "github.com/openai/openai-go/option"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var sampleRequest = Request{
	System: "be brief",
	Turns: []Turn{
		{Role: RoleUser, Content: "Hi"},
		{Role: RoleAssistant, Content: "Hello!"},
		{Role: RoleUser, Content: "How are you?"},
	},
	Model:     "test-model",
	MaxTokens: 64,
}

func sseServer(t *testing.T, status int, frames []string, inspect func(r *http.Request)) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if inspect != nil {
			inspect(r)
		}
		if status != http.StatusOK {
			w.WriteHeader(status)
			_, _ = w.Write([]byte(`{"error":{"message":"boom"}}`))
			return
		}
		w.Header().Set("Content-Type", "text/event-stream")
		w.WriteHeader(http.StatusOK)
		for _, f := range frames {
			_, _ = fmt.Fprint(w, f)
			w.(http.Flusher).Flush()
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func openAIFrames(fragments ...string) []string {
	var frames []string
	for _, f := range fragments {
		payload, _ := json.Marshal(map[string]interface{}{
			"id":      "chatcmpl-1",
			"object":  "chat.completion.chunk",
			"created": 1,
			"model":   "test-model",
			"choices": []map[string]interface{}{{"index": 0, "delta": map[string]string{"content": f}}},
		})
		frames = append(frames, "data: "+string(payload)+"\n\n")
	}
	return append(frames, "data: [DONE]\n\n")
}

func drain(t *testing.T, s Stream) ([]string, error) {
	t.Helper()
	defer s.Close()
	var out []string
	for s.Next() {
		out = append(out, s.Fragment())
	}
	return out, s.Err()
}

func TestCompatProvider_Stream(t *testing.T) {
	received := make(chan compatRequest, 1)
	srv := sseServer(t, http.StatusOK, openAIFrames("Hel", "lo!"), func(r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		var body compatRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		received <- body
	})

	p := NewCompatProvider(srv.URL+"/", "secret", srv.Client(), logger.NewNop())
	s, err := p.Stream(context.Background(), sampleRequest)
	require.NoError(t, err)

	fragments, err := drain(t, s)
	require.NoError(t, err)
	assert.Equal(t, []string{"Hel", "lo!"}, fragments)

	got := <-received
	assert.True(t, got.Stream)
	assert.Equal(t, "test-model", got.Model)
	assert.EqualValues(t, 64, got.MaxTokens)
	require.Len(t, got.Messages, 4)
	assert.Equal(t, compatMessage{Role: "system", Content: "be brief"}, got.Messages[0])
	assert.Equal(t, compatMessage{Role: "assistant", Content: "Hello!"}, got.Messages[2])
}

func TestCompatProvider_HTTPError(t *testing.T) {
	srv := sseServer(t, http.StatusTooManyRequests, nil, nil)

	p := NewCompatProvider(srv.URL, "", srv.Client(), logger.NewNop())
	_, err := p.Stream(context.Background(), sampleRequest)
	require.ErrorIs(t, err, ErrUpstream)
}

func TestCompatProvider_EmptyRequest(t *testing.T) {
	p := NewCompatProvider("http://unused", "", nil, logger.NewNop())
	_, err := p.Stream(context.Background(), Request{})
	require.ErrorIs(t, err, ErrEmptyRequest)
}

func TestOpenAIProvider_Stream(t *testing.T) {
	srv := sseServer(t, http.StatusOK, openAIFrames("Hel", "lo!"), func(r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "/chat/completions"))
	})

	p := NewOpenAIProvider("test-key", srv.URL+"/", logger.NewNop(), openaioption.WithMaxRetries(0))
	s, err := p.Stream(context.Background(), sampleRequest)
	require.NoError(t, err)

	fragments, err := drain(t, s)
	require.NoError(t, err)
	assert.Equal(t, []string{"Hel", "lo!"}, fragments)
}

func TestOpenAIProvider_HTTPError(t *testing.T) {
	srv := sseServer(t, http.StatusInternalServerError, nil, nil)

	p := NewOpenAIProvider("test-key", srv.URL+"/", logger.NewNop(), openaioption.WithMaxRetries(0))
	s, err := p.Stream(context.Background(), sampleRequest)
	require.NoError(t, err)

	fragments, err := drain(t, s)
	require.Error(t, err)
	assert.Empty(t, fragments)
}

func TestAnthropicProvider_Stream(t *testing.T) {
	frames := []string{
		"event: message_start\ndata: {\"type\":\"message_start\",\"message\":{\"id\":\"msg_1\",\"type\":\"message\",\"role\":\"assistant\",\"content\":[],\"model\":\"test-model\",\"stop_reason\":null,\"stop_sequence\":null,\"usage\":{\"input_tokens\":1,\"output_tokens\":1}}}\n\n",
		"event: content_block_start\ndata: {\"type\":\"content_block_start\",\"index\":0,\"content_block\":{\"type\":\"text\",\"text\":\"\"}}\n\n",
		"event: ping\ndata: {\"type\":\"ping\"}\n\n",
		"event: content_block_delta\ndata: {\"type\":\"content_block_delta\",\"index\":0,\"delta\":{\"type\":\"text_delta\",\"text\":\"Hel\"}}\n\n",
		"event: content_block_delta\ndata: {\"type\":\"content_block_delta\",\"index\":0,\"delta\":{\"type\":\"text_delta\",\"text\":\"lo!\"}}\n\n",
		"event: content_block_stop\ndata: {\"type\":\"content_block_stop\",\"index\":0}\n\n",
		"event: message_stop\ndata: {\"type\":\"message_stop\"}\n\n",
	}
	srv := sseServer(t, http.StatusOK, frames, func(r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "/messages"))
	})

	p := NewAnthropicProvider("test-key", logger.NewNop(),
		anthropicoption.WithBaseURL(srv.URL+"/"),
		anthropicoption.WithMaxRetries(0))
	s, err := p.Stream(context.Background(), sampleRequest)
	require.NoError(t, err)

	fragments, err := drain(t, s)
	require.NoError(t, err)
	assert.Equal(t, []string{"Hel", "lo!"}, fragments)
}

func TestOpenAIProvider_SkipsMalformedFrame(t *testing.T) {
	good := openAIFrames("Hel", "lo!")
	frames := []string{good[0], "data: {not json\n\n", ": keep-alive\n\n", good[1], good[2]}
	srv := sseServer(t, http.StatusOK, frames, nil)

	p := NewOpenAIProvider("test-key", srv.URL+"/", logger.NewNop(), openaioption.WithMaxRetries(0))
	s, err := p.Stream(context.Background(), sampleRequest)
	require.NoError(t, err)

	fragments, err := drain(t, s)
	require.NoError(t, err)
	assert.Equal(t, []string{"Hel", "lo!"}, fragments)
}

func TestOpenAIProvider_TruncatedStream(t *testing.T) {
	frames := openAIFrames("Sor")
	srv := sseServer(t, http.StatusOK, frames[:len(frames)-1], nil)

	p := NewOpenAIProvider("test-key", srv.URL+"/", logger.NewNop(), openaioption.WithMaxRetries(0))
	s, err := p.Stream(context.Background(), sampleRequest)
	require.NoError(t, err)

	fragments, err := drain(t, s)
	require.ErrorIs(t, err, io.ErrUnexpectedEOF)
	assert.Equal(t, []string{"Sor"}, fragments)
}

func anthropicFrames(fragments ...string) []string {
	frames := []string{
		"event: message_start\ndata: {\"type\":\"message_start\",\"message\":{\"id\":\"msg_1\",\"type\":\"message\",\"role\":\"assistant\",\"content\":[],\"model\":\"test-model\",\"stop_reason\":null,\"stop_sequence\":null,\"usage\":{\"input_tokens\":1,\"output_tokens\":1}}}\n\n",
		"event: content_block_start\ndata: {\"type\":\"content_block_start\",\"index\":0,\"content_block\":{\"type\":\"text\",\"text\":\"\"}}\n\n",
	}
	for _, f := range fragments {
		payload, _ := json.Marshal(map[string]interface{}{
			"type":  "content_block_delta",
			"index": 0,
			"delta": map[string]string{"type": "text_delta", "text": f},
		})
		frames = append(frames, "event: content_block_delta\ndata: "+string(payload)+"\n\n")
	}
	return append(frames,
		"event: content_block_stop\ndata: {\"type\":\"content_block_stop\",\"index\":0}\n\n",
		"event: message_stop\ndata: {\"type\":\"message_stop\"}\n\n",
	)
}

func TestAnthropicProvider_SkipsMalformedFrame(t *testing.T) {
	good := anthropicFrames("Hel", "lo!")
	frames := append([]string{}, good[:3]...)
	frames = append(frames, "event: content_block_delta\ndata: {\"type\":\"content_block_delta\",\n\n")
	frames = append(frames, good[3:]...)
	srv := sseServer(t, http.StatusOK, frames, nil)

	p := NewAnthropicProvider("test-key", logger.NewNop(),
		anthropicoption.WithBaseURL(srv.URL+"/"),
		anthropicoption.WithMaxRetries(0))
	s, err := p.Stream(context.Background(), sampleRequest)
	require.NoError(t, err)

	fragments, err := drain(t, s)
	require.NoError(t, err)
	assert.Equal(t, []string{"Hel", "lo!"}, fragments)
}

func TestAnthropicProvider_TruncatedStream(t *testing.T) {
	frames := anthropicFrames("Sor")
	srv := sseServer(t, http.StatusOK, frames[:3], nil)

	p := NewAnthropicProvider("test-key", logger.NewNop(),
		anthropicoption.WithBaseURL(srv.URL+"/"),
		anthropicoption.WithMaxRetries(0))
	s, err := p.Stream(context.Background(), sampleRequest)
	require.NoError(t, err)

	fragments, err := drain(t, s)
	require.ErrorIs(t, err, io.ErrUnexpectedEOF)
	assert.Equal(t, []string{"Sor"}, fragments)
}

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.ChatConfig
		want    interface{}
		wantErr error
	}{
		{"openai", config.ChatConfig{Provider: config.ProviderOpenAI, OpenAIAPIKey: "k"}, &OpenAIProvider{}, nil},
		{"openai without key", config.ChatConfig{Provider: config.ProviderOpenAI}, nil, ErrMissingAPIKey},
		{"anthropic", config.ChatConfig{Provider: config.ProviderAnthropic, AnthropicAPIKey: "k"}, &AnthropicProvider{}, nil},
		{"compat", config.ChatConfig{Provider: config.ProviderCompat, OpenAIBaseURL: "http://llm"}, &CompatProvider{}, nil},
		{"unknown", config.ChatConfig{Provider: "cohere"}, nil, config.ErrUnknownProvider},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := New(tt.cfg, logger.NewNop())
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.IsType(t, tt.want, p)
		})
	}
}

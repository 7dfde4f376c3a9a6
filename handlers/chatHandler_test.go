package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Ak1ra777/LeadFlow-demo/models"
)

type fakeAgent struct {
	answer  string
	err     error
	history []models.ChatMessage
}

func (f *fakeAgent) Respond(ctx context.Context, history []models.ChatMessage) (string, error) {
	f.history = history
	return f.answer, f.err
}

func newTestChatHandler(agent agentResponder) *ChatHandler {
	return &ChatHandler{
		agentService: agent,
		companyName:  "კომპანია",
		endCallDelay: 0,
	}
}

func postChat(t *testing.T, h *ChatHandler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest("POST", "/chat/completions", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ChatCompletions(rec, req)
	return rec
}

func parseStream(t *testing.T, body string) ([]models.StreamChunk, bool) {
	t.Helper()
	var chunks []models.StreamChunk
	done := false
	for _, line := range strings.Split(body, "\n") {
		if !strings.HasPrefix(line, "data: ") {
			continue
		}
		payload := strings.TrimPrefix(line, "data: ")
		if payload == "[DONE]" {
			done = true
			continue
		}
		if done {
			t.Fatalf("chunk after [DONE]: %s", payload)
		}
		var chunk models.StreamChunk
		if err := json.Unmarshal([]byte(payload), &chunk); err != nil {
			t.Fatalf("failed to parse chunk %q: %v", payload, err)
		}
		chunks = append(chunks, chunk)
	}
	return chunks, done
}

func TestChatCompletionsStreamsAnswer(t *testing.T) {
	agent := &fakeAgent{answer: "ვიზიტი 50 ლარი ღირს."}
	h := newTestChatHandler(agent)

	rec := postChat(t, h, `{"messages":[{"role":"user","content":"რა ღირს ვიზიტი?"}],"call_id":"call-42"}`)

	if ct := rec.Header().Get("Content-Type"); ct != "text/event-stream" {
		t.Errorf("expected text/event-stream, got %q", ct)
	}

	chunks, done := parseStream(t, rec.Body.String())
	if !done {
		t.Fatal("stream missing [DONE] sentinel")
	}
	if len(chunks) != 3 {
		t.Fatalf("expected 3 chunks (role, content, stop), got %d", len(chunks))
	}

	if chunks[0].Choices[0].Delta.Role != "assistant" {
		t.Errorf("first chunk must open the assistant role, got %+v", chunks[0].Choices[0].Delta)
	}

	// Digits are rewritten to Georgian words for TTS.
	if got := chunks[1].Choices[0].Delta.Content; got != "ვიზიტი ხუთი ნული ლარი ღირს." {
		t.Errorf("unexpected content chunk %q", got)
	}

	last := chunks[len(chunks)-1].Choices[0]
	if last.FinishReason == nil || *last.FinishReason != "stop" {
		t.Errorf("final chunk must carry finish_reason stop, got %+v", last.FinishReason)
	}
}

func TestChatCompletionsAgentFailure(t *testing.T) {
	agent := &fakeAgent{err: errors.New("oracle down")}
	h := newTestChatHandler(agent)

	rec := postChat(t, h, `{"messages":[{"role":"user","content":"გამარჯობა"}]}`)

	chunks, done := parseStream(t, rec.Body.String())
	if !done {
		t.Fatal("failed turn must still close the stream with [DONE]")
	}
	if len(chunks) != 3 {
		t.Fatalf("expected 3 chunks, got %d", len(chunks))
	}
	if got := chunks[1].Choices[0].Delta.Content; got != fallbackReply {
		t.Errorf("expected fallback content, got %q", got)
	}
	last := chunks[len(chunks)-1].Choices[0]
	if last.FinishReason == nil || *last.FinishReason != "stop" {
		t.Errorf("failed turn must still end with finish_reason stop")
	}
}

func TestChatCompletionsEndCall(t *testing.T) {
	agent := &fakeAgent{answer: "დიდი მადლობა ზარისთვის კომპანია-ში. ნახვამდის!"}
	h := newTestChatHandler(agent)

	rec := postChat(t, h, `{"messages":[{"role":"user","content":"ნახვამდის"}]}`)

	chunks, done := parseStream(t, rec.Body.String())
	if !done {
		t.Fatal("stream missing [DONE] sentinel")
	}
	if len(chunks) != 4 {
		t.Fatalf("expected 4 chunks (role, content, endCall, stop), got %d", len(chunks))
	}

	toolChunk := chunks[2].Choices[0]
	if toolChunk.FinishReason == nil || *toolChunk.FinishReason != "tool_calls" {
		t.Fatalf("expected tool_calls finish reason, got %+v", toolChunk.FinishReason)
	}
	if len(toolChunk.Delta.ToolCalls) != 1 || toolChunk.Delta.ToolCalls[0].Function.Name != "endCall" {
		t.Errorf("expected a single endCall tool call, got %+v", toolChunk.Delta.ToolCalls)
	}

	// Content precedes the termination signal, stop closes the stream.
	if chunks[1].Choices[0].Delta.Content == "" {
		t.Error("content chunk must precede the endCall signal")
	}
	if fr := chunks[3].Choices[0].FinishReason; fr == nil || *fr != "stop" {
		t.Error("stream must close with finish_reason stop")
	}
}

func TestChatCompletionsDefaultGreeting(t *testing.T) {
	agent := &fakeAgent{answer: "გამარჯობა!"}
	h := newTestChatHandler(agent)

	postChat(t, h, `{"messages":[{"role":"system","content":"ignored"},{"role":"user","content":"   "}]}`)

	if len(agent.history) != 1 || agent.history[0].Role != "user" || agent.history[0].Content != "Hello" {
		t.Errorf("expected default greeting history, got %+v", agent.history)
	}
}

func TestChatCompletionsInvalidJSON(t *testing.T) {
	h := newTestChatHandler(&fakeAgent{})

	rec := postChat(t, h, `{not json`)
	if rec.Code != 400 {
		t.Errorf("expected 400 for malformed body, got %d", rec.Code)
	}
}

func TestFilterHistory(t *testing.T) {
	filtered := filterHistory([]models.ChatMessage{
		{Role: "system", Content: "persona"},
		{Role: "user", Content: "  hi  "},
		{Role: "assistant", Content: ""},
		{Role: "assistant", Content: "hello"},
		{Role: "tool", Content: "result"},
	})

	if len(filtered) != 2 {
		t.Fatalf("expected 2 surviving turns, got %d", len(filtered))
	}
	if filtered[0].Content != "hi" {
		t.Errorf("expected trimmed content, got %q", filtered[0].Content)
	}
	if filtered[1].Role != "assistant" || filtered[1].Content != "hello" {
		t.Errorf("unexpected second turn %+v", filtered[1])
	}
}

func TestResolveThreadID(t *testing.T) {
	tests := []struct {
		name     string
		req      models.ChatCompletionRequest
		expected string
	}{
		{
			name:     "conversation id wins",
			req:      models.ChatCompletionRequest{ConversationID: "conv", CallID: "call", SessionID: "sess"},
			expected: "conv",
		},
		{
			name:     "call id next",
			req:      models.ChatCompletionRequest{CallID: "call", SessionID: "sess"},
			expected: "call",
		},
		{
			name:     "session id last",
			req:      models.ChatCompletionRequest{SessionID: "sess"},
			expected: "sess",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := resolveThreadID(&tt.req); got != tt.expected {
				t.Errorf("resolveThreadID() = %q, expected %q", got, tt.expected)
			}
		})
	}

	// No identifier at all falls back to a timestamp-derived id.
	if got := resolveThreadID(&models.ChatCompletionRequest{}); got == "" {
		t.Error("expected a non-empty fallback thread id")
	}
}

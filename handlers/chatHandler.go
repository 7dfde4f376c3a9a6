package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/Ak1ra777/LeadFlow-demo/models"
	"github.com/Ak1ra777/LeadFlow-demo/services/phonetics"

	"github.com/gorilla/mux"
	"github.com/samber/lo"
)

const (
	streamModel         = "leadflow-v1"
	agentTimeout        = 60 * time.Second
	defaultEndCallDelay = 800 * time.Millisecond

	fallbackReply = "ბოდიში, ტექნიკური პრობლემა მაქვს. სცადეთ თავიდან."
)

type agentResponder interface {
	Respond(ctx context.Context, history []models.ChatMessage) (string, error)
}

// ChatHandler serves the /chat/completions endpoint Vapi points its custom
// LLM integration at: one streamed turn per request, full history supplied
// by the caller.
type ChatHandler struct {
	agentService agentResponder
	companyName  string
	endCallDelay time.Duration
}

func NewChatHandler(agentService agentResponder, companyName string) *ChatHandler {
	return &ChatHandler{
		agentService: agentService,
		companyName:  companyName,
		endCallDelay: defaultEndCallDelay,
	}
}

func (h *ChatHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/chat/completions", h.ChatCompletions).Methods("POST")
}

func (h *ChatHandler) ChatCompletions(w http.ResponseWriter, r *http.Request) {
	var req models.ChatCompletionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("[ERROR] Failed to decode chat request JSON: %v", err)
		writeErrorResponse(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}

	history := filterHistory(req.Messages)
	if len(history) == 0 {
		// The oracle always needs something to respond to.
		history = []models.ChatMessage{{Role: "user", Content: "Hello"}}
	}

	threadID := resolveThreadID(&req)
	log.Printf("[INFO] Brain heard (thread %s): %s", threadID, lastUserContent(history))

	flusher, ok := w.(http.Flusher)
	if !ok {
		log.Printf("[ERROR] Response writer does not support streaming")
		writeErrorResponse(w, http.StatusInternalServerError, "Streaming unsupported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	for event := range h.stream(r.Context(), history, threadID) {
		fmt.Fprintf(w, "data: %s\n\n", event)
		flusher.Flush()
	}
}

// stream produces the turn's SSE payloads in order on a buffered channel.
// The role acknowledgment is sent before the agent runs so the transport
// sees a live stream immediately; the slow oracle call happens on this
// producer goroutine, never on the writer path. Every path ends with the
// stop chunk and the [DONE] sentinel.
func (h *ChatHandler) stream(ctx context.Context, history []models.ChatMessage, threadID string) <-chan string {
	events := make(chan string, 4)

	go func() {
		defer close(events)

		chunkID := fmt.Sprintf("chatcmpl-%d", time.Now().Unix())
		created := time.Now().Unix()

		events <- chunk(chunkID, created, models.Delta{Role: "assistant"}, nil)

		tctx, cancel := context.WithTimeout(ctx, agentTimeout)
		final, err := h.agentService.Respond(tctx, history)
		cancel()

		if err != nil {
			log.Printf("[ERROR] Turn failed for thread %s: %v", threadID, err)
			events <- chunk(chunkID, created, models.Delta{Content: fallbackReply}, nil)
		} else {
			log.Printf("[INFO] Brain said: %s", final)
			spoken := phonetics.GeorgianizeDigitsForTTS(final)
			events <- chunk(chunkID, created, models.Delta{Content: spoken}, nil)

			if shouldEndCall(final, h.companyName) {
				// Give TTS a moment to start speaking the goodbye
				// before the transport tears the call down.
				time.Sleep(h.endCallDelay)

				finishReason := "tool_calls"
				events <- chunk(chunkID, created, models.Delta{
					ToolCalls: []models.ToolCallDelta{{
						Index: 0,
						ID:    fmt.Sprintf("call_%d", time.Now().UnixMilli()),
						Type:  "function",
						Function: models.FunctionCall{
							Name:      "endCall",
							Arguments: "{}",
						},
					}},
				}, &finishReason)
			}
		}

		finishReason := "stop"
		events <- chunk(chunkID, created, models.Delta{}, &finishReason)
		events <- "[DONE]"
	}()

	return events
}

func chunk(id string, created int64, delta models.Delta, finishReason *string) string {
	payload, err := json.Marshal(models.StreamChunk{
		ID:      id,
		Object:  "chat.completion.chunk",
		Created: created,
		Model:   streamModel,
		Choices: []models.StreamChoice{{Index: 0, Delta: delta, FinishReason: finishReason}},
	})
	if err != nil {
		log.Printf("[ERROR] Failed to marshal stream chunk: %v", err)
		return "{}"
	}
	return string(payload)
}

// filterHistory drops empty turns and any role other than user/assistant
// so system prompts from the transport never pollute the model's framing.
func filterHistory(messages []models.ChatMessage) []models.ChatMessage {
	return lo.FilterMap(messages, func(m models.ChatMessage, _ int) (models.ChatMessage, bool) {
		content := strings.TrimSpace(m.Content)
		if content == "" || (m.Role != "user" && m.Role != "assistant") {
			return models.ChatMessage{}, false
		}
		return models.ChatMessage{Role: m.Role, Content: content}, true
	})
}

func resolveThreadID(req *models.ChatCompletionRequest) string {
	for _, id := range []string{req.ConversationID, req.CallID, req.SessionID} {
		if id != "" {
			return id
		}
	}
	return fmt.Sprintf("%d", time.Now().UnixMilli())
}

func lastUserContent(history []models.ChatMessage) string {
	for i := len(history) - 1; i >= 0; i-- {
		if history[i].Role == "user" {
			return history[i].Content
		}
	}
	return ""
}

package gemini

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

type fakeChatCreator struct {
	mu    sync.Mutex
	calls []chatCallRecord
	queue map[string][]fakeChatResponse
}

type chatCallRecord struct {
	model   string
	config  *genai.GenerateContentConfig
	history []*genai.Content
	chat    *fakeChat
}

type fakeChatResponse struct {
	resp *genai.GenerateContentResponse
	err  error
}

type fakeChat struct {
	mu       sync.Mutex
	response fakeChatResponse
	messages []string
}

func (f *fakeChat) SendMessage(_ context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, part := range parts {
		f.messages = append(f.messages, part.Text)
	}
	return f.response.resp, f.response.err
}

func newFakeChatCreator() *fakeChatCreator {
	return &fakeChatCreator{queue: make(map[string][]fakeChatResponse)}
}

func (f *fakeChatCreator) enqueue(model string, resp *genai.GenerateContentResponse, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queue[model] = append(f.queue[model], fakeChatResponse{resp: resp, err: err})
}

func (f *fakeChatCreator) Create(_ context.Context, model string, config *genai.GenerateContentConfig, history []*genai.Content) (chatSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	responses := f.queue[model]
	if len(responses) == 0 {
		return nil, errors.New("unexpected call")
	}
	res := responses[0]
	f.queue[model] = responses[1:]
	chat := &fakeChat{response: res}
	f.calls = append(f.calls, chatCallRecord{model: model, config: config, history: history, chat: chat})
	return chat, nil
}

func textResponse(text string) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []*genai.Part{{Text: text}}},
		}},
	}
}

func noWait(t *testing.T) {
	t.Helper()
	originalWait := wait
	wait = func(context.Context, time.Duration) error { return nil }
	t.Cleanup(func() { wait = originalWait })
}

func TestGeneratorChatSendsHistoryAndSystem(t *testing.T) {
	chats := newFakeChatCreator()
	chats.enqueue("gemini-pro", textResponse(`{"message":"hi","suggestions":[]}`), nil)

	g := &Generator{chats: chats, model: "gemini-pro", logger: zap.NewNop()}

	history := []*genai.Content{
		genai.NewContentFromText("first question", genai.RoleUser),
		genai.NewContentFromText("first answer", genai.RoleModel),
	}

	output, err := g.Chat(context.Background(), "system", history, "  second question ")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if output != `{"message":"hi","suggestions":[]}` {
		t.Fatalf("unexpected output: %q", output)
	}

	if len(chats.calls) != 1 {
		t.Fatalf("expected 1 call, got %d", len(chats.calls))
	}

	call := chats.calls[0]
	if call.config.ResponseMIMEType != "application/json" {
		t.Fatalf("expected json response mime type, got %q", call.config.ResponseMIMEType)
	}
	if call.config.SystemInstruction == nil || call.config.SystemInstruction.Parts[0].Text != "system" {
		t.Fatalf("expected system instruction to be set")
	}
	if len(call.history) != 2 || call.history[1].Role != genai.RoleModel {
		t.Fatalf("unexpected history: %+v", call.history)
	}
	if len(call.chat.messages) != 1 || call.chat.messages[0] != "second question" {
		t.Fatalf("unexpected chat message: %+v", call.chat.messages)
	}
}

func TestGeneratorRejectsEmptyMessage(t *testing.T) {
	g := &Generator{chats: newFakeChatCreator(), model: "gemini-pro", logger: zap.NewNop()}

	if _, err := g.Chat(context.Background(), "sys", nil, "   "); err == nil {
		t.Fatal("expected error for empty message")
	}
}

func TestGeneratorSingleAttemptByDefault(t *testing.T) {
	noWait(t)

	chats := newFakeChatCreator()
	tempErr := genai.APIError{Code: http.StatusInternalServerError, Status: "INTERNAL"}
	chats.enqueue("gemini-pro", nil, tempErr)
	chats.enqueue("gemini-pro", textResponse("unused"), nil)

	g := &Generator{chats: chats, model: "gemini-pro", logger: zap.NewNop()}

	if _, err := g.Chat(context.Background(), "sys", nil, "msg"); err == nil {
		t.Fatal("expected error without retries")
	}

	if len(chats.calls) != 1 {
		t.Fatalf("expected single call, got %d", len(chats.calls))
	}
}

func TestGeneratorRetriesOnTemporaryError(t *testing.T) {
	noWait(t)

	chats := newFakeChatCreator()
	tempErr := genai.APIError{Code: http.StatusInternalServerError, Status: "INTERNAL"}
	chats.enqueue("gemini-pro", nil, tempErr)
	chats.enqueue("gemini-pro", textResponse("retry ok"), nil)

	g := &Generator{
		chats:      chats,
		model:      "gemini-pro",
		maxRetries: 2,
		logger:     zap.NewNop(),
	}

	output, err := g.Chat(context.Background(), "system", nil, "message")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if output != "retry ok" {
		t.Fatalf("unexpected output: %q", output)
	}

	if len(chats.calls) != 2 {
		t.Fatalf("expected 2 calls, got %d", len(chats.calls))
	}
}

func TestGeneratorStopsAfterRetriesExhausted(t *testing.T) {
	noWait(t)

	chats := newFakeChatCreator()
	tempErr := genai.APIError{Code: http.StatusInternalServerError, Status: "INTERNAL"}
	chats.enqueue("gemini-pro", nil, tempErr)
	chats.enqueue("gemini-pro", nil, tempErr)

	g := &Generator{
		chats:      chats,
		model:      "gemini-pro",
		maxRetries: 2,
		logger:     zap.NewNop(),
	}

	_, err := g.Chat(context.Background(), "sys", nil, "msg")
	if err == nil {
		t.Fatal("expected error after retries exhausted")
	}

	var apiErr genai.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != http.StatusInternalServerError {
		t.Fatalf("expected api error to be preserved, got %v", err)
	}

	if len(chats.calls) != 2 {
		t.Fatalf("expected 2 calls, got %d", len(chats.calls))
	}
}

func TestGeneratorDoesNotRetryOnLongQuotaDelay(t *testing.T) {
	chats := newFakeChatCreator()
	quotaErr := genai.APIError{
		Code:    http.StatusTooManyRequests,
		Status:  "RESOURCE_EXHAUSTED",
		Message: "quota exhausted, retry after 60s",
	}
	chats.enqueue("gemini-pro", nil, quotaErr)

	g := &Generator{
		chats:      chats,
		model:      "gemini-pro",
		maxRetries: 3,
		logger:     zap.NewNop(),
	}

	if _, err := g.Chat(context.Background(), "sys", nil, "msg"); err == nil {
		t.Fatal("expected error when quota delay too long")
	}

	if len(chats.calls) != 1 {
		t.Fatalf("expected single call, got %d", len(chats.calls))
	}
}

func TestGeneratorEmptyResponse(t *testing.T) {
	chats := newFakeChatCreator()
	chats.enqueue("gemini-pro", &genai.GenerateContentResponse{}, nil)

	g := &Generator{chats: chats, model: "gemini-pro", logger: zap.NewNop()}

	if _, err := g.Chat(context.Background(), "sys", nil, "msg"); err == nil {
		t.Fatal("expected error for empty response")
	}
}

func TestRetryDelay(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		err     error
		attempt int
		delay   time.Duration
		retry   bool
	}{
		{name: "plain error", err: errors.New("boom"), attempt: 1},
		{name: "bad request", err: genai.APIError{Code: http.StatusBadRequest}, attempt: 1},
		{name: "server error first", err: genai.APIError{Code: http.StatusServiceUnavailable}, attempt: 1, delay: 2 * time.Second, retry: true},
		{name: "server error capped", err: genai.APIError{Code: http.StatusInternalServerError}, attempt: 5, delay: 10 * time.Second, retry: true},
		{name: "quota short", err: genai.APIError{Code: http.StatusTooManyRequests, Message: "Please retry in 3.5s."}, attempt: 1, delay: 3500 * time.Millisecond, retry: true},
		{name: "quota without hint", err: genai.APIError{Code: http.StatusTooManyRequests}, attempt: 2, delay: 4 * time.Second, retry: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			delay, retry := retryDelay(tt.err, tt.attempt)
			if retry != tt.retry || delay != tt.delay {
				t.Fatalf("retryDelay() = (%v, %v), want (%v, %v)", delay, retry, tt.delay, tt.retry)
			}
		})
	}
}

package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"legal-marketplace/internal/data/entity"
	"legal-marketplace/internal/data/repository"
	"legal-marketplace/internal/dto/request"
	"legal-marketplace/pkg/llm"
	"legal-marketplace/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

func TestCategorize(t *testing.T) {
	tests := []struct {
		message string
		want    string
	}{
		{"How do I file for DIVORCE?", "family"},
		{"The police refused to register my FIR", "criminal"},
		{"My landlord kept the deposit", "property"},
		{"I want a refund for a broken product", "consumer"},
		{"Someone committed online fraud with my card", "cyber"},
		{"My employer has not paid my salary", "labour"},
		{"Is this contract enforceable?", "civil"},
		{"What is the meaning of life?", "general"},
		// first matching category wins
		{"divorce court hearing", "family"},
	}

	for _, tt := range tests {
		t.Run(tt.message, func(t *testing.T) {
			if got := categorize(tt.message); got != tt.want {
				t.Errorf("categorize(%q) = %q, want %q", tt.message, got, tt.want)
			}
		})
	}
}

type chatFixture struct {
	sessions *mockChatSessionRepo
	messages *mockChatMessageRepo
	records  *mockAIResponseRepo
	llm      *fakeCompleter
	svc      ChatService
}

func newChatFixture(completer *fakeCompleter) *chatFixture {
	f := &chatFixture{
		sessions: &mockChatSessionRepo{sessions: make(map[uuid.UUID]*entity.ChatSession)},
		messages: &mockChatMessageRepo{},
		records:  &mockAIResponseRepo{},
		llm:      completer,
	}
	repo := &repository.Repository{
		ChatSession: f.sessions,
		ChatMessage: f.messages,
		AIResponse:  f.records,
	}
	f.svc = NewChatService(repo, completer, utils.AIConfig{MaxTokens: 800, Temperature: 0.7}, zap.NewNop())
	return f
}

func TestChatAskAnswers(t *testing.T) {
	f := newChatFixture(&fakeCompleter{reply: &llm.Completion{Text: "Section 13 of the Hindu Marriage Act...", TokensUsed: 120, Model: "gemini-test"}})
	userID := uuid.New()
	message := strings.Repeat("a", 60) + " divorce"

	resp, err := f.svc.Ask(context.Background(), userID, &request.AIChatRequest{Message: message})
	if err != nil {
		t.Fatalf("Ask() error = %v", err)
	}

	if resp.Category != "family" {
		t.Errorf("Category = %q, want family", resp.Category)
	}
	if resp.ConfidenceScore != 0.8 {
		t.Errorf("ConfidenceScore = %v, want 0.8", resp.ConfidenceScore)
	}
	if len(f.sessions.sessions) != 1 {
		t.Fatalf("expected a new session, got %d", len(f.sessions.sessions))
	}
	for _, cs := range f.sessions.sessions {
		want := strings.Repeat("a", 50) + "..."
		if cs.Title == nil || *cs.Title != want {
			t.Errorf("session title = %v, want %q", cs.Title, want)
		}
	}
	if len(f.messages.messages) != 2 {
		t.Fatalf("stored %d messages, want 2", len(f.messages.messages))
	}
	ai := f.messages.messages[1]
	if ai.MessageType != entity.MessageAI || ai.Metadata["model"] != "gemini-test" || ai.Metadata["tokens_used"] != 120 {
		t.Errorf("ai message = %+v", ai)
	}
	if len(f.records.records) != 1 || *f.records.records[0].Category != "family" {
		t.Errorf("analytics record not stored correctly: %+v", f.records.records)
	}
	if f.sessions.touched != 1 {
		t.Errorf("session touched %d times, want 1", f.sessions.touched)
	}
}

func TestChatAskFallsBackOnModelError(t *testing.T) {
	f := newChatFixture(&fakeCompleter{err: errors.New("quota exceeded")})

	resp, err := f.svc.Ask(context.Background(), uuid.New(), &request.AIChatRequest{Message: "my landlord is evicting me"})
	if err != nil {
		t.Fatalf("Ask() error = %v", err)
	}

	if resp.AIMessage.Content != fallbackReply {
		t.Errorf("content = %q, want fallback", resp.AIMessage.Content)
	}
	if resp.Category != "error" || resp.ConfidenceScore != 0 {
		t.Errorf("category/confidence = %q/%v, want error/0", resp.Category, resp.ConfidenceScore)
	}
	if resp.AIMessage.Metadata["error"] != "quota exceeded" {
		t.Errorf("metadata = %v", resp.AIMessage.Metadata)
	}
}

func TestChatAskForeignSession(t *testing.T) {
	f := newChatFixture(&fakeCompleter{reply: &llm.Completion{Text: "ok"}})
	other := &entity.ChatSession{UserID: uuid.New(), IsActive: true}
	other.ID = uuid.New()
	f.sessions.sessions[other.ID] = other

	sessionID := other.ID.String()
	_, err := f.svc.Ask(context.Background(), uuid.New(), &request.AIChatRequest{Message: "hello", SessionID: &sessionID})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("Ask() error = %v, want ErrNotFound", err)
	}
	if f.llm.calls != 0 {
		t.Error("model should not be called for a foreign session")
	}
	if len(f.messages.messages) != 0 {
		t.Error("no message should be stored for a foreign session")
	}
}

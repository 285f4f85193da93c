package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"legal-marketplace/internal/data/entity"
	"legal-marketplace/internal/data/repository"
	"legal-marketplace/internal/dto/request"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

func TestConversationCreate(t *testing.T) {
	client := newUser(entity.RoleUser)
	lawyer := newUser(entity.RoleLawyer)
	other := newUser(entity.RoleUser)
	inactive := newUser(entity.RoleLawyer)
	inactive.IsActive = false

	tests := []struct {
		name      string
		lawyerID  string
		createErr error
		wantErr   error
	}{
		{name: "ok", lawyerID: lawyer.ID.String()},
		{name: "self", lawyerID: client.ID.String(), wantErr: ErrInvalidInput},
		{name: "not a lawyer", lawyerID: other.ID.String(), wantErr: ErrInvalidInput},
		{name: "inactive lawyer", lawyerID: inactive.ID.String(), wantErr: ErrNotFound},
		{name: "duplicate", lawyerID: lawyer.ID.String(), createErr: repository.ErrDuplicate, wantErr: ErrConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			created := 0
			repo := &repository.Repository{
				User: usersOf(client, lawyer, other, inactive),
				Conversation: &mockConversationRepo{createFunc: func(ctx context.Context, c *entity.Conversation) error {
					created++
					return tt.createErr
				}},
			}
			svc := NewConversationService(repo, zap.NewNop())

			resp, err := svc.Create(context.Background(), client.ID, &request.CreateConversationRequest{
				LawyerID: tt.lawyerID,
				Subject:  "Tenancy question",
			})
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Create() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Create() error = %v", err)
			}
			if created != 1 {
				t.Errorf("Create called %d times, want 1", created)
			}
			if resp.Lawyer == nil || resp.Lawyer.ID != lawyer.ID.String() {
				t.Errorf("lawyer = %+v, want %s", resp.Lawyer, lawyer.ID)
			}
			if resp.User == nil || resp.User.ID != client.ID.String() {
				t.Errorf("user = %+v, want %s", resp.User, client.ID)
			}
		})
	}
}

type conversationFixture struct {
	client, lawyer, outsider *entity.User
	conv                     *entity.Conversation
	repo                     *mockConversationRepo
	svc                      ConversationService
}

func newConversationFixture(active bool) *conversationFixture {
	f := &conversationFixture{
		client:   newUser(entity.RoleUser),
		lawyer:   newUser(entity.RoleLawyer),
		outsider: newUser(entity.RoleUser),
	}
	f.conv = &entity.Conversation{
		BaseNoDelete: entity.NewBaseNoDelete(time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC)),
		UserID:       f.client.ID,
		LawyerID:     f.lawyer.ID,
		Subject:      "Property dispute",
		IsActive:     active,
	}
	f.repo = &mockConversationRepo{convs: map[uuid.UUID]*entity.Conversation{f.conv.ID: f.conv}}
	f.svc = NewConversationService(&repository.Repository{
		User:         usersOf(f.client, f.lawyer, f.outsider),
		Conversation: f.repo,
	}, zap.NewNop())
	return f
}

func (f *conversationFixture) message(sender *entity.User, content string) *entity.ConversationMessage {
	msg := &entity.ConversationMessage{
		BaseSimple:     entity.NewBaseSimple(time.Now()),
		ConversationID: f.conv.ID,
		SenderID:       sender.ID,
		Content:        content,
	}
	f.repo.messages = append(f.repo.messages, msg)
	return msg
}

func TestConversationMessagesMarksCounterpartRead(t *testing.T) {
	f := newConversationFixture(true)
	fromClient := f.message(f.client, "Can we talk on Friday?")
	fromLawyer := f.message(f.lawyer, "Yes, 4pm works.")

	msgs, err := f.svc.Messages(context.Background(), f.lawyer.ID, f.conv.ID)
	if err != nil {
		t.Fatalf("Messages() error = %v", err)
	}
	if len(msgs) != 2 {
		t.Fatalf("got %d messages, want 2", len(msgs))
	}
	if len(f.repo.readBy) != 1 || f.repo.readBy[0] != f.lawyer.ID {
		t.Errorf("MarkRead readers = %v, want [%s]", f.repo.readBy, f.lawyer.ID)
	}
	if !fromClient.IsRead {
		t.Error("client's message should be read once the lawyer opens the thread")
	}
	if fromLawyer.IsRead {
		t.Error("lawyer's own message must stay unread")
	}
}

func TestConversationParticipantsOnly(t *testing.T) {
	f := newConversationFixture(true)
	ctx := context.Background()

	if _, err := f.svc.Messages(ctx, f.outsider.ID, f.conv.ID); !errors.Is(err, ErrForbidden) {
		t.Errorf("outsider Messages() error = %v, want ErrForbidden", err)
	}
	if len(f.repo.readBy) != 0 {
		t.Errorf("outsider marked messages read: %v", f.repo.readBy)
	}

	_, err := f.svc.Send(ctx, f.outsider.ID, &request.SendMessageRequest{ConversationID: f.conv.ID.String(), Content: "hi"})
	if !errors.Is(err, ErrForbidden) {
		t.Errorf("outsider Send() error = %v, want ErrForbidden", err)
	}

	if _, err := f.svc.Messages(ctx, f.client.ID, uuid.New()); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown conversation error = %v, want ErrNotFound", err)
	}
}

func TestConversationSend(t *testing.T) {
	t.Run("participant sends", func(t *testing.T) {
		f := newConversationFixture(true)
		resp, err := f.svc.Send(context.Background(), f.client.ID, &request.SendMessageRequest{
			ConversationID: f.conv.ID.String(),
			Content:        "Attaching the lease shortly",
		})
		if err != nil {
			t.Fatalf("Send() error = %v", err)
		}
		if resp.SenderID != f.client.ID.String() || resp.IsRead {
			t.Errorf("message = %+v", resp)
		}
		if len(f.repo.messages) != 1 {
			t.Errorf("stored %d messages, want 1", len(f.repo.messages))
		}
	})

	t.Run("closed conversation", func(t *testing.T) {
		f := newConversationFixture(false)
		_, err := f.svc.Send(context.Background(), f.client.ID, &request.SendMessageRequest{
			ConversationID: f.conv.ID.String(),
			Content:        "hello?",
		})
		if !errors.Is(err, ErrForbidden) {
			t.Fatalf("Send() error = %v, want ErrForbidden", err)
		}
		if len(f.repo.messages) != 0 {
			t.Error("message stored on a closed conversation")
		}
	})

	t.Run("bad id", func(t *testing.T) {
		f := newConversationFixture(true)
		_, err := f.svc.Send(context.Background(), f.client.ID, &request.SendMessageRequest{ConversationID: "nope", Content: "x"})
		if !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("Send() error = %v, want ErrInvalidInput", err)
		}
	})
}

func TestConversationListCarriesUnreadCount(t *testing.T) {
	f := newConversationFixture(true)
	last := f.message(f.lawyer, "Please send the documents")
	f.repo.summaries = []*entity.ConversationSummary{{
		Conversation: *f.conv,
		LastMessage:  last,
		UnreadCount:  3,
	}}

	list, err := f.svc.List(context.Background(), f.client.ID)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("got %d conversations, want 1", len(list))
	}
	got := list[0]
	if got.UnreadCount != 3 {
		t.Errorf("unread_count = %d, want 3", got.UnreadCount)
	}
	if got.LastMessage == nil || got.LastMessage.Content != last.Content {
		t.Errorf("last_message = %+v", got.LastMessage)
	}
	if got.Lawyer == nil || got.Lawyer.ID != f.lawyer.ID.String() {
		t.Errorf("lawyer = %+v", got.Lawyer)
	}

	if others, _ := f.svc.List(context.Background(), f.outsider.ID); len(others) != 0 {
		t.Errorf("outsider sees %d conversations", len(others))
	}
}

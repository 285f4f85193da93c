package usecase

import (
	"context"
	"io"
	"sync"
	"time"

	"legal-marketplace/internal/data/entity"
	"legal-marketplace/internal/data/repository"
	"legal-marketplace/pkg/cache"
	"legal-marketplace/pkg/events"
	"legal-marketplace/pkg/llm"
	"legal-marketplace/pkg/storage"

	"github.com/google/uuid"
)

type mockUserRepo struct {
	repository.UserRepository
	users map[uuid.UUID]*entity.User
}

func (m *mockUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	return m.users[id], nil
}

func (m *mockUserRepo) FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*entity.User, error) {
	out := make(map[uuid.UUID]*entity.User)
	for _, id := range ids {
		if u, ok := m.users[id]; ok {
			out[id] = u
		}
	}
	return out, nil
}

func (m *mockUserRepo) Update(ctx context.Context, user *entity.User) error {
	m.users[user.ID] = user
	return nil
}

func newUser(role entity.UserRole) *entity.User {
	u := &entity.User{Username: string(role) + "-" + uuid.NewString()[:6], Role: role, IsActive: true}
	u.ID = uuid.New()
	return u
}

func usersOf(list ...*entity.User) *mockUserRepo {
	m := &mockUserRepo{users: make(map[uuid.UUID]*entity.User)}
	for _, u := range list {
		m.users[u.ID] = u
	}
	return m
}

type mockLawyerRepo struct {
	repository.LawyerRepository
	findByIDFunc     func(ctx context.Context, id uuid.UUID) (*entity.LawyerProfile, error)
	findByUserIDFunc func(ctx context.Context, userID uuid.UUID) (*entity.LawyerProfile, error)
	findListingFunc  func(ctx context.Context, id uuid.UUID) (*entity.LawyerListing, error)
	updateStatusFunc func(ctx context.Context, p *entity.LawyerProfile, from entity.LawyerStatus) error
	incrementCalls   int
}

func (m *mockLawyerRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.LawyerProfile, error) {
	return m.findByIDFunc(ctx, id)
}

func (m *mockLawyerRepo) FindByUserID(ctx context.Context, userID uuid.UUID) (*entity.LawyerProfile, error) {
	return m.findByUserIDFunc(ctx, userID)
}

func (m *mockLawyerRepo) FindListing(ctx context.Context, id uuid.UUID) (*entity.LawyerListing, error) {
	return m.findListingFunc(ctx, id)
}

func (m *mockLawyerRepo) UpdateStatus(ctx context.Context, p *entity.LawyerProfile, from entity.LawyerStatus) error {
	return m.updateStatusFunc(ctx, p, from)
}

func (m *mockLawyerRepo) IncrementConsultations(ctx context.Context, lawyerUserID uuid.UUID) error {
	m.incrementCalls++
	return nil
}

type mockRatingRepo struct {
	repository.RatingRepository
	findByLawyerAndUserFunc func(ctx context.Context, lawyerID, userID uuid.UUID) (*entity.LawyerRating, error)
	createFunc              func(ctx context.Context, r *entity.LawyerRating) (*entity.RatingSummary, error)
}

func (m *mockRatingRepo) FindByLawyerAndUser(ctx context.Context, lawyerID, userID uuid.UUID) (*entity.LawyerRating, error) {
	return m.findByLawyerAndUserFunc(ctx, lawyerID, userID)
}

func (m *mockRatingRepo) Create(ctx context.Context, r *entity.LawyerRating) (*entity.RatingSummary, error) {
	return m.createFunc(ctx, r)
}

type mockAppointmentRepo struct {
	repository.AppointmentRepository
	appts       map[uuid.UUID]*entity.Appointment
	updateCalls []entity.AppointmentStatus
}

func (m *mockAppointmentRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Appointment, error) {
	a, ok := m.appts[id]
	if !ok {
		return nil, nil
	}
	clone := *a
	return &clone, nil
}

func (m *mockAppointmentRepo) UpdateState(ctx context.Context, appt *entity.Appointment, from entity.AppointmentStatus) error {
	stored := m.appts[appt.ID]
	if stored == nil || stored.Status != from {
		return repository.ErrStale
	}
	clone := *appt
	m.appts[appt.ID] = &clone
	m.updateCalls = append(m.updateCalls, appt.Status)
	return nil
}

type mockRescheduleRepo struct {
	repository.RescheduleRepository
	requests map[uuid.UUID]*entity.RescheduleRequest
	appts    *mockAppointmentRepo
}

func (m *mockRescheduleRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.RescheduleRequest, error) {
	r, ok := m.requests[id]
	if !ok {
		return nil, nil
	}
	clone := *r
	return &clone, nil
}

func (m *mockRescheduleRepo) Approve(ctx context.Context, req *entity.RescheduleRequest, appt *entity.Appointment, from entity.AppointmentStatus) error {
	if err := m.appts.UpdateState(ctx, appt, from); err != nil {
		return err
	}
	clone := *req
	m.requests[req.ID] = &clone
	return nil
}

func (m *mockRescheduleRepo) Reject(ctx context.Context, req *entity.RescheduleRequest) error {
	clone := *req
	m.requests[req.ID] = &clone
	return nil
}

type mockFeedbackRepo struct {
	repository.FeedbackRepository
	saved *entity.AppointmentFeedback
}

func (m *mockFeedbackRepo) FindByAppointment(ctx context.Context, appointmentID uuid.UUID) (*entity.AppointmentFeedback, error) {
	if m.saved == nil || m.saved.AppointmentID != appointmentID {
		return nil, nil
	}
	clone := *m.saved
	return &clone, nil
}

func (m *mockFeedbackRepo) Save(ctx context.Context, fb *entity.AppointmentFeedback) error {
	clone := *fb
	m.saved = &clone
	return nil
}

type mockChatSessionRepo struct {
	repository.ChatSessionRepository
	sessions map[uuid.UUID]*entity.ChatSession
	touched  int
}

func (m *mockChatSessionRepo) Create(ctx context.Context, cs *entity.ChatSession) error {
	m.sessions[cs.ID] = cs
	return nil
}

func (m *mockChatSessionRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.ChatSession, error) {
	return m.sessions[id], nil
}

func (m *mockChatSessionRepo) Touch(ctx context.Context, id uuid.UUID) error {
	m.touched++
	return nil
}

type mockChatMessageRepo struct {
	repository.ChatMessageRepository
	messages []*entity.ChatMessage
}

func (m *mockChatMessageRepo) Create(ctx context.Context, msg *entity.ChatMessage) error {
	m.messages = append(m.messages, msg)
	return nil
}

type mockAIResponseRepo struct {
	repository.AIResponseRepository
	records []*entity.AIResponse
}

func (m *mockAIResponseRepo) Create(ctx context.Context, r *entity.AIResponse) error {
	m.records = append(m.records, r)
	return nil
}

type mockConversationRepo struct {
	repository.ConversationRepository
	createFunc func(ctx context.Context, c *entity.Conversation) error
	convs      map[uuid.UUID]*entity.Conversation
	summaries  []*entity.ConversationSummary
	messages   []*entity.ConversationMessage
	readBy     []uuid.UUID
}

func (m *mockConversationRepo) Create(ctx context.Context, c *entity.Conversation) error {
	return m.createFunc(ctx, c)
}

func (m *mockConversationRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Conversation, error) {
	c, ok := m.convs[id]
	if !ok {
		return nil, nil
	}
	clone := *c
	return &clone, nil
}

func (m *mockConversationRepo) ListForParticipant(ctx context.Context, participantID uuid.UUID) ([]*entity.ConversationSummary, error) {
	var out []*entity.ConversationSummary
	for _, c := range m.summaries {
		if c.IsParticipant(participantID) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *mockConversationRepo) AddMessage(ctx context.Context, msg *entity.ConversationMessage) error {
	m.messages = append(m.messages, msg)
	return nil
}

func (m *mockConversationRepo) ListMessages(ctx context.Context, conversationID uuid.UUID) ([]*entity.ConversationMessage, error) {
	var out []*entity.ConversationMessage
	for _, msg := range m.messages {
		if msg.ConversationID == conversationID {
			out = append(out, msg)
		}
	}
	return out, nil
}

// MarkRead flags the messages the reader did not send, like the SQL does
func (m *mockConversationRepo) MarkRead(ctx context.Context, conversationID, readerID uuid.UUID) (int64, error) {
	m.readBy = append(m.readBy, readerID)
	var n int64
	for _, msg := range m.messages {
		if msg.ConversationID == conversationID && msg.SenderID != readerID && !msg.IsRead {
			msg.IsRead = true
			n++
		}
	}
	return n, nil
}

type mockDocumentRepo struct {
	repository.DocumentRepository
	docs map[uuid.UUID]*entity.Document
}

func (m *mockDocumentRepo) Create(ctx context.Context, doc *entity.Document) error {
	m.docs[doc.ID] = doc
	return nil
}

func (m *mockDocumentRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Document, error) {
	return m.docs[id], nil
}

type mockShareRepo struct {
	repository.DocumentShareRepository
	shares []*entity.DocumentShare
}

func (m *mockShareRepo) FindActive(ctx context.Context, documentID, sharedWith uuid.UUID) (*entity.DocumentShare, error) {
	for _, s := range m.shares {
		if s.DocumentID == documentID && s.SharedWith == sharedWith && !s.IsRevoked {
			return s, nil
		}
	}
	return nil, nil
}

type mockCommentRepo struct {
	repository.DocumentCommentRepository
	comments []*entity.DocumentComment
}

func (m *mockCommentRepo) Create(ctx context.Context, c *entity.DocumentComment) error {
	m.comments = append(m.comments, c)
	return nil
}

type mockStorage struct {
	uploads int
	deletes int
}

func (m *mockStorage) Upload(ctx context.Context, file io.Reader, folder, filename string) (*storage.Object, error) {
	m.uploads++
	return &storage.Object{URL: "https://cdn.example/" + filename, PublicID: folder + "/" + filename}, nil
}

func (m *mockStorage) Delete(ctx context.Context, publicID, filename string) error {
	m.deletes++
	return nil
}

type fakeCompleter struct {
	reply *llm.Completion
	err   error
	calls int
}

func (f *fakeCompleter) Complete(ctx context.Context, system, prompt string, opts llm.Options) (*llm.Completion, error) {
	f.calls++
	return f.reply, f.err
}

func (f *fakeCompleter) Close() error { return nil }

// recordingCache never hits and remembers evicted keys
type recordingCache struct {
	cache.Noop
	deleted []string
}

func (c *recordingCache) Delete(ctx context.Context, keys ...string) error {
	c.deleted = append(c.deleted, keys...)
	return nil
}

// profilesOf answers FindByUserID for the given lawyer accounts
func profilesOf(lawyers ...*entity.User) (*mockLawyerRepo, map[uuid.UUID]*entity.LawyerProfile) {
	byUser := make(map[uuid.UUID]*entity.LawyerProfile)
	for _, u := range lawyers {
		byUser[u.ID] = &entity.LawyerProfile{
			BaseNoDelete: entity.NewBaseNoDelete(time.Now()),
			UserID:       u.ID,
			Status:       entity.LawyerApproved,
		}
	}
	return &mockLawyerRepo{
		findByUserIDFunc: func(ctx context.Context, userID uuid.UUID) (*entity.LawyerProfile, error) {
			return byUser[userID], nil
		},
	}, byUser
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Publish(ctx context.Context, evs ...events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, evs...)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.Type
	}
	return out
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

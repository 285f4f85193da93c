package usecase

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"legal-marketplace/internal/data/entity"
	"legal-marketplace/internal/data/repository"
	"legal-marketplace/internal/dto/request"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

func newDocumentService(store *mockStorage, users *mockUserRepo, docs *mockDocumentRepo, shares *mockShareRepo, comments *mockCommentRepo) *documentService {
	repo := &repository.Repository{
		User:     users,
		Document: docs,
		Share:    shares,
		Comment:  comments,
	}
	return NewDocumentService(repo, store, &fakeCompleter{}, 1, zap.NewNop()).(*documentService)
}

func TestDocumentUpload(t *testing.T) {
	owner := newUser(entity.RoleUser)

	tests := []struct {
		name       string
		filename   string
		body       []byte
		docType    string
		wantErr    error
		wantText   bool
		wantUpload bool
	}{
		{name: "pdf", filename: "Lease.PDF", body: []byte("%PDF-1.4"), docType: "lease_deed", wantUpload: true},
		{name: "text kept", filename: "notice.txt", body: []byte("Notice under section 80 CPC"), docType: "legal_notice", wantText: true, wantUpload: true},
		{name: "unsupported extension", filename: "setup.exe", body: []byte("MZ"), docType: "other", wantErr: ErrInvalidInput},
		{name: "unknown type", filename: "a.pdf", body: []byte("x"), docType: "spaceship", wantErr: ErrInvalidInput},
		{name: "empty", filename: "a.pdf", body: nil, docType: "other", wantErr: ErrInvalidInput},
		{name: "too large", filename: "a.pdf", body: bytes.Repeat([]byte("a"), 1<<20+1), docType: "other", wantErr: ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &mockStorage{}
			docs := &mockDocumentRepo{docs: make(map[uuid.UUID]*entity.Document)}
			svc := newDocumentService(store, usersOf(owner), docs, &mockShareRepo{}, &mockCommentRepo{})

			resp, err := svc.Upload(context.Background(), owner.ID, &request.UploadDocumentRequest{
				Title:        "My document",
				DocumentType: tt.docType,
			}, bytes.NewReader(tt.body), tt.filename)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Upload() error = %v, want %v", err, tt.wantErr)
				}
				if store.uploads != 0 {
					t.Errorf("rejected upload reached storage")
				}
				return
			}
			if err != nil {
				t.Fatalf("Upload() error = %v", err)
			}
			if store.uploads != 1 {
				t.Errorf("uploads = %d, want 1", store.uploads)
			}

			doc := docs.docs[uuid.MustParse(resp.ID)]
			if doc == nil {
				t.Fatal("document not stored")
			}
			if doc.PrivacyLevel != entity.PrivacyPrivate {
				t.Errorf("privacy = %s, want private", doc.PrivacyLevel)
			}
			if !strings.HasPrefix(doc.FilePublicID, "documents/"+owner.ID.String()) {
				t.Errorf("public id = %q, want owner folder", doc.FilePublicID)
			}
			if got := doc.ExtractedText != nil; got != tt.wantText {
				t.Errorf("extracted text kept = %v, want %v", got, tt.wantText)
			}
		})
	}
}

func TestDocumentAddComment(t *testing.T) {
	owner := newUser(entity.RoleUser)
	viewer := newUser(entity.RoleLawyer)
	commenter := newUser(entity.RoleLawyer)
	stranger := newUser(entity.RoleLawyer)

	doc := &entity.Document{UserID: owner.ID, Title: "Sale agreement", PrivacyLevel: entity.PrivacySharedWithLawyer}
	doc.ID = uuid.New()

	shares := &mockShareRepo{shares: []*entity.DocumentShare{
		{DocumentID: doc.ID, SharedBy: owner.ID, SharedWith: viewer.ID, PermissionLevel: entity.PermissionView},
		{DocumentID: doc.ID, SharedBy: owner.ID, SharedWith: commenter.ID, PermissionLevel: entity.PermissionComment},
	}}

	tests := []struct {
		name     string
		actor    *entity.User
		internal bool
		wantErr  error
	}{
		{name: "owner", actor: owner},
		{name: "comment share", actor: commenter},
		{name: "internal note by lawyer", actor: commenter, internal: true},
		{name: "view share", actor: viewer, wantErr: ErrForbidden},
		{name: "no share", actor: stranger, wantErr: ErrForbidden},
		{name: "internal note by owner", actor: owner, internal: true, wantErr: ErrForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			comments := &mockCommentRepo{}
			docs := &mockDocumentRepo{docs: map[uuid.UUID]*entity.Document{doc.ID: doc}}
			svc := newDocumentService(&mockStorage{}, usersOf(owner, viewer, commenter, stranger), docs, shares, comments)

			actor := Actor{ID: tt.actor.ID, Role: tt.actor.Role}
			_, err := svc.AddComment(context.Background(), actor, doc.ID, &request.CommentRequest{
				Comment:    "Clause 4 needs a timeline",
				IsInternal: tt.internal,
			})
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("AddComment() error = %v, want %v", err, tt.wantErr)
				}
				if len(comments.comments) != 0 {
					t.Error("rejected comment was stored")
				}
				return
			}
			if err != nil {
				t.Fatalf("AddComment() error = %v", err)
			}
			if len(comments.comments) != 1 || comments.comments[0].IsInternal != tt.internal {
				t.Errorf("stored comments = %+v", comments.comments)
			}
		})
	}
}

func TestDocumentRevokedShareLosesAccess(t *testing.T) {
	owner := newUser(entity.RoleUser)
	lawyer := newUser(entity.RoleLawyer)

	doc := &entity.Document{UserID: owner.ID, PrivacyLevel: entity.PrivacyPrivate}
	doc.ID = uuid.New()
	shares := &mockShareRepo{shares: []*entity.DocumentShare{
		{DocumentID: doc.ID, SharedWith: lawyer.ID, PermissionLevel: entity.PermissionEdit, IsRevoked: true},
	}}
	docs := &mockDocumentRepo{docs: map[uuid.UUID]*entity.Document{doc.ID: doc}}
	svc := newDocumentService(&mockStorage{}, usersOf(owner, lawyer), docs, shares, &mockCommentRepo{})

	_, err := svc.Get(context.Background(), Actor{ID: lawyer.ID, Role: entity.RoleLawyer}, doc.ID)
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("Get() error = %v, want ErrForbidden", err)
	}
}

func TestParseAnalysis(t *testing.T) {
	reply := "```json\n{\"summary\":\"Rental agreement\",\"key_points\":[\"11 months\"],\"risk_level\":\"Medium\",\"confidence\":1.7}\n```"

	got, err := parseAnalysis(reply)
	if err != nil {
		t.Fatalf("parseAnalysis() error = %v", err)
	}
	if got.Summary != "Rental agreement" || len(got.KeyPoints) != 1 {
		t.Errorf("parseAnalysis() = %+v", got)
	}
	if got.Confidence != 1 {
		t.Errorf("confidence = %v, want clamped to 1", got.Confidence)
	}
	if level := riskLevel(got.RiskLevel); level == nil || *level != entity.RiskMedium {
		t.Errorf("riskLevel(%q) = %v, want medium", got.RiskLevel, level)
	}
	if level := riskLevel("catastrophic"); level != nil {
		t.Errorf("riskLevel(catastrophic) = %v, want nil", *level)
	}

	if _, err := parseAnalysis("I cannot analyze this document."); err == nil {
		t.Error("parseAnalysis() accepted prose")
	}
}

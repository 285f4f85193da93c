package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"legal-marketplace/internal/data/entity"
	"legal-marketplace/internal/data/repository"
	"legal-marketplace/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type mockSessionRepo struct {
	repository.SessionRepository
	findValidSessionFunc func(ctx context.Context, token uuid.UUID) (*entity.Session, error)
}

func (m *mockSessionRepo) FindValidSession(ctx context.Context, token uuid.UUID) (*entity.Session, error) {
	return m.findValidSessionFunc(ctx, token)
}

type mockUserRepo struct {
	repository.UserRepository
	findByIDFunc func(ctx context.Context, id uuid.UUID) (*entity.User, error)
}

func (m *mockUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	return m.findByIDFunc(ctx, id)
}

func newAuthFixture(user *entity.User) (*mockSessionRepo, *mockUserRepo, uuid.UUID) {
	token := uuid.New()
	sessions := &mockSessionRepo{
		findValidSessionFunc: func(ctx context.Context, t uuid.UUID) (*entity.Session, error) {
			if t != token {
				return nil, nil
			}
			return &entity.Session{UserID: user.ID, Token: token}, nil
		},
	}
	users := &mockUserRepo{
		findByIDFunc: func(ctx context.Context, id uuid.UUID) (*entity.User, error) {
			if id == user.ID {
				return user, nil
			}
			return nil, nil
		},
	}
	return sessions, users, token
}

func TestAuthSession(t *testing.T) {
	user := &entity.User{Role: entity.RoleLawyer, IsActive: true}
	user.ID = uuid.New()
	inactive := &entity.User{Role: entity.RoleUser}
	inactive.ID = uuid.New()

	tests := []struct {
		name       string
		user       *entity.User
		header     func(token uuid.UUID) string
		wantStatus int
	}{
		{"missing header", user, func(uuid.UUID) string { return "" }, http.StatusUnauthorized},
		{"wrong scheme", user, func(tok uuid.UUID) string { return "Token " + tok.String() }, http.StatusUnauthorized},
		{"not a uuid", user, func(uuid.UUID) string { return "Bearer abc" }, http.StatusUnauthorized},
		{"unknown token", user, func(uuid.UUID) string { return "Bearer " + uuid.NewString() }, http.StatusUnauthorized},
		{"inactive account", inactive, func(tok uuid.UUID) string { return "Bearer " + tok.String() }, http.StatusForbidden},
		{"valid", user, func(tok uuid.UUID) string { return "Bearer " + tok.String() }, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sessions, users, token := newAuthFixture(tt.user)

			var gotRole string
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotRole, _ = utils.GetRoleFromContext(r.Context())
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/api/auth/user", nil)
			if h := tt.header(token); h != "" {
				req.Header.Set("Authorization", h)
			}
			rec := httptest.NewRecorder()

			AuthSession(sessions, users, zap.NewNop())(next).ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if tt.wantStatus == http.StatusOK && gotRole != string(entity.RoleLawyer) {
				t.Errorf("role in context = %q, want lawyer", gotRole)
			}
		})
	}
}

func TestRequireRole(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	handler := Admin(zap.NewNop())(next)

	tests := []struct {
		name       string
		ctx        func(context.Context) context.Context
		wantStatus int
	}{
		{"anonymous", func(ctx context.Context) context.Context { return ctx }, http.StatusUnauthorized},
		{"user", func(ctx context.Context) context.Context {
			return utils.SetUserContext(ctx, uuid.New(), string(entity.RoleUser))
		}, http.StatusForbidden},
		{"admin", func(ctx context.Context) context.Context {
			return utils.SetUserContext(ctx, uuid.New(), string(entity.RoleAdmin))
		}, http.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/lawyers/pending", nil)
			req = req.WithContext(tt.ctx(req.Context()))
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
		})
	}
}

func TestRateLimit(t *testing.T) {
	rl := NewRateLimiter(1, 2)
	handler := RateLimit(rl, zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	send := func(addr string) int {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	for i := 0; i < 2; i++ {
		if got := send("10.0.0.1:1234"); got != http.StatusOK {
			t.Fatalf("request %d: status = %d, want 200", i, got)
		}
	}
	if got := send("10.0.0.1:5678"); got != http.StatusTooManyRequests {
		t.Errorf("over burst: status = %d, want 429", got)
	}
	if got := send("10.0.0.2:1234"); got != http.StatusOK {
		t.Errorf("other client: status = %d, want 200", got)
	}
}

func TestRateLimiterSweep(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(1, 1)
	rl.now = func() time.Time { return now }

	rl.Allow("10.0.0.1")
	now = now.Add(limiterIdleTTL + time.Second)
	rl.Allow("10.0.0.2")
	rl.sweep()

	if _, ok := rl.clients["10.0.0.1"]; ok {
		t.Error("idle client was not swept")
	}
	if _, ok := rl.clients["10.0.0.2"]; !ok {
		t.Error("recent client was swept")
	}
}

func TestRecover(t *testing.T) {
	handler := Recover(zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
}

// authenticate stands in for AuthSession: it sets the user on a derived context
func authenticate(userID uuid.UUID, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := utils.SetUserContext(r.Context(), userID, string(entity.RoleUser))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func TestLoggerRecordsAuthenticatedUser(t *testing.T) {
	userID := uuid.New()
	core, logs := observer.New(zapcore.InfoLevel)
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	handler := Logger(zap.New(core))(authenticate(userID, ok))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/auth/profile", nil))

	anon := Logger(zap.New(core))(ok)
	anon.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))

	entries := logs.All()
	if len(entries) != 2 {
		t.Fatalf("got %d log entries, want 2", len(entries))
	}
	if got := entries[0].ContextMap()["user_id"]; got != userID.String() {
		t.Errorf("user_id = %v, want %s", got, userID)
	}
	if got := entries[0].ContextMap()["status"]; got != int64(http.StatusNoContent) {
		t.Errorf("status = %v, want 204", got)
	}
	if _, found := entries[1].ContextMap()["user_id"]; found {
		t.Error("anonymous request logged a user_id")
	}
}

func TestRecoverRecordsAuthenticatedUser(t *testing.T) {
	userID := uuid.New()
	core, logs := observer.New(zapcore.ErrorLevel)
	log := zap.New(core)
	boom := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})

	handler := Logger(log)(Recover(log)(authenticate(userID, boom)))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	panics := logs.FilterMessage("Panic recovered").All()
	if len(panics) != 1 {
		t.Fatalf("got %d panic entries, want 1", len(panics))
	}
	if got := panics[0].ContextMap()["user_id"]; got != userID.String() {
		t.Errorf("user_id = %v, want %s", got, userID)
	}
}

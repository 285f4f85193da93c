package wire

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"legal-marketplace/internal/adaptor"
	"legal-marketplace/internal/data/repository"
	"legal-marketplace/internal/usecase"
	"legal-marketplace/pkg/middleware"
	"legal-marketplace/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func testRouter() *chi.Mux {
	config := &utils.Config{App: utils.AppConfig{MaxUploadMB: 5}}
	handler := adaptor.NewHandler(&usecase.Service{}, config.App.MaxUploadMB, zap.NewNop())
	return setupRouter(handler, &repository.Repository{}, middleware.NewRateLimiter(100, 100), config, zap.NewNop())
}

func TestRoutesRegistered(t *testing.T) {
	want := map[string]bool{
		"POST /api/auth/register":                                 false,
		"GET /api/auth/profile/details":                           false,
		"GET /api/lawyers/public":                                 false,
		"POST /api/lawyers/{id}/approve":                          false,
		"PUT /api/lawyers/ratings/{id}":                           false,
		"POST /api/appointments/{id}/no-show":                     false,
		"POST /api/appointments/reschedule-requests/{id}/respond": false,
		"GET /api/appointments/lawyers/{lawyerId}/slots":          false,
		"DELETE /api/appointments/availability/{id}":              false,
		"POST /api/chat/ai":                                       false,
		"POST /api/chat/conversations/create":                     false,
		"DELETE /api/documents/{id}/shares/{shareId}":             false,
		"GET /health": false,
	}

	err := chi.Walk(testRouter(), func(method, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		key := method + " " + route
		if _, ok := want[key]; ok {
			want[key] = true
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Walk() error = %v", err)
	}

	for route, found := range want {
		if !found {
			t.Errorf("route %s not registered", route)
		}
	}
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	router := testRouter()

	for _, target := range []string{
		"/api/appointments",
		"/api/chat/sessions",
		"/api/documents/shared",
		"/api/lawyers/profile",
		"/api/lawyers/pending",
	} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("GET %s status = %d, want 401", target, rec.Code)
		}
	}
}

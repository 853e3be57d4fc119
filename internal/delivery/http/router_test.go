package http

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"medical-clinic-api/internal/delivery/http/middleware"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestTrimTrailingSlash(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"/", "/"},
		{"/auth/login/", "/auth/login"},
		{"/auth/login", "/auth/login"},
		{"/admin-api/doctors//", "/admin-api/doctors"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			var got string
			h := trimTrailingSlash(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				got = r.URL.Path
			}))

			h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, tt.in, nil))
			assert.Equal(t, tt.want, got)
		})
	}
}

func newTestRouter() http.Handler {
	log := logrus.New()
	log.SetOutput(io.Discard)

	router := NewRouter(
		Handlers{},
		middleware.NewAuthMiddleware(nil, nil, log),
		middleware.NewCORSMiddleware(),
		middleware.NewLoggingMiddleware(log),
	)
	return router.Setup()
}

func TestRouter_HealthCheck(t *testing.T) {
	handler := newTestRouter()

	for _, path := range []string{"/health", "/health/"} {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))

		assert.Equal(t, http.StatusOK, rec.Code, path)
		assert.JSONEq(t, `{"status": "ok"}`, rec.Body.String())
	}
}

func TestRouter_ProtectedRoutesRequireToken(t *testing.T) {
	handler := newTestRouter()

	tests := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/auth/me/"},
		{http.MethodPost, "/auth/logout"},
		{http.MethodGet, "/doctor/profile/"},
		{http.MethodGet, "/patients/appointments/"},
		{http.MethodGet, "/admin-api/doctors/"},
		{http.MethodGet, "/notifications"},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, strings.NewReader("{}")))

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}
}

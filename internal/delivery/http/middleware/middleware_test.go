package middleware

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"medical-clinic-api/config"
	"medical-clinic-api/internal/domain/entity"
	"medical-clinic-api/internal/service"
	"medical-clinic-api/pkg/jwt"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type authFixture struct {
	jwt        *jwt.JWTService
	tokenStore *service.TokenStore
	mw         *AuthMiddleware
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	log := logrus.New()
	log.SetOutput(io.Discard)

	jwtService := jwt.NewJWTService(config.JWTConfig{
		Secret:        "test-secret",
		AccessExpiry:  15 * time.Minute,
		RefreshExpiry: time.Hour,
	})
	store := service.NewTokenStore(client, log)

	return &authFixture{
		jwt:        jwtService,
		tokenStore: store,
		mw:         NewAuthMiddleware(jwtService, store, log),
	}
}

func (f *authFixture) issue(t *testing.T, sub jwt.Subject, whitelist bool) string {
	t.Helper()
	token, tokenID, err := f.jwt.GenerateAccessToken(sub)
	require.NoError(t, err)
	if whitelist {
		require.NoError(t, f.tokenStore.Save(context.Background(), jwt.AccessToken, sub.UserID, tokenID, time.Minute))
	}
	return token
}

func echoUser(w http.ResponseWriter, r *http.Request) {
	userID, _ := GetUserIDFromContext(r.Context())
	role, _ := GetRoleFromContext(r.Context())
	w.Write([]byte(userID.String() + "|" + role))
}

func TestAuthenticate(t *testing.T) {
	f := newAuthFixture(t)
	sub := jwt.Subject{UserID: uuid.New(), Email: "doc@clinic.test", RoleID: entity.RoleIDDoctor, Role: entity.RoleDoctor}
	handler := f.mw.Authenticate(http.HandlerFunc(echoUser))

	t.Run("missing header", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("malformed header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Token abc")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("revoked token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+f.issue(t, sub, false))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Body.String(), "revoked")
	})

	t.Run("refresh token rejected", func(t *testing.T) {
		token, _, err := f.jwt.GenerateRefreshToken(sub)
		require.NoError(t, err)
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("valid token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+f.issue(t, sub, true))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, sub.UserID.String()+"|doctor", rec.Body.String())
	})

	t.Run("query token only on websocket upgrade", func(t *testing.T) {
		token := f.issue(t, sub, true)

		req := httptest.NewRequest(http.MethodGet, "/ws?token="+token, nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)

		req = httptest.NewRequest(http.MethodGet, "/ws?token="+token, nil)
		req.Header.Set("Upgrade", "websocket")
		rec = httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestRequireRole(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNoContent) })

	tests := []struct {
		name   string
		ctx    context.Context
		wrap   func(http.Handler) http.Handler
		status int
	}{
		{"no role", context.Background(), RequireAdmin, http.StatusUnauthorized},
		{"patient on admin route", WithUser(context.Background(), jwt.Subject{RoleID: entity.RoleIDPatient}, ""), RequireAdmin, http.StatusForbidden},
		{"admin on admin route", WithUser(context.Background(), jwt.Subject{RoleID: entity.RoleIDAdmin}, ""), RequireAdmin, http.StatusNoContent},
		{"doctor on doctor route", WithUser(context.Background(), jwt.Subject{RoleID: entity.RoleIDDoctor}, ""), RequireDoctor, http.StatusNoContent},
		{"doctor on patient route", WithUser(context.Background(), jwt.Subject{RoleID: entity.RoleIDDoctor}, ""), RequirePatient, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil).WithContext(tt.ctx)
			rec := httptest.NewRecorder()
			tt.wrap(ok).ServeHTTP(rec, req)
			assert.Equal(t, tt.status, rec.Code)
		})
	}
}

func TestRequirePatient_Message(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNoContent) })
	ctx := WithUser(context.Background(), jwt.Subject{RoleID: entity.RoleIDAdmin}, "")

	rec := httptest.NewRecorder()
	RequirePatient(ok).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil).WithContext(ctx))

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "Only patients can access this endpoint.")
}

func TestCORS_Preflight(t *testing.T) {
	handler := NewCORSMiddleware().Handle(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("preflight must not reach the handler")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), "PATCH")
	assert.Equal(t, "Content-Disposition", rec.Header().Get("Access-Control-Expose-Headers"))
}

func TestLoggingMiddleware_RecordsStatus(t *testing.T) {
	log := logrus.New()
	log.SetOutput(io.Discard)

	handler := NewLoggingMiddleware(log).Handle(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusTeapot, rec.Code)
}

package middlewarectx_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/resume-service/internal/http/middlewarectx"
	"github.com/magabrotheeeer/resume-service/internal/models"
)

// Mock for Authenticator
type AuthMock struct {
	mock.Mock
}

func (m *AuthMock) Authenticate(ctx context.Context, token string) (*models.User, error) {
	args := m.Called(ctx, token)
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func TestJWTMiddleware(t *testing.T) {
	alice := &models.User{ID: 1, Username: "alice", IsActive: true}

	tests := []struct {
		name           string
		authHeader     string
		setupMock      func(m *AuthMock)
		wantStatusCode int
		wantBody       string
		wantCalled     bool
	}{
		{
			name:           "missing Authorization header",
			authHeader:     "",
			setupMock:      func(*AuthMock) {},
			wantStatusCode: http.StatusUnauthorized,
			wantBody:       `{"detail":"Not authenticated"}`,
		},
		{
			name:           "invalid Authorization header scheme",
			authHeader:     "Basic sometoken",
			setupMock:      func(*AuthMock) {},
			wantStatusCode: http.StatusUnauthorized,
			wantBody:       `{"detail":"Not authenticated"}`,
		},
		{
			name:       "expired token",
			authHeader: "Bearer old",
			setupMock: func(m *AuthMock) {
				m.On("Authenticate", mock.Anything, "old").Return(nil, models.ErrTokenExpired).Once()
			},
			wantStatusCode: http.StatusUnauthorized,
			wantBody:       `{"detail":"Token expired"}`,
		},
		{
			name:       "invalid token",
			authHeader: "Bearer junk",
			setupMock: func(m *AuthMock) {
				m.On("Authenticate", mock.Anything, "junk").Return(nil, models.ErrUnauthorized).Once()
			},
			wantStatusCode: http.StatusUnauthorized,
			wantBody:       `{"detail":"Could not validate credentials"}`,
		},
		{
			name:       "storage failure",
			authHeader: "Bearer tok",
			setupMock: func(m *AuthMock) {
				m.On("Authenticate", mock.Anything, "tok").Return(nil, errors.New("connection refused")).Once()
			},
			wantStatusCode: http.StatusInternalServerError,
			wantBody:       `{"detail":"Internal server error"}`,
		},
		{
			name:       "valid token, lowercase scheme",
			authHeader: "bearer tok",
			setupMock: func(m *AuthMock) {
				m.On("Authenticate", mock.Anything, "tok").Return(alice, nil).Once()
			},
			wantStatusCode: http.StatusOK,
			wantCalled:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			authMock := new(AuthMock)
			tt.setupMock(authMock)

			handlerCalled := false
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				handlerCalled = true
				user, ok := middlewarectx.UserFromContext(r.Context())
				assert.True(t, ok)
				assert.Equal(t, alice, user)
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			rr := httptest.NewRecorder()

			middlewarectx.JWTMiddleware(authMock, newNoopLogger())(next).ServeHTTP(rr, req)

			assert.Equal(t, tt.wantStatusCode, rr.Code)
			assert.Equal(t, tt.wantCalled, handlerCalled)
			if tt.wantBody != "" {
				assert.JSONEq(t, tt.wantBody, rr.Body.String())
			}
			if tt.wantStatusCode == http.StatusUnauthorized {
				assert.Equal(t, "Bearer", rr.Header().Get("WWW-Authenticate"))
			}
			authMock.AssertExpectations(t)
		})
	}
}

func TestUserFromContext_Empty(t *testing.T) {
	_, ok := middlewarectx.UserFromContext(context.Background())
	assert.False(t, ok)
}

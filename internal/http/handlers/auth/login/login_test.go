package login

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/resume-service/internal/models"
)

type ServiceMock struct {
	mock.Mock
}

func (m *ServiceMock) Login(ctx context.Context, username, password string) (string, error) {
	args := m.Called(ctx, username, password)
	return args.String(0), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func TestLoginHandler_ServeHTTP(t *testing.T) {
	tests := []struct {
		name           string
		form           url.Values
		setupMock      func(m *ServiceMock)
		wantStatusCode int
		wantBody       string
	}{
		{
			name: "valid login",
			form: url.Values{"username": {"alice"}, "password": {"secret1"}},
			setupMock: func(m *ServiceMock) {
				m.On("Login", mock.Anything, "alice", "secret1").Return("tok", nil).Once()
			},
			wantStatusCode: http.StatusOK,
			wantBody:       `{"access_token":"tok","token_type":"bearer"}`,
		},
		{
			name:           "missing password",
			form:           url.Values{"username": {"alice"}},
			setupMock:      func(*ServiceMock) {},
			wantStatusCode: http.StatusUnprocessableEntity,
			wantBody:       `{"detail":"field Password is a required field"}`,
		},
		{
			name: "wrong credentials",
			form: url.Values{"username": {"alice"}, "password": {"wrong"}},
			setupMock: func(m *ServiceMock) {
				m.On("Login", mock.Anything, "alice", "wrong").Return("", models.ErrUnauthorized).Once()
			},
			wantStatusCode: http.StatusUnauthorized,
			wantBody:       `{"detail":"Could not validate credentials"}`,
		},
		{
			name: "token generation failure",
			form: url.Values{"username": {"alice"}, "password": {"secret1"}},
			setupMock: func(m *ServiceMock) {
				m.On("Login", mock.Anything, "alice", "secret1").Return("", errors.New("sign failed")).Once()
			},
			wantStatusCode: http.StatusInternalServerError,
			wantBody:       `{"detail":"Internal server error"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(ServiceMock)
			tt.setupMock(svc)
			handler := New(newNoopLogger(), svc)

			req := httptest.NewRequest(http.MethodPost, "/auth/token", strings.NewReader(tt.form.Encode()))
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
			rr := httptest.NewRecorder()

			handler.ServeHTTP(rr, req)

			assert.Equal(t, tt.wantStatusCode, rr.Code)
			assert.JSONEq(t, tt.wantBody, rr.Body.String())
			svc.AssertExpectations(t)
		})
	}
}

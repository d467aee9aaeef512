package list

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/resume-service/internal/models"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) ListActiveUsers(ctx context.Context) ([]*models.User, error) {
	args := m.Called(ctx)
	if res := args.Get(0); res != nil {
		return res.([]*models.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func TestListHandler(t *testing.T) {
	handler := New(slog.New(slog.NewTextHandler(io.Discard, nil)), nil)

	t.Run("active users", func(t *testing.T) {
		svc := new(MockService)
		svc.On("ListActiveUsers", mock.Anything).Return([]*models.User{
			{ID: 1, Username: "alice", Email: "a@example.com", PasswordHash: "h", IsActive: true},
			{ID: 3, Username: "carol", Email: "c@example.com", PasswordHash: "h", IsActive: true},
		}, nil)
		handler.service = svc

		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/auth/users", nil))

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `[
			{"id":1,"username":"alice","email":"a@example.com","is_active":true},
			{"id":3,"username":"carol","email":"c@example.com","is_active":true}
		]`, rr.Body.String())
	})

	t.Run("empty list", func(t *testing.T) {
		svc := new(MockService)
		svc.On("ListActiveUsers", mock.Anything).Return([]*models.User{}, nil)
		handler.service = svc

		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/auth/users", nil))

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `[]`, rr.Body.String())
	})
}

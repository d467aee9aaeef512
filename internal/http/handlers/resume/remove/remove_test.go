package remove

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/resume-service/internal/http/middlewarectx"
	"github.com/magabrotheeeer/resume-service/internal/models"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) Delete(ctx context.Context, id, ownerID int64) error {
	return m.Called(ctx, id, ownerID).Error(0)
}

func TestRemoveHandler(t *testing.T) {
	owner := &models.User{ID: 7, IsActive: true}

	tests := []struct {
		name           string
		url            string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "deleted",
			url:  "/resumes/1",
			setupMock: func(m *MockService) {
				m.On("Delete", mock.Anything, int64(1), int64(7)).Return(nil)
			},
			expectedStatus: http.StatusNoContent,
		},
		{
			name: "already deleted",
			url:  "/resumes/1",
			setupMock: func(m *MockService) {
				m.On("Delete", mock.Anything, int64(1), int64(7)).Return(models.ErrNotFound)
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `{"detail":"Resume not found"}`,
		},
		{
			name: "storage failure",
			url:  "/resumes/1",
			setupMock: func(m *MockService) {
				m.On("Delete", mock.Anything, int64(1), int64(7)).Return(errors.New("db error"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"detail":"Internal server error"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockService)
			tt.setupMock(svc)

			r := chi.NewRouter()
			r.Method(http.MethodDelete, "/resumes/{id}", New(slog.New(slog.NewTextHandler(io.Discard, nil)), svc))

			req := httptest.NewRequest(http.MethodDelete, tt.url, nil)
			req = req.WithContext(middlewarectx.WithUser(req.Context(), owner))
			rr := httptest.NewRecorder()
			r.ServeHTTP(rr, req)

			assert.Equal(t, tt.expectedStatus, rr.Code)
			if tt.expectedBody != "" {
				assert.JSONEq(t, tt.expectedBody, rr.Body.String())
			}
			svc.AssertExpectations(t)
		})
	}
}

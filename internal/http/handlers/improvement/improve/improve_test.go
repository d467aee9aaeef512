package improve

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/resume-service/internal/http/middlewarectx"
	"github.com/magabrotheeeer/resume-service/internal/models"
	improvement "github.com/magabrotheeeer/resume-service/internal/services/improvement"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) ImproveAndSave(ctx context.Context, resumeID, ownerID int64) (*improvement.Result, error) {
	args := m.Called(ctx, resumeID, ownerID)
	if res := args.Get(0); res != nil {
		return res.(*improvement.Result), args.Error(1)
	}
	return nil, args.Error(1)
}

func TestImproveHandler(t *testing.T) {
	owner := &models.User{ID: 7, IsActive: true}
	created := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	content := improvement.Improve("Go developer")

	tests := []struct {
		name           string
		url            string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "improved",
			url:  "/ai/resume/5/improve",
			setupMock: func(m *MockService) {
				m.On("ImproveAndSave", mock.Anything, int64(5), int64(7)).Return(&improvement.Result{
					Resume:      &models.Resume{ID: 5, Content: content, OwnerID: 7},
					Improvement: &models.Improvement{ID: 1, ResumeID: 5, ImprovedContent: content, CreatedAt: created},
				}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody: `{"id":1,"resume_id":5,"created_at":"2024-05-01T12:00:00Z",
				"improved_content":"Go developer [Improved with AI - Enhanced content structure and keywords]"}`,
		},
		{
			name: "foreign resume",
			url:  "/ai/resume/6/improve",
			setupMock: func(m *MockService) {
				m.On("ImproveAndSave", mock.Anything, int64(6), int64(7)).Return(nil, models.ErrNotFound)
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `{"detail":"Resume not found"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockService)
			tt.setupMock(svc)

			r := chi.NewRouter()
			r.Method(http.MethodPost, "/ai/resume/{id}/improve", New(slog.New(slog.NewTextHandler(io.Discard, nil)), svc))

			req := httptest.NewRequest(http.MethodPost, tt.url, nil)
			req = req.WithContext(middlewarectx.WithUser(req.Context(), owner))
			rr := httptest.NewRecorder()
			r.ServeHTTP(rr, req)

			assert.Equal(t, tt.expectedStatus, rr.Code)
			assert.JSONEq(t, tt.expectedBody, rr.Body.String())
			svc.AssertExpectations(t)
		})
	}
}

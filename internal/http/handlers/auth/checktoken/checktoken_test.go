package checktoken

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/magabrotheeeer/resume-service/internal/http/middlewarectx"
	"github.com/magabrotheeeer/resume-service/internal/models"
)

func TestCheckTokenHandler(t *testing.T) {
	handler := New(slog.New(slog.NewTextHandler(io.Discard, nil)))
	user := &models.User{ID: 2, Username: "bob", Email: "b@example.com", IsActive: true}

	req := httptest.NewRequest(http.MethodGet, "/auth/check_token", nil)
	req = req.WithContext(middlewarectx.WithUser(req.Context(), user))
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{
		"is_valid": true,
		"user": {"id":2,"username":"bob","email":"b@example.com","is_active":true},
		"message": "Token is valid"
	}`, rr.Body.String())
}

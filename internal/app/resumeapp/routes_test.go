package resumeapp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/resume-service/internal/cache"
	"github.com/magabrotheeeer/resume-service/internal/config"
	"github.com/magabrotheeeer/resume-service/internal/lib/jwt"
	"github.com/magabrotheeeer/resume-service/internal/metrics"
	"github.com/magabrotheeeer/resume-service/internal/migrations"
	improvementservice "github.com/magabrotheeeer/resume-service/internal/services/improvement"
	"github.com/magabrotheeeer/resume-service/internal/storage"
	"github.com/magabrotheeeer/resume-service/internal/storage/storagetest"
)

type client struct {
	t     *testing.T
	base  string
	token string
}

func (c *client) do(method, path, body string, headers map[string]string) (int, []byte, http.Header) {
	c.t.Helper()
	req, err := http.NewRequest(method, c.base+path, strings.NewReader(body))
	require.NoError(c.t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(c.t, err)
	defer func() { _ = resp.Body.Close() }()
	data, err := io.ReadAll(resp.Body)
	require.NoError(c.t, err)
	return resp.StatusCode, data, resp.Header
}

func (c *client) login(username, password string) int {
	c.t.Helper()
	form := url.Values{"username": {username}, "password": {password}}
	status, data, _ := c.do(http.MethodPost, "/auth/token", form.Encode(),
		map[string]string{"Content-Type": "application/x-www-form-urlencoded"})
	if status == http.StatusOK {
		var tok struct {
			AccessToken string `json:"access_token"`
			TokenType   string `json:"token_type"`
		}
		require.NoError(c.t, json.Unmarshal(data, &tok))
		assert.Equal(c.t, "bearer", tok.TokenType)
		c.token = tok.AccessToken
	}
	return status
}

func newTestServer(t *testing.T) (*httptest.Server, *storage.Storage) {
	t.Helper()
	_, sqlDB := storagetest.NewPostgres(t)
	require.NoError(t, migrations.Run(sqlDB))
	db := storage.NewWithDB(sqlDB)

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)
	redisCache, err := cache.InitServer(context.Background(), config.RedisConnection{
		AddressRedis: mr.Addr(),
		DialTimeout:  time.Second,
		TimeoutRedis: time.Second,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = redisCache.Close() })

	jwtMaker, err := jwt.NewJWTMaker("test-secret", "HS256", 30*time.Minute)
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(registry)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, NewDeps(db, redisCache, time.Hour, jwtMaker, collector, registry, logger))

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv, db
}

func TestResumeServiceEndToEnd(t *testing.T) {
	srv, _ := newTestServer(t)
	alice := &client{t: t, base: srv.URL}
	bob := &client{t: t, base: srv.URL}

	// регистрация
	status, body, _ := alice.do(http.MethodPost, "/auth/register",
		`{"username":"alice","email":"alice@example.com","password":"secret1"}`, nil)
	require.Equal(t, http.StatusCreated, status, string(body))
	assert.JSONEq(t, `{"message":"User created successfully"}`, string(body))

	status, body, _ = alice.do(http.MethodPost, "/auth/register",
		`{"username":"alice","email":"other@example.com","password":"secret1"}`, nil)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.JSONEq(t, `{"detail":"Username or email already exists"}`, string(body))

	status, _, _ = bob.do(http.MethodPost, "/auth/register",
		`{"username":"bob","email":"bob@example.com","password":"secret2"}`, nil)
	require.Equal(t, http.StatusCreated, status)

	// вход
	assert.Equal(t, http.StatusUnauthorized, alice.login("alice", "wrong"))
	require.Equal(t, http.StatusOK, alice.login("alice", "secret1"))
	require.Equal(t, http.StatusOK, bob.login("bob", "secret2"))

	status, body, _ = alice.do(http.MethodGet, "/auth/me", "", nil)
	require.Equal(t, http.StatusOK, status)
	var me struct {
		ID       int64  `json:"id"`
		Username string `json:"username"`
		IsActive bool   `json:"is_active"`
	}
	require.NoError(t, json.Unmarshal(body, &me))
	assert.Equal(t, "alice", me.Username)
	assert.True(t, me.IsActive)

	status, body, _ = alice.do(http.MethodGet, "/auth/check_token", "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(body), `"is_valid":true`)

	// резюме
	status, body, _ = alice.do(http.MethodPost, "/resumes", `{"title":"CV","content":"Go developer"}`, nil)
	require.Equal(t, http.StatusCreated, status, string(body))
	var resume struct {
		ID        int64   `json:"id"`
		Content   string  `json:"content"`
		OwnerID   int64   `json:"owner_id"`
		UpdatedAt *string `json:"updated_at"`
	}
	require.NoError(t, json.Unmarshal(body, &resume))
	assert.Equal(t, me.ID, resume.OwnerID)
	assert.Nil(t, resume.UpdatedAt)
	resumePath := fmt.Sprintf("/resumes/%d", resume.ID)

	// прочитать дважды: второй раз из кеша
	for i := 0; i < 2; i++ {
		status, _, _ = alice.do(http.MethodGet, resumePath, "", nil)
		assert.Equal(t, http.StatusOK, status)
	}

	status, body, _ = bob.do(http.MethodGet, resumePath, "", nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.JSONEq(t, `{"detail":"Resume not found"}`, string(body))

	status, body, _ = bob.do(http.MethodGet, "/resumes", "", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `[]`, string(body))

	// улучшение
	improvePath := fmt.Sprintf("/ai/resume/%d/improve", resume.ID)
	historyPath := fmt.Sprintf("/ai/resume/%d/improvements", resume.ID)

	status, body, _ = alice.do(http.MethodPost, improvePath, "", nil)
	require.Equal(t, http.StatusOK, status, string(body))
	status, body, _ = alice.do(http.MethodPost, improvePath, "", nil)
	require.Equal(t, http.StatusOK, status, string(body))
	var imp struct {
		ImprovedContent string `json:"improved_content"`
	}
	require.NoError(t, json.Unmarshal(body, &imp))
	twice := improvementservice.Improve(improvementservice.Improve("Go developer"))
	assert.Equal(t, twice, imp.ImprovedContent)

	// кеш инвалидирован после улучшения
	status, body, _ = alice.do(http.MethodGet, resumePath, "", nil)
	require.Equal(t, http.StatusOK, status)
	require.NoError(t, json.Unmarshal(body, &resume))
	assert.Equal(t, twice, resume.Content)
	assert.NotNil(t, resume.UpdatedAt)

	status, body, _ = alice.do(http.MethodGet, historyPath, "", nil)
	require.Equal(t, http.StatusOK, status)
	var history []struct {
		ImprovedContent string `json:"improved_content"`
	}
	require.NoError(t, json.Unmarshal(body, &history))
	require.Len(t, history, 2)
	assert.Equal(t, twice, history[0].ImprovedContent)

	status, _, _ = bob.do(http.MethodPost, improvePath, "", nil)
	assert.Equal(t, http.StatusNotFound, status)
	status, _, _ = bob.do(http.MethodGet, historyPath, "", nil)
	assert.Equal(t, http.StatusNotFound, status)

	// обновление и удаление
	status, _, _ = alice.do(http.MethodPut, resumePath, `{"title":"CV v2","content":"rewritten"}`, nil)
	assert.Equal(t, http.StatusOK, status)
	status, body, _ = alice.do(http.MethodGet, resumePath, "", nil)
	require.Equal(t, http.StatusOK, status)
	require.NoError(t, json.Unmarshal(body, &resume))
	assert.Equal(t, "rewritten", resume.Content)
	status, _, _ = alice.do(http.MethodDelete, resumePath, "", nil)
	assert.Equal(t, http.StatusNoContent, status)
	status, _, _ = alice.do(http.MethodGet, resumePath, "", nil)
	assert.Equal(t, http.StatusNotFound, status)
	status, _, _ = alice.do(http.MethodGet, historyPath, "", nil)
	assert.Equal(t, http.StatusNotFound, status)

	// пользователи
	status, body, _ = alice.do(http.MethodGet, "/auth/users", "", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(body), `"username":"bob"`)

	status, _, _ = alice.do(http.MethodGet, fmt.Sprintf("/auth/users/%d", me.ID), "", nil)
	assert.Equal(t, http.StatusOK, status)
	status, _, _ = bob.do(http.MethodGet, fmt.Sprintf("/auth/users/%d", me.ID), "", nil)
	assert.Equal(t, http.StatusForbidden, status)

	status, body, _ = alice.do(http.MethodDelete, fmt.Sprintf("/auth/users/%d", me.ID), "", nil)
	assert.Equal(t, http.StatusForbidden, status)
	assert.JSONEq(t, `{"detail":"You cannot delete yourself"}`, string(body))

	status, _, _ = bob.do(http.MethodDelete, fmt.Sprintf("/auth/users/%d", me.ID), "", nil)
	assert.Equal(t, http.StatusNoContent, status)
	status, _, _ = bob.do(http.MethodDelete, fmt.Sprintf("/auth/users/%d", me.ID), "", nil)
	assert.Equal(t, http.StatusNoContent, status)

	// токен неактивного пользователя больше не принимается
	status, _, headers := alice.do(http.MethodGet, "/auth/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "Bearer", headers.Get("WWW-Authenticate"))
	assert.Equal(t, http.StatusUnauthorized, alice.login("alice", "secret1"))

	status, body, _ = bob.do(http.MethodGet, "/auth/users", "", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.NotContains(t, string(body), `"username":"alice"`)

	// служебные маршруты
	status, body, _ = bob.do(http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"status":"ok"}`, string(body))

	status, body, _ = bob.do(http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(body), "resume_service_registrations_total 2")
	assert.Contains(t, string(body), "resume_service_resume_improvements_total 2")
	assert.Contains(t, string(body), `route="/resumes/{id}"`)

	status, body, _ = bob.do(http.MethodGet, "/docs/doc.json", "", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(body), "Resume Service API")
	assert.Contains(t, string(body), "/ai/resume/{id}/improve")
}

func TestImproveSingleResume(t *testing.T) {
	srv, _ := newTestServer(t)
	alice := &client{t: t, base: srv.URL}

	status, body, _ := alice.do(http.MethodPost, "/auth/register",
		`{"username":"alice","email":"a@x.com","password":"pw123"}`, nil)
	require.Equal(t, http.StatusCreated, status, string(body))
	require.Equal(t, http.StatusOK, alice.login("alice", "pw123"))

	status, body, _ = alice.do(http.MethodPost, "/resumes", `{"title":"T","content":"C"}`, nil)
	require.Equal(t, http.StatusCreated, status, string(body))
	var resume struct {
		ID      int64  `json:"id"`
		Content string `json:"content"`
	}
	require.NoError(t, json.Unmarshal(body, &resume))

	status, body, _ = alice.do(http.MethodPost, fmt.Sprintf("/ai/resume/%d/improve", resume.ID), "", nil)
	require.Equal(t, http.StatusOK, status, string(body))

	const improved = "C [Improved with AI - Enhanced content structure and keywords]"
	status, body, _ = alice.do(http.MethodGet, fmt.Sprintf("/resumes/%d", resume.ID), "", nil)
	require.Equal(t, http.StatusOK, status)
	require.NoError(t, json.Unmarshal(body, &resume))
	assert.Equal(t, improved, resume.Content)

	status, body, _ = alice.do(http.MethodGet, fmt.Sprintf("/ai/resume/%d/improvements", resume.ID), "", nil)
	require.Equal(t, http.StatusOK, status)
	var history []struct {
		ImprovedContent string `json:"improved_content"`
	}
	require.NoError(t, json.Unmarshal(body, &history))
	require.Len(t, history, 1)
	assert.Equal(t, improved, history[0].ImprovedContent)
}

func TestRoutesRequireToken(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	registry := prometheus.NewRegistry()
	jwtMaker, err := jwt.NewJWTMaker("test-secret", "HS256", time.Minute)
	require.NoError(t, err)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, NewDeps(storage.NewWithDB(nil), cache.Noop{}, time.Hour, jwtMaker,
		metrics.NewCollector(registry), registry, logger))

	protected := []struct{ method, path string }{
		{http.MethodGet, "/auth/me"},
		{http.MethodGet, "/auth/check_token"},
		{http.MethodGet, "/auth/users"},
		{http.MethodGet, "/auth/users/1"},
		{http.MethodDelete, "/auth/users/1"},
		{http.MethodGet, "/resumes"},
		{http.MethodPost, "/resumes"},
		{http.MethodGet, "/resumes/1"},
		{http.MethodPut, "/resumes/1"},
		{http.MethodDelete, "/resumes/1"},
		{http.MethodPost, "/ai/resume/1/improve"},
		{http.MethodGet, "/ai/resume/1/improvements"},
	}
	for _, p := range protected {
		t.Run(p.method+" "+p.path, func(t *testing.T) {
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, httptest.NewRequest(p.method, p.path, nil))
			assert.Equal(t, http.StatusUnauthorized, rr.Code)
			assert.JSONEq(t, `{"detail":"Not authenticated"}`, rr.Body.String())
			assert.Equal(t, "Bearer", rr.Header().Get("WWW-Authenticate"))
		})
	}

	t.Run("garbage token", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/resumes", nil)
		req.Header.Set("Authorization", "Bearer not-a-jwt")
		router.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("expired token", func(t *testing.T) {
		token, err := jwtMaker.GenerateTokenWithTTL("alice", 1, -time.Minute)
		require.NoError(t, err)
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/resumes", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		router.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		assert.JSONEq(t, `{"detail":"Token expired"}`, rr.Body.String())
	})

	notAllowed := []struct{ method, path string }{
		{http.MethodPatch, "/healthz"},
		{http.MethodGet, "/auth/register"},
		{http.MethodPut, "/auth/token"},
	}
	for _, p := range notAllowed {
		t.Run("method not allowed "+p.method+" "+p.path, func(t *testing.T) {
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, httptest.NewRequest(p.method, p.path, nil))
			assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
			assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
			assert.JSONEq(t, `{"detail":"Method Not Allowed"}`, rr.Body.String())
		})
	}

	t.Run("unknown path", func(t *testing.T) {
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/nowhere", nil))
		assert.Equal(t, http.StatusNotFound, rr.Code)
		assert.JSONEq(t, `{"detail":"Not Found"}`, rr.Body.String())
	})
}

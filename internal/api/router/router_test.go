package router_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"shift-report/config"
	"shift-report/internal/api/handler"
	"shift-report/internal/api/router"
	"shift-report/internal/repository"
	"shift-report/internal/service"
	"shift-report/pkg/database"
	"shift-report/pkg/jwt"
)

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Details string          `json:"details"`
}

type testServer struct {
	t      *testing.T
	engine http.Handler
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	cfg := &config.Config{
		Server:   config.ServerConfig{Port: 8080, MaxBodyBytes: 1 << 20},
		Database: config.DatabaseConfig{Path: filepath.Join(t.TempDir(), "reports.db"), BusyTimeoutMS: 1000},
		Admin: config.AdminConfig{
			AccessPhrase: "open-sesame",
			JWTSecret:    "router-test-secret-0123456789",
			SessionTTL:   30 * time.Minute,
		},
		Report: config.ReportConfig{
			Timezone:          "Asia/Jerusalem",
			PersonalIDMaxLen:  4,
			ExpectedHeadcount: 95,
		},
		Log: config.LogConfig{Level: "error"},
	}
	logger := zap.NewNop()

	db, err := database.NewDB(&cfg.Database, cfg.Log.Level, logger)
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, database.RunMigrations(sqlDB, logger))

	svc := service.NewService(cfg, repository.NewRepository(db), jwt.NewManager(&cfg.Admin), service.NewMemorySessionStore(), logger)
	engine := router.Setup(cfg, handler.NewHandler(svc), svc.Admin, nil, db, logger)
	return &testServer{t: t, engine: engine}
}

func (s *testServer) do(method, path, token string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	s.t.Helper()
	var reader *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(s.t, err)
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)

	var env envelope
	_ = json.Unmarshal(w.Body.Bytes(), &env)
	return w, env
}

func (s *testServer) login() string {
	s.t.Helper()
	w, env := s.do("POST", "/api/v1/admin/login", "", map[string]string{"access_phrase": "open-sesame"})
	require.Equal(s.t, http.StatusOK, w.Code)
	var data struct {
		Token string `json:"token"`
	}
	require.NoError(s.t, json.Unmarshal(env.Data, &data))
	require.NotEmpty(s.t, data.Token)
	return data.Token
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	w, _ := s.do("GET", "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestSubmitAndHours(t *testing.T) {
	s := newTestServer(t)

	w, _ := s.do("POST", "/api/v1/reports", "", map[string]interface{}{
		"report_type": "entry", "personal_id": "1234", "rahal": "Dana", "work_location": "North gate",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	// pairing needs the exit strictly after the entry
	time.Sleep(2 * time.Millisecond)
	w, _ = s.do("POST", "/api/v1/reports", "", map[string]interface{}{
		"report_type": "exit", "personal_id": "1234", "rahal": "Dana", "reports_count": 1,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	token := s.login()
	w, env := s.do("GET", "/api/v1/admin/hours", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var hours struct {
		Rows []struct {
			PersonalID      string `json:"personal_id"`
			CompletedShifts int    `json:"completed_shifts"`
		} `json:"rows"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &hours))
	require.Len(t, hours.Rows, 1)
	assert.Equal(t, "1234", hours.Rows[0].PersonalID)
	assert.Equal(t, 1, hours.Rows[0].CompletedShifts)
}

func TestSubmitValidation(t *testing.T) {
	s := newTestServer(t)

	w, env := s.do("POST", "/api/v1/reports", "", map[string]interface{}{"report_type": "exit"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, 20001, env.Code)
	assert.Contains(t, env.Details, "personal_id")
	assert.Contains(t, env.Details, "rahal")
	assert.Contains(t, env.Details, "reports_count")
}

func TestAdminRoutesRequireSession(t *testing.T) {
	s := newTestServer(t)
	for _, path := range []string{
		"/api/v1/admin/hours",
		"/api/v1/admin/reports",
		"/api/v1/admin/location-pings",
		"/api/v1/admin/reports/export.csv",
	} {
		w, env := s.do("GET", path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)
		assert.Equal(t, 10002, env.Code, path)
	}

	w, env := s.do("POST", "/api/v1/admin/login", "", map[string]string{"access_phrase": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, 21001, env.Code)
}

func TestTwoStepResetFlow(t *testing.T) {
	s := newTestServer(t)

	w, _ := s.do("PUT", "/api/v1/location-pings", "", map[string]string{"personal_id": "12", "current_location": "Gate", "on_shift": "yes"})
	require.Equal(t, http.StatusOK, w.Code)

	token := s.login()

	w, _ = s.do("POST", "/api/v1/admin/reset/locations", token, nil)
	assert.Equal(t, http.StatusAccepted, w.Code)

	w, _ = s.do("POST", "/api/v1/admin/reset/cancel", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = s.do("POST", "/api/v1/admin/reset/locations", token, nil)
	assert.Equal(t, http.StatusAccepted, w.Code, "cancel must disarm")

	w, env := s.do("POST", "/api/v1/admin/reset/locations", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var result struct {
		Confirmed bool  `json:"confirmed"`
		Deleted   int64 `json:"deleted"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &result))
	assert.True(t, result.Confirmed)
	assert.Equal(t, int64(1), result.Deleted)

	w, env = s.do("GET", "/api/v1/admin/location-pings", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var board struct {
		ReportedCount int `json:"reported_count"`
		NotReported   int `json:"not_reported"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &board))
	assert.Equal(t, 0, board.ReportedCount)
	assert.Equal(t, 95, board.NotReported)
}

func TestLogoutEndsSession(t *testing.T) {
	s := newTestServer(t)
	token := s.login()

	w, _ := s.do("POST", "/api/v1/admin/logout", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w, _ = s.do("GET", "/api/v1/admin/hours", token, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCSVExport(t *testing.T) {
	s := newTestServer(t)
	w, _ := s.do("POST", "/api/v1/reports", "", map[string]interface{}{
		"report_type": "entry", "personal_id": "1", "rahal": "Dana",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	token := s.login()
	w, _ = s.do("GET", "/api/v1/admin/reports/export.csv", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("\xEF\xBB\xBFreport_type,personal_id,rahal,")))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "attachment")
}

package integration__test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nomzodai/nomzod-api/internal/auth"
	"github.com/nomzodai/nomzod-api/internal/cache"
	"github.com/nomzodai/nomzod-api/internal/config"
	"github.com/nomzodai/nomzod-api/internal/db"
	"github.com/nomzodai/nomzod-api/internal/db/dbtest"
	apphttp "github.com/nomzodai/nomzod-api/internal/http"
	"github.com/nomzodai/nomzod-api/internal/observability"
	"github.com/nomzodai/nomzod-api/internal/repo"
	"github.com/nomzodai/nomzod-api/internal/repo/memory"
	"github.com/nomzodai/nomzod-api/internal/repo/postgres"
	"github.com/nomzodai/nomzod-api/internal/storage"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	adminEmail    = "admin@example.com"
	adminPassword = "admin-pass"
)

type testApp struct {
	router *gin.Engine
	store  repo.Store
	files  *storage.Local
	now    *time.Time
}

func testConfig(storageDir string) config.Config {
	return config.Config{
		Env:                 "test",
		JWTSecret:           "test-secret-key",
		JWTAccessTTLSeconds: 3600,
		AdminEmail:          adminEmail,
		AdminPassword:       adminPassword,
		AdminName:           "Test Admin",
		StorageDir:          storageDir,
		PublicBaseURL:       "http://api.test",
		MaxUploadBytes:      64 << 10,
		CacheTTLSeconds:     60,
		CORSOrigins:         []string{"*"},
		ServiceName:         "nomzod-api-test",
		LoginRateLimit:      1000,
		UploadRateLimit:     1000,
		UserACL:             config.UserACLOpen,
	}
}

func setupApp(t *testing.T, mutate ...func(*config.Config)) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := testConfig(t.TempDir())
	for _, m := range mutate {
		m(&cfg)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelDebug}))

	reg := prometheus.NewRegistry()
	prom := observability.NewProm(reg)

	now := time.Now().UTC()
	app := &testApp{store: newStore(t, prom), now: &now}
	app.files = storage.NewLocal(cfg.StorageDir, cfg.PublicBaseURL)

	if err := db.EnsureAdminUser(context.Background(), app.store.Users(), cfg, logger); err != nil {
		t.Fatalf("seed admin: %v", err)
	}

	jwtm := auth.NewManager(cfg.JWTSecret, cfg.AccessTTL()).WithClock(func() time.Time { return *app.now })

	app.router = apphttp.NewRouter(logger, cfg, apphttp.Deps{
		Store:    app.store,
		Cache:    cache.NewMemory(cfg.CacheTTL()),
		Tokens:   jwtm,
		Files:    app.files,
		Prom:     prom,
		Gatherer: reg,
	})

	return app
}

// newStore runs the suite against Postgres when TEST_DB_DSN is set and
// against the in-memory store otherwise.
func newStore(t *testing.T, prom *observability.Prom) repo.Store {
	t.Helper()
	if dbtest.Enabled() {
		return postgres.NewStore(dbtest.NewPool(t), prom)
	}
	return memory.NewStore()
}

// function that runs a request and returns the recorder

func (a *testApp) do(method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))

	if method == http.MethodPost || method == http.MethodPut || method == http.MethodPatch {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)

	return w
}

func (a *testApp) login(t *testing.T, email, password string) string {
	t.Helper()

	form := url.Values{"username": {email}, "password": {password}}
	req := httptest.NewRequest(http.MethodPost, "/auth/jwt/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("login got status %d, body=%s", w.Code, w.Body.String())
	}

	var tok struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
	}
	mustReadJSON(t, w, &tok)

	if tok.TokenType != "bearer" || tok.AccessToken == "" {
		t.Fatalf("unexpected token response %s", w.Body.String())
	}
	return tok.AccessToken
}

func (a *testApp) registerAndLogin(t *testing.T, email string) (int64, string) {
	t.Helper()

	body := `{"fullName":"Test User","email":"` + email + `","password":"pw123","role":"candidate"}`
	w := a.do(http.MethodPost, "/auth/register", body, "")
	if w.Code != http.StatusCreated {
		t.Fatalf("register got status %d, body=%s", w.Code, w.Body.String())
	}

	var u struct {
		ID int64 `json:"id"`
	}
	mustReadJSON(t, w, &u)

	return u.ID, a.login(t, email, "pw123")
}

func mustReadJSON[T any](t *testing.T, w *httptest.ResponseRecorder, out *T) {
	t.Helper()
	err := json.Unmarshal(w.Body.Bytes(), out)
	if err != nil {
		t.Fatalf("failed to unmarshal json: %v, body=%s", err, w.Body.String())
	}
}

func errorMessage(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()

	var resp struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	mustReadJSON(t, w, &resp)
	return resp.Error.Message
}

func expectStatus(t *testing.T, w *httptest.ResponseRecorder, want int) {
	t.Helper()
	if w.Code != want {
		t.Fatalf("got status %d, want %d, body=%s", w.Code, want, w.Body.String())
	}
}

package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sponsorship_console/config"
	"sponsorship_console/middleware"
	"sponsorship_console/models"
	"sponsorship_console/services"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const testSessionSecret = "test-session-secret-with-enough-length-32"

func setupTestDB(t *testing.T) *gorm.DB {
	// Unique shared memory name isolates tests while letting goroutines share the connection
	dbName := "mem_" + uuid.New().String()
	testDB, err := gorm.Open(sqlite.Open("file:"+dbName+"?mode=memory&cache=shared&_busy_timeout=5000"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, testDB.AutoMigrate(&models.Session{}))
	return testDB
}

// fakeBackend stands in for the REST backend. Requests are recorded as
// "METHOD /path".
type fakeBackend struct {
	mux *http.ServeMux

	mu    sync.Mutex
	calls []string
}

func (f *fakeBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	f.calls = append(f.calls, r.Method+" "+r.URL.Path)
	f.mu.Unlock()
	f.mux.ServeHTTP(w, r)
}

func (f *fakeBackend) handle(pattern string, fn http.HandlerFunc) {
	f.mux.HandleFunc(pattern, fn)
}

func (f *fakeBackend) called(call string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c == call {
			n++
		}
	}
	return n
}

type testEnv struct {
	h        *Handler
	e        *echo.Echo
	sessions *services.SessionStore
	lists    *services.ListRegistry
	db       *gorm.DB
	backend  *fakeBackend
}

func newTestEnv(t *testing.T) *testEnv {
	backend := &fakeBackend{mux: http.NewServeMux()}
	srv := httptest.NewServer(backend)
	t.Cleanup(srv.Close)

	cfg := &config.Config{
		Environment:    "test",
		BackendURL:     srv.URL,
		RequestTimeout: 5 * time.Second,
		SearchDebounce: 20 * time.Millisecond,
		AppURL:         "http://console.test",
	}

	testDB := setupTestDB(t)
	sealer, err := services.NewTokenSealer(testSessionSecret)
	require.NoError(t, err)
	sessions := services.NewSessionStore(testDB, sealer, nil)

	lists := services.NewListRegistry(time.Minute)
	t.Cleanup(lists.Close)

	h := New(cfg, services.NewBackend(services.NewAPIClient(cfg, nil)), sessions, lists, services.NewLocalStorage(t.TempDir()), nil)
	e := echo.New()
	h.Register(e)

	return &testEnv{h: h, e: e, sessions: sessions, lists: lists, db: testDB, backend: backend}
}

func testAdmin() models.User {
	return models.User{ID: 1, Email: "admin@example.org", FullName: "Ada Admin", Role: models.RoleAdmin, IsAdmin: true}
}

func testBeneficiary() models.User {
	return models.User{ID: 42, Email: "jane@example.org", FullName: "Jane Muthoni", Role: models.RoleBeneficiary}
}

// signIn stores a console session for user and returns its cookie
func (env *testEnv) signIn(t *testing.T, user models.User) *http.Cookie {
	session, err := env.sessions.CreateSession(user, "bearer-"+strconv.Itoa(user.ID), "192.0.2.1", "test")
	require.NoError(t, err)
	return &http.Cookie{Name: middleware.SessionCookieName, Value: session.Token}
}

func (env *testEnv) do(req *http.Request, cookie *http.Cookie) *httptest.ResponseRecorder {
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	env.e.ServeHTTP(rec, req)
	return rec
}

func jsonRequest(t *testing.T, method, target string, body any) *http.Request {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req.Header.Set(echo.HeaderAccept, echo.MIMEApplicationJSON)
	return req
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

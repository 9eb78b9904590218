package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sponsorship_console/middleware"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// serveBeneficiaries answers the list endpoint. Rows are named after the
// search so tests can tell which query was served.
func serveBeneficiaries(env *testEnv, total *atomic.Int32) {
	env.backend.handle("/admin/beneficiaries/", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		name := q.Get("search")
		if name == "" {
			name = "Everyone"
		}
		writeJSON(w, http.StatusOK, fmt.Sprintf(`{
			"beneficiaries":[{"id":7,"full_name":%q,"email":"b7@example.org","sponsorship_status":"active"}],
			"pagination":{"current_page":1,"total_pages":1,"total_count":1},
			"summary":{"total":%d,"active":1,"pending_verification":0}
		}`, name, total.Load()))
	})
}

func TestBeneficiariesHandler(t *testing.T) {
	env := newTestEnv(t)
	var total atomic.Int32
	total.Store(12)
	serveBeneficiaries(env, &total)
	cookie := env.signIn(t, testAdmin())

	t.Run("Page with filters", func(t *testing.T) {
		rec := env.do(jsonRequest(t, http.MethodGet, "/admin/beneficiaries?status=active&page=1&page_size=10", nil), cookie)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		body := decodeBody(t, rec)
		assert.Equal(t, true, body["success"])
		rows := body["rows"].([]any)
		require.Len(t, rows, 1)
		assert.Equal(t, "Everyone", rows[0].(map[string]any)["full_name"])
		assert.Equal(t, "active", body["filters"].(map[string]any)["status"])
	})

	t.Run("Unknown status is refused", func(t *testing.T) {
		rec := env.do(jsonRequest(t, http.MethodGet, "/admin/beneficiaries?status=archived", nil), cookie)
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})

	t.Run("Bad page size", func(t *testing.T) {
		rec := env.do(jsonRequest(t, http.MethodGet, "/admin/beneficiaries?page_size=7", nil), cookie)
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})

	t.Run("Summary", func(t *testing.T) {
		rec := env.do(jsonRequest(t, http.MethodGet, "/admin/beneficiaries/summary", nil), cookie)
		require.Equal(t, http.StatusOK, rec.Code)
		summary := decodeBody(t, rec)["summary"].(map[string]any)
		assert.EqualValues(t, 12, summary["total"])
	})
}

func TestBeneficiariesLiveHandler(t *testing.T) {
	env := newTestEnv(t)
	var total atomic.Int32
	serveBeneficiaries(env, &total)
	cookie := env.signIn(t, testAdmin())

	req := jsonRequest(t, http.MethodGet, "/admin/beneficiaries/live?search=Wanjiru&seq=3", nil)
	rec := env.do(req, cookie)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "3", rec.Header().Get("X-Search-Seq"))
	body := decodeBody(t, rec)
	assert.Equal(t, "Wanjiru", body["search"])
	rows := body["rows"].([]any)
	assert.Equal(t, "Wanjiru", rows[0].(map[string]any)["full_name"])
}

func TestBeneficiariesLiveHandlerSuperseded(t *testing.T) {
	env := newTestEnv(t)
	var total atomic.Int32
	serveBeneficiaries(env, &total)
	cookie := env.signIn(t, testAdmin())
	env.h.cfg.SearchDebounce = 200 * time.Millisecond

	sess, _, err := env.sessions.Load(cookie.Value)
	require.NoError(t, err)
	c := env.e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	c.Set(middleware.ContextKeySession, sess)
	c.Set(middleware.ContextKeySessionToken, cookie.Value)
	desk := env.h.beneficiaryDesk(c)

	first := make(chan *httptest.ResponseRecorder, 1)
	go func() {
		first <- env.do(jsonRequest(t, http.MethodGet, "/admin/beneficiaries/live?search=Wa", nil), cookie)
	}()
	// Let the first keystroke register before the second overtakes it
	require.Eventually(t, func() bool { return desk.list.Query().Search == "Wa" }, time.Second, 5*time.Millisecond)
	second := env.do(jsonRequest(t, http.MethodGet, "/admin/beneficiaries/live?search=Wanjiru", nil), cookie)

	assert.Equal(t, http.StatusNoContent, (<-first).Code)
	require.Equal(t, http.StatusOK, second.Code)
	assert.Equal(t, "Wanjiru", decodeBody(t, second)["search"])
	assert.Equal(t, 1, env.backend.called("GET /admin/beneficiaries/"))
}

func TestCreateBeneficiaryHandler(t *testing.T) {
	env := newTestEnv(t)
	var total atomic.Int32
	total.Store(3)
	serveBeneficiaries(env, &total)

	var sent map[string][]string
	env.backend.handle("/admin/beneficiaries/create/", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		sent = r.MultipartForm.Value
		total.Add(1)
		writeJSON(w, http.StatusCreated, `{"message":"created","beneficiary":{"id":9,"full_name":"Amani Otieno","temporary_password":"Tmp-12345"}}`)
	})
	cookie := env.signIn(t, testAdmin())

	rec := env.do(jsonRequest(t, http.MethodPost, "/admin/beneficiaries", map[string]any{
		"first_name":   "Amani",
		"last_name":    "Otieno",
		"email":        "amani@example.org",
		"phone_number": "+254712345678",
		"school":       "Moi Girls",
		"county":       "",
	}), cookie)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decodeBody(t, rec)
	assert.Contains(t, body["message"], "Temporary password: Tmp-12345")
	assert.EqualValues(t, 4, body["summary"].(map[string]any)["total"], "summary is reloaded after the create")
	assert.Equal(t, []string{"Amani"}, sent["first_name"])
	assert.NotContains(t, sent, "county", "empty fields are not sent")
	assert.Contains(t, rec.Header().Get("HX-Trigger"), "refresh:beneficiaries")
}

func TestCreateBeneficiaryValidation(t *testing.T) {
	env := newTestEnv(t)
	cookie := env.signIn(t, testAdmin())

	rec := env.do(jsonRequest(t, http.MethodPost, "/admin/beneficiaries", map[string]any{
		"first_name": "Amani",
		"email":      "not-an-email",
	}), cookie)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	msg := decodeBody(t, rec)["error"].(string)
	assert.Contains(t, msg, "Please fill in: last name")
	assert.Contains(t, msg, "Email must be a valid email address")
	assert.Equal(t, 0, env.backend.called("POST /admin/beneficiaries/create/"))
}

func TestBeneficiaryStatusHandler(t *testing.T) {
	env := newTestEnv(t)
	var total atomic.Int32
	serveBeneficiaries(env, &total)

	var body map[string]any
	env.backend.handle("/admin/beneficiaries/7/update/", func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasPrefix(r.Header.Get("Content-Type"), "application/json"))
		raw, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(raw, &body))
		writeJSON(w, http.StatusOK, `{"success":true}`)
	})
	cookie := env.signIn(t, testAdmin())

	t.Run("Valid", func(t *testing.T) {
		rec := env.do(jsonRequest(t, http.MethodPatch, "/admin/beneficiaries/7/status", map[string]any{"status": "suspended"}), cookie)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Equal(t, map[string]any{"sponsorship_status": "suspended"}, body)
	})

	t.Run("Unknown status", func(t *testing.T) {
		rec := env.do(jsonRequest(t, http.MethodPatch, "/admin/beneficiaries/7/status", map[string]any{"status": "gone"}), cookie)
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})

	t.Run("Bad id", func(t *testing.T) {
		rec := env.do(jsonRequest(t, http.MethodPatch, "/admin/beneficiaries/abc/status", map[string]any{"status": "active"}), cookie)
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})
}

func TestBeneficiaryListKeepsRowsOnFailure(t *testing.T) {
	env := newTestEnv(t)
	var fail atomic.Bool
	env.backend.handle("/admin/beneficiaries/", func(w http.ResponseWriter, r *http.Request) {
		if fail.Load() {
			writeJSON(w, http.StatusInternalServerError, `{"success":false,"error":"database unavailable"}`)
			return
		}
		writeJSON(w, http.StatusOK, `{"beneficiaries":[{"id":7,"full_name":"Kept"}],"pagination":{"current_page":1,"total_pages":1,"total_count":1}}`)
	})
	cookie := env.signIn(t, testAdmin())

	rec := env.do(jsonRequest(t, http.MethodGet, "/admin/beneficiaries", nil), cookie)
	require.Equal(t, http.StatusOK, rec.Code)

	fail.Store(true)
	rec = env.do(jsonRequest(t, http.MethodGet, "/admin/beneficiaries?page=1", nil), cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "database unavailable", body["error"])
	rows := body["rows"].([]any)
	require.Len(t, rows, 1)
	assert.Equal(t, "Kept", rows[0].(map[string]any)["full_name"])
}

// servePagedBeneficiaries answers with 47 beneficiaries, echoing the
// requested page, and records every query string it receives
func servePagedBeneficiaries(env *testEnv) func() []string {
	var mu sync.Mutex
	var queries []string
	env.backend.handle("/admin/beneficiaries/", func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		queries = append(queries, r.URL.RawQuery)
		mu.Unlock()

		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		writeJSON(w, http.StatusOK, fmt.Sprintf(`{
			"beneficiaries":[{"id":%d,"full_name":"Student %d","sponsorship_status":"active"}],
			"pagination":{"current_page":%d,"total_pages":5,"total_count":47},
			"summary":{"total":47}
		}`, page, page, page))
	})
	return func() []string {
		mu.Lock()
		defer mu.Unlock()
		return append([]string{}, queries...)
	}
}

func TestBeneficiariesFilterChangeResetsPage(t *testing.T) {
	env := newTestEnv(t)
	queries := servePagedBeneficiaries(env)
	cookie := env.signIn(t, testAdmin())

	for _, target := range []string{
		"/admin/beneficiaries?page=3",
		"/admin/beneficiaries?page=3&status=pending",
		"/admin/beneficiaries?page=3&status=pending&page_size=25",
		"/admin/beneficiaries?page=3&status=pending&page_size=25&search=Otieno",
		"/admin/beneficiaries?page=2&status=pending&page_size=25&search=Otieno",
	} {
		rec := env.do(jsonRequest(t, http.MethodGet, target, nil), cookie)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	}

	sent := queries()
	require.Len(t, sent, 5)
	pageOf := func(raw string) string {
		v, err := url.ParseQuery(raw)
		require.NoError(t, err)
		return v.Get("page")
	}
	assert.Equal(t, "3", pageOf(sent[0]))
	assert.Equal(t, "1", pageOf(sent[1]), "filter change")
	assert.Equal(t, "1", pageOf(sent[2]), "page size change")
	assert.Contains(t, sent[2], "limit=25")
	assert.Equal(t, "1", pageOf(sent[3]), "search change")
	assert.Equal(t, "2", pageOf(sent[4]), "plain page change")
}

func TestBeneficiariesPaginationBlock(t *testing.T) {
	env := newTestEnv(t)
	servePagedBeneficiaries(env)
	cookie := env.signIn(t, testAdmin())

	rec := env.do(jsonRequest(t, http.MethodGet, "/admin/beneficiaries?page=1&page_size=10", nil), cookie)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	pagination := decodeBody(t, rec)["pagination"].(map[string]any)
	assert.EqualValues(t, 5, pagination["total_pages"])
	assert.EqualValues(t, 47, pagination["total_count"])
	assert.EqualValues(t, 10, pagination["items_per_page"])
	assert.Equal(t, []any{1.0, 2.0, 3.0, 4.0, 5.0}, pagination["pages"])
	assert.Equal(t, "Showing 1 to 10 of 47", pagination["showing"])

	rec = env.do(jsonRequest(t, http.MethodGet, "/admin/beneficiaries?page=5&page_size=10", nil), cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	pagination = decodeBody(t, rec)["pagination"].(map[string]any)
	assert.EqualValues(t, 5, pagination["current_page"])
	assert.Equal(t, "Showing 41 to 47 of 47", pagination["showing"])
}

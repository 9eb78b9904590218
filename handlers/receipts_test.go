package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sponsorship_console/middleware"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serveReceipts(env *testEnv) {
	env.backend.handle("/admin/payments/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{
			"payments":[
				{"id":7,"receipt_number":"R-7","amount":"1500.00","status":"pending"},
				{"id":8,"receipt_number":"R-8","amount":"900.00","status":"verified"}
			],
			"summary_stats":{"total_paid":"900.00","verified_count":1,"pending_count":1},
			"pagination":{"current_page":1,"total_pages":1,"total_count":2}
		}`)
	})
	env.backend.handle("/admin/documents/pending/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"pending_items":[{"id":11,"type":"payment","receipt_number":"R-11","amount":"300.00","beneficiary":{"id":42}}],"counts":{"documents":0,"payments":1}}`)
	})
}

func TestVerifyReceiptHandler(t *testing.T) {
	env := newTestEnv(t)
	serveReceipts(env)

	var verified map[string]string
	env.backend.handle("/admin/payments/7/verify/", func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(raw, &verified))
		writeJSON(w, http.StatusOK, `{"success":true}`)
	})
	cookie := env.signIn(t, testAdmin())

	rec := env.do(jsonRequest(t, http.MethodGet, "/admin/receipts", nil), cookie)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	t.Run("Pending receipt on screen", func(t *testing.T) {
		rec := env.do(jsonRequest(t, http.MethodPost, "/admin/receipts/7/verify", map[string]any{"notes": "  matches bank slip "}), cookie)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Equal(t, map[string]string{"status": "verified", "notes": "matches bank slip"}, verified)
		assert.Contains(t, rec.Header().Get("HX-Trigger"), "refresh:receipts")
	})

	t.Run("Already verified", func(t *testing.T) {
		rec := env.do(jsonRequest(t, http.MethodPost, "/admin/receipts/8/reject", nil), cookie)
		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.Equal(t, 0, env.backend.called("POST /admin/payments/8/verify/"))
	})

	t.Run("Unknown receipt", func(t *testing.T) {
		rec := env.do(jsonRequest(t, http.MethodPost, "/admin/receipts/99/verify", nil), cookie)
		assert.Equal(t, http.StatusConflict, rec.Code)
	})
}

func TestRejectReceiptFromReviewQueue(t *testing.T) {
	env := newTestEnv(t)
	serveReceipts(env)
	var got map[string]string
	env.backend.handle("/admin/payments/11/verify/", func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(raw, &got))
		writeJSON(w, http.StatusOK, `{"success":true}`)
	})
	cookie := env.signIn(t, testAdmin())

	rec := env.do(jsonRequest(t, http.MethodPost, "/admin/receipts/11/reject", map[string]any{"notes": "blurry"}), cookie)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "rejected", got["status"])
}

func TestRefreshFailureStillReportsSaved(t *testing.T) {
	env := newTestEnv(t)
	calls := 0
	env.backend.handle("/admin/payments/", func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls > 1 {
			writeJSON(w, http.StatusServiceUnavailable, `{"success":false,"error":"try later"}`)
			return
		}
		writeJSON(w, http.StatusOK, `{"payments":[{"id":7,"status":"pending"}],"pagination":{"current_page":1,"total_pages":1,"total_count":1}}`)
	})
	env.backend.handle("/admin/payments/7/verify/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"success":true}`)
	})
	cookie := env.signIn(t, testAdmin())

	env.do(jsonRequest(t, http.MethodGet, "/admin/receipts", nil), cookie)
	rec := env.do(jsonRequest(t, http.MethodPost, "/admin/receipts/7/verify", nil), cookie)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decodeBody(t, rec)
	assert.Equal(t, true, body["success"])
	assert.NotEmpty(t, body["warning"])
}

func TestDownloadReceiptHandler(t *testing.T) {
	env := newTestEnv(t)
	env.backend.handle("/payments/5/download/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", `attachment; filename="receipt_R-5.pdf"`)
		_, _ = io.WriteString(w, "%PDF-1.4 receipt")
	})
	cookie := env.signIn(t, testBeneficiary())

	rec := env.do(jsonRequest(t, http.MethodGet, "/portal/receipts/5/download", nil), cookie)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "receipt_R-5.pdf")
	assert.Equal(t, "%PDF-1.4 receipt", rec.Body.String())
}

func TestPendingReviewsHandler(t *testing.T) {
	env := newTestEnv(t)
	serveReceipts(env)
	cookie := env.signIn(t, testAdmin())

	rec := env.do(jsonRequest(t, http.MethodGet, "/admin/reviews", nil), cookie)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Len(t, body["pending_items"], 1)
	assert.Equal(t, false, body["empty"])
}

// receiptLedger serves /admin/payments/ from memory, honours the status
// filter and flips a payment when it is verified or rejected
type receiptLedger struct {
	mu       sync.Mutex
	statuses map[int]string
}

func (l *receiptLedger) serve(env *testEnv) {
	env.backend.handle("/admin/payments/", func(w http.ResponseWriter, r *http.Request) {
		l.mu.Lock()
		defer l.mu.Unlock()

		if strings.HasSuffix(r.URL.Path, "/verify/") {
			id, _ := strconv.Atoi(strings.Split(strings.Trim(r.URL.Path, "/"), "/")[2])
			var body map[string]string
			_ = json.NewDecoder(r.Body).Decode(&body)
			l.statuses[id] = body["status"]
			writeJSON(w, http.StatusOK, `{"success":true}`)
			return
		}

		want := r.URL.Query().Get("status")
		var rows []string
		pending := 0
		for _, id := range []int{7, 8} {
			status := l.statuses[id]
			if status == "pending" {
				pending++
			}
			if want != "" && want != status {
				continue
			}
			rows = append(rows, fmt.Sprintf(`{"id":%d,"receipt_number":"R-%d","amount":"1500.00","status":%q}`, id, id, status))
		}
		writeJSON(w, http.StatusOK, fmt.Sprintf(`{
			"payments":[%s],
			"summary_stats":{"total_paid":"1500.00","verified_count":%d,"pending_count":%d},
			"pagination":{"current_page":1,"total_pages":1,"total_count":%d}
		}`, strings.Join(rows, ","), 2-pending, pending, len(rows)))
	})
}

func TestVerifiedReceiptLeavesPendingView(t *testing.T) {
	env := newTestEnv(t)
	ledger := &receiptLedger{statuses: map[int]string{7: "pending", 8: "verified"}}
	ledger.serve(env)
	cookie := env.signIn(t, testAdmin())

	rec := env.do(jsonRequest(t, http.MethodGet, "/admin/receipts?status=pending", nil), cookie)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	rows := decodeBody(t, rec)["rows"].([]any)
	require.Len(t, rows, 1)
	assert.EqualValues(t, 7, rows[0].(map[string]any)["id"])

	rec = env.do(jsonRequest(t, http.MethodPost, "/admin/receipts/7/verify", map[string]any{"notes": "ok"}), cookie)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	summary := decodeBody(t, rec)["summary"].(map[string]any)
	assert.EqualValues(t, 0, summary["pending_count"])
	assert.EqualValues(t, 2, summary["verified_count"])

	// The refresh re-ran the pending view and it is now empty
	sess, _, err := env.sessions.Load(cookie.Value)
	require.NoError(t, err)
	c := env.e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	c.Set(middleware.ContextKeySession, sess)
	c.Set(middleware.ContextKeySessionToken, cookie.Value)
	snap := env.h.receiptDesk(c).list.Snapshot()
	assert.Equal(t, "pending", snap.Query.Filters["status"])
	assert.Empty(t, snap.Rows)
	assert.True(t, snap.Empty)

	rec = env.do(jsonRequest(t, http.MethodGet, "/admin/receipts?status=pending", nil), cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Empty(t, body["rows"])
	assert.Equal(t, true, body["empty"])

	rec = env.do(jsonRequest(t, http.MethodGet, "/admin/receipts?status=verified", nil), cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	rows = decodeBody(t, rec)["rows"].([]any)
	require.Len(t, rows, 2)
	for _, row := range rows {
		assert.Equal(t, "verified", row.(map[string]any)["status"])
	}
}

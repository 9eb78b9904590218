package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sponsorship_console/models"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBackend(t *testing.T, mux *http.ServeMux) *Backend {
	client, _ := newTestClient(t, mux.ServeHTTP)
	return NewBackend(client)
}

func beneficiarySession() *SessionContext {
	sess := NewSessionContext()
	sess.SignIn(testBeneficiary(), "portal-token")
	return sess
}

// receiptBackend keeps receipts in memory and filters them like the backend
type receiptBackend struct {
	mu       sync.Mutex
	payments []models.Payment
	verified int32
}

func (b *receiptBackend) routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/admin/payments/", func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/verify/") {
			b.verify(w, r)
			return
		}
		b.list(w, r)
	})
	return mux
}

func (b *receiptBackend) list(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()

	status := r.URL.Query().Get("status")
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit == 0 {
		limit = 10
	}
	rows := []models.Payment{}
	summary := models.PaymentSummary{}
	for _, p := range b.payments {
		switch p.Status {
		case models.PaymentPending:
			summary.PendingCount++
		case models.PaymentVerified:
			summary.VerifiedCount++
		}
		if status == "" || p.Status == status {
			rows = append(rows, p)
		}
	}
	total := len(rows)
	if len(rows) > limit {
		rows = rows[:limit]
	}
	body, _ := json.Marshal(models.PaymentListResponse{
		Payments:     rows,
		SummaryStats: summary,
		Pagination:   models.Pagination{CurrentPage: 1, TotalPages: TotalPages(total, limit), TotalCount: total},
	})
	writeJSON(w, http.StatusOK, string(body))
}

func (b *receiptBackend) verify(w http.ResponseWriter, r *http.Request) {
	var body map[string]string
	_ = json.NewDecoder(r.Body).Decode(&body)
	id, _ := strconv.Atoi(strings.Split(strings.TrimPrefix(r.URL.Path, "/admin/payments/"), "/")[0])

	b.mu.Lock()
	defer b.mu.Unlock()
	for n := range b.payments {
		if b.payments[n].ID == id {
			b.payments[n].Status = body["status"]
			atomic.AddInt32(&b.verified, 1)
			writeJSON(w, http.StatusOK, fmt.Sprintf(`{"success":true,"message":"Payment %s successfully"}`, body["status"]))
			return
		}
	}
	writeJSON(w, http.StatusNotFound, `{"success":false,"error":"Payment not found"}`)
}

func TestVerifyReceiptLeavesPendingFilter(t *testing.T) {
	fake := &receiptBackend{payments: []models.Payment{
		{ID: 1, ReceiptNumber: "RCP-2024-001", Amount: "30000.00", Status: models.PaymentPending},
		{ID: 2, ReceiptNumber: "RCP-2024-002", Amount: "45000.00", Status: models.PaymentPending},
		{ID: 3, ReceiptNumber: "RCP-2024-003", Amount: "38000.00", Status: models.PaymentVerified},
	}}
	backend := newTestBackend(t, fake.routes())
	sess := signedIn("admin-token")
	ctx := context.Background()

	list := NewListController(backend.Payments.Fetcher(sess), ListOptions{Name: "receipts", Filters: PaymentFilters})
	defer list.Close()
	snap, err := list.SetFilter(ctx, "status", models.PaymentPending)
	require.NoError(t, err)
	require.Len(t, snap.Rows, 2)

	var summary models.PaymentSummary
	submitter := NewSubmitter(RefreshList(list), func(ctx context.Context) error {
		s, err := backend.Payments.Summary(ctx, sess)
		summary = s
		return err
	})

	target := snap.Rows[0]
	err = submitter.Submit(ctx, func(ctx context.Context) error {
		return backend.Payments.Review(ctx, sess, target, models.PaymentVerified, "  matches bank slip ")
	})
	require.NoError(t, err)

	after := list.Snapshot()
	assert.Equal(t, 1, after.TotalCount)
	for _, p := range after.Rows {
		assert.NotEqual(t, target.ID, p.ID)
	}
	assert.Equal(t, 1, summary.PendingCount)
	assert.Equal(t, 2, summary.VerifiedCount)
	assert.False(t, submitter.Submitting())
}

func TestReviewRefusesNonPendingPayment(t *testing.T) {
	fake := &receiptBackend{}
	backend := newTestBackend(t, fake.routes())

	err := backend.Payments.Review(context.Background(), signedIn("admin-token"),
		models.Payment{ID: 3, Status: models.PaymentVerified}, models.PaymentRejected, "")

	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.Zero(t, atomic.LoadInt32(&fake.verified))
}

func TestPaymentEndpointsFollowRole(t *testing.T) {
	var paths []string
	var mu sync.Mutex
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		paths = append(paths, r.URL.Path)
		mu.Unlock()
		writeJSON(w, http.StatusOK, `{"success":true,"payments":[],"pagination":{"current_page":1,"total_pages":0,"total_count":0}}`)
	})
	backend := newTestBackend(t, mux)
	ctx := context.Background()

	_, err := backend.Payments.List(ctx, signedIn("admin-token"), ListQuery{Page: 1, PageSize: 10})
	require.NoError(t, err)
	_, err = backend.Payments.List(ctx, beneficiarySession(), ListQuery{Page: 1, PageSize: 10})
	require.NoError(t, err)

	assert.Equal(t, []string{"/admin/payments/", "/payments/"}, paths)
}

func TestReceiptUploadValidatesBeforeSending(t *testing.T) {
	var calls int32
	mux := http.NewServeMux()
	mux.HandleFunc("/payments/upload/", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		writeJSON(w, http.StatusOK, `{"success":true,"payment":{"id":9,"receipt_number":"RCP-9","status":"pending"}}`)
	})
	backend := newTestBackend(t, mux)
	sess := beneficiarySession()
	ctx := context.Background()

	_, err := backend.Payments.Upload(ctx, sess, map[string]string{"amount": "-5", "payment_method": "mpesa"}, nil)
	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Equal(t, []string{"Payment date", "Term", "Year", "Receipt file"}, valErr.Missing)
	assert.Contains(t, valErr.Problems, "Amount must be greater than zero")
	assert.Zero(t, atomic.LoadInt32(&calls))

	payment, err := backend.Payments.Upload(ctx, sess, map[string]string{
		"amount": "30000", "payment_date": "2024-01-15", "payment_method": "mpesa", "term": "Term 1", "year": "2024",
	}, []FilePart{{Field: "receipt_file", FileName: "r.pdf", ContentType: "application/pdf", Data: []byte("%PDF")}})
	require.NoError(t, err)
	assert.Equal(t, "RCP-9", payment.ReceiptNumber)
	assert.EqualValues(t, 1, atomic.LoadInt32(&calls))
}

func TestBeneficiaryCreateValidationSendsNothing(t *testing.T) {
	var calls int32
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	})
	backend := newTestBackend(t, mux)

	_, err := backend.Beneficiaries.Create(context.Background(), signedIn("admin-token"),
		map[string]string{"first_name": "Jane", "email": "jane-at-example"}, nil)

	assert.EqualError(t, err, "Please fill in: last name, phone number, school. Email must be a valid email address")
	assert.Zero(t, atomic.LoadInt32(&calls))
}

func TestBeneficiaryCreateReturnsTemporaryPassword(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/admin/beneficiaries/create/", func(w http.ResponseWriter, r *http.Request) {
		if !assert.NoError(t, r.ParseMultipartForm(1<<20)) {
			return
		}
		assert.Equal(t, "Jane", r.FormValue("first_name"))
		assert.Empty(t, r.MultipartForm.Value["county"])
		writeJSON(w, http.StatusOK, `{"success":true,"message":"Beneficiary created successfully",
			"beneficiary":{"id":42,"full_name":"Jane Muthoni","email":"jane@example.com","username":"jane","temporary_password":"Tmp-12345"}}`)
	})
	backend := newTestBackend(t, mux)

	resp, err := backend.Beneficiaries.Create(context.Background(), signedIn("admin-token"), map[string]string{
		"first_name": " Jane ", "last_name": "Muthoni", "email": "jane@example.com",
		"phone_number": "+254712345678", "school": "Moi Girls", "county": "  ",
	}, nil)

	require.NoError(t, err)
	assert.Equal(t, 42, resp.Beneficiary.ID)
	assert.Equal(t, "Tmp-12345", resp.Beneficiary.TemporaryPassword)
}

func TestBeneficiarySetStatusSendsJSON(t *testing.T) {
	var gotType string
	var gotBody map[string]string
	mux := http.NewServeMux()
	mux.HandleFunc("/admin/beneficiaries/42/update/", func(w http.ResponseWriter, r *http.Request) {
		gotType = r.Header.Get("Content-Type")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		writeJSON(w, http.StatusOK, `{"success":true}`)
	})
	backend := newTestBackend(t, mux)
	ctx := context.Background()

	err := backend.Beneficiaries.SetStatus(ctx, signedIn("admin-token"), 42, "archived")
	assert.EqualError(t, err, "Sponsorship status must be one of: active, pending, suspended, completed")

	require.NoError(t, backend.Beneficiaries.SetStatus(ctx, signedIn("admin-token"), 42, models.SponsorshipSuspended))
	assert.Equal(t, "application/json", gotType)
	assert.Equal(t, map[string]string{"sponsorship_status": "suspended"}, gotBody)
}

func TestEducationLevelsAreCached(t *testing.T) {
	var calls int32
	mux := http.NewServeMux()
	mux.HandleFunc("/admin/education-levels/", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		writeJSON(w, http.StatusOK, `{"success":true,"education_levels":[
			{"id":1,"key":"primary","title":"Primary","grades":[{"id":11,"name":"Grade 1","short_code":"G1"}]},
			{"id":2,"key":"secondary","title":"Secondary","grades":[{"id":21,"name":"Form 1","short_code":"F1"},{"id":22,"name":"Form 2","short_code":"F2"}]}]}`)
	})
	backend := newTestBackend(t, mux)
	sess := signedIn("admin-token")
	ctx := context.Background()

	levels, err := backend.Education.Levels(ctx, sess)
	require.NoError(t, err)
	require.Len(t, levels, 2)

	grades, err := backend.Education.GradesFor(ctx, sess, 2)
	require.NoError(t, err)
	assert.Len(t, grades, 2)

	none, err := backend.Education.GradesFor(ctx, sess, 7)
	require.NoError(t, err)
	assert.Empty(t, none)
	assert.EqualValues(t, 1, atomic.LoadInt32(&calls))

	backend.Education.InvalidateLookups()
	_, err = backend.Education.Levels(ctx, sess)
	require.NoError(t, err)
	assert.EqualValues(t, 2, atomic.LoadInt32(&calls))
}

func TestEducationLevelsReturnsCopies(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/admin/education-levels/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"success":true,"education_levels":[
			{"id":2,"key":"secondary","title":"Secondary","grades":[{"id":21,"name":"Form 1","short_code":"F1"}]}]}`)
	})
	backend := newTestBackend(t, mux)
	sess := signedIn("admin-token")
	ctx := context.Background()

	levels, err := backend.Education.Levels(ctx, sess)
	require.NoError(t, err)
	levels[0].Title = "Changed"
	levels[0].Grades[0].Name = "Changed"

	again, err := backend.Education.Levels(ctx, sess)
	require.NoError(t, err)
	assert.Equal(t, "Secondary", again[0].Title)
	assert.Equal(t, "Form 1", again[0].Grades[0].Name)

	again[0].Grades[0].Name = "Changed again"
	grades, err := backend.Education.GradesFor(ctx, sess, 2)
	require.NoError(t, err)
	assert.Equal(t, "Form 1", grades[0].Name)
}

func TestAllGradeStudentsWalksPages(t *testing.T) {
	const total = 120
	var pagesServed atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("/admin/grades/21/students/", func(w http.ResponseWriter, r *http.Request) {
		pagesServed.Add(1)
		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		assert.Equal(t, "otieno", r.URL.Query().Get("search"))

		var rows []string
		for id := (page-1)*limit + 1; id <= min(page*limit, total); id++ {
			rows = append(rows, fmt.Sprintf(`{"id":%d,"full_name":"Student %d"}`, id, id))
		}
		writeJSON(w, http.StatusOK, fmt.Sprintf(`{"success":true,"grade":{"id":21,"name":"Form 1"},
			"students":[%s],
			"pagination":{"current_page":%d,"total_pages":%d,"total_count":%d}}`,
			strings.Join(rows, ","), page, TotalPages(total, limit), total))
	})
	backend := newTestBackend(t, mux)

	resp, err := backend.Education.AllGradeStudents(context.Background(), signedIn("admin-token"), 21, "otieno")
	require.NoError(t, err)
	require.Len(t, resp.Students, total)
	assert.Equal(t, "Student 120", resp.Students[total-1].FullName)
	assert.Equal(t, "Form 1", resp.Grade.Name)
	assert.EqualValues(t, 3, pagesServed.Load())
}

func TestLoginRequiresAdminRights(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/login/", func(w http.ResponseWriter, r *http.Request) {
		var creds Credentials
		_ = json.NewDecoder(r.Body).Decode(&creds)
		if creds.Password != "Secret123" {
			writeJSON(w, http.StatusUnauthorized, `{"success":false,"error":"Invalid email or password"}`)
			return
		}
		writeJSON(w, http.StatusOK, `{"success":true,"token":"jwt-1","user":{"id":42,"email":"jane@example.com","role":"beneficiary","is_admin":false}}`)
	})
	backend := newTestBackend(t, mux)
	ctx := context.Background()

	_, err := backend.Auth.Login(ctx, Credentials{Email: "", Password: ""}, false)
	assert.EqualError(t, err, "Please fill in: email, password")

	_, err = backend.Auth.Login(ctx, Credentials{Email: "jane@example.com", Password: "nope"}, false)
	assert.EqualError(t, err, "Invalid email or password")

	_, err = backend.Auth.Login(ctx, Credentials{Email: " Jane@Example.com ", Password: "Secret123"}, true)
	assert.ErrorIs(t, err, ErrAdminRequired)

	resp, err := backend.Auth.Login(ctx, Credentials{Email: "jane@example.com", Password: "Secret123"}, false)
	require.NoError(t, err)
	assert.Equal(t, "jwt-1", resp.Token)
	assert.Equal(t, models.RoleBeneficiary, resp.User.Role)
}

func TestChangePasswordRotatesToken(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/change-password/", func(w http.ResponseWriter, r *http.Request) {
		var change PasswordChange
		_ = json.NewDecoder(r.Body).Decode(&change)
		if change.CurrentPassword != "OldPass123" {
			writeJSON(w, http.StatusUnauthorized, `{"success":false,"error":"Current password is incorrect"}`)
			return
		}
		writeJSON(w, http.StatusOK, `{"success":true,"token":"rotated","message":"Password updated successfully"}`)
	})
	backend := newTestBackend(t, mux)
	ctx := context.Background()
	sess := beneficiarySession()

	var refreshed string
	sess.OnRefresh(func(token string) error {
		refreshed = token
		return nil
	})

	err := backend.Auth.ChangePassword(ctx, sess, PasswordChange{CurrentPassword: "wrong", NewPassword: "NewPass123", ConfirmPassword: "NewPass123"})
	assert.EqualError(t, err, "Current password is incorrect")
	assert.True(t, sess.Authenticated())

	err = backend.Auth.ChangePassword(ctx, sess, PasswordChange{CurrentPassword: "OldPass123", NewPassword: "NewPass123", ConfirmPassword: "NewPass1234"})
	assert.EqualError(t, err, "New passwords do not match")

	require.NoError(t, backend.Auth.ChangePassword(ctx, sess, PasswordChange{CurrentPassword: "OldPass123", NewPassword: "NewPass123", ConfirmPassword: "NewPass123"}))
	assert.Equal(t, "rotated", sess.Token())
	assert.Equal(t, "rotated", refreshed)
}

func TestLogoutSignsOutEvenWhenBackendFails(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/logout/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	backend := newTestBackend(t, mux)
	sess := beneficiarySession()

	err := backend.Auth.Logout(context.Background(), sess)
	assert.Error(t, err)
	assert.False(t, sess.Authenticated())
}

func TestAdminSendMessageValidation(t *testing.T) {
	var got models.Compose
	mux := http.NewServeMux()
	mux.HandleFunc("/admin/messages/send/", func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &got)
		writeJSON(w, http.StatusOK, `{"success":true,"message":"Message sent successfully","message_id":77}`)
	})
	backend := newTestBackend(t, mux)
	ctx := context.Background()
	sess := signedIn("admin-token")

	_, err := backend.Communication.Send(ctx, sess, models.Compose{Subject: "Fees"})
	assert.EqualError(t, err, "Please fill in: recipient, message")

	resp, err := backend.Communication.Send(ctx, sess, models.Compose{RecipientID: 42, Subject: "Fees", Content: "<b>Paid</b><script>x</script>"})
	require.NoError(t, err)
	assert.Equal(t, 77, resp.MessageID)
	assert.Equal(t, "<b>Paid</b>", got.Content)
}

func TestDocumentReviewRejectsUnknownStatus(t *testing.T) {
	backend := newTestBackend(t, http.NewServeMux())

	err := backend.Documents.Review(context.Background(), signedIn("admin-token"), 5, models.DocumentReview{Status: "maybe"})
	assert.EqualError(t, err, "Status must be one of: approved, rejected, requires_action")
}

func TestStatementYearsFollowRole(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/admin/fee-statements/years/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"success":true,"years":[2024,2023,2022]}`)
	})
	mux.HandleFunc("/statements/years/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"success":true,"years":[2024]}`)
	})
	backend := newTestBackend(t, mux)
	ctx := context.Background()

	years, err := backend.Statements.Years(ctx, signedIn("admin-token"))
	require.NoError(t, err)
	assert.Equal(t, []int{2024, 2023, 2022}, years)

	years, err = backend.Statements.Years(ctx, beneficiarySession())
	require.NoError(t, err)
	assert.Equal(t, []int{2024}, years)
}

func TestUpdateProfileValidatesSetFields(t *testing.T) {
	var got map[string]any
	mux := http.NewServeMux()
	mux.HandleFunc("/update_profile/", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&got)
		writeJSON(w, http.StatusOK, `{"success":true}`)
	})
	backend := newTestBackend(t, mux)
	ctx := context.Background()
	sess := beneficiarySession()

	bad := "not-a-phone"
	err := backend.Portal.UpdateProfile(ctx, sess, models.ProfileUpdate{PhoneNumber: &bad})
	assert.EqualError(t, err, "Phone number must be a valid phone number")

	county := "  Nairobi "
	require.NoError(t, backend.Portal.UpdateProfile(ctx, sess, models.ProfileUpdate{County: &county}))
	assert.Equal(t, map[string]any{"county": "Nairobi"}, got)
}

package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpdateProfileHandler(t *testing.T) {
	env := newTestEnv(t)
	var sent map[string]any
	env.backend.handle("/update_profile/", func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(raw, &sent))
		writeJSON(w, http.StatusOK, `{"success":true}`)
	})
	cookie := env.signIn(t, testBeneficiary())

	t.Run("Only present fields are sent", func(t *testing.T) {
		rec := env.do(jsonRequest(t, http.MethodPut, "/portal/profile", map[string]any{
			"phone_number": " +254 712 345678 ",
			"county":       "Kisumu",
		}), cookie)

		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Equal(t, map[string]any{"phone_number": "+254 712 345678", "county": "Kisumu"}, sent)
	})

	t.Run("Bad phone", func(t *testing.T) {
		rec := env.do(jsonRequest(t, http.MethodPut, "/portal/profile", map[string]any{"phone_number": "call me"}), cookie)
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})

	t.Run("Full name cannot be cleared", func(t *testing.T) {
		rec := env.do(jsonRequest(t, http.MethodPut, "/portal/profile", map[string]any{"full_name": "  "}), cookie)
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})
}

func TestDocumentsHandler(t *testing.T) {
	env := newTestEnv(t)
	env.backend.handle("/documents/", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "approved", r.URL.Query().Get("status"))
		writeJSON(w, http.StatusOK, `{"documents":[],"pagination":{"current_page":1,"total_pages":0,"total_count":0}}`)
	})
	cookie := env.signIn(t, testBeneficiary())

	rec := env.do(jsonRequest(t, http.MethodGet, "/portal/documents?status=approved", nil), cookie)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decodeBody(t, rec)
	assert.Equal(t, true, body["empty"])
	assert.Equal(t, noDocuments, body["empty_message"])
}

func TestDocumentsPaginationFragment(t *testing.T) {
	env := newTestEnv(t)
	env.backend.handle("/documents/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"documents":[],"pagination":{"current_page":1,"total_pages":0,"total_count":0}}`)
	})
	cookie := env.signIn(t, testBeneficiary())

	req := jsonRequest(t, http.MethodGet, "/portal/documents?fragment=pagination", nil)
	req.Header.Set("HX-Request", "true")
	rec := env.do(req, cookie)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, rec.Body.String(), noDocuments)
}

func TestPortalDocumentsNeedBeneficiary(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(jsonRequest(t, http.MethodGet, "/portal/documents", nil), env.signIn(t, testAdmin()))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

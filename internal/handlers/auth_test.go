package handlers

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emilythestrangee/book-review/backend/internal/cache"
	"github.com/emilythestrangee/book-review/backend/internal/models"
)

func TestSignup_CreatesUserWithoutLeakingPassword(t *testing.T) {
	r := newTestRouter(cache.NewMemory(0), 0)

	email := fmt.Sprintf("ada-%d@example.com", emailSeq.Add(1))
	body := fmt.Sprintf(`{"name":"Ada","email":%q,"phone":"+15550101","password":"hunter22"}`, email)

	w := doJSON(r, http.MethodPost, "/signup", body)
	requireStatus(t, w, http.StatusCreated)
	assert.NotContains(t, w.Body.String(), "hunter22")
	assert.NotContains(t, w.Body.String(), `"password"`)

	var user models.User
	require.NoError(t, testDB.Where("email = ?", email).First(&user).Error)
	assert.NotEqual(t, "hunter22", user.Password) // stored hashed
}

func TestSignup_DuplicateEmailIsBadRequest(t *testing.T) {
	r := newTestRouter(cache.NewMemory(0), 0)

	email := fmt.Sprintf("dup-%d@example.com", emailSeq.Add(1))
	body := fmt.Sprintf(`{"name":"Ada","email":%q,"password":"hunter22"}`, email)

	requireStatus(t, doJSON(r, http.MethodPost, "/signup", body), http.StatusCreated)
	requireStatus(t, doJSON(r, http.MethodPost, "/signup", body), http.StatusBadRequest)
}

func TestLogin_RoundTrip(t *testing.T) {
	r := newTestRouter(cache.NewMemory(0), 0)

	email := fmt.Sprintf("grace-%d@example.com", emailSeq.Add(1))
	signup := fmt.Sprintf(`{"name":"Grace","email":%q,"password":"correct-horse"}`, email)
	requireStatus(t, doJSON(r, http.MethodPost, "/signup", signup), http.StatusCreated)

	w := doJSON(r, http.MethodPost, "/login", fmt.Sprintf(`{"email":%q,"password":"correct-horse"}`, email))
	requireStatus(t, w, http.StatusOK)
	body := decodeBody(t, w)
	assert.NotEmpty(t, body["token"])

	w = doJSON(r, http.MethodPost, "/login", fmt.Sprintf(`{"email":%q,"password":"wrong"}`, email))
	requireStatus(t, w, http.StatusUnauthorized)
}

func TestChangePassword_RequiresCurrentPassword(t *testing.T) {
	public := newTestRouter(cache.NewMemory(0), 0)

	email := fmt.Sprintf("lin-%d@example.com", emailSeq.Add(1))
	signup := fmt.Sprintf(`{"name":"Lin","email":%q,"password":"original-pass"}`, email)
	requireStatus(t, doJSON(public, http.MethodPost, "/signup", signup), http.StatusCreated)

	var user models.User
	require.NoError(t, testDB.Where("email = ?", email).First(&user).Error)

	r := newTestRouter(cache.NewMemory(0), user.ID)

	w := doJSON(r, http.MethodPost, "/change-password", `{"old_password":"nope","new_password":"brand-new-pass"}`)
	requireStatus(t, w, http.StatusUnauthorized)

	w = doJSON(r, http.MethodPost, "/change-password", `{"old_password":"original-pass","new_password":"brand-new-pass"}`)
	requireStatus(t, w, http.StatusOK)

	w = doJSON(public, http.MethodPost, "/login", fmt.Sprintf(`{"email":%q,"password":"brand-new-pass"}`, email))
	requireStatus(t, w, http.StatusOK)
}

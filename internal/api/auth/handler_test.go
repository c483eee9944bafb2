package auth_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/abenfraj/menufique-sub001/internal/domain/users"
	"github.com/abenfraj/menufique-sub001/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func postJSON(t *testing.T, router http.Handler, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRegister(t *testing.T) {
	db := testutil.OpenTestDB(t)
	mailer := &testutil.RecordingMailer{}
	router := testutil.NewServer(t, db, mailer)

	w := postJSON(t, router, "/api/auth/register", map[string]string{
		"email":    "anna@example.com",
		"password": "sup3rsecret",
		"name":     "Anna",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var user users.User
	require.NoError(t, db.Where("email = ?", "anna@example.com").First(&user).Error)
	assert.Equal(t, users.PlanFree, user.Plan)
	require.NotNil(t, user.Password)
	assert.NotEqual(t, "sup3rsecret", *user.Password)

	// welcome email is fire-and-forget
	require.Eventually(t, func() bool { return mailer.Count() == 1 }, time.Second, 10*time.Millisecond)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	db := testutil.OpenTestDB(t)
	router := testutil.NewServer(t, db, &testutil.RecordingMailer{})

	body := map[string]string{"email": "dup@example.com", "password": "sup3rsecret"}
	w := postJSON(t, router, "/api/auth/register", body)
	require.Equal(t, http.StatusCreated, w.Code)

	w = postJSON(t, router, "/api/auth/register", body)
	assert.Equal(t, http.StatusConflict, w.Code)

	var count int64
	require.NoError(t, db.Model(&users.User{}).Where("email = ?", "dup@example.com").Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestRegisterDatabaseOutage(t *testing.T) {
	db := testutil.OpenTestDB(t)
	router := testutil.NewServer(t, db, &testutil.RecordingMailer{})

	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	// a dead database must not read as "email already registered"
	w := postJSON(t, router, "/api/auth/register", map[string]string{
		"email":    "anna@example.com",
		"password": "sup3rsecret",
	})
	assert.Equal(t, http.StatusInternalServerError, w.Code, w.Body.String())
}

func TestRegisterWeakPassword(t *testing.T) {
	db := testutil.OpenTestDB(t)
	router := testutil.NewServer(t, db, &testutil.RecordingMailer{})

	for _, password := range []string{"short1", "allletters", "12345678"} {
		w := postJSON(t, router, "/api/auth/register", map[string]string{
			"email":    "weak@example.com",
			"password": password,
		})
		assert.Equal(t, http.StatusBadRequest, w.Code, "password %q", password)
	}
}

func TestLoginRoundTrip(t *testing.T) {
	db := testutil.OpenTestDB(t)
	router := testutil.NewServer(t, db, &testutil.RecordingMailer{})

	w := postJSON(t, router, "/api/auth/register", map[string]string{
		"email":    "bob@example.com",
		"password": "sup3rsecret",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = postJSON(t, router, "/api/auth/login", map[string]string{
		"email":    "bob@example.com",
		"password": "sup3rsecret",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var envelope struct {
		Data struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.NotEmpty(t, envelope.Data.Token)

	// the token opens authenticated routes
	req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
	req.Header.Set("Authorization", "Bearer "+envelope.Data.Token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestLoginWrongPassword(t *testing.T) {
	db := testutil.OpenTestDB(t)
	router := testutil.NewServer(t, db, &testutil.RecordingMailer{})

	postJSON(t, router, "/api/auth/register", map[string]string{
		"email":    "bob@example.com",
		"password": "sup3rsecret",
	})

	w := postJSON(t, router, "/api/auth/login", map[string]string{
		"email":    "bob@example.com",
		"password": "wr0ngpassword",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestForgotPasswordDoesNotRevealAccounts(t *testing.T) {
	db := testutil.OpenTestDB(t)
	router := testutil.NewServer(t, db, &testutil.RecordingMailer{})

	postJSON(t, router, "/api/auth/register", map[string]string{
		"email":    "real@example.com",
		"password": "sup3rsecret",
	})

	known := postJSON(t, router, "/api/auth/forgot-password", map[string]string{"email": "real@example.com"})
	unknown := postJSON(t, router, "/api/auth/forgot-password", map[string]string{"email": "ghost@example.com"})

	assert.Equal(t, known.Code, unknown.Code)
	assert.Equal(t, known.Body.String(), unknown.Body.String())
}

func TestForgotPasswordKeepsOneLiveToken(t *testing.T) {
	db := testutil.OpenTestDB(t)
	router := testutil.NewServer(t, db, &testutil.RecordingMailer{})

	postJSON(t, router, "/api/auth/register", map[string]string{
		"email":    "real@example.com",
		"password": "sup3rsecret",
	})

	for i := 0; i < 3; i++ {
		w := postJSON(t, router, "/api/auth/forgot-password", map[string]string{"email": "real@example.com"})
		require.Equal(t, http.StatusOK, w.Code)
	}

	var count int64
	require.NoError(t, db.Model(&users.PasswordResetToken{}).
		Where("email = ?", "real@example.com").
		Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestResetPasswordConsumesToken(t *testing.T) {
	db := testutil.OpenTestDB(t)
	router := testutil.NewServer(t, db, &testutil.RecordingMailer{})

	postJSON(t, router, "/api/auth/register", map[string]string{
		"email":    "real@example.com",
		"password": "sup3rsecret",
	})
	postJSON(t, router, "/api/auth/forgot-password", map[string]string{"email": "real@example.com"})

	var reset users.PasswordResetToken
	require.NoError(t, db.Where("email = ?", "real@example.com").First(&reset).Error)

	w := postJSON(t, router, "/api/auth/reset-password", map[string]string{
		"token":        reset.Token,
		"new_password": "n3wpassword",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// old password no longer works, new one does
	w = postJSON(t, router, "/api/auth/login", map[string]string{
		"email":    "real@example.com",
		"password": "sup3rsecret",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = postJSON(t, router, "/api/auth/login", map[string]string{
		"email":    "real@example.com",
		"password": "n3wpassword",
	})
	assert.Equal(t, http.StatusOK, w.Code)

	// token is single-use
	w = postJSON(t, router, "/api/auth/reset-password", map[string]string{
		"token":        reset.Token,
		"new_password": "an0therpass",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestExpiredResetToken(t *testing.T) {
	db := testutil.OpenTestDB(t)
	router := testutil.NewServer(t, db, &testutil.RecordingMailer{})

	reset := users.PasswordResetToken{
		Email:     "real@example.com",
		Token:     "expiredtoken",
		ExpiresAt: time.Now().Add(-time.Minute),
	}
	require.NoError(t, db.Create(&reset).Error)

	w := postJSON(t, router, "/api/auth/reset-password", map[string]string{
		"token":        "expiredtoken",
		"new_password": "n3wpassword",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

package integration_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/require"
)

var keysToIgnore = map[string]struct{}{
	"timestamp": {},
	"requestId": {},
	"createdAt": {},
}

func prepareRequest(method, path string, body io.Reader, headers map[string]string, cookies []*http.Cookie) (*http.Request, error) {
	req := httptest.NewRequest(method, path, body)

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}

	return req, nil
}

func compareResponse(t testing.TB, body io.Reader, expectedResponse string) {
	var actual map[string]any
	require.NoError(t, json.NewDecoder(body).Decode(&actual))

	cleanMap(actual)

	var expected map[string]any
	require.NoError(t, json.Unmarshal([]byte(expectedResponse), &expected))

	// ignore indetermistic fields while comparing
	opts := cmpopts.IgnoreMapEntries(func(k string, _ any) bool {
		_, ok := keysToIgnore[k]
		return ok
	})

	if diff := cmp.Diff(expected, actual, opts); diff != "" {
		t.Errorf("response mismatch (-want +got):\n%s", diff)
	}
}

func cleanMap(m map[string]any) {
	for k := range m {
		if _, ok := keysToIgnore[k]; ok {
			delete(m, k)
			continue
		}
		if nested, ok := m[k].(map[string]any); ok {
			cleanMap(nested)
		}
	}
}

// authenticatedUserCookies registers the default test user when needed
// and returns the session cookies of a fresh login.
func (app *TestApp) authenticatedUserCookies(t testing.TB) []*http.Cookie {
	return app.loginCookies(t, TestUserEmail)
}

func (app *TestApp) loginCookies(t testing.TB, email string) []*http.Cookie {
	registerBody := fmt.Sprintf(
		`{"firstName": %q, "lastName": %q, "email": %q, "password": %q}`,
		TestUserFirstName, TestUserLastName, email, TestUserPassword,
	)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/users", strings.NewReader(registerBody))
	req.Header.Set("Content-Type", "application/json")
	app.App.Routes().ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated && rec.Code != http.StatusBadRequest {
		t.Fatalf("unexpected registration status: %d", rec.Code)
	}

	loginBody := fmt.Sprintf(`{"email": %q, "password": %q}`, email, TestUserPassword)

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(loginBody))
	req.Header.Set("Content-Type", "application/json")
	app.App.Routes().ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("unexpected login status: %d", rec.Code)
	}

	cookies := rec.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatal("no session cookie returned by login")
	}

	return cookies
}

func newRecorderFor(app *TestApp, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	app.App.Routes().ServeHTTP(rec, req)

	return rec
}

// resetState wipes every mutable store between tests. The movie catalog
// is read-only and needs no cleanup.
func resetState(t testing.TB, app *TestApp) {
	ctx := context.Background()

	_, err := app.DB.Exec(ctx, "TRUNCATE users, bookings, booking_seats RESTART IDENTITY CASCADE")
	require.NoError(t, err)

	require.NoError(t, app.RedisClient.FlushAll(ctx).Err())

	app.Mailer.Reset()
}

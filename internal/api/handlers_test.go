package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CodeAfu/apu-code-collab-api/internal/auth"
	"github.com/CodeAfu/apu-code-collab-api/internal/config"
	"github.com/CodeAfu/apu-code-collab-api/internal/github"
	"github.com/CodeAfu/apu-code-collab-api/internal/storage"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// noopLogger returns a slog.Logger that discards all output — keeps test
// output clean.
func noopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// --- test doubles ---

type fakeAuth struct {
	pair    *auth.TokenPair
	loginErr,
	refreshErr error
	user      *storage.User
	userErr   error
	revoked   []string
	revokeErr error
}

func (f *fakeAuth) Login(_ context.Context, _, _ string) (*auth.TokenPair, error) {
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	return f.pair, nil
}

func (f *fakeAuth) Refresh(_ context.Context, _ string) (*auth.TokenPair, error) {
	if f.refreshErr != nil {
		return nil, f.refreshErr
	}
	return f.pair, nil
}

func (f *fakeAuth) Revoke(_ context.Context, token string) error {
	f.revoked = append(f.revoked, token)
	return f.revokeErr
}

func (f *fakeAuth) IssuePair(_ context.Context, _ *storage.User) (*auth.TokenPair, error) {
	return f.pair, nil
}

func (f *fakeAuth) CurrentUser(_ context.Context, _ string) (*storage.User, error) {
	if f.userErr != nil {
		return nil, f.userErr
	}
	return f.user, nil
}

type fakeUsers struct {
	users   map[string]*storage.User
	byEmail map[string]*storage.User
	exists  bool
	created *storage.User
	linked  bool
}

func (f *fakeUsers) List(_ context.Context) ([]storage.User, error) {
	var out []storage.User
	for _, u := range f.users {
		out = append(out, *u)
	}
	return out, nil
}

func (f *fakeUsers) GetByID(_ context.Context, id string) (*storage.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return u, nil
}

func (f *fakeUsers) GetByEmail(_ context.Context, email string) (*storage.User, error) {
	u, ok := f.byEmail[email]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return u, nil
}

func (f *fakeUsers) Exists(_ context.Context, _, _ string) (bool, error) {
	return f.exists, nil
}

func (f *fakeUsers) Create(_ context.Context, u *storage.User) (*storage.User, error) {
	u.ID = "user-1"
	f.created = u
	return u, nil
}

func (f *fakeUsers) Delete(_ context.Context, id string) error {
	if _, ok := f.users[id]; !ok {
		return storage.ErrNotFound
	}
	delete(f.users, id)
	return nil
}

func (f *fakeUsers) LinkGitHub(_ context.Context, _ string, _ int64, _, _, _ string) error {
	f.linked = true
	return nil
}

func (f *fakeUsers) UnlinkGitHub(_ context.Context, _ string) error {
	f.linked = false
	return nil
}

type fakeCatalog struct {
	languages []storage.ProgrammingLanguage
	inserted  bool
}

func (f *fakeCatalog) ListLanguages(_ context.Context) ([]storage.ProgrammingLanguage, error) {
	return f.languages, nil
}

func (f *fakeCatalog) GetLanguage(_ context.Context, id string) (*storage.ProgrammingLanguage, error) {
	for i := range f.languages {
		if f.languages[i].ID == id {
			return &f.languages[i], nil
		}
	}
	return nil, storage.ErrNotFound
}

func (f *fakeCatalog) CreateLanguage(_ context.Context, name string, _ *string) (bool, error) {
	f.inserted = true
	f.languages = append(f.languages, storage.ProgrammingLanguage{ID: "lang-new", Name: name})
	return true, nil
}

func (f *fakeCatalog) UpdateLanguage(_ context.Context, _, _ string) error { return nil }
func (f *fakeCatalog) DeleteLanguage(_ context.Context, _ string) error   { return nil }

func (f *fakeCatalog) ListFrameworks(_ context.Context) ([]storage.Framework, error) {
	return nil, nil
}

func (f *fakeCatalog) GetFramework(_ context.Context, _ string) (*storage.Framework, error) {
	return nil, storage.ErrNotFound
}

func (f *fakeCatalog) CreateFramework(_ context.Context, _ string, _ *string) (bool, error) {
	return true, nil
}

func (f *fakeCatalog) UpdateFramework(_ context.Context, _, _ string) error { return nil }
func (f *fakeCatalog) DeleteFramework(_ context.Context, _ string) error    { return nil }

func (f *fakeCatalog) ListCourses(_ context.Context) ([]storage.UniversityCourse, error) {
	return []storage.UniversityCourse{{ID: "c1", Name: "BSc (Hons) in Software Engineering"}}, nil
}

type fakeRepos struct {
	repos map[string][]storage.GithubRepository
}

func (f *fakeRepos) ListByUser(_ context.Context, userID string) ([]storage.GithubRepository, error) {
	return f.repos[userID], nil
}

func (f *fakeRepos) Upsert(_ context.Context, r *storage.GithubRepository) error {
	for i, existing := range f.repos[r.UserID] {
		if existing.Name == r.Name {
			f.repos[r.UserID][i] = *r
			return nil
		}
	}
	f.repos[r.UserID] = append(f.repos[r.UserID], *r)
	return nil
}

func (f *fakeRepos) Delete(_ context.Context, userID, repoID string) error {
	for i, existing := range f.repos[userID] {
		if existing.ID == repoID {
			f.repos[userID] = append(f.repos[userID][:i], f.repos[userID][i+1:]...)
			return nil
		}
	}
	return storage.ErrNotFound
}

type fakeGitHub struct {
	profile     *github.Profile
	exchangeErr error
}

func (f *fakeGitHub) AuthorizeURL(state string) string {
	return "https://github.com/login/oauth/authorize?state=" + state
}

func (f *fakeGitHub) ExchangeCode(_ context.Context, _ string) (string, error) {
	if f.exchangeErr != nil {
		return "", f.exchangeErr
	}
	return "gho_test", nil
}

func (f *fakeGitHub) FetchUser(_ context.Context, _ string) (*github.Profile, error) {
	return f.profile, nil
}

type fakeProber struct {
	result storage.ProbeResult
}

func (f *fakeProber) Probe(_ context.Context) storage.ProbeResult {
	return f.result
}

type fakeReadiness struct {
	ready bool
}

func (f *fakeReadiness) Ready() bool { return f.ready }

// --- harness ---

func testConfig(env string) *config.Config {
	cfg := &config.Config{Environment: env}
	cfg.Auth.AccessTTL = 15 * time.Minute
	cfg.Auth.RefreshTTL = 7 * 24 * time.Hour
	cfg.GitHub.FrontendURL = "https://app.example.com"
	cfg.Telemetry.ServiceName = "codecollab-api-test"
	return cfg
}

func testDeps() Deps {
	student := &storage.User{ID: "user-1", APUID: "TP012345", Email: "tp012345@mail.apu.edu.my", Role: storage.RoleStudent, IsActive: true}
	return Deps{
		Config: testConfig("development"),
		Auth: &fakeAuth{
			pair: &auth.TokenPair{AccessToken: "access", RefreshToken: "refresh", TokenType: "Bearer"},
			user: student,
		},
		Users:   &fakeUsers{users: map[string]*storage.User{"user-1": student}},
		Catalog: &fakeCatalog{languages: []storage.ProgrammingLanguage{{ID: "lang-1", Name: "Go"}}},
		Repos:   &fakeRepos{repos: map[string][]storage.GithubRepository{}},
		GitHub:  &fakeGitHub{profile: &github.Profile{ID: 42, Login: "octocat", Email: "tp012345@mail.apu.edu.my"}},
		Probers: []Prober{&fakeProber{result: storage.ProbeResult{Name: "postgres", OK: true}}},
		Boot:    &fakeReadiness{ready: true},
		Logger:  noopLogger(),
	}
}

func do(t *testing.T, router *Router, method, path, body string, header http.Header) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	w := httptest.NewRecorder()
	router.Handler().ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	return body
}

func authHeader() http.Header {
	return http.Header{"Authorization": {"Bearer access"}}
}

// --- health endpoints ---

func TestRoot(t *testing.T) {
	t.Parallel()

	w := do(t, NewRouter(testDeps()), http.MethodGet, "/", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "API is running", decode(t, w)["message"])
}

func TestHealth_AlwaysReturns200(t *testing.T) {
	t.Parallel()

	w := do(t, NewRouter(testDeps()), http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "healthy", decode(t, w)["status"])
}

func TestDeepHealth_UnhealthyDependency(t *testing.T) {
	t.Parallel()

	deps := testDeps()
	deps.Probers = []Prober{
		&fakeProber{result: storage.ProbeResult{Name: "postgres", OK: true}},
		&fakeProber{result: storage.ProbeResult{Name: "redis", OK: false, Error: "connection refused"}},
	}

	w := do(t, NewRouter(deps), http.MethodGet, "/health/deep", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "unhealthy", decode(t, w)["status"])
}

func TestReady_GatedOnBootPipeline(t *testing.T) {
	t.Parallel()

	deps := testDeps()
	deps.Boot = &fakeReadiness{ready: false}
	w := do(t, NewRouter(deps), http.MethodGet, "/ready", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	deps.Boot = &fakeReadiness{ready: true}
	w = do(t, NewRouter(deps), http.MethodGet, "/ready", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

// --- auth endpoints ---

func TestRegister_CreatesStudent(t *testing.T) {
	t.Parallel()

	deps := testDeps()
	users := &fakeUsers{}
	deps.Users = users

	w := do(t, NewRouter(deps), http.MethodPost, "/api/v1/auth/register",
		`{"apu_id":"TP654321","password":"Str0ng!pass","email":"tp654321@mail.apu.edu.my"}`, nil)

	assert.Equal(t, http.StatusCreated, w.Code)
	require.NotNil(t, users.created)
	assert.Equal(t, storage.RoleStudent, users.created.Role)
	assert.NotEqual(t, "Str0ng!pass", users.created.PasswordHash)

	body := decode(t, w)
	assert.Equal(t, "TP654321", body["apu_id"])
	assert.NotContains(t, body, "password_hash")
}

func TestRegister_RejectsMalformedAPUID(t *testing.T) {
	t.Parallel()

	w := do(t, NewRouter(testDeps()), http.MethodPost, "/api/v1/auth/register",
		`{"apu_id":"XX123456","password":"Str0ng!pass","email":"x@mail.apu.edu.my"}`, nil)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	body := decode(t, w)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "VALIDATION_FAILED", body["error"])
}

func TestRegister_DuplicateAccount(t *testing.T) {
	t.Parallel()

	deps := testDeps()
	deps.Users = &fakeUsers{exists: true}

	w := do(t, NewRouter(deps), http.MethodPost, "/api/v1/auth/register",
		`{"apu_id":"TP654321","password":"Str0ng!pass","email":"taken@mail.apu.edu.my"}`, nil)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "EMAIL_TAKEN", decode(t, w)["error"])
}

func TestLogin_SetsRefreshCookie(t *testing.T) {
	t.Parallel()

	w := do(t, NewRouter(testDeps()), http.MethodPost, "/api/v1/auth/token",
		`{"username":"TP012345","password":"Str0ng!pass"}`, nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "access", decode(t, w)["access_token"])

	var refreshCookie *http.Cookie
	for _, ck := range w.Result().Cookies() {
		if ck.Name == refreshCookieName {
			refreshCookie = ck
		}
	}
	require.NotNil(t, refreshCookie, "refresh cookie must be set")
	assert.Equal(t, "refresh", refreshCookie.Value)
	assert.True(t, refreshCookie.HttpOnly)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	t.Parallel()

	deps := testDeps()
	deps.Auth = &fakeAuth{loginErr: auth.ErrInvalidCredentials}

	w := do(t, NewRouter(deps), http.MethodPost, "/api/v1/auth/token",
		`{"username":"TP012345","password":"wrong"}`, nil)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "AUTHENTICATION_FAILED", decode(t, w)["error"])
}

func TestRefresh_MissingCookie(t *testing.T) {
	t.Parallel()

	w := do(t, NewRouter(testDeps()), http.MethodPost, "/api/v1/auth/refresh", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "REFRESH_TOKEN_MISSING", decode(t, w)["error"])
}

func TestRefresh_WithCookie(t *testing.T) {
	t.Parallel()

	header := http.Header{"Cookie": {refreshCookieName + "=refresh"}}
	w := do(t, NewRouter(testDeps()), http.MethodPost, "/api/v1/auth/refresh", "", header)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "access", decode(t, w)["access_token"])
}

func TestRefresh_RevokedToken(t *testing.T) {
	t.Parallel()

	deps := testDeps()
	deps.Auth = &fakeAuth{refreshErr: auth.ErrTokenRevoked}

	header := http.Header{"Cookie": {refreshCookieName + "=stale"}}
	w := do(t, NewRouter(deps), http.MethodPost, "/api/v1/auth/refresh", "", header)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "TOKEN_REVOKED", decode(t, w)["error"])
}

func TestLogout_RevokesAndClearsCookie(t *testing.T) {
	t.Parallel()

	deps := testDeps()
	fa := deps.Auth.(*fakeAuth)

	header := http.Header{"Cookie": {refreshCookieName + "=refresh"}}
	w := do(t, NewRouter(deps), http.MethodPost, "/api/v1/auth/logout", "", header)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"refresh"}, fa.revoked)

	var cleared bool
	for _, ck := range w.Result().Cookies() {
		if ck.Name == refreshCookieName && ck.MaxAge < 0 {
			cleared = true
		}
	}
	assert.True(t, cleared, "refresh cookie must be expired")
}

// Revocation is best-effort: a store failure is logged through the injected
// logger and the cookie is cleared anyway.
func TestLogout_ClearsCookieWhenRevokeFails(t *testing.T) {
	t.Parallel()

	deps := testDeps()
	deps.Auth.(*fakeAuth).revokeErr = errors.New("store down")

	header := http.Header{"Cookie": {refreshCookieName + "=refresh"}}
	w := do(t, NewRouter(deps), http.MethodPost, "/api/v1/auth/logout", "", header)

	assert.Equal(t, http.StatusOK, w.Code)

	var cleared bool
	for _, ck := range w.Result().Cookies() {
		if ck.Name == refreshCookieName && ck.MaxAge < 0 {
			cleared = true
		}
	}
	assert.True(t, cleared, "refresh cookie must be expired")
}

// --- users endpoints ---

func TestListUsers_DevelopmentOnly(t *testing.T) {
	t.Parallel()

	deps := testDeps()
	deps.Config = testConfig("production")

	w := do(t, NewRouter(deps), http.MethodGet, "/api/v1/users/", "", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "INVALID_PERMISSION", decode(t, w)["error"])

	deps.Config = testConfig("development")
	w = do(t, NewRouter(deps), http.MethodGet, "/api/v1/users/", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestGetUser_NotFound(t *testing.T) {
	t.Parallel()

	w := do(t, NewRouter(testDeps()), http.MethodGet, "/api/v1/users/ghost", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "NOT_FOUND", decode(t, w)["error"])
}

func TestCreateUser_DerivesRoleFromAPUID(t *testing.T) {
	t.Parallel()

	deps := testDeps()
	users := &fakeUsers{}
	deps.Users = users

	w := do(t, NewRouter(deps), http.MethodPost, "/api/v1/users",
		`{"apu_id":"TC000001","password":"Str0ng!pass","email":"tc000001@mail.apu.edu.my"}`, nil)

	assert.Equal(t, http.StatusCreated, w.Code)
	require.NotNil(t, users.created)
	assert.Equal(t, storage.RoleTeacher, users.created.Role)
}

// --- repository endpoints ---

func TestShareRepository_OwnerOnly(t *testing.T) {
	t.Parallel()

	deps := testDeps()
	body := `{"name":"code-collab","url":"https://github.com/octocat/code-collab","skills":["Go"]}`

	// The authenticated user is user-1; sharing on someone else's profile fails.
	w := do(t, NewRouter(deps), http.MethodPut, "/api/v1/users/user-2/repositories", body, authHeader())
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = do(t, NewRouter(deps), http.MethodPut, "/api/v1/users/user-1/repositories", body, authHeader())
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, deps.Repos.(*fakeRepos).repos["user-1"], 1)
}

func TestListRepositories_PublicAndEmpty(t *testing.T) {
	t.Parallel()

	w := do(t, NewRouter(testDeps()), http.MethodGet, "/api/v1/users/user-1/repositories", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "[]", strings.TrimSpace(w.Body.String()))
}

func TestDeleteRepository_NotFound(t *testing.T) {
	t.Parallel()

	w := do(t, NewRouter(testDeps()), http.MethodDelete, "/api/v1/users/user-1/repositories/ghost", "", authHeader())
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "NOT_FOUND", decode(t, w)["error"])
}

// --- catalog endpoints ---

func TestListLanguages_RequiresAuth(t *testing.T) {
	t.Parallel()

	w := do(t, NewRouter(testDeps()), http.MethodGet, "/api/v1/programming_languages/", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(t, NewRouter(testDeps()), http.MethodGet, "/api/v1/programming_languages/", "", authHeader())
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCreateLanguage_StudentForbidden(t *testing.T) {
	t.Parallel()

	w := do(t, NewRouter(testDeps()), http.MethodPost, "/api/v1/programming_languages",
		`{"name":"Zig"}`, authHeader())

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "INVALID_PERMISSION", decode(t, w)["error"])
}

func TestCreateLanguage_TeacherAllowed(t *testing.T) {
	t.Parallel()

	deps := testDeps()
	deps.Auth.(*fakeAuth).user = &storage.User{ID: "user-2", APUID: "TC000001", Role: storage.RoleTeacher, IsActive: true}

	w := do(t, NewRouter(deps), http.MethodPost, "/api/v1/programming_languages",
		`{"name":"Zig"}`, authHeader())

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.True(t, deps.Catalog.(*fakeCatalog).inserted)
}

func TestCountLanguages(t *testing.T) {
	t.Parallel()

	w := do(t, NewRouter(testDeps()), http.MethodGet, "/api/v1/programming_languages/count", "", authHeader())
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "1", strings.TrimSpace(w.Body.String()))
}

func TestListCourses(t *testing.T) {
	t.Parallel()

	w := do(t, NewRouter(testDeps()), http.MethodGet, "/api/v1/university_courses", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var courses []storage.UniversityCourse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&courses))
	require.Len(t, courses, 1)
	assert.Equal(t, "BSc (Hons) in Software Engineering", courses[0].Name)
}

// --- github endpoints ---

func TestGitHubLogin_RedirectsWithStateCookie(t *testing.T) {
	t.Parallel()

	w := do(t, NewRouter(testDeps()), http.MethodGet, "/api/v1/auth/github/login", "", nil)
	assert.Equal(t, http.StatusTemporaryRedirect, w.Code)

	loc := w.Header().Get("Location")
	assert.Contains(t, loc, "github.com/login/oauth/authorize")

	var state string
	for _, ck := range w.Result().Cookies() {
		if ck.Name == stateCookieName {
			state = ck.Value
		}
	}
	require.NotEmpty(t, state)
	assert.Contains(t, loc, state)
}

func TestGitHubCallback_LinksAccountAndRedirects(t *testing.T) {
	t.Parallel()

	deps := testDeps()
	student := &storage.User{ID: "user-1", APUID: "TP012345", Email: "tp012345@mail.apu.edu.my", Role: storage.RoleStudent, IsActive: true}
	users := &fakeUsers{byEmail: map[string]*storage.User{student.Email: student}}
	deps.Users = users

	header := http.Header{"Cookie": {stateCookieName + "=st4te"}}
	w := do(t, NewRouter(deps), http.MethodGet, "/api/v1/auth/github/callback?code=abc&state=st4te", "", header)

	assert.Equal(t, http.StatusTemporaryRedirect, w.Code)
	assert.Equal(t, "https://app.example.com/auth/callback", w.Header().Get("Location"))
	assert.True(t, users.linked)
}

func TestGitHubCallback_StateMismatch(t *testing.T) {
	t.Parallel()

	header := http.Header{"Cookie": {stateCookieName + "=expected"}}
	w := do(t, NewRouter(testDeps()), http.MethodGet, "/api/v1/auth/github/callback?code=abc&state=forged", "", header)

	assert.Equal(t, http.StatusTemporaryRedirect, w.Code)
	assert.Contains(t, w.Header().Get("Location"), "error=github_state_mismatch")
}

func TestGitHubCallback_NoAccountRedirectsToRegister(t *testing.T) {
	t.Parallel()

	deps := testDeps()
	deps.Users = &fakeUsers{byEmail: map[string]*storage.User{}}

	header := http.Header{"Cookie": {stateCookieName + "=st4te"}}
	w := do(t, NewRouter(deps), http.MethodGet, "/api/v1/auth/github/callback?code=abc&state=st4te", "", header)

	assert.Equal(t, http.StatusTemporaryRedirect, w.Code)
	assert.Contains(t, w.Header().Get("Location"), "/register?error=no_account")
}

func TestGitHubStatus(t *testing.T) {
	t.Parallel()

	deps := testDeps()
	ghID := int64(42)
	login := "octocat"
	deps.Auth.(*fakeAuth).user = &storage.User{
		ID: "user-1", Role: storage.RoleStudent, IsActive: true,
		GitHubID: &ghID, GitHubUsername: &login,
	}

	w := do(t, NewRouter(deps), http.MethodGet, "/api/v1/auth/github/status", "", authHeader())
	assert.Equal(t, http.StatusOK, w.Code)

	body := decode(t, w)
	assert.Equal(t, true, body["connected"])
	assert.Equal(t, "octocat", body["github_username"])
}

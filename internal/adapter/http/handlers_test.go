package http_test

import (
	"context"
	"encoding/json"
	"html"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/crypto/bcrypt"

	cfhttp "github.com/Strob0t/SkillSprint/internal/adapter/http"
	"github.com/Strob0t/SkillSprint/internal/adapter/sqlite"
	"github.com/Strob0t/SkillSprint/internal/config"
	"github.com/Strob0t/SkillSprint/internal/middleware"
	"github.com/Strob0t/SkillSprint/internal/service"
	"github.com/Strob0t/SkillSprint/internal/session"
)

// newTestServer wires the full page stack over a migrated sqlite file.
func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "test.db")

	if err := sqlite.RunMigrations(ctx, path); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	db, err := sqlite.Open(ctx, config.Database{SQLitePath: path, MaxConns: 4})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	store := sqlite.NewStore(db)
	t.Cleanup(func() { _ = store.Close() })

	cfg := config.Defaults()
	cfg.Auth.BcryptCost = bcrypt.MinCost
	cfg.Session.Secret = "test-secret-0123456789"

	views, err := cfhttp.NewRenderer()
	if err != nil {
		t.Fatalf("templates: %v", err)
	}
	sessions := session.NewManager(cfg.Session, false)
	progress := service.NewProgressService(store, nil, time.Minute, 5)

	h := &cfhttp.Handlers{
		Auth:     service.NewAuthService(store, &cfg.Auth),
		Tasks:    service.NewTaskService(store, progress),
		Roadmaps: service.NewRoadmapService(store, progress),
		Progress: progress,
		Sessions: sessions,
		Views:    views,
		DB:       store,
	}

	r := chi.NewRouter()
	r.Use(middleware.Session(sessions))
	cfhttp.MountRoutes(r, h, nil)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

// browser is a cookie-keeping client that does not follow redirects.
type browser struct {
	t    *testing.T
	base string
	c    *http.Client
}

func newBrowser(t *testing.T, srv *httptest.Server) *browser {
	t.Helper()
	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatal(err)
	}
	return &browser{
		t:    t,
		base: srv.URL,
		c: &http.Client{
			Jar: jar,
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

func (b *browser) get(path string) (*http.Response, string) {
	b.t.Helper()
	resp, err := b.c.Get(b.base + path)
	if err != nil {
		b.t.Fatalf("GET %s: %v", path, err)
	}
	return resp, readBody(b.t, resp)
}

func (b *browser) post(path string, form url.Values) (*http.Response, string) {
	b.t.Helper()
	resp, err := b.c.PostForm(b.base+path, form)
	if err != nil {
		b.t.Fatalf("POST %s: %v", path, err)
	}
	return resp, readBody(b.t, resp)
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return string(data)
}

func expectRedirect(t *testing.T, resp *http.Response, location string) {
	t.Helper()
	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", resp.StatusCode)
	}
	if got := resp.Header.Get("Location"); got != location {
		t.Fatalf("Location = %q, want %q", got, location)
	}
}

func (b *browser) register(name, email, password string) {
	b.t.Helper()
	resp, _ := b.post("/register", url.Values{"name": {name}, "email": {email}, "password": {password}})
	expectRedirect(b.t, resp, "/login")
}

func (b *browser) login(email, password string) {
	b.t.Helper()
	resp, _ := b.post("/login", url.Values{"email": {email}, "password": {password}})
	expectRedirect(b.t, resp, "/dashboard")
}

func TestProtectedRoutesRedirectToLogin(t *testing.T) {
	srv := newTestServer(t)
	b := newBrowser(t, srv)

	paths := []string{
		"/dashboard", "/tasks", "/task-toggle/1", "/task-delete/1",
		"/roadmaps", "/roadmap/create", "/roadmap/done/1",
		"/roadmap/delete/Plan", "/roadmap/export/Plan", "/progress",
	}
	for _, p := range paths {
		resp, _ := b.get(p)
		expectRedirect(t, resp, "/login")
	}
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t)
	resp, body := newBrowser(t, srv).get("/health")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var got map[string]string
	if err := json.Unmarshal([]byte(body), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got["status"] != "ok" || got["database"] != "ok" {
		t.Errorf("unexpected health %v", got)
	}
}

func TestRegisterLoginFlow(t *testing.T) {
	srv := newTestServer(t)
	b := newBrowser(t, srv)

	b.register("Ada", "ada@example.com", "Password123")

	resp, body := b.get("/login")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if !strings.Contains(body, "Registration successful. Please login!") {
		t.Error("expected registration flash on login page")
	}

	b.login("ada@example.com", "Password123")

	resp, body = b.get("/dashboard")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if !strings.Contains(body, "Login successful!") {
		t.Error("expected login flash on dashboard")
	}
	if !strings.Contains(body, "Welcome back, Ada") {
		t.Error("expected greeting with the user's name")
	}

	// The flash is shown once.
	_, body = b.get("/dashboard")
	if strings.Contains(body, "Login successful!") {
		t.Error("flash should not repeat")
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	srv := newTestServer(t)
	b := newBrowser(t, srv)
	b.register("Ada", "ada@example.com", "Password123")

	resp, body := b.post("/register", url.Values{
		"name": {"Other"}, "email": {"ada@example.com"}, "password": {"Password456"},
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected re-rendered page, got %d", resp.StatusCode)
	}
	if !strings.Contains(body, "Email already registered!") {
		t.Error("expected duplicate email flash")
	}
	if !strings.Contains(body, `value="ada@example.com"`) {
		t.Error("expected the email to be kept in the form")
	}
}

func TestRegisterValidation(t *testing.T) {
	srv := newTestServer(t)
	resp, body := newBrowser(t, srv).post("/register", url.Values{
		"name": {"Ada"}, "email": {"not-an-email"}, "password": {"Password123"},
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if !strings.Contains(body, "invalid email format") {
		t.Error("expected validation reason")
	}
}

func TestRegisterRejectsOverlongPassword(t *testing.T) {
	srv := newTestServer(t)
	b := newBrowser(t, srv)
	resp, body := b.post("/register", url.Values{
		"name": {"Ada"}, "email": {"ada@example.com"}, "password": {strings.Repeat("a", 80)},
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if !strings.Contains(body, "password must be at most 72 bytes") {
		t.Error("expected password length reason")
	}

	resp, _ = b.post("/login", url.Values{"email": {"ada@example.com"}, "password": {strings.Repeat("a", 80)}})
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected login form re-render, got %d", resp.StatusCode)
	}
}

func TestLoginInvalidCredentials(t *testing.T) {
	srv := newTestServer(t)
	b := newBrowser(t, srv)
	b.register("Ada", "ada@example.com", "Password123")

	for _, form := range []url.Values{
		{"email": {"ada@example.com"}, "password": {"wrong-password"}},
		{"email": {"nobody@example.com"}, "password": {"Password123"}},
	} {
		resp, body := b.post("/login", form)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("expected 200, got %d", resp.StatusCode)
		}
		if !strings.Contains(body, "Invalid login credentials!") {
			t.Error("expected invalid credentials flash")
		}
	}

	resp, _ := b.get("/dashboard")
	expectRedirect(t, resp, "/login")
}

func TestLogout(t *testing.T) {
	srv := newTestServer(t)
	b := newBrowser(t, srv)
	b.register("Ada", "ada@example.com", "Password123")
	b.login("ada@example.com", "Password123")

	resp, _ := b.get("/logout")
	expectRedirect(t, resp, "/")

	_, body := b.get("/")
	if !strings.Contains(body, "Logged out successfully!") {
		t.Error("expected logout flash")
	}

	resp, _ = b.get("/dashboard")
	expectRedirect(t, resp, "/login")
}

func TestTaskFlow(t *testing.T) {
	srv := newTestServer(t)
	b := newBrowser(t, srv)
	b.register("Ada", "ada@example.com", "Password123")
	b.login("ada@example.com", "Password123")

	resp, _ := b.post("/tasks", url.Values{"date": {"2024-04-01"}, "task": {"Read the Go tour"}})
	expectRedirect(t, resp, "/tasks")

	_, body := b.get("/tasks")
	if !strings.Contains(body, "Task added!") || !strings.Contains(body, "Read the Go tour") {
		t.Fatalf("expected new task and flash on tasks page")
	}

	resp, _ = b.get("/task-toggle/1")
	expectRedirect(t, resp, "/tasks")
	_, body = b.get("/progress")
	if !strings.Contains(body, "Tasks: 1 / 1") {
		t.Error("expected toggled task to count as done")
	}

	resp, _ = b.get("/task-delete/1")
	expectRedirect(t, resp, "/tasks")
	_, body = b.get("/progress")
	if !strings.Contains(body, "Tasks: 0 / 0") {
		t.Error("expected task to be deleted")
	}
}

func TestTaskValidation(t *testing.T) {
	srv := newTestServer(t)
	b := newBrowser(t, srv)
	b.register("Ada", "ada@example.com", "Password123")
	b.login("ada@example.com", "Password123")

	resp, _ := b.post("/tasks", url.Values{"date": {"01/04/2024"}, "task": {"x"}})
	expectRedirect(t, resp, "/tasks")

	_, body := b.get("/tasks")
	if !strings.Contains(body, "task date must be YYYY-MM-DD") {
		t.Error("expected validation flash")
	}
	if !strings.Contains(body, "No tasks yet.") {
		t.Error("invalid task must not be stored")
	}
}

func TestTaskOwnership(t *testing.T) {
	srv := newTestServer(t)

	owner := newBrowser(t, srv)
	owner.register("Ada", "ada@example.com", "Password123")
	owner.login("ada@example.com", "Password123")
	resp, _ := owner.post("/tasks", url.Values{"date": {"2024-04-01"}, "task": {"mine"}})
	expectRedirect(t, resp, "/tasks")

	other := newBrowser(t, srv)
	other.register("Bob", "bob@example.com", "Password123")
	other.login("bob@example.com", "Password123")

	resp, _ = other.get("/task-toggle/1")
	expectRedirect(t, resp, "/tasks")
	resp, _ = other.get("/task-delete/1")
	expectRedirect(t, resp, "/tasks")

	_, body := owner.get("/progress")
	if !strings.Contains(body, "Tasks: 0 / 1") {
		t.Error("another user's toggle and delete must not touch the task")
	}
}

func TestRoadmapCreateViewExport(t *testing.T) {
	srv := newTestServer(t)
	b := newBrowser(t, srv)
	b.register("Ada", "ada@example.com", "Password123")
	b.login("ada@example.com", "Password123")

	resp, _ := b.post("/roadmap/create", url.Values{"name": {"Career"}, "goal": {"Web Development"}})
	expectRedirect(t, resp, "/roadmaps?name=Career")

	_, body := b.get("/roadmaps?name=Career")
	if !strings.Contains(body, "Roadmap created successfully!") {
		t.Error("expected creation flash")
	}
	if !strings.Contains(html.UnescapeString(body), "HTML + CSS Basics") {
		t.Error("expected week 1 topic")
	}

	resp, body = b.get("/roadmap/export/Career")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/csv") {
		t.Errorf("Content-Type = %q", ct)
	}
	if cd := resp.Header.Get("Content-Disposition"); cd != "attachment; filename=Career_roadmap.csv" {
		t.Errorf("Content-Disposition = %q", cd)
	}
	lines := strings.Split(strings.TrimSpace(body), "\n")
	if len(lines) != 9 {
		t.Fatalf("expected header and 8 rows, got %d lines", len(lines))
	}
	if lines[0] != "Roadmap,Goal,Week,Topic,Status" {
		t.Errorf("unexpected header %q", lines[0])
	}
	if lines[8] != "Career,Web Development,8,Final Project + Deployment,Pending" {
		t.Errorf("unexpected last row %q", lines[8])
	}
}

func TestRoadmapNameWithSpaces(t *testing.T) {
	srv := newTestServer(t)
	b := newBrowser(t, srv)
	b.register("Ada", "ada@example.com", "Password123")
	b.login("ada@example.com", "Password123")

	resp, _ := b.post("/roadmap/create", url.Values{"name": {"My Plan"}, "goal": {"DevOps Engineering"}})
	expectRedirect(t, resp, "/roadmaps?name=My+Plan")

	resp, body := b.get("/roadmap/export/My%20Plan")
	if cd := resp.Header.Get("Content-Disposition"); cd != `attachment; filename="My Plan_roadmap.csv"` {
		t.Errorf("Content-Disposition = %q", cd)
	}
	if !strings.Contains(body, "My Plan,DevOps Engineering,1,Linux + Shell Scripting,Pending") {
		t.Errorf("unexpected export body %q", body)
	}

	resp, _ = b.get("/roadmap/delete/My%20Plan")
	expectRedirect(t, resp, "/roadmaps")
	_, body = b.get("/roadmap/export/My%20Plan")
	if strings.TrimSpace(body) != "Roadmap,Goal,Week,Topic,Status" {
		t.Errorf("expected header only after delete, got %q", body)
	}
}

func TestRoadmapCreateValidation(t *testing.T) {
	srv := newTestServer(t)
	b := newBrowser(t, srv)
	b.register("Ada", "ada@example.com", "Password123")
	b.login("ada@example.com", "Password123")

	resp, body := b.post("/roadmap/create", url.Values{"name": {"Career"}})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected re-rendered form, got %d", resp.StatusCode)
	}
	if !strings.Contains(body, "select at least one goal") {
		t.Error("expected validation flash")
	}

	_, body = b.get("/roadmaps")
	if !strings.Contains(body, "You have no roadmaps yet.") {
		t.Error("invalid roadmap must not be stored")
	}
}

func TestRoadmapMarkDoneKeepsSelection(t *testing.T) {
	srv := newTestServer(t)
	b := newBrowser(t, srv)
	b.register("Ada", "ada@example.com", "Password123")
	b.login("ada@example.com", "Password123")

	resp, _ := b.post("/roadmap/create", url.Values{"name": {"Zeta"}, "goal": {"UI/UX Design"}})
	expectRedirect(t, resp, "/roadmaps?name=Zeta")

	resp, _ = b.get("/roadmap/done/1?name=Zeta")
	expectRedirect(t, resp, "/roadmaps?name=Zeta")

	_, body := b.get("/progress")
	if !strings.Contains(body, "Roadmap items: 1 / 8") {
		t.Error("expected one done roadmap item")
	}

	resp, _ = b.get("/roadmap/done/not-a-number")
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404 for a non-numeric id, got %d", resp.StatusCode)
	}
}

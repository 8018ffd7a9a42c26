package web

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/koshanqari/kanYini-connect-sub000/internal/config"
	"github.com/koshanqari/kanYini-connect-sub000/internal/importer"
	"github.com/koshanqari/kanYini-connect-sub000/internal/model"
	"github.com/koshanqari/kanYini-connect-sub000/internal/store"
)

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Port:            8080,
			RequestTimeout:  time.Minute,
			ShutdownTimeout: time.Second,
		},
		Auth: config.AuthConfig{
			SessionTTL:        time.Hour,
			SweepInterval:     time.Hour,
			BcryptCost:        4, // minimum cost keeps tests fast
			MinPasswordLength: 8,
		},
		Import: config.ImportConfig{
			MaxFileSize: 1 << 20,
			Timeout:     time.Minute,
		},
		Rate:    config.RateLimitConfig{Enabled: false},
		Logging: config.LoggingConfig{Level: "error", Format: "text"},
	}
}

func newTestServer(t *testing.T) (*Server, store.Stores) {
	t.Helper()
	stores := store.NewMemory()
	return NewServer(testConfig(), stores), stores
}

// seedSession creates a user and a live session, returning the bearer token.
func seedSession(t *testing.T, stores store.Stores, email string, role model.Role) (*model.User, string) {
	t.Helper()
	ctx := context.Background()

	user, err := stores.Users.Create(ctx, model.NewUser{
		Email:    email,
		Name:     "Test " + string(role),
		Role:     role,
		IsActive: true,
	})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := stores.Profiles.Create(ctx, user.ID, model.NewProfile{Name: user.Name}); err != nil {
		t.Fatal(err)
	}

	token := "test-token-" + email
	err = stores.Sessions.Create(ctx, model.Session{
		Token:     token,
		UserID:    user.ID,
		ExpiresAt: time.Now().Add(time.Hour),
		CreatedAt: time.Now(),
	})
	if err != nil {
		t.Fatal(err)
	}
	return user, token
}

func doJSON(t *testing.T, s *Server, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	return rec
}

func TestRegisterLoginAndMe(t *testing.T) {
	s, _ := newTestServer(t)

	rec := doJSON(t, s, http.MethodPost, "/api/auth/register", "", map[string]string{
		"email":    "thandi@example.com",
		"name":     "Thandi N",
		"password": "hunter2hunter2",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("register status = %d, body %s", rec.Code, rec.Body)
	}

	var created sessionResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatal(err)
	}
	if created.Token == "" || created.User.Email != "thandi@example.com" {
		t.Fatalf("register response = %+v", created)
	}
	if created.User.Role != model.RoleUser {
		t.Errorf("self-registered role = %q, want user", created.User.Role)
	}

	rec = doJSON(t, s, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    "thandi@example.com",
		"password": "hunter2hunter2",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("login status = %d, body %s", rec.Code, rec.Body)
	}

	var session sessionResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &session); err != nil {
		t.Fatal(err)
	}

	rec = doJSON(t, s, http.MethodGet, "/api/auth/me", session.Token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("me status = %d, body %s", rec.Code, rec.Body)
	}
	if !strings.Contains(rec.Body.String(), "thandi@example.com") {
		t.Errorf("me body = %s", rec.Body)
	}
}

func TestLoginRejectsBadPassword(t *testing.T) {
	s, _ := newTestServer(t)

	doJSON(t, s, http.MethodPost, "/api/auth/register", "", map[string]string{
		"email":    "a@example.com",
		"name":     "A",
		"password": "correcthorse",
	})

	rec := doJSON(t, s, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    "a@example.com",
		"password": "wrong password",
	})
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("login status = %d, want 401", rec.Code)
	}
}

func TestMembersRequireAuth(t *testing.T) {
	s, _ := newTestServer(t)

	rec := doJSON(t, s, http.MethodGet, "/api/members", "", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("unauthenticated list status = %d, want 401", rec.Code)
	}

	rec = doJSON(t, s, http.MethodGet, "/api/members", "bogus-token", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("bad token list status = %d, want 401", rec.Code)
	}
}

func TestImportRequiresAdmin(t *testing.T) {
	s, stores := newTestServer(t)
	_, userToken := seedSession(t, stores, "plain@example.com", model.RoleUser)

	rec := doImport(t, s, userToken, "email,name\nx@example.com,X\n")
	if rec.Code != http.StatusForbidden {
		t.Errorf("non-admin import status = %d, want 403", rec.Code)
	}
}

func TestImportEndpoint(t *testing.T) {
	s, stores := newTestServer(t)
	_, adminToken := seedSession(t, stores, "admin@example.com", model.RoleAdmin)

	csv := "email,name,phone,role,is_active,is_verified,school,course,degree,start_year,end_year,education_description\n" +
		"lindiwe@example.com,Lindiwe M,,user,true,true,UCT,Law,LLB,2012,2016,\n" +
		"admin@example.com,Dupe Admin,,,,,,,,,,\n" +
		",Missing Email,,,,,,,,,,\n"

	rec := doImport(t, s, adminToken, csv)
	if rec.Code != http.StatusOK {
		t.Fatalf("import status = %d, body %s", rec.Code, rec.Body)
	}

	var report importer.Report
	if err := json.Unmarshal(rec.Body.Bytes(), &report); err != nil {
		t.Fatal(err)
	}
	if report.Summary.Total != 3 || report.Summary.Successful != 1 || report.Summary.Failed != 2 {
		t.Errorf("summary = %+v", report.Summary)
	}
	if report.Message != "Import completed: 1 successful, 2 errors" {
		t.Errorf("message = %q", report.Message)
	}

	u, err := stores.Users.FindByEmail(context.Background(), "lindiwe@example.com")
	if err != nil || u == nil {
		t.Fatalf("imported member missing: %v", err)
	}
}

func TestImportRejectsEmptyFile(t *testing.T) {
	s, stores := newTestServer(t)
	_, adminToken := seedSession(t, stores, "admin@example.com", model.RoleAdmin)

	rec := doImport(t, s, adminToken, "")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("empty import status = %d, want 400, body %s", rec.Code, rec.Body)
	}
}

func TestImportTemplateDownload(t *testing.T) {
	s, stores := newTestServer(t)
	_, adminToken := seedSession(t, stores, "admin@example.com", model.RoleAdmin)

	rec := doJSON(t, s, http.MethodGet, "/api/members/import/template", adminToken, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("template status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/csv") {
		t.Errorf("content type = %q", ct)
	}
	if !strings.HasPrefix(rec.Body.String(), "email,name,") {
		t.Errorf("template body starts with %q", rec.Body.String()[:20])
	}
}

func TestProfileEditAuthorization(t *testing.T) {
	s, stores := newTestServer(t)
	owner, ownerToken := seedSession(t, stores, "owner@example.com", model.RoleUser)
	_, otherToken := seedSession(t, stores, "other@example.com", model.RoleUser)
	_, adminToken := seedSession(t, stores, "admin@example.com", model.RoleAdmin)

	path := "/api/members/" + owner.ID.String() + "/profile"
	body := map[string]string{"headline": "Community organizer"}

	rec := doJSON(t, s, http.MethodPut, path, otherToken, body)
	if rec.Code != http.StatusForbidden {
		t.Errorf("other user edit status = %d, want 403", rec.Code)
	}

	rec = doJSON(t, s, http.MethodPut, path, ownerToken, body)
	if rec.Code != http.StatusOK {
		t.Errorf("owner edit status = %d, body %s", rec.Code, rec.Body)
	}

	rec = doJSON(t, s, http.MethodPut, path, adminToken, map[string]string{"location": "Johannesburg"})
	if rec.Code != http.StatusOK {
		t.Errorf("admin edit status = %d, body %s", rec.Code, rec.Body)
	}

	profile, err := stores.Profiles.Get(context.Background(), owner.ID)
	if err != nil {
		t.Fatal(err)
	}
	if profile.Headline != "Community organizer" || profile.Location != "Johannesburg" {
		t.Errorf("profile = %+v", profile)
	}
}

func TestMemberUpdateIsAdminOnly(t *testing.T) {
	s, stores := newTestServer(t)
	owner, ownerToken := seedSession(t, stores, "owner@example.com", model.RoleUser)
	_, adminToken := seedSession(t, stores, "admin@example.com", model.RoleAdmin)

	path := "/api/members/" + owner.ID.String()
	body := map[string]any{"is_verified": true}

	rec := doJSON(t, s, http.MethodPatch, path, ownerToken, body)
	if rec.Code != http.StatusForbidden {
		t.Errorf("self account edit status = %d, want 403", rec.Code)
	}

	rec = doJSON(t, s, http.MethodPatch, path, adminToken, body)
	if rec.Code != http.StatusOK {
		t.Fatalf("admin account edit status = %d, body %s", rec.Code, rec.Body)
	}

	u, err := stores.Users.Get(context.Background(), owner.ID)
	if err != nil {
		t.Fatal(err)
	}
	if !u.IsVerified {
		t.Error("is_verified not updated")
	}
}

// doImport posts a multipart upload to the import endpoint.
func doImport(t *testing.T, s *Server, token, csv string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	mp := multipart.NewWriter(&buf)
	fw, err := mp.CreateFormFile("file", "members.csv")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := fw.Write([]byte(csv)); err != nil {
		t.Fatal(err)
	}
	if err := mp.Close(); err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/members/import", &buf)
	req.Header.Set("Content-Type", mp.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	return rec
}

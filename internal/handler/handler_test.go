package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"golang.org/x/crypto/bcrypt"

	appI18n "github.com/Lipao9/sheeto/internal/i18n"
	"github.com/Lipao9/sheeto/internal/model"
	"github.com/Lipao9/sheeto/internal/store"
	"github.com/Lipao9/sheeto/internal/worksheet"
)

func newTestServer(t *testing.T) (*httptest.Server, *store.Store) {
	t.Helper()

	if err := appI18n.Init("pt-BR"); err != nil {
		t.Fatalf("i18n init: %v", err)
	}

	st, err := store.New(":memory:")
	if err != nil {
		t.Fatalf("create store: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	// No API key configured, so generation uses the offline synthesizer.
	h := New(st, worksheet.NewGenerator("", nil), Config{})

	r := chi.NewRouter()
	r.Use(appI18n.Middleware("pt-BR"))
	h.Routes(r)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv, st
}

func createTestUser(t *testing.T, st *store.Store, username string, role model.UserRole) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	if _, err := st.CreateUser(model.User{
		Username:     username,
		DisplayName:  "Test " + username,
		PasswordHash: string(hash),
		Role:         role,
		Active:       true,
	}); err != nil {
		t.Fatalf("create user: %v", err)
	}
}

func newClient(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("cookie jar: %v", err)
	}
	return &http.Client{Jar: jar}
}

func login(t *testing.T, client *http.Client, baseURL, username, password string) *http.Response {
	t.Helper()
	body, _ := json.Marshal(map[string]string{"username": username, "password": password})
	resp, err := client.Post(baseURL+"/login", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("login request: %v", err)
	}
	return resp
}

// csrfToken fetches /fichas so the middleware hands out a token cookie, then
// reads it back from the jar.
func csrfToken(t *testing.T, client *http.Client, baseURL string) string {
	t.Helper()
	resp, err := client.Get(baseURL + "/fichas")
	if err != nil {
		t.Fatalf("GET /fichas: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("GET /fichas status = %d", resp.StatusCode)
	}

	u, _ := url.Parse(baseURL)
	for _, c := range client.Jar.Cookies(u) {
		if c.Name == csrfCookieName {
			return c.Value
		}
	}
	t.Fatal("no CSRF cookie issued")
	return ""
}

func validPayload() map[string]any {
	return map[string]any{
		"education_level": "faculdade",
		"discipline":      "Matemática",
		"topic":           "Frações",
		"difficulty":      "iniciante",
		"goal":            "prova",
		"question_count":  4,
		"exercise_types":  []string{"verdadeiro_falso", "multipla_escolha"},
		"answer_style":    "simples",
		"semester_period": "3º semestre",
	}
}

func postJSON(t *testing.T, client *http.Client, urlStr, token string, payload any) *http.Response {
	t.Helper()
	body, _ := json.Marshal(payload)
	req, err := http.NewRequest(http.MethodPost, urlStr, bytes.NewReader(body))
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set(csrfHeaderName, token)
	}
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("POST %s: %v", urlStr, err)
	}
	return resp
}

func TestLoginAndGenerateWorksheet(t *testing.T) {
	srv, st := newTestServer(t)
	createTestUser(t, st, "alice", model.UserRoleTeacher)
	client := newClient(t)

	resp := login(t, client, srv.URL, "alice", "secret123")
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login status = %d", resp.StatusCode)
	}
	var loginOut struct {
		User struct {
			Username string `json:"username"`
			Role     string `json:"role"`
		} `json:"user"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&loginOut); err != nil {
		t.Fatalf("decode login response: %v", err)
	}
	if loginOut.User.Username != "alice" || loginOut.User.Role != "teacher" {
		t.Errorf("unexpected login payload: %+v", loginOut.User)
	}

	token := csrfToken(t, client, srv.URL)

	genResp := postJSON(t, client, srv.URL+"/fichas", token, validPayload())
	defer genResp.Body.Close()
	if genResp.StatusCode != http.StatusCreated {
		t.Fatalf("POST /fichas status = %d", genResp.StatusCode)
	}

	var out struct {
		Worksheet struct {
			ID            int64    `json:"id"`
			Content       string   `json:"content"`
			QuestionCount int      `json:"question_count"`
			ExerciseTypes []string `json:"exercise_types"`
		} `json:"worksheet"`
	}
	if err := json.NewDecoder(genResp.Body).Decode(&out); err != nil {
		t.Fatalf("decode worksheet response: %v", err)
	}
	ws := out.Worksheet
	if ws.ID == 0 {
		t.Error("expected persisted worksheet ID")
	}
	if ws.QuestionCount != 4 {
		t.Errorf("question_count = %d, want 4", ws.QuestionCount)
	}
	for _, section := range []string{"Resumo:", "Questoes:", "Gabarito:"} {
		if !strings.Contains(ws.Content, section) {
			t.Errorf("content missing section %q", section)
		}
	}

	// The latest worksheet endpoint must hand back the same record.
	latestResp, err := client.Get(srv.URL + "/fichas/latest")
	if err != nil {
		t.Fatalf("GET /fichas/latest: %v", err)
	}
	defer latestResp.Body.Close()
	var latest struct {
		Worksheet *struct {
			ID int64 `json:"id"`
		} `json:"worksheet"`
	}
	if err := json.NewDecoder(latestResp.Body).Decode(&latest); err != nil {
		t.Fatalf("decode latest response: %v", err)
	}
	if latest.Worksheet == nil || latest.Worksheet.ID != ws.ID {
		t.Errorf("latest worksheet = %+v, want ID %d", latest.Worksheet, ws.ID)
	}

	// Delete and verify it is gone.
	delReq, _ := http.NewRequest(http.MethodDelete, fmt.Sprintf("%s/fichas/%d", srv.URL, ws.ID), nil)
	delReq.Header.Set(csrfHeaderName, token)
	delResp, err := client.Do(delReq)
	if err != nil {
		t.Fatalf("DELETE /fichas: %v", err)
	}
	delResp.Body.Close()
	if delResp.StatusCode != http.StatusNoContent {
		t.Errorf("DELETE status = %d, want 204", delResp.StatusCode)
	}

	getResp, err := client.Get(fmt.Sprintf("%s/fichas/%d", srv.URL, ws.ID))
	if err != nil {
		t.Fatalf("GET deleted worksheet: %v", err)
	}
	getResp.Body.Close()
	if getResp.StatusCode != http.StatusNotFound {
		t.Errorf("GET deleted worksheet status = %d, want 404", getResp.StatusCode)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	srv, st := newTestServer(t)
	createTestUser(t, st, "alice", model.UserRoleTeacher)
	client := newClient(t)

	resp := login(t, client, srv.URL, "alice", "wrong-password")
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("bad password status = %d, want 401", resp.StatusCode)
	}

	resp = login(t, client, srv.URL, "nobody", "secret123")
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("unknown user status = %d, want 401", resp.StatusCode)
	}
}

func TestRequireAuth(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/fichas")
	if err != nil {
		t.Fatalf("GET /fichas: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("unauthenticated status = %d, want 401", resp.StatusCode)
	}
}

func TestCSRFRequired(t *testing.T) {
	srv, st := newTestServer(t)
	createTestUser(t, st, "alice", model.UserRoleTeacher)
	client := newClient(t)

	login(t, client, srv.URL, "alice", "secret123").Body.Close()

	// Mutating request without the header must be refused.
	resp := postJSON(t, client, srv.URL+"/fichas", "", validPayload())
	resp.Body.Close()
	if resp.StatusCode != http.StatusForbidden {
		t.Errorf("missing CSRF header status = %d, want 403", resp.StatusCode)
	}
}

func TestValidationErrors(t *testing.T) {
	srv, st := newTestServer(t)
	createTestUser(t, st, "alice", model.UserRoleTeacher)
	client := newClient(t)
	login(t, client, srv.URL, "alice", "secret123").Body.Close()
	token := csrfToken(t, client, srv.URL)

	payload := validPayload()
	payload["question_count"] = 50
	payload["exercise_types"] = []string{}
	delete(payload, "topic")

	resp := postJSON(t, client, srv.URL+"/fichas", token, payload)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("invalid payload status = %d, want 422", resp.StatusCode)
	}

	var out struct {
		Errors map[string]string `json:"errors"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode errors: %v", err)
	}
	for _, field := range []string{"question_count", "exercise_types", "topic"} {
		if out.Errors[field] == "" {
			t.Errorf("expected validation error for %q, got %v", field, out.Errors)
		}
	}
}

func TestAdminDashboardAccess(t *testing.T) {
	srv, st := newTestServer(t)
	createTestUser(t, st, "alice", model.UserRoleTeacher)
	createTestUser(t, st, "root", model.UserRoleAdmin)

	teacher := newClient(t)
	login(t, teacher, srv.URL, "alice", "secret123").Body.Close()
	resp, err := teacher.Get(srv.URL + "/admin/dashboard")
	if err != nil {
		t.Fatalf("GET /admin/dashboard: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("teacher dashboard status = %d, want 404", resp.StatusCode)
	}

	admin := newClient(t)
	login(t, admin, srv.URL, "root", "secret123").Body.Close()
	resp, err = admin.Get(srv.URL + "/admin/dashboard")
	if err != nil {
		t.Fatalf("GET /admin/dashboard: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("admin dashboard status = %d, want 200", resp.StatusCode)
	}

	var dash model.Dashboard
	if err := json.NewDecoder(resp.Body).Decode(&dash); err != nil {
		t.Fatalf("decode dashboard: %v", err)
	}
	if dash.Metrics.UsersTotal != 2 {
		t.Errorf("users_total = %d, want 2", dash.Metrics.UsersTotal)
	}
}

func TestValidatePayload(t *testing.T) {
	base := func() storeWorksheetPayload {
		return storeWorksheetPayload{
			EducationLevel: "faculdade",
			Discipline:     "História",
			Topic:          "Revolução Industrial",
			Difficulty:     "intermediario",
			Goal:           "revisao",
			QuestionCount:  10,
			ExerciseTypes:  []string{"discursivo"},
			AnswerStyle:    "explicacao",
			SemesterPeriod: "2º período",
		}
	}

	tests := []struct {
		name   string
		mutate func(*storeWorksheetPayload)
		field  string
		msgID  string
	}{
		{"valid", func(p *storeWorksheetPayload) {}, "", ""},
		{"missing level", func(p *storeWorksheetPayload) { p.EducationLevel = "" }, "education_level", "FieldRequired"},
		{"unknown level", func(p *storeWorksheetPayload) { p.EducationLevel = "ensino" }, "education_level", "FieldInvalid"},
		{"missing topic", func(p *storeWorksheetPayload) { p.Topic = "" }, "topic", "FieldRequired"},
		{"topic too long", func(p *storeWorksheetPayload) { p.Topic = strings.Repeat("a", 256) }, "topic", "FieldTooLong"},
		{"zero questions", func(p *storeWorksheetPayload) { p.QuestionCount = 0 }, "question_count", "QuestionCountRange"},
		{"too many questions", func(p *storeWorksheetPayload) { p.QuestionCount = 21 }, "question_count", "QuestionCountRange"},
		{"no exercise types", func(p *storeWorksheetPayload) { p.ExerciseTypes = nil }, "exercise_types", "FieldRequired"},
		{"bad exercise type", func(p *storeWorksheetPayload) { p.ExerciseTypes = []string{"charada"} }, "exercise_types", "FieldInvalid"},
		{"bad answer style", func(p *storeWorksheetPayload) { p.AnswerStyle = "longa" }, "answer_style", "FieldInvalid"},
		{"school needs grade year", func(p *storeWorksheetPayload) {
			p.EducationLevel = "escola"
			p.SemesterPeriod = ""
		}, "grade_year", "FieldRequired"},
		{"college needs semester", func(p *storeWorksheetPayload) { p.SemesterPeriod = "" }, "semester_period", "FieldRequired"},
		{"notes too long", func(p *storeWorksheetPayload) { p.Notes = strings.Repeat("x", 1001) }, "notes", "FieldTooLong"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := base()
			tt.mutate(&p)
			errs := p.validate()
			if tt.field == "" {
				if len(errs) != 0 {
					t.Errorf("expected no errors, got %v", errs)
				}
				return
			}
			if errs[tt.field] != tt.msgID {
				t.Errorf("errs[%q] = %q, want %q (all: %v)", tt.field, errs[tt.field], tt.msgID, errs)
			}
		})
	}
}

package i18n

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestInitAndTranslate(t *testing.T) {
	if err := Init("pt-BR"); err != nil {
		t.Fatalf("Init: %v", err)
	}

	// No localizer in context falls back to pt-BR.
	if got := T(context.Background(), "LoginError"); got != "Usuário ou senha inválidos." {
		t.Errorf("T(LoginError) = %q", got)
	}

	// Missing IDs echo back.
	if got := T(context.Background(), "NoSuchMessage"); got != "NoSuchMessage" {
		t.Errorf("T(NoSuchMessage) = %q", got)
	}
}

func TestInitInvalidLanguage(t *testing.T) {
	if err := Init("not a language!"); err == nil {
		t.Error("expected error for invalid language tag")
	}
}

func TestMiddlewareSelectsLanguage(t *testing.T) {
	if err := Init("pt-BR"); err != nil {
		t.Fatalf("Init: %v", err)
	}

	var got string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = T(r.Context(), "WorksheetNotFound")
	})

	req := httptest.NewRequest("GET", "/", nil)
	Middleware("en")(next).ServeHTTP(httptest.NewRecorder(), req)

	if got != "Worksheet not found." {
		t.Errorf("expected English translation, got %q", got)
	}
}

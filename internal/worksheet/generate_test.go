package worksheet

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/Lipao9/sheeto/internal/model"
)

type fakeClient struct {
	calls   int
	content string
	err     error

	lastSystem string
	lastUser   string
}

func (f *fakeClient) Complete(_ context.Context, system, user string) (string, error) {
	f.calls++
	f.lastSystem = system
	f.lastUser = user
	return f.content, f.err
}

func generateRequest() model.WorksheetRequest {
	return model.WorksheetRequest{
		EducationLevel: model.LevelSchool,
		Discipline:     "Matematica",
		Topic:          "Derivadas",
		Difficulty:     model.DifficultyIntermediate,
		Goal:           model.GoalReview,
		QuestionCount:  4,
		ExerciseTypes:  []model.ExerciseType{model.TypeTrueFalse},
		AnswerStyle:    model.AnswerSimple,
		GradeYear:      "2o ano",
	}
}

func TestGenerateWithoutCredentialUsesFallback(t *testing.T) {
	fake := &fakeClient{content: "should never be seen"}
	gen := NewGenerator("", fake)

	text, err := gen.Generate(context.Background(), generateRequest())
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	if fake.calls != 0 {
		t.Errorf("completion client called %d times on the no-credential path", fake.calls)
	}
	if !strings.Contains(text, "Questoes:") || !strings.Contains(text, "Gabarito:") {
		t.Error("fallback text missing mandatory sections")
	}
}

func TestGenerateCallsCompletionService(t *testing.T) {
	fake := &fakeClient{content: "  Conteudo gerado pela IA.  "}
	gen := NewGenerator("sk-test", fake)

	text, err := gen.Generate(context.Background(), generateRequest())
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	if fake.calls != 1 {
		t.Fatalf("expected 1 completion call, got %d", fake.calls)
	}
	if text != "Conteudo gerado pela IA." {
		t.Errorf("content not trimmed: %q", text)
	}
	if fake.lastSystem != SystemPrompt {
		t.Error("system instruction not passed to the client")
	}
	if !strings.Contains(fake.lastUser, "- Topico: Derivadas") {
		t.Error("user prompt not built from the request")
	}
}

func TestGenerateNormalizesBeforePrompting(t *testing.T) {
	fake := &fakeClient{content: "ok"}
	gen := NewGenerator("sk-test", fake)

	req := generateRequest()
	req.QuestionCount = 99
	if _, err := gen.Generate(context.Background(), req); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if !strings.Contains(fake.lastUser, "- Quantidade de questoes: 20") {
		t.Error("question count not clamped before prompt construction")
	}
}

func TestGenerateEmptyCompletion(t *testing.T) {
	for _, content := range []string{"", "   ", "\n\t "} {
		fake := &fakeClient{content: content}
		gen := NewGenerator("sk-test", fake)

		_, err := gen.Generate(context.Background(), generateRequest())
		if !errors.Is(err, ErrEmptyCompletion) {
			t.Errorf("content %q: got %v, want ErrEmptyCompletion", content, err)
		}
	}
}

func TestGenerateTransportErrorPropagates(t *testing.T) {
	transportErr := &TransportError{Err: errors.New("connection refused")}
	fake := &fakeClient{err: transportErr}
	gen := NewGenerator("sk-test", fake)

	text, err := gen.Generate(context.Background(), generateRequest())

	var te *TransportError
	if !errors.As(err, &te) {
		t.Fatalf("got %v, want *TransportError", err)
	}
	if text != "" {
		t.Error("transport failure must not fall back to synthesized text")
	}
	if fake.calls != 1 {
		t.Errorf("expected exactly 1 call, got %d", fake.calls)
	}
}

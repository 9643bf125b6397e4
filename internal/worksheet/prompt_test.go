package worksheet

import (
	"strings"
	"testing"

	"github.com/Lipao9/sheeto/internal/model"
)

func promptRequest() model.WorksheetRequest {
	return model.WorksheetRequest{
		EducationLevel: model.LevelSchool,
		Discipline:     "Matematica",
		Topic:          "Derivadas",
		Difficulty:     model.DifficultyIntermediate,
		Goal:           model.GoalReview,
		QuestionCount:  3,
		ExerciseTypes:  []model.ExerciseType{model.TypeTrueFalse, model.TypeMultipleChoice},
		AnswerStyle:    model.AnswerExplained,
		GradeYear:      "2o ano",
	}
}

func TestBuildPromptMandatorySections(t *testing.T) {
	system, user := BuildPrompt(promptRequest())

	if !strings.Contains(system, "TEXTO SIMPLES") {
		t.Error("system prompt should forbid anything but plain text")
	}
	if !strings.Contains(system, "português do Brasil") {
		t.Error("system prompt should fix the language")
	}

	for _, want := range []string{
		"1. Resumo (4-7 linhas):",
		"2. Questões:",
		"3. Gabarito:",
		`- Cada linha deve ser no formato "1. resposta".`,
		"Não inclua nenhum texto fora do formato definido.",
	} {
		if !strings.Contains(user, want) {
			t.Errorf("prompt missing section marker %q", want)
		}
	}
}

func TestBuildPromptEchoesRequestData(t *testing.T) {
	_, user := BuildPrompt(promptRequest())

	for _, want := range []string{
		"- Disciplina: Matematica",
		"- Topico: Derivadas",
		"- Nivel: Escola",
		"- Objetivo: revisao",
		"- Dificuldade: intermediario",
		"- Quantidade de questoes: 3",
		"- Serie/Ano: 2o ano",
	} {
		if !strings.Contains(user, want) {
			t.Errorf("prompt missing data line %q", want)
		}
	}

	if strings.Contains(user, "- Semestre/Periodo:") {
		t.Error("prompt should omit semester line when the field is empty")
	}
	if strings.Contains(user, "- Observacoes adicionais:") {
		t.Error("prompt should omit notes line when the field is empty")
	}
}

func TestBuildPromptTypeRules(t *testing.T) {
	req := promptRequest()
	_, user := BuildPrompt(req)

	for _, want := range []string{
		"verdadeiro_falso: use exatamente o enunciado",
		`verdadeiro_falso: gabarito no formato "V, F, V, F".`,
		`multipla_escolha: 4 alternativas "a) ", "b) ", "c) ", "d) ", cada uma em linha separada.`,
		"multipla_escolha: gabarito apenas a letra.",
	} {
		if !strings.Contains(user, want) {
			t.Errorf("prompt missing type rule %q", want)
		}
	}

	// Rules for absent types must not appear.
	if strings.Contains(user, "problemas_praticos: descreva") {
		t.Error("prompt has practical-problem rule without that type requested")
	}
	if strings.Contains(user, "discursivo: peca explicacao") {
		t.Error("prompt has essay rule without that type requested")
	}

	// Now the other two types.
	req.ExerciseTypes = []model.ExerciseType{model.TypePracticalProblem, model.TypeEssay}
	_, user = BuildPrompt(req)
	if !strings.Contains(user, "problemas_praticos: descreva um cenario realista com dados e tarefa clara.") {
		t.Error("prompt missing practical-problem rule")
	}
	if !strings.Contains(user, "discursivo: peca explicacao e justificativa, com exemplo aplicado.") {
		t.Error("prompt missing essay rule")
	}
	if strings.Contains(user, "verdadeiro_falso: sempre 4 afirmativas") {
		t.Error("prompt has true/false rule without that type requested")
	}
}

func TestBuildPromptAnswerStyleDirective(t *testing.T) {
	req := promptRequest()

	req.AnswerStyle = model.AnswerExplained
	_, user := BuildPrompt(req)
	if !strings.Contains(user, `Inclua explicação curta (1-2 frases) após " - ".`) {
		t.Error("explained style should require a short explanation after \" - \"")
	}
	if !strings.Contains(user, "- Gabarito: com explicações.") {
		t.Error("explained style should be named in the answer-key directive")
	}

	req.AnswerStyle = model.AnswerSimple
	_, user = BuildPrompt(req)
	if !strings.Contains(user, "Use apenas a resposta, sem explicação.") {
		t.Error("simple style should forbid explanations")
	}
	if strings.Contains(user, "Inclua explicação curta") {
		t.Error("simple style must not carry the explanation directive")
	}
}

func TestBuildPromptAllowedTypesList(t *testing.T) {
	_, user := BuildPrompt(promptRequest())
	if !strings.Contains(user, "- Use apenas estes tipos: Verdadeiro/Falso, Múltipla escolha.") {
		t.Error("prompt should restrict output to the requested types, in request order")
	}
}

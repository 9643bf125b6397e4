package worksheet

import (
	"strconv"
	"strings"

	"github.com/Lipao9/sheeto/internal/model"
)

// Synthesize deterministically builds a structurally valid worksheet text
// from a normalized request, without touching the network. It is used when no
// completion credential is configured. The output honors the same plain-text
// contract the LLM is instructed to follow: header lines, "Resumo:" with
// bulleted summary lines, "Questoes:" with numbered questions, "Gabarito:"
// with matching numbered answers.
//
// For N questions the output always contains exactly N question blocks and N
// answer-key lines numbered 1..N, and every true/false block carries exactly
// 4 statements prefixed "(   ) ". Question types cycle round-robin through
// the requested exercise types in their given order.
func Synthesize(req model.WorksheetRequest) string {
	types := req.ExerciseTypes
	typesLabel := "questoes discursivas"
	if len(types) == 0 {
		types = []model.ExerciseType{model.TypeEssay}
	} else {
		typesLabel = typeLabels(req.ExerciseTypes)
	}

	style := req.AnswerStyle
	if style == "" {
		style = model.AnswerSimple
	}
	styleLabel := answerStyleLabel(style)
	styleLine := "Use o gabarito com " + styleLabel + " para comparar suas respostas."
	if strings.HasPrefix(styleLabel, "com ") {
		styleLine = "Use o gabarito " + styleLabel + " para comparar suas respostas."
	}

	summary := []string{
		"Nesta ficha de " + req.Discipline + ", voce vai revisar " + req.Topic + ".",
		"O objetivo e " + string(req.Goal) + ", com dificuldade " + string(req.Difficulty) + " para consolidar o conteudo.",
		"As atividades incluem " + typesLabel + " e exploram aplicacoes do tema.",
		"Ao todo, sao " + strconv.Itoa(req.QuestionCount) + " questoes para praticar conceitos e raciocinio.",
		styleLine,
	}

	lines := []string{
		"Titulo: Ficha de estudo: " + req.Topic,
		"Disciplina: " + req.Discipline,
		"Topico: " + req.Topic,
		"Nivel: " + string(req.EducationLevel),
	}
	if req.GradeYear != "" {
		lines = append(lines, "Serie/Ano: "+req.GradeYear)
	}
	if req.SemesterPeriod != "" {
		lines = append(lines, "Semestre/Periodo: "+req.SemesterPeriod)
	}
	lines = append(lines,
		"Objetivo: "+string(req.Goal),
		"Dificuldade: "+string(req.Difficulty),
		"Resumo:",
	)
	for _, s := range summary {
		lines = append(lines, "- "+s)
	}

	questions := make([]fallbackQuestion, 0, req.QuestionCount)
	questionTypes := make([]model.ExerciseType, 0, req.QuestionCount)
	for i := 1; i <= req.QuestionCount; i++ {
		t := types[(i-1)%len(types)]
		questions = append(questions, questionForType(t, req))
		questionTypes = append(questionTypes, t)
	}

	lines = append(lines, "Questoes:")
	for i, q := range questions {
		lines = append(lines, strconv.Itoa(i+1)+". ("+string(questionTypes[i])+") "+q.prompt)
		lines = append(lines, q.options...)
		lines = append(lines, q.statements...)
	}

	lines = append(lines, "Gabarito:")
	for i, q := range questions {
		line := strconv.Itoa(i+1) + ". " + q.answer
		if style == model.AnswerExplained {
			line += " - Explique brevemente o raciocinio usado para chegar a resposta."
		}
		lines = append(lines, line)
	}

	return strings.Join(lines, "\n")
}

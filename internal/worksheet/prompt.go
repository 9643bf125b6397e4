package worksheet

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/Lipao9/sheeto/internal/model"
)

// SystemPrompt fixes the output language and forbids any formatting the
// plain-text parser downstream cannot handle.
const SystemPrompt = "Você é um professor experiente da educação brasileira e um especialista em criação de listas de exercícios didáticos. Gere apenas TEXTO SIMPLES em português do Brasil (pt-BR), sem Markdown, sem JSON e sem emojis. Siga rigorosamente o formato solicitado e o exemplo."

// BuildPrompt produces the system instruction and the user prompt sent to the
// completion service. The user prompt spells out the exact three-section
// output format (Resumo, Questoes, Gabarito), the per-type formatting rules
// for the requested exercise types, the answer-style directive, and a data
// block restating every request field. The format is enforced by instruction:
// the model's output is trusted as-is, no post-hoc validation happens here.
func BuildPrompt(req model.WorksheetRequest) (system, user string) {
	segments := []string{
		"Você é um professor experiente da educação brasileira e um especialista em criação de listas de exercícios didáticos.",
		"Gere uma lista de exercícios em português do Brasil (pt-BR) no formato EXATAMENTE descrito abaixo.",
		"Retorne APENAS TEXTO SIMPLES, SEM Markdown, SEM JSON, SEM emojis.",
		"",
		"Formato OBRIGATÓRIO:",
		"1. Resumo (4-7 linhas):",
		`- Cada linha deve começar com "- " (hífen e espaço).`,
		"- Deve descrever tópico, objetivo, número de questões e tipos de questões.",
		"",
		"2. Questões:",
		`- Cada questão deve ter o número seguido de ponto e espaço ("1. ").`,
		`- Para múltipla escolha: cada alternativa deve estar em linha separada começando com "a) ", "b) ", etc.`,
		`- Para Verdadeiro/Falso: deve haver 4 afirmativas, cada uma em linha separada, começando com "(   ) ".`,
		"- Para Discursiva e Problemas práticos: enunciado normal em linha separada.",
		"",
		"3. Gabarito:",
		`- Cada linha deve ser no formato "1. resposta".`,
		"- Use a mesma numeração das questões.",
		"",
		"Exemplo de saída válida:",
		"Resumo:",
		"- Lista de exercícios sobre X com 10 questões.",
		"- Tópico: X — objetivo de praticar Y com dificuldade Z.",
		"- Inclui Verdadeiro/Falso, Múltipla escolha e Discursivo.",
		"",
		"Questões:",
		"1. Explique o conceito de X de forma clara.",
		"2. Sobre Y, qual alternativa está correta?",
		"a) Alternativa A",
		"b) Alternativa B",
		"c) Alternativa C",
		"d) Alternativa D",
		"3. (Verdadeiro/Falso) Assinale V para Verdadeiro e F para Falso:",
		"(   ) Afirmação 1.",
		"(   ) Afirmação 2.",
		"(   ) Afirmação 3.",
		"(   ) Afirmação 4.",
		"",
		"Gabarito:",
		"1. Resposta da questão 1",
		"2. b",
		"3. V, F, V, F",
		"",
		"Regras adicionais:",
		"- Não escreva nada fora do formato acima.",
		"- Não combine alternativas na mesma linha da questão.",
		"- Sempre gerar 4 afirmativas em Verdadeiro/Falso.",
		"- Sempre gerar cada alternativa em linha própria em múltipla escolha.",
		"",
		"Tipos de questão permitidos:",
		"- multipla_escolha",
		"- verdadeiro_falso",
		"- discursivo",
		"- problemas_praticos",
	}

	if len(req.ExerciseTypes) > 0 {
		segments = append(segments, "- Use apenas estes tipos: "+typeLabels(req.ExerciseTypes)+".")
	}

	if req.AnswerStyle != "" {
		segments = append(segments, "- Gabarito: "+answerStyleLabel(req.AnswerStyle)+".")
		switch req.AnswerStyle {
		case model.AnswerExplained:
			segments = append(segments,
				`Inclua explicação curta (1-2 frases) após " - ".`,
				"Exemplo: 1. resposta - explicação curta.",
			)
		case model.AnswerSimple:
			segments = append(segments,
				"Use apenas a resposta, sem explicação.",
				"Exemplo: 1. resposta.",
			)
		}
	}

	for _, t := range typeOrder {
		if !hasType(req.ExerciseTypes, t) {
			continue
		}
		segments = append(segments, exerciseSpecs[t].promptRules...)
	}

	segments = append(segments,
		"Dados:",
		"- Disciplina: "+req.Discipline,
		"- Topico: "+req.Topic,
		"- Nivel: "+upperFirst(string(req.EducationLevel)),
		"- Objetivo: "+string(req.Goal),
		"- Dificuldade: "+string(req.Difficulty),
		"- Quantidade de questoes: "+strconv.Itoa(req.QuestionCount),
	)

	if req.GradeYear != "" {
		segments = append(segments, "- Serie/Ano: "+req.GradeYear)
	}
	if req.SemesterPeriod != "" {
		segments = append(segments, "- Semestre/Periodo: "+req.SemesterPeriod)
	}
	if req.Notes != "" {
		segments = append(segments, "- Observacoes adicionais: "+req.Notes)
	}

	segments = append(segments, "Não inclua nenhum texto fora do formato definido.")

	return SystemPrompt, strings.Join(segments, "\n")
}

func hasType(types []model.ExerciseType, t model.ExerciseType) bool {
	for _, have := range types {
		if have == t {
			return true
		}
	}
	return false
}

func upperFirst(s string) string {
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + s[size:]
}

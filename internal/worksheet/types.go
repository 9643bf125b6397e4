package worksheet

import (
	"fmt"
	"strings"

	"github.com/Lipao9/sheeto/internal/model"
)

// exerciseSpec bundles everything that varies by exercise type: the label
// used in human-readable listings, the format rules appended to the LLM
// prompt, and the deterministic fallback question builder.
type exerciseSpec struct {
	label       string
	promptRules []string
	question    func(req model.WorksheetRequest) fallbackQuestion
}

// fallbackQuestion is one synthesized question plus its answer-key entry.
type fallbackQuestion struct {
	prompt     string
	options    []string
	statements []string
	answer     string
}

// typeOrder fixes the order in which per-type prompt rules are emitted,
// independent of the order types appear in the request.
var typeOrder = []model.ExerciseType{
	model.TypeTrueFalse,
	model.TypeMultipleChoice,
	model.TypePracticalProblem,
	model.TypeEssay,
}

var exerciseSpecs = map[model.ExerciseType]exerciseSpec{
	model.TypeTrueFalse: {
		label: "Verdadeiro/Falso",
		promptRules: []string{
			`verdadeiro_falso: use exatamente o enunciado "(Verdadeiro/Falso) Assinale V para Verdadeiro e F para Falso:".`,
			`verdadeiro_falso: sempre 4 afirmativas, uma por linha iniciando com "(   ) ".`,
			`verdadeiro_falso: gabarito no formato "V, F, V, F".`,
		},
		question: func(req model.WorksheetRequest) fallbackQuestion {
			return fallbackQuestion{
				prompt:     "(Verdadeiro/Falso) Assinale V para Verdadeiro e F para Falso nas afirmativas:",
				statements: trueFalseStatements(req.Topic, req.Discipline),
				answer:     "V, V, V, V",
			}
		},
	},
	model.TypeMultipleChoice: {
		label: "Múltipla escolha",
		promptRules: []string{
			`multipla_escolha: 4 alternativas "a) ", "b) ", "c) ", "d) ", cada uma em linha separada.`,
			`multipla_escolha: gabarito apenas a letra.`,
		},
		question: func(req model.WorksheetRequest) fallbackQuestion {
			return fallbackQuestion{
				prompt: fmt.Sprintf(
					`Assinale a alternativa correta sobre "%s" no contexto de %s.`,
					req.Topic, req.Discipline,
				),
				options: multipleChoiceOptions(req.Topic),
				answer:  "a",
			}
		},
	},
	model.TypePracticalProblem: {
		label: "Problemas práticos",
		promptRules: []string{
			`problemas_praticos: descreva um cenario realista com dados e tarefa clara.`,
		},
		question: func(req model.WorksheetRequest) fallbackQuestion {
			return fallbackQuestion{
				prompt: fmt.Sprintf(
					`Resolva um problema pratico envolvendo "%s": apresente o contexto, os dados e o passo a passo.`,
					req.Topic,
				),
				answer: "Resposta com etapas e justificativa.",
			}
		},
	},
	model.TypeEssay: {
		label: "Discursivo",
		promptRules: []string{
			`discursivo: peca explicacao e justificativa, com exemplo aplicado.`,
		},
		question: func(req model.WorksheetRequest) fallbackQuestion {
			return fallbackQuestion{
				prompt: fmt.Sprintf(
					`Explique "%s" e apresente um exemplo aplicado ao objetivo de %s.`,
					req.Topic, req.Goal,
				),
				answer: "Explique o conceito e justifique o exemplo.",
			}
		},
	},
}

// genericQuestion is used when a request carries a type the table does not
// know about. The HTTP layer rejects such types, so this is a safety net.
func genericQuestion(req model.WorksheetRequest) fallbackQuestion {
	return fallbackQuestion{
		prompt: fmt.Sprintf(
			`Questao sobre "%s" alinhada ao objetivo de %s.`,
			req.Topic, req.Goal,
		),
		answer: "Resposta aberta.",
	}
}

func questionForType(t model.ExerciseType, req model.WorksheetRequest) fallbackQuestion {
	if spec, ok := exerciseSpecs[t]; ok {
		return spec.question(req)
	}
	return genericQuestion(req)
}

// typeLabels renders a comma-separated human-readable list of exercise types.
func typeLabels(types []model.ExerciseType) string {
	parts := make([]string, len(types))
	for i, t := range types {
		if spec, ok := exerciseSpecs[t]; ok {
			parts[i] = spec.label
		} else {
			parts[i] = string(t)
		}
	}
	return strings.Join(parts, ", ")
}

func answerStyleLabel(style model.AnswerStyle) string {
	switch style {
	case model.AnswerExplained:
		return "com explicações"
	case model.AnswerSimple:
		return "respostas simples"
	default:
		return string(style)
	}
}

func trueFalseStatements(topic, discipline string) []string {
	return []string{
		"(   ) " + topic + " envolve uma ideia central que deve ser aplicada para resolver problemas.",
		"(   ) " + topic + " pode ser usado para interpretar situacoes do cotidiano em " + discipline + ".",
		"(   ) Um erro comum e aplicar " + topic + " sem identificar os dados relevantes.",
		"(   ) Para resolver questoes de " + topic + ", e importante justificar o raciocinio.",
	}
}

func multipleChoiceOptions(topic string) []string {
	return []string{
		"a) Define " + topic + " de forma correta e indica quando aplicar.",
		"b) Confunde " + topic + " com um conceito relacionado.",
		"c) Aplica " + topic + " fora do contexto adequado.",
		"d) Ignora uma regra fundamental de " + topic + ".",
	}
}

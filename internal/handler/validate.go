package handler

import (
	"unicode/utf8"

	"github.com/Lipao9/sheeto/internal/model"
	"github.com/Lipao9/sheeto/internal/worksheet"
)

// storeWorksheetPayload is the JSON body accepted by POST /fichas.
type storeWorksheetPayload struct {
	EducationLevel string   `json:"education_level"`
	Discipline     string   `json:"discipline"`
	Topic          string   `json:"topic"`
	Difficulty     string   `json:"difficulty"`
	Goal           string   `json:"goal"`
	QuestionCount  int      `json:"question_count"`
	ExerciseTypes  []string `json:"exercise_types"`
	AnswerStyle    string   `json:"answer_style"`
	GradeYear      string   `json:"grade_year"`
	SemesterPeriod string   `json:"semester_period"`
	Notes          string   `json:"notes"`
}

var (
	educationLevels = map[string]bool{
		string(model.LevelSchool):    true,
		string(model.LevelCollege):   true,
		string(model.LevelGraduate):  true,
		string(model.LevelMasters):   true,
		string(model.LevelDoctorate): true,
		string(model.LevelOther):     true,
	}
	difficulties = map[string]bool{
		string(model.DifficultyBeginner):     true,
		string(model.DifficultyIntermediate): true,
		string(model.DifficultyAdvanced):     true,
	}
	goals = map[string]bool{
		string(model.GoalExam):     true,
		string(model.GoalReview):   true,
		string(model.GoalLearning): true,
	}
	exerciseTypes = map[string]bool{
		string(model.TypeMultipleChoice):   true,
		string(model.TypeEssay):            true,
		string(model.TypeTrueFalse):        true,
		string(model.TypePracticalProblem): true,
	}
	answerStyles = map[string]bool{
		string(model.AnswerSimple):    true,
		string(model.AnswerExplained): true,
	}
)

// validate returns a map of field name to message ID for every rule the
// payload breaks. An empty map means the payload is acceptable.
func (p *storeWorksheetPayload) validate() map[string]string {
	errs := map[string]string{}

	requireIn := func(field, value string, allowed map[string]bool) {
		switch {
		case value == "":
			errs[field] = "FieldRequired"
		case !allowed[value]:
			errs[field] = "FieldInvalid"
		}
	}

	requireIn("education_level", p.EducationLevel, educationLevels)
	requireIn("difficulty", p.Difficulty, difficulties)
	requireIn("goal", p.Goal, goals)
	requireIn("answer_style", p.AnswerStyle, answerStyles)

	requireText := func(field, value string, max int) {
		switch {
		case value == "":
			errs[field] = "FieldRequired"
		case utf8.RuneCountInString(value) > max:
			errs[field] = "FieldTooLong"
		}
	}
	requireText("discipline", p.Discipline, 255)
	requireText("topic", p.Topic, 255)

	if p.QuestionCount < 1 || p.QuestionCount > worksheet.MaxQuestions {
		errs["question_count"] = "QuestionCountRange"
	}

	if len(p.ExerciseTypes) == 0 {
		errs["exercise_types"] = "FieldRequired"
	} else {
		for _, t := range p.ExerciseTypes {
			if !exerciseTypes[t] {
				errs["exercise_types"] = "FieldInvalid"
				break
			}
		}
	}

	// Grade year applies to school requests, semester to higher education.
	if p.EducationLevel == string(model.LevelSchool) && p.GradeYear == "" {
		errs["grade_year"] = "FieldRequired"
	}
	if utf8.RuneCountInString(p.GradeYear) > 255 {
		errs["grade_year"] = "FieldTooLong"
	}

	higherEd := p.EducationLevel == string(model.LevelCollege) ||
		p.EducationLevel == string(model.LevelGraduate)
	if higherEd && p.SemesterPeriod == "" {
		errs["semester_period"] = "FieldRequired"
	}
	if utf8.RuneCountInString(p.SemesterPeriod) > 255 {
		errs["semester_period"] = "FieldTooLong"
	}

	if utf8.RuneCountInString(p.Notes) > 1000 {
		errs["notes"] = "FieldTooLong"
	}

	return errs
}

// request converts a validated payload into a generation request.
func (p *storeWorksheetPayload) request() model.WorksheetRequest {
	types := make([]model.ExerciseType, len(p.ExerciseTypes))
	for i, t := range p.ExerciseTypes {
		types[i] = model.ExerciseType(t)
	}
	return model.WorksheetRequest{
		EducationLevel: model.EducationLevel(p.EducationLevel),
		Discipline:     p.Discipline,
		Topic:          p.Topic,
		Difficulty:     model.Difficulty(p.Difficulty),
		Goal:           model.Goal(p.Goal),
		QuestionCount:  p.QuestionCount,
		ExerciseTypes:  types,
		AnswerStyle:    model.AnswerStyle(p.AnswerStyle),
		GradeYear:      p.GradeYear,
		SemesterPeriod: p.SemesterPeriod,
		Notes:          p.Notes,
	}
}

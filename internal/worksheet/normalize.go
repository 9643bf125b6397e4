package worksheet

import "github.com/Lipao9/sheeto/internal/model"

// MaxQuestions is the upper bound on questions per worksheet.
const MaxQuestions = 20

// Normalize clamps the question count into [1, MaxQuestions]. Out-of-range
// values are silently corrected, not rejected. Every other field passes
// through unchanged: enum membership and conditionally required fields are
// validated by the HTTP layer before a request reaches this package.
func Normalize(req model.WorksheetRequest) model.WorksheetRequest {
	if req.QuestionCount <= 0 {
		req.QuestionCount = 1
	}
	if req.QuestionCount > MaxQuestions {
		req.QuestionCount = MaxQuestions
	}
	return req
}

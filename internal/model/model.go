package model

import (
	"context"
	"time"
)

// EducationLevel is the schooling stage a worksheet targets.
type EducationLevel string

const (
	LevelSchool    EducationLevel = "escola"
	LevelCollege   EducationLevel = "faculdade"
	LevelGraduate  EducationLevel = "pos-graduacao"
	LevelMasters   EducationLevel = "mestrado"
	LevelDoctorate EducationLevel = "doutorado"
	LevelOther     EducationLevel = "outro"
)

// Difficulty represents worksheet difficulty level.
type Difficulty string

const (
	DifficultyBeginner     Difficulty = "iniciante"
	DifficultyIntermediate Difficulty = "intermediario"
	DifficultyAdvanced     Difficulty = "avancado"
)

// Goal is the pedagogical purpose of a worksheet.
type Goal string

const (
	GoalExam     Goal = "prova"
	GoalReview   Goal = "revisao"
	GoalLearning Goal = "aprendizado"
)

// ExerciseType is a category of question. The order in which types appear in a
// request is meaningful: the fallback generator cycles through them round-robin.
type ExerciseType string

const (
	TypeMultipleChoice   ExerciseType = "multipla_escolha"
	TypeEssay            ExerciseType = "discursivo"
	TypeTrueFalse        ExerciseType = "verdadeiro_falso"
	TypePracticalProblem ExerciseType = "problemas_praticos"
)

// AnswerStyle controls whether answer-key entries carry a short explanation.
type AnswerStyle string

const (
	AnswerSimple    AnswerStyle = "simples"
	AnswerExplained AnswerStyle = "explicacao"
)

// WorksheetRequest is a normalized worksheet submission. It is immutable once
// normalized and consumed exactly once by the generator.
type WorksheetRequest struct {
	EducationLevel EducationLevel `json:"education_level"`
	Discipline     string         `json:"discipline"`
	Topic          string         `json:"topic"`
	Difficulty     Difficulty     `json:"difficulty"`
	Goal           Goal           `json:"goal"`
	QuestionCount  int            `json:"question_count"`
	ExerciseTypes  []ExerciseType `json:"exercise_types"`
	AnswerStyle    AnswerStyle    `json:"answer_style"`
	GradeYear      string         `json:"grade_year,omitempty"`
	SemesterPeriod string         `json:"semester_period,omitempty"`
	Notes          string         `json:"notes,omitempty"`
}

// Worksheet is a persisted worksheet: the request that produced it plus the
// generated plain-text content.
type Worksheet struct {
	ID        int64            `json:"id"`
	UserID    int64            `json:"user_id"`
	Request   WorksheetRequest `json:"request"`
	Content   string           `json:"content"`
	CreatedAt time.Time        `json:"created_at"`
}

// UserRole represents a user's access level.
type UserRole string

const (
	UserRoleTeacher UserRole = "teacher"
	UserRoleAdmin   UserRole = "admin"
)

// User represents a system user (a teacher or an admin).
type User struct {
	ID           int64
	Username     string
	DisplayName  string
	PasswordHash string
	Role         UserRole
	Active       bool
	CreatedAt    time.Time
}

// AuthSession represents an authentication session.
type AuthSession struct {
	ID        string
	UserID    int64
	CreatedAt time.Time
	ExpiresAt time.Time
}

type userCtxKey struct{}

// ContextWithUser stores a user in the request context.
func ContextWithUser(ctx context.Context, u *User) context.Context {
	return context.WithValue(ctx, userCtxKey{}, u)
}

// UserFromContext retrieves the authenticated user from context, or nil.
func UserFromContext(ctx context.Context) *User {
	u, _ := ctx.Value(userCtxKey{}).(*User)
	return u
}

type csrfCtxKey struct{}

// ContextWithCSRFToken stores the CSRF token in context.
func ContextWithCSRFToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, csrfCtxKey{}, token)
}

// CSRFTokenFromContext retrieves the CSRF token from context.
func CSRFTokenFromContext(ctx context.Context) string {
	t, _ := ctx.Value(csrfCtxKey{}).(string)
	return t
}

// DashboardMetrics aggregates the counters shown on the admin dashboard.
type DashboardMetrics struct {
	UsersTotal               int     `json:"users_total"`
	UsersAdmins              int     `json:"users_admins"`
	UsersLast30Days          int     `json:"users_last_30_days"`
	WorksheetsTotal          int     `json:"worksheets_total"`
	WorksheetsLast7Days      int     `json:"worksheets_last_7_days"`
	WorksheetsLast30Days     int     `json:"worksheets_last_30_days"`
	WorksheetsWithContent    int     `json:"worksheets_with_content"`
	WorksheetsAvgQuestions   float64 `json:"worksheets_average_questions"`
	WorksheetsAveragePerUser float64 `json:"worksheets_average_per_user"`
}

// TopUser is a dashboard row: a user ranked by worksheet count.
type TopUser struct {
	ID             int64  `json:"id"`
	Username       string `json:"username"`
	DisplayName    string `json:"display_name"`
	WorksheetCount int    `json:"worksheets_count"`
}

// LatestWorksheet summarizes the most recent worksheet for the dashboard.
type LatestWorksheet struct {
	ID         int64     `json:"id"`
	Topic      string    `json:"topic"`
	Discipline string    `json:"discipline"`
	CreatedAt  time.Time `json:"created_at"`
	UserName   string    `json:"user_name"`
}

// Dashboard is the full admin dashboard payload.
type Dashboard struct {
	Metrics         DashboardMetrics `json:"metrics"`
	LatestWorksheet *LatestWorksheet `json:"latest_worksheet,omitempty"`
	TopUsers        []TopUser        `json:"top_users"`
}

// WorksheetExport is one worksheet in the export output.
type WorksheetExport struct {
	Username  string           `json:"username"`
	Request   WorksheetRequest `json:"request"`
	Content   string           `json:"content"`
	CreatedAt time.Time        `json:"created_at"`
}

// Export is the top-level JSON structure for worksheet export.
type Export struct {
	ExportedAt time.Time         `json:"exported_at"`
	Count      int               `json:"count"`
	Worksheets []WorksheetExport `json:"worksheets"`
}

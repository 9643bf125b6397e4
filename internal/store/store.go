package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Lipao9/sheeto/internal/model"

	_ "modernc.org/sqlite"
)

type Store struct {
	db *sql.DB
}

func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}
	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS users (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		username TEXT NOT NULL UNIQUE,
		display_name TEXT NOT NULL DEFAULT '',
		password_hash TEXT NOT NULL,
		role TEXT NOT NULL DEFAULT 'teacher',
		active INTEGER NOT NULL DEFAULT 1,
		created_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS auth_sessions (
		id TEXT PRIMARY KEY,
		user_id INTEGER NOT NULL,
		created_at DATETIME NOT NULL,
		expires_at DATETIME NOT NULL,
		FOREIGN KEY (user_id) REFERENCES users(id)
	);

	CREATE TABLE IF NOT EXISTS worksheets (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id INTEGER NOT NULL,
		education_level TEXT NOT NULL,
		discipline TEXT NOT NULL,
		topic TEXT NOT NULL,
		difficulty TEXT NOT NULL,
		goal TEXT NOT NULL,
		question_count INTEGER NOT NULL,
		exercise_types TEXT NOT NULL,
		answer_style TEXT NOT NULL,
		grade_year TEXT NOT NULL DEFAULT '',
		semester_period TEXT NOT NULL DEFAULT '',
		notes TEXT NOT NULL DEFAULT '',
		content TEXT NOT NULL,
		created_at DATETIME NOT NULL,
		FOREIGN KEY (user_id) REFERENCES users(id)
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

const worksheetColumns = `id, user_id, education_level, discipline, topic, difficulty, goal,
	question_count, exercise_types, answer_style, grade_year, semester_period, notes, content, created_at`

// CreateWorksheet stores a generated worksheet for a user.
func (s *Store) CreateWorksheet(userID int64, req model.WorksheetRequest, content string) (int64, error) {
	types, err := json.Marshal(req.ExerciseTypes)
	if err != nil {
		return 0, fmt.Errorf("marshal exercise types: %w", err)
	}
	res, err := s.db.Exec(
		`INSERT INTO worksheets (user_id, education_level, discipline, topic, difficulty, goal,
		 question_count, exercise_types, answer_style, grade_year, semester_period, notes, content, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		userID, req.EducationLevel, req.Discipline, req.Topic, req.Difficulty, req.Goal,
		req.QuestionCount, string(types), req.AnswerStyle, req.GradeYear, req.SemesterPeriod,
		req.Notes, content, time.Now(),
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanWorksheet(row rowScanner) (model.Worksheet, error) {
	var w model.Worksheet
	var types string
	err := row.Scan(
		&w.ID, &w.UserID, &w.Request.EducationLevel, &w.Request.Discipline, &w.Request.Topic,
		&w.Request.Difficulty, &w.Request.Goal, &w.Request.QuestionCount, &types,
		&w.Request.AnswerStyle, &w.Request.GradeYear, &w.Request.SemesterPeriod,
		&w.Request.Notes, &w.Content, &w.CreatedAt,
	)
	if err != nil {
		return w, err
	}
	if err := json.Unmarshal([]byte(types), &w.Request.ExerciseTypes); err != nil {
		return w, fmt.Errorf("unmarshal exercise types: %w", err)
	}
	return w, nil
}

// GetWorksheet returns a worksheet owned by the given user, or nil when it
// does not exist or belongs to someone else.
func (s *Store) GetWorksheet(id, userID int64) (*model.Worksheet, error) {
	row := s.db.QueryRow(
		`SELECT `+worksheetColumns+` FROM worksheets WHERE id = ? AND user_id = ?`, id, userID,
	)
	w, err := scanWorksheet(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &w, nil
}

// LatestWorksheet returns the user's most recent worksheet, or nil when the
// user has none.
func (s *Store) LatestWorksheet(userID int64) (*model.Worksheet, error) {
	row := s.db.QueryRow(
		`SELECT `+worksheetColumns+` FROM worksheets WHERE user_id = ? ORDER BY id DESC LIMIT 1`, userID,
	)
	w, err := scanWorksheet(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &w, nil
}

// ListWorksheets returns all of a user's worksheets, newest first.
func (s *Store) ListWorksheets(userID int64) ([]model.Worksheet, error) {
	rows, err := s.db.Query(
		`SELECT `+worksheetColumns+` FROM worksheets WHERE user_id = ? ORDER BY id DESC`, userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var worksheets []model.Worksheet
	for rows.Next() {
		w, err := scanWorksheet(rows)
		if err != nil {
			return nil, err
		}
		worksheets = append(worksheets, w)
	}
	return worksheets, rows.Err()
}

// DeleteWorksheet removes a worksheet owned by the given user. Returns false
// when nothing matched (missing or owned by another user).
func (s *Store) DeleteWorksheet(id, userID int64) (bool, error) {
	res, err := s.db.Exec(`DELETE FROM worksheets WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// WorksheetCount returns the total number of worksheets.
func (s *Store) WorksheetCount() (int, error) {
	var count int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM worksheets`).Scan(&count)
	return count, err
}

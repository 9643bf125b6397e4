package store

import (
	"database/sql"
	"fmt"
	"math"
	"time"

	"github.com/Lipao9/sheeto/internal/model"
)

// Dashboard assembles the full admin dashboard: aggregate counters, the most
// recent worksheet, and the five most prolific users.
func (s *Store) Dashboard(now time.Time) (*model.Dashboard, error) {
	metrics, err := s.dashboardMetrics(now)
	if err != nil {
		return nil, fmt.Errorf("dashboard metrics: %w", err)
	}
	latest, err := s.latestWorksheetInfo()
	if err != nil {
		return nil, fmt.Errorf("latest worksheet: %w", err)
	}
	top, err := s.topUsers(5)
	if err != nil {
		return nil, fmt.Errorf("top users: %w", err)
	}
	return &model.Dashboard{
		Metrics:         metrics,
		LatestWorksheet: latest,
		TopUsers:        top,
	}, nil
}

func (s *Store) dashboardMetrics(now time.Time) (model.DashboardMetrics, error) {
	var m model.DashboardMetrics

	counts := []struct {
		dst   *int
		query string
		args  []any
	}{
		{&m.UsersTotal, `SELECT COUNT(*) FROM users`, nil},
		{&m.UsersAdmins, `SELECT COUNT(*) FROM users WHERE role = 'admin'`, nil},
		{&m.UsersLast30Days, `SELECT COUNT(*) FROM users WHERE created_at >= ?`,
			[]any{now.AddDate(0, 0, -30)}},
		{&m.WorksheetsTotal, `SELECT COUNT(*) FROM worksheets`, nil},
		{&m.WorksheetsLast7Days, `SELECT COUNT(*) FROM worksheets WHERE created_at >= ?`,
			[]any{now.AddDate(0, 0, -7)}},
		{&m.WorksheetsLast30Days, `SELECT COUNT(*) FROM worksheets WHERE created_at >= ?`,
			[]any{now.AddDate(0, 0, -30)}},
		{&m.WorksheetsWithContent, `SELECT COUNT(*) FROM worksheets WHERE content != ''`, nil},
	}
	for _, c := range counts {
		if err := s.db.QueryRow(c.query, c.args...).Scan(c.dst); err != nil {
			return m, err
		}
	}

	var avg sql.NullFloat64
	if err := s.db.QueryRow(`SELECT AVG(question_count) FROM worksheets`).Scan(&avg); err != nil {
		return m, err
	}
	if avg.Valid {
		m.WorksheetsAvgQuestions = avg.Float64
	}

	if m.UsersTotal > 0 {
		perUser := float64(m.WorksheetsTotal) / float64(m.UsersTotal)
		m.WorksheetsAveragePerUser = math.Round(perUser*100) / 100
	}

	return m, nil
}

func (s *Store) latestWorksheetInfo() (*model.LatestWorksheet, error) {
	var lw model.LatestWorksheet
	err := s.db.QueryRow(
		`SELECT w.id, w.topic, w.discipline, w.created_at, u.display_name
		 FROM worksheets w JOIN users u ON u.id = w.user_id
		 ORDER BY w.id DESC LIMIT 1`,
	).Scan(&lw.ID, &lw.Topic, &lw.Discipline, &lw.CreatedAt, &lw.UserName)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &lw, nil
}

func (s *Store) topUsers(limit int) ([]model.TopUser, error) {
	rows, err := s.db.Query(
		`SELECT u.id, u.username, u.display_name, COUNT(w.id) AS n
		 FROM users u LEFT JOIN worksheets w ON w.user_id = u.id
		 GROUP BY u.id ORDER BY n DESC, u.id LIMIT ?`, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var users []model.TopUser
	for rows.Next() {
		var u model.TopUser
		if err := rows.Scan(&u.ID, &u.Username, &u.DisplayName, &u.WorksheetCount); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

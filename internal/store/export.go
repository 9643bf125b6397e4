package store

import (
	"fmt"

	"github.com/Lipao9/sheeto/internal/model"
)

// ExportAll builds export-ready records for every worksheet in the database,
// newest first, with the owning user's username attached.
func (s *Store) ExportAll() ([]model.WorksheetExport, error) {
	rows, err := s.db.Query(
		`SELECT ` + worksheetColumns + ` FROM worksheets ORDER BY id DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("list worksheets: %w", err)
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
	if err := rows.Err(); err != nil {
		return nil, err
	}

	usernames := make(map[int64]string)
	var exports []model.WorksheetExport
	for _, w := range worksheets {
		name, ok := usernames[w.UserID]
		if !ok {
			user, err := s.GetUserByID(w.UserID)
			if err != nil {
				return nil, fmt.Errorf("get user %d: %w", w.UserID, err)
			}
			if user != nil {
				name = user.Username
			}
			usernames[w.UserID] = name
		}
		exports = append(exports, model.WorksheetExport{
			Username:  name,
			Request:   w.Request,
			Content:   w.Content,
			CreatedAt: w.CreatedAt,
		})
	}
	return exports, nil
}

package pg

import (
	"context"
	"database/sql"
	"errors"

	"github.com/itchan-dev/msgboard/shared/domain"
	internal_errors "github.com/itchan-dev/msgboard/shared/errors"
)

func (s *Storage) ReportedThreads(ctx context.Context, board domain.BoardShortName) ([]domain.Thread, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+threadColumns+` FROM threads
		WHERE board = $1 AND (reported OR replies @> '[{"reported": true}]'::jsonb)
		ORDER BY bumped_on DESC, created_on DESC, id DESC`,
		board,
	)
	if err != nil {
		return nil, err
	}
	return scanThreads(rows)
}

func (s *Storage) ClearReports(ctx context.Context, id domain.ThreadId) error {
	return s.updateThread(ctx, id, func(t *domain.Thread) error {
		t.ClearReports()
		return nil
	})
}

func (s *Storage) Boards(ctx context.Context) ([]domain.BoardShortName, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT DISTINCT board FROM threads ORDER BY board`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var boards []domain.BoardShortName
	for rows.Next() {
		var board string
		if err := rows.Scan(&board); err != nil {
			return nil, err
		}
		boards = append(boards, board)
	}
	return boards, rows.Err()
}

func (s *Storage) ThreadCount(ctx context.Context, board domain.BoardShortName) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM threads WHERE board = $1`, board).Scan(&count)
	return count, err
}

func (s *Storage) LeastBumpedThreadId(ctx context.Context, board domain.BoardShortName) (domain.ThreadId, error) {
	var id string
	err := s.db.QueryRowContext(ctx, `
		SELECT id FROM threads
		WHERE board = $1
		ORDER BY bumped_on ASC, created_on ASC, id ASC
		LIMIT 1`,
		board,
	).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return "", internal_errors.ErrNotFound
	}
	return id, err
}

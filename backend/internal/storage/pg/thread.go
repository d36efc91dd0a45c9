package pg

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/itchan-dev/msgboard/shared/domain"
	internal_errors "github.com/itchan-dev/msgboard/shared/errors"
)

const threadColumns = `id, board, text, created_on, bumped_on, reported, delete_password, replies`

func (s *Storage) CreateThread(ctx context.Context, thread domain.Thread) error {
	replies, err := encodeReplies(thread.Replies)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO threads (`+threadColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		thread.Id, thread.Board, thread.Text, thread.CreatedOn, thread.BumpedOn,
		thread.Reported, thread.DeletePassword, replies,
	)
	if err != nil {
		return fmt.Errorf("insert thread: %w", err)
	}
	return nil
}

func (s *Storage) GetThread(ctx context.Context, id domain.ThreadId) (domain.Thread, error) {
	return scanThread(s.db.QueryRowContext(ctx, `SELECT `+threadColumns+` FROM threads WHERE id = $1`, id))
}

func (s *Storage) ListThreads(ctx context.Context, board domain.BoardShortName, limit int) ([]domain.Thread, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+threadColumns+` FROM threads
		WHERE board = $1
		ORDER BY bumped_on DESC, created_on DESC, id DESC
		LIMIT $2`,
		board, limit,
	)
	if err != nil {
		return nil, err
	}
	return scanThreads(rows)
}

func (s *Storage) ReportThread(ctx context.Context, id domain.ThreadId) error {
	res, err := s.db.ExecContext(ctx, `UPDATE threads SET reported = TRUE WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (s *Storage) DeleteThread(ctx context.Context, id domain.ThreadId) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM threads WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func scanThread(scanner interface{ Scan(dest ...any) error }) (domain.Thread, error) {
	var (
		t       domain.Thread
		replies []byte
	)
	err := scanner.Scan(&t.Id, &t.Board, &t.Text, &t.CreatedOn, &t.BumpedOn, &t.Reported, &t.DeletePassword, &replies)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Thread{}, internal_errors.ErrNotFound
	}
	if err != nil {
		return domain.Thread{}, err
	}
	t.CreatedOn = t.CreatedOn.UTC()
	t.BumpedOn = t.BumpedOn.UTC()
	if err := json.Unmarshal(replies, &t.Replies); err != nil {
		return domain.Thread{}, fmt.Errorf("decode replies of thread %s: %w", t.Id, err)
	}
	for i := range t.Replies {
		t.Replies[i].CreatedOn = t.Replies[i].CreatedOn.UTC()
	}
	if t.Replies == nil {
		t.Replies = []domain.Reply{}
	}
	return t, nil
}

func scanThreads(rows *sql.Rows) ([]domain.Thread, error) {
	defer rows.Close()
	threads := make([]domain.Thread, 0)
	for rows.Next() {
		t, err := scanThread(rows)
		if err != nil {
			return nil, err
		}
		threads = append(threads, t)
	}
	return threads, rows.Err()
}

// encodeReplies renders the jsonb text of a replies column.
func encodeReplies(replies []domain.Reply) (string, error) {
	if replies == nil {
		replies = []domain.Reply{}
	}
	data, err := json.Marshal(replies)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return internal_errors.ErrNotFound
	}
	return nil
}


// Package sqlite is the embedded thread store. All access goes through a
// single connection, so every transaction runs alone.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/itchan-dev/msgboard/shared/domain"
	internal_errors "github.com/itchan-dev/msgboard/shared/errors"

	_ "modernc.org/sqlite"
)

type Storage struct {
	db *sql.DB
}

func Open(path string) (*Storage, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	if _, err := db.Exec("PRAGMA busy_timeout = 5000;"); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := applySchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Storage{db: db}, nil
}

func (s *Storage) Close() error {
	return s.db.Close()
}

func (s *Storage) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// migrations is an ordered list of SQL migrations.
// Each migration runs exactly once, tracked by schema_version table.
var migrations = []string{
	`
CREATE TABLE IF NOT EXISTS threads (
	id TEXT PRIMARY KEY,
	board TEXT NOT NULL,
	text TEXT NOT NULL,
	created_on INTEGER NOT NULL,
	bumped_on INTEGER NOT NULL,
	reported INTEGER NOT NULL DEFAULT 0,
	delete_password TEXT NOT NULL,
	replies TEXT NOT NULL DEFAULT '[]'
);
CREATE INDEX IF NOT EXISTS idx_threads_board_bumped ON threads(board, bumped_on DESC);
`,
}

func applySchema(db *sql.DB) error {
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS schema_version (version INTEGER PRIMARY KEY)`); err != nil {
		return err
	}

	var currentVersion int
	if err := db.QueryRow(`SELECT COALESCE(MAX(version), 0) FROM schema_version`).Scan(&currentVersion); err != nil {
		return err
	}

	for i := currentVersion; i < len(migrations); i++ {
		if _, err := db.Exec(migrations[i]); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
		if _, err := db.Exec(`INSERT INTO schema_version (version) VALUES (?)`, i+1); err != nil {
			return fmt.Errorf("failed to record migration %d: %w", i+1, err)
		}
	}
	return nil
}

const threadColumns = `id, board, text, created_on, bumped_on, reported, delete_password, replies`

func (s *Storage) CreateThread(ctx context.Context, thread domain.Thread) error {
	replies, err := encodeReplies(thread.Replies)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
INSERT INTO threads (`+threadColumns+`)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
`, thread.Id, thread.Board, thread.Text, thread.CreatedOn.UnixMilli(), thread.BumpedOn.UnixMilli(),
		boolToInt(thread.Reported), thread.DeletePassword, replies)
	return err
}

func (s *Storage) GetThread(ctx context.Context, id domain.ThreadId) (domain.Thread, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+threadColumns+` FROM threads WHERE id = ?`, id)
	return scanThread(row)
}

func (s *Storage) ListThreads(ctx context.Context, board domain.BoardShortName, limit int) ([]domain.Thread, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT `+threadColumns+` FROM threads
WHERE board = ?
ORDER BY bumped_on DESC, created_on DESC, id DESC
LIMIT ?
`, board, limit)
	if err != nil {
		return nil, err
	}
	return scanThreads(rows)
}

func (s *Storage) ReportThread(ctx context.Context, id domain.ThreadId) error {
	res, err := s.db.ExecContext(ctx, `UPDATE threads SET reported = 1 WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (s *Storage) DeleteThread(ctx context.Context, id domain.ThreadId) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM threads WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (s *Storage) AddReply(ctx context.Context, threadId domain.ThreadId, reply domain.Reply, bumpedOn time.Time) error {
	return s.updateThread(ctx, threadId, func(t *domain.Thread) error {
		t.Replies = append([]domain.Reply{reply}, t.Replies...)
		t.BumpedOn = bumpedOn
		return nil
	})
}

func (s *Storage) ReportReply(ctx context.Context, threadId domain.ThreadId, replyId domain.ReplyId) error {
	return s.updateThread(ctx, threadId, func(t *domain.Thread) error {
		i := t.ReplyIndex(replyId)
		if i < 0 {
			return internal_errors.ErrNotFound
		}
		t.Replies[i].Reported = true
		return nil
	})
}

func (s *Storage) SetReplyText(ctx context.Context, threadId domain.ThreadId, replyId domain.ReplyId, text domain.PostText) error {
	return s.updateThread(ctx, threadId, func(t *domain.Thread) error {
		i := t.ReplyIndex(replyId)
		if i < 0 {
			return internal_errors.ErrNotFound
		}
		t.Replies[i].Text = text
		return nil
	})
}

func (s *Storage) ClearReports(ctx context.Context, id domain.ThreadId) error {
	return s.updateThread(ctx, id, func(t *domain.Thread) error {
		t.ClearReports()
		return nil
	})
}

func (s *Storage) ReportedThreads(ctx context.Context, board domain.BoardShortName) ([]domain.Thread, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT `+threadColumns+` FROM threads
WHERE board = ?
ORDER BY bumped_on DESC, created_on DESC, id DESC
`, board)
	if err != nil {
		return nil, err
	}
	threads, err := scanThreads(rows)
	if err != nil {
		return nil, err
	}

	reported := make([]domain.Thread, 0)
	for _, t := range threads {
		if t.HasReports() {
			reported = append(reported, t)
		}
	}
	return reported, nil
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
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM threads WHERE board = ?`, board).Scan(&count)
	return count, err
}

func (s *Storage) LeastBumpedThreadId(ctx context.Context, board domain.BoardShortName) (domain.ThreadId, error) {
	var id string
	err := s.db.QueryRowContext(ctx, `
SELECT id FROM threads
WHERE board = ?
ORDER BY bumped_on ASC, created_on ASC, id ASC
LIMIT 1
`, board).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return "", internal_errors.ErrNotFound
	}
	return id, err
}

// updateThread applies mutate to the stored thread inside a transaction.
func (s *Storage) updateThread(ctx context.Context, id domain.ThreadId, mutate func(t *domain.Thread) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	thread, err := scanThread(tx.QueryRowContext(ctx, `SELECT `+threadColumns+` FROM threads WHERE id = ?`, id))
	if err != nil {
		return err
	}
	if err := mutate(&thread); err != nil {
		return err
	}

	replies, err := encodeReplies(thread.Replies)
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `
UPDATE threads SET bumped_on = ?, reported = ?, replies = ? WHERE id = ?
`, thread.BumpedOn.UnixMilli(), boolToInt(thread.Reported), replies, id); err != nil {
		return err
	}
	return tx.Commit()
}

func scanThread(scanner interface{ Scan(dest ...any) error }) (domain.Thread, error) {
	var (
		t                   domain.Thread
		createdOn, bumpedOn int64
		reported            int
		replies             string
	)
	err := scanner.Scan(&t.Id, &t.Board, &t.Text, &createdOn, &bumpedOn, &reported, &t.DeletePassword, &replies)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Thread{}, internal_errors.ErrNotFound
	}
	if err != nil {
		return domain.Thread{}, err
	}
	t.CreatedOn = time.UnixMilli(createdOn).UTC()
	t.BumpedOn = time.UnixMilli(bumpedOn).UTC()
	t.Reported = reported != 0
	if err := json.Unmarshal([]byte(replies), &t.Replies); err != nil {
		return domain.Thread{}, fmt.Errorf("decode replies of thread %s: %w", t.Id, err)
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

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

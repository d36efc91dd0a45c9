package pg

import (
	"context"
	"database/sql"
	"time"

	"github.com/itchan-dev/msgboard/shared/domain"
	internal_errors "github.com/itchan-dev/msgboard/shared/errors"
)

// AddReply prepends the reply and bumps the thread in a single statement.
func (s *Storage) AddReply(ctx context.Context, threadId domain.ThreadId, reply domain.Reply, bumpedOn time.Time) error {
	element, err := encodeReplies([]domain.Reply{reply})
	if err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx, `
		UPDATE threads
		SET replies = $2::jsonb || replies, bumped_on = $3
		WHERE id = $1`,
		threadId, element, bumpedOn,
	)
	if err != nil {
		return err
	}
	return requireAffected(res)
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

// updateThread locks the thread row, applies mutate and writes the result back.
func (s *Storage) updateThread(ctx context.Context, id domain.ThreadId, mutate func(t *domain.Thread) error) error {
	return withTx(ctx, s.db, func(tx *sql.Tx) error {
		thread, err := scanThread(tx.QueryRowContext(ctx, `SELECT `+threadColumns+` FROM threads WHERE id = $1 FOR UPDATE`, id))
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
		_, err = tx.ExecContext(ctx, `
			UPDATE threads SET reported = $2, replies = $3 WHERE id = $1`,
			id, thread.Reported, replies,
		)
		return err
	})
}

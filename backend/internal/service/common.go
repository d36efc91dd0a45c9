package service

import (
	"cmp"
	"context"
	stderrors "errors"
	"time"

	"github.com/itchan-dev/msgboard/shared/domain"
	"github.com/itchan-dev/msgboard/shared/errors"
)

const (
	msgThreadNotFound = "could not find thread id"
	msgReplyNotFound  = "could not find reply id"
	msgInvalidBoard   = "invalid board name"
	msgWrongPassword  = "incorrect password"
)

// now is the clock of posts. Timestamps are kept at millisecond precision in
// UTC so that every backend round-trips them unchanged.
func now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

// findThread looks a thread up and checks that it lives on board.
func findThread(ctx context.Context, storage interface {
	GetThread(ctx context.Context, id domain.ThreadId) (domain.Thread, error)
}, board domain.BoardShortName, id domain.ThreadId) (domain.Thread, error) {
	thread, err := storage.GetThread(ctx, id)
	if err != nil {
		return domain.Thread{}, lookupError(err)
	}
	if thread.Board != board {
		return domain.Thread{}, errors.OwnershipMismatch(msgInvalidBoard)
	}
	return thread, nil
}

func lookupError(err error) error {
	if stderrors.Is(err, errors.ErrNotFound) {
		return errors.NotFound(msgThreadNotFound)
	}
	return errors.Persistence(msgThreadNotFound, err)
}

// mutationError maps the error of the final write. The thread may have been
// deleted after the lookup.
func mutationError(err error, notFoundMsg, msg string) error {
	if stderrors.Is(err, errors.ErrNotFound) {
		return errors.NotFound(notFoundMsg)
	}
	return errors.Persistence(msg, err)
}

// compareRecency orders threads most recently bumped first. Ties fall back to
// creation time and then id so the order is total.
func compareRecency(a, b domain.Thread) int {
	if c := b.BumpedOn.Compare(a.BumpedOn); c != 0 {
		return c
	}
	if c := b.CreatedOn.Compare(a.CreatedOn); c != 0 {
		return c
	}
	return cmp.Compare(b.Id, a.Id)
}

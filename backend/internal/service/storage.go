package service

import (
	"context"
	"time"

	"github.com/itchan-dev/msgboard/shared/domain"
)

// ThreadStorage is implemented by every store backend. Each mutation is a
// single atomic operation addressed by thread id; a missing thread or reply
// is reported as errors.ErrNotFound.
type ThreadStorage interface {
	CreateThread(ctx context.Context, thread domain.Thread) error
	GetThread(ctx context.Context, id domain.ThreadId) (domain.Thread, error)
	// ListThreads returns at most limit threads of the board, most recently bumped first.
	ListThreads(ctx context.Context, board domain.BoardShortName, limit int) ([]domain.Thread, error)
	ReportThread(ctx context.Context, id domain.ThreadId) error
	DeleteThread(ctx context.Context, id domain.ThreadId) error

	// AddReply prepends the reply and sets bumped_on in one step.
	AddReply(ctx context.Context, threadId domain.ThreadId, reply domain.Reply, bumpedOn time.Time) error
	ReportReply(ctx context.Context, threadId domain.ThreadId, replyId domain.ReplyId) error
	SetReplyText(ctx context.Context, threadId domain.ThreadId, replyId domain.ReplyId, text domain.PostText) error
}

// ModerationStorage serves the admin endpoints.
type ModerationStorage interface {
	GetThread(ctx context.Context, id domain.ThreadId) (domain.Thread, error)
	DeleteThread(ctx context.Context, id domain.ThreadId) error
	// ReportedThreads returns threads of the board that are reported or hold a reported reply.
	ReportedThreads(ctx context.Context, board domain.BoardShortName) ([]domain.Thread, error)
	ClearReports(ctx context.Context, id domain.ThreadId) error
}

// ThreadGCStorage defines the database operations needed for thread garbage collection.
type ThreadGCStorage interface {
	Boards(ctx context.Context) ([]domain.BoardShortName, error)
	ThreadCount(ctx context.Context, board domain.BoardShortName) (int, error)
	// LeastBumpedThreadId returns the thread that would be the last one of the listing.
	LeastBumpedThreadId(ctx context.Context, board domain.BoardShortName) (domain.ThreadId, error)
}

// Storage is everything a backend provides.
type Storage interface {
	ThreadStorage
	ModerationStorage
	ThreadGCStorage
	Ping(ctx context.Context) error
	Close() error
}

// PostValidator checks user supplied board names and texts.
type PostValidator interface {
	BoardName(name domain.BoardShortName) error
	Text(text domain.PostText) error
}

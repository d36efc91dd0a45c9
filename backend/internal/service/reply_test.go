package service

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"github.com/itchan-dev/msgboard/shared/domain"
	"github.com/itchan-dev/msgboard/shared/errors"
	"github.com/itchan-dev/msgboard/shared/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReplyCreate(t *testing.T) {
	ctx := context.Background()
	valid := domain.ReplyCreationData{Board: "test", ThreadId: "t1", Text: "hi", DeletePassword: "q"}
	found := func(id domain.ThreadId) (domain.Thread, error) {
		return domain.Thread{Id: id, Board: "test", Replies: []domain.Reply{}}, nil
	}

	t.Run("prepends and bumps in one store call", func(t *testing.T) {
		var (
			gotThread domain.ThreadId
			gotReply  domain.Reply
			gotBump   time.Time
		)
		storage := &MockThreadStorage{
			getThreadFunc: found,
			addReplyFunc: func(threadId domain.ThreadId, reply domain.Reply, bumpedOn time.Time) error {
				gotThread, gotReply, gotBump = threadId, reply, bumpedOn
				return nil
			},
		}
		s := NewReply(storage, &MockPostValidator{}, testConfig())

		id, err := s.Create(ctx, valid)
		require.NoError(t, err)

		assert.Equal(t, "t1", gotThread)
		assert.Equal(t, id, gotReply.Id)
		assert.NotEmpty(t, id)
		assert.Equal(t, "hi", gotReply.Text)
		assert.False(t, gotReply.Reported)
		assert.True(t, utils.PasswordMatches(gotReply.DeletePassword, "q"))
		assert.Equal(t, gotReply.CreatedOn, gotBump, "thread is bumped to the reply time")
	})

	tests := []struct {
		name string
		data domain.ReplyCreationData
	}{
		{name: "empty text", data: domain.ReplyCreationData{Board: "test", ThreadId: "t1", DeletePassword: "q"}},
		{name: "empty thread id", data: domain.ReplyCreationData{Board: "test", Text: "hi", DeletePassword: "q"}},
		{name: "empty password", data: domain.ReplyCreationData{Board: "test", ThreadId: "t1", Text: "hi"}},
		{name: "empty board", data: domain.ReplyCreationData{ThreadId: "t1", Text: "hi", DeletePassword: "q"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			storage := &MockThreadStorage{getThreadFunc: found}
			s := NewReply(storage, &MockPostValidator{}, testConfig())

			_, err := s.Create(ctx, tt.data)
			requireKind(t, err, errors.KindValidation, "incomplete form")
			assert.False(t, storage.called("AddReply"))
		})
	}

	t.Run("not found", func(t *testing.T) {
		storage := &MockThreadStorage{}
		s := NewReply(storage, &MockPostValidator{}, testConfig())
		_, err := s.Create(ctx, valid)
		requireKind(t, err, errors.KindNotFound, "could not find thread id")
		assert.False(t, storage.called("AddReply"))
	})

	t.Run("board mismatch", func(t *testing.T) {
		storage := &MockThreadStorage{getThreadFunc: found}
		s := NewReply(storage, &MockPostValidator{}, testConfig())
		data := valid
		data.Board = "other"
		_, err := s.Create(ctx, data)
		requireKind(t, err, errors.KindOwnershipMismatch, "invalid board name")
	})

	t.Run("thread deleted before the append", func(t *testing.T) {
		storage := &MockThreadStorage{
			getThreadFunc: found,
			addReplyFunc: func(domain.ThreadId, domain.Reply, time.Time) error {
				return errors.ErrNotFound
			},
		}
		s := NewReply(storage, &MockPostValidator{}, testConfig())
		_, err := s.Create(ctx, valid)
		requireKind(t, err, errors.KindNotFound, "could not find thread id")
	})

	t.Run("storage error", func(t *testing.T) {
		storage := &MockThreadStorage{
			getThreadFunc: found,
			addReplyFunc: func(domain.ThreadId, domain.Reply, time.Time) error {
				return stderrors.New("boom")
			},
		}
		s := NewReply(storage, &MockPostValidator{}, testConfig())
		_, err := s.Create(ctx, valid)
		requireKind(t, err, errors.KindPersistence, "could not save reply")
	})
}

func TestReplyReport(t *testing.T) {
	ctx := context.Background()
	found := func(id domain.ThreadId) (domain.Thread, error) {
		return domain.Thread{Id: id, Board: "test", Replies: []domain.Reply{{Id: "r2"}, {Id: "r1"}}}, nil
	}

	t.Run("flags the reply", func(t *testing.T) {
		var gotThread, gotReply string
		storage := &MockThreadStorage{
			getThreadFunc: found,
			reportReplyFunc: func(threadId domain.ThreadId, replyId domain.ReplyId) error {
				gotThread, gotReply = threadId, replyId
				return nil
			},
		}
		s := NewReply(storage, &MockPostValidator{}, testConfig())

		require.NoError(t, s.Report(ctx, "test", "t1", "r1"))
		assert.Equal(t, "t1", gotThread)
		assert.Equal(t, "r1", gotReply)
	})

	t.Run("unknown reply", func(t *testing.T) {
		storage := &MockThreadStorage{getThreadFunc: found}
		s := NewReply(storage, &MockPostValidator{}, testConfig())

		err := s.Report(ctx, "test", "t1", "r9")
		requireKind(t, err, errors.KindNotFound, "could not find reply id")
		assert.False(t, storage.called("ReportReply"))
	})

	t.Run("board mismatch", func(t *testing.T) {
		storage := &MockThreadStorage{getThreadFunc: found}
		s := NewReply(storage, &MockPostValidator{}, testConfig())
		requireKind(t, s.Report(ctx, "other", "t1", "r1"), errors.KindOwnershipMismatch, "invalid board name")
	})

	t.Run("storage error", func(t *testing.T) {
		storage := &MockThreadStorage{
			getThreadFunc:   found,
			reportReplyFunc: func(domain.ThreadId, domain.ReplyId) error { return stderrors.New("boom") },
		}
		s := NewReply(storage, &MockPostValidator{}, testConfig())
		requireKind(t, s.Report(ctx, "test", "t1", "r1"), errors.KindPersistence, "could not save thread")
	})
}

func TestReplyDelete(t *testing.T) {
	ctx := context.Background()
	threadHash := hashed(t, "thread-pass")
	replyHash := hashed(t, "reply-pass")
	found := func(id domain.ThreadId) (domain.Thread, error) {
		return domain.Thread{
			Id:             id,
			Board:          "test",
			DeletePassword: threadHash,
			Replies:        []domain.Reply{{Id: "r1", Text: "hi", DeletePassword: replyHash}},
		}, nil
	}

	t.Run("correct password redacts the text", func(t *testing.T) {
		var gotText string
		storage := &MockThreadStorage{
			getThreadFunc: found,
			setReplyTextFunc: func(threadId domain.ThreadId, replyId domain.ReplyId, text domain.PostText) error {
				assert.Equal(t, "t1", threadId)
				assert.Equal(t, "r1", replyId)
				gotText = text
				return nil
			},
		}
		s := NewReply(storage, &MockPostValidator{}, testConfig())

		require.NoError(t, s.Delete(ctx, "test", "t1", "r1", "reply-pass"))
		assert.Equal(t, domain.DeletedText, gotText)
	})

	t.Run("thread password does not unlock a reply", func(t *testing.T) {
		storage := &MockThreadStorage{getThreadFunc: found}
		s := NewReply(storage, &MockPostValidator{}, testConfig())

		err := s.Delete(ctx, "test", "t1", "r1", "thread-pass")
		requireKind(t, err, errors.KindUnauthorized, "incorrect password")
		assert.False(t, storage.called("SetReplyText"))
	})

	t.Run("unknown reply", func(t *testing.T) {
		storage := &MockThreadStorage{getThreadFunc: found}
		s := NewReply(storage, &MockPostValidator{}, testConfig())
		requireKind(t, s.Delete(ctx, "test", "t1", "nope", "reply-pass"), errors.KindNotFound, "could not find reply id")
	})

	t.Run("unknown thread", func(t *testing.T) {
		s := NewReply(&MockThreadStorage{}, &MockPostValidator{}, testConfig())
		requireKind(t, s.Delete(ctx, "test", "t1", "r1", "reply-pass"), errors.KindNotFound, "could not find thread id")
	})

	t.Run("storage error", func(t *testing.T) {
		storage := &MockThreadStorage{
			getThreadFunc: found,
			setReplyTextFunc: func(domain.ThreadId, domain.ReplyId, domain.PostText) error {
				return stderrors.New("boom")
			},
		}
		s := NewReply(storage, &MockPostValidator{}, testConfig())
		requireKind(t, s.Delete(ctx, "test", "t1", "r1", "reply-pass"), errors.KindPersistence, "could not delete reply")
	})
}

// Package storagetest holds the behavior every thread store must show.
// Backend packages run it from their own tests.
package storagetest

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/itchan-dev/msgboard/backend/internal/service"
	"github.com/itchan-dev/msgboard/shared/domain"
	"github.com/itchan-dev/msgboard/shared/errors"
	"github.com/itchan-dev/msgboard/shared/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var base = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

// Run exercises storage. Boards are unique per subtest, so a store may be
// shared between subtests and runs.
func Run(t *testing.T, storage service.Storage) {
	t.Run("create and get", func(t *testing.T) { testCreateAndGet(t, storage) })
	t.Run("get missing", func(t *testing.T) { testGetMissing(t, storage) })
	t.Run("list order and limit", func(t *testing.T) { testList(t, storage) })
	t.Run("list ties", func(t *testing.T) { testListTies(t, storage) })
	t.Run("report thread", func(t *testing.T) { testReportThread(t, storage) })
	t.Run("delete thread", func(t *testing.T) { testDeleteThread(t, storage) })
	t.Run("add reply", func(t *testing.T) { testAddReply(t, storage) })
	t.Run("concurrent replies", func(t *testing.T) { testConcurrentReplies(t, storage) })
	t.Run("report reply", func(t *testing.T) { testReportReply(t, storage) })
	t.Run("set reply text", func(t *testing.T) { testSetReplyText(t, storage) })
	t.Run("reported threads and clear", func(t *testing.T) { testReported(t, storage) })
	t.Run("gc queries", func(t *testing.T) { testGC(t, storage) })
	t.Run("ping", func(t *testing.T) { require.NoError(t, storage.Ping(context.Background())) })
}

func newBoard() domain.BoardShortName {
	return "b" + utils.NewId()[24:]
}

func newThread(board domain.BoardShortName, at time.Time) domain.Thread {
	return domain.Thread{
		Id:             utils.NewId(),
		Board:          board,
		Text:           "text of " + board,
		CreatedOn:      at,
		BumpedOn:       at,
		DeletePassword: "hash",
		Replies:        []domain.Reply{},
	}
}

func newReply(text string, at time.Time) domain.Reply {
	return domain.Reply{Id: utils.NewId(), Text: text, DeletePassword: "reply-hash", CreatedOn: at}
}

func mustCreate(t *testing.T, storage service.Storage, thread domain.Thread) domain.Thread {
	t.Helper()
	require.NoError(t, storage.CreateThread(context.Background(), thread))
	return thread
}

func mustGet(t *testing.T, storage service.Storage, id domain.ThreadId) domain.Thread {
	t.Helper()
	thread, err := storage.GetThread(context.Background(), id)
	require.NoError(t, err)
	return thread
}

func testCreateAndGet(t *testing.T, storage service.Storage) {
	thread := mustCreate(t, storage, newThread(newBoard(), base))

	got := mustGet(t, storage, thread.Id)
	assert.Equal(t, thread.Id, got.Id)
	assert.Equal(t, thread.Board, got.Board)
	assert.Equal(t, thread.Text, got.Text)
	assert.True(t, thread.CreatedOn.Equal(got.CreatedOn))
	assert.True(t, thread.BumpedOn.Equal(got.BumpedOn))
	assert.False(t, got.Reported)
	assert.Equal(t, "hash", got.DeletePassword)
	assert.NotNil(t, got.Replies)
	assert.Empty(t, got.Replies)
}

func testGetMissing(t *testing.T, storage service.Storage) {
	ctx := context.Background()
	missing := utils.NewId()

	_, err := storage.GetThread(ctx, missing)
	assert.ErrorIs(t, err, errors.ErrNotFound)
	assert.ErrorIs(t, storage.ReportThread(ctx, missing), errors.ErrNotFound)
	assert.ErrorIs(t, storage.DeleteThread(ctx, missing), errors.ErrNotFound)
	assert.ErrorIs(t, storage.AddReply(ctx, missing, newReply("x", base), base), errors.ErrNotFound)
	assert.ErrorIs(t, storage.ReportReply(ctx, missing, "r"), errors.ErrNotFound)
	assert.ErrorIs(t, storage.SetReplyText(ctx, missing, "r", "x"), errors.ErrNotFound)
	assert.ErrorIs(t, storage.ClearReports(ctx, missing), errors.ErrNotFound)
}

func testList(t *testing.T, storage service.Storage) {
	ctx := context.Background()
	board := newBoard()
	for i := range 12 {
		mustCreate(t, storage, newThread(board, base.Add(time.Duration(i)*time.Minute)))
	}
	mustCreate(t, storage, newThread(newBoard(), base.Add(time.Hour)))

	threads, err := storage.ListThreads(ctx, board, 10)
	require.NoError(t, err)
	require.Len(t, threads, 10)
	for i, th := range threads {
		assert.Equal(t, board, th.Board)
		assert.True(t, base.Add(time.Duration(11-i)*time.Minute).Equal(th.BumpedOn), "position %d", i)
	}

	empty, err := storage.ListThreads(ctx, newBoard(), 10)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func testListTies(t *testing.T, storage service.Storage) {
	board := newBoard()
	a := mustCreate(t, storage, newThread(board, base))
	b := mustCreate(t, storage, newThread(board, base))

	first, err := storage.ListThreads(context.Background(), board, 10)
	require.NoError(t, err)
	second, err := storage.ListThreads(context.Background(), board, 10)
	require.NoError(t, err)

	require.Len(t, first, 2)
	assert.Equal(t, first[0].Id, second[0].Id, "equal bump times keep a stable order")
	assert.ElementsMatch(t, []string{a.Id, b.Id}, []string{first[0].Id, first[1].Id})
}

func testReportThread(t *testing.T, storage service.Storage) {
	thread := mustCreate(t, storage, newThread(newBoard(), base))

	require.NoError(t, storage.ReportThread(context.Background(), thread.Id))
	require.NoError(t, storage.ReportThread(context.Background(), thread.Id), "reporting twice is fine")

	got := mustGet(t, storage, thread.Id)
	assert.True(t, got.Reported)
	assert.True(t, thread.BumpedOn.Equal(got.BumpedOn), "reports do not bump")
}

func testDeleteThread(t *testing.T, storage service.Storage) {
	thread := newThread(newBoard(), base)
	thread.Replies = []domain.Reply{newReply("r", base)}
	mustCreate(t, storage, thread)

	require.NoError(t, storage.DeleteThread(context.Background(), thread.Id))
	_, err := storage.GetThread(context.Background(), thread.Id)
	assert.ErrorIs(t, err, errors.ErrNotFound)
}

func testAddReply(t *testing.T, storage service.Storage) {
	ctx := context.Background()
	thread := mustCreate(t, storage, newThread(newBoard(), base))

	first := newReply("first", base.Add(time.Minute))
	second := newReply("second", base.Add(2*time.Minute))
	require.NoError(t, storage.AddReply(ctx, thread.Id, first, first.CreatedOn))
	require.NoError(t, storage.AddReply(ctx, thread.Id, second, second.CreatedOn))

	got := mustGet(t, storage, thread.Id)
	require.Len(t, got.Replies, 2)
	assert.Equal(t, second.Id, got.Replies[0].Id, "newest reply first")
	assert.Equal(t, "second", got.Replies[0].Text)
	assert.Equal(t, "reply-hash", got.Replies[0].DeletePassword)
	assert.False(t, got.Replies[0].Reported)
	assert.True(t, second.CreatedOn.Equal(got.Replies[0].CreatedOn))
	assert.Equal(t, first.Id, got.Replies[1].Id)
	assert.True(t, second.CreatedOn.Equal(got.BumpedOn))
	assert.True(t, thread.CreatedOn.Equal(got.CreatedOn))
}

func testConcurrentReplies(t *testing.T, storage service.Storage) {
	ctx := context.Background()
	thread := mustCreate(t, storage, newThread(newBoard(), base))

	const n = 20
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			at := base.Add(time.Duration(i+1) * time.Second)
			errs <- storage.AddReply(ctx, thread.Id, newReply(fmt.Sprintf("r%d", i), at), at)
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	got := mustGet(t, storage, thread.Id)
	assert.Len(t, got.Replies, n, "no reply is lost")
}

func testReportReply(t *testing.T, storage service.Storage) {
	ctx := context.Background()
	thread := newThread(newBoard(), base)
	target := newReply("target", base)
	other := newReply("other", base)
	thread.Replies = []domain.Reply{other, target}
	mustCreate(t, storage, thread)

	require.NoError(t, storage.ReportReply(ctx, thread.Id, target.Id))
	assert.ErrorIs(t, storage.ReportReply(ctx, thread.Id, "missing"), errors.ErrNotFound)

	got := mustGet(t, storage, thread.Id)
	assert.True(t, got.Replies[1].Reported)
	assert.Equal(t, "target", got.Replies[1].Text)
	assert.False(t, got.Replies[0].Reported)
	assert.False(t, got.Reported)
}

func testSetReplyText(t *testing.T, storage service.Storage) {
	ctx := context.Background()
	thread := newThread(newBoard(), base)
	target := newReply("target", base.Add(time.Second))
	thread.Replies = []domain.Reply{target}
	mustCreate(t, storage, thread)

	require.NoError(t, storage.SetReplyText(ctx, thread.Id, target.Id, domain.DeletedText))
	assert.ErrorIs(t, storage.SetReplyText(ctx, thread.Id, "missing", domain.DeletedText), errors.ErrNotFound)

	got := mustGet(t, storage, thread.Id)
	require.Len(t, got.Replies, 1)
	assert.Equal(t, domain.DeletedText, got.Replies[0].Text)
	assert.Equal(t, target.Id, got.Replies[0].Id)
	assert.Equal(t, target.DeletePassword, got.Replies[0].DeletePassword)
	assert.True(t, target.CreatedOn.Equal(got.Replies[0].CreatedOn))
}

func testReported(t *testing.T, storage service.Storage) {
	ctx := context.Background()
	board := newBoard()
	clean := mustCreate(t, storage, newThread(board, base))
	flagged := mustCreate(t, storage, newThread(board, base.Add(time.Minute)))
	withReply := newThread(board, base.Add(2*time.Minute))
	reply := newReply("bad", base)
	withReply.Replies = []domain.Reply{reply}
	mustCreate(t, storage, withReply)

	require.NoError(t, storage.ReportThread(ctx, flagged.Id))
	require.NoError(t, storage.ReportReply(ctx, withReply.Id, reply.Id))

	reported, err := storage.ReportedThreads(ctx, board)
	require.NoError(t, err)
	ids := make([]string, 0, len(reported))
	for _, th := range reported {
		ids = append(ids, th.Id)
	}
	assert.ElementsMatch(t, []string{flagged.Id, withReply.Id}, ids)
	assert.NotContains(t, ids, clean.Id)

	require.NoError(t, storage.ClearReports(ctx, withReply.Id))
	got := mustGet(t, storage, withReply.Id)
	assert.False(t, got.HasReports())

	reported, err = storage.ReportedThreads(ctx, board)
	require.NoError(t, err)
	require.Len(t, reported, 1)
	assert.Equal(t, flagged.Id, reported[0].Id)
}

func testGC(t *testing.T, storage service.Storage) {
	ctx := context.Background()
	board := newBoard()
	oldest := mustCreate(t, storage, newThread(board, base))
	bumped := mustCreate(t, storage, newThread(board, base.Add(-time.Hour)))
	mustCreate(t, storage, newThread(board, base.Add(time.Minute)))
	require.NoError(t, storage.AddReply(ctx, bumped.Id, newReply("up", base.Add(time.Hour)), base.Add(time.Hour)))

	boards, err := storage.Boards(ctx)
	require.NoError(t, err)
	assert.Contains(t, boards, board)

	count, err := storage.ThreadCount(ctx, board)
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	id, err := storage.LeastBumpedThreadId(ctx, board)
	require.NoError(t, err)
	assert.Equal(t, oldest.Id, id, "replies save a thread from pruning")

	_, err = storage.LeastBumpedThreadId(ctx, newBoard())
	assert.ErrorIs(t, err, errors.ErrNotFound)
}

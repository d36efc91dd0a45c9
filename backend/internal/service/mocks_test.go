package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/itchan-dev/msgboard/shared/config"
	"github.com/itchan-dev/msgboard/shared/domain"
	"github.com/itchan-dev/msgboard/shared/errors"
	"github.com/itchan-dev/msgboard/shared/utils"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// --- Mocks ---

// MockThreadStorage mocks ThreadStorage and ModerationStorage.
type MockThreadStorage struct {
	createThreadFunc    func(thread domain.Thread) error
	getThreadFunc       func(id domain.ThreadId) (domain.Thread, error)
	listThreadsFunc     func(board domain.BoardShortName, limit int) ([]domain.Thread, error)
	reportThreadFunc    func(id domain.ThreadId) error
	deleteThreadFunc    func(id domain.ThreadId) error
	addReplyFunc        func(threadId domain.ThreadId, reply domain.Reply, bumpedOn time.Time) error
	reportReplyFunc     func(threadId domain.ThreadId, replyId domain.ReplyId) error
	setReplyTextFunc    func(threadId domain.ThreadId, replyId domain.ReplyId, text domain.PostText) error
	reportedThreadsFunc func(board domain.BoardShortName) ([]domain.Thread, error)
	clearReportsFunc    func(id domain.ThreadId) error

	mu      sync.Mutex
	created []domain.Thread
	calls   []string
}

func (m *MockThreadStorage) track(call string) {
	m.mu.Lock()
	m.calls = append(m.calls, call)
	m.mu.Unlock()
}

func (m *MockThreadStorage) called(call string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.calls {
		if c == call {
			return true
		}
	}
	return false
}

func (m *MockThreadStorage) CreateThread(ctx context.Context, thread domain.Thread) error {
	m.track("CreateThread")
	if m.createThreadFunc != nil {
		if err := m.createThreadFunc(thread); err != nil {
			return err
		}
	}
	m.mu.Lock()
	m.created = append(m.created, thread)
	m.mu.Unlock()
	return nil
}

func (m *MockThreadStorage) GetThread(ctx context.Context, id domain.ThreadId) (domain.Thread, error) {
	m.track("GetThread")
	if m.getThreadFunc != nil {
		return m.getThreadFunc(id)
	}
	return domain.Thread{}, errors.ErrNotFound
}

func (m *MockThreadStorage) ListThreads(ctx context.Context, board domain.BoardShortName, limit int) ([]domain.Thread, error) {
	m.track("ListThreads")
	if m.listThreadsFunc != nil {
		return m.listThreadsFunc(board, limit)
	}
	return nil, nil
}

func (m *MockThreadStorage) ReportThread(ctx context.Context, id domain.ThreadId) error {
	m.track("ReportThread")
	if m.reportThreadFunc != nil {
		return m.reportThreadFunc(id)
	}
	return nil
}

func (m *MockThreadStorage) DeleteThread(ctx context.Context, id domain.ThreadId) error {
	m.track("DeleteThread")
	if m.deleteThreadFunc != nil {
		return m.deleteThreadFunc(id)
	}
	return nil
}

func (m *MockThreadStorage) AddReply(ctx context.Context, threadId domain.ThreadId, reply domain.Reply, bumpedOn time.Time) error {
	m.track("AddReply")
	if m.addReplyFunc != nil {
		return m.addReplyFunc(threadId, reply, bumpedOn)
	}
	return nil
}

func (m *MockThreadStorage) ReportReply(ctx context.Context, threadId domain.ThreadId, replyId domain.ReplyId) error {
	m.track("ReportReply")
	if m.reportReplyFunc != nil {
		return m.reportReplyFunc(threadId, replyId)
	}
	return nil
}

func (m *MockThreadStorage) SetReplyText(ctx context.Context, threadId domain.ThreadId, replyId domain.ReplyId, text domain.PostText) error {
	m.track("SetReplyText")
	if m.setReplyTextFunc != nil {
		return m.setReplyTextFunc(threadId, replyId, text)
	}
	return nil
}

func (m *MockThreadStorage) ReportedThreads(ctx context.Context, board domain.BoardShortName) ([]domain.Thread, error) {
	m.track("ReportedThreads")
	if m.reportedThreadsFunc != nil {
		return m.reportedThreadsFunc(board)
	}
	return nil, nil
}

func (m *MockThreadStorage) ClearReports(ctx context.Context, id domain.ThreadId) error {
	m.track("ClearReports")
	if m.clearReportsFunc != nil {
		return m.clearReportsFunc(id)
	}
	return nil
}

// MockPostValidator mocks the PostValidator interface.
type MockPostValidator struct {
	boardNameFunc func(name domain.BoardShortName) error
	textFunc      func(text domain.PostText) error
}

func (m *MockPostValidator) BoardName(name domain.BoardShortName) error {
	if m.boardNameFunc != nil {
		return m.boardNameFunc(name)
	}
	return nil
}

func (m *MockPostValidator) Text(text domain.PostText) error {
	if m.textFunc != nil {
		return m.textFunc(text)
	}
	if text == "" {
		return errors.Validation(utils.IncompleteForm)
	}
	return nil
}

// --- Helpers ---

func testConfig() *config.Public {
	cfg := config.Default().Public
	cfg.Security.BcryptCost = bcrypt.MinCost
	return &cfg
}

func hashed(t *testing.T, password string) string {
	t.Helper()
	hash, err := utils.HashPassword(password, bcrypt.MinCost)
	require.NoError(t, err)
	return hash
}

func requireKind(t *testing.T, err error, kind errors.Kind, msg string) {
	t.Helper()
	require.Error(t, err)
	require.Equal(t, kind, errors.KindOf(err), "unexpected kind of %q", err.Error())
	require.Equal(t, msg, err.Error())
}

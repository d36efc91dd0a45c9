package handler

import (
	"context"

	"github.com/itchan-dev/msgboard/shared/domain"
)

type MockThreadService struct {
	ListFunc   func(ctx context.Context, board domain.BoardShortName) ([]domain.ThreadPreview, error)
	CreateFunc func(ctx context.Context, data domain.ThreadCreationData) (domain.ThreadId, error)
	GetFunc    func(ctx context.Context, board domain.BoardShortName, id domain.ThreadId) (domain.Thread, error)
	ReportFunc func(ctx context.Context, board domain.BoardShortName, id domain.ThreadId) error
	DeleteFunc func(ctx context.Context, board domain.BoardShortName, id domain.ThreadId, password domain.DeletePassword) error
}

func (m *MockThreadService) List(ctx context.Context, board domain.BoardShortName) ([]domain.ThreadPreview, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, board)
	}
	return nil, nil
}

func (m *MockThreadService) Create(ctx context.Context, data domain.ThreadCreationData) (domain.ThreadId, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, data)
	}
	return "thread-id", nil
}

func (m *MockThreadService) Get(ctx context.Context, board domain.BoardShortName, id domain.ThreadId) (domain.Thread, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, board, id)
	}
	return domain.Thread{Id: id, Board: board, Replies: []domain.Reply{}}, nil
}

func (m *MockThreadService) Report(ctx context.Context, board domain.BoardShortName, id domain.ThreadId) error {
	if m.ReportFunc != nil {
		return m.ReportFunc(ctx, board, id)
	}
	return nil
}

func (m *MockThreadService) Delete(ctx context.Context, board domain.BoardShortName, id domain.ThreadId, password domain.DeletePassword) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, board, id, password)
	}
	return nil
}

type MockReplyService struct {
	CreateFunc func(ctx context.Context, data domain.ReplyCreationData) (domain.ReplyId, error)
	ReportFunc func(ctx context.Context, board domain.BoardShortName, threadId domain.ThreadId, replyId domain.ReplyId) error
	DeleteFunc func(ctx context.Context, board domain.BoardShortName, threadId domain.ThreadId, replyId domain.ReplyId, password domain.DeletePassword) error
}

func (m *MockReplyService) Create(ctx context.Context, data domain.ReplyCreationData) (domain.ReplyId, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, data)
	}
	return "reply-id", nil
}

func (m *MockReplyService) Report(ctx context.Context, board domain.BoardShortName, threadId domain.ThreadId, replyId domain.ReplyId) error {
	if m.ReportFunc != nil {
		return m.ReportFunc(ctx, board, threadId, replyId)
	}
	return nil
}

func (m *MockReplyService) Delete(ctx context.Context, board domain.BoardShortName, threadId domain.ThreadId, replyId domain.ReplyId, password domain.DeletePassword) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, board, threadId, replyId, password)
	}
	return nil
}

type MockModerationService struct {
	ReportedFunc     func(ctx context.Context, board domain.BoardShortName) ([]domain.Thread, error)
	DeleteThreadFunc func(ctx context.Context, board domain.BoardShortName, id domain.ThreadId) error
	ClearReportsFunc func(ctx context.Context, board domain.BoardShortName, id domain.ThreadId) error
}

func (m *MockModerationService) Reported(ctx context.Context, board domain.BoardShortName) ([]domain.Thread, error) {
	if m.ReportedFunc != nil {
		return m.ReportedFunc(ctx, board)
	}
	return nil, nil
}

func (m *MockModerationService) DeleteThread(ctx context.Context, board domain.BoardShortName, id domain.ThreadId) error {
	if m.DeleteThreadFunc != nil {
		return m.DeleteThreadFunc(ctx, board, id)
	}
	return nil
}

func (m *MockModerationService) ClearReports(ctx context.Context, board domain.BoardShortName, id domain.ThreadId) error {
	if m.ClearReportsFunc != nil {
		return m.ClearReportsFunc(ctx, board, id)
	}
	return nil
}

type MockHealthChecker struct {
	PingFunc func(ctx context.Context) error
}

func (m *MockHealthChecker) Ping(ctx context.Context) error {
	if m.PingFunc != nil {
		return m.PingFunc(ctx)
	}
	return nil
}

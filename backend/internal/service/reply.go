package service

import (
	"context"

	"github.com/itchan-dev/msgboard/shared/config"
	"github.com/itchan-dev/msgboard/shared/domain"
	"github.com/itchan-dev/msgboard/shared/errors"
	"github.com/itchan-dev/msgboard/shared/utils"
)

type ReplyService interface {
	Create(ctx context.Context, data domain.ReplyCreationData) (domain.ReplyId, error)
	Report(ctx context.Context, board domain.BoardShortName, threadId domain.ThreadId, replyId domain.ReplyId) error
	Delete(ctx context.Context, board domain.BoardShortName, threadId domain.ThreadId, replyId domain.ReplyId, password domain.DeletePassword) error
}

type Reply struct {
	storage   ThreadStorage
	validator PostValidator
	cfg       *config.Public
}

func NewReply(storage ThreadStorage, validator PostValidator, cfg *config.Public) *Reply {
	return &Reply{storage: storage, validator: validator, cfg: cfg}
}

// Create prepends a new reply to the thread and bumps it.
func (s *Reply) Create(ctx context.Context, data domain.ReplyCreationData) (domain.ReplyId, error) {
	if data.Board == "" || data.ThreadId == "" || data.DeletePassword == "" {
		return "", errors.Validation(utils.IncompleteForm)
	}
	if err := s.validator.Text(data.Text); err != nil {
		return "", err
	}
	if _, err := findThread(ctx, s.storage, data.Board, data.ThreadId); err != nil {
		return "", err
	}

	hash, err := utils.HashPassword(data.DeletePassword, s.cfg.Security.BcryptCost)
	if err != nil {
		return "", errors.Persistence("could not save reply", err)
	}

	createdOn := now()
	reply := domain.Reply{
		Id:             utils.NewId(),
		Text:           data.Text,
		DeletePassword: hash,
		CreatedOn:      createdOn,
	}
	if err := s.storage.AddReply(ctx, data.ThreadId, reply, createdOn); err != nil {
		return "", mutationError(err, msgThreadNotFound, "could not save reply")
	}

	postsTotal.WithLabelValues(kindReply).Inc()
	return reply.Id, nil
}

func (s *Reply) Report(ctx context.Context, board domain.BoardShortName, threadId domain.ThreadId, replyId domain.ReplyId) error {
	thread, err := findThread(ctx, s.storage, board, threadId)
	if err != nil {
		return err
	}
	if thread.ReplyIndex(replyId) < 0 {
		return errors.NotFound(msgReplyNotFound)
	}
	if err := s.storage.ReportReply(ctx, threadId, replyId); err != nil {
		return mutationError(err, msgReplyNotFound, "could not save thread")
	}

	reportsTotal.WithLabelValues(kindReply).Inc()
	return nil
}

// Delete redacts the reply text. The entry keeps its id, timestamp and password.
func (s *Reply) Delete(ctx context.Context, board domain.BoardShortName, threadId domain.ThreadId, replyId domain.ReplyId, password domain.DeletePassword) error {
	thread, err := findThread(ctx, s.storage, board, threadId)
	if err != nil {
		return err
	}
	i := thread.ReplyIndex(replyId)
	if i < 0 {
		return errors.NotFound(msgReplyNotFound)
	}
	if !utils.PasswordMatches(thread.Replies[i].DeletePassword, password) {
		return errors.Unauthorized(msgWrongPassword)
	}
	if err := s.storage.SetReplyText(ctx, threadId, replyId, domain.DeletedText); err != nil {
		return mutationError(err, msgReplyNotFound, "could not delete reply")
	}

	deletionsTotal.WithLabelValues(kindReply).Inc()
	return nil
}

package service

import (
	"context"
	"slices"

	"github.com/itchan-dev/msgboard/shared/config"
	"github.com/itchan-dev/msgboard/shared/domain"
	"github.com/itchan-dev/msgboard/shared/errors"
	"github.com/itchan-dev/msgboard/shared/utils"
)

type ThreadService interface {
	List(ctx context.Context, board domain.BoardShortName) ([]domain.ThreadPreview, error)
	Create(ctx context.Context, data domain.ThreadCreationData) (domain.ThreadId, error)
	Get(ctx context.Context, board domain.BoardShortName, id domain.ThreadId) (domain.Thread, error)
	Report(ctx context.Context, board domain.BoardShortName, id domain.ThreadId) error
	Delete(ctx context.Context, board domain.BoardShortName, id domain.ThreadId, password domain.DeletePassword) error
}

type Thread struct {
	storage   ThreadStorage
	validator PostValidator
	cfg       *config.Public
}

func NewThread(storage ThreadStorage, validator PostValidator, cfg *config.Public) *Thread {
	return &Thread{storage: storage, validator: validator, cfg: cfg}
}

// List returns the board listing: the most recently bumped threads, each
// with its newest replies only.
func (s *Thread) List(ctx context.Context, board domain.BoardShortName) ([]domain.ThreadPreview, error) {
	threads, err := s.storage.ListThreads(ctx, board, s.cfg.Board.ThreadsPerPage)
	if err != nil {
		return nil, errors.Persistence("could not get threads", err)
	}
	slices.SortFunc(threads, compareRecency)
	if len(threads) > s.cfg.Board.ThreadsPerPage {
		threads = threads[:s.cfg.Board.ThreadsPerPage]
	}

	previews := make([]domain.ThreadPreview, 0, len(threads))
	for _, t := range threads {
		p := domain.ThreadPreview{Thread: t, ReplyCount: len(t.Replies)}
		if len(p.Replies) > s.cfg.Board.PreviewReplies {
			p.Replies = p.Replies[:s.cfg.Board.PreviewReplies]
		}
		previews = append(previews, p)
	}
	return previews, nil
}

func (s *Thread) Create(ctx context.Context, data domain.ThreadCreationData) (domain.ThreadId, error) {
	if data.Board == "" || data.DeletePassword == "" {
		return "", errors.Validation(utils.IncompleteForm)
	}
	if err := s.validator.BoardName(data.Board); err != nil {
		return "", err
	}
	if err := s.validator.Text(data.Text); err != nil {
		return "", err
	}

	hash, err := utils.HashPassword(data.DeletePassword, s.cfg.Security.BcryptCost)
	if err != nil {
		return "", errors.Persistence("could not save thread", err)
	}

	createdOn := now()
	thread := domain.Thread{
		Id:             utils.NewId(),
		Board:          data.Board,
		Text:           data.Text,
		CreatedOn:      createdOn,
		BumpedOn:       createdOn,
		DeletePassword: hash,
		Replies:        []domain.Reply{},
	}
	if err := s.storage.CreateThread(ctx, thread); err != nil {
		return "", errors.Persistence("could not save thread", err)
	}

	postsTotal.WithLabelValues(kindThread).Inc()
	return thread.Id, nil
}

// Get returns the thread with all of its replies.
func (s *Thread) Get(ctx context.Context, board domain.BoardShortName, id domain.ThreadId) (domain.Thread, error) {
	thread, err := findThread(ctx, s.storage, board, id)
	if err != nil {
		return domain.Thread{}, err
	}
	if thread.Replies == nil {
		thread.Replies = []domain.Reply{}
	}
	return thread, nil
}

func (s *Thread) Report(ctx context.Context, board domain.BoardShortName, id domain.ThreadId) error {
	if _, err := findThread(ctx, s.storage, board, id); err != nil {
		return err
	}
	if err := s.storage.ReportThread(ctx, id); err != nil {
		return mutationError(err, msgThreadNotFound, "could not save thread")
	}

	reportsTotal.WithLabelValues(kindThread).Inc()
	return nil
}

func (s *Thread) Delete(ctx context.Context, board domain.BoardShortName, id domain.ThreadId, password domain.DeletePassword) error {
	thread, err := findThread(ctx, s.storage, board, id)
	if err != nil {
		return err
	}
	if !utils.PasswordMatches(thread.DeletePassword, password) {
		return errors.Unauthorized(msgWrongPassword)
	}
	if err := s.storage.DeleteThread(ctx, id); err != nil {
		return mutationError(err, msgThreadNotFound, "could not delete thread")
	}

	deletionsTotal.WithLabelValues(kindThread).Inc()
	return nil
}

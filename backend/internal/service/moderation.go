package service

import (
	"context"

	"github.com/itchan-dev/msgboard/shared/domain"
	"github.com/itchan-dev/msgboard/shared/errors"
)

type ModerationService interface {
	Reported(ctx context.Context, board domain.BoardShortName) ([]domain.Thread, error)
	DeleteThread(ctx context.Context, board domain.BoardShortName, id domain.ThreadId) error
	ClearReports(ctx context.Context, board domain.BoardShortName, id domain.ThreadId) error
}

// Moderation backs the admin endpoints: no delete passwords are involved.
type Moderation struct {
	storage ModerationStorage
}

func NewModeration(storage ModerationStorage) *Moderation {
	return &Moderation{storage: storage}
}

func (s *Moderation) Reported(ctx context.Context, board domain.BoardShortName) ([]domain.Thread, error) {
	threads, err := s.storage.ReportedThreads(ctx, board)
	if err != nil {
		return nil, errors.Persistence("could not get threads", err)
	}
	return threads, nil
}

func (s *Moderation) DeleteThread(ctx context.Context, board domain.BoardShortName, id domain.ThreadId) error {
	if _, err := findThread(ctx, s.storage, board, id); err != nil {
		return err
	}
	if err := s.storage.DeleteThread(ctx, id); err != nil {
		return mutationError(err, msgThreadNotFound, "could not delete thread")
	}

	deletionsTotal.WithLabelValues(kindThread).Inc()
	return nil
}

func (s *Moderation) ClearReports(ctx context.Context, board domain.BoardShortName, id domain.ThreadId) error {
	if _, err := findThread(ctx, s.storage, board, id); err != nil {
		return err
	}
	if err := s.storage.ClearReports(ctx, id); err != nil {
		return mutationError(err, msgThreadNotFound, "could not save thread")
	}
	return nil
}

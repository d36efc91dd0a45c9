package api

import (
	"time"

	"github.com/itchan-dev/msgboard/shared/domain"
)

// Request DTOs
// Board falls back to the {board} path parameter when the body omits it.

type CreateThreadRequest struct {
	Board          string `json:"board" validate:"required"`
	Text           string `json:"text" validate:"required"`
	DeletePassword string `json:"delete_password" validate:"required"`
}

type ReportThreadRequest struct {
	Board    string `json:"board" validate:"required"`
	ThreadId string `json:"thread_id" validate:"required"`
}

type DeleteThreadRequest struct {
	Board          string `json:"board" validate:"required"`
	ThreadId       string `json:"thread_id" validate:"required"`
	DeletePassword string `json:"delete_password" validate:"required"`
}

type GetThreadRequest struct {
	Board    string `json:"board" validate:"required"`
	ThreadId string `json:"thread_id" validate:"required"`
}

// Response DTOs
// Field names follow the wire format existing board clients read (_id, replycount).
// reported and delete_password are never part of a public response.

// ThreadPreviewResponse is one entry of a board listing
type ThreadPreviewResponse struct {
	Id         domain.ThreadId `json:"_id"`
	Board      string          `json:"board"`
	Text       string          `json:"text"`
	CreatedOn  time.Time       `json:"created_on"`
	BumpedOn   time.Time       `json:"bumped_on"`
	ReplyCount int             `json:"replycount"`
	Replies    []ReplyResponse `json:"replies"`
}

// ThreadResponse is a thread with all of its replies
type ThreadResponse struct {
	Id        domain.ThreadId `json:"_id"`
	Board     string          `json:"board"`
	Text      string          `json:"text"`
	CreatedOn time.Time       `json:"created_on"`
	BumpedOn  time.Time       `json:"bumped_on"`
	Replies   []ReplyResponse `json:"replies"`
}

func NewThreadPreviewResponse(p domain.ThreadPreview) ThreadPreviewResponse {
	return ThreadPreviewResponse{
		Id:         p.Id,
		Board:      p.Board,
		Text:       p.Text,
		CreatedOn:  p.CreatedOn,
		BumpedOn:   p.BumpedOn,
		ReplyCount: p.ReplyCount,
		Replies:    newReplyResponses(p.Replies),
	}
}

func NewThreadPreviewListResponse(previews []domain.ThreadPreview) []ThreadPreviewResponse {
	res := make([]ThreadPreviewResponse, 0, len(previews))
	for _, p := range previews {
		res = append(res, NewThreadPreviewResponse(p))
	}
	return res
}

func NewThreadResponse(t domain.Thread) ThreadResponse {
	return ThreadResponse{
		Id:        t.Id,
		Board:     t.Board,
		Text:      t.Text,
		CreatedOn: t.CreatedOn,
		BumpedOn:  t.BumpedOn,
		Replies:   newReplyResponses(t.Replies),
	}
}

package api

import (
	"time"

	"github.com/itchan-dev/msgboard/shared/domain"
)

// Request DTOs

type CreateReplyRequest struct {
	Board          string `json:"board" validate:"required"`
	ThreadId       string `json:"thread_id" validate:"required"`
	Text           string `json:"text" validate:"required"`
	DeletePassword string `json:"delete_password" validate:"required"`
}

type ReportReplyRequest struct {
	Board    string `json:"board" validate:"required"`
	ThreadId string `json:"thread_id" validate:"required"`
	ReplyId  string `json:"reply_id" validate:"required"`
}

type DeleteReplyRequest struct {
	Board          string `json:"board" validate:"required"`
	ThreadId       string `json:"thread_id" validate:"required"`
	ReplyId        string `json:"reply_id" validate:"required"`
	DeletePassword string `json:"delete_password" validate:"required"`
}

// Response DTOs

type ReplyResponse struct {
	Id        domain.ReplyId `json:"_id"`
	Text      string         `json:"text"`
	CreatedOn time.Time      `json:"created_on"`
}

func NewReplyResponse(r domain.Reply) ReplyResponse {
	return ReplyResponse{Id: r.Id, Text: r.Text, CreatedOn: r.CreatedOn}
}

// always non-nil so an empty thread encodes as "replies": []
func newReplyResponses(replies []domain.Reply) []ReplyResponse {
	res := make([]ReplyResponse, 0, len(replies))
	for _, r := range replies {
		res = append(res, NewReplyResponse(r))
	}
	return res
}

package api

import (
	"time"

	"github.com/itchan-dev/msgboard/shared/domain"
)

// Moderation views expose the report flags but still never the passwords.

type ReportedReplyResponse struct {
	ReplyResponse
	Reported bool `json:"reported"`
}

type ReportedThreadResponse struct {
	Id        domain.ThreadId         `json:"_id"`
	Board     string                  `json:"board"`
	Text      string                  `json:"text"`
	CreatedOn time.Time               `json:"created_on"`
	BumpedOn  time.Time               `json:"bumped_on"`
	Reported  bool                    `json:"reported"`
	Replies   []ReportedReplyResponse `json:"replies"`
}

type ReportedListResponse struct {
	Threads []ReportedThreadResponse `json:"threads"`
}

func NewReportedListResponse(threads []domain.Thread) ReportedListResponse {
	res := ReportedListResponse{Threads: make([]ReportedThreadResponse, 0, len(threads))}
	for _, t := range threads {
		replies := make([]ReportedReplyResponse, 0, len(t.Replies))
		for _, r := range t.Replies {
			replies = append(replies, ReportedReplyResponse{ReplyResponse: NewReplyResponse(r), Reported: r.Reported})
		}
		res.Threads = append(res.Threads, ReportedThreadResponse{
			Id:        t.Id,
			Board:     t.Board,
			Text:      t.Text,
			CreatedOn: t.CreatedOn,
			BumpedOn:  t.BumpedOn,
			Reported:  t.Reported,
			Replies:   replies,
		})
	}
	return res
}

package domain

import (
	"time"
)

// to iterate thru layers: handler -> service -> storage
type ThreadCreationData struct {
	Board          BoardShortName
	Text           PostText
	DeletePassword DeletePassword
}

// Thread is the stored document. Replies are contained in it, newest first.
type Thread struct {
	Id             ThreadId       `bson:"_id"`
	Board          BoardShortName `bson:"board"`
	Text           PostText       `bson:"text"`
	CreatedOn      time.Time      `bson:"created_on"`
	BumpedOn       time.Time      `bson:"bumped_on"`
	Reported       bool           `bson:"reported"`
	DeletePassword DeletePassword `bson:"delete_password"`
	Replies        []Reply        `bson:"replies"`
}

// ThreadPreview is a thread as shown in a board listing: only the most
// recent replies are kept, ReplyCount is the count before truncation.
type ThreadPreview struct {
	Thread
	ReplyCount int
}

// HasReports reports whether the thread or any of its replies is flagged.
func (t *Thread) HasReports() bool {
	if t.Reported {
		return true
	}
	for _, r := range t.Replies {
		if r.Reported {
			return true
		}
	}
	return false
}

// ReplyIndex returns the position of the reply with the given id or -1.
func (t *Thread) ReplyIndex(id ReplyId) int {
	for i := range t.Replies {
		if t.Replies[i].Id == id {
			return i
		}
	}
	return -1
}

// ClearReports resets the report flags of the thread and all of its replies.
func (t *Thread) ClearReports() {
	t.Reported = false
	for i := range t.Replies {
		t.Replies[i].Reported = false
	}
}

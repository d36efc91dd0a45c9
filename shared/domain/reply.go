package domain

import "time"

// DeletedText replaces the text of a deleted reply. The entry itself stays.
const DeletedText = "[DELETED]"

type ReplyCreationData struct {
	Board          BoardShortName
	ThreadId       ThreadId
	Text           PostText
	DeletePassword DeletePassword
}

// json tags are the on-disk format of the replies column in the SQL stores.
type Reply struct {
	Id             ReplyId        `bson:"id" json:"id"`
	Text           PostText       `bson:"text" json:"text"`
	DeletePassword DeletePassword `bson:"delete_password" json:"delete_password"`
	Reported       bool           `bson:"reported" json:"reported"`
	CreatedOn      time.Time      `bson:"created_on" json:"created_on"`
}

package domain

type (
	BoardShortName = string

	ThreadId = string
	ReplyId  = string

	PostText       = string
	DeletePassword = string // bcrypt hash once persisted
)

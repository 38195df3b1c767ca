package models

import (
	"time"
)

type ChatType string

const (
	ChatTypePrivate    ChatType = "private"
	ChatTypeGroup      ChatType = "group"
	ChatTypeSupergroup ChatType = "supergroup"
	ChatTypeChannel    ChatType = "channel"
)

// Message — входящее сообщение чата в транспортно-независимом виде.
type Message struct {
	UpdateID  int64
	MessageID int64
	ChatID    int64
	ChatType  ChatType
	UserID    int64
	Username  string
	Text      string
	SentAt    time.Time
}

package domain

import "time"

// Транспортные типы Telegram, независимые от конкретной библиотеки бота.

type Update struct {
	UpdateID int64
	Message  *Message
}

type Message struct {
	MessageID int64
	Text      string
	SentAt    time.Time
	Chat      Chat
	From      User
}

type Chat struct {
	ID       int64
	Type     string
	Title    string
	Username string
}

type User struct {
	ID        int64
	Username  string
	FirstName string
	LastName  string
}

type BotCommand struct {
	Command     string
	Description string
}

package models

import "time"

// Reminder — отложенное напоминание, созданное командой remind.
// Планировщик периодически выбирает созревшие напоминания и отправляет
// их в исходный чат.
type Reminder struct {
	ID        int64
	ChatID    int64
	UserID    int64
	Text      string
	RemindAt  time.Time
	Sent      bool
	CreatedAt time.Time
}

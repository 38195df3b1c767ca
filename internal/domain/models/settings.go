package models

import (
	"time"
)

// ChatSettings — настройки конкретного чата: переопределённый префикс команд
// и список отключённых в этом чате команд.
type ChatSettings struct {
	ChatID           int64
	Prefix           string
	DisabledCommands []string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (s *ChatSettings) IsCommandDisabled(name string) bool {
	for _, disabled := range s.DisabledCommands {
		if disabled == name {
			return true
		}
	}

	return false
}

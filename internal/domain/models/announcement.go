package models

import (
	"time"
)

// Announcement — объявление, доставляемое ботом в чаты по запросу
// внешних систем (через Kafka или HTTP API).
type Announcement struct {
	ID        int64
	Text      string
	ChatIDs   []int64
	Priority  string
	CreatedAt time.Time
}

package commands

import (
	"strconv"
)

// Bucket — правило выделения ключа ограничения частоты из контекста вызова.
type Bucket int

const (
	BucketGlobal Bucket = iota
	BucketUser
	BucketChannel
	BucketMember
	BucketCommand
)

func (b Bucket) String() string {
	switch b {
	case BucketUser:
		return "user"
	case BucketChannel:
		return "channel"
	case BucketMember:
		return "member"
	case BucketCommand:
		return "command"
	default:
		return "global"
	}
}

func (b Bucket) Key(inv *Invocation) string {
	switch b {
	case BucketUser:
		return "user:" + strconv.FormatInt(inv.Message.UserID, 10)
	case BucketChannel:
		return "channel:" + strconv.FormatInt(inv.Message.ChatID, 10)
	case BucketMember:
		return "member:" + strconv.FormatInt(inv.Message.ChatID, 10) + ":" + strconv.FormatInt(inv.Message.UserID, 10)
	case BucketCommand:
		return "command:" + inv.Command.FullName()
	default:
		return "global"
	}
}

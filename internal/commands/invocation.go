package commands

import (
	"time"

	"github.com/central-university-dev/go-commander/internal/domain/models"
)

type Outcome int

const (
	OutcomePending Outcome = iota
	OutcomeCompleted
	OutcomeFailed
)

// Invocation — временная запись одного вызова команды: исходное сообщение,
// распознанная команда, связанные аргументы и итог. Создаётся диспетчером
// на каждое входящее сообщение и не переживает диспетчеризацию.
type Invocation struct {
	Message   *models.Message
	Command   *Command
	Prefix    string
	RawArgs   string
	Args      map[string]any
	Outcome   Outcome
	Err       error
	StartedAt time.Time
}

func (inv *Invocation) Arg(name string) any {
	return inv.Args[name]
}

func (inv *Invocation) StringArg(name string) string {
	value, _ := inv.Args[name].(string)
	return value
}

func (inv *Invocation) IntArg(name string) int {
	value, _ := inv.Args[name].(int)
	return value
}

func (inv *Invocation) BoolArg(name string) bool {
	value, _ := inv.Args[name].(bool)
	return value
}

func (inv *Invocation) DurationArg(name string) time.Duration {
	value, _ := inv.Args[name].(time.Duration)
	return value
}

func (inv *Invocation) UserArg(name string) *models.User {
	value, _ := inv.Args[name].(*models.User)
	return value
}

func (inv *Invocation) ChatArg(name string) *models.Chat {
	value, _ := inv.Args[name].(*models.Chat)
	return value
}

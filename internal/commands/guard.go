package commands

import (
	"context"
)

// Guard — именованный предикат, который должен пройти до вызова тела команды.
// Предикат может обращаться к внешним сервисам (например, запрашивать роль),
// поэтому получает контекст. Возврат (false, err) трактуется как отказ с
// поясняющим сообщением из err.
type Guard interface {
	Name() string
	Allow(ctx context.Context, inv *Invocation) (bool, error)
}

type guardFunc struct {
	name string
	fn   func(ctx context.Context, inv *Invocation) (bool, error)
}

func NewGuard(name string, fn func(ctx context.Context, inv *Invocation) (bool, error)) Guard {
	return &guardFunc{name: name, fn: fn}
}

func (g *guardFunc) Name() string {
	return g.name
}

func (g *guardFunc) Allow(ctx context.Context, inv *Invocation) (bool, error) {
	return g.fn(ctx, inv)
}

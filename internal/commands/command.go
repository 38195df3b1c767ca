package commands

import (
	"context"
	"time"
	"unicode"

	"github.com/central-university-dev/go-commander/internal/commands/cooldown"
	domainerrors "github.com/central-university-dev/go-commander/internal/domain/errors"
)

// Handler — тело команды. Ошибка (или паника) оборачивается диспетчером
// в ErrCommandInvoke с сохранением исходной причины.
type Handler func(ctx context.Context, inv *Invocation) error

// CooldownSpec описывает одно ограничение частоты вызовов команды.
// Пустой алгоритм трактуется как GCRA, Burst < 1 — как 1.
type CooldownSpec struct {
	Bucket    Bucket
	Rate      int
	Period    time.Duration
	Burst     int
	Algorithm cooldown.Algorithm
}

// Command — зарегистрированная команда или группа подкоманд.
// Дерево подкоманд собирается до регистрации в реестре и после неё
// не изменяется.
type Command struct {
	Name        string
	Aliases     []string
	Description string
	Delimiter   rune
	Params      []*Parameter
	Handler     Handler

	guards          []Guard
	effectiveGuards []Guard
	cooldownSpecs   []CooldownSpec
	cooldowns       *cooldown.Set
	buckets         []Bucket
	parent          *Command
	subcommands     map[string]*Command
	children        []*Command
}

type Option func(*Command)

func WithAliases(aliases ...string) Option {
	return func(c *Command) {
		c.Aliases = append(c.Aliases, aliases...)
	}
}

func WithDescription(description string) Option {
	return func(c *Command) {
		c.Description = description
	}
}

// WithDelimiter переопределяет разделитель special-аргументов команды.
func WithDelimiter(delimiter rune) Option {
	return func(c *Command) {
		c.Delimiter = delimiter
	}
}

func WithParams(params ...Parameter) Option {
	return func(c *Command) {
		for _, param := range params {
			p := param
			c.Params = append(c.Params, &p)
		}
	}
}

func WithGuards(guards ...Guard) Option {
	return func(c *Command) {
		c.guards = append(c.guards, guards...)
	}
}

func WithCooldown(spec CooldownSpec) Option {
	return func(c *Command) {
		c.cooldownSpecs = append(c.cooldownSpecs, spec)
	}
}

func NewCommand(name string, handler Handler, opts ...Option) *Command {
	cmd := &Command{
		Name:        name,
		Handler:     handler,
		Delimiter:   '=',
		subcommands: make(map[string]*Command),
	}

	for _, opt := range opts {
		opt(cmd)
	}

	for _, param := range cmd.Params {
		if param.Type == nil {
			param.Type = String()
		}
	}

	if len(cmd.cooldownSpecs) > 0 {
		limiters := make([]*cooldown.Cooldown, 0, len(cmd.cooldownSpecs))

		for _, spec := range cmd.cooldownSpecs {
			algorithm := spec.Algorithm
			if algorithm == "" {
				algorithm = cooldown.GCRA
			}

			limiters = append(limiters, cooldown.New(algorithm, spec.Rate, spec.Period, spec.Burst))
			cmd.buckets = append(cmd.buckets, spec.Bucket)
		}

		cmd.cooldowns = cooldown.NewSet(limiters...)
	}

	return cmd
}

// NewGroup создаёт группу подкоманд без собственного обработчика:
// обращение к такой группе без известной подкоманды — это CommandNotFound.
func NewGroup(name string, opts ...Option) *Command {
	return NewCommand(name, nil, opts...)
}

// AddSubcommand добавляет вложенную команду. Коллизия имени или алиаса
// внутри группы отклоняется, группа остаётся без изменений.
func (c *Command) AddSubcommand(sub *Command) error {
	names := append([]string{sub.Name}, sub.Aliases...)

	for _, name := range names {
		if _, exists := c.subcommands[name]; exists {
			return &domainerrors.ErrCommandExists{Name: c.FullName() + " " + name}
		}
	}

	sub.parent = c

	for _, name := range names {
		c.subcommands[name] = sub
	}

	c.children = append(c.children, sub)

	return nil
}

func (c *Command) Subcommand(name string) (*Command, bool) {
	sub, ok := c.subcommands[name]
	return sub, ok
}

// Subcommands возвращает снимок вложенных команд в порядке добавления.
func (c *Command) Subcommands() []*Command {
	result := make([]*Command, len(c.children))
	copy(result, c.children)

	return result
}

func (c *Command) HasSubcommands() bool {
	return len(c.children) > 0
}

// FullName — полный путь команды в дереве групп, например "settings prefix".
func (c *Command) FullName() string {
	if c.parent == nil {
		return c.Name
	}

	return c.parent.FullName() + " " + c.Name
}

// Root возвращает вершину дерева, в котором состоит команда.
// Для команды верхнего уровня это она сама.
func (c *Command) Root() *Command {
	root := c
	for root.parent != nil {
		root = root.parent
	}

	return root
}

// Cooldowns возвращает набор кулдаунов команды; может быть nil.
func (c *Command) Cooldowns() *cooldown.Set {
	return c.cooldowns
}

// computeEffectiveGuards собирает итоговую цепочку guard'ов: унаследованные
// от реестра и групп идут первыми, собственные — после. Вычисляется один раз
// при регистрации, во время диспетчеризации цепочка не пересобирается.
func (c *Command) computeEffectiveGuards(inherited []Guard) {
	c.effectiveGuards = make([]Guard, 0, len(inherited)+len(c.guards))
	c.effectiveGuards = append(c.effectiveGuards, inherited...)
	c.effectiveGuards = append(c.effectiveGuards, c.guards...)

	for _, sub := range c.children {
		sub.computeEffectiveGuards(c.effectiveGuards)
	}
}

func (c *Command) positionalCount() int {
	count := 0

	for _, param := range c.Params {
		if param.Kind == KindPositional {
			count++
		}
	}

	return count
}

func (c *Command) restParam() *Parameter {
	for _, param := range c.Params {
		if param.Kind == KindRest {
			return param
		}
	}

	return nil
}

func (c *Command) specialParams() map[string]*Parameter {
	specials := make(map[string]*Parameter)

	for _, param := range c.Params {
		if param.Kind == KindSpecial {
			specials[param.Name] = param
		}
	}

	return specials
}

// validate проверяет инварианты команды и всех её подкоманд. Вызывается
// реестром до публикации, поэтому ошибки здесь — ошибки регистрации,
// а не диспетчеризации.
func (c *Command) validate() error {
	if c.Name == "" {
		return &domainerrors.ErrInvalidCommand{Name: c.FullName(), Reason: "пустое имя команды"}
	}

	names := append([]string{c.Name}, c.Aliases...)
	seen := make(map[string]struct{}, len(names))

	for _, name := range names {
		if name == "" {
			return &domainerrors.ErrInvalidCommand{Name: c.FullName(), Reason: "пустой алиас"}
		}

		if hasSpace(name) {
			return &domainerrors.ErrInvalidCommand{Name: c.FullName(), Reason: "имя '" + name + "' содержит пробелы"}
		}

		if _, duplicate := seen[name]; duplicate {
			return &domainerrors.ErrInvalidCommand{Name: c.FullName(), Reason: "дубликат имени или алиаса '" + name + "'"}
		}

		seen[name] = struct{}{}
	}

	if c.Delimiter == 0 || unicode.IsSpace(c.Delimiter) {
		return &domainerrors.ErrInvalidCommand{Name: c.FullName(), Reason: "разделитель special-аргументов должен быть одним непробельным символом"}
	}

	if c.Handler == nil && len(c.children) == 0 {
		return &domainerrors.ErrInvalidCommand{Name: c.FullName(), Reason: "команда без обработчика и подкоманд"}
	}

	if err := c.validateParams(); err != nil {
		return err
	}

	if err := c.validateCooldowns(); err != nil {
		return err
	}

	for _, sub := range c.children {
		if err := sub.validate(); err != nil {
			return err
		}
	}

	return nil
}

func (c *Command) validateParams() error {
	const (
		stagePositional = iota
		stageSpecial
		stageRest
	)

	stage := stagePositional
	seen := make(map[string]struct{}, len(c.Params))

	for _, param := range c.Params {
		if param.Name == "" {
			return &domainerrors.ErrInvalidParameter{CommandName: c.FullName(), ParamName: param.Name, Reason: "пустое имя параметра"}
		}

		if _, duplicate := seen[param.Name]; duplicate {
			return &domainerrors.ErrInvalidParameter{CommandName: c.FullName(), ParamName: param.Name, Reason: "дубликат имени параметра"}
		}

		seen[param.Name] = struct{}{}

		switch param.Kind {
		case KindPositional:
			if stage != stagePositional {
				return &domainerrors.ErrInvalidParameter{CommandName: c.FullName(), ParamName: param.Name, Reason: "позиционный параметр не может следовать за special-параметрами"}
			}
		case KindSpecial:
			if stage == stageRest {
				return &domainerrors.ErrInvalidParameter{CommandName: c.FullName(), ParamName: param.Name, Reason: "special-параметр после consume-rest"}
			}

			stage = stageSpecial
		case KindRest:
			if stage == stageRest {
				return &domainerrors.ErrInvalidParameter{CommandName: c.FullName(), ParamName: param.Name, Reason: "параметр consume-rest может быть только один"}
			}

			stage = stageRest
		}
	}

	return nil
}

func (c *Command) validateCooldowns() error {
	for _, spec := range c.cooldownSpecs {
		if spec.Rate < 1 {
			return &domainerrors.ErrInvalidCommand{Name: c.FullName(), Reason: "частота кулдауна должна быть не меньше 1"}
		}

		if spec.Period <= 0 {
			return &domainerrors.ErrInvalidCommand{Name: c.FullName(), Reason: "период кулдауна должен быть положительным"}
		}

		switch spec.Algorithm {
		case "", cooldown.FixedWindow, cooldown.GCRA:
		default:
			return &domainerrors.ErrInvalidCommand{Name: c.FullName(), Reason: "неизвестный алгоритм кулдауна '" + string(spec.Algorithm) + "'"}
		}
	}

	return nil
}

func hasSpace(s string) bool {
	for _, r := range s {
		if unicode.IsSpace(r) {
			return true
		}
	}

	return false
}

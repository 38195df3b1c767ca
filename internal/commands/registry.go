package commands

import (
	"sync"

	domainerrors "github.com/central-university-dev/go-commander/internal/domain/errors"
)

// Registry — потокобезопасный реестр команд. Реестр принадлежит
// приложению и наполняется один раз на старте, но перерегистрация
// и удаление допустимы и в работе: публикация изменений атомарна,
// конкурентные диспетчеризации не видят частично обновлённую таблицу.
type Registry struct {
	mu       sync.RWMutex
	commands map[string]*Command
	ordered  []*Command
	guards   []Guard
}

type RegistryOption func(*Registry)

// WithRegistryGuards задаёт guard'ы уровня реестра. Они ставятся перед
// guard'ами групп и команд в эффективной цепочке каждой команды.
func WithRegistryGuards(guards ...Guard) RegistryOption {
	return func(r *Registry) {
		r.guards = append(r.guards, guards...)
	}
}

func NewRegistry(opts ...RegistryOption) *Registry {
	registry := &Registry{
		commands: make(map[string]*Command),
	}

	for _, opt := range opts {
		opt(registry)
	}

	return registry
}

// Register валидирует команду и публикует её вместе с алиасами.
// Коллизия имени или алиаса возвращает ErrCommandExists, реестр
// при этом не меняется.
func (r *Registry) Register(cmd *Command) error {
	if err := cmd.validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	names := append([]string{cmd.Name}, cmd.Aliases...)

	for _, name := range names {
		if _, exists := r.commands[name]; exists {
			return &domainerrors.ErrCommandExists{Name: name}
		}
	}

	cmd.computeEffectiveGuards(r.guards)

	for _, name := range names {
		r.commands[name] = cmd
	}

	r.ordered = append(r.ordered, cmd)

	return nil
}

// Unregister удаляет команду и все её алиасы одним действием.
// Аргументом может быть как имя, так и любой алиас.
func (r *Registry) Unregister(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cmd, ok := r.commands[name]
	if !ok {
		return &domainerrors.ErrCommandNotFound{Name: name}
	}

	delete(r.commands, cmd.Name)

	for _, alias := range cmd.Aliases {
		delete(r.commands, alias)
	}

	for i, registered := range r.ordered {
		if registered == cmd {
			r.ordered = append(r.ordered[:i], r.ordered[i+1:]...)
			break
		}
	}

	return nil
}

// Lookup находит команду по первому токену строки и спускается по дереву
// групп, потребляя по одному токену на уровень. Возвращает команду и
// остаток текста после потреблённых токенов. Группа, чей следующий токен
// не совпал ни с одной подкомандой, сама принимает вызов, если у неё есть
// обработчик; иначе это ErrCommandNotFound.
func (r *Registry) Lookup(input string) (*Command, string, error) {
	name, remainder := splitFirstToken(input)
	if name == "" {
		return nil, "", &domainerrors.ErrCommandNotFound{Name: name}
	}

	r.mu.RLock()
	cmd, ok := r.commands[name]
	r.mu.RUnlock()

	if !ok {
		return nil, "", &domainerrors.ErrCommandNotFound{Name: name}
	}

	for cmd.HasSubcommands() {
		next, rest := splitFirstToken(remainder)
		if next == "" {
			break
		}

		sub, found := cmd.Subcommand(next)
		if !found {
			break
		}

		cmd = sub
		remainder = rest
	}

	if cmd.Handler == nil {
		return nil, "", &domainerrors.ErrCommandNotFound{Name: cmd.FullName()}
	}

	return cmd, remainder, nil
}

// Get возвращает команду верхнего уровня по имени или алиасу.
func (r *Registry) Get(name string) (*Command, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cmd, ok := r.commands[name]

	return cmd, ok
}

// Commands возвращает снимок команд верхнего уровня в порядке регистрации.
func (r *Registry) Commands() []*Command {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*Command, len(r.ordered))
	copy(result, r.ordered)

	return result
}

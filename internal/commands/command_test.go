package commands_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/central-university-dev/go-commander/internal/commands"
	domainerrors "github.com/central-university-dev/go-commander/internal/domain/errors"
)

func TestNewCommand_DefaultsParamTypeToString(t *testing.T) {
	cmd := commands.NewCommand("echo", noopHandler,
		commands.WithParams(commands.Parameter{Name: "text", Kind: commands.KindRest}),
	)

	require.Len(t, cmd.Params, 1)
	require.NotNil(t, cmd.Params[0].Type)

	value, err := cmd.Params[0].Type.Convert(context.Background(), nil, "  как есть  ")
	require.NoError(t, err)
	assert.Equal(t, "  как есть  ", value)
}

func TestCommand_FullNameAndRoot(t *testing.T) {
	prefix := commands.NewCommand("prefix", noopHandler)
	group := commands.NewGroup("settings")
	require.NoError(t, group.AddSubcommand(prefix))

	assert.Equal(t, "settings prefix", prefix.FullName())
	assert.Equal(t, "settings", group.FullName())

	assert.Same(t, group, prefix.Root())
	assert.Same(t, group, group.Root())
}

func TestCommand_AddSubcommandCollisionLeavesGroupUnchanged(t *testing.T) {
	ban := commands.NewCommand("ban", noopHandler, commands.WithAliases("block"))
	group := commands.NewGroup("admin")
	require.NoError(t, group.AddSubcommand(ban))

	err := group.AddSubcommand(commands.NewCommand("block", noopHandler))

	var exists *domainerrors.ErrCommandExists

	require.ErrorAs(t, err, &exists)
	assert.Len(t, group.Subcommands(), 1)

	// Алиас по-прежнему ведёт к исходной подкоманде.
	sub, ok := group.Subcommand("block")
	require.True(t, ok)
	assert.Same(t, ban, sub)
}

func TestRegistry_RejectsInvalidCommands(t *testing.T) {
	tests := []struct {
		name       string
		cmd        *commands.Command
		wantReason string
	}{
		{
			name:       "пустое имя",
			cmd:        commands.NewCommand("", noopHandler),
			wantReason: "пустое имя команды",
		},
		{
			name:       "алиас с пробелом",
			cmd:        commands.NewCommand("roll", noopHandler, commands.WithAliases("кинуть кубик")),
			wantReason: "содержит пробелы",
		},
		{
			name:       "пустой алиас",
			cmd:        commands.NewCommand("roll", noopHandler, commands.WithAliases("")),
			wantReason: "пустой алиас",
		},
		{
			name:       "алиас совпадает с именем",
			cmd:        commands.NewCommand("roll", noopHandler, commands.WithAliases("roll")),
			wantReason: "дубликат имени или алиаса",
		},
		{
			name:       "пробельный разделитель",
			cmd:        commands.NewCommand("roll", noopHandler, commands.WithDelimiter(' ')),
			wantReason: "разделитель special-аргументов",
		},
		{
			name:       "ни обработчика, ни подкоманд",
			cmd:        commands.NewGroup("empty"),
			wantReason: "без обработчика и подкоманд",
		},
		{
			name: "нулевая частота кулдауна",
			cmd: commands.NewCommand("roll", noopHandler,
				commands.WithCooldown(commands.CooldownSpec{Bucket: commands.BucketUser, Rate: 0, Period: time.Minute}),
			),
			wantReason: "частота кулдауна",
		},
		{
			name: "нулевой период кулдауна",
			cmd: commands.NewCommand("roll", noopHandler,
				commands.WithCooldown(commands.CooldownSpec{Bucket: commands.BucketUser, Rate: 1, Period: 0}),
			),
			wantReason: "период кулдауна",
		},
		{
			name: "неизвестный алгоритм кулдауна",
			cmd: commands.NewCommand("roll", noopHandler,
				commands.WithCooldown(commands.CooldownSpec{
					Bucket:    commands.BucketUser,
					Rate:      1,
					Period:    time.Minute,
					Algorithm: "token_bucket",
				}),
			),
			wantReason: "неизвестный алгоритм кулдауна",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			registry := commands.NewRegistry()

			err := registry.Register(tt.cmd)

			var invalid *domainerrors.ErrInvalidCommand

			require.ErrorAs(t, err, &invalid)
			assert.Contains(t, invalid.Reason, tt.wantReason)
			assert.Empty(t, registry.Commands())
		})
	}
}

func TestRegistry_RejectsInvalidParameters(t *testing.T) {
	tests := []struct {
		name       string
		params     []commands.Parameter
		wantParam  string
		wantReason string
	}{
		{
			name: "позиционный после special",
			params: []commands.Parameter{
				{Name: "priority", Kind: commands.KindSpecial, Optional: true, Default: "normal"},
				{Name: "target", Kind: commands.KindPositional},
			},
			wantParam:  "target",
			wantReason: "не может следовать за special",
		},
		{
			name: "второй consume-rest",
			params: []commands.Parameter{
				{Name: "text", Kind: commands.KindRest},
				{Name: "more", Kind: commands.KindRest},
			},
			wantParam:  "more",
			wantReason: "может быть только один",
		},
		{
			name: "special после consume-rest",
			params: []commands.Parameter{
				{Name: "text", Kind: commands.KindRest},
				{Name: "priority", Kind: commands.KindSpecial, Optional: true, Default: "normal"},
			},
			wantParam:  "priority",
			wantReason: "после consume-rest",
		},
		{
			name: "пустое имя параметра",
			params: []commands.Parameter{
				{Name: "", Kind: commands.KindPositional},
			},
			wantParam:  "",
			wantReason: "пустое имя параметра",
		},
		{
			name: "дубликат имени параметра",
			params: []commands.Parameter{
				{Name: "target", Kind: commands.KindPositional},
				{Name: "target", Kind: commands.KindPositional},
			},
			wantParam:  "target",
			wantReason: "дубликат имени параметра",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			registry := commands.NewRegistry()

			err := registry.Register(commands.NewCommand("send", noopHandler, commands.WithParams(tt.params...)))

			var invalid *domainerrors.ErrInvalidParameter

			require.ErrorAs(t, err, &invalid)
			assert.Equal(t, "send", invalid.CommandName)
			assert.Equal(t, tt.wantParam, invalid.ParamName)
			assert.Contains(t, invalid.Reason, tt.wantReason)
		})
	}
}

func TestRegistry_ValidatesSubcommandsRecursively(t *testing.T) {
	broken := commands.NewCommand("daily", noopHandler,
		commands.WithCooldown(commands.CooldownSpec{Bucket: commands.BucketMember, Rate: 0, Period: time.Minute}),
	)
	group := commands.NewCommand("stats", noopHandler)
	require.NoError(t, group.AddSubcommand(broken))

	registry := commands.NewRegistry()

	err := registry.Register(group)

	var invalid *domainerrors.ErrInvalidCommand

	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, "stats daily", invalid.Name)

	_, ok := registry.Get("stats")
	assert.False(t, ok)
}

package service

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strings"
	"time"

	"go.uber.org/multierr"

	"github.com/central-university-dev/go-commander/internal/bot/announce"
	"github.com/central-university-dev/go-commander/internal/bot/converters"
	"github.com/central-university-dev/go-commander/internal/bot/domain"
	"github.com/central-university-dev/go-commander/internal/commands"
	"github.com/central-university-dev/go-commander/internal/commands/cooldown"
	"github.com/central-university-dev/go-commander/internal/common/metrics"
	"github.com/central-university-dev/go-commander/internal/config"
	domainerrors "github.com/central-university-dev/go-commander/internal/domain/errors"
	"github.com/central-university-dev/go-commander/internal/domain/models"
)

// CommanderService собирает набор команд бота, регистрирует его в реестре
// и реализует обработчики. Он же доставляет объявления, приходящие из
// Kafka и HTTP API.
type CommanderService struct {
	registry       *commands.Registry
	telegramClient domain.TelegramClientAPI
	settings       *SettingsService
	reminders      *ReminderService
	publisher      announce.AnnouncementPublisher
	resolver       converters.EntityResolver
	config         *config.Config
	logger         *slog.Logger
}

func NewCommanderService(
	registry *commands.Registry,
	telegramClient domain.TelegramClientAPI,
	settings *SettingsService,
	reminders *ReminderService,
	publisher announce.AnnouncementPublisher,
	resolver converters.EntityResolver,
	cfg *config.Config,
	logger *slog.Logger,
) *CommanderService {
	return &CommanderService{
		registry:       registry,
		telegramClient: telegramClient,
		settings:       settings,
		reminders:      reminders,
		publisher:      publisher,
		resolver:       resolver,
		config:         cfg,
		logger:         logger,
	}
}

// RegisterCommands наполняет реестр командами бота. Вызывается один раз
// на старте, до запуска опроса Telegram.
func (s *CommanderService) RegisterCommands() error {
	topLevel := []*commands.Command{
		commands.NewCommand("start", s.handleStart,
			commands.WithDescription("приветствие и краткая справка"),
		),
		commands.NewCommand("help", s.handleHelp,
			commands.WithAliases("h"),
			commands.WithDescription("список доступных команд"),
		),
		commands.NewCommand("ping", s.handlePing,
			commands.WithDescription("проверка отклика бота"),
			commands.WithCooldown(commands.CooldownSpec{
				Bucket:    commands.BucketUser,
				Rate:      1,
				Period:    3 * time.Second,
				Algorithm: cooldown.FixedWindow,
			}),
		),
		commands.NewCommand("echo", s.handleEcho,
			commands.WithDescription("повторить текст дословно"),
			commands.WithParams(commands.Parameter{
				Name:        "text",
				Kind:        commands.KindRest,
				Description: "текст для повтора",
			}),
		),
		commands.NewCommand("roll", s.handleRoll,
			commands.WithAliases("dice"),
			commands.WithDescription("бросок кубика"),
			commands.WithParams(commands.Parameter{
				Name:        "sides",
				Kind:        commands.KindPositional,
				Type:        commands.Int(),
				Optional:    true,
				Default:     6,
				Description: "число граней, по умолчанию 6",
			}),
			commands.WithCooldown(commands.CooldownSpec{
				Bucket: commands.BucketMember,
				Rate:   5,
				Period: 10 * time.Second,
				Burst:  3,
			}),
		),
		commands.NewCommand("whois", s.handleWhois,
			commands.WithDescription("информация о пользователе или чате"),
			commands.WithParams(commands.Parameter{
				Name: "target",
				Kind: commands.KindPositional,
				Type: commands.Union(
					converters.NewUserConverter(s.resolver),
					converters.NewChatConverter(s.resolver),
				),
				Description: "@username или числовой ID",
			}),
		),
		commands.NewCommand("remind", s.handleRemind,
			commands.WithAliases("remindme"),
			commands.WithDescription("отложенное напоминание"),
			commands.WithParams(
				commands.Parameter{
					Name:        "delay",
					Kind:        commands.KindPositional,
					Type:        converters.Duration(),
					Description: "через сколько напомнить, например 30m",
				},
				commands.Parameter{
					Name:        "text",
					Kind:        commands.KindRest,
					Description: "текст напоминания",
				},
			),
			commands.WithCooldown(commands.CooldownSpec{
				Bucket:    commands.BucketUser,
				Rate:      3,
				Period:    time.Minute,
				Algorithm: cooldown.FixedWindow,
			}),
		),
		commands.NewCommand("announce", s.handleAnnounce,
			commands.WithDescription("разослать объявление в чаты"),
			commands.WithGuards(NewAdminGuard(s.config.AdminUserIDs)),
			commands.WithParams(
				commands.Parameter{
					Name:        "chats",
					Kind:        commands.KindSpecial,
					Type:        converters.ChatIDList(),
					Description: "chats=123,-456 — получатели",
				},
				commands.Parameter{
					Name:        "priority",
					Kind:        commands.KindSpecial,
					Optional:    true,
					Default:     "normal",
					Description: "priority=high|normal|low",
				},
				commands.Parameter{
					Name:        "text",
					Kind:        commands.KindRest,
					Description: "текст объявления",
				},
			),
		),
	}

	settingsGroup, err := s.buildSettingsGroup()
	if err != nil {
		return err
	}

	topLevel = append(topLevel, settingsGroup)

	for _, cmd := range topLevel {
		if err := s.registry.Register(cmd); err != nil {
			return fmt.Errorf("ошибка при регистрации команды '%s': %w", cmd.Name, err)
		}
	}

	s.logger.Info("Команды зарегистрированы",
		"count", len(topLevel),
	)

	return nil
}

func (s *CommanderService) buildSettingsGroup() (*commands.Command, error) {
	group := commands.NewCommand("settings", s.handleSettingsShow,
		commands.WithDescription("настройки бота в чате"),
		commands.WithGuards(NewAdminGuard(s.config.AdminUserIDs)),
	)

	subcommands := []*commands.Command{
		commands.NewCommand("prefix", s.handleSettingsPrefix,
			commands.WithDescription("сменить префикс команд"),
			commands.WithParams(commands.Parameter{
				Name:        "prefix",
				Kind:        commands.KindPositional,
				Description: "новый префикс, до 8 символов",
			}),
		),
		commands.NewCommand("disable", s.handleSettingsDisable,
			commands.WithDescription("отключить команду в чате"),
			commands.WithParams(commands.Parameter{
				Name:        "command",
				Kind:        commands.KindPositional,
				Description: "имя команды",
			}),
		),
		commands.NewCommand("enable", s.handleSettingsEnable,
			commands.WithDescription("включить команду обратно"),
			commands.WithParams(commands.Parameter{
				Name:        "command",
				Kind:        commands.KindPositional,
				Description: "имя команды",
			}),
		),
		commands.NewCommand("reset", s.handleSettingsReset,
			commands.WithDescription("сбросить настройки чата"),
		),
	}

	for _, sub := range subcommands {
		if err := group.AddSubcommand(sub); err != nil {
			return nil, err
		}
	}

	return group, nil
}

// PublishBotCommands отправляет список команд верхнего уровня в Telegram,
// чтобы они появились в подсказках клиента.
func (s *CommanderService) PublishBotCommands(ctx context.Context) error {
	registered := s.registry.Commands()
	botCommands := make([]domain.BotCommand, 0, len(registered))

	for _, cmd := range registered {
		botCommands = append(botCommands, domain.BotCommand{
			Command:     cmd.Name,
			Description: cmd.Description,
		})
	}

	if err := s.telegramClient.SetMyCommands(ctx, botCommands); err != nil {
		return fmt.Errorf("ошибка при публикации списка команд: %w", err)
	}

	return nil
}

// HandleAnnouncement доставляет объявление во все перечисленные чаты.
// Сбой в одном чате не останавливает доставку в остальные.
func (s *CommanderService) HandleAnnouncement(ctx context.Context, announcement *models.Announcement) error {
	s.logger.Info("Доставка объявления",
		"chats", len(announcement.ChatIDs),
		"priority", announcement.Priority,
	)

	text := "📣 " + announcement.Text
	if announcement.Priority == "high" {
		text = "❗️📣 " + announcement.Text
	}

	var errs error

	for _, chatID := range announcement.ChatIDs {
		if err := s.telegramClient.SendMessage(ctx, chatID, text); err != nil {
			s.logger.Error("Ошибка при доставке объявления в чат",
				"error", err,
				"chatID", chatID,
			)

			errs = multierr.Append(errs, err)
		}
	}

	if errs != nil {
		metrics.RecordAnnouncement("error")
		return fmt.Errorf("ошибка при доставке объявления: %w", errs)
	}

	metrics.RecordAnnouncement("success")

	return nil
}

func (s *CommanderService) reply(ctx context.Context, inv *commands.Invocation, text string) error {
	return s.telegramClient.SendMessage(ctx, inv.Message.ChatID, text)
}

func (s *CommanderService) handleStart(ctx context.Context, inv *commands.Invocation) error {
	prefix := inv.Prefix

	return s.reply(ctx, inv, fmt.Sprintf(
		"Привет! Я бот-командир. Отправьте %shelp для списка команд.", prefix))
}

func (s *CommanderService) handleHelp(ctx context.Context, inv *commands.Invocation) error {
	prefix := inv.Prefix

	var sb strings.Builder

	sb.WriteString("Доступные команды:\n")

	for _, cmd := range s.registry.Commands() {
		sb.WriteString(fmt.Sprintf("%s%s — %s\n", prefix, cmd.Name, cmd.Description))

		for _, sub := range cmd.Subcommands() {
			sb.WriteString(fmt.Sprintf("  %s%s %s — %s\n", prefix, cmd.Name, sub.Name, sub.Description))
		}
	}

	return s.reply(ctx, inv, sb.String())
}

func (s *CommanderService) handlePing(ctx context.Context, inv *commands.Invocation) error {
	return s.reply(ctx, inv, "🏓 Понг!")
}

func (s *CommanderService) handleEcho(ctx context.Context, inv *commands.Invocation) error {
	return s.reply(ctx, inv, inv.StringArg("text"))
}

func (s *CommanderService) handleRoll(ctx context.Context, inv *commands.Invocation) error {
	sides := inv.IntArg("sides")
	if sides < 2 {
		return &domainerrors.ErrBadRequest{Message: "у кубика должно быть хотя бы 2 грани"}
	}

	result := rand.IntN(sides) + 1

	return s.reply(ctx, inv, fmt.Sprintf("🎲 Выпало %d из %d.", result, sides))
}

func (s *CommanderService) handleWhois(ctx context.Context, inv *commands.Invocation) error {
	switch target := inv.Arg("target").(type) {
	case *models.User:
		return s.reply(ctx, inv, fmt.Sprintf("👤 %s (ID %d)", target.DisplayName(), target.ID))
	case *models.Chat:
		title := target.Title
		if title == "" {
			title = "@" + target.Username
		}

		return s.reply(ctx, inv, fmt.Sprintf("💬 %s, тип: %s (ID %d)", title, target.Type, target.ID))
	default:
		return fmt.Errorf("неожиданный тип цели: %T", target)
	}
}

func (s *CommanderService) handleRemind(ctx context.Context, inv *commands.Invocation) error {
	delay := inv.DurationArg("delay")
	text := inv.StringArg("text")

	reminder, err := s.reminders.Schedule(ctx, inv.Message.ChatID, inv.Message.UserID, delay, text)
	if err != nil {
		return err
	}

	return s.reply(ctx, inv, fmt.Sprintf("⏰ Напомню %s.", reminder.RemindAt.Format("02.01.2006 в 15:04")))
}

var announcePriorities = map[string]struct{}{"low": {}, "normal": {}, "high": {}}

func (s *CommanderService) handleAnnounce(ctx context.Context, inv *commands.Invocation) error {
	chatIDs, _ := inv.Arg("chats").([]int64)
	priority := inv.StringArg("priority")
	text := inv.StringArg("text")

	if _, ok := announcePriorities[priority]; !ok {
		return &domainerrors.ErrBadRequest{Message: fmt.Sprintf("неизвестный приоритет '%s', допустимы low, normal и high", priority)}
	}

	if len(chatIDs) == 0 {
		return &domainerrors.ErrBadRequest{Message: "список чатов пуст"}
	}

	announcement := &models.Announcement{
		Text:      text,
		ChatIDs:   chatIDs,
		Priority:  priority,
		CreatedAt: time.Now(),
	}

	if err := s.publisher.PublishAnnouncement(ctx, announcement); err != nil {
		return fmt.Errorf("ошибка при публикации объявления: %w", err)
	}

	return s.reply(ctx, inv, fmt.Sprintf("📣 Объявление поставлено в очередь для %d чатов.", len(chatIDs)))
}

func (s *CommanderService) handleSettingsShow(ctx context.Context, inv *commands.Invocation) error {
	settings, err := s.settings.GetSettings(ctx, inv.Message.ChatID)
	if err != nil {
		return err
	}

	prefix := settings.Prefix
	if prefix == "" {
		prefix = s.config.CommandPrefix + " (по умолчанию)"
	}

	var sb strings.Builder

	sb.WriteString("⚙️ Настройки чата:\n")
	sb.WriteString("Префикс: " + prefix + "\n")

	if len(settings.DisabledCommands) == 0 {
		sb.WriteString("Отключённых команд нет.")
	} else {
		sb.WriteString("Отключены: " + strings.Join(settings.DisabledCommands, ", "))
	}

	return s.reply(ctx, inv, sb.String())
}

func (s *CommanderService) handleSettingsPrefix(ctx context.Context, inv *commands.Invocation) error {
	prefix := inv.StringArg("prefix")

	if err := s.settings.SetPrefix(ctx, inv.Message.ChatID, prefix); err != nil {
		return err
	}

	return s.reply(ctx, inv, fmt.Sprintf("✅ Префикс изменён на '%s'. Теперь команды выглядят так: %shelp", prefix, prefix))
}

func (s *CommanderService) handleSettingsDisable(ctx context.Context, inv *commands.Invocation) error {
	name := inv.StringArg("command")

	cmd, ok := s.registry.Get(name)
	if !ok {
		return &domainerrors.ErrBadRequest{Message: fmt.Sprintf("команда '%s' не найдена", name)}
	}

	if cmd.Name == "settings" {
		return &domainerrors.ErrBadRequest{Message: "команду settings отключить нельзя"}
	}

	if err := s.settings.DisableCommand(ctx, inv.Message.ChatID, cmd.Name); err != nil {
		return err
	}

	return s.reply(ctx, inv, fmt.Sprintf("🔕 Команда '%s' отключена в этом чате.", cmd.Name))
}

func (s *CommanderService) handleSettingsEnable(ctx context.Context, inv *commands.Invocation) error {
	name := inv.StringArg("command")

	cmd, ok := s.registry.Get(name)
	if !ok {
		return &domainerrors.ErrBadRequest{Message: fmt.Sprintf("команда '%s' не найдена", name)}
	}

	if err := s.settings.EnableCommand(ctx, inv.Message.ChatID, cmd.Name); err != nil {
		return err
	}

	return s.reply(ctx, inv, fmt.Sprintf("🔔 Команда '%s' снова доступна.", cmd.Name))
}

func (s *CommanderService) handleSettingsReset(ctx context.Context, inv *commands.Invocation) error {
	if err := s.settings.Reset(ctx, inv.Message.ChatID); err != nil {
		return err
	}

	return s.reply(ctx, inv, "♻️ Настройки чата сброшены к значениям по умолчанию.")
}

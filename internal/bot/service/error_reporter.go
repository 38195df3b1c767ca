package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/central-university-dev/go-commander/internal/bot/domain"
	"github.com/central-university-dev/go-commander/internal/commands"
	domainerrors "github.com/central-university-dev/go-commander/internal/domain/errors"
	"github.com/central-university-dev/go-commander/internal/domain/models"
)

// TelegramErrorReporter переводит ошибки диспетчеризации в понятные
// пользователю ответы. Диспетчер вызывает его ровно один раз на сбой.
type TelegramErrorReporter struct {
	telegramClient domain.TelegramClientAPI
	logger         *slog.Logger
}

func NewTelegramErrorReporter(telegramClient domain.TelegramClientAPI, logger *slog.Logger) *TelegramErrorReporter {
	return &TelegramErrorReporter{
		telegramClient: telegramClient,
		logger:         logger,
	}
}

func (r *TelegramErrorReporter) ReportError(ctx context.Context, inv *commands.Invocation, err error) {
	reply := r.replyFor(inv, err)
	if reply == "" {
		return
	}

	if sendErr := r.telegramClient.SendMessage(ctx, inv.Message.ChatID, reply); sendErr != nil {
		r.logger.Error("Ошибка при отправке ответа об ошибке",
			"error", sendErr,
			"chatID", inv.Message.ChatID,
		)
	}
}

//nolint:cyclop // плоский разбор всех видов ошибок диспетчеризации
func (r *TelegramErrorReporter) replyFor(inv *commands.Invocation, err error) string {
	var (
		notFoundErr *domainerrors.ErrCommandNotFound
		parsingErr  *domainerrors.ErrArgumentParsing
		missingErr  *domainerrors.ErrMissingRequiredArgument
		badArgErr   *domainerrors.ErrBadArgument
		checkErr    *domainerrors.ErrCheckFailure
		cooldownErr *domainerrors.ErrCommandOnCooldown
		invokeErr   *domainerrors.ErrCommandInvoke
	)

	switch {
	case errors.As(err, &notFoundErr):
		// В группах молчим про опечатки, чтобы не отвечать на чужие команды.
		if inv.Message.ChatType != models.ChatTypePrivate {
			return ""
		}

		return fmt.Sprintf("❓ Неизвестная команда '%s'. Отправьте %shelp для списка команд.", notFoundErr.Name, inv.Prefix)
	case errors.As(err, &parsingErr):
		return "⚠️ Не удалось разобрать аргументы: " + parsingErr.Reason
	case errors.As(err, &missingErr):
		return fmt.Sprintf("⚠️ Не хватает обязательного аргумента '%s'.", missingErr.ParamName)
	case errors.As(err, &badArgErr):
		var entityErr *domainerrors.ErrEntityNotFound
		if errors.As(badArgErr.Cause, &entityErr) {
			return "🔍 " + entityErr.Error()
		}

		return fmt.Sprintf("⚠️ Некорректное значение '%s' для аргумента '%s'.", badArgErr.Value, badArgErr.ParamName)
	case errors.As(err, &checkErr):
		if checkErr.Message != "" {
			return "🚫 " + checkErr.Message
		}

		return "🚫 Эта команда вам недоступна."
	case errors.As(err, &cooldownErr):
		return fmt.Sprintf("⏳ Не так быстро! Повторите через %.1f с.", cooldownErr.RetryAfter.Seconds())
	case errors.As(err, &invokeErr):
		var badRequestErr *domainerrors.ErrBadRequest
		if errors.As(err, &badRequestErr) {
			return "⚠️ " + badRequestErr.Message
		}

		return "😵 Что-то пошло не так при выполнении команды. Попробуйте позже."
	default:
		return "😵 Внутренняя ошибка. Попробуйте позже."
	}
}

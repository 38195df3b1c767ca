package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/central-university-dev/go-commander/internal/common/metrics"
	domainerrors "github.com/central-university-dev/go-commander/internal/domain/errors"
	"github.com/central-university-dev/go-commander/internal/domain/models"
)

// PrefixProvider отдаёт список префиксов команд, действующих в чате.
// Порядок значим: берётся первый совпавший префикс.
type PrefixProvider interface {
	Prefixes(ctx context.Context, chatID int64) []string
}

// StaticPrefixes — провайдер с одним фиксированным списком для всех чатов.
type StaticPrefixes []string

func (p StaticPrefixes) Prefixes(_ context.Context, _ int64) []string {
	return p
}

// ErrorReporter получает каждую завершившуюся ошибкой инвокацию ровно
// один раз. Реакция на ошибку (отвечать ли в чат) — целиком его зона
// ответственности.
type ErrorReporter interface {
	ReportError(ctx context.Context, inv *Invocation, err error)
}

// Dispatcher проводит входящее сообщение через конвейер:
// префикс → поиск команды → токенизация → связывание аргументов →
// guard'ы → кулдауны → вызов обработчика.
type Dispatcher struct {
	registry *Registry
	prefixes PrefixProvider
	reporter ErrorReporter
	tracer   trace.Tracer
	logger   *slog.Logger
}

func NewDispatcher(registry *Registry, prefixes PrefixProvider, reporter ErrorReporter, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{
		registry: registry,
		prefixes: prefixes,
		reporter: reporter,
		tracer:   otel.Tracer("commander/dispatcher"),
		logger:   logger,
	}
}

// Dispatch обрабатывает одно сообщение и возвращает инвокацию с итогом.
// Если текст не начинается ни с одного префикса, возвращается nil: это
// не ошибка. Любая неудача конвейера завершает инвокацию статусом Failed
// и один раз передаётся репортёру; наружу ошибки не выходят.
func (d *Dispatcher) Dispatch(ctx context.Context, msg *models.Message) *Invocation {
	text, prefix, ok := d.matchPrefix(ctx, msg)
	if !ok {
		return nil
	}

	inv := &Invocation{
		Message:   msg,
		Prefix:    prefix,
		Outcome:   OutcomePending,
		StartedAt: time.Now(),
	}

	ctx, span := d.tracer.Start(ctx, "dispatch",
		trace.WithAttributes(attribute.Int64("chat_id", msg.ChatID)))
	defer span.End()

	cmd, remainder, err := d.registry.Lookup(text)
	if err != nil {
		d.fail(ctx, span, inv, err)
		return inv
	}

	inv.Command = cmd
	inv.RawArgs = remainder
	span.SetAttributes(attribute.String("command", cmd.FullName()))

	tokens, err := cmd.tokenize(remainder)
	if err != nil {
		d.fail(ctx, span, inv, err)
		return inv
	}

	if err := bindArguments(ctx, inv, tokens); err != nil {
		d.fail(ctx, span, inv, err)
		return inv
	}

	if err := d.checkGuards(ctx, inv); err != nil {
		d.fail(ctx, span, inv, err)
		return inv
	}

	if err := d.reserveCooldowns(inv); err != nil {
		d.fail(ctx, span, inv, err)
		return inv
	}

	if err := d.invoke(ctx, inv); err != nil {
		d.fail(ctx, span, inv, err)
		return inv
	}

	inv.Outcome = OutcomeCompleted
	duration := time.Since(inv.StartedAt)
	metrics.RecordCommandDispatch(cmd.FullName(), "success", duration)

	d.logger.Info("команда выполнена",
		"command", cmd.FullName(),
		"chat_id", msg.ChatID,
		"user_id", msg.UserID,
		"duration", duration.String(),
	)

	return inv
}

func (d *Dispatcher) matchPrefix(ctx context.Context, msg *models.Message) (string, string, bool) {
	for _, prefix := range d.prefixes.Prefixes(ctx, msg.ChatID) {
		if prefix == "" {
			continue
		}

		if strings.HasPrefix(msg.Text, prefix) {
			return msg.Text[len(prefix):], prefix, true
		}
	}

	return "", "", false
}

// checkGuards выполняет эффективную цепочку guard'ов строго по порядку
// и останавливается на первом отказе. Ошибка guard'а тоже трактуется
// как отказ с сохранением причины.
func (d *Dispatcher) checkGuards(ctx context.Context, inv *Invocation) error {
	for _, guard := range inv.Command.effectiveGuards {
		allowed, err := guard.Allow(ctx, inv)
		if err != nil {
			return &domainerrors.ErrCheckFailure{Guard: guard.Name(), Message: err.Error(), Cause: err}
		}

		if !allowed {
			return &domainerrors.ErrCheckFailure{Guard: guard.Name()}
		}
	}

	return nil
}

// reserveCooldowns списывает бюджет по всем кулдаунам команды разом.
// Выполняется после guard'ов: запрещённый вызов бюджет не расходует.
func (d *Dispatcher) reserveCooldowns(inv *Invocation) error {
	set := inv.Command.cooldowns
	if set.Len() == 0 {
		return nil
	}

	keys := make([]string, 0, len(inv.Command.buckets))
	for _, bucket := range inv.Command.buckets {
		keys = append(keys, bucket.Key(inv))
	}

	allowed, retryAfter, denied := set.Reserve(keys)
	if !allowed {
		metrics.RecordCooldownDenial(inv.Command.FullName(), inv.Command.buckets[denied].String())

		return &domainerrors.ErrCommandOnCooldown{RetryAfter: retryAfter}
	}

	return nil
}

// invoke запускает тело команды. Паника обработчика перехватывается
// и вместе с обычной ошибкой оборачивается в ErrCommandInvoke.
func (d *Dispatcher) invoke(ctx context.Context, inv *Invocation) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &domainerrors.ErrCommandInvoke{
				CommandName: inv.Command.FullName(),
				Cause:       fmt.Errorf("паника в обработчике: %v", r),
			}
		}
	}()

	if handlerErr := inv.Command.Handler(ctx, inv); handlerErr != nil {
		return &domainerrors.ErrCommandInvoke{CommandName: inv.Command.FullName(), Cause: handlerErr}
	}

	return nil
}

func (d *Dispatcher) fail(ctx context.Context, span trace.Span, inv *Invocation, err error) {
	inv.Outcome = OutcomeFailed
	inv.Err = err

	kind := errorKind(err)

	name := "unknown"
	if inv.Command != nil {
		name = inv.Command.FullName()
	}

	metrics.RecordCommandDispatch(name, "error", time.Since(inv.StartedAt))
	metrics.RecordCommandError(name, kind)

	span.RecordError(err)
	span.SetStatus(codes.Error, kind)

	d.logger.Warn("инвокация завершилась ошибкой",
		"command", name,
		"kind", kind,
		"chat_id", inv.Message.ChatID,
		"user_id", inv.Message.UserID,
		"error", err,
	)

	d.report(ctx, inv, err)
}

// report передаёт ошибку репортёру. Паника репортёра гасится здесь же:
// за этот вызов ошибки не выходят ни при каких условиях.
func (d *Dispatcher) report(ctx context.Context, inv *Invocation, err error) {
	if d.reporter == nil {
		return
	}

	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("паника в обработчике ошибок", "panic", r)
		}
	}()

	d.reporter.ReportError(ctx, inv, err)
}

func errorKind(err error) string {
	var (
		notFound    *domainerrors.ErrCommandNotFound
		parsing     *domainerrors.ErrArgumentParsing
		missing     *domainerrors.ErrMissingRequiredArgument
		badArgument *domainerrors.ErrBadArgument
		check       *domainerrors.ErrCheckFailure
		onCooldown  *domainerrors.ErrCommandOnCooldown
		invoke      *domainerrors.ErrCommandInvoke
	)

	switch {
	case errors.As(err, &notFound):
		return "not_found"
	case errors.As(err, &parsing):
		return "argument_parsing"
	case errors.As(err, &missing):
		return "missing_argument"
	case errors.As(err, &badArgument):
		return "bad_argument"
	case errors.As(err, &check):
		return "check_failure"
	case errors.As(err, &onCooldown):
		return "cooldown"
	case errors.As(err, &invoke):
		return "invoke"
	default:
		return "internal"
	}
}

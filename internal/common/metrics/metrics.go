package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	Namespace = "commander"

	DispatcherSubsystem = "dispatcher"
	BotSubsystem        = "bot"
)

// Общие метрики для всех сервисов.
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"service", "method", "endpoint", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "method", "endpoint"},
	)

	RateLimitedRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "rate_limited_requests_total",
			Help:      "Total number of HTTP requests rejected by the rate limiter",
		},
		[]string{"service"},
	)
)

// Метрики диспетчера команд.
var (
	CommandInvocationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: DispatcherSubsystem,
			Name:      "command_invocations_total",
			Help:      "Total number of command invocations",
		},
		[]string{"command", "status"},
	)

	CommandDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: Namespace,
			Subsystem: DispatcherSubsystem,
			Name:      "command_duration_seconds",
			Help:      "Command handling duration in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"command"},
	)

	CommandErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: DispatcherSubsystem,
			Name:      "command_errors_total",
			Help:      "Total number of failed invocations by error kind",
		},
		[]string{"command", "kind"},
	)

	CooldownDenialsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: DispatcherSubsystem,
			Name:      "cooldown_denials_total",
			Help:      "Total number of invocations denied by cooldowns",
		},
		[]string{"command", "bucket"},
	)
)

// Бот метрики.
var (
	UserMessagesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: BotSubsystem,
			Name:      "user_messages_total",
			Help:      "Total number of user messages processed",
		},
		[]string{"chat_id", "message_type"},
	)

	AnnouncementsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: BotSubsystem,
			Name:      "announcements_total",
			Help:      "Total number of announcements processed",
		},
		[]string{"status"},
	)

	TelegramSendsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: BotSubsystem,
			Name:      "telegram_sends_total",
			Help:      "Total number of outgoing Telegram messages",
		},
		[]string{"status"},
	)

	DatabaseQueriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: BotSubsystem,
			Name:      "database_queries_total",
			Help:      "Total number of database queries",
		},
		[]string{"operation", "status"},
	)

	DatabaseQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: Namespace,
			Subsystem: BotSubsystem,
			Name:      "database_query_duration_seconds",
			Help:      "Database query duration in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"operation"},
	)
)

func RecordHTTPRequest(service, method, endpoint string, statusCode int, duration time.Duration) {
	status := "success"
	if statusCode >= 400 {
		status = "error"
	}

	HTTPRequestsTotal.WithLabelValues(service, method, endpoint, status).Inc()
	HTTPRequestDuration.WithLabelValues(service, method, endpoint).Observe(duration.Seconds())
}

func RecordRateLimited(service string) {
	RateLimitedRequestsTotal.WithLabelValues(service).Inc()
}

func RecordCommandDispatch(command, status string, duration time.Duration) {
	CommandInvocationsTotal.WithLabelValues(command, status).Inc()
	CommandDuration.WithLabelValues(command).Observe(duration.Seconds())
}

func RecordCommandError(command, kind string) {
	CommandErrorsTotal.WithLabelValues(command, kind).Inc()
}

func RecordCooldownDenial(command, bucket string) {
	CooldownDenialsTotal.WithLabelValues(command, bucket).Inc()
}

func RecordUserMessage(chatID, messageType string) {
	UserMessagesTotal.WithLabelValues(chatID, messageType).Inc()
}

func RecordAnnouncement(status string) {
	AnnouncementsTotal.WithLabelValues(status).Inc()
}

func RecordTelegramSend(status string) {
	TelegramSendsTotal.WithLabelValues(status).Inc()
}

func RecordDatabaseQuery(operation, status string, duration time.Duration) {
	DatabaseQueriesTotal.WithLabelValues(operation, status).Inc()
	DatabaseQueryDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// ObserveDatabaseQuery записывает исход запроса к БД, начатого в start.
func ObserveDatabaseQuery(operation string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}

	RecordDatabaseQuery(operation, status, time.Since(start))
}

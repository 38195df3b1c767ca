package metrics_test

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/central-university-dev/go-commander/internal/common/metrics"
)

const (
	statusSuccess = "success"
)

func TestRecordHTTPRequest(t *testing.T) {
	// Arrange
	service := "test-service"
	method := "GET"
	endpoint := "/test"
	statusCode := 200
	duration := 100 * time.Millisecond

	// Act
	metrics.RecordHTTPRequest(service, method, endpoint, statusCode, duration)

	// Assert
	counterValue := testutil.ToFloat64(metrics.HTTPRequestsTotal.WithLabelValues(service, method, endpoint, "success"))
	assert.Equal(t, float64(1), counterValue)

	assert.NotNil(t, metrics.HTTPRequestDuration)
}

func TestRecordHTTPRequestError(t *testing.T) {
	// Arrange
	service := "test-service"
	method := "POST"
	endpoint := "/error"
	statusCode := 500
	duration := 50 * time.Millisecond

	// Act
	metrics.RecordHTTPRequest(service, method, endpoint, statusCode, duration)

	// Assert
	counterValue := testutil.ToFloat64(metrics.HTTPRequestsTotal.WithLabelValues(service, method, endpoint, "error"))
	assert.Equal(t, float64(1), counterValue)
}

func TestRecordCommandDispatch(t *testing.T) {
	// Arrange
	command := "ping_test"
	duration := 5 * time.Millisecond

	// Act
	metrics.RecordCommandDispatch(command, statusSuccess, duration)

	// Assert
	counterValue := testutil.ToFloat64(metrics.CommandInvocationsTotal.WithLabelValues(command, statusSuccess))
	assert.Equal(t, float64(1), counterValue)

	assert.NotNil(t, metrics.CommandDuration)
}

func TestRecordCommandError(t *testing.T) {
	// Arrange
	command := "roll_test"
	kind := "bad_argument"

	// Act
	metrics.RecordCommandError(command, kind)

	// Assert
	counterValue := testutil.ToFloat64(metrics.CommandErrorsTotal.WithLabelValues(command, kind))
	assert.Equal(t, float64(1), counterValue)
}

func TestRecordCooldownDenial(t *testing.T) {
	// Arrange
	command := "ping_cooldown_test"
	bucket := "user"

	// Act
	metrics.RecordCooldownDenial(command, bucket)

	// Assert
	counterValue := testutil.ToFloat64(metrics.CooldownDenialsTotal.WithLabelValues(command, bucket))
	assert.Equal(t, float64(1), counterValue)
}

func TestRecordUserMessage(t *testing.T) {
	// Arrange
	chatID := "123456"
	messageType := "command"

	// Act
	metrics.RecordUserMessage(chatID, messageType)

	// Assert
	totalValue := testutil.ToFloat64(metrics.UserMessagesTotal.WithLabelValues(chatID, messageType))
	assert.Equal(t, float64(1), totalValue)
}

func TestRecordAnnouncement(t *testing.T) {
	// Arrange
	initialValue := testutil.ToFloat64(metrics.AnnouncementsTotal.WithLabelValues(statusSuccess))

	// Act
	metrics.RecordAnnouncement(statusSuccess)

	// Assert
	finalValue := testutil.ToFloat64(metrics.AnnouncementsTotal.WithLabelValues(statusSuccess))
	assert.Equal(t, initialValue+1, finalValue)
}

func TestRecordTelegramSend(t *testing.T) {
	// Arrange
	initialValue := testutil.ToFloat64(metrics.TelegramSendsTotal.WithLabelValues("error"))

	// Act
	metrics.RecordTelegramSend("error")

	// Assert
	finalValue := testutil.ToFloat64(metrics.TelegramSendsTotal.WithLabelValues("error"))
	assert.Equal(t, initialValue+1, finalValue)
}

func TestRecordDatabaseQuery(t *testing.T) {
	// Arrange
	operation := "select_test"
	status := statusSuccess
	duration := 10 * time.Millisecond

	// Act
	metrics.RecordDatabaseQuery(operation, status, duration)

	// Assert
	counterValue := testutil.ToFloat64(metrics.DatabaseQueriesTotal.WithLabelValues(operation, status))
	assert.Equal(t, float64(1), counterValue)

	assert.NotNil(t, metrics.DatabaseQueryDuration)
}

func TestObserveDatabaseQuery(t *testing.T) {
	// Arrange
	operation := "observe_test"
	start := time.Now().Add(-20 * time.Millisecond)

	// Act
	metrics.ObserveDatabaseQuery(operation, start, nil)
	metrics.ObserveDatabaseQuery(operation, start, errors.New("ошибка запроса"))

	// Assert
	successValue := testutil.ToFloat64(metrics.DatabaseQueriesTotal.WithLabelValues(operation, "success"))
	assert.Equal(t, float64(1), successValue)

	errorValue := testutil.ToFloat64(metrics.DatabaseQueriesTotal.WithLabelValues(operation, "error"))
	assert.Equal(t, float64(1), errorValue)
}

func TestRecordRateLimited(t *testing.T) {
	// Arrange
	service := "rate_limited_test"

	// Act
	metrics.RecordRateLimited(service)

	// Assert
	counterValue := testutil.ToFloat64(metrics.RateLimitedRequestsTotal.WithLabelValues(service))
	assert.Equal(t, float64(1), counterValue)
}

func TestMetricsExist(t *testing.T) {
	// Arrange & Act & Assert
	metricFamilies, err := prometheus.DefaultGatherer.Gather()
	require.NoError(t, err)

	metricNames := make(map[string]bool)
	for _, mf := range metricFamilies {
		metricNames[*mf.Name] = true
	}

	expectedMetrics := []string{
		"commander_http_requests_total",
		"commander_http_request_duration_seconds",
		"commander_rate_limited_requests_total",
		"commander_dispatcher_command_invocations_total",
		"commander_dispatcher_command_duration_seconds",
		"commander_dispatcher_command_errors_total",
		"commander_dispatcher_cooldown_denials_total",
		"commander_bot_user_messages_total",
		"commander_bot_announcements_total",
		"commander_bot_telegram_sends_total",
		"commander_bot_database_queries_total",
		"commander_bot_database_query_duration_seconds",
	}

	for _, metricName := range expectedMetrics {
		assert.True(t, metricNames[metricName], "Метрика %s должна быть зарегистрирована", metricName)
	}
}

func TestCommandDispatchAccumulates(t *testing.T) {
	// Arrange
	command := "echo_percentile_test"

	durations := []time.Duration{
		10 * time.Millisecond,
		500 * time.Millisecond,
		1000 * time.Millisecond,
	}

	initialValue := testutil.ToFloat64(metrics.CommandInvocationsTotal.WithLabelValues(command, statusSuccess))

	// Act
	for _, duration := range durations {
		metrics.RecordCommandDispatch(command, statusSuccess, duration)
	}

	// Assert
	assert.NotNil(t, metrics.CommandDuration)

	finalValue := testutil.ToFloat64(metrics.CommandInvocationsTotal.WithLabelValues(command, statusSuccess))
	assert.Equal(t, initialValue+float64(len(durations)), finalValue)
}

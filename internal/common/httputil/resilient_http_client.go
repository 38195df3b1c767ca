package httputil

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sony/gobreaker"

	"github.com/central-university-dev/go-commander/internal/config"
	domainerrors "github.com/central-university-dev/go-commander/internal/domain/errors"
)

// NewResilientClient собирает resty-клиент для исходящих запросов к внешним
// сервисам: повторы с нарастающей задержкой по сетевым ошибкам и настроенным
// статусам, поверх них circuit breaker. Пятисотые ответы считаются отказами
// и учитываются breaker'ом.
func NewResilientClient(cfg *config.Config, logger *slog.Logger, serviceName string) *resty.Client {
	client := resty.New()

	client.SetTimeout(cfg.ExternalRequestTimeout)
	client.SetRetryCount(cfg.RetryCount)
	client.SetRetryWaitTime(cfg.RetryBackoff)
	client.SetRetryMaxWaitTime(cfg.RetryBackoff * 5)
	client.AddRetryCondition(retryCondition(cfg.RetryableStatusCodes))

	client.SetTransport(&circuitBreakerTransport{
		breaker:     newCircuitBreaker(cfg, serviceName),
		next:        http.DefaultTransport,
		logger:      logger,
		serviceName: serviceName,
	})

	if logger != nil {
		client.OnAfterResponse(func(_ *resty.Client, resp *resty.Response) error {
			if resp.Request.Attempt > 1 {
				logger.Info("Повторная попытка HTTP запроса",
					"service", serviceName,
					"url", resp.Request.URL,
					"attempt", resp.Request.Attempt,
					"status", resp.StatusCode(),
				)
			}

			return nil
		})
	}

	return client
}

func retryCondition(retryableStatusCodes []int) resty.RetryConditionFunc {
	return func(r *resty.Response, err error) bool {
		if err != nil {
			return true
		}

		for _, status := range retryableStatusCodes {
			if r.StatusCode() == status {
				return true
			}
		}

		return false
	}
}

func newCircuitBreaker(cfg *config.Config, serviceName string) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        serviceName + "_circuit_breaker",
		MaxRequests: uint32(cfg.CBPermittedCallsInHalfOpen), //nolint:gosec // G115: Значение из конфига
		Interval:    time.Duration(cfg.CBSlidingWindowSize) * time.Second,
		Timeout:     cfg.CBWaitDurationInOpenState,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)

			return counts.Requests >= uint32(cfg.CBMinimumRequiredCalls) && //nolint:gosec // G115: Значение из конфига
				failureRatio >= float64(cfg.CBFailureRateThreshold)/100.0
		},
	})
}

// circuitBreakerTransport пропускает каждый запрос через circuit breaker.
// Повторы resty происходят над этим транспортом, поэтому каждый повтор
// тоже учитывается в статистике breaker'а.
type circuitBreakerTransport struct {
	breaker     *gobreaker.CircuitBreaker
	next        http.RoundTripper
	logger      *slog.Logger
	serviceName string
}

func (t *circuitBreakerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	result, err := t.breaker.Execute(func() (interface{}, error) {
		resp, err := t.next.RoundTrip(req)
		if err != nil {
			return nil, err
		}

		if resp.StatusCode >= http.StatusInternalServerError {
			resp.Body.Close()

			return nil, &domainerrors.HTTPError{StatusCode: resp.StatusCode}
		}

		return resp, nil
	})

	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) && t.logger != nil {
			t.logger.Warn("Circuit breaker открыт, запрос не отправлен",
				"service", t.serviceName,
				"url", req.URL.String(),
			)
		}

		return nil, err
	}

	return result.(*http.Response), nil
}

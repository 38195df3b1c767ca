package telegram_test

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/central-university-dev/go-commander/internal/bot/domain"
	"github.com/central-university-dev/go-commander/internal/bot/domain/mocks"
	"github.com/central-university-dev/go-commander/internal/bot/telegram"
	"github.com/central-university-dev/go-commander/internal/commands"
	"github.com/central-university-dev/go-commander/internal/domain/models"
)

type dispatcherStub struct {
	invocation *commands.Invocation
	received   chan *models.Message
}

func newDispatcherStub(invocation *commands.Invocation) *dispatcherStub {
	return &dispatcherStub{
		invocation: invocation,
		received:   make(chan *models.Message, 8),
	}
}

func (d *dispatcherStub) Dispatch(_ context.Context, msg *models.Message) *commands.Invocation {
	d.received <- msg
	return d.invocation
}

func waitForMessage(t *testing.T, ch chan *models.Message) *models.Message {
	t.Helper()

	select {
	case msg := <-ch:
		return msg
	case <-time.After(2 * time.Second):
		t.Fatal("сообщение не дошло до диспетчера")
		return nil
	}
}

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestPoller_DispatchesIncomingMessage(t *testing.T) {
	// Arrange
	sentAt := time.Unix(1735689600, 0)
	update := domain.Update{
		UpdateID: 41,
		Message: &domain.Message{
			MessageID: 100,
			Text:      "/ping",
			SentAt:    sentAt,
			Chat:      domain.Chat{ID: 123456, Type: "supergroup", Title: "Рабочий чат"},
			From:      domain.User{ID: 654321, Username: "ivan", FirstName: "Иван"},
		},
	}

	nextPoll := make(chan struct{}, 1)

	mockClient := new(mocks.TelegramClientAPI)
	mockClient.On("GetUpdates", mock.Anything, 0).Return([]domain.Update{update}, nil).Once()
	mockClient.On("GetUpdates", mock.Anything, 42).
		Run(func(_ mock.Arguments) {
			select {
			case nextPoll <- struct{}{}:
			default:
			}
		}).
		Return(nil, errors.New("telegram недоступен")).Once()

	dispatcher := newDispatcherStub(&commands.Invocation{})
	poller := telegram.NewPoller(mockClient, dispatcher, newTestLogger())

	// Act
	poller.Start()

	msg := waitForMessage(t, dispatcher.received)

	<-nextPoll

	poller.Stop()

	// Assert
	assert.Equal(t, int64(41), msg.UpdateID)
	assert.Equal(t, int64(100), msg.MessageID)
	assert.Equal(t, int64(123456), msg.ChatID)
	assert.Equal(t, models.ChatTypeSupergroup, msg.ChatType)
	assert.Equal(t, int64(654321), msg.UserID)
	assert.Equal(t, "ivan", msg.Username)
	assert.Equal(t, "/ping", msg.Text)
	assert.Equal(t, sentAt, msg.SentAt)

	mockClient.AssertExpectations(t)
}

func TestPoller_SkipsUpdatesWithoutMessage(t *testing.T) {
	// Arrange
	updates := []domain.Update{
		{UpdateID: 7, Message: nil},
	}

	nextPoll := make(chan struct{}, 1)

	mockClient := new(mocks.TelegramClientAPI)
	mockClient.On("GetUpdates", mock.Anything, 0).Return(updates, nil).Once()
	mockClient.On("GetUpdates", mock.Anything, 8).
		Run(func(_ mock.Arguments) {
			select {
			case nextPoll <- struct{}{}:
			default:
			}
		}).
		Return(nil, errors.New("telegram недоступен")).Once()

	dispatcher := newDispatcherStub(nil)
	poller := telegram.NewPoller(mockClient, dispatcher, newTestLogger())

	// Act
	poller.Start()

	<-nextPoll

	poller.Stop()

	// Assert: смещение сдвинулось, но до диспетчера ничего не дошло.
	select {
	case msg := <-dispatcher.received:
		t.Fatalf("неожиданная диспетчеризация сообщения: %+v", msg)
	default:
	}

	mockClient.AssertExpectations(t)
}

func TestPoller_StopsCleanlyAfterPollError(t *testing.T) {
	// Arrange
	polled := make(chan struct{}, 1)

	mockClient := new(mocks.TelegramClientAPI)
	mockClient.On("GetUpdates", mock.Anything, 0).
		Run(func(_ mock.Arguments) {
			select {
			case polled <- struct{}{}:
			default:
			}
		}).
		Return(nil, errors.New("telegram недоступен")).Once()

	dispatcher := newDispatcherStub(nil)
	poller := telegram.NewPoller(mockClient, dispatcher, newTestLogger())

	// Act
	poller.Start()

	<-polled

	poller.Stop()

	// Assert
	select {
	case msg := <-dispatcher.received:
		t.Fatalf("неожиданная диспетчеризация сообщения: %+v", msg)
	default:
	}

	mockClient.AssertExpectations(t)
}

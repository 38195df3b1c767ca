package service_test

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"

	"github.com/central-university-dev/go-commander/internal/bot/service"
	servicemocks "github.com/central-university-dev/go-commander/internal/bot/service/mocks"
	"github.com/central-university-dev/go-commander/internal/commands"
	"github.com/central-university-dev/go-commander/internal/config"
	"github.com/central-university-dev/go-commander/internal/domain/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func nopHandler(_ context.Context, _ *commands.Invocation) error {
	return nil
}

func newInvocation(userID int64, cmd *commands.Command) *commands.Invocation {
	return &commands.Invocation{
		Message: &models.Message{
			ChatID:   testChatID,
			ChatType: models.ChatTypeGroup,
			UserID:   userID,
		},
		Command: cmd,
	}
}

func TestAdminGuard(t *testing.T) {
	guard := service.NewAdminGuard([]int64{adminUserID})
	cmd := commands.NewCommand("announce", nopHandler)

	ctx := context.Background()

	allowed, err := guard.Allow(ctx, newInvocation(adminUserID, cmd))
	require.NoError(t, err)
	assert.True(t, allowed)

	allowed, err = guard.Allow(ctx, newInvocation(testUserID, cmd))
	require.Error(t, err)
	assert.False(t, allowed)
	assert.Contains(t, err.Error(), "только администраторам")
}

func TestDisabledCommandsGuard_BlocksDisabledCommand(t *testing.T) {
	mockSettingsRepo := new(servicemocks.ChatSettingsRepository)
	mockTxManager := new(servicemocks.Transactor)
	cfg := &config.Config{CommandPrefix: "/"}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	settingsService := service.NewSettingsService(mockSettingsRepo, mockTxManager, cfg, logger)

	guard := service.NewDisabledCommandsGuard(settingsService, []int64{adminUserID}, logger)
	cmd := commands.NewCommand("roll", nopHandler)

	ctx := context.Background()

	mockSettingsRepo.On("GetSettings", ctx, testChatID).
		Return(&models.ChatSettings{ChatID: testChatID, DisabledCommands: []string{"roll"}}, nil).Once()

	allowed, err := guard.Allow(ctx, newInvocation(testUserID, cmd))

	require.Error(t, err)
	assert.False(t, allowed)
	assert.Contains(t, err.Error(), "отключена в этом чате")
	mockSettingsRepo.AssertExpectations(t)
}

func TestDisabledCommandsGuard_ChecksRootOfSubcommand(t *testing.T) {
	mockSettingsRepo := new(servicemocks.ChatSettingsRepository)
	mockTxManager := new(servicemocks.Transactor)
	cfg := &config.Config{CommandPrefix: "/"}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	settingsService := service.NewSettingsService(mockSettingsRepo, mockTxManager, cfg, logger)

	guard := service.NewDisabledCommandsGuard(settingsService, []int64{adminUserID}, logger)

	group := commands.NewCommand("stats", nopHandler)
	sub := commands.NewCommand("daily", nopHandler)
	require.NoError(t, group.AddSubcommand(sub))

	ctx := context.Background()

	mockSettingsRepo.On("GetSettings", ctx, testChatID).
		Return(&models.ChatSettings{ChatID: testChatID, DisabledCommands: []string{"stats"}}, nil).Once()

	allowed, err := guard.Allow(ctx, newInvocation(testUserID, sub))

	require.Error(t, err)
	assert.False(t, allowed)
	mockSettingsRepo.AssertExpectations(t)
}

func TestDisabledCommandsGuard_AdminBypassesCheck(t *testing.T) {
	mockSettingsRepo := new(servicemocks.ChatSettingsRepository)
	mockTxManager := new(servicemocks.Transactor)
	cfg := &config.Config{CommandPrefix: "/"}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	settingsService := service.NewSettingsService(mockSettingsRepo, mockTxManager, cfg, logger)

	guard := service.NewDisabledCommandsGuard(settingsService, []int64{adminUserID}, logger)
	cmd := commands.NewCommand("roll", nopHandler)

	allowed, err := guard.Allow(context.Background(), newInvocation(adminUserID, cmd))

	require.NoError(t, err)
	assert.True(t, allowed)
	mockSettingsRepo.AssertNotCalled(t, "GetSettings", mock.Anything, mock.Anything)
}

func TestDisabledCommandsGuard_AllowsWhenStorageUnavailable(t *testing.T) {
	mockSettingsRepo := new(servicemocks.ChatSettingsRepository)
	mockTxManager := new(servicemocks.Transactor)
	cfg := &config.Config{CommandPrefix: "/"}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	settingsService := service.NewSettingsService(mockSettingsRepo, mockTxManager, cfg, logger)

	guard := service.NewDisabledCommandsGuard(settingsService, []int64{adminUserID}, logger)
	cmd := commands.NewCommand("roll", nopHandler)

	ctx := context.Background()

	mockSettingsRepo.On("GetSettings", ctx, testChatID).
		Return(nil, errors.New("база недоступна")).Once()

	allowed, err := guard.Allow(ctx, newInvocation(testUserID, cmd))

	require.NoError(t, err)
	assert.True(t, allowed)
	mockSettingsRepo.AssertExpectations(t)
}

package memory_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/central-university-dev/go-commander/internal/bot/repository/memory"
	"github.com/central-university-dev/go-commander/internal/domain/errors"
	"github.com/central-university-dev/go-commander/internal/domain/models"
)

func TestChatSettingsRepository_Prefix(t *testing.T) {
	repo := memory.NewChatSettingsRepository()
	ctx := context.Background()
	chatID := int64(12345)

	t.Run("Unknown chat gets empty settings", func(t *testing.T) {
		settings, err := repo.GetSettings(ctx, chatID)

		require.NoError(t, err)
		assert.Equal(t, chatID, settings.ChatID)
		assert.Empty(t, settings.Prefix)
		assert.Empty(t, settings.DisabledCommands)
	})

	t.Run("Set and overwrite prefix", func(t *testing.T) {
		require.NoError(t, repo.SetPrefix(ctx, chatID, "!"))

		settings, err := repo.GetSettings(ctx, chatID)
		require.NoError(t, err)
		assert.Equal(t, "!", settings.Prefix)
		assert.False(t, settings.CreatedAt.IsZero())

		require.NoError(t, repo.SetPrefix(ctx, chatID, "?"))

		settings, err = repo.GetSettings(ctx, chatID)
		require.NoError(t, err)
		assert.Equal(t, "?", settings.Prefix)
	})
}

func TestChatSettingsRepository_DisabledCommands(t *testing.T) {
	repo := memory.NewChatSettingsRepository()
	ctx := context.Background()
	chatID := int64(12345)

	t.Run("Disable is idempotent and sorted", func(t *testing.T) {
		require.NoError(t, repo.DisableCommand(ctx, chatID, "roll"))
		require.NoError(t, repo.DisableCommand(ctx, chatID, "roll"))
		require.NoError(t, repo.DisableCommand(ctx, chatID, "ping"))

		settings, err := repo.GetSettings(ctx, chatID)
		require.NoError(t, err)
		assert.Equal(t, []string{"ping", "roll"}, settings.DisabledCommands)
	})

	t.Run("Enable removes only named command", func(t *testing.T) {
		require.NoError(t, repo.EnableCommand(ctx, chatID, "roll"))
		require.NoError(t, repo.EnableCommand(ctx, chatID, "never-disabled"))

		settings, err := repo.GetSettings(ctx, chatID)
		require.NoError(t, err)
		assert.Equal(t, []string{"ping"}, settings.DisabledCommands)
	})

	t.Run("Other chats are not affected", func(t *testing.T) {
		settings, err := repo.GetSettings(ctx, chatID+1)

		require.NoError(t, err)
		assert.Empty(t, settings.DisabledCommands)
	})
}

func TestChatSettingsRepository_Reset(t *testing.T) {
	repo := memory.NewChatSettingsRepository()
	ctx := context.Background()
	chatID := int64(12345)

	require.NoError(t, repo.SetPrefix(ctx, chatID, "!"))
	require.NoError(t, repo.DisableCommand(ctx, chatID, "roll"))

	require.NoError(t, repo.Reset(ctx, chatID))

	settings, err := repo.GetSettings(ctx, chatID)
	require.NoError(t, err)
	assert.Empty(t, settings.Prefix)
	assert.Empty(t, settings.DisabledCommands)
}

func TestReminderRepository_SaveAndFindDue(t *testing.T) {
	repo := memory.NewReminderRepository()
	ctx := context.Background()
	now := time.Now()

	overdue := &models.Reminder{ChatID: 1, UserID: 1, Text: "созревшее", RemindAt: now.Add(-time.Hour)}
	justDue := &models.Reminder{ChatID: 1, UserID: 1, Text: "только что", RemindAt: now.Add(-time.Minute)}
	future := &models.Reminder{ChatID: 1, UserID: 1, Text: "будущее", RemindAt: now.Add(time.Hour)}

	for _, reminder := range []*models.Reminder{overdue, justDue, future} {
		require.NoError(t, repo.Save(ctx, reminder))
		assert.NotZero(t, reminder.ID)
		assert.False(t, reminder.CreatedAt.IsZero())
	}

	t.Run("Due reminders sorted by remind time", func(t *testing.T) {
		due, err := repo.FindDue(ctx, now, 10)

		require.NoError(t, err)
		require.Len(t, due, 2)
		assert.Equal(t, overdue.ID, due[0].ID)
		assert.Equal(t, justDue.ID, due[1].ID)
	})

	t.Run("Limit caps the batch", func(t *testing.T) {
		due, err := repo.FindDue(ctx, now, 1)

		require.NoError(t, err)
		require.Len(t, due, 1)
		assert.Equal(t, overdue.ID, due[0].ID)
	})
}

func TestReminderRepository_MarkSent(t *testing.T) {
	repo := memory.NewReminderRepository()
	ctx := context.Background()

	reminder := &models.Reminder{ChatID: 1, UserID: 1, Text: "разовое", RemindAt: time.Now().Add(-time.Minute)}
	require.NoError(t, repo.Save(ctx, reminder))

	t.Run("Sent reminder leaves the due set", func(t *testing.T) {
		require.NoError(t, repo.MarkSent(ctx, reminder.ID))

		due, err := repo.FindDue(ctx, time.Now(), 10)
		require.NoError(t, err)
		assert.Empty(t, due)
	})

	t.Run("Second mark fails", func(t *testing.T) {
		err := repo.MarkSent(ctx, reminder.ID)

		require.Error(t, err)
		assert.IsType(t, &errors.ErrReminderNotFound{}, err)
	})

	t.Run("Unknown id fails", func(t *testing.T) {
		err := repo.MarkSent(ctx, 999)

		require.Error(t, err)
		assert.IsType(t, &errors.ErrReminderNotFound{}, err)
	})
}

func TestReminderRepository_CountPending(t *testing.T) {
	repo := memory.NewReminderRepository()
	ctx := context.Background()

	first := &models.Reminder{ChatID: 1, UserID: 1, Text: "раз", RemindAt: time.Now().Add(time.Hour)}
	second := &models.Reminder{ChatID: 1, UserID: 2, Text: "два", RemindAt: time.Now().Add(2 * time.Hour)}
	foreign := &models.Reminder{ChatID: 2, UserID: 3, Text: "чужое", RemindAt: time.Now().Add(time.Hour)}

	for _, reminder := range []*models.Reminder{first, second, foreign} {
		require.NoError(t, repo.Save(ctx, reminder))
	}

	count, err := repo.CountPending(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	require.NoError(t, repo.MarkSent(ctx, first.ID))

	count, err = repo.CountPending(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/central-university-dev/go-commander/internal/domain/models"
)

type settingsEntry struct {
	prefix    string
	createdAt time.Time
	updatedAt time.Time
}

type ChatSettingsRepository struct {
	settings map[int64]*settingsEntry
	disabled map[int64]map[string]struct{}
	mu       sync.RWMutex
}

func NewChatSettingsRepository() *ChatSettingsRepository {
	return &ChatSettingsRepository{
		settings: make(map[int64]*settingsEntry),
		disabled: make(map[int64]map[string]struct{}),
	}
}

func (r *ChatSettingsRepository) GetSettings(_ context.Context, chatID int64) (*models.ChatSettings, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := &models.ChatSettings{ChatID: chatID}

	if entry, exists := r.settings[chatID]; exists {
		result.Prefix = entry.prefix
		result.CreatedAt = entry.createdAt
		result.UpdatedAt = entry.updatedAt
	}

	for command := range r.disabled[chatID] {
		result.DisabledCommands = append(result.DisabledCommands, command)
	}

	sort.Strings(result.DisabledCommands)

	return result, nil
}

func (r *ChatSettingsRepository) SetPrefix(_ context.Context, chatID int64, prefix string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()

	if entry, exists := r.settings[chatID]; exists {
		entry.prefix = prefix
		entry.updatedAt = now

		return nil
	}

	r.settings[chatID] = &settingsEntry{prefix: prefix, createdAt: now, updatedAt: now}

	return nil
}

func (r *ChatSettingsRepository) DisableCommand(_ context.Context, chatID int64, command string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.disabled[chatID]; !exists {
		r.disabled[chatID] = make(map[string]struct{})
	}

	r.disabled[chatID][command] = struct{}{}

	return nil
}

func (r *ChatSettingsRepository) EnableCommand(_ context.Context, chatID int64, command string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.disabled[chatID], command)

	return nil
}

func (r *ChatSettingsRepository) Reset(_ context.Context, chatID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.settings, chatID)
	delete(r.disabled, chatID)

	return nil
}

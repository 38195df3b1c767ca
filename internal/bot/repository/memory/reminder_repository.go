package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	domainerrors "github.com/central-university-dev/go-commander/internal/domain/errors"
	"github.com/central-university-dev/go-commander/internal/domain/models"
)

type ReminderRepository struct {
	reminders map[int64]*models.Reminder
	nextID    int64
	mu        sync.RWMutex
}

func NewReminderRepository() *ReminderRepository {
	return &ReminderRepository{
		reminders: make(map[int64]*models.Reminder),
		nextID:    1,
	}
}

func (r *ReminderRepository) Save(_ context.Context, reminder *models.Reminder) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	reminder.ID = r.nextID
	r.nextID++

	if reminder.CreatedAt.IsZero() {
		reminder.CreatedAt = time.Now()
	}

	stored := *reminder
	r.reminders[reminder.ID] = &stored

	return nil
}

func (r *ReminderRepository) FindDue(_ context.Context, now time.Time, limit int) ([]*models.Reminder, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var due []*models.Reminder

	for _, reminder := range r.reminders {
		if !reminder.Sent && !reminder.RemindAt.After(now) {
			found := *reminder
			due = append(due, &found)
		}
	}

	sort.Slice(due, func(i, j int) bool {
		return due[i].RemindAt.Before(due[j].RemindAt)
	})

	if len(due) > limit {
		due = due[:limit]
	}

	return due, nil
}

func (r *ReminderRepository) MarkSent(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	reminder, exists := r.reminders[id]
	if !exists || reminder.Sent {
		return &domainerrors.ErrReminderNotFound{ID: id}
	}

	reminder.Sent = true

	return nil
}

func (r *ReminderRepository) CountPending(_ context.Context, chatID int64) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	count := 0

	for _, reminder := range r.reminders {
		if reminder.ChatID == chatID && !reminder.Sent {
			count++
		}
	}

	return count, nil
}

package orm

import (
	"context"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/central-university-dev/go-commander/internal/database"
	customerrors "github.com/central-university-dev/go-commander/internal/domain/errors"
	"github.com/central-university-dev/go-commander/internal/domain/models"
	"github.com/central-university-dev/go-commander/pkg/txs"
)

type ReminderRepository struct {
	db *database.PostgresDB
	sq sq.StatementBuilderType
}

func NewReminderRepository(db *database.PostgresDB) *ReminderRepository {
	return &ReminderRepository{
		db: db,
		sq: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

func (r *ReminderRepository) Save(ctx context.Context, reminder *models.Reminder) error {
	querier := txs.GetQuerier(ctx, r.db.Pool)

	if reminder.CreatedAt.IsZero() {
		reminder.CreatedAt = time.Now()
	}

	insertQuery := r.sq.Insert("reminders").
		Columns("chat_id", "user_id", "text", "remind_at", "sent", "created_at").
		Values(reminder.ChatID, reminder.UserID, reminder.Text, reminder.RemindAt, false, reminder.CreatedAt).
		Suffix("RETURNING id")

	query, args, err := insertQuery.ToSql()
	if err != nil {
		return &customerrors.ErrBuildSQLQuery{Operation: "сохранение напоминания", Cause: err}
	}

	err = querier.QueryRow(ctx, query, args...).Scan(&reminder.ID)
	if err != nil {
		return &customerrors.ErrSQLExecution{Operation: "сохранение напоминания", Cause: err}
	}

	return nil
}

func (r *ReminderRepository) FindDue(ctx context.Context, now time.Time, limit int) ([]*models.Reminder, error) {
	querier := txs.GetQuerier(ctx, r.db.Pool)

	selectQuery := r.sq.Select("id", "chat_id", "user_id", "text", "remind_at", "sent", "created_at").
		From("reminders").
		Where(sq.And{
			sq.Eq{"sent": false},
			sq.LtOrEq{"remind_at": now},
		}).
		OrderBy("remind_at").
		Limit(uint64(limit))

	query, args, err := selectQuery.ToSql()
	if err != nil {
		return nil, &customerrors.ErrBuildSQLQuery{Operation: "поиск созревших напоминаний", Cause: err}
	}

	rows, err := querier.Query(ctx, query, args...)
	if err != nil {
		return nil, &customerrors.ErrSQLExecution{Operation: "поиск созревших напоминаний", Cause: err}
	}
	defer rows.Close()

	var reminders []*models.Reminder

	for rows.Next() {
		reminder := &models.Reminder{}

		err := rows.Scan(&reminder.ID, &reminder.ChatID, &reminder.UserID,
			&reminder.Text, &reminder.RemindAt, &reminder.Sent, &reminder.CreatedAt)
		if err != nil {
			return nil, &customerrors.ErrSQLScan{Entity: "напоминание", Cause: err}
		}

		reminders = append(reminders, reminder)
	}

	if err := rows.Err(); err != nil {
		return nil, &customerrors.ErrSQLScan{Entity: "напоминания", Cause: err}
	}

	return reminders, nil
}

func (r *ReminderRepository) MarkSent(ctx context.Context, id int64) error {
	querier := txs.GetQuerier(ctx, r.db.Pool)

	updateQuery := r.sq.Update("reminders").
		Set("sent", true).
		Where(sq.And{
			sq.Eq{"id": id},
			sq.Eq{"sent": false},
		})

	query, args, err := updateQuery.ToSql()
	if err != nil {
		return &customerrors.ErrBuildSQLQuery{Operation: "отметка напоминания", Cause: err}
	}

	tag, err := querier.Exec(ctx, query, args...)
	if err != nil {
		return &customerrors.ErrSQLExecution{Operation: "отметка напоминания", Cause: err}
	}

	if tag.RowsAffected() == 0 {
		return &customerrors.ErrReminderNotFound{ID: id}
	}

	return nil
}

func (r *ReminderRepository) CountPending(ctx context.Context, chatID int64) (int, error) {
	querier := txs.GetQuerier(ctx, r.db.Pool)

	countQuery := r.sq.Select("COUNT(*)").
		From("reminders").
		Where(sq.And{
			sq.Eq{"chat_id": chatID},
			sq.Eq{"sent": false},
		})

	query, args, err := countQuery.ToSql()
	if err != nil {
		return 0, &customerrors.ErrBuildSQLQuery{Operation: "подсчёт напоминаний", Cause: err}
	}

	var count int

	err = querier.QueryRow(ctx, query, args...).Scan(&count)
	if err != nil {
		return 0, &customerrors.ErrSQLExecution{Operation: "подсчёт напоминаний", Cause: err}
	}

	return count, nil
}

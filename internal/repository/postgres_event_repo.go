package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/teamcal/internal/model"
)

// PostgresEventRepo はPostgreSQLを使用したイベントリポジトリ。
type PostgresEventRepo struct {
	db *sql.DB
}

// NewPostgresEventRepo はPostgresEventRepoを生成する。
func NewPostgresEventRepo(db *sql.DB) *PostgresEventRepo {
	return &PostgresEventRepo{db: db}
}

// FindByID は指定IDのイベントを取得する。見つからない場合はnilを返す。
func (r *PostgresEventRepo) FindByID(ctx context.Context, id int64) (*model.Event, error) {
	event := &model.Event{}
	var eventTypeID sql.NullInt64

	err := r.db.QueryRowContext(ctx,
		`SELECT id, title, description, event_date, start_time, duration_minutes, event_type_id, location, link
		 FROM events WHERE id = $1`,
		id,
	).Scan(
		&event.ID, &event.Title, &event.Description,
		&event.Date, &event.StartTime, &event.DurationMinutes,
		&eventTypeID, &event.Location, &event.Link,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find event by ID: %w", err)
	}

	if eventTypeID.Valid {
		event.EventTypeID = &eventTypeID.Int64
	}

	return event, nil
}

// ListAll は全イベントを開催日昇順で返す。
func (r *PostgresEventRepo) ListAll(ctx context.Context) ([]*model.Event, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, title, description, event_date, start_time, duration_minutes, event_type_id, location, link
		 FROM events ORDER BY event_date, start_time, id`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	defer rows.Close()

	var events []*model.Event
	for rows.Next() {
		e := &model.Event{}
		var eventTypeID sql.NullInt64
		if err := rows.Scan(
			&e.ID, &e.Title, &e.Description,
			&e.Date, &e.StartTime, &e.DurationMinutes,
			&eventTypeID, &e.Location, &e.Link,
		); err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		if eventTypeID.Valid {
			e.EventTypeID = &eventTypeID.Int64
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate events: %w", err)
	}

	return events, nil
}

// Create はイベントを作成し、採番されたIDをevent.IDに設定する。
func (r *PostgresEventRepo) Create(ctx context.Context, event *model.Event) error {
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO events (title, description, event_date, start_time, duration_minutes, event_type_id, location, link)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING id`,
		event.Title, event.Description, event.Date, event.StartTime,
		event.DurationMinutes, event.EventTypeID, event.Location, event.Link,
	).Scan(&event.ID)
	if err != nil {
		return fmt.Errorf("failed to insert event: %w", err)
	}
	return nil
}

// Update はイベントを上書き更新する。
func (r *PostgresEventRepo) Update(ctx context.Context, event *model.Event) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE events
		 SET title = $2, description = $3, event_date = $4, start_time = $5,
		     duration_minutes = $6, event_type_id = $7, location = $8, link = $9
		 WHERE id = $1`,
		event.ID, event.Title, event.Description, event.Date, event.StartTime,
		event.DurationMinutes, event.EventTypeID, event.Location, event.Link,
	)
	if err != nil {
		return fmt.Errorf("failed to update event: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("event not found: %d", event.ID)
	}
	return nil
}

// DeleteByID は指定IDのイベントを削除する。
// 関連するattendance_responsesはCASCADE削除される。
func (r *PostgresEventRepo) DeleteByID(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM events WHERE id = $1`,
		id,
	)
	if err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("event not found: %d", id)
	}
	return nil
}

// compile-time interface check
var _ EventRepository = (*PostgresEventRepo)(nil)

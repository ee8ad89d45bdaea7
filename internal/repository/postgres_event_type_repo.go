package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/teamcal/internal/model"
)

// PostgresEventTypeRepo はPostgreSQLを使用したイベント種別リポジトリ。
type PostgresEventTypeRepo struct {
	db *sql.DB
}

// NewPostgresEventTypeRepo はPostgresEventTypeRepoを生成する。
func NewPostgresEventTypeRepo(db *sql.DB) *PostgresEventTypeRepo {
	return &PostgresEventTypeRepo{db: db}
}

// FindByID は指定IDの種別を取得する。見つからない場合はnilを返す。
func (r *PostgresEventTypeRepo) FindByID(ctx context.Context, id int64) (*model.EventType, error) {
	et := &model.EventType{}
	var color sql.NullString

	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, color FROM event_types WHERE id = $1`,
		id,
	).Scan(&et.ID, &et.Name, &color)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find event type by ID: %w", err)
	}

	et.Color = color.String
	return et, nil
}

// FindByName は種別名で検索する。見つからない場合はnilを返す。
func (r *PostgresEventTypeRepo) FindByName(ctx context.Context, name string) (*model.EventType, error) {
	et := &model.EventType{}
	var color sql.NullString

	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, color FROM event_types WHERE name = $1`,
		name,
	).Scan(&et.ID, &et.Name, &color)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find event type by name: %w", err)
	}

	et.Color = color.String
	return et, nil
}

// ListAll は全種別をID昇順で返す。
func (r *PostgresEventTypeRepo) ListAll(ctx context.Context) ([]*model.EventType, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, color FROM event_types ORDER BY id`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list event types: %w", err)
	}
	defer rows.Close()

	var types []*model.EventType
	for rows.Next() {
		et := &model.EventType{}
		var color sql.NullString
		if err := rows.Scan(&et.ID, &et.Name, &color); err != nil {
			return nil, fmt.Errorf("failed to scan event type: %w", err)
		}
		et.Color = color.String
		types = append(types, et)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate event types: %w", err)
	}

	return types, nil
}

// Create は種別を作成し、採番されたIDをeventType.IDに設定する。
// 名前の一意制約違反はそのままエラーとして返す（IsUniqueViolationで判定可能）。
func (r *PostgresEventTypeRepo) Create(ctx context.Context, eventType *model.EventType) error {
	var color interface{}
	if eventType.Color != "" {
		color = eventType.Color
	}

	err := r.db.QueryRowContext(ctx,
		`INSERT INTO event_types (name, color) VALUES ($1, $2) RETURNING id`,
		eventType.Name, color,
	).Scan(&eventType.ID)
	if err != nil {
		return fmt.Errorf("failed to insert event type: %w", err)
	}
	return nil
}

// compile-time interface check
var _ EventTypeRepository = (*PostgresEventTypeRepo)(nil)

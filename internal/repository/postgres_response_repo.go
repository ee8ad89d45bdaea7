package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/teamcal/internal/model"
)

// PostgresResponseRepo はPostgreSQLを使用した出欠回答リポジトリ。
type PostgresResponseRepo struct {
	db *sql.DB
}

// NewPostgresResponseRepo はPostgresResponseRepoを生成する。
func NewPostgresResponseRepo(db *sql.DB) *PostgresResponseRepo {
	return &PostgresResponseRepo{db: db}
}

// FindByEventAndPerson は (event_id, person_id) で回答を取得する。見つからない場合はnilを返す。
func (r *PostgresResponseRepo) FindByEventAndPerson(ctx context.Context, eventID, personID int64) (*model.AttendanceResponse, error) {
	resp := &model.AttendanceResponse{}
	var note sql.NullString

	err := r.db.QueryRowContext(ctx,
		`SELECT id, event_id, person_id, status, note, created_at, updated_at
		 FROM attendance_responses WHERE event_id = $1 AND person_id = $2`,
		eventID, personID,
	).Scan(
		&resp.ID, &resp.EventID, &resp.PersonID,
		&resp.Status, &note,
		&resp.CreatedAt, &resp.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("出欠回答の取得に失敗しました: %w", err)
	}

	if note.Valid {
		resp.Note = &note.String
	}

	return resp, nil
}

// ListByEventID はイベントの全回答を作成日時昇順で返す。
func (r *PostgresResponseRepo) ListByEventID(ctx context.Context, eventID int64) ([]*model.AttendanceResponse, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, event_id, person_id, status, note, created_at, updated_at
		 FROM attendance_responses WHERE event_id = $1 ORDER BY created_at, id`,
		eventID,
	)
	if err != nil {
		return nil, fmt.Errorf("出欠回答一覧の取得に失敗しました: %w", err)
	}
	defer rows.Close()

	var responses []*model.AttendanceResponse
	for rows.Next() {
		resp := &model.AttendanceResponse{}
		var note sql.NullString
		if err := rows.Scan(
			&resp.ID, &resp.EventID, &resp.PersonID,
			&resp.Status, &note,
			&resp.CreatedAt, &resp.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("出欠回答のスキャンに失敗しました: %w", err)
		}
		if note.Valid {
			resp.Note = &note.String
		}
		responses = append(responses, resp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("出欠回答一覧の走査に失敗しました: %w", err)
	}

	return responses, nil
}

// Insert は新規回答を挿入する。
// (event_id, person_id) の一意制約違反はラップして返すため、
// 呼び出し側はIsUniqueViolationで競合を判定できる。
func (r *PostgresResponseRepo) Insert(ctx context.Context, resp *model.AttendanceResponse) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO attendance_responses (id, event_id, person_id, status, note, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		resp.ID, resp.EventID, resp.PersonID,
		resp.Status, resp.Note,
		resp.CreatedAt, resp.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("出欠回答の作成に失敗しました: %w", err)
	}
	return nil
}

// Update は既存回答のstatus, note, updated_atを上書きする。
// created_atとidは変更しない。
func (r *PostgresResponseRepo) Update(ctx context.Context, resp *model.AttendanceResponse) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE attendance_responses
		 SET status = $3, note = $4, updated_at = $5
		 WHERE event_id = $1 AND person_id = $2`,
		resp.EventID, resp.PersonID,
		resp.Status, resp.Note, resp.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("出欠回答の更新に失敗しました: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("response not found: event=%d person=%d", resp.EventID, resp.PersonID)
	}
	return nil
}

// DeleteByEventAndPerson は (event_id, person_id) の回答を削除する。
// 削除した場合はtrueを、対象が存在しなかった場合はfalseを返す。
func (r *PostgresResponseRepo) DeleteByEventAndPerson(ctx context.Context, eventID, personID int64) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM attendance_responses WHERE event_id = $1 AND person_id = $2`,
		eventID, personID,
	)
	if err != nil {
		return false, fmt.Errorf("出欠回答の削除に失敗しました: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rowsAffected > 0, nil
}

// compile-time interface check
var _ ResponseRepository = (*PostgresResponseRepo)(nil)

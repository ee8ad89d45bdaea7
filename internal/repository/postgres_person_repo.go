package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/teamcal/internal/model"
)

// PostgresPersonRepo はPostgreSQLを使用したメンバーリポジトリ。
type PostgresPersonRepo struct {
	db *sql.DB
}

// NewPostgresPersonRepo はPostgresPersonRepoを生成する。
func NewPostgresPersonRepo(db *sql.DB) *PostgresPersonRepo {
	return &PostgresPersonRepo{db: db}
}

// FindByID は指定IDのメンバーを取得する。見つからない場合はnilを返す。
func (r *PostgresPersonRepo) FindByID(ctx context.Context, id int64) (*model.Person, error) {
	person := &model.Person{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, category, role, active FROM persons WHERE id = $1`,
		id,
	).Scan(&person.ID, &person.Name, &person.Category, &person.Role, &person.Active)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find person by ID: %w", err)
	}

	return person, nil
}

// ListAll は全メンバーをID昇順で返す。
func (r *PostgresPersonRepo) ListAll(ctx context.Context) ([]*model.Person, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, category, role, active FROM persons ORDER BY id`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list persons: %w", err)
	}
	defer rows.Close()

	var persons []*model.Person
	for rows.Next() {
		p := &model.Person{}
		if err := rows.Scan(&p.ID, &p.Name, &p.Category, &p.Role, &p.Active); err != nil {
			return nil, fmt.Errorf("failed to scan person: %w", err)
		}
		persons = append(persons, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate persons: %w", err)
	}

	return persons, nil
}

// Create はメンバーを作成する。IDは外部採番のため呼び出し側が設定する。
func (r *PostgresPersonRepo) Create(ctx context.Context, person *model.Person) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO persons (id, name, category, role, active)
		 VALUES ($1, $2, $3, $4, $5)`,
		person.ID, person.Name, person.Category, person.Role, person.Active,
	)
	if err != nil {
		return fmt.Errorf("failed to insert person: %w", err)
	}
	return nil
}

// DeleteByID は指定IDのメンバーを削除する。
// 関連するattendance_responsesはCASCADE削除される。
func (r *PostgresPersonRepo) DeleteByID(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM persons WHERE id = $1`,
		id,
	)
	if err != nil {
		return fmt.Errorf("failed to delete person: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("person not found: %d", id)
	}
	return nil
}

// ApplyChangeSet は名簿同期の変更集合を単一トランザクションで適用する。
// 削除 → 更新 → 挿入 の固定順で実行し、途中で失敗した場合は全てロールバックする。
// この順序により、同一の外部IDを2行が同時に持つ状態を経由しない。
func (r *PostgresPersonRepo) ApplyChangeSet(ctx context.Context, cs PersonChangeSet) error {
	if cs.IsEmpty() {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, id := range cs.DeleteIDs {
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM persons WHERE id = $1`, id,
		); err != nil {
			return fmt.Errorf("failed to delete person %d: %w", id, err)
		}
	}

	for _, p := range cs.Updates {
		if _, err := tx.ExecContext(ctx,
			`UPDATE persons SET name = $2, category = $3, role = $4, active = $5 WHERE id = $1`,
			p.ID, p.Name, p.Category, p.Role, p.Active,
		); err != nil {
			return fmt.Errorf("failed to update person %d: %w", p.ID, err)
		}
	}

	for _, p := range cs.Inserts {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO persons (id, name, category, role, active)
			 VALUES ($1, $2, $3, $4, $5)`,
			p.ID, p.Name, p.Category, p.Role, p.Active,
		); err != nil {
			return fmt.Errorf("failed to insert person %d: %w", p.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// compile-time interface check
var _ PersonRepository = (*PostgresPersonRepo)(nil)

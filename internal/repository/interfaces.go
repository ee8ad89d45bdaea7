// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"

	"github.com/hitoshi/teamcal/internal/model"
)

// PersonChangeSet は名簿同期で計算された変更の集合を表す。
// 適用は必ず 削除 → 更新 → 挿入 の順で、単一トランザクション内で行われる。
type PersonChangeSet struct {
	DeleteIDs []int64
	Updates   []*model.Person
	Inserts   []*model.Person
}

// IsEmpty は変更が1件もないかどうかを返す。
func (cs PersonChangeSet) IsEmpty() bool {
	return len(cs.DeleteIDs) == 0 && len(cs.Updates) == 0 && len(cs.Inserts) == 0
}

// PersonRepository はメンバーデータの永続化インターフェース。
type PersonRepository interface {
	// FindByID は指定IDのメンバーを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id int64) (*model.Person, error)

	// ListAll は全メンバーをID昇順で返す。
	ListAll(ctx context.Context) ([]*model.Person, error)

	// Create はメンバーを作成する。IDは外部採番のため呼び出し側が設定する。
	Create(ctx context.Context, person *model.Person) error

	// DeleteByID は指定IDのメンバーを削除する。
	// 関連するattendance_responsesはCASCADE削除される。
	DeleteByID(ctx context.Context, id int64) error

	// ApplyChangeSet は名簿同期の変更集合を単一トランザクションで適用する。
	// 削除 → 更新 → 挿入 の固定順で実行し、途中で失敗した場合は全てロールバックする。
	ApplyChangeSet(ctx context.Context, cs PersonChangeSet) error
}

// EventRepository はイベントデータの永続化インターフェース。
type EventRepository interface {
	// FindByID は指定IDのイベントを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id int64) (*model.Event, error)

	// ListAll は全イベントを開催日昇順で返す。
	ListAll(ctx context.Context) ([]*model.Event, error)

	// Create はイベントを作成し、採番されたIDをevent.IDに設定する。
	Create(ctx context.Context, event *model.Event) error

	// Update はイベントを上書き更新する。
	Update(ctx context.Context, event *model.Event) error

	// DeleteByID は指定IDのイベントを削除する。
	// 関連するattendance_responsesはCASCADE削除される。
	DeleteByID(ctx context.Context, id int64) error
}

// EventTypeRepository はイベント種別の永続化インターフェース。
type EventTypeRepository interface {
	// FindByID は指定IDの種別を取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id int64) (*model.EventType, error)

	// FindByName は種別名で検索する。見つからない場合はnilを返す。
	FindByName(ctx context.Context, name string) (*model.EventType, error)

	// ListAll は全種別をID昇順で返す。
	ListAll(ctx context.Context) ([]*model.EventType, error)

	// Create は種別を作成し、採番されたIDをeventType.IDに設定する。
	// 名前の一意制約違反はそのままエラーとして返す（IsUniqueViolationで判定可能）。
	Create(ctx context.Context, eventType *model.EventType) error
}

// ResponseRepository は出欠回答の永続化インターフェース。
// (event_id, person_id) の一意性はストアレベルのUNIQUE制約で保証される。
type ResponseRepository interface {
	// FindByEventAndPerson は (event_id, person_id) で回答を取得する。
	// 見つからない場合はnilを返す。
	FindByEventAndPerson(ctx context.Context, eventID, personID int64) (*model.AttendanceResponse, error)

	// ListByEventID はイベントの全回答を作成日時昇順で返す。
	ListByEventID(ctx context.Context, eventID int64) ([]*model.AttendanceResponse, error)

	// Insert は新規回答を挿入する。
	// 同時リクエストにより一意制約違反が発生した場合はエラーをそのまま返す。
	// 呼び出し側はIsUniqueViolationで判定し、更新として再試行する。
	Insert(ctx context.Context, resp *model.AttendanceResponse) error

	// Update は既存回答のstatus, note, updated_atを上書きする。
	// created_atとidは変更しない。
	Update(ctx context.Context, resp *model.AttendanceResponse) error

	// DeleteByEventAndPerson は (event_id, person_id) の回答を削除する。
	// 削除した場合はtrueを、対象が存在しなかった場合はfalseを返す。
	DeleteByEventAndPerson(ctx context.Context, eventID, personID int64) (bool, error)
}

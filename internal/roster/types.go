// Package roster は名簿の読み込み・検証・同期機能を提供する。
//
// 外部の名簿ソース（CSVファイルまたはHTTPS URL）を正として、
// ストア内のメンバー集合を削除・更新・挿入により一致させる。
// 同期の前には同一性検証ゲートがあり、共有IDの名前不一致が1件でもあれば
// 全件を報告して同期全体を拒否する。
package roster

import (
	"errors"
	"fmt"
	"strings"

	"github.com/hitoshi/teamcal/internal/model"
)

// ExternalRecord は外部名簿ソース上のメンバー1件を表す。
// ストアのPersonと同じフィールドを持つが、ソース側の正の値である。
type ExternalRecord struct {
	ID       int64
	Name     string
	Category model.Category
	Role     string
	Active   bool
}

// Mismatch は共有IDに対する名前の不一致を表す。
// 外部ソースとストアが同じIDで別人を指している可能性を示す。
type Mismatch struct {
	ID            int64
	ExternalName  string
	PersistedName string
}

// IdentityConflictError は同一性検証ゲートの失敗を表す。
// 検出された全ての不一致を保持する（最初の1件で打ち切らない）。
type IdentityConflictError struct {
	Mismatches []Mismatch
}

// Error はerrorインターフェースを実装する。
func (e *IdentityConflictError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "名簿の同一性検証に失敗しました（%d件の不一致）:", len(e.Mismatches))
	for _, m := range e.Mismatches {
		fmt.Fprintf(&b, " [id=%d external=%q persisted=%q]", m.ID, m.ExternalName, m.PersistedName)
	}
	return b.String()
}

// ErrEmptyRoster は外部名簿ソースが空の場合に返されるエラー。
// 空のソースで同期すると全メンバーが削除されるため、
// 明示的な許可（--allow-empty）なしでは同期を拒否する。
var ErrEmptyRoster = errors.New("roster: external source is empty")

// FieldChange はメンバー1人のフィールド1つの変更を表す。
type FieldChange struct {
	Field string
	From  string
	To    string
}

// PersonChange は更新されたメンバー1人の変更内容を表す。
type PersonChange struct {
	ID     int64
	Name   string
	Fields []FieldChange
}

// Summary は同期1回の結果を表す。
// コンソールへの逐次出力の代わりに構造化された結果を返し、
// 整形はCLI層に任せる。
type Summary struct {
	Deleted  int
	Updated  int
	Inserted int
	NoOp     bool
	Changes  []PersonChange
}

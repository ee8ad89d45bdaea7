// Package model はドメインモデルを定義する。
package model

// Category はメンバーの区分を表す。
type Category string

const (
	// CategoryMentor はメンター（コーチ）を示す。
	CategoryMentor Category = "mentor"
	// CategoryStudent は生徒を示す。
	CategoryStudent Category = "student"
	// CategoryOther はその他（保護者・ボランティア等）を示す。
	CategoryOther Category = "other"
)

// IsValid はカテゴリが定義済みの値かどうかを返す。
func (c Category) IsValid() bool {
	switch c {
	case CategoryMentor, CategoryStudent, CategoryOther:
		return true
	}
	return false
}

// Person は名簿上のメンバーを表す。
// IDは外部の名簿ソースで採番され、再割り当てされることはない。
// Nameは名簿同期時の同一性検証に使用されるフィールド。
type Person struct {
	ID       int64
	Name     string
	Category Category
	Role     string
	Active   bool
}

package model

import "time"

// ResponseStatus は出欠回答のステータスを表す。
type ResponseStatus string

const (
	// StatusYes は出席を示す。
	StatusYes ResponseStatus = "Yes"
	// StatusNo は欠席を示す。
	StatusNo ResponseStatus = "No"
	// StatusMaybe は未定を示す。
	StatusMaybe ResponseStatus = "Maybe"
)

// IsValid はステータスが定義済みの値かどうかを返す。
func (s ResponseStatus) IsValid() bool {
	switch s {
	case StatusYes, StatusNo, StatusMaybe:
		return true
	}
	return false
}

// AttendanceResponse はメンバー1人のイベント1件に対する出欠回答を表す。
// (EventID, PersonID) の組はストアレベルのUNIQUE制約で一意に保たれる。
// CreatedAtは初回登録時に1度だけ設定され、以降の上書きでは変更されない。
// UpdatedAtは上書きのたびに更新される。
type AttendanceResponse struct {
	ID        string
	EventID   int64
	PersonID  int64
	Status    ResponseStatus
	Note      *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Package model はドメインモデルを定義する。
package model

import "fmt"

// APIError は統一エラーフォーマットを表す。
// UIに表示する原因カテゴリと対処方法を含む。
type APIError struct {
	Code     string // エラーコード
	Message  string // エラーメッセージ
	Category string // カテゴリ: validation, event, roster, system
	Action   string // ユーザー向け対処方法
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード
const (
	ErrCodeEventNotFound     = "EVENT_NOT_FOUND"
	ErrCodePersonNotFound    = "PERSON_NOT_FOUND"
	ErrCodeResponseNotFound  = "RESPONSE_NOT_FOUND"
	ErrCodeEventTypeNotFound = "EVENT_TYPE_NOT_FOUND"
	ErrCodeEventTypeExists   = "EVENT_TYPE_EXISTS"
	ErrCodePersonExists      = "PERSON_EXISTS"
	ErrCodeInvalidName       = "INVALID_NAME"
	ErrCodeInvalidCategory   = "INVALID_CATEGORY"
	ErrCodeInvalidStatus     = "INVALID_STATUS"
	ErrCodeInvalidDate       = "INVALID_DATE"
	ErrCodeInvalidStartTime  = "INVALID_START_TIME"
	ErrCodeInvalidDuration   = "INVALID_DURATION"
	ErrCodeResponseConflict  = "RESPONSE_CONFLICT"
)

// NewEventNotFoundError はイベント未検出エラーを生成する。
func NewEventNotFoundError(eventID int64) *APIError {
	return &APIError{
		Code:     ErrCodeEventNotFound,
		Message:  fmt.Sprintf("指定されたイベントが見つかりません: %d", eventID),
		Category: "event",
		Action:   "イベントIDを確認してください。",
	}
}

// NewPersonNotFoundError はメンバー未検出エラーを生成する。
func NewPersonNotFoundError(personID int64) *APIError {
	return &APIError{
		Code:     ErrCodePersonNotFound,
		Message:  fmt.Sprintf("指定されたメンバーが見つかりません: %d", personID),
		Category: "roster",
		Action:   "メンバーIDを確認してください。名簿同期が未実行の可能性があります。",
	}
}

// NewResponseNotFoundError は出欠回答未検出エラーを生成する。
func NewResponseNotFoundError(eventID, personID int64) *APIError {
	return &APIError{
		Code:     ErrCodeResponseNotFound,
		Message:  fmt.Sprintf("出欠回答が見つかりません: event=%d person=%d", eventID, personID),
		Category: "event",
		Action:   "イベントIDとメンバーIDの組み合わせを確認してください。",
	}
}

// NewEventTypeNotFoundError はイベント種別未検出エラーを生成する。
// 種別は自動作成されないため、先に /event-types で作成する必要がある。
func NewEventTypeNotFoundError(ref string) *APIError {
	return &APIError{
		Code:     ErrCodeEventTypeNotFound,
		Message:  fmt.Sprintf("指定されたイベント種別が見つかりません: %s", ref),
		Category: "validation",
		Action:   "イベント種別を先に /event-types で作成してください。",
	}
}

// NewEventTypeExistsError はイベント種別の重複作成エラーを生成する。
func NewEventTypeExistsError(name string) *APIError {
	return &APIError{
		Code:     ErrCodeEventTypeExists,
		Message:  fmt.Sprintf("イベント種別は既に存在します: %s", name),
		Category: "validation",
		Action:   "既存の種別をそのまま使用してください。",
	}
}

// NewPersonExistsError はメンバーの重複作成エラーを生成する。
func NewPersonExistsError(personID int64) *APIError {
	return &APIError{
		Code:     ErrCodePersonExists,
		Message:  fmt.Sprintf("メンバーは既に存在します: %d", personID),
		Category: "roster",
		Action:   "別のIDを指定するか、名簿同期で更新してください。",
	}
}

// NewInvalidNameError は無効なメンバー名エラーを生成する。
func NewInvalidNameError() *APIError {
	return &APIError{
		Code:     ErrCodeInvalidName,
		Message:  "メンバー名が空です",
		Category: "validation",
		Action:   "空白以外の文字を含む名前を指定してください。",
	}
}

// NewInvalidCategoryError は無効なメンバー種別エラーを生成する。
func NewInvalidCategoryError(category string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidCategory,
		Message:  fmt.Sprintf("無効なメンバー種別です: %q", category),
		Category: "validation",
		Action:   "種別には mentor、student、other のいずれかを指定してください。",
	}
}

// NewInvalidStatusError は無効な出欠ステータスエラーを生成する。
func NewInvalidStatusError(status string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidStatus,
		Message:  fmt.Sprintf("無効な出欠ステータスです: %q", status),
		Category: "validation",
		Action:   "ステータスには Yes、No、Maybe のいずれかを指定してください。",
	}
}

// NewInvalidDateError は無効な日付エラーを生成する。
func NewInvalidDateError(date string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidDate,
		Message:  fmt.Sprintf("無効な日付です: %q", date),
		Category: "validation",
		Action:   "日付はISO形式（YYYY-MM-DD）で指定してください。",
	}
}

// NewInvalidStartTimeError は無効な開始時刻エラーを生成する。
func NewInvalidStartTimeError(startTime string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidStartTime,
		Message:  fmt.Sprintf("無効な開始時刻です: %q", startTime),
		Category: "validation",
		Action:   "開始時刻はISO形式（HH:MM または HH:MM:SS）で指定してください。",
	}
}

// NewInvalidDurationError は無効な所要時間エラーを生成する。
func NewInvalidDurationError(minutes int) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidDuration,
		Message:  fmt.Sprintf("無効な所要時間です: %d分", minutes),
		Category: "validation",
		Action:   "所要時間は正の整数（分）で指定してください。",
	}
}

// NewResponseConflictError は出欠回答の一意制約競合エラーを生成する。
// 同時リクエストによる競合はサービス層で更新として再試行されるため、
// このエラーが外部に返るのは再試行でも解消しなかった場合のみ。
func NewResponseConflictError(eventID, personID int64) *APIError {
	return &APIError{
		Code:     ErrCodeResponseConflict,
		Message:  fmt.Sprintf("出欠回答が競合しました: event=%d person=%d", eventID, personID),
		Category: "system",
		Action:   "しばらく待ってから再度お試しください。",
	}
}

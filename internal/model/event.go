package model

// Event は予定されたイベントを表す。
// DateはISO形式（YYYY-MM-DD）、StartTimeはISO形式（HH:MM:SS）の文字列として保持する。
// 正規化・検証はサービス層で行い、ストアには正規化済みの値のみが入る。
type Event struct {
	ID              int64
	Title           string
	Description     string
	Date            string
	StartTime       string
	DurationMinutes int
	EventTypeID     *int64
	Location        string
	Link            string
}

// EventType はイベントの種別（ミーティング、練習等）を表す。
// Nameは一意。Colorはフロントエンド表示用の16進カラーコード（省略可）。
type EventType struct {
	ID    int64
	Name  string
	Color string
}

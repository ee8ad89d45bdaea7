package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/teamcal/internal/event"
	"github.com/hitoshi/teamcal/internal/model"
)

// EventServiceInterface はイベントハンドラーが必要とするサービスインターフェース。
type EventServiceInterface interface {
	// Create はイベントを作成する。
	Create(ctx context.Context, in event.Input) (*event.Detail, error)
	// Update は既存イベントを上書き更新する。
	Update(ctx context.Context, id int64, in event.Input) (*event.Detail, error)
	// Get は指定IDのイベントを種別情報込みで取得する。
	Get(ctx context.Context, id int64) (*event.Detail, error)
	// List は全イベントを開催日昇順で、種別情報込みで返す。
	List(ctx context.Context) ([]*event.Detail, error)
	// Delete は指定IDのイベントを削除する。
	Delete(ctx context.Context, id int64) error
	// CreateType はイベント種別を作成する。
	CreateType(ctx context.Context, name, color string) (*model.EventType, error)
	// ListTypes は全イベント種別を返す。
	ListTypes(ctx context.Context) ([]*model.EventType, error)
}

// EventHandler はイベント管理のHTTPハンドラー。
type EventHandler struct {
	service EventServiceInterface
}

// NewEventHandler はEventHandlerを生成する。
func NewEventHandler(service EventServiceInterface) *EventHandler {
	return &EventHandler{service: service}
}

// eventRequest はイベント作成・更新リクエストのボディ。
type eventRequest struct {
	Title           string  `json:"title"`
	Description     string  `json:"description"`
	Date            string  `json:"date"`
	StartTime       string  `json:"start_time"`
	DurationMinutes int     `json:"duration_minutes"`
	EventTypeID     *int64  `json:"event_type_id,omitempty"`
	EventTypeName   *string `json:"event_type_name,omitempty"`
	Location        string  `json:"location"`
	Link            string  `json:"link"`
}

// eventResponse はイベント情報のAPIレスポンス。
// 種別は参照IDに加えて解決済みの名前と色を含む。
type eventResponse struct {
	ID              int64   `json:"id"`
	Title           string  `json:"title"`
	Description     string  `json:"description"`
	Date            string  `json:"date"`
	StartTime       string  `json:"start_time"`
	DurationMinutes int     `json:"duration_minutes"`
	EventTypeID     *int64  `json:"event_type_id,omitempty"`
	EventTypeName   *string `json:"event_type_name,omitempty"`
	EventTypeColor  *string `json:"event_type_color,omitempty"`
	Location        string  `json:"location"`
	Link            string  `json:"link"`
}

// eventTypeRequest はイベント種別作成リクエストのボディ。
type eventTypeRequest struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

// eventTypeResponse はイベント種別のAPIレスポンス。
type eventTypeResponse struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

// CreateEvent はイベント作成を処理する。
// POST /api/events
func (h *EventHandler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var req eventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequestBody(w)
		return
	}

	created, err := h.service.Create(r.Context(), toEventInput(req))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(toEventResponse(created))
}

// ListEvents はイベント一覧を取得する。
// GET /api/events
func (h *EventHandler) ListEvents(w http.ResponseWriter, r *http.Request) {
	events, err := h.service.List(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	results := make([]eventResponse, len(events))
	for i, e := range events {
		results[i] = toEventResponse(e)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(results)
}

// GetEvent はイベント詳細を取得する。
// GET /api/events/:id
func (h *EventHandler) GetEvent(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "id")
	if !ok {
		return
	}

	e, err := h.service.Get(r.Context(), id)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(toEventResponse(e))
}

// UpdateEvent はイベント更新を処理する。
// PUT /api/events/:id
func (h *EventHandler) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "id")
	if !ok {
		return
	}

	var req eventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequestBody(w)
		return
	}

	updated, err := h.service.Update(r.Context(), id, toEventInput(req))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(toEventResponse(updated))
}

// DeleteEvent はイベント削除を処理する。
// DELETE /api/events/:id
func (h *EventHandler) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// CreateEventType はイベント種別作成を処理する。
// POST /api/event-types
func (h *EventHandler) CreateEventType(w http.ResponseWriter, r *http.Request) {
	var req eventTypeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequestBody(w)
		return
	}

	if req.Name == "" {
		writeAPIErrorResponse(w, http.StatusBadRequest, &model.APIError{
			Code:     "INVALID_REQUEST",
			Message:  "種別名が空です。",
			Category: "validation",
			Action:   "nameを指定してください。",
		})
		return
	}

	created, err := h.service.CreateType(r.Context(), req.Name, req.Color)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(toEventTypeResponse(created))
}

// ListEventTypes はイベント種別一覧を取得する。
// GET /api/event-types
func (h *EventHandler) ListEventTypes(w http.ResponseWriter, r *http.Request) {
	types, err := h.service.ListTypes(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	results := make([]eventTypeResponse, len(types))
	for i, et := range types {
		results[i] = toEventTypeResponse(et)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(results)
}

// parseIDParam はURLパスの整数IDパラメータを解析する。
// 解析に失敗した場合はエラーレスポンスを書き込み、falseを返す。
func parseIDParam(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, &model.APIError{
			Code:     "INVALID_REQUEST",
			Message:  "IDは整数で指定してください: " + raw,
			Category: "validation",
			Action:   "URLパスのIDを確認してください。",
		})
		return 0, false
	}
	return id, true
}

// toEventInput はリクエストボディをサービス入力に変換する。
func toEventInput(req eventRequest) event.Input {
	return event.Input{
		Title:           req.Title,
		Description:     req.Description,
		Date:            req.Date,
		StartTime:       req.StartTime,
		DurationMinutes: req.DurationMinutes,
		EventTypeID:     req.EventTypeID,
		EventTypeName:   req.EventTypeName,
		Location:        req.Location,
		Link:            req.Link,
	}
}

// toEventResponse はイベント詳細をAPIレスポンス型に変換する。
func toEventResponse(d *event.Detail) eventResponse {
	e := d.Event
	return eventResponse{
		ID:              e.ID,
		Title:           e.Title,
		Description:     e.Description,
		Date:            e.Date,
		StartTime:       e.StartTime,
		DurationMinutes: e.DurationMinutes,
		EventTypeID:     e.EventTypeID,
		EventTypeName:   d.TypeName,
		EventTypeColor:  d.TypeColor,
		Location:        e.Location,
		Link:            e.Link,
	}
}

// toEventTypeResponse はドメインのEventTypeをAPIレスポンス型に変換する。
func toEventTypeResponse(et *model.EventType) eventTypeResponse {
	return eventTypeResponse{
		ID:    et.ID,
		Name:  et.Name,
		Color: et.Color,
	}
}

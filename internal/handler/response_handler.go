package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/hitoshi/teamcal/internal/model"
	"github.com/hitoshi/teamcal/internal/response"
)

// ResponseServiceInterface は出欠回答ハンドラーが必要とするサービスインターフェース。
type ResponseServiceInterface interface {
	// Record はメンバーの出欠回答を登録または上書きする。
	Record(ctx context.Context, eventID, personID int64, status string, note *string) (*model.AttendanceResponse, error)
	// List はイベントの全出欠回答を返す。
	List(ctx context.Context, eventID int64) ([]*model.AttendanceResponse, error)
	// Delete は (eventID, personID) の出欠回答を削除する。
	Delete(ctx context.Context, eventID, personID int64) error
	// Summarize はイベントの出欠回答を集計する。
	Summarize(ctx context.Context, eventID int64) (*response.Summary, error)
}

// ResponseHandler は出欠回答のHTTPハンドラー。
type ResponseHandler struct {
	service ResponseServiceInterface
}

// NewResponseHandler はResponseHandlerを生成する。
func NewResponseHandler(service ResponseServiceInterface) *ResponseHandler {
	return &ResponseHandler{service: service}
}

// recordResponseRequest は出欠回答登録リクエストのボディ。
type recordResponseRequest struct {
	PersonID int64   `json:"user_id"`
	Status   string  `json:"status"`
	Note     *string `json:"note,omitempty"`
}

// attendanceResponseBody は出欠回答のAPIレスポンス。
type attendanceResponseBody struct {
	ID        string    `json:"id"`
	EventID   int64     `json:"event_id"`
	PersonID  int64     `json:"user_id"`
	Status    string    `json:"status"`
	Note      *string   `json:"note,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// summaryResponse は出欠集計のAPIレスポンス。
type summaryResponse struct {
	Yes               int `json:"yes"`
	No                int `json:"no"`
	Maybe             int `json:"maybe"`
	MentorsAttending  int `json:"mentors_attending"`
	StudentsAttending int `json:"students_attending"`
}

// RecordResponse は出欠回答の登録・上書きを処理する。
// POST /api/events/:id/responses
func (h *ResponseHandler) RecordResponse(w http.ResponseWriter, r *http.Request) {
	eventID, ok := parseIDParam(w, r, "id")
	if !ok {
		return
	}

	var req recordResponseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequestBody(w)
		return
	}

	resp, err := h.service.Record(r.Context(), eventID, req.PersonID, req.Status, req.Note)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(toAttendanceResponseBody(resp))
}

// ListResponses はイベントの出欠回答一覧を取得する。
// GET /api/events/:id/responses
func (h *ResponseHandler) ListResponses(w http.ResponseWriter, r *http.Request) {
	eventID, ok := parseIDParam(w, r, "id")
	if !ok {
		return
	}

	responses, err := h.service.List(r.Context(), eventID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	results := make([]attendanceResponseBody, len(responses))
	for i, resp := range responses {
		results[i] = toAttendanceResponseBody(resp)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(results)
}

// DeleteResponse は出欠回答の削除を処理する。
// DELETE /api/events/:id/responses/:personID
func (h *ResponseHandler) DeleteResponse(w http.ResponseWriter, r *http.Request) {
	eventID, ok := parseIDParam(w, r, "id")
	if !ok {
		return
	}
	personID, ok := parseIDParam(w, r, "personID")
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), eventID, personID); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// GetSummary はイベントの出欠集計を取得する。
// GET /api/events/:id/responses/summary
func (h *ResponseHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	eventID, ok := parseIDParam(w, r, "id")
	if !ok {
		return
	}

	summary, err := h.service.Summarize(r.Context(), eventID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(summaryResponse{
		Yes:               summary.Yes,
		No:                summary.No,
		Maybe:             summary.Maybe,
		MentorsAttending:  summary.MentorsAttending,
		StudentsAttending: summary.StudentsAttending,
	})
}

// toAttendanceResponseBody はドメインのAttendanceResponseをAPIレスポンス型に変換する。
func toAttendanceResponseBody(resp *model.AttendanceResponse) attendanceResponseBody {
	return attendanceResponseBody{
		ID:        resp.ID,
		EventID:   resp.EventID,
		PersonID:  resp.PersonID,
		Status:    string(resp.Status),
		Note:      resp.Note,
		CreatedAt: resp.CreatedAt,
		UpdatedAt: resp.UpdatedAt,
	}
}

package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/hitoshi/teamcal/internal/event"
	"github.com/hitoshi/teamcal/internal/model"
)

func TestCreateEvent(t *testing.T) {
	eventSvc := &mockEventService{
		createFunc: func(ctx context.Context, in event.Input) (*event.Detail, error) {
			typeName := "Training"
			typeColor := "#3498db"
			return &event.Detail{
				Event: &model.Event{
					ID:              7,
					Title:           in.Title,
					Date:            in.Date,
					StartTime:       "18:00:00",
					DurationMinutes: in.DurationMinutes,
					Location:        in.Location,
				},
				TypeName:  &typeName,
				TypeColor: &typeColor,
			}, nil
		},
	}
	router := newTestRouter(eventSvc, &mockResponseService{}, &mockPersonService{})

	body := `{"title":"Weekly Training","date":"2026-09-05","start_time":"18:00","duration_minutes":120,"location":"Workshop"}`
	req := httptest.NewRequest(http.MethodPost, "/api/events", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp eventResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if resp.ID != 7 || resp.Title != "Weekly Training" || resp.StartTime != "18:00:00" {
		t.Errorf("unexpected response: %+v", resp)
	}
	if resp.EventTypeName == nil || *resp.EventTypeName != "Training" {
		t.Errorf("expected resolved type name, got %v", resp.EventTypeName)
	}
	if resp.EventTypeColor == nil || *resp.EventTypeColor != "#3498db" {
		t.Errorf("expected resolved type color, got %v", resp.EventTypeColor)
	}
}

func TestCreateEvent_InvalidBody(t *testing.T) {
	router := newTestRouter(&mockEventService{}, &mockResponseService{}, &mockPersonService{})

	req := httptest.NewRequest(http.MethodPost, "/api/events", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestCreateEvent_ValidationErrorMapsTo400(t *testing.T) {
	eventSvc := &mockEventService{
		createFunc: func(ctx context.Context, in event.Input) (*event.Detail, error) {
			return nil, model.NewInvalidDateError(in.Date)
		},
	}
	router := newTestRouter(eventSvc, &mockResponseService{}, &mockPersonService{})

	body := `{"title":"X","date":"bad","start_time":"18:00","duration_minutes":60}`
	req := httptest.NewRequest(http.MethodPost, "/api/events", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}

	var errResp apiErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &errResp); err != nil {
		t.Fatalf("failed to parse error response: %v", err)
	}
	if errResp.Code != model.ErrCodeInvalidDate {
		t.Errorf("unexpected error code: %q", errResp.Code)
	}
	if errResp.Action == "" {
		t.Error("expected non-empty action in error response")
	}
}

func TestCreateEvent_UnknownTypeMapsTo400(t *testing.T) {
	eventSvc := &mockEventService{
		createFunc: func(ctx context.Context, in event.Input) (*event.Detail, error) {
			return nil, model.NewEventTypeNotFoundError("Training")
		},
	}
	router := newTestRouter(eventSvc, &mockResponseService{}, &mockPersonService{})

	body := `{"title":"Weekly Training","date":"2026-09-01","start_time":"18:00","duration_minutes":90,"event_type_name":"Training"}`
	req := httptest.NewRequest(http.MethodPost, "/api/events", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown event type in payload, got %d", rec.Code)
	}

	var errResp apiErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &errResp); err != nil {
		t.Fatalf("failed to parse error response: %v", err)
	}
	if errResp.Code != model.ErrCodeEventTypeNotFound {
		t.Errorf("unexpected error code: %q", errResp.Code)
	}
}

func TestGetEvent_NotFound(t *testing.T) {
	eventSvc := &mockEventService{
		getFunc: func(ctx context.Context, id int64) (*event.Detail, error) {
			return nil, model.NewEventNotFoundError(id)
		},
	}
	router := newTestRouter(eventSvc, &mockResponseService{}, &mockPersonService{})

	req := httptest.NewRequest(http.MethodGet, "/api/events/99", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}

func TestGetEvent_NonIntegerID(t *testing.T) {
	router := newTestRouter(&mockEventService{}, &mockResponseService{}, &mockPersonService{})

	req := httptest.NewRequest(http.MethodGet, "/api/events/abc", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for non-integer ID, got %d", rec.Code)
	}
}

func TestDeleteEvent(t *testing.T) {
	var deletedID int64
	eventSvc := &mockEventService{
		deleteFunc: func(ctx context.Context, id int64) error {
			deletedID = id
			return nil
		},
	}
	router := newTestRouter(eventSvc, &mockResponseService{}, &mockPersonService{})

	req := httptest.NewRequest(http.MethodDelete, "/api/events/7", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Errorf("expected 204, got %d", rec.Code)
	}
	if deletedID != 7 {
		t.Errorf("expected delete of event 7, got %d", deletedID)
	}
}

func TestCreateEventType_Duplicate(t *testing.T) {
	eventSvc := &mockEventService{
		createTypeFunc: func(ctx context.Context, name, color string) (*model.EventType, error) {
			return nil, model.NewEventTypeExistsError(name)
		},
	}
	router := newTestRouter(eventSvc, &mockResponseService{}, &mockPersonService{})

	body := `{"name":"Training","color":"#3498db"}`
	req := httptest.NewRequest(http.MethodPost, "/api/event-types", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusConflict {
		t.Errorf("expected 409 for duplicate type, got %d", rec.Code)
	}
}

func TestListEventTypes(t *testing.T) {
	eventSvc := &mockEventService{
		listTypesFunc: func(ctx context.Context) ([]*model.EventType, error) {
			return []*model.EventType{
				{ID: 1, Name: "Competition", Color: "#e74c3c"},
				{ID: 2, Name: "Training", Color: "#3498db"},
			}, nil
		},
	}
	router := newTestRouter(eventSvc, &mockResponseService{}, &mockPersonService{})

	req := httptest.NewRequest(http.MethodGet, "/api/event-types", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var types []eventTypeResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &types); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if len(types) != 2 || types[0].Name != "Competition" {
		t.Errorf("unexpected types: %+v", types)
	}
}

func TestHealthEndpoint(t *testing.T) {
	router := newTestRouter(&mockEventService{}, &mockResponseService{}, &mockPersonService{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to parse body: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("unexpected status: %q", body["status"])
	}
}

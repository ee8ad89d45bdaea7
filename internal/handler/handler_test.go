package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/hitoshi/teamcal/internal/event"
	"github.com/hitoshi/teamcal/internal/middleware"
	"github.com/hitoshi/teamcal/internal/model"
	"github.com/hitoshi/teamcal/internal/response"
)

// mockEventService はテスト用のEventServiceInterfaceモック。
type mockEventService struct {
	createFunc     func(ctx context.Context, in event.Input) (*event.Detail, error)
	updateFunc     func(ctx context.Context, id int64, in event.Input) (*event.Detail, error)
	getFunc        func(ctx context.Context, id int64) (*event.Detail, error)
	listFunc       func(ctx context.Context) ([]*event.Detail, error)
	deleteFunc     func(ctx context.Context, id int64) error
	createTypeFunc func(ctx context.Context, name, color string) (*model.EventType, error)
	listTypesFunc  func(ctx context.Context) ([]*model.EventType, error)
}

func (m *mockEventService) Create(ctx context.Context, in event.Input) (*event.Detail, error) {
	return m.createFunc(ctx, in)
}

func (m *mockEventService) Update(ctx context.Context, id int64, in event.Input) (*event.Detail, error) {
	return m.updateFunc(ctx, id, in)
}

func (m *mockEventService) Get(ctx context.Context, id int64) (*event.Detail, error) {
	return m.getFunc(ctx, id)
}

func (m *mockEventService) List(ctx context.Context) ([]*event.Detail, error) {
	return m.listFunc(ctx)
}

func (m *mockEventService) Delete(ctx context.Context, id int64) error {
	return m.deleteFunc(ctx, id)
}

func (m *mockEventService) CreateType(ctx context.Context, name, color string) (*model.EventType, error) {
	return m.createTypeFunc(ctx, name, color)
}

func (m *mockEventService) ListTypes(ctx context.Context) ([]*model.EventType, error) {
	return m.listTypesFunc(ctx)
}

// mockResponseService はテスト用のResponseServiceInterfaceモック。
type mockResponseService struct {
	recordFunc    func(ctx context.Context, eventID, personID int64, status string, note *string) (*model.AttendanceResponse, error)
	listFunc      func(ctx context.Context, eventID int64) ([]*model.AttendanceResponse, error)
	deleteFunc    func(ctx context.Context, eventID, personID int64) error
	summarizeFunc func(ctx context.Context, eventID int64) (*response.Summary, error)
}

func (m *mockResponseService) Record(ctx context.Context, eventID, personID int64, status string, note *string) (*model.AttendanceResponse, error) {
	return m.recordFunc(ctx, eventID, personID, status, note)
}

func (m *mockResponseService) List(ctx context.Context, eventID int64) ([]*model.AttendanceResponse, error) {
	return m.listFunc(ctx, eventID)
}

func (m *mockResponseService) Delete(ctx context.Context, eventID, personID int64) error {
	return m.deleteFunc(ctx, eventID, personID)
}

func (m *mockResponseService) Summarize(ctx context.Context, eventID int64) (*response.Summary, error) {
	return m.summarizeFunc(ctx, eventID)
}

// mockPersonService はテスト用のPersonServiceInterfaceモック。
type mockPersonService struct {
	createFunc func(ctx context.Context, person *model.Person) (*model.Person, error)
	listFunc   func(ctx context.Context) ([]*model.Person, error)
	deleteFunc func(ctx context.Context, id int64) error
}

func (m *mockPersonService) Create(ctx context.Context, person *model.Person) (*model.Person, error) {
	return m.createFunc(ctx, person)
}

func (m *mockPersonService) List(ctx context.Context) ([]*model.Person, error) {
	return m.listFunc(ctx)
}

func (m *mockPersonService) Delete(ctx context.Context, id int64) error {
	return m.deleteFunc(ctx, id)
}

// newTestRouter はテスト用の依存でルーターを組み立てる。
// レート制限はテストが引っかからない程度に緩く設定する。
func newTestRouter(eventSvc EventServiceInterface, respSvc ResponseServiceInterface, personSvc PersonServiceInterface) http.Handler {
	rl := middleware.NewRateLimiter(middleware.RateLimiterConfig{
		GeneralRate:     rate.Limit(1000),
		GeneralBurst:    1000,
		MutationRate:    rate.Limit(1000),
		MutationBurst:   1000,
		CleanupInterval: time.Hour,
	})

	return NewRouter(&RouterDeps{
		CORSAllowedOrigin: "http://localhost:3000",
		RateLimiter:       rl,
		Logger:            slog.New(slog.DiscardHandler),
		EventService:      eventSvc,
		ResponseService:   respSvc,
		PersonService:     personSvc,
	})
}

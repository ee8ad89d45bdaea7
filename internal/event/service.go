// Package event はイベントとイベント種別のユースケースを提供する。
package event

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/hitoshi/teamcal/internal/model"
	"github.com/hitoshi/teamcal/internal/repository"
	"github.com/hitoshi/teamcal/internal/security"
)

// Input はイベント作成・更新の入力を表す。
// 種別はEventTypeID（ID指定）またはEventTypeName（名前指定）のどちらかで指定する。
// 両方nilの場合は種別なしのイベントになる。
type Input struct {
	Title           string
	Description     string
	Date            string
	StartTime       string
	DurationMinutes int
	EventTypeID     *int64
	EventTypeName   *string
	Location        string
	Link            string
}

// Detail はイベントと解決済みの種別名・色を表す。
// 種別なしのイベントではTypeNameとTypeColorはnilになる。
type Detail struct {
	Event     *model.Event
	TypeName  *string
	TypeColor *string
}

// Service はイベントサービスを提供する。
type Service struct {
	eventRepo     repository.EventRepository
	eventTypeRepo repository.EventTypeRepository
	sanitizer     security.ContentSanitizerService
	logger        *slog.Logger
}

// NewService はイベントサービスを生成する。
func NewService(
	eventRepo repository.EventRepository,
	eventTypeRepo repository.EventTypeRepository,
	sanitizer security.ContentSanitizerService,
	logger *slog.Logger,
) *Service {
	return &Service{
		eventRepo:     eventRepo,
		eventTypeRepo: eventTypeRepo,
		sanitizer:     sanitizer,
		logger:        logger,
	}
}

// Create はイベントを作成する。
// 日付・開始時刻・所要時間を検証し、説明文をサニタイズしてから保存する。
// 指定された種別が存在しない場合はエラーを返す（種別の自動作成は行わない）。
func (s *Service) Create(ctx context.Context, in Input) (*Detail, error) {
	event, eventType, err := s.build(ctx, in)
	if err != nil {
		return nil, err
	}

	if err := s.eventRepo.Create(ctx, event); err != nil {
		return nil, fmt.Errorf("イベントの作成に失敗しました: %w", err)
	}

	s.logger.Info("event created",
		slog.Int64("event_id", event.ID),
		slog.String("title", event.Title),
		slog.String("date", event.Date),
	)
	return newDetail(event, eventType), nil
}

// Update は既存イベントを上書き更新する。
func (s *Service) Update(ctx context.Context, id int64, in Input) (*Detail, error) {
	existing, err := s.eventRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("イベントの取得に失敗しました: %w", err)
	}
	if existing == nil {
		return nil, model.NewEventNotFoundError(id)
	}

	event, eventType, err := s.build(ctx, in)
	if err != nil {
		return nil, err
	}
	event.ID = id

	if err := s.eventRepo.Update(ctx, event); err != nil {
		return nil, fmt.Errorf("イベントの更新に失敗しました: %w", err)
	}

	s.logger.Info("event updated", slog.Int64("event_id", id))
	return newDetail(event, eventType), nil
}

// Get は指定IDのイベントを種別情報込みで取得する。
func (s *Service) Get(ctx context.Context, id int64) (*Detail, error) {
	event, err := s.eventRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("イベントの取得に失敗しました: %w", err)
	}
	if event == nil {
		return nil, model.NewEventNotFoundError(id)
	}

	eventType, err := s.lookupType(ctx, event.EventTypeID)
	if err != nil {
		return nil, err
	}
	return newDetail(event, eventType), nil
}

// List は全イベントを開催日昇順で、種別情報込みで返す。
func (s *Service) List(ctx context.Context) ([]*Detail, error) {
	events, err := s.eventRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("イベント一覧の取得に失敗しました: %w", err)
	}

	types, err := s.eventTypeRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("イベント種別一覧の取得に失敗しました: %w", err)
	}
	typesByID := make(map[int64]*model.EventType, len(types))
	for _, et := range types {
		typesByID[et.ID] = et
	}

	details := make([]*Detail, len(events))
	for i, e := range events {
		var et *model.EventType
		if e.EventTypeID != nil {
			et = typesByID[*e.EventTypeID]
		}
		details[i] = newDetail(e, et)
	}
	return details, nil
}

// Delete は指定IDのイベントを削除する。
// 関連する出欠回答はストア側でCASCADE削除される。
func (s *Service) Delete(ctx context.Context, id int64) error {
	existing, err := s.eventRepo.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("イベントの取得に失敗しました: %w", err)
	}
	if existing == nil {
		return model.NewEventNotFoundError(id)
	}

	if err := s.eventRepo.DeleteByID(ctx, id); err != nil {
		return fmt.Errorf("イベントの削除に失敗しました: %w", err)
	}

	s.logger.Info("event deleted", slog.Int64("event_id", id))
	return nil
}

// build は入力を検証してEventを組み立てる。ストアへの書き込みは行わない。
// 解決済みの種別も合わせて返す（種別なしの場合はnil）。
func (s *Service) build(ctx context.Context, in Input) (*model.Event, *model.EventType, error) {
	date, err := normalizeDate(in.Date)
	if err != nil {
		return nil, nil, model.NewInvalidDateError(in.Date)
	}

	startTime, err := normalizeStartTime(in.StartTime)
	if err != nil {
		return nil, nil, model.NewInvalidStartTimeError(in.StartTime)
	}

	if in.DurationMinutes <= 0 {
		return nil, nil, model.NewInvalidDurationError(in.DurationMinutes)
	}

	eventType, err := s.resolveEventType(ctx, in.EventTypeID, in.EventTypeName)
	if err != nil {
		return nil, nil, err
	}

	var eventTypeID *int64
	if eventType != nil {
		eventTypeID = &eventType.ID
	}

	return &model.Event{
		Title:           in.Title,
		Description:     s.sanitizer.SanitizeDescription(in.Description),
		Date:            date,
		StartTime:       startTime,
		DurationMinutes: in.DurationMinutes,
		EventTypeID:     eventTypeID,
		Location:        in.Location,
		Link:            in.Link,
	}, eventType, nil
}

// resolveEventType は種別の参照を解決する。
// 存在しない種別への参照はエラーとし、自動作成は行わない。
func (s *Service) resolveEventType(ctx context.Context, id *int64, name *string) (*model.EventType, error) {
	if id != nil {
		et, err := s.eventTypeRepo.FindByID(ctx, *id)
		if err != nil {
			return nil, fmt.Errorf("イベント種別の取得に失敗しました: %w", err)
		}
		if et == nil {
			return nil, model.NewEventTypeNotFoundError(strconv.FormatInt(*id, 10))
		}
		return et, nil
	}

	if name != nil {
		et, err := s.eventTypeRepo.FindByName(ctx, *name)
		if err != nil {
			return nil, fmt.Errorf("イベント種別の取得に失敗しました: %w", err)
		}
		if et == nil {
			return nil, model.NewEventTypeNotFoundError(*name)
		}
		return et, nil
	}

	return nil, nil
}

// lookupType はイベントが参照する種別を取得する。参照なしはnilを返す。
func (s *Service) lookupType(ctx context.Context, id *int64) (*model.EventType, error) {
	if id == nil {
		return nil, nil
	}
	et, err := s.eventTypeRepo.FindByID(ctx, *id)
	if err != nil {
		return nil, fmt.Errorf("イベント種別の取得に失敗しました: %w", err)
	}
	return et, nil
}

// newDetail はイベントと種別からDetailを組み立てる。
func newDetail(event *model.Event, eventType *model.EventType) *Detail {
	d := &Detail{Event: event}
	if eventType != nil {
		d.TypeName = &eventType.Name
		d.TypeColor = &eventType.Color
	}
	return d
}

// normalizeDate は日付をISO形式（YYYY-MM-DD）に正規化する。
func normalizeDate(raw string) (string, error) {
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return "", err
	}
	return t.Format("2006-01-02"), nil
}

// normalizeStartTime は開始時刻をHH:MM:SSに正規化する。
// HH:MM と HH:MM:SS の両方の入力を受け付ける。
func normalizeStartTime(raw string) (string, error) {
	for _, layout := range []string{"15:04:05", "15:04"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format("15:04:05"), nil
		}
	}
	return "", fmt.Errorf("invalid start time: %q", raw)
}

// CreateType はイベント種別を作成する。
// 名前の一意制約違反はEVENT_TYPE_EXISTSとして返す。
func (s *Service) CreateType(ctx context.Context, name, color string) (*model.EventType, error) {
	et := &model.EventType{Name: name, Color: color}
	if err := s.eventTypeRepo.Create(ctx, et); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, model.NewEventTypeExistsError(name)
		}
		return nil, fmt.Errorf("イベント種別の作成に失敗しました: %w", err)
	}

	s.logger.Info("event type created",
		slog.Int64("event_type_id", et.ID),
		slog.String("name", name),
	)
	return et, nil
}

// ListTypes は全イベント種別をID昇順で返す。
func (s *Service) ListTypes(ctx context.Context) ([]*model.EventType, error) {
	types, err := s.eventTypeRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("イベント種別一覧の取得に失敗しました: %w", err)
	}
	return types, nil
}

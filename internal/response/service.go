// Package response は出欠回答のユースケースを提供する。
package response

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/hitoshi/teamcal/internal/model"
	"github.com/hitoshi/teamcal/internal/repository"
	"github.com/hitoshi/teamcal/internal/security"
)

// Summary はイベント1件の出欠集計を表す。
// MentorsAttendingとStudentsAttendingは出席（Yes）回答のうち
// メンバー種別がmentor/studentのものを数える。other種別はどちらにも含まれない。
type Summary struct {
	Yes               int
	No                int
	Maybe             int
	MentorsAttending  int
	StudentsAttending int
}

// MetricsRecorder は出欠回答の登録・上書きを記録するメトリクス収集。
type MetricsRecorder interface {
	RecordResponseUpserted()
}

// Service は出欠回答サービスを提供する。
type Service struct {
	responseRepo repository.ResponseRepository
	eventRepo    repository.EventRepository
	personRepo   repository.PersonRepository
	sanitizer    security.ContentSanitizerService
	logger       *slog.Logger
	metrics      MetricsRecorder
}

// NewService は出欠回答サービスを生成する。metricsはnil可。
func NewService(
	responseRepo repository.ResponseRepository,
	eventRepo repository.EventRepository,
	personRepo repository.PersonRepository,
	sanitizer security.ContentSanitizerService,
	logger *slog.Logger,
	metrics MetricsRecorder,
) *Service {
	return &Service{
		responseRepo: responseRepo,
		eventRepo:    eventRepo,
		personRepo:   personRepo,
		sanitizer:    sanitizer,
		logger:       logger,
		metrics:      metrics,
	}
}

func (s *Service) recordUpserted() {
	if s.metrics != nil {
		s.metrics.RecordResponseUpserted()
	}
}

// Record はメンバーの出欠回答を登録または上書きする。
// (eventID, personID) につき回答は常に1件で、既存の回答があれば
// status, note, updated_at のみを上書きし、idとcreated_atは保持する。
// 同一内容で何度呼んでも結果は1件のまま変わらない。
func (s *Service) Record(ctx context.Context, eventID, personID int64, status string, note *string) (*model.AttendanceResponse, error) {
	event, err := s.eventRepo.FindByID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("イベントの取得に失敗しました: %w", err)
	}
	if event == nil {
		return nil, model.NewEventNotFoundError(eventID)
	}

	person, err := s.personRepo.FindByID(ctx, personID)
	if err != nil {
		return nil, fmt.Errorf("メンバーの取得に失敗しました: %w", err)
	}
	if person == nil {
		return nil, model.NewPersonNotFoundError(personID)
	}

	st := model.ResponseStatus(status)
	if !st.IsValid() {
		return nil, model.NewInvalidStatusError(status)
	}

	if note != nil {
		sanitized := s.sanitizer.SanitizeNote(*note)
		note = &sanitized
	}

	existing, err := s.responseRepo.FindByEventAndPerson(ctx, eventID, personID)
	if err != nil {
		return nil, fmt.Errorf("出欠回答の取得に失敗しました: %w", err)
	}
	if existing != nil {
		return s.overwrite(ctx, existing, st, note)
	}

	now := time.Now().UTC()
	resp := &model.AttendanceResponse{
		ID:        uuid.NewString(),
		EventID:   eventID,
		PersonID:  personID,
		Status:    st,
		Note:      note,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.responseRepo.Insert(ctx, resp); err != nil {
		if repository.IsUniqueViolation(err) {
			// 同時リクエストに先を越された場合は更新として再試行する
			return s.retryAsUpdate(ctx, eventID, personID, st, note)
		}
		return nil, fmt.Errorf("出欠回答の登録に失敗しました: %w", err)
	}

	s.recordUpserted()
	s.logger.Info("attendance response recorded",
		slog.Int64("event_id", eventID),
		slog.Int64("person_id", personID),
		slog.String("status", string(st)),
	)
	return resp, nil
}

// overwrite は既存回答のstatus, note, updated_atを上書きする。
func (s *Service) overwrite(ctx context.Context, existing *model.AttendanceResponse, st model.ResponseStatus, note *string) (*model.AttendanceResponse, error) {
	existing.Status = st
	existing.Note = note
	existing.UpdatedAt = time.Now().UTC()
	if err := s.responseRepo.Update(ctx, existing); err != nil {
		return nil, fmt.Errorf("出欠回答の更新に失敗しました: %w", err)
	}

	s.recordUpserted()
	s.logger.Info("attendance response updated",
		slog.Int64("event_id", existing.EventID),
		slog.Int64("person_id", existing.PersonID),
		slog.String("status", string(st)),
	)
	return existing, nil
}

// retryAsUpdate は挿入時の一意制約違反を更新として再試行する。
// 再読み込みでも行が見つからない場合は競合エラーを返す。
func (s *Service) retryAsUpdate(ctx context.Context, eventID, personID int64, st model.ResponseStatus, note *string) (*model.AttendanceResponse, error) {
	existing, err := s.responseRepo.FindByEventAndPerson(ctx, eventID, personID)
	if err != nil {
		return nil, fmt.Errorf("出欠回答の再取得に失敗しました: %w", err)
	}
	if existing == nil {
		return nil, model.NewResponseConflictError(eventID, personID)
	}
	return s.overwrite(ctx, existing, st, note)
}

// List はイベントの全出欠回答を作成日時昇順で返す。
func (s *Service) List(ctx context.Context, eventID int64) ([]*model.AttendanceResponse, error) {
	event, err := s.eventRepo.FindByID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("イベントの取得に失敗しました: %w", err)
	}
	if event == nil {
		return nil, model.NewEventNotFoundError(eventID)
	}

	responses, err := s.responseRepo.ListByEventID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("出欠回答一覧の取得に失敗しました: %w", err)
	}
	return responses, nil
}

// Delete は (eventID, personID) の出欠回答を削除する。
// 回答が存在しない場合はRESPONSE_NOT_FOUNDを返す。
func (s *Service) Delete(ctx context.Context, eventID, personID int64) error {
	event, err := s.eventRepo.FindByID(ctx, eventID)
	if err != nil {
		return fmt.Errorf("イベントの取得に失敗しました: %w", err)
	}
	if event == nil {
		return model.NewEventNotFoundError(eventID)
	}

	deleted, err := s.responseRepo.DeleteByEventAndPerson(ctx, eventID, personID)
	if err != nil {
		return fmt.Errorf("出欠回答の削除に失敗しました: %w", err)
	}
	if !deleted {
		return model.NewResponseNotFoundError(eventID, personID)
	}

	s.logger.Info("attendance response deleted",
		slog.Int64("event_id", eventID),
		slog.Int64("person_id", personID),
	)
	return nil
}

// Summarize はイベントの出欠回答を集計する。
func (s *Service) Summarize(ctx context.Context, eventID int64) (*Summary, error) {
	event, err := s.eventRepo.FindByID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("イベントの取得に失敗しました: %w", err)
	}
	if event == nil {
		return nil, model.NewEventNotFoundError(eventID)
	}

	responses, err := s.responseRepo.ListByEventID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("出欠回答一覧の取得に失敗しました: %w", err)
	}

	persons, err := s.personRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("メンバー一覧の取得に失敗しました: %w", err)
	}
	categoryByID := make(map[int64]model.Category, len(persons))
	for _, p := range persons {
		categoryByID[p.ID] = p.Category
	}

	var summary Summary
	for _, resp := range responses {
		switch resp.Status {
		case model.StatusYes:
			summary.Yes++
			switch categoryByID[resp.PersonID] {
			case model.CategoryMentor:
				summary.MentorsAttending++
			case model.CategoryStudent:
				summary.StudentsAttending++
			}
		case model.StatusNo:
			summary.No++
		case model.StatusMaybe:
			summary.Maybe++
		}
	}
	return &summary, nil
}

package roster

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strconv"

	"github.com/hitoshi/teamcal/internal/model"
	"github.com/hitoshi/teamcal/internal/repository"
)

// SyncOptions は同期の挙動を制御する。
type SyncOptions struct {
	// AllowEmpty がtrueの場合、空の外部ソースでも同期を許可する。
	// 全メンバーの削除を意味するため、デフォルトでは拒否される。
	AllowEmpty bool
}

// Plan は適用前の同期計画を表す。
// 検証ゲートを通過した変更セットとその要約を保持する。
type Plan struct {
	ChangeSet repository.PersonChangeSet
	Summary   Summary
}

// MetricsRecorder は名簿同期の結果を記録するメトリクス収集。
type MetricsRecorder interface {
	RecordRosterChanges(op string, count int)
	RecordRosterSyncFailure(reason string)
}

// Service は名簿同期サービスを提供する。
type Service struct {
	personRepo repository.PersonRepository
	logger     *slog.Logger
	metrics    MetricsRecorder
}

// NewService は名簿同期サービスを生成する。metricsはnil可。
func NewService(personRepo repository.PersonRepository, logger *slog.Logger, metrics MetricsRecorder) *Service {
	return &Service{
		personRepo: personRepo,
		logger:     logger,
		metrics:    metrics,
	}
}

// BuildPlan は外部名簿とストアの現状から同期計画を構築する。
// 同一性検証ゲートに不一致があればIdentityConflictErrorを返し、計画は作られない。
// 空の外部ソースはopts.AllowEmptyが指定されない限りErrEmptyRosterで拒否する。
// この段階ではストアへの書き込みは一切行わない。
func (s *Service) BuildPlan(ctx context.Context, external map[int64]ExternalRecord, opts SyncOptions) (*Plan, error) {
	if len(external) == 0 && !opts.AllowEmpty {
		s.recordFailure("empty_roster")
		return nil, ErrEmptyRoster
	}

	persisted, err := s.personRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("メンバー一覧の取得に失敗しました: %w", err)
	}

	// 検証ゲート: 共有IDの名前不一致を全件収集し、1件でもあれば中止する。
	if mismatches := Validate(external, persisted); len(mismatches) > 0 {
		s.recordFailure("identity_conflict")
		return nil, &IdentityConflictError{Mismatches: mismatches}
	}

	plan := buildChangeSet(external, persisted)
	return plan, nil
}

// Apply は同期計画を単一トランザクションでストアに適用する。
// 変更が空の場合は何も書き込まない。
func (s *Service) Apply(ctx context.Context, plan *Plan) error {
	if plan.ChangeSet.IsEmpty() {
		return nil
	}
	if err := s.personRepo.ApplyChangeSet(ctx, plan.ChangeSet); err != nil {
		s.recordFailure("apply")
		return fmt.Errorf("名簿変更の適用に失敗しました: %w", err)
	}

	if s.metrics != nil {
		s.metrics.RecordRosterChanges("delete", plan.Summary.Deleted)
		s.metrics.RecordRosterChanges("update", plan.Summary.Updated)
		s.metrics.RecordRosterChanges("insert", plan.Summary.Inserted)
	}
	return nil
}

func (s *Service) recordFailure(reason string) {
	if s.metrics != nil {
		s.metrics.RecordRosterSyncFailure(reason)
	}
}

// Sync は外部名簿との同期を計画・適用の順で実行する。
func (s *Service) Sync(ctx context.Context, external map[int64]ExternalRecord, opts SyncOptions) (*Summary, error) {
	plan, err := s.BuildPlan(ctx, external, opts)
	if err != nil {
		return nil, err
	}
	if err := s.Apply(ctx, plan); err != nil {
		return nil, err
	}

	s.logger.Info("roster sync completed",
		slog.Int("deleted", plan.Summary.Deleted),
		slog.Int("updated", plan.Summary.Updated),
		slog.Int("inserted", plan.Summary.Inserted),
		slog.Bool("no_op", plan.Summary.NoOp),
	)
	return &plan.Summary, nil
}

// buildChangeSet はID集合の三分割から変更セットを構築する。
// ストアのみ→削除、両方→フィールド差分があれば更新、外部のみ→挿入。
func buildChangeSet(external map[int64]ExternalRecord, persisted []*model.Person) *Plan {
	var cs repository.PersonChangeSet
	var summary Summary

	persistedByID := make(map[int64]*model.Person, len(persisted))
	for _, p := range persisted {
		persistedByID[p.ID] = p
	}

	// 削除: ストアにのみ存在するID
	for _, p := range persisted {
		if _, ok := external[p.ID]; !ok {
			cs.DeleteIDs = append(cs.DeleteIDs, p.ID)
		}
	}
	sort.Slice(cs.DeleteIDs, func(i, j int) bool { return cs.DeleteIDs[i] < cs.DeleteIDs[j] })

	// 更新と挿入: 外部ソース側をID順に走査し、決定的な順序を保つ
	ids := make([]int64, 0, len(external))
	for id := range external {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	for _, id := range ids {
		rec := external[id]
		p, ok := persistedByID[id]
		if !ok {
			cs.Inserts = append(cs.Inserts, &model.Person{
				ID:       rec.ID,
				Name:     rec.Name,
				Category: rec.Category,
				Role:     rec.Role,
				Active:   rec.Active,
			})
			continue
		}

		fields := diffFields(rec, p)
		if len(fields) == 0 {
			continue
		}
		cs.Updates = append(cs.Updates, &model.Person{
			ID:       rec.ID,
			Name:     rec.Name,
			Category: rec.Category,
			Role:     rec.Role,
			Active:   rec.Active,
		})
		summary.Changes = append(summary.Changes, PersonChange{
			ID:     rec.ID,
			Name:   rec.Name,
			Fields: fields,
		})
	}

	summary.Deleted = len(cs.DeleteIDs)
	summary.Updated = len(cs.Updates)
	summary.Inserted = len(cs.Inserts)
	summary.NoOp = cs.IsEmpty()

	return &Plan{ChangeSet: cs, Summary: summary}
}

// diffFields は外部レコードと永続化済みメンバーのフィールド差分を列挙する。
// 名前は検証ゲートで一致が保証されるため、差分の対象はtype/role/activeのみ。
func diffFields(rec ExternalRecord, p *model.Person) []FieldChange {
	var fields []FieldChange
	if rec.Category != p.Category {
		fields = append(fields, FieldChange{Field: "type", From: string(p.Category), To: string(rec.Category)})
	}
	if rec.Role != p.Role {
		fields = append(fields, FieldChange{Field: "role", From: p.Role, To: rec.Role})
	}
	if rec.Active != p.Active {
		fields = append(fields, FieldChange{Field: "active", From: strconv.FormatBool(p.Active), To: strconv.FormatBool(rec.Active)})
	}
	return fields
}

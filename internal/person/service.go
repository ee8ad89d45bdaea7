// Package person はメンバーのユースケースを提供する。
//
// メンバー集合の正は外部名簿であり、通常は名簿同期で維持される。
// ここでの個別作成・削除は名簿同期の合間の手動補正のための手段。
package person

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/hitoshi/teamcal/internal/model"
	"github.com/hitoshi/teamcal/internal/repository"
)

// Service はメンバーサービスを提供する。
type Service struct {
	personRepo repository.PersonRepository
	logger     *slog.Logger
}

// NewService はメンバーサービスを生成する。
func NewService(personRepo repository.PersonRepository, logger *slog.Logger) *Service {
	return &Service{
		personRepo: personRepo,
		logger:     logger,
	}
}

// Create はメンバーを作成する。IDは外部名簿の採番に合わせて呼び出し側が指定する。
// 名前の前後空白は名簿CSVと同じ規則で除去される。
func (s *Service) Create(ctx context.Context, person *model.Person) (*model.Person, error) {
	person.Name = strings.TrimSpace(person.Name)
	if person.Name == "" {
		return nil, model.NewInvalidNameError()
	}
	if !person.Category.IsValid() {
		return nil, model.NewInvalidCategoryError(string(person.Category))
	}

	if err := s.personRepo.Create(ctx, person); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, model.NewPersonExistsError(person.ID)
		}
		return nil, fmt.Errorf("メンバーの作成に失敗しました: %w", err)
	}

	s.logger.Info("person created",
		slog.Int64("person_id", person.ID),
		slog.String("name", person.Name),
	)
	return person, nil
}

// List は全メンバーをID昇順で返す。
func (s *Service) List(ctx context.Context) ([]*model.Person, error) {
	persons, err := s.personRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("メンバー一覧の取得に失敗しました: %w", err)
	}
	return persons, nil
}

// Delete は指定IDのメンバーを削除する。
// 関連する出欠回答はストア側でCASCADE削除される。
func (s *Service) Delete(ctx context.Context, id int64) error {
	existing, err := s.personRepo.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("メンバーの取得に失敗しました: %w", err)
	}
	if existing == nil {
		return model.NewPersonNotFoundError(id)
	}

	if err := s.personRepo.DeleteByID(ctx, id); err != nil {
		return fmt.Errorf("メンバーの削除に失敗しました: %w", err)
	}

	s.logger.Info("person deleted", slog.Int64("person_id", id))
	return nil
}

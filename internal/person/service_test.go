package person

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/lib/pq"

	"github.com/hitoshi/teamcal/internal/model"
	"github.com/hitoshi/teamcal/internal/repository"
)

// mockPersonRepo はテスト用のPersonRepositoryモック。
type mockPersonRepo struct {
	findByIDFunc       func(ctx context.Context, id int64) (*model.Person, error)
	listAllFunc        func(ctx context.Context) ([]*model.Person, error)
	createFunc         func(ctx context.Context, person *model.Person) error
	deleteByIDFunc     func(ctx context.Context, id int64) error
	applyChangeSetFunc func(ctx context.Context, cs repository.PersonChangeSet) error
}

func (m *mockPersonRepo) FindByID(ctx context.Context, id int64) (*model.Person, error) {
	return m.findByIDFunc(ctx, id)
}

func (m *mockPersonRepo) ListAll(ctx context.Context) ([]*model.Person, error) {
	return m.listAllFunc(ctx)
}

func (m *mockPersonRepo) Create(ctx context.Context, person *model.Person) error {
	return m.createFunc(ctx, person)
}

func (m *mockPersonRepo) DeleteByID(ctx context.Context, id int64) error {
	return m.deleteByIDFunc(ctx, id)
}

func (m *mockPersonRepo) ApplyChangeSet(ctx context.Context, cs repository.PersonChangeSet) error {
	return m.applyChangeSetFunc(ctx, cs)
}

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func TestCreate(t *testing.T) {
	var created *model.Person
	repo := &mockPersonRepo{
		createFunc: func(ctx context.Context, person *model.Person) error {
			created = person
			return nil
		},
	}

	svc := NewService(repo, testLogger())

	p, err := svc.Create(context.Background(), &model.Person{
		ID:       42,
		Name:     "  Alice  ",
		Category: model.CategoryMentor,
		Role:     "Lead",
		Active:   true,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if created == nil {
		t.Fatal("expected repository Create to be called")
	}
	if p.Name != "Alice" {
		t.Errorf("expected trimmed name, got %q", p.Name)
	}
}

func TestCreate_ValidationErrors(t *testing.T) {
	repo := &mockPersonRepo{
		createFunc: func(ctx context.Context, person *model.Person) error {
			t.Error("Create should not be called for invalid input")
			return nil
		},
	}

	tests := []struct {
		name     string
		person   *model.Person
		wantCode string
	}{
		{
			name:     "blank name",
			person:   &model.Person{ID: 1, Name: "   ", Category: model.CategoryMentor},
			wantCode: model.ErrCodeInvalidName,
		},
		{
			name:     "invalid category",
			person:   &model.Person{ID: 1, Name: "Alice", Category: "teacher"},
			wantCode: model.ErrCodeInvalidCategory,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewService(repo, testLogger())
			_, err := svc.Create(context.Background(), tt.person)

			var apiErr *model.APIError
			if !errors.As(err, &apiErr) {
				t.Fatalf("expected APIError, got %v", err)
			}
			if apiErr.Code != tt.wantCode {
				t.Errorf("expected code %s, got %s", tt.wantCode, apiErr.Code)
			}
		})
	}
}

func TestCreate_DuplicateID(t *testing.T) {
	repo := &mockPersonRepo{
		createFunc: func(ctx context.Context, person *model.Person) error {
			return &pq.Error{Code: "23505"}
		},
	}

	svc := NewService(repo, testLogger())

	_, err := svc.Create(context.Background(), &model.Person{ID: 1, Name: "Alice", Category: model.CategoryMentor})
	var apiErr *model.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != model.ErrCodePersonExists {
		t.Errorf("expected PERSON_EXISTS, got %v", err)
	}
}

func TestDelete_UnknownPerson(t *testing.T) {
	repo := &mockPersonRepo{
		findByIDFunc: func(ctx context.Context, id int64) (*model.Person, error) {
			return nil, nil
		},
	}

	svc := NewService(repo, testLogger())

	err := svc.Delete(context.Background(), 99)
	var apiErr *model.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != model.ErrCodePersonNotFound {
		t.Errorf("expected PERSON_NOT_FOUND, got %v", err)
	}
}

func TestDelete(t *testing.T) {
	deleted := false
	repo := &mockPersonRepo{
		findByIDFunc: func(ctx context.Context, id int64) (*model.Person, error) {
			return &model.Person{ID: id, Name: "Alice", Category: model.CategoryMentor}, nil
		},
		deleteByIDFunc: func(ctx context.Context, id int64) error {
			deleted = true
			return nil
		},
	}

	svc := NewService(repo, testLogger())

	if err := svc.Delete(context.Background(), 42); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if !deleted {
		t.Error("expected repository DeleteByID to be called")
	}
}

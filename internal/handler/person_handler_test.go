package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/hitoshi/teamcal/internal/model"
)

func TestCreatePerson(t *testing.T) {
	personSvc := &mockPersonService{
		createFunc: func(ctx context.Context, person *model.Person) (*model.Person, error) {
			return person, nil
		},
	}
	router := newTestRouter(&mockEventService{}, &mockResponseService{}, personSvc)

	body := `{"id":42,"user":"Alice","type":"mentor","role":"Lead","active":true}`
	req := httptest.NewRequest(http.MethodPost, "/api/users", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp personResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if resp.ID != 42 || resp.Name != "Alice" || resp.Category != "mentor" {
		t.Errorf("unexpected response: %+v", resp)
	}
}

func TestCreatePerson_DuplicateMapsTo409(t *testing.T) {
	personSvc := &mockPersonService{
		createFunc: func(ctx context.Context, person *model.Person) (*model.Person, error) {
			return nil, model.NewPersonExistsError(person.ID)
		},
	}
	router := newTestRouter(&mockEventService{}, &mockResponseService{}, personSvc)

	body := `{"id":42,"user":"Alice","type":"mentor"}`
	req := httptest.NewRequest(http.MethodPost, "/api/users", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusConflict {
		t.Errorf("expected 409, got %d", rec.Code)
	}
}

func TestListPersons(t *testing.T) {
	personSvc := &mockPersonService{
		listFunc: func(ctx context.Context) ([]*model.Person, error) {
			return []*model.Person{
				{ID: 1, Name: "Alice", Category: model.CategoryMentor, Active: true},
				{ID: 2, Name: "Bob", Category: model.CategoryStudent, Active: false},
			}, nil
		},
	}
	router := newTestRouter(&mockEventService{}, &mockResponseService{}, personSvc)

	req := httptest.NewRequest(http.MethodGet, "/api/users", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var results []personResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &results); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if len(results) != 2 || results[1].Name != "Bob" {
		t.Errorf("unexpected results: %+v", results)
	}
}

func TestDeletePerson_NotFound(t *testing.T) {
	personSvc := &mockPersonService{
		deleteFunc: func(ctx context.Context, id int64) error {
			return model.NewPersonNotFoundError(id)
		},
	}
	router := newTestRouter(&mockEventService{}, &mockResponseService{}, personSvc)

	req := httptest.NewRequest(http.MethodDelete, "/api/users/99", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}

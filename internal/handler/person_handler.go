package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/hitoshi/teamcal/internal/model"
)

// PersonServiceInterface はメンバーハンドラーが必要とするサービスインターフェース。
type PersonServiceInterface interface {
	// Create はメンバーを作成する。
	Create(ctx context.Context, person *model.Person) (*model.Person, error)
	// List は全メンバーをID昇順で返す。
	List(ctx context.Context) ([]*model.Person, error)
	// Delete は指定IDのメンバーを削除する。
	Delete(ctx context.Context, id int64) error
}

// PersonHandler はメンバー管理のHTTPハンドラー。
type PersonHandler struct {
	service PersonServiceInterface
}

// NewPersonHandler はPersonHandlerを生成する。
func NewPersonHandler(service PersonServiceInterface) *PersonHandler {
	return &PersonHandler{service: service}
}

// personRequest はメンバー作成リクエストのボディ。
// フィールド名は名簿CSVのカラムに合わせる。
type personRequest struct {
	ID       int64  `json:"id"`
	Name     string `json:"user"`
	Category string `json:"type"`
	Role     string `json:"role"`
	Active   bool   `json:"active"`
}

// personResponse はメンバー情報のAPIレスポンス。
type personResponse struct {
	ID       int64  `json:"id"`
	Name     string `json:"user"`
	Category string `json:"type"`
	Role     string `json:"role"`
	Active   bool   `json:"active"`
}

// CreatePerson はメンバー作成を処理する。
// POST /api/users
func (h *PersonHandler) CreatePerson(w http.ResponseWriter, r *http.Request) {
	var req personRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequestBody(w)
		return
	}

	created, err := h.service.Create(r.Context(), &model.Person{
		ID:       req.ID,
		Name:     req.Name,
		Category: model.Category(req.Category),
		Role:     req.Role,
		Active:   req.Active,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(toPersonResponse(created))
}

// ListPersons はメンバー一覧を取得する。
// GET /api/users
func (h *PersonHandler) ListPersons(w http.ResponseWriter, r *http.Request) {
	persons, err := h.service.List(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	results := make([]personResponse, len(persons))
	for i, p := range persons {
		results[i] = toPersonResponse(p)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(results)
}

// DeletePerson はメンバー削除を処理する。
// DELETE /api/users/:id
func (h *PersonHandler) DeletePerson(w http.ResponseWriter, r *http.Request) {
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

// toPersonResponse はドメインのPersonをAPIレスポンス型に変換する。
func toPersonResponse(p *model.Person) personResponse {
	return personResponse{
		ID:       p.ID,
		Name:     p.Name,
		Category: string(p.Category),
		Role:     p.Role,
		Active:   p.Active,
	}
}
